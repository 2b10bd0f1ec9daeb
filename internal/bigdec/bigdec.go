// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

// Package bigdec implements arbitrary-precision signed decimal arithmetic
// with an explicit scale (the number of fractional digits).
//
// A Dec stores one decimal digit per element, most significant first, which
// keeps Parse and String bit-exact with the textual form. Values are
// immutable: every operation returns a fresh Dec and never mutates its
// receiver or operands.
//
// The canonical form has no leading zeros (zero itself is a single 0 digit
// with scale 0 and positive sign). All constructors and operations normalize
// their results, so two Dec values representing the same number with the
// same scale are deeply equal.
package bigdec

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultDivPrecision is the number of fractional digits produced by Div.
const DefaultDivPrecision = 20

var (
	// ErrInvalidNumber reports a numeral that does not match the accepted
	// grammar: optional surrounding whitespace, optional sign, digits with
	// at most one interior decimal point.
	ErrInvalidNumber = errors.New("bigdec: invalid decimal numeral")

	// ErrDivisionByZero reports division by a zero denominator.
	ErrDivisionByZero = errors.New("bigdec: division by zero")
)

// Dec is an arbitrary-precision signed decimal. The zero value of Dec is
// the number zero and is safe to use.
type Dec struct {
	neg    bool
	digits []int8 // most significant first; nil is treated as the single digit 0
	scale  int
}

// Zero returns the canonical zero value.
func Zero() Dec {
	return Dec{digits: []int8{0}}
}

// Parse converts a textual numeral into a Dec.
//
// Accepted: optional surrounding ASCII whitespace, optional leading '+' or
// '-', one or more digits with at most one '.' between them. Everything
// else fails with an error wrapping ErrInvalidNumber.
func Parse(s string) (Dec, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Dec{}, fmt.Errorf("%w: empty input", ErrInvalidNumber)
	}

	var d Dec
	rest := trimmed
	if rest[0] == '+' || rest[0] == '-' {
		d.neg = rest[0] == '-'
		rest = rest[1:]
	}
	if rest == "" {
		return Dec{}, fmt.Errorf("%w: sign without digits in %q", ErrInvalidNumber, s)
	}

	dot := strings.IndexByte(rest, '.')
	if dot >= 0 {
		if strings.IndexByte(rest[dot+1:], '.') >= 0 {
			return Dec{}, fmt.Errorf("%w: multiple decimal points in %q", ErrInvalidNumber, s)
		}
		d.scale = len(rest) - dot - 1
		rest = rest[:dot] + rest[dot+1:]
	}
	if rest == "" {
		return Dec{}, fmt.Errorf("%w: no digits in %q", ErrInvalidNumber, s)
	}

	d.digits = make([]int8, 0, len(rest))
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if c < '0' || c > '9' {
			return Dec{}, fmt.Errorf("%w: unexpected character %q in %q", ErrInvalidNumber, c, s)
		}
		d.digits = append(d.digits, int8(c-'0'))
	}

	d.normalize()
	return d, nil
}

// MustParse is like Parse but panics on error. Intended for literals.
func MustParse(s string) Dec {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromInt64 converts a signed machine integer into a Dec with scale 0.
func FromInt64(v int64) Dec {
	d := Dec{}
	if v < 0 {
		d.neg = true
	}
	if v == 0 {
		d.digits = []int8{0}
		d.neg = false
		return d
	}
	var buf [20]int8
	n := 0
	u := uint64(v)
	if d.neg {
		u = uint64(-v) // also correct for MinInt64: -v wraps to the magnitude
	}
	for u > 0 {
		buf[n] = int8(u % 10)
		u /= 10
		n++
	}
	d.digits = make([]int8, n)
	for i := 0; i < n; i++ {
		d.digits[i] = buf[n-1-i]
	}
	return d
}

// IsZero reports whether d equals zero.
func (d Dec) IsZero() bool {
	return len(d.digits) == 0 || (len(d.digits) == 1 && d.digits[0] == 0)
}

// Sign returns -1, 0 or +1.
func (d Dec) Sign() int {
	if d.IsZero() {
		return 0
	}
	if d.neg {
		return -1
	}
	return 1
}

// Scale returns the number of fractional digits carried by d.
func (d Dec) Scale() int {
	return d.scale
}

// String renders d as a decimal numeral. Trailing fractional zeros are
// stripped, as is a resulting trailing point; negative zero collapses to "0".
func (d Dec) String() string {
	if d.IsZero() {
		return "0"
	}

	var b strings.Builder
	if d.neg {
		b.WriteByte('-')
	}

	n := len(d.digits)
	intDigits := n - d.scale

	if intDigits <= 0 {
		b.WriteString("0.")
		for i := 0; i < -intDigits; i++ {
			b.WriteByte('0')
		}
		for _, g := range d.digits {
			b.WriteByte(byte('0' + g))
		}
	} else {
		for i := 0; i < intDigits; i++ {
			b.WriteByte(byte('0' + d.digits[i]))
		}
		if d.scale > 0 {
			b.WriteByte('.')
			for i := intDigits; i < n; i++ {
				b.WriteByte(byte('0' + d.digits[i]))
			}
		}
	}

	s := b.String()
	if d.scale > 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "" || s == "-" || s == "-0" {
		return "0"
	}
	return s
}

// Neg returns -d. Negating zero yields canonical zero.
func (d Dec) Neg() Dec {
	if d.IsZero() {
		return Zero()
	}
	out := d.clone()
	out.neg = !d.neg
	return out
}

// Add returns d + o. The result's scale is max(d.scale, o.scale).
func (d Dec) Add(o Dec) Dec {
	return addOrSub(d, o, false)
}

// Sub returns d - o. The result's scale is max(d.scale, o.scale).
func (d Dec) Sub(o Dec) Dec {
	return addOrSub(d, o, true)
}

// Mul returns d * o with scale d.scale + o.scale. Multiplication by zero
// yields canonical zero regardless of operand scales.
func (d Dec) Mul(o Dec) Dec {
	if d.IsZero() || o.IsZero() {
		return Zero()
	}

	a, b := d.digitsOrZero(), o.digitsOrZero()
	n, m := len(a), len(b)
	tmp := make([]int8, n+m)

	for i := n - 1; i >= 0; i-- {
		carry := int8(0)
		for j := m - 1; j >= 0; j-- {
			idx := i + j + 1
			prod := a[i]*b[j] + tmp[idx] + carry
			tmp[idx] = prod % 10
			carry = prod / 10
		}
		tmp[i] += carry
	}

	out := Dec{
		neg:    d.neg != o.neg,
		digits: trimLeading(tmp),
		scale:  d.scale + o.scale,
	}
	if out.IsZero() {
		return Zero()
	}
	return out
}

// Div returns d / o truncated toward zero with DefaultDivPrecision
// fractional digits.
func (d Dec) Div(o Dec) (Dec, error) {
	return d.DivPrec(o, DefaultDivPrecision)
}

// DivPrec returns d / o producing precision fractional digits by long
// division; no rounding is applied to the last digit. Dividing by zero
// fails with ErrDivisionByZero.
func (d Dec) DivPrec(o Dec, precision int) (Dec, error) {
	if o.IsZero() {
		return Dec{}, ErrDivisionByZero
	}
	if precision < 0 {
		precision = 0
	}

	a, b := align(d, o)

	dividend := a.digitsOrZero()
	if precision > 0 {
		padded := make([]int8, 0, len(dividend)+precision)
		padded = append(padded, dividend...)
		for i := 0; i < precision; i++ {
			padded = append(padded, 0)
		}
		dividend = padded
	}
	divisor := b.digitsOrZero()

	quot := make([]int8, 0, len(dividend))
	var rem []int8

	for _, g := range dividend {
		rem = trimLeading(append(rem, g))

		q := int8(0)
		for t := int8(9); t >= 1; t-- {
			m := mulSingle(divisor, t)
			if cmpDigits(m, rem) <= 0 {
				q = t
				rem = subDigits(rem, m)
				break
			}
		}
		quot = append(quot, q)
	}

	out := Dec{
		neg:    d.neg != o.neg,
		digits: trimLeading(quot),
		scale:  precision,
	}
	if out.IsZero() {
		return Zero(), nil
	}
	return out, nil
}

// Cmp compares d and o as real numbers: -1 if d < o, 0 if equal, +1 if d > o.
func (d Dec) Cmp(o Dec) int {
	a, b := align(d, o)

	as, bs := a.Sign(), b.Sign()
	if as != bs {
		if as < bs {
			return -1
		}
		return 1
	}
	if as == 0 {
		return 0
	}

	mag := cmpDigits(a.digitsOrZero(), b.digitsOrZero())
	if as < 0 {
		return -mag
	}
	return mag
}

// Equal reports whether d and o represent the same number.
func (d Dec) Equal(o Dec) bool { return d.Cmp(o) == 0 }

// Less reports d < o.
func (d Dec) Less(o Dec) bool { return d.Cmp(o) < 0 }

// LessEq reports d <= o.
func (d Dec) LessEq(o Dec) bool { return d.Cmp(o) <= 0 }

// Greater reports d > o.
func (d Dec) Greater(o Dec) bool { return d.Cmp(o) > 0 }

// GreaterEq reports d >= o.
func (d Dec) GreaterEq(o Dec) bool { return d.Cmp(o) >= 0 }

func (d Dec) clone() Dec {
	out := Dec{neg: d.neg, scale: d.scale}
	out.digits = append([]int8(nil), d.digitsOrZero()...)
	return out
}

func (d Dec) digitsOrZero() []int8 {
	if len(d.digits) == 0 {
		return []int8{0}
	}
	return d.digits
}

// normalize trims leading zeros and collapses an all-zero magnitude to the
// canonical zero.
func (d *Dec) normalize() {
	d.digits = trimLeading(d.digitsOrZero())
	if d.IsZero() {
		d.digits = []int8{0}
		d.scale = 0
		d.neg = false
	}
}

// align right-pads the shorter-scaled operand with zero digits so both carry
// the same scale. Inputs are not mutated.
func align(a, b Dec) (Dec, Dec) {
	a, b = a.clone(), b.clone()
	switch {
	case a.scale < b.scale:
		diff := b.scale - a.scale
		for i := 0; i < diff; i++ {
			a.digits = append(a.digits, 0)
		}
		a.scale = b.scale
	case b.scale < a.scale:
		diff := a.scale - b.scale
		for i := 0; i < diff; i++ {
			b.digits = append(b.digits, 0)
		}
		b.scale = a.scale
	}
	// Padding a zero operand leaves leading zeros, which cmpDigits and
	// subDigits do not accept.
	a.digits, b.digits = trimLeading(a.digits), trimLeading(b.digits)
	return a, b
}

func addOrSub(a, b Dec, subtract bool) Dec {
	la, lb := align(a, b)
	if subtract {
		lb.neg = !lb.neg
	}

	out := Dec{scale: la.scale}
	if la.neg == lb.neg {
		out.digits = addDigits(la.digitsOrZero(), lb.digitsOrZero())
		out.neg = la.neg
	} else {
		switch cmpDigits(la.digitsOrZero(), lb.digitsOrZero()) {
		case 0:
			return Zero()
		case 1:
			out.digits = subDigits(la.digitsOrZero(), lb.digitsOrZero())
			out.neg = la.neg
		default:
			out.digits = subDigits(lb.digitsOrZero(), la.digitsOrZero())
			out.neg = lb.neg
		}
	}

	out.normalize()
	return out
}

// trimLeading drops leading zero digits, keeping at least one digit.
func trimLeading(ds []int8) []int8 {
	i := 0
	for i+1 < len(ds) && ds[i] == 0 {
		i++
	}
	return ds[i:]
}

// cmpDigits compares two magnitudes by length, then lexicographically.
// Both inputs must be free of leading zeros.
func cmpDigits(a, b []int8) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func addDigits(a, b []int8) []int8 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	res := make([]int8, n)
	carry := int8(0)
	for i := 0; i < n; i++ {
		var da, db int8
		if i < len(a) {
			da = a[len(a)-1-i]
		}
		if i < len(b) {
			db = b[len(b)-1-i]
		}
		sum := da + db + carry
		res[n-1-i] = sum % 10
		carry = sum / 10
	}
	if carry > 0 {
		res = append([]int8{carry}, res...)
	}
	return res
}

// subDigits computes a - b; a must be >= b in magnitude.
func subDigits(a, b []int8) []int8 {
	n := len(a)
	res := make([]int8, n)
	borrow := int8(0)
	for i := 0; i < n; i++ {
		da := a[n-1-i]
		var db int8
		if i < len(b) {
			db = b[len(b)-1-i]
		}
		diff := da - db - borrow
		if diff < 0 {
			diff += 10
			borrow = 1
		} else {
			borrow = 0
		}
		res[n-1-i] = diff
	}
	return trimLeading(res)
}

// mulSingle multiplies a magnitude by one digit.
func mulSingle(a []int8, m int8) []int8 {
	if m == 0 {
		return []int8{0}
	}
	res := make([]int8, len(a)+1)
	carry := int8(0)
	for i := len(a) - 1; i >= 0; i-- {
		prod := a[i]*m + carry
		res[i+1] = prod % 10
		carry = prod / 10
	}
	res[0] = carry
	return trimLeading(res)
}
