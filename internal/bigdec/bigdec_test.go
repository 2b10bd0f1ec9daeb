// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

package bigdec

import (
	"errors"
	"testing"
)

func TestParseAndString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"-0", "0"},
		{"+0", "0"},
		{"0.0", "0"},
		{"-0.000", "0"},
		{"1", "1"},
		{"-1", "-1"},
		{"+7", "7"},
		{"000123.4500", "123.45"},
		{"0000.00100", "0.001"},
		{"  42  ", "42"},
		{"\t-3.14\n", "-3.14"},
		{".5", "0.5"},
		{"5.", "5"},
		{"-.25", "-0.25"},
		{"123456789012345678901234567890", "123456789012345678901234567890"},
		{"0.000000000000000000001", "0.000000000000000000001"},
		{"10.10", "10.1"},
	}
	for _, tt := range tests {
		d, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got := d.String(); got != tt.want {
			t.Errorf("Parse(%q).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		"",
		"   ",
		"+",
		"-",
		".",
		"+.",
		"1.2.3",
		"1a2",
		"--10",
		"1,23",
		"1 2 3",
		"abc",
		"1e5",
		"0x10",
	}
	for _, in := range bad {
		if _, err := Parse(in); !errors.Is(err, ErrInvalidNumber) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidNumber", in, err)
		}
	}
}

func TestFromInt64(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{-1, "-1"},
		{42, "42"},
		{-1000, "-1000"},
		{9223372036854775807, "9223372036854775807"},
		{-9223372036854775808, "-9223372036854775808"},
	}
	for _, tt := range tests {
		if got := FromInt64(tt.in).String(); got != tt.want {
			t.Errorf("FromInt64(%d).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAdd(t *testing.T) {
	tests := []struct {
		a, b, want string
	}{
		{"1", "2", "3"},
		{"0.1", "0.2", "0.3"},
		{"1.5", "2.5", "4"},
		{"-1", "1", "0"},
		{"-2.5", "1.5", "-1"},
		{"999", "1", "1000"},
		{"0.999", "0.001", "1"},
		{"123.456", "0.544", "124"},
		{"-0.5", "-0.5", "-1"},
		{"0", "0", "0"},
		{"99999999999999999999", "1", "100000000000000000000"},
	}
	for _, tt := range tests {
		a, b := MustParse(tt.a), MustParse(tt.b)
		if got := a.Add(b).String(); got != tt.want {
			t.Errorf("%s + %s = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSub(t *testing.T) {
	tests := []struct {
		a, b, want string
	}{
		{"3", "2", "1"},
		{"2", "3", "-1"},
		{"0.3", "0.1", "0.2"},
		{"1", "0.999", "0.001"},
		{"-1", "-1", "0"},
		{"-2.5", "-1.5", "-1"},
		{"100000000000000000000", "1", "99999999999999999999"},
		{"5", "5.000", "0"},
	}
	for _, tt := range tests {
		a, b := MustParse(tt.a), MustParse(tt.b)
		if got := a.Sub(b).String(); got != tt.want {
			t.Errorf("%s - %s = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMul(t *testing.T) {
	tests := []struct {
		a, b, want string
	}{
		{"2", "3", "6"},
		{"0.5", "0.5", "0.25"},
		{"-0.5", "0.5", "-0.25"},
		{"-2", "-3", "6"},
		{"12.34", "0", "0"},
		{"0", "-7", "0"},
		{"99", "99", "9801"},
		{"1.1", "1.1", "1.21"},
		{"123456789", "987654321", "121932631112635269"},
		{"0.001", "0.001", "0.000001"},
	}
	for _, tt := range tests {
		a, b := MustParse(tt.a), MustParse(tt.b)
		if got := a.Mul(b).String(); got != tt.want {
			t.Errorf("%s * %s = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDiv(t *testing.T) {
	tests := []struct {
		a, b      string
		precision int
		want      string
	}{
		{"6", "3", 5, "2"},
		{"1", "2", 5, "0.5"},
		{"1", "3", 5, "0.33333"},
		{"2", "3", 5, "0.66666"},
		{"-1", "3", 5, "-0.33333"},
		{"1", "-3", 5, "-0.33333"},
		{"-1", "-3", 5, "0.33333"},
		{"10", "4", 3, "2.5"},
		{"1", "8", 3, "0.125"},
		{"7", "7", 0, "1"},
		{"1", "4", 0, "0"},
		{"0", "9", 5, "0"},
		{"0.25", "0.5", 4, "0.5"},
		{"123.45", "0.001", 2, "123450"},
	}
	for _, tt := range tests {
		a, b := MustParse(tt.a), MustParse(tt.b)
		got, err := a.DivPrec(b, tt.precision)
		if err != nil {
			t.Errorf("%s / %s: unexpected error %v", tt.a, tt.b, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("%s / %s (prec %d) = %s, want %s", tt.a, tt.b, tt.precision, got, tt.want)
		}
	}
}

func TestDivByZero(t *testing.T) {
	for _, denom := range []string{"0", "0.000", "-0"} {
		_, err := MustParse("1").Div(MustParse(denom))
		if !errors.Is(err, ErrDivisionByZero) {
			t.Errorf("1 / %s error = %v, want ErrDivisionByZero", denom, err)
		}
	}
}

// Truncated division must leave a residual 0 <= |a - q*b| < |b| * 10^-precision.
func TestDivResidual(t *testing.T) {
	tests := []struct {
		a, b      string
		precision int
	}{
		{"1", "3", 10},
		{"22", "7", 12},
		{"-355", "113", 8},
		{"0.1", "0.7", 15},
		{"123456.789", "0.0321", 6},
	}
	for _, tt := range tests {
		a, b := MustParse(tt.a), MustParse(tt.b)
		q, err := a.DivPrec(b, tt.precision)
		if err != nil {
			t.Fatalf("%s / %s: %v", tt.a, tt.b, err)
		}
		resid := a.Sub(q.Mul(b))
		if resid.Sign() < 0 {
			resid = resid.Neg()
		}
		ulp := MustParse("1")
		for i := 0; i < tt.precision; i++ {
			ulp = ulp.Mul(MustParse("0.1"))
		}
		babs := b
		if babs.Sign() < 0 {
			babs = babs.Neg()
		}
		bound := babs.Mul(ulp)
		if !resid.Less(bound) {
			t.Errorf("%s / %s prec %d: residual %s not below %s", tt.a, tt.b, tt.precision, resid, bound)
		}
	}
}

func TestAlgebraicIdentities(t *testing.T) {
	vals := []string{"0", "1", "-1", "0.5", "-3.25", "123456.789", "-0.0001", "99999999"}
	for _, as := range vals {
		for _, bs := range vals {
			a, b := MustParse(as), MustParse(bs)
			if !a.Add(b).Equal(b.Add(a)) {
				t.Errorf("a+b != b+a for a=%s b=%s", as, bs)
			}
			if !a.Sub(a).IsZero() {
				t.Errorf("a-a != 0 for a=%s", as)
			}
			if !a.Mul(b).Equal(b.Mul(a)) {
				t.Errorf("a*b != b*a for a=%s b=%s", as, bs)
			}
			for _, cs := range vals {
				c := MustParse(cs)
				if !a.Add(b).Add(c).Equal(a.Add(b.Add(c))) {
					t.Errorf("(a+b)+c != a+(b+c) for a=%s b=%s c=%s", as, bs, cs)
				}
				if !a.Mul(b).Mul(c).Equal(a.Mul(b.Mul(c))) {
					t.Errorf("(a*b)*c != a*(b*c) for a=%s b=%s c=%s", as, bs, cs)
				}
			}
		}
	}
	one, zero := MustParse("1"), Zero()
	for _, as := range vals {
		a := MustParse(as)
		if !a.Mul(one).Equal(a) {
			t.Errorf("a*1 != a for a=%s", as)
		}
		if !a.Mul(zero).IsZero() {
			t.Errorf("a*0 != 0 for a=%s", as)
		}
		if !a.Add(zero).Equal(a) {
			t.Errorf("a+0 != a for a=%s", as)
		}
	}
}

func TestCmp(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"0", "0", 0},
		{"0", "-0", 0},
		{"1", "2", -1},
		{"2", "1", 1},
		{"-1", "1", -1},
		{"-2", "-1", -1},
		{"-1", "-2", 1},
		{"0.5", "0.50", 0},
		{"1.05", "1.5", -1},
		{"10", "9.999999", 1},
		{"-0.001", "0", -1},
		{"100", "99", 1},
	}
	for _, tt := range tests {
		a, b := MustParse(tt.a), MustParse(tt.b)
		if got := a.Cmp(b); got != tt.want {
			t.Errorf("Cmp(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestComparisonHelpers(t *testing.T) {
	a, b := MustParse("1.5"), MustParse("2")
	if !a.Less(b) || !a.LessEq(b) || a.Greater(b) || a.GreaterEq(b) {
		t.Error("ordering helpers disagree for 1.5 vs 2")
	}
	if !a.LessEq(a) || !a.GreaterEq(a) || !a.Equal(a) {
		t.Error("reflexive helpers disagree for 1.5")
	}
}

func TestNeg(t *testing.T) {
	if got := MustParse("3.5").Neg().String(); got != "-3.5" {
		t.Errorf("Neg(3.5) = %s, want -3.5", got)
	}
	if got := MustParse("-3.5").Neg().String(); got != "3.5" {
		t.Errorf("Neg(-3.5) = %s, want 3.5", got)
	}
	if !Zero().Neg().IsZero() {
		t.Error("Neg(0) is not zero")
	}
}

func TestImmutability(t *testing.T) {
	a := MustParse("1.25")
	b := MustParse("0.75")
	_ = a.Add(b)
	_ = a.Sub(b)
	_ = a.Mul(b)
	if _, err := a.Div(b); err != nil {
		t.Fatalf("Div: %v", err)
	}
	_ = a.Neg()
	if a.String() != "1.25" || b.String() != "0.75" {
		t.Errorf("operands mutated: a=%s b=%s", a, b)
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse on invalid input did not panic")
		}
	}()
	MustParse("not a number")
}
