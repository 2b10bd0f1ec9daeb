// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

package jsonx

import (
	"strconv"
	"strings"
)

// Encode renders v in compact form with no whitespace between tokens.
func (v Value) Encode() string {
	var b strings.Builder
	encode(&b, v, -1, 0)
	return b.String()
}

// EncodePretty renders v with each nesting level indented by indent
// spaces and a space after every object colon.
func (v Value) EncodePretty(indent int) string {
	if indent < 0 {
		indent = 0
	}
	var b strings.Builder
	encode(&b, v, indent, 0)
	return b.String()
}

func encode(b *strings.Builder, v Value, indent, depth int) {
	switch v.kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		if v.b {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KindNumber:
		b.WriteString(formatNumber(v.n))
	case KindString:
		encodeString(b, v.s)
	case KindArray:
		if len(v.a) == 0 {
			b.WriteString("[]")
			return
		}
		b.WriteByte('[')
		for i, e := range v.a {
			if i > 0 {
				b.WriteByte(',')
			}
			newline(b, indent, depth+1)
			encode(b, e, indent, depth+1)
		}
		newline(b, indent, depth)
		b.WriteByte(']')
	case KindObject:
		if len(v.o) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteByte('{')
		for i, m := range v.o {
			if i > 0 {
				b.WriteByte(',')
			}
			newline(b, indent, depth+1)
			encodeString(b, m.Key)
			b.WriteByte(':')
			if indent >= 0 {
				b.WriteByte(' ')
			}
			encode(b, m.Value, indent, depth+1)
		}
		newline(b, indent, depth)
		b.WriteByte('}')
	}
}

func newline(b *strings.Builder, indent, depth int) {
	if indent < 0 {
		return
	}
	b.WriteByte('\n')
	for i := 0; i < indent*depth; i++ {
		b.WriteByte(' ')
	}
}

// formatNumber emits the shortest decimal form that round-trips the
// double exactly.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

const hexDigits = "0123456789abcdef"

// encodeString quotes s, escaping the mandatory set and every byte
// below 0x20 as \u00XX. Multi-byte UTF-8 sequences pass through.
func encodeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			b.WriteString(`\"`)
		case c == '\\':
			b.WriteString(`\\`)
		case c == '\b':
			b.WriteString(`\b`)
		case c == '\f':
			b.WriteString(`\f`)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		case c < 0x20:
			b.WriteString(`\u00`)
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0x0F])
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
}
