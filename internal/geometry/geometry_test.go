// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

package geometry

import (
	"errors"
	"testing"

	"github.com/mzheludkov/pinpoint/internal/bigdec"
)

func TestHitTable(t *testing.T) {
	c := NewChecker()

	tests := []struct {
		name    string
		x, y, r string
		want    bool
	}{
		// Quarter disc, r/2 = 1.
		{"disc center", "0", "0", "2", true},
		{"disc interior", "0.5", "0.5", "2", true},
		{"disc boundary axis", "1", "0", "2", true},
		{"disc arc point", "0.6", "0.8", "2", true},
		{"just outside arc", "0.7071", "0.7072", "2", false},
		{"disc corner outside", "1", "1", "2", false},

		// Rectangle, x in [-2, 0], y in [0, 1].
		{"rect interior", "-1", "0.5", "2", true},
		{"rect far corner", "-2", "1", "2", true},
		{"rect left of edge", "-2.0001", "0.5", "2", false},
		{"rect above edge", "-1", "1.0001", "2", false},

		// Triangle, x in [-1, 0], y in [-(2x+2), 0].
		{"tri interior", "-0.5", "-0.5", "2", true},
		{"tri vertex", "-1", "0", "2", true},
		{"tri bottom vertex", "0", "-2", "2", true},
		{"tri hypotenuse", "-0.5", "-1", "2", true},
		{"tri below hypotenuse", "-0.5", "-1.0001", "2", false},
		{"tri left of range", "-1.0001", "-0.1", "2", false},

		// Nowhere near.
		{"far away", "100", "100", "2", false},
		{"fourth quadrant outside", "1", "-1", "2", false},

		// Radius sign rules.
		{"zero radius origin", "0", "0", "0", false},
		{"zero radius elsewhere", "1", "1", "0", false},
		{"negative radius abs", "-1", "0.5", "-2", true},
		{"negative radius miss", "100", "100", "-2", false},

		// Exactness at decimal boundaries.
		{"exact rect y edge", "-0.1", "0.05", "0.1", true},
		{"hair above rect y edge", "-0.1", "0.050000000000000001", "0.1", false},
	}

	for _, tt := range tests {
		got, err := c.Hit(tt.x, tt.y, tt.r)
		if err != nil {
			t.Errorf("%s: Hit error %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: Hit(%s, %s, %s) = %v, want %v", tt.name, tt.x, tt.y, tt.r, got, tt.want)
		}
	}
}

func TestHitParseErrors(t *testing.T) {
	c := NewChecker()
	cases := [][3]string{
		{"abc", "0", "1"},
		{"0", "1..2", "1"},
		{"0", "0", ""},
	}
	for _, tc := range cases {
		if _, err := c.Hit(tc[0], tc[1], tc[2]); !errors.Is(err, bigdec.ErrInvalidNumber) {
			t.Errorf("Hit(%q, %q, %q) err = %v, want ErrInvalidNumber", tc[0], tc[1], tc[2], err)
		}
	}
}

func TestHitDecMatchesHit(t *testing.T) {
	c := NewChecker()
	x := bigdec.MustParse("-0.5")
	y := bigdec.MustParse("-0.5")
	r := bigdec.MustParse("2")
	if !c.HitDec(x, y, r) {
		t.Error("HitDec(-0.5, -0.5, 2) = false, want true")
	}
}
