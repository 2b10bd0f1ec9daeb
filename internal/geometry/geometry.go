// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

// Package geometry decides whether a point lands inside the composite
// check area. All arithmetic is exact decimal, so boundary points are
// classified without float rounding surprises.
package geometry

import (
	"fmt"

	"github.com/mzheludkov/pinpoint/internal/bigdec"
)

// The area for radius r is the union of three figures, boundaries
// inclusive:
//
//   - quarter disc of radius r/2 in the quadrant x >= 0, y >= 0
//   - rectangle -r <= x <= 0, 0 <= y <= r/2
//   - right triangle below the axis: -r/2 <= x <= 0, -(2x+r) <= y <= 0
//
// A zero radius has no area. A negative radius is treated as its
// absolute value.

var half = bigdec.MustParse("0.5")

// Checker classifies points against the area.
type Checker struct{}

// NewChecker returns a ready Checker.
func NewChecker() *Checker { return &Checker{} }

// Hit parses the decimal strings and classifies the point. The error
// wraps bigdec.ErrInvalidNumber when any input fails to parse.
func (c *Checker) Hit(xs, ys, rs string) (bool, error) {
	x, err := bigdec.Parse(xs)
	if err != nil {
		return false, fmt.Errorf("x: %w", err)
	}
	y, err := bigdec.Parse(ys)
	if err != nil {
		return false, fmt.Errorf("y: %w", err)
	}
	r, err := bigdec.Parse(rs)
	if err != nil {
		return false, fmt.Errorf("r: %w", err)
	}
	return c.HitDec(x, y, r), nil
}

// HitDec classifies an already-parsed point.
func (c *Checker) HitDec(x, y, r bigdec.Dec) bool {
	if r.IsZero() {
		return false
	}
	if r.Sign() < 0 {
		r = r.Neg()
	}
	return inQuarterDisc(x, y, r) || inRectangle(x, y, r) || inTriangle(x, y, r)
}

func inQuarterDisc(x, y, r bigdec.Dec) bool {
	zero := bigdec.Zero()
	halfR := r.Mul(half)
	if x.Less(zero) || x.Greater(halfR) || y.Less(zero) || y.Greater(halfR) {
		return false
	}
	return x.Mul(x).Add(y.Mul(y)).LessEq(halfR.Mul(halfR))
}

func inRectangle(x, y, r bigdec.Dec) bool {
	zero := bigdec.Zero()
	return x.LessEq(zero) && x.GreaterEq(r.Neg()) &&
		y.GreaterEq(zero) && y.LessEq(r.Mul(half))
}

func inTriangle(x, y, r bigdec.Dec) bool {
	zero := bigdec.Zero()
	two := bigdec.FromInt64(2)
	yMin := x.Mul(two).Add(r).Neg()
	return x.GreaterEq(r.Mul(half).Neg()) && x.LessEq(zero) &&
		y.LessEq(zero) && y.GreaterEq(yMin)
}
