// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

package models

import (
	"testing"

	"github.com/mzheludkov/pinpoint/internal/jsonx"
)

func TestDotToJSON(t *testing.T) {
	d := Dot{
		X:          "-0.5",
		Y:          "1.25",
		R:          "2",
		Hit:        true,
		ExecTimeMS: 3,
		Timestamp:  "2026-08-06T12:00:00",
	}

	v := d.ToJSON()
	want := `{"x":"-0.5","y":"1.25","r":"2","hit":true,"execTime":3,"time":"2026-08-06T12:00:00"}`
	if got := v.Encode(); got != want {
		t.Errorf("Encode = %s, want %s", got, want)
	}
}

func TestDotsToJSON(t *testing.T) {
	dots := []Dot{
		{X: "0", Y: "0", R: "1", Hit: false, Timestamp: "2026-08-06T12:00:00"},
		{X: "1", Y: "0", R: "2", Hit: true, ExecTimeMS: 1, Timestamp: "2026-08-06T12:00:01"},
	}
	v := DotsToJSON(dots)

	arr, ok := v.AsArray()
	if !ok || len(arr) != 2 {
		t.Fatalf("AsArray = %v, %v", arr, ok)
	}
	first, _ := arr[0].Get("x")
	if s, _ := first.AsString(); s != "0" {
		t.Errorf("first x = %q", s)
	}
	hit, _ := arr[1].Get("hit")
	if b, _ := hit.AsBool(); !b {
		t.Error("second hit = false, want true")
	}

	if empty := DotsToJSON(nil); empty.Encode() != "[]" {
		t.Errorf("empty history = %s", empty.Encode())
	}
}

func TestDotJSONRoundTrip(t *testing.T) {
	d := Dot{X: "0.1", Y: "-0.2", R: "3", Hit: false, ExecTimeMS: 42, Timestamp: "2026-01-02T03:04:05"}
	parsed, err := jsonx.Parse(d.ToJSON().Encode())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !jsonx.Equal(parsed, d.ToJSON()) {
		t.Error("round trip not equal")
	}
}
