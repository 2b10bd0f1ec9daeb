// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

// Package models defines the value types shared by the store, the user
// service and the API layer.
package models

import "github.com/mzheludkov/pinpoint/internal/jsonx"

// TimestampLayout formats dot timestamps for both storage and API
// responses.
const TimestampLayout = "2006-01-02T15:04:05"

// Dot is one recorded hit-check. Coordinates stay in their original
// decimal string form so the exact user input round-trips.
type Dot struct {
	X          string
	Y          string
	R          string
	Hit        bool
	ExecTimeMS int64
	Timestamp  string
}

// ToJSON projects the dot into the API response shape.
func (d Dot) ToJSON() jsonx.Value {
	return jsonx.Object(
		jsonx.Member{Key: "x", Value: jsonx.String(d.X)},
		jsonx.Member{Key: "y", Value: jsonx.String(d.Y)},
		jsonx.Member{Key: "r", Value: jsonx.String(d.R)},
		jsonx.Member{Key: "hit", Value: jsonx.Bool(d.Hit)},
		jsonx.Member{Key: "execTime", Value: jsonx.Number(float64(d.ExecTimeMS))},
		jsonx.Member{Key: "time", Value: jsonx.String(d.Timestamp)},
	)
}

// DotsToJSON projects a dot history, oldest first.
func DotsToJSON(dots []Dot) jsonx.Value {
	items := make([]jsonx.Value, len(dots))
	for i, d := range dots {
		items[i] = d.ToJSON()
	}
	return jsonx.Array(items...)
}

// User is an account with its dot history.
type User struct {
	Login        string
	PasswordHash string
	Dots         []Dot
}

// StoreTask is one queued asynchronous dot insert.
type StoreTask struct {
	Login string
	Dot   Dot
}
