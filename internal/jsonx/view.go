// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

package jsonx

import "fmt"

// ObjectView is a read-only typed accessor over an object value.
// Typed getters fail with ErrMissingKey when the key is absent and
// with ErrTypeMismatch when the stored variant differs; the GetOpt
// variants report absence instead of failing in both cases.
type ObjectView struct {
	v Value
}

// NewObjectView wraps an object value. Any other variant fails with
// ErrTypeMismatch.
func NewObjectView(v Value) (ObjectView, error) {
	if v.Kind() != KindObject {
		return ObjectView{}, fmt.Errorf("%w: want object, have %s", ErrTypeMismatch, v.Kind())
	}
	return ObjectView{v: v}, nil
}

// Get returns the raw value stored under name.
func (ov ObjectView) Get(name string) (Value, error) {
	v, ok := ov.v.Get(name)
	if !ok {
		return Value{}, fmt.Errorf("%w: %s", ErrMissingKey, name)
	}
	return v, nil
}

// Has reports whether name is present.
func (ov ObjectView) Has(name string) bool {
	_, ok := ov.v.Get(name)
	return ok
}

func (ov ObjectView) typed(name string, kind Kind) (Value, error) {
	v, err := ov.Get(name)
	if err != nil {
		return Value{}, err
	}
	if v.Kind() != kind {
		return Value{}, fmt.Errorf("%w: %s is %s, want %s", ErrTypeMismatch, name, v.Kind(), kind)
	}
	return v, nil
}

// GetString returns the string stored under name.
func (ov ObjectView) GetString(name string) (string, error) {
	v, err := ov.typed(name, KindString)
	if err != nil {
		return "", err
	}
	return v.s, nil
}

// GetNumber returns the number stored under name.
func (ov ObjectView) GetNumber(name string) (float64, error) {
	v, err := ov.typed(name, KindNumber)
	if err != nil {
		return 0, err
	}
	return v.n, nil
}

// GetBool returns the boolean stored under name.
func (ov ObjectView) GetBool(name string) (bool, error) {
	v, err := ov.typed(name, KindBool)
	if err != nil {
		return false, err
	}
	return v.b, nil
}

// GetArray returns the array stored under name.
func (ov ObjectView) GetArray(name string) ([]Value, error) {
	v, err := ov.typed(name, KindArray)
	if err != nil {
		return nil, err
	}
	return v.a, nil
}

// GetObject returns a view of the nested object stored under name.
func (ov ObjectView) GetObject(name string) (ObjectView, error) {
	v, err := ov.typed(name, KindObject)
	if err != nil {
		return ObjectView{}, err
	}
	return ObjectView{v: v}, nil
}

// GetOptString returns the string under name, or ok=false when the key
// is absent or holds another variant.
func (ov ObjectView) GetOptString(name string) (string, bool) {
	v, ok := ov.v.Get(name)
	if !ok || v.Kind() != KindString {
		return "", false
	}
	return v.s, true
}

// GetOptNumber returns the number under name, or ok=false when the key
// is absent or holds another variant.
func (ov ObjectView) GetOptNumber(name string) (float64, bool) {
	v, ok := ov.v.Get(name)
	if !ok || v.Kind() != KindNumber {
		return 0, false
	}
	return v.n, true
}

// GetOptBool returns the boolean under name, or ok=false when the key
// is absent or holds another variant.
func (ov ObjectView) GetOptBool(name string) (bool, bool) {
	v, ok := ov.v.Get(name)
	if !ok || v.Kind() != KindBool {
		return false, false
	}
	return v.b, true
}

// ObjectMut is a mutable accessor over an object value held elsewhere.
type ObjectMut struct {
	v *Value
}

// NewObjectMut wraps a pointer to an object value. Any other variant
// fails with ErrTypeMismatch.
func NewObjectMut(v *Value) (ObjectMut, error) {
	if v.Kind() != KindObject {
		return ObjectMut{}, fmt.Errorf("%w: want object, have %s", ErrTypeMismatch, v.Kind())
	}
	return ObjectMut{v: v}, nil
}

// Set stores val under name, replacing any previous member.
func (om ObjectMut) Set(name string, val Value) { om.v.set(name, val) }

// SetString stores a string member.
func (om ObjectMut) SetString(name, s string) { om.v.set(name, String(s)) }

// SetNumber stores a number member.
func (om ObjectMut) SetNumber(name string, n float64) { om.v.set(name, Number(n)) }

// SetBool stores a boolean member.
func (om ObjectMut) SetBool(name string, b bool) { om.v.set(name, Bool(b)) }

// Erase removes name and reports whether it was present.
func (om ObjectMut) Erase(name string) bool { return om.v.erase(name) }

// View returns a read-only view of the current state.
func (om ObjectMut) View() ObjectView { return ObjectView{v: *om.v} }
