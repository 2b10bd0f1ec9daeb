// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

package jsonx

import "fmt"

// Field is one requirement of a flat object schema.
type Field struct {
	Name     string
	Kind     Kind
	Optional bool
}

// ValidateObject checks v against the given field requirements. A
// required field that is absent fails with "missing <name>"; a present
// field of another variant fails with "wrong type for <name>". Extra
// members are allowed.
func ValidateObject(v Value, fields []Field) error {
	if v.Kind() != KindObject {
		return fmt.Errorf("%w: want object, have %s", ErrTypeMismatch, v.Kind())
	}
	for _, f := range fields {
		got, ok := v.Get(f.Name)
		if !ok {
			if f.Optional {
				continue
			}
			return fmt.Errorf("%w: missing %s", ErrMissingKey, f.Name)
		}
		if got.Kind() != f.Kind {
			return fmt.Errorf("%w: wrong type for %s", ErrTypeMismatch, f.Name)
		}
	}
	return nil
}
