// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bind

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/yeetrun/sigil/pkg/grammar"
)

// Coerce converts a raw token to t. Numbers become float64 and booleans
// bool; when the text does not parse the raw string is returned unchanged.
func Coerce(t grammar.Type, raw string) any {
	switch t {
	case grammar.Number:
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return f
		}
		return raw
	case grammar.Boolean:
		if b, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
			return b
		}
		return raw
	case grammar.Array:
		return []string{raw}
	}
	return raw
}

// CoerceValue converts an already-decoded value, such as a schema default or
// a value read from a config file, to t. Slices are always copied.
func CoerceValue(t grammar.Type, v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return Coerce(t, x)
	case []string:
		return coerceList(t, slices.Clone(x))
	case []any:
		list := make([]string, len(x))
		for i, e := range x {
			list[i] = formatScalar(e)
		}
		return coerceList(t, list)
	case bool:
		switch t {
		case grammar.String:
			return strconv.FormatBool(x)
		case grammar.Array:
			return []string{strconv.FormatBool(x)}
		}
		return x
	}
	if f, ok := toFloat(v); ok {
		switch t {
		case grammar.String:
			return formatScalar(v)
		case grammar.Array:
			return []string{formatScalar(v)}
		case grammar.Boolean:
			return f != 0
		}
		return f
	}
	return v
}

// coerceList converts a decoded list. Scalar types take the last element.
func coerceList(t grammar.Type, list []string) any {
	if t == grammar.Array {
		return list
	}
	if len(list) == 0 {
		return nil
	}
	return Coerce(t, list[len(list)-1])
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}

func formatScalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

// looksNumeric reports whether s is a signed number such as "-5" or "-.5".
func looksNumeric(s string) bool {
	if len(s) < 2 || (s[0] != '-' && s[0] != '+') {
		return false
	}
	if c := s[1]; c != '.' && (c < '0' || c > '9') {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
