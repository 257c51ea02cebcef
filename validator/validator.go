// Package validator provides common platform.Validator implementations. Numeric
// validators accept numeric strings as well, since HTTP and CLI values arrive as text.
package validator

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Func adapts a function to platform.Validator.
type Func struct {
	Desc string
	Fn   func(value any) bool
}

func (f Func) Valid(value any) bool { return f.Fn(value) }

func (f Func) Description() string { return f.Desc }

// Text accepts strings up to max runes. max <= 0 means no limit.
func Text(max int) Func {
	desc := "Value must be a valid string"
	if max > 0 {
		desc = fmt.Sprintf("Value must be a valid string and no longer than %d chars", max)
	}
	return Func{Desc: desc, Fn: func(v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		return max <= 0 || utf8.RuneCountInString(s) <= max
	}}
}

// Integer accepts whole numbers.
func Integer() Func {
	return Func{Desc: "Value must be a valid integer", Fn: func(v any) bool {
		_, ok := toInt(v)
		return ok
	}}
}

// Range accepts whole numbers within [min, max].
func Range(min, max int64) Func {
	return Func{Desc: fmt.Sprintf("Value must be a valid range between %d and %d", min, max), Fn: func(v any) bool {
		n, ok := toInt(v)
		return ok && n >= min && n <= max
	}}
}

// Boolean accepts bools and "true"/"false"/"1"/"0".
func Boolean() Func {
	return Func{Desc: "Value must be a valid boolean", Fn: func(v any) bool {
		switch x := v.(type) {
		case bool:
			return true
		case string:
			_, err := strconv.ParseBool(x)
			return err == nil
		}
		return false
	}}
}

// WhiteList accepts only the listed strings.
func WhiteList(values ...string) Func {
	return Func{Desc: "Value must be one of (" + strings.Join(values, ", ") + ")", Fn: func(v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		for _, allowed := range values {
			if s == allowed {
				return true
			}
		}
		return false
	}}
}

// Wildcard accepts anything.
func Wildcard() Func {
	return Func{Desc: "Every input is valid", Fn: func(any) bool { return true }}
}

func toInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case float64:
		return int64(x), x == float64(int64(x))
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n, err == nil
	}
	return 0, false
}
