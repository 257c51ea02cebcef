package validator

import "testing"

func TestValidators(t *testing.T) {
	tests := []struct {
		name  string
		v     Func
		value any
		want  bool
	}{
		{"text ok", Text(5), "hello", true},
		{"text too long", Text(5), "hello!", false},
		{"text unlimited", Text(0), "anything at all", true},
		{"text not string", Text(5), 5, false},
		{"integer int", Integer(), 42, true},
		{"integer string", Integer(), "42", true},
		{"integer json float", Integer(), float64(42), true},
		{"integer fraction", Integer(), 4.2, false},
		{"integer junk", Integer(), "4x", false},
		{"range in", Range(1, 10), "10", true},
		{"range out", Range(1, 10), 11, false},
		{"bool", Boolean(), true, true},
		{"bool string", Boolean(), "false", true},
		{"bool junk", Boolean(), "maybe", false},
		{"whitelist hit", WhiteList("a", "b"), "b", true},
		{"whitelist miss", WhiteList("a", "b"), "c", false},
		{"wildcard", Wildcard(), nil, true},
	}
	for _, tt := range tests {
		if got := tt.v.Valid(tt.value); got != tt.want {
			t.Errorf("%s: Valid(%v) = %v, want %v", tt.name, tt.value, got, tt.want)
		}
	}
}

func TestDescriptions(t *testing.T) {
	if got := WhiteList("a", "b").Description(); got != "Value must be one of (a, b)" {
		t.Errorf("WhiteList description = %q", got)
	}
	if got := Range(1, 3).Description(); got != "Value must be a valid range between 1 and 3" {
		t.Errorf("Range description = %q", got)
	}
}
