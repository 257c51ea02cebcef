// Package params turns raw request or flag values into platform.Args.
package params

import (
	"errors"
	"fmt"

	"platform.GO/platform"
)

var (
	ErrMissing   = errors.New("param is required")
	ErrInvalid   = errors.New("invalid param")
	ErrInjection = errors.New("injection unavailable")
)

// Resources resolves injection names.
type Resources interface {
	Resolve(name string) (interface{}, error)
}

// Spec is one param as received by a dispatcher.
type Spec struct {
	Key         string
	Default     interface{}
	Validator   platform.Validator
	Description string
	Optional    bool
	Injections  []string
}

// Error reports which param (or injection) failed.
type Error struct {
	Param string
	Err   error
}

func (e *Error) Error() string { return e.Param + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Resolve builds the args for one invocation. Specs are checked in order; raw
// values that are absent or empty fall back to the default when the param is
// optional. injections are resolved into the args under their own names.
func Resolve(specs []Spec, raw map[string]interface{}, res Resources, injections []string) (platform.Args, error) {
	args := make(platform.Args, len(specs)+len(injections))
	for _, s := range specs {
		v, ok := raw[s.Key]
		if !ok || isEmpty(v) {
			if !s.Optional {
				return nil, &Error{Param: s.Key, Err: ErrMissing}
			}
			args[s.Key] = s.Default
		} else {
			if s.Validator != nil && !s.Validator.Valid(v) {
				return nil, &Error{Param: s.Key, Err: fmt.Errorf("%w: %s", ErrInvalid, s.Validator.Description())}
			}
			args[s.Key] = v
		}
		for _, name := range s.Injections {
			if err := inject(args, res, name); err != nil {
				return nil, &Error{Param: s.Key, Err: err}
			}
		}
	}
	for _, name := range injections {
		if err := inject(args, res, name); err != nil {
			return nil, &Error{Param: name, Err: err}
		}
	}
	return args, nil
}

func inject(args platform.Args, res Resources, name string) error {
	if _, done := args[name]; done {
		return nil
	}
	if res == nil {
		return fmt.Errorf("%w: %s", ErrInjection, name)
	}
	v, err := res.Resolve(name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInjection, err)
	}
	args[name] = v
	return nil
}

func isEmpty(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	}
	return false
}
