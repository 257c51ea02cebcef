package platform

import (
	"context"

	"github.com/mitchellh/mapstructure"
)

// Callback is the work an Action performs. Args carries resolved params and injections.
type Callback func(ctx context.Context, args Args) (any, error)

// Args holds the values a dispatcher resolved for one invocation.
type Args map[string]any

// Decode copies args into out (a pointer to struct or map). Strings are converted
// to the target field type, so "5" decodes into an int field.
func (a Args) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "param",
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(a))
}

// Validator checks a raw param value. Dispatchers call it, the Platform never does.
type Validator interface {
	Valid(value any) bool
	Description() string
}

// Param describes one named input of an Action.
type Param struct {
	Key         string
	Default     any
	Validator   Validator
	Description string
	Optional    bool
	Injections  []string
}

// Label is an opaque key/value annotation.
type Label struct {
	Key   string
	Value any
}

// Action is a single registrable unit of work. Setters return the Action for chaining.
type Action struct {
	httpMethod      string
	httpPath        string
	httpAliasPath   string
	httpAliasParams map[string]any
	desc            string
	params          []Param
	groups          []string
	injections      []string
	labels          []Label
	callback        Callback
}

// NewAction returns an empty Action.
func NewAction() *Action {
	return &Action{httpAliasParams: map[string]any{}}
}

func (a *Action) SetHTTPMethod(method string) *Action {
	a.httpMethod = method
	return a
}

func (a *Action) SetHTTPPath(path string) *Action {
	a.httpPath = path
	return a
}

// SetHTTPAlias sets a second path the route answers on, with params applied as defaults.
func (a *Action) SetHTTPAlias(path string, params map[string]any) *Action {
	a.httpAliasPath = path
	a.httpAliasParams = make(map[string]any, len(params))
	for k, v := range params {
		a.httpAliasParams[k] = v
	}
	return a
}

func (a *Action) Desc(desc string) *Action {
	a.desc = desc
	return a
}

// Param adds a param. A key that already exists is replaced in place.
func (a *Action) Param(key string, def any, v Validator, description string, optional bool, injections ...string) *Action {
	p := Param{
		Key:         key,
		Default:     def,
		Validator:   v,
		Description: description,
		Optional:    optional,
		Injections:  append([]string(nil), injections...),
	}
	for i := range a.params {
		if a.params[i].Key == key {
			a.params[i] = p
			return a
		}
	}
	a.params = append(a.params, p)
	return a
}

func (a *Action) Group(groups ...string) *Action {
	a.groups = appendUnique(a.groups, groups...)
	return a
}

func (a *Action) Inject(names ...string) *Action {
	a.injections = appendUnique(a.injections, names...)
	return a
}

// Label sets a label. Re-setting a key keeps its original position.
func (a *Action) Label(key string, value any) *Action {
	for i := range a.labels {
		if a.labels[i].Key == key {
			a.labels[i].Value = value
			return a
		}
	}
	a.labels = append(a.labels, Label{Key: key, Value: value})
	return a
}

func (a *Action) Callback(cb Callback) *Action {
	a.callback = cb
	return a
}

func (a *Action) HTTPMethod() string { return a.httpMethod }

func (a *Action) HTTPPath() string { return a.httpPath }

func (a *Action) HTTPAliasPath() string { return a.httpAliasPath }

// HTTPAliasParams returns a copy of the alias params.
func (a *Action) HTTPAliasParams() map[string]any {
	out := make(map[string]any, len(a.httpAliasParams))
	for k, v := range a.httpAliasParams {
		out[k] = v
	}
	return out
}

func (a *Action) Description() string { return a.desc }

// Params returns the params in declared order.
func (a *Action) Params() []Param { return append([]Param(nil), a.params...) }

func (a *Action) Groups() []string { return append([]string(nil), a.groups...) }

func (a *Action) Injections() []string { return append([]string(nil), a.injections...) }

// Labels returns the labels in declared order.
func (a *Action) Labels() []Label { return append([]Label(nil), a.labels...) }

// LabelValue looks up a single label.
func (a *Action) LabelValue(key string) (any, bool) {
	for _, l := range a.labels {
		if l.Key == key {
			return l.Value, true
		}
	}
	return nil, false
}

func (a *Action) Handler() Callback { return a.callback }

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, existing := range list {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			list = append(list, v)
		}
	}
	return list
}
