package graphqlserver

import (
	"fmt"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"

	"platform.GO/graphql"
	"platform.GO/platform"
)

// RootResolver is the root for graphql-go. It only reads the platform.
type RootResolver struct {
	Platform *platform.Platform
}

// ServicesArgs matches the services query arguments.
type ServicesArgs struct {
	Type *string
}

func (r *RootResolver) Services(args ServicesArgs) []*ServiceResolver {
	services := r.Platform.Services()
	out := make([]*ServiceResolver, 0, len(services))
	for _, key := range r.Platform.Keys() {
		svc := services[key]
		if args.Type != nil && string(svc.Type()) != *args.Type {
			continue
		}
		out = append(out, &ServiceResolver{key: key, svc: svc})
	}
	return out
}

// ServiceArgs matches the service query arguments.
type ServiceArgs struct {
	Key string
}

func (r *RootResolver) Service(args ServiceArgs) *ServiceResolver {
	svc, ok := r.Platform.Service(args.Key)
	if !ok {
		return nil
	}
	return &ServiceResolver{key: args.Key, svc: svc}
}

// RepresentativeArgs matches the representative query arguments.
type RepresentativeArgs struct {
	Type string
}

func (r *RootResolver) Representative(args RepresentativeArgs) *ServiceResolver {
	svc, ok := r.Platform.Representative(platform.Type(args.Type))
	if !ok {
		return nil
	}
	// a representative may have been replaced in the registry under its key
	for key, candidate := range r.Platform.Services() {
		if candidate == svc {
			return &ServiceResolver{key: key, svc: svc}
		}
	}
	return &ServiceResolver{svc: svc}
}

type ServiceResolver struct {
	key string
	svc *platform.Service
}

func (s *ServiceResolver) Key() string  { return s.key }
func (s *ServiceResolver) Type() string { return string(s.svc.Type()) }

func (s *ServiceResolver) Actions() []*ActionResolver {
	out := make([]*ActionResolver, 0, s.svc.Len())
	for key, a := range s.svc.All() {
		out = append(out, &ActionResolver{key: key, a: a})
	}
	return out
}

type ActionResolver struct {
	key string
	a   *platform.Action
}

func (r *ActionResolver) Key() string           { return r.key }
func (r *ActionResolver) HTTPMethod() string    { return r.a.HTTPMethod() }
func (r *ActionResolver) HTTPPath() string      { return r.a.HTTPPath() }
func (r *ActionResolver) HTTPAliasPath() string { return r.a.HTTPAliasPath() }
func (r *ActionResolver) Description() string   { return r.a.Description() }
func (r *ActionResolver) Groups() []string      { return nonNil(r.a.Groups()) }
func (r *ActionResolver) Injections() []string  { return nonNil(r.a.Injections()) }

func (r *ActionResolver) Params() []*ParamResolver {
	params := r.a.Params()
	out := make([]*ParamResolver, len(params))
	for i := range params {
		out[i] = &ParamResolver{p: params[i]}
	}
	return out
}

func (r *ActionResolver) Labels() []*LabelResolver {
	labels := r.a.Labels()
	out := make([]*LabelResolver, len(labels))
	for i := range labels {
		out[i] = &LabelResolver{l: labels[i]}
	}
	return out
}

type ParamResolver struct {
	p platform.Param
}

func (r *ParamResolver) Key() string          { return r.p.Key }
func (r *ParamResolver) Description() string  { return r.p.Description }
func (r *ParamResolver) Optional() bool       { return r.p.Optional }
func (r *ParamResolver) Injections() []string { return nonNil(r.p.Injections) }

func (r *ParamResolver) Default() *string {
	if r.p.Default == nil {
		return nil
	}
	s := fmt.Sprint(r.p.Default)
	return &s
}

func (r *ParamResolver) Validator() *string {
	if r.p.Validator == nil {
		return nil
	}
	s := r.p.Validator.Description()
	return &s
}

type LabelResolver struct {
	l platform.Label
}

func (r *LabelResolver) Key() string   { return r.l.Key }
func (r *LabelResolver) Value() string { return fmt.Sprint(r.l.Value) }

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// NewSchema parses the schema and returns a graphql-go Schema over p.
func NewSchema(p *platform.Platform) (*gql.Schema, error) {
	return gql.ParseSchema(graphql.Schema(), &RootResolver{Platform: p})
}

// Handler returns an http.Handler for GraphQL (relay format).
func Handler(schema *gql.Schema) *relay.Handler {
	return &relay.Handler{Schema: schema}
}
