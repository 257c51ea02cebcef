package platform

import "iter"

// Type tags a Service with the dispatcher it targets.
type Type string

const (
	TypeHTTP    Type = "http"
	TypeCLI     Type = "cli"
	TypeGraphQL Type = "graphql"

	// TypeAll is only meaningful as an Init selector.
	TypeAll Type = "all"
)

// ParseType maps an init selector to a Type. Matching is case-sensitive and
// anything unrecognised selects TypeAll.
func ParseType(s string) Type {
	switch t := Type(s); t {
	case TypeHTTP, TypeCLI, TypeGraphQL:
		return t
	default:
		return TypeAll
	}
}

// Service is a typed, insertion-ordered collection of Actions.
type Service struct {
	typ     Type
	keys    []string
	actions map[string]*Action
}

// NewService returns an empty Service of the given type. The type never changes.
func NewService(t Type) *Service {
	return &Service{typ: t, actions: make(map[string]*Action)}
}

func (s *Service) Type() Type { return s.typ }

// Add stores a under key. Replacing an existing key keeps its position.
func (s *Service) Add(key string, a *Action) *Service {
	if _, ok := s.actions[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.actions[key] = a
	return s
}

func (s *Service) Remove(key string) *Service {
	if _, ok := s.actions[key]; !ok {
		return s
	}
	delete(s.actions, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
	return s
}

func (s *Service) Action(key string) (*Action, bool) {
	a, ok := s.actions[key]
	return a, ok
}

func (s *Service) Len() int { return len(s.keys) }

func (s *Service) Keys() []string { return append([]string(nil), s.keys...) }

// Actions returns the actions in insertion order, keys elided.
func (s *Service) Actions() []*Action {
	out := make([]*Action, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, s.actions[k])
	}
	return out
}

// All iterates (key, Action) pairs in insertion order.
func (s *Service) All() iter.Seq2[string, *Action] {
	return func(yield func(string, *Action) bool) {
		for _, k := range s.keys {
			if !yield(k, s.actions[k]) {
				return
			}
		}
	}
}
