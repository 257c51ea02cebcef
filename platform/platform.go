// Package platform collects typed services of actions and registers them on the
// HTTP router, CLI task runner and GraphQL engine at startup. It never runs an action.
package platform

import (
	"log"
	"sync"
)

// Option configures a Platform.
type Option func(*Platform)

// WithRouter sets the HTTP dispatcher used by Init(TypeHTTP).
func WithRouter(r Router) Option {
	return func(p *Platform) { p.router = r }
}

// WithTaskRunner sets the factory for the CLI dispatcher. It is called once, on the
// first CLI init.
func WithTaskRunner(factory func() TaskRunner) Option {
	return func(p *Platform) { p.newRunner = factory }
}

func WithLogger(l *log.Logger) Option {
	return func(p *Platform) { p.logger = l }
}

// Platform is the service registry and startup orchestrator.
type Platform struct {
	keys     []string
	services map[string]*Service
	// most recently added service per type; Init only registers these
	byType map[Type]*Service

	router     Router
	newRunner  func() TaskRunner
	runner     TaskRunner
	runnerOnce sync.Once

	logger       *log.Logger
	initializers map[Type]func()
}

// New returns an empty Platform.
func New(opts ...Option) *Platform {
	p := &Platform{
		services: make(map[string]*Service),
		byType:   make(map[Type]*Service),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.initializers = map[Type]func(){
		TypeHTTP:    p.initHTTP,
		TypeCLI:     p.initCLI,
		TypeGraphQL: p.initGraphQL,
	}
	return p
}

// AddService stores svc under key, replacing any previous entry, and makes it the
// service Init uses for svc's type.
func (p *Platform) AddService(key string, svc *Service) *Platform {
	if _, ok := p.services[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.services[key] = svc
	p.byType[svc.Type()] = svc
	return p
}

// RemoveService deletes key. A missing key is a no-op. If the removed service was
// its type's representative, that type has none afterwards.
func (p *Platform) RemoveService(key string) *Platform {
	svc, ok := p.services[key]
	if !ok {
		return p
	}
	delete(p.services, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
	if p.byType[svc.Type()] == svc {
		delete(p.byType, svc.Type())
	}
	return p
}

func (p *Platform) Service(key string) (*Service, bool) {
	svc, ok := p.services[key]
	return svc, ok
}

// Services returns a copy of the key → Service mapping.
func (p *Platform) Services() map[string]*Service {
	out := make(map[string]*Service, len(p.services))
	for k, v := range p.services {
		out[k] = v
	}
	return out
}

// Keys returns service keys in the order they were first added.
func (p *Platform) Keys() []string { return append([]string(nil), p.keys...) }

// Representative returns the service Init registers for t.
func (p *Platform) Representative(t Type) (*Service, bool) {
	svc, ok := p.byType[t]
	return svc, ok
}

// TaskRunner returns the CLI runner, or nil before the first CLI init.
func (p *Platform) TaskRunner() TaskRunner { return p.runner }

// Init registers the actions of the selected type. TypeAll, and any type without
// an initializer, runs HTTP, CLI and GraphQL in that order. Init is not idempotent.
func (p *Platform) Init(t Type) {
	if fn, ok := p.initializers[t]; ok {
		fn()
		return
	}
	for _, typ := range []Type{TypeHTTP, TypeCLI, TypeGraphQL} {
		p.initializers[typ]()
	}
}

func (p *Platform) initHTTP() {
	svc, ok := p.byType[TypeHTTP]
	if !ok {
		return
	}
	if p.router == nil {
		p.logger.Printf("platform: no HTTP router configured, skipping %d actions", svc.Len())
		return
	}
	for _, a := range svc.Actions() {
		route := p.router.AddRoute(a.HTTPMethod(), a.HTTPPath())
		route.
			Groups(a.Groups()).
			Alias(a.HTTPAliasPath(), a.HTTPAliasParams())
		for _, prm := range a.Params() {
			route.Param(prm.Key, prm.Default, prm.Validator, prm.Description, prm.Optional, prm.Injections)
		}
		for _, name := range a.Injections() {
			route.Inject(name)
		}
		for _, l := range a.Labels() {
			route.Label(l.Key, l.Value)
		}
		route.Action(a.Handler())
	}
	p.logger.Printf("platform: registered %d HTTP routes", svc.Len())
}

func (p *Platform) initCLI() {
	if p.newRunner == nil {
		if svc, ok := p.byType[TypeCLI]; ok {
			p.logger.Printf("platform: no CLI task runner configured, skipping %d tasks", svc.Len())
		}
		return
	}
	p.runnerOnce.Do(func() {
		p.runner = p.newRunner()
	})
	svc, ok := p.byType[TypeCLI]
	if !ok {
		return
	}
	for key, a := range svc.All() {
		task := p.runner.Task(key)
		task.
			Desc(a.Description()).
			Action(a.Handler())
		for _, prm := range a.Params() {
			task.Param(prm.Key, prm.Default, prm.Validator, prm.Description, prm.Optional, prm.Injections)
		}
		for _, l := range a.Labels() {
			task.Label(l.Key, l.Value)
		}
	}
	p.logger.Printf("platform: registered %d CLI tasks", svc.Len())
}

// initGraphQL is reserved. GraphQL services are stored and listed but nothing is
// registered on an engine yet.
func (p *Platform) initGraphQL() {
	if svc, ok := p.byType[TypeGraphQL]; ok {
		p.logger.Printf("platform: GraphQL registration not supported, %d actions left unregistered", svc.Len())
	}
}
