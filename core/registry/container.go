package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownResource is returned when no factory is registered under a name.
var ErrUnknownResource = errors.New("unknown resource")

// Factory builds a resource on first use.
type Factory func() (interface{}, error)

type resource struct {
	once    sync.Once
	factory Factory
	value   interface{}
	err     error
}

// Container resolves injection names to resources. Each factory runs at most once.
type Container struct {
	mu        sync.RWMutex
	resources map[string]*resource
}

func NewContainer() *Container {
	return &Container{resources: make(map[string]*resource)}
}

// Set registers a factory under name, replacing any earlier one.
func (c *Container) Set(name string, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources[name] = &resource{factory: factory}
}

// SetValue registers an already built resource.
func (c *Container) SetValue(name string, v interface{}) {
	c.Set(name, func() (interface{}, error) { return v, nil })
}

func (c *Container) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.resources[name]
	return ok
}

// Resolve returns the resource for name, building it on first call. A factory
// error is cached and returned on every later call.
func (c *Container) Resolve(name string) (interface{}, error) {
	c.mu.RLock()
	res, ok := c.resources[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, name)
	}
	res.once.Do(func() {
		res.value, res.err = res.factory()
	})
	if res.err != nil {
		return nil, fmt.Errorf("resource %s: %w", name, res.err)
	}
	return res.value, nil
}

// Names returns registered resource names, sorted.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.resources))
	for n := range c.resources {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
