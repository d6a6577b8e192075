// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"cmp"
	"errors"
	"slices"
	"sync"
)

// Factory creates a new Surface with the given options.
type Factory func(opts Options) (Surface, error)

// Backend errors. Lookups wrap them in a *BackendError.
var (
	ErrNoBackendAvailable = errors.New("surface: no backend available")
	ErrBackendNotFound    = errors.New("not registered")
	ErrBackendUnavailable = errors.New("not available on this system")
	ErrNoAlpha            = errors.New("no alpha channel")
)

// BackendError reports why a named backend could not allocate.
type BackendError struct {
	Name string
	Err  error
}

func (e *BackendError) Error() string {
	return "surface: backend " + e.Name + ": " + e.Err.Error()
}

func (e *BackendError) Unwrap() error { return e.Err }

// Backend is a named source of surfaces.
type Backend struct {
	Name string

	// Priority orders automatic selection, highest first. Equal
	// priorities fall back to name order. The built-in "image" backend
	// uses 10.
	Priority int

	// Alpha reports whether the backend can keep an alpha channel.
	// Requests with Options.Alpha set never reach a backend without it.
	Alpha bool

	Factory Factory

	// Available reports whether the backend works on this system.
	// nil means always.
	Available func() bool
}

// IsAvailable reports whether b can allocate on this system.
func (b Backend) IsAvailable() bool {
	return b.Available == nil || b.Available()
}

// check returns why b cannot serve opts, or nil.
func (b Backend) check(opts Options) error {
	switch {
	case !b.IsAvailable():
		return &BackendError{Name: b.Name, Err: ErrBackendUnavailable}
	case opts.Alpha && !b.Alpha:
		return &BackendError{Name: b.Name, Err: ErrNoAlpha}
	}
	return nil
}

// Registry holds surface backends by name. The zero value is an empty
// registry ready for use.
//
// Hosts plug in their own pixel storage (shared memory, toolkit bitmaps)
// by registering a backend and handing its Factory to the orchestrator.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

// Register adds b, replacing any backend with the same name.
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.backends == nil {
		r.backends = make(map[string]Backend)
	}
	r.backends[b.Name] = b
}

// Lookup returns the backend registered as name.
func (r *Registry) Lookup(name string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[name]
	return b, ok
}

// Backends returns every registered backend in selection order.
func (r *Registry) Backends() []Backend {
	r.mu.RLock()
	bs := make([]Backend, 0, len(r.backends))
	for _, b := range r.backends {
		bs = append(bs, b)
	}
	r.mu.RUnlock()

	slices.SortFunc(bs, func(a, b Backend) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return bs
}

// New allocates a surface from the best backend that can serve opts. A
// backend whose factory fails hands over to the next one; the last factory
// error is returned if none succeeds.
func (r *Registry) New(opts Options) (Surface, error) {
	var lastErr error
	for _, b := range r.Backends() {
		if b.check(opts) != nil {
			continue
		}
		s, err := b.Factory(opts)
		if err == nil {
			return s, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoBackendAvailable
}

// NewByName allocates a surface from the backend registered as name.
func (r *Registry) NewByName(name string, opts Options) (Surface, error) {
	b, ok := r.Lookup(name)
	if !ok {
		return nil, &BackendError{Name: name, Err: ErrBackendNotFound}
	}
	if err := b.check(opts); err != nil {
		return nil, err
	}
	return b.Factory(opts)
}

var defaultRegistry Registry

// Register adds b to the default registry.
func Register(b Backend) { defaultRegistry.Register(b) }

// Lookup returns the default registry's backend named name.
func Lookup(name string) (Backend, bool) { return defaultRegistry.Lookup(name) }

// Backends lists the default registry's backends in selection order.
func Backends() []Backend { return defaultRegistry.Backends() }

// DefaultFactory allocates from the best backend of the default registry.
func DefaultFactory(opts Options) (Surface, error) {
	return defaultRegistry.New(opts)
}

// FactoryByName returns a Factory bound to the named backend of the
// default registry. The name is resolved on every call.
func FactoryByName(name string) Factory {
	return func(opts Options) (Surface, error) {
		return defaultRegistry.NewByName(name, opts)
	}
}

func newImage(opts Options) (Surface, error) {
	s, err := NewImageSurfaceWithOptions(opts)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func init() {
	Register(Backend{Name: "image", Priority: 10, Alpha: true, Factory: newImage})
}
