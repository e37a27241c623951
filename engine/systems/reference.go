package systems

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spaghettifunk/soma/engine/core"
)

// Dependency records one resource another resource pulled in at load time,
// by media kind and cache key. Dependencies are released in reverse
// acquisition order when the owner's reference count reaches zero.
type Dependency struct {
	Kind string
	Key  string
}

// Loader is the pluggable per-kind load/unload contract. The graph never
// interprets media bytes itself; it only counts references and routes
// loads/unloads through its loader.
type Loader[S, T any] interface {
	// SupportsCount reports whether the loader accepts n source media items.
	SupportsCount(n int) bool
	// Load realizes the resource from the given source media. It returns the
	// dependency references it opened, in acquisition order. On failure it
	// must have rolled back any dependency it already acquired.
	Load(key string, media []S, paths []string) (T, []Dependency, error)
	// Unload frees the backend resources. Called exactly once per load.
	Unload(resource T) error
}

// Releaser releases one reference to a key owned by another media kind's
// graph. Every Graph implements it.
type Releaser interface {
	Kind() string
	ReleaseKey(key string) error
}

// ReleaseRegistry routes cascading unloads to the graph owning each media
// kind. One registry is shared by all graphs of an asset pipeline.
type ReleaseRegistry struct {
	mu     sync.RWMutex
	byKind map[string]Releaser
}

func NewReleaseRegistry() *ReleaseRegistry {
	return &ReleaseRegistry{byKind: make(map[string]Releaser)}
}

func (r *ReleaseRegistry) Register(rel Releaser) error {
	if rel == nil || rel.Kind() == "" {
		return fmt.Errorf("releaser registration: %w", core.ErrInvalidArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byKind[rel.Kind()]; exists {
		return fmt.Errorf("media kind '%s' already registered: %w", rel.Kind(), core.ErrInvalidArgument)
	}
	r.byKind[rel.Kind()] = rel
	return nil
}

func (r *ReleaseRegistry) release(kind, key string) error {
	r.mu.RLock()
	rel, ok := r.byKind[kind]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("media kind '%s': %w", kind, core.ErrUnknownHandle)
	}
	return rel.ReleaseKey(key)
}

// Ref is a live reference to a cached resource. ID is the engine-assigned
// identity of the underlying entry; it is monotonically increasing and never
// reused across resources.
type Ref[T any] struct {
	ID       uint64
	Resource T
}

type entry[T any] struct {
	key      string
	id       uint64
	resource T
	refCount int
	deps     []Dependency
}

// Graph is a reference-counted media cache, generic over the source media
// type S and the loaded resource type T. The first reference to an uncached
// key performs the single authoritative load; subsequent references return
// the same handle with an incremented count. The entry is evicted and the
// loader's unload invoked only when the count reaches zero.
//
// One mutex guards the table and is held across the load, so concurrent
// reference calls for the same uncached key are serialized behind the first
// and can never race into duplicate loads. Loaders may reference other
// kinds' graphs while the lock is held; dependency edges never point back at
// the same kind, so the per-graph locks cannot deadlock.
type Graph[S, T any] struct {
	kind     string
	loader   Loader[S, T]
	ids      *core.IdentityAllocator
	registry *ReleaseRegistry

	mu      sync.Mutex
	entries map[string]*entry[T]
	byID    map[uint64]*entry[T]
}

// NewGraph wires a graph for one media kind and registers it with the
// release registry so dependents of other kinds can cascade into it.
func NewGraph[S, T any](kind string, loader Loader[S, T], ids *core.IdentityAllocator, registry *ReleaseRegistry) (*Graph[S, T], error) {
	if kind == "" || loader == nil || ids == nil || registry == nil {
		return nil, fmt.Errorf("func NewGraph - kind, loader, allocator and registry are all required: %w", core.ErrInvalidArgument)
	}
	g := &Graph[S, T]{
		kind:     kind,
		loader:   loader,
		ids:      ids,
		registry: registry,
		entries:  make(map[string]*entry[T]),
		byID:     make(map[uint64]*entry[T]),
	}
	if err := registry.Register(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Kind returns the media kind this graph owns.
func (g *Graph[S, T]) Kind() string {
	return g.kind
}

// Reference returns the cached resource for key, loading it on the first
// reference. A failed load caches nothing and leaves no dependency counted.
func (g *Graph[S, T]) Reference(key string, media []S, paths []string) (Ref[T], error) {
	var zero Ref[T]
	if key == "" {
		return zero, fmt.Errorf("empty cache key: %w", core.ErrInvalidArgument)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if e, ok := g.entries[key]; ok {
		e.refCount++
		return Ref[T]{ID: e.id, Resource: e.resource}, nil
	}

	if !g.loader.SupportsCount(len(media)) {
		return zero, fmt.Errorf("%s '%s' with %d media items: %w", g.kind, key, len(media), core.ErrUnsupportedMediaCount)
	}

	resource, deps, err := g.loader.Load(key, media, paths)
	if err != nil {
		return zero, err
	}

	e := &entry[T]{
		key:      key,
		id:       g.ids.Next(),
		resource: resource,
		refCount: 1,
		deps:     deps,
	}
	g.entries[key] = e
	g.byID[e.id] = e

	core.LogDebug("%s '%s' loaded, id=%d, dependencies=%d", g.kind, key, e.id, len(deps))
	return Ref[T]{ID: e.id, Resource: e.resource}, nil
}

// Unreference drops one reference. When the count reaches zero the entry's
// dependencies are released in reverse acquisition order, the loader's
// unload is invoked, and the key becomes evictable; a future reference
// triggers a fresh load. Unreferencing an untracked handle is a reported
// programming error.
func (g *Graph[S, T]) Unreference(ref Ref[T]) error {
	g.mu.Lock()
	e, ok := g.byID[ref.ID]
	if !ok {
		g.mu.Unlock()
		return fmt.Errorf("%s handle %d: %w", g.kind, ref.ID, core.ErrUnknownHandle)
	}

	e.refCount--
	if e.refCount > 0 {
		g.mu.Unlock()
		return nil
	}

	delete(g.entries, e.key)
	delete(g.byID, e.id)
	g.mu.Unlock()

	// Best-effort cascade: a dependency that cannot be released is collected
	// and reported, not allowed to leak the rest.
	var errs []error
	for i := len(e.deps) - 1; i >= 0; i-- {
		d := e.deps[i]
		if err := g.registry.release(d.Kind, d.Key); err != nil {
			errs = append(errs, fmt.Errorf("%s '%s' dependency %s '%s': %w", g.kind, e.key, d.Kind, d.Key, err))
		}
	}
	if err := g.loader.Unload(e.resource); err != nil {
		errs = append(errs, fmt.Errorf("%s '%s' unload: %w", g.kind, e.key, err))
	}

	core.LogDebug("%s '%s' unloaded, id=%d", g.kind, e.key, e.id)
	return errors.Join(errs...)
}

// ReleaseKey drops one reference by cache key; used by dependent graphs
// during cascading unloads.
func (g *Graph[S, T]) ReleaseKey(key string) error {
	g.mu.Lock()
	e, ok := g.entries[key]
	if !ok {
		g.mu.Unlock()
		return fmt.Errorf("%s '%s': %w", g.kind, key, core.ErrUnknownHandle)
	}
	ref := Ref[T]{ID: e.id, Resource: e.resource}
	g.mu.Unlock()

	return g.Unreference(ref)
}

// RefCount reports the live reference count for a key, 0 if uncached.
func (g *Graph[S, T]) RefCount(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if e, ok := g.entries[key]; ok {
		return e.refCount
	}
	return 0
}
