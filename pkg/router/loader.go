package router

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
)

// ErrNoModule is returned by a Loader that does not handle a file.
var ErrNoModule = errors.New("no module for file")

// Loader resolves special files into modules. file is the slash-separated
// path relative to the app root. Implementations return an error wrapping
// ErrNoModule for files they do not handle; any other error is a load
// failure and the file is skipped.
type Loader interface {
	LoadPage(fsys fs.FS, file string) (*PageModule, error)
	LoadLayout(fsys fs.FS, file string) (*LayoutModule, error)
	LoadRoute(fsys fs.FS, file string) (*RouteModule, error)
	LoadBoundary(fsys fs.FS, file string, kind BoundaryKind) (*BoundaryModule, error)
}

// Loaders tries each loader in order; the first one that claims a file
// wins.
type Loaders []Loader

// LoadPage implements Loader.
func (ls Loaders) LoadPage(fsys fs.FS, file string) (*PageModule, error) {
	return firstClaim(ls, func(l Loader) (*PageModule, error) { return l.LoadPage(fsys, file) }, file)
}

// LoadLayout implements Loader.
func (ls Loaders) LoadLayout(fsys fs.FS, file string) (*LayoutModule, error) {
	return firstClaim(ls, func(l Loader) (*LayoutModule, error) { return l.LoadLayout(fsys, file) }, file)
}

// LoadRoute implements Loader.
func (ls Loaders) LoadRoute(fsys fs.FS, file string) (*RouteModule, error) {
	return firstClaim(ls, func(l Loader) (*RouteModule, error) { return l.LoadRoute(fsys, file) }, file)
}

// LoadBoundary implements Loader.
func (ls Loaders) LoadBoundary(fsys fs.FS, file string, kind BoundaryKind) (*BoundaryModule, error) {
	return firstClaim(ls, func(l Loader) (*BoundaryModule, error) { return l.LoadBoundary(fsys, file, kind) }, file)
}

func firstClaim[T any](ls Loaders, load func(Loader) (*T, error), file string) (*T, error) {
	for _, l := range ls {
		m, err := load(l)
		if errors.Is(err, ErrNoModule) {
			continue
		}
		return m, err
	}
	return nil, fmt.Errorf("%s: %w", file, ErrNoModule)
}

// Registry is a Loader for modules written in Go. Modules are registered
// under the path of their file relative to the app root, without the
// extension ("blog/[slug]/page"); the file on disk only marks where the
// module sits in the tree and may have any extension.
//
// Registration is expected during program initialization; lookups are
// safe for concurrent use with registration.
type Registry struct {
	mu         sync.RWMutex
	pages      map[string]*PageModule
	layouts    map[string]*LayoutModule
	routes     map[string]*RouteModule
	boundaries map[string]*BoundaryModule
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		pages:      make(map[string]*PageModule),
		layouts:    make(map[string]*LayoutModule),
		routes:     make(map[string]*RouteModule),
		boundaries: make(map[string]*BoundaryModule),
	}
}

// Page registers a page module.
func (r *Registry) Page(key string, m PageModule) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages[registryKey(key)] = &m
	return r
}

// Layout registers a layout module.
func (r *Registry) Layout(key string, m LayoutModule) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layouts[registryKey(key)] = &m
	return r
}

// Route registers an API route module.
func (r *Registry) Route(key string, m RouteModule) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[registryKey(key)] = &m
	return r
}

// Boundary registers a loading, error or not-found module.
func (r *Registry) Boundary(key string, m BoundaryModule) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boundaries[registryKey(key)] = &m
	return r
}

// LoadPage implements Loader.
func (r *Registry) LoadPage(_ fs.FS, file string) (*PageModule, error) {
	return lookup(r, r.pages, file)
}

// LoadLayout implements Loader.
func (r *Registry) LoadLayout(_ fs.FS, file string) (*LayoutModule, error) {
	return lookup(r, r.layouts, file)
}

// LoadRoute implements Loader.
func (r *Registry) LoadRoute(_ fs.FS, file string) (*RouteModule, error) {
	return lookup(r, r.routes, file)
}

// LoadBoundary implements Loader.
func (r *Registry) LoadBoundary(_ fs.FS, file string, _ BoundaryKind) (*BoundaryModule, error) {
	return lookup(r, r.boundaries, file)
}

func lookup[T any](r *Registry, m map[string]*T, file string) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if mod, ok := m[registryKey(file)]; ok {
		return mod, nil
	}
	return nil, fmt.Errorf("%s: %w", file, ErrNoModule)
}

// registryKey strips the leading separator and the extension.
func registryKey(file string) string {
	file = strings.TrimPrefix(path.Clean("/"+file), "/")
	return strings.TrimSuffix(file, path.Ext(file))
}
