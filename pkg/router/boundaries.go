package router

import (
	"sort"

	"github.com/oven-ttta/oven-framework/pkg/routepath"
)

// BoundaryKind is the role of a boundary file.
type BoundaryKind int

const (
	// Loading is a loading.* file.
	Loading BoundaryKind = iota
	// ErrorBoundary is an error.* file.
	ErrorBoundary
	// NotFound is a not-found.* file.
	NotFound
)

// String returns the file stem of the kind.
func (k BoundaryKind) String() string {
	switch k {
	case Loading:
		return "loading"
	case ErrorBoundary:
		return "error"
	case NotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// Boundary is a loading, error or not-found file attached to the directory
// it was found in.
type Boundary struct {
	Kind   BoundaryKind
	Path   string // logical path of the directory
	Scope  string // layout scope of the directory
	Source string
	Module *BoundaryModule

	matcher *Matcher
}

// Boundaries indexes boundary files for nearest-ancestor lookup.
type Boundaries struct {
	byScope map[BoundaryKind]map[string]*Boundary
	all     []*Boundary
}

// NewBoundaries returns an empty index.
func NewBoundaries() *Boundaries {
	return &Boundaries{byScope: make(map[BoundaryKind]map[string]*Boundary)}
}

// Add records a boundary. A second boundary of the same kind in the same
// scope replaces the first.
func (b *Boundaries) Add(bd *Boundary) error {
	m, err := Compile(bd.Path)
	if err != nil {
		return err
	}
	bd.matcher = m
	bd.Path = m.Pattern()
	bd.Scope = routepath.TrimTrailingSlash(bd.Scope)

	if b.byScope[bd.Kind] == nil {
		b.byScope[bd.Kind] = make(map[string]*Boundary)
	}
	if old, ok := b.byScope[bd.Kind][bd.Scope]; ok {
		for i, x := range b.all {
			if x == old {
				b.all = append(b.all[:i], b.all[i+1:]...)
				break
			}
		}
	}
	b.byScope[bd.Kind][bd.Scope] = bd
	b.all = append(b.all, bd)
	return nil
}

// ForScope returns the boundary of kind declared closest to scope,
// walking from scope up to the root.
func (b *Boundaries) ForScope(kind BoundaryKind, scope string) (*Boundary, bool) {
	entries := b.byScope[kind]
	if len(entries) == 0 {
		return nil, false
	}
	ancestors := routepath.Ancestors(scope)
	for i := len(ancestors) - 1; i >= 0; i-- {
		if bd, ok := entries[ancestors[i]]; ok {
			return bd, true
		}
	}
	return nil, false
}

// ForPath returns the deepest boundary of kind whose directory path is a
// prefix of the concrete request path. It serves lookups for requests that
// matched no route and therefore have no scope.
func (b *Boundaries) ForPath(kind BoundaryKind, path string) (*Boundary, bool) {
	var best *Boundary
	for _, bd := range b.byScope[kind] {
		if !bd.matcher.MatchPrefix(path) {
			continue
		}
		if best == nil || bd.matcher.Depth() > best.matcher.Depth() ||
			(bd.matcher.Depth() == best.matcher.Depth() && bd.Scope < best.Scope) {
			best = bd
		}
	}
	return best, best != nil
}

// All returns every boundary sorted by kind then scope.
func (b *Boundaries) All() []*Boundary {
	out := append([]*Boundary(nil), b.all...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Scope < out[j].Scope
	})
	return out
}
