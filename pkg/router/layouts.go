package router

import (
	"context"
	"fmt"
	"sort"

	"github.com/oven-ttta/oven-framework/pkg/metadata"
	"github.com/oven-ttta/oven-framework/pkg/routepath"
)

// Layouts maps layout scope paths to layouts. A scope is a logical path in
// which route groups are kept as "(name)" segments, so "/(shop)/cart" and
// "/(admin)/cart" resolve different layouts even though both pages serve
// "/cart".
//
// Layouts is built once and then only read.
type Layouts struct {
	entries map[string]*LayoutModule
}

// NewLayouts returns an empty registry.
func NewLayouts() *Layouts {
	return &Layouts{entries: make(map[string]*LayoutModule)}
}

// Add registers layout at path and reports whether it replaced an
// existing entry.
func (l *Layouts) Add(path string, layout *LayoutModule) bool {
	path = routepath.TrimTrailingSlash(path)
	_, replaced := l.entries[path]
	l.entries[path] = layout
	return replaced
}

// Get returns the layout registered at exactly path.
func (l *Layouts) Get(path string) (*LayoutModule, bool) {
	layout, ok := l.entries[routepath.TrimTrailingSlash(path)]
	return layout, ok
}

// Len returns the number of registered layouts.
func (l *Layouts) Len() int {
	return len(l.entries)
}

// Paths returns the registered paths in sorted order.
func (l *Layouts) Paths() []string {
	out := make([]string, 0, len(l.entries))
	for p := range l.entries {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Chain returns the layouts that apply to path, root first. Ancestors
// without a layout are skipped.
func (l *Layouts) Chain(path string) []*LayoutModule {
	var out []*LayoutModule
	for _, p := range routepath.Ancestors(path) {
		if layout, ok := l.entries[p]; ok {
			out = append(out, layout)
		}
	}
	return out
}

// Wrap composes content with every layout from path up to the root. The
// layout closest to the page runs first and the root layout runs last, so
// the root layout's markup is outermost.
func (l *Layouts) Wrap(ctx context.Context, content, path string, params map[string]string) (string, error) {
	chain := l.Chain(path)
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].Render == nil {
			continue
		}
		out, err := chain[i].Render(ctx, LayoutProps{Children: content, Params: params})
		if err != nil {
			return "", fmt.Errorf("render layout: %w", err)
		}
		content = out
	}
	return content, nil
}

// MetadataChain returns the metadata of the layouts that apply to path,
// root first.
func (l *Layouts) MetadataChain(path string) []*metadata.Metadata {
	var out []*metadata.Metadata
	for _, layout := range l.Chain(path) {
		if layout.Metadata != nil {
			out = append(out, layout.Metadata)
		}
	}
	return out
}
