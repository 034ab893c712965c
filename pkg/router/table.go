package router

import (
	"strings"

	"github.com/oven-ttta/oven-framework/pkg/routepath"
)

// Route is one registered (method, pattern, handler) triple. Routes are
// never modified after registration.
type Route struct {
	// Method is the upper-case HTTP method.
	Method string

	// Pattern is the canonical route pattern (e.g. "/blog/:slug").
	Pattern string

	// ParamNames lists the captured parameters in match order.
	ParamNames []string

	// Handler serves the route.
	Handler Handler

	// Source is the file the route was built from, if any.
	Source string

	// Scope is the layout scope of the route's directory. It equals the
	// unprefixed pattern except that route groups are kept as "(name)"
	// segments.
	Scope string

	matcher *Matcher
}

// RouteOption configures a route at registration.
type RouteOption func(*Route)

// WithSource records the file a route was built from.
func WithSource(file string) RouteOption {
	return func(r *Route) { r.Source = file }
}

// WithScope records the layout scope of a route.
func WithScope(scope string) RouteOption {
	return func(r *Route) { r.Scope = scope }
}

// Match is a successful route lookup.
type Match struct {
	Route  *Route
	Params map[string]string
}

// Table is an ordered, per-method route list. Lookup is first match wins
// in registration order; there is no specificity ranking and no duplicate
// detection, so a later route with the same pattern is unreachable.
//
// A Table is not safe for concurrent registration. Once built it may be
// read from any number of goroutines.
type Table struct {
	routes  map[string][]*Route
	methods []string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{routes: make(map[string][]*Route)}
}

// Add compiles path and appends a route for method.
func (t *Table) Add(method, path string, handler Handler, opts ...RouteOption) (*Route, error) {
	m, err := Compile(path)
	if err != nil {
		return nil, err
	}
	method = strings.ToUpper(method)
	r := &Route{
		Method:     method,
		Pattern:    m.Pattern(),
		ParamNames: m.ParamNames(),
		Handler:    handler,
		Scope:      m.Pattern(),
		matcher:    m,
	}
	for _, opt := range opts {
		opt(r)
	}
	if _, ok := t.routes[method]; !ok {
		t.methods = append(t.methods, method)
	}
	t.routes[method] = append(t.routes[method], r)
	return r, nil
}

// MustAdd is like Add but panics if path does not compile.
func (t *Table) MustAdd(method, path string, handler Handler, opts ...RouteOption) *Route {
	r, err := t.Add(method, path, handler, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Match returns the first route registered for method whose pattern
// accepts path. path is the escaped request path.
func (t *Table) Match(method, path string) (*Match, bool) {
	for _, r := range t.routes[strings.ToUpper(method)] {
		values, ok := r.matcher.Match(path)
		if !ok {
			continue
		}
		params := make(map[string]string, len(values))
		for i, name := range r.ParamNames {
			params[name] = values[i]
		}
		return &Match{Route: r, Params: params}, true
	}
	return nil, false
}

// Merge re-registers every route of other under prefix, keeping other's
// registration order within each method. Source and Scope are kept as is:
// a scope refers to the layouts of the tree the route was built from.
func (t *Table) Merge(other *Table, prefix string) error {
	for _, r := range other.Routes() {
		_, err := t.Add(r.Method, routepath.Join(prefix, r.Pattern), r.Handler,
			WithSource(r.Source),
			WithScope(r.Scope),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// Routes returns every route, grouped by method in the order methods were
// first registered.
func (t *Table) Routes() []*Route {
	var out []*Route
	for _, m := range t.methods {
		out = append(out, t.routes[m]...)
	}
	return out
}

// Len returns the number of routes.
func (t *Table) Len() int {
	n := 0
	for _, rs := range t.routes {
		n += len(rs)
	}
	return n
}
