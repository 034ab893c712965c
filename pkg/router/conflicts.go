package router

import (
	"fmt"
	"sort"
	"strings"
)

// Conflict is a set of routes that share a method and a pattern. Only the
// first of them is reachable.
type Conflict struct {
	Method  string
	Pattern string
	Sources []string
}

func (c Conflict) Error() string {
	return fmt.Sprintf("%s %s is declared by %s; only the first is served",
		c.Method, c.Pattern, strings.Join(c.Sources, ", "))
}

// Conflicts reports routes of t shadowed by an earlier route with the same
// method and pattern, for instance pages in two route groups that resolve
// to the same URL. Parameter names are ignored: "/:id" and "/:slug"
// conflict.
func Conflicts(t *Table) []Conflict {
	type key struct{ method, shape string }
	byKey := make(map[key]*Conflict)
	var order []key

	for _, r := range t.Routes() {
		k := key{r.Method, shape(r.matcher)}
		c, ok := byKey[k]
		if !ok {
			c = &Conflict{Method: r.Method, Pattern: r.Pattern}
			byKey[k] = c
			order = append(order, k)
		}
		src := r.Source
		if src == "" {
			src = "(code)"
		}
		c.Sources = append(c.Sources, src)
	}

	var out []Conflict
	for _, k := range order {
		if c := byKey[k]; len(c.Sources) > 1 {
			out = append(out, *c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pattern != out[j].Pattern {
			return out[i].Pattern < out[j].Pattern
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// shape is the pattern with parameter names erased.
func shape(m *Matcher) string {
	var b strings.Builder
	for _, seg := range m.segs {
		b.WriteByte('/')
		switch {
		case seg.IsParam():
			b.WriteString("\x00" + seg.Kind.String())
		default:
			b.WriteString(seg.Literal)
		}
	}
	return b.String()
}
