package routepath

import "strings"

// Kind classifies a single path component.
type Kind int

const (
	// Static matches its literal text exactly.
	Static Kind = iota
	// Dynamic matches exactly one path component: [name].
	Dynamic
	// CatchAll matches one or more trailing components: [...name].
	CatchAll
	// OptionalCatchAll matches zero or more trailing components: [[...name]].
	OptionalCatchAll
	// Group organizes files without adding to the URL: (name).
	Group
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	case CatchAll:
		return "catch-all"
	case OptionalCatchAll:
		return "optional-catch-all"
	case Group:
		return "group"
	default:
		return "unknown"
	}
}

// Segment is one classified directory or file-stem name.
// Literal is set for Static and Group segments, Param for the parameter kinds.
type Segment struct {
	Literal string
	Kind    Kind
	Param   string
}

// ParseSegment classifies a path component. It is total: anything that is
// not one of the bracket or parenthesis shapes is a Static segment taken
// verbatim.
func ParseSegment(name string) Segment {
	switch {
	case len(name) > 2 && strings.HasPrefix(name, "(") && strings.HasSuffix(name, ")"):
		return Segment{Literal: name[1 : len(name)-1], Kind: Group}
	case len(name) > 7 && strings.HasPrefix(name, "[[...") && strings.HasSuffix(name, "]]"):
		return Segment{Kind: OptionalCatchAll, Param: name[5 : len(name)-2]}
	case len(name) > 5 && strings.HasPrefix(name, "[...") && strings.HasSuffix(name, "]"):
		return Segment{Kind: CatchAll, Param: name[4 : len(name)-1]}
	case len(name) > 2 && strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]"):
		return Segment{Kind: Dynamic, Param: name[1 : len(name)-1]}
	default:
		return Segment{Literal: name, Kind: Static}
	}
}

// IsParam reports whether the segment captures a value.
func (s Segment) IsParam() bool {
	return s.Kind == Dynamic || s.Kind == CatchAll || s.Kind == OptionalCatchAll
}

// IsWildcard reports whether the segment consumes trailing components.
func (s Segment) IsWildcard() bool {
	return s.Kind == CatchAll || s.Kind == OptionalCatchAll
}

// Pattern returns the segment's form inside a logical route path:
// ":name" for dynamic, "*name" for catch-all, "*name?" for optional
// catch-all and the literal for static. A static literal that would read
// back as another kind is prefixed with a backslash. Groups have no form.
func (s Segment) Pattern() string {
	switch s.Kind {
	case Dynamic:
		return ":" + s.Param
	case CatchAll:
		return "*" + s.Param
	case OptionalCatchAll:
		return "*" + s.Param + "?"
	case Group:
		return ""
	default:
		return escapeLiteral(s.Literal)
	}
}

func escapeLiteral(lit string) string {
	if strings.HasPrefix(lit, ":") || strings.HasPrefix(lit, "*") || strings.HasPrefix(lit, `\`) ||
		ParseSegment(lit).Kind != Static {
		return `\` + lit
	}
	return lit
}

// ScopeName returns the segment's form inside a layout scope path. Groups
// keep their parenthesized name so that layouts declared inside a group only
// wrap pages of that group.
func (s Segment) ScopeName() string {
	if s.Kind == Group {
		return "(" + s.Literal + ")"
	}
	return s.Pattern()
}

// ParsePattern classifies one component of a logical route path. It
// accepts both the file-convention bracket forms and the ":name", "*name",
// "*name?" forms produced by Pattern. A leading backslash marks the rest
// of the component as a literal.
func ParsePattern(component string) Segment {
	switch {
	case strings.HasPrefix(component, `\`):
		return Segment{Literal: component[1:], Kind: Static}
	case strings.HasPrefix(component, ":") && len(component) > 1:
		return Segment{Kind: Dynamic, Param: component[1:]}
	case strings.HasPrefix(component, "*") && strings.HasSuffix(component, "?") && len(component) > 1:
		return Segment{Kind: OptionalCatchAll, Param: component[1 : len(component)-1]}
	case strings.HasPrefix(component, "*"):
		return Segment{Kind: CatchAll, Param: component[1:]}
	default:
		return ParseSegment(component)
	}
}

// JoinLogical joins the logical forms of segs into a route path. Group
// segments are skipped; an empty result is the root path.
func JoinLogical(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		if s.Kind == Group {
			continue
		}
		b.WriteByte('/')
		b.WriteString(s.Pattern())
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// JoinScope joins segs into a layout scope path, keeping group names.
func JoinScope(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteByte('/')
		b.WriteString(s.ScopeName())
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}
