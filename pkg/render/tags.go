package render

import "strings"

// MetaTag is a <meta> element in the document head.
type MetaTag struct {
	Name     string // name attribute
	Property string // property attribute (OpenGraph)
	Content  string // content attribute
}

// String renders the tag with every attribute escaped.
func (m MetaTag) String() string {
	var b strings.Builder
	b.WriteString("<meta")
	writeAttr(&b, "name", m.Name)
	writeAttr(&b, "property", m.Property)
	b.WriteString(` content="`)
	b.WriteString(EscapeAttr(m.Content))
	b.WriteString(`">`)
	return b.String()
}

// LinkTag is a <link> element in the document head.
type LinkTag struct {
	Rel   string // rel attribute
	Href  string // href attribute
	Type  string // type attribute
	Sizes string // sizes attribute
}

// String renders the tag with every attribute escaped.
func (l LinkTag) String() string {
	var b strings.Builder
	b.WriteString("<link")
	writeAttr(&b, "rel", l.Rel)
	writeAttr(&b, "href", l.Href)
	writeAttr(&b, "type", l.Type)
	writeAttr(&b, "sizes", l.Sizes)
	b.WriteString(">")
	return b.String()
}

// TitleTag renders a <title> element with escaped text.
func TitleTag(title string) string {
	return "<title>" + EscapeHTML(title) + "</title>"
}

func writeAttr(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(EscapeAttr(value))
	b.WriteByte('"')
}
