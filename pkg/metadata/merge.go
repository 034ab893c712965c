package metadata

import "strings"

// Merge returns parent overridden by child. Scalar fields and lists are
// replaced when the child sets them; the OpenGraph, Twitter and Icons
// blocks and the Other bag are merged key by key. Neither argument is
// modified and either may be nil.
func Merge(parent, child *Metadata) *Metadata {
	out := parent.clone()
	if child == nil {
		return out
	}

	out.Title = mergeTitle(out.Title, child.Title)
	setString(&out.Description, child.Description)
	if len(child.Keywords) > 0 {
		out.Keywords = append([]string(nil), child.Keywords...)
	}
	if len(child.Authors) > 0 {
		out.Authors = append([]Author(nil), child.Authors...)
	}
	setString(&out.Creator, child.Creator)
	setString(&out.Publisher, child.Publisher)
	if child.Robots != nil {
		r := *child.Robots
		out.Robots = &r
	}
	if child.Viewport != nil {
		v := *child.Viewport
		out.Viewport = &v
	}
	setString(&out.ThemeColor, child.ThemeColor)
	setString(&out.Manifest, child.Manifest)

	if child.OpenGraph != nil {
		og := OpenGraph{}
		if out.OpenGraph != nil {
			og = *out.OpenGraph
		}
		c := child.OpenGraph
		setString(&og.Title, c.Title)
		setString(&og.Description, c.Description)
		setString(&og.URL, c.URL)
		setString(&og.SiteName, c.SiteName)
		setString(&og.Type, c.Type)
		setString(&og.Locale, c.Locale)
		if len(c.Images) > 0 {
			og.Images = append([]Image(nil), c.Images...)
		}
		out.OpenGraph = &og
	}

	if child.Twitter != nil {
		tw := Twitter{}
		if out.Twitter != nil {
			tw = *out.Twitter
		}
		c := child.Twitter
		setString(&tw.Card, c.Card)
		setString(&tw.Site, c.Site)
		setString(&tw.Title, c.Title)
		setString(&tw.Description, c.Description)
		setString(&tw.Creator, c.Creator)
		if len(c.Images) > 0 {
			tw.Images = append([]string(nil), c.Images...)
		}
		out.Twitter = &tw
	}

	if child.Icons != nil {
		icons := Icons{}
		if out.Icons != nil {
			icons = *out.Icons
		}
		if len(child.Icons.Icon) > 0 {
			icons.Icon = append(IconList(nil), child.Icons.Icon...)
		}
		if len(child.Icons.Shortcut) > 0 {
			icons.Shortcut = append(IconList(nil), child.Icons.Shortcut...)
		}
		if len(child.Icons.Apple) > 0 {
			icons.Apple = append(IconList(nil), child.Icons.Apple...)
		}
		out.Icons = &icons
	}

	if len(child.Other) > 0 {
		if out.Other == nil {
			out.Other = make(map[string]string, len(child.Other))
		}
		for k, v := range child.Other {
			out.Other[k] = v
		}
	}
	return out
}

// Resolve folds chain (root-most first) and then page into the metadata of
// one request. Nil entries are skipped.
//
// Titles follow template inheritance: a plain title set by a segment is
// formatted with the nearest ancestor's Template, an Absolute title is
// used as is, and a segment's own Template only applies below it. The
// resolved title is returned in Title.Default with no template.
func Resolve(page *Metadata, chain []*Metadata) *Metadata {
	out := &Metadata{}
	var title, template string
	apply := func(m *Metadata) {
		if m == nil {
			return
		}
		out = Merge(out, m)
		switch {
		case m.Title.Absolute != "":
			title = m.Title.Absolute
		case m.Title.Default != "":
			title = applyTemplate(template, m.Title.Default)
		}
		if m.Title.Template != "" {
			template = m.Title.Template
		}
	}
	for _, m := range chain {
		apply(m)
	}
	apply(page)
	out.Title = Title{Default: title}
	return out
}

func applyTemplate(template, title string) string {
	if template == "" || !strings.Contains(template, "%s") {
		return title
	}
	return strings.Replace(template, "%s", title, 1)
}

func mergeTitle(parent, child Title) Title {
	setString(&parent.Default, child.Default)
	setString(&parent.Template, child.Template)
	setString(&parent.Absolute, child.Absolute)
	return parent
}

func (m *Metadata) clone() *Metadata {
	if m == nil {
		return &Metadata{}
	}
	out := *m
	out.Keywords = append([]string(nil), m.Keywords...)
	out.Authors = append([]Author(nil), m.Authors...)
	if m.Robots != nil {
		r := *m.Robots
		out.Robots = &r
	}
	if m.Viewport != nil {
		v := *m.Viewport
		out.Viewport = &v
	}
	if m.OpenGraph != nil {
		og := *m.OpenGraph
		og.Images = append([]Image(nil), m.OpenGraph.Images...)
		out.OpenGraph = &og
	}
	if m.Twitter != nil {
		tw := *m.Twitter
		tw.Images = append([]string(nil), m.Twitter.Images...)
		out.Twitter = &tw
	}
	if m.Icons != nil {
		icons := *m.Icons
		icons.Icon = append(IconList(nil), m.Icons.Icon...)
		icons.Shortcut = append(IconList(nil), m.Icons.Shortcut...)
		icons.Apple = append(IconList(nil), m.Icons.Apple...)
		out.Icons = &icons
	}
	if m.Other != nil {
		out.Other = make(map[string]string, len(m.Other))
		for k, v := range m.Other {
			out.Other[k] = v
		}
	}
	return &out
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
