package metadata

import (
	"sort"
	"strconv"
	"strings"

	"github.com/oven-ttta/oven-framework/pkg/render"
)

// HeadTags serializes m into document head markup, one tag per line.
// Tags are written in a fixed order: title, description, keywords,
// authors, creator, publisher, robots, viewport, theme-color, OpenGraph,
// Twitter, icons, manifest, then the Other bag sorted by key. Empty fields
// are skipped and every value is escaped.
func HeadTags(m *Metadata) string {
	if m == nil {
		return ""
	}
	var tags []string
	name := func(n, content string) {
		if content != "" {
			tags = append(tags, render.MetaTag{Name: n, Content: content}.String())
		}
	}
	property := func(p, content string) {
		if content != "" {
			tags = append(tags, render.MetaTag{Property: p, Content: content}.String())
		}
	}
	link := func(rel, href, sizes string) {
		if href != "" {
			tags = append(tags, render.LinkTag{Rel: rel, Href: href, Sizes: sizes}.String())
		}
	}

	if title := m.Title.String(); title != "" {
		tags = append(tags, render.TitleTag(title))
	}
	name("description", m.Description)
	name("keywords", strings.Join(m.Keywords, ", "))
	if len(m.Authors) > 0 {
		names := make([]string, 0, len(m.Authors))
		for _, a := range m.Authors {
			if a.Name != "" {
				names = append(names, a.Name)
			}
		}
		name("author", strings.Join(names, ", "))
	}
	name("creator", m.Creator)
	name("publisher", m.Publisher)
	name("robots", m.Robots.String())
	name("viewport", m.Viewport.String())
	name("theme-color", m.ThemeColor)

	if og := m.OpenGraph; og != nil {
		property("og:title", og.Title)
		property("og:description", og.Description)
		property("og:url", og.URL)
		property("og:site_name", og.SiteName)
		property("og:type", og.Type)
		property("og:locale", og.Locale)
		for _, img := range og.Images {
			property("og:image", img.URL)
			if img.Width > 0 {
				property("og:image:width", strconv.Itoa(img.Width))
			}
			if img.Height > 0 {
				property("og:image:height", strconv.Itoa(img.Height))
			}
			property("og:image:alt", img.Alt)
		}
	}

	if tw := m.Twitter; tw != nil {
		name("twitter:card", tw.Card)
		name("twitter:site", tw.Site)
		name("twitter:title", tw.Title)
		name("twitter:description", tw.Description)
		name("twitter:creator", tw.Creator)
		for _, img := range tw.Images {
			name("twitter:image", img)
		}
	}

	if icons := m.Icons; icons != nil {
		for _, icon := range icons.Icon {
			link("icon", icon.URL, icon.Sizes)
		}
		for _, icon := range icons.Shortcut {
			link("shortcut icon", icon.URL, icon.Sizes)
		}
		for _, icon := range icons.Apple {
			link("apple-touch-icon", icon.URL, icon.Sizes)
		}
	}

	link("manifest", m.Manifest, "")

	if len(m.Other) > 0 {
		keys := make([]string, 0, len(m.Other))
		for k := range m.Other {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			name(k, m.Other[k])
		}
	}

	return strings.Join(tags, "\n")
}
