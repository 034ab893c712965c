package metadata

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata describes the document head of a page. Pages, layouts and
// front matter all produce values of this type; Resolve folds them into the
// metadata of a single request.
type Metadata struct {
	Title       Title             `yaml:"title,omitempty" json:"title,omitempty"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Keywords    []string          `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Authors     []Author          `yaml:"authors,omitempty" json:"authors,omitempty"`
	Creator     string            `yaml:"creator,omitempty" json:"creator,omitempty"`
	Publisher   string            `yaml:"publisher,omitempty" json:"publisher,omitempty"`
	Robots      *Robots           `yaml:"robots,omitempty" json:"robots,omitempty"`
	Viewport    *Viewport         `yaml:"viewport,omitempty" json:"viewport,omitempty"`
	ThemeColor  string            `yaml:"themeColor,omitempty" json:"themeColor,omitempty"`
	OpenGraph   *OpenGraph        `yaml:"openGraph,omitempty" json:"openGraph,omitempty"`
	Twitter     *Twitter          `yaml:"twitter,omitempty" json:"twitter,omitempty"`
	Icons       *Icons            `yaml:"icons,omitempty" json:"icons,omitempty"`
	Manifest    string            `yaml:"manifest,omitempty" json:"manifest,omitempty"`
	Other       map[string]string `yaml:"other,omitempty" json:"other,omitempty"`
}

// Title is a page title. Default is the title itself; Template (containing
// "%s") formats the titles of descendant segments; Absolute bypasses any
// ancestor template.
//
// In YAML a title is either a plain string or a mapping with default,
// template and absolute keys.
type Title struct {
	Default  string `yaml:"default,omitempty" json:"default,omitempty"`
	Template string `yaml:"template,omitempty" json:"template,omitempty"`
	Absolute string `yaml:"absolute,omitempty" json:"absolute,omitempty"`
}

// IsZero reports whether no title field is set.
func (t Title) IsZero() bool {
	return t.Default == "" && t.Template == "" && t.Absolute == ""
}

// String returns the title text ignoring templates.
func (t Title) String() string {
	if t.Absolute != "" {
		return t.Absolute
	}
	return t.Default
}

// UnmarshalYAML accepts a scalar or a mapping.
func (t *Title) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		t.Default = node.Value
		return nil
	}
	type plain Title
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*t = Title(p)
	return nil
}

// Author is one entry of the author list.
type Author struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url,omitempty" json:"url,omitempty"`
}

// Robots is the robots directive. Raw, when set, is emitted verbatim;
// otherwise Index and Follow produce "index"/"noindex" and
// "follow"/"nofollow".
type Robots struct {
	Raw    string `yaml:"-" json:"raw,omitempty"`
	Index  *bool  `yaml:"index,omitempty" json:"index,omitempty"`
	Follow *bool  `yaml:"follow,omitempty" json:"follow,omitempty"`
}

// UnmarshalYAML accepts a scalar or a mapping.
func (r *Robots) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		r.Raw = node.Value
		return nil
	}
	type plain Robots
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = Robots(p)
	return nil
}

// String renders the directive content.
func (r *Robots) String() string {
	if r == nil {
		return ""
	}
	if r.Raw != "" {
		return r.Raw
	}
	var parts []string
	if r.Index != nil {
		parts = append(parts, choose(*r.Index, "index", "noindex"))
	}
	if r.Follow != nil {
		parts = append(parts, choose(*r.Follow, "follow", "nofollow"))
	}
	return strings.Join(parts, ", ")
}

// Viewport is the viewport directive, either raw or built from width and
// initial scale.
type Viewport struct {
	Raw          string  `yaml:"-" json:"raw,omitempty"`
	Width        string  `yaml:"width,omitempty" json:"width,omitempty"`
	InitialScale float64 `yaml:"initialScale,omitempty" json:"initialScale,omitempty"`
}

// UnmarshalYAML accepts a scalar or a mapping.
func (v *Viewport) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		v.Raw = node.Value
		return nil
	}
	type plain Viewport
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*v = Viewport(p)
	return nil
}

// String renders the directive content.
func (v *Viewport) String() string {
	if v == nil {
		return ""
	}
	if v.Raw != "" {
		return v.Raw
	}
	var parts []string
	if v.Width != "" {
		parts = append(parts, "width="+v.Width)
	}
	if v.InitialScale != 0 {
		parts = append(parts, "initial-scale="+strconv.FormatFloat(v.InitialScale, 'f', -1, 64))
	}
	return strings.Join(parts, ", ")
}

// OpenGraph is the og:* block.
type OpenGraph struct {
	Title       string  `yaml:"title,omitempty" json:"title,omitempty"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	URL         string  `yaml:"url,omitempty" json:"url,omitempty"`
	SiteName    string  `yaml:"siteName,omitempty" json:"siteName,omitempty"`
	Type        string  `yaml:"type,omitempty" json:"type,omitempty"`
	Locale      string  `yaml:"locale,omitempty" json:"locale,omitempty"`
	Images      []Image `yaml:"images,omitempty" json:"images,omitempty"`
}

// Image is an OpenGraph image.
type Image struct {
	URL    string `yaml:"url" json:"url"`
	Width  int    `yaml:"width,omitempty" json:"width,omitempty"`
	Height int    `yaml:"height,omitempty" json:"height,omitempty"`
	Alt    string `yaml:"alt,omitempty" json:"alt,omitempty"`
}

// Twitter is the twitter:* card block.
type Twitter struct {
	Card        string   `yaml:"card,omitempty" json:"card,omitempty"`
	Site        string   `yaml:"site,omitempty" json:"site,omitempty"`
	Title       string   `yaml:"title,omitempty" json:"title,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Creator     string   `yaml:"creator,omitempty" json:"creator,omitempty"`
	Images      []string `yaml:"images,omitempty" json:"images,omitempty"`
}

// Icons is the icon set. In YAML each list also accepts a single URL.
type Icons struct {
	Icon     IconList `yaml:"icon,omitempty" json:"icon,omitempty"`
	Shortcut IconList `yaml:"shortcut,omitempty" json:"shortcut,omitempty"`
	Apple    IconList `yaml:"apple,omitempty" json:"apple,omitempty"`
}

// Icon is one icon link.
type Icon struct {
	URL   string `yaml:"url" json:"url"`
	Sizes string `yaml:"sizes,omitempty" json:"sizes,omitempty"`
}

// IconList is a list of icons.
type IconList []Icon

// UnmarshalYAML accepts a single URL or a list of icons.
func (l *IconList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = IconList{{URL: node.Value}}
		return nil
	case yaml.SequenceNode:
		var icons []Icon
		if err := node.Decode(&icons); err != nil {
			return err
		}
		*l = icons
		return nil
	default:
		return fmt.Errorf("line %d: icon must be a URL or a list", node.Line)
	}
}

// Parse decodes YAML metadata, as found in template front matter.
func Parse(data []byte) (*Metadata, error) {
	var m Metadata
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return &m, nil
}

func choose(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}
