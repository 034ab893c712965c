package metadata

import (
	"reflect"
	"testing"
)

func TestMergeOverridesScalarsAndMergesBlocks(t *testing.T) {
	root := &Metadata{
		Title:     Title{Default: "Default"},
		OpenGraph: &OpenGraph{Type: "website"},
	}
	page := &Metadata{
		Title:     Title{Default: "Post"},
		OpenGraph: &OpenGraph{Title: "Post OG"},
	}

	got := Merge(root, page)

	if got.Title.Default != "Post" {
		t.Errorf("Title = %q, want Post", got.Title.Default)
	}
	want := &OpenGraph{Type: "website", Title: "Post OG"}
	if !reflect.DeepEqual(got.OpenGraph, want) {
		t.Errorf("OpenGraph = %+v, want %+v", got.OpenGraph, want)
	}
	if root.OpenGraph.Title != "" || root.Title.Default != "Default" {
		t.Error("Merge modified the parent")
	}
}

func TestMergeBlocks(t *testing.T) {
	parent := &Metadata{
		Description: "parent",
		Keywords:    []string{"a", "b"},
		Twitter:     &Twitter{Card: "summary", Site: "@site", Creator: "@oven"},
		Icons:       &Icons{Icon: IconList{{URL: "/favicon.ico"}}, Shortcut: IconList{{URL: "/s.png"}}, Apple: IconList{{URL: "/apple.png"}}},
		Other:       map[string]string{"x": "1", "y": "2"},
	}
	child := &Metadata{
		Twitter: &Twitter{Title: "Child", Site: "@child"},
		Icons:   &Icons{Icon: IconList{{URL: "/child.ico", Sizes: "32x32"}}},
		Other:   map[string]string{"y": "3"},
	}

	got := Merge(parent, child)

	if got.Description != "parent" {
		t.Errorf("unset child scalar should inherit, got %q", got.Description)
	}
	if !reflect.DeepEqual(got.Keywords, []string{"a", "b"}) {
		t.Errorf("Keywords = %v", got.Keywords)
	}
	if got.Twitter.Card != "summary" || got.Twitter.Creator != "@oven" || got.Twitter.Title != "Child" || got.Twitter.Site != "@child" {
		t.Errorf("Twitter = %+v", got.Twitter)
	}
	if got.Icons.Icon[0].URL != "/child.ico" || got.Icons.Shortcut[0].URL != "/s.png" || got.Icons.Apple[0].URL != "/apple.png" {
		t.Errorf("Icons = %+v", got.Icons)
	}
	if !reflect.DeepEqual(got.Other, map[string]string{"x": "1", "y": "3"}) {
		t.Errorf("Other = %v", got.Other)
	}
	if parent.Other["y"] != "2" {
		t.Error("Merge modified the parent Other map")
	}
}

func TestMergeNil(t *testing.T) {
	if got := Merge(nil, nil); got == nil {
		t.Fatal("Merge(nil, nil) returned nil")
	}
	m := &Metadata{Description: "d"}
	if got := Merge(nil, m); got.Description != "d" {
		t.Fatalf("Merge(nil, m) = %+v", got)
	}
	if got := Merge(m, nil); got.Description != "d" || got == m {
		t.Fatalf("Merge(m, nil) should return a copy")
	}
}

func TestResolveTitleTemplates(t *testing.T) {
	root := &Metadata{Title: Title{Default: "Oven", Template: "%s | Oven"}}
	blog := &Metadata{Title: Title{Default: "Blog", Template: "%s - Blog"}}

	tests := []struct {
		name  string
		chain []*Metadata
		page  *Metadata
		want  string
	}{
		{"root default", []*Metadata{root}, nil, "Oven"},
		{"templated", []*Metadata{root}, &Metadata{Title: Title{Default: "About"}}, "About | Oven"},
		{"nearest template", []*Metadata{root, blog}, &Metadata{Title: Title{Default: "Post"}}, "Post - Blog"},
		{"segment default uses ancestor template", []*Metadata{root, blog}, nil, "Blog | Oven"},
		{"absolute", []*Metadata{root}, &Metadata{Title: Title{Absolute: "Standalone"}}, "Standalone"},
		{"nil entries", []*Metadata{nil, root, nil}, nil, "Oven"},
		{"no titles", nil, &Metadata{Description: "x"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.page, tt.chain)
			if got.Title.Default != tt.want {
				t.Errorf("title = %q, want %q", got.Title.Default, tt.want)
			}
			if got.Title.Template != "" {
				t.Errorf("resolved title should not carry a template, got %q", got.Title.Template)
			}
		})
	}
}

func TestResolveMergesChainInOrder(t *testing.T) {
	chain := []*Metadata{
		{Description: "root", ThemeColor: "#fff", OpenGraph: &OpenGraph{SiteName: "Oven"}},
		{Description: "blog"},
	}
	page := &Metadata{OpenGraph: &OpenGraph{Title: "Post"}}

	got := Resolve(page, chain)

	if got.Description != "blog" || got.ThemeColor != "#fff" {
		t.Errorf("got %+v", got)
	}
	if got.OpenGraph.SiteName != "Oven" || got.OpenGraph.Title != "Post" {
		t.Errorf("OpenGraph = %+v", got.OpenGraph)
	}
}
