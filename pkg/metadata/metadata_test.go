package metadata

import (
	"testing"
)

func TestParse(t *testing.T) {
	src := `
title:
  default: Oven
  template: "%s | Oven"
description: A bakery
robots: noindex
viewport:
  width: device-width
  initialScale: 1
openGraph:
  type: website
  images:
    - url: /og.png
      width: 1200
icons:
  icon: /favicon.ico
  apple:
    - url: /apple.png
      sizes: 180x180
other:
  generator: oven
`
	m, err := Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if m.Title.Default != "Oven" || m.Title.Template != "%s | Oven" {
		t.Errorf("Title = %+v", m.Title)
	}
	if m.Robots.String() != "noindex" {
		t.Errorf("Robots = %q", m.Robots.String())
	}
	if m.Viewport.String() != "width=device-width, initial-scale=1" {
		t.Errorf("Viewport = %q", m.Viewport.String())
	}
	if len(m.OpenGraph.Images) != 1 || m.OpenGraph.Images[0].Width != 1200 {
		t.Errorf("OpenGraph = %+v", m.OpenGraph)
	}
	if m.Icons.Icon[0].URL != "/favicon.ico" || m.Icons.Apple[0].Sizes != "180x180" {
		t.Errorf("Icons = %+v", m.Icons)
	}
	if m.Other["generator"] != "oven" {
		t.Errorf("Other = %v", m.Other)
	}
}

func TestParseScalarTitle(t *testing.T) {
	m, err := Parse([]byte("title: About\n"))
	if err != nil {
		t.Fatal(err)
	}
	if m.Title.Default != "About" {
		t.Fatalf("Title = %+v", m.Title)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte("icons:\n  icon:\n    url: /x.ico\n")); err == nil {
		t.Fatal("expected error")
	}
}
