package render

import (
	"strings"
	"testing"
)

func TestDocumentRender(t *testing.T) {
	doc := Document{
		Lang:        `en" onload="x`,
		Head:        TitleTag("Home") + "\n" + MetaTag{Name: "description", Content: "hi"}.String(),
		Body:        "<main>content</main>",
		StyleSheets: []string{"/app.css"},
		Scripts:     []string{"console.log(1)"},
	}
	out := doc.String()

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en&quot; onload=&quot;x">`,
		`<meta charset="utf-8">`,
		`<meta name="viewport" content="width=device-width, initial-scale=1">`,
		"<title>Home</title>",
		`<meta name="description" content="hi">`,
		`<link rel="stylesheet" href="/app.css">`,
		"<main>content</main>",
		"<script>console.log(1)</script>",
		"</body>\n</html>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("document missing %q\n%s", want, out)
		}
	}
	if strings.Index(out, "</head>") > strings.Index(out, "<main>") {
		t.Error("body content rendered inside head")
	}
}

func TestDocumentDefaults(t *testing.T) {
	out := Document{OmitViewport: true}.String()
	if !strings.Contains(out, `<html lang="en">`) {
		t.Errorf("default lang missing:\n%s", out)
	}
	if strings.Contains(out, "viewport") {
		t.Errorf("viewport should be omitted:\n%s", out)
	}
}

func TestTags(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"meta name", MetaTag{Name: "robots", Content: "index"}.String(), `<meta name="robots" content="index">`},
		{"meta property", MetaTag{Property: "og:title", Content: `"Q"`}.String(), `<meta property="og:title" content="&quot;Q&quot;">`},
		{"link", LinkTag{Rel: "icon", Href: "/i.png", Sizes: "32x32"}.String(), `<link rel="icon" href="/i.png" sizes="32x32">`},
		{"title", TitleTag("<script>"), "<title>&lt;script&gt;</title>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}
}
