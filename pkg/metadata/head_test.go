package metadata

import (
	"strings"
	"testing"
)

func TestHeadTagsOrder(t *testing.T) {
	yes, no := true, false
	m := &Metadata{
		Title:       Title{Default: "Home"},
		Description: "desc",
		Keywords:    []string{"go", "web"},
		Authors:     []Author{{Name: "Ada"}, {Name: "Grace", URL: "https://example.com"}},
		Creator:     "creator",
		Publisher:   "publisher",
		Robots:      &Robots{Index: &yes, Follow: &no},
		Viewport:    &Viewport{Width: "device-width", InitialScale: 1},
		ThemeColor:  "#000",
		OpenGraph: &OpenGraph{
			Title:  "OG",
			Type:   "website",
			Images: []Image{{URL: "/og.png", Width: 1200, Height: 630, Alt: "card"}},
		},
		Twitter: &Twitter{Card: "summary", Site: "@oven", Images: []string{"/tw.png"}},
		Icons: &Icons{
			Icon:     IconList{{URL: "/favicon.ico"}},
			Shortcut: IconList{{URL: "/shortcut.png"}},
			Apple:    IconList{{URL: "/apple.png", Sizes: "180x180"}},
		},
		Manifest: "/manifest.json",
		Other:    map[string]string{"b-custom": "2", "a-custom": "1"},
	}

	want := []string{
		`<title>Home</title>`,
		`<meta name="description" content="desc">`,
		`<meta name="keywords" content="go, web">`,
		`<meta name="author" content="Ada, Grace">`,
		`<meta name="creator" content="creator">`,
		`<meta name="publisher" content="publisher">`,
		`<meta name="robots" content="index, nofollow">`,
		`<meta name="viewport" content="width=device-width, initial-scale=1">`,
		`<meta name="theme-color" content="#000">`,
		`<meta property="og:title" content="OG">`,
		`<meta property="og:type" content="website">`,
		`<meta property="og:image" content="/og.png">`,
		`<meta property="og:image:width" content="1200">`,
		`<meta property="og:image:height" content="630">`,
		`<meta property="og:image:alt" content="card">`,
		`<meta name="twitter:card" content="summary">`,
		`<meta name="twitter:site" content="@oven">`,
		`<meta name="twitter:image" content="/tw.png">`,
		`<link rel="icon" href="/favicon.ico">`,
		`<link rel="shortcut icon" href="/shortcut.png">`,
		`<link rel="apple-touch-icon" href="/apple.png" sizes="180x180">`,
		`<link rel="manifest" href="/manifest.json">`,
		`<meta name="a-custom" content="1">`,
		`<meta name="b-custom" content="2">`,
	}

	got := strings.Split(HeadTags(m), "\n")
	if len(got) != len(want) {
		t.Fatalf("got %d tags, want %d:\n%s", len(got), len(want), strings.Join(got, "\n"))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tag %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestHeadTagsSkipsAbsentFields(t *testing.T) {
	if got := HeadTags(&Metadata{}); got != "" {
		t.Fatalf("empty metadata produced %q", got)
	}
	if got := HeadTags(nil); got != "" {
		t.Fatalf("nil metadata produced %q", got)
	}
	got := HeadTags(&Metadata{Manifest: "/m.json"})
	if got != `<link rel="manifest" href="/m.json">` {
		t.Fatalf("got %q", got)
	}
}

func TestHeadTagsEscaping(t *testing.T) {
	m := &Metadata{
		Title:       Title{Default: "<script>alert(1)</script>"},
		Description: `"><script>x</script>`,
		OpenGraph:   &OpenGraph{Title: "Tom & 'Jerry'"},
	}
	got := HeadTags(m)

	if strings.Contains(got, "<script>") {
		t.Fatalf("unescaped markup in head tags:\n%s", got)
	}
	for _, want := range []string{
		"<title>&lt;script&gt;alert(1)&lt;/script&gt;</title>",
		`content="&quot;&gt;&lt;script&gt;x&lt;/script&gt;"`,
		`content="Tom &amp; &#39;Jerry&#39;"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %s in\n%s", want, got)
		}
	}
}
