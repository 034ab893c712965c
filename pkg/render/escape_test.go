package render

import "testing"

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"plain", "Hello, World!", "Hello, World!"},
		{"ampersand", "Tom & Jerry", "Tom &amp; Jerry"},
		{"angle brackets", "a < b > c", "a &lt; b &gt; c"},
		{"quotes", `say "hi" it's`, "say &quot;hi&quot; it&#39;s"},
		{"script tag", "<script>alert('xss')</script>", "&lt;script&gt;alert(&#39;xss&#39;)&lt;/script&gt;"},
		{"unicode preserved", "Hello 世界 🌍", "Hello 世界 🌍"},
		{"newline kept in text", "a\nb", "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeHTML(tt.input); got != tt.expected {
				t.Errorf("EscapeHTML(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEscapeAttr(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "width=device-width", "width=device-width"},
		{"breakout attempt", `x" onload="alert(1)`, "x&quot; onload=&quot;alert(1)&quot;"},
		{"single quote", "it's", "it&#39;s"},
		{"control whitespace", "a\nb\tc\rd", "a&#10;b&#9;c&#13;d"},
		{"ampersand", "a=1&b=2", "a=1&amp;b=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeAttr(tt.input); got != tt.expected {
				t.Errorf("EscapeAttr(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
