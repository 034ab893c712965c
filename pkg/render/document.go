package render

import (
	"fmt"
	"io"
	"strings"
)

// DefaultViewport is written when the page metadata does not set one.
const DefaultViewport = "width=device-width, initial-scale=1"

// Document is a complete HTML page. Head and Body are trusted markup that
// has already been produced by metadata serialization and layout
// composition; only the attributes written by Document itself are escaped.
type Document struct {
	// Lang is the html lang attribute. Defaults to "en".
	Lang string

	// Head is markup inserted into <head> after the charset tag.
	Head string

	// Body is the composed page content.
	Body string

	// StyleSheets are linked from the head.
	StyleSheets []string

	// Scripts are inline scripts appended to the end of <body>.
	Scripts []string

	// OmitViewport suppresses the default viewport tag, for pages whose
	// metadata carries its own.
	OmitViewport bool
}

// Render writes the document to w.
func (d Document) Render(w io.Writer) error {
	lang := d.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n<head>\n  <meta charset=\"utf-8\">\n", EscapeAttr(lang)); err != nil {
		return err
	}
	if !d.OmitViewport {
		if _, err := fmt.Fprintf(w, "  %s\n", MetaTag{Name: "viewport", Content: DefaultViewport}); err != nil {
			return err
		}
	}
	if d.Head != "" {
		if _, err := fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(d.Head, "\n", "\n  ")); err != nil {
			return err
		}
	}
	for _, href := range d.StyleSheets {
		if _, err := fmt.Fprintf(w, "  %s\n", LinkTag{Rel: "stylesheet", Href: href}); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "</head>\n<body>\n"); err != nil {
		return err
	}
	if _, err := io.WriteString(w, d.Body); err != nil {
		return err
	}
	for _, script := range d.Scripts {
		if _, err := fmt.Fprintf(w, "\n<script>%s</script>", script); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n</body>\n</html>\n")
	return err
}

// String renders the document to a string.
func (d Document) String() string {
	var b strings.Builder
	_ = d.Render(&b)
	return b.String()
}
