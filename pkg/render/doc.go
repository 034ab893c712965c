// Package render produces the markup around page content: HTML escaping,
// head tags and the document shell.
//
// Page and layout bodies are opaque strings produced by application render
// functions. This package never parses or validates them; its job is to
// escape every value it writes into an attribute or text node itself.
//
//	doc := render.Document{
//	    Lang: "en",
//	    Head: render.TitleTag("Home"),
//	    Body: content,
//	}
//	err := doc.Render(w)
package render
