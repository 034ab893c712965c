package router

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/oven-ttta/oven-framework/pkg/metadata"
)

// TemplateExtensions are the file extensions TemplateLoader handles.
var TemplateExtensions = []string{".html", ".gohtml", ".tmpl"}

// PageData is the data a page template executes with.
type PageData struct {
	Params map[string]string
	Query  map[string]string
}

// LayoutData is the data a layout template executes with. Children is the
// already composed inner markup.
type LayoutData struct {
	Children template.HTML
	Params   map[string]string
}

// TemplateLoader loads pages, layouts and boundaries from html/template
// files. A file may start with YAML front matter between "---" lines,
// which is decoded as the module's metadata:
//
//	---
//	title: About
//	description: Who we are
//	---
//	<h1>About {{.Params.team}}</h1>
//
// API routes cannot be templates.
type TemplateLoader struct {
	// Funcs are added to every template.
	Funcs template.FuncMap
}

// NewTemplateLoader returns a TemplateLoader with optional functions.
func NewTemplateLoader(funcs template.FuncMap) *TemplateLoader {
	return &TemplateLoader{Funcs: funcs}
}

// LoadPage implements Loader.
func (l *TemplateLoader) LoadPage(fsys fs.FS, file string) (*PageModule, error) {
	tmpl, md, err := l.parse(fsys, file)
	if err != nil {
		return nil, err
	}
	return &PageModule{
		Metadata: md,
		Render: func(ctx context.Context, props PageProps) (string, error) {
			return execute(tmpl, PageData{Params: props.Params, Query: props.Query})
		},
	}, nil
}

// LoadLayout implements Loader.
func (l *TemplateLoader) LoadLayout(fsys fs.FS, file string) (*LayoutModule, error) {
	tmpl, md, err := l.parse(fsys, file)
	if err != nil {
		return nil, err
	}
	return &LayoutModule{
		Metadata: md,
		Render: func(ctx context.Context, props LayoutProps) (string, error) {
			return execute(tmpl, LayoutData{Children: template.HTML(props.Children), Params: props.Params})
		},
	}, nil
}

// LoadRoute implements Loader.
func (l *TemplateLoader) LoadRoute(_ fs.FS, file string) (*RouteModule, error) {
	return nil, fmt.Errorf("%s: %w", file, ErrNoModule)
}

// LoadBoundary implements Loader.
func (l *TemplateLoader) LoadBoundary(fsys fs.FS, file string, _ BoundaryKind) (*BoundaryModule, error) {
	tmpl, _, err := l.parse(fsys, file)
	if err != nil {
		return nil, err
	}
	return &BoundaryModule{
		Render: func(ctx context.Context, props BoundaryProps) (string, error) {
			return execute(tmpl, props)
		},
	}, nil
}

func (l *TemplateLoader) parse(fsys fs.FS, file string) (*template.Template, *metadata.Metadata, error) {
	if !isTemplate(file) {
		return nil, nil, fmt.Errorf("%s: %w", file, ErrNoModule)
	}
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, nil, err
	}
	front, body := splitFrontMatter(data)

	var md *metadata.Metadata
	if front != nil {
		md, err = metadata.Parse(front)
		if err != nil {
			return nil, nil, &FrontMatterError{File: file, Err: err}
		}
	}

	tmpl, err := template.New(path.Base(file)).Funcs(l.Funcs).Parse(string(body))
	if err != nil {
		return nil, nil, &TemplateError{File: file, Err: err}
	}
	return tmpl, md, nil
}

// TemplateError is a template that failed to parse.
type TemplateError struct {
	File string
	Err  error
}

func (e *TemplateError) Error() string { return e.File + ": " + e.Err.Error() }
func (e *TemplateError) Unwrap() error { return e.Err }

// FrontMatterError is front matter that failed to decode.
type FrontMatterError struct {
	File string
	Err  error
}

func (e *FrontMatterError) Error() string { return e.File + ": front matter: " + e.Err.Error() }
func (e *FrontMatterError) Unwrap() error { return e.Err }

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func isTemplate(file string) bool {
	ext := strings.ToLower(path.Ext(file))
	for _, e := range TemplateExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// splitFrontMatter separates a leading "---" fenced YAML block from the
// body. Without a closing fence the whole file is body.
func splitFrontMatter(data []byte) (front, body []byte) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, data
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, data
	}

	front = rest[:idx]
	body = rest[idx+1+len(delim):]
	return front, bytes.TrimLeft(body, "\n\r")
}
