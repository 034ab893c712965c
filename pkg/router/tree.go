package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/oven-ttta/oven-framework/pkg/metadata"
	"github.com/oven-ttta/oven-framework/pkg/render"
	"github.com/oven-ttta/oven-framework/pkg/server"
)

// Tree is the result of walking an app directory: the routes it declares
// plus the layouts and boundaries they render with.
type Tree struct {
	// Root is the directory the tree was built from; empty for trees built
	// from an fs.FS.
	Root string

	// Table holds page routes (GET) and API routes in walk order.
	Table *Table

	// Layouts holds layouts keyed by scope.
	Layouts *Layouts

	// Boundaries holds loading, error and not-found files.
	Boundaries *Boundaries

	// Fingerprint hashes the paths and contents of every special file. Two
	// builds of an unchanged directory have the same fingerprint.
	Fingerprint string

	// Problems are the files that were skipped, as *errors.Error values
	// from internal/errors.
	Problems []error

	lang        string
	scripts     []string
	styleSheets []string
}

// Document renders body as a complete page for scope: body is wrapped in
// the scope's layouts and the head is built from page metadata resolved
// against the layouts' metadata.
func (t *Tree) Document(ctx context.Context, body, scope string, params map[string]string, page *metadata.Metadata) (string, error) {
	body, err := t.Layouts.Wrap(ctx, body, scope, params)
	if err != nil {
		return "", err
	}
	resolved := metadata.Resolve(page, t.Layouts.MetadataChain(scope))
	doc := render.Document{
		Lang:         t.lang,
		Head:         metadata.HeadTags(resolved),
		Body:         body,
		StyleSheets:  t.styleSheets,
		Scripts:      t.scripts,
		OmitViewport: resolved.Viewport != nil,
	}
	return doc.String(), nil
}

// RenderBoundary renders bd inside the layouts of its own scope.
func (t *Tree) RenderBoundary(ctx context.Context, bd *Boundary, props BoundaryProps, params map[string]string) (string, error) {
	var body string
	if bd.Module != nil && bd.Module.Render != nil {
		out, err := bd.Module.Render(ctx, props)
		if err != nil {
			return "", fmt.Errorf("render %s boundary %s: %w", bd.Kind, bd.Source, err)
		}
		body = out
	}
	return t.Document(ctx, body, bd.Scope, params, nil)
}

func (t *Tree) pageHandler(mod *PageModule, scope string) Handler {
	return func(ctx *server.Ctx) (*server.Response, error) {
		props := PageProps{Params: ctx.Params(), Query: ctx.QueryParams(), Ctx: ctx}

		md := mod.Metadata
		if mod.GenerateMetadata != nil {
			generated, err := mod.GenerateMetadata(ctx.Context(), props)
			if err != nil {
				return nil, fmt.Errorf("generate metadata: %w", err)
			}
			md = generated
		}

		var body string
		if mod.Render != nil {
			out, err := mod.Render(ctx.Context(), props)
			if err != nil {
				return nil, fmt.Errorf("render page: %w", err)
			}
			body = out
		}

		html, err := t.Document(ctx.Context(), body, scope, props.Params, md)
		if err != nil {
			return nil, err
		}
		return server.HTML(http.StatusOK, html), nil
	}
}

// API adapts fn to a Handler. For POST, PUT and PATCH requests with a JSON
// content type the body is decoded into ctx.Body first; a body that does
// not decode is answered with 400 {"error":"Invalid JSON body"} without
// calling fn. fn's result is converted as documented on APIFunc.
func API(fn APIFunc) Handler {
	return func(ctx *server.Ctx) (*server.Response, error) {
		if hasBody(ctx.Method()) && server.IsJSON(ctx.Header("Content-Type")) {
			var body any
			if err := server.BindJSON(ctx, &body); err != nil {
				if errors.Is(err, server.ErrInvalidJSON) {
					return server.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
				}
				return nil, err
			}
			ctx.SetBody(body)
		}

		result, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		switch v := result.(type) {
		case nil:
			return server.NoContent(), nil
		case *server.Response:
			if v == nil {
				return server.NoContent(), nil
			}
			return v, nil
		default:
			return server.JSON(http.StatusOK, v)
		}
	}
}

func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}
