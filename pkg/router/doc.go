// Package router implements file-convention routing for Oven.
//
// The router provides:
//   - Route discovery by walking an app directory (Builder)
//   - Segment-based pattern matching with parameter capture (Matcher)
//   - An ordered, first-match-wins route table per HTTP method (Table)
//   - Nested layouts and loading, error and not-found boundaries
//   - Pluggable module loading for Go code and html/template files
//
// # File Structure Convention
//
// Every directory under the app root is a URL segment. Files named by
// role declare what the directory serves:
//
//	app/
//	├── layout.html              → wraps every page
//	├── page.html                → GET /
//	├── not-found.html           → 404 page
//	├── about/
//	│   └── page.html            → GET /about
//	├── blog/
//	│   ├── layout.html          → wraps pages under /blog
//	│   └── [slug]/
//	│       └── page.html        → GET /blog/:slug
//	├── (marketing)/
//	│   ├── layout.html          → wraps pages in the group only
//	│   └── pricing/
//	│       └── page.html        → GET /pricing
//	└── api/
//	    └── users/
//	        └── route.go         → API handlers for /api/users
//
// Directory names follow these forms:
//
//	about          → static segment
//	[id]           → :id, one segment
//	[...slug]      → *slug, one or more trailing segments
//	[[...slug]]    → *slug?, zero or more trailing segments
//	(group)        → no URL segment; scopes layouts and boundaries
//
// Directories whose names start with "." or "_" are skipped.
//
// # Modules
//
// Go has no dynamic imports, so files are resolved to modules by a Loader.
// TemplateLoader parses html/template files with optional YAML front
// matter; Registry serves modules registered from Go code:
//
//	reg := router.NewRegistry().
//		Page("blog/[slug]/page", router.PageModule{Render: renderPost}).
//		Route("api/users/route", router.RouteModule{GET: listUsers})
//
//	b := router.NewBuilder(router.WithLoader(router.Loaders{reg, router.NewTemplateLoader(nil)}))
//	tree := b.Build("app")
//
// # Matching
//
// Table.Match returns the first route registered for the method whose
// pattern accepts the path. Routes are registered in walk order, so a
// directory's own files come before its subdirectories and siblings are
// visited in lexicographic order. Conflicts reports routes that can never
// be reached.
package router
