package router

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/zeebo/xxh3"

	oerrors "github.com/oven-ttta/oven-framework/internal/errors"
	"github.com/oven-ttta/oven-framework/pkg/routepath"
)

// File stems with a role in the app directory.
const (
	PageFile     = "page"
	LayoutFile   = "layout"
	RouteFile    = "route"
	LoadingFile  = "loading"
	ErrorFile    = "error"
	NotFoundFile = "not-found"
)

// Builder turns an app directory into a Tree.
type Builder struct {
	loader      Loader
	logger      *slog.Logger
	lang        string
	scripts     []string
	styleSheets []string
}

// BuildOption configures a Builder.
type BuildOption func(*Builder)

// WithLoader sets the module loader. The default loads templates only.
func WithLoader(l Loader) BuildOption {
	return func(b *Builder) { b.loader = l }
}

// WithLogger sets the logger for build problems.
func WithLogger(l *slog.Logger) BuildOption {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithLang sets the html lang attribute of rendered pages.
func WithLang(lang string) BuildOption {
	return func(b *Builder) { b.lang = lang }
}

// WithScripts appends inline scripts to every rendered page.
func WithScripts(scripts ...string) BuildOption {
	return func(b *Builder) { b.scripts = append(b.scripts, scripts...) }
}

// WithStyleSheets links stylesheets from every rendered page.
func WithStyleSheets(hrefs ...string) BuildOption {
	return func(b *Builder) { b.styleSheets = append(b.styleSheets, hrefs...) }
}

// NewBuilder returns a Builder.
func NewBuilder(opts ...BuildOption) *Builder {
	b := &Builder{
		loader: NewTemplateLoader(nil),
		logger: slog.Default(),
		lang:   "en",
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build walks the directory root. A missing root is logged and yields an
// empty tree; files that fail to load are logged, recorded in
// Tree.Problems and skipped.
func (b *Builder) Build(root string) *Tree {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		t := b.newTree(root)
		b.problem(t, oerrors.New("E100").WithLocation(root, 0, 0).Wrap(err))
		t.Fingerprint = fingerprintOf(xxh3.New())
		return t
	}
	return b.build(os.DirFS(root), root)
}

// BuildFS walks fsys from its root, for apps embedded with embed.FS or
// served from memory.
func (b *Builder) BuildFS(fsys fs.FS) *Tree {
	return b.build(fsys, "")
}

func (b *Builder) build(fsys fs.FS, root string) *Tree {
	t := b.newTree(root)
	h := xxh3.New()
	w := &walker{b: b, fsys: fsys, tree: t, hash: h}
	w.walk(".", nil)
	for _, c := range Conflicts(t.Table) {
		b.problem(t, oerrors.New("E108").WithLocation(w.display(c.Sources[1]), 0, 0).Wrap(c))
	}
	t.Fingerprint = fingerprintOf(h)

	b.logger.Debug("route tree built",
		"root", root,
		"routes", t.Table.Len(),
		"layouts", t.Layouts.Len(),
		"problems", len(t.Problems),
		"fingerprint", t.Fingerprint,
	)
	return t
}

func (b *Builder) newTree(root string) *Tree {
	return &Tree{
		Root:        root,
		Table:       NewTable(),
		Layouts:     NewLayouts(),
		Boundaries:  NewBoundaries(),
		lang:        b.lang,
		scripts:     b.scripts,
		styleSheets: b.styleSheets,
	}
}

func (b *Builder) problem(t *Tree, err *oerrors.Error) {
	t.Problems = append(t.Problems, err)
	b.logger.Warn(err.Message,
		"code", err.Code,
		"file", err.Location.String(),
		"error", err.Wrapped,
	)
}

type walker struct {
	b    *Builder
	fsys fs.FS
	tree *Tree
	hash *xxh3.Hasher
}

// walk visits dir depth first. Entries come back from fs.ReadDir sorted by
// name; a directory's files are handled before its subdirectories.
func (w *walker) walk(dir string, segs []routepath.Segment) {
	entries, err := fs.ReadDir(w.fsys, dir)
	if err != nil {
		w.b.problem(w.tree, oerrors.New("E107").WithLocation(w.display(dir), 0, 0).Wrap(err))
		return
	}

	logical := routepath.JoinLogical(segs)
	scope := routepath.JoinScope(segs)

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		w.file(path.Join(dir, e.Name()), logical, scope)
	}

	for _, e := range entries {
		if !e.IsDir() || skipDir(e.Name()) {
			continue
		}
		child := append(segs[:len(segs):len(segs)], routepath.ParseSegment(e.Name()))
		w.walk(path.Join(dir, e.Name()), child)
	}
}

func (w *walker) file(rel, logical, scope string) {
	name := path.Base(rel)
	stem := strings.TrimSuffix(name, path.Ext(name))

	switch stem {
	case PageFile, LayoutFile, RouteFile, LoadingFile, ErrorFile, NotFoundFile:
	default:
		return
	}
	w.fingerprint(rel)

	t := w.tree
	loader := w.b.loader

	switch stem {
	case PageFile:
		mod, err := loader.LoadPage(w.fsys, rel)
		if err != nil {
			w.loadFailed(rel, err)
			return
		}
		w.add("GET", logical, t.pageHandler(mod, scope), rel, scope)

	case LayoutFile:
		mod, err := loader.LoadLayout(w.fsys, rel)
		if err != nil {
			w.loadFailed(rel, err)
			return
		}
		if t.Layouts.Add(scope, mod) {
			w.b.problem(t, oerrors.New("E105").WithLocation(w.display(rel), 0, 0))
		}

	case RouteFile:
		mod, err := loader.LoadRoute(w.fsys, rel)
		if err != nil {
			w.loadFailed(rel, err)
			return
		}
		for _, mf := range mod.Methods() {
			w.add(mf.Method, logical, API(mf.Func), rel, scope)
		}

	default:
		kind := boundaryKinds[stem]
		mod, err := loader.LoadBoundary(w.fsys, rel, kind)
		if err != nil {
			w.loadFailed(rel, err)
			return
		}
		err = t.Boundaries.Add(&Boundary{Kind: kind, Path: logical, Scope: scope, Source: rel, Module: mod})
		if err != nil {
			w.b.problem(t, oerrors.New("E106").WithLocation(w.display(rel), 0, 0).Wrap(err))
		}
	}
}

var boundaryKinds = map[string]BoundaryKind{
	LoadingFile:  Loading,
	ErrorFile:    ErrorBoundary,
	NotFoundFile: NotFound,
}

func (w *walker) add(method, logical string, h Handler, rel, scope string) {
	_, err := w.tree.Table.Add(method, logical, h, WithSource(rel), WithScope(scope))
	if err != nil {
		w.b.problem(w.tree, oerrors.New("E106").WithLocation(w.display(rel), 0, 0).Wrap(err))
	}
}

func (w *walker) loadFailed(rel string, err error) {
	file := w.display(rel)
	var (
		tmplErr  *TemplateError
		frontErr *FrontMatterError
		e        *oerrors.Error
	)
	switch {
	case errors.Is(err, ErrNoModule):
		e = oerrors.New("E104").WithLocation(file, 0, 0).Wrap(err)
	case errors.As(err, &tmplErr):
		e = oerrors.New("E102").WithLocationFromError(file, tmplErr.Err).Wrap(tmplErr.Err)
	case errors.As(err, &frontErr):
		e = oerrors.New("E103").WithLocation(file, 0, 0).Wrap(frontErr.Err)
	default:
		e = oerrors.New("E101").WithLocation(file, 0, 0).Wrap(err)
	}
	w.b.problem(w.tree, e)
}

func (w *walker) fingerprint(rel string) {
	w.hash.WriteString(rel)
	w.hash.WriteString("\x00")
	if data, err := fs.ReadFile(w.fsys, rel); err == nil {
		w.hash.Write(data)
	}
	w.hash.WriteString("\x00")
}

// display returns rel as a path the user can open.
func (w *walker) display(rel string) string {
	if w.tree.Root == "" {
		return rel
	}
	return filepath.Join(w.tree.Root, filepath.FromSlash(rel))
}

// skipDir reports directories that never contribute routes: hidden
// directories and private "_name" folders.
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func fingerprintOf(h *xxh3.Hasher) string {
	return fmt.Sprintf("%016x", h.Sum64())
}
