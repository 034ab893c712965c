package dev

import (
	"log/slog"
	"strings"
	"sync"

	oerrors "github.com/oven-ttta/oven-framework/internal/errors"
	"github.com/oven-ttta/oven-framework/pkg/middleware"
	"github.com/oven-ttta/oven-framework/pkg/router"
)

// Target is the application the Reloader rebuilds. *oven.App satisfies it.
type Target interface {
	Reload() (bool, error)
	Routes() []*router.Route
	Tree() *router.Tree
}

// Notifier receives reload outcomes. *ReloadServer satisfies it.
type Notifier interface {
	NotifyReload()
	NotifyCSS(file string)
	NotifyError(msg string)
	ClearError()
}

// Reloader turns change batches into rebuilds and browser notifications.
// Handle is meant to be passed to Watcher.OnChange.
type Reloader struct {
	target Target
	notify Notifier
	logger *slog.Logger

	mu      sync.Mutex
	showing bool
}

// NewReloader creates a Reloader. A nil notify drops browser messages.
func NewReloader(target Target, notify Notifier, logger *slog.Logger) *Reloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reloader{target: target, notify: notify, logger: logger.With("component", "reloader")}
}

// Handle processes one batch of changes.
//
// A batch of stylesheet edits only refreshes stylesheets. Anything else
// rebuilds the route tree; build problems and reload failures are shown
// in the browser overlay until a clean build clears them.
func (r *Reloader) Handle(changes []Change) {
	if len(changes) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	onlyCSS := true
	for _, c := range changes {
		switch c.Type {
		case ChangeConfig:
			r.logger.Warn("config changed; restart to apply", "file", c.Path)
		case ChangeCSS:
			continue
		}
		onlyCSS = false
	}
	if onlyCSS {
		for _, c := range changes {
			r.send(func(n Notifier) { n.NotifyCSS(c.Path) })
		}
		return
	}

	changed, err := r.target.Reload()
	middleware.RecordReload(changed, err)
	if err != nil {
		e := oerrors.New("E203").Wrap(err)
		r.logger.Error(e.Message, "code", e.Code, "error", err)
		r.showing = true
		r.send(func(n Notifier) { n.NotifyError(err.Error()) })
		return
	}

	tree := r.target.Tree()
	middleware.RecordRoutes(len(r.target.Routes()), len(tree.Problems))
	r.logger.Info("reloaded", "files", len(changes), "changed", changed, "problems", len(tree.Problems))

	if len(tree.Problems) > 0 {
		r.showing = true
		r.send(func(n Notifier) { n.NotifyError(problemText(tree.Problems)) })
		return
	}
	if r.showing {
		r.showing = false
		r.send(Notifier.ClearError)
	}
	r.send(Notifier.NotifyReload)
}

func (r *Reloader) send(fn func(Notifier)) {
	if r.notify != nil {
		fn(r.notify)
	}
}

func problemText(problems []error) string {
	lines := make([]string, 0, len(problems))
	for _, p := range problems {
		lines = append(lines, p.Error())
	}
	return strings.Join(lines, "\n")
}
