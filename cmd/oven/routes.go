package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/oven-ttta/oven-framework"
	oerrors "github.com/oven-ttta/oven-framework/internal/errors"
)

func routesCmd(dir *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the routes built from the app directory",
		Long: `Build the route tree and print it in match order.

Build problems and routes shadowed by an earlier route
with the same pattern are reported after the table.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProject(*dir)
			if err != nil {
				return err
			}
			app, err := newApp(cfg, slog.New(slog.DiscardHandler), nil)
			if err != nil {
				return err
			}
			if err := app.Init(); err != nil {
				return err
			}
			if asJSON {
				return writeRoutesJSON(cmd.OutOrStdout(), app)
			}
			return writeRoutes(cmd.OutOrStdout(), app)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print routes as JSON")

	return cmd
}

type routeInfo struct {
	Method  string   `json:"method"`
	Pattern string   `json:"pattern"`
	Params  []string `json:"params,omitempty"`
	Source  string   `json:"source,omitempty"`
}

type routesReport struct {
	Fingerprint string      `json:"fingerprint"`
	Routes      []routeInfo `json:"routes"`
	Problems    []string    `json:"problems,omitempty"`
	Conflicts   []string    `json:"conflicts,omitempty"`
}

func report(app *oven.App) routesReport {
	tree := app.Tree()
	rep := routesReport{Fingerprint: tree.Fingerprint, Routes: []routeInfo{}}
	for _, r := range app.Routes() {
		rep.Routes = append(rep.Routes, routeInfo{
			Method:  r.Method,
			Pattern: r.Pattern,
			Params:  r.ParamNames,
			Source:  r.Source,
		})
	}
	for _, p := range tree.Problems {
		rep.Problems = append(rep.Problems, problemLine(p))
	}
	for _, c := range app.Conflicts() {
		rep.Conflicts = append(rep.Conflicts, c.Error())
	}
	return rep
}

func problemLine(err error) string {
	var oe *oerrors.Error
	if errors.As(err, &oe) {
		return oe.FormatCompact()
	}
	return err.Error()
}

func writeRoutesJSON(w io.Writer, app *oven.App) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report(app))
}

func writeRoutes(w io.Writer, app *oven.App) error {
	rep := report(app)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATTERN\tSOURCE")
	for _, r := range rep.Routes {
		src := r.Source
		if src == "" {
			src = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Method, r.Pattern, src)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d routes, fingerprint %s\n", len(rep.Routes), rep.Fingerprint)
	if len(rep.Problems) > 0 {
		fmt.Fprintf(w, "\nProblems:\n")
		for _, p := range rep.Problems {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}
	if len(rep.Conflicts) > 0 {
		fmt.Fprintf(w, "\nConflicts:\n")
		for _, c := range rep.Conflicts {
			fmt.Fprintf(w, "  %s\n", c)
		}
	}
	return nil
}
