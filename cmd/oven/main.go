// Command oven serves an Oven project and inspects its route tree.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oven-ttta/oven-framework"
	oerrors "github.com/oven-ttta/oven-framework/internal/errors"
)

// Version information set at build time.
var (
	version = oven.Version
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		oerrors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dir string

	rootCmd := &cobra.Command{
		Use:   "oven",
		Short: "File-convention routing and rendering for Go",
		Long: `Oven serves web applications laid out as a directory tree.

Each folder under the app directory is a URL segment. page files render
pages, route files answer API requests, and layout, error and not-found
files wrap everything below them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&dir, "dir", "C", ".", "Project directory (or any directory below it)")

	rootCmd.AddCommand(
		serveCmd(&dir),
		routesCmd(&dir),
		versionCmd(),
	)
	return rootCmd
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
