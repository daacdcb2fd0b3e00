// Package cli implements the mockup command-line interface.
//
// The main commands are:
//   - composite: one-shot headless compositing of a design onto a photo
//   - preview: interactive preview window (drag, zoom, rotate, export)
//   - serve: local stub of the design generation provider
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. Typically
// called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the mockup CLI and returns an error if any command fails.
func Execute() error {
	var verbose bool
	var configPath string

	root := &cobra.Command{
		Use:          "mockup",
		Short:        "Preview generated designs composited onto photos",
		Long:         `Mockup composites a generated design over a photograph: position, scale, rotate, recolor, and blend the design, then export the result at the photo's native resolution.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("mockup %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")

	root.AddCommand(newCompositeCmd(&configPath))
	root.AddCommand(newPreviewCmd(&configPath))
	root.AddCommand(newServeCmd())

	return root.ExecuteContext(context.Background())
}
