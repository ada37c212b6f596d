// Package cli implements the boughbench command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the CLI with the process arguments.
func Execute(ctx context.Context) error {
	return newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "boughbench",
		Short:        "boughbench stress-tests the bough transform hierarchy",
		Long:         `boughbench builds a random transform forest, mutates it every frame, and reports how long world-matrix updates take. With verification on, every frame checks the cached matrices against a direct ancestor walk.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(errOut, level)))
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetVersionTemplate(fmt.Sprintf("boughbench %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newRunCmd())
	root.AddCommand(newConfigCmd())
	return root
}
