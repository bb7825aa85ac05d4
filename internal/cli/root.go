// Package cli wires the maharajah command surface: index, find, query, db,
// config, serve. One root command carries the global flags; each subcommand
// lives in its own file, following the teacher's layout.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	targetDir string
	verbosity int
)

var rootCmd = &cobra.Command{
	Use:   "maharajah",
	Short: "Semantically search your codebase",
	Long: `maharajah is a local, per-repository semantic code search engine.
It chunks source files with syntax-aware parsers, embeds each chunk,
and answers natural-language queries by nearest-neighbor retrieval.`,
	SilenceUsage: true,
}

// Execute runs the root command. Called by cmd/maharajah/main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a TOML config file (default: ~/.maharajah/maharajah.toml)")
	rootCmd.PersistentFlags().StringVarP(&targetDir, "dir", "D", "", "target project directory (default: current working directory)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase verbosity (-v, -vv, -vvv)")
}
