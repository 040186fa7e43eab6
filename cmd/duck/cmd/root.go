package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "duck",
	Short: "Static analysis for GML projects",
	Long: `duck lexes, parses, and type-solves a GML project and reports
lint findings and type errors as diagnostics.

A project is a directory containing objects/, scripts/, and/or rooms/
subdirectories of .gml files, optionally configured by a .duck.toml
file found by walking up from the project root.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(`duck version {{.Version}}
Commit: ` + GitCommit + `
Built:  ` + BuildDate + "\n")
}
