package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/duck-lang/duck/internal/lint"
)

var explainCmd = &cobra.Command{
	Use:   "explain [lint]",
	Short: "Explain a lint rule",
	Long:  `Print a lint rule's default severity, explanation, and suggestions; with no argument, list every rule's tag and display name.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)
}

func runExplain(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, r := range lint.Registry {
			fmt.Printf("%-24s %s\n", r.Tag, r.DisplayName)
		}
		return nil
	}

	tag := args[0]
	rule, ok := lint.ByTag(tag)
	if !ok {
		return fmt.Errorf("unknown lint %q; run `duck explain` with no arguments to list every rule", tag)
	}

	fmt.Printf("%s (%s)\n", rule.DisplayName, rule.Tag)
	fmt.Printf("default: %s\n\n", rule.DefaultLevel)
	fmt.Println(rule.Explanation)
	if len(rule.Suggestions) > 0 {
		fmt.Println("\nSuggestions:")
		for _, s := range rule.Suggestions {
			fmt.Printf("  - %s\n", s)
		}
	}
	return nil
}
