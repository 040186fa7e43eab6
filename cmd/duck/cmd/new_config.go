package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/duck-lang/duck/internal/config"
)

var (
	newConfigTemplate     string
	newConfigTodoKeyword  string
	newConfigMaxArguments int
)

var newConfigCmd = &cobra.Command{
	Use:   "new-config",
	Short: "Write a starter .duck.toml",
	Long: `Write a starter .duck.toml in the current directory, with every
lint rule at its default severity and two commented-out example
overrides under [rules].`,
	RunE: runNewConfig,
}

func init() {
	rootCmd.AddCommand(newConfigCmd)

	newConfigCmd.Flags().StringVar(&newConfigTemplate, "template", "american", "spelling flavor to use: \"american\" or \"british\"")
	newConfigCmd.Flags().StringVar(&newConfigTodoKeyword, "todo-keyword", "TODO", "identifier the todo lint should look for")
	newConfigCmd.Flags().IntVar(&newConfigMaxArguments, "max-arguments", 7, "default too-many-arguments threshold")
}

func runNewConfig(_ *cobra.Command, _ []string) error {
	flavor := config.American
	if newConfigTemplate == string(config.British) {
		flavor = config.British
	} else if newConfigTemplate != string(config.American) {
		return fmt.Errorf("unknown template %q: must be %q or %q", newConfigTemplate, config.American, config.British)
	}

	if _, err := os.Stat(config.FileName); err == nil {
		return fmt.Errorf("%s already exists", config.FileName)
	}

	content := config.Template(flavor, newConfigTodoKeyword, newConfigMaxArguments)
	if err := os.WriteFile(config.FileName, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", config.FileName, err)
	}
	fmt.Printf("wrote %s\n", config.FileName)
	return nil
}
