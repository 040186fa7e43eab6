package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/duck-lang/duck/internal/config"
	"github.com/duck-lang/duck/internal/diagnostic"
	"github.com/duck-lang/duck/internal/pipeline"
	"github.com/duck-lang/duck/internal/project"
)

var (
	allowWarnings bool
	allowErrors   bool
	useColor      bool
	colorSet      bool
	outputFormat  string
)

var runCmd = &cobra.Command{
	Use:   "run [path]",
	Short: "Lex, parse, type-check, and lint a project",
	Long: `Run the full staged pipeline over a GML project: discover its
source files, parse and type-solve each one, run every lint rule, and
report the resulting diagnostics.

Examples:
  # Run over the current directory
  duck run

  # Run over a specific project root
  duck run ./my-game`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&allowWarnings, "allow-warnings", false, "don't fail the run because of warning-level diagnostics")
	runCmd.Flags().BoolVar(&allowErrors, "allow-errors", false, "don't fail the run because of error-level diagnostics or I/O errors")
	runCmd.Flags().BoolVar(&useColor, "color", false, "force colored output (default: auto-detect a terminal)")
	runCmd.Flags().StringVar(&outputFormat, "format", "text", "output format: \"text\" or \"yaml\" (for CI/editor integration)")
}

func runRun(cmd *cobra.Command, args []string) error {
	colorSet = cmd.Flags().Changed("color")

	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	cfgPath, err := config.Find(root)
	if err != nil {
		return fmt.Errorf("locating %s: %w", config.FileName, err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	paths, err := project.Walk(root, cfg)
	if err != nil {
		return fmt.Errorf("walking project: %w", err)
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "no .gml files found")
		return nil
	}

	result, err := pipeline.Run(context.Background(), paths, cfg, 0)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	counts := diagnostic.CountBySeverity(result.AllDiagnostics())

	switch outputFormat {
	case "yaml":
		if err := renderYAML(result); err != nil {
			return fmt.Errorf("rendering yaml: %w", err)
		}
	case "text":
		color := useColor
		if !colorSet {
			color = isatty.IsTerminal(os.Stdout.Fd())
		}
		renderResult(result, color)
		fmt.Printf("%s file(s), %s diagnostic(s) (%s warning, %s error)\n",
			humanize.Comma(int64(len(paths))),
			humanize.Comma(int64(len(result.AllDiagnostics()))),
			humanize.Comma(int64(counts[diagnostic.Warn])),
			humanize.Comma(int64(counts[diagnostic.Deny]+counts[diagnostic.Bug])))
	default:
		return fmt.Errorf("unknown --format %q: must be \"text\" or \"yaml\"", outputFormat)
	}

	exceeded := counts[diagnostic.Deny] > 0 && !allowErrors
	exceeded = exceeded || (counts[diagnostic.Bug] > 0 && !allowErrors)
	exceeded = exceeded || (counts[diagnostic.Warn] > 0 && !allowWarnings)
	if exceeded {
		return fmt.Errorf("run failed: %d warning(s), %d error(s)", counts[diagnostic.Warn], counts[diagnostic.Deny]+counts[diagnostic.Bug])
	}
	return nil
}

func renderResult(result *pipeline.Result, color bool) {
	for _, f := range result.Files {
		if f == nil {
			continue
		}
		if f.IOError != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", f.Path, f.IOError)
			continue
		}
		all := append(append(append([]*diagnostic.Diagnostic{}, f.ParseDiags...), f.SolveDiags...), f.EarlyDiags...)
		all = append(all, result.LateDiags[f.Path]...)
		if len(all) == 0 {
			continue
		}
		fmt.Println(diagnostic.RenderAll(all, f.Path, f.SourceLine, color))
	}
}

// yamlFile and yamlDiagnostic are the machine-readable --format=yaml
// shape, for CI and editor integrations that want to consume duck's
// findings as structured data rather than pretty-printed text.
type yamlFile struct {
	Path        string           `yaml:"path"`
	IOError     string           `yaml:"io_error,omitempty"`
	Diagnostics []yamlDiagnostic `yaml:"diagnostics,omitempty"`
}

type yamlDiagnostic struct {
	Severity string `yaml:"severity"`
	Tag      string `yaml:"tag"`
	Message  string `yaml:"message"`
	Line     int    `yaml:"line"`
	Column   int    `yaml:"column"`
}

func renderYAML(result *pipeline.Result) error {
	files := make([]yamlFile, 0, len(result.Files))
	for _, f := range result.Files {
		if f == nil {
			continue
		}
		yf := yamlFile{Path: f.Path}
		if f.IOError != nil {
			yf.IOError = f.IOError.Error()
			files = append(files, yf)
			continue
		}
		all := append(append(append([]*diagnostic.Diagnostic{}, f.ParseDiags...), f.SolveDiags...), f.EarlyDiags...)
		all = append(all, result.LateDiags[f.Path]...)
		for _, d := range all {
			pos := d.Labels[0].Location.Span.Start
			yf.Diagnostics = append(yf.Diagnostics, yamlDiagnostic{
				Severity: d.Severity.String(),
				Tag:      d.Tag,
				Message:  d.Message,
				Line:     pos.Line,
				Column:   pos.Column,
			})
		}
		files = append(files, yf)
	}
	out, err := yaml.Marshal(files)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
