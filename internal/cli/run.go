package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sidx/internal/harness"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Backend string // backend name or "all"
	Filter  string // scenario filter (glob pattern)
	DB      string // directory for file-backed sqlite databases
	Update  bool   // regenerate golden reports
}

// ScenarioResult holds the result of one scenario on one backend.
type ScenarioResult struct {
	Name    string   `json:"name"`
	Backend string   `json:"backend"`
	Pass    bool     `json:"pass"`
	Code    string   `json:"code,omitempty"` // ErrCodeScenario or ErrCodeFailed when not passing
	Errors  []string `json:"errors,omitempty"`
}

// RunResult holds the overall run result.
type RunResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenarios-dir>",
		Short: "Run index scenarios",
		Long: `Run YAML scenarios against the index backends.

Each scenario builds a schema, applies change batches, runs queries and
aggregates, and checks its assertions. When golden/<name>.golden exists
next to the scenario, the report must match it on every backend.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, unknown backend, etc.)

Examples:
  sidx run ./scenarios
  sidx run ./scenarios --backend sqlite --db ./out
  sidx run ./scenarios --filter "people*" --update`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Backend, "backend", "all", "index backend ("+strings.Join(harness.BackendNames(), "|")+"|all)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().StringVar(&opts.DB, "db", "", "keep sqlite databases as files in this directory")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden reports")

	return cmd
}

func runScenarios(opts *RunOptions, scenariosDir string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Errorf("scenarios directory not found: %s", scenariosDir))
	}

	runners, err := opts.harnesses()
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err)
	}

	files, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err)
	}

	result := RunResult{Scenarios: []ScenarioResult{}}
	if len(files) == 0 {
		if opts.Format == "json" {
			return outputRunJSON(f, result)
		}
		fmt.Fprintln(f.Writer, "No scenarios found.")
		return nil
	}

	for _, file := range files {
		for _, sr := range runScenarioFile(opts, f, runners, file) {
			result.Scenarios = append(result.Scenarios, sr)
			result.Total++
			if sr.Pass {
				result.Passed++
			} else {
				result.Failed++
			}
		}
	}

	if opts.Format == "json" {
		return outputRunJSON(f, result)
	}
	return outputRunText(f, result)
}

// harnesses resolves the --backend and --db flags.
func (o *RunOptions) harnesses() ([]*harness.Harness, error) {
	names := harness.BackendNames()
	if o.Backend != "all" {
		if !slices.Contains(names, o.Backend) {
			return nil, fmt.Errorf("unknown backend %q (want one of %v or all)", o.Backend, names)
		}
		names = []string{o.Backend}
	}
	if o.DB != "" {
		if err := os.MkdirAll(o.DB, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	logger := slog.Default()
	runners := make([]*harness.Harness, 0, len(names))
	for _, name := range names {
		if name == "sqlite" && o.DB != "" {
			runners = append(runners, harness.NewWithOpener(name, harness.SQLiteFileOpener(o.DB), logger))
			continue
		}
		h, err := harness.New(name, logger)
		if err != nil {
			return nil, err
		}
		runners = append(runners, h)
	}
	return runners, nil
}

// findScenarioFiles finds all YAML scenario files in a directory.
func findScenarioFiles(dir string, filter string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// runScenarioFile executes one scenario on every harness.
func runScenarioFile(opts *RunOptions, f *OutputFormatter, runners []*harness.Harness, file string) []ScenarioResult {
	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return []ScenarioResult{{
			Name:   filepath.Base(file),
			Code:   ErrCodeScenario,
			Errors: []string{fmt.Sprintf("failed to load scenario: %v", err)},
		}}
	}

	goldenPath := goldenFilePath(file)
	results := make([]ScenarioResult, 0, len(runners))
	for i, h := range runners {
		sr := ScenarioResult{Name: scenario.Name, Backend: h.Backend()}
		result, err := h.Run(scenario)
		if err != nil {
			sr.Code = ErrCodeScenario
			sr.Errors = []string{fmt.Sprintf("execution failed: %v", err)}
			results = append(results, sr)
			continue
		}
		sr.Errors = result.Errors
		sr.Pass = result.Pass

		if msg := checkGolden(goldenPath, result.Report(), opts.Update && i == 0); msg != "" {
			sr.Pass = false
			sr.Errors = append(sr.Errors, msg)
		}
		if !sr.Pass {
			sr.Code = ErrCodeFailed
		}
		f.VerboseLog("%s [%s]: %d rows, %d queries", scenario.Name, h.Backend(), result.Rows, len(result.Queries))
		results = append(results, sr)
	}
	return results
}

// checkGolden compares report with the golden file, or rewrites it when
// update is set. It returns an error message, or "" when the report is
// accepted. Only the first backend updates; the rest must then match it.
func checkGolden(goldenPath, report string, update bool) string {
	if update {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
			return fmt.Sprintf("failed to create golden directory: %v", err)
		}
		if err := os.WriteFile(goldenPath, []byte(report), 0o644); err != nil {
			return fmt.Sprintf("failed to write golden file: %v", err)
		}
		return ""
	}

	golden, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		return ""
	}
	if err != nil {
		return fmt.Sprintf("failed to read golden file: %v", err)
	}
	if string(golden) != report {
		return "report does not match golden file (run with --update to regenerate)"
	}
	return ""
}

// goldenFilePath returns the path to the golden report for a scenario.
func goldenFilePath(scenarioFile string) string {
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(scenarioFile), "golden", name+".golden")
}

func outputRunJSON(f *OutputFormatter, result RunResult) error {
	status := "ok"
	if result.Failed > 0 {
		status = "error"
	}

	encoder := json.NewEncoder(f.Writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(CLIResponse{Status: status, Data: result}); err != nil {
		return err
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d scenario(s) failed", ErrCodeFailed, result.Failed))
	}
	return nil
}

func outputRunText(f *OutputFormatter, result RunResult) error {
	for _, sr := range result.Scenarios {
		mark := "✓"
		if !sr.Pass {
			mark = "✗"
		}
		if sr.Backend == "" {
			fmt.Fprintf(f.Writer, "%s %s\n", mark, sr.Name)
		} else {
			fmt.Fprintf(f.Writer, "%s %s [%s]\n", mark, sr.Name, sr.Backend)
		}
		for _, e := range sr.Errors {
			fmt.Fprintf(f.Writer, "  [%s] %s\n", sr.Code, e)
		}
	}

	fmt.Fprintln(f.Writer)
	fmt.Fprintf(f.Writer, "%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d scenario(s) failed", ErrCodeFailed, result.Failed))
	}
	return nil
}
