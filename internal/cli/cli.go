package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/recipegrid/internal/app"
	"github.com/specialistvlad/recipegrid/internal/objectstore"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// stringList is a flag.Value collecting every occurrence of a repeated flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("recipegrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
RecipeGrid - runs declarative computation recipes with bounded memory.

Usage:
  recipegrid [options] RECIPE

Arguments:
  RECIPE
    Path to the .hcl recipe to run.

Options:
`)
		flagSet.PrintDefaults()
		fmt.Fprint(output, `
Environment:
  RECIPEGRID_S3_ENDPOINT, RECIPEGRID_S3_ACCESS_KEY, RECIPEGRID_S3_SECRET_KEY,
  RECIPEGRID_S3_REGION, RECIPEGRID_S3_USE_SSL
    Object store used for s3://bucket/key locations.
`)
	}

	var inputs, outputs stringList
	recipeFlag := flagSet.String("recipe", "", "Path to the recipe file.")
	rFlag := flagSet.String("r", "", "Path to the recipe file (shorthand).")
	flagSet.Var(&inputs, "input", "Input location, exposed as file_inputs in order. Repeatable.")
	flagSet.Var(&inputs, "i", "Input location (shorthand). Repeatable.")
	flagSet.Var(&outputs, "output", "Output destination for file_outputs in order. Repeatable.")
	flagSet.Var(&outputs, "o", "Output destination (shorthand). Repeatable.")
	workersFlag := flagSet.Int("workers", 1, "Number of tasks run at the same time. 1 runs one task per tick.")
	journalFlag := flagSet.String("journal", "", "Path to a SQLite database recording every task run. Empty disables it.")
	planFlag := flagSet.Bool("plan", false, "Print the tasks needed for the outputs and exit without running them.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *recipeFlag != "" {
		path = *recipeFlag
	} else if *rFlag != "" {
		path = *rFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Recipe path determined.", "path", path)

	if path == "" {
		slog.Debug("No recipe path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	s3, err := objectstore.ConfigFromEnv()
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		RecipePath:  path,
		Inputs:      inputs,
		Outputs:     outputs,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		Workers:     *workersFlag,
		JournalPath: *journalFlag,
		Plan:        *planFlag,
		S3:          s3,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "recipe", config.RecipePath, "inputs", len(config.Inputs), "outputs", len(config.Outputs))
	return config, false, nil
}
