package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/querykit/oql/internal/batch"
)

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "batch <file.yaml>",
		Short: "Run rewrite jobs from a YAML file",
		Long: `Run every rewrite job in a YAML batch file. Each job names a query and
the rewrites to apply (count query, sort keys). Jobs are independent: a
failing job is reported and the run continues. The command exits non-zero
when any job failed.

Example:
  oqlctl batch ./rewrites.yaml
  oqlctl batch --format json ./rewrites.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, args[0], cmd)
		},
	}

	return cmd
}

func runBatch(opts *BatchOptions, path string, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	file, err := batch.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load batch file", err)
	}
	slog.Debug("batch file loaded", "path", path, "jobs", len(file.Jobs))

	run := batch.Run(file)
	slog.Info("batch finished", "run_id", run.RunID, "jobs", len(run.Results), "failed", run.Failed)

	if opts.Format == "json" {
		if err := f.Success(run); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(f.Writer, "run %s\n", run.RunID)
		for _, res := range run.Results {
			switch {
			case res.Error != "":
				fmt.Fprintf(f.Writer, "%s: error: %s\n", res.Name, res.Error)
			default:
				if res.Sorted != "" {
					fmt.Fprintf(f.Writer, "%s: sorted: %s\n", res.Name, res.Sorted)
				}
				if res.Count != "" {
					fmt.Fprintf(f.Writer, "%s: count: %s\n", res.Name, res.Count)
				}
			}
		}
	}

	if run.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d jobs failed", run.Failed, len(run.Results)))
	}
	return nil
}

// configureLogging sets the process-wide slog handler.
func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
