package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/querykit/oql/internal/enhancer"
	"github.com/querykit/oql/internal/preview"
)

// PreviewOptions holds flags for the preview command.
type PreviewOptions struct {
	*RootOptions
	Database   string
	By         []string
	Alias      string
	IgnoreCase bool
	Unsafe     bool
	Count      bool
	Projection string
}

// NewPreviewCommand creates the preview command.
func NewPreviewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PreviewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "preview <query>",
		Short: "Run a rewritten native query against SQLite",
		Long: `Rewrite a provider-native query and run the result against a SQLite
database, read-only. With --count the count rewrite runs; with --by the
sort rewrite runs; with neither the query runs as given. Only native SQL
queries can be previewed.

Example:
  oqlctl preview --db ./app.db --by name "select u.* from users u"
  oqlctl preview --db ./app.db --count "select u.* from users u order by u.name"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite database (required)")
	cmd.Flags().StringArrayVar(&opts.By, "by", nil, "sort key property[:asc|:desc] (repeatable)")
	cmd.Flags().StringVar(&opts.Alias, "alias", "", "default alias used to qualify sort keys (default: detected)")
	cmd.Flags().BoolVar(&opts.IgnoreCase, "ignore-case", false, "wrap sort keys in lower(...)")
	cmd.Flags().BoolVar(&opts.Unsafe, "unsafe", false, "treat sort keys as raw expressions")
	cmd.Flags().BoolVar(&opts.Count, "count", false, "run the derived count query instead")
	cmd.Flags().StringVar(&opts.Projection, "projection", "", "custom count projection, used verbatim")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runPreview(opts *PreviewOptions, query string, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	if opts.Count && len(opts.By) > 0 {
		return NewExitError(ExitCommandError, "--count and --by are mutually exclusive")
	}

	e := enhancer.New(enhancer.NewNativeQuery(query))
	text := query
	switch {
	case opts.Count:
		count, err := e.CountQuery(opts.Projection)
		if err != nil {
			return failRewrite(f, err)
		}
		text = count
	case len(opts.By) > 0:
		sort, err := parseSortKeys(opts.By, opts.IgnoreCase, opts.Unsafe)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --by flag", err)
		}
		alias := opts.Alias
		if alias == "" {
			detected, err := e.DetectAlias()
			if err != nil {
				return failRewrite(f, err)
			}
			alias = detected
		}
		sorted, err := e.ApplySorting(sort, alias)
		if err != nil {
			return failRewrite(f, err)
		}
		text = sorted
	}

	db, err := preview.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer db.Close()

	rs, err := db.Query(cmd.Context(), text)
	if err != nil {
		return WrapExitError(ExitCommandError, "preview query failed", err)
	}

	if opts.Format == "json" {
		return f.Success(map[string]any{"query": text, "result": rs})
	}
	fmt.Fprintf(f.Writer, "query: %s\n", text)
	fmt.Fprintln(f.Writer, strings.Join(rs.Columns, "\t"))
	for _, row := range rs.Rows {
		fmt.Fprintln(f.Writer, strings.Join(row, "\t"))
	}
	return nil
}
