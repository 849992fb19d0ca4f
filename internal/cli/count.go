package cli

import (
	"github.com/spf13/cobra"

	"github.com/querykit/oql/internal/enhancer"
)

// CountOptions holds flags for the count command.
type CountOptions struct {
	*RootOptions
	Projection string
	Native     bool
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CountOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "count <query>",
		Short: "Derive a count query for pagination",
		Long: `Derive a counting query from a select query: the projection becomes
count(...), DISTINCT propagates, and the trailing ORDER BY is removed.
Fragments the rewrite does not touch are preserved byte-for-byte.

Example:
  oqlctl count "select u from User u where u.age > :age"
  oqlctl count --projection p.lastname "select p.lastname,p.firstname from Person p"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Projection, "projection", "", "custom count projection, used verbatim")
	cmd.Flags().BoolVar(&opts.Native, "native", false, "treat the query as provider-native")

	return cmd
}

func runCount(opts *CountOptions, query string, cmd *cobra.Command) error {
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	e := enhancer.New(enhancer.NewQuery(query, opts.Native))

	count, err := e.CountQuery(opts.Projection)
	if err != nil {
		return failRewrite(f, err)
	}
	if opts.Format == "json" {
		return f.Success(map[string]string{"count": count})
	}
	return f.Success(count)
}
