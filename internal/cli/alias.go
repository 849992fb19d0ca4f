package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/querykit/oql/internal/enhancer"
)

// AliasOptions holds flags for the alias command.
type AliasOptions struct {
	*RootOptions
	Joins  bool
	Native bool
}

// AliasResult is the alias command's JSON payload.
type AliasResult struct {
	Alias string   `json:"alias"`
	Joins []string `json:"joins,omitempty"`
}

// NewAliasCommand creates the alias command.
func NewAliasCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AliasOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "alias <query>",
		Short: "Detect the primary identification variable",
		Long: `Detect the primary identification variable (alias) of a select query.

With --joins, also lists the identification variables introduced by joins,
in encounter order.

Example:
  oqlctl alias "select u from User u"
  oqlctl alias --joins "select u from User u left join u.roles r"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlias(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Joins, "joins", false, "also list join aliases")
	cmd.Flags().BoolVar(&opts.Native, "native", false, "treat the query as provider-native")

	return cmd
}

func runAlias(opts *AliasOptions, query string, cmd *cobra.Command) error {
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	e := enhancer.New(enhancer.NewQuery(query, opts.Native))

	alias, err := e.DetectAlias()
	if err != nil {
		return failRewrite(f, err)
	}
	result := AliasResult{Alias: alias}

	if opts.Joins {
		joins, err := e.JoinAliases()
		if err != nil {
			return failRewrite(f, err)
		}
		result.Joins = joins
	}

	if opts.Format == "json" {
		return f.Success(result)
	}
	if opts.Joins {
		return f.Success(fmt.Sprintf("alias: %s\njoins: %s", result.Alias, strings.Join(result.Joins, ", ")))
	}
	return f.Success(result.Alias)
}
