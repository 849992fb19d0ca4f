package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/querykit/oql/internal/enhancer"
)

// ProjectionOptions holds flags for the projection command.
type ProjectionOptions struct {
	*RootOptions
	Native bool
}

// ProjectionResult is the projection command's JSON payload.
type ProjectionResult struct {
	Projection  string `json:"projection"`
	Constructor bool   `json:"constructor"`
}

// NewProjectionCommand creates the projection command.
func NewProjectionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProjectionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "projection <query>",
		Short: "Extract the projection list",
		Long: `Extract the select clause's projection as written, without DISTINCT,
and report whether it is a constructor expression (new Type(...)).

Example:
  oqlctl projection "select distinct a, b from X x"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjection(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Native, "native", false, "treat the query as provider-native")

	return cmd
}

func runProjection(opts *ProjectionOptions, query string, cmd *cobra.Command) error {
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	e := enhancer.New(enhancer.NewQuery(query, opts.Native))

	projection, err := e.Projection()
	if err != nil {
		return failRewrite(f, err)
	}
	constructor, err := e.HasConstructorExpression()
	if err != nil {
		return failRewrite(f, err)
	}

	result := ProjectionResult{Projection: projection, Constructor: constructor}
	if opts.Format == "json" {
		return f.Success(result)
	}
	if result.Constructor {
		return f.Success(fmt.Sprintf("%s (constructor)", result.Projection))
	}
	return f.Success(result.Projection)
}
