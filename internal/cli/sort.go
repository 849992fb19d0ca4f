package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/querykit/oql/internal/enhancer"
)

// SortOptions holds flags for the sort command.
type SortOptions struct {
	*RootOptions
	By         []string
	Alias      string
	IgnoreCase bool
	Unsafe     bool
	Native     bool
}

// NewSortCommand creates the sort command.
func NewSortCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SortOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sort <query>",
		Short: "Append or extend the query's order-by clause",
		Long: `Append sort keys to a query, extending an existing trailing ORDER BY
in place. Keys take the form property[:asc|:desc] and are qualified with
--alias unless they already resolve to a select alias, a window partition
reference, or a join/primary alias path.

Example:
  oqlctl sort --by lastname --by firstname:desc --alias p "select p from Person p"
  oqlctl sort --by "sum(foo):asc" --unsafe "select p from Person p"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.By, "by", nil, "sort key property[:asc|:desc] (repeatable)")
	cmd.Flags().StringVar(&opts.Alias, "alias", "", "default alias used to qualify keys (default: detected)")
	cmd.Flags().BoolVar(&opts.IgnoreCase, "ignore-case", false, "wrap keys in lower(...)")
	cmd.Flags().BoolVar(&opts.Unsafe, "unsafe", false, "treat keys as raw expressions")
	cmd.Flags().BoolVar(&opts.Native, "native", false, "treat the query as provider-native")
	_ = cmd.MarkFlagRequired("by")

	return cmd
}

func runSort(opts *SortOptions, query string, cmd *cobra.Command) error {
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	sort, err := parseSortKeys(opts.By, opts.IgnoreCase, opts.Unsafe)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --by flag", err)
	}

	e := enhancer.New(enhancer.NewQuery(query, opts.Native))
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
	if opts.Format == "json" {
		return f.Success(map[string]string{"sorted": sorted})
	}
	return f.Success(sorted)
}

// parseSortKeys turns property[:asc|:desc] flag values into a sort
// specification.
func parseSortKeys(keys []string, ignoreCase, unsafe bool) (enhancer.Sort, error) {
	sort := make(enhancer.Sort, 0, len(keys))
	for _, key := range keys {
		order := enhancer.Order{Property: key, IgnoreCase: ignoreCase, Unsafe: unsafe}
		if i := strings.LastIndex(key, ":"); i >= 0 {
			switch dir := key[i+1:]; dir {
			case "asc":
				order.Property = key[:i]
			case "desc":
				order.Property = key[:i]
				order.Direction = enhancer.Descending
			default:
				return nil, fmt.Errorf("unknown direction %q in key %q", dir, key)
			}
		}
		sort = append(sort, order)
	}
	return sort, nil
}
