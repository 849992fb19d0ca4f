package cli

import "github.com/querykit/oql/internal/enhancer"

// Rewrite error codes surfaced in CLI output.
const (
	CodeSyntax               = "SYNTAX"
	CodeUnsupportedStatement = "UNSUPPORTED_STATEMENT"
	CodeMalformedFromClause  = "MALFORMED_FROM_CLAUSE"
	CodeUnsupportedSort      = "UNSUPPORTED_SORT"
	CodeRewrite              = "REWRITE"
)

// rewriteErrorCode maps an enhancer failure to its CLI error code.
func rewriteErrorCode(err error) string {
	switch {
	case enhancer.IsSyntaxError(err):
		return CodeSyntax
	case enhancer.IsUnsupportedStatement(err):
		return CodeUnsupportedStatement
	case enhancer.IsMalformedFromClause(err):
		return CodeMalformedFromClause
	case enhancer.IsUnsupportedSort(err):
		return CodeUnsupportedSort
	default:
		return CodeRewrite
	}
}

// failRewrite reports a rewrite failure in the configured format and
// returns the matching ExitError.
func failRewrite(f *OutputFormatter, err error) error {
	_ = f.Error(rewriteErrorCode(err), err.Error(), nil)
	return WrapExitError(ExitFailure, "rewrite failed", err)
}
