package oql

import (
	"fmt"
	"strings"
)

// Problem codes reported by the grammar check.
const (
	// ProblemUnknownStatement indicates the text does not start a statement.
	ProblemUnknownStatement = "UNKNOWN_STATEMENT_TYPE"

	// ProblemUnbalancedParens indicates mismatched parentheses.
	ProblemUnbalancedParens = "UNBALANCED_PARENTHESES"

	// ProblemMissingFromClause indicates a select without a FROM clause.
	ProblemMissingFromClause = "MISSING_FROM_CLAUSE"

	// ProblemMissingBindValue indicates a bind parameter without a value.
	// The rewrite engine never has bind values, so Parse filters this code
	// out of the problem set before deciding success.
	ProblemMissingBindValue = "INPUT_PARAMETER_MISSING_VALUE"
)

// Problem is one diagnostic from the grammar check.
type Problem struct {
	Code    string
	Message string
}

// SyntaxError reports that the query text violates the grammar. It carries
// the full problem set so callers can render a diagnostic.
type SyntaxError struct {
	Problems []Problem
}

// Codes returns the problem codes in report order.
func (e *SyntaxError) Codes() []string {
	codes := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		codes[i] = p.Code
	}
	return codes
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("query text is not valid OQL (problems: %s)", strings.Join(e.Codes(), ","))
}
