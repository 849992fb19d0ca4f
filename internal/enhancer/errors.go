package enhancer

import (
	"errors"
	"fmt"

	"github.com/querykit/oql/internal/oql"
)

// UnsupportedStatementError reports that a select-only operation was
// invoked on an update or delete statement. It is never coerced into a
// default result.
type UnsupportedStatementError struct {
	// Keyword is the statement's leading keyword as written.
	Keyword string
}

func (e *UnsupportedStatementError) Error() string {
	return fmt.Sprintf("cannot rewrite %s statement: only select statements are supported", e.Keyword)
}

// MalformedFromClauseError reports a structurally impossible FROM clause,
// e.g. one with no declarations. It indicates a parser inconsistency
// rather than bad caller input.
type MalformedFromClauseError struct {
	Reason string
}

func (e *MalformedFromClauseError) Error() string {
	return "malformed from clause: " + e.Reason
}

// UnsupportedSortError reports a sort key that looks like a raw expression
// (whitespace or parentheses in the property path) without being marked
// unsafe by the caller.
type UnsupportedSortError struct {
	Property string
}

func (e *UnsupportedSortError) Error() string {
	return fmt.Sprintf("sort property %q is not a plain path; mark it unsafe to use raw expressions", e.Property)
}

// IsSyntaxError reports whether err is a grammar failure.
// Uses errors.As to handle wrapped errors.
func IsSyntaxError(err error) bool {
	var se *oql.SyntaxError
	return errors.As(err, &se)
}

// IsUnsupportedStatement reports whether err is an UnsupportedStatementError.
func IsUnsupportedStatement(err error) bool {
	var ue *UnsupportedStatementError
	return errors.As(err, &ue)
}

// IsMalformedFromClause reports whether err is a MalformedFromClauseError.
func IsMalformedFromClause(err error) bool {
	var me *MalformedFromClauseError
	return errors.As(err, &me)
}

// IsUnsupportedSort reports whether err is an UnsupportedSortError.
func IsUnsupportedSort(err error) bool {
	var ue *UnsupportedSortError
	return errors.As(err, &ue)
}
