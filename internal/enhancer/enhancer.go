package enhancer

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/querykit/oql/internal/oql"
)

// Enhancer rewrites a single query. Construction is cheap; the text is
// parsed on first use and the tree cached for the Enhancer's lifetime.
type Enhancer struct {
	query Query

	// stmt is a single-assignment slot: set once on the first successful
	// parse, read thereafter. Failures are not cached.
	stmt oql.Statement
}

// New returns an Enhancer over the given query.
func New(q Query) *Enhancer {
	return &Enhancer{query: q}
}

// Query returns the underlying query value.
func (e *Enhancer) Query() Query { return e.query }

func (e *Enhancer) parse() (oql.Statement, error) {
	if e.stmt != nil {
		return e.stmt, nil
	}
	stmt, err := oql.Parse(e.query.Text())
	if err != nil {
		return nil, err
	}
	e.stmt = stmt
	return stmt, nil
}

// selectStatement parses and rejects non-select statements.
func (e *Enhancer) selectStatement() (*oql.SelectStatement, error) {
	stmt, err := e.parse()
	if err != nil {
		return nil, err
	}
	switch s := stmt.(type) {
	case *oql.SelectStatement:
		return s, nil
	case *oql.DMLStatement:
		return nil, &UnsupportedStatementError{Keyword: s.Keyword}
	default:
		return nil, &UnsupportedStatementError{Keyword: "unknown"}
	}
}

// DetectAlias returns the primary identification variable: the alias of the
// first declaration in the FROM clause, with its original case preserved.
// The result is empty when the declaration binds no alias.
func (e *Enhancer) DetectAlias() (string, error) {
	stmt, err := e.selectStatement()
	if err != nil {
		return "", err
	}
	decl, err := primaryDeclaration(stmt)
	if err != nil {
		return "", err
	}
	return decl.Range.Alias, nil
}

// JoinAliases returns the identification variables of every join across all
// FROM declarations, in encounter order and without duplicates. Joins that
// bind no variable contribute nothing.
func (e *Enhancer) JoinAliases() ([]string, error) {
	stmt, err := e.selectStatement()
	if err != nil {
		return nil, err
	}
	if stmt.From == nil {
		return nil, &MalformedFromClauseError{Reason: "statement has no from clause"}
	}

	var aliases []string
	seen := make(map[string]struct{})
	for _, decl := range stmt.From.Declarations {
		for _, join := range decl.Joins {
			if join.Alias == "" {
				continue
			}
			if _, dup := seen[join.Alias]; dup {
				continue
			}
			seen[join.Alias] = struct{}{}
			aliases = append(aliases, join.Alias)
		}
	}
	return aliases, nil
}

// Projection returns the select clause's items as written, comma-joined.
// The DISTINCT keyword is excluded; constructor expressions keep their
// new Type(...) form verbatim. The short query form without a select
// clause yields the empty string.
func (e *Enhancer) Projection() (string, error) {
	stmt, err := e.selectStatement()
	if err != nil {
		return "", err
	}
	if stmt.Select == nil {
		return "", nil
	}
	src := e.query.Text()
	parts := make([]string, len(stmt.Select.Items))
	for i, item := range stmt.Select.Items {
		parts[i] = item.Span.Text(src)
	}
	return strings.Join(parts, ", "), nil
}

// HasConstructorExpression reports whether the projection is a single
// constructor invocation, possibly wrapped in DISTINCT.
func (e *Enhancer) HasConstructorExpression() (bool, error) {
	stmt, err := e.selectStatement()
	if err != nil {
		return false, err
	}
	if stmt.Select == nil || len(stmt.Select.Items) != 1 {
		return false, nil
	}
	return stmt.Select.Items[0].Constructor, nil
}

func primaryDeclaration(stmt *oql.SelectStatement) (*oql.Declaration, error) {
	if stmt.From == nil {
		return nil, &MalformedFromClauseError{Reason: "statement has no from clause"}
	}
	if len(stmt.From.Declarations) == 0 {
		return nil, &MalformedFromClauseError{Reason: "declaration list is empty"}
	}
	return &stmt.From.Declarations[0], nil
}

// identEqual compares identifiers ignoring case, after NFC normalization so
// non-ASCII identification variables compare reliably.
func identEqual(a, b string) bool {
	return strings.EqualFold(norm.NFC.String(a), norm.NFC.String(b))
}
