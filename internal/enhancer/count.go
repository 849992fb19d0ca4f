package enhancer

import "github.com/querykit/oql/internal/oql"

// CountQuery derives a counting query for pagination: the projection is
// replaced with count(...) and the statement's own trailing ORDER BY is
// removed. Everything from the FROM keyword on is reused byte-for-byte,
// so embedded line breaks, keyword casing and ORDER BY clauses inside
// parenthesized subselects or OVER(...) windows survive untouched.
//
// The count target is, in order: the custom projection when non-empty, the
// original projection when it is a single simple path, otherwise the
// primary alias. A * projection counts the alias. DISTINCT propagates as
// written.
func (e *Enhancer) CountQuery(projection string) (string, error) {
	stmt, err := e.selectStatement()
	if err != nil {
		return "", err
	}
	decl, err := primaryDeclaration(stmt)
	if err != nil {
		return "", err
	}

	src := e.query.Text()
	target := projection
	if target == "" {
		target = countTarget(stmt, decl, src)
	}

	var b []byte
	b = append(b, "select count("...)
	if stmt.Select != nil && !stmt.Select.Distinct.IsZero() {
		b = append(b, stmt.Select.Distinct.Text(src)...)
		b = append(b, ' ')
	}
	b = append(b, target...)
	b = append(b, ") "...)
	b = append(b, remainderWithoutOrderBy(stmt, src)...)
	return string(b), nil
}

func countTarget(stmt *oql.SelectStatement, decl *oql.Declaration, src string) string {
	alias := decl.Range.Alias
	if stmt.Select == nil || len(stmt.Select.Items) != 1 {
		return alias
	}
	item := stmt.Select.Items[0]
	if item.SimplePath {
		return item.ExprSpan.Text(src)
	}
	// A * projection and any computed expression count the alias.
	return alias
}

// remainderWithoutOrderBy returns the query text from the FROM keyword on,
// with the trailing ORDER BY clause and the whitespace run before it
// removed. Text after the clause (trailing whitespace included) is kept.
func remainderWithoutOrderBy(stmt *oql.SelectStatement, src string) string {
	start := stmt.From.Span.Start
	if stmt.OrderBy == nil {
		return src[start:]
	}
	cut := stmt.OrderBy.Span.Start
	for cut > start && isSpaceByte(src[cut-1]) {
		cut--
	}
	return src[start:cut] + src[stmt.OrderBy.Span.End:]
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
