package enhancer

import (
	"strings"

	"github.com/querykit/oql/internal/oql"
)

// ApplySorting appends the given sort keys to the query. An existing
// trailing ORDER BY clause is extended in place (its text preserved
// verbatim); otherwise a new "order by" clause is appended. Keys are
// emitted in the given order as "<reference> <asc|desc>".
//
// Each key's reference is resolved by the first matching rule:
//
//  1. key names an AS-aliased select item        → unqualified
//  2. key names a PARTITION BY reference          → unqualified
//  3. key's first path segment is a known alias   → unqualified
//  4. key is a raw expression (contains parens)   → unqualified
//  5. default alias is non-empty                  → prefixed with it
//
// Keys marked IgnoreCase are wrapped in lower(...) after qualification.
// A key containing whitespace or parentheses fails with an
// UnsupportedSortError unless the caller marked it unsafe.
func (e *Enhancer) ApplySorting(sort Sort, alias string) (string, error) {
	src := e.query.Text()
	if len(sort) == 0 {
		return src, nil
	}

	stmt, err := e.selectStatement()
	if err != nil {
		return "", err
	}

	scope := newSortScope(stmt, src, alias)
	entries := make([]string, len(sort))
	for i, order := range sort {
		ref, err := scope.resolve(order)
		if err != nil {
			return "", err
		}
		entries[i] = ref + " " + order.DirectionKeyword()
	}
	keys := strings.Join(entries, ", ")

	if stmt.OrderBy != nil {
		at := stmt.OrderBy.Span.End
		return src[:at] + ", " + keys + src[at:], nil
	}
	return src + " order by " + keys, nil
}

// sortScope holds the names visible to sort-key qualification.
type sortScope struct {
	defaultAlias     string
	selectionAliases []string
	partitionTerms   []string
	pathAliases      []string // primary alias plus join aliases
}

func newSortScope(stmt *oql.SelectStatement, src, alias string) *sortScope {
	s := &sortScope{defaultAlias: alias}

	if stmt.Select != nil {
		for _, item := range stmt.Select.Items {
			if item.Alias != "" {
				s.selectionAliases = append(s.selectionAliases, item.Alias)
			}
			for _, w := range item.Windows {
				s.partitionTerms = append(s.partitionTerms, w.PartitionTerms...)
			}
		}
	}
	if stmt.From != nil {
		for _, decl := range stmt.From.Declarations {
			if decl.Range.Alias != "" {
				s.pathAliases = append(s.pathAliases, decl.Range.Alias)
			}
			for _, join := range decl.Joins {
				if join.Alias != "" {
					s.pathAliases = append(s.pathAliases, join.Alias)
				}
			}
		}
	}
	return s
}

// resolve applies the qualification rules to one sort key.
func (s *sortScope) resolve(order Order) (string, error) {
	prop := order.Property
	if !order.Unsafe && strings.ContainsAny(prop, " \t\n\r()") {
		return "", &UnsupportedSortError{Property: prop}
	}

	ref := prop
	if s.qualifies(order) {
		ref = s.defaultAlias + "." + prop
	}
	if order.IgnoreCase {
		ref = "lower(" + ref + ")"
	}
	return ref, nil
}

func (s *sortScope) qualifies(order Order) bool {
	if s.defaultAlias == "" {
		return false
	}
	prop := order.Property
	for _, a := range s.selectionAliases {
		if identEqual(prop, a) {
			return false
		}
	}
	for _, term := range s.partitionTerms {
		if identEqual(prop, term) {
			return false
		}
	}
	head := prop
	if i := strings.IndexByte(prop, '.'); i >= 0 {
		head = prop[:i]
	}
	for _, a := range s.pathAliases {
		if identEqual(head, a) {
			return false
		}
	}
	// Raw expressions are never qualified.
	return !strings.Contains(prop, "(")
}
