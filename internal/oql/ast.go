package oql

// Span is a half-open byte range [Start, End) over the original query text.
// Clause nodes carry spans instead of re-rendered text so rewrites can keep
// untouched fragments byte-identical.
type Span struct {
	Start int
	End   int
}

// IsZero reports whether the span is unset.
func (s Span) IsZero() bool { return s.Start == 0 && s.End == 0 }

// Text returns the slice of src the span covers.
func (s Span) Text(src string) string { return src[s.Start:s.End] }

// Statement is the root of a parsed query.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern keeps type switches over statement variants
// exhaustive: a query is either a SelectStatement or a DMLStatement.
type Statement interface {
	stmtNode() // Marker method - seals interface to this package
}

// SelectStatement is a parsed select query, including the short form that
// omits the select clause ("from User u").
type SelectStatement struct {
	// Select is nil for the short form without a projection.
	Select *SelectClause

	// From holds the identification variable declarations.
	From *FromClause

	// Optional trailing clauses, in statement order.
	Where   *GenericClause
	GroupBy *GenericClause
	Having  *GenericClause

	// OrderBy is the statement's own trailing order-by clause. Order-by
	// text inside parenthesized groups (subselects, OVER clauses, derived
	// tables) is never recorded here.
	OrderBy *OrderByClause
}

func (*SelectStatement) stmtNode() {}

// DMLStatement represents an update or delete statement. The rewrite
// operations reject it; only the leading keyword is recorded.
type DMLStatement struct {
	Keyword string // "update" or "delete", as written
	Span    Span
}

func (*DMLStatement) stmtNode() {}

// SelectClause is the projection list.
type SelectClause struct {
	Span     Span
	Distinct Span // span of the DISTINCT keyword as written; zero when absent
	Items    []SelectItem
}

// SelectItem is one projection entry.
type SelectItem struct {
	// Span covers the whole item including any AS alias.
	Span Span

	// ExprSpan covers the expression only, excluding the AS alias.
	ExprSpan Span

	// Alias is the identifier following AS, or "" when the item is not
	// aliased. Bare aliasing without AS is not recognized.
	Alias string

	// Constructor is set for object construction: new Type(args).
	Constructor bool

	// Star is set for a bare * projection.
	Star bool

	// SimplePath is set when the expression is a single (possibly dotted)
	// identifier, e.g. "u" or "a.b".
	SimplePath bool

	// Windows holds the OVER(...) specifications found in the item.
	Windows []WindowSpec
}

// WindowSpec captures the parts of an OVER(...) clause the rewriter cares
// about: the partition references and whether the window orders rows.
type WindowSpec struct {
	PartitionTerms []string
	HasOrderBy     bool
}

// FromClause holds one or more comma-separated declarations.
type FromClause struct {
	// Span starts at the FROM keyword and extends through the last
	// declaration. Count-query synthesis reuses everything from Span.Start.
	Span         Span
	Declarations []Declaration
}

// Declaration is one FROM entry: a range declaration plus its joins.
type Declaration struct {
	Range RangeDeclaration
	Joins []Join
}

// RangeDeclaration binds an identification variable to an entity name or a
// parenthesized derived table.
type RangeDeclaration struct {
	Target Span   // entity name or derived-table group, as written
	Alias  string // identification variable, "" when absent
}

// Join is a single join inside a declaration.
type Join struct {
	Outer  bool // left/right/full joins
	Fetch  bool
	Target Span
	Alias  string // identification variable, "" when absent (fetch joins may omit it)
}

// GenericClause is a clause the rewriter keeps opaque (where, group by,
// having): keyword plus the span of the full clause text.
type GenericClause struct {
	Keyword string
	Span    Span
}

// OrderByClause is the statement's trailing sort clause.
type OrderByClause struct {
	// Span runs from the ORDER keyword through the last byte of the last
	// key, excluding any trailing whitespace.
	Span Span
	Keys []Span
}
