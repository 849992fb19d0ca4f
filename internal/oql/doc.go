// Package oql provides the lexer, parse tree and parser for the object
// query language understood by the rewrite engine.
//
// The language is a SQL-shaped query dialect over entities: declarations
// bind identification variables (aliases) to entity names or derived
// tables, joins navigate paths (u.roles), and projections may construct
// objects (new Type(...)).
//
// ARCHITECTURE:
//
// The parser is deliberately not a compiler frontend. It produces a tree
// of typed clause nodes carrying byte spans over the original text:
//
//	[raw text] → [tokens] → [clause nodes + spans] → [rewrites slice text]
//
// Rewrites relocate or duplicate text fragments; they never re-render the
// tree. Anything the rewriter does not need to understand - expressions,
// subselects, OVER(...) bodies - is consumed as an opaque balanced-paren
// span. This keeps untouched fragments byte-identical in rewritten output.
//
// SEALED INTERFACE:
//
// Statement is a sealed interface using the marker method pattern. Only
// SelectStatement and DMLStatement implement it, so consumers can switch
// exhaustively over the two variants.
//
// LIMITATION:
//
// ORDER BY scoping inside derived tables is structural, not semantic: a
// parenthesized group is opaque, so an ORDER BY inside it is never touched,
// and only the statement's own trailing ORDER BY is recorded. For balanced
// input this is exact; for unbalanced input parsing fails instead of
// guessing.
package oql
