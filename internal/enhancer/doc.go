// Package enhancer rewrites object-language queries without compiling them.
//
// An Enhancer wraps one immutable Query and offers targeted transforms over
// its text: primary-alias and join-alias detection, projection extraction,
// constructor-expression detection, derived count queries for pagination,
// and sort-clause injection.
//
// ARCHITECTURE:
//
//	[Query text] → [oql.Parse, once per Enhancer] → [clause tree + spans]
//	                                                        │
//	        DetectAlias / JoinAliases / Projection ─────────┤ (read tree)
//	        CountQuery / ApplySorting ──────────────────────┘ (slice text)
//
// Rewrites are byte-span surgery on the original text: fragments the
// operation does not touch stay byte-identical, including embedded line
// breaks and mixed-case keywords.
//
// PARSE CACHE:
//
// Parsing is deterministic and expensive relative to the rewrites, so the
// tree is a single-assignment slot filled on first use. A parse failure is
// not cached. The slot is not synchronized: callers sharing one Enhancer
// across goroutines must pre-warm it from a single goroutine first, or give
// each goroutine its own Enhancer over the same Query value.
package enhancer
