package enhancer

// Query is an immutable declared query: the raw text plus a flag marking
// provider-native text. The value is safe to share across goroutines.
type Query struct {
	text   string
	native bool
}

// NewQuery returns a query over the given text.
func NewQuery(text string, native bool) Query {
	return Query{text: text, native: native}
}

// NewNativeQuery returns a query marked as provider-native.
func NewNativeQuery(text string) Query {
	return Query{text: text, native: true}
}

// Text returns the raw query string.
func (q Query) Text() string { return q.text }

// IsNative reports whether the query is provider-native.
func (q Query) IsNative() bool { return q.native }
