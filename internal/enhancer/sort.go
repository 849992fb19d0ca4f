package enhancer

// Direction is a sort direction. The zero value sorts ascending.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Order is one sort key: a property path, a direction, and flags
// controlling case folding and raw-expression handling.
type Order struct {
	Property  string
	Direction Direction

	// IgnoreCase wraps the rendered reference in a case-folding function.
	IgnoreCase bool

	// Unsafe marks the property as a raw expression: it bypasses the
	// plain-path check and is never alias-qualified.
	Unsafe bool
}

// WithIgnoreCase returns a copy of the order with case folding enabled.
func (o Order) WithIgnoreCase() Order {
	o.IgnoreCase = true
	return o
}

// DirectionKeyword returns the effective direction keyword.
func (o Order) DirectionKeyword() string {
	if o.Direction == Descending {
		return string(Descending)
	}
	return string(Ascending)
}

// Sort is an ordered sequence of sort keys. Keys are applied in the given
// order; duplicates are allowed and all are emitted.
type Sort []Order

// By builds an ascending sort over the given property paths.
func By(properties ...string) Sort {
	s := make(Sort, len(properties))
	for i, p := range properties {
		s[i] = Order{Property: p}
	}
	return s
}

// Asc returns an ascending order for the property.
func Asc(property string) Order {
	return Order{Property: property}
}

// Desc returns a descending order for the property.
func Desc(property string) Order {
	return Order{Property: property, Direction: Descending}
}

// Unsafe returns an order over a raw expression, e.g. "sum(foo)". The
// expression is emitted verbatim and never alias-qualified.
func Unsafe(expression string) Order {
	return Order{Property: expression, Unsafe: true}
}
