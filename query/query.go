// Package query models the filter clauses of a log-search query and the
// sink they are appended to. The sink is write-only from the point of view
// of filter construction.
package query

type (
	// Mode is the match mode of a clause.
	Mode int

	// Clause is a single filter predicate. It is immutable after being
	// appended to a [Sink].
	Clause struct {
		Field  string
		Mode   Mode
		Values []string
		Negate bool
	}

	// Sink accumulates filter clauses. Implementations are not required to
	// be safe for concurrent use; callers building the same query from
	// multiple goroutines must serialize access.
	Sink interface {
		AddClause(Clause)
	}
)

// All clause match modes.
const (
	Equals Mode = iota
	Contains
	StartsWith
	EndsWith
	In
	Range
)

func (m Mode) String() string {
	switch m {
	case Equals:
		return "equals"
	case Contains:
		return "contains"
	case StartsWith:
		return "starts_with"
	case EndsWith:
		return "ends_with"
	case In:
		return "in"
	case Range:
		return "range"
	}
	return "invalid"
}

// NewClause creates a single-value clause.
func NewClause(field string, mode Mode, value string, negate bool) Clause {
	return Clause{Field: field, Mode: mode, Values: []string{value}, Negate: negate}
}
