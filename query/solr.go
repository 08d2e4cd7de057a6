package query

import "strings"

// Solr is a [Sink] that serializes clauses to Solr filter-query strings.
// The zero value is ready to use.
type Solr struct {
	clauses []Clause
}

// AddClause appends the clause to the query.
func (s *Solr) AddClause(c Clause) {
	s.clauses = append(s.clauses, c)
}

// Len returns the number of appended clauses.
func (s *Solr) Len() int {
	return len(s.clauses)
}

// Clauses returns the appended clauses in append order.
// The returned slice must not be mutated.
func (s *Solr) Clauses() []Clause {
	return s.clauses
}

// FilterQueries serializes every appended clause, in append order, to the
// string form Solr expects in an "fq" parameter.
func (s *Solr) FilterQueries() []string {
	fqs := make([]string, 0, len(s.clauses))
	for _, c := range s.clauses {
		fqs = append(fqs, serialize(c))
	}
	return fqs
}

func serialize(c Clause) string {
	var sb strings.Builder
	if c.Negate {
		sb.WriteByte('-')
	}
	sb.WriteString(c.Field)
	sb.WriteByte(':')
	switch c.Mode {
	case Contains:
		sb.WriteString("*" + first(c) + "*")
	case StartsWith:
		sb.WriteString(first(c) + "*")
	case EndsWith:
		sb.WriteString("*" + first(c))
	case In:
		if len(c.Values) == 1 {
			sb.WriteString(c.Values[0])
			break
		}
		sb.WriteString("(" + strings.Join(c.Values, " OR ") + ")")
	case Range:
		sb.WriteString("[" + c.Values[0] + " TO " + c.Values[1] + "]")
	default:
		sb.WriteString(first(c))
	}
	return sb.String()
}

func first(c Clause) string {
	if len(c.Values) == 0 {
		return ""
	}
	return c.Values[0]
}
