// Package filter translates the string-based search parameters of log-search
// requests (equality, containment, membership, range, free-text and
// field-value maps) into filter clauses appended to a [query.Sink].
//
// All operations are synchronous in-memory transformations. The builder
// itself is stateless and safe for concurrent use; the sink being built is
// not, callers must serialize writes to a single sink.
package filter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/loghive/logsearch/query"
	"github.com/loghive/logsearch/schema"
	"github.com/loghive/logsearch/solr"
)

// LogMessageField is the reserved field holding full log message content.
// Field-value map entries naming it (case-insensitively) go through
// token-level wildcard parsing instead of the structured field path.
const LogMessageField = "log_message"

// ErrMalformedFieldValues indicates a field-values payload that could not be
// decoded. It is fatal for the request carrying the payload.
var ErrMalformedFieldValues = errors.New("malformed field values payload")

// Builder appends filter clauses derived from request parameters to query
// sinks. The schema lookup is consulted lazily, only for structured fields
// arriving via field-value maps.
type Builder struct {
	schema  schema.Lookup
	logType schema.LogType
}

// NewBuilder creates a Builder resolving field types for the given log type.
func NewBuilder(lookup schema.Lookup, lt schema.LogType) *Builder {
	return &Builder{schema: lookup, logType: lt}
}

// AddEquals appends one equality clause for the escaped value.
// Blank values append nothing.
func (b *Builder) AddEquals(q query.Sink, field, value string, negate bool) query.Sink {
	if blank(value) {
		return q
	}
	b.add(q, query.NewClause(field, query.Equals, solr.EscapeQueryChars(value), negate))
	return q
}

// AddContains appends one containment clause for the escaped value.
// Blank values append nothing.
func (b *Builder) AddContains(q query.Sink, field, value string, negate bool) query.Sink {
	if blank(value) {
		return q
	}
	b.add(q, query.NewClause(field, query.Contains, solr.EscapeQueryChars(value), negate))
	return q
}

// AddIn appends one membership clause over the escaped values, keeping the
// given order and duplicates. An empty values list appends nothing.
func (b *Builder) AddIn(q query.Sink, field string, values []string, negate bool) query.Sink {
	if len(values) == 0 {
		return q
	}
	escaped := make([]string, 0, len(values))
	for _, v := range values {
		escaped = append(escaped, solr.EscapeQueryChars(v))
	}
	b.add(q, query.Clause{Field: field, Mode: query.In, Values: escaped, Negate: negate})
	return q
}

// AddInIfEnabled appends a membership clause from a comma-separated value
// when enabled is true. An enabled but empty rawCSV is not treated as
// absent: it filters to the sentinel value "-1", matching nothing valid.
// This keeps "explicitly filter to an empty set" distinct from "no filter
// requested".
func (b *Builder) AddInIfEnabled(q query.Sink, field, rawCSV string, enabled bool) query.Sink {
	if !enabled {
		return q
	}
	values := []string{"-1"}
	if rawCSV != "" {
		values = SplitValueAsList(rawCSV, ",")
	}
	return b.AddIn(q, field, values, false)
}

// AddRange appends one inclusive range clause. Empty bounds become the open
// bound "*" rather than dropping the clause. Bounds are engine-literal range
// syntax and deliberately bypass the escaper.
func (b *Builder) AddRange(q query.Sink, field, from, to string, negate bool) query.Sink {
	if from == "" {
		from = "*"
	}
	if to == "" {
		to = "*"
	}
	b.add(q, query.Clause{Field: field, Mode: query.Range, Values: []string{from, to}, Negate: negate})
	return q
}

// AddIncludeFieldValues decodes a JSON list of field->value maps and appends
// one clause per entry. Entries on [LogMessageField] take the free-text path;
// other fields get field-type-aware escaping and an equality clause.
// A payload that cannot be decoded fails with [ErrMalformedFieldValues].
func (b *Builder) AddIncludeFieldValues(q query.Sink, payload string) (query.Sink, error) {
	return b.addFieldValues(q, payload, false)
}

// AddExcludeFieldValues is [Builder.AddIncludeFieldValues] with every
// resulting clause negated.
func (b *Builder) AddExcludeFieldValues(q query.Sink, payload string) (query.Sink, error) {
	return b.addFieldValues(q, payload, true)
}

func (b *Builder) addFieldValues(q query.Sink, payload string, negate bool) (query.Sink, error) {
	if blank(payload) {
		return q, nil
	}
	var entries []map[string]string
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		return q, fmt.Errorf("%w: %v", ErrMalformedFieldValues, err)
	}
	for _, entry := range entries {
		for field, value := range entry {
			if strings.EqualFold(field, LogMessageField) {
				b.AddLogMessage(q, value, negate)
				continue
			}
			if blank(value) {
				continue
			}
			b.add(q, query.NewClause(field, query.Equals, b.escapeFieldValue(field, value), negate))
		}
	}
	return q, nil
}

// escapeFieldValue applies the wildcard rules of the field's declared type.
// Fields the schema does not know degrade to default escaping.
func (b *Builder) escapeFieldValue(field, value string) string {
	fieldType, ok := b.schema.FieldType(b.logType, field)
	if !ok {
		return solr.EscapeQueryChars(value)
	}
	def, _ := b.schema.TypeDef(b.logType, fieldType)
	return solr.WildcardByType(value, fieldType, def)
}

func (b *Builder) add(q query.Sink, c query.Clause) {
	sampleClause(c)
	q.AddClause(c)
}

// SplitValueAsList returns nil for an empty value, otherwise the value split
// on the separator with empty segments omitted.
func SplitValueAsList(value, separator string) []string {
	if value == "" {
		return nil
	}
	var parts []string
	for _, p := range strings.Split(value, separator) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
