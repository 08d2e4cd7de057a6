package filter

import (
	"strings"

	"github.com/loghive/logsearch/query"
	"github.com/loghive/logsearch/solr"
)

// AddLogMessage appends one clause per token of the free-text expression
// against [LogMessageField], all sharing the same negate flag. Tokens are
// split on spaces with double-quoted phrases kept as single tokens, then
// classified by their leading/trailing wildcard markers.
func (b *Builder) AddLogMessage(q query.Sink, text string, negate bool) query.Sink {
	for _, token := range tokenize(text) {
		m := classify(strings.TrimSpace(token))
		b.add(q, query.NewClause(LogMessageField, m.mode, solr.EscapeQueryChars(m.literal), negate))
	}
	return q
}

// match is the outcome of classifying one token: which match mode applies
// and the literal with its wildcard markers stripped.
type match struct {
	mode    query.Mode
	literal string
}

// classify decides the match mode of a token. The branches are ordered by
// priority and the first match wins:
//
//  1. embedded space, or no '*' at either end: exact phrase match
//  2. '*' at both ends: containment, both markers stripped
//  3. leading '*' only: suffix match, marker stripped
//  4. trailing '*' only: prefix match, marker stripped
//
// The four positions of '*' are distinct search intents and must stay
// distinct. Escaping of the literal is left to the caller.
func classify(token string) match {
	prefixed := strings.HasPrefix(token, "*")
	suffixed := strings.HasSuffix(token, "*")
	switch {
	case strings.Contains(token, " ") || (!prefixed && !suffixed):
		return match{mode: query.Equals, literal: token}
	case prefixed && suffixed:
		// A lone "*" is prefixed and suffixed at once; it strips to "".
		var literal string
		if len(token) > 1 {
			literal = token[1 : len(token)-1]
		}
		return match{mode: query.Contains, literal: literal}
	case prefixed:
		return match{mode: query.EndsWith, literal: token[1:]}
	default:
		return match{mode: query.StartsWith, literal: token[:len(token)-1]}
	}
}

// tokenize splits a free-text expression on ASCII spaces, treating
// double-quoted runs as single tokens (quotes removed). Empty tokens are
// dropped.
func tokenize(text string) []string {
	var (
		tokens   []string
		sb       strings.Builder
		inQuotes bool
	)
	flush := func() {
		if sb.Len() > 0 {
			tokens = append(tokens, sb.String())
			sb.Reset()
		}
	}
	for _, r := range text {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ' ' && !inQuotes:
			flush()
		default:
			sb.WriteRune(r)
		}
	}
	flush()
	return tokens
}
