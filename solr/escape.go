// Package solr provides escaping helpers for building Solr query literals.
// It knows which characters are reserved by the query syntax and how field
// types affect wildcard handling of structured field values.
package solr

import (
	"strconv"
	"strings"
	"unicode"
)

// FieldTypeDef is the decoded definition of a Solr field type, as served by
// the schema API. Only the parts relevant to escaping are kept.
type FieldTypeDef struct {
	Class     string `json:"class"`
	Tokenizer string `json:"tokenizer"`
}

// Tokenizer factory classes that change how values of a type are matched.
const (
	StandardTokenizer = "solr.StandardTokenizerFactory"
	KeywordTokenizer  = "solr.KeywordTokenizerFactory"
)

// Field classes that hold numeric values. Wildcards are meaningless for them.
var numberClasses = map[string]bool{
	"solr.TrieIntField":     true,
	"solr.TrieLongField":    true,
	"solr.TrieFloatField":   true,
	"solr.TrieDoubleField":  true,
	"solr.IntPointField":    true,
	"solr.LongPointField":   true,
	"solr.FloatPointField":  true,
	"solr.DoublePointField": true,
}

// EscapeQueryChars neutralizes every character reserved by the Solr query
// syntax so the result matches the input literally. Text without reserved
// characters passes through unchanged.
func EscapeQueryChars(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if reserved(r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func reserved(r rune) bool {
	switch r {
	case '\\', '+', '-', '!', '(', ')', ':', '^', '[', ']', '"', '{', '}', '~', '*', '?', '|', '&', ';', '/':
		return true
	}
	return unicode.IsSpace(r)
}

// WildcardByType prepares a structured field value for an equality match,
// applying the wildcard rules of the field's declared type. Fields absent
// from the schema (empty fieldType) get default escaping with no wildcard
// decoration.
func WildcardByType(value, fieldType string, def FieldTypeDef) string {
	if fieldType == "" {
		return EscapeQueryChars(value)
	}
	if numberClasses[def.Class] {
		return escapeNumber(value)
	}
	switch def.Tokenizer {
	case KeywordTokenizer:
		// Keyword-tokenized types index the whole value as one term,
		// so a substring match needs live wildcards around it.
		return "*" + value + "*"
	default:
		return EscapeQueryChars(value)
	}
}

// escapeNumber strips wildcard markers from a numeric field value. A value
// that is not a number after stripping cannot match anyway, escape it so the
// query stays syntactically valid.
func escapeNumber(value string) string {
	plain := strings.ReplaceAll(value, "*", "")
	if _, err := strconv.ParseFloat(plain, 64); err == nil {
		return plain
	}
	return EscapeQueryChars(plain)
}
