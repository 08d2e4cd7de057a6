// Package schema resolves log-search field names to their declared Solr
// types. Filter building consults it lazily, one field at a time, so
// implementations are expected to answer from memory.
package schema

import "github.com/loghive/logsearch/solr"

type (
	// LogType selects which collection's schema a field belongs to.
	LogType string

	// Lookup resolves field names to type names and type names to their
	// definitions. A miss is not an error, absent fields get default
	// escaping downstream.
	Lookup interface {
		FieldType(lt LogType, field string) (string, bool)
		TypeDef(lt LogType, fieldType string) (solr.FieldTypeDef, bool)
	}
)

// The log types known to the system.
const (
	ServiceLog LogType = "service"
	AuditLog   LogType = "audit"
)

// Static is a map-backed [Lookup], used for fixtures and tests.
type Static struct {
	Fields map[LogType]map[string]string
	Types  map[LogType]map[string]solr.FieldTypeDef
}

// FieldType implements [Lookup].
func (s Static) FieldType(lt LogType, field string) (string, bool) {
	t, ok := s.Fields[lt][field]
	return t, ok
}

// TypeDef implements [Lookup].
func (s Static) TypeDef(lt LogType, fieldType string) (solr.FieldTypeDef, bool) {
	def, ok := s.Types[lt][fieldType]
	return def, ok
}
