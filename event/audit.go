package event

// SearchAuditName is the event name used for search audit events.
const SearchAuditName = "search_audit"

// SearchAudit is emitted for every executed search query. FilterQueries
// holds the serialized filter clauses of the query, in the order they were
// built.
type SearchAudit struct {
	LogType       string   `json:"log_type"`
	User          string   `json:"user"`
	FilterQueries []string `json:"filter_queries"`
}
