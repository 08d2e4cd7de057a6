package query_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/loghive/logsearch/query"
)

func TestSolrFilterQueries(t *testing.T) {
	t.Parallel()

	type testcase struct {
		name    string
		clauses []query.Clause
		want    []string
	}

	for _, tc := range []testcase{
		{
			name: "empty query",
			want: []string{},
		},
		{
			name: "equals",
			clauses: []query.Clause{
				query.NewClause("level", query.Equals, "ERROR", false),
			},
			want: []string{"level:ERROR"},
		},
		{
			name: "negated equals",
			clauses: []query.Clause{
				query.NewClause("level", query.Equals, "DEBUG", true),
			},
			want: []string{"-level:DEBUG"},
		},
		{
			name: "contains",
			clauses: []query.Clause{
				query.NewClause("log_message", query.Contains, "timeout", false),
			},
			want: []string{"log_message:*timeout*"},
		},
		{
			name: "starts with",
			clauses: []query.Clause{
				query.NewClause("log_message", query.StartsWith, "fail", false),
			},
			want: []string{"log_message:fail*"},
		},
		{
			name: "ends with",
			clauses: []query.Clause{
				query.NewClause("log_message", query.EndsWith, "exception", false),
			},
			want: []string{"log_message:*exception"},
		},
		{
			name: "in with single value collapses",
			clauses: []query.Clause{
				{Field: "host", Mode: query.In, Values: []string{"node1"}},
			},
			want: []string{"host:node1"},
		},
		{
			name: "in with multiple values",
			clauses: []query.Clause{
				{Field: "host", Mode: query.In, Values: []string{"node1", "node2"}},
			},
			want: []string{"host:(node1 OR node2)"},
		},
		{
			name: "negated in",
			clauses: []query.Clause{
				{Field: "host", Mode: query.In, Values: []string{"node1", "node2"}, Negate: true},
			},
			want: []string{"-host:(node1 OR node2)"},
		},
		{
			name: "range",
			clauses: []query.Clause{
				{Field: "logtime", Mode: query.Range, Values: []string{"*", "2020"}},
			},
			want: []string{"logtime:[* TO 2020]"},
		},
		{
			name: "append order is kept",
			clauses: []query.Clause{
				query.NewClause("level", query.Equals, "WARN", false),
				query.NewClause("host", query.Equals, "node1", true),
			},
			want: []string{"level:WARN", "-host:node1"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			q := &query.Solr{}
			for _, c := range tc.clauses {
				q.AddClause(c)
			}
			if q.Len() != len(tc.clauses) {
				t.Fatalf("got %d clauses; want %d", q.Len(), len(tc.clauses))
			}
			if diff := cmp.Diff(tc.want, q.FilterQueries()); diff != "" {
				t.Fatalf("filter queries mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestModeString(t *testing.T) {
	t.Parallel()

	want := map[query.Mode]string{
		query.Equals:     "equals",
		query.Contains:   "contains",
		query.StartsWith: "starts_with",
		query.EndsWith:   "ends_with",
		query.In:         "in",
		query.Range:      "range",
		query.Mode(666):  "invalid",
	}
	for mode, name := range want {
		if got := mode.String(); got != name {
			t.Fatalf("got %q; want %q", got, name)
		}
	}
}
