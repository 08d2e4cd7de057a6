package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/loghive/logsearch/solr"
)

type (
	// Client abstracts a [http.Client] so fetching can be tested and
	// wrapped (retry, metrics) without depending on a concrete client.
	Client interface {
		Do(req *http.Request) (*http.Response, error)
	}

	// Fetcher reads field and field-type definitions from the Solr schema
	// API of each log type's collection.
	Fetcher struct {
		client         Client
		collections    map[LogType]string
		retryMinPeriod time.Duration
	}

	// FetcherOption configures a [Fetcher].
	FetcherOption func(*Fetcher)
)

// WithRetryMinPeriod configures the initial sleep period between retries of
// transient failures. The period grows exponentially per retry.
func WithRetryMinPeriod(period time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.retryMinPeriod = period
	}
}

// NewFetcher creates a Fetcher for the given collection base URLs
// (log type -> "http://host/solr/<collection>"). The client is wrapped with
// retry on transient failures.
func NewFetcher(c Client, collections map[LogType]string, options ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:         c,
		collections:    collections,
		retryMinPeriod: time.Second,
	}
	for _, option := range options {
		option(f)
	}
	f.client = newRetrier(f.client, f.retryMinPeriod)
	return f
}

// LogTypes returns the log types this fetcher is configured for.
func (f *Fetcher) LogTypes() []LogType {
	lts := make([]LogType, 0, len(f.collections))
	for lt := range f.collections {
		lts = append(lts, lt)
	}
	return lts
}

// Fetch retrieves the schema of the given log type: a field name -> type
// name map and a type name -> definition map.
func (f *Fetcher) Fetch(ctx context.Context, lt LogType) (map[string]string, map[string]solr.FieldTypeDef, error) {
	base, ok := f.collections[lt]
	if !ok {
		return nil, nil, fmt.Errorf("no collection configured for log type %q", lt)
	}

	var fieldsResp struct {
		Fields []struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"fields"`
	}
	if err := f.get(ctx, base+"/schema/fields", &fieldsResp); err != nil {
		return nil, nil, fmt.Errorf("fetching %s fields: %w", lt, err)
	}

	var typesResp struct {
		FieldTypes []struct {
			Name     string `json:"name"`
			Class    string `json:"class"`
			Analyzer struct {
				Tokenizer struct {
					Class string `json:"class"`
				} `json:"tokenizer"`
			} `json:"analyzer"`
		} `json:"fieldTypes"`
	}
	if err := f.get(ctx, base+"/schema/fieldtypes", &typesResp); err != nil {
		return nil, nil, fmt.Errorf("fetching %s field types: %w", lt, err)
	}

	fields := make(map[string]string, len(fieldsResp.Fields))
	for _, fd := range fieldsResp.Fields {
		fields[fd.Name] = fd.Type
	}
	types := make(map[string]solr.FieldTypeDef, len(typesResp.FieldTypes))
	for _, td := range typesResp.FieldTypes {
		types[td.Name] = solr.FieldTypeDef{
			Class:     td.Class,
			Tokenizer: td.Analyzer.Tokenizer.Class,
		}
	}
	return fields, types, nil
}

func (f *Fetcher) get(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", url, res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("GET %s: decoding response: %w", url, err)
	}
	return nil
}

// retrier wraps a [Client] with exponential backoff on transient statuses.
// Schema requests are GETs, so replaying them is safe.
type retrier struct {
	client    Client
	minPeriod time.Duration
}

const maxRetries = 3

func newRetrier(c Client, minPeriod time.Duration) Client {
	return &retrier{client: c, minPeriod: minPeriod}
}

func (r *retrier) Do(req *http.Request) (*http.Response, error) {
	period := r.minPeriod
	for try := 0; ; try++ {
		// Clone per try, requests should not be reused across sends.
		res, err := r.client.Do(req.Clone(req.Context()))
		if err != nil {
			return nil, err
		}
		if try >= maxRetries || !transient(res.StatusCode) {
			return res, nil
		}
		_ = res.Body.Close()
		if err := sleep(req.Context(), period); err != nil {
			return nil, err
		}
		period *= 2
	}
}

func transient(status int) bool {
	return status == http.StatusInternalServerError ||
		status == http.StatusServiceUnavailable ||
		status == http.StatusTooManyRequests
}

func sleep(ctx context.Context, period time.Duration) error {
	timer := time.NewTimer(period)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
