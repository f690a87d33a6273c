// Package docstore implements typed HTTP operations against an external
// document-store backend. The client holds only its URL list, index name and
// an atomic round-robin cursor, so it is safe to use from a single thread without
// further synchronization — the pipeline's consumer thread is its only
// caller.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/nodeplugins/esindex/internal/model"
)

// Client issues REST operations against one or more document-store base
// URLs for a single index name.
type Client struct {
	urls    []string
	index   string
	http    *http.Client
	nextURL atomic.Uint64
}

// New builds a Client. urls must be non-empty; requests round-robin across
// them so a single unreachable node doesn't stall every call.
func New(urls []string, index string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	cp := make([]string, len(urls))
	copy(cp, urls)
	return &Client{urls: cp, index: index, http: httpClient}
}

func (c *Client) baseURL() string {
	n := c.nextURL.Add(1) - 1
	return strings.TrimRight(c.urls[n%uint64(len(c.urls))], "/")
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	url := c.baseURL() + path
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, connErr(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, connErr(err)
	}
	return resp, nil
}

func readAll(resp *http.Response) []byte {
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return b
}

func ok2xx(status int) bool { return status >= 200 && status < 300 }

// CreateIndex issues PUT /<index> with the given mapping body.
func (c *Client) CreateIndex(ctx context.Context, mappings json.RawMessage) error {
	resp, err := c.do(ctx, http.MethodPut, "/"+c.index, mappings)
	if err != nil {
		return err
	}
	body := readAll(resp)
	if !ok2xx(resp.StatusCode) {
		return responseErr(resp.StatusCode, string(body))
	}
	return nil
}

// DeleteIndex issues DELETE /<index>. A 404 is treated as success — absence
// of the index already satisfies "deleted".
func (c *Client) DeleteIndex(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodDelete, "/"+c.index, nil)
	if err != nil {
		return err
	}
	body := readAll(resp)
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if !ok2xx(resp.StatusCode) {
		return responseErr(resp.StatusCode, string(body))
	}
	return nil
}

// Index writes a document of the given kind. If id is empty, one is
// generated so the caller always knows the written document's identity.
func (c *Client) Index(ctx context.Context, kind model.DocKind, body map[string]any, id string) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	path := fmt.Sprintf("/%s/%s/%s", c.index, kind, id)
	resp, err := c.do(ctx, http.MethodPost, path, buf)
	if err != nil {
		return "", err
	}
	respBody := readAll(resp)
	if !ok2xx(resp.StatusCode) {
		return "", responseErr(resp.StatusCode, string(respBody))
	}
	return id, nil
}

// Count returns the number of documents of kind matching the optional
// query (nil means "match all").
func (c *Client) Count(ctx context.Context, kind model.DocKind, query json.RawMessage) (uint64, error) {
	path := fmt.Sprintf("/%s/%s/_count", c.index, kind)
	resp, err := c.do(ctx, http.MethodGet, path, query)
	if err != nil {
		return 0, err
	}
	body := readAll(resp)
	if !ok2xx(resp.StatusCode) {
		return 0, responseErr(resp.StatusCode, string(body))
	}
	var out struct {
		Count uint64 `json:"count"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// Search issues a query against kind and returns the raw JSON response.
func (c *Client) Search(ctx context.Context, kind model.DocKind, query json.RawMessage) (json.RawMessage, error) {
	path := fmt.Sprintf("/%s/%s/_search", c.index, kind)
	resp, err := c.do(ctx, http.MethodPost, path, query)
	if err != nil {
		return nil, err
	}
	body := readAll(resp)
	if !ok2xx(resp.StatusCode) {
		return nil, responseErr(resp.StatusCode, string(body))
	}
	return body, nil
}

// DeleteByQuery issues a delete-by-query against kind.
func (c *Client) DeleteByQuery(ctx context.Context, kind model.DocKind, query json.RawMessage) error {
	path := fmt.Sprintf("/%s/%s/_delete_by_query", c.index, kind)
	resp, err := c.do(ctx, http.MethodPost, path, query)
	if err != nil {
		return err
	}
	body := readAll(resp)
	if !ok2xx(resp.StatusCode) {
		return responseErr(resp.StatusCode, string(body))
	}
	return nil
}

// BulkItem is one action line of a bulk request.
type BulkItem struct {
	Kind   model.DocKind
	ID     string
	Action string // "index" or "update"; defaults to "index"
	Body   map[string]any
}

// Bulk submits batch as newline-delimited JSON to /_bulk. It reports
// bulk-fail if any per-item response carries an error.
func (c *Client) Bulk(ctx context.Context, batch []BulkItem) error {
	if len(batch) == 0 {
		return nil
	}
	var buf bytes.Buffer
	for _, item := range batch {
		id := item.ID
		if id == "" {
			id = uuid.NewString()
		}
		action := item.Action
		if action == "" {
			action = "index"
		}
		meta := map[string]any{
			action: map[string]any{
				"_index": c.index,
				"_type":  string(item.Kind),
				"_id":    id,
			},
		}
		metaLine, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		bodyLine, err := json.Marshal(item.Body)
		if err != nil {
			return err
		}
		buf.Write(metaLine)
		buf.WriteByte('\n')
		buf.Write(bodyLine)
		buf.WriteByte('\n')
	}

	resp, err := c.do(ctx, http.MethodPost, "/_bulk", buf.Bytes())
	if err != nil {
		return err
	}
	respBody := readAll(resp)
	if !ok2xx(resp.StatusCode) {
		return responseErr(resp.StatusCode, string(respBody))
	}

	var parsed struct {
		Errors bool `json:"errors"`
		// Each item is keyed by its action ("index" or "update").
		Items []map[string]struct {
			Status int `json:"status"`
		} `json:"items"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return err
	}
	if !parsed.Errors {
		return nil
	}
	failures := 0
	for _, item := range parsed.Items {
		for _, result := range item {
			if !ok2xx(result.Status) {
				failures++
			}
		}
	}
	if failures > 0 {
		return bulkFailErr(failures)
	}
	return nil
}
