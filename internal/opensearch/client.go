// Package opensearch is a thin HTTP wrapper over the OpenSearch REST API,
// covering only what the benchmarks need: index lifecycle, bulk ingest,
// queries with server-side timing, and index stats.
package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hannes44/exjobb-index-compression/internal/dataset"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(host string, port int) *Client {
	return &Client{
		baseURL: fmt.Sprintf("http://%s:%d", host, port),
		http:    &http.Client{Timeout: 120 * time.Second},
	}
}

// IndexStats is the subset of _stats the benchmarks record.
type IndexStats struct {
	SizeInBytes int64
	DocCount    int64
}

// SearchResult carries the server-side latency of one query.
type SearchResult struct {
	TookMillis int64
	TotalHits  int64
}

// CreateIndex creates an index with the given shard count and codec.
// An empty codec leaves the cluster default in place.
func (c *Client) CreateIndex(ctx context.Context, name string, shards int, codec string) error {
	index := map[string]any{"number_of_shards": shards}
	if codec != "" {
		index["codec"] = codec
	}
	body := map[string]any{
		"settings": map[string]any{"index": index},
	}

	return c.do(ctx, http.MethodPut, "/"+name, body, nil)
}

// DeleteIndex removes one index.
func (c *Client) DeleteIndex(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/"+name, nil, nil)
}

// DeleteAllIndices wipes every index on the cluster. Benchmark clusters
// are throwaway; do not point this at anything you care about.
func (c *Client) DeleteAllIndices(ctx context.Context) error {
	var listing []struct {
		Index string `json:"index"`
	}
	if err := c.do(ctx, http.MethodGet, "/_cat/indices?format=json", nil, &listing); err != nil {
		return err
	}

	for _, entry := range listing {
		if err := c.DeleteIndex(ctx, entry.Index); err != nil {
			return fmt.Errorf("failed to delete index %s: %w", entry.Index, err)
		}
	}
	return nil
}

// Bulk ingests documents into the index using the _bulk NDJSON endpoint.
func (c *Client) Bulk(ctx context.Context, index string, docs []dataset.Document) error {
	if len(docs) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, doc := range docs {
		action := map[string]any{
			"index": map[string]any{"_index": index, "_id": doc.ID},
		}
		if err := enc.Encode(action); err != nil {
			return err
		}
		if err := enc.Encode(map[string]any{"content": doc.Content}); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/_bulk", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-ndjson")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bulk ingest returned status %d: %s", resp.StatusCode, raw)
	}

	var result struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode bulk response: %w", err)
	}
	if result.Errors {
		return fmt.Errorf("bulk ingest reported per-document errors")
	}
	return nil
}

// Refresh makes everything ingested so far visible to search.
func (c *Client) Refresh(ctx context.Context, index string) error {
	return c.do(ctx, http.MethodPost, "/"+index+"/_refresh", nil, nil)
}

// Search runs a match query against the content field and returns the
// server-reported latency.
func (c *Client) Search(ctx context.Context, index string, query string) (*SearchResult, error) {
	body := map[string]any{
		"query": map[string]any{
			"match": map[string]any{"content": query},
		},
	}

	var result struct {
		Took int64 `json:"took"`
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
		} `json:"hits"`
	}
	if err := c.do(ctx, http.MethodPost, "/"+index+"/_search", body, &result); err != nil {
		return nil, err
	}

	return &SearchResult{TookMillis: result.Took, TotalHits: result.Hits.Total.Value}, nil
}

// Stats fetches the on-disk size and document count of an index.
func (c *Client) Stats(ctx context.Context, index string) (*IndexStats, error) {
	var result struct {
		All struct {
			Primaries struct {
				Store struct {
					SizeInBytes int64 `json:"size_in_bytes"`
				} `json:"store"`
				Docs struct {
					Count int64 `json:"count"`
				} `json:"docs"`
			} `json:"primaries"`
		} `json:"_all"`
	}
	if err := c.do(ctx, http.MethodGet, "/"+index+"/_stats", nil, &result); err != nil {
		return nil, err
	}

	return &IndexStats{
		SizeInBytes: result.All.Primaries.Store.SizeInBytes,
		DocCount:    result.All.Primaries.Docs.Count,
	}, nil
}

// do issues one JSON request and decodes the response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("opensearch returned status %d for %s %s: %s", resp.StatusCode, method, path, raw)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response for %s %s: %w", method, path, err)
		}
	}
	return nil
}
