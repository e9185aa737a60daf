// Package search keeps an optional Elasticsearch index of users for fuzzy user
// search. Nothing depends on it being up: callers fall back to SQL matching.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
	"github.com/zfogg/picfeed/internal/models"
	"github.com/zfogg/picfeed/internal/telemetry"
	"gorm.io/gorm"
)

// IndexUsers is the default users index name
const IndexUsers = "picfeed-users"

const reindexBatch = 200

// Options configures NewClient
type Options struct {
	URL   string
	Index string // defaults to IndexUsers
	// Transport overrides the traced default transport
	Transport http.RoundTripper
}

// Client wraps the Elasticsearch client with the user index operations the API needs
type Client struct {
	es    *elasticsearch.Client
	index string
}

// userDocument is what gets indexed per user
type userDocument struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewClient connects to Elasticsearch and verifies the cluster answers
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.Index == "" {
		opts.Index = IndexUsers
	}
	transport := opts.Transport
	if transport == nil {
		transport = telemetry.NewInstrumentedHTTPClient(0).Transport
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{opts.URL},
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	res, err := es.Info(es.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("info", res)
	}

	return &Client{es: es, index: opts.Index}, nil
}

// EnsureIndex creates the users index with its mapping if it does not exist yet
func (c *Client) EnsureIndex(ctx context.Context) error {
	res, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", c.index, err)
	}
	res.Body.Close()
	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("checking index %s: unexpected status [%s]", c.index, res.Status())
	}

	mapping := map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"id": map[string]any{"type": "keyword"},
				"username": map[string]any{
					"type":     "text",
					"analyzer": "standard",
					"fields": map[string]any{
						"keyword": map[string]any{"type": "keyword"},
					},
				},
				"display_name": map[string]any{"type": "text", "analyzer": "standard"},
				"created_at":   map[string]any{"type": "date"},
			},
		},
	}
	body, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal index mapping: %w", err)
	}

	res, err = c.es.Indices.Create(c.index,
		c.es.Indices.Create.WithBody(bytes.NewReader(body)),
		c.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", c.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("create index", res)
	}
	return nil
}

// IndexUser upserts the search document for user
func (c *Client) IndexUser(ctx context.Context, user *models.User) error {
	body, err := json.Marshal(userDocument{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal user document: %w", err)
	}

	res, err := c.es.Index(c.index, bytes.NewReader(body),
		c.es.Index.WithDocumentID(user.ID),
		c.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to index user: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index user", res)
	}
	return nil
}

// SearchUsers returns the ids of users matching query, best match first.
// Usernames match fuzzily and by prefix; display names match fuzzily.
func (c *Client) SearchUsers(ctx context.Context, query string, limit int) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []string{}, nil
	}

	searchQuery := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"should": []map[string]any{
					{"prefix": map[string]any{
						"username.keyword": map[string]any{"value": strings.ToLower(query), "boost": 3.0},
					}},
					{"match": map[string]any{
						"username": map[string]any{"query": query, "boost": 2.0, "fuzziness": "AUTO", "prefix_length": 1},
					}},
					{"match": map[string]any{
						"display_name": map[string]any{"query": query, "boost": 1.5, "fuzziness": "AUTO"},
					}},
				},
				"minimum_should_match": 1,
			},
		},
		"_source": false,
		"size":    limit,
	}
	body, err := json.Marshal(searchQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("search users", res)
	}

	var searchResp struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	ids := make([]string, 0, len(searchResp.Hits.Hits))
	for _, hit := range searchResp.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// ReindexUsers indexes every user in db and returns how many were indexed.
// Users created outside the login path (the seeder, imports) only become
// searchable through this.
func (c *Client) ReindexUsers(ctx context.Context, db *gorm.DB) (int, error) {
	indexed := 0
	var batch []*models.User
	err := db.WithContext(ctx).FindInBatches(&batch, reindexBatch, func(tx *gorm.DB, _ int) error {
		for _, user := range batch {
			if err := c.IndexUser(ctx, user); err != nil {
				return fmt.Errorf("user %s: %w", user.ID, err)
			}
			indexed++
		}
		return nil
	}).Error
	return indexed, err
}

func responseError(op string, res *esapi.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
	var errResp struct {
		Error any `json:"error"`
	}
	if json.Unmarshal(raw, &errResp) == nil && errResp.Error != nil {
		return fmt.Errorf("%s failed: [%s] %v", op, res.Status(), errResp.Error)
	}
	return fmt.Errorf("%s failed: [%s]", op, res.Status())
}
