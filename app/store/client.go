package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the content store's HTTP API. It implements the four
// operations the importer is written against: query, create, patch-commit
// and asset upload. Built once per run and passed by reference; it holds no
// mutable state beyond the underlying http.Client.
type Client struct {
	baseURL    string
	dataset    string
	token      string
	apiVersion string
	userAgent  string
	client     *http.Client
}

type Config struct {
	ProjectID  string
	Dataset    string
	Token      string
	APIVersion string
	UserAgent  string

	// BaseURL overrides the project-derived endpoint; used in tests.
	BaseURL string
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.ProjectID == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("store project ID is required")
	}
	if cfg.Dataset == "" {
		return nil, fmt.Errorf("store dataset is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("store token is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.api.sanity.io", cfg.ProjectID)
	}

	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = "2021-10-21"
	}

	return &Client{
		baseURL:    baseURL,
		dataset:    cfg.Dataset,
		token:      cfg.Token,
		apiVersion: apiVersion,
		userAgent:  cfg.UserAgent,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Query runs a filter query with $-prefixed parameters and returns the
// matching documents.
func (c *Client) Query(ctx context.Context, query string, params map[string]string) ([]map[string]any, error) {
	values := url.Values{}
	values.Set("query", query)
	for key, value := range params {
		// Parameter values are JSON-encoded on the wire
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode query param %s: %w", key, err)
		}
		values.Set("$"+key, string(encoded))
	}

	endpoint := fmt.Sprintf("%s/v%s/data/query/%s?%s", c.baseURL, c.apiVersion, c.dataset, values.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create query request: %w", err)
	}

	var response queryResponse
	if err := c.do(req, &response); err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	return response.Result, nil
}

// QueryOne returns the first matching document, or nil when none match.
// When the store unexpectedly holds several, the first is used; callers
// that require a singleton document own that precondition.
func (c *Client) QueryOne(ctx context.Context, query string, params map[string]string) (map[string]any, error) {
	docs, err := c.Query(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0], nil
}

// Create inserts a new document and returns its assigned ID.
func (c *Client) Create(ctx context.Context, doc any) (string, error) {
	response, err := c.mutate(ctx, mutation{Create: doc})
	if err != nil {
		return "", fmt.Errorf("create failed: %w", err)
	}
	if len(response.Results) == 0 {
		return "", fmt.Errorf("create returned no results")
	}
	return response.Results[0].ID, nil
}

// Patch starts a patch of the document with the given ID. Set the changed
// fields, then Commit.
func (c *Client) Patch(id string) *Patch {
	return &Patch{client: c, id: id}
}

type Patch struct {
	client *Client
	id     string
	set    any
}

func (p *Patch) Set(fields any) *Patch {
	p.set = fields
	return p
}

func (p *Patch) Commit(ctx context.Context) (string, error) {
	response, err := p.client.mutate(ctx, mutation{Patch: &patchPayload{ID: p.id, Set: p.set}})
	if err != nil {
		return "", fmt.Errorf("patch of %s failed: %w", p.id, err)
	}
	if len(response.Results) == 0 {
		return "", fmt.Errorf("patch of %s returned no results", p.id)
	}
	return response.Results[0].ID, nil
}

// PatchSet is shorthand for Patch(id).Set(fields).Commit(ctx).
func (c *Client) PatchSet(ctx context.Context, id string, fields any) (string, error) {
	return c.Patch(id).Set(fields).Commit(ctx)
}

// UploadAsset posts a binary to the image-asset endpoint and returns the
// new asset's ID.
func (c *Client) UploadAsset(ctx context.Context, data []byte, filename string) (string, error) {
	endpoint := fmt.Sprintf("%s/v%s/assets/images/%s?filename=%s",
		c.baseURL, c.apiVersion, c.dataset, url.QueryEscape(filename))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	var response assetResponse
	if err := c.do(req, &response); err != nil {
		return "", fmt.Errorf("asset upload failed: %w", err)
	}
	if response.Document.ID == "" {
		return "", fmt.Errorf("asset upload returned no document ID")
	}

	return response.Document.ID, nil
}

func (c *Client) mutate(ctx context.Context, mutations ...mutation) (*mutateResponse, error) {
	body, err := json.Marshal(mutateRequest{Mutations: mutations})
	if err != nil {
		return nil, fmt.Errorf("failed to encode mutations: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v%s/data/mutate/%s?returnIds=true", c.baseURL, c.apiVersion, c.dataset)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create mutate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var response mutateResponse
	if err := c.do(req, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.token)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("store returned status %d: %s", resp.StatusCode, errorDescription(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func errorDescription(data []byte) string {
	var parsed errorResponse
	if err := json.Unmarshal(data, &parsed); err == nil {
		if parsed.Error.Description != "" {
			return parsed.Error.Description
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	if len(data) > 200 {
		data = data[:200]
	}
	return string(data)
}
