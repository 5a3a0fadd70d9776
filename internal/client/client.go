// Package client talks to the catalog REST API. Responses are bare JSON
// bodies; error bodies carry a "message" field.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/product-catalog/internal/logging"
	"github.com/rogerio-castellano/product-catalog/internal/models"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-Id"

type Client struct {
	baseURL string
	http    *http.Client
	token   string
	log     logging.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sends a bearer token, required by mutating routes when the API
// runs with authentication enabled.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a client for the API rooted at baseURL, e.g.
// "http://localhost:3002/bp".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) List(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Product{}
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) Create(ctx context.Context, p models.Product) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, http.MethodPost, "/products", p, &out)
	return out, err
}

func (c *Client) Update(ctx context.Context, id string, p models.Product) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(id), p, &out)
	return out, err
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
}

// VerifyID reports whether id is already used by a product.
func (c *Client) VerifyID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := c.do(ctx, http.MethodGet, "/products/verification/"+url.PathEscape(id), nil, &exists)
	return exists, err
}

// Login exchanges admin credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", body, &out); err != nil {
		return "", err
	}
	c.token = out.Token
	return out.Token, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return transportError(fmt.Errorf("failed to encode request: %w", err))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return transportError(fmt.Errorf("failed to build request: %w", err))
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log := c.log.With("method", method, "path", path, "request_id", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		terr := transportError(err)
		log.Error(ctx, "HTTP Error", "message", terr.Message, "error", err)
		return terr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		terr := transportError(fmt.Errorf("failed to read response: %w", err))
		log.Error(ctx, "HTTP Error", "message", terr.Message, "error", err)
		return terr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		terr := Translate(resp.StatusCode, data)
		log.Error(ctx, "HTTP Error", "status", resp.StatusCode, "message", terr.Message)
		return terr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		terr := transportError(fmt.Errorf("failed to decode response: %w", err))
		log.Error(ctx, "HTTP Error", "message", terr.Message, "error", err)
		return terr
	}
	return nil
}
