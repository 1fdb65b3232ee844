package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dharsanguruparan/Pokedex/internal/catalog"
	"github.com/dharsanguruparan/Pokedex/internal/model"
)

// ErrTransport is reported when a request fails without a server message.
var ErrTransport = errors.New("network error")

// APIError is a non-2xx response. Message is the server's message, if any.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("unexpected status %d", e.Status)
}

// ErrorMessage is the text shown for err: the server's message when present,
// otherwise a generic transport message.
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return ErrTransport.Error()
}

// CreateRequest is the body of a create call.
type CreateRequest struct {
	Name  string   `json:"name"`
	ID    int      `json:"id"`
	Types []string `json:"types"`
	URL   string   `json:"url"`
}

// APIClient calls the Pokedex HTTP API.
type APIClient struct {
	baseURL string
	http    *http.Client
}

func NewAPIClient(baseURL string, hc *http.Client) *APIClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &APIClient{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (c *APIClient) List(ctx context.Context, page, limit int) ([]model.DisplayPokemon, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	var out []model.DisplayPokemon
	err := c.do(ctx, http.MethodGet, "/pokemons?"+q.Encode(), nil, &out)
	return out, err
}

func (c *APIClient) Search(ctx context.Context, term string) ([]model.DisplayPokemon, error) {
	q := url.Values{}
	q.Set("name", term)
	var out []model.DisplayPokemon
	err := c.do(ctx, http.MethodGet, "/pokemons/search?"+q.Encode(), nil, &out)
	return out, err
}

func (c *APIClient) FilterByType(ctx context.Context, typ string) ([]model.DisplayPokemon, error) {
	var out []model.DisplayPokemon
	err := c.do(ctx, http.MethodGet, "/pokemons/type/"+url.PathEscape(typ), nil, &out)
	return out, err
}

func (c *APIClient) Get(ctx context.Context, id string) (catalog.Detail, error) {
	var out catalog.Detail
	err := c.do(ctx, http.MethodGet, "/pokemons/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *APIClient) Create(ctx context.Context, req CreateRequest) (model.DisplayPokemon, error) {
	var out model.DisplayPokemon
	err := c.do(ctx, http.MethodPost, "/pokemons", req, &out)
	return out, err
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if decodeErr != nil {
		return fmt.Errorf("%w: decode response: %v", ErrTransport, decodeErr)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decode data: %v", ErrTransport, err)
	}
	return nil
}
