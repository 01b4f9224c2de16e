package faq

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alfredjeanlab/qastream/internal/model"
)

// HTTPClient implements Service over the Q&A service's HTTP/JSON API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a client targeting baseURL (e.g. "http://faq:8080").
// When token is non-empty, an Authorization header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) GetQuestionByID(ctx context.Context, id string) (*model.Question, error) {
	var q model.Question
	if err := c.getJSON(ctx, "/v1/questions/"+url.PathEscape(id), &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (c *HTTPClient) ReadQuestionProperty(ctx context.Context, id, name string) (json.RawMessage, error) {
	var resp struct {
		Value json.RawMessage `json:"value"`
	}
	path := "/v1/questions/" + url.PathEscape(id) + "/properties/" + url.PathEscape(name)
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	if len(resp.Value) == 0 {
		return json.RawMessage("null"), nil
	}
	return resp.Value, nil
}

func (c *HTTPClient) CategoryPath(ctx context.Context, categoryID string) ([]string, error) {
	var resp struct {
		Path []string `json:"path"`
	}
	if err := c.getJSON(ctx, "/v1/categories/"+url.PathEscape(categoryID)+"/path", &resp); err != nil {
		return nil, err
	}
	return resp.Path, nil
}

// getJSON performs a GET request and decodes the JSON response into result.
func (c *HTTPClient) getJSON(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
