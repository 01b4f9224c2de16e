// Package faq is the contract of the Q&A service this module projects into
// activity streams, with an HTTP/JSON client for it.
package faq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/alfredjeanlab/qastream/internal/model"
)

// PropertyCategoryID is the question property holding its category.
const PropertyCategoryID = "categoryId"

// Service is the read side of the Q&A service.
type Service interface {
	GetQuestionByID(ctx context.Context, id string) (*model.Question, error)
	// ReadQuestionProperty returns the raw JSON value of a named property,
	// or JSON null when the question does not have it.
	ReadQuestionProperty(ctx context.Context, id, name string) (json.RawMessage, error)
	// CategoryPath returns the ancestry of a category, root first, ending
	// with the category itself.
	CategoryPath(ctx context.Context, categoryID string) ([]string, error)
}

// ReadStringProperty reads a string-valued question property. A null or
// missing value yields "".
func ReadStringProperty(ctx context.Context, svc Service, questionID, name string) (string, error) {
	raw, err := svc.ReadQuestionProperty(ctx, questionID, name)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("property %s of question %s: %w", name, questionID, err)
	}
	return s, nil
}

// CategoryID returns the category of a question, preferring the value
// carried on the question itself.
func CategoryID(ctx context.Context, svc Service, q *model.Question) (string, error) {
	if q.CategoryID != "" {
		return q.CategoryID, nil
	}
	return ReadStringProperty(ctx, svc, q.ID, PropertyCategoryID)
}

// APIError represents an error response from the Q&A service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the Q&A service.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
