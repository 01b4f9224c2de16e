package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/alfredjeanlab/qastream/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanActivity scans a single row into a model.Activity.
// The row must contain columns in the order defined by activityColumns.
func scanActivity(row scannable) (*model.Activity, error) {
	var a model.Activity
	var (
		parentID  sql.NullString
		params    []byte
		titleKey  sql.NullString
		titleArgs []byte
	)

	err := row.Scan(
		&a.ID,
		&parentID,
		&a.Type,
		&a.OwnerID,
		&a.UserID,
		&a.Title,
		&a.Body,
		&params,
		&titleKey,
		&titleArgs,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.ParentID = parentID.String
	a.TitleKey = titleKey.String

	if len(params) > 0 {
		if err := json.Unmarshal(params, &a.TemplateParams); err != nil {
			return nil, fmt.Errorf("decode template params of %s: %w", a.ID, err)
		}
	}
	if len(titleArgs) > 0 {
		if err := json.Unmarshal(titleArgs, &a.TitleArgs); err != nil {
			return nil, fmt.Errorf("decode title args of %s: %w", a.ID, err)
		}
	}

	return &a, nil
}

// nullString converts a Go string to sql.NullString. Empty strings become NULL.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// jsonbMap encodes a string map for a JSONB column. Empty maps become NULL.
func jsonbMap(m map[string]string) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

// jsonbStrings encodes a string slice for a JSONB column. Empty slices become NULL.
func jsonbStrings(s []string) ([]byte, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return json.Marshal(s)
}
