package model

import "strings"

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ValidationError) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.Errors = append(e.Errors, FieldError{Field: field, Message: "is required"})
	}
}

func (e *ValidationError) result() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// ValidateQuestion checks the fields the activity projection depends on.
func ValidateQuestion(q *Question) error {
	var ve ValidationError
	ve.required("id", q.ID)
	ve.required("author", q.Author)
	for _, c := range q.Changes {
		if !c.Kind.IsValid() {
			ve.Errors = append(ve.Errors, FieldError{Field: "changes", Message: "unknown kind " + c.Kind.String()})
		}
	}
	return ve.result()
}

// ValidateAnswer checks the fields the activity projection depends on.
func ValidateAnswer(a *Answer) error {
	var ve ValidationError
	ve.required("id", a.ID)
	ve.required("author", a.Author)
	for _, c := range a.Changes {
		if !c.Kind.IsValid() {
			ve.Errors = append(ve.Errors, FieldError{Field: "changes", Message: "unknown kind " + c.Kind.String()})
		}
	}
	return ve.result()
}

// ValidateComment checks the fields the activity projection depends on.
func ValidateComment(c *Comment) error {
	var ve ValidationError
	ve.required("id", c.ID)
	ve.required("author", c.Author)
	return ve.result()
}
