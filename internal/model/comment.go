package model

// Comment represents a comment on a question.
type Comment struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id"`
	Author     string `json:"author"`
	Body       string `json:"body"`
	Language   string `json:"language,omitempty"`
}
