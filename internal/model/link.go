package model

// AnswerLink maps an answer to the comment-activities that represent it, in
// the order they were created.
type AnswerLink struct {
	AnswerID    string   `json:"answer_id"`
	ActivityIDs []string `json:"activity_ids"`
}

// CommentLink maps a comment in a given language to its comment-activity.
type CommentLink struct {
	CommentID  string `json:"comment_id"`
	Language   string `json:"language"`
	ActivityID string `json:"activity_id"`
}

// LinkSet is every registry entry recorded for one question.
type LinkSet struct {
	QuestionID string        `json:"question_id"`
	ActivityID string        `json:"activity_id,omitempty"`
	Answers    []AnswerLink  `json:"answers,omitempty"`
	Comments   []CommentLink `json:"comments,omitempty"`
}

// IsEmpty reports whether the question has no registry entries at all.
func (l *LinkSet) IsEmpty() bool {
	return l.ActivityID == "" && len(l.Answers) == 0 && len(l.Comments) == 0
}
