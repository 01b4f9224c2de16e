package model

// AnswerChangeKind identifies which answer property a change event touched.
type AnswerChangeKind string

const (
	AnswerContentEdited     AnswerChangeKind = "answerEdit"
	AnswerPromoted          AnswerChangeKind = "answerPromoted"
	AnswerActivationToggled AnswerChangeKind = "answerActivated"
	AnswerApprovalToggled   AnswerChangeKind = "answerApproved"
)

// String returns the string representation of the change kind.
func (k AnswerChangeKind) String() string {
	return string(k)
}

// IsValid checks whether the change kind is a known value.
func (k AnswerChangeKind) IsValid() bool {
	switch k {
	case AnswerContentEdited, AnswerPromoted, AnswerActivationToggled, AnswerApprovalToggled:
		return true
	}
	return false
}

// AnswerChange is a single pending change on an answer. Active carries the new
// value for AnswerActivationToggled and Approved for AnswerApprovalToggled.
type AnswerChange struct {
	Kind     AnswerChangeKind `json:"kind"`
	Active   bool             `json:"active,omitempty"`
	Approved bool             `json:"approved,omitempty"`
}

// Answer is a response to a question. A comment promoted to an answer keeps
// its ID and carries an AnswerPromoted change.
type Answer struct {
	ID         string         `json:"id"`
	QuestionID string         `json:"question_id"`
	Author     string         `json:"author"`
	Body       string         `json:"body"`
	Language   string         `json:"language,omitempty"`
	Activated  bool           `json:"activated"`
	Approved   bool           `json:"approved"`
	Changes    []AnswerChange `json:"changes,omitempty"`
}

// TakeChanges returns the pending change events and clears them.
func (a *Answer) TakeChanges() []AnswerChange {
	changes := a.Changes
	a.Changes = nil
	return changes
}
