package model

// QuestionChangeKind identifies which question property a change event touched.
// The values match the property names the Q&A service emits.
type QuestionChangeKind string

const (
	QuestionTitleChanged      QuestionChangeKind = "questionName"
	QuestionDetailChanged     QuestionChangeKind = "questionDetail"
	QuestionActivationToggled QuestionChangeKind = "questionActivated"
	QuestionAttachmentAdded   QuestionChangeKind = "questionAttachment"
	QuestionLanguageAdded     QuestionChangeKind = "questionLanguage"
)

// String returns the string representation of the change kind.
func (k QuestionChangeKind) String() string {
	return string(k)
}

// IsValid checks whether the change kind is a known value.
func (k QuestionChangeKind) IsValid() bool {
	switch k {
	case QuestionTitleChanged, QuestionDetailChanged, QuestionActivationToggled,
		QuestionAttachmentAdded, QuestionLanguageAdded:
		return true
	}
	return false
}

// QuestionChange is a single pending change on a question. Active is only
// meaningful for QuestionActivationToggled and Language only for
// QuestionLanguageAdded.
type QuestionChange struct {
	Kind     QuestionChangeKind `json:"kind"`
	Active   bool               `json:"active,omitempty"`
	Language string             `json:"language,omitempty"`
}

// LanguageVariant is a translation of a question.
type LanguageVariant struct {
	Language string `json:"language"`
	Title    string `json:"title,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// Attachment is a file attached to a question.
type Attachment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type,omitempty"`
}

// Question is a Q&A question as published by the Q&A service.
type Question struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Detail      string            `json:"detail,omitempty"`
	Author      string            `json:"author"`
	CategoryID  string            `json:"category_id,omitempty"`
	Language    string            `json:"language,omitempty"`
	Link        string            `json:"link,omitempty"`
	Activated   bool              `json:"activated"`
	Rating      float64           `json:"rating"`
	Languages   []LanguageVariant `json:"languages,omitempty"`
	Attachments []Attachment      `json:"attachments,omitempty"`

	// Relational data, used only for counters.
	Answers  []*Answer  `json:"answers,omitempty"`
	Comments []*Comment `json:"comments,omitempty"`

	// Changes accumulated since the question was last persisted.
	Changes []QuestionChange `json:"changes,omitempty"`
}

// TakeChanges returns the pending change events and clears them, so each
// save cycle consumes them exactly once.
func (q *Question) TakeChanges() []QuestionChange {
	changes := q.Changes
	q.Changes = nil
	return changes
}

// LastLanguage returns the language of the most recently added variant, or
// "" when the question has no variants.
func (q *Question) LastLanguage() string {
	if len(q.Languages) == 0 {
		return ""
	}
	return q.Languages[len(q.Languages)-1].Language
}

// NumAnswers returns the number of answers attached to the question.
func (q *Question) NumAnswers() int {
	return len(q.Answers)
}

// NumComments returns the number of comments attached to the question.
func (q *Question) NumComments() int {
	return len(q.Comments)
}
