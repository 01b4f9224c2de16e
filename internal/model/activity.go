package model

import (
	"maps"
	"time"
)

// Activity types posted to the stream.
const (
	TypeQuestionActivity = "ks-answer:spaces"
	TypeAnswerComment    = "answer:spaces"
)

// Template parameter keys set on question activities and their comments.
// The presentation layer reads them; nothing in this module interprets them.
const (
	ParamQuestionID       = "Id"
	ParamLink             = "Link"
	ParamLanguage         = "Language"
	ParamQuestionRating   = "QuestionRating"
	ParamNumberOfAnswers  = "NumberOfAnswers"
	ParamNumberOfComments = "NumberOfComments"
	ParamSpaceGroupID     = "SpaceGroupId"
)

// Activity is a post in an activity stream. Comments on an activity are
// activities themselves, with ParentID set.
type Activity struct {
	ID             string            `json:"id"`
	ParentID       string            `json:"parent_id,omitempty"`
	Type           string            `json:"type,omitempty"`
	OwnerID        string            `json:"owner_id,omitempty"`
	UserID         string            `json:"user_id"`
	Title          string            `json:"title"`
	Body           string            `json:"body,omitempty"`
	TemplateParams map[string]string `json:"template_params,omitempty"`

	// Localization of the title. Only the last key set is kept.
	TitleKey  string   `json:"title_key,omitempty"`
	TitleArgs []string `json:"title_args,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Populated by queries, not stored in the activities row.
	Comments []*Activity `json:"comments,omitempty"`
}

// SetResourceKey tags the activity title with a localization key and its
// arguments, replacing any previous key.
func (a *Activity) SetResourceKey(key string, args ...string) {
	a.TitleKey = key
	a.TitleArgs = args
}

// SetParam sets a single template parameter, allocating the map if needed.
func (a *Activity) SetParam(key, value string) {
	if a.TemplateParams == nil {
		a.TemplateParams = make(map[string]string)
	}
	a.TemplateParams[key] = value
}

// Param returns a template parameter, or "" when unset.
func (a *Activity) Param(key string) string {
	return a.TemplateParams[key]
}

// MergeParams copies params into the activity's template parameters, keeping
// keys that params does not mention.
func (a *Activity) MergeParams(params map[string]string) {
	if a.TemplateParams == nil {
		a.TemplateParams = make(map[string]string, len(params))
	}
	maps.Copy(a.TemplateParams, params)
}
