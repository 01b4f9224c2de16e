package events

import (
	"context"
	"strings"

	"github.com/alfredjeanlab/qastream/internal/model"
)

// Event topic constants. The Q&A service publishes one message per mutation.
const (
	TopicQuestionSaved   = "faq.question.saved"
	TopicQuestionVoted   = "faq.question.voted"
	TopicQuestionUnvoted = "faq.question.unvoted"
	TopicQuestionRemoved = "faq.question.removed"
	TopicAnswerSaved     = "faq.answer.saved"
	TopicAnswerRemoved   = "faq.answer.removed"
	TopicCommentSaved    = "faq.comment.saved"
	TopicCommentRemoved  = "faq.comment.removed"

	// TopicAll matches every Q&A mutation.
	TopicAll = "faq.>"
)

// Topics lists every mutation topic.
var Topics = []string{
	TopicQuestionSaved,
	TopicQuestionVoted,
	TopicQuestionUnvoted,
	TopicQuestionRemoved,
	TopicAnswerSaved,
	TopicAnswerRemoved,
	TopicCommentSaved,
	TopicCommentRemoved,
}

// IsKnownTopic reports whether topic is one of Topics.
func IsKnownTopic(topic string) bool {
	for _, t := range Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// IsFAQTopic reports whether topic lies under the Q&A namespace.
func IsFAQTopic(topic string) bool {
	return strings.HasPrefix(topic, "faq.")
}

// Event types

type QuestionSaved struct {
	Question *model.Question `json:"question"`
	IsNew    bool            `json:"is_new"`
}

// QuestionVoted is the payload of both vote and unvote events.
type QuestionVoted struct {
	QuestionID string `json:"question_id"`
}

type QuestionRemoved struct {
	QuestionID string `json:"question_id"`
}

type AnswersSaved struct {
	QuestionID string          `json:"question_id"`
	Answers    []*model.Answer `json:"answers"`
	IsNew      bool            `json:"is_new"`
}

type AnswerRemoved struct {
	QuestionID string `json:"question_id"`
	AnswerID   string `json:"answer_id"`
}

type CommentSaved struct {
	QuestionID string         `json:"question_id"`
	Comment    *model.Comment `json:"comment"`
	Language   string         `json:"language"`
}

type CommentRemoved struct {
	QuestionID string `json:"question_id"`
	CommentID  string `json:"comment_id"`
	Language   string `json:"language"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
