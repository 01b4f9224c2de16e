// Package consumer feeds Q&A mutation events from the bus into the
// reconciliation engine.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alfredjeanlab/qastream/internal/events"
	"github.com/alfredjeanlab/qastream/internal/model"
)

// ErrUnknownTopic is returned by HandleMessage for subjects it does not
// handle.
var ErrUnknownTopic = errors.New("unknown topic")

// Engine is the set of projections the consumer drives.
type Engine interface {
	OnQuestionSaved(ctx context.Context, q *model.Question, isNew bool)
	OnAnswersSaved(ctx context.Context, questionID string, answers []*model.Answer, isNew bool)
	OnCommentSaved(ctx context.Context, questionID string, c *model.Comment, language string)
	OnVote(ctx context.Context, questionID string)
	OnUnvote(ctx context.Context, questionID string)
	OnQuestionRemoved(ctx context.Context, questionID string)
	OnAnswerRemoved(ctx context.Context, questionID, answerID string)
	OnCommentRemoved(ctx context.Context, questionID, commentID, language string)
}

// Handler decodes mutation events and dispatches them to an Engine.
type Handler struct {
	engine Engine
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(engine Engine, logger *slog.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

// HandleMessage decodes one event and applies it. Malformed payloads are
// returned as errors without touching the engine.
func (h *Handler) HandleMessage(ctx context.Context, msg events.Message) error {
	switch msg.Subject {
	case events.TopicQuestionSaved:
		var ev events.QuestionSaved
		if err := decode(msg.Data, &ev); err != nil {
			return err
		}
		if ev.Question == nil {
			return fmt.Errorf("question is required")
		}
		if err := model.ValidateQuestion(ev.Question); err != nil {
			return err
		}
		h.engine.OnQuestionSaved(ctx, ev.Question, ev.IsNew)

	case events.TopicQuestionVoted, events.TopicQuestionUnvoted:
		var ev events.QuestionVoted
		if err := decode(msg.Data, &ev); err != nil {
			return err
		}
		if ev.QuestionID == "" {
			return fmt.Errorf("question_id is required")
		}
		if msg.Subject == events.TopicQuestionVoted {
			h.engine.OnVote(ctx, ev.QuestionID)
		} else {
			h.engine.OnUnvote(ctx, ev.QuestionID)
		}

	case events.TopicQuestionRemoved:
		var ev events.QuestionRemoved
		if err := decode(msg.Data, &ev); err != nil {
			return err
		}
		if ev.QuestionID == "" {
			return fmt.Errorf("question_id is required")
		}
		h.engine.OnQuestionRemoved(ctx, ev.QuestionID)

	case events.TopicAnswerSaved:
		var ev events.AnswersSaved
		if err := decode(msg.Data, &ev); err != nil {
			return err
		}
		if ev.QuestionID == "" {
			return fmt.Errorf("question_id is required")
		}
		for i, a := range ev.Answers {
			if a == nil {
				return fmt.Errorf("answers[%d] is null", i)
			}
			if err := model.ValidateAnswer(a); err != nil {
				return fmt.Errorf("answers[%d]: %w", i, err)
			}
		}
		h.engine.OnAnswersSaved(ctx, ev.QuestionID, ev.Answers, ev.IsNew)

	case events.TopicAnswerRemoved:
		var ev events.AnswerRemoved
		if err := decode(msg.Data, &ev); err != nil {
			return err
		}
		if ev.QuestionID == "" || ev.AnswerID == "" {
			return fmt.Errorf("question_id and answer_id are required")
		}
		h.engine.OnAnswerRemoved(ctx, ev.QuestionID, ev.AnswerID)

	case events.TopicCommentSaved:
		var ev events.CommentSaved
		if err := decode(msg.Data, &ev); err != nil {
			return err
		}
		if ev.QuestionID == "" || ev.Comment == nil {
			return fmt.Errorf("question_id and comment are required")
		}
		if err := model.ValidateComment(ev.Comment); err != nil {
			return err
		}
		h.engine.OnCommentSaved(ctx, ev.QuestionID, ev.Comment, ev.Language)

	case events.TopicCommentRemoved:
		var ev events.CommentRemoved
		if err := decode(msg.Data, &ev); err != nil {
			return err
		}
		if ev.QuestionID == "" || ev.CommentID == "" {
			return fmt.Errorf("question_id and comment_id are required")
		}
		h.engine.OnCommentRemoved(ctx, ev.QuestionID, ev.CommentID, ev.Language)

	default:
		return fmt.Errorf("%w: %s", ErrUnknownTopic, msg.Subject)
	}
	return nil
}

func decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding payload: %w", err)
	}
	return nil
}

// StartSubscriber listens for mutation events on topic and applies them in
// arrival order. It blocks until ctx is cancelled.
func (h *Handler) StartSubscriber(ctx context.Context, sub events.Subscriber, topic string) error {
	ch, cancel, err := sub.Subscribe(topic)
	if err != nil {
		return fmt.Errorf("consumer: subscribe: %w", err)
	}
	defer cancel()

	h.logger.Info("consumer: subscriber started", "topic", topic)

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("consumer: subscriber stopping")
			return nil
		case msg, ok := <-ch:
			if !ok {
				h.logger.Info("consumer: subscription channel closed")
				return nil
			}

			err := h.HandleMessage(ctx, msg)
			switch {
			case errors.Is(err, ErrUnknownTopic):
				h.logger.Debug("consumer: ignoring event", "subject", msg.Subject)
			case err != nil:
				h.logger.Warn("consumer: bad event payload", "subject", msg.Subject, "err", err)
			}
		}
	}
}
