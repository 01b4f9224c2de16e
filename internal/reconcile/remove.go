package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/alfredjeanlab/qastream/internal/store"
)

// OnQuestionRemoved deletes the activity of a removed question and its
// registry entries.
func (e *Engine) OnQuestionRemoved(ctx context.Context, questionID string) {
	if e.absent("question.removed") {
		return
	}
	defer e.locks.Lock(questionID)()

	if err := e.removeQuestion(ctx, questionID); err != nil {
		e.logger.Debug("reconcile: fail to remove activity of question", "question_id", questionID, "err", err)
	}
}

func (e *Engine) removeQuestion(ctx context.Context, questionID string) error {
	act, err := e.questionActivity(ctx, questionID)
	if err != nil {
		return err
	}
	if act != nil {
		if err := e.social.Activities.DeleteActivity(ctx, act); err != nil {
			return fmt.Errorf("delete activity %s: %w", act.ID, err)
		}
	}
	return e.links.DeleteQuestionLinks(ctx, questionID)
}

// OnAnswerRemoved deletes every comment-activity of a removed answer and
// refreshes the counters on the question's activity.
func (e *Engine) OnAnswerRemoved(ctx context.Context, questionID, answerID string) {
	if e.absent("answer.removed") {
		return
	}
	defer e.locks.Lock(questionID)()

	if err := e.removeAnswer(ctx, questionID, answerID); err != nil {
		e.logger.Debug("reconcile: fail to remove comments of answer",
			"question_id", questionID, "answer_id", answerID, "err", err)
	}
}

func (e *Engine) removeAnswer(ctx context.Context, questionID, answerID string) error {
	parentID, err := e.links.QuestionActivity(ctx, questionID)
	if err != nil {
		return err
	}
	ids, err := e.links.AnswerActivities(ctx, questionID, answerID)
	if err != nil {
		return err
	}

	if parentID != "" {
		for _, id := range ids {
			_, found, err := e.social.Activities.GetActivity(ctx, id)
			if err != nil {
				return err
			}
			if !found {
				continue
			}
			if err := e.social.Activities.DeleteComment(ctx, parentID, id); err != nil {
				return fmt.Errorf("delete comment %s: %w", id, err)
			}
		}
		e.refresh(ctx, questionID, parentID)
	}
	return e.links.DeleteAnswerLinks(ctx, questionID, answerID)
}

// OnCommentRemoved deletes the comment-activity of a removed comment and
// refreshes the counters on the question's activity.
func (e *Engine) OnCommentRemoved(ctx context.Context, questionID, commentID, language string) {
	if e.absent("comment.removed") {
		return
	}
	defer e.locks.Lock(questionID)()

	if err := e.removeComment(ctx, questionID, commentID, language); err != nil {
		e.logger.Debug("reconcile: fail to remove comment",
			"question_id", questionID, "comment_id", commentID, "err", err)
	}
}

func (e *Engine) removeComment(ctx context.Context, questionID, commentID, language string) error {
	parentID, err := e.links.QuestionActivity(ctx, questionID)
	if err != nil {
		return err
	}
	id, err := e.links.CommentActivity(ctx, questionID, commentID, language)
	if err != nil {
		return err
	}

	if parentID != "" && id != "" {
		err := e.social.Activities.DeleteComment(ctx, parentID, id)
		switch {
		case errors.Is(err, store.ErrNotFound):
			e.logger.Debug("reconcile: comment activity already gone", "activity_id", id)
		case err != nil:
			return fmt.Errorf("delete comment %s: %w", id, err)
		}
		e.refresh(ctx, questionID, parentID)
	}
	return e.links.DeleteCommentLink(ctx, questionID, commentID, language)
}

// refresh recomputes the counters of a question activity after one of its
// comments went away. Failures are logged only.
func (e *Engine) refresh(ctx context.Context, questionID, activityID string) {
	q, err := e.faq.GetQuestionByID(ctx, questionID)
	if err != nil {
		e.logger.Debug("reconcile: fail to refresh activity", "activity_id", activityID, "err", err)
		return
	}
	act, err := e.loadLinked(ctx, activityID)
	if err != nil || act == nil {
		e.logger.Debug("reconcile: fail to refresh activity", "activity_id", activityID, "err", err)
		return
	}
	if err := e.refreshParent(ctx, act, q); err != nil {
		e.logger.Debug("reconcile: fail to refresh activity", "activity_id", activityID, "err", err)
	}
}
