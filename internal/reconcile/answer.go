package reconcile

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/qastream/internal/model"
	"github.com/alfredjeanlab/qastream/internal/render"
)

// saveAnswer projects an answer onto its question's activity. A new answer
// gets a submission notice, a promoted comment has its existing
// comment-activity relinked, and any other change appends a new
// comment-activity to the answer's list.
func (e *Engine) saveAnswer(ctx context.Context, questionID string, a *model.Answer, isNew bool) error {
	q, err := e.faq.GetQuestionByID(ctx, questionID)
	if err != nil {
		return fmt.Errorf("get question %s: %w", questionID, err)
	}
	user, err := e.userIdentity(ctx, a.Author)
	if err != nil {
		return err
	}
	changes := a.TakeChanges()

	act, err := e.questionActivity(ctx, questionID)
	if err != nil {
		return err
	}
	if act == nil {
		return e.answerOnRecreated(ctx, q, a, user, changes)
	}

	comment := newComment(user)
	comment.Title = render.AnswerChanges(a, changes, comment)

	switch {
	case comment.Title == "":
		render.SubmittedAnswer(a, comment)
		comment.SetParam(model.ParamLink, a.ID)
		if err := e.refreshParent(ctx, act, q); err != nil {
			return fmt.Errorf("refresh activity %s: %w", act.ID, err)
		}
		if err := e.social.Activities.SaveComment(ctx, act, comment); err != nil {
			return fmt.Errorf("save answer comment: %w", err)
		}
		return e.links.SetAnswerActivities(ctx, questionID, a.ID, []string{comment.ID})

	case comment.Title == render.PromotedMessage(a):
		return e.promote(ctx, q, a, act, comment)

	default:
		if err := e.social.Activities.SaveComment(ctx, act, comment); err != nil {
			return fmt.Errorf("save answer comment: %w", err)
		}
		return e.links.AppendAnswerActivity(ctx, questionID, a.ID, comment.ID)
	}
}

// promote relinks the comment-activity of a comment that became an answer.
// When that comment was never projected, the promotion notice is posted
// instead.
func (e *Engine) promote(ctx context.Context, q *model.Question, a *model.Answer, act, notice *model.Activity) error {
	lang := a.Language
	if lang == "" {
		lang = q.Language
	}

	prevID, err := e.links.CommentActivity(ctx, q.ID, a.ID, lang)
	if err != nil {
		return err
	}
	prev, err := e.loadLinked(ctx, prevID)
	if err != nil {
		return err
	}

	if prev != nil {
		prev.SetParam(model.ParamLink, a.ID)
		if err := e.social.Activities.UpdateActivity(ctx, prev); err != nil {
			return fmt.Errorf("relink comment %s: %w", prev.ID, err)
		}
		if err := e.links.SetAnswerActivities(ctx, q.ID, a.ID, []string{prev.ID}); err != nil {
			return err
		}
		if err := e.links.DeleteCommentLink(ctx, q.ID, a.ID, lang); err != nil {
			return err
		}
	} else {
		notice.SetParam(model.ParamLink, a.ID)
		if err := e.social.Activities.SaveComment(ctx, act, notice); err != nil {
			return fmt.Errorf("save promotion comment: %w", err)
		}
		if err := e.links.SetAnswerActivities(ctx, q.ID, a.ID, []string{notice.ID}); err != nil {
			return err
		}
	}

	if err := e.refreshParent(ctx, act, q); err != nil {
		return fmt.Errorf("refresh activity %s: %w", act.ID, err)
	}
	return nil
}

// answerOnRecreated rebuilds the question activity and attaches the answer
// to it.
func (e *Engine) answerOnRecreated(ctx context.Context, q *model.Question, a *model.Answer, user *model.Identity, changes []model.AnswerChange) error {
	act, err := e.recreateQuestionActivity(ctx, q)
	if err != nil {
		return err
	}

	comment := newComment(user)
	comment.Title = render.AnswerChanges(a, changes, comment)
	if comment.Title == "" {
		render.SubmittedAnswer(a, comment)
	}
	comment.SetParam(model.ParamLink, a.ID)
	if err := e.social.Activities.SaveComment(ctx, act, comment); err != nil {
		return fmt.Errorf("save answer comment: %w", err)
	}
	return e.links.SetAnswerActivities(ctx, q.ID, a.ID, []string{comment.ID})
}
