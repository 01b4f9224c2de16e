package reconcile

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/qastream/internal/model"
	"github.com/alfredjeanlab/qastream/internal/render"
)

// saveComment retitles the comment's existing comment-activity, or posts a
// new one on the question's activity.
func (e *Engine) saveComment(ctx context.Context, questionID string, c *model.Comment, language string) error {
	q, err := e.faq.GetQuestionByID(ctx, questionID)
	if err != nil {
		return fmt.Errorf("get question %s: %w", questionID, err)
	}
	user, err := e.userIdentity(ctx, c.Author)
	if err != nil {
		return err
	}
	title := render.SanitizeComment(c.Body)

	act, err := e.questionActivity(ctx, questionID)
	if err != nil {
		return err
	}

	if act != nil {
		prevID, err := e.links.CommentActivity(ctx, questionID, c.ID, language)
		if err != nil {
			return err
		}
		prev, err := e.loadLinked(ctx, prevID)
		if err != nil {
			return err
		}
		if prev != nil {
			prev.Title = title
			if err := e.social.Activities.UpdateActivity(ctx, prev); err != nil {
				return fmt.Errorf("update comment %s: %w", prev.ID, err)
			}
			return nil
		}

		if err := e.refreshParent(ctx, act, q); err != nil {
			return fmt.Errorf("refresh activity %s: %w", act.ID, err)
		}
	} else {
		if act, err = e.recreateQuestionActivity(ctx, q); err != nil {
			return err
		}
	}

	comment := newComment(user)
	comment.Title = title
	comment.SetParam(model.ParamLink, c.ID)
	if err := e.social.Activities.SaveComment(ctx, act, comment); err != nil {
		return fmt.Errorf("save comment: %w", err)
	}
	return e.links.SetCommentActivity(ctx, questionID, c.ID, language, comment.ID)
}
