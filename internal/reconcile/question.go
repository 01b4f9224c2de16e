package reconcile

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/qastream/internal/faq"
	"github.com/alfredjeanlab/qastream/internal/model"
	"github.com/alfredjeanlab/qastream/internal/render"
	"github.com/alfredjeanlab/qastream/internal/space"
)

// saveQuestion updates the question's linked activity in place, or creates
// one when the question has none or its link is stale. The caller holds the
// question lock.
func (e *Engine) saveQuestion(ctx context.Context, q *model.Question, isNew bool) error {
	author, err := e.userIdentity(ctx, q.Author)
	if err != nil {
		return err
	}
	params := questionParams(q)
	changes := q.TakeChanges()

	linkedID, err := e.links.QuestionActivity(ctx, q.ID)
	if err != nil {
		return err
	}
	act, err := e.loadLinked(ctx, linkedID)
	if err != nil {
		return err
	}

	if act != nil {
		act.Title = q.Title
		act.Body = render.FourFirstLines(q.Detail)
		act.MergeParams(params)
		if err := e.social.Activities.UpdateActivity(ctx, act); err != nil {
			return fmt.Errorf("update activity %s: %w", act.ID, err)
		}
		return e.attachQuestionChanges(ctx, act, author, q, changes)
	}

	owner := author
	catID, err := faq.CategoryID(ctx, e.faq, q)
	if err != nil {
		return fmt.Errorf("category of question %s: %w", q.ID, err)
	}
	spaceIdent, groupID, err := e.resolveSpace(ctx, catID)
	if err != nil {
		return err
	}
	if spaceIdent != nil {
		owner = spaceIdent
		params[model.ParamSpaceGroupID] = groupID
	}

	act = &model.Activity{
		Type:           model.TypeQuestionActivity,
		UserID:         author.ID,
		Title:          q.Title,
		Body:           render.FourFirstLines(q.Detail),
		TemplateParams: params,
	}
	if err := e.social.Activities.SaveActivity(ctx, owner, act); err != nil {
		return fmt.Errorf("save activity: %w", err)
	}
	if err := e.links.SetQuestionActivity(ctx, q.ID, act.ID); err != nil {
		return err
	}

	// A recreated activity also records the update that led here.
	if linkedID != "" || !isNew {
		return e.attachQuestionChanges(ctx, act, author, q, changes)
	}
	return nil
}

// attachQuestionChanges posts the rendered change events as a comment on
// act. Nothing is posted when there is nothing to say.
func (e *Engine) attachQuestionChanges(ctx context.Context, act *model.Activity, author *model.Identity, q *model.Question, changes []model.QuestionChange) error {
	comment := newComment(author)
	comment.Title = render.QuestionChanges(q, changes, comment)
	if comment.Title == "" {
		return nil
	}
	if err := e.social.Activities.SaveComment(ctx, act, comment); err != nil {
		return fmt.Errorf("save change comment on %s: %w", act.ID, err)
	}
	return nil
}

// resolveSpace finds the space whose stream receives questions of the
// category: the category itself when it is a space category, otherwise its
// nearest space ancestor. It returns a nil identity when there is none.
func (e *Engine) resolveSpace(ctx context.Context, categoryID string) (*model.Identity, string, error) {
	if categoryID == "" {
		return nil, "", nil
	}

	candidate := categoryID
	if !space.IsSpaceCategory(candidate) {
		candidate = ""
		path, err := e.faq.CategoryPath(ctx, categoryID)
		if err != nil {
			e.logger.Debug("reconcile: cannot read category path", "category_id", categoryID, "err", err)
			return nil, "", nil
		}
		for i := len(path) - 1; i >= 0; i-- {
			if path[i] != categoryID && space.IsSpaceCategory(path[i]) {
				candidate = path[i]
				break
			}
		}
		if candidate == "" {
			return nil, "", nil
		}
	}

	ident, err := e.spaces.ResolveSpaceIdentity(ctx, candidate)
	if err != nil {
		return nil, "", fmt.Errorf("resolve space of %s: %w", candidate, err)
	}
	if ident == nil {
		return nil, "", nil
	}
	return ident, space.GroupID(candidate), nil
}
