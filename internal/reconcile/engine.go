// Package reconcile projects Q&A mutations onto the social activity stream.
//
// Every question has one activity; answers and comments become comments on
// that activity. The Link Registry records which activity represents which
// Q&A entity. A registry entry whose activity was deleted out from under it
// is detected on load and repaired by recreating the activity within the
// same call.
//
// Synchronization is best effort: the On* entry points log failures and
// never return them, so a missed projection cannot fail the Q&A mutation
// that triggered it.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alfredjeanlab/qastream/internal/faq"
	"github.com/alfredjeanlab/qastream/internal/model"
	"github.com/alfredjeanlab/qastream/internal/render"
	"github.com/alfredjeanlab/qastream/internal/space"
	"github.com/alfredjeanlab/qastream/internal/store"
)

// ErrSocialAbsent is returned by operator calls when no activity stream is
// configured.
var ErrSocialAbsent = errors.New("social subsystem not configured")

// Social groups the activity stream collaborators. A nil *Social means the
// stream is not deployed and the engine does nothing.
type Social struct {
	Activities store.ActivityStore
	Identities store.IdentityStore
	Spaces     store.SpaceStore
}

// Engine keeps activities and the Link Registry consistent with the Q&A
// service.
type Engine struct {
	faq    faq.Service
	links  store.LinkRegistry
	social *Social
	spaces *space.Resolver
	logger *slog.Logger
	locks  *keyedMutex
}

// New creates an Engine. social may be nil.
func New(svc faq.Service, links store.LinkRegistry, social *Social, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		faq:    svc,
		links:  links,
		social: social,
		logger: logger,
		locks:  newKeyedMutex(),
	}
	if social != nil {
		e.spaces = space.NewResolver(social.Spaces, social.Identities)
	}
	return e
}

// Enabled reports whether an activity stream is configured.
func (e *Engine) Enabled() bool {
	return e.social != nil
}

// absent logs and reports a missing activity stream.
func (e *Engine) absent(op string) bool {
	if e.social != nil {
		return false
	}
	e.logger.Debug("reconcile: social subsystem not configured, skipping", "op", op)
	return true
}

// OnQuestionSaved creates or updates the activity of a question. isNew is
// false when the question already existed in the Q&A service.
func (e *Engine) OnQuestionSaved(ctx context.Context, q *model.Question, isNew bool) {
	if e.absent("question.saved") {
		return
	}
	if q == nil {
		e.logger.Debug("reconcile: ignoring nil question")
		return
	}
	defer e.locks.Lock(q.ID)()

	if err := e.saveQuestion(ctx, q, isNew); err != nil {
		e.logger.Error("reconcile: cannot record activity for question",
			"question_id", q.ID, "err", err)
	}
}

// OnAnswerSaved attaches an answer, or a change to one, to its question's
// activity.
func (e *Engine) OnAnswerSaved(ctx context.Context, questionID string, a *model.Answer, isNew bool) {
	if e.absent("answer.saved") {
		return
	}
	if a == nil {
		e.logger.Debug("reconcile: ignoring nil answer", "question_id", questionID)
		return
	}
	defer e.locks.Lock(questionID)()

	if err := e.saveAnswer(ctx, questionID, a, isNew); err != nil {
		e.logger.Error("reconcile: cannot record activity for answer",
			"question_id", questionID, "answer_id", a.ID, "err", err)
	}
}

// OnAnswersSaved applies OnAnswerSaved to each answer in order.
func (e *Engine) OnAnswersSaved(ctx context.Context, questionID string, answers []*model.Answer, isNew bool) {
	if e.absent("answers.saved") {
		return
	}
	for _, a := range answers {
		e.OnAnswerSaved(ctx, questionID, a, isNew)
	}
}

// OnCommentSaved creates or updates the comment-activity of a comment in
// the given language.
func (e *Engine) OnCommentSaved(ctx context.Context, questionID string, c *model.Comment, language string) {
	if e.absent("comment.saved") {
		return
	}
	if c == nil {
		e.logger.Debug("reconcile: ignoring nil comment", "question_id", questionID)
		return
	}
	defer e.locks.Lock(questionID)()

	if err := e.saveComment(ctx, questionID, c, language); err != nil {
		e.logger.Error("reconcile: cannot record activity for comment",
			"question_id", questionID, "comment_id", c.ID, "err", err)
	}
}

// OnVote refreshes the rating shown on a question's activity.
func (e *Engine) OnVote(ctx context.Context, questionID string) {
	if e.absent("question.voted") {
		return
	}
	defer e.locks.Lock(questionID)()

	if err := e.resync(ctx, questionID); err != nil {
		e.logger.Debug("reconcile: fail to vote question", "question_id", questionID, "err", err)
	}
}

// OnUnvote refreshes the rating shown on a question's activity.
func (e *Engine) OnUnvote(ctx context.Context, questionID string) {
	if e.absent("question.unvoted") {
		return
	}
	defer e.locks.Lock(questionID)()

	if err := e.resync(ctx, questionID); err != nil {
		e.logger.Debug("reconcile: fail to unvote question", "question_id", questionID, "err", err)
	}
}

// Resync re-saves a question as an update without change events, recreating
// its activity if needed. Unlike the On* entry points it returns failures.
func (e *Engine) Resync(ctx context.Context, questionID string) error {
	if e.social == nil {
		return ErrSocialAbsent
	}
	defer e.locks.Lock(questionID)()
	return e.resync(ctx, questionID)
}

func (e *Engine) resync(ctx context.Context, questionID string) error {
	q, err := e.faq.GetQuestionByID(ctx, questionID)
	if err != nil {
		return fmt.Errorf("get question %s: %w", questionID, err)
	}
	// Rating changes carry no change event; only the parameters move.
	q.Changes = nil
	return e.saveQuestion(ctx, q, false)
}

// userIdentity returns the identity of a Q&A user, creating it on first use.
func (e *Engine) userIdentity(ctx context.Context, userID string) (*model.Identity, error) {
	if userID == "" {
		return nil, fmt.Errorf("identity of empty user: %w", store.ErrNotFound)
	}
	ident, err := e.social.Identities.GetOrCreateIdentity(ctx, model.ProviderOrganization, userID, true)
	if err != nil {
		return nil, fmt.Errorf("identity of %s: %w", userID, err)
	}
	return ident, nil
}

// loadLinked loads the activity an id from the registry points at. It
// returns nil without error when the id is empty or the activity is gone.
func (e *Engine) loadLinked(ctx context.Context, activityID string) (*model.Activity, error) {
	if activityID == "" {
		return nil, nil
	}
	act, found, err := e.social.Activities.GetActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if !found {
		e.logger.Debug("reconcile: linked activity is gone", "activity_id", activityID)
		return nil, nil
	}
	return act, nil
}

// questionActivity loads the activity linked to a question, or nil when
// there is none or it is stale.
func (e *Engine) questionActivity(ctx context.Context, questionID string) (*model.Activity, error) {
	id, err := e.links.QuestionActivity(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return e.loadLinked(ctx, id)
}

// recreateQuestionActivity re-saves the question as an update and returns
// the activity that now represents it.
func (e *Engine) recreateQuestionActivity(ctx context.Context, q *model.Question) (*model.Activity, error) {
	if err := e.saveQuestion(ctx, q, false); err != nil {
		return nil, err
	}
	act, err := e.questionActivity(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	if act == nil {
		return nil, fmt.Errorf("activity of question %s missing after recreate", q.ID)
	}
	return act, nil
}

// refreshParent recomputes the counters and body of a question activity.
func (e *Engine) refreshParent(ctx context.Context, act *model.Activity, q *model.Question) error {
	act.MergeParams(questionParams(q))
	act.Body = render.FourFirstLines(q.Detail)
	return e.social.Activities.UpdateActivity(ctx, act)
}

// newComment starts a comment-activity posted by user.
func newComment(user *model.Identity) *model.Activity {
	return &model.Activity{Type: model.TypeAnswerComment, UserID: user.ID}
}
