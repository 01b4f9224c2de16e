package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"testing"

	"github.com/alfredjeanlab/qastream/internal/model"
	"github.com/alfredjeanlab/qastream/internal/store"
)

// fakeActivities is an in-memory activity stream that records every call.
type fakeActivities struct {
	acts   map[string]*model.Activity
	owners map[string]string
	next   int

	calls           int
	updated         []string
	deleted         []string
	deletedComments []string
}

func newFakeActivities() *fakeActivities {
	return &fakeActivities{acts: map[string]*model.Activity{}, owners: map[string]string{}}
}

func cloneActivity(a *model.Activity) *model.Activity {
	c := *a
	c.TemplateParams = maps.Clone(a.TemplateParams)
	c.TitleArgs = slices.Clone(a.TitleArgs)
	c.Comments = nil
	return &c
}

func (f *fakeActivities) GetActivity(_ context.Context, id string) (*model.Activity, bool, error) {
	f.calls++
	a, ok := f.acts[id]
	if !ok {
		return nil, false, nil
	}
	c := cloneActivity(a)
	for _, child := range f.acts {
		if child.ParentID == id {
			c.Comments = append(c.Comments, cloneActivity(child))
		}
	}
	return c, true, nil
}

func (f *fakeActivities) SaveActivity(_ context.Context, owner *model.Identity, a *model.Activity) error {
	f.calls++
	f.next++
	a.ID = fmt.Sprintf("act-%d", f.next)
	a.OwnerID = owner.ID
	f.acts[a.ID] = cloneActivity(a)
	f.owners[a.ID] = owner.ID
	return nil
}

func (f *fakeActivities) UpdateActivity(_ context.Context, a *model.Activity) error {
	f.calls++
	if _, ok := f.acts[a.ID]; !ok {
		return store.ErrNotFound
	}
	f.acts[a.ID] = cloneActivity(a)
	f.updated = append(f.updated, a.ID)
	return nil
}

func (f *fakeActivities) SaveComment(_ context.Context, parent, c *model.Activity) error {
	f.calls++
	if _, ok := f.acts[parent.ID]; !ok {
		return store.ErrNotFound
	}
	f.next++
	c.ID = fmt.Sprintf("act-%d", f.next)
	c.ParentID = parent.ID
	c.OwnerID = parent.OwnerID
	f.acts[c.ID] = cloneActivity(c)
	parent.Comments = append(parent.Comments, c)
	return nil
}

func (f *fakeActivities) DeleteActivity(_ context.Context, a *model.Activity) error {
	f.calls++
	delete(f.acts, a.ID)
	for id, child := range f.acts {
		if child.ParentID == a.ID {
			delete(f.acts, id)
		}
	}
	f.deleted = append(f.deleted, a.ID)
	return nil
}

func (f *fakeActivities) DeleteComment(_ context.Context, parentID, commentID string) error {
	f.calls++
	c, ok := f.acts[commentID]
	if !ok || c.ParentID != parentID {
		return store.ErrNotFound
	}
	delete(f.acts, commentID)
	f.deletedComments = append(f.deletedComments, commentID)
	return nil
}

// commentsOf returns the comments attached to parentID.
func (f *fakeActivities) commentsOf(parentID string) []*model.Activity {
	var out []*model.Activity
	for _, a := range f.acts {
		if a.ParentID == parentID {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b *model.Activity) int {
		return orderOf(a.ID, b.ID)
	})
	return out
}

// orderOf compares "act-N" ids numerically.
func orderOf(a, b string) int {
	var na, nb int
	fmt.Sscanf(a, "act-%d", &na)
	fmt.Sscanf(b, "act-%d", &nb)
	return na - nb
}

// fakeIdentities starts with no users and knows every space by pretty name.
// "ghost" stands for a user whose lookup fails in the store.
type fakeIdentities struct {
	calls int
	users map[string]bool
}

var errIdentityStore = errors.New("identity store unavailable")

func (f *fakeIdentities) GetOrCreateIdentity(_ context.Context, provider, remoteID string, create bool) (*model.Identity, error) {
	f.calls++
	if remoteID == "" {
		return nil, store.ErrNotFound
	}
	if remoteID == "ghost" {
		return nil, errIdentityStore
	}
	prefix := "idn-"
	if provider == model.ProviderSpace {
		prefix = "idn-space-"
	} else if !f.users[remoteID] {
		if !create {
			return nil, store.ErrNotFound
		}
		if f.users == nil {
			f.users = map[string]bool{}
		}
		f.users[remoteID] = true
	}
	return &model.Identity{ID: prefix + remoteID, Provider: provider, RemoteID: remoteID}, nil
}

type fakeSpaces struct {
	calls int
}

func (f *fakeSpaces) GetSpaceByGroupID(_ context.Context, groupID string) (*model.Space, error) {
	f.calls++
	switch groupID {
	case "/spaces/eng":
		return &model.Space{ID: "sp-eng", PrettyName: "eng", GroupID: groupID}, nil
	}
	return nil, store.ErrNotFound
}

// fakeFAQ serves questions and category paths from maps.
type fakeFAQ struct {
	questions map[string]*model.Question
	paths     map[string][]string
	err       error
	calls     int
}

func (f *fakeFAQ) GetQuestionByID(_ context.Context, id string) (*model.Question, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	q, ok := f.questions[id]
	if !ok {
		return nil, fmt.Errorf("question %s: %w", id, store.ErrNotFound)
	}
	c := *q
	c.Changes = slices.Clone(q.Changes)
	return &c, nil
}

func (f *fakeFAQ) ReadQuestionProperty(_ context.Context, id, name string) (json.RawMessage, error) {
	f.calls++
	q, ok := f.questions[id]
	if !ok || name != "categoryId" || q.CategoryID == "" {
		return json.RawMessage("null"), nil
	}
	return json.Marshal(q.CategoryID)
}

func (f *fakeFAQ) CategoryPath(_ context.Context, categoryID string) ([]string, error) {
	f.calls++
	return f.paths[categoryID], nil
}

// fakeLinks is an in-memory Link Registry.
type fakeLinks struct {
	questions map[string]string
	answers   map[[2]string][]string
	comments  map[[3]string]string
	calls     int
}

func newFakeLinks() *fakeLinks {
	return &fakeLinks{
		questions: map[string]string{},
		answers:   map[[2]string][]string{},
		comments:  map[[3]string]string{},
	}
}

func (f *fakeLinks) QuestionActivity(_ context.Context, qid string) (string, error) {
	f.calls++
	return f.questions[qid], nil
}

func (f *fakeLinks) SetQuestionActivity(_ context.Context, qid, activityID string) error {
	f.calls++
	f.questions[qid] = activityID
	return nil
}

func (f *fakeLinks) AnswerActivities(_ context.Context, qid, aid string) ([]string, error) {
	f.calls++
	return slices.Clone(f.answers[[2]string{qid, aid}]), nil
}

func (f *fakeLinks) SetAnswerActivities(_ context.Context, qid, aid string, ids []string) error {
	f.calls++
	f.answers[[2]string{qid, aid}] = slices.Clone(ids)
	return nil
}

func (f *fakeLinks) AppendAnswerActivity(_ context.Context, qid, aid, activityID string) error {
	f.calls++
	key := [2]string{qid, aid}
	f.answers[key] = append(f.answers[key], activityID)
	return nil
}

func (f *fakeLinks) CommentActivity(_ context.Context, qid, cid, lang string) (string, error) {
	f.calls++
	return f.comments[[3]string{qid, cid, lang}], nil
}

func (f *fakeLinks) SetCommentActivity(_ context.Context, qid, cid, lang, activityID string) error {
	f.calls++
	f.comments[[3]string{qid, cid, lang}] = activityID
	return nil
}

func (f *fakeLinks) DeleteQuestionLinks(_ context.Context, qid string) error {
	f.calls++
	delete(f.questions, qid)
	for k := range f.answers {
		if k[0] == qid {
			delete(f.answers, k)
		}
	}
	for k := range f.comments {
		if k[0] == qid {
			delete(f.comments, k)
		}
	}
	return nil
}

func (f *fakeLinks) DeleteAnswerLinks(_ context.Context, qid, aid string) error {
	f.calls++
	delete(f.answers, [2]string{qid, aid})
	return nil
}

func (f *fakeLinks) DeleteCommentLink(_ context.Context, qid, cid, lang string) error {
	f.calls++
	delete(f.comments, [3]string{qid, cid, lang})
	return nil
}

func (f *fakeLinks) GetLinks(context.Context, string) (*model.LinkSet, error) {
	return nil, nil
}

func (f *fakeLinks) ListLinks(context.Context) ([]*model.LinkSet, error) {
	return nil, nil
}

// fixture wires an Engine to fakes.
type fixture struct {
	engine     *Engine
	faq        *fakeFAQ
	links      *fakeLinks
	activities *fakeActivities
	identities *fakeIdentities
	spaces     *fakeSpaces
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		faq:        &fakeFAQ{questions: map[string]*model.Question{}, paths: map[string][]string{}},
		links:      newFakeLinks(),
		activities: newFakeActivities(),
		identities: &fakeIdentities{},
		spaces:     &fakeSpaces{},
	}
	social := &Social{Activities: f.activities, Identities: f.identities, Spaces: f.spaces}
	f.engine = New(f.faq, f.links, social, testLogger())
	return f
}

// addQuestion registers q with the fake Q&A service and returns a copy for
// passing to the engine.
func (f *fixture) addQuestion(q *model.Question) *model.Question {
	f.faq.questions[q.ID] = q
	c := *q
	c.Changes = slices.Clone(q.Changes)
	return &c
}

// totalCalls counts every collaborator call made so far.
func (f *fixture) totalCalls() int {
	return f.faq.calls + f.links.calls + f.activities.calls + f.identities.calls + f.spaces.calls
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
