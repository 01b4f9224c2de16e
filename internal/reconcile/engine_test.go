package reconcile

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/alfredjeanlab/qastream/internal/model"
	"github.com/alfredjeanlab/qastream/internal/render"
)

func baseQuestion() *model.Question {
	return &model.Question{
		ID:       "q1",
		Title:    "How do I reset my password?",
		Detail:   "I forgot it.",
		Author:   "alice",
		Language: "en",
		Link:     "/faq/q1",
		Rating:   4,
	}
}

func TestOnQuestionSaved_CreatesActivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.addQuestion(baseQuestion())

	f.engine.OnQuestionSaved(ctx, q, true)

	id := f.links.questions["q1"]
	if id == "" {
		t.Fatal("question activity not registered")
	}
	if len(f.activities.acts) != 1 {
		t.Fatalf("got %d activities, want 1", len(f.activities.acts))
	}
	act := f.activities.acts[id]
	if act.Type != model.TypeQuestionActivity || act.UserID != "idn-alice" {
		t.Errorf("activity = %+v", act)
	}
	if f.activities.owners[id] != "idn-alice" {
		t.Errorf("owner = %q, want author stream", f.activities.owners[id])
	}
	want := map[string]string{
		model.ParamQuestionID:       "q1",
		model.ParamLink:             "/faq/q1",
		model.ParamLanguage:         "en",
		model.ParamQuestionRating:   "4.0",
		model.ParamNumberOfAnswers:  "0",
		model.ParamNumberOfComments: "0",
	}
	for k, v := range want {
		if got := act.Param(k); got != v {
			t.Errorf("param %s = %q, want %q", k, got, v)
		}
	}
	if _, ok := act.TemplateParams[model.ParamSpaceGroupID]; ok {
		t.Error("author-stream activity should not carry a space group id")
	}
}

func TestOnQuestionSaved_NewQuestionPostsNoChangeComment(t *testing.T) {
	f := newFixture(t)
	q := baseQuestion()
	q.Changes = []model.QuestionChange{{Kind: model.QuestionTitleChanged}}
	q = f.addQuestion(q)

	f.engine.OnQuestionSaved(context.Background(), q, true)

	if n := len(f.activities.commentsOf(f.links.questions["q1"])); n != 0 {
		t.Errorf("got %d comments, want 0", n)
	}
}

func TestOnQuestionSaved_UpdateKeepsActivityID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.engine.OnQuestionSaved(ctx, f.addQuestion(baseQuestion()), true)
	first := f.links.questions["q1"]

	q := baseQuestion()
	q.Title = "How do I reset my PIN?"
	q.Detail = "one\ntwo\nthree\nfour\nfive"
	f.engine.OnQuestionSaved(ctx, f.addQuestion(q), false)

	if got := f.links.questions["q1"]; got != first {
		t.Errorf("activity id changed from %q to %q", first, got)
	}
	if len(f.activities.acts) != 1 {
		t.Errorf("got %d activities, want 1", len(f.activities.acts))
	}
	act := f.activities.acts[first]
	if act.Title != q.Title {
		t.Errorf("title = %q, want %q", act.Title, q.Title)
	}
	if act.Body != "one\ntwo\nthree\nfour" {
		t.Errorf("body = %q", act.Body)
	}
}

func TestOnQuestionSaved_ChangeComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.engine.OnQuestionSaved(ctx, f.addQuestion(baseQuestion()), true)
	id := f.links.questions["q1"]

	q := baseQuestion()
	q.Title = "Reset password"
	q.Activated = true
	q.Changes = []model.QuestionChange{
		{Kind: model.QuestionTitleChanged},
		{Kind: model.QuestionActivationToggled, Active: true},
	}
	f.engine.OnQuestionSaved(ctx, f.addQuestion(q), false)

	comments := f.activities.commentsOf(id)
	if len(comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(comments))
	}
	c := comments[0]
	if c.Title != "Title has been updated to: Reset password\nQuestion has been activated." {
		t.Errorf("comment title = %q", c.Title)
	}
	if c.TitleKey != render.KeyQuestionActivated {
		t.Errorf("title key = %q, want last key %q", c.TitleKey, render.KeyQuestionActivated)
	}
	if c.Type != model.TypeAnswerComment || c.UserID != "idn-alice" {
		t.Errorf("comment = %+v", c)
	}
}

func TestOnQuestionSaved_StaleLinkRecreates(t *testing.T) {
	f := newFixture(t)
	f.links.questions["q1"] = "act-deleted"

	q := baseQuestion()
	q.Changes = []model.QuestionChange{{Kind: model.QuestionAttachmentAdded}}
	f.engine.OnQuestionSaved(context.Background(), f.addQuestion(q), false)

	id := f.links.questions["q1"]
	if id == "act-deleted" || id == "" {
		t.Fatalf("registry = %q, want a fresh activity id", id)
	}
	if _, ok := f.activities.acts[id]; !ok {
		t.Fatal("recreated activity not stored")
	}
	comments := f.activities.commentsOf(id)
	if len(comments) != 1 || comments[0].Title != "Attachment(s) has been added." {
		t.Errorf("comments = %+v, want the attachment notice", comments)
	}
}

func TestOnQuestionSaved_MissingLinkOnUpdate(t *testing.T) {
	f := newFixture(t)
	q := baseQuestion()
	q.Languages = []model.LanguageVariant{{Language: "en"}, {Language: "fr"}}
	q.Changes = []model.QuestionChange{{Kind: model.QuestionLanguageAdded}}
	f.engine.OnQuestionSaved(context.Background(), f.addQuestion(q), false)

	comments := f.activities.commentsOf(f.links.questions["q1"])
	if len(comments) != 1 || comments[0].Title != "Question has been added in fr" {
		t.Errorf("comments = %+v", comments)
	}
}

func TestOnQuestionSaved_SpaceStream(t *testing.T) {
	tests := []struct {
		name     string
		category string
		paths    map[string][]string
		owner    string
		groupID  string
	}{
		{
			name:     "space category",
			category: "CategorySpaceeng",
			owner:    "idn-space-eng",
			groupID:  "/spaces/eng",
		},
		{
			name:     "space ancestor",
			category: "faq-42",
			paths:    map[string][]string{"faq-42": {"root", "CategorySpaceeng", "faq-42"}},
			owner:    "idn-space-eng",
			groupID:  "/spaces/eng",
		},
		{
			name:     "unknown space",
			category: "CategorySpacesales",
			owner:    "idn-alice",
		},
		{
			name:     "plain category",
			category: "general",
			paths:    map[string][]string{"general": {"root", "general"}},
			owner:    "idn-alice",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.faq.paths = tc.paths
			q := baseQuestion()
			q.CategoryID = tc.category
			f.engine.OnQuestionSaved(context.Background(), f.addQuestion(q), true)

			id := f.links.questions["q1"]
			if got := f.activities.owners[id]; got != tc.owner {
				t.Errorf("owner = %q, want %q", got, tc.owner)
			}
			if got := f.activities.acts[id].Param(model.ParamSpaceGroupID); got != tc.groupID {
				t.Errorf("SpaceGroupId = %q, want %q", got, tc.groupID)
			}
			if got := f.activities.acts[id].UserID; got != "idn-alice" {
				t.Errorf("UserID = %q, want the author", got)
			}
		})
	}
}

func TestOnQuestionSaved_UpdateKeepsSpaceGroupID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := baseQuestion()
	q.CategoryID = "CategorySpaceeng"
	f.engine.OnQuestionSaved(ctx, f.addQuestion(q), true)

	q.Title = "edited"
	f.engine.OnQuestionSaved(ctx, f.addQuestion(q), false)

	act := f.activities.acts[f.links.questions["q1"]]
	if act.Param(model.ParamSpaceGroupID) != "/spaces/eng" {
		t.Errorf("SpaceGroupId lost on update: %v", act.TemplateParams)
	}
}

func TestOnQuestionSaved_CreatesAuthorIdentity(t *testing.T) {
	f := newFixture(t)
	f.engine.OnQuestionSaved(context.Background(), f.addQuestion(baseQuestion()), true)

	if !f.identities.users["alice"] {
		t.Fatal("author identity was not created")
	}
	id := f.links.questions["q1"]
	if got := f.activities.owners[id]; got != "idn-alice" {
		t.Errorf("owner = %q, want idn-alice", got)
	}
}

func TestOnQuestionSaved_IdentityErrorIsSwallowed(t *testing.T) {
	f := newFixture(t)
	q := baseQuestion()
	q.Author = "ghost"
	f.engine.OnQuestionSaved(context.Background(), f.addQuestion(q), true)

	if len(f.activities.acts) != 0 || len(f.links.questions) != 0 {
		t.Error("nothing should be recorded when the author cannot be resolved")
	}
}

func TestNilArgumentsAreIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.engine.OnQuestionSaved(ctx, nil, true)
	f.engine.OnAnswerSaved(ctx, "q1", nil, true)
	f.engine.OnAnswersSaved(ctx, "q1", []*model.Answer{nil}, true)
	f.engine.OnCommentSaved(ctx, "q1", nil, "en")

	if n := f.totalCalls(); n != 0 {
		t.Errorf("%d collaborator calls, want 0", n)
	}
}

// seedQuestion creates the question activity and returns its id.
func seedQuestion(t *testing.T, f *fixture, q *model.Question) string {
	t.Helper()
	f.engine.OnQuestionSaved(context.Background(), f.addQuestion(q), true)
	id := f.links.questions[q.ID]
	if id == "" {
		t.Fatal("seed: question activity not created")
	}
	return id
}

func TestOnAnswerSaved_NewAnswer(t *testing.T) {
	f := newFixture(t)
	parent := seedQuestion(t, f, baseQuestion())

	a := &model.Answer{ID: "a1", QuestionID: "q1", Author: "bob", Body: "Click\nforgot\npassword\nthen\nfollow the mail"}
	q := baseQuestion()
	q.Answers = []*model.Answer{a}
	f.addQuestion(q)

	f.engine.OnAnswerSaved(context.Background(), "q1", a, true)

	comments := f.activities.commentsOf(parent)
	if len(comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(comments))
	}
	c := comments[0]
	if c.Title != "Answer has been submitted: Click\nforgot\npassword\nthen" {
		t.Errorf("title = %q", c.Title)
	}
	if c.TitleKey != render.KeyAnswerAdded || c.Param(model.ParamLink) != "a1" || c.UserID != "idn-bob" {
		t.Errorf("comment = %+v", c)
	}
	if got := f.links.answers[[2]string{"q1", "a1"}]; !slices.Equal(got, []string{c.ID}) {
		t.Errorf("answer links = %v, want [%s]", got, c.ID)
	}
	if got := f.activities.acts[parent].Param(model.ParamNumberOfAnswers); got != "1" {
		t.Errorf("NumberOfAnswers = %q, want 1", got)
	}
}

func TestOnAnswerSaved_EditAppendsActivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	parent := seedQuestion(t, f, baseQuestion())

	f.engine.OnAnswerSaved(ctx, "q1", &model.Answer{ID: "a1", Author: "bob", Body: "v1"}, true)
	f.engine.OnAnswerSaved(ctx, "q1", &model.Answer{
		ID: "a1", Author: "bob", Body: "v2",
		Changes: []model.AnswerChange{{Kind: model.AnswerContentEdited}},
	}, false)
	f.engine.OnAnswerSaved(ctx, "q1", &model.Answer{
		ID: "a1", Author: "bob", Body: "v2",
		Changes: []model.AnswerChange{{Kind: model.AnswerApprovalToggled, Approved: true}},
	}, false)

	comments := f.activities.commentsOf(parent)
	if len(comments) != 3 {
		t.Fatalf("got %d comments, want 3", len(comments))
	}
	if comments[1].Title != "Answer has been edited to: v2" {
		t.Errorf("edit title = %q", comments[1].Title)
	}
	if comments[2].Title != "Answer has been approved: v2." {
		t.Errorf("approval title = %q", comments[2].Title)
	}
	want := []string{comments[0].ID, comments[1].ID, comments[2].ID}
	if got := f.links.answers[[2]string{"q1", "a1"}]; !slices.Equal(got, want) {
		t.Errorf("answer links = %v, want %v", got, want)
	}
}

func TestOnAnswerSaved_PromotionRelinksComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	parent := seedQuestion(t, f, baseQuestion())

	f.engine.OnCommentSaved(ctx, "q1", &model.Comment{ID: "c1", Author: "bob", Body: "Try the reset link"}, "en")
	commentAct := f.links.comments[[3]string{"q1", "c1", "en"}]
	if commentAct == "" {
		t.Fatal("comment not projected")
	}
	before := len(f.activities.acts)

	promoted := &model.Answer{
		ID: "c1", Author: "bob", Body: "Try the reset link",
		Changes: []model.AnswerChange{{Kind: model.AnswerPromoted}},
	}
	q := baseQuestion()
	q.Answers = []*model.Answer{promoted}
	f.addQuestion(q)
	f.engine.OnAnswerSaved(ctx, "q1", promoted, false)

	if len(f.activities.acts) != before {
		t.Errorf("promotion created %d activities, want 0", len(f.activities.acts)-before)
	}
	if got := f.activities.acts[commentAct].Param(model.ParamLink); got != "c1" {
		t.Errorf("comment link = %q, want c1", got)
	}
	if got := f.links.answers[[2]string{"q1", "c1"}]; !slices.Equal(got, []string{commentAct}) {
		t.Errorf("answer links = %v, want [%s]", got, commentAct)
	}
	if _, ok := f.links.comments[[3]string{"q1", "c1", "en"}]; ok {
		t.Error("comment link should move to the answer")
	}
	if got := f.activities.acts[parent].Param(model.ParamNumberOfAnswers); got != "1" {
		t.Errorf("NumberOfAnswers = %q, want 1", got)
	}
}

func TestOnAnswerSaved_PromotionWithoutProjectedComment(t *testing.T) {
	f := newFixture(t)
	parent := seedQuestion(t, f, baseQuestion())

	a := &model.Answer{
		ID: "c9", Author: "bob", Body: "Use SSO",
		Changes: []model.AnswerChange{{Kind: model.AnswerPromoted}},
	}
	f.engine.OnAnswerSaved(context.Background(), "q1", a, false)

	comments := f.activities.commentsOf(parent)
	if len(comments) != 1 || comments[0].Title != "Comment Use SSO has been promoted as an answer" {
		t.Fatalf("comments = %+v", comments)
	}
	if got := f.links.answers[[2]string{"q1", "c9"}]; !slices.Equal(got, []string{comments[0].ID}) {
		t.Errorf("answer links = %v", got)
	}
}

func TestOnAnswerSaved_PromotionTextWithOtherChangesIsAnEdit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	parent := seedQuestion(t, f, baseQuestion())
	f.engine.OnCommentSaved(ctx, "q1", &model.Comment{ID: "c1", Author: "bob", Body: "x"}, "en")

	a := &model.Answer{
		ID: "c1", Author: "bob", Body: "x",
		Changes: []model.AnswerChange{{Kind: model.AnswerPromoted}, {Kind: model.AnswerContentEdited}},
	}
	f.engine.OnAnswerSaved(ctx, "q1", a, false)

	if n := len(f.activities.commentsOf(parent)); n != 2 {
		t.Errorf("got %d comments, want 2 (comment + appended edit)", n)
	}
}

func TestOnAnswerSaved_StaleQuestionLink(t *testing.T) {
	f := newFixture(t)
	f.addQuestion(baseQuestion())
	f.links.questions["q1"] = "act-deleted"

	f.engine.OnAnswerSaved(context.Background(), "q1", &model.Answer{ID: "a1", Author: "bob", Body: "hi"}, true)

	parent := f.links.questions["q1"]
	if parent == "act-deleted" || parent == "" {
		t.Fatalf("question link = %q, want recreated", parent)
	}
	comments := f.activities.commentsOf(parent)
	if len(comments) != 1 || comments[0].Title != "Answer has been submitted: hi" {
		t.Fatalf("comments = %+v", comments)
	}
	if got := f.links.answers[[2]string{"q1", "a1"}]; !slices.Equal(got, []string{comments[0].ID}) {
		t.Errorf("answer links = %v", got)
	}
}

func TestOnAnswersSaved(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		f := newFixture(t)
		f.engine.OnAnswersSaved(context.Background(), "q1", nil, true)
		f.engine.OnAnswersSaved(context.Background(), "q1", []*model.Answer{}, true)
		if n := f.totalCalls(); n != 0 {
			t.Errorf("empty batch made %d store calls, want 0", n)
		}
	})

	t.Run("Each", func(t *testing.T) {
		f := newFixture(t)
		parent := seedQuestion(t, f, baseQuestion())
		f.engine.OnAnswersSaved(context.Background(), "q1", []*model.Answer{
			{ID: "a1", Author: "bob", Body: "one"},
			{ID: "a2", Author: "carol", Body: "two"},
		}, true)
		if n := len(f.activities.commentsOf(parent)); n != 2 {
			t.Errorf("got %d comments, want 2", n)
		}
	})

	t.Run("SocialAbsent", func(t *testing.T) {
		svc := &fakeFAQ{}
		links := newFakeLinks()
		e := New(svc, links, nil, testLogger())
		e.OnAnswersSaved(context.Background(), "q1", []*model.Answer{{ID: "a1"}}, true)
		if svc.calls+links.calls != 0 {
			t.Error("absent social subsystem should make the batch a no-op")
		}
		if e.Enabled() {
			t.Error("Enabled() = true, want false")
		}
	})
}

func TestOnCommentSaved_New(t *testing.T) {
	f := newFixture(t)
	parent := seedQuestion(t, f, baseQuestion())
	q := baseQuestion()
	q.Comments = []*model.Comment{{ID: "c1"}}
	f.addQuestion(q)

	f.engine.OnCommentSaved(context.Background(), "q1", &model.Comment{ID: "c1", Author: "bob", Body: "<b>&amp;</b>"}, "en")

	comments := f.activities.commentsOf(parent)
	if len(comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(comments))
	}
	if comments[0].Title != "&" {
		t.Errorf("title = %q, want %q", comments[0].Title, "&")
	}
	if comments[0].Param(model.ParamLink) != "c1" {
		t.Errorf("link = %q", comments[0].Param(model.ParamLink))
	}
	if got := f.links.comments[[3]string{"q1", "c1", "en"}]; got != comments[0].ID {
		t.Errorf("comment link = %q, want %q", got, comments[0].ID)
	}
	if got := f.activities.acts[parent].Param(model.ParamNumberOfComments); got != "1" {
		t.Errorf("NumberOfComments = %q, want 1", got)
	}
}

func TestOnCommentSaved_EditUpdatesInPlace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	parent := seedQuestion(t, f, baseQuestion())

	f.engine.OnCommentSaved(ctx, "q1", &model.Comment{ID: "c1", Author: "bob", Body: "first"}, "en")
	id := f.links.comments[[3]string{"q1", "c1", "en"}]
	f.engine.OnCommentSaved(ctx, "q1", &model.Comment{ID: "c1", Author: "bob", Body: "<i>second</i>"}, "en")

	comments := f.activities.commentsOf(parent)
	if len(comments) != 1 || comments[0].ID != id {
		t.Fatalf("comments = %+v, want the original one only", comments)
	}
	if comments[0].Title != "second" {
		t.Errorf("title = %q, want second", comments[0].Title)
	}
}

func TestOnCommentSaved_PerLanguage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	parent := seedQuestion(t, f, baseQuestion())

	f.engine.OnCommentSaved(ctx, "q1", &model.Comment{ID: "c1", Author: "bob", Body: "hello"}, "en")
	f.engine.OnCommentSaved(ctx, "q1", &model.Comment{ID: "c1", Author: "bob", Body: "bonjour"}, "fr")

	if n := len(f.activities.commentsOf(parent)); n != 2 {
		t.Errorf("got %d comments, want one per language", n)
	}
}

func TestOnCommentSaved_StaleCommentLink(t *testing.T) {
	f := newFixture(t)
	parent := seedQuestion(t, f, baseQuestion())
	f.links.comments[[3]string{"q1", "c1", "en"}] = "act-deleted"

	f.engine.OnCommentSaved(context.Background(), "q1", &model.Comment{ID: "c1", Author: "bob", Body: "again"}, "en")

	got := f.links.comments[[3]string{"q1", "c1", "en"}]
	if got == "act-deleted" {
		t.Fatal("stale comment link not overwritten")
	}
	if c := f.activities.acts[got]; c == nil || c.ParentID != parent || c.Title != "again" {
		t.Errorf("comment = %+v", c)
	}
}

func TestOnCommentSaved_StaleQuestionLink(t *testing.T) {
	f := newFixture(t)
	f.addQuestion(baseQuestion())
	f.links.questions["q1"] = "act-deleted"

	f.engine.OnCommentSaved(context.Background(), "q1", &model.Comment{ID: "c1", Author: "bob", Body: "hi"}, "en")

	parent := f.links.questions["q1"]
	if parent == "act-deleted" {
		t.Fatal("question activity not recreated")
	}
	comments := f.activities.commentsOf(parent)
	if len(comments) != 1 || comments[0].Title != "hi" {
		t.Fatalf("comments = %+v", comments)
	}
	if f.links.comments[[3]string{"q1", "c1", "en"}] != comments[0].ID {
		t.Error("comment link not registered")
	}
}

func TestOnVote_RefreshesRating(t *testing.T) {
	f := newFixture(t)
	parent := seedQuestion(t, f, baseQuestion())

	q := baseQuestion()
	q.Rating = 4.5
	q.Changes = []model.QuestionChange{{Kind: model.QuestionTitleChanged}}
	f.addQuestion(q)

	f.engine.OnVote(context.Background(), "q1")
	if got := f.activities.acts[parent].Param(model.ParamQuestionRating); got != "4.5" {
		t.Errorf("rating = %q, want 4.5", got)
	}

	q.Rating = 3
	f.engine.OnUnvote(context.Background(), "q1")
	if got := f.activities.acts[parent].Param(model.ParamQuestionRating); got != "3.0" {
		t.Errorf("rating = %q, want 3.0", got)
	}

	if n := len(f.activities.commentsOf(parent)); n != 0 {
		t.Errorf("votes posted %d comments, want 0", n)
	}
}

func TestOnVote_UnknownQuestionIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.engine.OnVote(context.Background(), "missing")
	if len(f.activities.acts) != 0 {
		t.Error("vote on unknown question should not create activities")
	}
}

func TestResync(t *testing.T) {
	f := newFixture(t)
	f.addQuestion(baseQuestion())
	f.links.questions["q1"] = "act-deleted"

	if err := f.engine.Resync(context.Background(), "q1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.links.questions["q1"] == "act-deleted" {
		t.Error("resync did not repair the link")
	}

	f.faq.err = errors.New("faq down")
	if err := f.engine.Resync(context.Background(), "q1"); err == nil {
		t.Error("expected error when the Q&A service fails")
	}

	e := New(&fakeFAQ{}, newFakeLinks(), nil, testLogger())
	if err := e.Resync(context.Background(), "q1"); !errors.Is(err, ErrSocialAbsent) {
		t.Errorf("error = %v, want ErrSocialAbsent", err)
	}
}

func TestOnAnswerRemoved_DeletesEveryActivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	parent := seedQuestion(t, f, baseQuestion())

	f.engine.OnAnswerSaved(ctx, "q1", &model.Answer{ID: "a1", Author: "bob", Body: "v1"}, true)
	f.engine.OnAnswerSaved(ctx, "q1", &model.Answer{
		ID: "a1", Author: "bob", Body: "v2",
		Changes: []model.AnswerChange{{Kind: model.AnswerContentEdited}},
	}, false)
	ids := f.links.answers[[2]string{"q1", "a1"}]
	if len(ids) != 2 {
		t.Fatalf("seed: answer links = %v", ids)
	}

	f.activities.updated = nil
	f.engine.OnAnswerRemoved(ctx, "q1", "a1")

	if !slices.Equal(f.activities.deletedComments, ids) {
		t.Errorf("deleted comments = %v, want %v", f.activities.deletedComments, ids)
	}
	if !slices.Equal(f.activities.updated, []string{parent}) {
		t.Errorf("updates = %v, want one refresh of %s", f.activities.updated, parent)
	}
	if _, ok := f.links.answers[[2]string{"q1", "a1"}]; ok {
		t.Error("answer links not deleted")
	}
}

func TestOnAnswerRemoved_SkipsVanishedActivities(t *testing.T) {
	f := newFixture(t)
	seedQuestion(t, f, baseQuestion())
	f.links.answers[[2]string{"q1", "a1"}] = []string{"act-gone"}

	f.engine.OnAnswerRemoved(context.Background(), "q1", "a1")

	if len(f.activities.deletedComments) != 0 {
		t.Errorf("deleted %v, want nothing", f.activities.deletedComments)
	}
	if _, ok := f.links.answers[[2]string{"q1", "a1"}]; ok {
		t.Error("answer links not deleted")
	}
}

func TestOnCommentRemoved_VanishedActivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	parent := seedQuestion(t, f, baseQuestion())
	f.engine.OnCommentSaved(ctx, "q1", &model.Comment{ID: "c1", Author: "bob", Body: "hi"}, "en")
	id := f.links.comments[[3]string{"q1", "c1", "en"}]
	if id == "" {
		t.Fatal("seed: comment activity not created")
	}
	delete(f.activities.acts, id)

	f.activities.updated = nil
	f.engine.OnCommentRemoved(ctx, "q1", "c1", "en")

	if len(f.links.comments) != 0 {
		t.Errorf("comment links = %v, want none", f.links.comments)
	}
	if !slices.Equal(f.activities.updated, []string{parent}) {
		t.Errorf("updates = %v, want one refresh of %s", f.activities.updated, parent)
	}
}

func TestOnCommentRemoved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	parent := seedQuestion(t, f, baseQuestion())
	f.engine.OnCommentSaved(ctx, "q1", &model.Comment{ID: "c1", Author: "bob", Body: "hi"}, "en")
	id := f.links.comments[[3]string{"q1", "c1", "en"}]

	f.activities.updated = nil
	f.engine.OnCommentRemoved(ctx, "q1", "c1", "en")

	if !slices.Equal(f.activities.deletedComments, []string{id}) {
		t.Errorf("deleted comments = %v, want [%s]", f.activities.deletedComments, id)
	}
	if !slices.Equal(f.activities.updated, []string{parent}) {
		t.Errorf("updates = %v, want one refresh", f.activities.updated)
	}
	if len(f.links.comments) != 0 {
		t.Errorf("comment links = %v, want none", f.links.comments)
	}
}

func TestOnQuestionRemoved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	parent := seedQuestion(t, f, baseQuestion())
	f.engine.OnAnswerSaved(ctx, "q1", &model.Answer{ID: "a1", Author: "bob", Body: "v1"}, true)

	f.engine.OnQuestionRemoved(ctx, "q1")

	if !slices.Equal(f.activities.deleted, []string{parent}) {
		t.Errorf("deleted = %v, want [%s]", f.activities.deleted, parent)
	}
	if len(f.activities.acts) != 0 {
		t.Errorf("%d activities left, want 0", len(f.activities.acts))
	}
	if len(f.links.questions)+len(f.links.answers) != 0 {
		t.Error("registry entries left after removal")
	}
}

func TestFormatRating(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{4, "4.0"},
		{4.5, "4.5"},
		{3.75, "3.75"},
	}
	for _, tc := range tests {
		if got := formatRating(tc.in); got != tc.want {
			t.Errorf("formatRating(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestKeyedMutex(t *testing.T) {
	k := newKeyedMutex()
	var (
		wg      sync.WaitGroup
		counter int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock("q1")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
	if n := k.size(); n != 0 {
		t.Errorf("%d keys still tracked, want 0", n)
	}
}

func TestConcurrentSavesShareOneActivity(t *testing.T) {
	f := newFixture(t)
	f.engine.OnQuestionSaved(context.Background(), f.addQuestion(baseQuestion()), true)

	// The fakes are not goroutine-safe; the per-question lock serializes them.
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.engine.OnVote(context.Background(), "q1")
		}()
	}
	wg.Wait()

	if len(f.activities.acts) != 1 {
		t.Errorf("got %d activities, want 1", len(f.activities.acts))
	}
	if !strings.HasPrefix(f.links.questions["q1"], "act-") {
		t.Errorf("link = %q", f.links.questions["q1"])
	}
}
