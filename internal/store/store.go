package store

import (
	"context"
	"errors"

	"github.com/alfredjeanlab/qastream/internal/model"
)

// ErrNotFound is returned when an identity, space or activity does not exist.
var ErrNotFound = errors.New("not found")

// ActivityStore is CRUD over the activity stream. Comments are activities
// attached to a parent.
type ActivityStore interface {
	// GetActivity loads an activity (or comment-activity) by ID. found is
	// false when the ID no longer exists; err is reserved for store failures.
	GetActivity(ctx context.Context, id string) (activity *model.Activity, found bool, err error)
	// SaveActivity posts activity to owner's stream and assigns its ID.
	SaveActivity(ctx context.Context, owner *model.Identity, activity *model.Activity) error
	UpdateActivity(ctx context.Context, activity *model.Activity) error
	// SaveComment attaches comment to parent and assigns its ID.
	SaveComment(ctx context.Context, parent *model.Activity, comment *model.Activity) error
	DeleteActivity(ctx context.Context, activity *model.Activity) error
	DeleteComment(ctx context.Context, parentID, commentID string) error
}

// IdentityStore resolves stream owners.
type IdentityStore interface {
	// GetOrCreateIdentity returns ErrNotFound when the identity is unknown and
	// create is false.
	GetOrCreateIdentity(ctx context.Context, provider, remoteID string, create bool) (*model.Identity, error)
}

// SpaceStore looks up spaces.
type SpaceStore interface {
	// GetSpaceByGroupID returns ErrNotFound when no space owns the group.
	GetSpaceByGroupID(ctx context.Context, groupID string) (*model.Space, error)
}

// LinkRegistry maps questions, answers and comments to the activities that
// represent them. Getters return empty values, not errors, for missing entries.
type LinkRegistry interface {
	QuestionActivity(ctx context.Context, questionID string) (string, error)
	SetQuestionActivity(ctx context.Context, questionID, activityID string) error

	AnswerActivities(ctx context.Context, questionID, answerID string) ([]string, error)
	SetAnswerActivities(ctx context.Context, questionID, answerID string, activityIDs []string) error
	// AppendAnswerActivity adds activityID to the end of the answer's list,
	// creating the entry if needed.
	AppendAnswerActivity(ctx context.Context, questionID, answerID, activityID string) error

	CommentActivity(ctx context.Context, questionID, commentID, language string) (string, error)
	SetCommentActivity(ctx context.Context, questionID, commentID, language, activityID string) error

	DeleteQuestionLinks(ctx context.Context, questionID string) error
	DeleteAnswerLinks(ctx context.Context, questionID, answerID string) error
	DeleteCommentLink(ctx context.Context, questionID, commentID, language string) error

	GetLinks(ctx context.Context, questionID string) (*model.LinkSet, error)
	ListLinks(ctx context.Context) ([]*model.LinkSet, error)
}

// Store is everything the postgres backend provides.
type Store interface {
	ActivityStore
	IdentityStore
	SpaceStore
	LinkRegistry

	// Lifecycle
	Close() error
}
