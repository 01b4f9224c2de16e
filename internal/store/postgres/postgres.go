// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/alfredjeanlab/qastream/internal/model"
	"github.com/alfredjeanlab/qastream/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --- Activities ---

func (s *PostgresStore) GetActivity(ctx context.Context, id string) (*model.Activity, bool, error) {
	return queryGetActivity(ctx, s.db, id)
}

func (s *PostgresStore) SaveActivity(ctx context.Context, owner *model.Identity, activity *model.Activity) error {
	activity.OwnerID = owner.ID
	return queryInsertActivity(ctx, s.db, activity)
}

func (s *PostgresStore) UpdateActivity(ctx context.Context, activity *model.Activity) error {
	return queryUpdateActivity(ctx, s.db, activity)
}

func (s *PostgresStore) SaveComment(ctx context.Context, parent *model.Activity, comment *model.Activity) error {
	comment.ParentID = parent.ID
	comment.OwnerID = parent.OwnerID
	if err := queryInsertActivity(ctx, s.db, comment); err != nil {
		return err
	}
	parent.Comments = append(parent.Comments, comment)
	return nil
}

func (s *PostgresStore) DeleteActivity(ctx context.Context, activity *model.Activity) error {
	return queryDeleteActivity(ctx, s.db, activity.ID)
}

func (s *PostgresStore) DeleteComment(ctx context.Context, parentID, commentID string) error {
	return queryDeleteComment(ctx, s.db, parentID, commentID)
}

// --- Identities and spaces ---

func (s *PostgresStore) GetOrCreateIdentity(ctx context.Context, provider, remoteID string, create bool) (*model.Identity, error) {
	return queryGetOrCreateIdentity(ctx, s.db, provider, remoteID, create)
}

func (s *PostgresStore) GetSpaceByGroupID(ctx context.Context, groupID string) (*model.Space, error) {
	return queryGetSpaceByGroupID(ctx, s.db, groupID)
}

// --- Link registry ---

func (s *PostgresStore) QuestionActivity(ctx context.Context, questionID string) (string, error) {
	return queryQuestionActivity(ctx, s.db, questionID)
}

func (s *PostgresStore) SetQuestionActivity(ctx context.Context, questionID, activityID string) error {
	return querySetQuestionActivity(ctx, s.db, questionID, activityID)
}

func (s *PostgresStore) AnswerActivities(ctx context.Context, questionID, answerID string) ([]string, error) {
	return queryAnswerActivities(ctx, s.db, questionID, answerID)
}

func (s *PostgresStore) SetAnswerActivities(ctx context.Context, questionID, answerID string, activityIDs []string) error {
	return querySetAnswerActivities(ctx, s.db, questionID, answerID, activityIDs)
}

func (s *PostgresStore) AppendAnswerActivity(ctx context.Context, questionID, answerID, activityID string) error {
	return queryAppendAnswerActivity(ctx, s.db, questionID, answerID, activityID)
}

func (s *PostgresStore) CommentActivity(ctx context.Context, questionID, commentID, language string) (string, error) {
	return queryCommentActivity(ctx, s.db, questionID, commentID, language)
}

func (s *PostgresStore) SetCommentActivity(ctx context.Context, questionID, commentID, language, activityID string) error {
	return querySetCommentActivity(ctx, s.db, questionID, commentID, language, activityID)
}

func (s *PostgresStore) DeleteAnswerLinks(ctx context.Context, questionID, answerID string) error {
	return queryDeleteAnswerLinks(ctx, s.db, questionID, answerID)
}

func (s *PostgresStore) DeleteCommentLink(ctx context.Context, questionID, commentID, language string) error {
	return queryDeleteCommentLink(ctx, s.db, questionID, commentID, language)
}

// DeleteQuestionLinks removes every registry row of a question in one transaction.
func (s *PostgresStore) DeleteQuestionLinks(ctx context.Context, questionID string) error {
	return s.runInTransaction(ctx, func(tx *sql.Tx) error {
		return queryDeleteQuestionLinks(ctx, tx, questionID)
	})
}

func (s *PostgresStore) GetLinks(ctx context.Context, questionID string) (*model.LinkSet, error) {
	return queryGetLinks(ctx, s.db, questionID)
}

func (s *PostgresStore) ListLinks(ctx context.Context) ([]*model.LinkSet, error) {
	return queryListLinks(ctx, s.db)
}

// runInTransaction begins a database transaction, calls fn, and commits on
// success or rolls back on error.
func (s *PostgresStore) runInTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
