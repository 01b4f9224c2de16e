package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alfredjeanlab/qastream/internal/idgen"
	"github.com/alfredjeanlab/qastream/internal/model"
	"github.com/alfredjeanlab/qastream/internal/store"
)

// activityColumns is the column list used for SELECT statements on the activities table.
const activityColumns = `id, parent_id, type, owner_id, user_id, title, body,
	template_params, title_key, title_args, created_at, updated_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC() }

func queryGetActivity(ctx context.Context, db executor, id string) (*model.Activity, bool, error) {
	row := db.QueryRowContext(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = $1`, id)
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get activity %s: %w", id, err)
	}

	// Comments of top-level activities, in posting order.
	if a.ParentID == "" {
		comments, err := queryGetComments(ctx, db, id)
		if err != nil {
			return nil, false, err
		}
		a.Comments = comments
	}

	return a, true, nil
}

func queryGetComments(ctx context.Context, db executor, parentID string) ([]*model.Activity, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE parent_id = $1 ORDER BY seq`, parentID)
	if err != nil {
		return nil, fmt.Errorf("get comments of %s: %w", parentID, err)
	}
	defer rows.Close()

	var comments []*model.Activity
	for rows.Next() {
		c, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func queryInsertActivity(ctx context.Context, db executor, a *model.Activity) error {
	if a.ID == "" {
		id, err := idgen.ActivityID()
		if err != nil {
			return err
		}
		a.ID = id
	}
	ts := now()
	a.CreatedAt = ts
	a.UpdatedAt = ts

	params, err := jsonbMap(a.TemplateParams)
	if err != nil {
		return fmt.Errorf("encode template params: %w", err)
	}
	args, err := jsonbStrings(a.TitleArgs)
	if err != nil {
		return fmt.Errorf("encode title args: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO activities (
			id, parent_id, type, owner_id, user_id, title, body,
			template_params, title_key, title_args, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12
		)`,
		a.ID,
		nullString(a.ParentID),
		a.Type,
		a.OwnerID,
		a.UserID,
		a.Title,
		a.Body,
		params,
		nullString(a.TitleKey),
		args,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func queryUpdateActivity(ctx context.Context, db executor, a *model.Activity) error {
	params, err := jsonbMap(a.TemplateParams)
	if err != nil {
		return fmt.Errorf("encode template params: %w", err)
	}
	args, err := jsonbStrings(a.TitleArgs)
	if err != nil {
		return fmt.Errorf("encode title args: %w", err)
	}
	a.UpdatedAt = now()

	res, err := db.ExecContext(ctx, `
		UPDATE activities
		SET title = $2, body = $3, template_params = $4, title_key = $5, title_args = $6, updated_at = $7
		WHERE id = $1`,
		a.ID, a.Title, a.Body, params, nullString(a.TitleKey), args, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update activity %s: %w", a.ID, err)
	}
	return expectOneRow(res, "activity "+a.ID)
}

func queryDeleteActivity(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete activity %s: %w", id, err)
	}
	return expectOneRow(res, "activity "+id)
}

func queryDeleteComment(ctx context.Context, db executor, parentID, commentID string) error {
	res, err := db.ExecContext(ctx,
		`DELETE FROM activities WHERE id = $1 AND parent_id = $2`, commentID, parentID)
	if err != nil {
		return fmt.Errorf("delete comment %s: %w", commentID, err)
	}
	return expectOneRow(res, "comment "+commentID)
}

func queryGetOrCreateIdentity(ctx context.Context, db executor, provider, remoteID string, create bool) (*model.Identity, error) {
	ident := model.Identity{Provider: provider, RemoteID: remoteID}
	err := db.QueryRowContext(ctx,
		`SELECT id FROM identities WHERE provider = $1 AND remote_id = $2`,
		provider, remoteID,
	).Scan(&ident.ID)
	switch {
	case err == nil:
		return &ident, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("get identity %s/%s: %w", provider, remoteID, err)
	case !create:
		return nil, fmt.Errorf("identity %s/%s: %w", provider, remoteID, store.ErrNotFound)
	}

	id, err := idgen.IdentityID()
	if err != nil {
		return nil, err
	}
	// A concurrent insert wins; the RETURNING clause hands back its id.
	err = db.QueryRowContext(ctx, `
		INSERT INTO identities (id, provider, remote_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (provider, remote_id) DO UPDATE SET remote_id = EXCLUDED.remote_id
		RETURNING id`,
		id, provider, remoteID,
	).Scan(&ident.ID)
	if err != nil {
		return nil, fmt.Errorf("create identity %s/%s: %w", provider, remoteID, err)
	}
	return &ident, nil
}

func queryGetSpaceByGroupID(ctx context.Context, db executor, groupID string) (*model.Space, error) {
	var sp model.Space
	err := db.QueryRowContext(ctx,
		`SELECT id, pretty_name, group_id FROM spaces WHERE group_id = $1`, groupID,
	).Scan(&sp.ID, &sp.PrettyName, &sp.GroupID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("space %s: %w", groupID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get space %s: %w", groupID, err)
	}
	return &sp, nil
}

// expectOneRow turns a zero-row update or delete into store.ErrNotFound.
func expectOneRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, store.ErrNotFound)
	}
	return nil
}
