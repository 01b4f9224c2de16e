package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/alfredjeanlab/qastream/internal/model"
)

func queryQuestionActivity(ctx context.Context, db executor, questionID string) (string, error) {
	var id string
	err := db.QueryRowContext(ctx,
		`SELECT activity_id FROM question_links WHERE question_id = $1`, questionID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get question link %s: %w", questionID, err)
	}
	return id, nil
}

func querySetQuestionActivity(ctx context.Context, db executor, questionID, activityID string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO question_links (question_id, activity_id, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (question_id) DO UPDATE
		SET activity_id = EXCLUDED.activity_id, updated_at = NOW()`,
		questionID, activityID,
	)
	if err != nil {
		return fmt.Errorf("set question link %s: %w", questionID, err)
	}
	return nil
}

func queryAnswerActivities(ctx context.Context, db executor, questionID, answerID string) ([]string, error) {
	var ids []string
	err := db.QueryRowContext(ctx,
		`SELECT activity_ids FROM answer_links WHERE question_id = $1 AND answer_id = $2`,
		questionID, answerID,
	).Scan(pq.Array(&ids))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get answer link %s/%s: %w", questionID, answerID, err)
	}
	return ids, nil
}

func querySetAnswerActivities(ctx context.Context, db executor, questionID, answerID string, activityIDs []string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO answer_links (question_id, answer_id, activity_ids, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (question_id, answer_id) DO UPDATE
		SET activity_ids = EXCLUDED.activity_ids, updated_at = NOW()`,
		questionID, answerID, pq.Array(activityIDs),
	)
	if err != nil {
		return fmt.Errorf("set answer link %s/%s: %w", questionID, answerID, err)
	}
	return nil
}

// queryAppendAnswerActivity appends in a single statement so concurrent
// appends do not drop each other's ids.
func queryAppendAnswerActivity(ctx context.Context, db executor, questionID, answerID, activityID string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO answer_links (question_id, answer_id, activity_ids, updated_at)
		VALUES ($1, $2, ARRAY[$3::TEXT], NOW())
		ON CONFLICT (question_id, answer_id) DO UPDATE
		SET activity_ids = answer_links.activity_ids || EXCLUDED.activity_ids, updated_at = NOW()`,
		questionID, answerID, activityID,
	)
	if err != nil {
		return fmt.Errorf("append answer link %s/%s: %w", questionID, answerID, err)
	}
	return nil
}

func queryCommentActivity(ctx context.Context, db executor, questionID, commentID, language string) (string, error) {
	var id string
	err := db.QueryRowContext(ctx, `
		SELECT activity_id FROM comment_links
		WHERE question_id = $1 AND comment_id = $2 AND language = $3`,
		questionID, commentID, language,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get comment link %s/%s: %w", questionID, commentID, err)
	}
	return id, nil
}

func querySetCommentActivity(ctx context.Context, db executor, questionID, commentID, language, activityID string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO comment_links (question_id, comment_id, language, activity_id, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (question_id, comment_id, language) DO UPDATE
		SET activity_id = EXCLUDED.activity_id, updated_at = NOW()`,
		questionID, commentID, language, activityID,
	)
	if err != nil {
		return fmt.Errorf("set comment link %s/%s: %w", questionID, commentID, err)
	}
	return nil
}

func queryDeleteAnswerLinks(ctx context.Context, db executor, questionID, answerID string) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM answer_links WHERE question_id = $1 AND answer_id = $2`, questionID, answerID)
	if err != nil {
		return fmt.Errorf("delete answer link %s/%s: %w", questionID, answerID, err)
	}
	return nil
}

func queryDeleteCommentLink(ctx context.Context, db executor, questionID, commentID, language string) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM comment_links WHERE question_id = $1 AND comment_id = $2 AND language = $3`,
		questionID, commentID, language)
	if err != nil {
		return fmt.Errorf("delete comment link %s/%s: %w", questionID, commentID, err)
	}
	return nil
}

func queryDeleteQuestionLinks(ctx context.Context, db executor, questionID string) error {
	for _, table := range []string{"comment_links", "answer_links", "question_links"} {
		if _, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE question_id = $1`, questionID); err != nil {
			return fmt.Errorf("delete %s of %s: %w", table, questionID, err)
		}
	}
	return nil
}

func queryGetLinks(ctx context.Context, db executor, questionID string) (*model.LinkSet, error) {
	activityID, err := queryQuestionActivity(ctx, db, questionID)
	if err != nil {
		return nil, err
	}
	set := &model.LinkSet{QuestionID: questionID, ActivityID: activityID}

	rows, err := db.QueryContext(ctx,
		`SELECT answer_id, activity_ids FROM answer_links WHERE question_id = $1 ORDER BY answer_id`, questionID)
	if err != nil {
		return nil, fmt.Errorf("list answer links of %s: %w", questionID, err)
	}
	for rows.Next() {
		var al model.AnswerLink
		if err := rows.Scan(&al.AnswerID, pq.Array(&al.ActivityIDs)); err != nil {
			rows.Close()
			return nil, err
		}
		set.Answers = append(set.Answers, al)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx, `
		SELECT comment_id, language, activity_id FROM comment_links
		WHERE question_id = $1 ORDER BY comment_id, language`, questionID)
	if err != nil {
		return nil, fmt.Errorf("list comment links of %s: %w", questionID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var cl model.CommentLink
		if err := rows.Scan(&cl.CommentID, &cl.Language, &cl.ActivityID); err != nil {
			return nil, err
		}
		set.Comments = append(set.Comments, cl)
	}
	return set, rows.Err()
}

func queryListLinks(ctx context.Context, db executor) ([]*model.LinkSet, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT question_id FROM question_links
		UNION SELECT question_id FROM answer_links
		UNION SELECT question_id FROM comment_links
		ORDER BY question_id`)
	if err != nil {
		return nil, fmt.Errorf("list linked questions: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sets := make([]*model.LinkSet, 0, len(ids))
	for _, id := range ids {
		set, err := queryGetLinks(ctx, db, id)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}
