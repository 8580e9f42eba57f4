package sqlite

import (
	"context"
	"database/sql"

	"github.com/thebtf/questions/internal/db"
	"github.com/thebtf/questions/pkg/models"
)

const questionFollowColumns = `question_follows.id, question_follows.user_id, question_follows.question_id`

// QuestionFollowStore provides follow-related database operations.
type QuestionFollowStore struct {
	conn db.Connection
}

// NewQuestionFollowStore creates a new follow store.
func NewQuestionFollowStore(conn db.Connection) *QuestionFollowStore {
	return &QuestionFollowStore{conn: conn}
}

// All returns every follow.
func (s *QuestionFollowStore) All(ctx context.Context) ([]*models.QuestionFollow, error) {
	const query = `SELECT ` + questionFollowColumns + ` FROM question_follows`
	return s.queryFollows(ctx, query)
}

// FindByID retrieves a follow by ID. Returns nil if no follow has that ID.
func (s *QuestionFollowStore) FindByID(ctx context.Context, id int64) (*models.QuestionFollow, error) {
	const query = `SELECT ` + questionFollowColumns + ` FROM question_follows WHERE id = ?`

	var f models.QuestionFollow
	err := s.conn.QueryRowContext(ctx, query, id).Scan(&f.ID, &f.UserID, &f.QuestionID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// FindByUserID retrieves the follows recorded for a user.
func (s *QuestionFollowStore) FindByUserID(ctx context.Context, userID int64) ([]*models.QuestionFollow, error) {
	const query = `SELECT ` + questionFollowColumns + ` FROM question_follows WHERE user_id = ?`
	return s.queryFollows(ctx, query, userID)
}

// FindByQuestionID retrieves the follows recorded for a question.
func (s *QuestionFollowStore) FindByQuestionID(ctx context.Context, questionID int64) ([]*models.QuestionFollow, error) {
	const query = `SELECT ` + questionFollowColumns + ` FROM question_follows WHERE question_id = ?`
	return s.queryFollows(ctx, query, questionID)
}

// FollowersForQuestionID returns the users following a question, once per follow.
func (s *QuestionFollowStore) FollowersForQuestionID(ctx context.Context, questionID int64) ([]*models.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		JOIN question_follows ON users.id = question_follows.user_id
		WHERE question_follows.question_id = ?
	`

	rows, err := s.conn.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUserRows(rows)
}

// FollowedQuestionsForUserID returns the questions a user follows, once per follow.
func (s *QuestionFollowStore) FollowedQuestionsForUserID(ctx context.Context, userID int64) ([]*models.Question, error) {
	const query = `
		SELECT ` + questionColumns + `
		FROM questions
		JOIN question_follows ON questions.id = question_follows.question_id
		WHERE question_follows.user_id = ?
	`

	rows, err := s.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanQuestionRows(rows)
}

// MostFollowedQuestions returns the n most followed questions as title/count
// pairs, highest count first. Questions nobody follows are not listed.
func (s *QuestionFollowStore) MostFollowedQuestions(ctx context.Context, n int) ([]*models.QuestionCount, error) {
	if err := checkLimit(n); err != nil {
		return nil, err
	}

	// COALESCE never fires under GROUP BY: every group has at least one row.
	const query = `
		SELECT questions.title, COALESCE(COUNT(*), 0) AS follow_count
		FROM questions
		JOIN question_follows ON questions.id = question_follows.question_id
		GROUP BY question_follows.question_id
		ORDER BY follow_count DESC
		LIMIT ?
	`

	rows, err := s.conn.QueryContext(ctx, query, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanQuestionCountRows(rows)
}

// Save inserts the follow when it has no ID and records the generated ID,
// otherwise it updates the existing row.
func (s *QuestionFollowStore) Save(ctx context.Context, f *models.QuestionFollow) error {
	if f.IsPersisted() {
		const query = `UPDATE question_follows SET user_id = ?, question_id = ? WHERE id = ?`
		_, err := s.conn.ExecContext(ctx, query, f.UserID, f.QuestionID, f.ID)
		return err
	}

	const query = `INSERT INTO question_follows (user_id, question_id) VALUES (?, ?)`
	result, err := s.conn.ExecContext(ctx, query, f.UserID, f.QuestionID)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = id
	return nil
}

func (s *QuestionFollowStore) queryFollows(ctx context.Context, query string, args ...any) ([]*models.QuestionFollow, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var follows []*models.QuestionFollow
	for rows.Next() {
		var f models.QuestionFollow
		if err := rows.Scan(&f.ID, &f.UserID, &f.QuestionID); err != nil {
			return nil, err
		}
		follows = append(follows, &f)
	}
	return follows, rows.Err()
}
