package sqlite

import (
	"context"
	"database/sql"

	"github.com/thebtf/questions/internal/db"
	"github.com/thebtf/questions/pkg/models"
)

const questionLikeColumns = `question_likes.id, question_likes.user_id, question_likes.question_id`

// QuestionLikeStore provides like-related database operations.
type QuestionLikeStore struct {
	conn db.Connection
}

// NewQuestionLikeStore creates a new like store.
func NewQuestionLikeStore(conn db.Connection) *QuestionLikeStore {
	return &QuestionLikeStore{conn: conn}
}

// All returns every like.
func (s *QuestionLikeStore) All(ctx context.Context) ([]*models.QuestionLike, error) {
	const query = `SELECT ` + questionLikeColumns + ` FROM question_likes`
	return s.queryLikes(ctx, query)
}

// FindByID retrieves a like by ID. Returns nil if no like has that ID.
func (s *QuestionLikeStore) FindByID(ctx context.Context, id int64) (*models.QuestionLike, error) {
	const query = `SELECT ` + questionLikeColumns + ` FROM question_likes WHERE id = ?`

	var l models.QuestionLike
	err := s.conn.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.UserID, &l.QuestionID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// FindByQuestionID retrieves the likes on a question.
func (s *QuestionLikeStore) FindByQuestionID(ctx context.Context, questionID int64) ([]*models.QuestionLike, error) {
	const query = `SELECT ` + questionLikeColumns + ` FROM question_likes WHERE question_id = ?`
	return s.queryLikes(ctx, query, questionID)
}

// FindByUserID retrieves the likes left by a user.
// These are the like records, not the liked questions themselves.
func (s *QuestionLikeStore) FindByUserID(ctx context.Context, userID int64) ([]*models.QuestionLike, error) {
	const query = `SELECT ` + questionLikeColumns + ` FROM question_likes WHERE user_id = ?`
	return s.queryLikes(ctx, query, userID)
}

// LikersForQuestionID returns the users who liked a question, once per like.
func (s *QuestionLikeStore) LikersForQuestionID(ctx context.Context, questionID int64) ([]*models.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		JOIN question_likes ON question_likes.user_id = users.id
		WHERE question_likes.question_id = ?
	`

	rows, err := s.conn.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUserRows(rows)
}

// NumLikesForQuestionID counts the likes on a question. A question without
// likes, or one that does not exist, has zero.
func (s *QuestionLikeStore) NumLikesForQuestionID(ctx context.Context, questionID int64) (int64, error) {
	// Ungrouped COUNT always yields a row, so no likes reads as 0.
	const query = `SELECT COUNT(*) AS num_likes FROM question_likes WHERE question_id = ?`

	var count int64
	err := s.conn.QueryRowContext(ctx, query, questionID).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return count, err
}

// MostLikedQuestions returns the n most liked questions as title/count pairs,
// highest count first. Questions without likes are not listed.
func (s *QuestionLikeStore) MostLikedQuestions(ctx context.Context, n int) ([]*models.QuestionCount, error) {
	if err := checkLimit(n); err != nil {
		return nil, err
	}

	const query = `
		SELECT questions.title, COUNT(*) AS like_count
		FROM questions
		JOIN question_likes ON questions.id = question_likes.question_id
		GROUP BY question_likes.question_id
		ORDER BY like_count DESC
		LIMIT ?
	`

	rows, err := s.conn.QueryContext(ctx, query, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanQuestionCountRows(rows)
}

// Save inserts the like when it has no ID and records the generated ID,
// otherwise it updates the existing row.
func (s *QuestionLikeStore) Save(ctx context.Context, l *models.QuestionLike) error {
	if l.IsPersisted() {
		const query = `UPDATE question_likes SET user_id = ?, question_id = ? WHERE id = ?`
		_, err := s.conn.ExecContext(ctx, query, l.UserID, l.QuestionID, l.ID)
		return err
	}

	const query = `INSERT INTO question_likes (user_id, question_id) VALUES (?, ?)`
	result, err := s.conn.ExecContext(ctx, query, l.UserID, l.QuestionID)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = id
	return nil
}

func (s *QuestionLikeStore) queryLikes(ctx context.Context, query string, args ...any) ([]*models.QuestionLike, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var likes []*models.QuestionLike
	for rows.Next() {
		var l models.QuestionLike
		if err := rows.Scan(&l.ID, &l.UserID, &l.QuestionID); err != nil {
			return nil, err
		}
		likes = append(likes, &l)
	}
	return likes, rows.Err()
}
