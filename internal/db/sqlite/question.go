package sqlite

import (
	"context"
	"database/sql"

	"github.com/thebtf/questions/internal/db"
	"github.com/thebtf/questions/pkg/models"
)

const questionColumns = `questions.id, questions.title, questions.body, questions.author_id`

// QuestionStore provides question-related database operations.
type QuestionStore struct {
	conn db.Connection
}

// NewQuestionStore creates a new question store.
func NewQuestionStore(conn db.Connection) *QuestionStore {
	return &QuestionStore{conn: conn}
}

// All returns every question.
func (s *QuestionStore) All(ctx context.Context) ([]*models.Question, error) {
	const query = `SELECT ` + questionColumns + ` FROM questions`

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanQuestionRows(rows)
}

// FindByID retrieves a question by ID. Returns nil if no question has that ID.
func (s *QuestionStore) FindByID(ctx context.Context, id int64) (*models.Question, error) {
	const query = `SELECT ` + questionColumns + ` FROM questions WHERE id = ?`

	q, err := scanQuestion(s.conn.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return q, err
}

// FindByAuthorID retrieves the questions written by a user.
func (s *QuestionStore) FindByAuthorID(ctx context.Context, authorID int64) ([]*models.Question, error) {
	const query = `SELECT ` + questionColumns + ` FROM questions WHERE author_id = ?`

	rows, err := s.conn.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanQuestionRows(rows)
}

// FindByKeywordInTitle retrieves questions whose title contains keyword.
// Matching follows SQLite LIKE, which ignores ASCII case.
func (s *QuestionStore) FindByKeywordInTitle(ctx context.Context, keyword string) ([]*models.Question, error) {
	const query = `SELECT ` + questionColumns + ` FROM questions WHERE title LIKE :key`

	rows, err := s.conn.QueryContext(ctx, query, sql.Named("key", likePattern(keyword)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanQuestionRows(rows)
}

// MostLiked returns the n questions with the most likes.
func (s *QuestionStore) MostLiked(ctx context.Context, n int) ([]*models.QuestionCount, error) {
	return NewQuestionLikeStore(s.conn).MostLikedQuestions(ctx, n)
}

// MostFollowed returns the n questions with the most followers.
func (s *QuestionStore) MostFollowed(ctx context.Context, n int) ([]*models.QuestionCount, error) {
	return NewQuestionFollowStore(s.conn).MostFollowedQuestions(ctx, n)
}

// Save inserts the question when it has no ID and records the generated ID,
// otherwise it updates the existing row.
func (s *QuestionStore) Save(ctx context.Context, q *models.Question) error {
	if q.IsPersisted() {
		const query = `UPDATE questions SET title = ?, body = ?, author_id = ? WHERE id = ?`
		_, err := s.conn.ExecContext(ctx, query, q.Title, q.Body, q.AuthorID, q.ID)
		return err
	}

	const query = `INSERT INTO questions (title, body, author_id) VALUES (?, ?, ?)`
	result, err := s.conn.ExecContext(ctx, query, q.Title, q.Body, q.AuthorID)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	q.ID = id
	return nil
}

// Likers returns the users who liked the question.
func (s *QuestionStore) Likers(ctx context.Context, q *models.Question) ([]*models.User, error) {
	return NewQuestionLikeStore(s.conn).LikersForQuestionID(ctx, q.ID)
}

// NumLikes returns how many likes the question has.
func (s *QuestionStore) NumLikes(ctx context.Context, q *models.Question) (int64, error) {
	return NewQuestionLikeStore(s.conn).NumLikesForQuestionID(ctx, q.ID)
}

// Author returns the question's author, or nil if the author row is gone.
func (s *QuestionStore) Author(ctx context.Context, q *models.Question) (*models.User, error) {
	return NewUserStore(s.conn).FindByID(ctx, q.AuthorID)
}

// Replies returns every reply filed under the question.
func (s *QuestionStore) Replies(ctx context.Context, q *models.Question) ([]*models.Reply, error) {
	return NewReplyStore(s.conn).FindBySubjectID(ctx, q.ID)
}

// Followers returns the users following the question.
func (s *QuestionStore) Followers(ctx context.Context, q *models.Question) ([]*models.User, error) {
	return NewQuestionFollowStore(s.conn).FollowersForQuestionID(ctx, q.ID)
}

func scanQuestion(row *sql.Row) (*models.Question, error) {
	var q models.Question
	if err := row.Scan(&q.ID, &q.Title, &q.Body, &q.AuthorID); err != nil {
		return nil, err
	}
	return &q, nil
}

func scanQuestionRows(rows *sql.Rows) ([]*models.Question, error) {
	var questions []*models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Title, &q.Body, &q.AuthorID); err != nil {
			return nil, err
		}
		questions = append(questions, &q)
	}
	return questions, rows.Err()
}

// scanQuestionCountRows scans title/count projections.
func scanQuestionCountRows(rows *sql.Rows) ([]*models.QuestionCount, error) {
	var results []*models.QuestionCount
	for rows.Next() {
		var qc models.QuestionCount
		if err := rows.Scan(&qc.Title, &qc.Count); err != nil {
			return nil, err
		}
		results = append(results, &qc)
	}
	return results, rows.Err()
}
