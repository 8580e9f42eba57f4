package sqlite

import (
	"context"
	"database/sql"

	"github.com/thebtf/questions/internal/db"
	"github.com/thebtf/questions/pkg/models"
)

const userColumns = `users.id, users.fname, users.lname`

// UserStore provides user-related database operations.
type UserStore struct {
	conn db.Connection
}

// NewUserStore creates a new user store.
func NewUserStore(conn db.Connection) *UserStore {
	return &UserStore{conn: conn}
}

// All returns every user.
func (s *UserStore) All(ctx context.Context) ([]*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users`

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUserRows(rows)
}

// FindByID retrieves a user by ID. Returns nil if no user has that ID.
func (s *UserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	user, err := scanUser(s.conn.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

// FindByName retrieves users with the given first and last name.
func (s *UserStore) FindByName(ctx context.Context, fname, lname string) (*models.UserMatch, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE fname = ? AND lname = ?`

	rows, err := s.conn.QueryContext(ctx, query, fname, lname)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users, err := scanUserRows(rows)
	if err != nil {
		return nil, err
	}
	return models.NewUserMatch(users), nil
}

// Save inserts the user when it has no ID and records the generated ID,
// otherwise it updates the existing row.
func (s *UserStore) Save(ctx context.Context, user *models.User) error {
	if user.IsPersisted() {
		const query = `UPDATE users SET fname = ?, lname = ? WHERE id = ?`
		_, err := s.conn.ExecContext(ctx, query, user.FName, user.LName, user.ID)
		return err
	}

	const query = `INSERT INTO users (fname, lname) VALUES (?, ?)`
	result, err := s.conn.ExecContext(ctx, query, user.FName, user.LName)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

// Likes returns the like records the user has left.
func (s *UserStore) Likes(ctx context.Context, user *models.User) ([]*models.QuestionLike, error) {
	return NewQuestionLikeStore(s.conn).FindByUserID(ctx, user.ID)
}

// AuthoredQuestions returns the questions the user wrote.
func (s *UserStore) AuthoredQuestions(ctx context.Context, user *models.User) ([]*models.Question, error) {
	return NewQuestionStore(s.conn).FindByAuthorID(ctx, user.ID)
}

// AuthoredReplies returns the replies the user wrote.
func (s *UserStore) AuthoredReplies(ctx context.Context, user *models.User) ([]*models.Reply, error) {
	return NewReplyStore(s.conn).FindByUserID(ctx, user.ID)
}

// FollowedQuestions returns the questions the user follows.
func (s *UserStore) FollowedQuestions(ctx context.Context, user *models.User) ([]*models.Question, error) {
	return NewQuestionFollowStore(s.conn).FollowedQuestionsForUserID(ctx, user.ID)
}

// AverageKarma returns the average number of likes per question the user authored.
// A user without questions has karma 0.
func (s *UserStore) AverageKarma(ctx context.Context, user *models.User) (float64, error) {
	const query = `
		SELECT
			COUNT(question_likes.question_id) / CAST(COUNT(DISTINCT questions.id) AS FLOAT) AS average_karma
		FROM questions
		LEFT OUTER JOIN question_likes ON questions.id = question_likes.question_id
		WHERE questions.author_id = ?
		GROUP BY questions.author_id
	`

	var karma sql.NullFloat64
	err := s.conn.QueryRowContext(ctx, query, user.ID).Scan(&karma)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return karma.Float64, nil
}

// AverageKarmaByAuthor returns the average karma of every user who authored
// at least one question, highest first.
func (s *UserStore) AverageKarmaByAuthor(ctx context.Context) ([]*models.AuthorKarma, error) {
	const query = `
		SELECT
			questions.author_id,
			COUNT(question_likes.question_id) / CAST(COUNT(DISTINCT questions.id) AS FLOAT) AS average_karma
		FROM questions
		LEFT OUTER JOIN question_likes ON questions.id = question_likes.question_id
		GROUP BY questions.author_id
		ORDER BY average_karma DESC, questions.author_id ASC
	`

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.AuthorKarma
	for rows.Next() {
		var k models.AuthorKarma
		if err := rows.Scan(&k.AuthorID, &k.AverageKarma); err != nil {
			return nil, err
		}
		results = append(results, &k)
	}
	return results, rows.Err()
}

// scanUser scans a single user from a row.
func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.FName, &u.LName); err != nil {
		return nil, err
	}
	return &u, nil
}

// scanUserRows scans multiple users from rows.
func scanUserRows(rows *sql.Rows) ([]*models.User, error) {
	var users []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.FName, &u.LName); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}
