package sqlite

import (
	"context"
	"database/sql"

	"github.com/thebtf/questions/internal/db"
	"github.com/thebtf/questions/pkg/models"
)

const replyColumns = `replies.id, replies.subject_id, replies.parent_reply_id, replies.user_id, replies.body`

// ReplyStore provides reply-related database operations.
type ReplyStore struct {
	conn db.Connection
}

// NewReplyStore creates a new reply store.
func NewReplyStore(conn db.Connection) *ReplyStore {
	return &ReplyStore{conn: conn}
}

// All returns every reply.
func (s *ReplyStore) All(ctx context.Context) ([]*models.Reply, error) {
	const query = `SELECT ` + replyColumns + ` FROM replies`

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReplyRows(rows)
}

// FindByID retrieves a reply by ID. Returns nil if no reply has that ID.
func (s *ReplyStore) FindByID(ctx context.Context, id int64) (*models.Reply, error) {
	const query = `SELECT ` + replyColumns + ` FROM replies WHERE id = ?`

	r, err := scanReply(s.conn.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

// FindBySubjectID retrieves every reply to a question, nested ones included.
func (s *ReplyStore) FindBySubjectID(ctx context.Context, subjectID int64) ([]*models.Reply, error) {
	const query = `SELECT ` + replyColumns + ` FROM replies WHERE subject_id = ?`
	return s.queryReplies(ctx, query, subjectID)
}

// FindByParentReplyID retrieves the direct children of a reply.
func (s *ReplyStore) FindByParentReplyID(ctx context.Context, parentReplyID int64) ([]*models.Reply, error) {
	const query = `SELECT ` + replyColumns + ` FROM replies WHERE parent_reply_id = ?`
	return s.queryReplies(ctx, query, parentReplyID)
}

// FindByUserID retrieves the replies written by a user.
func (s *ReplyStore) FindByUserID(ctx context.Context, userID int64) ([]*models.Reply, error) {
	const query = `SELECT ` + replyColumns + ` FROM replies WHERE user_id = ?`
	return s.queryReplies(ctx, query, userID)
}

// FindByKeywordInBody retrieves replies whose body contains keyword.
func (s *ReplyStore) FindByKeywordInBody(ctx context.Context, keyword string) ([]*models.Reply, error) {
	const query = `SELECT ` + replyColumns + ` FROM replies WHERE body LIKE :key`
	return s.queryReplies(ctx, query, sql.Named("key", likePattern(keyword)))
}

// Save inserts the reply when it has no ID and records the generated ID,
// otherwise it updates the existing row. A nil ParentReplyID is stored as NULL.
func (s *ReplyStore) Save(ctx context.Context, r *models.Reply) error {
	if r.IsPersisted() {
		const query = `
			UPDATE replies
			SET subject_id = ?, parent_reply_id = ?, user_id = ?, body = ?
			WHERE id = ?
		`
		_, err := s.conn.ExecContext(ctx, query, r.SubjectID, int64PtrNull(r.ParentReplyID), r.UserID, r.Body, r.ID)
		return err
	}

	const query = `
		INSERT INTO replies (subject_id, parent_reply_id, user_id, body)
		VALUES (?, ?, ?, ?)
	`
	result, err := s.conn.ExecContext(ctx, query, r.SubjectID, int64PtrNull(r.ParentReplyID), r.UserID, r.Body)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

// Author returns the reply's author.
func (s *ReplyStore) Author(ctx context.Context, r *models.Reply) (*models.User, error) {
	return NewUserStore(s.conn).FindByID(ctx, r.UserID)
}

// Question returns the question the reply belongs to.
func (s *ReplyStore) Question(ctx context.Context, r *models.Reply) (*models.Question, error) {
	return NewQuestionStore(s.conn).FindByID(ctx, r.SubjectID)
}

// ParentReply returns the reply this one answers.
// Top-level replies return nil without touching the database.
func (s *ReplyStore) ParentReply(ctx context.Context, r *models.Reply) (*models.Reply, error) {
	if r.IsTopLevel() {
		return nil, nil
	}
	return s.FindByID(ctx, *r.ParentReplyID)
}

// ChildReplies returns the direct answers to this reply.
func (s *ReplyStore) ChildReplies(ctx context.Context, r *models.Reply) ([]*models.Reply, error) {
	return s.FindByParentReplyID(ctx, r.ID)
}

func (s *ReplyStore) queryReplies(ctx context.Context, query string, args ...any) ([]*models.Reply, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReplyRows(rows)
}

func scanReply(row *sql.Row) (*models.Reply, error) {
	var r models.Reply
	var parentID sql.NullInt64
	if err := row.Scan(&r.ID, &r.SubjectID, &parentID, &r.UserID, &r.Body); err != nil {
		return nil, err
	}
	r.ParentReplyID = nullInt64Ptr(parentID)
	return &r, nil
}

func scanReplyRows(rows *sql.Rows) ([]*models.Reply, error) {
	var replies []*models.Reply
	for rows.Next() {
		var r models.Reply
		var parentID sql.NullInt64
		if err := rows.Scan(&r.ID, &r.SubjectID, &parentID, &r.UserID, &r.Body); err != nil {
			return nil, err
		}
		r.ParentReplyID = nullInt64Ptr(parentID)
		replies = append(replies, &r)
	}
	return replies, rows.Err()
}
