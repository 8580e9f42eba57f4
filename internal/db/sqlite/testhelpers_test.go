package sqlite

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/thebtf/questions/pkg/models"
)

// testDB creates a temporary SQLite database for testing.
// Returns the database, path, and a cleanup function.
func testDB(t *testing.T) (*sql.DB, string, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "questions-test-*")
	if err != nil {
		t.Fatalf("create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := sql.Open("sqlite", buildDSN(dbPath, StoreConfig{}))
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		t.Fatalf("open database: %v", err)
	}
	db.SetMaxOpenConns(1)

	cleanup := func() {
		_ = db.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return db, dbPath, cleanup
}

// testStore opens a migrated store in a temp dir that is removed after the test.
func testStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(StoreConfig{Path: filepath.Join(t.TempDir(), "questions.db")})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// seedForum loads a small forum with fixed ids:
//
//	users:     1 Ned Ruggeri, 2 Kush Patel, 3 Earl Cat, 4 and 5 both Alice Smith
//	questions: 10 "How to bake bread" (1), 11 "Why is the sky blue" (1), 12 "What is SQL" (2)
//	replies:   5 on 10 by 2, 6 on 10 under 5 by 1, 7 on 12 by 3
//	likes:     10 by 1 and 2, 11 by 3
//	follows:   12 by 1, 2 and 3, 10 by 1
func seedForum(t *testing.T, store *Store) {
	t.Helper()

	stmts := []string{
		`INSERT INTO users (id, fname, lname) VALUES
			(1, 'Ned', 'Ruggeri'), (2, 'Kush', 'Patel'), (3, 'Earl', 'Cat'),
			(4, 'Alice', 'Smith'), (5, 'Alice', 'Smith')`,
		`INSERT INTO questions (id, title, body, author_id) VALUES
			(10, 'How to bake bread', 'Mine never rises.', 1),
			(11, 'Why is the sky blue', 'Asking for a friend.', 1),
			(12, 'What is SQL', 'And why do people say sequel?', 2)`,
		`INSERT INTO replies (id, subject_id, parent_reply_id, user_id, body) VALUES
			(5, 10, NULL, 2, 'Use more yeast'),
			(6, 10, 5, 1, 'How much yeast?'),
			(7, 12, NULL, 3, 'Structured Query Language')`,
		`INSERT INTO question_likes (user_id, question_id) VALUES (1, 10), (2, 10), (3, 11)`,
		`INSERT INTO question_follows (user_id, question_id) VALUES (1, 12), (2, 12), (3, 12), (1, 10)`,
	}
	for _, stmt := range stmts {
		if _, err := store.DB().Exec(stmt); err != nil {
			t.Fatalf("seed forum: %v", err)
		}
	}
}

func userIDs(users []*models.User) []int64 {
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

func questionIDs(questions []*models.Question) []int64 {
	ids := make([]int64, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	return ids
}

func replyIDs(replies []*models.Reply) []int64 {
	ids := make([]int64, 0, len(replies))
	for _, r := range replies {
		ids = append(ids, r.ID)
	}
	return ids
}
