package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Migration represents a database schema migration.
type Migration struct {
	Name    string
	SQL     string
	Version int
}

// Migrations is the list of all database migrations in order.
var Migrations = []Migration{
	{
		Version: 1,
		Name:    "questions_schema",
		SQL: `
			CREATE TABLE IF NOT EXISTS users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				fname TEXT NOT NULL,
				lname TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS questions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				title TEXT NOT NULL,
				body TEXT NOT NULL,
				author_id INTEGER NOT NULL,
				FOREIGN KEY(author_id) REFERENCES users(id)
			);

			CREATE TABLE IF NOT EXISTS replies (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				subject_id INTEGER NOT NULL,
				parent_reply_id INTEGER,
				user_id INTEGER NOT NULL,
				body TEXT NOT NULL,
				FOREIGN KEY(subject_id) REFERENCES questions(id),
				FOREIGN KEY(parent_reply_id) REFERENCES replies(id),
				FOREIGN KEY(user_id) REFERENCES users(id)
			);

			CREATE TABLE IF NOT EXISTS question_likes (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER NOT NULL,
				question_id INTEGER NOT NULL,
				FOREIGN KEY(user_id) REFERENCES users(id),
				FOREIGN KEY(question_id) REFERENCES questions(id)
			);

			CREATE TABLE IF NOT EXISTS question_follows (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER NOT NULL,
				question_id INTEGER NOT NULL,
				FOREIGN KEY(user_id) REFERENCES users(id),
				FOREIGN KEY(question_id) REFERENCES questions(id)
			);
		`,
	},
	{
		Version: 2,
		Name:    "foreign_key_indexes",
		SQL: `
			CREATE INDEX IF NOT EXISTS idx_users_name ON users(fname, lname);
			CREATE INDEX IF NOT EXISTS idx_questions_author ON questions(author_id);
			CREATE INDEX IF NOT EXISTS idx_replies_subject ON replies(subject_id);
			CREATE INDEX IF NOT EXISTS idx_replies_parent ON replies(parent_reply_id);
			CREATE INDEX IF NOT EXISTS idx_replies_user ON replies(user_id);
			CREATE INDEX IF NOT EXISTS idx_question_likes_user ON question_likes(user_id);
			CREATE INDEX IF NOT EXISTS idx_question_likes_question ON question_likes(question_id);
			CREATE INDEX IF NOT EXISTS idx_question_follows_user ON question_follows(user_id);
			CREATE INDEX IF NOT EXISTS idx_question_follows_question ON question_follows(question_id);
		`,
	},
}

// MigrationManager brings a database up to the current forum schema.
// Applied versions are recorded in schema_versions.
type MigrationManager struct {
	db *sql.DB
}

// NewMigrationManager creates a migration manager for db.
func NewMigrationManager(db *sql.DB) *MigrationManager {
	return &MigrationManager{db: db}
}

// EnsureSchemaVersionsTable creates schema_versions when it is missing.
func (m *MigrationManager) EnsureSchemaVersionsTable() error {
	const query = `
		CREATE TABLE IF NOT EXISTS schema_versions (
			id INTEGER PRIMARY KEY,
			version INTEGER UNIQUE NOT NULL,
			applied_at TEXT NOT NULL
		)
	`
	_, err := m.db.Exec(query)
	return err
}

// GetAppliedVersions returns the set of versions already recorded.
func (m *MigrationManager) GetAppliedVersions() (map[int]bool, error) {
	rows, err := m.db.Query(`SELECT version FROM schema_versions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// ApplyMigration runs one migration and records its version in the same
// transaction, so a failed migration leaves no trace.
func (m *MigrationManager) ApplyMigration(migration Migration) error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", migration.Version, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(migration.SQL); err != nil {
		return fmt.Errorf("execute migration %d (%s): %w", migration.Version, migration.Name, err)
	}

	const record = `INSERT INTO schema_versions (version, applied_at) VALUES (?, ?)`
	if _, err := tx.Exec(record, migration.Version, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("record migration %d: %w", migration.Version, err)
	}
	return tx.Commit()
}

// RunMigrations applies every migration not yet recorded, in version order.
func (m *MigrationManager) RunMigrations() error {
	if err := m.EnsureSchemaVersionsTable(); err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	applied, err := m.GetAppliedVersions()
	if err != nil {
		return fmt.Errorf("read schema_versions: %w", err)
	}

	pending := 0
	for _, migration := range Migrations {
		if applied[migration.Version] {
			continue
		}
		if err := m.ApplyMigration(migration); err != nil {
			return err
		}
		pending++
		log.Debug().Int("version", migration.Version).Str("name", migration.Name).Msg("Applied forum schema migration")
	}

	if pending == 0 {
		log.Debug().Int("version", Migrations[len(Migrations)-1].Version).Msg("Forum schema up to date")
	}
	return nil
}
