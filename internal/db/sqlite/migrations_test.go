package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMigrationManager(t *testing.T) {
	db, _, cleanup := testDB(t)
	defer cleanup()

	manager := NewMigrationManager(db)
	require.NotNil(t, manager)
	assert.Equal(t, db, manager.db)
}

func TestMigrationManager_EnsureSchemaVersionsTable(t *testing.T) {
	db, _, cleanup := testDB(t)
	defer cleanup()

	manager := NewMigrationManager(db)

	err := manager.EnsureSchemaVersionsTable()
	require.NoError(t, err)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM schema_versions").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// IF NOT EXISTS makes a second call a no-op
	err = manager.EnsureSchemaVersionsTable()
	require.NoError(t, err)
}

func TestMigrationManager_ApplyMigration_InvalidSQL(t *testing.T) {
	db, _, cleanup := testDB(t)
	defer cleanup()

	manager := NewMigrationManager(db)
	require.NoError(t, manager.EnsureSchemaVersionsTable())

	err := manager.ApplyMigration(Migration{
		Version: 100,
		Name:    "invalid_migration",
		SQL:     "INVALID SQL SYNTAX",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute migration 100")

	versions, err := manager.GetAppliedVersions()
	require.NoError(t, err)
	assert.False(t, versions[100])
}

func TestMigrationManager_RunMigrations_CreatesSchema(t *testing.T) {
	db, _, cleanup := testDB(t)
	defer cleanup()

	manager := NewMigrationManager(db)
	require.NoError(t, manager.RunMigrations())

	for _, table := range []string{"users", "questions", "replies", "question_likes", "question_follows"} {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s should exist", table)
	}

	versions, err := manager.GetAppliedVersions()
	require.NoError(t, err)
	assert.Len(t, versions, len(Migrations))
}

func TestMigrationManager_RunMigrations_Idempotent(t *testing.T) {
	db, _, cleanup := testDB(t)
	defer cleanup()

	manager := NewMigrationManager(db)
	require.NoError(t, manager.RunMigrations())
	require.NoError(t, manager.RunMigrations())

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM schema_versions").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(Migrations), count)
}

func TestMigrations_List(t *testing.T) {
	require.NotEmpty(t, Migrations)

	prev := 0
	for i, m := range Migrations {
		assert.Greater(t, m.Version, prev, "Migration %d is out of order", i)
		assert.NotEmpty(t, m.Name, "Migration %d has empty name", i)
		assert.NotEmpty(t, m.SQL, "Migration %d has empty SQL", i)
		prev = m.Version
	}
}
