package testutil

import (
	"database/sql"
	"testing"

	"igpages/internal/archive"
	"igpages/internal/database"
	"igpages/internal/database/migrations"
)

// NewTestDB creates a new in-memory SQLite database with the archive schema
// applied. The connection is automatically closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// NewTestStore creates an in-memory archive store plus the raw connection
// for seeding fixtures.
func NewTestStore(t *testing.T) (*database.SQLiteStore, *sql.DB) {
	t.Helper()
	db := NewTestDB(t)
	return database.NewSQLiteStoreFromDB(db), db
}

// SeedAccount inserts an account row.
func SeedAccount(t *testing.T, db *sql.DB, a archive.Account) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO accounts (username, full_name, biography, category, is_private)
		VALUES (?, ?, ?, ?, ?)`,
		a.Username, a.FullName, a.Biography, a.Category, a.IsPrivate)
	if err != nil {
		t.Fatalf("seeding account %s: %v", a.Username, err)
	}
}

// SeedPost inserts a post row and its metadata row. Year 0 and empty Dir
// are stored as NULL, matching what the scraper writes.
func SeedPost(t *testing.T, db *sql.DB, p archive.Post) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO posts (path, shortcode, type, timestamp, caption, like_count, comment_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Path, p.Shortcode, p.Type, p.Timestamp, p.Caption, p.LikeCount, p.CommentCount)
	if err != nil {
		t.Fatalf("seeding post %s: %v", p.Path, err)
	}

	var year any
	if p.Year != 0 {
		year = p.Year
	}
	var dir any
	if p.Dir != "" {
		dir = p.Dir
	}
	_, err = db.Exec(`
		INSERT INTO post_metadata (path, username, year, dir)
		VALUES (?, ?, ?, ?)`,
		p.Path, p.Username, year, dir)
	if err != nil {
		t.Fatalf("seeding metadata for %s: %v", p.Path, err)
	}
}

// SeedOrphanPost inserts a post row with no metadata row, for
// integrity-fault tests.
func SeedOrphanPost(t *testing.T, db *sql.DB, p archive.Post) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO posts (path, shortcode, type, timestamp, caption, like_count, comment_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Path, p.Shortcode, p.Type, p.Timestamp, p.Caption, p.LikeCount, p.CommentCount)
	if err != nil {
		t.Fatalf("seeding orphan post %s: %v", p.Path, err)
	}
}

// SeedConnection inserts a connection row.
func SeedConnection(t *testing.T, db *sql.DB, shortcode, username, connType string) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO connections (shortcode, username, type)
		VALUES (?, ?, ?)`, shortcode, username, connType)
	if err != nil {
		t.Fatalf("seeding connection %s/%s: %v", shortcode, username, err)
	}
}
