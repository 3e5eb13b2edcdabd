package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"igpages/internal/archive"
	"igpages/internal/database/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements the archive.Store interface over the scraper's
// SQLite database. All access is read-only.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens the archive database at path.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// NewSQLiteStoreFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteStoreFromDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// OpenConnection opens and configures a SQLite connection with appropriate
// PRAGMAs. Exported for tools and tests that need a configured connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// ListAccounts returns all archived accounts, deduplicated by username.
func (s *SQLiteStore) ListAccounts() ([]archive.Account, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT username, full_name, biography, category, is_private
		FROM accounts
		ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []archive.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}
	return accounts, nil
}

// LoadProfile returns the account with the exact username, or nil if absent.
func (s *SQLiteStore) LoadProfile(username string) (*archive.Account, error) {
	row := s.db.QueryRow(`
		SELECT username, full_name, biography, category, is_private
		FROM accounts
		WHERE username = ?`, username)

	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("loading profile %s: %w", username, err)
	}
	return &a, nil
}

// CountsByType returns per-account post counts keyed by username then post
// type. The query orders by count descending, then username, then type, so
// ties break deterministically.
func (s *SQLiteStore) CountsByType() (map[string]map[string]int, error) {
	rows, err := s.db.Query(`
		SELECT m.username, p.type, COUNT(*) AS count
		FROM posts p
		JOIN post_metadata m ON p.path = m.path
		GROUP BY m.username, p.type
		ORDER BY count DESC, m.username, p.type`)
	if err != nil {
		return nil, fmt.Errorf("counting posts by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]map[string]int)
	for rows.Next() {
		var username, postType string
		var count int
		if err := rows.Scan(&username, &postType, &count); err != nil {
			return nil, fmt.Errorf("scanning count row: %w", err)
		}
		if counts[username] == nil {
			counts[username] = make(map[string]int)
		}
		counts[username][postType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating count rows: %w", err)
	}
	return counts, nil
}

const postColumns = `p.path, p.shortcode, p.type, p.timestamp, p.caption,
	p.like_count, p.comment_count, m.username, m.year, m.dir`

// PostsForAccount returns the account's posts of the given type joined with
// their metadata, newest first. A post without a metadata row never appears:
// the join requires one.
func (s *SQLiteStore) PostsForAccount(username, postType string) ([]archive.Post, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT `+postColumns+`
		FROM posts p
		JOIN post_metadata m ON p.path = m.path
		WHERE m.username = ? AND p.type = ?
		ORDER BY p.timestamp DESC, p.path`, username, postType)
	if err != nil {
		return nil, fmt.Errorf("loading posts for %s: %w", username, err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// RecentPosts returns posts across all accounts with timestamp >= since,
// newest first.
func (s *SQLiteStore) RecentPosts(since int64) ([]archive.Post, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT `+postColumns+`
		FROM posts p
		JOIN post_metadata m ON p.path = m.path
		WHERE p.timestamp >= ?
		ORDER BY p.timestamp DESC, p.path`, since)
	if err != nil {
		return nil, fmt.Errorf("loading recent posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// Connections resolves all recorded relationships for the given shortcodes
// in one batched IN query, fanned out by connection type. An empty input
// returns empty maps without touching the database.
func (s *SQLiteStore) Connections(shortcodes []string) (*archive.Connections, error) {
	conns := archive.NewConnections()
	if len(shortcodes) == 0 {
		return conns, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(shortcodes)), ",")
	args := make([]any, len(shortcodes))
	for i, sc := range shortcodes {
		args[i] = sc
	}

	rows, err := s.db.Query(`
		SELECT DISTINCT shortcode, username, type
		FROM connections
		WHERE shortcode IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("loading connections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var shortcode, username, connType string
		if err := rows.Scan(&shortcode, &username, &connType); err != nil {
			return nil, fmt.Errorf("scanning connection row: %w", err)
		}
		switch connType {
		case archive.ConnTagged:
			conns.Tagged[shortcode] = append(conns.Tagged[shortcode], username)
		case archive.ConnMentioned:
			conns.Mentioned[shortcode] = append(conns.Mentioned[shortcode], username)
		case archive.ConnCommented:
			conns.Commented[shortcode] = append(conns.Commented[shortcode], username)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating connection rows: %w", err)
	}
	return conns, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(sc scanner) (archive.Account, error) {
	var a archive.Account
	var fullName, biography, category sql.NullString
	if err := sc.Scan(&a.Username, &fullName, &biography, &category, &a.IsPrivate); err != nil {
		return archive.Account{}, err
	}
	a.FullName = fullName.String
	a.Biography = biography.String
	a.Category = category.String
	return a, nil
}

func collectPosts(rows *sql.Rows) ([]archive.Post, error) {
	var posts []archive.Post
	for rows.Next() {
		var p archive.Post
		var shortcode, caption, dir sql.NullString
		var likes, comments, year sql.NullInt64
		err := rows.Scan(&p.Path, &shortcode, &p.Type, &p.Timestamp, &caption,
			&likes, &comments, &p.Username, &year, &dir)
		if err != nil {
			return nil, fmt.Errorf("scanning post row: %w", err)
		}
		p.Shortcode = shortcode.String
		p.Caption = caption.String
		p.LikeCount = likes.Int64
		p.CommentCount = comments.Int64
		p.Year = int(year.Int64)
		p.Dir = dir.String
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating post rows: %w", err)
	}
	return posts, nil
}

// Path returns the database file path (or ":memory:" for in-memory stores).
func (s *SQLiteStore) Path() string {
	return s.path
}

// CheckMigrations verifies the archive schema is up-to-date.
func (s *SQLiteStore) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteStore implements archive.Store
var _ archive.Store = (*SQLiteStore)(nil)
