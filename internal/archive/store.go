package archive

// Store is the read-only query surface over the archive database.
// Any Store error is fatal for the whole run: output rendered against an
// inconsistent store is worthless, so there is no degraded mode.
type Store interface {
	// ListAccounts returns all archived accounts, deduplicated by username.
	ListAccounts() ([]Account, error)

	// LoadProfile returns the account with the exact username, or nil if
	// no such account exists.
	LoadProfile(username string) (*Account, error)

	// CountsByType returns per-account post counts keyed by username then
	// post type. Used only for the index page.
	CountsByType() (map[string]map[string]int, error)

	// PostsForAccount returns the account's posts of the given type, joined
	// with their metadata, newest first.
	PostsForAccount(username, postType string) ([]Post, error)

	// RecentPosts returns posts across all accounts with timestamp >= since,
	// newest first.
	RecentPosts(since int64) ([]Post, error)

	// Connections resolves all recorded relationships for the given
	// shortcodes in a single batched lookup. An empty input returns empty
	// maps without querying.
	Connections(shortcodes []string) (*Connections, error)

	// Close closes the underlying database connection.
	Close() error
}
