package archive

// Post types as recorded by the scraper.
const (
	TypePost      = "post"
	TypeTagged    = "tagged"
	TypeStory     = "story"
	TypeHighlight = "highlight"
)

// Connection types as recorded by the scraper.
const (
	ConnTagged    = "tagged_by_other_user"
	ConnMentioned = "mentioned_by_user"
	ConnCommented = "commented_post_by_user"
)

// Account is one archived profile. Username is the identity; accounts are
// never mutated by this tool.
type Account struct {
	Username  string
	FullName  string
	Biography string
	Category  string
	IsPrivate bool
}

// Post is one archived post row joined with its metadata. Path is the
// primary key and also resolves to the on-disk media files. Timestamp
// (epoch seconds) is the authoritative ordering key. Year is 0 and Dir is
// empty when the metadata column is null; which of the two is meaningful
// depends on Type.
type Post struct {
	Path         string
	Shortcode    string
	Type         string
	Timestamp    int64
	Caption      string
	LikeCount    int64
	CommentCount int64
	Username     string
	Year         int
	Dir          string
}

// Connections holds the related usernames for a batch of posts, keyed by
// shortcode. Per-shortcode order is the store's return order and carries no
// meaning.
type Connections struct {
	Tagged    map[string][]string
	Mentioned map[string][]string
	Commented map[string][]string
}

// NewConnections returns an empty Connections with all three maps allocated.
func NewConnections() *Connections {
	return &Connections{
		Tagged:    make(map[string][]string),
		Mentioned: make(map[string][]string),
		Commented: make(map[string][]string),
	}
}

// AnnotatedPost is a Post enriched for rendering: resolved media files,
// related usernames, and a preformatted display date. Built fresh per run,
// never persisted.
type AnnotatedPost struct {
	Post
	Media          []string
	TaggedUsers    []string
	MentionedUsers []string
	CommentedUsers []string
	Date           string
}
