package archive

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// defaultFeedMonths is the time window of the cross-account monthly feed.
const defaultFeedMonths = 36

// Options holds the site-level settings for a build.
type Options struct {
	// DataDir is the root of the scraped archive tree (media, profile pics).
	DataDir string
	// OutputDir is the root of the generated site.
	OutputDir string
	// StaticDir holds the stylesheets staged into {out}/static/css.
	StaticDir string
	// ExcludeAccounts are usernames left out of the build entirely.
	ExcludeAccounts []string
	// FeedMonths is the feed window in months (~30 days each).
	FeedMonths int
}

// RunSummary aggregates what a build did, for the final log line.
type RunSummary struct {
	Accounts     int
	PagesWritten int
	PagesSkipped int
	PostsSkipped int
	FeedMonths   int
}

// Service is the page assembler: it walks the archive store account by
// account and renders the full static site. Store faults abort the run;
// everything else (missing templates, missing media, failed page writes)
// is logged and skipped so the build always completes best-effort.
type Service struct {
	store    Store
	fs       Filesystem
	media    *MediaLocator
	renderer Renderer
	logger   Logger
	clock    Clock
	opts     Options
	excluded map[string]bool
}

// NewService creates a Service with the provided dependencies.
func NewService(store Store, fs Filesystem, renderer Renderer, logger Logger, clock Clock, opts Options) *Service {
	if opts.FeedMonths <= 0 {
		opts.FeedMonths = defaultFeedMonths
	}
	excluded := make(map[string]bool, len(opts.ExcludeAccounts))
	for _, name := range opts.ExcludeAccounts {
		excluded[name] = true
	}
	return &Service{
		store:    store,
		fs:       fs,
		media:    NewMediaLocator(fs),
		renderer: renderer,
		logger:   logger,
		clock:    clock,
		opts:     opts,
		excluded: excluded,
	}
}

// BuildSite renders the entire site: one pass per account, then the
// cross-account monthly feed and the index, which depend on aggregated
// state and therefore come last. Re-running against unchanged input
// produces an identical output tree.
func (s *Service) BuildSite() (*RunSummary, error) {
	sum := &RunSummary{}

	if err := s.fs.MkdirAll(s.opts.OutputDir); err != nil {
		return nil, fmt.Errorf("creating output root: %w", err)
	}

	accounts, err := s.store.ListAccounts()
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	accounts = s.filterAccounts(accounts)

	for _, acct := range accounts {
		if err := s.buildAccount(acct, sum); err != nil {
			return nil, fmt.Errorf("account %s: %w", acct.Username, err)
		}
		sum.Accounts++
	}

	feedByMonth, months, err := s.loadFeed()
	if err != nil {
		return nil, err
	}
	sum.FeedMonths = len(months)
	s.buildFeedPages(feedByMonth, months, sum)

	counts, err := s.store.CountsByType()
	if err != nil {
		return nil, fmt.Errorf("loading post counts: %w", err)
	}
	s.buildIndexPage(accounts, counts, months, sum)

	s.copyStatic(sum)

	s.logger.Info("build complete",
		"accounts", sum.Accounts,
		"pages_written", sum.PagesWritten,
		"pages_skipped", sum.PagesSkipped,
		"posts_skipped", sum.PostsSkipped,
		"feed_months", sum.FeedMonths,
	)
	return sum, nil
}

// filterAccounts drops excluded usernames and orders the remainder
// case-insensitively, the order they appear on the index page.
func (s *Service) filterAccounts(accounts []Account) []Account {
	kept := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		if s.excluded[a.Username] {
			s.logger.Debug("account excluded", "account", a.Username)
			continue
		}
		kept = append(kept, a)
	}
	sort.Slice(kept, func(i, j int) bool {
		return strings.ToLower(kept[i].Username) < strings.ToLower(kept[j].Username)
	})
	return kept
}

// buildAccount renders everything for one account: per-year post pages,
// per-year tagged pages, per-directory highlight pages, and the account
// summary. The summary is rendered even for an account with zero posts.
// Only store faults are returned; all other failures skip pages and
// continue.
func (s *Service) buildAccount(acct Account, sum *RunSummary) error {
	profile, err := s.store.LoadProfile(acct.Username)
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}
	if profile == nil {
		profile = &acct
	}

	posts, err := s.loadAnnotated(acct.Username, TypePost)
	if err != nil {
		return err
	}
	tagged, err := s.loadAnnotated(acct.Username, TypeTagged)
	if err != nil {
		return err
	}
	stories, err := s.loadAnnotated(acct.Username, TypeStory)
	if err != nil {
		return err
	}
	highlights, err := s.loadAnnotated(acct.Username, TypeHighlight)
	if err != nil {
		return err
	}

	postsByYear := s.groupYears(acct.Username, TypePost, posts, sum)
	taggedByYear := s.groupYears(acct.Username, TypeTagged, tagged, sum)
	storiesByYear := s.groupYears(acct.Username, TypeStory, stories, sum)
	highlightsByDir, skipped := GroupByDir(highlights)
	if skipped > 0 {
		s.logger.Warn("posts without highlight directory skipped",
			"account", acct.Username, "count", skipped)
		sum.PostsSkipped += skipped
	}

	accountDir := filepath.Join(s.opts.OutputDir, acct.Username)
	if err := s.fs.MkdirAll(accountDir); err != nil {
		s.logger.Error("creating account directory", "account", acct.Username, "error", err)
		return nil
	}

	years := YearKeys(postsByYear)
	for _, year := range years {
		s.renderPage(KindYear, map[string]any{
			"Year":        year,
			"Posts":       postsByYear[year],
			"AllYears":    years,
			"AccountName": acct.Username,
			"IsTagged":    false,
			"CSSPath":     "../static/css/styles.css",
		}, filepath.Join(accountDir, fmt.Sprintf("%d.html", year)), sum)
	}

	taggedYears := YearKeys(taggedByYear)
	for _, year := range taggedYears {
		s.renderPage(KindYearTagged, map[string]any{
			"Year":        year,
			"Posts":       taggedByYear[year],
			"AllYears":    taggedYears,
			"AccountName": acct.Username,
			"IsTagged":    true,
			"CSSPath":     "../static/css/styles.css",
		}, filepath.Join(accountDir, fmt.Sprintf("%d_tagged.html", year)), sum)
	}

	dirs := DirKeys(highlightsByDir)
	for _, dir := range dirs {
		s.renderPage(KindHighlight, map[string]any{
			"Dir":         dir,
			"Posts":       highlightsByDir[dir],
			"AllDirs":     dirs,
			"AccountName": acct.Username,
			"IsHighlight": true,
			"CSSPath":     "../static/css/styles.css",
		}, filepath.Join(accountDir, fmt.Sprintf("%s_highlight.html", dir)), sum)
	}

	profileImage := s.media.FindProfileImage(filepath.Join(s.opts.DataDir, acct.Username))
	if profileImage == "" {
		s.logger.Debug("no profile picture found", "account", acct.Username)
	}
	s.renderPage(KindAccount, map[string]any{
		"AccountName":   acct.Username,
		"Profile":       profile,
		"ProfileImage":  profileImage,
		"AllYears":      years,
		"TaggedYears":   taggedYears,
		"HighlightDirs": dirs,
		"StoryYears":    YearKeys(storiesByYear),
		"CSSPath":       "../static/css/styles.css",
	}, filepath.Join(accountDir, "index.html"), sum)

	s.logger.Info("account built",
		"account", acct.Username,
		"posts", len(posts),
		"years", len(years),
		"tagged_years", len(taggedYears),
		"highlights", len(dirs),
	)
	return nil
}

// groupYears buckets annotated posts by year and logs any posts dropped
// for missing metadata years.
func (s *Service) groupYears(username, postType string, posts []AnnotatedPost, sum *RunSummary) map[int][]AnnotatedPost {
	buckets, skipped := GroupByYear(posts)
	if skipped > 0 {
		s.logger.Warn("posts without metadata year skipped",
			"account", username, "type", postType, "count", skipped)
		sum.PostsSkipped += skipped
	}
	return buckets
}

// loadAnnotated fetches one account's posts of a type and annotates them
// with connections, media files, and display dates. Connection resolution
// is one batched lookup per call, never one per post.
func (s *Service) loadAnnotated(username, postType string) ([]AnnotatedPost, error) {
	posts, err := s.store.PostsForAccount(username, postType)
	if err != nil {
		return nil, fmt.Errorf("loading %s posts: %w", postType, err)
	}
	return s.annotate(posts)
}

func (s *Service) annotate(posts []Post) ([]AnnotatedPost, error) {
	shortcodes := make([]string, 0, len(posts))
	for _, p := range posts {
		shortcodes = append(shortcodes, p.Shortcode)
	}
	conns, err := s.store.Connections(shortcodes)
	if err != nil {
		return nil, fmt.Errorf("resolving connections: %w", err)
	}

	annotated := make([]AnnotatedPost, 0, len(posts))
	for _, p := range posts {
		annotated = append(annotated, AnnotatedPost{
			Post:           p,
			Media:          s.media.Locate(p.Path),
			TaggedUsers:    conns.Tagged[p.Shortcode],
			MentionedUsers: conns.Mentioned[p.Shortcode],
			CommentedUsers: conns.Commented[p.Shortcode],
			Date:           time.Unix(p.Timestamp, 0).UTC().Format("2006-01-02"),
		})
	}
	return annotated, nil
}

// loadFeed loads the time-windowed cross-account slice and buckets it by
// absolute month. The window is FeedMonths * 30 days back from now.
func (s *Service) loadFeed() (map[string][]AnnotatedPost, []string, error) {
	since := s.clock.Now().AddDate(0, 0, -s.opts.FeedMonths*30).Unix()
	posts, err := s.store.RecentPosts(since)
	if err != nil {
		return nil, nil, fmt.Errorf("loading recent posts: %w", err)
	}
	annotated, err := s.annotate(posts)
	if err != nil {
		return nil, nil, err
	}
	byMonth, months := GroupByMonth(annotated)
	return byMonth, months, nil
}

// buildFeedPages renders one page per feed month, each carrying prev/next
// links to its positional neighbors in the descending month sequence.
func (s *Service) buildFeedPages(byMonth map[string][]AnnotatedPost, months []string, sum *RunSummary) {
	for i, key := range months {
		year, month, ok := strings.Cut(key, "/")
		if !ok {
			continue
		}
		prev, next := MonthNav(months, i)

		dir := filepath.Join(s.opts.OutputDir, "feed", year)
		if err := s.fs.MkdirAll(dir); err != nil {
			s.logger.Error("creating feed directory", "month", key, "error", err)
			sum.PagesSkipped++
			continue
		}
		s.renderPage(KindFeedMonth, map[string]any{
			"Posts":     byMonth[key],
			"Year":      year,
			"Month":     month,
			"PrevKey":   prev,
			"NextKey":   next,
			"AllMonths": months,
			"CSSPath":   "../../static/css/styles.css",
		}, filepath.Join(dir, month+".html"), sum)
	}
}

// buildIndexPage renders the cross-account index: every account with its
// per-type post counts, plus the available feed months.
func (s *Service) buildIndexPage(accounts []Account, counts map[string]map[string]int, months []string, sum *RunSummary) {
	s.renderPage(KindIndex, map[string]any{
		"Accounts":  accounts,
		"Counts":    counts,
		"AllMonths": months,
		"CSSPath":   "static/css/styles.css",
	}, filepath.Join(s.opts.OutputDir, "index.html"), sum)
}

// renderPage renders one document and writes it to outPath. A missing
// template or a failed write skips this page only; the build continues.
func (s *Service) renderPage(kind string, data map[string]any, outPath string, sum *RunSummary) {
	out, err := s.renderer.Render(kind, data)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			s.logger.Error("template missing for page kind", "kind", kind, "path", outPath)
		} else {
			s.logger.Error("rendering page", "kind", kind, "path", outPath, "error", err)
		}
		sum.PagesSkipped++
		return
	}
	if err := s.fs.WriteFile(outPath, out); err != nil {
		s.logger.Error("writing page", "kind", kind, "path", outPath, "error", err)
		sum.PagesSkipped++
		return
	}
	sum.PagesWritten++
}

// copyStatic stages the stylesheets under {out}/static/css. A missing or
// empty static dir degrades to a warning: the site renders unstyled.
func (s *Service) copyStatic(sum *RunSummary) {
	outDir := filepath.Join(s.opts.OutputDir, "static", "css")
	if err := s.fs.MkdirAll(outDir); err != nil {
		s.logger.Error("creating static directory", "error", err)
		return
	}
	files, err := s.fs.Glob(filepath.Join(s.opts.StaticDir, "*.css"))
	if err != nil || len(files) == 0 {
		s.logger.Warn("no stylesheets found", "dir", s.opts.StaticDir)
		return
	}
	for _, f := range files {
		dst := filepath.Join(outDir, filepath.Base(f))
		if err := s.fs.CopyFile(f, dst); err != nil {
			s.logger.Error("copying stylesheet", "src", f, "error", err)
		}
	}
}
