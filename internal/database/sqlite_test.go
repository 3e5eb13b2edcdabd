package database_test

import (
	"reflect"
	"testing"

	"igpages/internal/archive"
	"igpages/internal/testutil"
)

func TestListAccounts(t *testing.T) {
	store, db := testutil.NewTestStore(t)

	t.Run("empty database yields no accounts", func(t *testing.T) {
		accounts, err := store.ListAccounts()
		if err != nil {
			t.Fatalf("ListAccounts() error: %v", err)
		}
		if len(accounts) != 0 {
			t.Errorf("ListAccounts() = %v, want empty", accounts)
		}
	})

	t.Run("returns accounts ordered by username", func(t *testing.T) {
		testutil.SeedAccount(t, db, archive.Account{Username: "zed", IsPrivate: true})
		testutil.SeedAccount(t, db, archive.Account{Username: "acme", FullName: "Acme Corp", Category: "Business"})

		accounts, err := store.ListAccounts()
		if err != nil {
			t.Fatalf("ListAccounts() error: %v", err)
		}
		if len(accounts) != 2 {
			t.Fatalf("len(accounts) = %d, want 2", len(accounts))
		}
		if accounts[0].Username != "acme" || accounts[1].Username != "zed" {
			t.Errorf("order = [%s %s], want [acme zed]", accounts[0].Username, accounts[1].Username)
		}
		if accounts[0].FullName != "Acme Corp" || accounts[0].Category != "Business" {
			t.Errorf("acme fields = %+v", accounts[0])
		}
		if !accounts[1].IsPrivate {
			t.Error("zed should be private")
		}
	})
}

func TestLoadProfile(t *testing.T) {
	store, db := testutil.NewTestStore(t)
	testutil.SeedAccount(t, db, archive.Account{Username: "acme", Biography: "we make things"})

	t.Run("found", func(t *testing.T) {
		a, err := store.LoadProfile("acme")
		if err != nil {
			t.Fatalf("LoadProfile() error: %v", err)
		}
		if a == nil || a.Biography != "we make things" {
			t.Errorf("LoadProfile() = %+v", a)
		}
	})

	t.Run("absent username yields nil without error", func(t *testing.T) {
		a, err := store.LoadProfile("nobody")
		if err != nil {
			t.Fatalf("LoadProfile() error: %v", err)
		}
		if a != nil {
			t.Errorf("LoadProfile() = %+v, want nil", a)
		}
	})
}

func TestCountsByType(t *testing.T) {
	store, db := testutil.NewTestStore(t)

	testutil.SeedPost(t, db, archive.Post{Path: "p1", Shortcode: "S1", Type: archive.TypePost, Timestamp: 100, Username: "acme", Year: 2021})
	testutil.SeedPost(t, db, archive.Post{Path: "p2", Shortcode: "S2", Type: archive.TypePost, Timestamp: 200, Username: "acme", Year: 2021})
	testutil.SeedPost(t, db, archive.Post{Path: "p3", Shortcode: "S3", Type: archive.TypeStory, Timestamp: 300, Username: "acme", Year: 2021})
	testutil.SeedPost(t, db, archive.Post{Path: "p4", Shortcode: "S4", Type: archive.TypePost, Timestamp: 400, Username: "bob", Year: 2021})

	counts, err := store.CountsByType()
	if err != nil {
		t.Fatalf("CountsByType() error: %v", err)
	}

	want := map[string]map[string]int{
		"acme": {archive.TypePost: 2, archive.TypeStory: 1},
		"bob":  {archive.TypePost: 1},
	}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("CountsByType() = %v, want %v", counts, want)
	}
}

func TestPostsForAccount(t *testing.T) {
	store, db := testutil.NewTestStore(t)

	testutil.SeedPost(t, db, archive.Post{Path: "old", Shortcode: "S1", Type: archive.TypePost, Timestamp: 100, Username: "acme", Year: 2020, Caption: "hi", LikeCount: 5, CommentCount: 1})
	testutil.SeedPost(t, db, archive.Post{Path: "new", Shortcode: "S2", Type: archive.TypePost, Timestamp: 300, Username: "acme", Year: 2021})
	testutil.SeedPost(t, db, archive.Post{Path: "story", Shortcode: "S3", Type: archive.TypeStory, Timestamp: 200, Username: "acme", Year: 2021})
	testutil.SeedPost(t, db, archive.Post{Path: "other", Shortcode: "S4", Type: archive.TypePost, Timestamp: 400, Username: "bob", Year: 2021})
	testutil.SeedOrphanPost(t, db, archive.Post{Path: "orphan", Shortcode: "S5", Type: archive.TypePost, Timestamp: 500})

	t.Run("filters by account and type, newest first", func(t *testing.T) {
		posts, err := store.PostsForAccount("acme", archive.TypePost)
		if err != nil {
			t.Fatalf("PostsForAccount() error: %v", err)
		}
		if len(posts) != 2 {
			t.Fatalf("len(posts) = %d, want 2", len(posts))
		}
		if posts[0].Path != "new" || posts[1].Path != "old" {
			t.Errorf("order = [%s %s], want [new old]", posts[0].Path, posts[1].Path)
		}
		if posts[1].Caption != "hi" || posts[1].LikeCount != 5 || posts[1].CommentCount != 1 {
			t.Errorf("old fields = %+v", posts[1])
		}
		if posts[0].Year != 2021 || posts[1].Year != 2020 {
			t.Errorf("years = [%d %d]", posts[0].Year, posts[1].Year)
		}
	})

	t.Run("post without metadata row never appears", func(t *testing.T) {
		posts, err := store.PostsForAccount("", archive.TypePost)
		if err != nil {
			t.Fatalf("PostsForAccount() error: %v", err)
		}
		if len(posts) != 0 {
			t.Errorf("posts = %v, want empty", posts)
		}
	})

	t.Run("null metadata columns map to zero values", func(t *testing.T) {
		testutil.SeedPost(t, db, archive.Post{Path: "bare", Shortcode: "S6", Type: archive.TypePost, Timestamp: 50, Username: "acme"})

		posts, err := store.PostsForAccount("acme", archive.TypePost)
		if err != nil {
			t.Fatalf("PostsForAccount() error: %v", err)
		}
		last := posts[len(posts)-1]
		if last.Path != "bare" || last.Year != 0 || last.Dir != "" {
			t.Errorf("bare post = %+v", last)
		}
	})
}

func TestRecentPosts(t *testing.T) {
	store, db := testutil.NewTestStore(t)

	testutil.SeedPost(t, db, archive.Post{Path: "a", Shortcode: "S1", Type: archive.TypePost, Timestamp: 100, Username: "acme", Year: 2021})
	testutil.SeedPost(t, db, archive.Post{Path: "b", Shortcode: "S2", Type: archive.TypeStory, Timestamp: 200, Username: "bob", Year: 2021})
	testutil.SeedPost(t, db, archive.Post{Path: "c", Shortcode: "S3", Type: archive.TypePost, Timestamp: 300, Username: "acme", Year: 2021})

	t.Run("threshold is inclusive", func(t *testing.T) {
		posts, err := store.RecentPosts(200)
		if err != nil {
			t.Fatalf("RecentPosts() error: %v", err)
		}
		if len(posts) != 2 {
			t.Fatalf("len(posts) = %d, want 2", len(posts))
		}
		if posts[0].Path != "c" || posts[1].Path != "b" {
			t.Errorf("order = [%s %s], want [c b]", posts[0].Path, posts[1].Path)
		}
	})

	t.Run("spans accounts and types", func(t *testing.T) {
		posts, err := store.RecentPosts(0)
		if err != nil {
			t.Fatalf("RecentPosts() error: %v", err)
		}
		if len(posts) != 3 {
			t.Errorf("len(posts) = %d, want 3", len(posts))
		}
	})
}

func TestConnections(t *testing.T) {
	store, db := testutil.NewTestStore(t)

	testutil.SeedConnection(t, db, "S1", "bob", archive.ConnTagged)
	testutil.SeedConnection(t, db, "S1", "carol", archive.ConnMentioned)
	testutil.SeedConnection(t, db, "S1", "dan", archive.ConnCommented)
	testutil.SeedConnection(t, db, "S2", "erin", archive.ConnTagged)
	testutil.SeedConnection(t, db, "S3", "frank", archive.ConnTagged)

	t.Run("fans rows out by connection type", func(t *testing.T) {
		conns, err := store.Connections([]string{"S1", "S2"})
		if err != nil {
			t.Fatalf("Connections() error: %v", err)
		}
		if !reflect.DeepEqual(conns.Tagged["S1"], []string{"bob"}) {
			t.Errorf("Tagged[S1] = %v", conns.Tagged["S1"])
		}
		if !reflect.DeepEqual(conns.Mentioned["S1"], []string{"carol"}) {
			t.Errorf("Mentioned[S1] = %v", conns.Mentioned["S1"])
		}
		if !reflect.DeepEqual(conns.Commented["S1"], []string{"dan"}) {
			t.Errorf("Commented[S1] = %v", conns.Commented["S1"])
		}
		if !reflect.DeepEqual(conns.Tagged["S2"], []string{"erin"}) {
			t.Errorf("Tagged[S2] = %v", conns.Tagged["S2"])
		}
		if _, ok := conns.Tagged["S3"]; ok {
			t.Error("got connections for a shortcode outside the batch")
		}
	})

	t.Run("empty input yields empty maps without error", func(t *testing.T) {
		conns, err := store.Connections(nil)
		if err != nil {
			t.Fatalf("Connections() error: %v", err)
		}
		if len(conns.Tagged)+len(conns.Mentioned)+len(conns.Commented) != 0 {
			t.Errorf("Connections(nil) = %+v, want empty", conns)
		}
	})

	t.Run("unknown shortcodes simply miss", func(t *testing.T) {
		conns, err := store.Connections([]string{"nope"})
		if err != nil {
			t.Fatalf("Connections() error: %v", err)
		}
		if len(conns.Tagged) != 0 {
			t.Errorf("Tagged = %v, want empty", conns.Tagged)
		}
	})
}
