package archive

import (
	"fmt"
	"sort"
	"time"
)

// SortPostsDesc orders posts newest first. The sort is stable, so posts with
// equal timestamps keep their retrieval order.
func SortPostsDesc(posts []AnnotatedPost) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Timestamp > posts[j].Timestamp
	})
}

// GroupByYear buckets posts by their metadata year, newest first within each
// bucket. Posts whose metadata row has no year are dropped; skipped reports
// how many, so the caller can log the integrity fault.
func GroupByYear(posts []AnnotatedPost) (buckets map[int][]AnnotatedPost, skipped int) {
	buckets = make(map[int][]AnnotatedPost)
	for _, p := range posts {
		if p.Year == 0 {
			skipped++
			continue
		}
		buckets[p.Year] = append(buckets[p.Year], p)
	}
	for year := range buckets {
		SortPostsDesc(buckets[year])
	}
	return buckets, skipped
}

// GroupByDir buckets posts by their highlight directory, newest first within
// each bucket. Posts without a directory are dropped and counted in skipped.
func GroupByDir(posts []AnnotatedPost) (buckets map[string][]AnnotatedPost, skipped int) {
	buckets = make(map[string][]AnnotatedPost)
	for _, p := range posts {
		if p.Dir == "" {
			skipped++
			continue
		}
		buckets[p.Dir] = append(buckets[p.Dir], p)
	}
	for dir := range buckets {
		SortPostsDesc(buckets[dir])
	}
	return buckets, skipped
}

// YearKeys returns the bucket years in ascending order, for navigation links.
func YearKeys(buckets map[int][]AnnotatedPost) []int {
	years := make([]int, 0, len(buckets))
	for year := range buckets {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}

// DirKeys returns the bucket directory names in ascending order.
func DirKeys(buckets map[string][]AnnotatedPost) []string {
	dirs := make([]string, 0, len(buckets))
	for dir := range buckets {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

// MonthKey formats an epoch timestamp as a YYYY/MM feed bucket key.
// UTC keeps the key independent of the host timezone.
func MonthKey(timestamp int64) string {
	t := time.Unix(timestamp, 0).UTC()
	return fmt.Sprintf("%04d/%02d", t.Year(), int(t.Month()))
}

// GroupByMonth buckets posts by calendar month, keyed YYYY/MM, newest first
// within each bucket. The returned keys are sorted descending: that sequence
// drives the feed's prev/next links, so a month with zero posts is simply
// absent and gets skipped over by its neighbors.
func GroupByMonth(posts []AnnotatedPost) (map[string][]AnnotatedPost, []string) {
	buckets := make(map[string][]AnnotatedPost)
	for _, p := range posts {
		key := MonthKey(p.Timestamp)
		buckets[key] = append(buckets[key], p)
	}
	months := make([]string, 0, len(buckets))
	for key := range buckets {
		months = append(months, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	for key := range buckets {
		SortPostsDesc(buckets[key])
	}
	return buckets, months
}

// MonthNav returns the keys adjacent to position idx in the descending month
// sequence: prev is the older month, next the newer. Adjacency is by position
// in the sequence, not calendar arithmetic. Empty string means none.
func MonthNav(months []string, idx int) (prev, next string) {
	if idx+1 < len(months) {
		prev = months[idx+1]
	}
	if idx > 0 {
		next = months[idx-1]
	}
	return prev, next
}
