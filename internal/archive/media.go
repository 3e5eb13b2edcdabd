package archive

import (
	"fmt"
	"path/filepath"
	"strings"
)

// mediaExtensions are the sidecar formats probed for each post: the image
// formats the scraper saves plus its one video format.
var mediaExtensions = []string{"jpg", "webp", "png", "mp4"}

// maxMediaIndex caps the numbered-suffix scan per extension, bounding the
// number of filesystem probes regardless of how many items a post has.
const maxMediaIndex = 19

// MediaLocator resolves a post's canonical path to the media files stored
// alongside it. It is read-only and deterministic for a given tree.
type MediaLocator struct {
	fs Filesystem
}

func NewMediaLocator(fs Filesystem) *MediaLocator {
	return &MediaLocator{fs: fs}
}

// Locate returns the media files belonging to the post at path, in probe
// order. The scraper names sidecars {base}.{ext} and {base}_{n}.{ext} with
// gap-free numbering, so the numbered scan stops at the first missing index
// per extension. A post with no media yields an empty result, never an error.
func (m *MediaLocator) Locate(path string) []string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	// Compressed archives leave a second extension behind: a.json.xz -> a.json.
	base = strings.TrimSuffix(base, ".json")

	var media []string
	for _, ext := range mediaExtensions {
		if p := base + "." + ext; m.fs.Exists(p) {
			media = append(media, p)
		}
		for i := 1; i <= maxMediaIndex; i++ {
			p := fmt.Sprintf("%s_%d.%s", base, i, ext)
			if !m.fs.Exists(p) {
				break
			}
			media = append(media, p)
		}
	}
	return media
}

// FindProfileImage returns the account's profile picture: the first file in
// accountDir whose name contains "profile_pic". Empty string when absent.
func (m *MediaLocator) FindProfileImage(accountDir string) string {
	matches, err := m.fs.Glob(filepath.Join(accountDir, "*profile_pic*"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	return matches[0]
}
