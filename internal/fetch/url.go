package fetch

import (
	"net/url"
	"strings"

	"github.com/frostpress/frostpress/internal/dedup"
)

// UnifyURL normalizes a media URL so that trivially different spellings
// of the same resource share one catalog row. Normalization covers:
//   - lowercased scheme and host
//   - stripped fragment
//   - stripped tracking parameters (utm_*)
//   - preview.redd.it rewritten to i.redd.it, whose query parameters
//     only select a preview size for the same image
//
// Unparseable input is returned as-is; the fetch will record the
// failure against the raw string.
func UnifyURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	if u.Host == "preview.redd.it" {
		u.Host = "i.redd.it"
		u.RawQuery = ""
	}

	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			if strings.HasPrefix(strings.ToLower(key), "utm_") {
				q.Del(key)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// HashURL returns the catalog key of a unified URL.
func HashURL(unified string) string {
	return dedup.HashString(unified)
}

// mediaExtensions are the URL suffixes treated as direct media links
// when harvesting markdown bodies.
var mediaExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".webp", ".mp4", ".webm", ".mp3",
}

// looksLikeMedia reports whether a URL plausibly points at a media
// file worth downloading.
func looksLikeMedia(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, ext := range mediaExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	// These hosts serve bare media without an extension in the path.
	switch u.Host {
	case "i.redd.it", "i.imgur.com", "v.redd.it":
		return true
	}
	return false
}
