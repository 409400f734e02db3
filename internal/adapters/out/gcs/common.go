package gcs

import (
	"fmt"
	"net/url"
	"strings"
)

// PublicURL builds a public GCS URL.
//   - bucket が空なら defaultBucket を使用
//   - objectPath の先頭の "/" は除去
func PublicURL(bucket, objectPath, defaultBucket string) string {
	b := strings.TrimSpace(bucket)
	if b == "" {
		b = strings.TrimSpace(defaultBucket)
	}
	obj := strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b, (&url.URL{Path: obj}).EscapedPath())
}

// ParseRef splits an image reference into (bucket, objectPath).
//
// Accepted forms:
//   - gs://<bucket>/<object>
//   - https://storage.googleapis.com/<bucket>/<object>
//   - https://storage.cloud.google.com/<bucket>/<object>
//   - <object> (bucket "" = caller's default)
//
// ok is false for other absolute URLs, which callers pass through untouched.
func ParseRef(ref string) (bucket, objectPath string, ok bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", "", false
	}
	if rest, found := strings.CutPrefix(ref, "gs://"); found {
		parts := strings.SplitN(rest, "/", 2)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return "", "", false
		}
		return parts[0], parts[1], true
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return parseGCSURL(ref)
	}
	return "", strings.TrimLeft(ref, "/"), true
}

func parseGCSURL(u string) (string, string, bool) {
	parsed, err := url.Parse(u)
	if err != nil {
		return "", "", false
	}

	host := strings.ToLower(parsed.Host)
	if host != "storage.googleapis.com" && host != "storage.cloud.google.com" {
		return "", "", false
	}

	p := strings.TrimLeft(parsed.EscapedPath(), "/")
	parts := strings.SplitN(p, "/", 2)
	if len(parts) < 2 || parts[1] == "" {
		return "", "", false
	}

	objectPath, err := url.PathUnescape(parts[1])
	if err != nil {
		return "", "", false
	}
	return parts[0], objectPath, true
}
