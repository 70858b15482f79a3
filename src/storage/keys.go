package storage

import (
	"fmt"
	"math/rand"
	"net/url"
	"path"
	"strings"
	"time"
)

// ObjectKey derives a unique storage key for an uploaded image, keeping the
// original file extension.
func ObjectKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%d-%09d%s", time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)
}

// KeyFromURL returns the storage key a stored image URL points at: its
// trailing path segment. Returns "" when the URL has no usable path.
func KeyFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	key := path.Base(u.Path)
	if key == "." || key == "/" {
		return ""
	}
	return key
}
