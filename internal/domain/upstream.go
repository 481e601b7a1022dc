package domain

import (
	"path/filepath"
	"strings"
)

// Upstream describes the repository a fork was created from.
type Upstream struct {
	// URL is the web/checkout location, e.g. https://github.com/owner/name.
	URL      string
	FullName string
}

// Split separates URL into a base ending in "/" and the final path segment,
// so that base + name reproduces the checkout URL.
func (u Upstream) Split() (base, name string) {
	trimmed := strings.TrimRight(u.URL, "/")
	i := strings.LastIndex(trimmed, "/")
	if i < 0 {
		return "", trimmed
	}
	return trimmed[:i+1], trimmed[i+1:]
}

// LocalDir is the directory, relative to the clone root, that holds the
// upstream's working copy. It is keyed by the full name so an upstream
// sharing the fork's short name never collides with the fork itself.
func (u Upstream) LocalDir() string {
	if u.FullName != "" {
		return filepath.Join(".upstream", filepath.FromSlash(u.FullName))
	}
	_, name := u.Split()
	return filepath.Join(".upstream", name)
}
