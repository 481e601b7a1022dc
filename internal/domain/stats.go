// Package domain contains the core data structures and domain logic for the application.
package domain

import "fmt"

// Commit is a single commit read from a repository's history.
// It is never modified after extraction.
type Commit struct {
	Hash        string
	AuthorName  string
	AuthorEmail string
	// CommittedAt is the committer timestamp in seconds since the epoch.
	CommittedAt int64
	Insertions  int
	Deletions   int
}

// Author returns the identity this commit is aggregated under.
func (c Commit) Author() AuthorKey {
	return AuthorKey{Name: c.AuthorName, Email: c.AuthorEmail}
}

// IsEmpty reports whether the commit neither added nor removed a line.
func (c Commit) IsEmpty() bool {
	return c.Insertions == 0 && c.Deletions == 0
}

// AuthorKey identifies a contributor by the exact name and email pair.
// Different people sharing both strings are counted as one author.
type AuthorKey struct {
	Name  string
	Email string
}

func (k AuthorKey) String() string {
	return fmt.Sprintf("%s (%s)", k.Name, k.Email)
}

// Counters holds the numbers folded from a sequence of commits.
type Counters struct {
	Commits      int `json:"commits"`
	LinesAdded   int `json:"lines_added"`
	LinesDeleted int `json:"lines_deleted"`
}

// Add folds one commit into the counters.
func (c *Counters) Add(commit Commit) {
	c.Commits++
	c.LinesAdded += commit.Insertions
	c.LinesDeleted += commit.Deletions
}

// AuthorStats holds the activity counts for a single author.
type AuthorStats struct {
	Author AuthorKey
	Counters
}

// RepoStats holds the activity counts for a single repository.
type RepoStats struct {
	Name string `json:"name"`
	Counters
	Branches int `json:"branches"`
	Tags     int `json:"tags"`
}
