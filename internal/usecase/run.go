package usecase

import (
	"time"

	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/repoinsight/internal/domain"
)

// DefaultRecentWindow is the length of the recent-activity window: three 30-day months.
const DefaultRecentWindow = 3 * 30 * 24 * time.Hour

// Totals are the run-level counters.
type Totals struct {
	Commits         int
	UpstreamCommits int
	// Contributors sums the distinct authors of each repository; an author
	// active in two repositories is counted twice.
	Contributors int
	Branches     int
	Tags         int
	EmptyCommits int
}

// Run carries every accumulator of a single report run. It is created once,
// threaded through each repository step, and read by the report.
type Run struct {
	Cutoff  time.Time
	Totals  Totals
	Authors *domain.AuthorTable
	Recent  *domain.AuthorTable
	Repos   *domain.RepoTable

	commitSizes []float64
}

// NewRun creates an empty run whose recent window ends at start.
func NewRun(start time.Time, window time.Duration) *Run {
	if window <= 0 {
		window = DefaultRecentWindow
	}
	return &Run{
		Cutoff:  start.Add(-window),
		Authors: domain.NewAuthorTable(),
		Recent:  domain.NewAuthorTable(),
		Repos:   domain.NewRepoTable(),
	}
}

// AddUpstream records the size of an upstream's history.
func (r *Run) AddUpstream(commits int) {
	r.Totals.UpstreamCommits += commits
}

// Fold adds a repository's de-duplicated commits to every accumulator.
func (r *Run) Fold(repo string, commits []domain.Commit, branches, tags int) {
	repoStats := r.Repos.Start(repo, branches, tags)
	r.Totals.Branches += branches
	r.Totals.Tags += tags
	r.Totals.Commits += len(commits)

	cutoff := r.Cutoff.Unix()
	authors := make(map[domain.AuthorKey]struct{})
	for _, c := range commits {
		authors[c.Author()] = struct{}{}
		if c.IsEmpty() {
			r.Totals.EmptyCommits++
		}
		r.Authors.Add(c)
		repoStats.Add(c)
		if c.CommittedAt >= cutoff {
			r.Recent.Add(c)
		}
		r.commitSizes = append(r.commitSizes, float64(c.Insertions+c.Deletions))
	}
	r.Totals.Contributors += len(authors)
}

// MedianCommitSize returns the median of insertions+deletions over every
// folded commit, or 0 when nothing was folded.
func (r *Run) MedianCommitSize() float64 {
	median, err := stats.Median(r.commitSizes)
	if err != nil {
		return 0
	}
	return median
}
