package usecase

import "github.com/naka-gawa/repoinsight/internal/domain"

// UniqueCommits returns the commits whose hash is not in upstream, keeping
// their order. With an empty upstream set every commit is returned.
func UniqueCommits(commits []domain.Commit, upstream map[string]struct{}) []domain.Commit {
	if len(upstream) == 0 {
		return commits
	}
	unique := make([]domain.Commit, 0, len(commits))
	for _, c := range commits {
		if _, inherited := upstream[c.Hash]; inherited {
			continue
		}
		unique = append(unique, c)
	}
	return unique
}
