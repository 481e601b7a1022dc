package usecase

import (
	"sort"

	"github.com/naka-gawa/repoinsight/internal/domain"
)

// RankAuthors returns the table's entries sorted by commit count, highest
// first. Authors with equal counts keep the order they were first seen in.
func RankAuthors(table *domain.AuthorTable) []domain.AuthorStats {
	entries := table.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Commits > entries[j].Commits
	})
	return entries
}

// RankRepos returns the repositories sorted by commit count, highest first,
// keeping processing order among equals.
func RankRepos(table *domain.RepoTable) []domain.RepoStats {
	entries := table.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Commits > entries[j].Commits
	})
	return entries
}

// Top returns at most n leading elements of ranked.
func Top[T any](ranked []T, n int) []T {
	if n < 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}
