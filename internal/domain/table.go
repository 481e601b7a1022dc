package domain

// AuthorTable maps authors to their counters and remembers the order in
// which authors were first seen.
type AuthorTable struct {
	index map[AuthorKey]*AuthorStats
	order []*AuthorStats
}

// NewAuthorTable returns an empty table.
func NewAuthorTable() *AuthorTable {
	return &AuthorTable{index: make(map[AuthorKey]*AuthorStats)}
}

// Add folds commit into the entry for its author, creating the entry on first use.
func (t *AuthorTable) Add(commit Commit) {
	key := commit.Author()
	entry, ok := t.index[key]
	if !ok {
		entry = &AuthorStats{Author: key}
		t.index[key] = entry
		t.order = append(t.order, entry)
	}
	entry.Add(commit)
}

// Get returns a copy of the author's counters.
func (t *AuthorTable) Get(key AuthorKey) (AuthorStats, bool) {
	entry, ok := t.index[key]
	if !ok {
		return AuthorStats{}, false
	}
	return *entry, true
}

// Len returns the number of distinct authors.
func (t *AuthorTable) Len() int {
	return len(t.order)
}

// Entries returns copies of all entries in insertion order.
func (t *AuthorTable) Entries() []AuthorStats {
	out := make([]AuthorStats, len(t.order))
	for i, entry := range t.order {
		out[i] = *entry
	}
	return out
}

// RepoTable holds one RepoStats per repository in processing order.
type RepoTable struct {
	index map[string]*RepoStats
	order []*RepoStats
}

// NewRepoTable returns an empty table.
func NewRepoTable() *RepoTable {
	return &RepoTable{index: make(map[string]*RepoStats)}
}

// Start creates (or resets) the entry for a repository with its static ref counts.
func (t *RepoTable) Start(name string, branches, tags int) *RepoStats {
	if entry, ok := t.index[name]; ok {
		*entry = RepoStats{Name: name, Branches: branches, Tags: tags}
		return entry
	}
	entry := &RepoStats{Name: name, Branches: branches, Tags: tags}
	t.index[name] = entry
	t.order = append(t.order, entry)
	return entry
}

// Get returns a copy of the repository's counters.
func (t *RepoTable) Get(name string) (RepoStats, bool) {
	entry, ok := t.index[name]
	if !ok {
		return RepoStats{}, false
	}
	return *entry, true
}

// Entries returns copies of all entries in processing order.
func (t *RepoTable) Entries() []RepoStats {
	out := make([]RepoStats, len(t.order))
	for i, entry := range t.order {
		out[i] = *entry
	}
	return out
}
