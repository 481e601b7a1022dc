package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/naka-gawa/repoinsight/internal/domain"
	"github.com/naka-gawa/repoinsight/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber(t *testing.T) {
	testCases := map[int]string{
		0:       "0",
		999:     "999",
		1000:    "1'000",
		1234567: "1'234'567",
		-4321:   "-4'321",
	}
	for in, want := range testCases {
		assert.Equal(t, want, Number(in))
	}
}

func sampleRun() *usecase.Run {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	run := usecase.NewRun(start, 0)
	recent := start.Add(-time.Hour).Unix()
	old := start.Add(-200 * 24 * time.Hour).Unix()
	run.Fold("alpha", []domain.Commit{
		{Hash: "1", AuthorName: "X", AuthorEmail: "x@example.com", CommittedAt: recent, Insertions: 1200, Deletions: 2},
		{Hash: "2", AuthorName: "X", AuthorEmail: "x@example.com", CommittedAt: recent, Insertions: 1},
		{Hash: "3", AuthorName: "Y", AuthorEmail: "y@example.com", CommittedAt: old},
	}, 2, 1)
	run.Fold("beta", []domain.Commit{
		{Hash: "4", AuthorName: "Y", AuthorEmail: "y@example.com", CommittedAt: old, Insertions: 3},
	}, 1, 0)
	return run
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleRun(), DefaultOptions))
	out := buf.String()

	assert.Contains(t, out, "Number of commits in project: 4\n")
	assert.Contains(t, out, "Number of commits from upstream (forked project): 0\n")
	assert.Contains(t, out, "Number of contributors: 3\n")
	assert.Contains(t, out, "Number of branches (Upstream not excluded): 3\n")
	assert.Contains(t, out, "Number of tags (Upstream not excluded): 1\n")
	assert.Contains(t, out, "Median lines changed per commit: 2\n")
	assert.Contains(t, out, "Top 6 Contributors (by number of commits)\n")
	assert.Contains(t, out, "Top 6 Contributors recently (since 03.03.24) (by number of commits):\n")
	assert.Contains(t, out, "Author: X (x@example.com)\nNumber of commits: 2\nNumber of lines added: 1'201\nNumber of lines deleted: 2\n")
	assert.Contains(t, out, "Top 3 Most Active Repositories\n------------------------------\n")
	assert.Contains(t, out, "Repository: alpha\nNumber of commits: 3\nNumber of lines added: 1'201\nNumber of lines deleted: 2\nNumber of branches: 2\nNumber of tags: 1\n")
	assert.True(t, strings.HasSuffix(out, "Total empty commits: 1\nDone\n"), "the warning is followed by the closing Done line")

	// Y only committed before the cutoff, so the recent section lists X alone.
	recent := out[strings.Index(out, "recently"):strings.Index(out, "Most Active")]
	assert.Contains(t, recent, "Author: X (x@example.com)")
	assert.NotContains(t, recent, "Author: Y")

	// Repositories are ranked by commit count.
	assert.Less(t, strings.Index(out, "Repository: alpha"), strings.Index(out, "Repository: beta"))
}

func TestWrite_TopLimitsAndNoWarning(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	run := usecase.NewRun(start, 0)
	run.Fold("alpha", []domain.Commit{
		{Hash: "1", AuthorName: "A", AuthorEmail: "a@example.com", CommittedAt: start.Unix(), Insertions: 1},
		{Hash: "2", AuthorName: "B", AuthorEmail: "b@example.com", CommittedAt: start.Unix(), Insertions: 1},
		{Hash: "3", AuthorName: "B", AuthorEmail: "b@example.com", CommittedAt: start.Unix(), Insertions: 1},
	}, 1, 0)
	run.Fold("beta", nil, 1, 0)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, run, Options{TopAuthors: 1, TopRepos: 1}))
	out := buf.String()

	assert.Equal(t, 2, strings.Count(out, "Author: B (b@example.com)"))
	assert.NotContains(t, out, "Author: A")
	assert.Contains(t, out, "Top 1 Most Active Repositories\n------------------------------\n")
	assert.NotContains(t, out, "Repository: beta")
	assert.NotContains(t, out, "empty commits")
	assert.True(t, strings.HasSuffix(out, "\nDone\n"))
	assert.Equal(t, 1, strings.Count(out, "Done"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWrite_PropagatesWriterError(t *testing.T) {
	err := Write(failingWriter{}, sampleRun(), DefaultOptions)
	assert.EqualError(t, err, "disk full")
}
