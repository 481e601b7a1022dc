// Package report renders a finished run as plain text.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/naka-gawa/repoinsight/internal/domain"
	"github.com/naka-gawa/repoinsight/internal/usecase"
)

const cutoffLayout = "02.01.06"

// Options controls how many entries each ranking shows.
type Options struct {
	TopAuthors int
	TopRepos   int
}

// DefaultOptions matches the classic report: six authors, three repositories.
var DefaultOptions = Options{TopAuthors: 6, TopRepos: 3}

// Write prints the report for run to w, closing with a Done line.
func Write(w io.Writer, run *usecase.Run, opts Options) error {
	p := &printer{w: w}

	p.line("")
	p.line("-----------")
	p.line("| Results |")
	p.line("-----------")
	p.line("")
	p.line("Overview")
	p.line("--------")
	t := run.Totals
	p.linef("Number of commits in project: %s", Number(t.Commits))
	p.linef("Number of commits from upstream (forked project): %s", Number(t.UpstreamCommits))
	p.linef("Number of contributors: %s", Number(t.Contributors))
	p.linef("Number of branches (Upstream not excluded): %s", Number(t.Branches))
	p.linef("Number of tags (Upstream not excluded): %s", Number(t.Tags))
	p.linef("Median lines changed per commit: %s", humanize.Ftoa(run.MedianCommitSize()))
	p.line("")

	p.linef("Top %d Contributors (by number of commits)", opts.TopAuthors)
	p.line("--------")
	p.authors(usecase.Top(usecase.RankAuthors(run.Authors), opts.TopAuthors))

	p.linef("Top %d Contributors recently (since %s) (by number of commits):", opts.TopAuthors, run.Cutoff.Format(cutoffLayout))
	p.line("--------")
	p.authors(usecase.Top(usecase.RankAuthors(run.Recent), opts.TopAuthors))

	heading := fmt.Sprintf("Top %d Most Active Repositories", opts.TopRepos)
	p.line(heading)
	p.line(strings.Repeat("-", len(heading)))
	for _, repo := range usecase.Top(usecase.RankRepos(run.Repos), opts.TopRepos) {
		p.linef("Repository: %s", repo.Name)
		p.counters(repo.Counters)
		p.linef("Number of branches: %d", repo.Branches)
		p.linef("Number of tags: %d", repo.Tags)
		p.line("")
	}

	if t.EmptyCommits != 0 {
		p.linef("Warning, the analysed repositories contain empty commits (nothing added or removed). Total empty commits: %d", t.EmptyCommits)
	}
	p.line("Done")
	return p.err
}

// Number formats n with an apostrophe as the thousands separator.
func Number(n int) string {
	return strings.ReplaceAll(humanize.Comma(int64(n)), ",", "'")
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}

func (p *printer) linef(format string, args ...interface{}) {
	p.line(fmt.Sprintf(format, args...))
}

func (p *printer) authors(ranked []domain.AuthorStats) {
	for _, a := range ranked {
		p.linef("Author: %s", a.Author)
		p.counters(a.Counters)
		p.line("")
	}
}

func (p *printer) counters(c domain.Counters) {
	p.linef("Number of commits: %s", Number(c.Commits))
	p.linef("Number of lines added: %s", Number(c.LinesAdded))
	p.linef("Number of lines deleted: %s", Number(c.LinesDeleted))
}
