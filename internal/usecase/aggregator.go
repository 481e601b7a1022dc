// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/naka-gawa/repoinsight/internal/gateway"
	"github.com/sirupsen/logrus"
)

// Request is a fully resolved report run.
type Request struct {
	// GroupURL is the organization URL, e.g. https://github.com/SolveCare/.
	GroupURL string
	Repos    []string
	// WorkDir is where working copies are kept between runs.
	WorkDir string
	// Start fixes the end of the recent window.
	Start        time.Time
	RecentWindow time.Duration
}

// Aggregator is the use case for aggregating repository stats.
// It walks the requested repositories one at a time and folds their history into a Run.
type Aggregator struct {
	history gateway.History
	forks   gateway.ForkResolver
	logger  logrus.FieldLogger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(history gateway.History, forks gateway.ForkResolver, logger logrus.FieldLogger) *Aggregator {
	return &Aggregator{
		history: history,
		forks:   forks,
		logger:  logger,
	}
}

// Aggregate processes every repository of req in order, each name once. The
// first failure aborts the whole run and no partial result is returned.
func (a *Aggregator) Aggregate(ctx context.Context, req Request) (*Run, error) {
	run := NewRun(req.Start, req.RecentWindow)
	owner := Owner(req.GroupURL)
	base := withTrailingSlash(req.GroupURL)
	seen := make(map[string]struct{}, len(req.Repos))
	for _, name := range req.Repos {
		if _, ok := seen[name]; ok {
			a.logger.WithField("repo", name).Warn("Repository listed more than once, skipping repeat")
			continue
		}
		seen[name] = struct{}{}
		if err := a.processRepository(ctx, run, owner, base, req.WorkDir, name); err != nil {
			return nil, fmt.Errorf("failed to process repository %s: %w", name, err)
		}
	}
	a.logger.Info("All data loaded")
	return run, nil
}

func (a *Aggregator) processRepository(ctx context.Context, run *Run, owner, base, workDir, name string) error {
	log := a.logger.WithField("repo", name)
	log.Info("Starting repository")

	localPath := filepath.Join(workDir, name)
	if _, err := a.history.EnsureCloned(ctx, base+name, localPath); err != nil {
		return err
	}

	upstreamHashes, err := a.upstreamHashes(ctx, run, owner, workDir, name)
	if err != nil {
		return err
	}

	log.Info("Starting collecting stats...")
	commits, err := a.history.Commits(ctx, localPath)
	if err != nil {
		return err
	}
	unique := UniqueCommits(commits, upstreamHashes)

	branches, tags, err := a.history.RefCounts(localPath)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"commits":   len(unique),
		"inherited": len(commits) - len(unique),
		"branches":  branches,
		"tags":      tags,
	}).Info("Folding commits into contributor stats")

	run.Fold(name, unique, branches, tags)
	return nil
}

// upstreamHashes returns the hash set of name's fork parent, cloning the
// parent when needed. A repository that is not a fork yields an empty set.
func (a *Aggregator) upstreamHashes(ctx context.Context, run *Run, owner, workDir, name string) (map[string]struct{}, error) {
	upstream, err := a.forks.Upstream(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	if upstream == nil {
		return nil, nil
	}
	a.logger.WithField("repo", name).Infof("Fork detected from %s: %s", upstream.FullName, upstream.URL)

	upstreamBase, upstreamName := upstream.Split()
	upstreamPath := filepath.Join(workDir, upstream.LocalDir())
	if _, err := a.history.EnsureCloned(ctx, upstreamBase+upstreamName, upstreamPath); err != nil {
		return nil, err
	}
	hashes, err := a.history.CommitHashes(ctx, upstreamPath)
	if err != nil {
		return nil, err
	}
	run.AddUpstream(len(hashes))
	return hashes, nil
}

// Owner returns the last path segment of an organization URL.
func Owner(groupURL string) string {
	trimmed := strings.TrimRight(groupURL, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

func withTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}
