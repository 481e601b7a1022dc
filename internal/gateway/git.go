package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/naka-gawa/repoinsight/internal/domain"
	"github.com/sirupsen/logrus"
)

// History defines the behavior of a gateway over local working copies.
type History interface {
	// EnsureCloned makes sure path holds a working copy, cloning url when it
	// does not exist yet. It reports whether a clone happened.
	EnsureCloned(ctx context.Context, url, path string) (bool, error)
	// Commits returns every commit reachable from HEAD with its line stats.
	Commits(ctx context.Context, path string) ([]domain.Commit, error)
	// CommitHashes returns the hashes of every commit reachable from HEAD.
	CommitHashes(ctx context.Context, path string) (map[string]struct{}, error)
	// RefCounts returns the number of local branches and tags.
	RefCounts(path string) (branches, tags int, err error)
}

// GitGateway implements History with go-git.
type GitGateway struct {
	token    string
	progress io.Writer
	logger   logrus.FieldLogger
}

// NewGitGateway creates a GitGateway. token authenticates HTTP(S) clones
// and may be empty; progress receives clone output and may be nil.
func NewGitGateway(token string, progress io.Writer, logger logrus.FieldLogger) *GitGateway {
	return &GitGateway{token: token, progress: progress, logger: logger}
}

func (g *GitGateway) EnsureCloned(ctx context.Context, url, path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		g.logger.WithField("path", path).Debug("Reusing existing working copy")
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to inspect %s: %w", path, err)
	}

	g.logger.WithFields(logrus.Fields{"url": url, "path": path}).Info("Repository not cloned yet, doing so now...")
	opts := &gitlib.CloneOptions{URL: url, Progress: g.progress, Auth: g.cloneAuth(url)}
	if _, err := gitlib.PlainCloneContext(ctx, path, false, opts); err != nil {
		// Do not leave a half-written directory that the next run would reuse.
		_ = os.RemoveAll(path)
		return false, fmt.Errorf("failed to clone %s: %w", url, err)
	}
	return true, nil
}

// cloneAuth returns token credentials for HTTP(S) remotes and nil otherwise.
func (g *GitGateway) cloneAuth(url string) transport.AuthMethod {
	if g.token == "" || !(strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "http://")) {
		return nil
	}
	// GitHub accepts any non-empty username alongside a token.
	return &githttp.BasicAuth{Username: "x-access-token", Password: g.token}
}

func (g *GitGateway) Commits(ctx context.Context, path string) ([]domain.Commit, error) {
	var commits []domain.Commit
	err := g.walk(path, func(c *object.Commit) error {
		insertions, deletions, err := lineStats(ctx, c)
		if err != nil {
			return fmt.Errorf("failed to compute stats for %s: %w", c.Hash, err)
		}
		commits = append(commits, domain.Commit{
			Hash:        c.Hash.String(),
			AuthorName:  c.Author.Name,
			AuthorEmail: c.Author.Email,
			CommittedAt: c.Committer.When.Unix(),
			Insertions:  insertions,
			Deletions:   deletions,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return commits, nil
}

func (g *GitGateway) CommitHashes(ctx context.Context, path string) (map[string]struct{}, error) {
	hashes := make(map[string]struct{})
	err := g.walk(path, func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		hashes[c.Hash.String()] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hashes, nil
}

func (g *GitGateway) RefCounts(path string) (int, int, error) {
	repo, err := open(path)
	if err != nil {
		return 0, 0, err
	}
	branchIter, err := repo.Branches()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list branches: %w", err)
	}
	branches, err := countRefs(branchIter)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list branches: %w", err)
	}
	tagIter, err := repo.Tags()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list tags: %w", err)
	}
	tags, err := countRefs(tagIter)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list tags: %w", err)
	}
	return branches, tags, nil
}

func (g *GitGateway) walk(path string, fn func(*object.Commit) error) error {
	repo, err := open(path)
	if err != nil {
		return err
	}
	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			g.logger.WithField("path", path).Debug("Repository has no HEAD, no commits to read")
			return nil
		}
		return fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	iter, err := repo.Log(&gitlib.LogOptions{From: head.Hash()})
	if err != nil {
		return fmt.Errorf("failed to read commits: %w", err)
	}
	defer iter.Close()
	if err := iter.ForEach(fn); err != nil {
		return fmt.Errorf("failed to iterate commits: %w", err)
	}
	return nil
}

// lineStats diffs c against its first parent (the empty tree for a root
// commit) without rename detection, so a moved file counts as a full
// deletion plus a full insertion.
func lineStats(ctx context.Context, c *object.Commit) (int, int, error) {
	tree, err := c.Tree()
	if err != nil {
		return 0, 0, err
	}
	parentTree := &object.Tree{}
	if c.NumParents() > 0 {
		parent, err := c.Parent(0)
		if err != nil {
			return 0, 0, err
		}
		if parentTree, err = parent.Tree(); err != nil {
			return 0, 0, err
		}
	}
	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, &object.DiffTreeOptions{DetectRenames: false})
	if err != nil {
		return 0, 0, err
	}
	patch, err := changes.PatchContext(ctx)
	if err != nil {
		return 0, 0, err
	}
	insertions, deletions := 0, 0
	for _, fs := range patch.Stats() {
		insertions += fs.Addition
		deletions += fs.Deletion
	}
	return insertions, deletions, nil
}

func open(path string) (*gitlib.Repository, error) {
	repo, err := gitlib.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", path, err)
	}
	return repo, nil
}

func countRefs(iter storer.ReferenceIter) (int, error) {
	defer iter.Close()
	n := 0
	err := iter.ForEach(func(*plumbing.Reference) error {
		n++
		return nil
	})
	return n, err
}
