// Package gateway provides access to the outside world: the GitHub API for
// repository metadata and go-git for local working copies.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/repoinsight/internal/domain"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// API selects which GitHub endpoint answers fork lookups.
type API string

const (
	APIREST    API = "rest"
	APIGraphQL API = "graphql"
)

// ForkResolver defines the behavior of a gateway that detects fork parents.
type ForkResolver interface {
	// Upstream returns the parent of owner/name, or nil when it is not a fork.
	Upstream(ctx context.Context, owner, name string) (*domain.Upstream, error)
}

// GitHubGateway is the concrete implementation of the ForkResolver interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	api           API
	limiter       *rate.Limiter
	logger        logrus.FieldLogger
}

// GitHubOptions configures NewGitHubGateway.
type GitHubOptions struct {
	API     API
	Timeout time.Duration
	// RequestsPerSecond paces outgoing calls; zero disables pacing.
	RequestsPerSecond float64
}

// forkQuery asks the GraphQL API for a repository's parent.
type forkQuery struct {
	Repository struct {
		IsFork bool
		Parent *struct {
			URL           string
			NameWithOwner string
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, opts GitHubOptions, logger logrus.FieldLogger) (*GitHubGateway, error) {
	// Timeout bounds each attempt, not the rate limit sleeps between them.
	base := http.DefaultTransport.(*http.Transport).Clone()
	if opts.Timeout > 0 {
		base.ResponseHeaderTimeout = opts.Timeout
		base.TLSHandshakeTimeout = opts.Timeout
	}
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(base, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	api := opts.API
	if api == "" {
		api = APIREST
	}
	if api != APIREST && api != APIGraphQL {
		return nil, fmt.Errorf("unknown GitHub API %q (want %q or %q)", api, APIREST, APIGraphQL)
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		api:           api,
		limiter:       limiter,
		logger:        logger,
	}, nil
}

func (g *GitHubGateway) Upstream(ctx context.Context, owner, name string) (*domain.Upstream, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}
	g.logger.WithFields(logrus.Fields{"owner": owner, "repo": name, "api": g.api}).Debug("Looking up fork parent")
	if g.api == APIGraphQL {
		return g.upstreamGraphQL(ctx, owner, name)
	}
	return g.upstreamREST(ctx, owner, name)
}

func (g *GitHubGateway) upstreamREST(ctx context.Context, owner, name string) (*domain.Upstream, error) {
	repo, _, err := g.restClient.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repository %s/%s: %w", owner, name, err)
	}
	parent := repo.GetParent()
	if parent == nil {
		return nil, nil
	}
	url := parent.GetSVNURL()
	if url == "" {
		url = parent.GetHTMLURL()
	}
	return &domain.Upstream{URL: url, FullName: parent.GetFullName()}, nil
}

func (g *GitHubGateway) upstreamGraphQL(ctx context.Context, owner, name string) (*domain.Upstream, error) {
	var q forkQuery
	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
	}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for %s/%s: %w", owner, name, err)
	}
	parent := q.Repository.Parent
	if parent == nil || parent.URL == "" {
		return nil, nil
	}
	return &domain.Upstream{URL: parent.URL, FullName: parent.NameWithOwner}, nil
}
