package cmd

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/naka-gawa/repoinsight/internal/config"
	"github.com/naka-gawa/repoinsight/internal/gateway"
	"github.com/naka-gawa/repoinsight/internal/report"
	"github.com/naka-gawa/repoinsight/internal/usecase"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var reportCmd = &cobra.Command{
	Use:   "report [repo...]",
	Short: "Aggregates commit statistics for organization repositories and prints a report",
	Long: `Clones (or reuses) each repository under the work directory, detects forks
through the GitHub API, drops commits inherited from the upstream and prints
all-time and recent contributor rankings plus the most active repositories.

The GitHub token is read from the ` + config.TokenEnv + ` environment variable
(a .env file in the current directory is honoured). Missing organization URL
or repository names are asked for interactively.`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	d := config.Default()
	f := reportCmd.Flags()
	f.StringP("group-url", "g", "", "GitHub organization URL, e.g. 'https://github.com/SolveCare/'")
	f.StringSliceP("repos", "r", nil, "Repositories to analyse, e.g. 'Care.Protocol,Care.Labs'")
	f.String("workdir", d.WorkDir, "Directory holding the working copies")
	f.String("api", d.API, "GitHub API used for fork detection: rest or graphql")
	f.Int("top", d.Top, "Number of contributors listed per ranking")
	f.Int("top-repos", d.TopRepos, "Number of repositories listed")
	f.Int("recent-days", d.RecentDays, "Length of the recent-activity window in days")
	f.Duration("timeout", d.Timeout, "Timeout for each GitHub API request")
	f.Float64("rate-limit", d.RateLimit, "Maximum GitHub API requests per second (0 disables pacing)")
}

func runReport(cmd *cobra.Command, args []string) error {
	start := time.Now()

	// The credential is checked before anything else touches the network or disk.
	if err := config.LoadEnvFile(".env"); err != nil {
		return err
	}
	token, err := config.LoadToken()
	if err != nil {
		return err
	}

	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	cfg.Repos = append(cfg.Repos, args...)
	if err := config.StdinPrompter().Complete(cfg); err != nil {
		return err
	}

	log := logger.WithField("run", uuid.NewString())
	log.WithField("repos", cfg.Repos).Debug("Configuration resolved")

	githubGateway, err := gateway.NewGitHubGateway(token, gateway.GitHubOptions{
		API:               gateway.API(cfg.API),
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RateLimit,
	}, log)
	if err != nil {
		return err
	}
	var progress io.Writer
	if verbose {
		progress = os.Stderr
	}
	gitGateway := gateway.NewGitGateway(token, progress, log)
	aggregator := usecase.NewAggregator(gitGateway, githubGateway, log)

	run, err := aggregator.Aggregate(cmd.Context(), usecase.Request{
		GroupURL:     cfg.GroupURL,
		Repos:        cfg.Repos,
		WorkDir:      cfg.WorkDir,
		Start:        start,
		RecentWindow: cfg.RecentWindow(),
	})
	if err != nil {
		return err
	}

	if err := report.Write(cmd.OutOrStdout(), run, report.Options{TopAuthors: cfg.Top, TopRepos: cfg.TopRepos}); err != nil {
		return err
	}
	log.Infof("Done in %s", time.Since(start).Round(time.Millisecond))
	return nil
}
