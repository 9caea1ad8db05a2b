// internal/platform/github.go
package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"commitlens/internal/config"
	custom_errors "commitlens/internal/errors"
	"commitlens/internal/model"
)

// GitHubClient is a wrapper around the go-github client.
type GitHubClient struct {
	gh             *github.Client
	logger         *slog.Logger
	connectTimeout time.Duration
}

// NewGitHubClient creates a client authenticated with a bearer token.
// A non-empty base URL other than api.github.com selects a GitHub Enterprise server.
func NewGitHubClient(cfg config.PlatformConfig, opts Options) (*GitHubClient, error) {
	opts = opts.withDefaults()
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: opts.Timeout})
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: cfg.Token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = opts.Timeout

	gh := github.NewClient(tc)
	if base := strings.TrimSuffix(cfg.BaseURL, "/"); base != "" && !strings.Contains(base, "api.github.com") {
		var err error
		gh, err = gh.WithEnterpriseURLs(base, base)
		if err != nil {
			return nil, fmt.Errorf("invalid github base url %q: %w", cfg.BaseURL, err)
		}
	}

	return &GitHubClient{
		gh:             gh,
		logger:         opts.Logger,
		connectTimeout: opts.ConnectTimeout,
	}, nil
}

func (c *GitHubClient) Kind() model.PlatformKind {
	return model.KindGitHub
}

func (c *GitHubClient) TestConnection(ctx context.Context) model.ConnectionResult {
	ctx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return model.ConnectionResult{Success: false, Message: githubError("test_connection", err).Error()}
	}
	return model.ConnectionResult{Success: true, Message: "Connected as " + user.GetLogin()}
}

// ListRepositories fetches every repository the token can see.
// It handles API pagination transparently.
func (c *GitHubClient) ListRepositories(ctx context.Context) ([]model.RemoteRepository, error) {
	var all []model.RemoteRepository
	opts := &github.RepositoryListByAuthenticatedUserOptions{
		ListOptions: github.ListOptions{PerPage: pageSize},
	}
	for {
		c.logger.Debug("Fetching repositories page", "page", opts.Page)
		repos, resp, err := c.gh.Repositories.ListByAuthenticatedUser(ctx, opts)
		if err != nil {
			return nil, githubError("list_repositories", err)
		}
		for _, r := range repos {
			all = append(all, toRemoteRepository(r))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

func (c *GitHubClient) ListBranches(ctx context.Context, repo RepoRef) ([]model.RemoteBranch, error) {
	owner, name, err := splitFullName(repo)
	if err != nil {
		return nil, err
	}
	var all []model.RemoteBranch
	opts := &github.BranchListOptions{ListOptions: github.ListOptions{PerPage: pageSize}}
	for {
		branches, resp, err := c.gh.Repositories.ListBranches(ctx, owner, name, opts)
		if err != nil {
			return nil, githubError("list_branches", err)
		}
		for _, b := range branches {
			all = append(all, model.RemoteBranch{Name: b.GetName(), HeadSHA: b.GetCommit().GetSHA()})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

func (c *GitHubClient) ListCommits(ctx context.Context, repo RepoRef, branch string, from, to time.Time) ([]model.RemoteCommit, error) {
	owner, name, err := splitFullName(repo)
	if err != nil {
		return nil, err
	}
	var all []model.RemoteCommit
	opts := &github.CommitsListOptions{
		SHA:   branch,
		Since: from,
		Until: to,
		ListOptions: github.ListOptions{
			PerPage: pageSize,
		},
	}
	for {
		c.logger.Debug("Fetching commits page", "repo", repo.FullName, "branch", branch, "page", opts.Page)
		commits, resp, err := c.gh.Repositories.ListCommits(ctx, owner, name, opts)
		if err != nil {
			return nil, githubError("list_commits", err)
		}
		for _, rc := range commits {
			all = append(all, toRemoteCommit(rc))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// GetCommitDetails returns exact per-file counts. The per-file patches are joined into Diff.
func (c *GitHubClient) GetCommitDetails(ctx context.Context, repo RepoRef, sha string) (*model.CommitDetails, error) {
	owner, name, err := splitFullName(repo)
	if err != nil {
		return nil, err
	}
	details := &model.CommitDetails{}
	var diff strings.Builder
	opts := &github.ListOptions{PerPage: pageSize}
	for {
		rc, resp, err := c.gh.Repositories.GetCommit(ctx, owner, name, sha, opts)
		if err != nil {
			return nil, githubError("get_commit_details", err)
		}
		if opts.Page == 0 {
			details.LinesAdded = rc.GetStats().GetAdditions()
			details.LinesRemoved = rc.GetStats().GetDeletions()
		}
		for _, f := range rc.Files {
			details.Files = append(details.Files, model.FileChange{
				Filename:     f.GetFilename(),
				Status:       normalizeStatus(f.GetStatus()),
				LinesAdded:   f.GetAdditions(),
				LinesRemoved: f.GetDeletions(),
			})
			if patch := f.GetPatch(); patch != "" {
				diff.WriteString(fileDiffHeader(f.GetPreviousFilename(), f.GetFilename()))
				diff.WriteString(patch)
				diff.WriteString("\n")
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	details.FilesChanged = len(details.Files)
	details.Diff = diff.String()
	return details, nil
}

func (c *GitHubClient) GetCommitDiff(ctx context.Context, repo RepoRef, sha string) (string, error) {
	owner, name, err := splitFullName(repo)
	if err != nil {
		return "", err
	}
	raw, _, err := c.gh.Repositories.GetCommitRaw(ctx, owner, name, sha, github.RawOptions{Type: github.Diff})
	if err != nil {
		return "", githubError("get_commit_diff", err)
	}
	return raw, nil
}

func toRemoteRepository(r *github.Repository) model.RemoteRepository {
	return model.RemoteRepository{
		ExternalID:    strconv.FormatInt(r.GetID(), 10),
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		DefaultBranch: r.GetDefaultBranch(),
		URL:           r.GetHTMLURL(),
	}
}

// toRemoteCommit translates a github.RepositoryCommit to our model. Merge commits have more than one parent.
func toRemoteCommit(c *github.RepositoryCommit) model.RemoteCommit {
	return model.RemoteCommit{
		SHA:           c.GetSHA(),
		Message:       c.GetCommit().GetMessage(),
		AuthorName:    c.GetCommit().GetAuthor().GetName(),
		AuthorEmail:   c.GetCommit().GetAuthor().GetEmail(),
		CommittedAt:   c.GetCommit().GetAuthor().GetDate().Time,
		IsMergeCommit: len(c.Parents) > 1,
	}
}

func splitFullName(repo RepoRef) (string, string, error) {
	owner, name, ok := strings.Cut(repo.FullName, "/")
	if !ok || owner == "" || name == "" {
		return "", "", &custom_errors.ProviderError{
			Platform:  string(model.KindGitHub),
			Operation: "resolve_repository",
			Message:   fmt.Sprintf("repository name %q is not in owner/name form", repo.FullName),
		}
	}
	return owner, name, nil
}

// githubError keeps GitHub's own message and status code.
func githubError(op string, err error) error {
	pe := &custom_errors.ProviderError{Platform: string(model.KindGitHub), Operation: op, Err: err}
	var rateErr *github.RateLimitError
	var respErr *github.ErrorResponse
	switch {
	case errors.As(err, &rateErr):
		pe.Message = rateErr.Message
		if rateErr.Response != nil {
			pe.StatusCode = rateErr.Response.StatusCode
		}
	case errors.As(err, &respErr):
		pe.Message = respErr.Message
		if respErr.Response != nil {
			pe.StatusCode = respErr.Response.StatusCode
		}
	}
	return pe
}
