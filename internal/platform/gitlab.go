// internal/platform/gitlab.go
package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"commitlens/internal/config"
	custom_errors "commitlens/internal/errors"
	"commitlens/internal/model"
)

const gitlabDefaultURL = "https://gitlab.com"

// GitLabClient talks to gitlab.com or a self-managed instance with a private token.
type GitLabClient struct {
	gl             *gitlab.Client
	logger         *slog.Logger
	connectTimeout time.Duration
}

func NewGitLabClient(cfg config.PlatformConfig, opts Options) (*GitLabClient, error) {
	opts = opts.withDefaults()
	base := cfg.BaseURL
	if base == "" {
		base = gitlabDefaultURL
	}
	gl, err := gitlab.NewClient(cfg.Token,
		gitlab.WithBaseURL(base),
		gitlab.WithHTTPClient(&http.Client{Timeout: opts.Timeout}),
		gitlab.WithCustomRetryMax(0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gitlab client: %w", err)
	}
	return &GitLabClient{
		gl:             gl,
		logger:         opts.Logger,
		connectTimeout: opts.ConnectTimeout,
	}, nil
}

func (c *GitLabClient) Kind() model.PlatformKind {
	return model.KindGitLab
}

func (c *GitLabClient) TestConnection(ctx context.Context) model.ConnectionResult {
	ctx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	user, _, err := c.gl.Users.CurrentUser(gitlab.WithContext(ctx))
	if err != nil {
		return model.ConnectionResult{Success: false, Message: gitlabError("test_connection", err).Error()}
	}
	return model.ConnectionResult{Success: true, Message: "Connected as " + user.Username}
}

// ListRepositories lists projects the token is a member of.
func (c *GitLabClient) ListRepositories(ctx context.Context) ([]model.RemoteRepository, error) {
	var all []model.RemoteRepository
	opts := &gitlab.ListProjectsOptions{
		Membership:  gitlab.Ptr(true),
		ListOptions: gitlab.ListOptions{PerPage: pageSize},
	}
	for {
		c.logger.Debug("Fetching projects page", "page", opts.Page)
		projects, resp, err := c.gl.Projects.ListProjects(opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, gitlabError("list_repositories", err)
		}
		for _, p := range projects {
			all = append(all, model.RemoteRepository{
				ExternalID:    fmt.Sprint(p.ID),
				Name:          p.Name,
				FullName:      p.PathWithNamespace,
				DefaultBranch: p.DefaultBranch,
				URL:           p.WebURL,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

func (c *GitLabClient) ListBranches(ctx context.Context, repo RepoRef) ([]model.RemoteBranch, error) {
	var all []model.RemoteBranch
	opts := &gitlab.ListBranchesOptions{ListOptions: gitlab.ListOptions{PerPage: pageSize}}
	for {
		branches, resp, err := c.gl.Branches.ListBranches(repo.ExternalID, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, gitlabError("list_branches", err)
		}
		for _, b := range branches {
			rb := model.RemoteBranch{Name: b.Name}
			if b.Commit != nil {
				rb.HeadSHA = b.Commit.ID
			}
			all = append(all, rb)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

func (c *GitLabClient) ListCommits(ctx context.Context, repo RepoRef, branch string, from, to time.Time) ([]model.RemoteCommit, error) {
	var all []model.RemoteCommit
	opts := &gitlab.ListCommitsOptions{
		RefName:     gitlab.Ptr(branch),
		ListOptions: gitlab.ListOptions{PerPage: pageSize},
	}
	if !from.IsZero() {
		opts.Since = gitlab.Ptr(from)
	}
	if !to.IsZero() {
		opts.Until = gitlab.Ptr(to)
	}
	for {
		c.logger.Debug("Fetching commits page", "repo", repo.FullName, "branch", branch, "page", opts.Page)
		commits, resp, err := c.gl.Commits.ListCommits(repo.ExternalID, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, gitlabError("list_commits", err)
		}
		for _, gc := range commits {
			rc := model.RemoteCommit{
				SHA:           gc.ID,
				Message:       gc.Message,
				AuthorName:    gc.AuthorName,
				AuthorEmail:   gc.AuthorEmail,
				IsMergeCommit: len(gc.ParentIDs) > 1,
			}
			switch {
			case gc.AuthoredDate != nil:
				rc.CommittedAt = *gc.AuthoredDate
			case gc.CommittedDate != nil:
				rc.CommittedAt = *gc.CommittedDate
			}
			all = append(all, rc)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// GetCommitDetails takes totals from the commit stats and exact per-file counts from the commit diff.
func (c *GitLabClient) GetCommitDetails(ctx context.Context, repo RepoRef, sha string) (*model.CommitDetails, error) {
	commit, _, err := c.gl.Commits.GetCommit(repo.ExternalID, sha, &gitlab.GetCommitOptions{Stats: gitlab.Ptr(true)}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, gitlabError("get_commit_details", err)
	}
	diffs, err := c.listDiffs(ctx, repo, sha)
	if err != nil {
		return nil, err
	}

	details := &model.CommitDetails{FilesChanged: len(diffs)}
	if commit.Stats != nil {
		details.LinesAdded = commit.Stats.Additions
		details.LinesRemoved = commit.Stats.Deletions
	}
	var diff strings.Builder
	for _, d := range diffs {
		added, removed := countPatchLines(d.Diff)
		details.Files = append(details.Files, model.FileChange{
			Filename:     d.NewPath,
			Status:       gitlabStatus(d),
			LinesAdded:   added,
			LinesRemoved: removed,
		})
		if d.Diff != "" {
			diff.WriteString(fileDiffHeader(d.OldPath, d.NewPath))
			diff.WriteString(d.Diff)
			if !strings.HasSuffix(d.Diff, "\n") {
				diff.WriteString("\n")
			}
		}
	}
	details.Diff = diff.String()
	return details, nil
}

func (c *GitLabClient) GetCommitDiff(ctx context.Context, repo RepoRef, sha string) (string, error) {
	diffs, err := c.listDiffs(ctx, repo, sha)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, d := range diffs {
		b.WriteString(fileDiffHeader(d.OldPath, d.NewPath))
		b.WriteString(d.Diff)
		if !strings.HasSuffix(d.Diff, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

func (c *GitLabClient) listDiffs(ctx context.Context, repo RepoRef, sha string) ([]*gitlab.Diff, error) {
	var all []*gitlab.Diff
	opts := &gitlab.GetCommitDiffOptions{ListOptions: gitlab.ListOptions{PerPage: pageSize}}
	for {
		diffs, resp, err := c.gl.Commits.GetCommitDiff(repo.ExternalID, sha, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, gitlabError("get_commit_diff", err)
		}
		all = append(all, diffs...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

func gitlabStatus(d *gitlab.Diff) string {
	switch {
	case d.NewFile:
		return model.FileAdded
	case d.DeletedFile:
		return model.FileDeleted
	case d.RenamedFile:
		return model.FileRenamed
	default:
		return model.FileModified
	}
}

// gitlabError keeps GitLab's own message and status code.
func gitlabError(op string, err error) error {
	pe := &custom_errors.ProviderError{Platform: string(model.KindGitLab), Operation: op, Err: err}
	var respErr *gitlab.ErrorResponse
	if errors.As(err, &respErr) {
		pe.Message = respErr.Message
		if respErr.Response != nil {
			pe.StatusCode = respErr.Response.StatusCode
		}
	}
	return pe
}
