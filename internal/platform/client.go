// internal/platform/client.go
package platform

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"commitlens/internal/config"
	custom_errors "commitlens/internal/errors"
	"commitlens/internal/model"
)

// DiffUnavailablePrefix starts the text returned by providers that cannot produce a unified diff.
const DiffUnavailablePrefix = "Diff content is not available"

const (
	defaultTimeout        = 30 * time.Second
	defaultConnectTimeout = 10 * time.Second
	pageSize              = 100
)

var errConnectionFailed = errors.New("connection test failed")

// RepoRef identifies a repository on its provider.
type RepoRef struct {
	ExternalID string
	FullName   string
}

// Client is the capability set every hosting provider exposes.
type Client interface {
	Kind() model.PlatformKind
	// TestConnection reports auth and network failures in the result instead of returning them.
	TestConnection(ctx context.Context) model.ConnectionResult
	ListRepositories(ctx context.Context) ([]model.RemoteRepository, error)
	ListBranches(ctx context.Context, repo RepoRef) ([]model.RemoteBranch, error)
	// ListCommits returns commits on branch authored within [from, to], both inclusive.
	ListCommits(ctx context.Context, repo RepoRef, branch string, from, to time.Time) ([]model.RemoteCommit, error)
	GetCommitDetails(ctx context.Context, repo RepoRef, sha string) (*model.CommitDetails, error)
	GetCommitDiff(ctx context.Context, repo RepoRef, sha string) (string, error)
}

type Options struct {
	Logger         *slog.Logger
	Timeout        time.Duration
	ConnectTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = defaultConnectTimeout
	}
	return o
}

// New resolves a configured platform into its provider client, wrapped with metrics.
func New(cfg config.PlatformConfig, opts Options) (Client, error) {
	opts = opts.withDefaults()
	opts.Logger = opts.Logger.With("platform", cfg.Name, "kind", cfg.Kind)

	var (
		c   Client
		err error
	)
	switch model.PlatformKind(cfg.Kind) {
	case model.KindGitHub:
		c, err = NewGitHubClient(cfg, opts)
	case model.KindGitLab:
		c, err = NewGitLabClient(cfg, opts)
	case model.KindAzureDevOps:
		c, err = NewAzureDevOpsClient(cfg, opts)
	default:
		return nil, &custom_errors.ErrUnknownPlatformKind{Kind: cfg.Kind}
	}
	if err != nil {
		return nil, err
	}
	return Instrument(c, cfg.Name), nil
}

// IsPlaceholderDiff reports whether diff is the fixed text of a provider without diff support.
func IsPlaceholderDiff(diff string) bool {
	return strings.HasPrefix(diff, DiffUnavailablePrefix)
}

// normalizeStatus maps provider change types onto the shared file statuses.
func normalizeStatus(status string) string {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "rename"):
		return model.FileRenamed
	case s == "added" || s == "add" || s == "copied":
		return model.FileAdded
	case s == "removed" || s == "deleted" || s == "delete":
		return model.FileDeleted
	default:
		return model.FileModified
	}
}

// countPatchLines counts added and removed lines in the hunks of a single-file patch.
func countPatchLines(patch string) (added, removed int) {
	inHunk := false
	for _, line := range strings.Split(patch, "\n") {
		switch {
		case strings.HasPrefix(line, "@@"):
			inHunk = true
		case !inHunk:
			continue
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}
	return added, removed
}

// fileDiffHeader renders the git header so single-file patches can be joined into one diff text.
func fileDiffHeader(oldPath, newPath string) string {
	if oldPath == "" {
		oldPath = newPath
	}
	return "diff --git a/" + oldPath + " b/" + newPath + "\n--- a/" + oldPath + "\n+++ b/" + newPath + "\n"
}
