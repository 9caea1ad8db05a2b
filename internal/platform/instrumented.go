// internal/platform/instrumented.go
package platform

import (
	"context"
	"time"

	"commitlens/internal/metrics"
	"commitlens/internal/model"
)

// instrumentedClient records a metric for every provider call.
type instrumentedClient struct {
	next Client
	name string
}

// Instrument wraps c so each call is counted and timed under the platform name.
func Instrument(c Client, name string) Client {
	return &instrumentedClient{next: c, name: name}
}

func (i *instrumentedClient) observe(op string, start time.Time, err error) {
	metrics.ObserveProviderCall(i.name, op, err, time.Since(start))
}

func (i *instrumentedClient) Kind() model.PlatformKind {
	return i.next.Kind()
}

func (i *instrumentedClient) TestConnection(ctx context.Context) model.ConnectionResult {
	start := time.Now()
	res := i.next.TestConnection(ctx)
	var err error
	if !res.Success {
		err = errConnectionFailed
	}
	i.observe("test_connection", start, err)
	return res
}

func (i *instrumentedClient) ListRepositories(ctx context.Context) ([]model.RemoteRepository, error) {
	start := time.Now()
	repos, err := i.next.ListRepositories(ctx)
	i.observe("list_repositories", start, err)
	return repos, err
}

func (i *instrumentedClient) ListBranches(ctx context.Context, repo RepoRef) ([]model.RemoteBranch, error) {
	start := time.Now()
	branches, err := i.next.ListBranches(ctx, repo)
	i.observe("list_branches", start, err)
	return branches, err
}

func (i *instrumentedClient) ListCommits(ctx context.Context, repo RepoRef, branch string, from, to time.Time) ([]model.RemoteCommit, error) {
	start := time.Now()
	commits, err := i.next.ListCommits(ctx, repo, branch, from, to)
	i.observe("list_commits", start, err)
	return commits, err
}

func (i *instrumentedClient) GetCommitDetails(ctx context.Context, repo RepoRef, sha string) (*model.CommitDetails, error) {
	start := time.Now()
	details, err := i.next.GetCommitDetails(ctx, repo, sha)
	i.observe("get_commit_details", start, err)
	return details, err
}

func (i *instrumentedClient) GetCommitDiff(ctx context.Context, repo RepoRef, sha string) (string, error) {
	start := time.Now()
	diff, err := i.next.GetCommitDiff(ctx, repo, sha)
	i.observe("get_commit_diff", start, err)
	return diff, err
}
