//go:build integration

// cmd/commitlens/integration_test.go
package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"commitlens/internal/database"
	"commitlens/internal/identity"
	"commitlens/internal/model"
	"commitlens/internal/platform"
	"commitlens/internal/syncer"
)

func setupTestDatabase(ctx context.Context, t *testing.T) (*pgxpool.Pool, func()) {
	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.Migrate(connStr))
	// A second run is a no-op.
	require.NoError(t, database.Migrate(connStr))

	dbpool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	teardown := func() {
		dbpool.Close()
		require.NoError(t, pgContainer.Terminate(ctx))
	}
	return dbpool, teardown
}

// stubClient serves a fixed repository with one branch and three commits.
type stubClient struct {
	commits []model.RemoteCommit
}

func (s *stubClient) Kind() model.PlatformKind { return model.KindGitLab }

func (s *stubClient) TestConnection(context.Context) model.ConnectionResult {
	return model.ConnectionResult{Success: true, Message: "ok"}
}

func (s *stubClient) ListRepositories(context.Context) ([]model.RemoteRepository, error) {
	return []model.RemoteRepository{{ExternalID: "77", Name: "api", FullName: "acme/api", DefaultBranch: "main", URL: "https://gitlab.example/acme/api"}}, nil
}

func (s *stubClient) ListBranches(context.Context, platform.RepoRef) ([]model.RemoteBranch, error) {
	return []model.RemoteBranch{{Name: "main", HeadSHA: "c3"}}, nil
}

func (s *stubClient) ListCommits(_ context.Context, _ platform.RepoRef, _ string, from, to time.Time) ([]model.RemoteCommit, error) {
	var out []model.RemoteCommit
	for _, c := range s.commits {
		if !c.CommittedAt.Before(from) && !c.CommittedAt.After(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubClient) GetCommitDetails(_ context.Context, _ platform.RepoRef, sha string) (*model.CommitDetails, error) {
	return &model.CommitDetails{
		FilesChanged: 1,
		LinesAdded:   3,
		LinesRemoved: 1,
		Files:        []model.FileChange{{Filename: "main.go", Status: model.FileModified, LinesAdded: 3, LinesRemoved: 1}},
	}, nil
}

func (s *stubClient) GetCommitDiff(context.Context, platform.RepoRef, string) (string, error) {
	return "", nil
}

func TestSync_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	dbpool, teardown := setupTestDatabase(ctx, t)
	defer teardown()

	store := database.NewStore(dbpool)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	p, err := store.UpsertPlatform(ctx, database.UpsertPlatformParams{Name: "gitlab", Kind: string(model.KindGitLab), Token: "t", Enabled: true})
	require.NoError(t, err)

	client := &stubClient{commits: []model.RemoteCommit{
		{SHA: "c1", Message: "feat: add invoices endpoint", AuthorName: "Ana Souza", AuthorEmail: "ana@acme.io", CommittedAt: time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)},
		{SHA: "c2", Message: "fix", AuthorName: "Ana S.", AuthorEmail: "ANA@acme.io", CommittedAt: time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC)},
		{SHA: "c3", Message: "refactor: split handlers", AuthorName: "Bruno Lima", AuthorEmail: "bruno@acme.io", CommittedAt: time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)},
	}}
	resolver := identity.NewResolver(store, logger)
	s := syncer.NewSyncer(store, map[int64]platform.Client{p.ID: client}, resolver, logger, syncer.Options{
		RepoConcurrency:   2,
		CommitConcurrency: 2,
		SyncWindow:        30 * 24 * time.Hour,
	})

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	res, err := s.SyncAll(ctx, syncer.CommitSyncOptions{From: from, To: to})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Repositories.Success)
	assert.Equal(t, 1, res.Branches.Success)
	assert.Equal(t, 3, res.Commits.Success)
	assert.Empty(t, res.Commits.Errors)

	repos, err := store.ListSelectedRepositories(ctx)
	require.NoError(t, err)
	require.Len(t, repos, 1)

	commits, err := store.ListCommitsByRepository(ctx, database.ListCommitsByRepositoryParams{RepositoryID: repos[0].ID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, commits, 3)
	assert.Equal(t, "c3", commits[0].Sha) // Order is by date DESC
	for _, c := range commits {
		assert.True(t, c.DeveloperID.Valid, "commit %s attributed", c.Sha)
		assert.Equal(t, int32(2), c.LinesNet)
	}
	assert.Equal(t, commits[1].DeveloperID, commits[2].DeveloperID, "case-insensitive email is one developer")

	files, err := store.ListCommitFiles(ctx, commits[0].ID)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "main.go", files[0].Filename)

	// "fix" with 4 lines changed is a small vague commit.
	flags, err := store.ListCommitFlags(ctx, commits[1].ID)
	require.NoError(t, err)
	require.Len(t, flags, 1)
	assert.Equal(t, "small_vague_commit", flags[0].FlagType)

	devs, err := resolver.Developers(ctx)
	require.NoError(t, err)
	assert.Len(t, devs, 2)

	// A rerun resumes from the last successful window and stores nothing twice.
	res, err = s.SyncAll(ctx, syncer.CommitSyncOptions{From: from, To: to})
	require.NoError(t, err)
	assert.Zero(t, res.Commits.Success)
	commits, err = store.ListCommitsByRepository(ctx, database.ListCommitsByRepositoryParams{RepositoryID: repos[0].ID, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, commits, 3)

	// Merging moves every commit to the target and removes the source.
	merged, err := resolver.Merge(ctx, commits[0].DeveloperID.Int64, commits[1].DeveloperID.Int64)
	require.NoError(t, err)
	assert.Equal(t, int64(1), merged.CommitsReassigned)
	assert.Equal(t, int64(3), merged.TargetCommitsAfter)
	devs, err = resolver.Developers(ctx)
	require.NoError(t, err)
	assert.Len(t, devs, 1)
}
