// internal/database/databasetest/queries.go
package databasetest

import (
	"context"

	"commitlens/internal/database"
)

func (s *Store) AttributeUnassignedCommits(ctx context.Context) (int64, error) {
	return locked(s, func(q *txQuerier) (int64, error) {
		return q.AttributeUnassignedCommits(ctx)
	})
}

func (s *Store) CountCommitsByDeveloper(ctx context.Context, developerID int64) (int64, error) {
	return locked(s, func(q *txQuerier) (int64, error) {
		return q.CountCommitsByDeveloper(ctx, developerID)
	})
}

func (s *Store) CreateDeveloper(ctx context.Context, name string) (database.Developer, error) {
	return locked(s, func(q *txQuerier) (database.Developer, error) {
		return q.CreateDeveloper(ctx, name)
	})
}

func (s *Store) CreateDeveloperIdentity(ctx context.Context, arg database.CreateDeveloperIdentityParams) (database.DeveloperIdentity, error) {
	return locked(s, func(q *txQuerier) (database.DeveloperIdentity, error) {
		return q.CreateDeveloperIdentity(ctx, arg)
	})
}

func (s *Store) DeleteCommitFiles(ctx context.Context, commitID int64) error {
	_, err := locked(s, func(q *txQuerier) (struct{}, error) {
		return struct{}{}, q.DeleteCommitFiles(ctx, commitID)
	})
	return err
}

func (s *Store) DeleteCommitFlags(ctx context.Context, commitID int64) error {
	_, err := locked(s, func(q *txQuerier) (struct{}, error) {
		return struct{}{}, q.DeleteCommitFlags(ctx, commitID)
	})
	return err
}

func (s *Store) DeleteDeveloper(ctx context.Context, id int64) (int64, error) {
	return locked(s, func(q *txQuerier) (int64, error) {
		return q.DeleteDeveloper(ctx, id)
	})
}

func (s *Store) GetCommitForAnalysis(ctx context.Context, id int64) (database.GetCommitForAnalysisRow, error) {
	return locked(s, func(q *txQuerier) (database.GetCommitForAnalysisRow, error) {
		return q.GetCommitForAnalysis(ctx, id)
	})
}

func (s *Store) GetCommitSyncState(ctx context.Context, arg database.GetCommitSyncStateParams) (database.GetCommitSyncStateRow, error) {
	return locked(s, func(q *txQuerier) (database.GetCommitSyncStateRow, error) {
		return q.GetCommitSyncState(ctx, arg)
	})
}

func (s *Store) GetDeveloper(ctx context.Context, id int64) (database.Developer, error) {
	return locked(s, func(q *txQuerier) (database.Developer, error) {
		return q.GetDeveloper(ctx, id)
	})
}

func (s *Store) GetLastSuccessfulSync(ctx context.Context, arg database.GetLastSuccessfulSyncParams) (database.SyncLog, error) {
	return locked(s, func(q *txQuerier) (database.SyncLog, error) {
		return q.GetLastSuccessfulSync(ctx, arg)
	})
}

func (s *Store) InsertCommitFile(ctx context.Context, arg database.InsertCommitFileParams) error {
	_, err := locked(s, func(q *txQuerier) (struct{}, error) {
		return struct{}{}, q.InsertCommitFile(ctx, arg)
	})
	return err
}

func (s *Store) InsertCommitFlag(ctx context.Context, arg database.InsertCommitFlagParams) error {
	_, err := locked(s, func(q *txQuerier) (struct{}, error) {
		return struct{}{}, q.InsertCommitFlag(ctx, arg)
	})
	return err
}

func (s *Store) InsertSyncLog(ctx context.Context, arg database.InsertSyncLogParams) (int64, error) {
	return locked(s, func(q *txQuerier) (int64, error) {
		return q.InsertSyncLog(ctx, arg)
	})
}

func (s *Store) ListBranchesByRepository(ctx context.Context, repositoryID int64) ([]database.Branch, error) {
	return locked(s, func(q *txQuerier) ([]database.Branch, error) {
		return q.ListBranchesByRepository(ctx, repositoryID)
	})
}

func (s *Store) ListCommitFiles(ctx context.Context, commitID int64) ([]database.CommitFile, error) {
	return locked(s, func(q *txQuerier) ([]database.CommitFile, error) {
		return q.ListCommitFiles(ctx, commitID)
	})
}

func (s *Store) ListCommitFlags(ctx context.Context, commitID int64) ([]database.CommitFlag, error) {
	return locked(s, func(q *txQuerier) ([]database.CommitFlag, error) {
		return q.ListCommitFlags(ctx, commitID)
	})
}

func (s *Store) ListCommitsByRepository(ctx context.Context, arg database.ListCommitsByRepositoryParams) ([]database.Commit, error) {
	return locked(s, func(q *txQuerier) ([]database.Commit, error) {
		return q.ListCommitsByRepository(ctx, arg)
	})
}

func (s *Store) ListDeveloperIdentities(ctx context.Context) ([]database.DeveloperIdentity, error) {
	return locked(s, func(q *txQuerier) ([]database.DeveloperIdentity, error) {
		return q.ListDeveloperIdentities(ctx)
	})
}

func (s *Store) ListDevelopers(ctx context.Context) ([]database.ListDevelopersRow, error) {
	return locked(s, func(q *txQuerier) ([]database.ListDevelopersRow, error) {
		return q.ListDevelopers(ctx)
	})
}

func (s *Store) ListEnabledPlatforms(ctx context.Context) ([]database.Platform, error) {
	return locked(s, func(q *txQuerier) ([]database.Platform, error) {
		return q.ListEnabledPlatforms(ctx)
	})
}

func (s *Store) ListIdentitiesByDeveloper(ctx context.Context, developerID int64) ([]database.DeveloperIdentity, error) {
	return locked(s, func(q *txQuerier) ([]database.DeveloperIdentity, error) {
		return q.ListIdentitiesByDeveloper(ctx, developerID)
	})
}

func (s *Store) ListSelectedRepositories(ctx context.Context) ([]database.Repository, error) {
	return locked(s, func(q *txQuerier) ([]database.Repository, error) {
		return q.ListSelectedRepositories(ctx)
	})
}

func (s *Store) ListUnattributedAuthors(ctx context.Context) ([]database.ListUnattributedAuthorsRow, error) {
	return locked(s, func(q *txQuerier) ([]database.ListUnattributedAuthorsRow, error) {
		return q.ListUnattributedAuthors(ctx)
	})
}

func (s *Store) MostFrequentIdentityName(ctx context.Context, developerID int64) (string, error) {
	return locked(s, func(q *txQuerier) (string, error) {
		return q.MostFrequentIdentityName(ctx, developerID)
	})
}

func (s *Store) ReassignDeveloperCommits(ctx context.Context, arg database.ReassignDeveloperParams) (int64, error) {
	return locked(s, func(q *txQuerier) (int64, error) {
		return q.ReassignDeveloperCommits(ctx, arg)
	})
}

func (s *Store) ReassignDeveloperIdentities(ctx context.Context, arg database.ReassignDeveloperParams) (int64, error) {
	return locked(s, func(q *txQuerier) (int64, error) {
		return q.ReassignDeveloperIdentities(ctx, arg)
	})
}

func (s *Store) SetDeveloperActive(ctx context.Context, arg database.SetDeveloperActiveParams) (int64, error) {
	return locked(s, func(q *txQuerier) (int64, error) {
		return q.SetDeveloperActive(ctx, arg)
	})
}

func (s *Store) SetRepositorySelected(ctx context.Context, arg database.SetRepositorySelectedParams) (int64, error) {
	return locked(s, func(q *txQuerier) (int64, error) {
		return q.SetRepositorySelected(ctx, arg)
	})
}

func (s *Store) TouchBranchSynced(ctx context.Context, id int64) error {
	_, err := locked(s, func(q *txQuerier) (struct{}, error) {
		return struct{}{}, q.TouchBranchSynced(ctx, id)
	})
	return err
}

func (s *Store) TouchRepositorySynced(ctx context.Context, id int64) error {
	_, err := locked(s, func(q *txQuerier) (struct{}, error) {
		return struct{}{}, q.TouchRepositorySynced(ctx, id)
	})
	return err
}

func (s *Store) UpdateDeveloperName(ctx context.Context, arg database.UpdateDeveloperNameParams) (int64, error) {
	return locked(s, func(q *txQuerier) (int64, error) {
		return q.UpdateDeveloperName(ctx, arg)
	})
}

func (s *Store) UpsertBranch(ctx context.Context, arg database.UpsertBranchParams) (database.Branch, error) {
	return locked(s, func(q *txQuerier) (database.Branch, error) {
		return q.UpsertBranch(ctx, arg)
	})
}

func (s *Store) UpsertCommit(ctx context.Context, arg database.UpsertCommitParams) (int64, error) {
	return locked(s, func(q *txQuerier) (int64, error) {
		return q.UpsertCommit(ctx, arg)
	})
}

func (s *Store) UpsertPlatform(ctx context.Context, arg database.UpsertPlatformParams) (database.Platform, error) {
	return locked(s, func(q *txQuerier) (database.Platform, error) {
		return q.UpsertPlatform(ctx, arg)
	})
}

func (s *Store) UpsertRepository(ctx context.Context, arg database.UpsertRepositoryParams) (database.Repository, error) {
	return locked(s, func(q *txQuerier) (database.Repository, error) {
		return q.UpsertRepository(ctx, arg)
	})
}
