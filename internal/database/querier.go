// internal/database/querier.go
package database

import (
	"context"
)

type Querier interface {
	AttributeUnassignedCommits(ctx context.Context) (int64, error)
	CountCommitsByDeveloper(ctx context.Context, developerID int64) (int64, error)
	CreateDeveloper(ctx context.Context, name string) (Developer, error)
	CreateDeveloperIdentity(ctx context.Context, arg CreateDeveloperIdentityParams) (DeveloperIdentity, error)
	DeleteCommitFiles(ctx context.Context, commitID int64) error
	DeleteCommitFlags(ctx context.Context, commitID int64) error
	DeleteDeveloper(ctx context.Context, id int64) (int64, error)
	GetCommitForAnalysis(ctx context.Context, id int64) (GetCommitForAnalysisRow, error)
	GetCommitSyncState(ctx context.Context, arg GetCommitSyncStateParams) (GetCommitSyncStateRow, error)
	GetDeveloper(ctx context.Context, id int64) (Developer, error)
	GetLastSuccessfulSync(ctx context.Context, arg GetLastSuccessfulSyncParams) (SyncLog, error)
	InsertCommitFile(ctx context.Context, arg InsertCommitFileParams) error
	InsertCommitFlag(ctx context.Context, arg InsertCommitFlagParams) error
	InsertSyncLog(ctx context.Context, arg InsertSyncLogParams) (int64, error)
	ListBranchesByRepository(ctx context.Context, repositoryID int64) ([]Branch, error)
	ListCommitFiles(ctx context.Context, commitID int64) ([]CommitFile, error)
	ListCommitFlags(ctx context.Context, commitID int64) ([]CommitFlag, error)
	ListCommitsByRepository(ctx context.Context, arg ListCommitsByRepositoryParams) ([]Commit, error)
	ListDeveloperIdentities(ctx context.Context) ([]DeveloperIdentity, error)
	ListDevelopers(ctx context.Context) ([]ListDevelopersRow, error)
	ListEnabledPlatforms(ctx context.Context) ([]Platform, error)
	ListIdentitiesByDeveloper(ctx context.Context, developerID int64) ([]DeveloperIdentity, error)
	ListSelectedRepositories(ctx context.Context) ([]Repository, error)
	ListUnattributedAuthors(ctx context.Context) ([]ListUnattributedAuthorsRow, error)
	MostFrequentIdentityName(ctx context.Context, developerID int64) (string, error)
	ReassignDeveloperCommits(ctx context.Context, arg ReassignDeveloperParams) (int64, error)
	ReassignDeveloperIdentities(ctx context.Context, arg ReassignDeveloperParams) (int64, error)
	SetDeveloperActive(ctx context.Context, arg SetDeveloperActiveParams) (int64, error)
	SetRepositorySelected(ctx context.Context, arg SetRepositorySelectedParams) (int64, error)
	TouchBranchSynced(ctx context.Context, id int64) error
	TouchRepositorySynced(ctx context.Context, id int64) error
	UpdateDeveloperName(ctx context.Context, arg UpdateDeveloperNameParams) (int64, error)
	UpsertBranch(ctx context.Context, arg UpsertBranchParams) (Branch, error)
	UpsertCommit(ctx context.Context, arg UpsertCommitParams) (int64, error)
	UpsertPlatform(ctx context.Context, arg UpsertPlatformParams) (Platform, error)
	UpsertRepository(ctx context.Context, arg UpsertRepositoryParams) (Repository, error)
}

var _ Querier = (*Queries)(nil)
