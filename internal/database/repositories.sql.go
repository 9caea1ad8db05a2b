// internal/database/repositories.sql.go
package database

import (
	"context"
)

const upsertRepository = `-- name: UpsertRepository :one
INSERT INTO repositories (platform_id, external_id, name, full_name, default_branch, url)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (platform_id, external_id) DO UPDATE SET
    name = EXCLUDED.name,
    full_name = EXCLUDED.full_name,
    default_branch = EXCLUDED.default_branch,
    url = EXCLUDED.url,
    updated_at = NOW()
RETURNING id, platform_id, external_id, name, full_name, default_branch, url, is_selected, last_synced_at, created_at, updated_at
`

type UpsertRepositoryParams struct {
	PlatformID    int64  `json:"platform_id"`
	ExternalID    string `json:"external_id"`
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Url           string `json:"url"`
}

// UpsertRepository never touches is_selected, so a user's selection survives re-listing.
func (q *Queries) UpsertRepository(ctx context.Context, arg UpsertRepositoryParams) (Repository, error) {
	row := q.db.QueryRow(ctx, upsertRepository,
		arg.PlatformID,
		arg.ExternalID,
		arg.Name,
		arg.FullName,
		arg.DefaultBranch,
		arg.Url,
	)
	var i Repository
	err := row.Scan(
		&i.ID,
		&i.PlatformID,
		&i.ExternalID,
		&i.Name,
		&i.FullName,
		&i.DefaultBranch,
		&i.Url,
		&i.IsSelected,
		&i.LastSyncedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listSelectedRepositories = `-- name: ListSelectedRepositories :many
SELECT r.id, r.platform_id, r.external_id, r.name, r.full_name, r.default_branch, r.url, r.is_selected, r.last_synced_at, r.created_at, r.updated_at
FROM repositories r
JOIN platforms p ON p.id = r.platform_id
WHERE r.is_selected AND p.enabled
ORDER BY r.platform_id, r.full_name
`

func (q *Queries) ListSelectedRepositories(ctx context.Context) ([]Repository, error) {
	rows, err := q.db.Query(ctx, listSelectedRepositories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Repository
	for rows.Next() {
		var i Repository
		if err := rows.Scan(
			&i.ID,
			&i.PlatformID,
			&i.ExternalID,
			&i.Name,
			&i.FullName,
			&i.DefaultBranch,
			&i.Url,
			&i.IsSelected,
			&i.LastSyncedAt,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const setRepositorySelected = `-- name: SetRepositorySelected :execrows
UPDATE repositories SET is_selected = $2, updated_at = NOW() WHERE id = $1
`

type SetRepositorySelectedParams struct {
	ID         int64 `json:"id"`
	IsSelected bool  `json:"is_selected"`
}

func (q *Queries) SetRepositorySelected(ctx context.Context, arg SetRepositorySelectedParams) (int64, error) {
	result, err := q.db.Exec(ctx, setRepositorySelected, arg.ID, arg.IsSelected)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const touchRepositorySynced = `-- name: TouchRepositorySynced :exec
UPDATE repositories SET last_synced_at = NOW() WHERE id = $1
`

func (q *Queries) TouchRepositorySynced(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, touchRepositorySynced, id)
	return err
}

const upsertBranch = `-- name: UpsertBranch :one
INSERT INTO branches (repository_id, name, head_sha)
VALUES ($1, $2, $3)
ON CONFLICT (repository_id, name) DO UPDATE SET
    head_sha = CASE WHEN EXCLUDED.head_sha = '' THEN branches.head_sha ELSE EXCLUDED.head_sha END
RETURNING id, repository_id, name, head_sha, last_synced_at, created_at
`

type UpsertBranchParams struct {
	RepositoryID int64  `json:"repository_id"`
	Name         string `json:"name"`
	HeadSha      string `json:"head_sha"`
}

func (q *Queries) UpsertBranch(ctx context.Context, arg UpsertBranchParams) (Branch, error) {
	row := q.db.QueryRow(ctx, upsertBranch, arg.RepositoryID, arg.Name, arg.HeadSha)
	var i Branch
	err := row.Scan(
		&i.ID,
		&i.RepositoryID,
		&i.Name,
		&i.HeadSha,
		&i.LastSyncedAt,
		&i.CreatedAt,
	)
	return i, err
}

const listBranchesByRepository = `-- name: ListBranchesByRepository :many
SELECT id, repository_id, name, head_sha, last_synced_at, created_at
FROM branches
WHERE repository_id = $1
ORDER BY name
`

func (q *Queries) ListBranchesByRepository(ctx context.Context, repositoryID int64) ([]Branch, error) {
	rows, err := q.db.Query(ctx, listBranchesByRepository, repositoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Branch
	for rows.Next() {
		var i Branch
		if err := rows.Scan(
			&i.ID,
			&i.RepositoryID,
			&i.Name,
			&i.HeadSha,
			&i.LastSyncedAt,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const touchBranchSynced = `-- name: TouchBranchSynced :exec
UPDATE branches SET last_synced_at = NOW() WHERE id = $1
`

func (q *Queries) TouchBranchSynced(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, touchBranchSynced, id)
	return err
}
