// internal/database/commits.sql.go
package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const getCommitSyncState = `-- name: GetCommitSyncState :one
SELECT c.id, c.lines_added, c.detail_complete,
       COALESCE(SUM(f.lines_added), 0)::int AS file_lines_added,
       COUNT(f.id)::int AS file_count
FROM commits c
LEFT JOIN commit_files f ON f.commit_id = c.id
WHERE c.repository_id = $1 AND c.sha = $2
GROUP BY c.id
`

type GetCommitSyncStateParams struct {
	RepositoryID int64  `json:"repository_id"`
	Sha          string `json:"sha"`
}

type GetCommitSyncStateRow struct {
	ID             int64       `json:"id"`
	LinesAdded     int32       `json:"lines_added"`
	DetailComplete pgtype.Bool `json:"detail_complete"`
	FileLinesAdded int32       `json:"file_lines_added"`
	FileCount      int32       `json:"file_count"`
}

func (q *Queries) GetCommitSyncState(ctx context.Context, arg GetCommitSyncStateParams) (GetCommitSyncStateRow, error) {
	row := q.db.QueryRow(ctx, getCommitSyncState, arg.RepositoryID, arg.Sha)
	var i GetCommitSyncStateRow
	err := row.Scan(
		&i.ID,
		&i.LinesAdded,
		&i.DetailComplete,
		&i.FileLinesAdded,
		&i.FileCount,
	)
	return i, err
}

const upsertCommit = `-- name: UpsertCommit :one
INSERT INTO commits (
    repository_id, sha, message, author_name, author_email, committed_at,
    lines_added, lines_removed, lines_net, files_changed, is_merge_commit,
    stats_estimated, detail_complete
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (repository_id, sha) DO UPDATE SET
    message = EXCLUDED.message,
    author_name = EXCLUDED.author_name,
    author_email = EXCLUDED.author_email,
    committed_at = EXCLUDED.committed_at,
    lines_added = EXCLUDED.lines_added,
    lines_removed = EXCLUDED.lines_removed,
    lines_net = EXCLUDED.lines_net,
    files_changed = EXCLUDED.files_changed,
    is_merge_commit = EXCLUDED.is_merge_commit,
    stats_estimated = EXCLUDED.stats_estimated,
    detail_complete = EXCLUDED.detail_complete,
    updated_at = NOW()
RETURNING id
`

type UpsertCommitParams struct {
	RepositoryID   int64       `json:"repository_id"`
	Sha            string      `json:"sha"`
	Message        string      `json:"message"`
	AuthorName     string      `json:"author_name"`
	AuthorEmail    string      `json:"author_email"`
	CommittedAt    time.Time   `json:"committed_at"`
	LinesAdded     int32       `json:"lines_added"`
	LinesRemoved   int32       `json:"lines_removed"`
	LinesNet       int32       `json:"lines_net"`
	FilesChanged   int32       `json:"files_changed"`
	IsMergeCommit  bool        `json:"is_merge_commit"`
	StatsEstimated bool        `json:"stats_estimated"`
	DetailComplete pgtype.Bool `json:"detail_complete"`
}

// UpsertCommit leaves developer_id alone so attribution survives reprocessing.
func (q *Queries) UpsertCommit(ctx context.Context, arg UpsertCommitParams) (int64, error) {
	row := q.db.QueryRow(ctx, upsertCommit,
		arg.RepositoryID,
		arg.Sha,
		arg.Message,
		arg.AuthorName,
		arg.AuthorEmail,
		arg.CommittedAt,
		arg.LinesAdded,
		arg.LinesRemoved,
		arg.LinesNet,
		arg.FilesChanged,
		arg.IsMergeCommit,
		arg.StatsEstimated,
		arg.DetailComplete,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const deleteCommitFiles = `-- name: DeleteCommitFiles :exec
DELETE FROM commit_files WHERE commit_id = $1
`

func (q *Queries) DeleteCommitFiles(ctx context.Context, commitID int64) error {
	_, err := q.db.Exec(ctx, deleteCommitFiles, commitID)
	return err
}

const insertCommitFile = `-- name: InsertCommitFile :exec
INSERT INTO commit_files (commit_id, filename, status, lines_added, lines_removed, is_excluded, is_estimated)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type InsertCommitFileParams struct {
	CommitID     int64  `json:"commit_id"`
	Filename     string `json:"filename"`
	Status       string `json:"status"`
	LinesAdded   int32  `json:"lines_added"`
	LinesRemoved int32  `json:"lines_removed"`
	IsExcluded   bool   `json:"is_excluded"`
	IsEstimated  bool   `json:"is_estimated"`
}

func (q *Queries) InsertCommitFile(ctx context.Context, arg InsertCommitFileParams) error {
	_, err := q.db.Exec(ctx, insertCommitFile,
		arg.CommitID,
		arg.Filename,
		arg.Status,
		arg.LinesAdded,
		arg.LinesRemoved,
		arg.IsExcluded,
		arg.IsEstimated,
	)
	return err
}

const listCommitFiles = `-- name: ListCommitFiles :many
SELECT id, commit_id, filename, status, lines_added, lines_removed, is_excluded, is_estimated
FROM commit_files
WHERE commit_id = $1
ORDER BY id
`

func (q *Queries) ListCommitFiles(ctx context.Context, commitID int64) ([]CommitFile, error) {
	rows, err := q.db.Query(ctx, listCommitFiles, commitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CommitFile
	for rows.Next() {
		var i CommitFile
		if err := rows.Scan(
			&i.ID,
			&i.CommitID,
			&i.Filename,
			&i.Status,
			&i.LinesAdded,
			&i.LinesRemoved,
			&i.IsExcluded,
			&i.IsEstimated,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteCommitFlags = `-- name: DeleteCommitFlags :exec
DELETE FROM commit_flags WHERE commit_id = $1
`

func (q *Queries) DeleteCommitFlags(ctx context.Context, commitID int64) error {
	_, err := q.db.Exec(ctx, deleteCommitFlags, commitID)
	return err
}

const insertCommitFlag = `-- name: InsertCommitFlag :exec
INSERT INTO commit_flags (commit_id, flag_type, details)
VALUES ($1, $2, $3)
`

type InsertCommitFlagParams struct {
	CommitID int64           `json:"commit_id"`
	FlagType string          `json:"flag_type"`
	Details  json.RawMessage `json:"details"`
}

func (q *Queries) InsertCommitFlag(ctx context.Context, arg InsertCommitFlagParams) error {
	_, err := q.db.Exec(ctx, insertCommitFlag, arg.CommitID, arg.FlagType, arg.Details)
	return err
}

const listCommitFlags = `-- name: ListCommitFlags :many
SELECT id, commit_id, flag_type, details, created_at
FROM commit_flags
WHERE commit_id = $1
ORDER BY id
`

func (q *Queries) ListCommitFlags(ctx context.Context, commitID int64) ([]CommitFlag, error) {
	rows, err := q.db.Query(ctx, listCommitFlags, commitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CommitFlag
	for rows.Next() {
		var i CommitFlag
		if err := rows.Scan(
			&i.ID,
			&i.CommitID,
			&i.FlagType,
			&i.Details,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getCommitForAnalysis = `-- name: GetCommitForAnalysis :one
SELECT c.id, c.repository_id, c.sha, c.message, c.lines_added, c.lines_removed, c.files_changed,
       r.platform_id, r.external_id AS repo_external_id, r.full_name AS repo_full_name
FROM commits c
JOIN repositories r ON r.id = c.repository_id
WHERE c.id = $1
`

type GetCommitForAnalysisRow struct {
	ID             int64  `json:"id"`
	RepositoryID   int64  `json:"repository_id"`
	Sha            string `json:"sha"`
	Message        string `json:"message"`
	LinesAdded     int32  `json:"lines_added"`
	LinesRemoved   int32  `json:"lines_removed"`
	FilesChanged   int32  `json:"files_changed"`
	PlatformID     int64  `json:"platform_id"`
	RepoExternalID string `json:"repo_external_id"`
	RepoFullName   string `json:"repo_full_name"`
}

func (q *Queries) GetCommitForAnalysis(ctx context.Context, id int64) (GetCommitForAnalysisRow, error) {
	row := q.db.QueryRow(ctx, getCommitForAnalysis, id)
	var i GetCommitForAnalysisRow
	err := row.Scan(
		&i.ID,
		&i.RepositoryID,
		&i.Sha,
		&i.Message,
		&i.LinesAdded,
		&i.LinesRemoved,
		&i.FilesChanged,
		&i.PlatformID,
		&i.RepoExternalID,
		&i.RepoFullName,
	)
	return i, err
}

const listCommitsByRepository = `-- name: ListCommitsByRepository :many
SELECT id, repository_id, sha, message, author_name, author_email, committed_at, lines_added,
       lines_removed, lines_net, files_changed, is_merge_commit, developer_id, stats_estimated,
       detail_complete, created_at, updated_at
FROM commits
WHERE repository_id = $1
ORDER BY committed_at DESC, id DESC
LIMIT $2 OFFSET $3
`

type ListCommitsByRepositoryParams struct {
	RepositoryID int64 `json:"repository_id"`
	Limit        int32 `json:"limit"`
	Offset       int32 `json:"offset"`
}

func (q *Queries) ListCommitsByRepository(ctx context.Context, arg ListCommitsByRepositoryParams) ([]Commit, error) {
	rows, err := q.db.Query(ctx, listCommitsByRepository, arg.RepositoryID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Commit
	for rows.Next() {
		var i Commit
		if err := rows.Scan(
			&i.ID,
			&i.RepositoryID,
			&i.Sha,
			&i.Message,
			&i.AuthorName,
			&i.AuthorEmail,
			&i.CommittedAt,
			&i.LinesAdded,
			&i.LinesRemoved,
			&i.LinesNet,
			&i.FilesChanged,
			&i.IsMergeCommit,
			&i.DeveloperID,
			&i.StatsEstimated,
			&i.DetailComplete,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
