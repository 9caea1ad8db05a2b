// internal/database/sync_log.sql.go
package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const getLastSuccessfulSync = `-- name: GetLastSuccessfulSync :one
SELECT id, repository_id, branch_id, sync_type, from_date, to_date, status, error_message,
       commits_processed, started_at, finished_at
FROM sync_log
WHERE repository_id = $1
  AND branch_id = $2
  AND sync_type = $3
  AND status = 'success'
  AND to_date IS NOT NULL
ORDER BY to_date DESC, id DESC
LIMIT 1
`

type GetLastSuccessfulSyncParams struct {
	RepositoryID int64  `json:"repository_id"`
	BranchID     int64  `json:"branch_id"`
	SyncType     string `json:"sync_type"`
}

func (q *Queries) GetLastSuccessfulSync(ctx context.Context, arg GetLastSuccessfulSyncParams) (SyncLog, error) {
	row := q.db.QueryRow(ctx, getLastSuccessfulSync, arg.RepositoryID, arg.BranchID, arg.SyncType)
	var i SyncLog
	err := row.Scan(
		&i.ID,
		&i.RepositoryID,
		&i.BranchID,
		&i.SyncType,
		&i.FromDate,
		&i.ToDate,
		&i.Status,
		&i.ErrorMessage,
		&i.CommitsProcessed,
		&i.StartedAt,
		&i.FinishedAt,
	)
	return i, err
}

const insertSyncLog = `-- name: InsertSyncLog :one
INSERT INTO sync_log (repository_id, branch_id, sync_type, from_date, to_date, status, error_message, commits_processed, started_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id
`

type InsertSyncLogParams struct {
	RepositoryID     int64              `json:"repository_id"`
	BranchID         pgtype.Int8        `json:"branch_id"`
	SyncType         string             `json:"sync_type"`
	FromDate         pgtype.Timestamptz `json:"from_date"`
	ToDate           pgtype.Timestamptz `json:"to_date"`
	Status           string             `json:"status"`
	ErrorMessage     string             `json:"error_message"`
	CommitsProcessed int32              `json:"commits_processed"`
	StartedAt        time.Time          `json:"started_at"`
}

func (q *Queries) InsertSyncLog(ctx context.Context, arg InsertSyncLogParams) (int64, error) {
	row := q.db.QueryRow(ctx, insertSyncLog,
		arg.RepositoryID,
		arg.BranchID,
		arg.SyncType,
		arg.FromDate,
		arg.ToDate,
		arg.Status,
		arg.ErrorMessage,
		arg.CommitsProcessed,
		arg.StartedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}
