// internal/database/models.go
package database

import (
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type Platform struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	BaseUrl   string    `json:"base_url"`
	Token     string    `json:"-"`
	Username  string    `json:"username"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Repository struct {
	ID            int64              `json:"id"`
	PlatformID    int64              `json:"platform_id"`
	ExternalID    string             `json:"external_id"`
	Name          string             `json:"name"`
	FullName      string             `json:"full_name"`
	DefaultBranch string             `json:"default_branch"`
	Url           string             `json:"url"`
	IsSelected    bool               `json:"is_selected"`
	LastSyncedAt  pgtype.Timestamptz `json:"last_synced_at"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type Branch struct {
	ID           int64              `json:"id"`
	RepositoryID int64              `json:"repository_id"`
	Name         string             `json:"name"`
	HeadSha      string             `json:"head_sha"`
	LastSyncedAt pgtype.Timestamptz `json:"last_synced_at"`
	CreatedAt    time.Time          `json:"created_at"`
}

type Developer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DeveloperIdentity struct {
	ID          int64     `json:"id"`
	DeveloperID int64     `json:"developer_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}

type Commit struct {
	ID             int64       `json:"id"`
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
	DeveloperID    pgtype.Int8 `json:"developer_id"`
	StatsEstimated bool        `json:"stats_estimated"`
	DetailComplete pgtype.Bool `json:"detail_complete"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

type CommitFile struct {
	ID           int64  `json:"id"`
	CommitID     int64  `json:"commit_id"`
	Filename     string `json:"filename"`
	Status       string `json:"status"`
	LinesAdded   int32  `json:"lines_added"`
	LinesRemoved int32  `json:"lines_removed"`
	IsExcluded   bool   `json:"is_excluded"`
	IsEstimated  bool   `json:"is_estimated"`
}

type CommitFlag struct {
	ID        int64           `json:"id"`
	CommitID  int64           `json:"commit_id"`
	FlagType  string          `json:"flag_type"`
	Details   json.RawMessage `json:"details"`
	CreatedAt time.Time       `json:"created_at"`
}

type SyncLog struct {
	ID               int64              `json:"id"`
	RepositoryID     int64              `json:"repository_id"`
	BranchID         pgtype.Int8        `json:"branch_id"`
	SyncType         string             `json:"sync_type"`
	FromDate         pgtype.Timestamptz `json:"from_date"`
	ToDate           pgtype.Timestamptz `json:"to_date"`
	Status           string             `json:"status"`
	ErrorMessage     string             `json:"error_message"`
	CommitsProcessed int32              `json:"commits_processed"`
	StartedAt        time.Time          `json:"started_at"`
	FinishedAt       time.Time          `json:"finished_at"`
}
