// internal/model/models.go
package model

import (
	"time"
)

// RemoteRepository is a repository as reported by a hosting provider, normalized across providers.
type RemoteRepository struct {
	ExternalID    string
	Name          string
	FullName      string
	DefaultBranch string
	URL           string
}

// RemoteBranch is a branch ref as reported by a hosting provider.
type RemoteBranch struct {
	Name    string
	HeadSHA string
}

// RemoteCommit is the list-level view of a commit. It never carries diff content.
type RemoteCommit struct {
	SHA           string
	Message       string
	AuthorName    string
	AuthorEmail   string
	CommittedAt   time.Time
	IsMergeCommit bool
}

// File change statuses shared by every provider.
const (
	FileAdded    = "added"
	FileModified = "modified"
	FileDeleted  = "deleted"
	FileRenamed  = "renamed"
)

type FileChange struct {
	Filename     string
	Status       string
	LinesAdded   int
	LinesRemoved int
	// Estimated is set when the provider could not report exact line counts for this file.
	Estimated bool
}

// CommitDetails carries the file-level breakdown of one commit.
type CommitDetails struct {
	FilesChanged int
	LinesAdded   int
	LinesRemoved int
	Files        []FileChange
	Estimated    bool
	// Diff holds unified diff text when the provider returned it alongside the details.
	Diff string
}

type ConnectionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Progress event types emitted during a sync run.
const (
	EventRunStarted        = "run_started"
	EventPlatformStarted   = "platform_started"
	EventRepositoryStarted = "repository_started"
	EventBranchStarted     = "branch_started"
	EventCommitProgress    = "commit_progress"
	EventBranchFinished    = "branch_finished"
	EventResolveStarted    = "resolve_started"
	EventRunFinished       = "run_finished"
	EventError             = "error"
)

// ProgressEvent is a discrete progress notification from the sync orchestrator.
type ProgressEvent struct {
	Type       string `json:"type"`
	RunID      string `json:"run_id"`
	Current    int    `json:"current"`
	Total      int    `json:"total"`
	Platform   string `json:"platform,omitempty"`
	Repository string `json:"repository,omitempty"`
	Branch     string `json:"branch,omitempty"`
	Message    string `json:"message,omitempty"`
}

// PlatformKind names a supported hosting provider.
type PlatformKind string

const (
	KindGitHub      PlatformKind = "github"
	KindGitLab      PlatformKind = "gitlab"
	KindAzureDevOps PlatformKind = "azure_devops"
)

// Valid reports whether k is one of the supported provider kinds.
func (k PlatformKind) Valid() bool {
	switch k {
	case KindGitHub, KindGitLab, KindAzureDevOps:
		return true
	}
	return false
}
