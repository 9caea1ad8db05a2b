// internal/errors/errors.go
package errors

import (
	"fmt"
	"time"
)

// ErrUnknownPlatformKind is returned when a configured platform names a provider we have no client for.
type ErrUnknownPlatformKind struct {
	Kind string
}

func (e *ErrUnknownPlatformKind) Error() string {
	return fmt.Sprintf("unknown platform kind: %q, expected one of github, gitlab, azure_devops", e.Kind)
}

// ErrInvalidDateRange is returned when a sync window ends before it starts.
type ErrInvalidDateRange struct {
	From time.Time
	To   time.Time
}

func (e *ErrInvalidDateRange) Error() string {
	return fmt.Sprintf("invalid date range: from %s is after to %s", e.From.Format(time.RFC3339), e.To.Format(time.RFC3339))
}

// ErrSelfMerge is returned when a developer is merged into itself.
type ErrSelfMerge struct {
	ID int64
}

func (e *ErrSelfMerge) Error() string {
	return fmt.Sprintf("cannot merge developer %d into itself", e.ID)
}

type ErrDeveloperNotFound struct {
	ID int64
}

func (e *ErrDeveloperNotFound) Error() string {
	return fmt.Sprintf("developer %d not found", e.ID)
}

// ProviderError wraps a failed call to a hosting provider API and keeps the provider's own message.
type ProviderError struct {
	Platform   string
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %s", e.Platform, e.Operation, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s %s: %s", e.Platform, e.Operation, msg)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

type ErrRepositoryNotFound struct {
	ID int64
}

func (e *ErrRepositoryNotFound) Error() string {
	return fmt.Sprintf("repository %d not found", e.ID)
}

type ErrCommitNotFound struct {
	ID int64
}

func (e *ErrCommitNotFound) Error() string {
	return fmt.Sprintf("commit %d not found", e.ID)
}
