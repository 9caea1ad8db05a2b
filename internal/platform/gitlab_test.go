// internal/platform/gitlab_test.go
package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commitlens/internal/config"
	custom_errors "commitlens/internal/errors"
)

func setupGitLabTestClient(t *testing.T, handler http.Handler) (*GitLabClient, *httptest.Server) {
	server := httptest.NewServer(handler)

	client, err := NewGitLabClient(config.PlatformConfig{
		Name:    "gitlab-test",
		Kind:    "gitlab",
		BaseURL: server.URL,
		Token:   "glpat-test",
	}, Options{Logger: testLogger, Timeout: 5 * time.Second, ConnectTimeout: time.Second})
	require.NoError(t, err)

	return client, server
}

var glRepo = RepoRef{ExternalID: "42", FullName: "group/project"}

func TestGitLabClient_ListRepositories_Paginates(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v4/projects" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "glpat-test", r.Header.Get("PRIVATE-TOKEN"))
		assert.Equal(t, "true", r.URL.Query().Get("membership"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprintln(w, `[{"id": 43, "name": "second", "path_with_namespace": "group/second", "default_branch": "main"}]`)
			return
		}
		w.Header().Set("X-Next-Page", "2")
		fmt.Fprintln(w, `[{"id": 42, "name": "project", "path_with_namespace": "group/project", "default_branch": "main", "web_url": "https://gitlab.com/group/project"}]`)
	})
	client, server := setupGitLabTestClient(t, handler)
	defer server.Close()

	repos, err := client.ListRepositories(context.Background())

	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "42", repos[0].ExternalID)
	assert.Equal(t, "group/project", repos[0].FullName)
	assert.Equal(t, "https://gitlab.com/group/project", repos[0].URL)
	assert.Equal(t, "43", repos[1].ExternalID)
}

func TestGitLabClient_ListCommits(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v4/projects/42/repository/commits" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "main", r.URL.Query().Get("ref_name"))
		assert.Equal(t, "2024-01-01T00:00:00Z", r.URL.Query().Get("since"))
		assert.Equal(t, "2024-02-01T00:00:00Z", r.URL.Query().Get("until"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `[
			{"id": "m1", "message": "Merge branch 'x'", "author_name": "Ada", "author_email": "ada@example.com", "authored_date": "2024-01-15T10:00:00Z", "parent_ids": ["p1", "p2"]},
			{"id": "c1", "message": "fix", "author_name": "Ada", "author_email": "ada@example.com", "authored_date": "2024-01-14T09:00:00Z", "parent_ids": ["p0"]}
		]`)
	})
	client, server := setupGitLabTestClient(t, handler)
	defer server.Close()

	commits, err := client.ListCommits(context.Background(), glRepo, "main", from, to)

	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.True(t, commits[0].IsMergeCommit)
	assert.False(t, commits[1].IsMergeCommit)
	assert.Equal(t, "fix", commits[1].Message)
	assert.Equal(t, time.Date(2024, 1, 14, 9, 0, 0, 0, time.UTC), commits[1].CommittedAt.UTC())
}

func TestGitLabClient_GetCommitDetails(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v4/projects/42/repository/commits/abc":
			assert.Equal(t, "true", r.URL.Query().Get("stats"))
			fmt.Fprintln(w, `{"id": "abc", "stats": {"additions": 3, "deletions": 1, "total": 4}}`)
		case "/api/v4/projects/42/repository/commits/abc/diff":
			fmt.Fprintln(w, `[
				{"old_path": "a.go", "new_path": "a.go", "diff": "@@ -1 +1,2 @@\n-x\n+y\n+z\n"},
				{"old_path": "new.txt", "new_path": "new.txt", "new_file": true, "diff": "@@ -0,0 +1 @@\n+hello\n"},
				{"old_path": "old.md", "new_path": "docs/old.md", "renamed_file": true, "diff": ""}
			]`)
		default:
			http.NotFound(w, r)
		}
	})
	client, server := setupGitLabTestClient(t, handler)
	defer server.Close()

	details, err := client.GetCommitDetails(context.Background(), glRepo, "abc")

	require.NoError(t, err)
	assert.Equal(t, 3, details.FilesChanged)
	assert.Equal(t, 3, details.LinesAdded)
	assert.Equal(t, 1, details.LinesRemoved)
	require.Len(t, details.Files, 3)
	assert.Equal(t, 2, details.Files[0].LinesAdded)
	assert.Equal(t, 1, details.Files[0].LinesRemoved)
	assert.Equal(t, "added", details.Files[1].Status)
	assert.Equal(t, "renamed", details.Files[2].Status)
	assert.Equal(t, "docs/old.md", details.Files[2].Filename)
	assert.Contains(t, details.Diff, "diff --git a/new.txt b/new.txt\n--- a/new.txt\n+++ b/new.txt\n@@ -0,0 +1 @@\n+hello\n")
}

func TestGitLabClient_DoesNotRetry(t *testing.T) {
	var requestCount int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v4/projects/42/repository/branches" {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt32(&requestCount, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintln(w, `{"message": "500 Internal Server Error"}`)
	})
	client, server := setupGitLabTestClient(t, handler)
	defer server.Close()

	_, err := client.ListBranches(context.Background(), glRepo)

	require.Error(t, err)
	var pe *custom_errors.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusInternalServerError, pe.StatusCode)
	assert.Contains(t, pe.Error(), "500 Internal Server Error")
	assert.Equal(t, int32(1), atomic.LoadInt32(&requestCount))
}

func TestGitLabClient_TestConnection(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/v4/user" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintln(w, `{"id": 1, "username": "ada"}`)
		})
		client, server := setupGitLabTestClient(t, handler)
		defer server.Close()

		res := client.TestConnection(context.Background())
		assert.True(t, res.Success)
		assert.Equal(t, "Connected as ada", res.Message)
	})

	t.Run("unauthorized", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprintln(w, `{"message": "401 Unauthorized"}`)
		})
		client, server := setupGitLabTestClient(t, handler)
		defer server.Close()

		res := client.TestConnection(context.Background())
		assert.False(t, res.Success)
		assert.Contains(t, res.Message, "401")
	})
}
