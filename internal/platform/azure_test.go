// internal/platform/azure_test.go
package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commitlens/internal/config"
	custom_errors "commitlens/internal/errors"
)

func setupAzureTestClient(t *testing.T, handler http.Handler) (*AzureDevOpsClient, *httptest.Server) {
	server := httptest.NewServer(handler)

	client, err := NewAzureDevOpsClient(config.PlatformConfig{
		Name:    "azure-test",
		Kind:    "azure_devops",
		BaseURL: server.URL + "/contoso/",
		Token:   "pat",
	}, Options{Logger: testLogger, Timeout: 5 * time.Second, ConnectTimeout: time.Second})
	require.NoError(t, err)

	return client, server
}

var azRepo = RepoRef{ExternalID: "repo-guid", FullName: "Fabrikam/web"}

func TestAzureDevOpsClient_ListRepositories(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contoso/_apis/git/repositories", r.URL.Path)
		assert.Equal(t, "7.0", r.URL.Query().Get("api-version"))
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "", user)
		assert.Equal(t, "pat", pass)
		fmt.Fprintln(w, `{"count": 1, "value": [{"id": "repo-guid", "name": "web", "defaultBranch": "refs/heads/main", "webUrl": "https://dev.azure.com/contoso/Fabrikam/_git/web", "project": {"name": "Fabrikam"}}]}`)
	})
	client, server := setupAzureTestClient(t, handler)
	defer server.Close()

	repos, err := client.ListRepositories(context.Background())

	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "repo-guid", repos[0].ExternalID)
	assert.Equal(t, "Fabrikam/web", repos[0].FullName)
	assert.Equal(t, "main", repos[0].DefaultBranch)
}

func TestAzureDevOpsClient_ListBranches_ContinuationToken(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contoso/_apis/git/repositories/repo-guid/refs", r.URL.Path)
		assert.Equal(t, "heads/", r.URL.Query().Get("filter"))
		atomic.AddInt32(&calls, 1)
		if r.URL.Query().Get("continuationToken") == "next" {
			fmt.Fprintln(w, `{"value": [{"name": "refs/heads/release/1.0", "objectId": "bbb"}]}`)
			return
		}
		w.Header().Set("x-ms-continuationtoken", "next")
		fmt.Fprintln(w, `{"value": [{"name": "refs/heads/main", "objectId": "aaa"}]}`)
	})
	client, server := setupAzureTestClient(t, handler)
	defer server.Close()

	branches, err := client.ListBranches(context.Background(), azRepo)

	require.NoError(t, err)
	require.Len(t, branches, 2)
	assert.Equal(t, "main", branches[0].Name)
	assert.Equal(t, "release/1.0", branches[1].Name)
	assert.Equal(t, "bbb", branches[1].HeadSHA)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestAzureDevOpsClient_ListCommits_PagesWithSkip(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/contoso/_apis/git/repositories/repo-guid/commits", r.URL.Path)
		assert.Equal(t, "main", q.Get("searchCriteria.itemVersion.version"))
		assert.Equal(t, "branch", q.Get("searchCriteria.itemVersion.versionType"))
		assert.Equal(t, "2024-01-01T00:00:00Z", q.Get("searchCriteria.fromDate"))
		assert.Equal(t, "2024-02-01T00:00:00Z", q.Get("searchCriteria.toDate"))

		n := pageSize
		if q.Get("searchCriteria.$skip") != "0" {
			n = 1
		}
		type author struct {
			Name  string `json:"name"`
			Email string `json:"email"`
			Date  string `json:"date"`
		}
		type commit struct {
			CommitID string `json:"commitId"`
			Comment  string `json:"comment"`
			Author   author `json:"author"`
		}
		var page struct {
			Value []commit `json:"value"`
		}
		for i := 0; i < n; i++ {
			page.Value = append(page.Value, commit{
				CommitID: q.Get("searchCriteria.$skip") + "-" + strconv.Itoa(i),
				Comment:  "change " + strconv.Itoa(i),
				Author:   author{Name: "Ada", Email: "ada@contoso.com", Date: "2024-01-10T08:00:00Z"},
			})
		}
		if n == 1 {
			page.Value[0].Comment = "Merged PR 17: billing"
		}
		assert.NoError(t, json.NewEncoder(w).Encode(page))
	})
	client, server := setupAzureTestClient(t, handler)
	defer server.Close()

	commits, err := client.ListCommits(context.Background(), azRepo, "main", from, to)

	require.NoError(t, err)
	require.Len(t, commits, pageSize+1)
	assert.False(t, commits[0].IsMergeCommit)
	assert.True(t, commits[pageSize].IsMergeCommit)
	assert.Equal(t, "100-0", commits[pageSize].SHA)
}

func TestAzureDevOpsClient_GetCommitDetails_Estimates(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contoso/_apis/git/repositories/repo-guid/commits/abc/changes", r.URL.Path)
		fmt.Fprintln(w, `{"changes": [
			{"changeType": "add", "item": {"path": "/src/new.cs", "gitObjectType": "blob"}},
			{"changeType": "edit", "item": {"path": "/src/app.cs", "gitObjectType": "blob"}},
			{"changeType": "delete", "item": {"path": "/src/old.cs", "gitObjectType": "blob"}},
			{"changeType": "rename, edit", "item": {"path": "/src/moved.cs", "gitObjectType": "blob"}},
			{"changeType": "edit", "item": {"path": "/src", "gitObjectType": "tree", "isFolder": true}}
		]}`)
	})
	client, server := setupAzureTestClient(t, handler)
	defer server.Close()

	details, err := client.GetCommitDetails(context.Background(), azRepo, "abc")

	require.NoError(t, err)
	assert.True(t, details.Estimated)
	assert.Equal(t, 4, details.FilesChanged)
	assert.Equal(t, EstimatedLinesAddedFile+EstimatedLinesEditAdded+EstimatedLinesRenameAdded, details.LinesAdded)
	assert.Equal(t, EstimatedLinesEditRemoved+EstimatedLinesDeletedFile+EstimatedLinesRenameRemoved, details.LinesRemoved)
	assert.Equal(t, "src/new.cs", details.Files[0].Filename)
	assert.Equal(t, "renamed", details.Files[3].Status)
	for _, f := range details.Files {
		assert.True(t, f.Estimated, f.Filename)
	}
	assert.Empty(t, details.Diff)
}

func TestAzureDevOpsClient_GetCommitDiff_Placeholder(t *testing.T) {
	var calls int32
	client, server := setupAzureTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	diff, err := client.GetCommitDiff(context.Background(), azRepo, "abc")

	require.NoError(t, err)
	assert.True(t, IsPlaceholderDiff(diff))
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestAzureDevOpsClient_Errors(t *testing.T) {
	t.Run("provider message is kept", func(t *testing.T) {
		var calls int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintln(w, `{"message": "TF401019: The Git repository with name or identifier repo-guid does not exist."}`)
		})
		client, server := setupAzureTestClient(t, handler)
		defer server.Close()

		_, err := client.ListBranches(context.Background(), azRepo)

		var pe *custom_errors.ProviderError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, http.StatusNotFound, pe.StatusCode)
		assert.Contains(t, pe.Message, "TF401019")
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("sign-in page means bad credentials", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusNonAuthoritativeInfo)
			fmt.Fprintln(w, `<html>sign in</html>`)
		})
		client, server := setupAzureTestClient(t, handler)
		defer server.Close()

		res := client.TestConnection(context.Background())
		assert.False(t, res.Success)
		assert.Contains(t, res.Message, "personal access token")
	})

	t.Run("connection test succeeds", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/contoso/_apis/projects", r.URL.Path)
			fmt.Fprintln(w, `{"count": 1, "value": [{"name": "Fabrikam"}]}`)
		})
		client, server := setupAzureTestClient(t, handler)
		defer server.Close()

		assert.True(t, client.TestConnection(context.Background()).Success)
	})
}

func TestNewAzureDevOpsClient_RequiresBaseURL(t *testing.T) {
	_, err := NewAzureDevOpsClient(config.PlatformConfig{Name: "az", Kind: "azure_devops", Token: "pat"}, Options{})
	assert.Error(t, err)
}
