// internal/api/handler_test.go
package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"commitlens/internal/analyzer"
	"commitlens/internal/database"
	"commitlens/internal/database/databasetest"
	custom_errors "commitlens/internal/errors"
	"commitlens/internal/identity"
	"commitlens/internal/model"
	"commitlens/internal/syncer"
)

type MockSyncer struct {
	mock.Mock
}

func (m *MockSyncer) SyncRepositories(ctx context.Context) (syncer.Result, error) {
	args := m.Called(ctx)
	return args.Get(0).(syncer.Result), args.Error(1)
}
func (m *MockSyncer) SyncBranches(ctx context.Context) (syncer.Result, error) {
	args := m.Called(ctx)
	return args.Get(0).(syncer.Result), args.Error(1)
}
func (m *MockSyncer) SyncCommits(ctx context.Context, opts syncer.CommitSyncOptions) (syncer.CommitResult, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(syncer.CommitResult), args.Error(1)
}
func (m *MockSyncer) ReanalyzeCommit(ctx context.Context, commitID int64) ([]analyzer.Flag, error) {
	args := m.Called(ctx, commitID)
	flags, _ := args.Get(0).([]analyzer.Flag)
	return flags, args.Error(1)
}
func (m *MockSyncer) SetRepositorySelected(ctx context.Context, id int64, selected bool) error {
	return m.Called(ctx, id, selected).Error(0)
}
func (m *MockSyncer) TestPlatforms(ctx context.Context) ([]syncer.PlatformStatus, error) {
	args := m.Called(ctx)
	statuses, _ := args.Get(0).([]syncer.PlatformStatus)
	return statuses, args.Error(1)
}

type MockDevelopers struct {
	mock.Mock
}

func (m *MockDevelopers) Developers(ctx context.Context) ([]database.ListDevelopersRow, error) {
	args := m.Called(ctx)
	devs, _ := args.Get(0).([]database.ListDevelopersRow)
	return devs, args.Error(1)
}
func (m *MockDevelopers) Merge(ctx context.Context, sourceID, targetID int64) (identity.MergeResult, error) {
	args := m.Called(ctx, sourceID, targetID)
	return args.Get(0).(identity.MergeResult), args.Error(1)
}
func (m *MockDevelopers) Rename(ctx context.Context, id int64, name string) error {
	return m.Called(ctx, id, name).Error(0)
}
func (m *MockDevelopers) SetActive(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

type testServer struct {
	store *databasetest.Store
	sync  *MockSyncer
	devs  *MockDevelopers
	srv   *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{store: databasetest.New(), sync: new(MockSyncer), devs: new(MockDevelopers)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts.srv = httptest.NewServer(NewRouter(ts.store, ts.sync, ts.devs, logger))
	t.Cleanup(ts.srv.Close)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, ts.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	resp, _ = ts.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSyncCommits_StreamsProgress(t *testing.T) {
	ts := newTestServer(t)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	ts.sync.On("SyncCommits", mock.Anything, mock.MatchedBy(func(o syncer.CommitSyncOptions) bool {
		return o.From.Equal(from) && o.To.Equal(to) && o.Force && o.OnProgress != nil
	})).Run(func(args mock.Arguments) {
		opts := args.Get(1).(syncer.CommitSyncOptions)
		opts.OnProgress(model.ProgressEvent{Type: model.EventCommitProgress, RunID: "r1", Current: 1, Total: 2})
	}).Return(syncer.CommitResult{Result: syncer.Result{Success: 2, Total: 2, Errors: []string{}}}, nil).Once()

	resp, body := ts.do(t, http.MethodPost, "/v1/sync/commits?from=2024-01-01&to=2024-01-31&force=true", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	progressAt := strings.Index(body, "event: progress\ndata: ")
	resultAt := strings.Index(body, "event: result\ndata: ")
	require.GreaterOrEqual(t, progressAt, 0, body)
	require.Greater(t, resultAt, progressAt, body)
	assert.Contains(t, body, `"type":"commit_progress"`)
	assert.Contains(t, body, `"success":2`)
	ts.sync.AssertExpectations(t)
}

func TestSyncCommits_RejectsBadParameters(t *testing.T) {
	ts := newTestServer(t)
	testCases := []struct {
		name  string
		query string
	}{
		{"from after to", "?from=2024-02-01&to=2024-01-01"},
		{"malformed from", "?from=yesterday"},
		{"malformed force", "?force=maybe"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, _ := ts.do(t, http.MethodPost, "/v1/sync/commits"+tc.query, "")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
	ts.sync.AssertNotCalled(t, "SyncCommits", mock.Anything, mock.Anything)
}

func TestSyncRepositories(t *testing.T) {
	ts := newTestServer(t)
	ts.sync.On("SyncRepositories", mock.Anything).Return(syncer.Result{Success: 3, Failed: 1, Total: 4, Errors: []string{"platform gitlab: 401"}}, nil)

	resp, body := ts.do(t, http.MethodPost, "/v1/sync/repositories", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success":3,"failed":1,"total":4,"errors":["platform gitlab: 401"]}`, body)
}

func TestGetCommits(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	for i, sha := range []string{"a1", "a2", "a3"} {
		_, err := ts.store.UpsertCommit(ctx, database.UpsertCommitParams{
			RepositoryID: 7,
			Sha:          sha,
			Message:      "commit " + sha,
			CommittedAt:  time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	resp, body := ts.do(t, http.MethodGet, "/v1/repositories/7/commits?limit=2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var commits []database.Commit
	require.NoError(t, json.Unmarshal([]byte(body), &commits))
	require.Len(t, commits, 2)
	assert.Equal(t, "a3", commits[0].Sha, "newest first")

	resp, body = ts.do(t, http.MethodGet, "/v1/repositories/8/commits", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, body)

	resp, _ = ts.do(t, http.MethodGet, "/v1/repositories/7/commits?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = ts.do(t, http.MethodGet, "/v1/repositories/abc/commits", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeCommit(t *testing.T) {
	ts := newTestServer(t)
	ts.sync.On("ReanalyzeCommit", mock.Anything, int64(5)).Return([]analyzer.Flag{{Type: analyzer.FlagLarge, Details: map[string]any{"files_changed": 25}}}, nil)
	ts.sync.On("ReanalyzeCommit", mock.Anything, int64(6)).Return(nil, &custom_errors.ErrCommitNotFound{ID: 6})

	resp, body := ts.do(t, http.MethodPost, "/v1/commits/5/analyze", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"type":"large_commit","details":{"files_changed":25}}]`, body)

	resp, _ = ts.do(t, http.MethodPost, "/v1/commits/6/analyze", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMergeDevelopers(t *testing.T) {
	ts := newTestServer(t)
	ts.devs.On("Merge", mock.Anything, int64(2), int64(1)).Return(identity.MergeResult{TargetID: 1, Name: "Bob", CommitsReassigned: 3}, nil)
	ts.devs.On("Merge", mock.Anything, int64(1), int64(1)).Return(identity.MergeResult{}, &custom_errors.ErrSelfMerge{ID: 1})
	ts.devs.On("Merge", mock.Anything, int64(3), int64(9)).Return(identity.MergeResult{}, &custom_errors.ErrDeveloperNotFound{ID: 9})

	resp, body := ts.do(t, http.MethodPost, "/v1/developers/merge", `{"source_id":2,"target_id":1}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"name":"Bob"`)

	resp, _ = ts.do(t, http.MethodPost, "/v1/developers/merge", `{"source_id":1,"target_id":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/v1/developers/merge", `{"source_id":3,"target_id":9}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/v1/developers/merge", `{"source_id":3}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateDeveloper(t *testing.T) {
	ts := newTestServer(t)
	ts.devs.On("Rename", mock.Anything, int64(4), "Ada Lovelace").Return(nil).Once()
	ts.devs.On("SetActive", mock.Anything, int64(4), false).Return(nil).Once()

	resp, _ := ts.do(t, http.MethodPatch, "/v1/developers/4", `{"name":"Ada Lovelace","is_active":false}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	ts.devs.AssertExpectations(t)

	resp, _ = ts.do(t, http.MethodPatch, "/v1/developers/4", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateRepository(t *testing.T) {
	ts := newTestServer(t)
	ts.sync.On("SetRepositorySelected", mock.Anything, int64(3), false).Return(nil)
	ts.sync.On("SetRepositorySelected", mock.Anything, int64(4), true).Return(&custom_errors.ErrRepositoryNotFound{ID: 4})

	resp, _ := ts.do(t, http.MethodPatch, "/v1/repositories/3", `{"is_selected":false}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPatch, "/v1/repositories/4", `{"is_selected":true}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPatch, "/v1/repositories/3", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
