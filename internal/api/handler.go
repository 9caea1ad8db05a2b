// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"commitlens/internal/analyzer"
	"commitlens/internal/database"
	custom_errors "commitlens/internal/errors"
	"commitlens/internal/identity"
	"commitlens/internal/model"
	"commitlens/internal/syncer"
	"commitlens/internal/timeutil"
)

// Syncer is the part of the sync orchestrator the API drives.
type Syncer interface {
	SyncRepositories(ctx context.Context) (syncer.Result, error)
	SyncBranches(ctx context.Context) (syncer.Result, error)
	SyncCommits(ctx context.Context, opts syncer.CommitSyncOptions) (syncer.CommitResult, error)
	ReanalyzeCommit(ctx context.Context, commitID int64) ([]analyzer.Flag, error)
	SetRepositorySelected(ctx context.Context, id int64, selected bool) error
	TestPlatforms(ctx context.Context) ([]syncer.PlatformStatus, error)
}

type Developers interface {
	Developers(ctx context.Context) ([]database.ListDevelopersRow, error)
	Merge(ctx context.Context, sourceID, targetID int64) (identity.MergeResult, error)
	Rename(ctx context.Context, id int64, name string) error
	SetActive(ctx context.Context, id int64, active bool) error
}

// Handler is the container for API dependencies.
type Handler struct {
	db         database.Querier
	syncer     Syncer
	developers Developers
	logger     *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(db database.Querier, s Syncer, devs Developers, logger *slog.Logger) http.Handler {
	h := &Handler{
		db:         db,
		syncer:     s,
		developers: devs,
		logger:     logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger) // Chi's default logger
	r.Use(middleware.Recoverer)

	r.Get("/health", h.healthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		// Commit sync streams for as long as the sync runs.
		r.Post("/sync/commits", h.syncCommits)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))
			r.Post("/sync/repositories", h.syncRepositories)
			r.Post("/sync/branches", h.syncBranches)
			r.Get("/platforms/test", h.testPlatforms)
			r.Patch("/repositories/{id}", h.updateRepository)
			r.Get("/repositories/{id}/commits", h.getCommits)
			r.Post("/commits/{id}/analyze", h.analyzeCommit)
			r.Get("/developers", h.listDevelopers)
			r.Post("/developers/merge", h.mergeDevelopers)
			r.Patch("/developers/{id}", h.updateDeveloper)
		})
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /v1/sync/repositories
func (h *Handler) syncRepositories(w http.ResponseWriter, r *http.Request) {
	res, err := h.syncer.SyncRepositories(r.Context())
	if err != nil {
		h.internalError(w, "Failed to sync repositories", err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

// POST /v1/sync/branches
func (h *Handler) syncBranches(w http.ResponseWriter, r *http.Request) {
	res, err := h.syncer.SyncBranches(r.Context())
	if err != nil {
		h.internalError(w, "Failed to sync branches", err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

// syncCommits runs a commit sync and streams its progress as server-sent events.
// POST /v1/sync/commits?from=&to=&force=
func (h *Handler) syncCommits(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := timeutil.ParseDate(q.Get("from"), false)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid 'from' parameter. Use RFC 3339 or YYYY-MM-DD.")
		return
	}
	to, err := timeutil.ParseDate(q.Get("to"), true)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid 'to' parameter. Use RFC 3339 or YYYY-MM-DD.")
		return
	}
	force := false
	if v := q.Get("force"); v != "" {
		if force, err = strconv.ParseBool(v); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid 'force' parameter. Must be true or false.")
			return
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		respondWithError(w, http.StatusBadRequest, (&custom_errors.ErrInvalidDateRange{From: from, To: to}).Error())
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	rc := http.NewResponseController(w)

	// SyncCommits returns only after every progress callback has finished, so writes never overlap.
	res, err := h.syncer.SyncCommits(r.Context(), syncer.CommitSyncOptions{
		From:  from,
		To:    to,
		Force: force,
		OnProgress: func(ev model.ProgressEvent) {
			writeEvent(w, rc, "progress", ev)
		},
	})
	if err != nil {
		h.logger.Error("Commit sync failed", "error", err)
		writeEvent(w, rc, "error", map[string]string{"error": err.Error()})
		return
	}
	writeEvent(w, rc, "result", res)
}

func writeEvent(w http.ResponseWriter, rc *http.ResponseController, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	_ = rc.Flush()
}

// GET /v1/platforms/test
func (h *Handler) testPlatforms(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.syncer.TestPlatforms(r.Context())
	if err != nil {
		h.internalError(w, "Failed to test platforms", err)
		return
	}
	respondWithJSON(w, http.StatusOK, statuses)
}

// PATCH /v1/repositories/{id}
func (h *Handler) updateRepository(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		IsSelected *bool `json:"is_selected"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.IsSelected == nil {
		respondWithError(w, http.StatusBadRequest, "Request body must be {\"is_selected\": bool}")
		return
	}
	if err := h.syncer.SetRepositorySelected(r.Context(), id, *body.IsSelected); err != nil {
		var notFound *custom_errors.ErrRepositoryNotFound
		if errors.As(err, &notFound) {
			respondWithError(w, http.StatusNotFound, "Repository not found")
			return
		}
		h.internalError(w, "Failed to update repository", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"id": id, "is_selected": *body.IsSelected})
}

// GET /v1/repositories/{id}/commits?limit=N&offset=M
func (h *Handler) getCommits(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit", 50)
	if err != nil || limit <= 0 || limit > 500 {
		respondWithError(w, http.StatusBadRequest, "Invalid 'limit' parameter. Must be an integer between 1 and 500.")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid 'offset' parameter. Must be a non-negative integer.")
		return
	}

	commits, err := h.db.ListCommitsByRepository(r.Context(), database.ListCommitsByRepositoryParams{
		RepositoryID: id,
		Limit:        int32(limit),
		Offset:       int32(offset),
	})
	if err != nil {
		h.internalError(w, "Failed to get commits", err)
		return
	}
	if commits == nil {
		commits = []database.Commit{}
	}
	respondWithJSON(w, http.StatusOK, commits)
}

// POST /v1/commits/{id}/analyze
func (h *Handler) analyzeCommit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	flags, err := h.syncer.ReanalyzeCommit(r.Context(), id)
	if err != nil {
		var notFound *custom_errors.ErrCommitNotFound
		if errors.As(err, &notFound) {
			respondWithError(w, http.StatusNotFound, "Commit not found")
			return
		}
		h.internalError(w, "Failed to analyze commit", err)
		return
	}
	if flags == nil {
		flags = []analyzer.Flag{}
	}
	respondWithJSON(w, http.StatusOK, flags)
}

// GET /v1/developers
func (h *Handler) listDevelopers(w http.ResponseWriter, r *http.Request) {
	devs, err := h.developers.Developers(r.Context())
	if err != nil {
		h.internalError(w, "Failed to list developers", err)
		return
	}
	if devs == nil {
		devs = []database.ListDevelopersRow{}
	}
	respondWithJSON(w, http.StatusOK, devs)
}

// POST /v1/developers/merge
func (h *Handler) mergeDevelopers(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SourceID int64 `json:"source_id"`
		TargetID int64 `json:"target_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.SourceID <= 0 || body.TargetID <= 0 {
		respondWithError(w, http.StatusBadRequest, "Request body must be {\"source_id\": int, \"target_id\": int}")
		return
	}
	res, err := h.developers.Merge(r.Context(), body.SourceID, body.TargetID)
	if err != nil {
		h.developerError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

// PATCH /v1/developers/{id}
func (h *Handler) updateDeveloper(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		Name     *string `json:"name"`
		IsActive *bool   `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || (body.Name == nil && body.IsActive == nil) {
		respondWithError(w, http.StatusBadRequest, "Request body must set 'name' or 'is_active'")
		return
	}
	if body.Name != nil {
		if err := h.developers.Rename(r.Context(), id, *body.Name); err != nil {
			h.developerError(w, err)
			return
		}
	}
	if body.IsActive != nil {
		if err := h.developers.SetActive(r.Context(), id, *body.IsActive); err != nil {
			h.developerError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) developerError(w http.ResponseWriter, err error) {
	var (
		notFound  *custom_errors.ErrDeveloperNotFound
		selfMerge *custom_errors.ErrSelfMerge
	)
	switch {
	case errors.As(err, &notFound):
		respondWithError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &selfMerge):
		respondWithError(w, http.StatusBadRequest, selfMerge.Error())
	default:
		h.internalError(w, "Developer update failed", err)
	}
}

func (h *Handler) internalError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)
	respondWithError(w, http.StatusInternalServerError, "Internal server error")
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
