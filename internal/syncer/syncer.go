// internal/syncer/syncer.go
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"commitlens/internal/analyzer"
	"commitlens/internal/database"
	custom_errors "commitlens/internal/errors"
	"commitlens/internal/identity"
	"commitlens/internal/metrics"
	"commitlens/internal/model"
	"commitlens/internal/platform"
	"commitlens/internal/workpool"
)

const (
	syncTypeCommits = "commits"
	statusSuccess   = "success"
	statusFailed    = "failed"

	// maxErrors caps the error list of a single result.
	maxErrors = 50
)

type Options struct {
	RepoConcurrency   int
	CommitConcurrency int
	// FetchDiffs fetches diff text when the commit details did not carry it.
	FetchDiffs bool
	// SyncWindow is how far back a sync reaches when the caller gives no start date.
	SyncWindow time.Duration
	Interval   time.Duration
}

// Result summarizes one repository or branch sync pass.
type Result struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Total   int      `json:"total"`
	Errors  []string `json:"errors"`
}

type CommitResult struct {
	Result
	Skipped int `json:"skipped"`
}

type SyncAllResult struct {
	Repositories Result       `json:"repositories"`
	Branches     Result       `json:"branches"`
	Commits      CommitResult `json:"commits"`
}

type CommitSyncOptions struct {
	// From and To bound the authored date window. Zero values default to the sync window ending now.
	From       time.Time
	To         time.Time
	Force      bool
	OnProgress func(model.ProgressEvent)
}

type PlatformStatus struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
	model.ConnectionResult
}

// Syncer mirrors repositories, branches and commits from every enabled platform into the store.
type Syncer struct {
	store    database.Store
	clients  map[int64]platform.Client
	resolver *identity.Resolver
	logger   *slog.Logger
	opts     Options
	now      func() time.Time
}

// NewSyncer creates a Syncer. clients is keyed by platform id.
func NewSyncer(store database.Store, clients map[int64]platform.Client, resolver *identity.Resolver, logger *slog.Logger, opts Options) *Syncer {
	if opts.RepoConcurrency < 1 {
		opts.RepoConcurrency = 1
	}
	if opts.CommitConcurrency < 1 {
		opts.CommitConcurrency = 1
	}
	return &Syncer{
		store:    store,
		clients:  clients,
		resolver: resolver,
		logger:   logger,
		opts:     opts,
		now:      time.Now,
	}
}

// tally collects outcomes from concurrent workers.
type tally struct {
	mu      sync.Mutex
	success int
	failed  int
	skipped int
	errs    []string
}

func (t *tally) addSuccess(n int) {
	t.mu.Lock()
	t.success += n
	t.mu.Unlock()
}

func (t *tally) addSkipped(n int) {
	t.mu.Lock()
	t.skipped += n
	t.mu.Unlock()
}

func (t *tally) addFailure(n int, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failed += n
	t.addErrorLocked(msg)
}

func (t *tally) addError(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.addErrorLocked(msg)
}

func (t *tally) addErrorLocked(msg string) {
	if msg != "" && len(t.errs) < maxErrors {
		t.errs = append(t.errs, msg)
	}
}

func (t *tally) result() Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	errs := t.errs
	if errs == nil {
		errs = []string{}
	}
	return Result{
		Success: t.success,
		Failed:  t.failed,
		Total:   t.success + t.failed + t.skipped,
		Errors:  errs,
	}
}

// Start runs a full sync immediately and then on every interval until ctx is cancelled.
func (s *Syncer) Start(ctx context.Context) {
	s.logger.Info("Starting syncer", "interval", s.opts.Interval.String(),
		"repo_concurrency", s.opts.RepoConcurrency, "commit_concurrency", s.opts.CommitConcurrency)
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	s.runSyncCycle(ctx) // Initial sync

	for {
		select {
		case <-ticker.C:
			s.runSyncCycle(ctx)
		case <-ctx.Done():
			s.logger.Info("Syncer shutting down", "reason", ctx.Err())
			return
		}
	}
}

func (s *Syncer) runSyncCycle(ctx context.Context) {
	s.logger.Info("Starting new sync cycle")
	res, err := s.SyncAll(ctx, CommitSyncOptions{})
	if err != nil {
		s.logger.Error("Sync cycle finished with an error", "error", err)
		return
	}
	s.logger.Info("Sync cycle finished",
		"repositories", res.Repositories.Total,
		"branches", res.Branches.Total,
		"commits_success", res.Commits.Success,
		"commits_failed", res.Commits.Failed,
		"commits_skipped", res.Commits.Skipped)
}

// SyncAll refreshes repositories and branches, then syncs commits.
func (s *Syncer) SyncAll(ctx context.Context, opts CommitSyncOptions) (SyncAllResult, error) {
	var res SyncAllResult
	if _, _, err := s.window(opts.From, opts.To); err != nil {
		return res, err
	}
	var err error
	if res.Repositories, err = s.SyncRepositories(ctx); err != nil {
		return res, err
	}
	if res.Branches, err = s.SyncBranches(ctx); err != nil {
		return res, err
	}
	res.Commits, err = s.SyncCommits(ctx, opts)
	return res, err
}

// SyncRepositories lists repositories on every enabled platform and upserts them.
// A platform that fails to list counts as one failure and does not stop the others.
func (s *Syncer) SyncRepositories(ctx context.Context) (Result, error) {
	start := s.now()
	platforms, err := s.store.ListEnabledPlatforms(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list platforms: %w", err)
	}

	t := &tally{}
	_ = workpool.ForEach(ctx, s.opts.RepoConcurrency, platforms, func(ctx context.Context, _ int, p database.Platform) error {
		logger := s.logger.With("platform", p.Name)
		client, ok := s.clients[p.ID]
		if !ok {
			t.addFailure(1, fmt.Sprintf("platform %s: no client configured", p.Name))
			return nil
		}
		logger.Info("Syncing repositories")
		remote, err := client.ListRepositories(ctx)
		if err != nil {
			logger.Error("Failed to list repositories", "error", err)
			t.addFailure(1, fmt.Sprintf("platform %s: %v", p.Name, err))
			return nil
		}
		for _, r := range remote {
			_, err := s.store.UpsertRepository(ctx, database.UpsertRepositoryParams{
				PlatformID:    p.ID,
				ExternalID:    r.ExternalID,
				Name:          r.Name,
				FullName:      r.FullName,
				DefaultBranch: r.DefaultBranch,
				Url:           r.URL,
			})
			if err != nil {
				t.addFailure(1, fmt.Sprintf("platform %s: repository %s: %v", p.Name, r.FullName, err))
				continue
			}
			t.addSuccess(1)
		}
		logger.Info("Repositories synced", "count", len(remote))
		return nil
	})

	metrics.ObserveSync("repositories", s.now().Sub(start))
	return t.result(), nil
}

// SyncBranches lists branches of every selected repository and upserts them.
func (s *Syncer) SyncBranches(ctx context.Context) (Result, error) {
	start := s.now()
	repos, err := s.store.ListSelectedRepositories(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list repositories: %w", err)
	}

	t := &tally{}
	_ = workpool.ForEach(ctx, s.opts.RepoConcurrency, repos, func(ctx context.Context, _ int, repo database.Repository) error {
		client, ok := s.clients[repo.PlatformID]
		if !ok {
			t.addFailure(1, fmt.Sprintf("%s: no client configured for platform %d", repo.FullName, repo.PlatformID))
			return nil
		}
		branches, err := client.ListBranches(ctx, repoRef(repo))
		if err != nil {
			s.logger.Error("Failed to list branches", "repo", repo.FullName, "error", err)
			t.addFailure(1, fmt.Sprintf("%s: %v", repo.FullName, err))
			return nil
		}
		for _, b := range branches {
			if _, err := s.store.UpsertBranch(ctx, database.UpsertBranchParams{
				RepositoryID: repo.ID,
				Name:         b.Name,
				HeadSha:      b.HeadSHA,
			}); err != nil {
				t.addFailure(1, fmt.Sprintf("%s@%s: %v", repo.FullName, b.Name, err))
				continue
			}
			t.addSuccess(1)
		}
		s.logger.Debug("Branches synced", "repo", repo.FullName, "count", len(branches))
		return nil
	})

	metrics.ObserveSync("branches", s.now().Sub(start))
	return t.result(), nil
}

// window fills in defaults and validates a sync window.
func (s *Syncer) window(from, to time.Time) (time.Time, time.Time, error) {
	if to.IsZero() {
		to = s.now()
	}
	if from.IsZero() && s.opts.SyncWindow > 0 {
		from = to.Add(-s.opts.SyncWindow)
	}
	if from.After(to) {
		return from, to, &custom_errors.ErrInvalidDateRange{From: from, To: to}
	}
	return from, to, nil
}

type commitRun struct {
	id        string
	from, to  time.Time
	force     bool
	platforms map[int64]string
	emit      *emitter
	tally     *tally

	mu      sync.Mutex
	started map[int64]bool
}

// startPlatform emits platform_started the first time a repository of that platform is reached.
func (r *commitRun) startPlatform(id int64) {
	r.mu.Lock()
	first := !r.started[id]
	r.started[id] = true
	r.mu.Unlock()
	if first {
		r.emit.emit(model.ProgressEvent{Type: model.EventPlatformStarted, Platform: r.platforms[id]})
	}
}

// SyncCommits fetches, stores and analyzes commits of every branch of every selected repository,
// then runs identity resolution once. Failures are isolated per commit and per branch.
func (s *Syncer) SyncCommits(ctx context.Context, opts CommitSyncOptions) (CommitResult, error) {
	from, to, err := s.window(opts.From, opts.To)
	if err != nil {
		return CommitResult{}, err
	}
	start := s.now()

	repos, err := s.store.ListSelectedRepositories(ctx)
	if err != nil {
		return CommitResult{}, fmt.Errorf("failed to list repositories: %w", err)
	}
	platforms, err := s.store.ListEnabledPlatforms(ctx)
	if err != nil {
		return CommitResult{}, fmt.Errorf("failed to list platforms: %w", err)
	}

	run := &commitRun{
		id:        uuid.NewString(),
		from:      from,
		to:        to,
		force:     opts.Force,
		platforms: make(map[int64]string, len(platforms)),
		tally:     &tally{},
		started:   make(map[int64]bool),
	}
	for _, p := range platforms {
		run.platforms[p.ID] = p.Name
	}
	run.emit = newEmitter(run.id, opts.OnProgress)

	logger := s.logger.With("run_id", run.id)
	logger.Info("Starting commit sync",
		"from", from.Format(time.RFC3339), "to", to.Format(time.RFC3339),
		"force", opts.Force, "repositories", len(repos))
	run.emit.emit(model.ProgressEvent{Type: model.EventRunStarted, Total: len(repos)})

	_ = workpool.ForEach(ctx, s.opts.RepoConcurrency, repos, func(ctx context.Context, i int, repo database.Repository) error {
		run.startPlatform(repo.PlatformID)
		run.emit.emit(model.ProgressEvent{
			Type:       model.EventRepositoryStarted,
			Current:    i + 1,
			Total:      len(repos),
			Platform:   run.platforms[repo.PlatformID],
			Repository: repo.FullName,
		})
		s.syncRepositoryCommits(ctx, run, repo)
		return nil
	})

	if s.resolver != nil {
		run.emit.emit(model.ProgressEvent{Type: model.EventResolveStarted})
		if _, err := s.resolver.Resolve(ctx); err != nil {
			logger.Error("Identity resolution failed", "error", err)
			run.tally.addError(fmt.Sprintf("identity resolution: %v", err))
		}
	}

	res := CommitResult{Result: run.tally.result()}
	run.tally.mu.Lock()
	res.Skipped = run.tally.skipped
	run.tally.mu.Unlock()

	run.emit.emit(model.ProgressEvent{
		Type:    model.EventRunFinished,
		Current: res.Success + res.Failed + res.Skipped,
		Total:   res.Total,
		Message: fmt.Sprintf("success=%d failed=%d skipped=%d", res.Success, res.Failed, res.Skipped),
	})
	if dropped := run.emit.close(); dropped > 0 {
		logger.Warn("Progress events dropped", "count", dropped)
	}

	metrics.ObserveCommits("success", res.Success)
	metrics.ObserveCommits("failed", res.Failed)
	metrics.ObserveCommits("skipped", res.Skipped)
	metrics.ObserveSync("commits", s.now().Sub(start))
	logger.Info("Commit sync finished",
		"success", res.Success, "failed", res.Failed, "skipped", res.Skipped, "errors", len(res.Errors))
	return res, nil
}

func (s *Syncer) syncRepositoryCommits(ctx context.Context, run *commitRun, repo database.Repository) {
	logger := s.logger.With("run_id", run.id, "repo", repo.FullName)
	client, ok := s.clients[repo.PlatformID]
	if !ok {
		run.tally.addError(fmt.Sprintf("%s: no client configured for platform %d", repo.FullName, repo.PlatformID))
		return
	}
	branches, err := s.store.ListBranchesByRepository(ctx, repo.ID)
	if err != nil {
		run.tally.addError(fmt.Sprintf("%s: failed to list branches: %v", repo.FullName, err))
		return
	}
	if len(branches) == 0 && repo.DefaultBranch != "" {
		b, err := s.store.UpsertBranch(ctx, database.UpsertBranchParams{RepositoryID: repo.ID, Name: repo.DefaultBranch})
		if err != nil {
			run.tally.addError(fmt.Sprintf("%s@%s: %v", repo.FullName, repo.DefaultBranch, err))
			return
		}
		branches = append(branches, b)
	}

	for _, b := range branches {
		if ctx.Err() != nil {
			return
		}
		s.syncBranchCommits(ctx, run, repo, b, client)
	}
	if err := s.store.TouchRepositorySynced(ctx, repo.ID); err != nil {
		logger.Warn("Failed to mark repository synced", "error", err)
	}
}

// resumeFrom returns the effective start of the window for a branch.
func (s *Syncer) resumeFrom(ctx context.Context, run *commitRun, repo database.Repository, branch database.Branch) time.Time {
	if run.force {
		return run.from
	}
	last, err := s.store.GetLastSuccessfulSync(ctx, database.GetLastSuccessfulSyncParams{
		RepositoryID: repo.ID,
		BranchID:     branch.ID,
		SyncType:     syncTypeCommits,
	})
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("Failed to read sync log, syncing the full window", "repo", repo.FullName, "branch", branch.Name, "error", err)
		}
		return run.from
	}
	if last.ToDate.Valid && !last.ToDate.Time.Before(run.from) {
		return last.ToDate.Time
	}
	return run.from
}

type commitOutcome int

const (
	outcomeProcessed commitOutcome = iota
	outcomeSkipped
	outcomeFailed
)

// syncBranchCommits walks one branch through fetching and processing, then writes its sync log.
func (s *Syncer) syncBranchCommits(ctx context.Context, run *commitRun, repo database.Repository, branch database.Branch, client platform.Client) {
	logger := s.logger.With("run_id", run.id, "repo", repo.FullName, "branch", branch.Name)
	platformName := run.platforms[repo.PlatformID]
	startedAt := s.now()
	from := s.resumeFrom(ctx, run, repo, branch)

	if from.After(run.to) {
		logger.Info("Branch already synced past the requested window", "resume_from", from.Format(time.RFC3339))
		return
	}
	logger.Info("Syncing branch commits", "from", from.Format(time.RFC3339), "to", run.to.Format(time.RFC3339))
	run.emit.emit(model.ProgressEvent{Type: model.EventBranchStarted, Platform: platformName, Repository: repo.FullName, Branch: branch.Name})

	commits, err := client.ListCommits(ctx, repoRef(repo), branch.Name, from, run.to)
	if err != nil {
		logger.Error("Failed to list commits", "error", err)
		run.tally.addError(fmt.Sprintf("%s@%s: %v", repo.FullName, branch.Name, err))
		run.emit.emit(model.ProgressEvent{Type: model.EventError, Platform: platformName, Repository: repo.FullName, Branch: branch.Name, Message: err.Error()})
		s.writeSyncLog(ctx, repo, branch, from, run.to, startedAt, 0, err)
		return
	}

	var (
		processed, skipped, failed, current atomic.Int64
		firstErr                            error
		errOnce                             sync.Once
	)
	_ = workpool.ForEach(ctx, s.opts.CommitConcurrency, commits, func(ctx context.Context, _ int, rc model.RemoteCommit) error {
		outcome, err := s.processCommit(ctx, run, repo, client, rc)
		switch outcome {
		case outcomeProcessed:
			processed.Add(1)
			run.tally.addSuccess(1)
		case outcomeSkipped:
			skipped.Add(1)
			run.tally.addSkipped(1)
		case outcomeFailed:
			failed.Add(1)
			logger.Error("Failed to process commit", "sha", rc.SHA, "error", err)
			run.tally.addFailure(1, fmt.Sprintf("%s@%s %s: %v", repo.FullName, branch.Name, shortSHA(rc.SHA), err))
			errOnce.Do(func() { firstErr = err })
		}
		run.emit.emit(model.ProgressEvent{
			Type:       model.EventCommitProgress,
			Current:    int(current.Add(1)),
			Total:      len(commits),
			Platform:   platformName,
			Repository: repo.FullName,
			Branch:     branch.Name,
		})
		return nil
	})

	// Commits left undispatched by cancellation must not be covered by a success entry.
	if firstErr == nil && ctx.Err() != nil {
		firstErr = fmt.Errorf("sync interrupted: %w", ctx.Err())
	}
	s.writeSyncLog(context.WithoutCancel(ctx), repo, branch, from, run.to, startedAt, int(processed.Load()), firstErr)
	if err := s.store.TouchBranchSynced(ctx, branch.ID); err != nil {
		logger.Warn("Failed to mark branch synced", "error", err)
	}
	run.emit.emit(model.ProgressEvent{
		Type:       model.EventBranchFinished,
		Current:    len(commits),
		Total:      len(commits),
		Platform:   platformName,
		Repository: repo.FullName,
		Branch:     branch.Name,
		Message:    fmt.Sprintf("processed=%d skipped=%d failed=%d", processed.Load(), skipped.Load(), failed.Load()),
	})
	logger.Info("Branch synced", "commits", len(commits),
		"processed", processed.Load(), "skipped", skipped.Load(), "failed", failed.Load())
}

func (s *Syncer) writeSyncLog(ctx context.Context, repo database.Repository, branch database.Branch, from, to, startedAt time.Time, processed int, syncErr error) {
	params := database.InsertSyncLogParams{
		RepositoryID:     repo.ID,
		BranchID:         pgtype.Int8{Int64: branch.ID, Valid: true},
		SyncType:         syncTypeCommits,
		FromDate:         timestamptz(from),
		ToDate:           timestamptz(to),
		Status:           statusSuccess,
		CommitsProcessed: int32(processed),
		StartedAt:        startedAt,
	}
	if syncErr != nil {
		params.Status = statusFailed
		params.ErrorMessage = syncErr.Error()
	}
	if _, err := s.store.InsertSyncLog(ctx, params); err != nil {
		s.logger.Error("Failed to write sync log", "repo", repo.FullName, "branch", branch.Name, "error", err)
	}
}

// needsRepair reports whether a stored commit was left partially ingested.
// Rows written before detail_complete existed fall back to comparing line totals.
func needsRepair(state database.GetCommitSyncStateRow) bool {
	if state.DetailComplete.Valid {
		return !state.DetailComplete.Bool
	}
	return state.LinesAdded > 0 && state.FileLinesAdded == 0
}

func (s *Syncer) processCommit(ctx context.Context, run *commitRun, repo database.Repository, client platform.Client, rc model.RemoteCommit) (commitOutcome, error) {
	state, err := s.store.GetCommitSyncState(ctx, database.GetCommitSyncStateParams{RepositoryID: repo.ID, Sha: rc.SHA})
	exists := err == nil
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return outcomeFailed, err
	}
	if exists && !run.force && !needsRepair(state) {
		return outcomeSkipped, nil
	}

	ref := repoRef(repo)
	details, err := client.GetCommitDetails(ctx, ref, rc.SHA)
	if err != nil {
		if !exists {
			// Keep the commit visible and let the next pass repair it.
			if _, serr := s.store.UpsertCommit(ctx, commitParams(repo.ID, rc, &model.CommitDetails{}, false)); serr != nil {
				return outcomeFailed, fmt.Errorf("%w (storing bare commit: %v)", err, serr)
			}
		}
		return outcomeFailed, err
	}

	diff := details.Diff
	if diff == "" && s.opts.FetchDiffs {
		if diff, err = client.GetCommitDiff(ctx, ref, rc.SHA); err != nil {
			s.logger.Warn("Failed to fetch diff, analyzing metadata only", "repo", repo.FullName, "sha", rc.SHA, "error", err)
			diff = ""
		}
	}
	if platform.IsPlaceholderDiff(diff) {
		diff = ""
	}

	names := make([]string, len(details.Files))
	for i, f := range details.Files {
		names[i] = f.Filename
	}
	flags := analyzer.Analyze(analyzer.Input{
		Message:      rc.Message,
		LinesAdded:   details.LinesAdded,
		LinesRemoved: details.LinesRemoved,
		FilesChanged: details.FilesChanged,
		Files:        names,
	}, diff)

	err = s.store.ExecTx(ctx, func(q database.Querier) error {
		commitID, err := q.UpsertCommit(ctx, commitParams(repo.ID, rc, details, true))
		if err != nil {
			return err
		}
		if err := q.DeleteCommitFiles(ctx, commitID); err != nil {
			return err
		}
		for _, f := range details.Files {
			if err := q.InsertCommitFile(ctx, database.InsertCommitFileParams{
				CommitID:     commitID,
				Filename:     f.Filename,
				Status:       f.Status,
				LinesAdded:   int32(f.LinesAdded),
				LinesRemoved: int32(f.LinesRemoved),
				IsExcluded:   analyzer.IsExcludedPath(f.Filename),
				IsEstimated:  f.Estimated || details.Estimated,
			}); err != nil {
				return err
			}
		}
		return replaceFlags(ctx, q, commitID, flags)
	})
	if err != nil {
		return outcomeFailed, err
	}
	return outcomeProcessed, nil
}

func replaceFlags(ctx context.Context, q database.Querier, commitID int64, flags []analyzer.Flag) error {
	if err := q.DeleteCommitFlags(ctx, commitID); err != nil {
		return err
	}
	for _, f := range flags {
		details, err := json.Marshal(f.Details)
		if err != nil {
			return fmt.Errorf("failed to encode %s details: %w", f.Type, err)
		}
		if err := q.InsertCommitFlag(ctx, database.InsertCommitFlagParams{
			CommitID: commitID,
			FlagType: string(f.Type),
			Details:  details,
		}); err != nil {
			return err
		}
	}
	return nil
}

// ReanalyzeCommit runs the analyzer again on a stored commit and replaces its flags.
func (s *Syncer) ReanalyzeCommit(ctx context.Context, commitID int64) ([]analyzer.Flag, error) {
	row, err := s.store.GetCommitForAnalysis(ctx, commitID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &custom_errors.ErrCommitNotFound{ID: commitID}
		}
		return nil, err
	}
	files, err := s.store.ListCommitFiles(ctx, commitID)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Filename
	}

	var diff string
	if client, ok := s.clients[row.PlatformID]; ok && s.opts.FetchDiffs {
		ref := platform.RepoRef{ExternalID: row.RepoExternalID, FullName: row.RepoFullName}
		diff, err = client.GetCommitDiff(ctx, ref, row.Sha)
		if err != nil || platform.IsPlaceholderDiff(diff) {
			if err != nil {
				s.logger.Warn("Failed to fetch diff, analyzing metadata only", "commit_id", commitID, "error", err)
			}
			diff = ""
		}
	}

	flags := analyzer.Analyze(analyzer.Input{
		Message:      row.Message,
		LinesAdded:   int(row.LinesAdded),
		LinesRemoved: int(row.LinesRemoved),
		FilesChanged: int(row.FilesChanged),
		Files:        names,
	}, diff)
	if err := s.store.ExecTx(ctx, func(q database.Querier) error {
		return replaceFlags(ctx, q, commitID, flags)
	}); err != nil {
		return nil, err
	}
	s.logger.Info("Commit reanalyzed", "commit_id", commitID, "flags", len(flags))
	return flags, nil
}

// TestPlatforms checks the connection of every enabled platform.
func (s *Syncer) TestPlatforms(ctx context.Context) ([]PlatformStatus, error) {
	platforms, err := s.store.ListEnabledPlatforms(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PlatformStatus, len(platforms))
	_ = workpool.ForEach(ctx, s.opts.RepoConcurrency, platforms, func(ctx context.Context, i int, p database.Platform) error {
		st := PlatformStatus{ID: p.ID, Name: p.Name, Kind: p.Kind}
		if client, ok := s.clients[p.ID]; ok {
			st.ConnectionResult = client.TestConnection(ctx)
		} else {
			st.ConnectionResult = model.ConnectionResult{Success: false, Message: "no client configured"}
		}
		out[i] = st
		return nil
	})
	return out, nil
}

func (s *Syncer) SetRepositorySelected(ctx context.Context, id int64, selected bool) error {
	n, err := s.store.SetRepositorySelected(ctx, database.SetRepositorySelectedParams{ID: id, IsSelected: selected})
	if err != nil {
		return err
	}
	if n == 0 {
		return &custom_errors.ErrRepositoryNotFound{ID: id}
	}
	return nil
}

func commitParams(repoID int64, rc model.RemoteCommit, d *model.CommitDetails, complete bool) database.UpsertCommitParams {
	return database.UpsertCommitParams{
		RepositoryID:   repoID,
		Sha:            rc.SHA,
		Message:        rc.Message,
		AuthorName:     rc.AuthorName,
		AuthorEmail:    rc.AuthorEmail,
		CommittedAt:    rc.CommittedAt,
		LinesAdded:     int32(d.LinesAdded),
		LinesRemoved:   int32(d.LinesRemoved),
		LinesNet:       int32(d.LinesAdded - d.LinesRemoved),
		FilesChanged:   int32(d.FilesChanged),
		IsMergeCommit:  rc.IsMergeCommit,
		StatsEstimated: d.Estimated,
		DetailComplete: pgtype.Bool{Bool: complete, Valid: true},
	}
}

func repoRef(r database.Repository) platform.RepoRef {
	return platform.RepoRef{ExternalID: r.ExternalID, FullName: r.FullName}
}

func timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: !t.IsZero()}
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
