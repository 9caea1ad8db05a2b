// internal/database/databasetest/store.go
package databasetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"commitlens/internal/database"
)

// Store is an in-memory database.Store. Transactions are serialized and rolled back on error.
type Store struct {
	mu    sync.Mutex
	st    *state
	fails map[string]error
}

var _ database.Store = (*Store)(nil)

func New() *Store {
	return &Store{st: newState(), fails: make(map[string]error)}
}

// FailOn makes every later call to the named Querier method return err. A nil err clears it.
func (s *Store) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fails, method)
		return
	}
	s.fails[method] = err
}

func (s *Store) ExecTx(ctx context.Context, fn func(database.Querier) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.st.clone()
	if err := fn(&txQuerier{st: s.st, fails: s.fails}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// txQuerier runs against the state while the Store lock is already held.
type txQuerier struct {
	st    *state
	fails map[string]error
}

var _ database.Querier = (*txQuerier)(nil)

type state struct {
	seq          int64
	platforms    map[int64]database.Platform
	repositories map[int64]database.Repository
	branches     map[int64]database.Branch
	developers   map[int64]database.Developer
	identities   map[int64]database.DeveloperIdentity
	commits      map[int64]database.Commit
	files        map[int64]database.CommitFile
	flags        map[int64]database.CommitFlag
	syncLogs     map[int64]database.SyncLog
}

func newState() *state {
	return &state{
		platforms:    make(map[int64]database.Platform),
		repositories: make(map[int64]database.Repository),
		branches:     make(map[int64]database.Branch),
		developers:   make(map[int64]database.Developer),
		identities:   make(map[int64]database.DeveloperIdentity),
		commits:      make(map[int64]database.Commit),
		files:        make(map[int64]database.CommitFile),
		flags:        make(map[int64]database.CommitFlag),
		syncLogs:     make(map[int64]database.SyncLog),
	}
}

func copyMap[V any](m map[int64]V) map[int64]V {
	out := make(map[int64]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (st *state) clone() *state {
	return &state{
		seq:          st.seq,
		platforms:    copyMap(st.platforms),
		repositories: copyMap(st.repositories),
		branches:     copyMap(st.branches),
		developers:   copyMap(st.developers),
		identities:   copyMap(st.identities),
		commits:      copyMap(st.commits),
		files:        copyMap(st.files),
		flags:        copyMap(st.flags),
		syncLogs:     copyMap(st.syncLogs),
	}
}

func (st *state) nextID() int64 {
	st.seq++
	return st.seq
}

func sortedByID[V any](m map[int64]V, keep func(V) bool) []V {
	ids := make([]int64, 0, len(m))
	for id, v := range m {
		if keep == nil || keep(v) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]V, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

// locked runs fn against the state under the Store lock.
func locked[T any](s *Store, fn func(q *txQuerier) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&txQuerier{st: s.st, fails: s.fails})
}

func (q *txQuerier) fail(method string) error {
	return q.fails[method]
}

// Platforms

func (q *txQuerier) UpsertPlatform(_ context.Context, arg database.UpsertPlatformParams) (database.Platform, error) {
	if err := q.fail("UpsertPlatform"); err != nil {
		return database.Platform{}, err
	}
	now := time.Now()
	for id, p := range q.st.platforms {
		if p.Name == arg.Name {
			p.Kind, p.BaseUrl, p.Token, p.Username, p.Enabled, p.UpdatedAt = arg.Kind, arg.BaseUrl, arg.Token, arg.Username, arg.Enabled, now
			q.st.platforms[id] = p
			return p, nil
		}
	}
	p := database.Platform{
		ID:        q.st.nextID(),
		Name:      arg.Name,
		Kind:      arg.Kind,
		BaseUrl:   arg.BaseUrl,
		Token:     arg.Token,
		Username:  arg.Username,
		Enabled:   arg.Enabled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	q.st.platforms[p.ID] = p
	return p, nil
}

func (q *txQuerier) ListEnabledPlatforms(_ context.Context) ([]database.Platform, error) {
	if err := q.fail("ListEnabledPlatforms"); err != nil {
		return nil, err
	}
	return sortedByID(q.st.platforms, func(p database.Platform) bool { return p.Enabled }), nil
}

// Repositories and branches

func (q *txQuerier) UpsertRepository(_ context.Context, arg database.UpsertRepositoryParams) (database.Repository, error) {
	if err := q.fail("UpsertRepository"); err != nil {
		return database.Repository{}, err
	}
	if _, ok := q.st.platforms[arg.PlatformID]; !ok {
		return database.Repository{}, fmt.Errorf("insert or update on table \"repositories\" violates foreign key constraint")
	}
	now := time.Now()
	for id, r := range q.st.repositories {
		if r.PlatformID == arg.PlatformID && r.ExternalID == arg.ExternalID {
			r.Name, r.FullName, r.DefaultBranch, r.Url, r.UpdatedAt = arg.Name, arg.FullName, arg.DefaultBranch, arg.Url, now
			q.st.repositories[id] = r
			return r, nil
		}
	}
	r := database.Repository{
		ID:            q.st.nextID(),
		PlatformID:    arg.PlatformID,
		ExternalID:    arg.ExternalID,
		Name:          arg.Name,
		FullName:      arg.FullName,
		DefaultBranch: arg.DefaultBranch,
		Url:           arg.Url,
		IsSelected:    true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	q.st.repositories[r.ID] = r
	return r, nil
}

func (q *txQuerier) ListSelectedRepositories(_ context.Context) ([]database.Repository, error) {
	if err := q.fail("ListSelectedRepositories"); err != nil {
		return nil, err
	}
	repos := sortedByID(q.st.repositories, func(r database.Repository) bool {
		return r.IsSelected && q.st.platforms[r.PlatformID].Enabled
	})
	sort.SliceStable(repos, func(i, j int) bool {
		if repos[i].PlatformID != repos[j].PlatformID {
			return repos[i].PlatformID < repos[j].PlatformID
		}
		return repos[i].FullName < repos[j].FullName
	})
	return repos, nil
}

func (q *txQuerier) SetRepositorySelected(_ context.Context, arg database.SetRepositorySelectedParams) (int64, error) {
	r, ok := q.st.repositories[arg.ID]
	if !ok {
		return 0, nil
	}
	r.IsSelected = arg.IsSelected
	q.st.repositories[arg.ID] = r
	return 1, nil
}

func (q *txQuerier) TouchRepositorySynced(_ context.Context, id int64) error {
	if r, ok := q.st.repositories[id]; ok {
		r.LastSyncedAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}
		q.st.repositories[id] = r
	}
	return nil
}

func (q *txQuerier) UpsertBranch(_ context.Context, arg database.UpsertBranchParams) (database.Branch, error) {
	if err := q.fail("UpsertBranch"); err != nil {
		return database.Branch{}, err
	}
	for id, b := range q.st.branches {
		if b.RepositoryID == arg.RepositoryID && b.Name == arg.Name {
			if arg.HeadSha != "" {
				b.HeadSha = arg.HeadSha
			}
			q.st.branches[id] = b
			return b, nil
		}
	}
	b := database.Branch{
		ID:           q.st.nextID(),
		RepositoryID: arg.RepositoryID,
		Name:         arg.Name,
		HeadSha:      arg.HeadSha,
		CreatedAt:    time.Now(),
	}
	q.st.branches[b.ID] = b
	return b, nil
}

func (q *txQuerier) ListBranchesByRepository(_ context.Context, repositoryID int64) ([]database.Branch, error) {
	if err := q.fail("ListBranchesByRepository"); err != nil {
		return nil, err
	}
	branches := sortedByID(q.st.branches, func(b database.Branch) bool { return b.RepositoryID == repositoryID })
	sort.SliceStable(branches, func(i, j int) bool { return branches[i].Name < branches[j].Name })
	return branches, nil
}

func (q *txQuerier) TouchBranchSynced(_ context.Context, id int64) error {
	if b, ok := q.st.branches[id]; ok {
		b.LastSyncedAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}
		q.st.branches[id] = b
	}
	return nil
}

// Commits

func (q *txQuerier) findCommit(repositoryID int64, sha string) (database.Commit, bool) {
	for _, c := range q.st.commits {
		if c.RepositoryID == repositoryID && c.Sha == sha {
			return c, true
		}
	}
	return database.Commit{}, false
}

func (q *txQuerier) GetCommitSyncState(_ context.Context, arg database.GetCommitSyncStateParams) (database.GetCommitSyncStateRow, error) {
	if err := q.fail("GetCommitSyncState"); err != nil {
		return database.GetCommitSyncStateRow{}, err
	}
	c, ok := q.findCommit(arg.RepositoryID, arg.Sha)
	if !ok {
		return database.GetCommitSyncStateRow{}, pgx.ErrNoRows
	}
	row := database.GetCommitSyncStateRow{ID: c.ID, LinesAdded: c.LinesAdded, DetailComplete: c.DetailComplete}
	for _, f := range q.st.files {
		if f.CommitID == c.ID {
			row.FileLinesAdded += f.LinesAdded
			row.FileCount++
		}
	}
	return row, nil
}

func (q *txQuerier) UpsertCommit(_ context.Context, arg database.UpsertCommitParams) (int64, error) {
	if err := q.fail("UpsertCommit"); err != nil {
		return 0, err
	}
	now := time.Now()
	c, ok := q.findCommit(arg.RepositoryID, arg.Sha)
	if !ok {
		c = database.Commit{ID: q.st.nextID(), RepositoryID: arg.RepositoryID, Sha: arg.Sha, CreatedAt: now}
	}
	c.Message = arg.Message
	c.AuthorName = arg.AuthorName
	c.AuthorEmail = arg.AuthorEmail
	c.CommittedAt = arg.CommittedAt
	c.LinesAdded = arg.LinesAdded
	c.LinesRemoved = arg.LinesRemoved
	c.LinesNet = arg.LinesNet
	c.FilesChanged = arg.FilesChanged
	c.IsMergeCommit = arg.IsMergeCommit
	c.StatsEstimated = arg.StatsEstimated
	c.DetailComplete = arg.DetailComplete
	c.UpdatedAt = now
	q.st.commits[c.ID] = c
	return c.ID, nil
}

func (q *txQuerier) DeleteCommitFiles(_ context.Context, commitID int64) error {
	for id, f := range q.st.files {
		if f.CommitID == commitID {
			delete(q.st.files, id)
		}
	}
	return nil
}

func (q *txQuerier) InsertCommitFile(_ context.Context, arg database.InsertCommitFileParams) error {
	if err := q.fail("InsertCommitFile"); err != nil {
		return err
	}
	f := database.CommitFile{
		ID:           q.st.nextID(),
		CommitID:     arg.CommitID,
		Filename:     arg.Filename,
		Status:       arg.Status,
		LinesAdded:   arg.LinesAdded,
		LinesRemoved: arg.LinesRemoved,
		IsExcluded:   arg.IsExcluded,
		IsEstimated:  arg.IsEstimated,
	}
	q.st.files[f.ID] = f
	return nil
}

func (q *txQuerier) ListCommitFiles(_ context.Context, commitID int64) ([]database.CommitFile, error) {
	return sortedByID(q.st.files, func(f database.CommitFile) bool { return f.CommitID == commitID }), nil
}

func (q *txQuerier) DeleteCommitFlags(_ context.Context, commitID int64) error {
	for id, f := range q.st.flags {
		if f.CommitID == commitID {
			delete(q.st.flags, id)
		}
	}
	return nil
}

func (q *txQuerier) InsertCommitFlag(_ context.Context, arg database.InsertCommitFlagParams) error {
	if err := q.fail("InsertCommitFlag"); err != nil {
		return err
	}
	f := database.CommitFlag{
		ID:        q.st.nextID(),
		CommitID:  arg.CommitID,
		FlagType:  arg.FlagType,
		Details:   arg.Details,
		CreatedAt: time.Now(),
	}
	q.st.flags[f.ID] = f
	return nil
}

func (q *txQuerier) ListCommitFlags(_ context.Context, commitID int64) ([]database.CommitFlag, error) {
	return sortedByID(q.st.flags, func(f database.CommitFlag) bool { return f.CommitID == commitID }), nil
}

func (q *txQuerier) GetCommitForAnalysis(_ context.Context, id int64) (database.GetCommitForAnalysisRow, error) {
	c, ok := q.st.commits[id]
	if !ok {
		return database.GetCommitForAnalysisRow{}, pgx.ErrNoRows
	}
	r := q.st.repositories[c.RepositoryID]
	return database.GetCommitForAnalysisRow{
		ID:             c.ID,
		RepositoryID:   c.RepositoryID,
		Sha:            c.Sha,
		Message:        c.Message,
		LinesAdded:     c.LinesAdded,
		LinesRemoved:   c.LinesRemoved,
		FilesChanged:   c.FilesChanged,
		PlatformID:     r.PlatformID,
		RepoExternalID: r.ExternalID,
		RepoFullName:   r.FullName,
	}, nil
}

func (q *txQuerier) ListCommitsByRepository(_ context.Context, arg database.ListCommitsByRepositoryParams) ([]database.Commit, error) {
	commits := sortedByID(q.st.commits, func(c database.Commit) bool { return c.RepositoryID == arg.RepositoryID })
	sort.SliceStable(commits, func(i, j int) bool {
		if !commits[i].CommittedAt.Equal(commits[j].CommittedAt) {
			return commits[i].CommittedAt.After(commits[j].CommittedAt)
		}
		return commits[i].ID > commits[j].ID
	})
	start := int(arg.Offset)
	if start > len(commits) {
		start = len(commits)
	}
	end := start + int(arg.Limit)
	if end > len(commits) {
		end = len(commits)
	}
	return commits[start:end], nil
}

// Sync log

func (q *txQuerier) GetLastSuccessfulSync(_ context.Context, arg database.GetLastSuccessfulSyncParams) (database.SyncLog, error) {
	if err := q.fail("GetLastSuccessfulSync"); err != nil {
		return database.SyncLog{}, err
	}
	var best database.SyncLog
	found := false
	for _, l := range sortedByID(q.st.syncLogs, nil) {
		if l.RepositoryID != arg.RepositoryID || !l.BranchID.Valid || l.BranchID.Int64 != arg.BranchID ||
			l.SyncType != arg.SyncType || l.Status != "success" || !l.ToDate.Valid {
			continue
		}
		if !found || !l.ToDate.Time.Before(best.ToDate.Time) {
			best, found = l, true
		}
	}
	if !found {
		return database.SyncLog{}, pgx.ErrNoRows
	}
	return best, nil
}

func (q *txQuerier) InsertSyncLog(_ context.Context, arg database.InsertSyncLogParams) (int64, error) {
	if err := q.fail("InsertSyncLog"); err != nil {
		return 0, err
	}
	l := database.SyncLog{
		ID:               q.st.nextID(),
		RepositoryID:     arg.RepositoryID,
		BranchID:         arg.BranchID,
		SyncType:         arg.SyncType,
		FromDate:         arg.FromDate,
		ToDate:           arg.ToDate,
		Status:           arg.Status,
		ErrorMessage:     arg.ErrorMessage,
		CommitsProcessed: arg.CommitsProcessed,
		StartedAt:        arg.StartedAt,
		FinishedAt:       time.Now(),
	}
	q.st.syncLogs[l.ID] = l
	return l.ID, nil
}

// Developers

func (q *txQuerier) ListDeveloperIdentities(_ context.Context) ([]database.DeveloperIdentity, error) {
	if err := q.fail("ListDeveloperIdentities"); err != nil {
		return nil, err
	}
	return sortedByID(q.st.identities, nil), nil
}

func (q *txQuerier) ListIdentitiesByDeveloper(_ context.Context, developerID int64) ([]database.DeveloperIdentity, error) {
	return sortedByID(q.st.identities, func(i database.DeveloperIdentity) bool { return i.DeveloperID == developerID }), nil
}

func (q *txQuerier) ListUnattributedAuthors(_ context.Context) ([]database.ListUnattributedAuthorsRow, error) {
	if err := q.fail("ListUnattributedAuthors"); err != nil {
		return nil, err
	}
	seen := make(map[database.ListUnattributedAuthorsRow]bool)
	var out []database.ListUnattributedAuthorsRow
	for _, c := range sortedByID(q.st.commits, func(c database.Commit) bool { return !c.DeveloperID.Valid }) {
		row := database.ListUnattributedAuthorsRow{AuthorName: c.AuthorName, AuthorEmail: strings.ToLower(c.AuthorEmail)}
		if !seen[row] {
			seen[row] = true
			out = append(out, row)
		}
	}
	return out, nil
}

func (q *txQuerier) CreateDeveloper(_ context.Context, name string) (database.Developer, error) {
	if err := q.fail("CreateDeveloper"); err != nil {
		return database.Developer{}, err
	}
	now := time.Now()
	d := database.Developer{ID: q.st.nextID(), Name: name, IsActive: true, CreatedAt: now, UpdatedAt: now}
	q.st.developers[d.ID] = d
	return d, nil
}

func (q *txQuerier) CreateDeveloperIdentity(_ context.Context, arg database.CreateDeveloperIdentityParams) (database.DeveloperIdentity, error) {
	if err := q.fail("CreateDeveloperIdentity"); err != nil {
		return database.DeveloperIdentity{}, err
	}
	email := strings.ToLower(arg.Email)
	for _, i := range q.st.identities {
		if i.Email == email {
			return database.DeveloperIdentity{}, fmt.Errorf("duplicate key value violates unique constraint \"developer_identities_email_key\"")
		}
	}
	if _, ok := q.st.developers[arg.DeveloperID]; !ok {
		return database.DeveloperIdentity{}, fmt.Errorf("insert or update on table \"developer_identities\" violates foreign key constraint")
	}
	i := database.DeveloperIdentity{
		ID:          q.st.nextID(),
		DeveloperID: arg.DeveloperID,
		Name:        arg.Name,
		Email:       email,
		CreatedAt:   time.Now(),
	}
	q.st.identities[i.ID] = i
	return i, nil
}

func (q *txQuerier) AttributeUnassignedCommits(_ context.Context) (int64, error) {
	if err := q.fail("AttributeUnassignedCommits"); err != nil {
		return 0, err
	}
	owners := make(map[string]int64, len(q.st.identities))
	for _, i := range q.st.identities {
		owners[i.Email] = i.DeveloperID
	}
	var n int64
	for id, c := range q.st.commits {
		if c.DeveloperID.Valid {
			continue
		}
		if dev, ok := owners[strings.ToLower(c.AuthorEmail)]; ok {
			c.DeveloperID = pgtype.Int8{Int64: dev, Valid: true}
			q.st.commits[id] = c
			n++
		}
	}
	return n, nil
}

func (q *txQuerier) GetDeveloper(_ context.Context, id int64) (database.Developer, error) {
	d, ok := q.st.developers[id]
	if !ok {
		return database.Developer{}, pgx.ErrNoRows
	}
	return d, nil
}

func (q *txQuerier) ListDevelopers(_ context.Context) ([]database.ListDevelopersRow, error) {
	var out []database.ListDevelopersRow
	for _, d := range sortedByID(q.st.developers, nil) {
		row := database.ListDevelopersRow{ID: d.ID, Name: d.Name, IsActive: d.IsActive, CreatedAt: d.CreatedAt}
		for _, i := range q.st.identities {
			if i.DeveloperID == d.ID {
				row.IdentityCount++
			}
		}
		for _, c := range q.st.commits {
			if c.DeveloperID.Valid && c.DeveloperID.Int64 == d.ID {
				row.CommitCount++
			}
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (q *txQuerier) ReassignDeveloperIdentities(_ context.Context, arg database.ReassignDeveloperParams) (int64, error) {
	if err := q.fail("ReassignDeveloperIdentities"); err != nil {
		return 0, err
	}
	var n int64
	for id, i := range q.st.identities {
		if i.DeveloperID == arg.FromID {
			i.DeveloperID = arg.ToID
			q.st.identities[id] = i
			n++
		}
	}
	return n, nil
}

func (q *txQuerier) ReassignDeveloperCommits(_ context.Context, arg database.ReassignDeveloperParams) (int64, error) {
	if err := q.fail("ReassignDeveloperCommits"); err != nil {
		return 0, err
	}
	var n int64
	for id, c := range q.st.commits {
		if c.DeveloperID.Valid && c.DeveloperID.Int64 == arg.FromID {
			c.DeveloperID = pgtype.Int8{Int64: arg.ToID, Valid: true}
			q.st.commits[id] = c
			n++
		}
	}
	return n, nil
}

func (q *txQuerier) DeleteDeveloper(_ context.Context, id int64) (int64, error) {
	if err := q.fail("DeleteDeveloper"); err != nil {
		return 0, err
	}
	if _, ok := q.st.developers[id]; !ok {
		return 0, nil
	}
	delete(q.st.developers, id)
	for iid, i := range q.st.identities {
		if i.DeveloperID == id {
			delete(q.st.identities, iid)
		}
	}
	for cid, c := range q.st.commits {
		if c.DeveloperID.Valid && c.DeveloperID.Int64 == id {
			c.DeveloperID = pgtype.Int8{}
			q.st.commits[cid] = c
		}
	}
	return 1, nil
}

func (q *txQuerier) MostFrequentIdentityName(_ context.Context, developerID int64) (string, error) {
	counts := make(map[string]int)
	var order []string
	for _, i := range sortedByID(q.st.identities, func(i database.DeveloperIdentity) bool {
		return i.DeveloperID == developerID && i.Name != ""
	}) {
		if counts[i.Name] == 0 {
			order = append(order, i.Name)
		}
		counts[i.Name]++
	}
	if len(order) == 0 {
		return "", pgx.ErrNoRows
	}
	best := order[0]
	for _, name := range order[1:] {
		if counts[name] > counts[best] {
			best = name
		}
	}
	return best, nil
}

func (q *txQuerier) UpdateDeveloperName(_ context.Context, arg database.UpdateDeveloperNameParams) (int64, error) {
	d, ok := q.st.developers[arg.ID]
	if !ok {
		return 0, nil
	}
	d.Name = arg.Name
	d.UpdatedAt = time.Now()
	q.st.developers[arg.ID] = d
	return 1, nil
}

func (q *txQuerier) SetDeveloperActive(_ context.Context, arg database.SetDeveloperActiveParams) (int64, error) {
	d, ok := q.st.developers[arg.ID]
	if !ok {
		return 0, nil
	}
	d.IsActive = arg.IsActive
	d.UpdatedAt = time.Now()
	q.st.developers[arg.ID] = d
	return 1, nil
}

func (q *txQuerier) CountCommitsByDeveloper(_ context.Context, developerID int64) (int64, error) {
	var n int64
	for _, c := range q.st.commits {
		if c.DeveloperID.Valid && c.DeveloperID.Int64 == developerID {
			n++
		}
	}
	return n, nil
}

// Inspection helpers for tests.

func (s *Store) Commits() []database.Commit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedByID(s.st.commits, nil)
}

func (s *Store) CommitBySHA(sha string) (database.Commit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range sortedByID(s.st.commits, nil) {
		if c.Sha == sha {
			return c, true
		}
	}
	return database.Commit{}, false
}

func (s *Store) Flags() []database.CommitFlag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedByID(s.st.flags, nil)
}

func (s *Store) Files() []database.CommitFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedByID(s.st.files, nil)
}

func (s *Store) SyncLogs() []database.SyncLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedByID(s.st.syncLogs, nil)
}

func (s *Store) Developers() []database.Developer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedByID(s.st.developers, nil)
}

func (s *Store) Identities() []database.DeveloperIdentity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedByID(s.st.identities, nil)
}
