// internal/identity/resolver.go
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"commitlens/internal/database"
	custom_errors "commitlens/internal/errors"
)

// Resolver clusters observed commit authors into developers.
type Resolver struct {
	store  database.Store
	logger *slog.Logger
}

func NewResolver(store database.Store, logger *slog.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

type ResolveResult struct {
	DevelopersCreated int64 `json:"developers_created"`
	IdentitiesCreated int64 `json:"identities_created"`
	CommitsAttributed int64 `json:"commits_attributed"`
}

type MergeResult struct {
	TargetID            int64  `json:"target_id"`
	Name                string `json:"name"`
	IdentitiesMoved     int64  `json:"identities_moved"`
	CommitsReassigned   int64  `json:"commits_reassigned"`
	TargetCommitsBefore int64  `json:"target_commits_before"`
	TargetCommitsAfter  int64  `json:"target_commits_after"`
}

// Resolve binds every unattributed (name, email) pair to a developer, creating one when no rule
// matches, then attributes every commit whose author email now has an identity.
func (r *Resolver) Resolve(ctx context.Context) (ResolveResult, error) {
	var res ResolveResult

	existing, err := r.store.ListDeveloperIdentities(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to list identities: %w", err)
	}
	m := newMatcher()
	for _, id := range existing {
		m.add(newProfile(id.DeveloperID, id.Name, id.Email))
	}

	pairs, err := r.store.ListUnattributedAuthors(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to list unattributed authors: %w", err)
	}
	r.logger.Info("Resolving developer identities", "known_identities", len(existing), "pairs", len(pairs))

	for _, pair := range pairs {
		if strings.TrimSpace(pair.AuthorEmail) == "" {
			continue
		}
		p := newProfile(0, pair.AuthorName, pair.AuthorEmail)
		devID, rule, ok := m.match(p)
		if ok && rule == "email" {
			continue
		}
		if ok {
			if _, err := r.store.CreateDeveloperIdentity(ctx, database.CreateDeveloperIdentityParams{
				DeveloperID: devID,
				Name:        pair.AuthorName,
				Email:       pair.AuthorEmail,
			}); err != nil {
				return res, fmt.Errorf("failed to add identity %s: %w", pair.AuthorEmail, err)
			}
			r.logger.Debug("Matched identity", "email", pair.AuthorEmail, "developer_id", devID, "rule", rule)
			res.IdentitiesCreated++
		} else {
			devID, err = r.createDeveloper(ctx, pair)
			if err != nil {
				return res, err
			}
			res.DevelopersCreated++
			res.IdentitiesCreated++
		}
		p.developerID = devID
		m.add(p)
	}

	n, err := r.store.AttributeUnassignedCommits(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to attribute commits: %w", err)
	}
	res.CommitsAttributed = n
	r.logger.Info("Identity resolution finished",
		"developers_created", res.DevelopersCreated,
		"identities_created", res.IdentitiesCreated,
		"commits_attributed", res.CommitsAttributed)
	return res, nil
}

func (r *Resolver) createDeveloper(ctx context.Context, pair database.ListUnattributedAuthorsRow) (int64, error) {
	name := strings.TrimSpace(pair.AuthorName)
	if name == "" {
		name = emailLocalPart(pair.AuthorEmail)
	}
	var devID int64
	err := r.store.ExecTx(ctx, func(q database.Querier) error {
		dev, err := q.CreateDeveloper(ctx, name)
		if err != nil {
			return err
		}
		if _, err := q.CreateDeveloperIdentity(ctx, database.CreateDeveloperIdentityParams{
			DeveloperID: dev.ID,
			Name:        pair.AuthorName,
			Email:       pair.AuthorEmail,
		}); err != nil {
			return err
		}
		devID = dev.ID
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create developer for %s: %w", pair.AuthorEmail, err)
	}
	r.logger.Debug("Created developer", "developer_id", devID, "name", name)
	return devID, nil
}

// Merge moves every identity and commit of source onto target and deletes source.
// The target is renamed to its most frequent identity name.
func (r *Resolver) Merge(ctx context.Context, sourceID, targetID int64) (MergeResult, error) {
	if sourceID == targetID {
		return MergeResult{}, &custom_errors.ErrSelfMerge{ID: sourceID}
	}
	res := MergeResult{TargetID: targetID}
	err := r.store.ExecTx(ctx, func(q database.Querier) error {
		for _, id := range []int64{sourceID, targetID} {
			if _, err := q.GetDeveloper(ctx, id); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return &custom_errors.ErrDeveloperNotFound{ID: id}
				}
				return err
			}
		}
		before, err := q.CountCommitsByDeveloper(ctx, targetID)
		if err != nil {
			return err
		}
		res.TargetCommitsBefore = before

		params := database.ReassignDeveloperParams{FromID: sourceID, ToID: targetID}
		if res.IdentitiesMoved, err = q.ReassignDeveloperIdentities(ctx, params); err != nil {
			return err
		}
		if res.CommitsReassigned, err = q.ReassignDeveloperCommits(ctx, params); err != nil {
			return err
		}
		if _, err := q.DeleteDeveloper(ctx, sourceID); err != nil {
			return err
		}

		name, err := q.MostFrequentIdentityName(ctx, targetID)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			dev, err := q.GetDeveloper(ctx, targetID)
			if err != nil {
				return err
			}
			name = dev.Name
		case err != nil:
			return err
		default:
			if _, err := q.UpdateDeveloperName(ctx, database.UpdateDeveloperNameParams{ID: targetID, Name: name}); err != nil {
				return err
			}
		}
		res.Name = name

		after, err := q.CountCommitsByDeveloper(ctx, targetID)
		if err != nil {
			return err
		}
		res.TargetCommitsAfter = after
		return nil
	})
	if err != nil {
		return MergeResult{}, err
	}
	r.logger.Info("Merged developers", "source_id", sourceID, "target_id", targetID,
		"identities_moved", res.IdentitiesMoved, "commits_reassigned", res.CommitsReassigned, "name", res.Name)
	return res, nil
}

func (r *Resolver) Rename(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("developer name must not be empty")
	}
	n, err := r.store.UpdateDeveloperName(ctx, database.UpdateDeveloperNameParams{ID: id, Name: name})
	if err != nil {
		return err
	}
	if n == 0 {
		return &custom_errors.ErrDeveloperNotFound{ID: id}
	}
	return nil
}

func (r *Resolver) SetActive(ctx context.Context, id int64, active bool) error {
	n, err := r.store.SetDeveloperActive(ctx, database.SetDeveloperActiveParams{ID: id, IsActive: active})
	if err != nil {
		return err
	}
	if n == 0 {
		return &custom_errors.ErrDeveloperNotFound{ID: id}
	}
	return nil
}

func (r *Resolver) Developers(ctx context.Context) ([]database.ListDevelopersRow, error) {
	return r.store.ListDevelopers(ctx)
}
