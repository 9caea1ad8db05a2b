// internal/database/developers.sql.go
package database

import (
	"context"
	"time"
)

const listDeveloperIdentities = `-- name: ListDeveloperIdentities :many
SELECT id, developer_id, name, email, created_at
FROM developer_identities
ORDER BY id
`

func (q *Queries) ListDeveloperIdentities(ctx context.Context) ([]DeveloperIdentity, error) {
	rows, err := q.db.Query(ctx, listDeveloperIdentities)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DeveloperIdentity
	for rows.Next() {
		var i DeveloperIdentity
		if err := rows.Scan(
			&i.ID,
			&i.DeveloperID,
			&i.Name,
			&i.Email,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listIdentitiesByDeveloper = `-- name: ListIdentitiesByDeveloper :many
SELECT id, developer_id, name, email, created_at
FROM developer_identities
WHERE developer_id = $1
ORDER BY id
`

func (q *Queries) ListIdentitiesByDeveloper(ctx context.Context, developerID int64) ([]DeveloperIdentity, error) {
	rows, err := q.db.Query(ctx, listIdentitiesByDeveloper, developerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DeveloperIdentity
	for rows.Next() {
		var i DeveloperIdentity
		if err := rows.Scan(
			&i.ID,
			&i.DeveloperID,
			&i.Name,
			&i.Email,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listUnattributedAuthors = `-- name: ListUnattributedAuthors :many
SELECT author_name, LOWER(author_email) AS author_email
FROM commits
WHERE developer_id IS NULL
GROUP BY author_name, LOWER(author_email)
ORDER BY MIN(id)
`

type ListUnattributedAuthorsRow struct {
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
}

// ListUnattributedAuthors returns each distinct (name, email) pair still lacking a developer,
// in first-seen order.
func (q *Queries) ListUnattributedAuthors(ctx context.Context) ([]ListUnattributedAuthorsRow, error) {
	rows, err := q.db.Query(ctx, listUnattributedAuthors)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListUnattributedAuthorsRow
	for rows.Next() {
		var i ListUnattributedAuthorsRow
		if err := rows.Scan(&i.AuthorName, &i.AuthorEmail); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createDeveloper = `-- name: CreateDeveloper :one
INSERT INTO developers (name) VALUES ($1)
RETURNING id, name, is_active, created_at, updated_at
`

func (q *Queries) CreateDeveloper(ctx context.Context, name string) (Developer, error) {
	row := q.db.QueryRow(ctx, createDeveloper, name)
	var i Developer
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createDeveloperIdentity = `-- name: CreateDeveloperIdentity :one
INSERT INTO developer_identities (developer_id, name, email)
VALUES ($1, $2, LOWER($3))
RETURNING id, developer_id, name, email, created_at
`

type CreateDeveloperIdentityParams struct {
	DeveloperID int64  `json:"developer_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
}

func (q *Queries) CreateDeveloperIdentity(ctx context.Context, arg CreateDeveloperIdentityParams) (DeveloperIdentity, error) {
	row := q.db.QueryRow(ctx, createDeveloperIdentity, arg.DeveloperID, arg.Name, arg.Email)
	var i DeveloperIdentity
	err := row.Scan(
		&i.ID,
		&i.DeveloperID,
		&i.Name,
		&i.Email,
		&i.CreatedAt,
	)
	return i, err
}

const attributeUnassignedCommits = `-- name: AttributeUnassignedCommits :execrows
UPDATE commits c
SET developer_id = i.developer_id, updated_at = NOW()
FROM developer_identities i
WHERE c.developer_id IS NULL
  AND LOWER(c.author_email) = i.email
`

// AttributeUnassignedCommits binds every unattributed commit whose author email matches a known identity.
func (q *Queries) AttributeUnassignedCommits(ctx context.Context) (int64, error) {
	result, err := q.db.Exec(ctx, attributeUnassignedCommits)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getDeveloper = `-- name: GetDeveloper :one
SELECT id, name, is_active, created_at, updated_at
FROM developers
WHERE id = $1
`

func (q *Queries) GetDeveloper(ctx context.Context, id int64) (Developer, error) {
	row := q.db.QueryRow(ctx, getDeveloper, id)
	var i Developer
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listDevelopers = `-- name: ListDevelopers :many
SELECT d.id, d.name, d.is_active, d.created_at,
       (SELECT COUNT(*) FROM developer_identities i WHERE i.developer_id = d.id)::int AS identity_count,
       (SELECT COUNT(*) FROM commits c WHERE c.developer_id = d.id)::int AS commit_count
FROM developers d
ORDER BY d.name, d.id
`

type ListDevelopersRow struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	IdentityCount int32     `json:"identity_count"`
	CommitCount   int32     `json:"commit_count"`
}

func (q *Queries) ListDevelopers(ctx context.Context) ([]ListDevelopersRow, error) {
	rows, err := q.db.Query(ctx, listDevelopers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListDevelopersRow
	for rows.Next() {
		var i ListDevelopersRow
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.IsActive,
			&i.CreatedAt,
			&i.IdentityCount,
			&i.CommitCount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const reassignDeveloperIdentities = `-- name: ReassignDeveloperIdentities :execrows
UPDATE developer_identities SET developer_id = $2 WHERE developer_id = $1
`

type ReassignDeveloperParams struct {
	FromID int64 `json:"from_id"`
	ToID   int64 `json:"to_id"`
}

func (q *Queries) ReassignDeveloperIdentities(ctx context.Context, arg ReassignDeveloperParams) (int64, error) {
	result, err := q.db.Exec(ctx, reassignDeveloperIdentities, arg.FromID, arg.ToID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const reassignDeveloperCommits = `-- name: ReassignDeveloperCommits :execrows
UPDATE commits SET developer_id = $2, updated_at = NOW() WHERE developer_id = $1
`

func (q *Queries) ReassignDeveloperCommits(ctx context.Context, arg ReassignDeveloperParams) (int64, error) {
	result, err := q.db.Exec(ctx, reassignDeveloperCommits, arg.FromID, arg.ToID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteDeveloper = `-- name: DeleteDeveloper :execrows
DELETE FROM developers WHERE id = $1
`

func (q *Queries) DeleteDeveloper(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteDeveloper, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const mostFrequentIdentityName = `-- name: MostFrequentIdentityName :one
SELECT name
FROM developer_identities
WHERE developer_id = $1 AND name <> ''
GROUP BY name
ORDER BY COUNT(*) DESC, MIN(id) ASC
LIMIT 1
`

func (q *Queries) MostFrequentIdentityName(ctx context.Context, developerID int64) (string, error) {
	row := q.db.QueryRow(ctx, mostFrequentIdentityName, developerID)
	var name string
	err := row.Scan(&name)
	return name, err
}

const updateDeveloperName = `-- name: UpdateDeveloperName :execrows
UPDATE developers SET name = $2, updated_at = NOW() WHERE id = $1
`

type UpdateDeveloperNameParams struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (q *Queries) UpdateDeveloperName(ctx context.Context, arg UpdateDeveloperNameParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateDeveloperName, arg.ID, arg.Name)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const setDeveloperActive = `-- name: SetDeveloperActive :execrows
UPDATE developers SET is_active = $2, updated_at = NOW() WHERE id = $1
`

type SetDeveloperActiveParams struct {
	ID       int64 `json:"id"`
	IsActive bool  `json:"is_active"`
}

func (q *Queries) SetDeveloperActive(ctx context.Context, arg SetDeveloperActiveParams) (int64, error) {
	result, err := q.db.Exec(ctx, setDeveloperActive, arg.ID, arg.IsActive)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const countCommitsByDeveloper = `-- name: CountCommitsByDeveloper :one
SELECT COUNT(*) FROM commits WHERE developer_id = $1
`

func (q *Queries) CountCommitsByDeveloper(ctx context.Context, developerID int64) (int64, error) {
	row := q.db.QueryRow(ctx, countCommitsByDeveloper, developerID)
	var count int64
	err := row.Scan(&count)
	return count, err
}
