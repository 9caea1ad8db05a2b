// internal/database/platforms.sql.go
package database

import (
	"context"
)

const upsertPlatform = `-- name: UpsertPlatform :one
INSERT INTO platforms (name, kind, base_url, token, username, enabled)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (name) DO UPDATE SET
    kind = EXCLUDED.kind,
    base_url = EXCLUDED.base_url,
    token = EXCLUDED.token,
    username = EXCLUDED.username,
    enabled = EXCLUDED.enabled,
    updated_at = NOW()
RETURNING id, name, kind, base_url, token, username, enabled, created_at, updated_at
`

type UpsertPlatformParams struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	BaseUrl  string `json:"base_url"`
	Token    string `json:"-"`
	Username string `json:"username"`
	Enabled  bool   `json:"enabled"`
}

func (q *Queries) UpsertPlatform(ctx context.Context, arg UpsertPlatformParams) (Platform, error) {
	row := q.db.QueryRow(ctx, upsertPlatform,
		arg.Name,
		arg.Kind,
		arg.BaseUrl,
		arg.Token,
		arg.Username,
		arg.Enabled,
	)
	var i Platform
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Kind,
		&i.BaseUrl,
		&i.Token,
		&i.Username,
		&i.Enabled,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listEnabledPlatforms = `-- name: ListEnabledPlatforms :many
SELECT id, name, kind, base_url, token, username, enabled, created_at, updated_at
FROM platforms
WHERE enabled
ORDER BY id
`

func (q *Queries) ListEnabledPlatforms(ctx context.Context) ([]Platform, error) {
	rows, err := q.db.Query(ctx, listEnabledPlatforms)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Platform
	for rows.Next() {
		var i Platform
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Kind,
			&i.BaseUrl,
			&i.Token,
			&i.Username,
			&i.Enabled,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
