// cmd/commitlens/main_test.go
package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commitlens/internal/config"
	"commitlens/internal/database/databasetest"
	custom_errors "commitlens/internal/errors"
	"commitlens/internal/model"
)

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"0", "-3", "abc", ""} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestRegisterPlatforms(t *testing.T) {
	ctx := context.Background()
	store := databasetest.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	disabled := false
	cfg := &config.Config{
		HTTPTimeout:    5 * time.Second,
		ConnectTimeout: time.Second,
		Platforms: []config.PlatformConfig{
			{Name: "github", Kind: string(model.KindGitHub), Token: "ghp_x"},
			{Name: "gitlab", Kind: string(model.KindGitLab), Token: "glpat_x", Enabled: &disabled},
			{Name: "azure", Kind: string(model.KindAzureDevOps), Token: "pat", BaseURL: "https://dev.azure.com/acme"},
		},
	}

	clients, err := registerPlatforms(ctx, store, cfg, logger)
	require.NoError(t, err)

	enabled, err := store.ListEnabledPlatforms(ctx)
	require.NoError(t, err)
	require.Len(t, enabled, 2)
	require.Len(t, clients, 2)
	for _, p := range enabled {
		client, ok := clients[p.ID]
		require.True(t, ok, p.Name)
		assert.Equal(t, model.PlatformKind(p.Kind), client.Kind())
	}

	// Registering again updates in place instead of duplicating.
	cfg.Platforms[1].Enabled = nil
	clients, err = registerPlatforms(ctx, store, cfg, logger)
	require.NoError(t, err)
	assert.Len(t, clients, 3)
	enabled, err = store.ListEnabledPlatforms(ctx)
	require.NoError(t, err)
	assert.Len(t, enabled, 3)
}

func TestRegisterPlatforms_UnknownKind(t *testing.T) {
	cfg := &config.Config{Platforms: []config.PlatformConfig{{Name: "bb", Kind: "bitbucket", Token: "x"}}}
	_, err := registerPlatforms(context.Background(), databasetest.New(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	var unknown *custom_errors.ErrUnknownPlatformKind
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "bitbucket", unknown.Kind)
}
