package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocket-lens/core/internal/config"
	"github.com/pocket-lens/core/pkg/cache"
)

func newSyncFixture(t *testing.T, server *httptest.Server, minPlayers int) (*TournamentSyncService, *cache.Store) {
	t.Helper()

	store := cache.NewStore(filepath.Join(t.TempDir(), "tournament_cache"))

	cfg := config.Load()
	cfg.Limitless.BaseURL = server.URL
	cfg.Limitless.Timeout = 5
	cfg.Sync.MinPlayers = minPlayers
	cfg.Sync.MaxNewPerRun = 10
	cfg.Sync.FetchDelay = 0

	client := NewLimitlessClient(cfg)
	return NewTournamentSyncService(client, store, cfg.Sync), store
}

func TestSyncCachesNewTournaments(t *testing.T) {
	server := newTestServer(t)
	service, store := newSyncFixture(t, server, 2)

	result, err := service.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Listed)
	assert.Equal(t, 1, result.New)
	// The second listed tournament 404s and is skipped, not fatal
	assert.Equal(t, 1, result.Failed)

	index, err := store.LoadIndex()
	require.NoError(t, err)
	assert.Equal(t, []string{testTournamentID}, index.Tournaments)
	assert.NotZero(t, index.LastUpdated)

	tournament, err := store.LoadTournament(testTournamentID)
	require.NoError(t, err)
	assert.Equal(t, "Big Pocket Open", tournament.Name)
}

func TestSyncSkipsSmallTournaments(t *testing.T) {
	server := newTestServer(t)
	service, store := newSyncFixture(t, server, 50)

	result, err := service.Sync(context.Background())
	require.NoError(t, err)

	assert.Zero(t, result.New)
	assert.Equal(t, 1, result.Skipped)

	index, err := store.LoadIndex()
	require.NoError(t, err)
	assert.Empty(t, index.Tournaments)
}

func TestSyncSecondRunFindsNothingNew(t *testing.T) {
	server := newTestServer(t)
	service, store := newSyncFixture(t, server, 2)

	first, err := service.Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, first.New)

	firstIndex, err := store.LoadIndex()
	require.NoError(t, err)

	second, err := service.Sync(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.New)

	// Unchanged cache must leave the index untouched
	secondIndex, err := store.LoadIndex()
	require.NoError(t, err)
	assert.Equal(t, firstIndex, secondIndex)
}

func TestSyncFailsWhenListingUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	service, _ := newSyncFixture(t, server, 2)

	_, err := service.Sync(context.Background())
	require.Error(t, err)
}
