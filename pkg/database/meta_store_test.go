package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocket-lens/core/pkg/models"
)

func openTestStore(t *testing.T) *MetaStore {
	t.Helper()
	store, err := OpenMetaStore(filepath.Join(t.TempDir(), "meta_analysis", "tournament_meta.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleTournament() *models.Tournament {
	return &models.Tournament{
		ID:          "0123456789abcdef01234567",
		Name:        "Big Pocket Open",
		Timestamp:   1718000000,
		PlayerCount: 3,
		Players: []models.PlayerStanding{
			{Placement: 1, PlayerName: "alice", Record: "7 - 0 - 0", Archetype: "charizard-ex"},
			{Placement: 2, PlayerName: "bob", Record: "5 - 2 - 0", Archetype: "charizard-ex"},
			{Placement: 3, PlayerName: "carol", Record: "4 - 3 - 1", Archetype: "mewtwo-ex"},
		},
	}
}

func TestUpsertTournamentAndTotals(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertTournament(ctx, sampleTournament()))

	tournaments, players, err := store.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, tournaments)
	assert.Equal(t, 3, players)
}

func TestUpsertTournamentIsIdempotent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	tournament := sampleTournament()
	require.NoError(t, store.UpsertTournament(ctx, tournament))
	require.NoError(t, store.UpsertTournament(ctx, tournament))

	stats, err := store.ArchetypeTotals(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// charizard-ex appeared twice in one tournament, re-upsert must not double it
	assert.Equal(t, "charizard-ex", stats[0].Archetype)
	assert.Equal(t, 2, stats[0].Appearances)
	assert.Equal(t, 1, stats[0].TournamentsPlayed)
	assert.Equal(t, 12, stats[0].Wins)
	assert.Equal(t, 2, stats[0].Losses)
}

func TestArchetypeTotalsAggregatesAcrossTournaments(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := sampleTournament()
	require.NoError(t, store.UpsertTournament(ctx, first))

	second := sampleTournament()
	second.ID = "89abcdef0123456789abcdef"
	second.Players = []models.PlayerStanding{
		{Placement: 1, PlayerName: "dave", Record: "6 - 1 - 0", Archetype: "mewtwo-ex"},
	}
	second.PlayerCount = 1
	require.NoError(t, store.UpsertTournament(ctx, second))

	stats, err := store.ArchetypeTotals(ctx)
	require.NoError(t, err)

	var mewtwo *models.ArchetypeStats
	for i := range stats {
		if stats[i].Archetype == "mewtwo-ex" {
			mewtwo = &stats[i]
		}
	}
	require.NotNil(t, mewtwo)
	assert.Equal(t, 2, mewtwo.Appearances)
	assert.Equal(t, 2, mewtwo.TournamentsPlayed)
	assert.Equal(t, 10, mewtwo.Wins)
	assert.Equal(t, 4, mewtwo.Losses)
	assert.Equal(t, 1, mewtwo.Ties)
	assert.Equal(t, "Mewtwo Ex", mewtwo.DisplayName)
}

func TestPlayersWithoutArchetypeAreIgnored(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	tournament := sampleTournament()
	tournament.Players = append(tournament.Players, models.PlayerStanding{
		Placement: 4, PlayerName: "dan", Record: "0 - 7 - 0", Archetype: "",
	})
	require.NoError(t, store.UpsertTournament(ctx, tournament))

	stats, err := store.ArchetypeTotals(ctx)
	require.NoError(t, err)
	assert.Len(t, stats, 2)
}
