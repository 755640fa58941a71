package services

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pocket-lens/core/internal/config"
	"github.com/pocket-lens/core/pkg/cache"
	"github.com/pocket-lens/core/pkg/database"
	"github.com/pocket-lens/core/pkg/logger"
	"github.com/pocket-lens/core/pkg/models"
)

// MetaService rebuilds the meta analysis artifacts from the tournament
// cache: the SQLite meta database plus the meta_summary.json snapshot.
type MetaService struct {
	store        *cache.Store
	meta         *database.MetaStore
	snapshotPath string
	cfg          config.SyncConfig
}

func NewMetaService(store *cache.Store, meta *database.MetaStore, snapshotPath string, cfg config.SyncConfig) *MetaService {
	return &MetaService{
		store:        store,
		meta:         meta,
		snapshotPath: snapshotPath,
		cfg:          cfg,
	}
}

// Refresh loads every cached tournament into the meta database and
// writes a fresh snapshot.
func (s *MetaService) Refresh(ctx context.Context) (*models.MetaSnapshot, error) {
	log := logger.WithContext(ctx, "meta-refresh")

	tournaments, err := s.store.LoadAll()
	if err != nil {
		return nil, err
	}

	for _, t := range tournaments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.meta.UpsertTournament(ctx, t); err != nil {
			return nil, err
		}
	}

	snapshot, err := s.buildSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	// Skip the write when only the timestamp would change, keeping
	// repeated runs from dirtying the published artifact.
	if existing, err := s.LoadSnapshot(); err == nil && snapshotsEqual(existing, snapshot) {
		return existing, nil
	}

	if err := cache.WriteJSON(s.snapshotPath, snapshot); err != nil {
		return nil, err
	}

	log.Info().
		Str("action", "meta_refreshed").
		Int("tournaments", snapshot.TournamentCount).
		Int("archetypes", len(snapshot.Archetypes)).
		Msg("Meta analysis refreshed")

	return snapshot, nil
}

func (s *MetaService) buildSnapshot(ctx context.Context) (*models.MetaSnapshot, error) {
	stats, err := s.meta.ArchetypeTotals(ctx)
	if err != nil {
		return nil, err
	}

	tournamentCount, totalPlayers, err := s.meta.Totals(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]models.ArchetypeStats, 0, len(stats))
	for _, stat := range stats {
		if totalPlayers > 0 {
			stat.Share = float64(stat.Appearances) / float64(totalPlayers) * 100
		}
		stat.WinRate = models.WinRate(stat.Wins, stat.Losses, stat.Ties)
		stat.PowerIndex = models.PowerIndex(stat.Wins, stat.Losses)

		if stat.Share < s.cfg.MinMetaShare || stat.WinRate < s.cfg.MinWinRate {
			continue
		}
		filtered = append(filtered, stat)
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].PowerIndex > filtered[j].PowerIndex
	})

	return &models.MetaSnapshot{
		GeneratedAt:     time.Now().Unix(),
		TournamentCount: tournamentCount,
		TotalPlayers:    totalPlayers,
		Archetypes:      filtered,
	}, nil
}

// snapshotsEqual compares snapshots ignoring the generation timestamp.
func snapshotsEqual(a, b *models.MetaSnapshot) bool {
	if a.TournamentCount != b.TournamentCount || a.TotalPlayers != b.TotalPlayers {
		return false
	}
	return reflect.DeepEqual(a.Archetypes, b.Archetypes)
}

// LoadSnapshot reads the last published snapshot from disk.
func (s *MetaService) LoadSnapshot() (*models.MetaSnapshot, error) {
	var snapshot models.MetaSnapshot
	if err := cache.ReadJSON(s.snapshotPath, &snapshot); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no meta snapshot published yet")
		}
		return nil, err
	}
	return &snapshot, nil
}

// RenderTable formats a snapshot as a terminal table for the report job.
func RenderTable(snapshot *models.MetaSnapshot) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Deck", "Share %", "Win %", "Power", "Record", "Tournaments"})

	for i, stat := range snapshot.Archetypes {
		t.AppendRow(table.Row{
			i + 1,
			stat.DisplayName,
			fmt.Sprintf("%.2f", stat.Share),
			fmt.Sprintf("%.1f", stat.WinRate),
			fmt.Sprintf("%.2f", stat.PowerIndex),
			fmt.Sprintf("%d-%d-%d", stat.Wins, stat.Losses, stat.Ties),
			stat.TournamentsPlayed,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "tournaments", snapshot.TournamentCount})

	return t.Render()
}
