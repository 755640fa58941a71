// Package database maintains the tournament meta database, an embedded
// SQLite file published alongside the JSON cache under meta_analysis/.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/pocket-lens/core/pkg/models"
	"github.com/pocket-lens/core/pkg/utils"
)

const schema = `
CREATE TABLE IF NOT EXISTS tournaments (
	tournament_id TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	timestamp     INTEGER NOT NULL DEFAULT 0,
	total_players INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS archetype_appearances (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	tournament_id TEXT NOT NULL REFERENCES tournaments(tournament_id) ON DELETE CASCADE,
	archetype     TEXT NOT NULL,
	count         INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS player_performance (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	tournament_id TEXT NOT NULL REFERENCES tournaments(tournament_id) ON DELETE CASCADE,
	archetype     TEXT NOT NULL,
	placement     INTEGER NOT NULL DEFAULT 0,
	wins          INTEGER NOT NULL DEFAULT 0,
	losses        INTEGER NOT NULL DEFAULT 0,
	ties          INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_appearances_archetype ON archetype_appearances(archetype);
CREATE INDEX IF NOT EXISTS idx_performance_archetype ON player_performance(archetype);
`

// MetaStore wraps the tournament meta database.
type MetaStore struct {
	db *sql.DB
}

// OpenMetaStore opens (and if needed creates) the meta database at path.
func OpenMetaStore(path string) (*MetaStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create meta dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open meta database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize meta schema: %w", err)
	}

	return &MetaStore{db: db}, nil
}

func (m *MetaStore) Close() error {
	return m.db.Close()
}

// UpsertTournament replaces all rows derived from one tournament.
// Re-syncing the same tournament is idempotent.
func (m *MetaStore) UpsertTournament(ctx context.Context, t *models.Tournament) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		`DELETE FROM archetype_appearances WHERE tournament_id = ?`,
		`DELETE FROM player_performance WHERE tournament_id = ?`,
		`DELETE FROM tournaments WHERE tournament_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, t.ID); err != nil {
			return fmt.Errorf("failed to clear rows for %s: %w", t.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO tournaments (tournament_id, name, timestamp, total_players) VALUES (?, ?, ?, ?)`,
		t.ID, t.Name, t.Timestamp, t.PlayerCount,
	); err != nil {
		return fmt.Errorf("failed to insert tournament %s: %w", t.ID, err)
	}

	appearances := make(map[string]int)
	for _, player := range t.Players {
		archetype := utils.NormalizeArchetype(player.Archetype)
		if archetype == "" {
			continue
		}
		appearances[archetype]++

		rec, err := models.ParseRecord(player.Record)
		if err != nil {
			continue // unknown record text, appearance still counts
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO player_performance (tournament_id, archetype, placement, wins, losses, ties) VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, archetype, player.Placement, rec.Wins, rec.Losses, rec.Ties,
		); err != nil {
			return fmt.Errorf("failed to insert performance row for %s: %w", t.ID, err)
		}
	}

	for archetype, count := range appearances {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO archetype_appearances (tournament_id, archetype, count) VALUES (?, ?, ?)`,
			t.ID, archetype, count,
		); err != nil {
			return fmt.Errorf("failed to insert appearance row for %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tournament %s: %w", t.ID, err)
	}
	return nil
}

// ArchetypeTotals aggregates per-archetype performance across all
// stored tournaments, ordered by appearances.
func (m *MetaStore) ArchetypeTotals(ctx context.Context) ([]models.ArchetypeStats, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT
			aa.archetype,
			SUM(aa.count)                   AS appearances,
			COUNT(DISTINCT aa.tournament_id) AS tournaments_played,
			COALESCE(p.total_wins, 0),
			COALESCE(p.total_losses, 0),
			COALESCE(p.total_ties, 0)
		FROM archetype_appearances aa
		LEFT JOIN (
			SELECT archetype,
				SUM(wins)   AS total_wins,
				SUM(losses) AS total_losses,
				SUM(ties)   AS total_ties
			FROM player_performance
			GROUP BY archetype
		) p ON p.archetype = aa.archetype
		GROUP BY aa.archetype
		HAVING appearances > 0
		ORDER BY appearances DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query archetype totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []models.ArchetypeStats
	for rows.Next() {
		var s models.ArchetypeStats
		if err := rows.Scan(&s.Archetype, &s.Appearances, &s.TournamentsPlayed, &s.Wins, &s.Losses, &s.Ties); err != nil {
			return nil, fmt.Errorf("failed to scan archetype row: %w", err)
		}
		s.DisplayName = utils.ArchetypeDisplayName(s.Archetype)
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read archetype totals: %w", err)
	}
	return stats, nil
}

// Totals returns the stored tournament count and the summed player count.
func (m *MetaStore) Totals(ctx context.Context) (tournaments int, players int, err error) {
	row := m.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_players), 0) FROM tournaments`)
	if err := row.Scan(&tournaments, &players); err != nil {
		return 0, 0, fmt.Errorf("failed to read totals: %w", err)
	}
	return tournaments, players, nil
}
