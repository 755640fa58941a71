// Package cache persists scraped tournaments as JSON files so the
// backing git repository can version them directly.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pocket-lens/core/pkg/models"
)

const indexFileName = "index.json"

// Store is a directory-backed tournament cache. One JSON file per
// tournament plus an index.json tracking cached IDs.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created
// lazily on first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the cache directory path.
func (s *Store) Dir() string {
	return s.dir
}

// LoadIndex reads index.json, returning an empty index if the cache
// has never been written.
func (s *Store) LoadIndex() (*models.TournamentIndex, error) {
	var index models.TournamentIndex
	err := ReadJSON(filepath.Join(s.dir, indexFileName), &index)
	if os.IsNotExist(err) {
		return &models.TournamentIndex{Tournaments: []string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament index: %w", err)
	}
	if index.Tournaments == nil {
		index.Tournaments = []string{}
	}
	return &index, nil
}

// SaveIndex writes index.json atomically.
func (s *Store) SaveIndex(index *models.TournamentIndex) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	return WriteJSON(filepath.Join(s.dir, indexFileName), index)
}

// SaveTournament writes one tournament file atomically.
func (s *Store) SaveTournament(t *models.Tournament) error {
	if t.ID == "" {
		return fmt.Errorf("tournament has no ID")
	}
	if err := s.ensureDir(); err != nil {
		return err
	}
	return WriteJSON(s.tournamentPath(t.ID), t)
}

// LoadTournament reads one cached tournament by ID.
func (s *Store) LoadTournament(id string) (*models.Tournament, error) {
	var t models.Tournament
	if err := ReadJSON(s.tournamentPath(id), &t); err != nil {
		return nil, fmt.Errorf("failed to load tournament %s: %w", id, err)
	}
	return &t, nil
}

// LoadAll reads every tournament named in the index. Files missing on
// disk are skipped rather than failing the whole load.
func (s *Store) LoadAll() ([]*models.Tournament, error) {
	index, err := s.LoadIndex()
	if err != nil {
		return nil, err
	}

	tournaments := make([]*models.Tournament, 0, len(index.Tournaments))
	for _, id := range index.Tournaments {
		t, err := s.LoadTournament(id)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, nil
}

// ListFiles enumerates the cached tournament files, sorted by name.
// Used for run diagnostics only.
func (s *Store) ListFiles() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == indexFileName || !strings.HasSuffix(name, ".json") {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

func (s *Store) tournamentPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir %s: %w", s.dir, err)
	}
	return nil
}

// WriteJSON writes v as indented JSON via a temp file rename, so a
// crashed run never leaves a truncated artifact behind.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// ReadJSON reads a JSON file into v. The raw os error is returned for
// missing files so callers can branch on os.IsNotExist.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
