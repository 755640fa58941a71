package config

import (
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	Server    ServerConfig
	Limitless LimitlessConfig
	Sync      SyncConfig
	Git       GitConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type LimitlessConfig struct {
	BaseURL   string
	Timeout   int
	UserAgent string
}

type SyncConfig struct {
	// CacheDir holds one JSON file per tournament plus index.json.
	CacheDir string
	// MetaDir holds the meta database and the snapshot JSON.
	MetaDir string
	// MaxFetch is how many completed tournaments to list per run.
	MaxFetch int
	// MaxNewPerRun caps how many uncached tournaments get scraped per run.
	MaxNewPerRun int
	// MinPlayers filters out small tournaments.
	MinPlayers int
	// FetchDelay is the politeness delay between tournament scrapes, in seconds.
	FetchDelay int
	// MinMetaShare and MinWinRate filter the meta snapshot, in percent.
	MinMetaShare float64
	MinWinRate   float64
}

type GitConfig struct {
	RepoPath    string
	Remote      string
	AuthorName  string
	AuthorEmail string
	Token       string
	PushEnabled bool
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "localhost"),
		},
		Limitless: LimitlessConfig{
			BaseURL:   getEnv("LIMITLESS_BASE_URL", "https://play.limitlesstcg.com"),
			Timeout:   getEnvAsInt("LIMITLESS_TIMEOUT", 30),
			UserAgent: getEnv("LIMITLESS_USER_AGENT", "pocket-lens-sync/1.0"),
		},
		Sync: SyncConfig{
			CacheDir:     getEnv("TOURNAMENT_CACHE_DIR", "tournament_cache"),
			MetaDir:      getEnv("META_ANALYSIS_DIR", "meta_analysis"),
			MaxFetch:     getEnvAsInt("SYNC_MAX_FETCH", 30),
			MaxNewPerRun: getEnvAsInt("SYNC_MAX_NEW_PER_RUN", 10),
			MinPlayers:   getEnvAsInt("SYNC_MIN_PLAYERS", 50),
			FetchDelay:   getEnvAsInt("SYNC_FETCH_DELAY", 2),
			MinMetaShare: getEnvAsFloat("META_MIN_SHARE", 0.5),
			MinWinRate:   getEnvAsFloat("META_MIN_WIN_RATE", 45.0),
		},
		Git: GitConfig{
			RepoPath:    getEnv("GIT_REPO_PATH", "."),
			Remote:      getEnv("GIT_REMOTE", "origin"),
			AuthorName:  getEnv("GIT_AUTHOR_NAME", "pocket-lens-bot"),
			AuthorEmail: getEnv("GIT_AUTHOR_EMAIL", "bot@pocket-lens.dev"),
			Token:       getEnv("GIT_TOKEN", ""),
			PushEnabled: getEnvAsBool("GIT_PUSH_ENABLED", true),
		},
	}
}

// MetaDatabasePath returns the location of the tournament meta database.
func (c *Config) MetaDatabasePath() string {
	return filepath.Join(c.Sync.MetaDir, "tournament_meta.db")
}

// MetaSnapshotPath returns the location of the meta snapshot JSON.
func (c *Config) MetaSnapshotPath() string {
	return filepath.Join(c.Sync.MetaDir, "meta_summary.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
