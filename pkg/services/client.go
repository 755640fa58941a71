package services

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sony/gobreaker"

	"github.com/pocket-lens/core/internal/config"
	"github.com/pocket-lens/core/pkg/logger"
	"github.com/pocket-lens/core/pkg/models"
)

var (
	tournamentIDPattern = regexp.MustCompile(`/tournament/([0-9a-f]{24})`)
	metagamePattern     = regexp.MustCompile(`/metagame/([^/?]+)`)
)

// LimitlessClient scrapes tournament pages from play.limitlesstcg.com.
// All requests go through a circuit breaker so a broken or rate-limited
// site fails fast instead of hammering every scheduled run.
type LimitlessClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker
	logger    *logger.Logger
}

func NewLimitlessClient(cfg *config.Config) *LimitlessClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "limitless",
		Interval: 5 * time.Minute,
		Timeout:  2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &LimitlessClient{
		baseURL:   strings.TrimRight(cfg.Limitless.BaseURL, "/"),
		userAgent: cfg.Limitless.UserAgent,
		client: &http.Client{
			Timeout: time.Duration(cfg.Limitless.Timeout) * time.Second,
		},
		breaker: breaker,
		logger:  logger.New("limitless-client"),
	}
}

// RecentTournamentIDs lists completed tournament IDs in page order,
// deduplicated, newest first.
func (c *LimitlessClient) RecentTournamentIDs(ctx context.Context, maxFetch int) ([]string, error) {
	url := fmt.Sprintf("%s/tournaments/completed?game=POCKET&format=all&platform=all&type=all&show=%d",
		c.baseURL, maxFetch)

	doc, err := c.fetchDocument(ctx, url)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var ids []string
	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		match := tournamentIDPattern.FindStringSubmatch(href)
		if match == nil || seen[match[1]] {
			return
		}
		seen[match[1]] = true
		ids = append(ids, match[1])
	})

	return ids, nil
}

// FetchTournament scrapes the details and standings pages for one
// tournament and assembles the cache entry.
func (c *LimitlessClient) FetchTournament(ctx context.Context, id string) (*models.Tournament, error) {
	name, timestamp, err := c.tournamentDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	players, err := c.tournamentStandings(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.Tournament{
		ID:          id,
		Name:        name,
		Timestamp:   timestamp,
		PlayerCount: len(players),
		Players:     players,
	}, nil
}

func (c *LimitlessClient) tournamentDetails(ctx context.Context, id string) (string, int64, error) {
	url := fmt.Sprintf("%s/tournament/%s/details", c.baseURL, id)

	doc, err := c.fetchDocument(ctx, url)
	if err != nil {
		return "", 0, err
	}

	name := strings.TrimSpace(doc.Find("title").First().Text())
	name = strings.TrimSuffix(name, " | Limitless")

	var timestamp int64
	if raw, ok := doc.Find("[data-time]").First().Attr("data-time"); ok {
		if parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
			timestamp = parsed
		}
	}

	return name, timestamp, nil
}

func (c *LimitlessClient) tournamentStandings(ctx context.Context, id string) ([]models.PlayerStanding, error) {
	url := fmt.Sprintf("%s/tournament/%s/standings", c.baseURL, id)

	doc, err := c.fetchDocument(ctx, url)
	if err != nil {
		return nil, err
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no standings table found for tournament %s", id)
	}

	var players []models.PlayerStanding
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header row
		}

		cells := row.Find("td, th")

		playerName := "Unknown"
		if cells.Length() > 1 {
			playerName = strings.TrimSpace(cells.Eq(1).Text())
		}

		record := "Unknown"
		if cells.Length() > 4 {
			record = strings.TrimSpace(cells.Eq(4).Text())
		}

		// The archetype lives in the metagame link of cell 7.
		var archetype string
		if cells.Length() > 7 {
			if href, ok := cells.Eq(7).Find("a").First().Attr("href"); ok {
				if match := metagamePattern.FindStringSubmatch(href); match != nil {
					archetype = match[1]
				}
			}
		}

		players = append(players, models.PlayerStanding{
			Placement:  len(players) + 1,
			PlayerName: playerName,
			Record:     record,
			Archetype:  archetype,
		})
	})

	return players, nil
}

func (c *LimitlessClient) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	start := time.Now()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
		}

		doc, err := goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", url, err)
		}
		return doc, nil
	})

	if err != nil {
		c.logger.LogScrape(url, 0, time.Since(start), err)
		return nil, err
	}

	c.logger.LogScrape(url, http.StatusOK, time.Since(start), nil)
	return result.(*goquery.Document), nil
}
