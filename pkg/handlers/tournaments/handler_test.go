package tournaments

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocket-lens/core/pkg/cache"
	"github.com/pocket-lens/core/pkg/logger"
	"github.com/pocket-lens/core/pkg/models"
	"github.com/pocket-lens/core/pkg/models/api"
)

const testID = "0123456789abcdef01234567"

func newTestHandler(t *testing.T) (*Handler, *cache.Store) {
	t.Helper()
	store := cache.NewStore(filepath.Join(t.TempDir(), "tournament_cache"))
	return NewHandler(store, logger.New("tournaments-handler-test")), store
}

func seedTournament(t *testing.T, store *cache.Store) {
	t.Helper()
	require.NoError(t, store.SaveTournament(&models.Tournament{
		ID:          testID,
		Name:        "Big Pocket Open",
		Timestamp:   1718000000,
		PlayerCount: 64,
	}))
	index, err := store.LoadIndex()
	require.NoError(t, err)
	index.Add(testID)
	require.NoError(t, store.SaveIndex(index))
}

func TestListEmpty(t *testing.T) {
	handler, _ := newTestHandler(t)

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest(http.MethodGet, "/api/tournaments", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)

	var response api.TournamentListResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Zero(t, response.Count)
	assert.Empty(t, response.Tournaments)
}

func TestListReturnsCachedTournaments(t *testing.T) {
	handler, store := newTestHandler(t)
	seedTournament(t, store)

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest(http.MethodGet, "/api/tournaments", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)

	var response api.TournamentListResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, 1, response.Count)
	require.Len(t, response.Tournaments, 1)
	assert.Equal(t, testID, response.Tournaments[0].ID)
	assert.Equal(t, "Big Pocket Open", response.Tournaments[0].Name)
	assert.Equal(t, 64, response.Tournaments[0].PlayerCount)
}

func TestGetTournament(t *testing.T) {
	handler, store := newTestHandler(t)
	seedTournament(t, store)

	recorder := httptest.NewRecorder()
	handler.Get(recorder, httptest.NewRequest(http.MethodGet, "/api/tournaments/"+testID, nil))

	assert.Equal(t, http.StatusOK, recorder.Code)

	var tournament models.Tournament
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&tournament))
	assert.Equal(t, "Big Pocket Open", tournament.Name)
}

func TestGetTournamentNotFound(t *testing.T) {
	handler, _ := newTestHandler(t)

	recorder := httptest.NewRecorder()
	handler.Get(recorder, httptest.NewRequest(http.MethodGet, "/api/tournaments/"+testID, nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetTournamentInvalidID(t *testing.T) {
	handler, _ := newTestHandler(t)

	for _, id := range []string{"nope", "../index", "0123456789ABCDEF01234567"} {
		recorder := httptest.NewRecorder()
		handler.Get(recorder, httptest.NewRequest(http.MethodGet, "/api/tournaments/"+id, nil))
		assert.Equal(t, http.StatusBadRequest, recorder.Code, id)
	}
}
