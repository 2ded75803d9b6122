package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/mnemo-api/internal/api"
	"github.com/phrazzld/mnemo-api/internal/domain"
	"github.com/phrazzld/mnemo-api/internal/session"
	"github.com/phrazzld/mnemo-api/internal/srs"
	"github.com/phrazzld/mnemo-api/internal/store"
	"github.com/phrazzld/mnemo-api/internal/testutils"
)

// brokenStore accepts reads but fails every write.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, error) {
	return nil, store.ErrKeyNotFound
}

func (brokenStore) Set(context.Context, string, []byte) error {
	return errors.New("disk full")
}

type fixture struct {
	router http.Handler
	mgr    *srs.Manager
	deck   *domain.Deck
}

func newFixture(t *testing.T, kv store.KVStore) *fixture {
	t.Helper()
	d := testutils.ValidDeck(t)
	if kv == nil {
		kv = store.NewMemoryStore()
	}
	mgr := srs.NewManager(d, kv, nil,
		srs.WithClock(func() time.Time {
			return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		}))

	cfg := session.DefaultConfig()
	cfg.PiProbability = 0
	cfg.DateProbability = 0
	gen := session.NewGenerator(d, mgr, cfg, nil,
		session.WithRand(rand.New(rand.NewSource(1))))

	sessions := api.NewSessionHandler(mgr, gen, nil, nil)
	decks := api.NewDeckHandler(d, mgr, nil)

	r := chi.NewRouter()
	r.Post("/api/sessions", sessions.GenerateSession)
	r.Post("/api/sessions/complete", sessions.CompleteSession)
	r.Post("/api/answers", sessions.RecordAnswer)
	r.Get("/api/deck", decks.GetDeck)
	r.Get("/api/deck/cards/{number}", decks.GetCard)
	r.Get("/api/stats", decks.GetStats)

	return &fixture{router: r, mgr: mgr, deck: d}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestGenerateSession(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp api.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	require.Len(t, resp.Drills, 10)

	for _, d := range resp.Drills {
		assert.Equal(t, domain.DrillKindStandard, d.Kind)
		require.NotNil(t, d.Standard)
		assert.Len(t, d.Standard.Choices, 4)
		assert.True(t, f.mgr.IsIntroduced(d.Standard.Number),
			"generating a session introduces the selected cards")
	}
}

func TestRecordAnswer(t *testing.T) {
	t.Parallel()

	t.Run("valid answer updates scheduling state", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		rec := f.do(t, http.MethodPost, "/api/answers",
			`{"number":"42","is_correct":false,"chosen_number":"24","variant_id":"42a"}`)
		require.Equal(t, http.StatusNoContent, rec.Code)

		st, ok := f.mgr.CardState("42")
		require.True(t, ok)
		assert.Equal(t, 1, st.LapseCount)

		confusions := f.mgr.Confusions("42")
		require.Len(t, confusions, 1)
		assert.Equal(t, "24", confusions[0].Number)

		pref, ok := f.mgr.PreferredVariant("42")
		require.True(t, ok)
		assert.Equal(t, "42a", pref)
	})

	t.Run("rejects bad payloads", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		tests := []struct {
			name string
			body string
		}{
			{"malformed json", `{"number":`},
			{"missing number", `{"is_correct":true}`},
			{"number too long", `{"number":"123","is_correct":true}`},
			{"number not digits", `{"number":"ab","is_correct":true}`},
		}
		for _, tt := range tests {
			rec := f.do(t, http.MethodPost, "/api/answers", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, tt.name)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), tt.name)
			assert.NotEmpty(t, resp["error"], tt.name)
		}
	})
}

func TestCompleteSession(t *testing.T) {
	t.Parallel()

	t.Run("summarizes and persists", func(t *testing.T) {
		t.Parallel()
		kv := store.NewMemoryStore()
		f := newFixture(t, kv)

		rec := f.do(t, http.MethodPost, "/api/sessions/complete",
			`{"results":[
				{"is_correct":true,"response_ms":1000},
				{"is_correct":false,"response_ms":3000},
				{"is_correct":true,"response_ms":2000},
				{"is_correct":true,"response_ms":2000}
			]}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.CompleteSessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 4, resp.Total)
		assert.Equal(t, 3, resp.Correct)
		assert.InDelta(t, 0.75, resp.Accuracy, 1e-9)
		assert.Equal(t, int64(2000), resp.AvgResponseMs)
		assert.True(t, resp.Saved)

		_, err := kv.Get(context.Background(), srs.StorageKey)
		assert.NoError(t, err, "the snapshot is persisted on completion")
	})

	t.Run("reports a failed save without failing the request", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, brokenStore{})

		rec := f.do(t, http.MethodPost, "/api/sessions/complete", `{"results":[]}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.CompleteSessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 0, resp.Total)
		assert.False(t, resp.Saved)
	})
}

func TestGetDeck(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/deck", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.DeckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.DeckSize, resp.Count)
	assert.Len(t, resp.Cards, domain.DeckSize)
}

func TestGetCard(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/deck/cards/42", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var card domain.Card
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &card))
	assert.Equal(t, "42", card.Number)
	assert.NotEmpty(t, card.Variants)

	rec = f.do(t, http.MethodGet, "/api/deck/cards/xx", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetStats(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	f.mgr.IntroduceCard("10")
	f.mgr.IntroduceCard("11")

	rec := f.do(t, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats srs.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Introduced)
	assert.Equal(t, 2, stats.DueNow)
	assert.Equal(t, domain.DeckSize, stats.Total, "total comes from the deck, not a constant")
}
