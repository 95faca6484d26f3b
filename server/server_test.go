package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"neolithic/codec"
	"neolithic/game"
	"neolithic/gameerr"
	"neolithic/journal"
	"neolithic/text"
	"neolithic/tile"
)

type fakeJournal struct {
	sync.Mutex
	games    []journal.Game
	steps    []int
	codes    []string
	finished map[string][]tile.Color
}

func (f *fakeJournal) CreateGame(_ context.Context, g journal.Game) error {
	f.Lock()
	defer f.Unlock()
	f.games = append(f.games, g)
	return nil
}

func (f *fakeJournal) RecordMove(_ context.Context, _ string, step int, code string, _ game.Move, _, _ *game.GameState) error {
	f.Lock()
	defer f.Unlock()
	f.steps = append(f.steps, step)
	f.codes = append(f.codes, code)
	return nil
}

func (f *fakeJournal) FinishGame(_ context.Context, id string, winners []tile.Color, _ int) error {
	f.Lock()
	defer f.Unlock()
	if f.finished == nil {
		f.finished = make(map[string][]tile.Color)
	}
	f.finished[id] = winners
	return nil
}

// recorded returns copies of what has been journaled so far.
func (f *fakeJournal) recorded() ([]journal.Game, []int, []string, map[string][]tile.Color) {
	f.Lock()
	defer f.Unlock()
	finished := make(map[string][]tile.Color, len(f.finished))
	for id, w := range f.finished {
		finished[id] = w
	}
	return slices.Clone(f.games), slices.Clone(f.steps), slices.Clone(f.codes), finished
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeJournal) {
	t.Helper()
	texts, err := text.LoadEmbedded()
	require.NoError(t, err)
	j := &fakeJournal{}
	ts := httptest.NewServer(New(texts, WithJournal(j), WithDefaults("en", 2)).Routes())
	t.Cleanup(ts.Close)
	return ts, j
}

func do(t *testing.T, ts *httptest.Server, method, path string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func create(t *testing.T, ts *httptest.Server, body any) gameView {
	t.Helper()
	var v gameView
	require.Equal(t, http.StatusCreated, do(t, ts, http.MethodPost, "/api/games", body, &v))
	return v
}

func seed(n uint64) *uint64 { return &n }

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	var body map[string]string
	require.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/health", nil, &body))
	require.Equal(t, "ok", body["status"])
}

func TestCreateGame(t *testing.T) {
	ts, j := newTestServer(t)

	t.Run("defaults", func(t *testing.T) {
		v := create(t, ts, nil)
		require.NotEmpty(t, v.ID)
		require.Equal(t, []string{"RED", "BLUE"}, v.Players)
		require.Equal(t, "en", v.Locale)
		require.Equal(t, game.StartGame, v.NextAction)
		require.Empty(t, v.Tiles, "the start tile is not placed yet")
		require.Empty(t, v.LegalActions, "starting is not a remote action")
		games, _, _, _ := j.recorded()
		require.Len(t, games, 1, "game should be journaled")
		require.Equal(t, "RED BLUE", games[0].Players)
	})

	t.Run("explicit settings", func(t *testing.T) {
		v := create(t, ts, createRequest{Players: 4, Locale: "fr", Seed: seed(9)})
		require.Equal(t, []string{"RED", "BLUE", "GREEN", "YELLOW"}, v.Players)
		require.Equal(t, "fr", v.Locale)
		games, _, _, _ := j.recorded()
		require.Equal(t, int64(9), games[1].Seed)
	})

	t.Run("listing", func(t *testing.T) {
		var games []summaryView
		require.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/games", nil, &games))
		require.Len(t, games, 2)
		require.Len(t, games[1].Players, 4, "games should be listed in creation order")
	})

	t.Run("invalid requests", func(t *testing.T) {
		var body map[string]string
		require.Equal(t, http.StatusBadRequest, do(t, ts, http.MethodPost, "/api/games", createRequest{Players: 6}, &body))
		require.NotEmpty(t, body["error"])
		require.Equal(t, http.StatusBadRequest, do(t, ts, http.MethodPost, "/api/games", createRequest{Players: 1}, nil))
		require.Equal(t, http.StatusBadRequest, do(t, ts, http.MethodPost, "/api/games", createRequest{Locale: "xx"}, nil))
		require.Equal(t, http.StatusBadRequest, do(t, ts, http.MethodPost, "/api/games", "not an object", nil))
		games, _, _, _ := j.recorded()
		require.Len(t, games, 2, "rejected games should not be journaled")
	})
}

func TestUnknownGame(t *testing.T) {
	ts, _ := newTestServer(t)
	require.Equal(t, http.StatusNotFound, do(t, ts, http.MethodGet, "/api/games/nope", nil, nil))
	require.Equal(t, http.StatusNotFound, do(t, ts, http.MethodPost, "/api/games/nope/start", nil, nil))
	require.Equal(t, http.StatusNotFound, do(t, ts, http.MethodPost, "/api/games/nope/actions", actionRequest{Action: "AA"}, nil))
	require.Equal(t, http.StatusNotFound, do(t, ts, http.MethodGet, "/api/games/nope/messages", nil, nil))
}

func TestActions(t *testing.T) {
	ts, j := newTestServer(t)
	v := create(t, ts, createRequest{Seed: seed(5)})
	base := "/api/games/" + v.ID

	t.Run("actions before start", func(t *testing.T) {
		require.Equal(t, http.StatusBadRequest, do(t, ts, http.MethodPost, base+"/actions", actionRequest{Action: "AA"}, nil))
	})

	t.Run("start", func(t *testing.T) {
		require.Equal(t, http.StatusOK, do(t, ts, http.MethodPost, base+"/start", nil, &v))
		require.Equal(t, game.PlaceTile, v.NextAction)
		require.Len(t, v.Tiles, 1)
		require.Equal(t, tile.Origin, v.Tiles[0].Pos)
		require.Empty(t, v.Tiles[0].Placer, "the start tile has no placer")
		require.Equal(t, "RED", v.CurrentPlayer)
		require.NotNil(t, v.TileToPlace)
		require.NotEmpty(t, v.LegalActions)

		require.Equal(t, http.StatusConflict, do(t, ts, http.MethodPost, base+"/start", nil, nil),
			"starting twice should be a precondition violation")
	})

	t.Run("rejected codes leave the game unchanged", func(t *testing.T) {
		for _, code := range []string{"", "A", "AAA", "a1", "!!"} {
			require.Equal(t, http.StatusBadRequest, do(t, ts, http.MethodPost, base+"/actions", actionRequest{Action: code}, nil),
				"%q should not decode", code)
		}
		for i := 0; i < len(codec.Alphabet); i++ {
			for k := 0; k < len(codec.Alphabet); k++ {
				code := string([]byte{codec.Alphabet[i], codec.Alphabet[k]})
				if slices.Contains(v.LegalActions, code) {
					continue
				}
				status := do(t, ts, http.MethodPost, base+"/actions", actionRequest{Action: code}, nil)
				require.Contains(t, []int{http.StatusBadRequest, http.StatusConflict}, status, "%q should be rejected", code)
			}
		}

		var after gameView
		require.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, base, nil, &after))
		require.Equal(t, v, after)
		_, steps, _, _ := j.recorded()
		require.Equal(t, []int{0}, steps, "only the start should be journaled")
	})

	t.Run("malformed body", func(t *testing.T) {
		require.Equal(t, http.StatusBadRequest, do(t, ts, http.MethodPost, base+"/actions", []int{1}, nil))
	})

	t.Run("play until the end", func(t *testing.T) {
		steps := 1
		for v.NextAction != game.EndGame {
			require.Less(t, steps, 1000, "game should end")
			require.NotEmpty(t, v.LegalActions, "a running game should have legal actions")
			code := v.LegalActions[steps%len(v.LegalActions)]
			require.Equal(t, http.StatusOK, do(t, ts, http.MethodPost, base+"/actions", actionRequest{Action: code}, &v),
				"legal action %q should be accepted", code)
			steps++
		}

		require.NotEmpty(t, v.Winners)
		require.Empty(t, v.LegalActions)
		require.Empty(t, v.CurrentPlayer)
		_, recorded, codes, finished := j.recorded()
		require.Len(t, recorded, steps, "every step should be journaled")
		require.Empty(t, codes[0], "the start has no code")
		require.NotEmpty(t, codes[1])
		require.Len(t, finished[v.ID], len(v.Winners))

		best := 0
		for _, p := range v.Points {
			best = max(best, p)
		}
		for _, w := range v.Winners {
			require.Equal(t, best, v.Points[w], "winner %s should have the most points", w)
		}

		require.Equal(t, http.StatusBadRequest, do(t, ts, http.MethodPost, base+"/actions", actionRequest{Action: "7"}, nil),
			"no action is expected once the game is over")
	})

	t.Run("messages", func(t *testing.T) {
		var all messagesView
		require.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, base+"/messages", nil, &all))
		require.Equal(t, len(all.Messages), all.Next)

		points := map[tile.Color]int{}
		for _, m := range all.Messages {
			for _, c := range m.Scorers {
				points[c] += m.Points
			}
		}
		for c, p := range points {
			require.Equal(t, v.Points[c.String()], p, "messages should add up to the points of %s", c)
		}

		var last messagesView
		require.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, base+"/messages?since=1", nil, &last))
		require.Len(t, last.Messages, max(len(all.Messages)-1, 0))

		var none messagesView
		require.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, base+"/messages?since=10000", nil, &none))
		require.Empty(t, none.Messages)

		require.Equal(t, http.StatusBadRequest, do(t, ts, http.MethodGet, base+"/messages?since=-1", nil, nil))
	})
}

func TestRecoverer(t *testing.T) {
	handler := recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gameerr.Invariantf("broken partition")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "internal error")
}
