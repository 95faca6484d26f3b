package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"neolithic/codec"
	"neolithic/game"
	"neolithic/gameerr"
	"neolithic/journal"
	"neolithic/tile"
)

type createRequest struct {
	Players int     `json:"players"`
	Locale  string  `json:"locale"`
	Seed    *uint64 `json:"seed"`
}

type actionRequest struct {
	Action string `json:"action"`
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.Players == 0 {
		req.Players = s.players
	}
	if req.Players < game.MinPlayers || req.Players > game.MaxPlayers {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("players must be between %d and %d", game.MinPlayers, game.MaxPlayers))
		return
	}
	if req.Locale == "" {
		req.Locale = s.locale
	}
	maker, err := s.texts.Maker(req.Locale)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	seed := rand.Uint64()
	if req.Seed != nil {
		seed = *req.Seed
	}

	players := tile.Colors[:req.Players]
	state, err := game.NewGameState(players, game.NewDecks(s.catalog, seed), maker)
	if err != nil {
		respondFailure(w, err)
		return
	}
	t := &table{id: uuid.NewString(), locale: req.Locale, seed: seed, state: state}

	if s.journal != nil {
		g := journal.Game{
			ID:      t.id,
			Players: colorNames(players),
			Seed:    int64(seed),
			Locale:  t.locale,
		}
		if err := s.journal.CreateGame(r.Context(), g); err != nil {
			log.Error().Err(err).Msgf("failed to journal game %s", t.id)
			respondError(w, http.StatusInternalServerError, "failed to create game")
			return
		}
	}
	s.add(t)
	log.Info().Msgf("created game %s for %d players", t.id, req.Players)

	respondJSON(w, http.StatusCreated, newGameView(t.id, t.locale, state))
}

func (s *Server) listGames(w http.ResponseWriter, r *http.Request) {
	var views []summaryView
	for _, id := range s.ids() {
		t, _ := s.table(id)
		t.Lock()
		views = append(views, newSummaryView(t.id, t.state))
		t.Unlock()
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "game not found")
		return
	}
	t.Lock()
	view := newGameView(t.id, t.locale, t.state)
	t.Unlock()
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) startGame(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(gs *game.GameState) (game.Move, *game.GameState, error) {
		m := game.Move{Action: game.StartGame}
		next, err := gs.Play(m)
		return m, next, err
	}, "")
}

func (s *Server) playAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.apply(w, r, func(gs *game.GameState) (game.Move, *game.GameState, error) {
		next, m, err := codec.DecodeAndApply(gs, req.Action)
		return m, next, err
	}, req.Action)
}

// apply runs one transition of a game under its lock. A failed transition
// leaves the game untouched.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, transition func(*game.GameState) (game.Move, *game.GameState, error), code string) {
	t, ok := s.table(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "game not found")
		return
	}
	t.Lock()
	defer t.Unlock()

	prev := t.state
	move, next, err := transition(prev)
	if err != nil {
		log.Debug().Msgf("game %s rejected %q: %v", t.id, code, err)
		respondFailure(w, err)
		return
	}
	t.state = next
	step := t.step
	t.step++
	log.Debug().Msgf("game %s step %d: %s", t.id, step, move)

	if s.journal != nil {
		// The move is applied even if the client goes away.
		ctx := context.WithoutCancel(r.Context())
		if err := s.journal.RecordMove(ctx, t.id, step, code, move, prev, next); err != nil {
			log.Error().Err(err).Msgf("failed to journal step %d of game %s", step, t.id)
		}
		if next.IsOver() {
			winners, points := next.Winners()
			if err := s.journal.FinishGame(ctx, t.id, winners, points); err != nil {
				log.Error().Err(err).Msgf("failed to journal end of game %s", t.id)
			}
		}
	}
	if next.IsOver() {
		winners, points := next.Winners()
		log.Info().Msgf("game %s over: %s won with %d points", t.id, colorNames(winners), points)
	}

	respondJSON(w, http.StatusOK, newGameView(t.id, t.locale, next))
}

func (s *Server) getMessages(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "game not found")
		return
	}
	since := 0
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "since must be a non-negative integer")
			return
		}
		since = n
	}

	t.Lock()
	messages := t.state.Messages.Messages()
	t.Unlock()
	respondJSON(w, http.StatusOK, newMessagesView(messages, since))
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondFailure maps a rejected transition to its status code.
func respondFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gameerr.ErrDecode):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, gameerr.ErrPrecondition):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, gameerr.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		log.Error().Err(err).Msg("unexpected failure")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
