// Package server exposes games over HTTP. Clients send remote actions in
// their short encoded form; every game applies at most one at a time.
package server

import (
	"context"
	"net/http"
	"slices"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"neolithic/game"
	"neolithic/journal"
	"neolithic/text"
	"neolithic/tile"
)

// Journal records what happens to the games of a server. Writes happen
// once a transition has succeeded.
type Journal interface {
	CreateGame(ctx context.Context, g journal.Game) error
	RecordMove(ctx context.Context, gameID string, step int, code string, move game.Move, prev, next *game.GameState) error
	FinishGame(ctx context.Context, id string, winners []tile.Color, points int) error
}

// table is one hosted game. Its lock is held for the whole of a transition,
// journal writes included.
type table struct {
	sync.Mutex
	id     string
	locale string
	seed   uint64
	state  *game.GameState
	step   int
}

type Server struct {
	catalog *tile.Catalog
	texts   *text.Catalog
	journal Journal
	locale  string
	players int

	mutex  sync.RWMutex
	tables map[string]*table
	order  []string
}

type Option func(s *Server)

func WithJournal(j Journal) Option {
	return func(s *Server) {
		s.journal = j
	}
}

func WithCatalog(c *tile.Catalog) Option {
	return func(s *Server) {
		s.catalog = c
	}
}

// WithDefaults sets the locale and number of players of games created
// without them.
func WithDefaults(locale string, players int) Option {
	return func(s *Server) {
		if locale != "" {
			s.locale = locale
		}
		if players > 0 {
			s.players = players
		}
	}
}

func New(texts *text.Catalog, options ...Option) *Server {
	s := &Server{
		catalog: tile.DefaultCatalog(),
		texts:   texts,
		locale:  text.DefaultLocale,
		players: game.MinPlayers,
		tables:  make(map[string]*table),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Routes returns the HTTP handler of the server.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Get("/games", s.listGames)
		r.Post("/games", s.createGame)
		r.Route("/games/{id}", func(r chi.Router) {
			r.Get("/", s.getGame)
			r.Post("/start", s.startGame)
			r.Post("/actions", s.playAction)
			r.Get("/messages", s.getMessages)
		})
	})

	return r
}

func (s *Server) table(id string) (*table, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	t, ok := s.tables[id]
	return t, ok
}

func (s *Server) add(t *table) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.tables[t.id] = t
	s.order = append(s.order, t.id)
}

func (s *Server) ids() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return slices.Clone(s.order)
}
