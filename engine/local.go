package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"neolithic/experiments/metrics"
	"neolithic/game"
	"neolithic/player"
	"neolithic/searcher"
	"neolithic/tile"
)

// Observer is told about every move once it has been applied.
type Observer func(step int, move game.Move, next *game.GameState) error

type Engine struct {
	State    *game.GameState
	Agents   map[tile.Color]player.Agent
	observer Observer
	maxMoves int
}

type Option func(e *Engine)

func WithObserver(observer Observer) Option {
	return func(e *Engine) {
		e.observer = observer
	}
}

func WithMaxMoves(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxMoves = n
		}
	}
}

// LocalEngine drives a game whose agents are given in turn order.
func LocalEngine(state *game.GameState, agents []player.Agent, options ...Option) *Engine {
	if len(state.Players) != len(agents) {
		panic("number of players does not match number of agents")
	}
	e := &Engine{
		State:    state,
		Agents:   make(map[tile.Color]player.Agent, len(agents)),
		maxMoves: MaxMoves,
	}
	for i, c := range state.Players {
		e.Agents[c] = agents[i]
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the entire game loop until the game is over.
func (e *Engine) Run() ([]tile.Color, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		Players:   joinColors(e.State.Players),
		StartTime: time.Now(),
	}

	// Moves since each agent's previous search
	updates := make(map[tile.Color][]searcher.Segment, len(e.Agents))

	log.Info().Msgf("starting game with players %s", gameMetric.Players)

	var moveMetrics []metrics.MoveMetric
	step := 0
	for !e.State.IsOver() {
		if step >= e.maxMoves {
			return nil, gameMetric, moveMetrics, fmt.Errorf("game stopped after %d moves", step)
		}

		var move game.Move
		current := e.State.CurrentPlayer()
		if e.State.NextAction == game.StartGame {
			move = game.Move{Action: game.StartGame}
		} else {
			var searchMetric metrics.SearchMetric
			move, searchMetric = e.Agents[current].FindMove(e.State, updates[current])
			updates[current] = nil
			moveMetrics = append(moveMetrics, metrics.MoveMetric{
				Step:         step,
				Player:       current.String(),
				Action:       move.Action.String(),
				SearchMetric: searchMetric,
			})
		}

		next, err := e.State.Play(move)
		if err != nil {
			return nil, gameMetric, moveMetrics, fmt.Errorf("%s played %s: %w", current, move, err)
		}
		log.Debug().Msgf("step %d: %s played %s", step, current, move)

		segment := player.Segment(move, next)
		for c := range e.Agents {
			updates[c] = append(updates[c], segment)
		}
		if e.observer != nil {
			if err := e.observer(step, move, next); err != nil {
				return nil, gameMetric, moveMetrics, fmt.Errorf("failed to observe step %d: %w", step, err)
			}
		}

		e.State = next
		step++
	}

	winners, points := e.State.Winners()
	gameMetric.Winners = joinColors(winners)
	gameMetric.Points = points
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = step

	log.Info().Msgf("game over after %d moves: %s won with %d points", step, gameMetric.Winners, points)

	return winners, gameMetric, moveMetrics, nil
}

func joinColors(colors []tile.Color) string {
	names := make([]string, len(colors))
	for i, c := range colors {
		names[i] = c.String()
	}
	return strings.Join(names, " ")
}
