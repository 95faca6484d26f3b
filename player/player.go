// Package player holds the agents that choose moves in self-play.
package player

import (
	"golang.org/x/exp/rand"

	"neolithic/experiments/metrics"
	"neolithic/game"
	"neolithic/searcher"
)

// Agent chooses the next move of the current player. updates lists the moves
// played since the agent's previous call.
type Agent interface {
	FindMove(gs *game.GameState, updates []searcher.Segment) (game.Move, metrics.SearchMetric)
}

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent plays uniformly among the legal moves.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(gs *game.GameState, _ []searcher.Segment) (game.Move, metrics.SearchMetric) {
	moves := gs.LegalMoves()
	return moves[a.rng.Intn(len(moves))], metrics.SearchMetric{}
}

type greedyAgent struct {
	rng *rand.Rand
}

// NewGreedyAgent plays the move that maximizes its lead one move ahead.
// Tiles drawn by a move are sampled from shuffled piles, so the agent does not
// peek at the real order.
func NewGreedyAgent(seed uint64) Agent {
	return &greedyAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *greedyAgent) FindMove(gs *game.GameState, _ []searcher.Segment) (game.Move, metrics.SearchMetric) {
	player := gs.CurrentPlayer()
	moves := gs.LegalMoves()
	best := moves[0]
	bestLead := -2.0
	for _, m := range moves {
		next, err := gs.WithShuffledDecks(a.rng.Uint64()).Play(m)
		if err != nil {
			continue
		}
		if lead := next.Lead(player); lead > bestLead {
			best, bestLead = m, lead
		}
	}
	return best, metrics.SearchMetric{}
}
