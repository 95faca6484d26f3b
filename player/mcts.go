package player

import (
	"math"

	"golang.org/x/exp/rand"

	"neolithic/experiments/metrics"
	"neolithic/game"
	"neolithic/searcher"
)

type evaluationAgent struct {
	mcts *searcher.MCTS
}

// NewEvaluationAgent plays the most visited move of each search.
func NewEvaluationAgent(mcts *searcher.MCTS) Agent {
	return evaluationAgent{mcts: mcts}
}

func (a evaluationAgent) FindMove(gs *game.GameState, updates []searcher.Segment) (game.Move, metrics.SearchMetric) {
	policy, metric := a.mcts.Simulate(NewSearchState(gs), updates)
	return findMax(policy, gs), metric
}

type trainingAgent struct {
	mcts        *searcher.MCTS
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent samples moves from the visit shares of each search,
// sharpened or flattened by temperature.
func NewTrainingAgent(mcts *searcher.MCTS, temperature float64, seed uint64) Agent {
	return &trainingAgent{mcts: mcts, temperature: temperature, rng: rand.New(rand.NewSource(seed))}
}

func (a *trainingAgent) FindMove(gs *game.GameState, updates []searcher.Segment) (game.Move, metrics.SearchMetric) {
	policy, metric := a.mcts.Simulate(NewSearchState(gs), updates)
	if len(policy) == 0 {
		return gs.LegalMoves()[0], metric
	}
	adjusted := adjustTemperature(policy, a.temperature)
	return sample(adjusted, gs, a.rng.Float64()), metric
}

func adjustTemperature(policy map[searcher.Move]float64, temperature float64) map[searcher.Move]float64 {
	// Compute temperature-adjusted move probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make(map[searcher.Move]float64, len(policy))
	for move, share := range policy {
		prob := math.Pow(share, exponent)
		sum += prob
		adjusted[move] = prob
	}
	// Normalize
	for move := range adjusted {
		adjusted[move] /= sum
	}
	return adjusted
}

// sample walks the legal moves in order so that a given draw always picks the
// same move.
func sample(policy map[searcher.Move]float64, gs *game.GameState, sampled float64) game.Move {
	cumulative := 0.0
	var lastMove game.Move
	for _, move := range gs.LegalMoves() {
		prob, ok := policy[move]
		if !ok {
			continue
		}
		lastMove = move
		cumulative += prob
		if sampled < cumulative {
			return move
		}
	}
	return lastMove // Fallback in case of rounding errors
}

// findMax returns the move with the highest share, the first legal one on
// ties, or the first legal move if the search explored nothing.
func findMax(policy map[searcher.Move]float64, gs *game.GameState) game.Move {
	legal := gs.LegalMoves()
	maxMove := legal[0]
	maxShare := -1.0
	for _, move := range legal {
		if share, ok := policy[move]; ok && share > maxShare {
			maxShare = share
			maxMove = move
		}
	}
	return maxMove
}
