package engine

import (
	"neolithic/experiments/metrics"
	"neolithic/tile"
)

// MaxMoves bounds a game. A full game takes a few hundred moves, so reaching
// it means an agent or the rules are broken.
const MaxMoves = 10000

type Runner interface {
	// Run plays a game till it ends or a max number of moves is reached
	Run() (winners []tile.Color, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
