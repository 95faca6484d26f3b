package searcher

import "math"

const CSquared = 2.0 // Exploration constant

// Rewards are counted for the player who made the move into a node. Every
// tied winner gets WIN; cutoff evaluations fall in between.
const WIN = 1.0
const LOSS = -WIN

// uct scores the children of one node whose children were visited N times
// in total.
type uct struct {
	numerator float64
}

func newUCT(cSquared float64, N float64) *uct {
	if N == 0 {
		panic("cannot build UCT policy: N is 0")
	}
	return &uct{numerator: cSquared * math.Log(N)}
}

// evaluate returns q/n + sqrt(c^2*ln(N)/n).
func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("cannot compute UCT: 0 visits")
	}
	return q/n + math.Sqrt(u.numerator/n)
}
