package game

import "neolithic/tile"

// Lead scores the position between -1 and 1 for player c by comparing its
// points with the best opponent's. Free pawns count a little so that agents
// do not spend them for nothing.
func (gs *GameState) Lead(c tile.Color) float64 {
	points := gs.Points()
	best := 0
	for _, other := range gs.Players {
		if other != c {
			best = max(best, points[other])
		}
	}
	pointScore := normalize(float64(points[c]), float64(best))
	pawnScore := float64(gs.FreeOccupantsCount(c, tile.Pawn)) / float64(tile.InitialCount(tile.Pawn))
	return 0.9*pointScore + 0.1*(2*pawnScore-1)
}

// normalize maps a pair of non-negative values to [-1, 1].
func normalize(value, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}
