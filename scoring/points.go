// Package scoring turns closed areas into points and keeps the append-only
// board of scoring messages.
package scoring

import "neolithic/tile"

const (
	forestTilePoints    = 2
	mushroomGroupPoints = 3
	riverTilePoints     = 1
	fishPoints          = 1
	logboatLakePoints   = 2
	raftLakePoints      = 1
)

var animalPoints = map[tile.AnimalKind]int{
	tile.Mammoth: 3,
	tile.Aurochs: 2,
	tile.Deer:    1,
	tile.Tiger:   0,
}

func ForClosedForest(tileCount, mushroomGroupCount int) int {
	return forestTilePoints*tileCount + mushroomGroupPoints*mushroomGroupCount
}

func ForClosedRiver(tileCount, fishCount int) int {
	return riverTilePoints*tileCount + fishPoints*fishCount
}

// ForMeadow sums the points of the animals, counted per kind.
func ForMeadow(counts map[tile.AnimalKind]int) int {
	points := 0
	for kind, n := range counts {
		points += animalPoints[kind] * n
	}
	return points
}

func ForRiverSystem(fishCount int) int {
	return fishPoints * fishCount
}

func ForLogboat(lakeCount int) int {
	return logboatLakePoints * lakeCount
}

func ForRaft(lakeCount int) int {
	return raftLakePoints * lakeCount
}

// CountAnimals counts animals per kind.
func CountAnimals(animals []tile.Animal) map[tile.AnimalKind]int {
	counts := map[tile.AnimalKind]int{}
	for _, a := range animals {
		counts[a.Kind]++
	}
	return counts
}
