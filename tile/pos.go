package tile

import "fmt"

// Pos is a cell of the unbounded board grid. Y grows southwards.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Origin is where the start tile is placed.
var Origin = Pos{}

func (p Pos) Translated(dx, dy int) Pos {
	return Pos{X: p.X + dx, Y: p.Y + dy}
}

// Neighbor returns the cell adjacent to p in direction d.
func (p Pos) Neighbor(d Direction) Pos {
	switch d {
	case North:
		return p.Translated(0, -1)
	case East:
		return p.Translated(1, 0)
	case South:
		return p.Translated(0, 1)
	case West:
		return p.Translated(-1, 0)
	default:
		panic(fmt.Sprintf("unknown direction %d", d))
	}
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// ComparePos orders positions by x, then y.
func ComparePos(a, b Pos) int {
	if a.X != b.X {
		return a.X - b.X
	}
	return a.Y - b.Y
}

// Direction is one of the four sides of a cell.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists the directions clockwise, starting north.
var Directions = [4]Direction{North, East, South, West}

// Rotated returns d turned clockwise by r.
func (d Direction) Rotated(r Rotation) Direction {
	return Direction((int(d) + int(r)) % 4)
}

func (d Direction) Opposite() Direction {
	return d.Rotated(HalfTurn)
}

func (d Direction) String() string {
	switch d {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	default:
		return "?"
	}
}

// Rotation is a clockwise quarter-turn count applied to a tile.
type Rotation int

const (
	NoRotation Rotation = iota
	Right
	HalfTurn
	Left
)

// Rotations lists every rotation in encoding order.
var Rotations = [4]Rotation{NoRotation, Right, HalfTurn, Left}

func (r Rotation) Add(other Rotation) Rotation {
	return Rotation((int(r) + int(other)) % 4)
}

func (r Rotation) Negated() Rotation {
	return Rotation((4 - int(r)) % 4)
}

func (r Rotation) String() string {
	switch r {
	case NoRotation:
		return "none"
	case Right:
		return "right"
	case HalfTurn:
		return "half"
	case Left:
		return "left"
	default:
		return "?"
	}
}
