package tile

// Side is the border of a tile in one direction: a ForestSide, a MeadowSide or
// a RiverSide. Zones of a side are listed clockwise around the tile.
type Side interface {
	Zones() []Zone
	side()
}

type ForestSide struct {
	Forest *Forest
}

func (s ForestSide) Zones() []Zone { return []Zone{s.Forest} }
func (ForestSide) side()           {}

type MeadowSide struct {
	Meadow *Meadow
}

func (s MeadowSide) Zones() []Zone { return []Zone{s.Meadow} }
func (MeadowSide) side()           {}

// RiverSide is a river flanked by two meadows.
type RiverSide struct {
	Meadow1 *Meadow
	River   *River
	Meadow2 *Meadow
}

func (s RiverSide) Zones() []Zone { return []Zone{s.Meadow1, s.River, s.Meadow2} }
func (RiverSide) side()           {}

// SideKind names the variant of a side.
func SideKind(s Side) string {
	switch s.(type) {
	case ForestSide:
		return "forest"
	case MeadowSide:
		return "meadow"
	case RiverSide:
		return "river"
	default:
		return "unknown"
	}
}

// SameKind reports whether two sides can face each other.
func SameKind(a, b Side) bool {
	switch a.(type) {
	case ForestSide:
		_, ok := b.(ForestSide)
		return ok
	case MeadowSide:
		_, ok := b.(MeadowSide)
		return ok
	case RiverSide:
		_, ok := b.(RiverSide)
		return ok
	default:
		return false
	}
}
