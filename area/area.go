// Package area tracks the connected regions of the board.
//
// An Area is a maximal set of same-kind zones connected across placed tiles,
// with the colors of its occupants and the number of its still unmatched
// edges. A Partition holds the areas of one zone kind and a Group bundles the
// forest, meadow, river and water partitions of a board. All three are values:
// operations return a new value and leave the receiver untouched.
package area

import (
	"slices"

	"neolithic/tile"
)

type Area[Z tile.Zone] struct {
	zones     []Z
	occupants []tile.Color
	open      int
}

// New builds an area. Zones are sorted by id; the slices are copied.
func New[Z tile.Zone](zones []Z, occupants []tile.Color, open int) Area[Z] {
	zs := slices.Clone(zones)
	slices.SortFunc(zs, func(a, b Z) int { return a.ID() - b.ID() })
	return Area[Z]{zones: zs, occupants: slices.Clone(occupants), open: open}
}

func (a Area[Z]) Zones() []Z              { return slices.Clone(a.zones) }
func (a Area[Z]) Occupants() []tile.Color { return slices.Clone(a.occupants) }
func (a Area[Z]) OpenConnections() int    { return a.open }
func (a Area[Z]) IsClosed() bool          { return a.open == 0 }
func (a Area[Z]) IsOccupied() bool        { return len(a.occupants) > 0 }
func (a Area[Z]) firstZoneID() int        { return a.zones[0].ID() }

func (a Area[Z]) withOpen(open int) Area[Z] {
	a.open = open
	return a
}

// ZoneIDs returns the ids of the zones, sorted.
func (a Area[Z]) ZoneIDs() []int {
	ids := make([]int, len(a.zones))
	for i, z := range a.zones {
		ids[i] = z.ID()
	}
	return ids
}

func (a Area[Z]) Contains(zoneID int) bool {
	for _, z := range a.zones {
		if z.ID() == zoneID {
			return true
		}
	}
	return false
}

// TileIDs returns the distinct ids of the tiles the area spans, sorted.
func (a Area[Z]) TileIDs() []int {
	var ids []int
	for _, z := range a.zones {
		if !slices.Contains(ids, z.TileID()) {
			ids = append(ids, z.TileID())
		}
	}
	slices.Sort(ids)
	return ids
}

func (a Area[Z]) TileCount() int {
	return len(a.TileIDs())
}

// MajorityOccupants returns the colors holding the most occupants, sorted.
// An unoccupied area has no majority.
func (a Area[Z]) MajorityOccupants() []tile.Color {
	counts := map[tile.Color]int{}
	best := 0
	for _, c := range a.occupants {
		counts[c]++
		best = max(best, counts[c])
	}
	var out []tile.Color
	for c, n := range counts {
		if n == best {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return out
}

// Equal reports whether two areas hold the same zones, roster and open count.
func (a Area[Z]) Equal(b Area[Z]) bool {
	return a.open == b.open &&
		slices.Equal(a.ZoneIDs(), b.ZoneIDs()) &&
		slices.Equal(a.occupants, b.occupants)
}

func (a Area[Z]) withOccupant(c tile.Color) Area[Z] {
	a.occupants = append(slices.Clone(a.occupants), c)
	return a
}

func (a Area[Z]) withoutOccupant(c tile.Color) (Area[Z], bool) {
	i := slices.Index(a.occupants, c)
	if i < 0 {
		return a, false
	}
	a.occupants = slices.Delete(slices.Clone(a.occupants), i, i+1)
	return a, true
}

func (a Area[Z]) withoutOccupants() Area[Z] {
	a.occupants = nil
	return a
}

// merged unions two distinct areas: zones and rosters are concatenated and
// the connecting edge consumes one open edge from each side.
func merged[Z tile.Zone](a, b Area[Z]) Area[Z] {
	zones := append(slices.Clone(a.zones), b.zones...)
	occupants := append(slices.Clone(a.occupants), b.occupants...)
	return New(zones, occupants, a.open+b.open-2)
}

// HasMenhir reports whether any forest of the area holds a menhir.
func HasMenhir(a Area[*tile.Forest]) bool {
	for _, f := range a.zones {
		if f.Kind == tile.WithMenhir {
			return true
		}
	}
	return false
}

// MushroomGroupCount counts the forests of the area holding mushrooms.
func MushroomGroupCount(a Area[*tile.Forest]) int {
	n := 0
	for _, f := range a.zones {
		if f.Kind == tile.WithMushrooms {
			n++
		}
	}
	return n
}

// Animals returns the animals of a meadow area that are not cancelled,
// sorted by id.
func Animals(a Area[*tile.Meadow], cancelled map[int]bool) []tile.Animal {
	var out []tile.Animal
	for _, m := range a.zones {
		for _, animal := range m.Animals {
			if !cancelled[animal.ID] {
				out = append(out, animal)
			}
		}
	}
	slices.SortFunc(out, func(x, y tile.Animal) int { return x.ID - y.ID })
	return out
}

// RiverFishCount counts the fish of the rivers and of the lakes they end in.
// A lake reached by several rivers of the area counts once.
func RiverFishCount(a Area[*tile.River]) int {
	n := 0
	var lakes []*tile.Lake
	for _, r := range a.zones {
		n += r.Fish
		if r.HasLake() && !slices.Contains(lakes, r.Lake) {
			lakes = append(lakes, r.Lake)
			n += r.Lake.Fish
		}
	}
	return n
}

// WaterFishCount counts the fish of every river and lake of a water area.
func WaterFishCount(a Area[tile.WaterZone]) int {
	n := 0
	for _, z := range a.zones {
		n += z.FishCount()
	}
	return n
}

func LakeCount(a Area[tile.WaterZone]) int {
	n := 0
	for _, z := range a.zones {
		if _, ok := z.(*tile.Lake); ok {
			n++
		}
	}
	return n
}

// SpecialPowerZone returns the zone of the area carrying the given power.
func SpecialPowerZone[Z tile.Zone](a Area[Z], power tile.SpecialPower) (Z, bool) {
	for _, z := range a.zones {
		if p, ok := any(z).(tile.PoweredZone); ok && p.SpecialPower() == power {
			return z, true
		}
	}
	var none Z
	return none, false
}
