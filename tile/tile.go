package tile

import (
	"fmt"
	"slices"
)

// Kind tells which pile a tile belongs to.
type Kind int

const (
	Start Kind = iota
	Normal
	Menhir
)

func (k Kind) String() string {
	switch k {
	case Start:
		return "start"
	case Normal:
		return "normal"
	case Menhir:
		return "menhir"
	default:
		return "?"
	}
}

// Tile is a catalog entry. Tiles are shared by pointer and never modified.
type Tile struct {
	ID   int
	Kind Kind
	N    Side
	E    Side
	S    Side
	W    Side
}

// Sides returns the sides clockwise, starting north.
func (t *Tile) Sides() [4]Side {
	return [4]Side{t.N, t.E, t.S, t.W}
}

// Side returns the unrotated side in direction d.
func (t *Tile) Side(d Direction) Side {
	return t.Sides()[d]
}

// SideZones returns the distinct zones found on the sides, sorted by id.
func (t *Tile) SideZones() []Zone {
	seen := map[int]bool{}
	var zones []Zone
	for _, side := range t.Sides() {
		for _, z := range side.Zones() {
			if !seen[z.ID()] {
				seen[z.ID()] = true
				zones = append(zones, z)
			}
		}
	}
	sortZones(zones)
	return zones
}

// Zones returns the side zones and the lakes, sorted by id.
func (t *Tile) Zones() []Zone {
	zones := t.SideZones()
	for _, lake := range t.Lakes() {
		zones = append(zones, lake)
	}
	sortZones(zones)
	return zones
}

func (t *Tile) Forests() []*Forest {
	var out []*Forest
	for _, z := range t.SideZones() {
		if f, ok := z.(*Forest); ok {
			out = append(out, f)
		}
	}
	return out
}

func (t *Tile) Meadows() []*Meadow {
	var out []*Meadow
	for _, z := range t.SideZones() {
		if m, ok := z.(*Meadow); ok {
			out = append(out, m)
		}
	}
	return out
}

func (t *Tile) Rivers() []*River {
	var out []*River
	for _, z := range t.SideZones() {
		if r, ok := z.(*River); ok {
			out = append(out, r)
		}
	}
	return out
}

// Lakes returns the distinct lakes reached by the tile's rivers.
func (t *Tile) Lakes() []*Lake {
	var out []*Lake
	for _, r := range t.Rivers() {
		if r.HasLake() && !slices.Contains(out, r.Lake) {
			out = append(out, r.Lake)
		}
	}
	slices.SortFunc(out, func(a, b *Lake) int { return a.ID() - b.ID() })
	return out
}

// Validate checks the structural rules every catalog tile obeys.
func (t *Tile) Validate() error {
	for _, d := range Directions {
		side := t.Side(d)
		if side == nil {
			return fmt.Errorf("tile %d: missing side %s", t.ID, d)
		}
		for _, z := range side.Zones() {
			if z == nil {
				return fmt.Errorf("tile %d: side %s has a nil zone", t.ID, d)
			}
			if z.TileID() != t.ID {
				return fmt.Errorf("tile %d: zone %d belongs to tile %d", t.ID, z.ID(), z.TileID())
			}
			if z.LocalID() > 7 {
				return fmt.Errorf("tile %d: side zone %d uses a lake local id", t.ID, z.ID())
			}
		}
	}
	for _, lake := range t.Lakes() {
		if lake.TileID() != t.ID {
			return fmt.Errorf("tile %d: lake %d belongs to tile %d", t.ID, lake.ID(), lake.TileID())
		}
		if lake.LocalID() < 8 {
			return fmt.Errorf("tile %d: lake %d must use local id 8 or 9", t.ID, lake.ID())
		}
	}
	powered := 0
	for _, z := range t.Zones() {
		if p, ok := z.(PoweredZone); ok && p.SpecialPower() != NoPower {
			powered++
		}
	}
	if powered > 1 {
		return fmt.Errorf("tile %d: at most one zone may carry a special power", t.ID)
	}
	return nil
}

func sortZones(zones []Zone) {
	slices.SortFunc(zones, func(a, b Zone) int { return a.ID() - b.ID() })
}
