package tile

import (
	"fmt"
	"slices"

	"neolithic/gameerr"
)

// OccupantKind distinguishes pawns (gatherers, hunters, fishers) from huts.
type OccupantKind int

const (
	Pawn OccupantKind = iota
	Hut
)

func (k OccupantKind) String() string {
	if k == Hut {
		return "hut"
	}
	return "pawn"
}

// InitialCount is the number of occupants of a kind each player starts with.
func InitialCount(kind OccupantKind) int {
	if kind == Hut {
		return 3
	}
	return 5
}

// Occupant is a player marker placed in a zone. Its owner is the placer of
// the tile holding the zone.
type Occupant struct {
	Kind   OccupantKind `json:"kind"`
	ZoneID int          `json:"zone"`
}

func (o Occupant) String() string {
	return fmt.Sprintf("%s@%d", o.Kind, o.ZoneID)
}

// CompareOccupants orders occupants by zone id, then kind.
func CompareOccupants(a, b Occupant) int {
	if a.ZoneID != b.ZoneID {
		return a.ZoneID - b.ZoneID
	}
	return int(a.Kind) - int(b.Kind)
}

// PlacedTile is a tile put on the board. It is a value: changing the occupant
// produces a new PlacedTile.
type PlacedTile struct {
	Tile     *Tile
	Placer   Color
	Rotation Rotation
	Pos      Pos
	Occupant *Occupant
}

func (pt PlacedTile) ID() int    { return pt.Tile.ID }
func (pt PlacedTile) Kind() Kind { return pt.Tile.Kind }

// Side returns the side facing direction d once the rotation is applied.
func (pt PlacedTile) Side(d Direction) Side {
	return pt.Tile.Side(d.Rotated(pt.Rotation.Negated()))
}

// Zone returns the zone of this tile with the given id.
func (pt PlacedTile) Zone(id int) (Zone, error) {
	for _, z := range pt.Tile.Zones() {
		if z.ID() == id {
			return z, nil
		}
	}
	return nil, fmt.Errorf("tile %d has no zone %d: %w", pt.ID(), id, gameerr.ErrNotFound)
}

// SpecialPowerZone returns the zone carrying the tile's special power.
func (pt PlacedTile) SpecialPowerZone() (PoweredZone, bool) {
	for _, z := range pt.Tile.Zones() {
		if p, ok := z.(PoweredZone); ok && p.SpecialPower() != NoPower {
			return p, true
		}
	}
	return nil, false
}

func (pt PlacedTile) ForestZones() []*Forest { return pt.Tile.Forests() }
func (pt PlacedTile) MeadowZones() []*Meadow { return pt.Tile.Meadows() }
func (pt PlacedTile) RiverZones() []*River   { return pt.Tile.Rivers() }

// PotentialOccupants lists every occupant the placer could put on this tile,
// ignoring free occupant counts and area occupation.
func (pt PlacedTile) PotentialOccupants() []Occupant {
	if pt.Placer == NoColor {
		return nil
	}
	var out []Occupant
	for _, z := range pt.Tile.SideZones() {
		out = append(out, Occupant{Kind: Pawn, ZoneID: z.ID()})
		if r, ok := z.(*River); ok && !r.HasLake() {
			out = append(out, Occupant{Kind: Hut, ZoneID: r.ID()})
		}
	}
	for _, lake := range pt.Tile.Lakes() {
		out = append(out, Occupant{Kind: Hut, ZoneID: lake.ID()})
	}
	slices.SortFunc(out, CompareOccupants)
	return out
}

func (pt PlacedTile) WithOccupant(o Occupant) PlacedTile {
	pt.Occupant = &o
	return pt
}

func (pt PlacedTile) WithNoOccupant() PlacedTile {
	pt.Occupant = nil
	return pt
}

// OccupiedZoneID returns the zone holding an occupant of the given kind, or -1.
func (pt PlacedTile) OccupiedZoneID(kind OccupantKind) int {
	if pt.Occupant == nil || pt.Occupant.Kind != kind {
		return -1
	}
	return pt.Occupant.ZoneID
}
