// Package board holds the grid of placed tiles together with the areas they
// form. A Board is a value: every With method returns a new Board and leaves
// the receiver unchanged.
package board

import (
	"fmt"
	"maps"
	"slices"

	"neolithic/area"
	"neolithic/gameerr"
	"neolithic/tile"
)

type Board struct {
	tiles     map[tile.Pos]tile.PlacedTile
	byTileID  map[int]tile.Pos
	order     []tile.Pos
	areas     area.Group
	cancelled map[int]bool
}

// New returns an empty board.
func New() Board {
	return Board{
		tiles:     map[tile.Pos]tile.PlacedTile{},
		byTileID:  map[int]tile.Pos{},
		cancelled: map[int]bool{},
	}
}

// Copy returns a board sharing nothing mutable with b.
func (b Board) Copy() Board {
	next := New()
	maps.Copy(next.tiles, b.tiles)
	maps.Copy(next.byTileID, b.byTileID)
	maps.Copy(next.cancelled, b.cancelled)
	next.order = slices.Clone(b.order)
	next.areas = b.areas
	return next
}

func (b Board) Len() int      { return len(b.order) }
func (b Board) IsEmpty() bool { return len(b.order) == 0 }

// Areas returns the partitions of the board.
func (b Board) Areas() area.Group { return b.areas }

func (b Board) TileAt(pos tile.Pos) (tile.PlacedTile, bool) {
	pt, ok := b.tiles[pos]
	return pt, ok
}

func (b Board) TileWithID(id int) (tile.PlacedTile, error) {
	pos, ok := b.byTileID[id]
	if !ok {
		return tile.PlacedTile{}, fmt.Errorf("tile %d is not on the board: %w", id, gameerr.ErrNotFound)
	}
	return b.tiles[pos], nil
}

func (b Board) LastPlacedTile() (tile.PlacedTile, bool) {
	if b.IsEmpty() {
		return tile.PlacedTile{}, false
	}
	return b.tiles[b.order[len(b.order)-1]], true
}

// PlacedTiles returns the tiles in placement order.
func (b Board) PlacedTiles() []tile.PlacedTile {
	out := make([]tile.PlacedTile, len(b.order))
	for i, pos := range b.order {
		out[i] = b.tiles[pos]
	}
	return out
}

// InsertionPositions returns the empty cells next to at least one placed
// tile, sorted by x then y. The only insertion position of an empty board is
// the origin.
func (b Board) InsertionPositions() []tile.Pos {
	if b.IsEmpty() {
		return []tile.Pos{tile.Origin}
	}
	seen := map[tile.Pos]bool{}
	var out []tile.Pos
	for _, pos := range b.order {
		for _, d := range tile.Directions {
			n := pos.Neighbor(d)
			if _, taken := b.tiles[n]; taken || seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	slices.SortFunc(out, tile.ComparePos)
	return out
}

// CanAddTile reports whether pt can be placed: its tile is not on the board,
// its position is an insertion position and every side matches the facing
// side of its neighbor.
func (b Board) CanAddTile(pt tile.PlacedTile) bool {
	if _, placed := b.byTileID[pt.ID()]; placed {
		return false
	}
	if b.IsEmpty() {
		return pt.Pos == tile.Origin
	}
	if _, taken := b.tiles[pt.Pos]; taken {
		return false
	}
	neighbors := 0
	for _, d := range tile.Directions {
		n, ok := b.tiles[pt.Pos.Neighbor(d)]
		if !ok {
			continue
		}
		neighbors++
		if !tile.SameKind(pt.Side(d), n.Side(d.Opposite())) {
			return false
		}
	}
	return neighbors > 0
}

// CouldPlaceTile reports whether t fits somewhere on the board in some
// rotation.
func (b Board) CouldPlaceTile(t *tile.Tile) bool {
	for _, pos := range b.InsertionPositions() {
		for _, r := range tile.Rotations {
			if b.CanAddTile(tile.PlacedTile{Tile: t, Placer: tile.NoColor, Rotation: r, Pos: pos}) {
				return true
			}
		}
	}
	return false
}

// WithNewTile places a tile and connects its zones to those of its neighbors.
func (b Board) WithNewTile(pt tile.PlacedTile) (Board, error) {
	if pt.Occupant != nil {
		return b, gameerr.Preconditionf("cannot place tile %d: occupant must be added separately", pt.ID())
	}
	if !b.CanAddTile(pt) {
		return b, gameerr.Preconditionf("cannot place tile %d at %s rotated %s", pt.ID(), pt.Pos, pt.Rotation)
	}
	next := b.Copy()
	next.tiles[pt.Pos] = pt
	next.byTileID[pt.ID()] = pt.Pos
	next.order = append(next.order, pt.Pos)

	areas := b.areas.AddTile(pt.Tile)
	for _, d := range tile.Directions {
		n, ok := b.tiles[pt.Pos.Neighbor(d)]
		if !ok {
			continue
		}
		areas = areas.ConnectSides(pt.Side(d), n.Side(d.Opposite()))
	}
	next.areas = areas
	return next, nil
}

// ForestsClosedByLastTile returns the distinct closed forest areas touched by
// the last placed tile.
func (b Board) ForestsClosedByLastTile() []area.Area[*tile.Forest] {
	last, ok := b.LastPlacedTile()
	if !ok {
		return nil
	}
	var out []area.Area[*tile.Forest]
	for _, f := range last.ForestZones() {
		a := b.ForestArea(f)
		if a.IsClosed() && !slices.ContainsFunc(out, a.Equal) {
			out = append(out, a)
		}
	}
	return out
}

// RiversClosedByLastTile returns the distinct closed river areas touched by
// the last placed tile.
func (b Board) RiversClosedByLastTile() []area.Area[*tile.River] {
	last, ok := b.LastPlacedTile()
	if !ok {
		return nil
	}
	var out []area.Area[*tile.River]
	for _, r := range last.RiverZones() {
		a := b.RiverArea(r)
		if a.IsClosed() && !slices.ContainsFunc(out, a.Equal) {
			out = append(out, a)
		}
	}
	return out
}

// WithOccupant puts an occupant on the tile holding its zone. The occupant
// belongs to the tile's placer.
func (b Board) WithOccupant(occ tile.Occupant) (Board, error) {
	pt, zone, err := b.occupantZone(occ)
	if err != nil {
		return b, err
	}
	if pt.Occupant != nil {
		return b, gameerr.Preconditionf("cannot add %s: tile %d already occupied", occ, pt.ID())
	}
	if pt.Placer == tile.NoColor {
		return b, gameerr.Preconditionf("cannot add %s: tile %d has no placer", occ, pt.ID())
	}
	areas, err := b.areas.AddInitialOccupant(pt.Placer, occ.Kind, zone)
	if err != nil {
		return b, fmt.Errorf("cannot add %s: %w", occ, err)
	}
	next := b.Copy()
	next.tiles[pt.Pos] = pt.WithOccupant(occ)
	next.areas = areas
	return next, nil
}

// WithoutOccupant removes an occupant from its tile.
func (b Board) WithoutOccupant(occ tile.Occupant) (Board, error) {
	pt, zone, err := b.occupantZone(occ)
	if err != nil {
		return b, err
	}
	if pt.Occupant == nil || *pt.Occupant != occ {
		return b, gameerr.Preconditionf("cannot remove %s: not on tile %d", occ, pt.ID())
	}
	areas, err := b.areas.RemoveOccupant(pt.Placer, occ.Kind, zone)
	if err != nil {
		gameerr.Invariantf("occupant %s on tile %d missing from its area: %v", occ, pt.ID(), err)
	}
	next := b.Copy()
	next.tiles[pt.Pos] = pt.WithNoOccupant()
	next.areas = areas
	return next, nil
}

func (b Board) occupantZone(occ tile.Occupant) (tile.PlacedTile, tile.Zone, error) {
	tileID := occ.ZoneID / 10
	pt, err := b.TileWithID(tileID)
	if err != nil {
		return pt, nil, gameerr.Preconditionf("cannot use %s: %v", occ, err)
	}
	zone, err := pt.Zone(occ.ZoneID)
	if err != nil {
		return pt, nil, gameerr.Preconditionf("cannot use %s: %v", occ, err)
	}
	return pt, zone, nil
}

// WithoutGatherersOrFishersIn returns the pawns of the given forest and river
// areas to their owners. Huts stay in place.
func (b Board) WithoutGatherersOrFishersIn(forests []area.Area[*tile.Forest], rivers []area.Area[*tile.River]) Board {
	next := b.Copy()
	for pos, pt := range b.tiles {
		if pt.Occupant == nil || pt.Occupant.Kind != tile.Pawn {
			continue
		}
		id := pt.Occupant.ZoneID
		if slices.ContainsFunc(forests, func(a area.Area[*tile.Forest]) bool { return a.Contains(id) }) ||
			slices.ContainsFunc(rivers, func(a area.Area[*tile.River]) bool { return a.Contains(id) }) {
			next.tiles[pos] = pt.WithNoOccupant()
		}
	}
	areas := b.areas
	for _, a := range forests {
		areas = areas.ClearGatherers(a)
	}
	for _, a := range rivers {
		areas = areas.ClearFishers(a)
	}
	next.areas = areas
	return next
}

// WithMoreCancelledAnimals marks animals as excluded from meadow scoring.
func (b Board) WithMoreCancelledAnimals(animals []tile.Animal) Board {
	next := b.Copy()
	for _, a := range animals {
		next.cancelled[a.ID] = true
	}
	return next
}

// CancelledAnimals returns the ids of the cancelled animals.
func (b Board) CancelledAnimals() map[int]bool {
	return maps.Clone(b.cancelled)
}

func (b Board) ForestArea(f *tile.Forest) area.Area[*tile.Forest] {
	return mustArea(b.areas.Forests.AreaContaining(f))
}

func (b Board) MeadowArea(m *tile.Meadow) area.Area[*tile.Meadow] {
	return mustArea(b.areas.Meadows.AreaContaining(m))
}

func (b Board) RiverArea(r *tile.River) area.Area[*tile.River] {
	return mustArea(b.areas.Rivers.AreaContaining(r))
}

func (b Board) WaterArea(w tile.WaterZone) area.Area[tile.WaterZone] {
	return mustArea(b.areas.Water.AreaContaining(w))
}

func (b Board) MeadowAreas() []area.Area[*tile.Meadow]   { return b.areas.Meadows.Areas() }
func (b Board) WaterAreas() []area.Area[tile.WaterZone] { return b.areas.Water.Areas() }

// zones of placed tiles are always registered
func mustArea[Z tile.Zone](a area.Area[Z], err error) area.Area[Z] {
	if err != nil {
		gameerr.Invariantf("%v", err)
	}
	return a
}

// AdjacentMeadow returns the meadow area of m restricted to the zones of the
// nine tiles centred on pos. The result keeps the occupants of the full area
// and has no open connections.
func (b Board) AdjacentMeadow(pos tile.Pos, m *tile.Meadow) area.Area[*tile.Meadow] {
	full := b.MeadowArea(m)
	var zones []*tile.Meadow
	for _, z := range full.Zones() {
		p := b.byTileID[z.TileID()]
		if abs(p.X-pos.X) <= 1 && abs(p.Y-pos.Y) <= 1 {
			zones = append(zones, z)
		}
	}
	return area.New(zones, full.Occupants(), 0)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Occupants returns every occupant on the board sorted by zone id.
func (b Board) Occupants() []tile.Occupant {
	var out []tile.Occupant
	for _, pt := range b.tiles {
		if pt.Occupant != nil {
			out = append(out, *pt.Occupant)
		}
	}
	slices.SortFunc(out, tile.CompareOccupants)
	return out
}

// OccupantsOf returns the occupants of the given color and kind, sorted by
// zone id.
func (b Board) OccupantsOf(c tile.Color, kind tile.OccupantKind) []tile.Occupant {
	var out []tile.Occupant
	for _, occ := range b.Occupants() {
		if occ.Kind != kind {
			continue
		}
		if pt, err := b.TileWithID(occ.ZoneID / 10); err == nil && pt.Placer == c {
			out = append(out, occ)
		}
	}
	return out
}

func (b Board) OccupantCount(c tile.Color, kind tile.OccupantKind) int {
	return len(b.OccupantsOf(c, kind))
}
