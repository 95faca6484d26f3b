package area

import (
	"fmt"
	"maps"
	"slices"

	"neolithic/gameerr"
	"neolithic/tile"
)

type handle int

// Partition holds the areas of one zone kind. Every zone added to it belongs
// to exactly one area. Areas are stored in an arena keyed by handle and found
// through a zone id index.
type Partition[Z tile.Zone] struct {
	areas map[handle]Area[Z]
	index map[int]handle
	next  handle
}

// clone copies the arena and index so that the copy can be mutated.
// Areas themselves are never modified in place.
func (p Partition[Z]) clone() Partition[Z] {
	out := Partition[Z]{
		areas: make(map[handle]Area[Z], len(p.areas)+1),
		index: make(map[int]handle, len(p.index)+1),
		next:  p.next,
	}
	maps.Copy(out.areas, p.areas)
	maps.Copy(out.index, p.index)
	return out
}

// Len returns the number of areas.
func (p Partition[Z]) Len() int {
	return len(p.areas)
}

// Areas returns every area ordered by smallest zone id.
func (p Partition[Z]) Areas() []Area[Z] {
	out := make([]Area[Z], 0, len(p.areas))
	for _, a := range p.areas {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b Area[Z]) int { return a.firstZoneID() - b.firstZoneID() })
	return out
}

// AreaContaining returns the area holding the zone.
func (p Partition[Z]) AreaContaining(zone Z) (Area[Z], error) {
	return p.areaContainingID(zone.ID())
}

func (p Partition[Z]) areaContainingID(zoneID int) (Area[Z], error) {
	h, ok := p.index[zoneID]
	if !ok {
		return Area[Z]{}, fmt.Errorf("zone %d in no area: %w", zoneID, gameerr.ErrNotFound)
	}
	return p.areas[h], nil
}

// AddSingleton adds a one-zone area with the given number of open edges.
func (p Partition[Z]) AddSingleton(zone Z, open int) (Partition[Z], error) {
	next := p.clone()
	if err := next.addSingleton(zone, open); err != nil {
		return p, err
	}
	return next, nil
}

// Connect joins the areas of two zones. Connecting a zone to its own area
// consumes two open edges of that area.
func (p Partition[Z]) Connect(a, b Z) (Partition[Z], error) {
	next := p.clone()
	if err := next.connect(a, b); err != nil {
		return p, err
	}
	return next, nil
}

// AddInitialOccupant occupies the unoccupied area of a zone.
func (p Partition[Z]) AddInitialOccupant(zone Z, c tile.Color) (Partition[Z], error) {
	next := p.clone()
	if err := next.addInitialOccupant(zone, c); err != nil {
		return p, err
	}
	return next, nil
}

// RemoveOccupant removes one occupant of the given color from a zone's area.
func (p Partition[Z]) RemoveOccupant(zone Z, c tile.Color) (Partition[Z], error) {
	next := p.clone()
	if err := next.removeOccupant(zone, c); err != nil {
		return p, err
	}
	return next, nil
}

// ClearOccupants empties the roster of an area of the partition.
func (p Partition[Z]) ClearOccupants(a Area[Z]) (Partition[Z], error) {
	next := p.clone()
	if err := next.clearOccupants(a); err != nil {
		return p, err
	}
	return next, nil
}

func (p *Partition[Z]) addSingleton(zone Z, open int) error {
	if _, ok := p.index[zone.ID()]; ok {
		return gameerr.Preconditionf("cannot add zone %d: already in an area", zone.ID())
	}
	if open < 0 {
		return gameerr.Preconditionf("cannot add zone %d: negative open count %d", zone.ID(), open)
	}
	h := p.next
	p.next++
	p.areas[h] = New([]Z{zone}, nil, open)
	p.index[zone.ID()] = h
	return nil
}

func (p *Partition[Z]) connect(a, b Z) error {
	ha, ok := p.index[a.ID()]
	if !ok {
		return fmt.Errorf("cannot connect zone %d: %w", a.ID(), gameerr.ErrNotFound)
	}
	hb, ok := p.index[b.ID()]
	if !ok {
		return fmt.Errorf("cannot connect zone %d: %w", b.ID(), gameerr.ErrNotFound)
	}
	if ha == hb {
		area := p.areas[ha]
		if area.open < 2 {
			gameerr.Invariantf("self connection of area %v with %d open edges", area.ZoneIDs(), area.open)
		}
		p.areas[ha] = area.withOpen(area.open - 2)
		return nil
	}

	// The larger area keeps its handle; only the smaller one is reindexed.
	big, small := ha, hb
	if len(p.areas[small].zones) > len(p.areas[big].zones) {
		big, small = small, big
	}
	m := merged(p.areas[ha], p.areas[hb])
	if m.open < 0 {
		gameerr.Invariantf("connection of %v leaves %d open edges", m.ZoneIDs(), m.open)
	}
	for _, z := range p.areas[small].zones {
		p.index[z.ID()] = big
	}
	delete(p.areas, small)
	p.areas[big] = m
	return nil
}

func (p *Partition[Z]) addInitialOccupant(zone Z, c tile.Color) error {
	h, ok := p.index[zone.ID()]
	if !ok {
		return fmt.Errorf("cannot occupy zone %d: %w", zone.ID(), gameerr.ErrNotFound)
	}
	area := p.areas[h]
	if area.IsOccupied() {
		return gameerr.Preconditionf("cannot occupy zone %d: area already occupied by %v", zone.ID(), area.occupants)
	}
	p.areas[h] = area.withOccupant(c)
	return nil
}

func (p *Partition[Z]) removeOccupant(zone Z, c tile.Color) error {
	h, ok := p.index[zone.ID()]
	if !ok {
		return fmt.Errorf("cannot remove occupant from zone %d: %w", zone.ID(), gameerr.ErrNotFound)
	}
	area, removed := p.areas[h].withoutOccupant(c)
	if !removed {
		return gameerr.Preconditionf("cannot remove occupant from zone %d: no %s occupant", zone.ID(), c)
	}
	p.areas[h] = area
	return nil
}

func (p *Partition[Z]) clearOccupants(a Area[Z]) error {
	if len(a.zones) == 0 {
		return gameerr.Preconditionf("cannot clear occupants: empty area")
	}
	h, ok := p.index[a.firstZoneID()]
	if !ok || !p.areas[h].Equal(a) {
		return gameerr.Preconditionf("cannot clear occupants: area %v is not part of the partition", a.ZoneIDs())
	}
	p.areas[h] = a.withoutOccupants()
	return nil
}
