package area

import (
	"fmt"

	"neolithic/gameerr"
	"neolithic/tile"
)

// Group bundles the four partitions of a board. A river zone is tracked both
// in Rivers, for fishers and closed river scoring, and in Water, for huts and
// the whole hydrographic network.
type Group struct {
	Forests Partition[*tile.Forest]
	Meadows Partition[*tile.Meadow]
	Rivers  Partition[*tile.River]
	Water   Partition[tile.WaterZone]
}

func (g Group) clone() Group {
	return Group{
		Forests: g.Forests.clone(),
		Meadows: g.Meadows.clone(),
		Rivers:  g.Rivers.clone(),
		Water:   g.Water.clone(),
	}
}

// AddTile registers every zone of a newly placed tile as a singleton area and
// joins the tile's rivers to their lakes in the water partition. Connections
// to neighboring tiles are made by ConnectSides.
func (g Group) AddTile(t *tile.Tile) Group {
	open := map[int]int{}
	for _, side := range t.Sides() {
		for _, z := range side.Zones() {
			open[z.ID()]++
		}
	}
	for _, r := range t.Rivers() {
		if r.HasLake() {
			open[r.ID()]++
			open[r.Lake.ID()]++
		}
	}

	next := g.clone()
	for _, z := range t.Zones() {
		var err error
		switch z := z.(type) {
		case *tile.Forest:
			err = next.Forests.addSingleton(z, open[z.ID()])
		case *tile.Meadow:
			err = next.Meadows.addSingleton(z, open[z.ID()])
		case *tile.River:
			riverOpen := open[z.ID()]
			if z.HasLake() {
				riverOpen--
			}
			err = next.Rivers.addSingleton(z, riverOpen)
			if err == nil {
				err = next.Water.addSingleton(z, open[z.ID()])
			}
		case *tile.Lake:
			err = next.Water.addSingleton(z, open[z.ID()])
		default:
			gameerr.Invariantf("tile %d: unknown zone %T", t.ID, z)
		}
		if err != nil {
			gameerr.Invariantf("tile %d: %v", t.ID, err)
		}
	}
	for _, r := range t.Rivers() {
		if !r.HasLake() {
			continue
		}
		if err := next.Water.connect(r, r.Lake); err != nil {
			gameerr.Invariantf("tile %d: %v", t.ID, err)
		}
	}
	return next
}

// ConnectSides joins the zones of two facing sides. On river sides the
// meadows pair crosswise: a side's first meadow faces the other side's second.
func (g Group) ConnectSides(a, b tile.Side) Group {
	next := g.clone()
	var errs []error
	switch sa := a.(type) {
	case tile.ForestSide:
		sb, ok := b.(tile.ForestSide)
		if !ok {
			gameerr.Invariantf("cannot connect forest side to %s side", tile.SideKind(b))
		}
		errs = append(errs, next.Forests.connect(sa.Forest, sb.Forest))
	case tile.MeadowSide:
		sb, ok := b.(tile.MeadowSide)
		if !ok {
			gameerr.Invariantf("cannot connect meadow side to %s side", tile.SideKind(b))
		}
		errs = append(errs, next.Meadows.connect(sa.Meadow, sb.Meadow))
	case tile.RiverSide:
		sb, ok := b.(tile.RiverSide)
		if !ok {
			gameerr.Invariantf("cannot connect river side to %s side", tile.SideKind(b))
		}
		errs = append(errs,
			next.Meadows.connect(sa.Meadow1, sb.Meadow2),
			next.Rivers.connect(sa.River, sb.River),
			next.Meadows.connect(sa.Meadow2, sb.Meadow1),
			next.Water.connect(sa.River, sb.River),
		)
	default:
		gameerr.Invariantf("unknown side %T", a)
	}
	for _, err := range errs {
		if err != nil {
			gameerr.Invariantf("cannot connect sides: %v", err)
		}
	}
	return next
}

// AddInitialOccupant occupies the area of a zone with an occupant of the
// given kind. Pawns go on forests, meadows and rivers; huts on rivers and
// lakes, where they occupy the water network.
func (g Group) AddInitialOccupant(c tile.Color, kind tile.OccupantKind, zone tile.Zone) (Group, error) {
	next := g.clone()
	if err := route(kind, zone,
		func(f *tile.Forest) error { return next.Forests.addInitialOccupant(f, c) },
		func(m *tile.Meadow) error { return next.Meadows.addInitialOccupant(m, c) },
		func(r *tile.River) error { return next.Rivers.addInitialOccupant(r, c) },
		func(w tile.WaterZone) error { return next.Water.addInitialOccupant(w, c) },
	); err != nil {
		return g, err
	}
	return next, nil
}

// RemoveOccupant removes an occupant previously added with AddInitialOccupant.
func (g Group) RemoveOccupant(c tile.Color, kind tile.OccupantKind, zone tile.Zone) (Group, error) {
	next := g.clone()
	if err := route(kind, zone,
		func(f *tile.Forest) error { return next.Forests.removeOccupant(f, c) },
		func(m *tile.Meadow) error { return next.Meadows.removeOccupant(m, c) },
		func(r *tile.River) error { return next.Rivers.removeOccupant(r, c) },
		func(w tile.WaterZone) error { return next.Water.removeOccupant(w, c) },
	); err != nil {
		return g, err
	}
	return next, nil
}

func route(
	kind tile.OccupantKind,
	zone tile.Zone,
	forest func(*tile.Forest) error,
	meadow func(*tile.Meadow) error,
	river func(*tile.River) error,
	water func(tile.WaterZone) error,
) error {
	switch kind {
	case tile.Pawn:
		switch z := zone.(type) {
		case *tile.Forest:
			return forest(z)
		case *tile.Meadow:
			return meadow(z)
		case *tile.River:
			return river(z)
		}
	case tile.Hut:
		switch z := zone.(type) {
		case *tile.River:
			return water(z)
		case *tile.Lake:
			return water(z)
		}
	}
	return gameerr.Preconditionf("cannot put a %s on zone %d (%T)", kind, zone.ID(), zone)
}

// ClearGatherers removes every pawn from a forest area of the group.
func (g Group) ClearGatherers(a Area[*tile.Forest]) Group {
	forests, err := g.Forests.ClearOccupants(a)
	if err != nil {
		gameerr.Invariantf("cannot clear gatherers: %v", err)
	}
	g.Forests = forests
	return g
}

// ClearFishers removes every pawn from a river area of the group.
func (g Group) ClearFishers(a Area[*tile.River]) Group {
	rivers, err := g.Rivers.ClearOccupants(a)
	if err != nil {
		gameerr.Invariantf("cannot clear fishers: %v", err)
	}
	g.Rivers = rivers
	return g
}

func (g Group) String() string {
	return fmt.Sprintf("forests=%d meadows=%d rivers=%d water=%d",
		g.Forests.Len(), g.Meadows.Len(), g.Rivers.Len(), g.Water.Len())
}
