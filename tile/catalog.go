package tile

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Catalog is the immutable table of tile definitions, loaded once.
type Catalog struct {
	tiles []*Tile
	byID  map[int]*Tile
}

type catalogFile struct {
	Tiles []tileSpec `yaml:"tiles"`
}

type tileSpec struct {
	ID    int        `yaml:"id"`
	Kind  string     `yaml:"kind"`
	Zones []zoneSpec `yaml:"zones"`
	Sides sidesSpec  `yaml:"sides"`
}

type zoneSpec struct {
	Local   int      `yaml:"local"`
	Type    string   `yaml:"type"`
	Forest  string   `yaml:"forest"`
	Animals []string `yaml:"animals"`
	Fish    int      `yaml:"fish"`
	Lake    *int     `yaml:"lake"`
	Power   string   `yaml:"power"`
}

// sidesSpec lists local zone ids per side: one id for a forest or meadow
// side, three ids (meadow, river, meadow) for a river side.
type sidesSpec struct {
	N []int `yaml:"n"`
	E []int `yaml:"e"`
	S []int `yaml:"s"`
	W []int `yaml:"w"`
}

//go:embed tiles.yaml
var embeddedCatalog []byte

var (
	defaultCatalog *Catalog
	once           sync.Once
)

// DefaultCatalog returns the process-wide catalog embedded in the binary.
func DefaultCatalog() *Catalog {
	once.Do(func() {
		c, err := ParseCatalog(embeddedCatalog)
		if err != nil {
			panic(fmt.Sprintf("embedded tile catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// LoadCatalog reads a YAML catalog from disk.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog builds a catalog from YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(file.Tiles) == 0 {
		return nil, fmt.Errorf("no tiles defined")
	}
	return newCatalog(file.Tiles)
}

func newCatalog(specs []tileSpec) (*Catalog, error) {
	c := &Catalog{byID: map[int]*Tile{}}
	for _, spec := range specs {
		t, err := spec.build()
		if err != nil {
			return nil, err
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate tile id %d", t.ID)
		}
		c.byID[t.ID] = t
		c.tiles = append(c.tiles, t)
	}
	slices.SortFunc(c.tiles, func(a, b *Tile) int { return a.ID - b.ID })
	return c, nil
}

// Tiles returns every tile sorted by id.
func (c *Catalog) Tiles() []*Tile {
	return slices.Clone(c.tiles)
}

// ByKind returns the tiles of one pile sorted by id.
func (c *Catalog) ByKind(kind Kind) []*Tile {
	var out []*Tile
	for _, t := range c.tiles {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

func (c *Catalog) Tile(id int) (*Tile, bool) {
	t, ok := c.byID[id]
	return t, ok
}

func (spec tileSpec) build() (*Tile, error) {
	kind, err := parseKind(spec.Kind)
	if err != nil {
		return nil, fmt.Errorf("tile %d: %w", spec.ID, err)
	}
	if spec.ID < 0 {
		return nil, fmt.Errorf("tile %d: negative id", spec.ID)
	}

	zones := map[int]Zone{}
	lakes := map[int]*Lake{}
	// Lakes first so rivers can reference them.
	for _, z := range spec.Zones {
		if z.Type != "lake" {
			continue
		}
		power, err := parsePower(z.Power)
		if err != nil {
			return nil, fmt.Errorf("tile %d zone %d: %w", spec.ID, z.Local, err)
		}
		if _, dup := zones[z.Local]; dup {
			return nil, fmt.Errorf("tile %d: duplicate local id %d", spec.ID, z.Local)
		}
		lake := NewLake(ZoneID(spec.ID, z.Local), z.Fish, power)
		lakes[z.Local] = lake
		zones[z.Local] = lake
	}
	for _, z := range spec.Zones {
		if z.Local < 0 || z.Local > 9 {
			return nil, fmt.Errorf("tile %d: local id %d out of range", spec.ID, z.Local)
		}
		if z.Type == "lake" {
			continue
		}
		if _, dup := zones[z.Local]; dup {
			return nil, fmt.Errorf("tile %d: duplicate local id %d", spec.ID, z.Local)
		}
		id := ZoneID(spec.ID, z.Local)
		switch z.Type {
		case "forest":
			fk, err := parseForestKind(z.Forest)
			if err != nil {
				return nil, fmt.Errorf("tile %d zone %d: %w", spec.ID, z.Local, err)
			}
			zones[z.Local] = NewForest(id, fk)
		case "meadow":
			power, err := parsePower(z.Power)
			if err != nil {
				return nil, fmt.Errorf("tile %d zone %d: %w", spec.ID, z.Local, err)
			}
			var animals []Animal
			for i, name := range z.Animals {
				ak, err := parseAnimalKind(name)
				if err != nil {
					return nil, fmt.Errorf("tile %d zone %d: %w", spec.ID, z.Local, err)
				}
				animals = append(animals, Animal{ID: id*100 + i, Kind: ak})
			}
			zones[z.Local] = NewMeadow(id, animals, power)
		case "river":
			var lake *Lake
			if z.Lake != nil {
				l, ok := lakes[*z.Lake]
				if !ok {
					return nil, fmt.Errorf("tile %d zone %d: unknown lake %d", spec.ID, z.Local, *z.Lake)
				}
				lake = l
			}
			zones[z.Local] = NewRiver(id, z.Fish, lake)
		default:
			return nil, fmt.Errorf("tile %d zone %d: unknown zone type %q", spec.ID, z.Local, z.Type)
		}
	}

	t := &Tile{ID: spec.ID, Kind: kind}
	for _, entry := range []struct {
		dir   Direction
		ids   []int
		apply func(Side)
	}{
		{North, spec.Sides.N, func(s Side) { t.N = s }},
		{East, spec.Sides.E, func(s Side) { t.E = s }},
		{South, spec.Sides.S, func(s Side) { t.S = s }},
		{West, spec.Sides.W, func(s Side) { t.W = s }},
	} {
		side, err := buildSide(zones, entry.ids)
		if err != nil {
			return nil, fmt.Errorf("tile %d side %s: %w", spec.ID, entry.dir, err)
		}
		entry.apply(side)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func buildSide(zones map[int]Zone, ids []int) (Side, error) {
	lookup := func(local int) (Zone, error) {
		z, ok := zones[local]
		if !ok {
			return nil, fmt.Errorf("unknown zone %d", local)
		}
		return z, nil
	}
	switch len(ids) {
	case 1:
		z, err := lookup(ids[0])
		if err != nil {
			return nil, err
		}
		switch z := z.(type) {
		case *Forest:
			return ForestSide{Forest: z}, nil
		case *Meadow:
			return MeadowSide{Meadow: z}, nil
		default:
			return nil, fmt.Errorf("zone %d cannot form a side alone", ids[0])
		}
	case 3:
		var got [3]Zone
		for i, local := range ids {
			z, err := lookup(local)
			if err != nil {
				return nil, err
			}
			got[i] = z
		}
		m1, ok1 := got[0].(*Meadow)
		r, ok2 := got[1].(*River)
		m2, ok3 := got[2].(*Meadow)
		if !ok1 || !ok2 || !ok3 {
			return nil, fmt.Errorf("river side must be meadow, river, meadow")
		}
		return RiverSide{Meadow1: m1, River: r, Meadow2: m2}, nil
	default:
		return nil, fmt.Errorf("side needs 1 or 3 zones, got %d", len(ids))
	}
}

func parseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "start":
		return Start, nil
	case "normal", "":
		return Normal, nil
	case "menhir":
		return Menhir, nil
	default:
		return Normal, fmt.Errorf("unknown tile kind %q", s)
	}
}

func parseForestKind(s string) (ForestKind, error) {
	switch strings.ToLower(s) {
	case "plain", "":
		return Plain, nil
	case "menhir":
		return WithMenhir, nil
	case "mushrooms":
		return WithMushrooms, nil
	default:
		return Plain, fmt.Errorf("unknown forest kind %q", s)
	}
}

func parseAnimalKind(s string) (AnimalKind, error) {
	for _, k := range AnimalKinds {
		if k.String() == strings.ToLower(s) {
			return k, nil
		}
	}
	return Deer, fmt.Errorf("unknown animal %q", s)
}

func parsePower(s string) (SpecialPower, error) {
	name := strings.ToLower(s)
	for p, n := range powerNames {
		if n == name {
			return p, nil
		}
	}
	return NoPower, fmt.Errorf("unknown special power %q", s)
}
