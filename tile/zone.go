package tile

// Zone is an atomic typed region of one tile. Its id is tileID*10 + localID;
// local ids 0 to 7 are reserved for side zones and 8 to 9 for lakes.
//
// The implementations are *Forest, *Meadow, *River and *Lake. Zones come from
// the catalog and must not be modified.
type Zone interface {
	ID() int
	TileID() int
	LocalID() int
	zone()
}

// WaterZone is a zone of the hydrographic network: *River or *Lake.
type WaterZone interface {
	Zone
	FishCount() int
	water()
}

// PoweredZone is a zone that may carry a special power: *Meadow or *Lake.
type PoweredZone interface {
	Zone
	SpecialPower() SpecialPower
}

type zoneID int

func (z zoneID) ID() int      { return int(z) }
func (z zoneID) TileID() int  { return int(z) / 10 }
func (z zoneID) LocalID() int { return int(z) % 10 }
func (zoneID) zone()          {}

// ZoneID builds a zone id from its tile id and local id.
func ZoneID(tileID, localID int) int {
	return tileID*10 + localID
}

// ForestKind tells what a forest zone contains.
type ForestKind int

const (
	Plain ForestKind = iota
	WithMenhir
	WithMushrooms
)

func (k ForestKind) String() string {
	switch k {
	case Plain:
		return "plain"
	case WithMenhir:
		return "menhir"
	case WithMushrooms:
		return "mushrooms"
	default:
		return "?"
	}
}

type Forest struct {
	zoneID
	Kind ForestKind
}

func NewForest(id int, kind ForestKind) *Forest {
	return &Forest{zoneID: zoneID(id), Kind: kind}
}

type Meadow struct {
	zoneID
	Animals []Animal
	Power   SpecialPower
}

func NewMeadow(id int, animals []Animal, power SpecialPower) *Meadow {
	return &Meadow{zoneID: zoneID(id), Animals: animals, Power: power}
}

func (m *Meadow) SpecialPower() SpecialPower { return m.Power }

type River struct {
	zoneID
	Fish int
	Lake *Lake // nil when the river does not flow into a lake
}

func NewRiver(id, fish int, lake *Lake) *River {
	return &River{zoneID: zoneID(id), Fish: fish, Lake: lake}
}

func (r *River) HasLake() bool  { return r.Lake != nil }
func (r *River) FishCount() int { return r.Fish }
func (*River) water()           {}

type Lake struct {
	zoneID
	Fish  int
	Power SpecialPower
}

func NewLake(id, fish int, power SpecialPower) *Lake {
	return &Lake{zoneID: zoneID(id), Fish: fish, Power: power}
}

func (l *Lake) FishCount() int             { return l.Fish }
func (l *Lake) SpecialPower() SpecialPower { return l.Power }
func (*Lake) water()                       {}

// SpecialPower is a rule effect attached to a meadow or lake.
type SpecialPower int

const (
	NoPower SpecialPower = iota
	Shaman
	Logboat
	HuntingTrap
	PitTrap
	WildFire
	Raft
)

var powerNames = map[SpecialPower]string{
	NoPower:     "",
	Shaman:      "shaman",
	Logboat:     "logboat",
	HuntingTrap: "hunting_trap",
	PitTrap:     "pit_trap",
	WildFire:    "wild_fire",
	Raft:        "raft",
}

func (p SpecialPower) String() string {
	return powerNames[p]
}

// AnimalKind is the species of an animal; tigers are worth nothing but eat deer.
type AnimalKind int

const (
	Mammoth AnimalKind = iota
	Aurochs
	Deer
	Tiger
)

// AnimalKinds lists the kinds in scoring order.
var AnimalKinds = []AnimalKind{Mammoth, Aurochs, Deer, Tiger}

func (k AnimalKind) String() string {
	switch k {
	case Mammoth:
		return "mammoth"
	case Aurochs:
		return "aurochs"
	case Deer:
		return "deer"
	case Tiger:
		return "tiger"
	default:
		return "?"
	}
}

// Animal lives in a meadow. Its id is zoneID*100 + index.
type Animal struct {
	ID   int        `json:"id"`
	Kind AnimalKind `json:"kind"`
}

func (a Animal) ZoneID() int { return a.ID / 100 }
func (a Animal) TileID() int { return a.ZoneID() / 10 }
