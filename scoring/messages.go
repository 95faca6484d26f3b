package scoring

import (
	"slices"

	"neolithic/area"
	"neolithic/tile"
)

// TextMaker produces the human readable text of scoring messages. The game
// never inspects the text it returns.
type TextMaker interface {
	PlayerClosedForestWithMenhir(player tile.Color) string
	PlayersScoredForest(scorers []tile.Color, points, mushroomGroupCount, tileCount int) string
	PlayersScoredRiver(scorers []tile.Color, points, fishCount, tileCount int) string
	PlayerScoredHuntingTrap(scorer tile.Color, points int, animals map[tile.AnimalKind]int) string
	PlayerScoredLogboat(scorer tile.Color, points, lakeCount int) string
	PlayersScoredMeadow(scorers []tile.Color, points int, animals map[tile.AnimalKind]int) string
	PlayersScoredRiverSystem(scorers []tile.Color, points, fishCount int) string
	PlayersScoredPitTrap(scorers []tile.Color, points int, animals map[tile.AnimalKind]int) string
	PlayersScoredRaft(scorers []tile.Color, points, lakeCount int) string
	PlayersWon(winners []tile.Color, points int) string
}

type Message struct {
	Text    string       `json:"text"`
	Points  int          `json:"points"`
	Scorers []tile.Color `json:"scorers"`
	TileIDs []int        `json:"tiles"`
}

// MessageBoard is the append-only list of messages of a game. With methods
// return a new board; scoring events worth no points or without scorers leave
// it unchanged.
type MessageBoard struct {
	text     TextMaker
	messages []Message
}

func NewMessageBoard(text TextMaker) MessageBoard {
	return MessageBoard{text: text}
}

func (mb MessageBoard) Messages() []Message { return slices.Clone(mb.messages) }
func (mb MessageBoard) Len() int            { return len(mb.messages) }

// Points returns the total points of every player that scored.
func (mb MessageBoard) Points() map[tile.Color]int {
	points := map[tile.Color]int{}
	for _, m := range mb.messages {
		for _, c := range m.Scorers {
			points[c] += m.Points
		}
	}
	return points
}

func (mb MessageBoard) with(text string, points int, scorers []tile.Color, tileIDs []int) MessageBoard {
	msg := Message{Text: text, Points: points, Scorers: slices.Clone(scorers), TileIDs: slices.Clone(tileIDs)}
	mb.messages = append(slices.Clone(mb.messages), msg)
	return mb
}

func (mb MessageBoard) WithScoredForest(forest area.Area[*tile.Forest]) MessageBoard {
	scorers := forest.MajorityOccupants()
	mushrooms := area.MushroomGroupCount(forest)
	points := ForClosedForest(forest.TileCount(), mushrooms)
	if points <= 0 || len(scorers) == 0 {
		return mb
	}
	return mb.with(mb.text.PlayersScoredForest(scorers, points, mushrooms, forest.TileCount()),
		points, scorers, forest.TileIDs())
}

// WithClosedForestWithMenhir records that a player earned an extra turn. It
// is worth no points.
func (mb MessageBoard) WithClosedForestWithMenhir(player tile.Color, forest area.Area[*tile.Forest]) MessageBoard {
	return mb.with(mb.text.PlayerClosedForestWithMenhir(player), 0, []tile.Color{player}, forest.TileIDs())
}

func (mb MessageBoard) WithScoredRiver(river area.Area[*tile.River]) MessageBoard {
	scorers := river.MajorityOccupants()
	fish := area.RiverFishCount(river)
	points := ForClosedRiver(river.TileCount(), fish)
	if points <= 0 || len(scorers) == 0 {
		return mb
	}
	return mb.with(mb.text.PlayersScoredRiver(scorers, points, fish, river.TileCount()),
		points, scorers, river.TileIDs())
}

// WithScoredHuntingTrap scores the animals of the meadow next to a hunting
// trap for the player who placed it.
func (mb MessageBoard) WithScoredHuntingTrap(scorer tile.Color, adjacent area.Area[*tile.Meadow], cancelled map[int]bool) MessageBoard {
	animals := CountAnimals(area.Animals(adjacent, cancelled))
	points := ForMeadow(animals)
	if points <= 0 {
		return mb
	}
	return mb.with(mb.text.PlayerScoredHuntingTrap(scorer, points, animals),
		points, []tile.Color{scorer}, adjacent.TileIDs())
}

// WithScoredLogboat scores the lakes of a water network for the player who
// placed the logboat.
func (mb MessageBoard) WithScoredLogboat(scorer tile.Color, water area.Area[tile.WaterZone]) MessageBoard {
	lakes := area.LakeCount(water)
	points := ForLogboat(lakes)
	if points <= 0 {
		return mb
	}
	return mb.with(mb.text.PlayerScoredLogboat(scorer, points, lakes),
		points, []tile.Color{scorer}, water.TileIDs())
}

func (mb MessageBoard) WithScoredMeadow(meadow area.Area[*tile.Meadow], cancelled map[int]bool) MessageBoard {
	scorers := meadow.MajorityOccupants()
	animals := CountAnimals(area.Animals(meadow, cancelled))
	points := ForMeadow(animals)
	if points <= 0 || len(scorers) == 0 {
		return mb
	}
	return mb.with(mb.text.PlayersScoredMeadow(scorers, points, animals),
		points, scorers, meadow.TileIDs())
}

func (mb MessageBoard) WithScoredRiverSystem(water area.Area[tile.WaterZone]) MessageBoard {
	scorers := water.MajorityOccupants()
	fish := area.WaterFishCount(water)
	points := ForRiverSystem(fish)
	if points <= 0 || len(scorers) == 0 {
		return mb
	}
	return mb.with(mb.text.PlayersScoredRiverSystem(scorers, points, fish),
		points, scorers, water.TileIDs())
}

// WithScoredPitTrap scores the animals around a pit trap for the majority
// occupants of its meadow. adjacent carries the occupants of the whole meadow.
func (mb MessageBoard) WithScoredPitTrap(adjacent area.Area[*tile.Meadow], cancelled map[int]bool) MessageBoard {
	scorers := adjacent.MajorityOccupants()
	animals := CountAnimals(area.Animals(adjacent, cancelled))
	points := ForMeadow(animals)
	if points <= 0 || len(scorers) == 0 {
		return mb
	}
	return mb.with(mb.text.PlayersScoredPitTrap(scorers, points, animals),
		points, scorers, adjacent.TileIDs())
}

func (mb MessageBoard) WithScoredRaft(water area.Area[tile.WaterZone]) MessageBoard {
	scorers := water.MajorityOccupants()
	lakes := area.LakeCount(water)
	points := ForRaft(lakes)
	if points <= 0 || len(scorers) == 0 {
		return mb
	}
	return mb.with(mb.text.PlayersScoredRaft(scorers, points, lakes),
		points, scorers, water.TileIDs())
}

// WithWinners records the end of the game.
func (mb MessageBoard) WithWinners(winners []tile.Color, points int) MessageBoard {
	return mb.with(mb.text.PlayersWon(winners, points), 0, winners, nil)
}
