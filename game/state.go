// Package game is the turn engine: it validates player actions, applies
// special powers, scores closed areas and ends the game.
package game

import (
	"encoding/binary"
	"hash/fnv"
	"slices"

	"neolithic/area"
	"neolithic/board"
	"neolithic/gameerr"
	"neolithic/scoring"
	"neolithic/tile"
)

const (
	MinPlayers = 2
	MaxPlayers = 5
)

type StateHash uint64

// GameState is the full state of a game. Transitions never modify the
// receiver: they return a new state, or an error and no state.
type GameState struct {
	Players     []tile.Color // Turn order, the current player first
	Decks       TileDecks
	TileToPlace *tile.Tile // Set only when NextAction is PlaceTile
	Board       board.Board
	NextAction  Action
	Messages    scoring.MessageBoard
}

// NewGameState returns a game waiting for its start tile.
func NewGameState(players []tile.Color, decks TileDecks, text scoring.TextMaker) (*GameState, error) {
	if len(players) < MinPlayers || len(players) > MaxPlayers {
		return nil, gameerr.Preconditionf("cannot create game: %d players, want %d to %d", len(players), MinPlayers, MaxPlayers)
	}
	seen := map[tile.Color]bool{}
	for _, c := range players {
		if c == tile.NoColor || seen[c] {
			return nil, gameerr.Preconditionf("cannot create game: invalid or repeated player %s", c)
		}
		seen[c] = true
	}
	if decks.Size(tile.Start) == 0 {
		return nil, gameerr.Preconditionf("cannot create game: no start tile")
	}
	return &GameState{
		Players:    slices.Clone(players),
		Decks:      decks,
		Board:      board.New(),
		NextAction: StartGame,
		Messages:   scoring.NewMessageBoard(text),
	}, nil
}

// Copy returns a state that can be modified without affecting gs. Board,
// decks and messages are values that are never changed in place.
func (gs *GameState) Copy() *GameState {
	return &GameState{
		Players:     slices.Clone(gs.Players),
		Decks:       gs.Decks,
		TileToPlace: gs.TileToPlace,
		Board:       gs.Board,
		NextAction:  gs.NextAction,
		Messages:    gs.Messages,
	}
}

// CurrentPlayer is NoColor before the start tile is placed and once the game
// is over.
func (gs *GameState) CurrentPlayer() tile.Color {
	if gs.NextAction == StartGame || gs.NextAction == EndGame {
		return tile.NoColor
	}
	return gs.Players[0]
}

func (gs *GameState) FreeOccupantsCount(c tile.Color, kind tile.OccupantKind) int {
	return tile.InitialCount(kind) - gs.Board.OccupantCount(c, kind)
}

// LastTilePotentialOccupants lists the occupants the placer of the last tile
// may still add: the placer has one left and the target area is free.
func (gs *GameState) LastTilePotentialOccupants() []tile.Occupant {
	last, ok := gs.Board.LastPlacedTile()
	if !ok {
		return nil
	}
	var out []tile.Occupant
	for _, occ := range last.PotentialOccupants() {
		if gs.FreeOccupantsCount(last.Placer, occ.Kind) == 0 {
			continue
		}
		zone, err := last.Zone(occ.ZoneID)
		if err != nil {
			gameerr.Invariantf("potential occupant %s outside tile %d", occ, last.ID())
		}
		if !gs.isAreaOccupied(occ.Kind, zone) {
			out = append(out, occ)
		}
	}
	return out
}

func (gs *GameState) isAreaOccupied(kind tile.OccupantKind, zone tile.Zone) bool {
	if kind == tile.Hut {
		return gs.Board.WaterArea(zone.(tile.WaterZone)).IsOccupied()
	}
	switch z := zone.(type) {
	case *tile.Forest:
		return gs.Board.ForestArea(z).IsOccupied()
	case *tile.Meadow:
		return gs.Board.MeadowArea(z).IsOccupied()
	case *tile.River:
		return gs.Board.RiverArea(z).IsOccupied()
	}
	return true
}

// WithStartingTilePlaced puts the start tile at the origin and draws the
// first tile to place.
func (gs *GameState) WithStartingTilePlaced() (*GameState, error) {
	if gs.NextAction != StartGame {
		return nil, gameerr.Preconditionf("cannot place start tile: next action is %s", gs.NextAction)
	}
	start, _ := gs.Decks.Top(tile.Start)
	b, err := gs.Board.WithNewTile(tile.PlacedTile{Tile: start, Placer: tile.NoColor, Pos: tile.Origin})
	if err != nil {
		return nil, err
	}
	next := gs.Copy()
	next.Board = b
	next.Decks, _ = next.Decks.WithTopTileDrawn(tile.Start)
	next.drawNextTile()
	return next, nil
}

// WithPlacedTile places the drawn tile for the current player and applies
// its special power.
func (gs *GameState) WithPlacedTile(pt tile.PlacedTile) (*GameState, error) {
	if gs.NextAction != PlaceTile {
		return nil, gameerr.Preconditionf("cannot place tile: next action is %s", gs.NextAction)
	}
	if pt.Tile == nil || pt.ID() != gs.TileToPlace.ID {
		return nil, gameerr.Preconditionf("cannot place tile: tile to place is %d", gs.TileToPlace.ID)
	}
	if pt.Placer != gs.CurrentPlayer() {
		return nil, gameerr.Preconditionf("cannot place tile: %s is not the current player", pt.Placer)
	}
	if pt.Occupant != nil {
		return nil, gameerr.Preconditionf("cannot place tile: it must not carry an occupant")
	}
	b, err := gs.Board.WithNewTile(pt)
	if err != nil {
		return nil, err
	}
	next := gs.Copy()
	next.Board = b
	next.TileToPlace = nil

	if power, ok := pt.SpecialPowerZone(); ok {
		switch power.SpecialPower() {
		case tile.Shaman:
			if next.FreeOccupantsCount(pt.Placer, tile.Pawn) < tile.InitialCount(tile.Pawn) {
				next.NextAction = RetakePawn
				return next, nil
			}
		case tile.Logboat:
			water := next.Board.WaterArea(power.(*tile.Lake))
			next.Messages = next.Messages.WithScoredLogboat(pt.Placer, water)
		case tile.HuntingTrap:
			next.huntingTrap(pt, power.(*tile.Meadow))
		}
	}
	next.occupyOrFinishTurn()
	return next, nil
}

// huntingTrap scores the meadow around the trap for its placer, tigers eating
// deer first, then cancels every animal of that meadow.
func (gs *GameState) huntingTrap(pt tile.PlacedTile, meadow *tile.Meadow) {
	adjacent := gs.Board.AdjacentMeadow(pt.Pos, meadow)
	cancelled := gs.Board.CancelledAnimals()
	animals := area.Animals(adjacent, cancelled)
	for _, deer := range eatenDeer(animals, nil) {
		cancelled[deer.ID] = true
	}
	gs.Messages = gs.Messages.WithScoredHuntingTrap(pt.Placer, adjacent, cancelled)
	gs.Board = gs.Board.WithMoreCancelledAnimals(animals)
}

// WithOccupantRemoved takes back one pawn of the current player after a
// shaman was placed. A nil occupant declines.
func (gs *GameState) WithOccupantRemoved(occ *tile.Occupant) (*GameState, error) {
	if gs.NextAction != RetakePawn {
		return nil, gameerr.Preconditionf("cannot remove occupant: next action is %s", gs.NextAction)
	}
	next := gs.Copy()
	if occ != nil {
		if occ.Kind != tile.Pawn {
			return nil, gameerr.Preconditionf("cannot remove %s: only pawns can be retaken", occ)
		}
		pt, err := gs.Board.TileWithID(occ.ZoneID / 10)
		if err != nil || pt.Placer != gs.CurrentPlayer() {
			return nil, gameerr.Preconditionf("cannot remove %s: not a pawn of %s", occ, gs.CurrentPlayer())
		}
		b, err := gs.Board.WithoutOccupant(*occ)
		if err != nil {
			return nil, err
		}
		next.Board = b
	}
	next.occupyOrFinishTurn()
	return next, nil
}

// WithNewOccupant occupies a zone of the last placed tile. A nil occupant
// declines. The turn finishes either way.
func (gs *GameState) WithNewOccupant(occ *tile.Occupant) (*GameState, error) {
	if gs.NextAction != OccupyTile {
		return nil, gameerr.Preconditionf("cannot add occupant: next action is %s", gs.NextAction)
	}
	next := gs.Copy()
	if occ != nil {
		if !slices.Contains(gs.LastTilePotentialOccupants(), *occ) {
			return nil, gameerr.Preconditionf("cannot add %s: not a potential occupant of the last tile", occ)
		}
		b, err := gs.Board.WithOccupant(*occ)
		if err != nil {
			return nil, err
		}
		next.Board = b
	}
	next.finishTurn()
	return next, nil
}

func (gs *GameState) occupyOrFinishTurn() {
	if len(gs.LastTilePotentialOccupants()) > 0 {
		gs.NextAction = OccupyTile
		return
	}
	gs.finishTurn()
}

// finishTurn scores the areas closed by the last tile, then either gives the
// current player a menhir tile or passes the turn.
func (gs *GameState) finishTurn() {
	last, _ := gs.Board.LastPlacedTile()
	forests := gs.Board.ForestsClosedByLastTile()
	rivers := gs.Board.RiversClosedByLastTile()
	for _, f := range forests {
		gs.Messages = gs.Messages.WithScoredForest(f)
	}
	for _, r := range rivers {
		gs.Messages = gs.Messages.WithScoredRiver(r)
	}
	gs.Board = gs.Board.WithoutGatherersOrFishersIn(forests, rivers)

	if last.Kind() == tile.Normal {
		if i := slices.IndexFunc(forests, area.HasMenhir); i >= 0 {
			if t, ok := gs.draw(tile.Menhir); ok {
				gs.Messages = gs.Messages.WithClosedForestWithMenhir(gs.CurrentPlayer(), forests[i])
				gs.TileToPlace = t
				gs.NextAction = PlaceTile
				return
			}
		}
	}

	gs.Players = append(gs.Players[1:], gs.Players[0])
	gs.drawNextTile()
}

func (gs *GameState) drawNextTile() {
	t, ok := gs.draw(tile.Normal)
	if !ok {
		gs.endGame()
		return
	}
	gs.TileToPlace = t
	gs.NextAction = PlaceTile
}

// draw discards the tiles of a pile that fit nowhere, then draws the next one.
func (gs *GameState) draw(kind tile.Kind) (*tile.Tile, bool) {
	gs.Decks = gs.Decks.WithTopTileDrawnUntil(kind, gs.Board.CouldPlaceTile)
	t, ok := gs.Decks.Top(kind)
	if !ok {
		return nil, false
	}
	gs.Decks, _ = gs.Decks.WithTopTileDrawn(kind)
	return t, true
}

func (gs *GameState) endGame() {
	cancelled := gs.Board.CancelledAnimals()
	for _, meadow := range gs.Board.MeadowAreas() {
		gs.scoreMeadow(meadow, cancelled)
	}
	for _, water := range gs.Board.WaterAreas() {
		gs.Messages = gs.Messages.WithScoredRiverSystem(water)
		if _, ok := area.SpecialPowerZone(water, tile.Raft); ok {
			gs.Messages = gs.Messages.WithScoredRaft(water)
		}
	}
	winners, points := gs.Winners()
	gs.Messages = gs.Messages.WithWinners(winners, points)
	gs.TileToPlace = nil
	gs.NextAction = EndGame
}

// scoreMeadow lets the tigers of a meadow eat its deer, unless a wild fire
// burnt them, then scores the meadow and its pit trap.
func (gs *GameState) scoreMeadow(meadow area.Area[*tile.Meadow], cancelled map[int]bool) {
	eaten := make(map[int]bool, len(cancelled))
	for id := range cancelled {
		eaten[id] = true
	}
	pit, hasPit := area.SpecialPowerZone(meadow, tile.PitTrap)
	var adjacent area.Area[*tile.Meadow]
	if hasPit {
		pitTile, err := gs.Board.TileWithID(pit.TileID())
		if err != nil {
			gameerr.Invariantf("pit trap zone %d is not on the board", pit.ID())
		}
		adjacent = gs.Board.AdjacentMeadow(pitTile.Pos, pit)
	}
	if _, fire := area.SpecialPowerZone(meadow, tile.WildFire); !fire {
		var outside func(tile.Animal) bool
		if hasPit {
			outside = func(a tile.Animal) bool { return !adjacent.Contains(a.ZoneID()) }
		}
		for _, deer := range eatenDeer(area.Animals(meadow, cancelled), outside) {
			eaten[deer.ID] = true
		}
	}
	gs.Messages = gs.Messages.WithScoredMeadow(meadow, eaten)
	if hasPit {
		gs.Messages = gs.Messages.WithScoredPitTrap(adjacent, eaten)
	}
}

// eatenDeer returns the deer eaten by the tigers among animals, one per
// tiger. Deer matching first, when given, are eaten before the others.
func eatenDeer(animals []tile.Animal, first func(tile.Animal) bool) []tile.Animal {
	tigers := 0
	var deer []tile.Animal
	for _, a := range animals {
		switch a.Kind {
		case tile.Tiger:
			tigers++
		case tile.Deer:
			deer = append(deer, a)
		}
	}
	if first != nil {
		slices.SortStableFunc(deer, func(a, b tile.Animal) int {
			return rank(first(a)) - rank(first(b))
		})
	}
	return deer[:min(tigers, len(deer))]
}

func rank(first bool) int {
	if first {
		return 0
	}
	return 1
}

// Points returns the points of every player, zero included.
func (gs *GameState) Points() map[tile.Color]int {
	points := gs.Messages.Points()
	for _, c := range gs.Players {
		if _, ok := points[c]; !ok {
			points[c] = 0
		}
	}
	return points
}

// Winners returns the players with the most points, sorted, and that total.
func (gs *GameState) Winners() ([]tile.Color, int) {
	points := gs.Points()
	best := 0
	for _, c := range gs.Players {
		best = max(best, points[c])
	}
	var winners []tile.Color
	for _, c := range gs.Players {
		if points[c] == best {
			winners = append(winners, c)
		}
	}
	slices.Sort(winners)
	return winners, best
}

// IsOver reports whether the game has ended.
func (gs *GameState) IsOver() bool {
	return gs.NextAction == EndGame
}

// WithShuffledDecks returns a copy of gs whose hidden piles are reordered.
func (gs *GameState) WithShuffledDecks(seed uint64) *GameState {
	next := gs.Copy()
	next.Decks = gs.Decks.Shuffled(seed)
	return next
}

// Hash identifies a position as the players see it: the order of the piles
// is hidden, so only their sizes are hashed.
func (gs *GameState) Hash() StateHash {
	hasher := fnv.New64a()
	write := func(v int) {
		binary.Write(hasher, binary.LittleEndian, int64(v))
	}

	write(int(gs.NextAction))
	for _, c := range gs.Players {
		write(int(c))
	}
	if gs.TileToPlace != nil {
		write(gs.TileToPlace.ID)
	} else {
		write(-1)
	}
	write(gs.Decks.Size(tile.Normal))
	write(gs.Decks.Size(tile.Menhir))

	for _, pt := range gs.Board.PlacedTiles() {
		write(pt.ID())
		write(pt.Pos.X)
		write(pt.Pos.Y)
		write(int(pt.Rotation))
		write(int(pt.Placer))
		if pt.Occupant != nil {
			write(int(pt.Occupant.Kind))
			write(pt.Occupant.ZoneID)
		} else {
			write(-1)
		}
	}
	points := gs.Points()
	for _, c := range gs.Players {
		write(points[c])
	}
	return StateHash(hasher.Sum64())
}
