package game

import (
	"fmt"

	"neolithic/gameerr"
	"neolithic/tile"
)

// Move is one player decision. Moves are comparable values so agents can key
// statistics by them.
type Move struct {
	Action   Action
	Pos      tile.Pos      // PlaceTile
	Rotation tile.Rotation // PlaceTile
	Occupant tile.Occupant // OccupyTile and RetakePawn, unless Skip
	Skip     bool          // Declines to add or retake an occupant
}

func (m Move) String() string {
	switch m.Action {
	case PlaceTile:
		return fmt.Sprintf("%s %s %s", m.Action, m.Pos, m.Rotation)
	case OccupyTile, RetakePawn:
		if m.Skip {
			return fmt.Sprintf("%s none", m.Action)
		}
		return fmt.Sprintf("%s %s", m.Action, m.Occupant)
	default:
		return m.Action.String()
	}
}

// PlacedTile returns the tile a PlaceTile move puts on the board.
func (gs *GameState) PlacedTile(m Move) tile.PlacedTile {
	return tile.PlacedTile{
		Tile:     gs.TileToPlace,
		Placer:   gs.CurrentPlayer(),
		Rotation: m.Rotation,
		Pos:      m.Pos,
	}
}

// LegalMoves lists every move accepted by Play. It is empty once the game is
// over.
func (gs *GameState) LegalMoves() []Move {
	switch gs.NextAction {
	case StartGame:
		return []Move{{Action: StartGame}}
	case PlaceTile:
		var moves []Move
		for _, pos := range gs.Board.InsertionPositions() {
			for _, r := range tile.Rotations {
				m := Move{Action: PlaceTile, Pos: pos, Rotation: r}
				if gs.Board.CanAddTile(gs.PlacedTile(m)) {
					moves = append(moves, m)
				}
			}
		}
		return moves
	case OccupyTile:
		moves := []Move{{Action: OccupyTile, Skip: true}}
		for _, occ := range gs.LastTilePotentialOccupants() {
			moves = append(moves, Move{Action: OccupyTile, Occupant: occ})
		}
		return moves
	case RetakePawn:
		moves := []Move{{Action: RetakePawn, Skip: true}}
		for _, occ := range gs.Board.OccupantsOf(gs.CurrentPlayer(), tile.Pawn) {
			moves = append(moves, Move{Action: RetakePawn, Occupant: occ})
		}
		return moves
	}
	return nil
}

// Play applies a move through the matching transition.
func (gs *GameState) Play(m Move) (*GameState, error) {
	if m.Action != gs.NextAction {
		return nil, gameerr.Preconditionf("cannot play %s: next action is %s", m, gs.NextAction)
	}
	switch m.Action {
	case StartGame:
		return gs.WithStartingTilePlaced()
	case PlaceTile:
		return gs.WithPlacedTile(gs.PlacedTile(m))
	case OccupyTile:
		return gs.WithNewOccupant(m.occupant())
	case RetakePawn:
		return gs.WithOccupantRemoved(m.occupant())
	}
	return nil, gameerr.Preconditionf("cannot play %s: game is over", m)
}

// WouldDraw reports whether playing m finishes the turn. The next tile is
// then drawn from a hidden pile, or the game ends if none fits.
func (gs *GameState) WouldDraw(m Move) bool {
	next, err := gs.Play(m)
	return err == nil && next.TurnFinished()
}

// TurnFinished reports whether gs waits for the first action of a turn or
// the game is over.
func (gs *GameState) TurnFinished() bool {
	return gs.NextAction == PlaceTile || gs.NextAction == EndGame
}

func (m Move) occupant() *tile.Occupant {
	if m.Skip {
		return nil
	}
	occ := m.Occupant
	return &occ
}
