package player

import (
	"golang.org/x/exp/rand"

	"neolithic/game"
	"neolithic/gameerr"
	"neolithic/searcher"
	"neolithic/tile"
)

// searchState exposes a game to the searcher. Moves that finish a turn draw
// from reshuffled piles so that searches sample the unknown tiles.
type searchState struct {
	gs *game.GameState
}

func NewSearchState(gs *game.GameState) searcher.State {
	return searchState{gs: gs}
}

func (s searchState) Player() string {
	return s.gs.CurrentPlayer().String()
}

func (s searchState) LegalMoves() []searcher.Move {
	legal := s.gs.LegalMoves()
	moves := make([]searcher.Move, len(legal))
	for i, m := range legal {
		moves[i] = m
	}
	return moves
}

func (s searchState) IsStochastic(move searcher.Move) bool {
	return s.gs.WouldDraw(move.(game.Move))
}

// Play replays a move that finished the turn on reshuffled piles. Whether
// a move finishes the turn does not depend on the order of the piles.
func (s searchState) Play(move searcher.Move) searcher.State {
	m := move.(game.Move)
	next := play(s.gs, m)
	if next.TurnFinished() {
		next = play(s.gs.WithShuffledDecks(rand.Uint64()), m)
	}
	return searchState{gs: next}
}

func play(gs *game.GameState, m game.Move) *game.GameState {
	next, err := gs.Play(m)
	if err != nil {
		gameerr.Invariantf("legal move %s rejected: %v", m, err)
	}
	return next
}

func (s searchState) Hash() searcher.StateHash {
	return searcher.StateHash(s.gs.Hash())
}

func (s searchState) Winners() []string {
	if !s.gs.IsOver() {
		return nil
	}
	winners, _ := s.gs.Winners()
	names := make([]string, len(winners))
	for i, c := range winners {
		names[i] = c.String()
	}
	return names
}

// Lead evaluates a cut off search state with game.GameState.Lead.
func Lead(state searcher.State, player string) float64 {
	s := state.(searchState)
	c, err := tile.ParseColor(player)
	if err != nil {
		gameerr.Invariantf("unknown player %q", player)
	}
	return s.gs.Lead(c)
}

// Segment records a played move for the searcher's tree reuse.
func Segment(m game.Move, next *game.GameState) searcher.Segment {
	return searcher.Segment{Move: m, StateHash: searcher.StateHash(next.Hash())}
}
