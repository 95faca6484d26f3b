package searcher

import "slices"

type mockMove struct {
	id         int
	stochastic bool
}

type mockState struct {
	player  string
	moves   []Move
	played  []Move
	hash    StateHash
	winners []string
}

func (m mockState) Player() string {
	return m.player
}

func (m mockState) LegalMoves() []Move {
	return m.moves
}

func (m mockState) IsStochastic(move Move) bool {
	return move.(mockMove).stochastic
}

func (m mockState) Play(move Move) State {
	return mockState{played: append(slices.Clone(m.played), move)}
}

func (m mockState) Hash() StateHash {
	return m.hash
}

func (m mockState) Winners() []string {
	return m.winners
}
