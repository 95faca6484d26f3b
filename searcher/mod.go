package searcher

// StateHash identifies a position. Two states reached through different
// outcomes of a stochastic move share a chance node only if their hashes
// differ.
type StateHash uint64

// Move must be comparable: the tree keys its statistics by move.
type Move any

// State is a game position as seen by the searcher. Operations on State
// always return a new copy.
type State interface {
	Player() string
	LegalMoves() []Move
	// IsStochastic reports whether playing move reveals hidden information,
	// so that the resulting state is not known in advance.
	IsStochastic(move Move) bool
	Play(move Move) State
	Hash() StateHash
	Winners() []string
}

// Evaluate scores a non-terminal state for player, between LOSS and WIN.
type Evaluate func(state State, player string) float64

// Node is a vertex of the search tree. Rewards of a node are counted from
// the point of view of the player who made the move leading to it.
type Node interface {
	SelectOrExpand(state State) (child Node, childState State, selected bool)
	Backup(rewarder func(player string) float64) Node
	Visits() float64
	stats() (rewards, visits float64)
	applyLoss()
}

func rewarder(winners []string) func(player string) float64 {
	return func(player string) float64 {
		for _, w := range winners {
			if w == player {
				return WIN
			}
		}
		return LOSS
	}
}

func evaluator(state State, evaluate Evaluate) func(player string) float64 {
	return func(player string) float64 {
		return evaluate(state, player)
	}
}
