package searcher

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

/**
Tests parallel MCTS (tree parallelization with virtual loss) on decision nodes
sequential:
- selection:
	- happy path: fully expanded node -> max UCT child + loss, child state
	- edge case: terminal node -> same node, same state
- expansion:
	- happy path: expandable node -> new added child + loss, child state
- backup:
	- happy path: rewards of the player who moved into the node, virtual loss reversed
concurrent: 3 race conditions
- shared expansion
- shared backup
- shared selection + backup
*/

func TestDecisionSelectOrExpand(t *testing.T) {
	t.Run("selecting fully expanded node (all deterministic moves explored)", func(t *testing.T) {
		maxMove := mockMove{id: 1}
		maxChild := &decision{rewards: 1, visits: 1}
		otherChild := &decision{rewards: 0, visits: 1}
		node := &decision{
			unexplored: []Move{},
			explored:   []Move{mockMove{id: 0}, maxMove},
			children:   []Node{otherChild, maxChild},
			rewards:    1,
			visits:     2,
		}
		state := mockState{}

		gotChild, gotState, gotSelected := node.SelectOrExpand(state)

		require.Equal(t, maxChild, gotChild, "Node should select child with max policy value")
		require.IsType(t, &decision{}, gotChild, "Child should be a decision node")
		require.Equal(t, 1+LOSS, gotChild.(*decision).rewards, "Child should apply a temporary loss")
		require.Equal(t, 2.0, gotChild.(*decision).visits, "Child should apply a temporary loss")
		require.Equal(t, []Move{maxMove}, gotState.(mockState).played, "State should update by the move to the max policy child")
		require.True(t, gotSelected, "Node should perform selection")
		require.Equal(t, 1.0, node.rewards, "Node stats should not change")
		require.Equal(t, 2.0, node.visits, "Node stats should not change")
	})

	t.Run("selecting fully expanded node (all stochastic moves explored)", func(t *testing.T) {
		maxMove := mockMove{id: 1, stochastic: true}
		maxChild := &chance{rewards: 1, visits: 1}
		otherChild := &chance{rewards: 0, visits: 1}
		node := &decision{
			unexplored: []Move{},
			explored:   []Move{mockMove{id: 0, stochastic: true}, maxMove},
			children:   []Node{otherChild, maxChild},
			rewards:    1,
			visits:     2,
		}
		state := mockState{}

		gotChild, gotState, gotSelected := node.SelectOrExpand(state)

		require.Equal(t, maxChild, gotChild, "Node should select child with max policy value")
		require.IsType(t, &chance{}, gotChild, "Child should be a chance node")
		require.Equal(t, 1+LOSS, gotChild.(*chance).rewards, "Child should apply a temporary loss")
		require.Equal(t, 2.0, gotChild.(*chance).visits, "Child should apply a temporary loss")
		require.Equal(t, []Move{maxMove}, gotState.(mockState).played, "State should update by the move to the max policy child")
		require.True(t, gotSelected, "Node should perform selection")
	})

	t.Run("selecting less visited child with equal rewards", func(t *testing.T) {
		lessVisited := &decision{rewards: 1, visits: 2}
		moreVisited := &decision{rewards: 2, visits: 4}
		node := &decision{
			explored: []Move{mockMove{id: 0}, mockMove{id: 1}},
			children: []Node{moreVisited, lessVisited},
			visits:   6,
		}

		gotChild, _, _ := node.SelectOrExpand(mockState{})

		require.Equal(t, lessVisited, gotChild, "Exploration term should favor the less visited child")
	})

	t.Run("expanding node with unexplored deterministic moves", func(t *testing.T) {
		unexploredMove := mockMove{id: 1}
		node := &decision{
			player:     "player1",
			unexplored: []Move{unexploredMove},
			explored:   []Move{mockMove{id: 0}},
			children:   []Node{&decision{rewards: 1, visits: 1}},
			visits:     1,
		}
		state := mockState{moves: []Move{}}

		gotChild, gotState, gotSelected := node.SelectOrExpand(state)

		require.IsType(t, &decision{}, gotChild, "Child should be a decision node")
		require.Equal(t, LOSS, gotChild.(*decision).rewards, "Child should apply a temporary loss")
		require.Equal(t, 1.0, gotChild.(*decision).visits, "Child should apply a temporary loss")
		require.Equal(t, "player1", gotChild.(*decision).mover, "Child should record the player who moved")
		require.Equal(t, node, gotChild.(*decision).parent, "Child should link to its parent")
		require.Equal(t, 2, len(node.children), "Node should add a new child")
		require.Empty(t, node.unexplored, "Node should consume the unexplored move")
		require.Equal(t, []Move{mockMove{id: 0}, unexploredMove}, node.explored, "Node should record the explored move")
		require.Equal(t, []Move{unexploredMove}, gotState.(mockState).played, "State should update by the move to the unexplored child")
		require.False(t, gotSelected, "Node should perform expansion")
	})

	t.Run("expanding node with unexplored stochastic moves", func(t *testing.T) {
		unexploredMove := mockMove{id: 1, stochastic: true}
		node := &decision{
			player:     "player1",
			unexplored: []Move{unexploredMove},
			explored:   []Move{mockMove{id: 0, stochastic: true}},
			children:   []Node{&chance{rewards: 1, visits: 1}},
			visits:     1,
		}
		state := mockState{moves: []Move{}}

		gotChild, gotState, gotSelected := node.SelectOrExpand(state)

		require.IsType(t, &chance{}, gotChild, "Child should be a chance node")
		require.Equal(t, LOSS, gotChild.(*chance).rewards, "Child should apply a temporary loss")
		require.Equal(t, 1.0, gotChild.(*chance).visits, "Child should apply a temporary loss")
		require.Equal(t, "player1", gotChild.(*chance).mover, "Chance node should record the player who moved")
		require.Empty(t, gotChild.(*chance).children, "Outcome should not be recorded before it is selected")
		require.Equal(t, []Move{unexploredMove}, gotState.(mockState).played, "State should update by the move to the unexplored child")
		require.False(t, gotSelected, "Node should perform expansion")
		require.Equal(t, 2, len(node.children), "Node should add a new child")
	})

	t.Run("stagnating on terminal node", func(t *testing.T) {
		node := &decision{}
		state := mockState{}

		gotChild, gotState, gotSelected := node.SelectOrExpand(state)

		require.Equal(t, node, gotChild, "Should return the same node")
		require.Equal(t, mockState{}, gotState, "Should return the same state")
		require.False(t, gotSelected, "Should not select any child or expand")
	})
}

func TestNewDecision(t *testing.T) {
	moves := []Move{mockMove{id: 0}, mockMove{id: 1}, mockMove{id: 2}}
	state := mockState{player: "player2", moves: moves, hash: 7}

	node := newDecision(nil, "player1", state)

	require.Nil(t, node.parent, "Root should have no parent")
	require.Equal(t, "player1", node.mover)
	require.Equal(t, "player2", node.player)
	require.Equal(t, StateHash(7), node.hash)
	require.ElementsMatch(t, moves, node.unexplored, "Every legal move should be unexplored")
	require.Empty(t, node.explored)
	require.Equal(t, []Move{mockMove{id: 0}, mockMove{id: 1}, mockMove{id: 2}}, moves, "Legal moves should not be reordered in place")
}

func TestDecisionBackup(t *testing.T) {
	t.Run("recording win on root node", func(t *testing.T) {
		node := &decision{
			parent: nil,
			mover:  "player1",
		}

		got := node.Backup(rewarder([]string{"player1"}))

		require.Nil(t, got, "Should return no parent")
		require.Equal(t, WIN, node.rewards, "Should apply a win reward")
		require.Equal(t, 1.0, node.visits, "Should add a visit")
	})

	t.Run("counting a visit on a fresh root", func(t *testing.T) {
		node := &decision{parent: nil, mover: ""}
		evaluate := func(state State, player string) float64 {
			if player == "" {
				panic("no player to evaluate")
			}
			return 0.5
		}

		require.NotPanics(t, func() { node.Backup(evaluator(mockState{}, evaluate)) }, "Should not evaluate for a missing mover")
		require.Equal(t, 0.0, node.rewards, "Should not reward a root without mover")
		require.Equal(t, 1.0, node.visits, "Should add a visit")
	})

	t.Run("recording win on deterministic outcome node", func(t *testing.T) {
		parent := &decision{}
		node := &decision{
			parent:  parent,
			mover:   "player1",
			rewards: LOSS,
			visits:  1,
		}

		got := node.Backup(rewarder([]string{"player1"}))

		require.Equal(t, parent, got, "Should return the parent node")
		require.Equal(t, WIN, node.rewards, "Should reverse virtual loss and add a win")
		require.Equal(t, 1.0, node.visits, "Should reverse virtual loss and add a visit")
	})

	t.Run("recording win on stochastic outcome node", func(t *testing.T) {
		parent := &chance{}
		node := &decision{
			parent:  parent,
			mover:   "player1",
			rewards: LOSS,
			visits:  1,
		}

		got := node.Backup(rewarder([]string{"player1"}))

		require.Equal(t, parent, got, "Should return the parent node")
		require.Equal(t, WIN, node.rewards, "Should reverse virtual loss and add a win")
		require.Equal(t, 1.0, node.visits, "Should reverse virtual loss and add a visit")
	})

	t.Run("recording loss on deterministic outcome node", func(t *testing.T) {
		parent := &decision{}
		node := &decision{
			parent:  parent,
			mover:   "player1",
			rewards: LOSS,
			visits:  1,
		}

		got := node.Backup(rewarder([]string{"player2"}))

		require.Equal(t, parent, got, "Should return the parent node")
		require.Equal(t, LOSS, node.rewards, "Should reverse virtual loss and add a loss")
		require.Equal(t, 1.0, node.visits, "Should reverse virtual loss and add a visit")
	})

	t.Run("recording shared win", func(t *testing.T) {
		parent := &decision{}
		node := &decision{
			parent:  parent,
			mover:   "player2",
			rewards: LOSS,
			visits:  1,
		}

		node.Backup(rewarder([]string{"player1", "player2"}))

		require.Equal(t, WIN, node.rewards, "Every tied winner should get a win")
	})

	t.Run("recording evaluation at cutoff", func(t *testing.T) {
		parent := &decision{}
		node := &decision{
			parent:  parent,
			mover:   "player1",
			rewards: LOSS,
			visits:  1,
		}
		evaluate := func(state State, player string) float64 {
			if player == "player1" {
				return 0.5
			}
			return -0.5
		}

		node.Backup(evaluator(mockState{}, evaluate))

		require.Equal(t, 0.5, node.rewards, "Should add the evaluation of the player who moved")
		require.Equal(t, 1.0, node.visits)
	})
}

func TestDecisionPolicy(t *testing.T) {
	t.Run("visit shares", func(t *testing.T) {
		node := &decision{
			explored: []Move{mockMove{id: 0}, mockMove{id: 1}},
			children: []Node{&decision{visits: 1}, &chance{visits: 3}},
		}

		require.Equal(t, map[Move]float64{mockMove{id: 0}: 0.25, mockMove{id: 1}: 0.75}, node.Policy())
	})

	t.Run("unvisited children", func(t *testing.T) {
		node := &decision{
			explored: []Move{mockMove{id: 0}, mockMove{id: 1}},
			children: []Node{&decision{}, &decision{}},
		}

		require.Equal(t, map[Move]float64{mockMove{id: 0}: 0.5, mockMove{id: 1}: 0.5}, node.Policy())
	})

	t.Run("terminal node", func(t *testing.T) {
		require.Empty(t, (&decision{}).Policy())
	})
}

func TestDecisionRaceConditions(t *testing.T) {
	t.Run("concurrent expansion", func(t *testing.T) {
		// Setup a node with 2 unexplored moves
		node := &decision{
			unexplored: []Move{mockMove{id: 0}, mockMove{id: 1}},
			explored:   []Move{},
			children:   []Node{},
		}

		// Launch two goroutines to expand simultaneously
		var wg sync.WaitGroup
		type result struct {
			child    Node
			state    mockState
			selected bool
		}
		var got [2]result

		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				// Each goroutine gets its own copy of state
				state := mockState{moves: []Move{}}
				gotChild, gotState, gotSelected := node.SelectOrExpand(state)
				got[i] = result{gotChild, gotState.(mockState), gotSelected}
			}()
		}
		wg.Wait()

		require.Equal(t, 2, len(node.children), "Node should have two children")
		for i := 0; i < 2; i++ {
			require.IsType(t, &decision{}, got[i].child, "Child should be a decision node")
			require.Equal(t, LOSS, got[i].child.(*decision).rewards, "Child should apply a temporary loss")
			require.Equal(t, 1.0, got[i].child.(*decision).visits, "Child should apply a temporary loss")
			require.False(t, got[i].selected, "Node should be expanded")
			require.Contains(t, []Move{mockMove{id: 0}, mockMove{id: 1}}, got[i].state.played[0],
				"Node should expand with a legal move")
		}

		// Both goroutines should have expanded different moves
		require.NotEqual(t, got[0].state.played[0], got[1].state.played[0],
			"Node should expand with different moves")
	})

	t.Run("concurrent backup", func(t *testing.T) {
		parent := &decision{}
		node := &decision{
			parent:  parent, // Non-root
			mover:   "player1",
			rewards: LOSS * 2, // 2 virtual losses
			visits:  2,        // 2 virtual losses
		}

		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got := node.Backup(rewarder([]string{"player1"}))
				require.Equal(t, parent, got, "Should return the parent node")
			}()
		}
		wg.Wait()

		require.Equal(t, WIN*2, node.rewards, "Node should reverse virtual losses and add two wins")
		require.Equal(t, 2.0, node.visits, "Node should reverse virtual losses and add two visits")
	})

	t.Run("concurrent selection and backup", func(t *testing.T) {
		parent := &decision{}
		node := &decision{
			parent:  parent, // Non-root
			mover:   "player1",
			rewards: LOSS, // Virtual loss
			visits:  3,
		}
		child := &decision{
			parent: node,
			visits: 1,
		}
		move := mockMove{id: 0}
		node.explored = []Move{move}
		node.children = []Node{child}
		state := mockState{moves: []Move{}}

		var wg sync.WaitGroup
		wg.Add(2)

		// Goroutine 1: Select the child
		go func() {
			defer wg.Done()
			gotChild, gotState, gotSelected := node.SelectOrExpand(state)
			require.Equal(t, child, gotChild, "Node should select the child")
			require.Equal(t, move, gotState.(mockState).played[0], "State should update by the move to the child")
			require.True(t, gotSelected, "Node should perform selection")
		}()

		// Goroutine 2: Backup through the node
		go func() {
			defer wg.Done()
			got := node.Backup(rewarder([]string{"player1"}))
			require.Equal(t, parent, got, "Node should return its parent")
		}()

		wg.Wait()

		require.Equal(t, LOSS, child.rewards, "Child should apply a temporary loss")
		require.Equal(t, 2.0, child.visits, "Child should apply a temporary loss")
		require.Equal(t, WIN, node.rewards, "Node should reverse virtual loss and add a win")
		require.Equal(t, 3.0, node.visits, "Node should reverse virtual loss and add a visit")
	})
}
