package searcher

import (
	"math"
	"sync"

	"golang.org/x/exp/rand"
)

type decision struct {
	sync.RWMutex
	parent     Node
	mover      string // player who moved into this node
	player     string // player to move
	hash       StateHash
	unexplored []Move
	explored   []Move
	children   []Node
	rewards    float64
	visits     float64
}

func newDecision(parent Node, mover string, state State) *decision {
	moves := state.LegalMoves()
	unexplored := make([]Move, len(moves))
	copy(unexplored, moves)
	rand.Shuffle(len(unexplored), func(i, j int) {
		unexplored[i], unexplored[j] = unexplored[j], unexplored[i]
	})
	return &decision{
		parent:     parent,
		mover:      mover,
		player:     state.Player(),
		hash:       state.Hash(),
		unexplored: unexplored,
		explored:   make([]Move, 0, len(moves)),
		children:   make([]Node, 0, len(moves)),
	}
}

func (d *decision) SelectOrExpand(state State) (Node, State, bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.unexplored) == 0 && len(d.children) == 0 { // Terminal node
		return d, state, false
	}

	if len(d.unexplored) > 0 { // Expandable node
		child, childState := d.expand(state)
		child.applyLoss()
		return child, childState, false
	}

	// Fully expanded node
	i := d.selectChild()
	child := d.children[i]
	child.applyLoss()
	return child, state.Play(d.explored[i]), true
}

func (d *decision) expand(state State) (Node, State) {
	last := len(d.unexplored) - 1
	move := d.unexplored[last]
	d.unexplored = d.unexplored[:last]

	next := state.Play(move)
	var child Node
	if state.IsStochastic(move) {
		child = newChance(d)
	} else {
		child = newDecision(d, d.player, next)
	}
	d.explored = append(d.explored, move)
	d.children = append(d.children, child)
	return child, next
}

// selectChild returns the index of the child with the highest UCT value.
// Virtual losses count as visits so that the parent total is never zero.
func (d *decision) selectChild() int {
	total := 0.0
	for _, child := range d.children {
		total += child.Visits()
	}
	policy := newUCT(CSquared, math.Max(total, 1))

	best := -1
	bestScore := math.Inf(-1)
	for i, child := range d.children {
		rewards, visits := child.stats()
		if visits == 0 {
			return i
		}
		if score := policy.evaluate(rewards, visits); score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += LOSS
	d.visits++
}

func (d *decision) Backup(rewarder func(string) float64) Node {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil { // Non-root node
		d.reverseLoss()
	}
	if d.mover != "" { // A fresh root has no mover to reward
		d.rewards += rewarder(d.mover)
	}
	d.visits++
	return d.parent
}

func (d *decision) reverseLoss() {
	d.rewards -= LOSS
	d.visits--
}

func (d *decision) Visits() float64 {
	d.RLock()
	defer d.RUnlock()

	return d.visits
}

func (d *decision) stats() (float64, float64) {
	d.RLock()
	defer d.RUnlock()

	return d.rewards, d.visits
}

// child returns the child reached by move, if it was explored.
func (d *decision) child(move Move) (Node, bool) {
	d.RLock()
	defer d.RUnlock()

	for i, m := range d.explored {
		if m == move {
			return d.children[i], true
		}
	}
	return nil, false
}

// Policy returns the visit share of every explored move.
func (d *decision) Policy() map[Move]float64 {
	d.RLock()
	defer d.RUnlock()

	total := 0.0
	for _, child := range d.children {
		total += child.Visits()
	}
	policy := make(map[Move]float64, len(d.children))
	for i, child := range d.children {
		if total > 0 {
			policy[d.explored[i]] = child.Visits() / total
		} else {
			policy[d.explored[i]] = 1 / float64(len(d.children))
		}
	}
	return policy
}
