package searcher

import "sync"

// chance follows a stochastic move. Its children are the outcomes met so
// far, told apart by state hash.
type chance struct {
	sync.RWMutex
	parent   Node
	mover    string
	children []*decision
	rewards  float64
	visits   float64
}

func newChance(parent *decision) *chance {
	return &chance{
		parent: parent,
		mover:  parent.player,
	}
}

// SelectOrExpand expects the state reached by the stochastic move.
func (c *chance) SelectOrExpand(state State) (Node, State, bool) {
	c.Lock()
	defer c.Unlock()

	// Select if explored outcome
	selected := true
	child := c.selects(state.Hash())
	// Expand if unexplored outcome
	if child == nil {
		child = newDecision(c, c.mover, state)
		c.children = append(c.children, child)
		selected = false
	}

	child.applyLoss()
	return child, state, selected
}

func (c *chance) selects(hash StateHash) *decision {
	for _, child := range c.children {
		if child.hash == hash {
			return child
		}
	}
	return nil
}

func (c *chance) outcome(hash StateHash) *decision {
	c.RLock()
	defer c.RUnlock()

	return c.selects(hash)
}

func (c *chance) applyLoss() {
	c.Lock()
	defer c.Unlock()

	c.rewards += LOSS
	c.visits++
}

func (c *chance) Backup(rewarder func(string) float64) Node {
	c.Lock()
	defer c.Unlock()

	c.reverseLoss()
	c.rewards += rewarder(c.mover)
	c.visits++
	return c.parent
}

func (c *chance) reverseLoss() {
	c.rewards -= LOSS
	c.visits--
}

func (c *chance) Visits() float64 {
	c.RLock()
	defer c.RUnlock()

	return c.visits
}

func (c *chance) stats() (float64, float64) {
	c.RLock()
	defer c.RUnlock()

	return c.rewards, c.visits
}
