package searcher

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"neolithic/experiments/metrics"
)

// MaxCutoff bounds rollouts when no cutoff is given. Games are finite, so it
// only guards against a broken State.
const MaxCutoff = 1000

type Option func(mcts *MCTS)

// Segment is a move played since the last search together with the hash of
// the state it led to.
type Segment struct {
	Move      Move
	StateHash StateHash
}

type MCTS struct {
	goroutines int
	duration   time.Duration
	episodes   int
	cutoff     int
	evaluate   Evaluate
	root       *decision
	metrics    metrics.Collector
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

func WithEvaluationFn(evaluate Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(goroutines int, options ...Option) *MCTS {
	m := &MCTS{ // Default values
		goroutines: max(goroutines, 1),
		cutoff:     MaxCutoff,
		evaluate:   func(State, string) float64 { return 0 },
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("must specify search episodes or duration")
	}
	return m
}

// Simulate searches from state and returns the visit share of each move of
// the root. lineage lists the moves played since the previous call; when they
// lead to a known node its subtree is kept.
func (m *MCTS) Simulate(state State, lineage []Segment) (map[Move]float64, metrics.SearchMetric) {
	m.findRoot(lineage, state)

	// Run simulations to collect statistics
	m.metrics.Start(m.goroutines, m.cutoff)
	if m.episodes > 0 {
		m.iterate(state)
	} else {
		m.countdown(state)
	}
	metric := m.metrics.Complete()

	return m.root.Policy(), metric
}

func (m *MCTS) iterate(state State) {
	task := make(chan any, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- nil
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for range task {
				m.simulate(state)
				m.metrics.AddEpisode()
			}
		}()
	}

	wg.Wait()
}

func (m *MCTS) countdown(state State) {
	done := make(chan any)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for {
				select {
				case <-done:
					return
				default:
					m.simulate(state)
					m.metrics.AddEpisode()
				}
			}
		}()
	}

	<-time.After(m.duration)
	close(done)
	wg.Wait()
}

func (m *MCTS) findRoot(path []Segment, state State) {
	root := traverse(m.root, path)
	if root == nil || root.hash != state.Hash() {
		m.root = newDecision(nil, "", state)
		m.metrics.SetTreeReset(true)
		return
	}
	root.parent = nil
	m.root = root
	m.metrics.SetTreeReset(false)
}

func traverse(root *decision, path []Segment) *decision {
	if root == nil {
		return nil
	}

	node := root
	for _, segment := range path {
		child, ok := node.child(segment.Move)
		if !ok { // Node has not expanded this move
			return nil
		}

		switch child := child.(type) {
		case *decision:
			if child.hash != segment.StateHash {
				log.Warn().Msgf("node's state hash %d does not match segment's state hash %d", child.hash, segment.StateHash)
				return nil
			}
			node = child
		case *chance:
			outcome := child.outcome(segment.StateHash)
			if outcome == nil {
				return nil
			}
			node = outcome
		default:
			panic("unexpected node type")
		}
	}
	return node
}

func (m *MCTS) simulate(state State) {
	newNode, newState := selectThenExpand(m.root, state)
	reward := rollout(newState, m.cutoff, m.evaluate, m.metrics)
	backup(newNode, reward)
}

func selectThenExpand(root Node, state State) (Node, State) {
	parent := root
	child, state, selected := parent.SelectOrExpand(state)
	for selected && (child != parent) {
		parent = child
		child, state, selected = parent.SelectOrExpand(state)
	}
	return child, state
}

func rollout(state State, cutoff int, evaluate Evaluate, metrics metrics.Collector) func(string) float64 {
	depth := 0
	moves := state.LegalMoves()
	// Rollout till game over or for cutoff number of moves
	for len(moves) > 0 && (depth < cutoff) {
		move := moves[rand.Intn(len(moves))] // Random rollout policy
		state = state.Play(move)
		moves = state.LegalMoves()
		depth++
	}

	if len(moves) == 0 { // Game over before cutoff
		metrics.AddFullPlayout()
		return rewarder(state.Winners())
	}

	// At cutoff state, score the position for each player
	return evaluator(state, evaluate)
}

func backup(newNode Node, reward func(string) float64) {
	node := newNode
	for node != nil {
		node = node.Backup(reward)
	}
}
