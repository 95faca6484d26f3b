// Package meta holds the default settings of search agents.
package meta

import "time"

// Goroutines is the number of parallel searches of an MCTS agent.
const Goroutines = 4

// Episodes per move when searching by count.
const Episodes = 200

// Cutoff is the rollout depth after which a position is evaluated instead
// of played out. A turn takes two or three moves.
const Cutoff = 30

// TimeBudget per move when searching by time.
const TimeBudget = 10 * time.Millisecond
