package experiments

import (
	"neolithic/experiments/metrics"
	"neolithic/meta"
)

// RunThroughputExperiment measures how many episodes each level of
// parallelism completes in the same time. Each game uses the same config for
// both players for the same playing strength and similar game length.
func RunThroughputExperiment(s Settings) error {
	configs := []metrics.AgentConfig{}
	for i, goroutines := range []int{1, 2, 4, 8, 16, 32, 64} {
		configs = append(configs, metrics.AgentConfig{ID: i + 1, Kind: "mcts", Goroutines: goroutines, Duration: meta.TimeBudget, Cutoff: meta.Cutoff})
	}
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, []metrics.AgentConfig{config, config})
	}
	if s.Games <= 0 {
		s.Games = 1
	}
	return runExperiment(s, "throughput", configs, matchUps)
}

// Experiments lists the experiments runnable by name.
var Experiments = map[string]func(Settings) error{
	"strength":        RunStrengthExperiment,
	"parallelization": RunParallelizationExperiment,
	"cutoff":          RunCutoffExperiment,
	"throughput":      RunThroughputExperiment,
}
