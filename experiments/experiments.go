package experiments

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"neolithic/engine"
	"neolithic/experiments/metrics"
	"neolithic/game"
	"neolithic/meta"
	"neolithic/player"
	"neolithic/scoring"
	"neolithic/searcher"
	"neolithic/tile"
)

const NumGames = 30 // Per match up

// Settings are shared by every game of an experiment.
type Settings struct {
	Dir     string // Output folder of the CSV records
	Games   int    // Per match up
	Seed    uint64
	Catalog *tile.Catalog
	Text    scoring.TextMaker
}

var baseline = metrics.AgentConfig{ID: 0, Kind: "random"}

var parallelConfigs = []metrics.AgentConfig{
	{ID: 1, Kind: "mcts", Goroutines: 1, Duration: meta.TimeBudget, Cutoff: meta.Cutoff},
	{ID: 2, Kind: "mcts", Goroutines: 4, Duration: meta.TimeBudget, Cutoff: meta.Cutoff},
	{ID: 3, Kind: "mcts", Goroutines: 8, Duration: meta.TimeBudget, Cutoff: meta.Cutoff},
	{ID: 4, Kind: "mcts", Goroutines: 16, Duration: meta.TimeBudget, Cutoff: meta.Cutoff},
}

// RunStrengthExperiment pairs each kind of agent against the random baseline.
func RunStrengthExperiment(s Settings) error {
	configs := []metrics.AgentConfig{
		{ID: 1, Kind: "greedy"},
		{ID: 2, Kind: "mcts", Goroutines: meta.Goroutines, Episodes: meta.Episodes, Cutoff: meta.Cutoff},
		{ID: 3, Kind: "mcts", Goroutines: meta.Goroutines, Duration: meta.TimeBudget, Cutoff: meta.Cutoff},
	}
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config}, []metrics.AgentConfig{config, baseline})
	}
	return runExperiment(s, "strength", append(configs, baseline), matchUps)
}

// RunParallelizationExperiment pairs each parallel agent against the
// sequential one.
func RunParallelizationExperiment(s Settings) error {
	sequential := parallelConfigs[0]
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range parallelConfigs[1:] {
		matchUps = append(matchUps, []metrics.AgentConfig{sequential, config}, []metrics.AgentConfig{config, sequential})
	}
	return runExperiment(s, "parallelization", parallelConfigs, matchUps)
}

func RunCutoffExperiment(s Settings) error {
	full := metrics.AgentConfig{ID: 0, Kind: "mcts", Goroutines: 8, Duration: meta.TimeBudget} // Without cutoff (full playout)
	cutoffConfigs := []metrics.AgentConfig{
		{ID: 1, Kind: "mcts", Goroutines: full.Goroutines, Duration: full.Duration, Cutoff: 5},
		{ID: 2, Kind: "mcts", Goroutines: full.Goroutines, Duration: full.Duration, Cutoff: 20},
		{ID: 3, Kind: "mcts", Goroutines: full.Goroutines, Duration: full.Duration, Cutoff: 80},
	}
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range cutoffConfigs {
		matchUps = append(matchUps, []metrics.AgentConfig{full, config})
	}
	return runExperiment(s, "cutoff", append(cutoffConfigs, full), matchUps)
}

func runExperiment(s Settings, name string, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig) error {
	games := s.Games
	if games <= 0 {
		games = NumGames
	}

	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchUp := range matchUps {
		log.Info().Msgf("starting matchup %d of %d between %+v...", mi+1, len(matchUps), matchUp)

		for i := 0; i < games; i++ {
			count++
			seed := s.Seed + uint64(count)
			winners, gameMetric, moveMetrics, err := runGame(s, matchUp, seed)
			if err != nil {
				return fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}

			ids := make([]int, len(matchUp))
			for j, config := range matchUp {
				ids[j] = config.ID
			}
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agents:     ids,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winners: %v", mi+1, len(matchUps), i+1, winners)
		}
	}

	log.Info().Msgf("completed %s experiment", name)

	return writeRecords(s.Dir, name, configs, gameRecords, moveRecords)
}

func writeRecords(dir, name string, configs []metrics.AgentConfig, games []metrics.GameRecord, moves []metrics.MoveRecord) error {
	writer, err := metrics.NewWriter(dir, name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(games); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moves); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored %s records in %s", name, writer.Dir())
	return nil
}

// runGame plays one game between agents seated in the order of configs.
func runGame(s Settings, configs []metrics.AgentConfig, seed uint64) ([]tile.Color, metrics.GameMetric, []metrics.MoveMetric, error) {
	state, err := game.NewGameState(tile.Colors[:len(configs)], game.NewDecks(s.Catalog, seed), s.Text)
	if err != nil {
		return nil, metrics.GameMetric{}, nil, err
	}
	agents := make([]player.Agent, len(configs))
	for i, config := range configs {
		agents[i] = CreateAgent(config, seed+uint64(i))
	}
	return engine.LocalEngine(state, agents).Run()
}

// CreateAgent builds the agent described by config.
func CreateAgent(config metrics.AgentConfig, seed uint64) player.Agent {
	switch config.Kind {
	case "random":
		return player.NewRandomAgent(seed)
	case "greedy":
		return player.NewGreedyAgent(seed)
	}
	return player.NewEvaluationAgent(createMCTS(config))
}

func createMCTS(config metrics.AgentConfig) *searcher.MCTS {
	options := []searcher.Option{searcher.WithEvaluationFn(player.Lead)}

	if config.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(config.Episodes))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(config.Cutoff))
	}

	options = append(options, searcher.WithMetrics())
	return searcher.NewMCTS(config.Goroutines, options...)
}
