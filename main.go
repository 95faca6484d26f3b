package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"neolithic/config"
	"neolithic/engine"
	"neolithic/experiments"
	"neolithic/experiments/metrics"
	"neolithic/game"
	"neolithic/journal"
	"neolithic/meta"
	"neolithic/player"
	"neolithic/server"
	"neolithic/text"
	"neolithic/tile"
)

const usage = `usage: neolithic [-config file] <command>

commands:
  serve     host games over HTTP
  selfplay  run a self-play experiment and store its CSV records
  play      play one journaled game between an MCTS agent and greedy agents
`

func main() {
	configPath := flag.String("config", "", "YAML config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	command := flag.Arg(0)
	switch command {
	case "serve", "":
		err = serve(cfg)
	case "selfplay":
		err = selfPlay(cfg)
	case "play":
		err = play(cfg)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", command)
	}
}

func loadCatalog(cfg config.Config) (*tile.Catalog, error) {
	if cfg.Catalog == "" {
		return tile.DefaultCatalog(), nil
	}
	return tile.LoadCatalog(cfg.Catalog)
}

func openJournal(cfg config.Config) (*journal.Journal, error) {
	if cfg.Journal.Path == "" {
		return nil, nil
	}
	return journal.Open(cfg.Journal.Path)
}

func serve(cfg config.Config) error {
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	texts, err := text.LoadEmbedded()
	if err != nil {
		return err
	}
	if _, err := texts.Maker(cfg.Locale); err != nil {
		return err
	}

	options := []server.Option{server.WithCatalog(catalog), server.WithDefaults(cfg.Locale, cfg.Players)}
	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
		options = append(options, server.WithJournal(j))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.New(texts, options...).Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		log.Info().Msgf("listening on %s", cfg.Server.Addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func selfPlay(cfg config.Config) error {
	run, ok := experiments.Experiments[cfg.SelfPlay.Experiment]
	if !ok {
		return fmt.Errorf("unknown experiment %q", cfg.SelfPlay.Experiment)
	}
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	maker, err := text.NewMaker(cfg.Locale)
	if err != nil {
		return err
	}
	return run(experiments.Settings{
		Dir:     cfg.SelfPlay.Dir,
		Games:   cfg.SelfPlay.Games,
		Seed:    cfg.SelfPlay.Seed,
		Catalog: catalog,
		Text:    maker,
	})
}

func play(cfg config.Config) error {
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	maker, err := text.NewMaker(cfg.Locale)
	if err != nil {
		return err
	}
	seed := cfg.SelfPlay.Seed
	players := tile.Colors[:cfg.Players]
	state, err := game.NewGameState(players, game.NewDecks(catalog, seed), maker)
	if err != nil {
		return err
	}

	mcts := metrics.AgentConfig{Kind: "mcts", Goroutines: meta.Goroutines, Duration: meta.TimeBudget, Cutoff: meta.Cutoff}
	agents := []player.Agent{experiments.CreateAgent(mcts, seed)}
	for i := 1; i < len(players); i++ {
		agents = append(agents, player.NewGreedyAgent(seed+uint64(i)))
	}

	var options []engine.Option
	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
		ctx := context.Background()
		id := uuid.NewString()
		names := make([]string, len(players))
		for i, c := range players {
			names[i] = c.String()
		}
		g := journal.Game{ID: id, Players: strings.Join(names, " "), Seed: int64(seed), Locale: cfg.Locale}
		if err := j.CreateGame(ctx, g); err != nil {
			return err
		}
		options = append(options, engine.WithObserver(j.Observer(ctx, id, state)))
		log.Info().Msgf("journaling game %s", id)
	}

	e := engine.LocalEngine(state, agents, options...)
	if _, _, _, err := e.Run(); err != nil {
		return err
	}
	for _, m := range e.State.Messages.Messages() {
		fmt.Println(m.Text)
	}
	return nil
}
