// Command arena runs one fight: headless by default, printing the outcome
// as JSON, or interactively with -watch.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/arenasim/ragdoll/config"
	"github.com/arenasim/ragdoll/engine"
	"github.com/arenasim/ragdoll/render"
)

func main() {
	var (
		configPath = flag.String("config", "", "battle config file (JSON); defaults built in")
		watch      = flag.Bool("watch", false, "run the terminal viewer instead of headless")
		sound      = flag.Bool("sound", false, "audio cues in the viewer")
		maxTicks   = flag.Uint64("max-ticks", 60*60*5, "headless tick cap before timeout decision")
		replayOut  = flag.String("replay-out", "", "write the sealed replay log to this file")
		verify     = flag.Bool("verify", false, "after a headless run, re-run and check determinism")
		seed       = flag.Uint64("seed", 0, "override the config seed when nonzero")
		debug      = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *configPath).Msg("config load failed")
		}
		cfg = loaded
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	if *watch {
		if err := runViewer(cfg, *sound, logger); err != nil {
			logger.Fatal().Err(err).Msg("viewer failed")
		}
		return
	}

	if err := runHeadless(cfg, *maxTicks, *replayOut, *verify, logger); err != nil {
		logger.Fatal().Err(err).Msg("run failed")
	}
}

func runHeadless(cfg config.Battle, maxTicks uint64, replayOut string, verify bool, logger zerolog.Logger) error {
	session, err := engine.NewSession(cfg, logger)
	if err != nil {
		return err
	}
	outcome := session.RunHeadless(maxTicks)
	logger.Info().
		Int32("winner", outcome.Winner).
		Uint64("ticks", outcome.Ticks).
		Msg("fight finished")

	if replayOut != "" {
		data, err := json.MarshalIndent(outcome.Log, "", "  ")
		if err != nil {
			return fmt.Errorf("encode replay log: %w", err)
		}
		if err := os.WriteFile(replayOut, data, 0o644); err != nil {
			return fmt.Errorf("write replay log: %w", err)
		}
		logger.Info().Str("path", replayOut).Msg("replay log written")
	}

	if verify {
		if err := engine.Verify(cfg, outcome.Log, logger); err != nil {
			return fmt.Errorf("determinism check: %w", err)
		}
		logger.Info().Msg("determinism check passed")
	}

	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(struct {
		Winner int32  `json:"winner"`
		Loser  int32  `json:"loser"`
		Ticks  uint64 `json:"ticks"`
		Seed   uint64 `json:"seed"`
	}{outcome.Winner, outcome.Loser, outcome.Ticks, cfg.Seed})
}

func runViewer(cfg config.Battle, sound bool, logger zerolog.Logger) error {
	session, err := engine.NewSession(cfg, logger)
	if err != nil {
		return err
	}

	var sounder *render.Sounder
	if sound {
		sounder, err = render.NewSounder()
		if err != nil {
			logger.Warn().Err(err).Msg("audio unavailable")
			sounder = nil
		}
	}

	viewer, err := render.NewViewer(session, cfg.Arena, sounder, logger)
	if err != nil {
		return err
	}
	return viewer.Run()
}
