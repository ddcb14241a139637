// Package main is the entry point for the Pitwall season engine.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/paddockworks/pitwall-engine/internal/config"
	"github.com/paddockworks/pitwall-engine/internal/domain"
	"github.com/paddockworks/pitwall-engine/internal/news"
	"github.com/paddockworks/pitwall-engine/internal/outcome"
	"github.com/paddockworks/pitwall-engine/internal/raceweekend"
	"github.com/paddockworks/pitwall-engine/internal/season"
	"github.com/paddockworks/pitwall-engine/internal/store"
	"github.com/paddockworks/pitwall-engine/log"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to configuration JSON file")
	weeks := flag.Int("weeks", 52, "number of weeks to advance")
	flag.Parse()

	if *showVersion {
		fmt.Printf("pitwall %s (commit=%s, built=%s)\n", version, commit, date)
		os.Exit(0)
	}

	// Resolve config path: --config flag > PITWALL_CONFIG env > auto-discover.
	path := *configPath
	if path == "" {
		path = os.Getenv("PITWALL_CONFIG")
	}
	if path == "" {
		path = discoverConfig()
	}
	if path == "" {
		fatal("no config found. Place config.json in the cwd, use --config <path>, or set PITWALL_CONFIG.")
	}

	cfg, err := config.Load(path)
	if err != nil {
		fatal(fmt.Sprintf("load config: %v", err))
	}

	logger := log.Init(cfg.Development)
	defer logger.Sync()

	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		fatal(fmt.Sprintf("open database: %v", err))
	}
	defer db.Close()

	ctx := context.Background()
	saves := &store.SaveRepo{}
	timeline := &store.TimelineRepo{}

	// Resume the save slot if it exists, otherwise start a fresh season
	// from the fixture file.
	w, err := saves.Load(ctx, db, cfg.SaveSlot)
	switch {
	case err == nil:
		logger.Info("resumed save",
			zap.String("slot", cfg.SaveSlot),
			zap.Int("season", int(w.Season)),
			zap.Int("week", w.Week))
	case errors.Is(err, domain.ErrSaveNotFound):
		spec, err := season.Load(cfg.SeasonPath)
		if err != nil {
			fatal(fmt.Sprintf("load season fixtures: %v", err))
		}
		w, err = spec.Build()
		if err != nil {
			fatal(fmt.Sprintf("build world: %v", err))
		}
		if cfg.PlayerTeam != "" {
			w.PlayerTeamID = cfg.PlayerTeam
		}
		logger.Info("started new season",
			zap.String("slot", cfg.SaveSlot),
			zap.Int("season", int(w.Season)),
			zap.Int("teams", len(w.Teams)))
	default:
		fatal(fmt.Sprintf("load save: %v", err))
	}

	orch := buildPipeline(cfg, logger)

	for i := 0; i < *weeks; i++ {
		if w.CurrentRace() != nil {
			before := len(w.Timeline)
			report, err := orch.Run(ctx, w)
			if err != nil {
				fatal(fmt.Sprintf("race weekend (week %d): %v", w.Week, err))
			}
			logger.Info("race weekend complete",
				zap.Int("raceNumber", report.RaceNumber),
				zap.String("circuit", report.CircuitID))

			// Persist this turn's events. The in-memory world already
			// holds them, so a write failure is logged, not fatal.
			for _, ev := range w.Timeline[before:] {
				if err := timeline.Append(ctx, db, cfg.SaveSlot, ev); err != nil {
					logger.Warn("persist timeline event",
						zap.String("id", ev.ID), zap.Error(err))
				}
			}
		}
		w.Week++
	}

	if err := saves.Save(ctx, db, cfg.SaveSlot, w); err != nil {
		fatal(fmt.Sprintf("save world: %v", err))
	}

	printStandings(w)
}

// buildPipeline wires the outcome simulator and race-day components from
// configuration. A zero seed keeps runs non-reproducible.
func buildPipeline(cfg *config.Config, logger *zap.Logger) *raceweekend.Orchestrator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	bus := news.NewBus()
	sim := outcome.NewSimulator(rng, logger)

	orch := raceweekend.New(sim, bus, logger)
	orch.Repairs.BaseCost = cfg.RepairBaseCost
	orch.Repairs.CrashSurcharge = cfg.RepairCrashSurcharge
	orch.Telemetry.Noise = rand.New(rand.NewSource(seed + 1))
	orch.Telemetry.NoiseFraction = cfg.TelemetryNoise
	return orch
}

func printStandings(w *domain.World) {
	fmt.Printf("season %d, week %d\n", w.Season, w.Week)
	for _, s := range w.DriverStandings {
		name := s.DriverID
		if d, ok := w.Drivers[s.DriverID]; ok {
			name = d.Name
		}
		fmt.Printf("%3d. %-24s %4d pts  %d wins\n", s.Position, name, s.Points, s.Wins)
	}
}

// discoverConfig looks for config.json next to the executable, then in the cwd.
func discoverConfig() string {
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), "config.json")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if _, err := os.Stat("config.json"); err == nil {
		return "config.json"
	}
	return ""
}

func fatal(msg string) {
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", msg)
	os.Exit(1)
}
