package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/playmatatu/spinball/internal/audio"
	"github.com/playmatatu/spinball/internal/config"
	"github.com/playmatatu/spinball/internal/game"
	"github.com/playmatatu/spinball/internal/tui"
)

func main() {
	godotenv.Load()
	cfg := config.Load()
	defaults := game.SettingsFromConfig(cfg)

	team1 := flag.String("team1", defaults.Team1Name, "home team name")
	team2 := flag.String("team2", defaults.Team2Name, "away team name")
	speed := flag.Float64("speed", defaults.RotationSpeed, "goal rotation speed in degrees per tick (0.1-2.0)")
	duration := flag.Float64("duration", defaults.MatchDuration, "real seconds per 90-minute match")
	seed := flag.Int64("seed", cfg.RandomSeed, "respawn random seed, 0 for time based")
	sound := flag.Bool("sound", false, "play a whistle on goals and clicks on bounces")
	volume := flag.Float64("volume", 0.6, "sound volume (0-1)")
	logFile := flag.String("log", "", "write logs to this file")
	flag.Parse()

	// The terminal belongs to tcell while the match runs.
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	settings := defaults
	settings.SetTeamName(0, *team1)
	settings.SetTeamName(1, *team2)
	settings.SetRotationSpeed(*speed)
	if !settings.SetMatchDuration(*duration) {
		log.SetOutput(os.Stderr)
		log.Fatalf("Invalid -duration %v: must be a positive number of seconds", *duration)
	}

	m, err := game.NewMatch("local", settings, game.MatchOptions{TickRate: cfg.TickRate, Seed: *seed})
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Failed to create match: %v", err)
	}

	var sounds tui.Sounds
	if *sound {
		player := audio.NewPlayer(*volume)
		if err := player.Initialize(); err != nil {
			log.Printf("[AUDIO] Sound disabled: %v", err)
		} else {
			defer player.Close()
			sounds = player
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Failed to initialize screen: %v", err)
	}
	screen.HideCursor()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	runErr := tui.Run(ctx, screen, m, cfg.TickRate, sounds)
	stop()
	screen.Fini()

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.SetOutput(os.Stderr)
		log.Fatalf("Match loop failed: %v", runErr)
	}

	final := m.Snapshot()
	if final.Status == game.StatusEnded {
		fmt.Printf("%s %s %s: %s\n", final.Bodies[0].Name, final.Scoreline(), final.Bodies[1].Name, final.Result())
	}
}
