package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amalg/go-bomberquest/internal/audio"
	"github.com/amalg/go-bomberquest/internal/game"
	"github.com/amalg/go-bomberquest/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "Rules file (JSON); defaults are used when empty")
	seed := flag.Int64("seed", 0, "Map seed (0: random)")
	timeLimit := flag.Float64("time-limit", -1, "Seconds to finish the level (0: no limit, -1: from config)")
	chain := flag.Bool("chain", false, "Blasts set off other bombs")
	sound := flag.Bool("sound", false, "Play sound effects")
	volume := flag.Float64("volume", 1.0, "Sound effect volume")
	logFile := flag.String("log", "", "Log file path (default: discard logs)")
	flag.Parse()

	// Redirect log output before anything runs: stderr output corrupts the TUI.
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	config, err := game.LoadConfigFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *seed != 0 {
		config.Seed = *seed
	}
	if *timeLimit >= 0 {
		config.TimeLimit = *timeLimit
	}
	if *chain {
		config.ChainReaction = true
	}

	world, err := game.NewRandomWorld(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create world: %v\n", err)
		os.Exit(1)
	}
	engine := game.NewEngine(world)

	if *sound {
		player := audio.NewPlayer(audio.NewSoundBank(audio.DefaultSampleRate, *volume))
		if err := player.Start(); err != nil {
			log.Printf("[AUDIO] Sound disabled: %v", err)
		} else {
			defer player.Close()
			engine.Subscribe(player)
		}
	}

	session := ui.NewLocalSession(engine)
	session.Start()
	defer session.Stop()

	p := tea.NewProgram(ui.NewModel(session), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
	if m, ok := final.(ui.Model); ok && m.Err() != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", m.Err())
	}
}
