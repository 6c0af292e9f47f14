package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amalg/go-bomberquest/internal/discovery"
	"github.com/amalg/go-bomberquest/internal/network"
	"github.com/amalg/go-bomberquest/internal/ui"
)

func main() {
	addr := flag.String("addr", "", "Server address (e.g., 192.168.1.5:9999); empty: search the LAN")
	name := flag.String("name", "Player", "Your player name")
	wait := flag.Duration("wait", 5*time.Second, "How long to search the LAN for a session")
	logFile := flag.String("log", "", "Log file path (default: discard logs)")
	flag.Parse()

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

	if *addr == "" {
		found, err := discover(*wait)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			fmt.Fprintln(os.Stderr, "Usage: client [--addr <host:port>] [--name <name>]")
			fmt.Fprintln(os.Stderr, "  Example: client --addr 192.168.1.5:9999 --name Alice")
			os.Exit(1)
		}
		fmt.Printf("Found session %s on %s\n", found.SessionID, found.Host)
		if found.SpectateAddr != "" {
			fmt.Printf("  Spectators: ws://%s/spectate\n", found.SpectateAddr)
		}
		*addr = found.GameAddr
	}

	fmt.Printf("Connecting to %s as %s...\n", *addr, *name)

	client, err := network.NewClient(*addr, *name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	fmt.Printf("Connected! Session %s, client %s\n", client.SessionID(), client.ClientID())
	fmt.Println("Starting TUI...")
	time.Sleep(500 * time.Millisecond)

	p := tea.NewProgram(ui.NewModel(client), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
	if m, ok := final.(ui.Model); ok && m.Err() != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", m.Err())
	}
}

// discover listens for session announcements and returns the first one
// still waiting for a controller.
func discover(wait time.Duration) (discovery.SessionInfo, error) {
	fmt.Printf("Searching the LAN for sessions (%s)...\n", wait)

	l := discovery.NewListener(discovery.DefaultPort)
	if err := l.Start(); err != nil {
		return discovery.SessionInfo{}, err
	}
	defer l.Stop()

	found, ok := l.WaitJoinable(wait)
	if !ok {
		return discovery.SessionInfo{}, fmt.Errorf("no joinable session found within %s", wait)
	}
	return found, nil
}
