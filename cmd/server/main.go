package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/amalg/go-bomberquest/internal/discovery"
	"github.com/amalg/go-bomberquest/internal/game"
	"github.com/amalg/go-bomberquest/internal/network"
)

func main() {
	port := flag.Int("port", 9999, "Port for the controlling client")
	wsAddr := flag.String("ws", "", "Address for the websocket spectator feed, e.g. :8080 (empty: disabled)")
	configPath := flag.String("config", "", "Rules file (JSON); defaults are used when empty")
	seed := flag.Int64("seed", 0, "Map seed (0: random)")
	announce := flag.Bool("announce", true, "Advertise the session on the LAN")
	logFile := flag.String("log", "", "Log file path (default: stderr)")
	flag.Parse()

	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	config, err := game.LoadConfigFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *seed != 0 {
		config.Seed = *seed
	}

	world, err := game.NewRandomWorld(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create world: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf("0.0.0.0:%d", *port)
	server := network.NewServer(addr, game.NewEngine(world))

	var httpServer *http.Server
	spectateAddr := ""
	if *wsAddr != "" {
		hub := network.NewSpectatorHub()
		server.WithSpectators(hub)

		mux := http.NewServeMux()
		mux.Handle("/spectate", hub)
		httpServer = &http.Server{Addr: *wsAddr, Handler: mux}

		ln, err := net.Listen("tcp", *wsAddr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to listen for spectators: %v\n", err)
			os.Exit(1)
		}
		spectateAddr = ln.Addr().String()
		log.Printf("[SPECTATE] Feed at ws://%s/spectate", spectateAddr)
		go func() {
			if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("[SPECTATE] HTTP server error: %v", err)
			}
		}()
	}

	if err := server.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}

	if *announce {
		hostname, _ := os.Hostname()
		_, gamePort, _ := net.SplitHostPort(server.Addr())
		_, wsPort, _ := net.SplitHostPort(spectateAddr)
		broadcaster := discovery.NewBroadcaster(func() discovery.SessionInfo {
			info := discovery.SessionInfo{
				SessionID:  server.SessionID(),
				Host:       hostname,
				GameAddr:   ":" + gamePort,
				Controlled: server.HasController(),
				Status:     server.Engine().Snapshot().Status.String(),
			}
			if wsPort != "" {
				info.SpectateAddr = ":" + wsPort
			}
			return info
		}, discovery.DefaultPort)
		if err := broadcaster.Start(); err != nil {
			log.Printf("[DISCOVERY] Announcement disabled: %v", err)
		} else {
			defer broadcaster.Stop()
			log.Printf("[DISCOVERY] Announcing session on UDP port %d", discovery.DefaultPort)
		}
	}

	fmt.Printf("Bomberquest session %s on port %d\n", server.SessionID(), *port)
	fmt.Println("Press Ctrl+C to stop.")

	// Handle OS signals for clean shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Printf("[SERVER] Shutting down")
	server.Stop()
	if httpServer != nil {
		httpServer.Close()
	}
}
