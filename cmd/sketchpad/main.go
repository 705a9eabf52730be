// ABOUTME: CLI entrypoint for the sketchpad workspace server.
// ABOUTME: Parses flags and environment, wires the web server, and handles signals for shutdown.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/2389-research/sketchpad/web"
)

var version = "dev"

// config holds all CLI configuration parsed from flags and the environment.
type config struct {
	bind        string
	dataDir     string
	backend     string
	allowRemote bool
	authToken   string
	showVersion bool
}

func main() {
	loadDotEnv(".env")

	cfg := parseFlags()

	if cfg.showVersion {
		fmt.Printf("sketchpad %s\n", version)
		os.Exit(0)
	}

	os.Exit(run(cfg))
}

// parseFlags parses command-line flags, with SKETCHPAD_* environment
// variables providing the defaults, and returns a populated config.
func parseFlags() config {
	env := web.ConfigFromEnv()
	if env.Bind == "" {
		env.Bind = web.DefaultBind
	}
	if env.Backend == "" {
		env.Backend = "file"
	}

	var cfg config

	fs := flag.NewFlagSet("sketchpad", flag.ContinueOnError)
	fs.StringVar(&cfg.bind, "bind", env.Bind, "Listen address (default: 127.0.0.1:2399)")
	fs.StringVar(&cfg.dataDir, "data-dir", env.DataDir, "Data directory for snapshots (default: $XDG_DATA_HOME/sketchpad)")
	fs.StringVar(&cfg.backend, "store", env.Backend, "Snapshot backend: file or sqlite (default: file)")
	fs.BoolVar(&cfg.allowRemote, "allow-remote", env.AllowRemote, "Allow non-loopback binds (requires SKETCHPAD_AUTH_TOKEN)")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		printHelp(os.Stderr, version)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg.authToken = env.AuthToken
	return cfg
}

// run starts the workspace server. Returns an exit code: 0 for success,
// 1 for failure.
func run(cfg config) int {
	dataDir := cfg.dataDir
	if dataDir == "" {
		resolved, err := defaultDataDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		dataDir = resolved
	}

	server, err := web.NewServer(web.Config{
		Bind:        cfg.bind,
		DataDir:     dataDir,
		Backend:     cfg.backend,
		AllowRemote: cfg.allowRemote,
		AuthToken:   cfg.authToken,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() { _ = server.Close() }()

	// Set up context with signal handling for graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	httpServer := &http.Server{
		Addr:              cfg.bind,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		<-ctx.Done()
		httpServer.Close()
	}()

	fmt.Fprintf(os.Stderr, "sketchpad %s on http://%s (data: %s, store: %s)\n", version, cfg.bind, dataDir, cfg.backend)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	return 0
}
