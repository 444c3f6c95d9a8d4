// Command minesweeper starts the Minesweeper game server.
//
// It supports two modes:
//  1. "server" (default) - runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" - runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, preset and session storage, debug logging, version
// output, and optional ngrok tunneling for external access during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/minesweeper/api"
	"github.com/wricardo/mcp-training/minesweeper/game/config"
	"github.com/wricardo/mcp-training/minesweeper/game/service"
	"github.com/wricardo/mcp-training/minesweeper/game/session"
	"github.com/wricardo/mcp-training/minesweeper/transport/mcp"
	"github.com/wricardo/mcp-training/minesweeper/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Minesweeper Server"
)

// Session storage backends
const (
	storeFile   = "file"
	storeSQLite = "sqlite"
	storeMemory = "memory"
)

const (
	sessionMaxAge   = 24 * time.Hour
	cleanupInterval = time.Hour
	syncInterval    = 5 * time.Second
)

// options holds the resolved command-line configuration
type options struct {
	host        string
	port        int
	configDir   string
	sessionsDir string
	store       string
	sqlitePath  string
	debug       bool

	ngrok       bool
	ngrokAuth   string
	ngrokDomain string
}

func (o options) addr() string {
	return fmt.Sprintf("%s:%d", o.host, o.port)
}

// services bundles everything initializeServices wires together
type services struct {
	game        service.GameService
	sessions    *session.Manager
	persistence session.SessionPersistence
	closeStore  func() error
}

// shutdown flushes sessions and releases the store
func (s *services) shutdown() {
	if err := s.sessions.SaveAllSessions(); err != nil {
		log.Printf("Warning: failed to save sessions on shutdown: %v", err)
	}
	if s.closeStore != nil {
		if err := s.closeStore(); err != nil {
			log.Printf("Warning: failed to close session store: %v", err)
		}
	}
}

// newCommand builds the CLI. Flags are shared by every subcommand.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "minesweeper",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("HOST")},
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "Directory containing difficulty presets", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.StringFlag{Name: "sessions-dir", Value: "sessions", Usage: "Directory for the file session store", Sources: cli.EnvVars("SESSIONS_DIR")},
			&cli.StringFlag{Name: "store", Value: storeFile, Usage: "Session store: file, sqlite or memory", Sources: cli.EnvVars("STORE")},
			&cli.StringFlag{Name: "sqlite-path", Value: "sessions.db", Usage: "Database file for the sqlite session store", Sources: cli.EnvVars("SQLITE_PATH")},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging", Sources: cli.EnvVars("DEBUG")},
			&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
		},
		DefaultCommand: "server",
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runHTTPServer(ctx, optionsFrom(cmd))
				},
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runStdioMCP(ctx, optionsFrom(cmd))
				},
			},
		},
	}
}

func optionsFrom(cmd *cli.Command) options {
	return options{
		host:        cmd.String("host"),
		port:        int(cmd.Int("port")),
		configDir:   cmd.String("config-dir"),
		sessionsDir: cmd.String("sessions-dir"),
		store:       cmd.String("store"),
		sqlitePath:  cmd.String("sqlite-path"),
		debug:       cmd.Bool("debug"),
		ngrok:       cmd.Bool("ngrok"),
		ngrokAuth:   cmd.String("ngrok-auth"),
		ngrokDomain: cmd.String("ngrok-domain"),
	}
}

// main loads .env, then runs the selected command.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogging(opts options) {
	if opts.debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled it also provisions a public tunnel. It returns when ctx is cancelled.
func runHTTPServer(ctx context.Context, opts options) error {
	setupLogging(opts)
	log.Printf("Starting %s v%s (mode: server, store: %s)", AppName, Version, opts.store)

	svc, err := initializeServices(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer svc.shutdown()

	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	addr := opts.addr()
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", api.NewServer(svc.game, hub))
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	if opts.ngrok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, opts, mainRouter)
		}()
	}

	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err := <-serveErr:
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
	return nil
}

// mcpHandler serves single JSON-RPC messages posted to /mcp
func mcpHandler(client *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := client.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// runNgrok exposes handler through an ngrok tunnel until ctx is cancelled
func runNgrok(ctx context.Context, opts options, handler http.Handler) {
	if opts.ngrokAuth == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if opts.ngrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.ngrokDomain))
		log.Printf("Using custom ngrok domain: %s", opts.ngrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(opts.ngrokAuth))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// initializeServices wires the config manager, session store and game service.
// It also starts background routines that prune stale sessions until ctx ends.
func initializeServices(ctx context.Context, opts options) (*services, error) {
	configManager, err := config.NewManager(opts.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	svc := &services{}
	switch opts.store {
	case storeFile, "":
		persistence, err := session.NewFilePersistence(opts.sessionsDir, configManager)
		if err != nil {
			return nil, fmt.Errorf("failed to create session persistence: %w", err)
		}
		svc.persistence = persistence
	case storeSQLite:
		persistence, err := session.NewSQLitePersistence(opts.sqlitePath, configManager)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite session store: %w", err)
		}
		svc.persistence = persistence
		svc.closeStore = persistence.Close
		if counts, err := persistence.CountByStatus(); err == nil {
			log.Printf("[STORE] sqlite=%s play=%d won=%d lost=%d", opts.sqlitePath, counts["play"], counts["won"], counts["lost"])
		}
	case storeMemory:
	default:
		return nil, fmt.Errorf("unknown session store %q (use file, sqlite or memory)", opts.store)
	}

	if svc.persistence != nil {
		svc.sessions = session.NewManagerWithPersistence(svc.persistence)
		if err := svc.sessions.LoadPersistedSessions(); err != nil {
			log.Printf("Warning: Failed to load persisted sessions: %v", err)
		}
	} else {
		svc.sessions = session.NewManager()
	}

	svc.game = service.NewGameService(svc.sessions, configManager)

	go sessionCleanupRoutine(ctx, svc.sessions)
	if svc.persistence != nil {
		go storeSyncRoutine(ctx, svc.sessions, svc.persistence)
	}

	return svc, nil
}

// sessionCleanupRoutine periodically evicts sessions that have not been accessed
// within the retention window.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// storeSyncRoutine periodically drops in-memory sessions whose stored record was
// deleted outside the server.
func storeSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence) {
	ticker := time.NewTicker(syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if pruned := pruneOrphans(manager, persistence); pruned > 0 {
				log.Printf("Store sync: pruned %d orphaned sessions from memory", pruned)
			}
		}
	}
}

func pruneOrphans(manager *session.Manager, persistence session.SessionPersistence) int {
	pruned := 0
	for _, sess := range manager.List() {
		if persistence.Exists(sess.ID) {
			continue
		}
		if err := manager.DeleteFromMemory(sess.ID); err == nil {
			pruned++
			log.Printf("Pruned session %s from memory (record deleted)", sess.ID)
		}
	}
	return pruned
}

// runStdioMCP runs an MCP stdio server. It reuses an API already listening on
// host:port; otherwise it starts an internal HTTP API on a random loopback port.
func runStdioMCP(ctx context.Context, opts options) error {
	setupLogging(opts)
	log.Printf("Starting %s v%s (mode: stdio-mcp)", AppName, Version)

	externalURL := fmt.Sprintf("http://%s", opts.addr())
	log.Printf("Checking for external API server at %s...", externalURL)

	baseURL := externalURL
	if !apiAvailable(externalURL) {
		log.Printf("No external API server found, starting internal HTTP server")

		svc, err := initializeServices(ctx, opts)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		defer svc.shutdown()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub()
		go hub.Run()
		defer hub.Stop()

		httpServer := &http.Server{Handler: api.NewServer(svc.game, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()
		defer httpServer.Close()

		baseURL = fmt.Sprintf("http://%s", listener.Addr().String())
		log.Printf("MCP stdio server ready (using internal HTTP server at %s)", baseURL)
	} else {
		log.Printf("MCP stdio server ready (using external HTTP server at %s)", externalURL)
	}

	if err := server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// apiAvailable reports whether a Minesweeper API answers its health check at baseURL
func apiAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
