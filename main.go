// Command marsrover starts the Mars Rover mission server.
//
// It supports three modes:
//  1. "server" (default) – runs the HTTP server exposing the REST API, WebSocket, metrics and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "run" – executes missions from a JSON or text file and prints the final reports
//
// Every flag can also be set from the environment, and a .env file in the
// working directory is loaded first.
package main

import (
	"context"
	"fmt"
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
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mars-rover/api"
	"github.com/wricardo/mars-rover/mission/missionlog"
	"github.com/wricardo/mars-rover/mission/scenario"
	"github.com/wricardo/mars-rover/mission/service"
	"github.com/wricardo/mars-rover/mission/session"
	"github.com/wricardo/mars-rover/telemetry"
	"github.com/wricardo/mars-rover/transport/mcp"
	"github.com/wricardo/mars-rover/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Mars Rover Mission Server"
)

const (
	sessionMaxAge       = 24 * time.Hour
	sessionCleanupEvery = time.Hour
	filesystemSyncEvery = 5 * time.Second
	shutdownTimeout     = 10 * time.Second
)

// appConfig is the resolved command line and environment configuration
type appConfig struct {
	Host        string
	Port        int
	ScenarioDir string
	SessionsDir string
	MissionDB   string

	NgrokEnabled bool
	NgrokAuth    string
	NgrokDomain  string
}

func (c appConfig) addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprint(c.Port))
}

// localURL is the base URL this process uses to reach its own API
func (c appConfig) localURL() string {
	host := c.Host
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, fmt.Sprint(c.Port))
}

func configFromCommand(cmd *cli.Command) appConfig {
	return appConfig{
		Host:         cmd.String("host"),
		Port:         int(cmd.Int("port")),
		ScenarioDir:  cmd.String("scenario-dir"),
		SessionsDir:  cmd.String("sessions-dir"),
		MissionDB:    cmd.String("mission-db"),
		NgrokEnabled: cmd.Bool("ngrok"),
		NgrokAuth:    cmd.String("ngrok-auth"),
		NgrokDomain:  cmd.String("ngrok-domain"),
	}
}

// newCommand builds the root command with its subcommands
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "marsrover",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("HOST")},
			&cli.StringFlag{Name: "scenario-dir", Value: "scenarios", Usage: "Directory containing mission scenarios", Sources: cli.EnvVars("SCENARIO_DIR")},
			&cli.StringFlag{Name: "sessions-dir", Value: "sessions", Usage: "Directory where rover sessions are persisted", Sources: cli.EnvVars("SESSIONS_DIR")},
			&cli.StringFlag{Name: "mission-db", Value: "missions.db", Usage: "SQLite mission log path (empty disables the log)", Sources: cli.EnvVars("MISSION_DB")},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "Log level: trace, debug, info, warn, error", Sources: cli.EnvVars("LOG_LEVEL")},
			&cli.StringFlag{Name: "log-format", Value: "console", Usage: "Log format: console or json", Sources: cli.EnvVars("LOG_FORMAT")},
			&cli.StringFlag{Name: "log-output", Value: "stderr", Usage: "Log output: stderr, stdout or a file path", Sources: cli.EnvVars("LOG_OUTPUT")},
			&cli.StringFlag{Name: "trace-exporter", Value: "none", Usage: "Span exporter: none, stdout or otlp", Sources: cli.EnvVars("TRACE_EXPORTER")},
			&cli.StringFlag{Name: "trace-endpoint", Usage: "OTLP collector host:port", Sources: cli.EnvVars("TRACE_ENDPOINT")},
			&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
		},
		Action: serverAction,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, metrics and MCP endpoint",
				Action:  serverAction,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server, with an internal HTTP server if none is running",
				Action:  mcpAction,
			},
			runCommand(),
		},
	}
}

// main loads .env, then runs the selected command
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupTelemetry configures logging and tracing. The returned function
// flushes spans and closes the log output.
func setupTelemetry(ctx context.Context, cmd *cli.Command) (func(), error) {
	closer, err := telemetry.SetupLogging(telemetry.LoggingConfig{
		Level:  cmd.String("log-level"),
		Format: cmd.String("log-format"),
		Output: cmd.String("log-output"),
	})
	if err != nil {
		return nil, err
	}

	tracing, err := telemetry.SetupTracing(ctx, telemetry.TracingConfig{
		Exporter:    cmd.String("trace-exporter"),
		Endpoint:    cmd.String("trace-endpoint"),
		ServiceName: "marsrover",
		Version:     Version,
	})
	if err != nil {
		closer.Close()
		return nil, err
	}

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tracing.Shutdown(shutdownCtx); err != nil {
			telemetry.Component("main").Warn().Err(err).Msg("Failed to flush spans")
		}
		closer.Close()
	}, nil
}

func serverAction(ctx context.Context, cmd *cli.Command) error {
	cleanup, err := setupTelemetry(ctx, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := configFromCommand(cmd)
	telemetry.Component("main").Info().Str("version", Version).Str("mode", "server").Msgf("Starting %s", AppName)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	svcs, err := initializeServices(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer svcs.Close()

	return runHTTPServer(ctx, cfg, svcs)
}

func mcpAction(ctx context.Context, cmd *cli.Command) error {
	cleanup, err := setupTelemetry(ctx, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	return runStdioMCPWithInternalServer(ctx, configFromCommand(cmd))
}

// services holds everything initializeServices wires together
type services struct {
	mission   service.MissionService
	sessions  *session.Manager
	scenarios *scenario.Manager
	missions  *missionlog.Store
	metrics   *telemetry.Metrics
}

// Close saves sessions and closes the mission log
func (s *services) Close() error {
	if err := s.sessions.SaveAllSessions(); err != nil {
		telemetry.Component("main").Warn().Err(err).Msg("Failed to save sessions")
	}
	if s.missions != nil {
		return s.missions.Close()
	}
	return nil
}

// newAPIServer builds the REST API with its WebSocket hub. The hub stops
// when ctx is cancelled.
func (s *services) newAPIServer(ctx context.Context) *api.Server {
	hub := websocket.NewHub()
	go hub.Run(ctx)

	return api.NewServer(s.mission, hub, api.WithMetricsHandler(s.metrics.Handler()))
}

// initializeServices wires session/scenario managers, the mission log and the
// mission service. It also starts background routines that run until ctx is
// cancelled.
func initializeServices(ctx context.Context, cfg appConfig) (*services, error) {
	logger := telemetry.Component("main")

	scenarios, err := scenario.NewManager(cfg.ScenarioDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario manager: %w", err)
	}

	persistence, err := session.NewFilePersistence(cfg.SessionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionManager := session.NewManagerWithPersistence(persistence)

	// Load persisted sessions on startup
	if err := sessionManager.LoadPersistedSessions(); err != nil {
		logger.Warn().Err(err).Msg("Failed to load persisted sessions")
	}

	metrics := telemetry.NewMetrics()
	opts := []service.Option{service.WithMetrics(metrics)}

	var store *missionlog.Store
	if cfg.MissionDB != "" {
		store, err = missionlog.Open(ctx, missionlog.Config{Path: cfg.MissionDB})
		if err != nil {
			return nil, fmt.Errorf("failed to open mission log: %w", err)
		}
		opts = append(opts, service.WithMissionLog(store))
	} else {
		logger.Info().Msg("Mission log disabled")
	}

	svcs := &services{
		mission:   service.NewMissionService(sessionManager, scenarios, opts...),
		sessions:  sessionManager,
		scenarios: scenarios,
		missions:  store,
		metrics:   metrics,
	}
	metrics.SetActiveSessions(sessionManager.Count())

	if err := scenarios.Watch(ctx, func(id string) {
		logger.Info().Str("scenario", id).Msg("Scenario file changed")
	}); err != nil {
		logger.Warn().Err(err).Msg("Scenario hot reload disabled")
	}

	go sessionCleanupRoutine(ctx, sessionManager, metrics)
	go filesystemSyncRoutine(ctx, sessionManager, persistence, metrics)

	return svcs, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within sessionMaxAge.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, metrics *telemetry.Metrics) {
	ticker := time.NewTicker(sessionCleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := manager.CleanupExpiredSessions(sessionMaxAge)
			if removed > 0 {
				telemetry.Component("main").Info().Int("removed", removed).Msg("Cleaned up expired sessions")
				metrics.SetActiveSessions(manager.Count())
			}
		}
	}
}

// filesystemSyncRoutine periodically syncs in-memory sessions with filesystem state.
// It removes sessions from memory when their corresponding files are deleted.
func filesystemSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence, metrics *telemetry.Metrics) {
	ticker := time.NewTicker(filesystemSyncEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if pruned := pruneOrphanedSessions(manager, persistence); pruned > 0 {
			telemetry.Component("main").Info().Int("pruned", pruned).Msg("Filesystem sync: pruned orphaned sessions from memory")
			metrics.SetActiveSessions(manager.Count())
		}
	}
}

// pruneOrphanedSessions drops sessions whose file has been deleted
func pruneOrphanedSessions(manager *session.Manager, persistence session.SessionPersistence) int {
	if persistence == nil {
		return 0
	}

	pruned := 0
	for _, sess := range manager.List() {
		if !persistence.Exists(sess.ID) {
			if err := manager.DeleteFromMemory(sess.ID); err == nil {
				pruned++
				telemetry.Component("main").Debug().Str("session_id", sess.ID).Msg("Pruned session from memory (file deleted)")
			}
		}
	}
	return pruned
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, metrics and
// an /mcp endpoint. If ngrok is enabled it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, cfg appConfig, svcs *services) error {
	logger := telemetry.Component("main")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	apiServer := svcs.newAPIServer(ctx)

	// MCP endpoint proxies back into this server's own API
	mcpClient := mcp.NewClient(cfg.localURL())
	apiServer.Mount("/mcp", mcpClient.HTTPHandler())

	addr := cfg.addr()
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      apiServer,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Handle shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	serverErr := make(chan error, 1)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		logger.Info().Msgf("REST API: http://%s/api", addr)
		logger.Info().Msgf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		logger.Info().Msgf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	if cfg.NgrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cfg, apiServer)
		}()
	}

	var runErr error
	select {
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down")
	case runErr = <-serverErr:
		logger.Error().Err(runErr).Msg("HTTP server failed")
	case <-ctx.Done():
	}
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// Wait for all goroutines to finish
	wg.Wait()
	logger.Info().Msg("Server stopped")
	return runErr
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is cancelled
func runNgrokTunnel(ctx context.Context, cfg appConfig, handler http.Handler) {
	logger := telemetry.Component("ngrok")

	if cfg.NgrokAuth == "" {
		logger.Warn().Msg("Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	logger.Info().Msg("Starting ngrok tunnel")

	// Configure ngrok endpoint
	var tunnel ngrokConfig.Tunnel
	if cfg.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.NgrokDomain))
		logger.Info().Str("domain", cfg.NgrokDomain).Msg("Using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.NgrokAuth))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to start ngrok tunnel")
		return
	}

	// Closing the tunnel ends http.Serve below
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close ngrok tunnel")
		}
	}()

	ngrokURL := tun.URL()
	logger.Info().Str("url", ngrokURL).Msg("Ngrok tunnel established")
	logger.Info().Msgf("REST API (ngrok): %s/api", ngrokURL)
	logger.Info().Msgf("WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	logger.Info().Msgf("MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		logger.Error().Err(err).Msg("Ngrok server error")
	}
	logger.Info().Msg("Ngrok tunnel closed")
}

// externalAPIAvailable reports whether a mission server answers at baseURL
func externalAPIAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/healthz")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at the configured host and port; if that is
// unavailable it starts an internal HTTP API bound to a random loopback port.
func runStdioMCPWithInternalServer(ctx context.Context, cfg appConfig) error {
	logger := telemetry.Component("main")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	externalURL := cfg.localURL()
	logger.Info().Str("url", externalURL).Msg("Checking for external API server")

	baseURL := externalURL
	if externalAPIAvailable(externalURL) {
		logger.Info().Str("url", externalURL).Msg("External API server found, using it for MCP")
	} else {
		logger.Info().Msg("No external API server found, starting internal HTTP server")

		svcs, err := initializeServices(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		defer svcs.Close()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		httpServer := &http.Server{Handler: svcs.newAPIServer(ctx)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("Internal HTTP server error")
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
		logger.Info().Str("url", baseURL).Msg("Internal HTTP server started for MCP stdio")
	}

	mcpClient := mcp.NewClient(baseURL)
	logger.Info().Str("api", baseURL).Msg("MCP stdio server ready")

	return server.ServeStdio(mcpClient.GetMCPServer())
}
