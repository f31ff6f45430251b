// Command foxcatcher runs the Fox Catcher game server.
//
// Subcommands:
//  1. "serve" (default) runs the HTTP server exposing the REST API, WebSocket and an /mcp HTTP endpoint
//  2. "mcp" runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "results" prints the best recorded games
//  4. "layouts" lists the available starting layouts
//
// Settings come from an optional YAML file; flags and environment variables
// (a .env file is loaded first) override it.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/foxcatcher/api"
	"github.com/wricardo/foxcatcher/game/config"
	"github.com/wricardo/foxcatcher/game/results"
	"github.com/wricardo/foxcatcher/game/service"
	"github.com/wricardo/foxcatcher/game/session"
	"github.com/wricardo/foxcatcher/transport/mcp"
	"github.com/wricardo/foxcatcher/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Fox Catcher Server"
)

const (
	sessionMaxAge           = 24 * time.Hour
	sessionCleanupInterval  = time.Hour
	filesystemSyncInterval  = 5 * time.Second
	shutdownTimeout         = 10 * time.Second
	externalServerProbeWait = 2 * time.Second
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newApp builds the command tree. Root flags are inherited by every subcommand.
func newApp() *cli.Command {
	defaults := config.DefaultSettings()

	return &cli.Command{
		Name:           "foxcatcher",
		Usage:          AppName,
		Version:        Version,
		DefaultCommand: "serve",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "settings",
				Usage:   "YAML settings file",
				Sources: cli.EnvVars("FOXCATCHER_SETTINGS"),
			},
			&cli.StringFlag{
				Name:    "host",
				Value:   defaults.Host,
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("FOXCATCHER_HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   defaults.Port,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("FOXCATCHER_PORT", "PORT"),
			},
			&cli.StringFlag{
				Name:    "layouts-dir",
				Value:   defaults.LayoutsDir,
				Usage:   "Directory containing layout YAML files",
				Sources: cli.EnvVars("LAYOUTS_DIR"),
			},
			&cli.StringFlag{
				Name:    "sessions-dir",
				Value:   defaults.SessionsDir,
				Usage:   "Directory for persisted sessions (empty disables persistence)",
				Sources: cli.EnvVars("SESSIONS_DIR"),
			},
			&cli.StringFlag{
				Name:    "results-backend",
				Value:   defaults.Results.Backend,
				Usage:   "Where finished games are recorded: memory, file or sqlite",
				Sources: cli.EnvVars("RESULTS_BACKEND"),
			},
			&cli.StringFlag{
				Name:    "results-path",
				Usage:   "Results file or database (defaults to the XDG data directory)",
				Sources: cli.EnvVars("RESULTS_PATH"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("FOXCATCHER_DEBUG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"server", "http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint",
				Action:  serveAction,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server, reusing a running API or starting an internal one",
				Action:  mcpAction,
			},
			{
				Name:  "results",
				Usage: "Print the best recorded games",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: results.DefaultBestLimit, Usage: "Number of results"},
					&cli.BoolFlag{Name: "json", Usage: "Print JSON instead of a table"},
				},
				Action: resultsAction,
			},
			{
				Name:   "layouts",
				Usage:  "List available starting layouts",
				Action: layoutsAction,
			},
		},
	}
}

// loadSettings reads the settings file and applies explicitly set flags on top
func loadSettings(cmd *cli.Command) (config.Settings, error) {
	settings, err := config.LoadSettings(cmd.String("settings"))
	if err != nil {
		return config.Settings{}, err
	}

	if cmd.IsSet("host") {
		settings.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		settings.Port = cmd.Int("port")
	}
	if cmd.IsSet("layouts-dir") {
		settings.LayoutsDir = cmd.String("layouts-dir")
	}
	if cmd.IsSet("sessions-dir") {
		settings.SessionsDir = cmd.String("sessions-dir")
	}
	if cmd.IsSet("results-backend") {
		settings.Results.Backend = cmd.String("results-backend")
	}
	if cmd.IsSet("results-path") {
		settings.Results.Path = cmd.String("results-path")
	}
	if cmd.Bool("debug") {
		settings.Log.Development = true
		settings.Log.Level = "debug"
	}

	return settings, settings.Validate()
}

// newLogger builds a zap logger writing to stderr, which keeps stdout free
// for the MCP stdio transport.
func newLogger(settings config.LogSettings) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if settings.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	if settings.Level != "" {
		level, err := zapcore.ParseLevel(settings.Level)
		if err != nil {
			return nil, errors.Wrap(err, "parse log level")
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// services holds everything the subcommands share
type services struct {
	settings    config.Settings
	logger      *zap.Logger
	layouts     *config.Manager
	sessions    *session.Manager
	persistence session.SessionPersistence
	results     results.Repository
	game        service.GameService
	closers     []func() error
}

// Close releases the results store and flushes the logger
func (s *services) Close() {
	for _, closer := range s.closers {
		if err := closer(); err != nil {
			s.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = s.logger.Sync()
}

// initializeServices wires the layout, session and results stores into the
// game service.
func initializeServices(settings config.Settings, logger *zap.Logger) (*services, error) {
	s := &services{settings: settings, logger: logger}

	layouts, err := config.NewManager(settings.LayoutsDir)
	if err != nil {
		return nil, errors.WithMessage(err, "create layout manager")
	}
	s.layouts = layouts

	opts := []session.Option{session.WithLogger(logger)}
	if settings.SessionsDir != "" {
		persistence, err := session.NewFilePersistence(settings.SessionsDir, layouts)
		if err != nil {
			return nil, errors.WithMessage(err, "create session persistence")
		}
		s.persistence = persistence
		opts = append(opts, session.WithPersistence(persistence))
	}
	s.sessions = session.NewManager(opts...)

	if err := s.sessions.LoadPersistedSessions(); err != nil {
		logger.Warn("failed to load persisted sessions", zap.Error(err))
	}

	repo, closer, err := openResultsRepository(settings.Results, logger)
	if err != nil {
		return nil, err
	}
	s.results = repo
	if closer != nil {
		s.closers = append(s.closers, closer)
	}

	s.game = service.NewGameService(s.sessions, layouts, repo, logger)
	return s, nil
}

// openResultsRepository opens the configured results backend. The returned
// closer may be nil.
func openResultsRepository(settings config.ResultsSettings, logger *zap.Logger) (results.Repository, func() error, error) {
	path := settings.Path
	if path == "" && settings.Backend != config.ResultsMemory {
		defaultPath, err := results.DefaultFilePath()
		if err != nil {
			return nil, nil, err
		}
		path = defaultPath
		if settings.Backend == config.ResultsSQLite {
			path = strings.TrimSuffix(defaultPath, filepath.Ext(defaultPath)) + ".db"
		}
	}

	switch settings.Backend {
	case config.ResultsMemory:
		return results.NewMemoryRepository(), nil, nil
	case config.ResultsSQLite:
		repo, err := results.NewSQLiteRepository(path, logger)
		if err != nil {
			return nil, nil, errors.WithMessage(err, "open results database")
		}
		return repo, repo.Close, nil
	case config.ResultsFile:
		repo, err := results.NewFileRepository(path, logger)
		if err != nil {
			return nil, nil, errors.WithMessage(err, "open results file")
		}
		return repo, nil, nil
	}
	return nil, nil, errors.Errorf("unknown results backend %q", settings.Backend)
}

// setup loads settings, builds the logger and wires the services
func setup(cmd *cli.Command) (*services, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(settings.Log)
	if err != nil {
		return nil, err
	}
	svcs, err := initializeServices(settings, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return svcs, nil
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	svcs, err := setup(cmd)
	if err != nil {
		return err
	}
	defer svcs.Close()

	svcs.logger.Info("starting", zap.String("app", AppName), zap.String("version", Version))
	return runHTTPServer(ctx, svcs)
}

func mcpAction(ctx context.Context, cmd *cli.Command) error {
	svcs, err := setup(cmd)
	if err != nil {
		return err
	}
	defer svcs.Close()

	return runStdioMCPWithInternalServer(ctx, svcs)
}

func resultsAction(ctx context.Context, cmd *cli.Command) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	repo, closer, err := openResultsRepository(settings.Results, zap.NewNop())
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() {
			_ = closer()
		}()
	}

	best, err := repo.Best(ctx, cmd.Int("limit"))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		enc := json.NewEncoder(cmd.Root().Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(best)
	}
	return printResults(cmd.Root().Writer, best)
}

func layoutsAction(ctx context.Context, cmd *cli.Command) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	layouts, err := config.NewManager(settings.LayoutsDir)
	if err != nil {
		return err
	}
	infos, err := layouts.ListLayouts()
	if err != nil {
		return err
	}
	return printLayouts(cmd.Root().Writer, infos)
}

// printResults writes the ranked results as a table
func printResults(w io.Writer, best []*results.GameResult) error {
	if len(best) == 0 {
		_, err := fmt.Fprintln(w, "No finished games yet")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tWINNER\tSIDE\tMOVES\tDOGS\tFOX\tPLAYED")
	for i, r := range best {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
			i+1, r.Winner, r.WinningSide, r.NumberOfMoves, r.PlayerOne, r.PlayerTwo,
			r.TimeOfPlay.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

// printLayouts writes the layout list as a table
func printLayouts(w io.Writer, infos []*service.LayoutInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTO MOVE\tDESCRIPTION")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.LayoutID, info.Name, info.ToMove, info.Description)
	}
	return tw.Flush()
}

// loopbackURL is the base URL this process can reach its own server on
func loopbackURL(host string, port int) string {
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}

// newMainRouter mounts the REST API at root and the MCP endpoint at /mcp
func newMainRouter(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient))
	return mainRouter
}

// mcpHandler serves single JSON-RPC MCP messages over HTTP POST
func mcpHandler(mcpClient *mcp.Client) http.HandlerFunc {
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

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(responseData)
	}
}

// runHTTPServer serves the REST API, WebSocket hub and /mcp endpoint until
// the context is cancelled or a termination signal arrives.
func runHTTPServer(ctx context.Context, svcs *services) error {
	logger := svcs.logger
	settings := svcs.settings

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub(logger)
	apiServer := api.NewServer(svcs.game, hub, logger)

	addr := net.JoinHostPort(settings.Host, strconv.Itoa(settings.Port))
	mcpClient := mcp.NewClient(loopbackURL(settings.Host, settings.Port))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      newMainRouter(apiServer, mcpClient),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		sessionCleanupRoutine(gctx, svcs.sessions, logger)
		return nil
	})
	if svcs.persistence != nil {
		g.Go(func() error {
			filesystemSyncRoutine(gctx, svcs.sessions, svcs.persistence, logger)
			return nil
		})
	}
	g.Go(func() error {
		logger.Info("HTTP server listening",
			zap.String("addr", addr),
			zap.String("api", "http://"+addr+"/api"),
			zap.String("websocket", "ws://"+addr+"/ws?session=<session_id>"),
			zap.String("mcp", "http://"+addr+"/mcp"),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	err := g.Wait()

	if saveErr := svcs.sessions.SaveAllSessions(); saveErr != nil {
		logger.Warn("failed to save sessions on shutdown", zap.Error(saveErr))
	}
	logger.Info("server stopped")
	return err
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within the retention window.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, logger *zap.Logger) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
				logger.Info("cleaned up expired sessions", zap.Int("count", removed))
			}
		}
	}
}

// filesystemSyncRoutine drops sessions from memory once their files are
// deleted from the sessions directory.
func filesystemSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence, logger *zap.Logger) {
	ticker := time.NewTicker(filesystemSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pruneDeletedSessions(manager, persistence, logger)
		}
	}
}

// pruneDeletedSessions returns how many in-memory sessions had no file left
func pruneDeletedSessions(manager *session.Manager, persistence session.SessionPersistence, logger *zap.Logger) int {
	pruned := 0
	for _, s := range manager.List() {
		if persistence.Exists(s.ID) {
			continue
		}
		if err := manager.DeleteFromMemory(s.ID); err == nil {
			pruned++
			logger.Debug("pruned session from memory (file deleted)", zap.String("session", s.ID))
		}
	}
	if pruned > 0 {
		logger.Info("filesystem sync pruned orphaned sessions", zap.Int("count", pruned))
	}
	return pruned
}

// externalAPIAvailable reports whether an API server already answers at baseURL
func externalAPIAvailable(baseURL string) bool {
	testClient := &http.Client{Timeout: externalServerProbeWait}
	resp, err := testClient.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 500
}

// runStdioMCPWithInternalServer runs an MCP stdio server. It reuses an API
// already listening on the configured address; otherwise it starts an
// internal HTTP API on a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, svcs *services) error {
	logger := svcs.logger
	externalURL := loopbackURL(svcs.settings.Host, svcs.settings.Port)

	baseURL := externalURL
	if externalAPIAvailable(externalURL) {
		logger.Info("external API server found, using it for MCP", zap.String("url", externalURL))
	} else {
		logger.Info("no external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return errors.Wrap(err, "listen for internal API")
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		hub := websocket.NewHub(logger)
		go hub.Run(ctx)

		httpServer := &http.Server{Handler: api.NewServer(svcs.game, hub, logger)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("internal HTTP server error", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = httpServer.Shutdown(shutdownCtx)
			_ = svcs.sessions.SaveAllSessions()
		}()

		baseURL = "http://" + listener.Addr().String()
		logger.Info("internal HTTP server started", zap.String("url", baseURL))
	}

	mcpClient := mcp.NewClient(baseURL)
	logger.Info("MCP stdio server ready", zap.String("api", baseURL))

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return errors.Wrap(err, "MCP stdio server")
	}
	return nil
}
