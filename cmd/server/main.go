package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/eggsim/internal/catalog"
	"github.com/rpggio/eggsim/internal/clock"
	"github.com/rpggio/eggsim/internal/config"
	"github.com/rpggio/eggsim/internal/domain/progression"
	"github.com/rpggio/eggsim/internal/domain/save"
	"github.com/rpggio/eggsim/internal/host"
	"github.com/rpggio/eggsim/internal/mcp"
	"github.com/rpggio/eggsim/internal/metrics"
)

const version = "0.1.0"

func main() {
	// Local development only; deployed environments inject variables directly.
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	if envErr != nil {
		logger.Debug("no .env file loaded", "error", envErr)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(cfg.Game.CatalogPath)
	if err != nil {
		return err
	}

	repo, closeRepo, err := openRepository(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	reg := metrics.New()
	engine := progression.NewEngine(cat, progression.Options{
		Clock:    clock.RealClock{},
		Recorder: reg,
		Logger:   logger,
	})
	saves := save.NewService(engine, repo, save.NewCodec(cat), save.Options{
		Slot:   cfg.Storage.Slot,
		Logger: logger,
	})

	res, err := saves.Load(ctx)
	switch {
	case errors.Is(err, save.ErrMalformedSave):
		logger.Error("stored save is unreadable, starting fresh", "slot", cfg.Storage.Slot, "error", err)
	case err != nil:
		return err
	case res.Fresh:
		logger.Info("no save found, starting fresh", "slot", cfg.Storage.Slot)
	default:
		logger.Info("save loaded", "slot", cfg.Storage.Slot, "saved_at", res.SavedAt, "away", res.Away, "offline_credit", res.OfflineCredit)
	}

	loopCfg := host.DefaultConfig()
	loopCfg.TickRate = cfg.Game.TickRate
	loopCfg.MaxFrameDelta = cfg.Game.MaxFrameDelta
	loopCfg.AutosaveInterval = cat.Balance().AutosaveInterval
	if cfg.Game.AutosaveInterval > 0 {
		loopCfg.AutosaveInterval = cfg.Game.AutosaveInterval
	}
	loop := host.New(engine, saves, loopCfg, host.Options{Observer: reg, Logger: logger})

	loopCtx, stopLoop := context.WithCancel(ctx)
	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(loopCtx) }()

	mcpCfg := mcp.Config{
		Game:    engine,
		Saves:   saves,
		Version: version,
		Logger:  logger,
	}
	if history, ok := repo.(mcp.HistoryService); ok {
		mcpCfg.History = history
	}
	mcpServer := mcp.NewServer(mcpCfg)

	var serveErr error
	if cfg.Transport.Mode == "stdio" {
		serveErr = runStdioMode(ctx, logger, mcpServer, cfg, reg)
	} else {
		serveErr = runHTTPMode(ctx, logger, mcpServer, cfg, reg)
	}

	stopLoop()
	if err := <-loopDone; err != nil {
		logger.Error("final save failed", "error", err)
	} else {
		logger.Info("final save written", "slot", cfg.Storage.Slot)
	}
	return serveErr
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return cat, nil
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server, cfg config.Config, reg *metrics.Metrics) error {
	logger.Info("starting stdio transport")

	// Stdio leaves the network free, so metrics get their own listener.
	if cfg.Metrics.Enabled {
		router := http.NewServeMux()
		mountOps(router, cfg, reg)
		httpServer := newHTTPServer(cfg, router)
		go serveHTTP(logger, httpServer)
		defer shutdownHTTP(logger, httpServer)
	}

	// Run blocks until stdin closes or the context is canceled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server, cfg config.Config, reg *metrics.Metrics) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	mountOps(router, cfg, reg)

	httpServer := newHTTPServer(cfg, router)
	go serveHTTP(logger, httpServer)

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownHTTP(logger, httpServer)
	return nil
}

func mountOps(router *http.ServeMux, cfg config.Config, reg *metrics.Metrics) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, reg.Handler())
	}
}

func newHTTPServer(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func serveHTTP(logger *slog.Logger, server *http.Server) {
	logger.Info("server listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
	}
}

func shutdownHTTP(logger *slog.Logger, server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
