package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/eggsim/internal/catalog"
	"github.com/rpggio/eggsim/internal/domain/progression"
	"github.com/rpggio/eggsim/internal/domain/save"
	"github.com/rpggio/eggsim/internal/repository"
)

// GameService defines the engine operations needed by MCP.
type GameService interface {
	Catalog() *catalog.Catalog
	HandleClick() progression.ClickResult
	PurchaseUpgrade(id catalog.UpgradeID) (progression.Unlocks, error)
	PurchaseProducer(id catalog.ProducerID) (progression.Unlocks, error)
	SelectTier(id catalog.TierID) error
	Prestige() (progression.PrestigeResult, error)
	Stats() progression.Stats
}

// SaveService defines persistence operations needed by MCP.
type SaveService interface {
	Slot() string
	Save(ctx context.Context) error
	Export() (string, error)
	Import(ctx context.Context, data string) error
	Reset(ctx context.Context) error
	Settings() save.Settings
	UpdateSettings(settings save.Settings) save.Settings
}

// HistoryService lists saves replaced by later ones. Only some backends keep history.
type HistoryService interface {
	History(ctx context.Context, slot string, opts repository.HistoryOptions) ([]save.Record, error)
}

// Config contains server configuration. History is optional.
type Config struct {
	Game    GameService
	Saves   SaveService
	History HistoryService
	Version string
	Logger  *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "eggsim",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server, cfg.Game.Catalog())

	server.AddReceivingMiddleware(sessionMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, NewHandler(cfg.Game, cfg.Saves, cfg.History, cfg.Logger))

	return server
}
