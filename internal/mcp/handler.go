package mcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/eggsim/internal/catalog"
	"github.com/rpggio/eggsim/internal/format"
	"github.com/rpggio/eggsim/internal/repository"
)

const (
	maxClicksPerCall = 100
	maxHistoryLimit  = 100
)

// Handler implements the tool operations on top of the game and save services.
type Handler struct {
	game    GameService
	saves   SaveService
	history HistoryService
	logger  *slog.Logger
}

// NewHandler creates a new MCP handler.
func NewHandler(game GameService, saves SaveService, history HistoryService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{game: game, saves: saves, history: history, logger: logger}
}

func (h *Handler) GetState(ctx context.Context, _ EmptyParams) (StateResult, error) {
	return toStateResult(h.game.Stats(), h.saves.Settings().NumberFormat), nil
}

func (h *Handler) GetCatalog(ctx context.Context, _ EmptyParams) (CatalogResult, error) {
	return toCatalogResult(h.game.Catalog(), h.game.Stats()), nil
}

func (h *Handler) Click(ctx context.Context, p ClickParams) (ClickResult, error) {
	count := p.Count
	if count == 0 {
		count = 1
	}
	if count < 0 || count > maxClicksPerCall {
		return ClickResult{}, fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidParams, maxClicksPerCall)
	}

	out := ClickResult{Clicks: make([]ClickOutcome, 0, count)}
	for range count {
		res := h.game.HandleClick()
		out.Clicks = append(out.Clicks, ClickOutcome{
			Amount:     res.Amount,
			IsCritical: res.IsCritical,
			IsGolden:   res.IsGolden,
		})
		out.TotalAmount += res.Amount
		mergeUnlocks(&out.Unlocks, res.Unlocks)
	}
	return out, nil
}

func (h *Handler) PurchaseUpgrade(ctx context.Context, p PurchaseUpgradeParams) (PurchaseResult, error) {
	unlocks, err := h.game.PurchaseUpgrade(catalog.UpgradeID(p.ID))
	if err != nil {
		return PurchaseResult{}, err
	}
	h.logger.Info("upgrade purchased", "upgrade", p.ID, "session_id", getSessionID(ctx))
	return PurchaseResult{
		ID:              p.ID,
		CurrentResource: h.game.Stats().State.CurrentResource,
		Unlocks:         toUnlocksResult(unlocks),
	}, nil
}

func (h *Handler) PurchaseProducer(ctx context.Context, p PurchaseProducerParams) (PurchaseResult, error) {
	unlocks, err := h.game.PurchaseProducer(catalog.ProducerID(p.ID))
	if err != nil {
		return PurchaseResult{}, err
	}
	h.logger.Info("producer purchased", "producer", p.ID, "session_id", getSessionID(ctx))
	return PurchaseResult{
		ID:              p.ID,
		CurrentResource: h.game.Stats().State.CurrentResource,
		Unlocks:         toUnlocksResult(unlocks),
	}, nil
}

func (h *Handler) SelectTier(ctx context.Context, p SelectTierParams) (SelectTierResult, error) {
	if err := h.game.SelectTier(catalog.TierID(p.ID)); err != nil {
		return SelectTierResult{}, err
	}
	return SelectTierResult{CurrentTier: string(h.game.Stats().State.CurrentTier)}, nil
}

func (h *Handler) Prestige(ctx context.Context, _ EmptyParams) (PrestigeResult, error) {
	res, err := h.game.Prestige()
	if err != nil {
		return PrestigeResult{}, err
	}
	h.logger.Info("prestige performed", "reward", res.Reward, "count", res.PrestigeCount, "session_id", getSessionID(ctx))
	return PrestigeResult{
		Reward:        res.Reward,
		NewMultiplier: res.NewMultiplier,
		PrestigeCount: res.PrestigeCount,
		Unlocks:       toUnlocksResult(res.Unlocks),
	}, nil
}

func (h *Handler) SaveGame(ctx context.Context, _ EmptyParams) (SaveResult, error) {
	if err := h.saves.Save(ctx); err != nil {
		return SaveResult{}, err
	}
	return SaveResult{Saved: true}, nil
}

func (h *Handler) ExportSave(ctx context.Context, _ EmptyParams) (ExportResult, error) {
	data, err := h.saves.Export()
	if err != nil {
		return ExportResult{}, err
	}
	return ExportResult{Data: data}, nil
}

func (h *Handler) ImportSave(ctx context.Context, p ImportSaveParams) (StateResult, error) {
	if p.Data == "" {
		return StateResult{}, fmt.Errorf("%w: data is required", ErrInvalidParams)
	}
	if err := h.saves.Import(ctx, p.Data); err != nil {
		return StateResult{}, err
	}
	h.logger.Info("save imported", "session_id", getSessionID(ctx))
	return h.GetState(ctx, EmptyParams{})
}

func (h *Handler) ResetGame(ctx context.Context, _ EmptyParams) (ResetResult, error) {
	if err := h.saves.Reset(ctx); err != nil {
		return ResetResult{}, err
	}
	h.logger.Info("game reset", "session_id", getSessionID(ctx))
	return ResetResult{Reset: true}, nil
}

func (h *Handler) UpdateSettings(ctx context.Context, p UpdateSettingsParams) (SettingsResult, error) {
	if p.NumberFormat != nil && !format.Style(*p.NumberFormat).Valid() {
		return SettingsResult{}, fmt.Errorf("%w: unknown number format %q", ErrInvalidParams, *p.NumberFormat)
	}
	updated := h.saves.UpdateSettings(p.apply(h.saves.Settings()))
	return toSettingsResult(updated), nil
}

func (h *Handler) ListSaveHistory(ctx context.Context, p ListSaveHistoryParams) (HistoryResult, error) {
	if h.history == nil {
		return HistoryResult{}, fmt.Errorf("%w: save history is not kept by this backend", ErrInvalidParams)
	}
	if p.Limit < 0 || p.Limit > maxHistoryLimit {
		return HistoryResult{}, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidParams, maxHistoryLimit)
	}
	opts := repository.HistoryOptions{Limit: p.Limit}
	if p.Before != "" {
		before, err := time.Parse(time.RFC3339, p.Before)
		if err != nil {
			return HistoryResult{}, fmt.Errorf("%w: before: %v", ErrInvalidParams, err)
		}
		opts.Before = before
	}

	records, err := h.history.History(ctx, h.saves.Slot(), opts)
	if err != nil {
		return HistoryResult{}, err
	}
	out := HistoryResult{Entries: make([]HistoryEntry, 0, len(records))}
	for _, rec := range records {
		out.Entries = append(out.Entries, HistoryEntry{
			Version:   rec.Version,
			SavedAt:   rec.SavedAt.Format(time.RFC3339),
			SizeBytes: len(rec.Payload),
			Data:      base64.StdEncoding.EncodeToString(rec.Payload),
		})
	}
	return out, nil
}
