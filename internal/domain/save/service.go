package save

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rpggio/eggsim/internal/clock"
	"github.com/rpggio/eggsim/internal/repository"
)

// Options configures optional service collaborators.
type Options struct {
	Slot   string
	Clock  clock.Clock
	Logger *slog.Logger
}

// Service persists and restores the engine state and player settings.
type Service struct {
	engine Engine
	repo   Repository
	codec  *Codec
	clk    clock.Clock
	logger *slog.Logger
	slot   string

	mu       sync.Mutex
	settings Settings
}

// NewService creates a save service for one slot.
func NewService(engine Engine, repo Repository, codec *Codec, opts Options) *Service {
	if opts.Slot == "" {
		opts.Slot = DefaultSlot
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		engine:   engine,
		repo:     repo,
		codec:    codec,
		clk:      opts.Clock,
		logger:   opts.Logger,
		slot:     opts.Slot,
		settings: DefaultSettings(),
	}
}

// Slot returns the slot this service reads and writes.
func (s *Service) Slot() string {
	return s.slot
}

// Load restores the stored game and credits offline progress. A missing save
// leaves the engine on a fresh game. A malformed save is reported and the
// engine is left untouched.
func (s *Service) Load(ctx context.Context) (LoadResult, error) {
	rec, err := s.repo.Get(ctx, s.slot)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info("no saved game, starting fresh", "slot", s.slot)
			return LoadResult{Fresh: true}, nil
		}
		return LoadResult{}, fmt.Errorf("%w: loading slot %s: %w", ErrStorage, s.slot, err)
	}

	now := s.clk.Now()
	snap, err := s.codec.Decode(rec.Payload, now)
	if err != nil {
		s.logger.Warn("stored save rejected", "slot", s.slot, "error", err)
		return LoadResult{}, err
	}

	s.engine.Restore(snap.State)
	s.mu.Lock()
	s.settings = snap.Settings
	s.mu.Unlock()

	away := now.Sub(snap.State.LastOnlineTime)
	credit, unlocks := s.engine.CatchUp(away)
	s.logger.Info("game loaded", "slot", s.slot, "version", snap.Version, "away", away, "offline_credit", credit)
	return LoadResult{
		SavedAt:       rec.SavedAt,
		Away:          away,
		OfflineCredit: credit,
		Unlocks:       unlocks,
	}, nil
}

// Save checkpoints the engine and writes the snapshot.
func (s *Service) Save(ctx context.Context) error {
	st := s.engine.Checkpoint()
	data, err := s.codec.Encode(Snapshot{State: st, Settings: s.Settings(), Version: Version})
	if err != nil {
		return err
	}
	rec := &Record{Slot: s.slot, Version: Version, Payload: data, SavedAt: st.LastSaveTime}
	if err := s.repo.Put(ctx, rec); err != nil {
		return fmt.Errorf("%w: saving slot %s: %w", ErrStorage, s.slot, err)
	}
	s.logger.Debug("game saved", "slot", s.slot, "bytes", len(data))
	return nil
}

// Export returns the current game in clipboard form.
func (s *Service) Export() (string, error) {
	return s.codec.EncodeExport(Snapshot{State: s.engine.Snapshot(), Settings: s.Settings(), Version: Version})
}

// Import replaces the current game with an exported one and persists it.
// Malformed input is rejected before anything changes.
func (s *Service) Import(ctx context.Context, data string) error {
	snap, err := s.codec.DecodeExport(data, s.clk.Now())
	if err != nil {
		return err
	}
	s.engine.Restore(snap.State)
	s.mu.Lock()
	s.settings = snap.Settings
	s.mu.Unlock()
	s.logger.Info("save imported", "slot", s.slot, "version", snap.Version)
	return s.Save(ctx)
}

// HasSave reports whether the slot holds a stored game.
func (s *Service) HasSave(ctx context.Context) (bool, error) {
	_, err := s.repo.Get(ctx, s.slot)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("%w: checking slot %s: %w", ErrStorage, s.slot, err)
}

// Reset deletes the stored game and restarts the engine. Settings are kept.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.repo.Delete(ctx, s.slot); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: deleting slot %s: %w", ErrStorage, s.slot, err)
	}
	s.engine.Reset()
	s.logger.Info("game reset", "slot", s.slot)
	return nil
}

// Settings returns the current player settings.
func (s *Service) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings replaces the settings after normalizing them and returns
// the stored value.
func (s *Service) UpdateSettings(settings Settings) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings.Normalize()
	return s.settings
}
