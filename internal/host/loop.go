// Package host drives the engine in real time: it advances simulation time
// in fixed steps, forwards engine events and autosaves.
package host

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/rpggio/eggsim/internal/clock"
	"github.com/rpggio/eggsim/internal/domain/progression"
	"github.com/rpggio/eggsim/internal/domain/save"
)

// Engine is the part of the progression engine the loop drives.
type Engine interface {
	Tick(dt float64) progression.Unlocks
	DrainEvents() []progression.Event
	Stats() progression.Stats
}

// Saver persists the game.
type Saver interface {
	Save(ctx context.Context) error
}

// Observer receives loop activity, typically a metrics sink.
type Observer interface {
	Observe(ev progression.Event)
	SaveCompleted(err error)
	SetProgress(resource, rate float64)
}

// Config holds the loop timing.
type Config struct {
	TickRate         time.Duration
	MaxFrameDelta    time.Duration
	AutosaveInterval time.Duration
	SaveRetries      uint64
}

// DefaultConfig returns a 60 Hz loop clamping frames to 100ms and saving
// every 30 seconds.
func DefaultConfig() Config {
	return Config{
		TickRate:         time.Second / 60,
		MaxFrameDelta:    100 * time.Millisecond,
		AutosaveInterval: 30 * time.Second,
		SaveRetries:      3,
	}
}

// Options configures optional loop collaborators.
type Options struct {
	Clock      clock.Clock
	Observer   Observer
	Logger     *slog.Logger
	NewBackOff func() backoff.BackOff
}

const progressInterval = time.Second

// Loop is the fixed-timestep driver.
type Loop struct {
	engine Engine
	saver  Saver
	cfg    Config
	clk    clock.Clock
	obs    Observer
	logger *slog.Logger
	newBO  func() backoff.BackOff

	accumulator   time.Duration
	sinceSave     time.Duration
	sinceProgress time.Duration

	saving atomic.Bool
	wg     sync.WaitGroup
}

// New creates a loop. Zero config values fall back to DefaultConfig.
func New(engine Engine, saver Saver, cfg Config, opts Options) *Loop {
	def := DefaultConfig()
	if cfg.TickRate <= 0 {
		cfg.TickRate = def.TickRate
	}
	if cfg.MaxFrameDelta <= 0 {
		cfg.MaxFrameDelta = def.MaxFrameDelta
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.NewBackOff == nil {
		opts.NewBackOff = func() backoff.BackOff { return backoff.NewExponentialBackOff() }
	}
	return &Loop{
		engine: engine,
		saver:  saver,
		cfg:    cfg,
		clk:    opts.Clock,
		obs:    opts.Observer,
		logger: opts.Logger,
		newBO:  opts.NewBackOff,
	}
}

// Step advances the loop by one frame and returns the number of fixed ticks
// it ran. Frames longer than MaxFrameDelta are clamped. Step is not safe for
// concurrent use.
func (l *Loop) Step(ctx context.Context, frameDelta time.Duration) int {
	frameDelta = max(0, min(frameDelta, l.cfg.MaxFrameDelta))

	l.accumulator += frameDelta
	ticks := 0
	for l.accumulator >= l.cfg.TickRate {
		l.engine.Tick(l.cfg.TickRate.Seconds())
		l.accumulator -= l.cfg.TickRate
		ticks++
	}
	l.dispatch()

	l.sinceProgress += frameDelta
	if l.sinceProgress >= progressInterval {
		l.sinceProgress = 0
		stats := l.engine.Stats()
		l.obs.SetProgress(stats.State.CurrentResource, stats.ProductionRate)
	}

	l.sinceSave += frameDelta
	if l.cfg.AutosaveInterval > 0 && l.sinceSave >= l.cfg.AutosaveInterval {
		l.sinceSave = 0
		l.autosave(ctx)
	}
	return ticks
}

// Run steps the loop on a ticker until ctx is cancelled, then waits for any
// autosave in flight and saves once more.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.cfg.TickRate)
	defer ticker.Stop()

	l.logger.Info("game loop started", "tick_rate", l.cfg.TickRate, "autosave", l.cfg.AutosaveInterval)
	last := l.clk.Now()
	for {
		select {
		case <-ctx.Done():
			l.wg.Wait()
			l.dispatch()
			err := l.SaveNow(context.WithoutCancel(ctx))
			l.logger.Info("game loop stopped")
			return err
		case <-ticker.C:
			now := l.clk.Now()
			l.Step(ctx, now.Sub(last))
			last = now
		}
	}
}

// SaveNow saves synchronously, retrying storage failures.
func (l *Loop) SaveNow(ctx context.Context) error {
	op := func() error {
		err := l.saver.Save(ctx)
		if err != nil && !errors.Is(err, save.ErrStorage) {
			return backoff.Permanent(err)
		}
		return err
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(l.newBO(), l.cfg.SaveRetries), ctx)
	err := backoff.Retry(op, bo)
	l.obs.SaveCompleted(err)
	if err != nil {
		l.logger.Warn("save failed", "error", err)
	}
	return err
}

// Wait blocks until in-flight autosaves finish.
func (l *Loop) Wait() {
	l.wg.Wait()
}

func (l *Loop) autosave(ctx context.Context) {
	if !l.saving.CompareAndSwap(false, true) {
		l.logger.Debug("autosave skipped, previous save still running")
		return
	}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer l.saving.Store(false)
		_ = l.SaveNow(ctx)
	}()
}

func (l *Loop) dispatch() {
	for _, ev := range l.engine.DrainEvents() {
		l.obs.Observe(ev)
		l.logger.Debug("engine event", "type", ev.Type, "id", ev.ID)
	}
}

type nopObserver struct{}

func (nopObserver) Observe(progression.Event)    {}
func (nopObserver) SaveCompleted(error)          {}
func (nopObserver) SetProgress(float64, float64) {}
