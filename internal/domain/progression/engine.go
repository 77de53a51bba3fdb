// Package progression is the single-writer state machine of the game. Every
// transition holds the engine lock for its whole duration, so clicks, ticks,
// purchases and saves never interleave.
package progression

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rpggio/eggsim/internal/catalog"
	"github.com/rpggio/eggsim/internal/clock"
	"github.com/rpggio/eggsim/internal/domain/economy"
	"github.com/rpggio/eggsim/internal/domain/player"
)

// maxPendingEvents bounds the outbox; the oldest events are dropped first.
const maxPendingEvents = 1024

// Options configures optional engine collaborators.
type Options struct {
	Clock    clock.Clock
	Roller   Roller
	Recorder Recorder
	Logger   *slog.Logger
}

// Engine owns the player state and applies every game transition.
type Engine struct {
	mu sync.Mutex

	cat  *catalog.Catalog
	econ *economy.Calculator
	clk  clock.Clock
	rng  Roller
	rec  Recorder

	logger *slog.Logger

	st     player.State
	rt     player.RuntimeCounters
	outbox []Event
}

// NewEngine creates an engine holding a fresh default state.
func NewEngine(cat *catalog.Catalog, opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Roller == nil {
		opts.Roller = randRoller{}
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	now := opts.Clock.Now()
	return &Engine{
		cat:    cat,
		econ:   economy.New(cat),
		clk:    opts.Clock,
		rng:    opts.Roller,
		rec:    opts.Recorder,
		logger: opts.Logger,
		st:     player.New(cat.DefaultTier().ID, now),
		rt:     player.RuntimeCounters{SessionStart: now},
	}
}

// Catalog returns the catalog the engine was built with.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// Calculator returns the economy calculator bound to the engine catalog.
func (e *Engine) Calculator() *economy.Calculator {
	return e.econ
}

// HandleClick resolves one click: crit is rolled first and golden only when
// the crit misses.
func (e *Engine) HandleClick() ClickResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clk.Now()
	if now.Sub(e.rt.LastClickAt) > time.Second {
		e.rt.ClicksThisSecond = 0
	}
	e.rt.ClicksThisSecond++
	e.rt.LastClickAt = now

	bal := e.cat.Balance()
	res := ClickResult{Amount: e.econ.ClickValue(&e.st)}
	if chance(e.rng, e.econ.CritChance(&e.st)) {
		res.Amount *= bal.CritMultiplier
		res.IsCritical = true
	} else if chance(e.rng, e.econ.GoldenClickChance(&e.st)) {
		res.Amount *= bal.GoldenMultiplier
		res.IsGolden = true
	}

	e.addResource(res.Amount)
	e.st.TotalClicks++
	res.Unlocks = e.settle(now)
	e.emit(now, EventClickResolved, res)
	return res
}

// PurchaseUpgrade buys the next level of an upgrade.
func (e *Engine) PurchaseUpgrade(id catalog.UpgradeID) (Unlocks, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	up, err := e.cat.Upgrade(id)
	if err != nil {
		return Unlocks{}, e.reject("purchase_upgrade", fmt.Errorf("%w: %s", ErrUnknownUpgrade, id))
	}
	level := e.st.UpgradeLevel(id)
	if level >= up.MaxLevel {
		return Unlocks{}, e.reject("purchase_upgrade", fmt.Errorf("%w: %s", ErrMaxLevel, id))
	}
	cost := e.econ.UpgradeCost(&e.st, id)
	if cost > e.st.CurrentResource {
		return Unlocks{}, e.reject("purchase_upgrade", fmt.Errorf("%w: %s costs %.0f", ErrInsufficientResource, id, cost))
	}

	now := e.clk.Now()
	e.st.CurrentResource -= cost
	e.st.UpgradeLevels[id] = level + 1
	e.emit(now, EventUpgradePurchased, UpgradePurchasedData{Upgrade: id, Level: level + 1, Cost: cost})
	return e.settle(now), nil
}

// PurchaseProducer buys one more unit of a producer.
func (e *Engine) PurchaseProducer(id catalog.ProducerID) (Unlocks, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.cat.Producer(id); err != nil {
		return Unlocks{}, e.reject("purchase_producer", fmt.Errorf("%w: %s", ErrUnknownProducer, id))
	}
	cost := e.econ.ProducerCost(&e.st, id)
	if cost > e.st.CurrentResource {
		return Unlocks{}, e.reject("purchase_producer", fmt.Errorf("%w: %s costs %.0f", ErrInsufficientResource, id, cost))
	}

	now := e.clk.Now()
	count := e.st.ProducerCount(id) + 1
	e.st.CurrentResource -= cost
	e.st.ProducerCounts[id] = count
	e.emit(now, EventProducerPurchased, ProducerPurchasedData{Producer: id, Count: count, Cost: cost})
	return e.settle(now), nil
}

// SelectTier switches the active tier to an unlocked one.
func (e *Engine) SelectTier(id catalog.TierID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.st.HasTier(id) {
		return e.reject("select_tier", fmt.Errorf("%w: %s", ErrTierLocked, id))
	}
	now := e.clk.Now()
	e.st.CurrentTier = id
	e.emit(now, EventTierSelected, TierSelectedData{Tier: id})
	e.settle(now)
	return nil
}

// Prestige converts lifetime earnings into prestige currency and resets the
// run. It is rejected while the reward would be zero.
func (e *Engine) Prestige() (PrestigeResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	reward := e.econ.PrestigeReward(&e.st)
	if reward <= 0 {
		return PrestigeResult{}, e.reject("prestige", ErrPrestigeUnavailable)
	}

	now := e.clk.Now()
	e.st.PrestigeCurrency += reward
	e.st.PrestigeCount++
	e.st = e.st.ResetForPrestige(e.cat.DefaultTier().ID, now)

	res := PrestigeResult{
		Reward:        reward,
		NewMultiplier: e.econ.PrestigeMultiplier(&e.st),
		PrestigeCount: e.st.PrestigeCount,
	}
	e.emit(now, EventPrestigePerformed, PrestigePerformedData{Reward: res.Reward, NewMultiplier: res.NewMultiplier})
	res.Unlocks = e.settle(now)
	e.logger.Info("prestige performed", "reward", reward, "count", res.PrestigeCount, "multiplier", res.NewMultiplier)
	return res, nil
}

// Tick credits passive production for dt seconds of simulated time.
func (e *Engine) Tick(dt float64) Unlocks {
	e.mu.Lock()
	defer e.mu.Unlock()

	if dt > 0 {
		e.addResource(e.econ.ProductionRate(&e.st) * dt)
	}
	return e.settle(e.clk.Now())
}

// AddResource credits amount to both the spendable and lifetime totals.
func (e *Engine) AddResource(amount float64) Unlocks {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.addResource(amount)
	return e.settle(e.clk.Now())
}

// CatchUp credits offline production for the time spent away.
func (e *Engine) CatchUp(elapsed time.Duration) (float64, Unlocks) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clk.Now()
	credit := e.econ.OfflineCredit(&e.st, elapsed)
	if credit > 0 {
		e.addResource(credit)
		e.emit(now, EventWelcomeBack, WelcomeBackData{Credited: credit, Away: elapsed})
		e.logger.Info("offline progress credited", "amount", credit, "away", elapsed)
	}
	return credit, e.settle(now)
}

// CheckTierUnlocks unlocks every tier whose threshold has been reached.
func (e *Engine) CheckTierUnlocks() []catalog.Tier {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.checkTierUnlocks(e.clk.Now())
}

// CheckAchievements unlocks every achievement whose condition holds.
func (e *Engine) CheckAchievements() []catalog.Achievement {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.checkAchievements(e.clk.Now())
}

// Checkpoint folds the running session into the play time total, stamps the
// save and online times and returns a copy of the state to persist.
func (e *Engine) Checkpoint() player.State {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clk.Now()
	if session := now.Sub(e.rt.SessionStart); session > 0 {
		e.st.TotalPlayTimeSeconds += session.Seconds()
	}
	e.rt.SessionStart = now
	e.st.LastSaveTime = now
	e.st.LastOnlineTime = now
	return e.st.Clone()
}

// Restore replaces the state with st and starts a new session.
func (e *Engine) Restore(st player.State) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.st = st.Clone()
	if e.st.UpgradeLevels == nil {
		e.st.UpgradeLevels = make(map[catalog.UpgradeID]int)
	}
	if e.st.ProducerCounts == nil {
		e.st.ProducerCounts = make(map[catalog.ProducerID]int64)
	}
	e.rt = player.RuntimeCounters{SessionStart: e.clk.Now()}
}

// Reset discards all progress.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clk.Now()
	e.st = player.New(e.cat.DefaultTier().ID, now)
	e.rt = player.RuntimeCounters{SessionStart: now}
	e.outbox = nil
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() player.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.Clone()
}

// Runtime returns the session counters.
func (e *Engine) Runtime() player.RuntimeCounters {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rt
}

// Stats returns the derived numbers shown to the player.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.st.Clone()
	out := Stats{
		State:              st,
		ClickValue:         e.econ.ClickValue(&st),
		ProductionRate:     e.econ.ProductionRate(&st),
		PrestigeMultiplier: e.econ.PrestigeMultiplier(&st),
		GoldenClickChance:  e.econ.GoldenClickChance(&st),
		CritChance:         e.econ.CritChance(&st),
		PrestigeReward:     e.econ.PrestigeReward(&st),
		UpgradeCosts:       make(map[catalog.UpgradeID]float64),
		ProducerCosts:      make(map[catalog.ProducerID]float64),
		AchievementsTotal:  len(e.cat.Achievements()),
	}
	for _, up := range e.cat.Upgrades() {
		out.UpgradeCosts[up.ID] = e.econ.UpgradeCost(&st, up.ID)
	}
	for _, p := range e.cat.Producers() {
		out.ProducerCosts[p.ID] = e.econ.ProducerCost(&st, p.ID)
	}
	if tier, remaining, ok := e.econ.NextTier(&st); ok {
		out.NextTier = &tier
		out.NextTierRemaining = remaining
	}
	return out
}

// DrainEvents returns and clears the pending events in emission order.
func (e *Engine) DrainEvents() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := e.outbox
	e.outbox = nil
	return out
}

func (e *Engine) addResource(amount float64) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return
	}
	e.st.CurrentResource += amount
	e.st.TotalResourceEarned += amount
}

// settle runs after every accepted transition: tiers first, so that tier
// achievements see this transition's unlocks.
func (e *Engine) settle(now time.Time) Unlocks {
	return Unlocks{
		Tiers:        e.checkTierUnlocks(now),
		Achievements: e.checkAchievements(now),
	}
}

func (e *Engine) checkTierUnlocks(now time.Time) []catalog.Tier {
	var unlocked []catalog.Tier
	for _, t := range e.cat.Tiers() {
		if e.st.HasTier(t.ID) || e.st.TotalResourceEarned < t.UnlockThreshold {
			continue
		}
		e.st.UnlockedTiers = append(e.st.UnlockedTiers, t.ID)
		unlocked = append(unlocked, t)
		e.emit(now, EventTierUnlocked, TierUnlockedData{Tier: t})
		e.logger.Info("tier unlocked", "tier", t.ID)
	}
	return unlocked
}

func (e *Engine) checkAchievements(now time.Time) []catalog.Achievement {
	var unlocked []catalog.Achievement
	for _, a := range e.cat.Achievements() {
		if e.st.HasAchievement(a.ID) || !e.satisfied(a.Condition, now) {
			continue
		}
		e.st.UnlockedAchievements = append(e.st.UnlockedAchievements, a.ID)
		unlocked = append(unlocked, a)
		e.emit(now, EventAchievementUnlocked, AchievementUnlockedData{Achievement: a})
		e.logger.Info("achievement unlocked", "achievement", a.ID)
	}
	return unlocked
}

func (e *Engine) satisfied(c catalog.Condition, now time.Time) bool {
	switch c.Kind {
	case catalog.ConditionTotalEarned:
		return e.st.TotalResourceEarned >= c.Threshold
	case catalog.ConditionTotalClicks:
		return float64(e.st.TotalClicks) >= c.Threshold
	case catalog.ConditionProducerOwned:
		return float64(e.st.ProducerCount(c.Producer)) >= c.Threshold
	case catalog.ConditionTotalUpgradeLevels:
		return float64(e.st.TotalUpgradeLevels()) >= c.Threshold
	case catalog.ConditionAnyUpgradeMaxed:
		for _, up := range e.cat.Upgrades() {
			if e.st.UpgradeLevel(up.ID) >= up.MaxLevel {
				return true
			}
		}
		return false
	case catalog.ConditionPrestigeCount:
		return float64(e.st.PrestigeCount) >= c.Threshold
	case catalog.ConditionPrestigeCurrency:
		return e.st.PrestigeCurrency >= c.Threshold
	case catalog.ConditionTierUnlocked:
		return e.st.HasTier(c.Tier)
	case catalog.ConditionClicksPerSecond:
		return float64(e.rt.ClicksThisSecond) >= c.Threshold
	case catalog.ConditionPlayTime:
		played := e.st.TotalPlayTimeSeconds
		if session := now.Sub(e.rt.SessionStart); session > 0 {
			played += session.Seconds()
		}
		return played >= c.Threshold
	}
	return false
}

func (e *Engine) emit(now time.Time, typ EventType, data any) {
	if len(e.outbox) >= maxPendingEvents {
		e.outbox = e.outbox[1:]
	}
	e.outbox = append(e.outbox, Event{ID: uuid.NewString(), At: now, Type: typ, Data: data})
}

func (e *Engine) reject(op string, err error) error {
	e.rec.TransitionRejected(op, err)
	e.logger.Debug("transition rejected", "op", op, "error", err)
	return err
}
