package catalog

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog is the immutable reference data of the game. It is safe for
// concurrent use; every accessor returns copies.
type Catalog struct {
	tiers        []Tier
	upgrades     []Upgrade
	producers    []Producer
	achievements []Achievement
	prestige     PrestigeConfig
	balance      BalanceConfig

	tierIdx        map[TierID]int
	upgradeIdx     map[UpgradeID]int
	producerIdx    map[ProducerID]int
	achievementIdx map[AchievementID]int
}

var builtin = mustNew(defaultDefinition())

// Default returns the built-in catalog.
func Default() *Catalog {
	return builtin
}

// DefaultDefinition returns a copy of the built-in definition.
func DefaultDefinition() Definition {
	return defaultDefinition()
}

// New validates def and builds a catalog from a private copy of it.
func New(def Definition) (*Catalog, error) {
	c := &Catalog{
		tiers:          append([]Tier(nil), def.Tiers...),
		upgrades:       append([]Upgrade(nil), def.Upgrades...),
		producers:      append([]Producer(nil), def.Producers...),
		achievements:   append([]Achievement(nil), def.Achievements...),
		prestige:       def.Prestige,
		balance:        def.Balance,
		tierIdx:        make(map[TierID]int, len(def.Tiers)),
		upgradeIdx:     make(map[UpgradeID]int, len(def.Upgrades)),
		producerIdx:    make(map[ProducerID]int, len(def.Producers)),
		achievementIdx: make(map[AchievementID]int, len(def.Achievements)),
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads a YAML definition from path over the built-in one and builds a
// catalog from it. Sections the file omits keep their built-in values; a list
// the file supplies replaces the built-in list.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	def := defaultDefinition()
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	return New(def)
}

func mustNew(def Definition) *Catalog {
	c, err := New(def)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) index() error {
	for i, t := range c.tiers {
		if _, dup := c.tierIdx[t.ID]; dup || t.ID == "" {
			return invalid("tier id %q is empty or duplicated", t.ID)
		}
		c.tierIdx[t.ID] = i
	}
	for i, u := range c.upgrades {
		if _, dup := c.upgradeIdx[u.ID]; dup || u.ID == "" {
			return invalid("upgrade id %q is empty or duplicated", u.ID)
		}
		c.upgradeIdx[u.ID] = i
	}
	for i, p := range c.producers {
		if _, dup := c.producerIdx[p.ID]; dup || p.ID == "" {
			return invalid("producer id %q is empty or duplicated", p.ID)
		}
		c.producerIdx[p.ID] = i
	}
	for i, a := range c.achievements {
		if _, dup := c.achievementIdx[a.ID]; dup || a.ID == "" {
			return invalid("achievement id %q is empty or duplicated", a.ID)
		}
		c.achievementIdx[a.ID] = i
	}
	return nil
}

func (c *Catalog) validate() error {
	if len(c.tiers) == 0 {
		return invalid("at least one tier is required")
	}
	for i, t := range c.tiers {
		if t.Multiplier < 1 {
			return invalid("tier %q multiplier %v is below 1", t.ID, t.Multiplier)
		}
		if i > 0 && t.UnlockThreshold <= c.tiers[i-1].UnlockThreshold {
			return invalid("tier %q threshold %v does not increase", t.ID, t.UnlockThreshold)
		}
	}
	for _, u := range c.upgrades {
		if !u.Effect.Valid() {
			return invalid("upgrade %q has unknown effect %q", u.ID, u.Effect)
		}
		if u.BaseCost < 0 || u.CostGrowth <= 1 {
			return invalid("upgrade %q cost curve is invalid", u.ID)
		}
		if u.MaxLevel < 1 {
			return invalid("upgrade %q max level must be at least 1", u.ID)
		}
	}
	for _, p := range c.producers {
		if p.BaseCost < 0 || p.CostGrowth <= 1 || p.BaseRate < 0 {
			return invalid("producer %q cost curve or rate is invalid", p.ID)
		}
	}
	for _, a := range c.achievements {
		cond := a.Condition
		if !cond.Kind.Valid() {
			return invalid("achievement %q has unknown condition %q", a.ID, cond.Kind)
		}
		switch cond.Kind {
		case ConditionProducerOwned:
			if _, ok := c.producerIdx[cond.Producer]; !ok {
				return invalid("achievement %q references unknown producer %q", a.ID, cond.Producer)
			}
		case ConditionTierUnlocked:
			if _, ok := c.tierIdx[cond.Tier]; !ok {
				return invalid("achievement %q references unknown tier %q", a.ID, cond.Tier)
			}
		}
	}
	p := c.prestige
	if p.BaseRequirement <= 0 || p.ScalingExponent <= 0 || p.BonusPerUnit < 0 {
		return invalid("prestige config is invalid")
	}
	b := c.balance
	for _, v := range []float64{b.BaseClickValue, b.CritMultiplier, b.GoldenMultiplier, b.ChanceCap, b.OfflineEarningsRate} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return invalid("balance values must be finite and non-negative")
		}
	}
	if b.ChanceCap > 0.5 {
		return invalid("chance cap %v exceeds 0.5", b.ChanceCap)
	}
	if b.MinOfflineDuration < 0 || b.MaxOfflineDuration < 0 || b.AutosaveInterval < 0 {
		return invalid("balance durations must be non-negative")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDefinition, fmt.Sprintf(format, args...))
}

// Tiers returns tiers in unlock order.
func (c *Catalog) Tiers() []Tier {
	return append([]Tier(nil), c.tiers...)
}

// DefaultTier is the first tier, unlocked for every player.
func (c *Catalog) DefaultTier() Tier {
	return c.tiers[0]
}

// Tier looks up a tier by id.
func (c *Catalog) Tier(id TierID) (Tier, error) {
	i, ok := c.tierIdx[id]
	if !ok {
		return Tier{}, fmt.Errorf("tier %q: %w", id, ErrNotFound)
	}
	return c.tiers[i], nil
}

// Upgrades returns upgrades in catalog order.
func (c *Catalog) Upgrades() []Upgrade {
	return append([]Upgrade(nil), c.upgrades...)
}

// Upgrade looks up an upgrade by id.
func (c *Catalog) Upgrade(id UpgradeID) (Upgrade, error) {
	i, ok := c.upgradeIdx[id]
	if !ok {
		return Upgrade{}, fmt.Errorf("upgrade %q: %w", id, ErrNotFound)
	}
	return c.upgrades[i], nil
}

// Producers returns producers in catalog order.
func (c *Catalog) Producers() []Producer {
	return append([]Producer(nil), c.producers...)
}

// Producer looks up a producer by id.
func (c *Catalog) Producer(id ProducerID) (Producer, error) {
	i, ok := c.producerIdx[id]
	if !ok {
		return Producer{}, fmt.Errorf("producer %q: %w", id, ErrNotFound)
	}
	return c.producers[i], nil
}

// Achievements returns achievements in evaluation order.
func (c *Catalog) Achievements() []Achievement {
	return append([]Achievement(nil), c.achievements...)
}

// Achievement looks up an achievement by id.
func (c *Catalog) Achievement(id AchievementID) (Achievement, error) {
	i, ok := c.achievementIdx[id]
	if !ok {
		return Achievement{}, fmt.Errorf("achievement %q: %w", id, ErrNotFound)
	}
	return c.achievements[i], nil
}

func (c *Catalog) Prestige() PrestigeConfig {
	return c.prestige
}

func (c *Catalog) Balance() BalanceConfig {
	return c.balance
}
