// Package economy derives every game quantity from a player state and the
// catalog. Nothing in this package mutates state.
package economy

import (
	"math"
	"time"

	"github.com/rpggio/eggsim/internal/catalog"
	"github.com/rpggio/eggsim/internal/domain/player"
)

// Unaffordable is the cost reported for ids the catalog does not know.
var Unaffordable = math.Inf(1)

// Calculator evaluates economy formulas against a fixed catalog.
type Calculator struct {
	cat *catalog.Catalog
}

// New creates a calculator for cat.
func New(cat *catalog.Catalog) *Calculator {
	return &Calculator{cat: cat}
}

// Catalog returns the catalog the calculator reads from.
func (c *Calculator) Catalog() *catalog.Catalog {
	return c.cat
}

// effects accumulates upgrade contributions per effect kind.
type effects struct {
	clickMultiplier      float64
	goldenChance         float64
	productionMultiplier float64
	critChance           float64
	passiveProduction    float64
	speedMultiplier      float64
	clickProductionBonus float64
	prestigeBonus        float64
}

func (c *Calculator) effects(st *player.State) effects {
	fx := effects{clickMultiplier: 1}
	for _, up := range c.cat.Upgrades() {
		level := st.UpgradeLevel(up.ID)
		if level <= 0 {
			continue
		}
		scaled := up.Magnitude * float64(level)
		switch up.Effect {
		case catalog.EffectClickMultiplier:
			fx.clickMultiplier *= math.Pow(up.Magnitude, float64(level))
		case catalog.EffectGoldenChance:
			fx.goldenChance += scaled
		case catalog.EffectProductionMultiplier:
			fx.productionMultiplier += scaled
		case catalog.EffectCritChance:
			fx.critChance += scaled
		case catalog.EffectPassiveProduction:
			fx.passiveProduction += scaled
		case catalog.EffectSpeedMultiplier:
			fx.speedMultiplier += scaled
		case catalog.EffectClickProductionBonus:
			fx.clickProductionBonus += scaled
		case catalog.EffectPrestigeBonus:
			fx.prestigeBonus += scaled
		}
	}
	return fx
}

// TierMultiplier returns the multiplier of the selected tier, or 1 when the
// tier is unknown.
func (c *Calculator) TierMultiplier(st *player.State) float64 {
	tier, err := c.cat.Tier(st.CurrentTier)
	if err != nil {
		return 1
	}
	return tier.Multiplier
}

// ClickValue is the floored resource gained by a plain click.
func (c *Calculator) ClickValue(st *player.State) float64 {
	fx := c.effects(st)
	value := c.cat.Balance().BaseClickValue * c.TierMultiplier(st)
	value *= fx.clickMultiplier
	value *= c.prestigeMultiplier(st, fx)
	if fx.clickProductionBonus > 0 {
		value += c.productionRate(st, fx) * fx.clickProductionBonus
	}
	return math.Floor(value)
}

// ProductionRate is the passive resource gained per second. It is not floored.
func (c *Calculator) ProductionRate(st *player.State) float64 {
	return c.productionRate(st, c.effects(st))
}

func (c *Calculator) productionRate(st *player.State, fx effects) float64 {
	rate := 0.0
	for _, p := range c.cat.Producers() {
		if n := st.ProducerCount(p.ID); n > 0 {
			rate += p.BaseRate * float64(n)
		}
	}
	rate += fx.passiveProduction
	rate *= 1 + fx.productionMultiplier
	rate *= 1 + fx.speedMultiplier
	rate *= c.TierMultiplier(st)
	rate *= c.prestigeMultiplier(st, fx)
	return rate
}

// PrestigeMultiplier is the permanent bonus from prestige currency.
func (c *Calculator) PrestigeMultiplier(st *player.State) float64 {
	return c.prestigeMultiplier(st, c.effects(st))
}

func (c *Calculator) prestigeMultiplier(st *player.State, fx effects) float64 {
	mult := 1 + st.PrestigeCurrency*c.cat.Prestige().BonusPerUnit
	return mult * (1 + fx.prestigeBonus)
}

// GoldenClickChance is the probability of a golden click, capped.
func (c *Calculator) GoldenClickChance(st *player.State) float64 {
	return math.Min(c.effects(st).goldenChance, c.cat.Balance().ChanceCap)
}

// CritChance is the probability of a critical click, capped.
func (c *Calculator) CritChance(st *player.State) float64 {
	return math.Min(c.effects(st).critChance, c.cat.Balance().ChanceCap)
}

// UpgradeCost is the price of the next level of id.
func (c *Calculator) UpgradeCost(st *player.State, id catalog.UpgradeID) float64 {
	up, err := c.cat.Upgrade(id)
	if err != nil {
		return Unaffordable
	}
	return math.Floor(up.BaseCost * math.Pow(up.CostGrowth, float64(st.UpgradeLevel(id))))
}

// ProducerCost is the price of the next unit of id.
func (c *Calculator) ProducerCost(st *player.State, id catalog.ProducerID) float64 {
	p, err := c.cat.Producer(id)
	if err != nil {
		return Unaffordable
	}
	return math.Floor(p.BaseCost * math.Pow(p.CostGrowth, float64(st.ProducerCount(id))))
}

// PrestigeReward is the prestige currency a reset would grant right now.
func (c *Calculator) PrestigeReward(st *player.State) float64 {
	cfg := c.cat.Prestige()
	if st.TotalResourceEarned < cfg.BaseRequirement {
		return 0
	}
	return math.Floor(math.Pow(st.TotalResourceEarned/cfg.BaseRequirement, 1/cfg.ScalingExponent))
}

// OfflineCredit is the resource granted for elapsed time away from the game.
func (c *Calculator) OfflineCredit(st *player.State, elapsed time.Duration) float64 {
	bal := c.cat.Balance()
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > bal.MaxOfflineDuration {
		elapsed = bal.MaxOfflineDuration
	}
	if elapsed <= bal.MinOfflineDuration {
		return 0
	}
	return math.Floor(c.ProductionRate(st) * elapsed.Seconds() * bal.OfflineEarningsRate)
}

// NextTier returns the first locked tier and how much more lifetime resource
// it needs. ok is false once every tier is unlocked.
func (c *Calculator) NextTier(st *player.State) (tier catalog.Tier, remaining float64, ok bool) {
	for _, t := range c.cat.Tiers() {
		if st.HasTier(t.ID) {
			continue
		}
		return t, math.Max(0, t.UnlockThreshold-st.TotalResourceEarned), true
	}
	return catalog.Tier{}, 0, false
}
