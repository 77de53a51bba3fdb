package catalog

import "time"

// TierID identifies a resource tier.
type TierID string

// UpgradeID identifies an upgrade.
type UpgradeID string

// ProducerID identifies a producer.
type ProducerID string

// AchievementID identifies an achievement.
type AchievementID string

// EffectKind describes what an upgrade level changes.
type EffectKind string

const (
	EffectClickMultiplier      EffectKind = "click_multiplier"
	EffectGoldenChance         EffectKind = "golden_chance"
	EffectProductionMultiplier EffectKind = "production_multiplier"
	EffectCritChance           EffectKind = "crit_chance"
	EffectPassiveProduction    EffectKind = "passive_production"
	EffectSpeedMultiplier      EffectKind = "speed_multiplier"
	EffectClickProductionBonus EffectKind = "click_production_bonus"
	EffectPrestigeBonus        EffectKind = "prestige_bonus"
)

// Valid reports whether k is a known effect kind.
func (k EffectKind) Valid() bool {
	switch k {
	case EffectClickMultiplier, EffectGoldenChance, EffectProductionMultiplier, EffectCritChance,
		EffectPassiveProduction, EffectSpeedMultiplier, EffectClickProductionBonus, EffectPrestigeBonus:
		return true
	}
	return false
}

// ConditionKind selects which part of the player state an achievement watches.
type ConditionKind string

const (
	ConditionTotalEarned        ConditionKind = "total_earned"
	ConditionTotalClicks        ConditionKind = "total_clicks"
	ConditionProducerOwned      ConditionKind = "producer_owned"
	ConditionTotalUpgradeLevels ConditionKind = "total_upgrade_levels"
	ConditionAnyUpgradeMaxed    ConditionKind = "any_upgrade_maxed"
	ConditionPrestigeCount      ConditionKind = "prestige_count"
	ConditionPrestigeCurrency   ConditionKind = "prestige_currency"
	ConditionTierUnlocked       ConditionKind = "tier_unlocked"
	ConditionClicksPerSecond    ConditionKind = "clicks_per_second"
	ConditionPlayTime           ConditionKind = "play_time"
)

// Valid reports whether k is a known condition kind.
func (k ConditionKind) Valid() bool {
	switch k {
	case ConditionTotalEarned, ConditionTotalClicks, ConditionProducerOwned, ConditionTotalUpgradeLevels,
		ConditionAnyUpgradeMaxed, ConditionPrestigeCount, ConditionPrestigeCurrency, ConditionTierUnlocked,
		ConditionClicksPerSecond, ConditionPlayTime:
		return true
	}
	return false
}

// Tier is a cosmetic resource type with a production/click multiplier.
type Tier struct {
	ID              TierID  `yaml:"id" json:"id"`
	Name            string  `yaml:"name" json:"name"`
	Description     string  `yaml:"description,omitempty" json:"description,omitempty"`
	Multiplier      float64 `yaml:"multiplier" json:"multiplier"`
	UnlockThreshold float64 `yaml:"unlock_threshold" json:"unlock_threshold"`
}

// Upgrade is a leveled purchase with a single effect.
type Upgrade struct {
	ID          UpgradeID  `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	BaseCost    float64    `yaml:"base_cost" json:"base_cost"`
	CostGrowth  float64    `yaml:"cost_growth" json:"cost_growth"`
	Effect      EffectKind `yaml:"effect" json:"effect"`
	Magnitude   float64    `yaml:"magnitude" json:"magnitude"`
	MaxLevel    int        `yaml:"max_level" json:"max_level"`
}

// Producer generates resource every second per unit owned.
type Producer struct {
	ID          ProducerID `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	BaseCost    float64    `yaml:"base_cost" json:"base_cost"`
	CostGrowth  float64    `yaml:"cost_growth" json:"cost_growth"`
	BaseRate    float64    `yaml:"base_rate" json:"base_rate"`
}

// Condition is the unlock rule of an achievement. Producer is only read for
// ConditionProducerOwned and Tier only for ConditionTierUnlocked.
type Condition struct {
	Kind      ConditionKind `yaml:"kind" json:"kind"`
	Threshold float64       `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	Producer  ProducerID    `yaml:"producer,omitempty" json:"producer,omitempty"`
	Tier      TierID        `yaml:"tier,omitempty" json:"tier,omitempty"`
}

// Achievement is a one-way unlockable goal.
type Achievement struct {
	ID          AchievementID `yaml:"id" json:"id"`
	Name        string        `yaml:"name" json:"name"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
	Condition   Condition     `yaml:"condition" json:"condition"`
}

// PrestigeConfig controls prestige rewards.
type PrestigeConfig struct {
	BaseRequirement float64 `yaml:"base_requirement" json:"base_requirement"`
	ScalingExponent float64 `yaml:"scaling_exponent" json:"scaling_exponent"`
	BonusPerUnit    float64 `yaml:"bonus_per_unit" json:"bonus_per_unit"`
}

// BalanceConfig holds global tuning constants.
type BalanceConfig struct {
	BaseClickValue      float64       `yaml:"base_click_value" json:"base_click_value"`
	CritMultiplier      float64       `yaml:"crit_multiplier" json:"crit_multiplier"`
	GoldenMultiplier    float64       `yaml:"golden_multiplier" json:"golden_multiplier"`
	ChanceCap           float64       `yaml:"chance_cap" json:"chance_cap"`
	OfflineEarningsRate float64       `yaml:"offline_earnings_rate" json:"offline_earnings_rate"`
	MinOfflineDuration  time.Duration `yaml:"min_offline_duration" json:"min_offline_duration"`
	MaxOfflineDuration  time.Duration `yaml:"max_offline_duration" json:"max_offline_duration"`
	AutosaveInterval    time.Duration `yaml:"autosave_interval" json:"autosave_interval"`
}

// Definition is the raw data a Catalog is built from.
type Definition struct {
	Tiers        []Tier         `yaml:"tiers"`
	Upgrades     []Upgrade      `yaml:"upgrades"`
	Producers    []Producer     `yaml:"producers"`
	Achievements []Achievement  `yaml:"achievements"`
	Prestige     PrestigeConfig `yaml:"prestige"`
	Balance      BalanceConfig  `yaml:"balance"`
}
