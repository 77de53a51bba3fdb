package mcp

import (
	"github.com/rpggio/eggsim/internal/catalog"
	"github.com/rpggio/eggsim/internal/domain/progression"
	"github.com/rpggio/eggsim/internal/domain/save"
	"github.com/rpggio/eggsim/internal/format"
)

type EmptyParams struct{}

type ClickParams struct {
	Count int `json:"count,omitempty" jsonschema:"number of clicks to perform, 1 to 100 (default 1)"`
}

type PurchaseUpgradeParams struct {
	ID string `json:"id" jsonschema:"upgrade id from get_catalog"`
}

type PurchaseProducerParams struct {
	ID string `json:"id" jsonschema:"producer id from get_catalog"`
}

type SelectTierParams struct {
	ID string `json:"id" jsonschema:"unlocked tier id"`
}

type ImportSaveParams struct {
	Data string `json:"data" jsonschema:"base64 save string produced by export_save"`
}

type ListSaveHistoryParams struct {
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum entries, 1 to 100 (default 20)"`
	Before string `json:"before,omitempty" jsonschema:"RFC 3339 timestamp; only saves older than this"`
}

type UpdateSettingsParams struct {
	ParticlesEnabled   *bool    `json:"particles_enabled,omitempty"`
	ScreenShakeEnabled *bool    `json:"screen_shake_enabled,omitempty"`
	NumberFormat       *string  `json:"number_format,omitempty" jsonschema:"short, scientific or standard"`
	MasterVolume       *float64 `json:"master_volume,omitempty" jsonschema:"0 to 1"`
	SFXVolume          *float64 `json:"sfx_volume,omitempty" jsonschema:"0 to 1"`
	MusicVolume        *float64 `json:"music_volume,omitempty" jsonschema:"0 to 1"`
}

type UnlocksResult struct {
	Tiers        []string `json:"tiers,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

func toUnlocksResult(u progression.Unlocks) UnlocksResult {
	var out UnlocksResult
	for _, t := range u.Tiers {
		out.Tiers = append(out.Tiers, string(t.ID))
	}
	for _, a := range u.Achievements {
		out.Achievements = append(out.Achievements, string(a.ID))
	}
	return out
}

func mergeUnlocks(dst *UnlocksResult, u progression.Unlocks) {
	add := toUnlocksResult(u)
	dst.Tiers = append(dst.Tiers, add.Tiers...)
	dst.Achievements = append(dst.Achievements, add.Achievements...)
}

type StateResult struct {
	CurrentResource        float64            `json:"current_resource"`
	CurrentResourceDisplay string             `json:"current_resource_display"`
	TotalResourceEarned    float64            `json:"total_resource_earned"`
	PrestigeCurrency       float64            `json:"prestige_currency"`
	PrestigeCount          int64              `json:"prestige_count"`
	TotalClicks            int64              `json:"total_clicks"`
	TotalPlayTimeSeconds   float64            `json:"total_play_time_seconds"`
	CurrentTier            string             `json:"current_tier"`
	UnlockedTiers          []string           `json:"unlocked_tiers"`
	UpgradeLevels          map[string]int     `json:"upgrade_levels"`
	ProducerCounts         map[string]int64   `json:"producer_counts"`
	UnlockedAchievements   []string           `json:"unlocked_achievements"`
	ClickValue             float64            `json:"click_value"`
	ProductionRate         float64            `json:"production_rate"`
	ProductionRateDisplay  string             `json:"production_rate_display"`
	PrestigeMultiplier     float64            `json:"prestige_multiplier"`
	PrestigeReward         float64            `json:"prestige_reward"`
	GoldenClickChance      float64            `json:"golden_click_chance"`
	CritChance             float64            `json:"crit_chance"`
	UpgradeCosts           map[string]float64 `json:"upgrade_costs"`
	ProducerCosts          map[string]float64 `json:"producer_costs"`
	AchievementsUnlocked   int                `json:"achievements_unlocked"`
	AchievementsTotal      int                `json:"achievements_total"`
	NextTier               string             `json:"next_tier,omitempty"`
	NextTierRemaining      float64            `json:"next_tier_remaining,omitempty"`
}

func toStateResult(stats progression.Stats, style format.Style) StateResult {
	st := stats.State
	out := StateResult{
		CurrentResource:        st.CurrentResource,
		CurrentResourceDisplay: format.Number(st.CurrentResource, style),
		TotalResourceEarned:    st.TotalResourceEarned,
		PrestigeCurrency:       st.PrestigeCurrency,
		PrestigeCount:          st.PrestigeCount,
		TotalClicks:            st.TotalClicks,
		TotalPlayTimeSeconds:   st.TotalPlayTimeSeconds,
		CurrentTier:            string(st.CurrentTier),
		UnlockedTiers:          make([]string, 0, len(st.UnlockedTiers)),
		UnlockedAchievements:   make([]string, 0, len(st.UnlockedAchievements)),
		UpgradeLevels:          make(map[string]int, len(st.UpgradeLevels)),
		ProducerCounts:         make(map[string]int64, len(st.ProducerCounts)),
		ClickValue:             stats.ClickValue,
		ProductionRate:         stats.ProductionRate,
		ProductionRateDisplay:  format.Number(stats.ProductionRate, style),
		PrestigeMultiplier:     stats.PrestigeMultiplier,
		PrestigeReward:         stats.PrestigeReward,
		GoldenClickChance:      stats.GoldenClickChance,
		CritChance:             stats.CritChance,
		UpgradeCosts:           make(map[string]float64, len(stats.UpgradeCosts)),
		ProducerCosts:          make(map[string]float64, len(stats.ProducerCosts)),
		AchievementsUnlocked:   len(st.UnlockedAchievements),
		AchievementsTotal:      stats.AchievementsTotal,
	}
	for _, id := range st.UnlockedTiers {
		out.UnlockedTiers = append(out.UnlockedTiers, string(id))
	}
	for _, id := range st.UnlockedAchievements {
		out.UnlockedAchievements = append(out.UnlockedAchievements, string(id))
	}
	for id, lvl := range st.UpgradeLevels {
		out.UpgradeLevels[string(id)] = lvl
	}
	for id, n := range st.ProducerCounts {
		out.ProducerCounts[string(id)] = n
	}
	for id, cost := range stats.UpgradeCosts {
		out.UpgradeCosts[string(id)] = cost
	}
	for id, cost := range stats.ProducerCosts {
		out.ProducerCosts[string(id)] = cost
	}
	if stats.NextTier != nil {
		out.NextTier = string(stats.NextTier.ID)
		out.NextTierRemaining = stats.NextTierRemaining
	}
	return out
}

type TierResult struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Multiplier      float64 `json:"multiplier"`
	UnlockThreshold float64 `json:"unlock_threshold"`
	Unlocked        bool    `json:"unlocked"`
}

type UpgradeResult struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Effect      string  `json:"effect"`
	Level       int     `json:"level"`
	MaxLevel    int     `json:"max_level"`
	NextCost    float64 `json:"next_cost"`
}

type ProducerResult struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	BaseRate    float64 `json:"base_rate"`
	Owned       int64   `json:"owned"`
	NextCost    float64 `json:"next_cost"`
}

type AchievementResult struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

type CatalogResult struct {
	Tiers        []TierResult        `json:"tiers"`
	Upgrades     []UpgradeResult     `json:"upgrades"`
	Producers    []ProducerResult    `json:"producers"`
	Achievements []AchievementResult `json:"achievements"`
}

func toCatalogResult(cat *catalog.Catalog, stats progression.Stats) CatalogResult {
	st := stats.State
	var out CatalogResult
	for _, t := range cat.Tiers() {
		out.Tiers = append(out.Tiers, TierResult{
			ID:              string(t.ID),
			Name:            t.Name,
			Multiplier:      t.Multiplier,
			UnlockThreshold: t.UnlockThreshold,
			Unlocked:        st.HasTier(t.ID),
		})
	}
	for _, up := range cat.Upgrades() {
		out.Upgrades = append(out.Upgrades, UpgradeResult{
			ID:          string(up.ID),
			Name:        up.Name,
			Description: up.Description,
			Effect:      string(up.Effect),
			Level:       st.UpgradeLevel(up.ID),
			MaxLevel:    up.MaxLevel,
			NextCost:    stats.UpgradeCosts[up.ID],
		})
	}
	for _, p := range cat.Producers() {
		out.Producers = append(out.Producers, ProducerResult{
			ID:          string(p.ID),
			Name:        p.Name,
			Description: p.Description,
			BaseRate:    p.BaseRate,
			Owned:       st.ProducerCount(p.ID),
			NextCost:    stats.ProducerCosts[p.ID],
		})
	}
	for _, a := range cat.Achievements() {
		out.Achievements = append(out.Achievements, AchievementResult{
			ID:          string(a.ID),
			Name:        a.Name,
			Description: a.Description,
			Unlocked:    st.HasAchievement(a.ID),
		})
	}
	return out
}

type ClickOutcome struct {
	Amount     float64 `json:"amount"`
	IsCritical bool    `json:"is_critical"`
	IsGolden   bool    `json:"is_golden"`
}

type ClickResult struct {
	Clicks      []ClickOutcome `json:"clicks"`
	TotalAmount float64        `json:"total_amount"`
	Unlocks     UnlocksResult  `json:"unlocks"`
}

type PurchaseResult struct {
	ID              string        `json:"id"`
	CurrentResource float64       `json:"current_resource"`
	Unlocks         UnlocksResult `json:"unlocks"`
}

type SelectTierResult struct {
	CurrentTier string `json:"current_tier"`
}

type PrestigeResult struct {
	Reward        float64       `json:"reward"`
	NewMultiplier float64       `json:"new_multiplier"`
	PrestigeCount int64         `json:"prestige_count"`
	Unlocks       UnlocksResult `json:"unlocks"`
}

type SaveResult struct {
	Saved bool `json:"saved"`
}

type ExportResult struct {
	Data string `json:"data"`
}

type HistoryEntry struct {
	Version   string `json:"version"`
	SavedAt   string `json:"saved_at"`
	SizeBytes int    `json:"size_bytes"`
	Data      string `json:"data"`
}

type HistoryResult struct {
	Entries []HistoryEntry `json:"entries"`
}

type ResetResult struct {
	Reset bool `json:"reset"`
}

type SettingsResult struct {
	ParticlesEnabled   bool    `json:"particles_enabled"`
	ScreenShakeEnabled bool    `json:"screen_shake_enabled"`
	NumberFormat       string  `json:"number_format"`
	MasterVolume       float64 `json:"master_volume"`
	SFXVolume          float64 `json:"sfx_volume"`
	MusicVolume        float64 `json:"music_volume"`
}

func toSettingsResult(s save.Settings) SettingsResult {
	return SettingsResult{
		ParticlesEnabled:   s.ParticlesEnabled,
		ScreenShakeEnabled: s.ScreenShakeEnabled,
		NumberFormat:       string(s.NumberFormat),
		MasterVolume:       s.MasterVolume,
		SFXVolume:          s.SFXVolume,
		MusicVolume:        s.MusicVolume,
	}
}

func (p UpdateSettingsParams) apply(s save.Settings) save.Settings {
	if p.ParticlesEnabled != nil {
		s.ParticlesEnabled = *p.ParticlesEnabled
	}
	if p.ScreenShakeEnabled != nil {
		s.ScreenShakeEnabled = *p.ScreenShakeEnabled
	}
	if p.NumberFormat != nil {
		s.NumberFormat = format.Style(*p.NumberFormat)
	}
	if p.MasterVolume != nil {
		s.MasterVolume = *p.MasterVolume
	}
	if p.SFXVolume != nil {
		s.SFXVolume = *p.SFXVolume
	}
	if p.MusicVolume != nil {
		s.MusicVolume = *p.MusicVolume
	}
	return s
}
