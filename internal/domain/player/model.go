package player

import (
	"slices"
	"time"

	"github.com/rpggio/eggsim/internal/catalog"
)

// State is the persisted progress of a single player.
type State struct {
	CurrentResource      float64 `json:"current_resource"`
	TotalResourceEarned  float64 `json:"total_resource_earned"`
	PrestigeCurrency     float64 `json:"prestige_currency"` // integral, kept as float64 for range
	TotalClicks          int64   `json:"total_clicks"`
	TotalPlayTimeSeconds float64 `json:"total_play_time_seconds"`
	PrestigeCount        int64   `json:"prestige_count"`

	CurrentTier   catalog.TierID   `json:"current_tier"`
	UnlockedTiers []catalog.TierID `json:"unlocked_tiers"`

	UpgradeLevels        map[catalog.UpgradeID]int    `json:"upgrade_levels"`
	ProducerCounts       map[catalog.ProducerID]int64 `json:"producer_counts"`
	UnlockedAchievements []catalog.AchievementID      `json:"unlocked_achievements"`

	LastSaveTime   time.Time `json:"last_save_time"`
	LastOnlineTime time.Time `json:"last_online_time"`
	GameStartTime  time.Time `json:"game_start_time"`
}

// RuntimeCounters are session-scoped and never persisted.
type RuntimeCounters struct {
	ClicksThisSecond int
	LastClickAt      time.Time
	SessionStart     time.Time
}

// New returns a fresh state with defaultTier selected and unlocked.
func New(defaultTier catalog.TierID, now time.Time) State {
	return State{
		CurrentTier:          defaultTier,
		UnlockedTiers:        []catalog.TierID{defaultTier},
		UpgradeLevels:        make(map[catalog.UpgradeID]int),
		ProducerCounts:       make(map[catalog.ProducerID]int64),
		UnlockedAchievements: []catalog.AchievementID{},
		LastSaveTime:         now,
		LastOnlineTime:       now,
		GameStartTime:        now,
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.UnlockedTiers = slices.Clone(s.UnlockedTiers)
	out.UnlockedAchievements = slices.Clone(s.UnlockedAchievements)
	if s.UpgradeLevels != nil {
		out.UpgradeLevels = make(map[catalog.UpgradeID]int, len(s.UpgradeLevels))
		for k, v := range s.UpgradeLevels {
			out.UpgradeLevels[k] = v
		}
	}
	if s.ProducerCounts != nil {
		out.ProducerCounts = make(map[catalog.ProducerID]int64, len(s.ProducerCounts))
		for k, v := range s.ProducerCounts {
			out.ProducerCounts[k] = v
		}
	}
	return out
}

// ResetForPrestige returns the state after a prestige reset. Prestige
// currency, prestige count, unlocked tiers and achievements, game start time
// and total play time survive; everything else returns to defaults.
func (s State) ResetForPrestige(defaultTier catalog.TierID, now time.Time) State {
	next := New(defaultTier, now)
	next.PrestigeCurrency = s.PrestigeCurrency
	next.PrestigeCount = s.PrestigeCount
	next.UnlockedTiers = slices.Clone(s.UnlockedTiers)
	next.UnlockedAchievements = slices.Clone(s.UnlockedAchievements)
	next.GameStartTime = s.GameStartTime
	next.TotalPlayTimeSeconds = s.TotalPlayTimeSeconds
	if !slices.Contains(next.UnlockedTiers, defaultTier) {
		next.UnlockedTiers = append([]catalog.TierID{defaultTier}, next.UnlockedTiers...)
	}
	return next
}

func (s *State) HasTier(id catalog.TierID) bool {
	return slices.Contains(s.UnlockedTiers, id)
}

func (s *State) HasAchievement(id catalog.AchievementID) bool {
	return slices.Contains(s.UnlockedAchievements, id)
}

// UpgradeLevel returns the owned level, zero when absent.
func (s *State) UpgradeLevel(id catalog.UpgradeID) int {
	return s.UpgradeLevels[id]
}

// ProducerCount returns the owned count, zero when absent.
func (s *State) ProducerCount(id catalog.ProducerID) int64 {
	return s.ProducerCounts[id]
}

// TotalUpgradeLevels sums all owned upgrade levels.
func (s *State) TotalUpgradeLevels() int {
	total := 0
	for _, lvl := range s.UpgradeLevels {
		total += lvl
	}
	return total
}
