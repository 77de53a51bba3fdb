package progression

import (
	"time"

	"github.com/rpggio/eggsim/internal/catalog"
	"github.com/rpggio/eggsim/internal/domain/player"
)

// Unlocks lists what a transition newly unlocked, in catalog order.
type Unlocks struct {
	Tiers        []catalog.Tier        `json:"tiers,omitempty"`
	Achievements []catalog.Achievement `json:"achievements,omitempty"`
}

// Empty reports whether nothing was unlocked.
func (u Unlocks) Empty() bool {
	return len(u.Tiers) == 0 && len(u.Achievements) == 0
}

// ClickResult describes a resolved click.
type ClickResult struct {
	Amount     float64 `json:"amount"`
	IsCritical bool    `json:"is_critical"`
	IsGolden   bool    `json:"is_golden"`
	Unlocks    Unlocks `json:"unlocks"`
}

// PrestigeResult describes a completed prestige.
type PrestigeResult struct {
	Reward        float64 `json:"reward"`
	NewMultiplier float64 `json:"new_multiplier"`
	PrestigeCount int64   `json:"prestige_count"`
	Unlocks       Unlocks `json:"unlocks"`
}

// Stats is a read-only view of derived numbers for the presentation layer.
type Stats struct {
	State              player.State
	ClickValue         float64
	ProductionRate     float64
	PrestigeMultiplier float64
	GoldenClickChance  float64
	CritChance         float64
	PrestigeReward     float64
	UpgradeCosts       map[catalog.UpgradeID]float64
	ProducerCosts      map[catalog.ProducerID]float64
	AchievementsTotal  int
	NextTier           *catalog.Tier
	NextTierRemaining  float64
}

// EventType names presentation-facing engine events.
type EventType string

const (
	EventClickResolved       EventType = "click_resolved"
	EventUpgradePurchased    EventType = "upgrade_purchased"
	EventProducerPurchased   EventType = "producer_purchased"
	EventTierSelected        EventType = "tier_selected"
	EventTierUnlocked        EventType = "tier_unlocked"
	EventAchievementUnlocked EventType = "achievement_unlocked"
	EventPrestigePerformed   EventType = "prestige_performed"
	EventWelcomeBack         EventType = "welcome_back"
)

// Event is emitted by a transition and drained by the host.
type Event struct {
	ID   string
	At   time.Time
	Type EventType
	Data any
}

type UpgradePurchasedData struct {
	Upgrade catalog.UpgradeID
	Level   int
	Cost    float64
}

type ProducerPurchasedData struct {
	Producer catalog.ProducerID
	Count    int64
	Cost     float64
}

type TierSelectedData struct {
	Tier catalog.TierID
}

type TierUnlockedData struct {
	Tier catalog.Tier
}

type AchievementUnlockedData struct {
	Achievement catalog.Achievement
}

type PrestigePerformedData struct {
	Reward        float64
	NewMultiplier float64
}

type WelcomeBackData struct {
	Credited float64
	Away     time.Duration
}
