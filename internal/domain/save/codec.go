package save

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/rpggio/eggsim/internal/catalog"
	"github.com/rpggio/eggsim/internal/domain/player"
)

// Codec converts snapshots to and from their stored and exported forms.
type Codec struct {
	cat *catalog.Catalog
}

// NewCodec creates a codec that repairs decoded state against cat.
func NewCodec(cat *catalog.Catalog) *Codec {
	return &Codec{cat: cat}
}

// Encode serializes a snapshot as JSON.
func (c *Codec) Encode(snap Snapshot) ([]byte, error) {
	if snap.Version == "" {
		snap.Version = Version
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

type rawSnapshot struct {
	State    json.RawMessage `json:"state"`
	Settings json.RawMessage `json:"settings"`
	Version  string          `json:"version"`
}

// Decode parses a snapshot. Fields missing from the payload keep their
// defaults; references the catalog does not know are dropped.
func (c *Codec) Decode(data []byte, now time.Time) (Snapshot, error) {
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedSave, err)
	}
	if len(raw.State) == 0 || string(raw.State) == "null" {
		return Snapshot{}, fmt.Errorf("%w: missing state", ErrMalformedSave)
	}

	st := player.New(c.cat.DefaultTier().ID, now)
	if err := json.Unmarshal(raw.State, &st); err != nil {
		return Snapshot{}, fmt.Errorf("%w: state: %v", ErrMalformedSave, err)
	}
	if err := validateState(&st); err != nil {
		return Snapshot{}, err
	}
	c.normalizeState(&st, now)

	settings := DefaultSettings()
	if len(raw.Settings) > 0 && string(raw.Settings) != "null" {
		if err := json.Unmarshal(raw.Settings, &settings); err != nil {
			return Snapshot{}, fmt.Errorf("%w: settings: %v", ErrMalformedSave, err)
		}
	}

	version := raw.Version
	if version == "" {
		version = Version
	}
	return Snapshot{State: st, Settings: settings.Normalize(), Version: version}, nil
}

// EncodeExport returns the clipboard form of a snapshot.
func (c *Codec) EncodeExport(snap Snapshot) (string, error) {
	data, err := c.Encode(snap)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeExport parses the clipboard form of a snapshot.
func (c *Codec) DecodeExport(s string, now time.Time) (Snapshot, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedSave, err)
	}
	return c.Decode(data, now)
}

func validateState(st *player.State) error {
	amounts := map[string]float64{
		"current_resource":        st.CurrentResource,
		"total_resource_earned":   st.TotalResourceEarned,
		"prestige_currency":       st.PrestigeCurrency,
		"total_play_time_seconds": st.TotalPlayTimeSeconds,
	}
	for name, v := range amounts {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s is %v", ErrMalformedSave, name, v)
		}
	}
	if st.TotalClicks < 0 || st.PrestigeCount < 0 {
		return fmt.Errorf("%w: negative counter", ErrMalformedSave)
	}
	for id, lvl := range st.UpgradeLevels {
		if lvl < 0 {
			return fmt.Errorf("%w: negative level for %s", ErrMalformedSave, id)
		}
	}
	for id, n := range st.ProducerCounts {
		if n < 0 {
			return fmt.Errorf("%w: negative count for %s", ErrMalformedSave, id)
		}
	}
	return nil
}

func (c *Codec) normalizeState(st *player.State, now time.Time) {
	defaultTier := c.cat.DefaultTier().ID

	tiers := []catalog.TierID{defaultTier}
	for _, id := range st.UnlockedTiers {
		if _, err := c.cat.Tier(id); err == nil && !slices.Contains(tiers, id) {
			tiers = append(tiers, id)
		}
	}
	st.UnlockedTiers = tiers
	if !slices.Contains(tiers, st.CurrentTier) {
		st.CurrentTier = defaultTier
	}

	levels := make(map[catalog.UpgradeID]int, len(st.UpgradeLevels))
	for id, lvl := range st.UpgradeLevels {
		up, err := c.cat.Upgrade(id)
		if err != nil || lvl == 0 {
			continue
		}
		levels[id] = min(lvl, up.MaxLevel)
	}
	st.UpgradeLevels = levels

	counts := make(map[catalog.ProducerID]int64, len(st.ProducerCounts))
	for id, n := range st.ProducerCounts {
		if _, err := c.cat.Producer(id); err != nil || n == 0 {
			continue
		}
		counts[id] = n
	}
	st.ProducerCounts = counts

	achievements := []catalog.AchievementID{}
	for _, id := range st.UnlockedAchievements {
		if _, err := c.cat.Achievement(id); err == nil && !slices.Contains(achievements, id) {
			achievements = append(achievements, id)
		}
	}
	st.UnlockedAchievements = achievements

	st.PrestigeCurrency = math.Floor(st.PrestigeCurrency)
	if st.CurrentResource > st.TotalResourceEarned {
		st.TotalResourceEarned = st.CurrentResource
	}
	for _, ts := range []*time.Time{&st.LastSaveTime, &st.LastOnlineTime, &st.GameStartTime} {
		if ts.IsZero() {
			*ts = now
		}
	}
}
