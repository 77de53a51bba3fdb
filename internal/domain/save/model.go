package save

import (
	"math"
	"time"

	"github.com/rpggio/eggsim/internal/domain/player"
	"github.com/rpggio/eggsim/internal/domain/progression"
	"github.com/rpggio/eggsim/internal/format"
)

// Version is written into every snapshot.
const Version = "1.0.0"

// DefaultSlot is the slot used when none is configured.
const DefaultSlot = "default"

// Settings are player preferences persisted next to the state.
type Settings struct {
	ParticlesEnabled   bool         `json:"particles_enabled"`
	ScreenShakeEnabled bool         `json:"screen_shake_enabled"`
	NumberFormat       format.Style `json:"number_format"`
	MasterVolume       float64      `json:"master_volume"`
	SFXVolume          float64      `json:"sfx_volume"`
	MusicVolume        float64      `json:"music_volume"`
}

// DefaultSettings returns the settings of a new player.
func DefaultSettings() Settings {
	return Settings{
		ParticlesEnabled:   true,
		ScreenShakeEnabled: true,
		NumberFormat:       format.Short,
		MasterVolume:       0.8,
		SFXVolume:          1.0,
		MusicVolume:        0.6,
	}
}

// Normalize clamps volumes into [0, 1] and replaces unknown number formats.
func (s Settings) Normalize() Settings {
	if !s.NumberFormat.Valid() {
		s.NumberFormat = format.Short
	}
	s.MasterVolume = clampUnit(s.MasterVolume)
	s.SFXVolume = clampUnit(s.SFXVolume)
	s.MusicVolume = clampUnit(s.MusicVolume)
	return s
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Snapshot is the persisted form of a game.
type Snapshot struct {
	State    player.State `json:"state"`
	Settings Settings     `json:"settings"`
	Version  string       `json:"version"`
}

// Record is a stored snapshot payload.
type Record struct {
	Slot    string
	Version string
	Payload []byte
	SavedAt time.Time
}

// LoadResult describes what Load restored.
type LoadResult struct {
	Fresh         bool
	SavedAt       time.Time
	Away          time.Duration
	OfflineCredit float64
	Unlocks       progression.Unlocks
}
