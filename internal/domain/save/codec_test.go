package save_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/eggsim/internal/catalog"
	"github.com/rpggio/eggsim/internal/domain/player"
	"github.com/rpggio/eggsim/internal/domain/save"
	"github.com/rpggio/eggsim/internal/format"
)

var start = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func playedState() player.State {
	st := player.New("regular", start.Add(-48*time.Hour))
	st.CurrentResource = 1234
	st.TotalResourceEarned = 56789
	st.PrestigeCurrency = 3
	st.TotalClicks = 321
	st.TotalPlayTimeSeconds = 7200
	st.PrestigeCount = 1
	st.CurrentTier = "blue"
	st.UnlockedTiers = []catalog.TierID{"regular", "brown", "blue"}
	st.UpgradeLevels["stronger_clicks"] = 4
	st.ProducerCounts["chicken"] = 12
	st.UnlockedAchievements = []catalog.AchievementID{"first_egg", "first_click"}
	st.LastSaveTime = start.Add(-time.Hour)
	st.LastOnlineTime = start.Add(-time.Hour)
	return st
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := save.NewCodec(catalog.Default())
	snap := save.Snapshot{State: playedState(), Settings: save.DefaultSettings(), Version: save.Version}

	data, err := codec.Encode(snap)
	require.NoError(t, err)

	got, err := codec.Decode(data, start)
	require.NoError(t, err)
	require.Equal(t, snap, got)
}

func TestCodec_DecodeMergesOverDefaults(t *testing.T) {
	codec := save.NewCodec(catalog.Default())

	got, err := codec.Decode([]byte(`{"state":{"current_resource":10,"total_resource_earned":20}}`), start)
	require.NoError(t, err)
	require.Equal(t, save.Version, got.Version)
	require.Equal(t, save.DefaultSettings(), got.Settings)
	require.Equal(t, 10.0, got.State.CurrentResource)
	require.Equal(t, 20.0, got.State.TotalResourceEarned)
	require.Equal(t, catalog.TierID("regular"), got.State.CurrentTier)
	require.Equal(t, []catalog.TierID{"regular"}, got.State.UnlockedTiers)
	require.NotNil(t, got.State.UpgradeLevels)
	require.NotNil(t, got.State.ProducerCounts)
	require.Equal(t, start, got.State.GameStartTime)
}

func TestCodec_DecodePartialSettings(t *testing.T) {
	codec := save.NewCodec(catalog.Default())

	got, err := codec.Decode([]byte(`{"state":{},"settings":{"number_format":"scientific","music_volume":0.2}}`), start)
	require.NoError(t, err)
	require.Equal(t, format.Scientific, got.Settings.NumberFormat)
	require.Equal(t, 0.2, got.Settings.MusicVolume)
	require.Equal(t, 0.8, got.Settings.MasterVolume)
	require.True(t, got.Settings.ParticlesEnabled)
}

func TestCodec_DecodeRejectsMalformed(t *testing.T) {
	codec := save.NewCodec(catalog.Default())

	cases := map[string]string{
		"not json":          `{{{`,
		"missing state":     `{"settings":{}}`,
		"null state":        `{"state":null}`,
		"state wrong type":  `{"state":"eggs"}`,
		"negative resource": `{"state":{"current_resource":-1}}`,
		"negative clicks":   `{"state":{"total_clicks":-5}}`,
		"negative level":    `{"state":{"upgrade_levels":{"stronger_clicks":-1}}}`,
		"negative count":    `{"state":{"producer_counts":{"chicken":-2}}}`,
		"bad settings":      `{"state":{},"settings":[1,2]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := codec.Decode([]byte(payload), start)
			require.ErrorIs(t, err, save.ErrMalformedSave)
		})
	}
}

func TestCodec_DecodeRepairsReferences(t *testing.T) {
	codec := save.NewCodec(catalog.Default())
	payload := `{"state":{
		"current_resource": 500,
		"total_resource_earned": 100,
		"prestige_currency": 2.7,
		"current_tier": "cosmic",
		"unlocked_tiers": ["brown", "dragon", "brown"],
		"upgrade_levels": {"stronger_clicks": 99, "warp_drive": 3, "egg_polish": 0},
		"producer_counts": {"chicken": 4, "dragon": 1},
		"unlocked_achievements": ["first_egg", "bogus", "first_egg"]
	}}`

	got, err := codec.Decode([]byte(payload), start)
	require.NoError(t, err)

	st := got.State
	require.Equal(t, []catalog.TierID{"regular", "brown"}, st.UnlockedTiers)
	require.Equal(t, catalog.TierID("regular"), st.CurrentTier)
	require.Equal(t, map[catalog.UpgradeID]int{"stronger_clicks": 20}, st.UpgradeLevels)
	require.Equal(t, map[catalog.ProducerID]int64{"chicken": 4}, st.ProducerCounts)
	require.Equal(t, []catalog.AchievementID{"first_egg"}, st.UnlockedAchievements)
	require.Equal(t, 2.0, st.PrestigeCurrency)
	require.Equal(t, 500.0, st.TotalResourceEarned)
}

func TestCodec_ExportRoundTrip(t *testing.T) {
	codec := save.NewCodec(catalog.Default())
	snap := save.Snapshot{State: playedState(), Settings: save.DefaultSettings(), Version: save.Version}

	exported, err := codec.EncodeExport(snap)
	require.NoError(t, err)
	_, err = base64.StdEncoding.DecodeString(exported)
	require.NoError(t, err)

	got, err := codec.DecodeExport(exported+"\n", start)
	require.NoError(t, err)
	require.Equal(t, snap, got)
}

func TestCodec_DecodeExportRejectsGarbage(t *testing.T) {
	codec := save.NewCodec(catalog.Default())

	_, err := codec.DecodeExport("%%% not base64 %%%", start)
	require.ErrorIs(t, err, save.ErrMalformedSave)

	_, err = codec.DecodeExport(base64.StdEncoding.EncodeToString([]byte(`{"version":"1.0.0"}`)), start)
	require.ErrorIs(t, err, save.ErrMalformedSave)
}

func TestSettings_Normalize(t *testing.T) {
	got := save.Settings{NumberFormat: "roman", MasterVolume: 3, SFXVolume: -1, MusicVolume: 0.5}.Normalize()
	require.Equal(t, format.Short, got.NumberFormat)
	require.Equal(t, 1.0, got.MasterVolume)
	require.Equal(t, 0.0, got.SFXVolume)
	require.Equal(t, 0.5, got.MusicVolume)
}
