package player_test

import (
	"testing"
	"time"

	"github.com/rpggio/eggsim/internal/catalog"
	"github.com/rpggio/eggsim/internal/domain/player"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestNew_Defaults(t *testing.T) {
	st := player.New("regular", start)

	require.Zero(t, st.CurrentResource)
	require.Zero(t, st.TotalResourceEarned)
	require.Equal(t, catalog.TierID("regular"), st.CurrentTier)
	require.Equal(t, []catalog.TierID{"regular"}, st.UnlockedTiers)
	require.NotNil(t, st.UpgradeLevels)
	require.NotNil(t, st.ProducerCounts)
	require.Empty(t, st.UnlockedAchievements)
	require.True(t, st.GameStartTime.Equal(start))
	require.True(t, st.LastOnlineTime.Equal(start))
}

func TestClone_IsDeep(t *testing.T) {
	st := player.New("regular", start)
	st.UpgradeLevels["stronger_clicks"] = 2
	st.ProducerCounts["chicken"] = 3
	st.UnlockedAchievements = append(st.UnlockedAchievements, "first_click")

	cp := st.Clone()
	cp.UpgradeLevels["stronger_clicks"] = 9
	cp.ProducerCounts["chicken"] = 9
	cp.UnlockedTiers[0] = "blue"
	cp.UnlockedAchievements[0] = "other"

	require.Equal(t, 2, st.UpgradeLevel("stronger_clicks"))
	require.Equal(t, int64(3), st.ProducerCount("chicken"))
	require.Equal(t, catalog.TierID("regular"), st.UnlockedTiers[0])
	require.Equal(t, catalog.AchievementID("first_click"), st.UnlockedAchievements[0])
}

func TestResetForPrestige_KeepsSurvivors(t *testing.T) {
	st := player.New("regular", start)
	st.CurrentResource = 500
	st.TotalResourceEarned = 2e6
	st.PrestigeCurrency = 3
	st.PrestigeCount = 2
	st.TotalClicks = 40
	st.TotalPlayTimeSeconds = 120
	st.CurrentTier = "brown"
	st.UnlockedTiers = []catalog.TierID{"regular", "brown"}
	st.UpgradeLevels["stronger_clicks"] = 4
	st.ProducerCounts["chicken"] = 10
	st.UnlockedAchievements = []catalog.AchievementID{"first_click"}

	later := start.Add(time.Hour)
	next := st.ResetForPrestige("regular", later)

	require.Equal(t, 3.0, next.PrestigeCurrency)
	require.Equal(t, int64(2), next.PrestigeCount)
	require.Equal(t, []catalog.TierID{"regular", "brown"}, next.UnlockedTiers)
	require.Equal(t, []catalog.AchievementID{"first_click"}, next.UnlockedAchievements)
	require.True(t, next.GameStartTime.Equal(start))
	require.Equal(t, 120.0, next.TotalPlayTimeSeconds)

	require.Zero(t, next.CurrentResource)
	require.Zero(t, next.TotalResourceEarned)
	require.Zero(t, next.TotalClicks)
	require.Equal(t, catalog.TierID("regular"), next.CurrentTier)
	require.Empty(t, next.UpgradeLevels)
	require.Empty(t, next.ProducerCounts)
	require.True(t, next.LastOnlineTime.Equal(later))
}

func TestTotalUpgradeLevels(t *testing.T) {
	st := player.New("regular", start)
	require.Zero(t, st.TotalUpgradeLevels())

	st.UpgradeLevels["a"] = 2
	st.UpgradeLevels["b"] = 5
	require.Equal(t, 7, st.TotalUpgradeLevels())
}
