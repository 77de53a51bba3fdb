package progression_test

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/eggsim/internal/catalog"
	"github.com/rpggio/eggsim/internal/clock"
	"github.com/rpggio/eggsim/internal/domain/player"
	"github.com/rpggio/eggsim/internal/domain/progression"
)

var start = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// scriptedRoller replays fixed rolls, then always misses.
type scriptedRoller struct {
	rolls []float64
}

func (s *scriptedRoller) Roll() float64 {
	if len(s.rolls) == 0 {
		return 0.99
	}
	v := s.rolls[0]
	s.rolls = s.rolls[1:]
	return v
}

type seededRoller struct {
	r *rand.Rand
}

func (s seededRoller) Roll() float64 {
	return s.r.Float64()
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) TransitionRejected(op string, err error) {
	m.Called(op, err)
}

func newEngine(t *testing.T, rolls ...float64) (*progression.Engine, *clock.FakeClock) {
	t.Helper()
	clk := clock.NewFakeClock(start)
	eng := progression.NewEngine(catalog.Default(), progression.Options{
		Clock:  clk,
		Roller: &scriptedRoller{rolls: rolls},
	})
	return eng, clk
}

func freshState() player.State {
	return player.New("regular", start)
}

func achievementIDs(list []catalog.Achievement) []catalog.AchievementID {
	ids := make([]catalog.AchievementID, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	return ids
}

func tierIDs(list []catalog.Tier) []catalog.TierID {
	ids := make([]catalog.TierID, 0, len(list))
	for _, tier := range list {
		ids = append(ids, tier.ID)
	}
	return ids
}

func TestHandleClick_FreshState(t *testing.T) {
	eng, _ := newEngine(t)

	res := eng.HandleClick()
	require.Equal(t, 1.0, res.Amount)
	require.False(t, res.IsCritical)
	require.False(t, res.IsGolden)
	require.Empty(t, res.Unlocks.Tiers)
	require.Equal(t, []catalog.AchievementID{"first_egg", "first_click"}, achievementIDs(res.Unlocks.Achievements))

	st := eng.Snapshot()
	require.Equal(t, 1.0, st.CurrentResource)
	require.Equal(t, 1.0, st.TotalResourceEarned)
	require.Equal(t, int64(1), st.TotalClicks)
}

func TestHandleClick_CritBeforeGolden(t *testing.T) {
	st := freshState()
	st.UpgradeLevels["lucky_egg"] = 2
	st.UpgradeLevels["golden_touch"] = 1

	t.Run("crit hit skips golden roll", func(t *testing.T) {
		roller := &scriptedRoller{rolls: []float64{0.05, 0.0}}
		eng := progression.NewEngine(catalog.Default(), progression.Options{Clock: clock.NewFakeClock(start), Roller: roller})
		eng.Restore(st)

		res := eng.HandleClick()
		require.True(t, res.IsCritical)
		require.False(t, res.IsGolden)
		require.Equal(t, 10.0, res.Amount)
		require.Len(t, roller.rolls, 1)
	})

	t.Run("golden on crit miss", func(t *testing.T) {
		eng := progression.NewEngine(catalog.Default(), progression.Options{
			Clock:  clock.NewFakeClock(start),
			Roller: &scriptedRoller{rolls: []float64{0.5, 0.05}},
		})
		eng.Restore(st)

		res := eng.HandleClick()
		require.False(t, res.IsCritical)
		require.True(t, res.IsGolden)
		require.Equal(t, 5.0, res.Amount)
	})

	t.Run("both miss", func(t *testing.T) {
		eng := progression.NewEngine(catalog.Default(), progression.Options{
			Clock:  clock.NewFakeClock(start),
			Roller: &scriptedRoller{rolls: []float64{0.5, 0.5}},
		})
		eng.Restore(st)

		res := eng.HandleClick()
		require.False(t, res.IsCritical)
		require.False(t, res.IsGolden)
		require.Equal(t, 1.0, res.Amount)
	})
}

func TestHandleClick_ClicksPerSecondWindow(t *testing.T) {
	eng, clk := newEngine(t)

	var last progression.ClickResult
	for range 10 {
		last = eng.HandleClick()
		clk.Advance(500 * time.Millisecond)
	}
	require.Contains(t, achievementIDs(last.Unlocks.Achievements), catalog.AchievementID("speed_demon"))
	require.Equal(t, 10, eng.Runtime().ClicksThisSecond)

	clk.Advance(1500 * time.Millisecond)
	eng.HandleClick()
	require.Equal(t, 1, eng.Runtime().ClicksThisSecond)
}

func TestPurchaseUpgrade(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		eng, _ := newEngine(t)
		_, err := eng.PurchaseUpgrade("nope")
		require.ErrorIs(t, err, progression.ErrUnknownUpgrade)
	})

	t.Run("insufficient resource leaves state untouched", func(t *testing.T) {
		eng, _ := newEngine(t)
		st := freshState()
		st.CurrentResource = 99
		st.TotalResourceEarned = 99
		eng.Restore(st)
		before := eng.Snapshot()

		_, err := eng.PurchaseUpgrade("stronger_clicks")
		require.ErrorIs(t, err, progression.ErrInsufficientResource)
		require.Equal(t, before, eng.Snapshot())
	})

	t.Run("max level", func(t *testing.T) {
		eng, _ := newEngine(t)
		st := freshState()
		st.CurrentResource = 1e30
		st.TotalResourceEarned = 1e30
		st.UpgradeLevels["stronger_clicks"] = 20
		eng.Restore(st)

		_, err := eng.PurchaseUpgrade("stronger_clicks")
		require.ErrorIs(t, err, progression.ErrMaxLevel)
		snap := eng.Snapshot()
		require.Equal(t, 20, snap.UpgradeLevel("stronger_clicks"))
	})

	t.Run("success deducts cost and unlocks", func(t *testing.T) {
		eng, _ := newEngine(t)
		st := freshState()
		st.CurrentResource = 100
		st.TotalResourceEarned = 100
		eng.Restore(st)

		unlocks, err := eng.PurchaseUpgrade("stronger_clicks")
		require.NoError(t, err)
		require.Contains(t, achievementIDs(unlocks.Achievements), catalog.AchievementID("first_upgrade"))

		after := eng.Snapshot()
		require.Equal(t, 0.0, after.CurrentResource)
		require.Equal(t, 100.0, after.TotalResourceEarned)
		require.Equal(t, 1, after.UpgradeLevel("stronger_clicks"))
		require.Equal(t, 250.0, eng.Stats().UpgradeCosts["stronger_clicks"])
	})

	t.Run("reaching max unlocks maxed achievement", func(t *testing.T) {
		eng, _ := newEngine(t)
		st := freshState()
		st.CurrentResource = 1e30
		st.TotalResourceEarned = 1e30
		st.UpgradeLevels["golden_touch"] = 9
		eng.Restore(st)

		unlocks, err := eng.PurchaseUpgrade("golden_touch")
		require.NoError(t, err)
		require.Contains(t, achievementIDs(unlocks.Achievements), catalog.AchievementID("max_upgrade"))
	})
}

func TestPurchaseProducer(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		eng, _ := newEngine(t)
		_, err := eng.PurchaseProducer("dragon")
		require.ErrorIs(t, err, progression.ErrUnknownProducer)
	})

	t.Run("insufficient resource", func(t *testing.T) {
		eng, _ := newEngine(t)
		_, err := eng.PurchaseProducer("chicken")
		require.ErrorIs(t, err, progression.ErrInsufficientResource)
		snap := eng.Snapshot()
		require.Zero(t, snap.ProducerCount("chicken"))
	})

	t.Run("success", func(t *testing.T) {
		eng, _ := newEngine(t)
		st := freshState()
		st.CurrentResource = 60
		st.TotalResourceEarned = 60
		eng.Restore(st)

		unlocks, err := eng.PurchaseProducer("chicken")
		require.NoError(t, err)
		require.Contains(t, achievementIDs(unlocks.Achievements), catalog.AchievementID("first_chicken"))

		after := eng.Snapshot()
		require.Equal(t, 10.0, after.CurrentResource)
		require.Equal(t, int64(1), after.ProducerCount("chicken"))
		require.Equal(t, 57.0, eng.Stats().ProducerCosts["chicken"])
	})
}

func TestRestore_NilMapsStillPurchasable(t *testing.T) {
	eng, _ := newEngine(t)
	st := freshState()
	st.UpgradeLevels = nil
	st.ProducerCounts = nil
	st.CurrentResource = 1000
	st.TotalResourceEarned = 1000
	eng.Restore(st)

	_, err := eng.PurchaseProducer("chicken")
	require.NoError(t, err)
	_, err = eng.PurchaseUpgrade("stronger_clicks")
	require.NoError(t, err)
}

func TestSelectTier(t *testing.T) {
	eng, _ := newEngine(t)

	err := eng.SelectTier("brown")
	require.ErrorIs(t, err, progression.ErrTierLocked)
	require.Equal(t, catalog.TierID("regular"), eng.Snapshot().CurrentTier)

	unlocks := eng.AddResource(1000)
	require.Equal(t, []catalog.TierID{"brown"}, tierIDs(unlocks.Tiers))

	require.NoError(t, eng.SelectTier("brown"))
	require.Equal(t, catalog.TierID("brown"), eng.Snapshot().CurrentTier)
}

func TestAddResource_TierUnlocksPrecedeAchievements(t *testing.T) {
	eng, _ := newEngine(t)

	unlocks := eng.AddResource(1e4)
	require.Equal(t, []catalog.TierID{"brown", "blue"}, tierIDs(unlocks.Tiers))
	require.Contains(t, achievementIDs(unlocks.Achievements), catalog.AchievementID("unlock_blue"))
	require.Equal(t, []catalog.TierID{"regular", "brown", "blue"}, eng.Snapshot().UnlockedTiers)
}

func TestAddResource_IgnoresInvalidAmounts(t *testing.T) {
	eng, _ := newEngine(t)

	eng.AddResource(-5)
	eng.AddResource(0)
	require.Zero(t, eng.Snapshot().TotalResourceEarned)
}

func TestPrestige(t *testing.T) {
	t.Run("unavailable below requirement", func(t *testing.T) {
		eng, _ := newEngine(t)
		eng.AddResource(999_999)
		before := eng.Snapshot()

		_, err := eng.Prestige()
		require.ErrorIs(t, err, progression.ErrPrestigeUnavailable)
		require.Equal(t, before, eng.Snapshot())
	})

	t.Run("resets run and keeps survivors", func(t *testing.T) {
		eng, clk := newEngine(t)
		st := freshState()
		st.CurrentResource = 5e6
		st.TotalResourceEarned = 5e6
		st.TotalClicks = 42
		st.UpgradeLevels["stronger_clicks"] = 4
		st.ProducerCounts["farm"] = 3
		eng.Restore(st)
		eng.CheckTierUnlocks()
		eng.CheckAchievements()
		before := eng.Snapshot()
		clk.Advance(time.Minute)

		res, err := eng.Prestige()
		require.NoError(t, err)
		require.Equal(t, 2.0, res.Reward)
		require.Equal(t, int64(1), res.PrestigeCount)
		require.InDelta(t, 1.02, res.NewMultiplier, 1e-12)
		require.Contains(t, achievementIDs(res.Unlocks.Achievements), catalog.AchievementID("first_prestige"))

		after := eng.Snapshot()
		require.Equal(t, 2.0, after.PrestigeCurrency)
		require.Zero(t, after.CurrentResource)
		require.Zero(t, after.TotalResourceEarned)
		require.Zero(t, after.TotalClicks)
		require.Empty(t, after.UpgradeLevels)
		require.Empty(t, after.ProducerCounts)
		require.Equal(t, catalog.TierID("regular"), after.CurrentTier)
		require.Equal(t, before.UnlockedTiers, after.UnlockedTiers)
		require.Subset(t, after.UnlockedAchievements, before.UnlockedAchievements)
		require.Equal(t, before.GameStartTime, after.GameStartTime)
	})
}

func TestTick(t *testing.T) {
	eng, _ := newEngine(t)
	st := freshState()
	st.ProducerCounts["chicken"] = 10
	st.TotalResourceEarned = 999
	eng.Restore(st)

	eng.Tick(0)
	eng.Tick(-1)
	require.Equal(t, 999.0, eng.Snapshot().TotalResourceEarned)

	unlocks := eng.Tick(0.5)
	after := eng.Snapshot()
	require.InDelta(t, 5.0, after.CurrentResource, 1e-9)
	require.InDelta(t, 1004.0, after.TotalResourceEarned, 1e-9)
	require.Equal(t, []catalog.TierID{"brown"}, tierIDs(unlocks.Tiers))
}

func TestCatchUp(t *testing.T) {
	t.Run("credits and announces", func(t *testing.T) {
		eng, _ := newEngine(t)
		st := freshState()
		st.ProducerCounts["chicken"] = 10
		eng.Restore(st)

		credited, _ := eng.CatchUp(time.Hour)
		require.Equal(t, 3600.0, credited)
		require.Equal(t, 3600.0, eng.Snapshot().CurrentResource)

		var welcome []progression.Event
		for _, ev := range eng.DrainEvents() {
			if ev.Type == progression.EventWelcomeBack {
				welcome = append(welcome, ev)
			}
		}
		require.Len(t, welcome, 1)
		data, ok := welcome[0].Data.(progression.WelcomeBackData)
		require.True(t, ok)
		require.Equal(t, 3600.0, data.Credited)
		require.Equal(t, time.Hour, data.Away)
	})

	t.Run("short absence is silent", func(t *testing.T) {
		eng, _ := newEngine(t)
		st := freshState()
		st.ProducerCounts["chicken"] = 10
		eng.Restore(st)

		credited, _ := eng.CatchUp(30 * time.Second)
		require.Zero(t, credited)
		require.Empty(t, eng.DrainEvents())
	})
}

func TestCheckUnlocks_Idempotent(t *testing.T) {
	eng, _ := newEngine(t)
	st := freshState()
	st.TotalResourceEarned = 1e5
	eng.Restore(st)

	require.Equal(t, []catalog.TierID{"brown", "blue", "green"}, tierIDs(eng.CheckTierUnlocks()))
	require.Empty(t, eng.CheckTierUnlocks())

	require.NotEmpty(t, eng.CheckAchievements())
	require.Empty(t, eng.CheckAchievements())
}

func TestPlayTimeAchievementCountsSession(t *testing.T) {
	eng, clk := newEngine(t)
	st := freshState()
	st.TotalPlayTimeSeconds = 3500
	eng.Restore(st)

	require.NotContains(t, achievementIDs(eng.CheckAchievements()), catalog.AchievementID("patient"))
	clk.Advance(100 * time.Second)
	require.Contains(t, achievementIDs(eng.CheckAchievements()), catalog.AchievementID("patient"))
}

func TestCheckpoint_FoldsSessionTime(t *testing.T) {
	eng, clk := newEngine(t)
	clk.Advance(90 * time.Second)

	st := eng.Checkpoint()
	require.Equal(t, 90.0, st.TotalPlayTimeSeconds)
	require.Equal(t, clk.Now(), st.LastSaveTime)
	require.Equal(t, clk.Now(), st.LastOnlineTime)

	st = eng.Checkpoint()
	require.Equal(t, 90.0, st.TotalPlayTimeSeconds)
}

func TestReset(t *testing.T) {
	eng, clk := newEngine(t)
	eng.AddResource(5000)
	clk.Advance(time.Hour)

	eng.Reset()
	st := eng.Snapshot()
	require.Equal(t, player.New("regular", clk.Now()), st)
	require.Empty(t, eng.DrainEvents())
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	eng, _ := newEngine(t)
	st := eng.Snapshot()
	st.UnlockedTiers[0] = "golden"
	st.UpgradeLevels["stronger_clicks"] = 20

	fresh := eng.Snapshot()
	require.Equal(t, catalog.TierID("regular"), fresh.UnlockedTiers[0])
	require.Zero(t, fresh.UpgradeLevel("stronger_clicks"))
}

func TestDrainEvents(t *testing.T) {
	eng, _ := newEngine(t)
	eng.HandleClick()

	events := eng.DrainEvents()
	require.Len(t, events, 3)
	require.Equal(t, progression.EventAchievementUnlocked, events[0].Type)
	require.Equal(t, progression.EventAchievementUnlocked, events[1].Type)
	require.Equal(t, progression.EventClickResolved, events[2].Type)
	require.NotEqual(t, events[0].ID, events[1].ID)
	require.NotEmpty(t, events[2].ID)
	require.Equal(t, start, events[2].At)

	res, ok := events[2].Data.(progression.ClickResult)
	require.True(t, ok)
	require.Equal(t, 1.0, res.Amount)

	require.Empty(t, eng.DrainEvents())
}

func TestDrainEvents_OutboxIsBounded(t *testing.T) {
	eng, _ := newEngine(t)
	for range 1100 {
		eng.HandleClick()
	}

	events := eng.DrainEvents()
	require.Len(t, events, 1024)
	require.Equal(t, progression.EventClickResolved, events[len(events)-1].Type)
}

func TestRecorder_SeesRejections(t *testing.T) {
	rec := &mockRecorder{}
	rec.On("TransitionRejected", "select_tier", mock.Anything).Once()
	rec.On("TransitionRejected", "prestige", progression.ErrPrestigeUnavailable).Once()

	eng := progression.NewEngine(catalog.Default(), progression.Options{
		Clock:    clock.NewFakeClock(start),
		Recorder: rec,
	})
	require.Error(t, eng.SelectTier("golden"))
	_, err := eng.Prestige()
	require.Error(t, err)

	rec.AssertExpectations(t)
}

func TestStats(t *testing.T) {
	eng, _ := newEngine(t)
	eng.AddResource(400)

	stats := eng.Stats()
	require.Equal(t, 1.0, stats.ClickValue)
	require.Zero(t, stats.ProductionRate)
	require.Equal(t, 1.0, stats.PrestigeMultiplier)
	require.Zero(t, stats.PrestigeReward)
	require.Equal(t, 25, stats.AchievementsTotal)
	require.Len(t, stats.UpgradeCosts, 8)
	require.Len(t, stats.ProducerCosts, 8)
	require.NotNil(t, stats.NextTier)
	require.Equal(t, catalog.TierID("brown"), stats.NextTier.ID)
	require.Equal(t, 600.0, stats.NextTierRemaining)
}

func TestInvariantsHoldUnderRandomPlay(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	clk := clock.NewFakeClock(start)
	cat := catalog.Default()
	eng := progression.NewEngine(cat, progression.Options{Clock: clk, Roller: seededRoller{r: r}})
	eng.AddResource(2e6)

	upgrades := cat.Upgrades()
	producers := cat.Producers()
	tiers := cat.Tiers()
	prevCurrency := 0.0
	prevAchievements := 0

	for range 3000 {
		switch r.IntN(6) {
		case 0:
			eng.HandleClick()
		case 1:
			_, _ = eng.PurchaseUpgrade(upgrades[r.IntN(len(upgrades))].ID)
		case 2:
			_, _ = eng.PurchaseProducer(producers[r.IntN(len(producers))].ID)
		case 3:
			_ = eng.SelectTier(tiers[r.IntN(len(tiers))].ID)
		case 4:
			eng.Tick(r.Float64() * 0.1)
		case 5:
			if r.IntN(50) == 0 {
				_, _ = eng.Prestige()
			}
		}
		clk.Advance(time.Duration(r.IntN(200)) * time.Millisecond)

		st := eng.Snapshot()
		require.GreaterOrEqual(t, st.CurrentResource, 0.0)
		require.LessOrEqual(t, st.CurrentResource, st.TotalResourceEarned+1e-6)
		require.GreaterOrEqual(t, st.PrestigeCurrency, prevCurrency)
		require.GreaterOrEqual(t, len(st.UnlockedAchievements), prevAchievements)
		require.True(t, st.HasTier(st.CurrentTier))
		for _, up := range upgrades {
			require.LessOrEqual(t, st.UpgradeLevel(up.ID), up.MaxLevel)
		}
		prevCurrency = st.PrestigeCurrency
		prevAchievements = len(st.UnlockedAchievements)
	}
}

func TestConcurrentClicksAreSerialized(t *testing.T) {
	eng, _ := newEngine(t)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				eng.HandleClick()
			}
		}()
	}
	wg.Wait()

	st := eng.Snapshot()
	require.Equal(t, int64(800), st.TotalClicks)
	require.Equal(t, 800.0, st.TotalResourceEarned)
}
