package catalog

import "time"

func defaultDefinition() Definition {
	return Definition{
		Tiers: []Tier{
			{ID: "regular", Name: "Regular Egg", Description: "A humble beginning", Multiplier: 1, UnlockThreshold: 0},
			{ID: "brown", Name: "Brown Egg", Description: "Farm fresh quality", Multiplier: 1.5, UnlockThreshold: 1e3},
			{ID: "blue", Name: "Blue Egg", Description: "Rare and beautiful", Multiplier: 2, UnlockThreshold: 1e4},
			{ID: "green", Name: "Jade Egg", Description: "Ancient wisdom", Multiplier: 3, UnlockThreshold: 1e5},
			{ID: "purple", Name: "Mystic Egg", Description: "Touched by magic", Multiplier: 5, UnlockThreshold: 1e6},
			{ID: "rainbow", Name: "Rainbow Egg", Description: "Legendary beauty", Multiplier: 10, UnlockThreshold: 1e7},
			{ID: "cosmic", Name: "Cosmic Egg", Description: "Born from stars", Multiplier: 25, UnlockThreshold: 1e8},
			{ID: "golden", Name: "Golden Egg", Description: "Ultimate perfection", Multiplier: 50, UnlockThreshold: 1e9},
		},
		Upgrades: []Upgrade{
			{ID: "stronger_clicks", Name: "Stronger Clicks", Description: "Double your clicking power",
				BaseCost: 100, CostGrowth: 2.5, Effect: EffectClickMultiplier, Magnitude: 2, MaxLevel: 20},
			{ID: "golden_touch", Name: "Golden Touch", Description: "+10% chance for golden clicks (5x value)",
				BaseCost: 500, CostGrowth: 3, Effect: EffectGoldenChance, Magnitude: 0.1, MaxLevel: 10},
			{ID: "egg_polish", Name: "Egg Polish", Description: "+25% to all egg production",
				BaseCost: 1000, CostGrowth: 2.8, Effect: EffectProductionMultiplier, Magnitude: 0.25, MaxLevel: 15},
			{ID: "lucky_egg", Name: "Lucky Egg", Description: "+5% critical click chance (10x value)",
				BaseCost: 2500, CostGrowth: 3.5, Effect: EffectCritChance, Magnitude: 0.05, MaxLevel: 10},
			{ID: "egg_magnet", Name: "Egg Magnet", Description: "+1 egg per second passively",
				BaseCost: 5000, CostGrowth: 2.2, Effect: EffectPassiveProduction, Magnitude: 1, MaxLevel: 50},
			{ID: "time_warp", Name: "Time Warp", Description: "Producers work 10% faster",
				BaseCost: 10000, CostGrowth: 3, Effect: EffectSpeedMultiplier, Magnitude: 0.1, MaxLevel: 10},
			{ID: "egg_overflow", Name: "Egg Overflow", Description: "Clicks also give 1% of eggs per second",
				BaseCost: 25000, CostGrowth: 4, Effect: EffectClickProductionBonus, Magnitude: 0.01, MaxLevel: 10},
			{ID: "prestige_power", Name: "Prestige Power", Description: "+10% bonus from golden eggs",
				BaseCost: 100000, CostGrowth: 5, Effect: EffectPrestigeBonus, Magnitude: 0.1, MaxLevel: 10},
		},
		Producers: []Producer{
			{ID: "chicken", Name: "Chicken", Description: "A simple hen laying eggs", BaseCost: 50, CostGrowth: 1.15, BaseRate: 1},
			{ID: "coop", Name: "Chicken Coop", Description: "Houses multiple chickens", BaseCost: 300, CostGrowth: 1.15, BaseRate: 5},
			{ID: "farm", Name: "Egg Farm", Description: "Industrial egg production", BaseCost: 2000, CostGrowth: 1.15, BaseRate: 25},
			{ID: "factory", Name: "Egg Factory", Description: "Automated egg assembly line", BaseCost: 15000, CostGrowth: 1.15, BaseRate: 100},
			{ID: "lab", Name: "Egg Laboratory", Description: "Scientific egg synthesis", BaseCost: 1e5, CostGrowth: 1.15, BaseRate: 500},
			{ID: "portal", Name: "Egg Portal", Description: "Imports eggs from other dimensions", BaseCost: 1e6, CostGrowth: 1.15, BaseRate: 2500},
			{ID: "singularity", Name: "Egg Singularity", Description: "Bends reality to create eggs", BaseCost: 1e7, CostGrowth: 1.15, BaseRate: 15000},
			{ID: "universe", Name: "Egg Universe", Description: "An entire universe of eggs", BaseCost: 1e8, CostGrowth: 1.15, BaseRate: 1e5},
		},
		Achievements: []Achievement{
			{ID: "first_egg", Name: "First Egg", Description: "Collect your first egg", Condition: Condition{Kind: ConditionTotalEarned, Threshold: 1}},
			{ID: "hundred_eggs", Name: "Egg Collector", Description: "Collect 100 eggs", Condition: Condition{Kind: ConditionTotalEarned, Threshold: 100}},
			{ID: "thousand_eggs", Name: "Egg Hoarder", Description: "Collect 1,000 eggs", Condition: Condition{Kind: ConditionTotalEarned, Threshold: 1e3}},
			{ID: "million_eggs", Name: "Egg Millionaire", Description: "Collect 1,000,000 eggs", Condition: Condition{Kind: ConditionTotalEarned, Threshold: 1e6}},
			{ID: "billion_eggs", Name: "Egg Billionaire", Description: "Collect 1,000,000,000 eggs", Condition: Condition{Kind: ConditionTotalEarned, Threshold: 1e9}},

			{ID: "first_click", Name: "Clicker", Description: "Click the egg", Condition: Condition{Kind: ConditionTotalClicks, Threshold: 1}},
			{ID: "hundred_clicks", Name: "Dedicated Clicker", Description: "Click 100 times", Condition: Condition{Kind: ConditionTotalClicks, Threshold: 100}},
			{ID: "thousand_clicks", Name: "Click Master", Description: "Click 1,000 times", Condition: Condition{Kind: ConditionTotalClicks, Threshold: 1e3}},
			{ID: "ten_thousand_clicks", Name: "Click Legend", Description: "Click 10,000 times", Condition: Condition{Kind: ConditionTotalClicks, Threshold: 1e4}},

			{ID: "first_chicken", Name: "Farmer", Description: "Buy your first chicken", Condition: Condition{Kind: ConditionProducerOwned, Producer: "chicken", Threshold: 1}},
			{ID: "chicken_army", Name: "Chicken Army", Description: "Own 50 chickens", Condition: Condition{Kind: ConditionProducerOwned, Producer: "chicken", Threshold: 50}},
			{ID: "first_factory", Name: "Industrialist", Description: "Build an egg factory", Condition: Condition{Kind: ConditionProducerOwned, Producer: "factory", Threshold: 1}},
			{ID: "first_portal", Name: "Dimensional", Description: "Open an egg portal", Condition: Condition{Kind: ConditionProducerOwned, Producer: "portal", Threshold: 1}},
			{ID: "first_universe", Name: "Cosmic Creator", Description: "Create an egg universe", Condition: Condition{Kind: ConditionProducerOwned, Producer: "universe", Threshold: 1}},

			{ID: "first_upgrade", Name: "Upgraded", Description: "Purchase your first upgrade", Condition: Condition{Kind: ConditionTotalUpgradeLevels, Threshold: 1}},
			{ID: "ten_upgrades", Name: "Enhanced", Description: "Purchase 10 upgrades", Condition: Condition{Kind: ConditionTotalUpgradeLevels, Threshold: 10}},
			{ID: "max_upgrade", Name: "Maxed Out", Description: "Max out any upgrade", Condition: Condition{Kind: ConditionAnyUpgradeMaxed}},

			{ID: "first_prestige", Name: "Reborn", Description: "Prestige for the first time", Condition: Condition{Kind: ConditionPrestigeCount, Threshold: 1}},
			{ID: "five_prestige", Name: "Experienced", Description: "Prestige 5 times", Condition: Condition{Kind: ConditionPrestigeCount, Threshold: 5}},
			{ID: "golden_collector", Name: "Golden Collector", Description: "Collect 100 golden eggs", Condition: Condition{Kind: ConditionPrestigeCurrency, Threshold: 100}},

			{ID: "unlock_blue", Name: "Rare Find", Description: "Unlock the Blue Egg", Condition: Condition{Kind: ConditionTierUnlocked, Tier: "blue"}},
			{ID: "unlock_rainbow", Name: "Rainbow Seeker", Description: "Unlock the Rainbow Egg", Condition: Condition{Kind: ConditionTierUnlocked, Tier: "rainbow"}},
			{ID: "unlock_golden", Name: "Golden Age", Description: "Unlock the Golden Egg", Condition: Condition{Kind: ConditionTierUnlocked, Tier: "golden"}},

			{ID: "speed_demon", Name: "Speed Demon", Description: "Click 10 times in 1 second", Condition: Condition{Kind: ConditionClicksPerSecond, Threshold: 10}},
			{ID: "patient", Name: "Patient", Description: "Play for 1 hour", Condition: Condition{Kind: ConditionPlayTime, Threshold: 3600}},
			{ID: "dedicated", Name: "Dedicated", Description: "Play for 10 hours", Condition: Condition{Kind: ConditionPlayTime, Threshold: 36000}},
		},
		Prestige: PrestigeConfig{
			BaseRequirement: 1e6,
			ScalingExponent: 1.5,
			BonusPerUnit:    0.01,
		},
		Balance: BalanceConfig{
			BaseClickValue:      1,
			CritMultiplier:      10,
			GoldenMultiplier:    5,
			ChanceCap:           0.5,
			OfflineEarningsRate: 0.1,
			MinOfflineDuration:  time.Minute,
			MaxOfflineDuration:  24 * time.Hour,
			AutosaveInterval:    30 * time.Second,
		},
	}
}
