package gear_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/catalog"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/gear"
)

func TestFindBestLoadoutPicksHighestDamageWeapon(t *testing.T) {
	cat := testCatalog()
	snap := baseSnapshot()
	snap.Inventory = []character.InventorySlot{
		{Code: "wooden_stick", Quantity: 1},
		{Code: "iron_sword", Quantity: 1},
		{Code: "fire_sword", Quantity: 1},
	}
	opt := gear.NewOptimizer(cat)
	wolf, _ := cat.Monster("wolf")

	plan := opt.FindBestLoadout(snap, nil, wolf, false)

	require.Equal(t, "fire_sword", plan.Loadout[catalog.SlotWeapon])
}

func TestFindBestLoadoutFillsDefensiveAndAccessorySlots(t *testing.T) {
	cat := testCatalog()
	snap := baseSnapshot()
	snap.Inventory = []character.InventorySlot{
		{Code: "iron_sword", Quantity: 1},
		{Code: "wooden_shield", Quantity: 1},
		{Code: "leather_helmet", Quantity: 1},
		{Code: "leather_armor", Quantity: 1},
		{Code: "leather_legs", Quantity: 1},
		{Code: "leather_boots", Quantity: 1},
		{Code: "amulet_of_hp", Quantity: 1},
		{Code: "ring_of_str", Quantity: 1},
		{Code: "ring_of_luck", Quantity: 1},
		{Code: "small_bag", Quantity: 1},
		{Code: "big_bag", Quantity: 1},
	}
	opt := gear.NewOptimizer(cat)
	wolf, _ := cat.Monster("wolf")

	plan := opt.FindBestLoadout(snap, nil, wolf, false)

	require.Equal(t, "wooden_shield", plan.Loadout[catalog.SlotShield])
	require.Equal(t, "leather_helmet", plan.Loadout[catalog.SlotHelmet])
	require.Equal(t, "leather_armor", plan.Loadout[catalog.SlotBodyArmor])
	require.Equal(t, "leather_legs", plan.Loadout[catalog.SlotLegArmor])
	require.Equal(t, "leather_boots", plan.Loadout[catalog.SlotBoots])
	require.Equal(t, "amulet_of_hp", plan.Loadout[catalog.SlotAmulet])
	require.Equal(t, "big_bag", plan.Loadout[catalog.SlotBag])
	require.True(t, plan.Outcome.Win)
}

func TestFindBestLoadoutExcludesDuplicateRingWithOnlyOneCopy(t *testing.T) {
	cat := testCatalog()
	snap := baseSnapshot()
	snap.Inventory = []character.InventorySlot{
		{Code: "iron_sword", Quantity: 1},
		{Code: "ring_of_str", Quantity: 1}, // only one copy available
	}
	opt := gear.NewOptimizer(cat)
	wolf, _ := cat.Monster("wolf")

	plan := opt.FindBestLoadout(snap, nil, wolf, false)

	require.Equal(t, "ring_of_str", plan.Loadout[catalog.SlotRing1])
	require.NotEqual(t, "ring_of_str", plan.Loadout[catalog.SlotRing2])
}

func TestFindBestLoadoutAllowsDuplicateRingWithTwoCopies(t *testing.T) {
	cat := testCatalog()
	snap := baseSnapshot()
	snap.Inventory = []character.InventorySlot{
		{Code: "iron_sword", Quantity: 1},
		{Code: "ring_of_str", Quantity: 2}, // two copies available
	}
	opt := gear.NewOptimizer(cat)
	wolf, _ := cat.Monster("wolf")

	plan := opt.FindBestLoadout(snap, nil, wolf, false)

	require.Equal(t, "ring_of_str", plan.Loadout[catalog.SlotRing1])
	require.Equal(t, "ring_of_str", plan.Loadout[catalog.SlotRing2])
}

func TestFindBestLoadoutPlanningModeConsidersCraftableWeapon(t *testing.T) {
	cat := testCatalog()
	snap := baseSnapshot()
	opt := gear.NewOptimizer(cat)
	wolf, _ := cat.Monster("wolf")

	plan := opt.FindBestLoadout(snap, nil, wolf, true)

	// iron_sword is the only weapon with a recipe (craft level 5), so
	// planning mode must pick it even though the character carries nothing.
	require.Equal(t, "iron_sword", plan.Loadout[catalog.SlotWeapon])
}

func TestFindBestLoadoutNonPlanningModeLeavesWeaponEmptyWithNothingCarried(t *testing.T) {
	cat := testCatalog()
	snap := baseSnapshot()
	opt := gear.NewOptimizer(cat)
	wolf, _ := cat.Monster("wolf")

	plan := opt.FindBestLoadout(snap, nil, wolf, false)

	require.Empty(t, plan.Loadout[catalog.SlotWeapon])
}

func TestOptimizeForGatheringPicksBestToolAndProspectingGear(t *testing.T) {
	cat := testCatalog()
	snap := baseSnapshot()
	snap.Inventory = []character.InventorySlot{
		{Code: "iron_pickaxe", Quantity: 1},
	}
	opt := gear.NewOptimizer(cat)

	loadout := opt.OptimizeForGathering(snap, nil, "mining", false)

	require.Equal(t, "iron_pickaxe", loadout[catalog.SlotWeapon])
}

func TestFindBestCombatTargetPicksStrongestWinnableMonster(t *testing.T) {
	cat := testCatalog()
	snap := baseSnapshot()
	snap.Level = 40
	snap.MaxHP, snap.HP = 10000, 10000
	snap.Inventory = []character.InventorySlot{
		{Code: "iron_sword", Quantity: 1},
	}
	opt := gear.NewOptimizer(cat)

	monster, plan, found := opt.FindBestCombatTarget(snap, nil, false)

	require.True(t, found)
	require.True(t, plan.Outcome.Win)
	require.LessOrEqual(t, plan.Outcome.HPLostPercent, 90.0)
	// dragon deals too much damage relative to this HP pool to stay under
	// the 90% threshold, so the strongest reachable win should be the wolf.
	require.Equal(t, "wolf", monster.Code)
}

func TestFindBestCombatTargetReportsNoneWhenNothingWinnable(t *testing.T) {
	cat := testCatalog()
	snap := baseSnapshot()
	snap.MaxHP, snap.HP = 1, 1
	opt := gear.NewOptimizer(cat)

	_, _, found := opt.FindBestCombatTarget(snap, nil, false)

	require.False(t, found)
}
