package rotation_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/catalog"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/rotation"
)

func planCatalog() *catalog.Catalog {
	items := []catalog.Item{
		{Code: "iron_sword", Type: catalog.ItemTypeWeapon, Level: 5,
			Craft: &catalog.Recipe{Skill: "weaponcrafting", Level: 5, Quantity: 1,
				Materials: []catalog.Material{{Code: "iron", Quantity: 4}, {Code: "wood", Quantity: 1}}}},
		{Code: "iron", Type: catalog.ItemTypeResource, Level: 1},
		{Code: "wood", Type: catalog.ItemTypeResource, Level: 1},
		// cyclic_a <-> cyclic_b for cycle-detection coverage.
		{Code: "cyclic_a", Type: catalog.ItemTypeResource, Level: 1,
			Craft: &catalog.Recipe{Skill: "weaponcrafting", Level: 1, Quantity: 1,
				Materials: []catalog.Material{{Code: "cyclic_b", Quantity: 1}}}},
		{Code: "cyclic_b", Type: catalog.ItemTypeResource, Level: 1,
			Craft: &catalog.Recipe{Skill: "weaponcrafting", Level: 1, Quantity: 1,
				Materials: []catalog.Material{{Code: "cyclic_a", Quantity: 1}}}},
	}
	resources := []catalog.Resource{
		{Code: "iron_rocks", Skill: "mining", Level: 1,
			Drops: []catalog.Drop{{Code: "iron", Rate: 1, Min: 1, Max: 1}}},
		{Code: "ash_tree", Skill: "woodcutting", Level: 1,
			Drops: []catalog.Drop{{Code: "wood", Rate: 1, Min: 1, Max: 1}}},
	}
	return catalog.New(items, nil, resources)
}

func TestBuildProductionPlanResolvesGatherAndCraftSteps(t *testing.T) {
	cat := planCatalog()
	steps, err := rotation.BuildProductionPlan(cat, 10, map[string]int{"mining": 10, "woodcutting": 10}, nil, nil, "iron_sword", 1)

	require.NoError(t, err)
	require.NotEmpty(t, steps)

	var sawIronGather, sawWoodGather, sawCraft bool
	for _, s := range steps {
		switch {
		case s.Type == rotation.StepGather && s.ItemCode == "iron":
			sawIronGather = true
		case s.Type == rotation.StepGather && s.ItemCode == "wood":
			sawWoodGather = true
		case s.Type == rotation.StepCraft && s.ItemCode == "iron_sword":
			sawCraft = true
		}
	}
	require.True(t, sawIronGather)
	require.True(t, sawWoodGather)
	require.True(t, sawCraft)

	// The craft step must come after its gather dependencies.
	craftIdx, ironIdx, woodIdx := -1, -1, -1
	for i, s := range steps {
		switch {
		case s.Type == rotation.StepCraft && s.ItemCode == "iron_sword":
			craftIdx = i
		case s.Type == rotation.StepGather && s.ItemCode == "iron":
			ironIdx = i
		case s.Type == rotation.StepGather && s.ItemCode == "wood":
			woodIdx = i
		}
	}
	require.Greater(t, craftIdx, ironIdx)
	require.Greater(t, craftIdx, woodIdx)
}

func TestBuildProductionPlanUsesBankBeforeGathering(t *testing.T) {
	cat := planCatalog()
	bank := map[string]int{"iron": 4, "wood": 1}
	steps, err := rotation.BuildProductionPlan(cat, 10, map[string]int{"mining": 10, "woodcutting": 10}, bank, nil, "iron_sword", 1)

	require.NoError(t, err)
	require.True(t, rotation.BankOnly(steps))
	for _, s := range steps {
		require.NotEqual(t, rotation.StepGather, s.Type)
	}
}

func TestBuildProductionPlanDetectsCycle(t *testing.T) {
	cat := planCatalog()
	_, err := rotation.BuildProductionPlan(cat, 10, map[string]int{}, nil, nil, "cyclic_a", 1)
	require.Error(t, err)
}

func TestAvailabilityFractionReflectsPartialStock(t *testing.T) {
	cat := planCatalog()
	bank := map[string]int{"iron": 2}
	steps, err := rotation.BuildProductionPlan(cat, 10, map[string]int{"mining": 10, "woodcutting": 10}, bank, nil, "iron_sword", 1)
	require.NoError(t, err)

	frac := rotation.AvailabilityFraction(steps)
	require.Greater(t, frac, 0.0)
	require.Less(t, frac, 1.0)
}

func TestGatherStepsWithinLevelRejectsUnderleveledResource(t *testing.T) {
	cat := planCatalog()
	steps, err := rotation.BuildProductionPlan(cat, 10, map[string]int{"mining": 0, "woodcutting": 10}, nil, nil, "iron_sword", 1)
	require.NoError(t, err)

	require.False(t, rotation.GatherStepsWithinLevel(cat, steps, map[string]int{"mining": 0, "woodcutting": 10}))
}
