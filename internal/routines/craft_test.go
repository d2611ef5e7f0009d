package routines_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/catalog"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/config"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/gameapi/gameapimock"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/orders"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/routines"
)

// TestPickRecipeEmitsGatherOrderForUnmetSkillDeficit is a regression test
// for the craft-candidate scorer (§4.6): a recipe whose material chain
// bottoms out at a resource above the character's skill level must be
// discarded only after handing the shortfall to the order board, not
// silently dropped.
func TestPickRecipeEmitsGatherOrderForUnmetSkillDeficit(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := gameapimock.NewMockClient(ctrl)
	cat := catalog.New(
		[]catalog.Item{
			{
				Code: "iron_sword", Name: "Iron Sword", Type: catalog.ItemTypeWeapon, Level: 1,
				Craft: &catalog.Recipe{
					Skill: "weaponcrafting", Level: 1, Quantity: 1,
					Materials: []catalog.Material{{Code: "iron_ore", Quantity: 1}},
				},
			},
			{Code: "iron_ore", Name: "Iron Ore"},
		},
		nil,
		[]catalog.Resource{
			{Code: "iron_rocks", Name: "Iron Rocks", Skill: "mining", Level: 20, Drops: []catalog.Drop{{Code: "iron_ore", Rate: 1, Min: 1, Max: 1}}},
		},
	)
	shared := newTestSharedWithCatalog(t, client, cat)

	cfg := config.CharacterConfig{Name: "Bob", OrderBoard: orderBoardConfig()}
	cs := routines.NewCharacterState(cfg, 1)
	r := routines.NewCraftingRoutine(shared, cs)
	cc := character.New(&character.Snapshot{
		Name: "Bob", HP: 100, MaxHP: 100, InventoryCapacity: 10,
		Skills: character.SkillSet{Weaponcrafting: 1},
	})

	require.False(t, r.RecipeViableFor(cc, "weaponcrafting"), "mining is below iron_rocks's level, so no candidate is viable")

	all := shared.Orders.All()
	require.Len(t, all, 1)
	order := all[0]
	require.Equal(t, orders.SourceGather, order.SourceType)
	require.Equal(t, "iron_ore", order.ItemCode)
	require.Equal(t, "iron_rocks", order.SourceCode)
}

// TestPickRecipeEmitsFightOrderForUnwinnableFightStep is a regression test
// for the craft-candidate scorer (§4.6): a recipe whose material chain
// bottoms out at a monster drop the character can't currently beat must be
// discarded only after handing the shortfall to the order board.
func TestPickRecipeEmitsFightOrderForUnwinnableFightStep(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := gameapimock.NewMockClient(ctrl)
	cat := catalog.New(
		[]catalog.Item{
			{
				Code: "bone_club", Name: "Bone Club", Type: catalog.ItemTypeWeapon, Level: 1,
				Craft: &catalog.Recipe{
					Skill: "weaponcrafting", Level: 1, Quantity: 1,
					Materials: []catalog.Material{{Code: "bone", Quantity: 1}},
				},
			},
			{Code: "bone", Name: "Bone"},
		},
		[]catalog.Monster{
			{Code: "wolf", Name: "Wolf", Level: 10, HP: 500, Attack: map[catalog.Element]int{catalog.ElementNeutral: 100}, Drops: []catalog.Drop{{Code: "bone", Rate: 1, Min: 1, Max: 1}}},
		},
		nil,
	)
	shared := newTestSharedWithCatalog(t, client, cat)

	cfg := config.CharacterConfig{Name: "Bob", OrderBoard: orderBoardConfig()}
	cs := routines.NewCharacterState(cfg, 1)
	r := routines.NewCraftingRoutine(shared, cs)
	cc := character.New(&character.Snapshot{
		Name: "Bob", HP: 100, MaxHP: 100, InventoryCapacity: 10,
		Skills: character.SkillSet{Weaponcrafting: 1},
	})

	require.False(t, r.RecipeViableFor(cc, "weaponcrafting"), "an unarmed character can't beat the wolf, so no candidate is viable")

	all := shared.Orders.All()
	require.Len(t, all, 1)
	order := all[0]
	require.Equal(t, orders.SourceFight, order.SourceType)
	require.Equal(t, "bone", order.ItemCode)
	require.Equal(t, "wolf", order.SourceCode)
}
