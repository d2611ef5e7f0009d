package routines_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/catalog"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/config"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/gameapi"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/gameapi/gameapimock"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/orders"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/routines"
)

func copperRingCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Item{
		{
			Code: "copper_ring", Name: "Copper Ring", Type: catalog.ItemTypeRing, Level: 1,
			Craft: &catalog.Recipe{
				Skill: "gearcrafting", Level: 1, Quantity: 1,
				Materials: []catalog.Material{{Code: "copper_ore", Quantity: 2}},
			},
		},
	}, nil, nil)
}

// TestCraftMaterialsRoutineClaimsWithdrawsCraftsAndDeposits exercises the
// full order-claim-aware craft path end to end (§4.7's "ALL source types"
// requirement, previously unimplemented for orders.SourceCraft).
func TestCraftMaterialsRoutineClaimsWithdrawsCraftsAndDeposits(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := gameapimock.NewMockClient(ctrl)
	cat := copperRingCatalog()
	shared := newTestSharedWithCatalog(t, client, cat)
	shared.Bank.ReplaceBank(map[string]int{"copper_ore": 10})
	shared.Maps = []gameapi.MapLocation{
		{Position: character.Position{X: 5, Y: 5}, ContentType: "bank"},
	}

	cfg := config.CharacterConfig{Name: "Bob", OrderBoard: orderBoardConfig()}
	cs := routines.NewCharacterState(cfg, 1)
	r := routines.NewCraftMaterialsRoutine(shared, cs)
	cc := character.New(&character.Snapshot{
		Name: "Bob", HP: 100, MaxHP: 100, InventoryCapacity: 10,
		Skills: character.SkillSet{Gearcrafting: 1},
	})

	shared.Orders.CreateOrMergeOrder(orders.NewOrderRequest{
		Requester: "Alice", ItemCode: "copper_ring", SourceType: orders.SourceCraft,
		SourceCode: "copper_ring", SourceLevel: 1, Quantity: 1, Bucket: orders.BucketGear,
	}, time.Now())

	require.True(t, r.CanRun(cc))

	client.EXPECT().WithdrawBank(gomock.Any(), "Bob", "copper_ore", 2).Return(&gameapi.BankOutcome{
		ActionOutcome: gameapi.ActionOutcome{Character: &character.Snapshot{
			Name: "Bob", HP: 100, MaxHP: 100, InventoryCapacity: 10,
			Inventory: []character.InventorySlot{{Code: "copper_ore", Quantity: 2}},
			Skills:    character.SkillSet{Gearcrafting: 1},
		}},
	}, nil)
	cont, err := r.Execute(context.Background(), cc)
	require.NoError(t, err)
	require.True(t, cont, "the withdraw consumed this call; crafting still needs a follow-up call")

	client.EXPECT().Craft(gomock.Any(), "Bob", "copper_ring", 1).Return(&gameapi.CraftOutcome{
		ActionOutcome: gameapi.ActionOutcome{Character: &character.Snapshot{
			Name: "Bob", HP: 100, MaxHP: 100, InventoryCapacity: 10,
			Inventory: []character.InventorySlot{{Code: "copper_ring", Quantity: 1}},
			Skills:    character.SkillSet{Gearcrafting: 1},
		}},
	}, nil)
	cont, err = r.Execute(context.Background(), cc)
	require.NoError(t, err)
	require.True(t, cont, "the craft consumed this call; the deposit still needs follow-up calls")

	// This is the regression check mirroring GatherMaterialsRoutine: the
	// craft-order deposit must move to the bank tile before calling
	// DepositBank, not the other way around.
	client.EXPECT().Move(gomock.Any(), "Bob", 5, 5).Return(&gameapi.MoveOutcome{
		ActionOutcome: gameapi.ActionOutcome{Character: &character.Snapshot{
			Name: "Bob", HP: 100, MaxHP: 100, InventoryCapacity: 10, Position: character.Position{X: 5, Y: 5},
			Inventory: []character.InventorySlot{{Code: "copper_ring", Quantity: 1}},
			Skills:    character.SkillSet{Gearcrafting: 1},
		}},
	}, nil)
	cont, err = r.Execute(context.Background(), cc)
	require.NoError(t, err)
	require.True(t, cont, "the bank move consumed this call; deposit itself still needs a follow-up call")

	client.EXPECT().DepositBank(gomock.Any(), "Bob", "copper_ring", 1).Return(&gameapi.BankOutcome{
		ActionOutcome: gameapi.ActionOutcome{Character: &character.Snapshot{
			Name: "Bob", HP: 100, MaxHP: 100, InventoryCapacity: 10, Position: character.Position{X: 5, Y: 5},
			Skills: character.SkillSet{Gearcrafting: 1},
		}},
	}, nil)
	cont, err = r.Execute(context.Background(), cc)
	require.NoError(t, err)
	require.True(t, cont, "the deposit consumed this call; the order's done check runs next call")

	fresh, ok := shared.Orders.Get(shared.Orders.All()[0].ID)
	require.True(t, ok)
	require.True(t, fresh.Done())

	cont, err = r.Execute(context.Background(), cc)
	require.NoError(t, err)
	require.False(t, cont, "the order is fully fulfilled, nothing left to work")
}
