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
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/gear"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/invmirror"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/orders"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/routines"
)

// newTestSharedWithCatalog is newTestShared with a caller-supplied catalog,
// needed whenever a test exercises a lookup (resource skill/level, monster
// stats, recipe materials) the empty catalog.New(nil, nil, nil) can't answer.
func newTestSharedWithCatalog(t *testing.T, client *gameapimock.MockClient, cat *catalog.Catalog) *routines.Shared {
	t.Helper()
	return &routines.Shared{
		Client:    client,
		Catalog:   cat,
		Optimizer: gear.NewOptimizer(cat),
		Bank:      invmirror.New(),
		Orders:    orders.New(),
		Gear:      gear.NewState(cat),
		Blacklist: routines.NewUnreachableBlacklist(),
	}
}

func orderBoardConfig() config.OrderBoardConfig {
	return config.OrderBoardConfig{
		Enabled:        true,
		FulfillOrders:  true,
		LeaseMs:        config.DefaultOrderLeaseMs,
		BlockedRetryMs: config.DefaultBlockedRetryMs,
	}
}

// TestGatherMaterialsRoutineMovesToBankBeforeDepositing is a regression test
// for the gather-order fulfillment deposit path: it must move to the bank
// tile before calling DepositBank, exactly like depositToBank does for the
// character's own inventory.
func TestGatherMaterialsRoutineMovesToBankBeforeDepositing(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := gameapimock.NewMockClient(ctrl)
	cat := catalog.New(nil, nil, []catalog.Resource{
		{Code: "copper_rocks", Name: "Copper Rocks", Skill: "mining", Level: 1},
	})
	shared := newTestSharedWithCatalog(t, client, cat)
	shared.Maps = []gameapi.MapLocation{
		{Position: character.Position{X: 2, Y: 2}, ContentType: "resource", ContentCode: "copper_rocks"},
		{Position: character.Position{X: 5, Y: 5}, ContentType: "bank"},
	}

	cfg := config.CharacterConfig{Name: "Bob", OrderBoard: orderBoardConfig()}
	cs := routines.NewCharacterState(cfg, 1)
	r := routines.NewGatherMaterialsRoutine(shared, cs)
	cc := character.New(&character.Snapshot{
		Name: "Bob", HP: 100, MaxHP: 100, InventoryCapacity: 10,
		Skills: character.SkillSet{Mining: 1},
	})

	shared.Orders.CreateOrMergeOrder(orders.NewOrderRequest{
		Requester: "Alice", ItemCode: "copper_ore", SourceType: orders.SourceGather,
		SourceCode: "copper_rocks", Quantity: 3, Bucket: orders.BucketResource,
	}, time.Now())

	require.True(t, r.CanRun(cc))

	client.EXPECT().Move(gomock.Any(), "Bob", 2, 2).Return(&gameapi.MoveOutcome{
		ActionOutcome: gameapi.ActionOutcome{Character: &character.Snapshot{
			Name: "Bob", HP: 100, MaxHP: 100, InventoryCapacity: 10, Position: character.Position{X: 2, Y: 2},
		}},
	}, nil)
	cont, err := r.Execute(context.Background(), cc)
	require.NoError(t, err)
	require.True(t, cont, "the move to the resource consumed this call")

	client.EXPECT().Gather(gomock.Any(), "Bob").Return(&gameapi.GatherOutcome{
		ActionOutcome: gameapi.ActionOutcome{Character: &character.Snapshot{
			Name: "Bob", HP: 100, MaxHP: 100, InventoryCapacity: 10, Position: character.Position{X: 2, Y: 2},
			Inventory: []character.InventorySlot{{Code: "copper_ore", Quantity: 3}},
		}},
		Items: []gameapi.ItemStack{{Code: "copper_ore", Quantity: 3}},
	}, nil)
	cont, err = r.Execute(context.Background(), cc)
	require.NoError(t, err)
	require.True(t, cont, "gather consumed this call; the deposit still needs follow-up calls")

	// This is the regression check: the very next call must be a Move to
	// the bank tile, not a DepositBank while still standing at the resource.
	client.EXPECT().Move(gomock.Any(), "Bob", 5, 5).Return(&gameapi.MoveOutcome{
		ActionOutcome: gameapi.ActionOutcome{Character: &character.Snapshot{
			Name: "Bob", HP: 100, MaxHP: 100, InventoryCapacity: 10, Position: character.Position{X: 5, Y: 5},
			Inventory: []character.InventorySlot{{Code: "copper_ore", Quantity: 3}},
		}},
	}, nil)
	cont, err = r.Execute(context.Background(), cc)
	require.NoError(t, err)
	require.True(t, cont, "the bank move consumed this call; deposit itself still needs a follow-up call")

	client.EXPECT().DepositBank(gomock.Any(), "Bob", "copper_ore", 3).Return(&gameapi.BankOutcome{
		ActionOutcome: gameapi.ActionOutcome{Character: &character.Snapshot{
			Name: "Bob", HP: 100, MaxHP: 100, InventoryCapacity: 10, Position: character.Position{X: 5, Y: 5},
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
	require.False(t, r.CanRun(cc))
}
