package routines

import (
	"context"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/orders"
)

// gatherStackSize is the progress GatherRoutine records toward the
// character's own rotation goal when a GatherOutcome reports no items.
const gatherStackSize = 1

// GatherMaterialsRoutine works a claimed gather order from the board: move
// to the resource, gather, and deposit progress to the order rather than
// to the character's own rotation goal (§4.9 priority 11, §4.7).
type GatherMaterialsRoutine struct {
	shared *Shared
	cs     *CharacterState
}

// NewGatherMaterialsRoutine builds the routine.
func NewGatherMaterialsRoutine(shared *Shared, cs *CharacterState) *GatherMaterialsRoutine {
	return &GatherMaterialsRoutine{shared: shared, cs: cs}
}

func (r *GatherMaterialsRoutine) Name() string                         { return "gather_materials" }
func (r *GatherMaterialsRoutine) Priority() int                         { return priorityGatherMaterials }
func (r *GatherMaterialsRoutine) Loop() bool                            { return true }
func (r *GatherMaterialsRoutine) CanBePreempted(character.Context) bool { return true }

func (r *GatherMaterialsRoutine) CanRun(cc character.Context) bool {
	if r.cs.activeGatherOrder != nil {
		return true
	}
	if cc.InventoryFull() {
		return false
	}
	_, ok := findClaimableOrder(r.shared, r.cs, cc, orders.SourceGather, "")
	return ok
}

func (r *GatherMaterialsRoutine) Execute(ctx context.Context, cc character.Context) (bool, error) {
	order := r.cs.activeGatherOrder
	if order == nil {
		claimed, ok := ensureOrderClaim(r.shared, r.cs, cc, orders.SourceGather, "")
		if !ok {
			return false, nil
		}
		order = claimed
		r.cs.activeGatherOrder = order
	}

	// Depositing what's already carried for this order takes priority over
	// gathering more of it: once any of it is in hand, finish handing it
	// off before the unconditional resource move below could walk the
	// character away from the bank mid-deposit.
	if cc.ItemCount(order.ItemCode) > 0 {
		if acted, err := depositOrderFulfillment(ctx, r.shared, cc, order, order.ItemCode, cc.ItemCount(order.ItemCode)); err != nil {
			return false, err
		} else if acted {
			return true, nil
		}
	}

	fresh, ok := r.shared.Orders.Get(order.ID)
	if !ok || fresh.Done() || fresh.ClaimedBy != cc.Name() {
		r.cs.activeGatherOrder = nil
		return false, nil
	}

	if cc.InventoryFull() {
		if acted, err := depositToBank(ctx, r.shared, cc); err != nil {
			return false, err
		} else if acted {
			return true, nil
		}
	}

	if acted, err := moveToContent(ctx, r.shared, cc, "resource", order.SourceCode); err != nil {
		r.shared.Orders.ReleaseClaim(order.ID, cc.Name())
		r.cs.activeGatherOrder = nil
		return false, err
	} else if acted {
		return true, nil
	}

	out, err := r.shared.Client.Gather(ctx, cc.Name())
	if err != nil {
		return false, err
	}
	cc.ApplyActionResult(out.Character)
	return true, nil
}

// depositToBank moves to the bank and deposits the character's entire
// carried stack of whatever's in the first occupied slot, used when
// InventoryFull blocks further gathering mid-order.
func depositToBank(ctx context.Context, shared *Shared, cc character.Context) (bool, error) {
	snap := cc.Snapshot()
	var code string
	var qty int
	for _, slot := range snap.Inventory {
		if slot.Quantity > 0 {
			code, qty = slot.Code, slot.Quantity
			break
		}
	}
	if code == "" {
		return false, nil
	}
	if acted, err := moveToContent(ctx, shared, cc, "bank", ""); err != nil {
		return false, err
	} else if acted {
		return true, nil
	}
	out, err := shared.Client.DepositBank(ctx, cc.Name(), code, qty)
	if err != nil {
		return false, err
	}
	cc.ApplyActionResult(out.Character)
	shared.Bank.ApplyBankDelta(code, qty)
	return true, nil
}
