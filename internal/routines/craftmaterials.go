package routines

import (
	"context"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/orders"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/rotation"
)

// CraftMaterialsRoutine works a claimed craft order from the board:
// withdraw any missing material, craft, and deposit progress to the order
// rather than to the character's own rotation goal (§4.9 priority 11,
// §4.7), mirroring GatherMaterialsRoutine for the craft source type.
type CraftMaterialsRoutine struct {
	shared *Shared
	cs     *CharacterState
}

// NewCraftMaterialsRoutine builds the routine.
func NewCraftMaterialsRoutine(shared *Shared, cs *CharacterState) *CraftMaterialsRoutine {
	return &CraftMaterialsRoutine{shared: shared, cs: cs}
}

func (r *CraftMaterialsRoutine) Name() string                         { return "craft_materials" }
func (r *CraftMaterialsRoutine) Priority() int                         { return priorityCraftMaterials }
func (r *CraftMaterialsRoutine) Loop() bool                            { return true }
func (r *CraftMaterialsRoutine) CanBePreempted(character.Context) bool { return true }

// findOrder scans every crafting skill this character has for a claimable
// craft order — fulfillment isn't tied to the rotation's current skill.
func (r *CraftMaterialsRoutine) findOrder(cc character.Context) (*orders.Order, bool) {
	for _, skill := range rotation.CraftingSkills {
		if o, ok := findClaimableOrder(r.shared, r.cs, cc, orders.SourceCraft, string(skill)); ok {
			return o, true
		}
	}
	return nil, false
}

func (r *CraftMaterialsRoutine) CanRun(cc character.Context) bool {
	if r.cs.activeCraftOrder != nil {
		return true
	}
	if cc.InventoryFull() {
		return false
	}
	_, found := r.findOrder(cc)
	return found
}

func (r *CraftMaterialsRoutine) Execute(ctx context.Context, cc character.Context) (bool, error) {
	order := r.cs.activeCraftOrder
	if order == nil {
		for _, skill := range rotation.CraftingSkills {
			claimed, ok := ensureOrderClaim(r.shared, r.cs, cc, orders.SourceCraft, string(skill))
			if ok {
				order = claimed
				break
			}
		}
		if order == nil {
			return false, nil
		}
		r.cs.activeCraftOrder = order
	}

	item, ok := r.shared.Catalog.Item(order.ItemCode)
	if !ok || item.Craft == nil {
		r.shared.Orders.ReleaseClaim(order.ID, cc.Name())
		r.cs.activeCraftOrder = nil
		return false, nil
	}

	// Depositing what's already carried for this order takes priority over
	// crafting more of it, for the same reason GatherMaterialsRoutine
	// checks this first: once any is in hand, finish handing it off before
	// anything below could walk the character away from the bank mid-deposit.
	if cc.ItemCount(order.ItemCode) > 0 {
		if acted, err := depositOrderFulfillment(ctx, r.shared, cc, order, order.ItemCode, cc.ItemCount(order.ItemCode)); err != nil {
			return false, err
		} else if acted {
			return true, nil
		}
	}

	fresh, ok := r.shared.Orders.Get(order.ID)
	if !ok || fresh.Done() || fresh.ClaimedBy != cc.Name() {
		r.cs.activeCraftOrder = nil
		return false, nil
	}

	if cc.InventoryFull() {
		if acted, err := depositToBank(ctx, r.shared, cc); err != nil {
			return false, err
		} else if acted {
			return true, nil
		}
	}

	qty := item.Craft.Quantity
	if qty <= 0 {
		qty = 1
	}

	for _, mat := range item.Craft.Materials {
		if cc.ItemCount(mat.Code) >= mat.Quantity*qty {
			continue
		}
		need := mat.Quantity*qty - cc.ItemCount(mat.Code)
		if _, withdrew, err := withdrawFromBank(ctx, r.shared, cc, mat.Code, need); err != nil {
			return false, err
		} else if withdrew {
			return true, nil
		}
	}

	out, err := r.shared.Client.Craft(ctx, cc.Name(), item.Code, qty)
	if err != nil {
		return false, err
	}
	cc.ApplyActionResult(out.Character)
	return true, nil
}
