package routines

import (
	"context"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/orders"
)

// FightMaterialsRoutine works a claimed fight order from the board: gear
// up, fight the order's monster, and deposit the dropped item toward the
// order rather than the character's own rotation goal (§4.9 priority 11,
// §4.7), mirroring GatherMaterialsRoutine for the fight source type.
type FightMaterialsRoutine struct {
	shared *Shared
	cs     *CharacterState
}

// NewFightMaterialsRoutine builds the routine.
func NewFightMaterialsRoutine(shared *Shared, cs *CharacterState) *FightMaterialsRoutine {
	return &FightMaterialsRoutine{shared: shared, cs: cs}
}

func (r *FightMaterialsRoutine) Name() string                         { return "fight_materials" }
func (r *FightMaterialsRoutine) Priority() int                         { return priorityFightMaterials }
func (r *FightMaterialsRoutine) Loop() bool                            { return true }
func (r *FightMaterialsRoutine) CanBePreempted(character.Context) bool { return true }

func (r *FightMaterialsRoutine) CanRun(cc character.Context) bool {
	if r.cs.activeFightOrder != nil {
		return true
	}
	_, ok := findClaimableOrder(r.shared, r.cs, cc, orders.SourceFight, "")
	return ok
}

func (r *FightMaterialsRoutine) Execute(ctx context.Context, cc character.Context) (bool, error) {
	order := r.cs.activeFightOrder
	if order == nil {
		claimed, ok := ensureOrderClaim(r.shared, r.cs, cc, orders.SourceFight, "")
		if !ok {
			return false, nil
		}
		order = claimed
		r.cs.activeFightOrder = order
	}

	monster, ok := r.shared.Catalog.Monster(order.SourceCode)
	if !ok {
		r.shared.Orders.ReleaseClaim(order.ID, cc.Name())
		r.cs.activeFightOrder = nil
		return false, nil
	}

	// Depositing what's already carried for this order takes priority over
	// fighting for more of it, for the same reason GatherMaterialsRoutine
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
		r.cs.activeFightOrder = nil
		return false, nil
	}

	if cc.ConsecutiveLosses(monster.Code) >= r.cs.Config.MaxLosses {
		_ = blockOrderClaim(r.shared, order, "max losses exceeded", r.cs.Config.OrderBoard.BlockedRetryMs)
		r.cs.activeFightOrder = nil
		return false, nil
	}

	if acted, _, err := equipForCombat(ctx, r.shared, r.cs, cc, monster); err != nil || acted {
		return true, err
	}
	if acted, _, err := prepareCombatPotions(ctx, r.shared, r.cs, cc); err != nil || acted {
		return true, err
	}
	if acted, _, err := restBeforeFight(ctx, r.shared, cc, monster); err != nil || acted {
		return true, err
	}
	if acted, err := moveToContent(ctx, r.shared, cc, "monster", monster.Code); err != nil {
		r.shared.Orders.ReleaseClaim(order.ID, cc.Name())
		r.cs.activeFightOrder = nil
		return false, err
	} else if acted {
		return true, nil
	}

	out, err := r.shared.Client.Fight(ctx, cc.Name())
	if err != nil {
		return false, err
	}
	cc.ApplyActionResult(out.Character)

	if !out.Win {
		cc.RecordLoss(monster.Code)
		return true, nil
	}
	cc.ClearLosses(monster.Code)
	return true, nil
}
