package routines

import (
	"context"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
)

// depositFullnessThreshold triggers a deposit pass even absent any
// keep-map excess, so a nearly-full inventory doesn't stall other routines
// waiting on free slots (§4.9 priority 50, §4.3).
const depositFullnessThreshold = 0.9

// DepositBankRoutine deposits inventory held beyond what Gear State says
// this character should keep on hand, one item per call (§4.9 priority 50).
type DepositBankRoutine struct {
	shared *Shared
}

// NewDepositBankRoutine builds the routine.
func NewDepositBankRoutine(shared *Shared) *DepositBankRoutine {
	return &DepositBankRoutine{shared: shared}
}

func (r *DepositBankRoutine) Name() string                         { return "deposit_bank" }
func (r *DepositBankRoutine) Priority() int                         { return priorityDepositBank }
func (r *DepositBankRoutine) Loop() bool                            { return true }
func (r *DepositBankRoutine) CanBePreempted(character.Context) bool { return true }

func (r *DepositBankRoutine) excessSlot(cc character.Context) (code string, excess int) {
	snap := cc.Snapshot()
	keep := r.shared.Gear.OwnedKeepByCodeForInventory(cc.Name(), snap)
	for _, slot := range snap.Inventory {
		if slot.Quantity <= 0 {
			continue
		}
		if over := slot.Quantity - keep[slot.Code]; over > 0 {
			return slot.Code, over
		}
	}
	if float64(snap.InventoryUsed())/float64(max1(snap.InventoryCapacity)) >= depositFullnessThreshold && len(snap.Inventory) > 0 {
		// No keep-map excess, but inventory is nearly full: deposit
		// whatever's cheapest to part with, the first slot with quantity.
		for _, slot := range snap.Inventory {
			if slot.Quantity > 0 {
				return slot.Code, slot.Quantity
			}
		}
	}
	return "", 0
}

func max1(v int) int {
	if v <= 0 {
		return 1
	}
	return v
}

func (r *DepositBankRoutine) CanRun(cc character.Context) bool {
	code, _ := r.excessSlot(cc)
	return code != ""
}

func (r *DepositBankRoutine) Execute(ctx context.Context, cc character.Context) (bool, error) {
	code, excess := r.excessSlot(cc)
	if code == "" {
		return false, nil
	}
	if acted, err := moveToContent(ctx, r.shared, cc, "bank", ""); err != nil {
		return false, err
	} else if acted {
		return true, nil
	}
	out, err := r.shared.Client.DepositBank(ctx, cc.Name(), code, excess)
	if err != nil {
		return false, err
	}
	cc.ApplyActionResult(out.Character)
	r.shared.Bank.ApplyBankDelta(code, excess)
	moreCode, _ := r.excessSlot(cc)
	return moreCode != "", nil
}
