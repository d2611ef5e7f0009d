package routines

import (
	"context"
	"time"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/catalog"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/ctlerr"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/rotation"
)

// itemTaskBatchSize is "the sized batch" shouldTrade checks for
// (§4.7 "Item-task executor"): once a character is carrying this many of
// the task item, trade rather than accumulate further.
const itemTaskBatchSize = 5

// ItemTaskRoutine works an accepted item-collection task: withdraw from
// bank, gather or craft the deficit, and trade in once enough is carried
// (§4.6 "item_task: always viable", §4.7 "Item-task executor").
type ItemTaskRoutine struct {
	shared *Shared
	cs     *CharacterState
}

// NewItemTaskRoutine builds the routine.
func NewItemTaskRoutine(shared *Shared, cs *CharacterState) *ItemTaskRoutine {
	return &ItemTaskRoutine{shared: shared, cs: cs}
}

func (r *ItemTaskRoutine) Name() string                         { return "item_task" }
func (r *ItemTaskRoutine) Priority() int                         { return priorityRotation }
func (r *ItemTaskRoutine) Loop() bool                            { return true }
func (r *ItemTaskRoutine) CanBePreempted(character.Context) bool { return true }

func (r *ItemTaskRoutine) active() bool {
	skill, ok := r.cs.Rotation.Current()
	return ok && skill == rotation.SkillItemTask
}

func (r *ItemTaskRoutine) CanRun(cc character.Context) bool {
	return r.active() && cc.HasTask()
}

// canGatherMore reports whether the task item is a resource this character
// can gather right now (skill sufficient, location known).
func (r *ItemTaskRoutine) canGatherMore(cc character.Context, code string) (string, bool) {
	sources := r.shared.Catalog.ResourceSourcesFor(code)
	for _, res := range sources {
		if cc.SkillLevel(res.Skill) < res.Level {
			continue
		}
		if _, ok := r.shared.LocationFor("resource", res.Code); ok {
			return res.Code, true
		}
	}
	return "", false
}

// shouldTrade decides whether to trade now rather than keep collecting
// (§4.7: "trades when the character has any of the item and (cannot
// gather more right now, or inventory is full, or has accumulated the
// sized batch)").
func (r *ItemTaskRoutine) shouldTrade(cc character.Context, code string) bool {
	have := cc.ItemCount(code)
	if have <= 0 {
		return false
	}
	_, canGather := r.canGatherMore(cc, code)
	return !canGather || cc.InventoryFull() || have >= itemTaskBatchSize
}

func (r *ItemTaskRoutine) Execute(ctx context.Context, cc character.Context) (bool, error) {
	snap := cc.Snapshot()
	code := snap.Task.Code
	if code == "" {
		return false, nil
	}

	if r.shouldTrade(cc, code) {
		have := cc.ItemCount(code)
		qty := have
		if qty > snap.Task.Total-snap.Task.Progress {
			qty = snap.Task.Total - snap.Task.Progress
		}
		if qty <= 0 {
			return false, nil
		}
		out, err := r.shared.Client.TaskTrade(ctx, cc.Name(), code, qty)
		if err != nil {
			if ctlerr.Is(err, ctlerr.CodeMissingItems) {
				// Our cached inventory count overstated what the server
				// actually holds; re-evaluate next tick instead of hard-failing.
				return false, nil
			}
			return false, err
		}
		cc.ApplyActionResult(out.Character)
		return !out.Task.Complete(), nil
	}

	if !cc.HasItem(code, 1) {
		if _, withdrew, err := withdrawFromBank(ctx, r.shared, cc, code, 1); err != nil {
			return false, err
		} else if withdrew {
			return true, nil
		}
	}

	if resourceCode, ok := r.canGatherMore(cc, code); ok {
		if acted, err := moveToContent(ctx, r.shared, cc, "resource", resourceCode); err != nil {
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

	if item, ok := r.shared.Catalog.Item(code); ok && item.Craftable() {
		return r.craftDeficit(ctx, cc, item)
	}

	return r.abandonForDeficit(ctx, cc, code)
}

func (r *ItemTaskRoutine) craftDeficit(ctx context.Context, cc character.Context, item catalog.Item) (bool, error) {
	for _, mat := range item.Craft.Materials {
		need := mat.Quantity - cc.ItemCount(mat.Code)
		if need <= 0 {
			continue
		}
		if _, withdrew, err := withdrawFromBank(ctx, r.shared, cc, mat.Code, need); err != nil {
			return false, err
		} else if withdrew {
			return true, nil
		}
		if resourceCode, ok := r.canGatherMore(cc, mat.Code); ok {
			if acted, err := moveToContent(ctx, r.shared, cc, "resource", resourceCode); err != nil {
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
		return r.abandonForDeficit(ctx, cc, mat.Code)
	}
	out, err := r.shared.Client.Craft(ctx, cc.Name(), item.Code, 1)
	if err != nil {
		return false, err
	}
	cc.ApplyActionResult(out.Character)
	return true, nil
}

// abandonForDeficit emits a gather order for the missing material and
// cancels the task, the last resort when neither gathering nor crafting
// can close the deficit (§4.7: "emits gather orders for the deficit and
// cancels the task").
func (r *ItemTaskRoutine) abandonForDeficit(ctx context.Context, cc character.Context, code string) (bool, error) {
	if r.cs.Config.OrderBoard.Enabled && r.cs.Config.OrderBoard.CreateOrders {
		sources := r.shared.Catalog.ResourceSourcesFor(code)
		if len(sources) > 0 {
			req := gatherOrderRequest(r.shared.Catalog, cc.Name(), code, sources[0].Code, 1)
			r.shared.Orders.CreateOrMergeOrder(req, time.Now())
		}
	}
	out, err := r.shared.Client.CancelTask(ctx, cc.Name())
	if err != nil {
		return false, err
	}
	cc.ApplyActionResult(out.Character)
	return false, nil
}
