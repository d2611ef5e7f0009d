package routines

import (
	"context"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/rotation"
)

// CombatRoutine drives the character's own combat rotation goal (§4.9
// priority 10): pick the best reachable target, gear and provision for it,
// fight, and record progress. Order-board fight fulfillment is
// FightMaterialsRoutine, a separate, higher-priority executor; this one
// only ever advances the character's own SkillCombat progress.
type CombatRoutine struct {
	shared *Shared
	cs     *CharacterState
}

// NewCombatRoutine builds the routine.
func NewCombatRoutine(shared *Shared, cs *CharacterState) *CombatRoutine {
	return &CombatRoutine{shared: shared, cs: cs}
}

func (r *CombatRoutine) Name() string                         { return "combat" }
func (r *CombatRoutine) Priority() int                         { return priorityCombatGather }
func (r *CombatRoutine) Loop() bool                            { return true }
func (r *CombatRoutine) CanBePreempted(character.Context) bool { return true }

func (r *CombatRoutine) CanRun(cc character.Context) bool {
	skill, ok := r.cs.Rotation.Current()
	if !ok || skill != rotation.SkillCombat {
		return false
	}
	_, _, found := r.shared.Optimizer.FindBestCombatTarget(cc.Snapshot(), r.shared.Bank.AvailableBankSnapshot(), false)
	return found
}

func (r *CombatRoutine) Execute(ctx context.Context, cc character.Context) (bool, error) {
	snap := cc.Snapshot()
	monster, _, found := r.shared.Optimizer.FindBestCombatTarget(snap, r.shared.Bank.AvailableBankSnapshot(), false)
	if !found {
		return false, nil
	}

	if cc.ConsecutiveLosses(monster.Code) >= r.cs.Config.MaxLosses {
		next, _, rotated := r.shared.Optimizer.FindBestCombatTarget(snap, r.shared.Bank.AvailableBankSnapshot(), true)
		if !rotated || next.Code == monster.Code {
			return false, nil
		}
		monster = next
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
		return false, err
	} else if acted {
		return true, nil
	}

	out, err := r.shared.Client.Fight(ctx, cc.Name())
	if err != nil {
		return false, err
	}
	cc.ApplyActionResult(out.Character)

	if out.Win {
		cc.ClearLosses(monster.Code)
		r.cs.Rotation.RecordProgress(rotation.SkillCombat, 1)
	} else {
		cc.RecordLoss(monster.Code)
	}
	return !r.cs.Rotation.GoalMet(rotation.SkillCombat), nil
}
