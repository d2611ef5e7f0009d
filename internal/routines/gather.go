package routines

import (
	"context"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/rotation"
)

// GatherRoutine drives a character's own gathering-skill rotation goal
// (§4.9 priority 10): gear for it, gather from the highest-level reachable
// resource within skill, and record progress. Order-board gather
// fulfillment is GatherMaterialsRoutine, a separate, higher-priority
// executor; this one only ever advances the character's own rotation goal.
type GatherRoutine struct {
	shared *Shared
	cs     *CharacterState
}

// NewGatherRoutine builds the routine.
func NewGatherRoutine(shared *Shared, cs *CharacterState) *GatherRoutine {
	return &GatherRoutine{shared: shared, cs: cs}
}

func (r *GatherRoutine) Name() string                         { return "gather" }
func (r *GatherRoutine) Priority() int                         { return priorityCombatGather }
func (r *GatherRoutine) Loop() bool                            { return true }
func (r *GatherRoutine) CanBePreempted(character.Context) bool { return true }

// currentGatheringSkill reports the character's current rotation skill if
// it's a gathering skill.
func (r *GatherRoutine) currentGatheringSkill(cc character.Context) (string, bool) {
	skill, ok := r.cs.Rotation.Current()
	if !ok {
		return "", false
	}
	for _, g := range rotation.GatheringSkills {
		if g == skill {
			return string(skill), true
		}
	}
	return "", false
}

func (r *GatherRoutine) bestResource(cc character.Context, skill string) (code string, found bool) {
	resources := r.shared.Catalog.ResourcesForSkill(skill, cc.SkillLevel(skill))
	for _, res := range resources {
		if _, ok := r.shared.LocationFor("resource", res.Code); ok {
			return res.Code, true
		}
	}
	return "", false
}

// ResourceViable reports whether skill has a reachable resource at or
// below cc's level, independent of whether skill is the current rotation
// skill — used by the scheduler's pickNext/forceRotate viability check
// (§4.6 "Gathering s").
func (r *GatherRoutine) ResourceViable(cc character.Context, skill string) bool {
	_, found := r.bestResource(cc, skill)
	return found
}

func (r *GatherRoutine) CanRun(cc character.Context) bool {
	skill, ok := r.currentGatheringSkill(cc)
	if !ok {
		return false
	}
	_, found := r.bestResource(cc, skill)
	return found
}

func (r *GatherRoutine) Execute(ctx context.Context, cc character.Context) (bool, error) {
	skill, ok := r.currentGatheringSkill(cc)
	if !ok {
		return false, nil
	}
	resourceCode, found := r.bestResource(cc, skill)
	if !found {
		return false, nil
	}

	if acted, _, err := equipForGathering(ctx, r.shared, r.cs, cc, skill); err != nil || acted {
		return true, err
	}

	if cc.InventoryFull() {
		if acted, err := depositToBank(ctx, r.shared, cc); err != nil {
			return false, err
		} else if acted {
			return true, nil
		}
	}

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

	gained := 0
	for _, stack := range out.Items {
		gained += stack.Quantity
	}
	if gained == 0 {
		gained = gatherStackSize
	}
	r.cs.Rotation.RecordProgress(rotation.Skill(skill), gained)
	return !r.cs.Rotation.GoalMet(rotation.Skill(skill)), nil
}
