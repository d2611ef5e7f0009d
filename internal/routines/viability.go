package routines

import (
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/rotation"
)

// RotationViabilityChecker answers the scheduler's pickNext/forceRotate
// viability callback (§4.6) by delegating to each skill-driving routine's
// independent viability check, rather than duplicating the setup logic.
// It satisfies scheduler.RotationViability structurally.
type RotationViabilityChecker struct {
	Shared      *Shared
	Gather      *GatherRoutine
	Crafting    *CraftingRoutine
	Achievement *AchievementRoutine
}

// Viable reports whether skill currently has workable targets.
func (v *RotationViabilityChecker) Viable(cc character.Context, skill rotation.Skill) bool {
	switch skill {
	case rotation.SkillCombat:
		_, _, ok := v.Shared.Optimizer.FindBestCombatTarget(cc.Snapshot(), v.Shared.Bank.AvailableBankSnapshot(), false)
		return ok
	case rotation.SkillMining, rotation.SkillWoodcutting, rotation.SkillFishing:
		return v.Gather.ResourceViable(cc, string(skill))
	case rotation.SkillCooking, rotation.SkillAlchemy, rotation.SkillWeaponcrafting, rotation.SkillGearcrafting, rotation.SkillJewelrycrafting:
		return v.Crafting.RecipeViableFor(cc, string(skill))
	case rotation.SkillNPCTask, rotation.SkillItemTask:
		return true
	case rotation.SkillAchievement:
		return v.Achievement.HasActionable()
	default:
		return false
	}
}
