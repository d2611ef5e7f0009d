package routines

import (
	"context"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/gameapi"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/rotation"
)

// AchievementRoutine drives a character's own achievement rotation goal
// (§4.6 "achievement", §4.7 "Achievement executor"): picks the easiest
// incomplete account achievement and works its objective directly.
// Account-wide task objectives are left to the NPC-task routines; this
// routine only acts on combat, gathering, and bank-only crafting
// objectives, where it can resolve a concrete target itself.
type AchievementRoutine struct {
	shared *Shared
	cs     *CharacterState

	achievements []gameapi.Achievement
}

// NewAchievementRoutine builds the routine.
func NewAchievementRoutine(shared *Shared, cs *CharacterState) *AchievementRoutine {
	return &AchievementRoutine{shared: shared, cs: cs}
}

func (r *AchievementRoutine) Name() string                         { return "achievement" }
func (r *AchievementRoutine) Priority() int                         { return priorityRotation }
func (r *AchievementRoutine) Loop() bool                            { return true }
func (r *AchievementRoutine) CanBePreempted(character.Context) bool { return true }

// SetAchievements lets the scheduler refresh the cached achievement list
// (fetched via GetAccountAchievements) without this routine owning the
// network call itself.
func (r *AchievementRoutine) SetAchievements(list []gameapi.Achievement) {
	r.achievements = list
}

func (r *AchievementRoutine) actionable() []gameapi.Achievement {
	var out []gameapi.Achievement
	for _, a := range r.achievements {
		if isBlacklisted(r.cs.Config.Achievements.Blacklist, a.Code) {
			continue
		}
		if len(r.cs.Config.Achievements.Types) > 0 && !isBlacklisted(r.cs.Config.Achievements.Types, string(a.ObjectiveType)) {
			continue
		}
		switch a.ObjectiveType {
		case gameapi.ObjectiveCombatKills, gameapi.ObjectiveCombatDrops, gameapi.ObjectiveGathering, gameapi.ObjectiveCrafting:
			out = append(out, a)
		}
	}
	return out
}

func (r *AchievementRoutine) pick(cc character.Context) (gameapi.Achievement, bool) {
	skill, ok := r.cs.Rotation.Current()
	if !ok || skill != rotation.SkillAchievement {
		return gameapi.Achievement{}, false
	}
	return rotation.PickEasiestAchievement(r.actionable(), r.lookupLevel())
}

func (r *AchievementRoutine) lookupLevel() func(string) (int, bool) {
	return func(code string) (int, bool) {
		if m, ok := r.shared.Catalog.Monster(code); ok {
			return m.Level, true
		}
		if res, ok := r.shared.Catalog.Resource(code); ok {
			return res.Level, true
		}
		if it, ok := r.shared.Catalog.Item(code); ok {
			return it.Level, true
		}
		return 0, false
	}
}

// HasActionable reports whether any cached achievement has a workable
// objective, independent of whether achievement is the current rotation
// skill — used by the scheduler's pickNext/forceRotate viability check.
func (r *AchievementRoutine) HasActionable() bool {
	_, ok := rotation.PickEasiestAchievement(r.actionable(), r.lookupLevel())
	return ok
}

func (r *AchievementRoutine) CanRun(cc character.Context) bool {
	_, ok := r.pick(cc)
	return ok
}

func (r *AchievementRoutine) Execute(ctx context.Context, cc character.Context) (bool, error) {
	a, ok := r.pick(cc)
	if !ok {
		return false, nil
	}

	switch a.ObjectiveType {
	case gameapi.ObjectiveCombatKills, gameapi.ObjectiveCombatDrops:
		monster, ok := r.shared.Catalog.Monster(a.TargetCode)
		if !ok {
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
		} else {
			cc.RecordLoss(monster.Code)
		}
		return true, nil

	case gameapi.ObjectiveGathering:
		if acted, err := moveToContent(ctx, r.shared, cc, "resource", a.TargetCode); err != nil {
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

	case gameapi.ObjectiveCrafting:
		item, ok := r.shared.Catalog.Item(a.TargetCode)
		if !ok || item.Craft == nil {
			return false, nil
		}
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
		}
		out, err := r.shared.Client.Craft(ctx, cc.Name(), item.Code, 1)
		if err != nil {
			return false, err
		}
		cc.ApplyActionResult(out.Character)
		return true, nil
	}
	return false, nil
}
