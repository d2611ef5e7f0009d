package routines

import (
	"context"
	"time"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/catalog"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/config"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/rotation"
)

// CraftingRoutine drives a character's own crafting-skill rotation goal
// (§4.9 priority 5, §4.6 "Crafting s", §4.7 "Crafting executor"): score
// candidate recipes, walk the production plan one step per call, and
// record progress when the craft completes.
type CraftingRoutine struct {
	shared *Shared
	cs     *CharacterState
}

// NewCraftingRoutine builds the routine.
func NewCraftingRoutine(shared *Shared, cs *CharacterState) *CraftingRoutine {
	return &CraftingRoutine{shared: shared, cs: cs}
}

func (r *CraftingRoutine) Name() string                         { return "crafting" }
func (r *CraftingRoutine) Priority() int                         { return priorityRotation }
func (r *CraftingRoutine) Loop() bool                            { return true }
func (r *CraftingRoutine) CanBePreempted(character.Context) bool { return true }

func (r *CraftingRoutine) currentCraftingSkill() (string, bool) {
	skill, ok := r.cs.Rotation.Current()
	if !ok {
		return "", false
	}
	for _, s := range rotation.CraftingSkills {
		if s == skill {
			return string(skill), true
		}
	}
	return "", false
}

// skillLevels builds the map BuildProductionPlan/GatherStepsWithinLevel
// need: this character's level in every skill a production chain might
// touch.
func skillLevels(cc character.Context) map[string]int {
	out := make(map[string]int, len(rotation.AllSkills))
	for _, s := range rotation.AllSkills {
		out[string(s)] = cc.SkillLevel(string(s))
	}
	return out
}

func inventoryCounts(snap *character.Snapshot) map[string]int {
	out := make(map[string]int, len(snap.Inventory))
	for _, slot := range snap.Inventory {
		out[slot.Code] += slot.Quantity
	}
	return out
}

func isBlacklisted(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

// fightStepsWinnable reports whether every StepFight entry in steps is a
// simulation win with at most 90% HP lost for this character's best
// attainable loadout (§4.6 viability rule b).
func (r *CraftingRoutine) fightStepsWinnable(snap *character.Snapshot, bank map[string]int, steps []rotation.PlanStep) bool {
	for _, s := range steps {
		if s.Type != rotation.StepFight {
			continue
		}
		monster, ok := r.shared.Catalog.Monster(s.MonsterCode)
		if !ok {
			return false
		}
		plan := r.shared.Optimizer.FindBestLoadout(snap, bank, monster, true)
		if !plan.Outcome.Win || plan.Outcome.HPLostPercent > 90 {
			return false
		}
	}
	return true
}

// emitGatherDeficits hands off any gather step this character's skill is
// too low for onto the order board, so another character can close the
// shortfall instead of the recipe being discarded outright (§4.6 "unmet
// gather deficits when skill is too low auto-emit gather orders").
func (r *CraftingRoutine) emitGatherDeficits(requester string, steps []rotation.PlanStep, skills map[string]int, now time.Time) {
	for _, s := range steps {
		if s.Type != rotation.StepGather || s.ResourceCode == "" {
			continue
		}
		res, ok := r.shared.Catalog.Resource(s.ResourceCode)
		if !ok || skills[res.Skill] >= res.Level {
			continue
		}
		req := gatherOrderRequest(r.shared.Catalog, requester, s.ItemCode, s.ResourceCode, s.Quantity)
		r.shared.Orders.CreateOrMergeOrder(req, now)
	}
}

// emitFightDeficits hands off any unwinnable fight step onto the order
// board (§4.6 "Unmet fight deficits auto-emit fight orders").
func (r *CraftingRoutine) emitFightDeficits(requester string, snap *character.Snapshot, bank map[string]int, steps []rotation.PlanStep, now time.Time) {
	for _, s := range steps {
		if s.Type != rotation.StepFight {
			continue
		}
		monster, ok := r.shared.Catalog.Monster(s.MonsterCode)
		if !ok {
			continue
		}
		plan := r.shared.Optimizer.FindBestLoadout(snap, bank, monster, true)
		if plan.Outcome.Win {
			continue
		}
		req := fightOrderRequest(r.shared.Catalog, requester, s.ItemCode, s.MonsterCode, s.Quantity)
		r.shared.Orders.CreateOrMergeOrder(req, now)
	}
}

// craftCandidate is one scored, viable recipe.
type craftCandidate struct {
	item      catalog.Item
	steps     []rotation.PlanStep
	bankOnly  bool
	available float64
}

// pickRecipe scores every recipe this skill can craft at or below the
// character's level (§4.6 "Score by craft level desc, then availability
// desc. Prefer bank-only candidates when any exist.").
func (r *CraftingRoutine) pickRecipe(cc character.Context, skill string) (craftCandidate, bool) {
	snap := cc.Snapshot()
	now := time.Now()
	skills := skillLevels(cc)
	bank := r.shared.Bank.AvailableBankSnapshot()
	inventory := inventoryCounts(snap)

	var candidates []craftCandidate
	for _, item := range r.shared.Catalog.RecipesForSkill(skill, cc.SkillLevel(skill)) {
		if isBlacklisted(r.cs.Config.RecipeBlacklist, item.Code) {
			continue
		}
		if r.cs.Rotation.IsRecipeBlocked(rotation.Skill(skill), item.Code, now) {
			continue
		}
		qty := item.Craft.Quantity
		if qty <= 0 {
			qty = 1
		}
		steps, err := rotation.BuildProductionPlan(r.shared.Catalog, snap.Level, skills, bank, inventory, item.Code, qty)
		if err != nil {
			continue // recipe chain cycle
		}
		if !rotation.GatherStepsWithinLevel(r.shared.Catalog, steps, skills) {
			r.emitGatherDeficits(cc.Name(), steps, skills, now)
			continue
		}
		if !r.fightStepsWinnable(snap, bank, steps) {
			r.emitFightDeficits(cc.Name(), snap, bank, steps, now)
			r.cs.Rotation.BlockRecipe(rotation.Skill(skill), item.Code, time.Duration(r.cs.Config.RecipeBlockMs)*time.Millisecond, now)
			continue
		}
		candidates = append(candidates, craftCandidate{
			item: item, steps: steps,
			bankOnly:  rotation.BankOnly(steps),
			available: rotation.AvailabilityFraction(steps),
		})
	}
	if len(candidates) == 0 {
		return craftCandidate{}, false
	}

	anyBankOnly := false
	for _, c := range candidates {
		if c.bankOnly {
			anyBankOnly = true
			break
		}
	}

	var best craftCandidate
	found := false
	for _, c := range candidates {
		if anyBankOnly && !c.bankOnly {
			continue
		}
		if !found || c.item.Craft.Level > best.item.Craft.Level ||
			(c.item.Craft.Level == best.item.Craft.Level && c.available > best.available) {
			best, found = c, true
		}
	}
	return best, found
}

// RecipeViableFor reports whether skill currently has a scoreable recipe
// candidate, independent of whether skill is the current rotation skill —
// used by the scheduler's pickNext/forceRotate viability check (§4.6
// "Crafting s").
func (r *CraftingRoutine) RecipeViableFor(cc character.Context, skill string) bool {
	_, found := r.pickRecipe(cc, skill)
	return found
}

func (r *CraftingRoutine) CanRun(cc character.Context) bool {
	skill, ok := r.currentCraftingSkill()
	if !ok {
		return false
	}
	if r.cs.activeCraftSkill == skill && r.cs.activeCraftItem != "" {
		return true
	}
	_, found := r.pickRecipe(cc, skill)
	return found
}

// reserveSlots computes the free-inventory-slot reserve the crafting
// executor must not eat into while gathering materials (§4.7 "reserve
// policy"): 10% of capacity, bounded to [8, 20], capped at capacity-1.
func reserveSlots(capacity int) int {
	reserve := int(float64(capacity)*config.ReservePct + 0.5)
	if reserve < config.ReserveMin {
		reserve = config.ReserveMin
	}
	if reserve > config.ReserveMax {
		reserve = config.ReserveMax
	}
	if reserve > capacity-1 {
		reserve = capacity - 1
	}
	if reserve < 0 {
		reserve = 0
	}
	return reserve
}

func (r *CraftingRoutine) Execute(ctx context.Context, cc character.Context) (bool, error) {
	skill, ok := r.currentCraftingSkill()
	if !ok {
		return false, nil
	}

	if r.cs.activeCraftSkill != skill || r.cs.activeCraftItem == "" {
		cand, found := r.pickRecipe(cc, skill)
		if !found {
			return false, nil
		}
		r.cs.activeCraftSkill = skill
		r.cs.activeCraftItem = cand.item.Code
	}

	snap := cc.Snapshot()
	bank := r.shared.Bank.AvailableBankSnapshot()
	inventory := inventoryCounts(snap)
	item, ok := r.shared.Catalog.Item(r.cs.activeCraftItem)
	if !ok {
		r.cs.activeCraftItem = ""
		return false, nil
	}
	qty := item.Craft.Quantity
	if qty <= 0 {
		qty = 1
	}
	steps, err := rotation.BuildProductionPlan(r.shared.Catalog, snap.Level, skillLevels(cc), bank, inventory, item.Code, qty)
	if err != nil {
		r.cs.activeCraftItem = ""
		return false, nil
	}

	if snap.InventoryFree() <= reserveSlots(snap.InventoryCapacity) {
		if acted, err := depositToBank(ctx, r.shared, cc); err != nil {
			return false, err
		} else if acted {
			return true, nil
		}
	}

	for _, step := range steps {
		switch step.Type {
		case rotation.StepBank:
			continue
		case rotation.StepGather:
			if acted, err := moveToContent(ctx, r.shared, cc, "resource", step.ResourceCode); err != nil {
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
		case rotation.StepFight:
			monster, ok := r.shared.Catalog.Monster(step.MonsterCode)
			if !ok {
				r.cs.activeCraftItem = ""
				return false, nil
			}
			if cc.ConsecutiveLosses(monster.Code) >= r.cs.Config.MaxLosses {
				r.cs.Rotation.BlockRecipe(rotation.Skill(skill), r.cs.activeCraftItem, time.Duration(r.cs.Config.RecipeBlockMs)*time.Millisecond, time.Now())
				r.cs.activeCraftItem = ""
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
		case rotation.StepCraft:
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
			r.cs.Rotation.RecordProgress(rotation.Skill(skill), qty)
			r.cs.activeCraftItem = ""
			return !r.cs.Rotation.GoalMet(rotation.Skill(skill)), nil
		}
	}
	r.cs.activeCraftItem = ""
	return false, nil
}
