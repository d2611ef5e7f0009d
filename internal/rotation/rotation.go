// Package rotation implements the per-character skill-rotation state
// machine (§4.6): a weight-biased selector over a bounded set of skills,
// the production-plan walker that decides whether a craft goal is
// reachable, and the recipe-block/TTL bookkeeping that keeps a bad recipe
// out of rotation for a while instead of retrying it every tick.
package rotation

import (
	"math"
	"math/rand/v2"
	"time"
)

// Skill is one of the twelve things a character's rotation can pick.
type Skill string

const (
	SkillMining          Skill = "mining"
	SkillWoodcutting     Skill = "woodcutting"
	SkillFishing         Skill = "fishing"
	SkillCooking         Skill = "cooking"
	SkillAlchemy         Skill = "alchemy"
	SkillWeaponcrafting  Skill = "weaponcrafting"
	SkillGearcrafting    Skill = "gearcrafting"
	SkillJewelrycrafting Skill = "jewelrycrafting"
	SkillCombat          Skill = "combat"
	SkillNPCTask         Skill = "npc_task"
	SkillItemTask        Skill = "item_task"
	SkillAchievement     Skill = "achievement"
)

// GatheringSkills and CraftingSkills mirror character.GatheringSkills and
// character.CraftingSkills as rotation.Skill values.
var (
	GatheringSkills = []Skill{SkillMining, SkillWoodcutting, SkillFishing}
	CraftingSkills  = []Skill{SkillCooking, SkillAlchemy, SkillWeaponcrafting, SkillGearcrafting, SkillJewelrycrafting}
	// AllSkills lists every skill pickNext/forceRotate can choose among.
	AllSkills = append(append(append([]Skill{}, GatheringSkills...), CraftingSkills...), SkillCombat, SkillNPCTask, SkillItemTask, SkillAchievement)
)

// defaultGoalTarget is the fallback goal for a skill with no config
// override (§4.6: "Goal target from config (default 20)", "combat ... 10").
func defaultGoalTarget(s Skill) int {
	if s == SkillCombat {
		return 10
	}
	if s == SkillNPCTask || s == SkillItemTask || s == SkillAchievement {
		return 1
	}
	return 20
}

// recipeBlockKey identifies one (skill, recipe) pair suppressed by the
// recipe block map.
type recipeBlockKey struct {
	Skill      Skill
	RecipeCode string
}

// Rotation is the per-character skill-rotation state machine.
type Rotation struct {
	rng *rand.Rand

	current Skill
	hasCurrent bool

	goalProgress map[Skill]int
	goalTarget   map[Skill]int

	blocked map[recipeBlockKey]time.Time
}

// New builds a Rotation seeded by seed (deterministic and reproducible,
// §9 "weight-biased random selection ... deterministic under a seedable
// RNG"). goalTargetOverrides may be nil or partial; unset skills use the
// §4.6 defaults.
func New(seed uint64, goalTargetOverrides map[Skill]int) *Rotation {
	r := &Rotation{
		rng:          rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		goalProgress: make(map[Skill]int),
		goalTarget:   make(map[Skill]int),
		blocked:      make(map[recipeBlockKey]time.Time),
	}
	for _, s := range AllSkills {
		r.goalTarget[s] = defaultGoalTarget(s)
	}
	for s, v := range goalTargetOverrides {
		r.goalTarget[s] = v
	}
	return r
}

// Current returns the currently selected skill and whether one has been
// picked yet.
func (r *Rotation) Current() (Skill, bool) {
	return r.current, r.hasCurrent
}

// GoalProgress returns the accumulated progress toward skill's goal.
func (r *Rotation) GoalProgress(skill Skill) int { return r.goalProgress[skill] }

// GoalTarget returns the configured goal target for skill.
func (r *Rotation) GoalTarget(skill Skill) int { return r.goalTarget[skill] }

// GoalMet reports whether skill has reached its goal target.
func (r *Rotation) GoalMet(skill Skill) bool {
	return r.goalProgress[skill] >= r.goalTarget[skill]
}

// RecordProgress advances goalProgress for skill by n (§4.6
// "recordProgress(n) advances it").
func (r *Rotation) RecordProgress(skill Skill, n int) {
	r.goalProgress[skill] += n
}

// ResetProgress zeroes goalProgress for skill, called when a new skill is
// entered so its goal starts fresh.
func (r *Rotation) ResetProgress(skill Skill) {
	r.goalProgress[skill] = 0
}

// BlockRecipe suppresses (skill, recipeCode) until ttl elapses (§4.6
// "time-box-block the recipe").
func (r *Rotation) BlockRecipe(skill Skill, recipeCode string, ttl time.Duration, now time.Time) {
	r.blocked[recipeBlockKey{skill, recipeCode}] = now.Add(ttl)
}

// IsRecipeBlocked reports whether (skill, recipeCode) is currently
// suppressed, self-pruning the entry if its TTL has elapsed (§4.6 "The map
// self-prunes on access").
func (r *Rotation) IsRecipeBlocked(skill Skill, recipeCode string, now time.Time) bool {
	key := recipeBlockKey{skill, recipeCode}
	expiry, ok := r.blocked[key]
	if !ok {
		return false
	}
	if !now.Before(expiry) {
		delete(r.blocked, key)
		return false
	}
	return true
}

// weightedKey implements the exponential-racing draw: key = -ln(U[0,1]) /
// weight. Lower key wins, so a higher weight systematically produces a
// smaller (more competitive) key (§4.6, §9).
func (r *Rotation) weightedKey(weight float64) float64 {
	if weight <= 0 {
		return math.Inf(1)
	}
	u := r.rng.Float64()
	for u <= 0 {
		u = r.rng.Float64()
	}
	return -math.Log(u) / weight
}

type rankedSkill struct {
	skill Skill
	key   float64
}

// draw runs the exponential-racing shuffle over candidates (weighted by
// weights, defaulting to 1.0 for any skill missing from the map) and
// returns them in ascending-key order.
func (r *Rotation) draw(candidates []Skill, weights map[Skill]float64) []rankedSkill {
	ranked := make([]rankedSkill, 0, len(candidates))
	for _, s := range candidates {
		w, ok := weights[s]
		if !ok || w <= 0 {
			w = 1.0
		}
		ranked = append(ranked, rankedSkill{skill: s, key: r.weightedKey(w)})
	}
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].key < ranked[j-1].key; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	return ranked
}

// PickNext performs the weight-biased shuffle over enabled and picks the
// first skill for which viable returns true, setting it as Current and
// resetting its goal progress (§4.6 "pickNext(ctx) performs a
// weight-biased shuffle ... and picks the first that passes viability
// setup"). Returns ok=false if nothing in enabled is viable.
func (r *Rotation) PickNext(enabled []Skill, weights map[Skill]float64, viable func(Skill) bool) (Skill, bool) {
	for _, ranked := range r.draw(enabled, weights) {
		if viable(ranked.skill) {
			r.current = ranked.skill
			r.hasCurrent = true
			r.ResetProgress(ranked.skill)
			return ranked.skill, true
		}
	}
	return "", false
}

// ForceRotate is PickNext excluding the current skill (§4.6 "forceRotate
// ... does the same excluding the current skill").
func (r *Rotation) ForceRotate(enabled []Skill, weights map[Skill]float64, viable func(Skill) bool) (Skill, bool) {
	filtered := make([]Skill, 0, len(enabled))
	for _, s := range enabled {
		if r.hasCurrent && s == r.current {
			continue
		}
		filtered = append(filtered, s)
	}
	return r.PickNext(filtered, weights, viable)
}
