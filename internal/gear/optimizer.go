// Package gear implements the gear optimizer (§4.2) and the per-character
// Gear State requirements planner (§4.5), the two components that decide
// "what should this character wear" and "what should this character own".
package gear

import (
	"sort"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/catalog"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/combat"
)

// Loadout is a slot -> item-code mapping for one character; an empty
// string means the slot is left unequipped.
type Loadout map[catalog.EquipSlot]string

// Clone returns a shallow copy of the loadout.
func (l Loadout) Clone() Loadout {
	out := make(Loadout, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// Plan is the optimizer's result for one monster: the chosen loadout and
// the simulated fight outcome it produces.
type Plan struct {
	Loadout Loadout
	Outcome combat.Outcome
}

// slotItemTypes maps an equip slot to the catalog item type(s) eligible to
// fill it.
var slotItemTypes = map[catalog.EquipSlot][]catalog.ItemType{
	catalog.SlotWeapon:    {catalog.ItemTypeWeapon},
	catalog.SlotShield:    {catalog.ItemTypeShield},
	catalog.SlotHelmet:    {catalog.ItemTypeHelmet},
	catalog.SlotBodyArmor: {catalog.ItemTypeBodyArmor},
	catalog.SlotLegArmor:  {catalog.ItemTypeLegArmor},
	catalog.SlotBoots:     {catalog.ItemTypeBoots},
	catalog.SlotRing1:     {catalog.ItemTypeRing},
	catalog.SlotRing2:     {catalog.ItemTypeRing},
	catalog.SlotAmulet:    {catalog.ItemTypeAmulet},
	catalog.SlotBag:       {catalog.ItemTypeBag},
}

// Optimizer performs the four-phase greedy gear search against a fixed
// catalog.
type Optimizer struct {
	cat *catalog.Catalog
}

// NewOptimizer builds an Optimizer over cat.
func NewOptimizer(cat *catalog.Catalog) *Optimizer {
	return &Optimizer{cat: cat}
}

// carriedCandidates returns every catalog item of slot's types currently
// reachable as a candidate — equipped, in inventory, or in bank — each
// listed once, without quantities.
func (o *Optimizer) carriedCandidates(snap *character.Snapshot, bank map[string]int, slot catalog.EquipSlot) []catalog.Item {
	types := slotItemTypes[slot]
	seen := make(map[string]bool)
	var out []catalog.Item

	add := func(code string) {
		if code == "" || seen[code] {
			return
		}
		item, ok := o.cat.Item(code)
		if !ok {
			return
		}
		if !matchesTypes(item.Type, types) {
			return
		}
		seen[code] = true
		out = append(out, item)
	}

	for _, code := range snap.Equipped {
		add(code)
	}
	for _, slotItem := range snap.Inventory {
		add(slotItem.Code)
	}
	for code := range bank {
		add(code)
	}
	return out
}

func matchesTypes(t catalog.ItemType, types []catalog.ItemType) bool {
	for _, candidate := range types {
		if t == candidate {
			return true
		}
	}
	return false
}

// allCraftableOfTypes returns every catalog item of one of types that the
// character could craft at characterLevel and doesn't already hold
// (exclude) — used to widen candidate sets in planning mode (§4.2).
func (o *Optimizer) allCraftableOfTypes(types []catalog.ItemType, characterLevel int, exclude map[string]bool, out []catalog.Item) []catalog.Item {
	for _, item := range o.cat.AllItems() {
		if exclude[item.Code] {
			continue
		}
		if !matchesTypes(item.Type, types) {
			continue
		}
		if !item.Craftable() || item.Craft.Level > characterLevel {
			continue
		}
		out = append(out, item)
	}
	return out
}

// candidatesForSlot merges carried and (in planning mode) craftable
// candidates for slot. The "leave empty" option is not in the list;
// bestBySimulation scores it separately.
func (o *Optimizer) candidatesForSlot(snap *character.Snapshot, bank map[string]int, slot catalog.EquipSlot, characterLevel int, planningMode bool) []catalog.Item {
	carried := o.carriedCandidates(snap, bank, slot)
	if !planningMode {
		return carried
	}
	exclude := make(map[string]bool, len(carried))
	for _, it := range carried {
		exclude[it.Code] = true
	}
	craftable := o.allCraftableOfTypes(slotItemTypes[slot], characterLevel, exclude, nil)
	return append(carried, craftable...)
}

// compareOffense orders weapon candidates by first-turn damage desc, then
// item level desc, then code asc (§4.2 phase 1).
func compareOffense(a, b offenseCandidate) bool {
	if a.damage != b.damage {
		return a.damage > b.damage
	}
	if a.item.Level != b.item.Level {
		return a.item.Level > b.item.Level
	}
	return a.item.Code < b.item.Code
}

type offenseCandidate struct {
	item   catalog.Item
	damage int
}

// compareSimOutcome orders (win beats loss; then higher remaining HP; then
// fewer turns on wins, more turns on losses) per §4.2 phases 2-3.
func compareSimOutcome(a, b combat.Outcome) bool {
	if a.Win != b.Win {
		return a.Win
	}
	if a.RemainingHP != b.RemainingHP {
		return a.RemainingHP > b.RemainingHP
	}
	if a.Win {
		return a.Turns < b.Turns
	}
	return a.Turns > b.Turns
}

// FindBestLoadout runs the four-phase greedy search for one monster and
// returns the chosen loadout with its simulated outcome (§4.2).
func (o *Optimizer) FindBestLoadout(snap *character.Snapshot, bank map[string]int, monster catalog.Monster, planningMode bool) Plan {
	base := baseStats(o.cat, snap)
	loadout := make(Loadout)
	mStats := monsterStats(monster)

	// Phase 1: weapon.
	var offense []offenseCandidate
	for _, item := range o.candidatesForSlot(snap, bank, catalog.SlotWeapon, snap.Level, planningMode) {
		stats := withCandidate(base, o.cat, item.Code)
		offense = append(offense, offenseCandidate{item: item, damage: combat.CalcTurnDamage(stats, mStats)})
	}
	sort.SliceStable(offense, func(i, j int) bool { return compareOffense(offense[i], offense[j]) })
	if len(offense) > 0 {
		loadout[catalog.SlotWeapon] = offense[0].item.Code
	}

	current := func() combat.Stats {
		return newStatsFromLoadout(o.cat, base, loadout)
	}

	// Phase 2: defensive slots, in priority order.
	for _, slot := range []catalog.EquipSlot{catalog.SlotShield, catalog.SlotHelmet, catalog.SlotBodyArmor, catalog.SlotLegArmor, catalog.SlotBoots} {
		loadout[slot] = o.bestBySimulation(snap, bank, slot, loadout, current(), mStats, planningMode, nil)
	}

	// Phase 3: accessories — amulet, ring1, ring2 (ring2 excludes ring1's
	// code unless >= 2 copies exist).
	loadout[catalog.SlotAmulet] = o.bestBySimulation(snap, bank, catalog.SlotAmulet, loadout, current(), mStats, planningMode, nil)
	loadout[catalog.SlotRing1] = o.bestBySimulation(snap, bank, catalog.SlotRing1, loadout, current(), mStats, planningMode, nil)

	ring1 := loadout[catalog.SlotRing1]
	var ring2Exclude map[string]bool
	if ring1 != "" && o.copiesAvailable(snap, bank, ring1, planningMode) < 2 {
		ring2Exclude = map[string]bool{ring1: true}
	}
	loadout[catalog.SlotRing2] = o.bestBySimulation(snap, bank, catalog.SlotRing2, loadout, current(), mStats, planningMode, ring2Exclude)

	// Phase 4: bag, by inventory_space effect desc, then level desc, code asc.
	loadout[catalog.SlotBag] = o.bestBag(snap, bank, planningMode)

	finalStats := newStatsFromLoadout(o.cat, base, loadout)
	outcome := combat.SimulateCombat(finalStats, mStats)
	return Plan{Loadout: loadout, Outcome: outcome}
}

// copiesAvailable counts how many copies of code exist across equipped +
// inventory + bank; in planning mode a craftable item is assumed to have
// an effectively unlimited second copy producible.
func (o *Optimizer) copiesAvailable(snap *character.Snapshot, bank map[string]int, code string, planningMode bool) int {
	count := 0
	for _, eq := range snap.Equipped {
		if eq == code {
			count++
		}
	}
	count += snap.ItemCount(code)
	count += bank[code]
	if planningMode {
		if item, ok := o.cat.Item(code); ok && item.Craftable() {
			return 2
		}
	}
	return count
}

func newStatsFromLoadout(cat *catalog.Catalog, base combat.Stats, loadout Loadout) combat.Stats {
	s := base
	out := newStats()
	out.HP, out.MaxHP, out.Initiative, out.Crit, out.Dmg = s.HP, s.MaxHP, s.Initiative, s.Crit, s.Dmg
	for e, v := range s.Attack {
		out.Attack[e] = v
	}
	for e, v := range s.Resistance {
		out.Resistance[e] = v
	}
	for e, v := range s.DmgBonus {
		out.DmgBonus[e] = v
	}
	for _, code := range loadout {
		if code == "" {
			continue
		}
		item, ok := cat.Item(code)
		if !ok {
			continue
		}
		applyEffects(&out, item.Effects, 1)
	}
	return out
}

// bestBySimulation picks, for slot, the candidate (including "leave
// empty") maximizing the simulated outcome against monster, given every
// other slot already chosen in loadout.
func (o *Optimizer) bestBySimulation(snap *character.Snapshot, bank map[string]int, slot catalog.EquipSlot, loadout Loadout, baseWithOthers combat.Stats, monster combat.Stats, planningMode bool, exclude map[string]bool) string {
	bestCode := ""
	bestOutcome := combat.SimulateCombat(withCandidate(baseWithOthers, o.cat, ""), monster)

	for _, item := range o.candidatesForSlot(snap, bank, slot, snap.Level, planningMode) {
		if exclude[item.Code] {
			continue
		}
		candidateStats := withCandidate(baseWithOthers, o.cat, item.Code)
		outcome := combat.SimulateCombat(candidateStats, monster)
		if compareSimOutcome(outcome, bestOutcome) {
			bestOutcome = outcome
			bestCode = item.Code
		} else if !compareSimOutcome(bestOutcome, outcome) {
			// Equal outcome: higher item level wins, then code ascending;
			// the empty option loses a tie to any item.
			cur, held := o.cat.Item(bestCode)
			if !held || item.Level > cur.Level || (item.Level == cur.Level && item.Code < cur.Code) {
				bestCode = item.Code
			}
		}
	}
	return bestCode
}

// bestBag picks the bag candidate maximizing inventory_space, then level
// desc, then code asc (§4.2 phase 4).
func (o *Optimizer) bestBag(snap *character.Snapshot, bank map[string]int, planningMode bool) string {
	candidates := o.candidatesForSlot(snap, bank, catalog.SlotBag, snap.Level, planningMode)
	if len(candidates) == 0 {
		return ""
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		as, bs := a.Effect(EffectInventorySpace), b.Effect(EffectInventorySpace)
		if as != bs {
			return as > bs
		}
		if a.Level != b.Level {
			return a.Level > b.Level
		}
		return a.Code < b.Code
	})
	return candidates[0].Code
}

// OptimizeForGathering picks the best tool-weapon for skill, and for every
// non-weapon slot the candidate maximizing the prospecting effect,
// preferring the currently equipped item on a zero-improvement tie (§4.2).
func (o *Optimizer) OptimizeForGathering(snap *character.Snapshot, bank map[string]int, skill string, planningMode bool) Loadout {
	loadout := make(Loadout)

	tools := o.cat.ToolsForSkill(skill)
	for _, tool := range tools {
		if tool.Level <= snap.Level {
			loadout[catalog.SlotWeapon] = tool.Code
			break
		}
	}

	for _, slot := range []catalog.EquipSlot{catalog.SlotShield, catalog.SlotHelmet, catalog.SlotBodyArmor, catalog.SlotLegArmor, catalog.SlotBoots, catalog.SlotAmulet, catalog.SlotRing1, catalog.SlotRing2} {
		current := snap.Equipped[slot]
		best := current
		bestVal := -1
		if current != "" {
			if item, ok := o.cat.Item(current); ok {
				bestVal = item.Effect(EffectProspecting)
			}
		}
		for _, item := range o.candidatesForSlot(snap, bank, slot, snap.Level, planningMode) {
			v := item.Effect(EffectProspecting)
			if v > bestVal {
				bestVal = v
				best = item.Code
			}
		}
		loadout[slot] = best
	}

	loadout[catalog.SlotBag] = o.bestBag(snap, bank, planningMode)
	return loadout
}

// FindBestCombatTarget enumerates monsters at or below character level,
// runs the optimizer for each, and returns the strongest monster whose
// predicted fight is a win with <= 90% HP lost (§4.2, §9 "90% threshold").
// Ties break by fewer turns, then higher remaining HP.
func (o *Optimizer) FindBestCombatTarget(snap *character.Snapshot, bank map[string]int, planningMode bool) (catalog.Monster, Plan, bool) {
	const maxHPLostPercent = 90.0

	var bestMonster catalog.Monster
	var bestPlan Plan
	found := false

	for _, monster := range o.cat.MonstersAtOrBelow(snap.Level) {
		plan := o.FindBestLoadout(snap, bank, monster, planningMode)
		if !plan.Outcome.Win || plan.Outcome.HPLostPercent > maxHPLostPercent {
			continue
		}
		if !found {
			bestMonster, bestPlan, found = monster, plan, true
			continue
		}
		if monster.Level > bestMonster.Level {
			bestMonster, bestPlan = monster, plan
			continue
		}
		if monster.Level == bestMonster.Level {
			if plan.Outcome.Turns < bestPlan.Outcome.Turns ||
				(plan.Outcome.Turns == bestPlan.Outcome.Turns && plan.Outcome.RemainingHP > bestPlan.Outcome.RemainingHP) {
				bestMonster, bestPlan = monster, plan
			}
		}
	}
	return bestMonster, bestPlan, found
}
