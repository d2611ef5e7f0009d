package gear

import (
	"sort"
	"time"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/catalog"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/orders"
)

// reserveInventorySlots is the fixed number of inventory slots the carry
// budget leaves free for other routines (§4.5 step 3).
const reserveInventorySlots = 10

// CandidateMonster is one winning simulated fight recorded during gear
// state step 1.
type CandidateMonster struct {
	Code        string
	Level       int
	Turns       int
	RemainingHP int
	Loadout     Loadout
}

// PotionTarget is a configured per-utility-slot potion code and the
// quantity the character should keep stocked (§4.5 step 2).
type PotionTarget struct {
	Code           string
	TargetQuantity int
}

// Row is the per-character Gear State record (§3 "Gear State").
type Row struct {
	Required  map[string]int
	Assigned  map[string]int
	Available map[string]int // assigned ∪ fallback claims; legacy synonym "owned"
	Desired   map[string]int

	SelectedMonsters []string
	BestTarget       string

	LevelSnapshot        int
	BankRevisionSnapshot uint64
	UpdatedAtMs          int64
}

func newRow() *Row {
	return &Row{
		Required:  make(map[string]int),
		Assigned:  make(map[string]int),
		Available: make(map[string]int),
		Desired:   make(map[string]int),
	}
}

// Owned is the legacy-synonym accessor for Available (§3).
func (r *Row) Owned() map[string]int { return r.Available }

// CharacterInput is one character's contribution to a Refresh pass, in the
// config order that decides scarcity priority (§4.5 step 4).
type CharacterInput struct {
	Name         string
	Snapshot     *character.Snapshot
	Capacity     int
	GatheringTools []string // gathering skills to plan a best-tool requirement for
	Potions      []PotionTarget
}

// State is the process-wide Gear State cache (§4.5): for each tracked
// character it owns the required/assigned/available/desired maps and the
// metadata describing which monsters its gear covers.
type State struct {
	cat       *catalog.Catalog
	optimizer *Optimizer
	rows      map[string]*Row
}

// NewState builds a Gear State cache over cat.
func NewState(cat *catalog.Catalog) *State {
	return &State{
		cat:       cat,
		optimizer: NewOptimizer(cat),
		rows:      make(map[string]*Row),
	}
}

// GetCharacterGearState returns the full row for name, or nil if never refreshed.
func (s *State) GetCharacterGearState(name string) *Row {
	return s.rows[name]
}

// GetOwnedMap is an alias for GetAvailableMap (§4.5 legacy synonym).
func (s *State) GetOwnedMap(name string) map[string]int { return s.GetAvailableMap(name) }

// GetAvailableMap returns what this character must hold.
func (s *State) GetAvailableMap(name string) map[string]int {
	if r := s.rows[name]; r != nil {
		return r.Available
	}
	return nil
}

// GetAssignedMap returns the codes actually reserved for this character.
func (s *State) GetAssignedMap(name string) map[string]int {
	if r := s.rows[name]; r != nil {
		return r.Assigned
	}
	return nil
}

// GetDesiredMap returns the deficit this character still needs.
func (s *State) GetDesiredMap(name string) map[string]int {
	if r := s.rows[name]; r != nil {
		return r.Desired
	}
	return nil
}

// GetClaimedTotal returns the global claims sum for code across every
// tracked character's assigned map, protecting scarce items from
// recyclers.
func (s *State) GetClaimedTotal(code string) int {
	total := 0
	for _, r := range s.rows {
		total += r.Assigned[code]
	}
	return total
}

// OwnedKeepByCodeForInventory reports, for each code this character must
// hold, how many copies a deposit routine should leave in inventory: the
// Available count minus copies already satisfied by equipped slots (§4.5
// "getOwnedKeepByCodeForInventory" — equipped copies subtract from kept
// count, since they don't also need an inventory copy).
func (s *State) OwnedKeepByCodeForInventory(name string, snap *character.Snapshot) map[string]int {
	row := s.rows[name]
	if row == nil {
		return nil
	}
	keep := make(map[string]int, len(row.Available))
	for code, qty := range row.Available {
		k := qty - snap.EquippedCount(code)
		if k < 0 {
			k = 0
		}
		if k > 0 {
			keep[code] = k
		}
	}
	return keep
}

// OwnedDeficitRequests reports codes where held-plus-equipped falls short of
// Available, as a withdrawal-request map (§4.5 "getOwnedDeficitRequests").
func (s *State) OwnedDeficitRequests(name string, snap *character.Snapshot) map[string]int {
	row := s.rows[name]
	if row == nil {
		return nil
	}
	deficits := make(map[string]int)
	for code, want := range row.Available {
		held := snap.ItemCount(code) + snap.EquippedCount(code)
		if held < want {
			deficits[code] = want - held
		}
	}
	return deficits
}

// classifyBucket derives an order's claim-priority bucket from the item's
// catalog type/subtype (§4.4): gathering tools -> tool; weapons -> weapon;
// other equipment types -> gear; everything else (including unknown codes)
// -> resource.
func classifyBucket(cat *catalog.Catalog, code string) orders.Bucket {
	item, ok := cat.Item(code)
	if !ok {
		return orders.BucketResource
	}
	if item.IsTool() {
		return orders.BucketTool
	}
	switch item.Type {
	case catalog.ItemTypeWeapon:
		return orders.BucketWeapon
	case catalog.ItemTypeShield, catalog.ItemTypeHelmet, catalog.ItemTypeBodyArmor,
		catalog.ItemTypeLegArmor, catalog.ItemTypeBoots, catalog.ItemTypeRing,
		catalog.ItemTypeAmulet, catalog.ItemTypeBag:
		return orders.BucketGear
	default:
		return orders.BucketResource
	}
}

// PublishDesiredOrdersForCharacter emits a craft order onto board for every
// desired item that is craftable and not a tool (§4.5
// "publishDesiredOrdersForCharacter" — tools are deliberately excluded,
// handled by a separate tool reserve path).
func (s *State) PublishDesiredOrdersForCharacter(name string, board *orders.Board, now time.Time) []*orders.Order {
	row := s.rows[name]
	if row == nil {
		return nil
	}
	var created []*orders.Order
	for code, qty := range row.Desired {
		if qty <= 0 {
			continue
		}
		item, ok := s.cat.Item(code)
		if !ok || !item.Craftable() || item.IsTool() {
			continue
		}
		req := orders.NewOrderRequest{
			Requester:   name,
			RecipeCode:  code,
			ItemCode:    code,
			SourceType:  orders.SourceCraft,
			SourceCode:  code,
			SourceLevel: item.Craft.Level,
			Quantity:    qty,
			Bucket:      classifyBucket(s.cat, code),
		}
		created = append(created, board.CreateOrMergeOrder(req, now))
	}
	return created
}

// Refresh recomputes gear state for every character in characters, which
// must be supplied in config order (scarcity priority, §4.5 step 4).
// globalCount(code) should return the total account-wide quantity of code
// across bank + every character's inventory + equipped slots.
func (s *State) Refresh(characters []CharacterInput, bank map[string]int, globalCount func(code string) int) {
	type perCharSelection struct {
		name     string
		snap     *character.Snapshot
		selected map[string]int
	}

	selections := make([]perCharSelection, 0, len(characters))

	for _, ci := range characters {
		candidates := s.findCandidates(ci.Snapshot, bank)
		required := s.buildRequired(candidates, ci.GatheringTools, ci.Potions, ci.Snapshot)
		selected, bestTarget, covered := s.selectCarryBounded(candidates, required, ci.Capacity, ci.GatheringTools)

		row := newRow()
		row.Required = required
		row.BestTarget = bestTarget
		row.SelectedMonsters = covered
		row.LevelSnapshot = ci.Snapshot.Level
		s.rows[ci.Name] = row

		selections = append(selections, perCharSelection{name: ci.Name, snap: ci.Snapshot, selected: selected})
	}

	// Step 4: cross-character allocation, first-in-config-order wins scarce
	// items. remaining is a lazily-populated cache over globalCount so any
	// code touched by either allocation or fallback claims (step 5) is
	// counted exactly once no matter which step sees it first.
	remaining := make(map[string]int)
	remainingFor := func(code string) int {
		if v, ok := remaining[code]; ok {
			return v
		}
		v := globalCount(code)
		remaining[code] = v
		return v
	}

	for _, sel := range selections {
		row := s.rows[sel.name]
		for code, need := range sel.selected {
			avail := remainingFor(code)
			assign := need
			if assign > avail {
				assign = avail
			}
			if assign < 0 {
				assign = 0
			}
			if assign > 0 {
				row.Assigned[code] = assign
				row.Available[code] += assign
			}
			remaining[code] -= assign
			if deficit := need - assign; deficit > 0 {
				row.Desired[code] = deficit
			}
		}
	}

	// Step 5: fallback claims, same config-order priority, sharing the same
	// `remaining` counters so no code's fallback claims can exceed what's
	// actually left unassigned.
	for _, sel := range selections {
		row := s.rows[sel.name]
		for code := range row.Desired {
			category, ok := slotCategoryForCode(s.cat, code)
			if !ok {
				continue
			}
			current := currentItemInCategory(s.cat, sel.snap, category)
			if current == "" || current == code {
				continue
			}
			if remainingFor(current) <= 0 {
				continue
			}
			row.Available[current]++
			remaining[current]--
		}
	}
}

// findCandidates runs step 1: enumerate reachable monsters, keep winning
// ones at <= 90% HP lost.
func (s *State) findCandidates(snap *character.Snapshot, bank map[string]int) []CandidateMonster {
	var out []CandidateMonster
	for _, monster := range s.cat.MonstersAtOrBelow(snap.Level) {
		plan := s.optimizer.FindBestLoadout(snap, bank, monster, true)
		if !plan.Outcome.Win || plan.Outcome.HPLostPercent > 90 {
			continue
		}
		out = append(out, CandidateMonster{
			Code:        monster.Code,
			Level:       monster.Level,
			Turns:       plan.Outcome.Turns,
			RemainingHP: plan.Outcome.RemainingHP,
			Loadout:     plan.Loadout,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Level != b.Level {
			return a.Level > b.Level
		}
		if a.Turns != b.Turns {
			return a.Turns < b.Turns
		}
		return a.RemainingHP > b.RemainingHP
	})
	return out
}

// loadoutCounts counts item codes in a loadout, with ring-slot multiplicity.
func loadoutCounts(l Loadout) map[string]int {
	counts := make(map[string]int)
	for _, code := range l {
		if code == "" {
			continue
		}
		counts[code]++
	}
	return counts
}

// buildRequired runs step 2: elementwise max of loadout counts across
// candidates, plus best-tool-per-gathering-skill, plus potion targets.
func (s *State) buildRequired(candidates []CandidateMonster, gatheringSkills []string, potions []PotionTarget, snap *character.Snapshot) map[string]int {
	required := make(map[string]int)
	for _, c := range candidates {
		for code, qty := range loadoutCounts(c.Loadout) {
			if qty > required[code] {
				required[code] = qty
			}
		}
	}
	for _, skill := range gatheringSkills {
		for _, tool := range s.cat.ToolsForSkill(skill) {
			if tool.Level <= snap.Level {
				if required[tool.Code] < 1 {
					required[tool.Code] = 1
				}
				break
			}
		}
	}
	for _, pt := range potions {
		if pt.TargetQuantity > required[pt.Code] {
			required[pt.Code] = pt.TargetQuantity
		}
	}
	return required
}

// carryPriority is the §4.5 step 3 trim order: weapon kept longest, ring2
// trimmed first.
var carryPriority = []catalog.EquipSlot{
	catalog.SlotWeapon, catalog.SlotShield, catalog.SlotHelmet, catalog.SlotBodyArmor,
	catalog.SlotLegArmor, catalog.SlotBoots, catalog.SlotBag, catalog.SlotAmulet,
	catalog.SlotRing1, catalog.SlotRing2,
}

// selectCarryBounded runs step 3: pick the best target, trim to the carry
// budget by priority order, then greedily add coverage of other monsters,
// then merge in tool requirements. Potion targets appear in required only;
// they are not added to the selection and take no carry budget.
func (s *State) selectCarryBounded(candidates []CandidateMonster, required map[string]int, capacity int, gatheringSkills []string) (map[string]int, string, []string) {
	selected := make(map[string]int)
	if len(candidates) == 0 {
		return selected, "", nil
	}

	budget := capacity - reserveInventorySlots
	if budget < 0 {
		budget = 0
	}
	used := 0

	best := candidates[0]

	for _, slot := range carryPriority {
		code := best.Loadout[slot]
		if code == "" {
			continue
		}
		if used+1 > budget {
			break
		}
		selected[code]++
		used++
	}

	covered := []string{best.Code}
	coveredSet := map[string]bool{best.Code: true}

	for {
		var bestCandidateIdx = -1
		bestNewCoverage := 0
		var bestExtraCost int

		for i, c := range candidates {
			if coveredSet[c.Code] {
				continue
			}
			counts := loadoutCounts(c.Loadout)
			extraCost := 0
			for code, qty := range counts {
				if have := selected[code]; have < qty {
					extraCost += qty - have
				}
			}
			if used+extraCost > budget {
				continue
			}
			newCoverage := 1 // this monster itself becomes covered
			if bestCandidateIdx == -1 || newCoverage > bestNewCoverage ||
				(newCoverage == bestNewCoverage && (c.Level > candidates[bestCandidateIdx].Level ||
					(c.Level == candidates[bestCandidateIdx].Level && extraCost < bestExtraCost))) {
				bestCandidateIdx = i
				bestNewCoverage = newCoverage
				bestExtraCost = extraCost
			}
		}

		if bestCandidateIdx == -1 {
			break
		}
		c := candidates[bestCandidateIdx]
		for code, qty := range loadoutCounts(c.Loadout) {
			if selected[code] < qty {
				used += qty - selected[code]
				selected[code] = qty
			}
		}
		covered = append(covered, c.Code)
		coveredSet[c.Code] = true
	}

	// Tool requirements are always merged in last, even over budget.
	for code, qty := range required {
		if isToolRequirement(s.cat, code) {
			if selected[code] < qty {
				selected[code] = qty
			}
		}
	}

	return selected, best.Code, covered
}

func isToolRequirement(cat *catalog.Catalog, code string) bool {
	item, ok := cat.Item(code)
	return ok && item.IsTool()
}

// slotCategoryForCode classifies a code into a fallback-claim category
// (§4.5 step 5), or ok=false if the code isn't equipment in a claimable
// category (tools are never fallback-claimed).
func slotCategoryForCode(cat *catalog.Catalog, code string) (catalog.ItemType, bool) {
	item, ok := cat.Item(code)
	if !ok || item.IsTool() {
		return "", false
	}
	switch item.Type {
	case catalog.ItemTypeWeapon, catalog.ItemTypeShield, catalog.ItemTypeHelmet,
		catalog.ItemTypeBodyArmor, catalog.ItemTypeLegArmor, catalog.ItemTypeBoots,
		catalog.ItemTypeAmulet, catalog.ItemTypeRing, catalog.ItemTypeBag:
		return item.Type, true
	default:
		return "", false
	}
}

// currentItemInCategory returns the code the character currently
// equips/carries in the given category, or "" if none.
func currentItemInCategory(cat *catalog.Catalog, snap *character.Snapshot, category catalog.ItemType) string {
	for _, code := range snap.Equipped {
		if code == "" {
			continue
		}
		if item, ok := cat.Item(code); ok && !item.IsTool() && item.Type == category {
			return code
		}
	}
	for _, slot := range snap.Inventory {
		if item, ok := cat.Item(slot.Code); ok && !item.IsTool() && item.Type == category {
			return slot.Code
		}
	}
	return ""
}
