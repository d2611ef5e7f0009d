package rotation

import (
	"fmt"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/catalog"
)

// StepType tags one step of a production plan (§9 "sum types over action
// results" idiom, applied to plan steps).
type StepType string

const (
	StepGather StepType = "gather"
	StepCraft  StepType = "craft"
	StepFight  StepType = "fight"
	StepBank   StepType = "bank"
)

// PlanStep is one step of an ordered production plan for reaching a craft
// goal (§4.6).
type PlanStep struct {
	Type         StepType
	ItemCode     string
	Quantity     int
	ResourceCode string
	RecipeCode   string
	MonsterCode  string
}

// cycleError reports a recipe chain that refers back to itself.
type cycleError struct {
	itemCode string
}

func (e cycleError) Error() string {
	return fmt.Sprintf("recipe cycle detected at %s", e.itemCode)
}

// planBuilder carries the DFS state for BuildProductionPlan.
type planBuilder struct {
	cat       *catalog.Catalog
	charLevel int
	skills    map[string]int // skill -> character's level in it
	bank      map[string]int
	inventory map[string]int

	inProgress map[string]bool
	visited    map[string]bool
	steps      []PlanStep
}

// BuildProductionPlan walks the recipe chain needed to produce qty of
// itemCode into an ordered list of steps, resolving gather/fight/bank
// dependencies along the way (§4.6). Cycle detection rejects recipes whose
// chain refers back to themselves; the returned error is a cycleError in
// that case.
func BuildProductionPlan(cat *catalog.Catalog, charLevel int, skills map[string]int, bank, inventory map[string]int, itemCode string, qty int) ([]PlanStep, error) {
	b := &planBuilder{
		cat:        cat,
		charLevel:  charLevel,
		skills:     skills,
		bank:       bank,
		inventory:  inventory,
		inProgress: make(map[string]bool),
		visited:    make(map[string]bool),
	}
	if err := b.resolve(itemCode, qty); err != nil {
		return nil, err
	}
	return b.steps, nil
}

// have reports how many units of code are already present between
// inventory and bank, without consuming them across sibling calls — the
// planner is a dry-run projection, not a reservation.
func (b *planBuilder) have(code string) int {
	return b.inventory[code] + b.bank[code]
}

func (b *planBuilder) resolve(itemCode string, qty int) error {
	if qty <= 0 {
		return nil
	}
	if b.inProgress[itemCode] {
		return cycleError{itemCode: itemCode}
	}

	have := b.have(itemCode)
	if have >= qty {
		b.steps = append(b.steps, PlanStep{Type: StepBank, ItemCode: itemCode, Quantity: qty})
		return nil
	}
	deficit := qty - have
	if have > 0 {
		b.steps = append(b.steps, PlanStep{Type: StepBank, ItemCode: itemCode, Quantity: have})
	}

	item, ok := b.cat.Item(itemCode)
	if !ok {
		// Unknown item code: treat as a gather-only leaf; the caller's
		// viability check will reject it since no resource/recipe source exists.
		b.steps = append(b.steps, PlanStep{Type: StepGather, ItemCode: itemCode, Quantity: deficit})
		return nil
	}

	if item.Craftable() {
		b.inProgress[itemCode] = true
		defer delete(b.inProgress, itemCode)

		crafts := (deficit + item.Craft.Quantity - 1) / item.Craft.Quantity
		for _, m := range item.Craft.Materials {
			if err := b.resolve(m.Code, m.Quantity*crafts); err != nil {
				return err
			}
		}
		b.steps = append(b.steps, PlanStep{
			Type: StepCraft, ItemCode: itemCode, Quantity: deficit, RecipeCode: itemCode,
		})
		return nil
	}

	resources := b.cat.ResourceSourcesFor(itemCode)
	if len(resources) > 0 {
		b.steps = append(b.steps, PlanStep{
			Type: StepGather, ItemCode: itemCode, Quantity: deficit, ResourceCode: resources[0].Code,
		})
		return nil
	}

	monsters := b.cat.MonsterSourcesFor(itemCode)
	if len(monsters) > 0 {
		b.steps = append(b.steps, PlanStep{
			Type: StepFight, ItemCode: itemCode, Quantity: deficit, MonsterCode: monsters[0].Code,
		})
		return nil
	}

	// No known source: still emit a gather step so the caller's viability
	// check has something concrete to reject.
	b.steps = append(b.steps, PlanStep{Type: StepGather, ItemCode: itemCode, Quantity: deficit})
	return nil
}

// AvailabilityFraction reports what fraction of the plan's total raw
// material requirement is already covered by a StepBank entry (i.e.
// already present in inventory+bank) rather than needing a fresh
// StepGather/StepFight (used for crafting-candidate scoring, §4.6
// "availability (fraction of materials present ...) desc"). StepBank
// quantities and StepGather/StepFight quantities are disjoint by
// construction (BuildProductionPlan only emits a gather/fight step for the
// deficit beyond what a bank step already covers), so no item's stock is
// counted twice.
func AvailabilityFraction(steps []PlanStep) float64 {
	var total, available float64
	for _, s := range steps {
		switch s.Type {
		case StepBank:
			total += float64(s.Quantity)
			available += float64(s.Quantity)
		case StepGather, StepFight:
			total += float64(s.Quantity)
		}
	}
	if total == 0 {
		return 1
	}
	return available / total
}

// BankOnly reports whether every resource-producing step in the plan is
// already satisfied from bank+inventory (no gather step needed) — the
// §4.6 "prefer bank-only candidates" signal.
func BankOnly(steps []PlanStep) bool {
	for _, s := range steps {
		if s.Type == StepGather {
			return false
		}
	}
	return true
}

// GatherStepsWithinLevel reports whether every gather step's resource is
// at or below the character's skill level (§4.6 viability rule a).
func GatherStepsWithinLevel(cat *catalog.Catalog, steps []PlanStep, skills map[string]int) bool {
	for _, s := range steps {
		if s.Type != StepGather || s.ResourceCode == "" {
			continue
		}
		res, ok := cat.Resource(s.ResourceCode)
		if !ok {
			return false
		}
		if skills[res.Skill] < res.Level {
			return false
		}
	}
	return true
}
