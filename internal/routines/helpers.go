package routines

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/catalog"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/combat"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/ctlerr"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/gameapi"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/gear"
)

// cachedLoadout is one equip-cache entry, keyed by (character implicit,
// monster code, character level) since a loadout only needs recomputing
// when either changes (§4.7 "cache by char+monster+level").
type cachedLoadout struct {
	loadout gear.Loadout
}

type equipCache struct {
	entries map[string]cachedLoadout
}

func equipCacheKey(monsterCode string, level int) string {
	return monsterCode + "@" + strconv.Itoa(level)
}

func (c *equipCache) get(key string) (gear.Loadout, bool) {
	v, ok := c.entries[key]
	return v.loadout, ok
}

func (c *equipCache) set(key string, l gear.Loadout) {
	c.entries[key] = cachedLoadout{loadout: l}
}

// toolCheckCache holds per-key expiry times for "do I have a suitable
// gathering tool" rechecks, toolCheckTTL after mark. No routine calls
// stale or mark, so nothing is rate-limited by it.
type toolCheckCache struct {
	entries map[string]time.Time
}

const toolCheckTTL = 30 * time.Second

func (c *toolCheckCache) stale(key string, now time.Time) bool {
	until, ok := c.entries[key]
	return !ok || !now.Before(until)
}

func (c *toolCheckCache) mark(key string, now time.Time) {
	c.entries[key] = now.Add(toolCheckTTL)
}

// monsterStats adapts a catalog.Monster into combat.Stats.
func monsterStats(m catalog.Monster) combat.Stats {
	return combat.Stats{HP: m.HP, MaxHP: m.HP, Initiative: m.Initiative, Crit: m.Crit, Attack: m.Attack, Resistance: m.Resistance}
}

// moveTo issues a single move action toward pos if the character isn't
// already there. Returns acted=false, err=nil if no move was needed.
func moveTo(ctx context.Context, shared *Shared, cc character.Context, pos character.Position) (acted bool, err error) {
	snap := cc.Snapshot()
	if snap.Position == pos {
		return false, nil
	}
	outcome, err := shared.Client.Move(ctx, cc.Name(), pos.X, pos.Y)
	if err != nil {
		return false, err
	}
	cc.ApplyActionResult(outcome.Character)
	return true, nil
}

// moveToContent resolves contentType+code to a map location and moves
// there, recording a NoPathError in the shared blacklist before
// propagating it.
func moveToContent(ctx context.Context, shared *Shared, cc character.Context, contentType, code string) (acted bool, err error) {
	pos, ok := shared.LocationFor(contentType, code)
	if !ok {
		return false, ctlerr.New(ctlerr.CodeUnreachable, fmt.Sprintf("no known location for %s %q", contentType, code))
	}
	acted, err = moveTo(ctx, shared, cc, pos)
	if err != nil {
		if gameapi.UnreachableStatus(err) {
			err = &gameapi.NoPathError{ContentType: contentType, ContentCode: code}
		}
		recordNoPath(shared.Blacklist, err)
	}
	return acted, err
}

// equipForCombat drives the character's loadout toward the optimizer's
// chosen plan for monster, one swap per call (§4.7 step 1): it withdraws a
// missing item from the bank under reservation, or equips an item already
// on hand, whichever the next mismatched slot requires. ready=true with
// acted=false means the loadout already matches the plan.
func equipForCombat(ctx context.Context, shared *Shared, cs *CharacterState, cc character.Context, monster catalog.Monster) (acted bool, ready bool, err error) {
	snap := cc.Snapshot()
	key := equipCacheKey(monster.Code, snap.Level)
	target, ok := cs.equipCache.get(key)
	if !ok {
		plan := shared.Optimizer.FindBestLoadout(snap, shared.Bank.AvailableBankSnapshot(), monster, false)
		target = plan.Loadout
		cs.equipCache.set(key, target)
	}
	return applyLoadoutSwap(ctx, shared, cc, target, combatLoadoutSlots)
}

// combatLoadoutSlots and gatheringLoadoutSlots enumerate the slots
// applyLoadoutSwap reconciles for each planner. Both cover all ten slots:
// combat's FindBestLoadout plans every slot, and gathering's
// OptimizeForGathering puts a tool for the skill in the weapon slot
// (leaving it empty, so the weapon is unequipped, when no tool is at or
// below the character's level).
var combatLoadoutSlots = []catalog.EquipSlot{
	catalog.SlotWeapon, catalog.SlotShield, catalog.SlotHelmet, catalog.SlotBodyArmor,
	catalog.SlotLegArmor, catalog.SlotBoots, catalog.SlotAmulet, catalog.SlotRing1, catalog.SlotRing2, catalog.SlotBag,
}

var gatheringLoadoutSlots = []catalog.EquipSlot{
	catalog.SlotWeapon, catalog.SlotShield, catalog.SlotHelmet, catalog.SlotBodyArmor,
	catalog.SlotLegArmor, catalog.SlotBoots, catalog.SlotAmulet, catalog.SlotRing1, catalog.SlotRing2, catalog.SlotBag,
}

// equipForGathering drives the character's loadout toward
// OptimizeForGathering's plan for skill, one swap per call, mirroring
// equipForCombat (§4.7, §4.2).
func equipForGathering(ctx context.Context, shared *Shared, cs *CharacterState, cc character.Context, skill string) (acted bool, ready bool, err error) {
	snap := cc.Snapshot()
	key := "gather:" + skill + "@" + strconv.Itoa(snap.Level)
	target, ok := cs.equipCache.get(key)
	if !ok {
		target = shared.Optimizer.OptimizeForGathering(snap, shared.Bank.AvailableBankSnapshot(), skill, false)
		cs.equipCache.set(key, target)
	}
	return applyLoadoutSwap(ctx, shared, cc, target, gatheringLoadoutSlots)
}

// applyLoadoutSwap reconciles the character's equipped slots toward target,
// one server action per call (§4.7 step 1). ready=true with acted=false
// means every tracked slot already matches.
func applyLoadoutSwap(ctx context.Context, shared *Shared, cc character.Context, target gear.Loadout, slots []catalog.EquipSlot) (acted bool, ready bool, err error) {
	snap := cc.Snapshot()
	for _, slot := range slots {
		want := target[slot]
		have := snap.Equipped[slot]
		if want == have {
			continue
		}
		if want == "" {
			out, err := shared.Client.Unequip(ctx, cc.Name(), slot, 1)
			if err != nil {
				return false, false, err
			}
			cc.ApplyActionResult(out.Character)
			return true, false, nil
		}
		if !cc.HasItem(want, 1) {
			reserved, withdrew, err := withdrawFromBank(ctx, shared, cc, want, 1)
			if err != nil {
				return false, false, err
			}
			if withdrew {
				return true, false, nil
			}
			if !reserved {
				// Not available anywhere right now; skip this slot rather
				// than stall the whole equip pass on an unattainable item.
				continue
			}
		}
		out, err := shared.Client.Equip(ctx, cc.Name(), want, slot, 1)
		if err != nil {
			return false, false, err
		}
		cc.ApplyActionResult(out.Character)
		return true, false, nil
	}
	return false, true, nil
}

// withdrawFromBank reserves then withdraws qty of code on cc's behalf.
// reserved reports whether a reservation could be made at all (false means
// the bank simply doesn't have it); withdrew reports whether a server
// withdraw action was actually taken this call.
func withdrawFromBank(ctx context.Context, shared *Shared, cc character.Context, code string, qty int) (reserved bool, withdrew bool, err error) {
	r, ok := shared.Bank.Reserve(cc.Name(), code, qty, time.Now().Add(2*time.Minute))
	if !ok {
		return false, false, nil
	}
	out, err := shared.Client.WithdrawBank(ctx, cc.Name(), code, qty)
	if err != nil {
		shared.Bank.Release(r.ID)
		return true, false, err
	}
	shared.Bank.Release(r.ID)
	shared.Bank.ApplyBankDelta(code, -qty)
	cc.ApplyActionResult(out.Character)
	return true, true, nil
}

// bestPotionFor picks the highest-level utility item at or below
// characterLevel whose subtype matches preference order
// restore > splash_restore > anything else, excluding exclude.
func bestPotionFor(cat *catalog.Catalog, characterLevel int, exclude string) (catalog.Item, bool) {
	rank := func(subtype string) int {
		switch subtype {
		case "restore":
			return 0
		case "splash_restore":
			return 1
		default:
			return 2
		}
	}
	var best catalog.Item
	bestRank := 3
	found := false
	for _, it := range cat.AllItems() {
		if it.Type != catalog.ItemTypeUtility || it.Level > characterLevel || it.Code == exclude {
			continue
		}
		r := rank(it.Subtype)
		if !found || r < bestRank || (r == bestRank && it.Level > best.Level) {
			best, bestRank, found = it, r, true
		}
	}
	return best, found
}

// prepareCombatPotions tops up utility1/utility2 toward the configured
// target quantity, one withdraw/equip per call (§4.7 step 2). utility1
// prefers restore > splash_restore > any other utility item, highest level
// first within each rank (bestPotionFor); utility2 excludes utility1's
// chosen code.
func prepareCombatPotions(ctx context.Context, shared *Shared, cs *CharacterState, cc character.Context) (acted bool, ready bool, err error) {
	cfg := cs.Config.Potions.Combat
	if !cs.Config.Potions.Enabled || !cfg.Enabled {
		return false, true, nil
	}
	snap := cc.Snapshot()

	slot1, ok1 := bestPotionFor(shared.Catalog, snap.Level, "")
	if ok1 && snap.Utility1 < cfg.RefillBelow {
		acted, err := topUpUtility(ctx, shared, cc, catalog.SlotUtility1, slot1.Code, cfg.TargetQuantity-snap.Utility1)
		if err != nil || acted {
			return acted, false, err
		}
	}

	exclude1 := ""
	if ok1 {
		exclude1 = slot1.Code
	}
	slot2, ok2 := bestPotionFor(shared.Catalog, snap.Level, exclude1)
	if ok2 && snap.Utility2 < cfg.RefillBelow {
		acted, err := topUpUtility(ctx, shared, cc, catalog.SlotUtility2, slot2.Code, cfg.TargetQuantity-snap.Utility2)
		if err != nil || acted {
			return acted, false, err
		}
	}
	return false, true, nil
}

func topUpUtility(ctx context.Context, shared *Shared, cc character.Context, slot catalog.EquipSlot, code string, want int) (bool, error) {
	if want <= 0 {
		return false, nil
	}
	if !cc.HasItem(code, 1) {
		_, withdrew, err := withdrawFromBank(ctx, shared, cc, code, want)
		return withdrew, err
	}
	have := cc.ItemCount(code)
	qty := want
	if have < qty {
		qty = have
	}
	if qty <= 0 {
		return false, nil
	}
	out, err := shared.Client.Equip(ctx, cc.Name(), code, slot, qty)
	if err != nil {
		return false, err
	}
	cc.ApplyActionResult(out.Character)
	return true, nil
}

// restBeforeFight ensures the character's HP covers combat.HPNeededForFight
// against monster, eating food if carried, otherwise resting via the
// server rest action — one action per call (§4.7 step 3).
func restBeforeFight(ctx context.Context, shared *Shared, cc character.Context, monster catalog.Monster) (acted bool, ready bool, err error) {
	snap := cc.Snapshot()
	needed, ok := combat.HPNeededForFight(combatStatsFromSnapshot(snap), monsterStats(monster))
	if !ok {
		return false, false, ctlerr.New(ctlerr.CodeUnwinnable, fmt.Sprintf("cannot win against %s at any HP", monster.Code))
	}
	if snap.HP >= needed {
		return false, true, nil
	}

	if food, qty, found := bestCarriedFood(shared.Catalog, snap); found {
		out, err := shared.Client.UseItem(ctx, cc.Name(), food, min(qty, 1))
		if err != nil {
			if ctlerr.Is(err, ctlerr.CodeNotConsumable) {
				// Catalog data disagreed with the server about this item's
				// consumability; fall through to resting instead.
			} else {
				return false, false, err
			}
		} else {
			cc.ApplyActionResult(out.Character)
			return true, false, nil
		}
	}

	out, err := shared.Client.Rest(ctx, cc.Name())
	if err != nil {
		return false, false, err
	}
	cc.ApplyActionResult(out.Character)
	return true, false, nil
}

// EffectHeal is the catalog effect code for a consumable's restore amount.
const EffectHeal = "heal"

func bestCarriedFood(cat *catalog.Catalog, snap *character.Snapshot) (code string, qty int, found bool) {
	bestHeal := 0
	for _, slot := range snap.Inventory {
		if slot.Quantity <= 0 {
			continue
		}
		item, ok := cat.Item(slot.Code)
		if !ok || item.Type != catalog.ItemTypeConsumable {
			continue
		}
		heal := item.Effect(EffectHeal)
		if heal <= 0 {
			continue
		}
		if heal > bestHeal {
			bestHeal, code, qty, found = heal, slot.Code, slot.Quantity, true
		}
	}
	return code, qty, found
}
