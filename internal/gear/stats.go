package gear

import (
	"strings"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/catalog"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/combat"
)

// Effect codes recognized by the optimizer when folding an item's effect
// list into a combat.Stats block (§4.2).
const (
	effectHP           = "hp"
	effectInitiative   = "initiative"
	effectCritical     = "critical_strike"
	effectDmg          = "dmg"
	effectAttackPrefix = "attack_"
	effectResPrefix    = "res_"
	effectDmgPrefix    = "dmg_"

	// EffectInventorySpace and EffectProspecting are exported: the bag and
	// gathering phases read them directly off catalog.Item.
	EffectInventorySpace = "inventory_space"
	EffectProspecting    = "prospecting"
)

// elementFromEffectCode strips a recognized attack_/res_/dmg_ prefix and
// resolves the remaining suffix to a catalog.Element, or ("", false) if the
// code isn't an elemental effect.
func elementFromEffectCode(code, prefix string) (catalog.Element, bool) {
	suffix, ok := strings.CutPrefix(code, prefix)
	if !ok {
		return "", false
	}
	for _, e := range catalog.AllElements {
		if string(e) == suffix {
			return e, true
		}
	}
	return "", false
}

// applyEffects folds one item's effect list additively into stats. sign is
// +1 to apply the item (equip it) or -1 to strip it (subtract it back out
// to reach the naked baseline).
func applyEffects(stats *combat.Stats, effects []catalog.Effect, sign int) {
	for _, eff := range effects {
		v := sign * eff.Value
		switch {
		case eff.Code == effectHP:
			stats.MaxHP += v
		case eff.Code == effectInitiative:
			stats.Initiative += v
		case eff.Code == effectCritical:
			stats.Crit += v
		case eff.Code == effectDmg:
			stats.Dmg += v
		default:
			if e, ok := elementFromEffectCode(eff.Code, effectAttackPrefix); ok {
				stats.Attack[e] += v
				continue
			}
			if e, ok := elementFromEffectCode(eff.Code, effectResPrefix); ok {
				stats.Resistance[e] += v
				continue
			}
			if e, ok := elementFromEffectCode(eff.Code, effectDmgPrefix); ok {
				stats.DmgBonus[e] += v
				continue
			}
		}
	}
}

func newStats() combat.Stats {
	return combat.Stats{
		Attack:     make(map[catalog.Element]int),
		Resistance: make(map[catalog.Element]int),
		DmgBonus:   make(map[catalog.Element]int),
	}
}

// snapshotStats converts a character snapshot's server-reported totals
// (inclusive of equipped gear) into a combat.Stats block.
func snapshotStats(snap *character.Snapshot) combat.Stats {
	s := newStats()
	s.HP = snap.HP
	s.MaxHP = snap.MaxHP
	s.Initiative = snap.Initiative
	s.Crit = snap.Crit
	s.Dmg = snap.Dmg
	for e, v := range snap.Attack {
		s.Attack[e] = v
	}
	for e, v := range snap.Resistance {
		s.Resistance[e] = v
	}
	for e, v := range snap.DmgBonus {
		s.DmgBonus[e] = v
	}
	return s
}

// monsterStats converts a catalog monster into a combat.Stats block.
func monsterStats(m catalog.Monster) combat.Stats {
	s := newStats()
	s.HP = m.HP
	s.MaxHP = m.HP
	s.Initiative = m.Initiative
	s.Crit = m.Crit
	for e, v := range m.Attack {
		s.Attack[e] = v
	}
	for e, v := range m.Resistance {
		s.Resistance[e] = v
	}
	return s
}

// baseStats derives the "naked" baseline (§4.2): start from the
// server-reported totals, then subtract every currently equipped item's
// own effects, leaving the character's unequipped contribution (level,
// base attributes, utilities/rune — which are held constant and were
// never subject to subtraction since they aren't in Equipped).
func baseStats(cat *catalog.Catalog, snap *character.Snapshot) combat.Stats {
	s := snapshotStats(snap)
	for _, code := range snap.Equipped {
		if code == "" {
			continue
		}
		item, ok := cat.Item(code)
		if !ok {
			continue
		}
		applyEffects(&s, item.Effects, -1)
	}
	return s
}

// withCandidate returns a copy of base with candidate's effects folded in,
// or base unchanged if code is empty (no item in that slot).
func withCandidate(base combat.Stats, cat *catalog.Catalog, code string) combat.Stats {
	out := newStats()
	out.HP, out.MaxHP, out.Initiative, out.Crit, out.Dmg = base.HP, base.MaxHP, base.Initiative, base.Crit, base.Dmg
	for e, v := range base.Attack {
		out.Attack[e] = v
	}
	for e, v := range base.Resistance {
		out.Resistance[e] = v
	}
	for e, v := range base.DmgBonus {
		out.DmgBonus[e] = v
	}
	if code == "" {
		return out
	}
	item, ok := cat.Item(code)
	if !ok {
		return out
	}
	applyEffects(&out, item.Effects, 1)
	return out
}
