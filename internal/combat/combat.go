// Package combat is the deterministic, client-side fight predictor (§4.1).
// It never calls the game API; it only projects an outcome from stat
// blocks the caller already holds, so the gear optimizer and skill
// rotation can ask "can I beat this?" cheaply and repeatedly.
package combat

import (
	"math"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/catalog"
)

// Stats is one combatant's full stat block — shared shape for both the
// character and the monster side of a fight (§4.1).
type Stats struct {
	HP         int
	MaxHP      int
	Initiative int
	Crit       int // percent chance per turn

	Attack     map[catalog.Element]int
	Resistance map[catalog.Element]int
	DmgBonus   map[catalog.Element]int // per-element damage bonus, percent
	Dmg        int                     // flat damage bonus, percent, applies to every element
}

// attackValue returns Attack[e] + any utility/rune contribution already
// folded in by the caller (§4.1: "utilities and runes add ... before
// damage is computed" — callers are expected to have summed them into
// Attack/DmgBonus before calling SimulateCombat).
func (s Stats) attackValue(e catalog.Element) int {
	return s.Attack[e]
}

// Outcome is the simulator's result for one fight (§4.1).
type Outcome struct {
	Win           bool
	Turns         int
	HPLostPercent float64
	RemainingHP   int
}

// critMultiplier is the fixed bonus applied to a turn's damage when a crit
// triggers (§4.1: "a fixed +50% multiplier").
const critMultiplier = 1.5

// critExpectedMultiplier folds a crit chance into an expected-value
// multiplier rather than rolling dice, so the simulator is deterministic
// and reproducible (§4.1: "expected value or seedable").
func critExpectedMultiplier(critChance int) float64 {
	return 1 + (critMultiplier-1)*float64(critChance)/100
}

// calcTurnDamageExpected computes one turn's damage from attacker against
// defender, summed across every element, per the §4.1 formula:
//
//	round(A.attack_e * (1 + A.dmg_e/100 + A.dmg/100) * (1 - D.res_e/100))
//
// with the attacker's crit chance folded in as an expected-value
// multiplier. CalcTurnDamage and SimulateCombat's first turn both call
// this, so they agree by construction (§8 property).
func calcTurnDamageExpected(attacker, defender Stats) int {
	total := 0.0
	for _, e := range catalog.AllElements {
		atk := float64(attacker.attackValue(e))
		if atk == 0 {
			continue
		}
		bonus := 1 + float64(attacker.DmgBonus[e])/100 + float64(attacker.Dmg)/100
		resist := 1 - float64(defender.Resistance[e])/100
		dmg := atk * bonus * resist * critExpectedMultiplier(attacker.Crit)
		total += math.Round(dmg)
	}
	if total < 0 {
		return 0
	}
	return int(total)
}

// CalcTurnDamage exposes the first-turn damage number alone (no full
// simulation) — used by the gear optimizer's weapon phase to rank
// candidates (§4.1).
func CalcTurnDamage(character, monster Stats) int {
	return calcTurnDamageExpected(character, monster)
}

// maxTurns bounds the simulation loop so a pair of stat blocks that can
// never kill each other (e.g. both zero attack) terminates as a loss
// rather than spinning forever.
const maxTurns = 200

// SimulateCombat runs a deterministic, turn-by-turn expected-value fight
// between character and monster (§4.1). Initiative decides who strikes
// first each round; a tie favors the character. A combatant whose HP
// drops to 0 loses.
func SimulateCombat(character, monster Stats) Outcome {
	charHP := character.HP
	monsterHP := monster.HP
	if charHP <= 0 || monsterHP <= 0 {
		return Outcome{Win: charHP > 0, RemainingHP: max0(charHP)}
	}

	characterFirst := character.Initiative >= monster.Initiative

	turns := 0
	for turns < maxTurns {
		turns++

		if characterFirst {
			monsterHP -= calcTurnDamageExpected(character, monster)
			if monsterHP <= 0 {
				break
			}
			charHP -= calcTurnDamageExpected(monster, character)
			if charHP <= 0 {
				break
			}
			continue
		}

		charHP -= calcTurnDamageExpected(monster, character)
		if charHP <= 0 {
			break
		}
		monsterHP -= calcTurnDamageExpected(character, monster)
		if monsterHP <= 0 {
			break
		}
	}

	win := monsterHP <= 0 && charHP > 0
	remaining := max0(charHP)

	hpLostPercent := 0.0
	if character.MaxHP > 0 {
		hpLostPercent = 100 * float64(character.MaxHP-remaining) / float64(character.MaxHP)
		if hpLostPercent < 0 {
			hpLostPercent = 0
		}
		if hpLostPercent > 100 {
			hpLostPercent = 100
		}
	}

	return Outcome{
		Win:           win,
		Turns:         turns,
		HPLostPercent: hpLostPercent,
		RemainingHP:   remaining,
	}
}

func max0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// HPNeededForFight returns the minimum starting HP (with maxHP held equal
// to the probe value) that still produces a winning simulation against
// monster, or ok=false if the fight is unwinnable at any HP with the
// character's current offense/defense (§4.1).
func HPNeededForFight(character Stats, monster Stats) (hp int, ok bool) {
	probe := character
	probe.HP = character.MaxHP
	probe.MaxHP = character.MaxHP
	if !SimulateCombat(probe, monster).Win {
		return 0, false
	}

	lo, hi := 1, character.MaxHP
	for lo < hi {
		mid := (lo + hi) / 2
		probe.HP = mid
		probe.MaxHP = mid
		if SimulateCombat(probe, monster).Win {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo, true
}
