package combat_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/catalog"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/combat"
)

func characterStats() combat.Stats {
	return combat.Stats{
		HP:         100,
		MaxHP:      100,
		Initiative: 5,
		Crit:       10,
		Attack:     map[catalog.Element]int{catalog.ElementFire: 20},
		Resistance: map[catalog.Element]int{catalog.ElementFire: 0},
	}
}

func monsterStats() combat.Stats {
	return combat.Stats{
		HP:         60,
		MaxHP:      60,
		Initiative: 1,
		Attack:     map[catalog.Element]int{catalog.ElementFire: 8},
		Resistance: map[catalog.Element]int{catalog.ElementFire: 0},
	}
}

func TestSimulateCombatCharacterWins(t *testing.T) {
	out := combat.SimulateCombat(characterStats(), monsterStats())
	require.True(t, out.Win)
	require.Greater(t, out.Turns, 0)
	require.Greater(t, out.RemainingHP, 0)
}

func TestSimulateCombatUnwinnable(t *testing.T) {
	weak := characterStats()
	weak.Attack[catalog.ElementFire] = 0
	out := combat.SimulateCombat(weak, monsterStats())
	require.False(t, out.Win)
	require.Equal(t, 0, out.RemainingHP)
	require.Equal(t, 100.0, out.HPLostPercent)
}

func TestCalcTurnDamageMatchesFirstTurnOfSimulation(t *testing.T) {
	c := characterStats()
	m := monsterStats()

	want := combat.CalcTurnDamage(c, m)

	// First-turn-only fight: shrink the monster's HP to exactly the
	// expected first-turn damage so the simulation ends after one turn,
	// then read back how much HP it actually removed.
	m.HP = want
	m.MaxHP = want
	out := combat.SimulateCombat(c, m)
	require.Equal(t, 1, out.Turns)
	require.True(t, out.Win)
}

func TestMonotoneInMaxHP(t *testing.T) {
	c := characterStats()
	c.HP = 10
	c.MaxHP = 10
	m := monsterStats()
	m.Attack[catalog.ElementFire] = 50 // monster hits harder than the character can out-turn

	low := combat.SimulateCombat(c, m)

	high := c
	high.HP = 200
	high.MaxHP = 200
	tall := combat.SimulateCombat(high, m)

	if low.Win {
		require.True(t, tall.Win, "increasing HP must never turn a win into a loss")
	}
}

func TestMonotoneInDamageNeverIncreasesTurnsToWin(t *testing.T) {
	c := characterStats()
	m := monsterStats()
	base := combat.SimulateCombat(c, m)
	require.True(t, base.Win)

	boosted := c
	boosted.Attack = map[catalog.Element]int{catalog.ElementFire: c.Attack[catalog.ElementFire] + 10}
	stronger := combat.SimulateCombat(boosted, m)

	require.True(t, stronger.Win)
	require.LessOrEqual(t, stronger.Turns, base.Turns)
}

func TestMonotoneInResistanceNeverDecreasesRemainingHP(t *testing.T) {
	c := characterStats()
	m := monsterStats()
	base := combat.SimulateCombat(c, m)

	tougher := c
	tougher.Resistance = map[catalog.Element]int{catalog.ElementFire: 50}
	protected := combat.SimulateCombat(tougher, m)

	require.GreaterOrEqual(t, protected.RemainingHP, base.RemainingHP)
}

func TestHPNeededForFight(t *testing.T) {
	c := characterStats()
	m := monsterStats()

	needed, ok := combat.HPNeededForFight(c, m)
	require.True(t, ok)
	require.Greater(t, needed, 0)
	require.LessOrEqual(t, needed, c.MaxHP)

	probe := c
	probe.HP = needed
	probe.MaxHP = needed
	require.True(t, combat.SimulateCombat(probe, m).Win)

	if needed > 1 {
		probe.HP = needed - 1
		probe.MaxHP = needed - 1
		require.False(t, combat.SimulateCombat(probe, m).Win, "one less HP than needed must lose")
	}
}

func TestHPNeededForFightUnwinnable(t *testing.T) {
	c := characterStats()
	c.Attack[catalog.ElementFire] = 0
	m := monsterStats()

	_, ok := combat.HPNeededForFight(c, m)
	require.False(t, ok)
}
