package character_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/catalog"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
)

func newTestSnapshot() *character.Snapshot {
	return &character.Snapshot{
		Name:              "Bob",
		Level:             5,
		HP:                80,
		MaxHP:             100,
		Skills:            character.SkillSet{Mining: 10},
		Equipped:          map[catalog.EquipSlot]string{catalog.SlotWeapon: "copper_sword"},
		InventoryCapacity: 4,
		Inventory: []character.InventorySlot{
			{Code: "copper_ore", Quantity: 2},
		},
	}
}

func TestContextReadAccessors(t *testing.T) {
	c := character.New(newTestSnapshot())

	require.Equal(t, "Bob", c.Name())
	require.Equal(t, 80.0, c.HPPercent())
	require.Equal(t, 10, c.SkillLevel("mining"))
	require.Equal(t, 0, c.SkillLevel("unknown"))
	require.True(t, c.HasItem("copper_ore", 2))
	require.False(t, c.HasItem("copper_ore", 3))
	require.Equal(t, 1, c.InventoryUsed())
	require.Equal(t, 4, c.InventoryCapacity())
	require.False(t, c.InventoryFull())
	require.False(t, c.HasTask())
}

func TestApplyActionResultReplacesWholesale(t *testing.T) {
	c := character.New(newTestSnapshot())

	updated := newTestSnapshot()
	updated.Inventory = []character.InventorySlot{{Code: "iron_ore", Quantity: 1}}
	updated.Equipped = map[catalog.EquipSlot]string{}
	updated.CooldownExpiration = time.Now().Add(5 * time.Second)

	c.ApplyActionResult(updated)

	require.False(t, c.HasItem("copper_ore", 1), "stale inventory must not leak after a full replace")
	require.True(t, c.HasItem("iron_ore", 1))
	require.True(t, c.OnCooldown(time.Now()))
}

func TestSnapshotIsADefensiveClone(t *testing.T) {
	c := character.New(newTestSnapshot())

	snap := c.Snapshot()
	snap.Inventory[0].Quantity = 999
	snap.Equipped[catalog.SlotShield] = "wooden_shield"

	require.True(t, c.HasItem("copper_ore", 2), "mutating a returned snapshot must not affect the context")
}

func TestLossTracking(t *testing.T) {
	c := character.New(newTestSnapshot())

	require.Equal(t, 0, c.ConsecutiveLosses("chicken"))
	c.RecordLoss("chicken")
	c.RecordLoss("chicken")
	require.Equal(t, 2, c.ConsecutiveLosses("chicken"))
	c.ClearLosses("chicken")
	require.Equal(t, 0, c.ConsecutiveLosses("chicken"))
}
