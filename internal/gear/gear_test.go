package gear_test

import (
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/catalog"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
)

// testCatalog builds a small, self-consistent catalog exercising every
// equip slot, two weapon tiers, a gathering tool, and one craftable item
// a level-5 character can plan into.
func testCatalog() *catalog.Catalog {
	items := []catalog.Item{
		{Code: "wooden_stick", Name: "Wooden Stick", Type: catalog.ItemTypeWeapon, Level: 1,
			Effects: []catalog.Effect{{Code: "attack_neutral", Value: 5}}},
		{Code: "iron_sword", Name: "Iron Sword", Type: catalog.ItemTypeWeapon, Level: 5,
			Effects: []catalog.Effect{{Code: "attack_neutral", Value: 12}, {Code: "critical_strike", Value: 10}},
			Craft: &catalog.Recipe{Skill: "weaponcrafting", Level: 5, Quantity: 1,
				Materials: []catalog.Material{{Code: "iron", Quantity: 4}}}},
		{Code: "fire_sword", Name: "Fire Sword", Type: catalog.ItemTypeWeapon, Level: 5,
			Effects: []catalog.Effect{{Code: "attack_fire", Value: 14}}},

		{Code: "wooden_shield", Name: "Wooden Shield", Type: catalog.ItemTypeShield, Level: 1,
			Effects: []catalog.Effect{{Code: "res_neutral", Value: 5}, {Code: "hp", Value: 10}}},
		{Code: "leather_helmet", Name: "Leather Helmet", Type: catalog.ItemTypeHelmet, Level: 1,
			Effects: []catalog.Effect{{Code: "hp", Value: 5}}},
		{Code: "leather_armor", Name: "Leather Armor", Type: catalog.ItemTypeBodyArmor, Level: 1,
			Effects: []catalog.Effect{{Code: "hp", Value: 20}}},
		{Code: "leather_legs", Name: "Leather Legs", Type: catalog.ItemTypeLegArmor, Level: 1,
			Effects: []catalog.Effect{{Code: "hp", Value: 10}}},
		{Code: "leather_boots", Name: "Leather Boots", Type: catalog.ItemTypeBoots, Level: 1,
			Effects: []catalog.Effect{{Code: "initiative", Value: 5}}},

		{Code: "ring_of_str", Name: "Ring of Strength", Type: catalog.ItemTypeRing, Level: 1,
			Effects: []catalog.Effect{{Code: "dmg", Value: 5}}},
		{Code: "ring_of_luck", Name: "Ring of Luck", Type: catalog.ItemTypeRing, Level: 1,
			Effects: []catalog.Effect{{Code: "critical_strike", Value: 5}}},
		{Code: "amulet_of_hp", Name: "Amulet of HP", Type: catalog.ItemTypeAmulet, Level: 1,
			Effects: []catalog.Effect{{Code: "hp", Value: 15}}},

		{Code: "small_bag", Name: "Small Bag", Type: catalog.ItemTypeBag, Level: 1,
			Effects: []catalog.Effect{{Code: "inventory_space", Value: 10}}},
		{Code: "big_bag", Name: "Big Bag", Type: catalog.ItemTypeBag, Level: 5,
			Effects: []catalog.Effect{{Code: "inventory_space", Value: 30}}},

		{Code: "iron_pickaxe", Name: "Iron Pickaxe", Type: catalog.ItemTypeWeapon, Subtype: catalog.SubtypeTool, Level: 1,
			Effects: []catalog.Effect{{Code: "mining", Value: 10}, {Code: "prospecting", Value: 5}}},

		{Code: "iron", Name: "Iron Ore", Type: catalog.ItemTypeResource, Level: 1},
	}

	monsters := []catalog.Monster{
		{Code: "chicken", Name: "Chicken", Level: 1, HP: 20, Initiative: 1,
			Attack: map[catalog.Element]int{catalog.ElementNeutral: 4}, Resistance: map[catalog.Element]int{}},
		{Code: "wolf", Name: "Wolf", Level: 5, HP: 60, Initiative: 5, Crit: 10,
			Attack: map[catalog.Element]int{catalog.ElementNeutral: 10}, Resistance: map[catalog.Element]int{}},
		{Code: "dragon", Name: "Dragon", Level: 40, HP: 5000, Initiative: 50,
			Attack: map[catalog.Element]int{catalog.ElementFire: 200}, Resistance: map[catalog.Element]int{}},
	}

	resources := []catalog.Resource{
		{Code: "iron_rocks", Name: "Iron Rocks", Skill: "mining", Level: 1,
			Drops: []catalog.Drop{{Code: "iron", Rate: 1, Min: 1, Max: 1}}},
	}

	return catalog.New(items, monsters, resources)
}

// baseSnapshot builds an unequipped level-5 character with plain stats.
func baseSnapshot() *character.Snapshot {
	return &character.Snapshot{
		Name:       "Tester",
		Level:      5,
		HP:         100,
		MaxHP:      100,
		Skills:     character.SkillSet{Mining: 5, Weaponcrafting: 5},
		Initiative: 0,
		Crit:       0,
		Attack:     map[catalog.Element]int{},
		Resistance: map[catalog.Element]int{},
		DmgBonus:   map[catalog.Element]int{},
		Equipped:   map[catalog.EquipSlot]string{},
		InventoryCapacity: 30,
	}
}
