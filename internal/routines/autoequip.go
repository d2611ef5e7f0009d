package routines

import (
	"context"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/catalog"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
)

// slotForItemType maps an item type to the equip slot it fills, for the
// non-ring, non-ambiguous slots AutoEquip handles directly.
var slotForItemType = map[catalog.ItemType]catalog.EquipSlot{
	catalog.ItemTypeWeapon:    catalog.SlotWeapon,
	catalog.ItemTypeShield:    catalog.SlotShield,
	catalog.ItemTypeHelmet:    catalog.SlotHelmet,
	catalog.ItemTypeBodyArmor: catalog.SlotBodyArmor,
	catalog.ItemTypeLegArmor:  catalog.SlotLegArmor,
	catalog.ItemTypeBoots:     catalog.SlotBoots,
	catalog.ItemTypeAmulet:    catalog.SlotAmulet,
	catalog.ItemTypeBag:       catalog.SlotBag,
}

// AutoEquipRoutine keeps a character wearing whatever Gear State assigned
// it that it's already carrying, outside of the per-fight loadout swaps
// equipForCombat performs (§4.9 priority 45).
type AutoEquipRoutine struct {
	shared *Shared
}

// NewAutoEquipRoutine builds the routine.
func NewAutoEquipRoutine(shared *Shared) *AutoEquipRoutine {
	return &AutoEquipRoutine{shared: shared}
}

func (r *AutoEquipRoutine) Name() string                         { return "auto_equip" }
func (r *AutoEquipRoutine) Priority() int                         { return priorityAutoEquip }
func (r *AutoEquipRoutine) Loop() bool                            { return true }
func (r *AutoEquipRoutine) CanBePreempted(character.Context) bool { return true }

// nextSwap finds the first carried-but-unequipped item this character's
// Gear State row says it should hold, along with the slot it belongs in.
func (r *AutoEquipRoutine) nextSwap(cc character.Context) (code string, slot catalog.EquipSlot, found bool) {
	snap := cc.Snapshot()
	available := r.shared.Gear.GetAvailableMap(cc.Name())
	for itemCode := range available {
		if snap.ItemCount(itemCode) == 0 {
			continue
		}
		item, ok := r.shared.Catalog.Item(itemCode)
		if !ok {
			continue
		}
		if item.IsTool() {
			continue // tools are equipped on demand by the gather routine
		}
		s, ok := slotForItemType[item.Type]
		if !ok {
			continue // rings handled implicitly: wearer already holds one per slot via equipForCombat
		}
		if snap.Equipped[s] == itemCode {
			continue
		}
		return itemCode, s, true
	}
	return "", "", false
}

func (r *AutoEquipRoutine) CanRun(cc character.Context) bool {
	_, _, found := r.nextSwap(cc)
	return found
}

func (r *AutoEquipRoutine) Execute(ctx context.Context, cc character.Context) (bool, error) {
	code, slot, found := r.nextSwap(cc)
	if !found {
		return false, nil
	}
	out, err := r.shared.Client.Equip(ctx, cc.Name(), code, slot, 1)
	if err != nil {
		return false, err
	}
	cc.ApplyActionResult(out.Character)
	_, _, more := r.nextSwap(cc)
	return more, nil
}
