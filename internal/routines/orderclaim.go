package routines

import (
	"context"
	"time"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/catalog"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/ctlerr"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/orders"
)

// bucketForItem derives an order's claim-priority bucket from the
// catalog item's type/subtype (§4.4 "Bucket is derived from the item's
// type/subtype"). Unknown codes fall back to BucketResource.
func bucketForItem(cat *catalog.Catalog, code string) orders.Bucket {
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

// gatherOrderRequest builds a NewOrderRequest for a gather-sourced
// deficit, used whenever an executor can't close a material shortfall
// itself and needs to hand it off to the board.
func gatherOrderRequest(cat *catalog.Catalog, requester, itemCode, resourceCode string, qty int) orders.NewOrderRequest {
	return orders.NewOrderRequest{
		Requester:  requester,
		ItemCode:   itemCode,
		SourceType: orders.SourceGather,
		SourceCode: resourceCode,
		Quantity:   qty,
		Bucket:     bucketForItem(cat, itemCode),
	}
}

// fightOrderRequest builds a NewOrderRequest for a fight-sourced deficit,
// used whenever a production plan needs a monster drop this character
// can't win against and needs to hand it off to the board.
func fightOrderRequest(cat *catalog.Catalog, requester, itemCode, monsterCode string, qty int) orders.NewOrderRequest {
	return orders.NewOrderRequest{
		Requester:  requester,
		ItemCode:   itemCode,
		SourceType: orders.SourceFight,
		SourceCode: monsterCode,
		Quantity:   qty,
		Bucket:     bucketForItem(cat, itemCode),
	}
}

// findClaimableOrder scans the board (read-only, no claim taken) for the
// first order of sourceType this character could fulfill — reachable,
// within skill, matching craftSkill if given (§4.7 "order-claim-aware
// execution"). Used by CanRun checks so priority selection never claims an
// order it won't actually work this tick.
func findClaimableOrder(shared *Shared, cs *CharacterState, cc character.Context, sourceType orders.SourceType, craftSkill string) (*orders.Order, bool) {
	if !cs.Config.OrderBoard.Enabled || !cs.Config.OrderBoard.FulfillOrders {
		return nil, false
	}

	now := time.Now()
	for _, o := range shared.Orders.ClaimableOrders(now) {
		if o.SourceType != sourceType {
			continue
		}
		if sourceType == orders.SourceCraft && craftSkill != "" {
			item, ok := shared.Catalog.Item(o.ItemCode)
			if !ok || item.Craft == nil || item.Craft.Skill != craftSkill {
				continue
			}
			if cc.SkillLevel(craftSkill) < item.Craft.Level {
				continue
			}
		}
		if sourceType == orders.SourceGather {
			res, ok := shared.Catalog.Resource(o.SourceCode)
			if !ok || cc.SkillLevel(res.Skill) < res.Level {
				continue
			}
			if _, ok := shared.LocationFor("resource", o.SourceCode); !ok {
				continue
			}
		}
		if sourceType == orders.SourceFight {
			if _, ok := shared.LocationFor("monster", o.SourceCode); !ok {
				continue
			}
		}
		return o, true
	}
	return nil, false
}

// ensureOrderClaim calls findClaimableOrder and, on a hit, claims it for cc
// (§4.7 "order-claim-aware execution"). Returns ok=false if nothing
// claimable currently fits or another character claims it first.
func ensureOrderClaim(shared *Shared, cs *CharacterState, cc character.Context, sourceType orders.SourceType, craftSkill string) (*orders.Order, bool) {
	o, ok := findClaimableOrder(shared, cs, cc, sourceType, craftSkill)
	if !ok {
		return nil, false
	}
	return shared.Orders.ClaimOrder(o.ID, cc.Name(), cs.Config.OrderBoard.LeaseMs, time.Now())
}

// depositOrderFulfillment moves to the bank and deposits qty units of
// itemCode on behalf of an order-board claim, recording the progress
// rather than counting it toward the character's own rotation goal (§4.7
// "fulfillment progress does not count toward rotation goals"), exactly
// as depositToBank moves-then-deposits for a character's own inventory.
func depositOrderFulfillment(ctx context.Context, shared *Shared, cc character.Context, order *orders.Order, itemCode string, qty int) (bool, error) {
	if acted, err := moveToContent(ctx, shared, cc, "bank", ""); err != nil {
		return false, err
	} else if acted {
		return true, nil
	}
	out, err := shared.Client.DepositBank(ctx, cc.Name(), itemCode, qty)
	if err != nil {
		return false, err
	}
	cc.ApplyActionResult(out.Character)
	shared.Bank.ApplyBankDelta(itemCode, qty)
	shared.Orders.ApplyProgress(order.ID, qty)
	return true, nil
}

// blockOrderClaim releases order and blocks it for retryMs, used when an
// order turns out unfulfillable (missing skill discovered mid-claim,
// unreachable source) rather than left claimed and stale.
func blockOrderClaim(shared *Shared, order *orders.Order, reason string, retryMs int64) error {
	shared.Orders.BlockClaim(order.ID, reason, time.Now().Add(time.Duration(retryMs)*time.Millisecond))
	return ctlerr.New(ctlerr.CodeClaimUnavailable, reason)
}
