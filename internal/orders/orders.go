// Package orders implements the cross-character order board (§4.4/§8
// "Order Board"): a shared worklist of "someone needs N of item X from
// source S" requests that any idle character can claim, merge into, and
// make progress on.
package orders

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is an order's lifecycle state.
type Status string

const (
	StatusOpen     Status = "open"
	StatusClaimed  Status = "claimed"
	StatusBlocked  Status = "blocked"
	StatusFulfilled Status = "fulfilled"
)

// SourceType is how an order's item is produced.
type SourceType string

const (
	SourceGather SourceType = "gather"
	SourceCraft  SourceType = "craft"
	SourceFight  SourceType = "fight"
)

// Bucket is the claim-priority category an order falls into (§4.4). Lower
// sorts first: tool, then resource, then weapon, then gear.
type Bucket string

const (
	BucketTool     Bucket = "tool"
	BucketResource Bucket = "resource"
	BucketWeapon   Bucket = "weapon"
	BucketGear     Bucket = "gear"
)

var bucketRank = map[Bucket]int{
	BucketTool:     0,
	BucketResource: 1,
	BucketWeapon:   2,
	BucketGear:     3,
}

// NewOrderRequest is the payload CreateOrMergeOrder accepts — the caller
// (Gear State, the crafting executor) is responsible for classifying
// Bucket from the item's catalog type/subtype, keeping this package free
// of a catalog dependency.
type NewOrderRequest struct {
	Requester  string
	RecipeCode string // the recipe/skill context the request came from, for contribution bookkeeping
	ItemCode   string
	SourceType SourceType
	SourceCode string
	SourceLevel int
	Quantity   int
	Bucket     Bucket
}

// mergeKey mirrors §3: sourceType:sourceCode:itemCode.
func (r NewOrderRequest) mergeKey() string {
	return string(r.SourceType) + ":" + r.SourceCode + ":" + r.ItemCode
}

// Order is one outstanding request for a quantity of an item, shared
// across every character's order-aware routines.
type Order struct {
	ID          string
	ItemCode    string
	SourceType  SourceType
	SourceCode  string
	SourceLevel int
	Bucket      Bucket

	RemainingQty int
	Contributions map[string]int // "requester::recipe" -> qty contributed

	CreatedAt time.Time
	mergeKey  string

	Status       Status
	ClaimedBy    string
	ClaimExpiry  time.Time
	BlockedUntil time.Time
	BlockReasons []string
}

// Done reports whether the order has been fully fulfilled.
func (o Order) Done() bool {
	return o.RemainingQty <= 0
}

// Board is the account-wide, concurrency-safe order board.
type Board struct {
	mu     sync.Mutex
	orders map[string]*Order
}

// New creates an empty order board.
func New() *Board {
	return &Board{orders: make(map[string]*Order)}
}

// CreateOrMergeOrder increments an existing not-yet-fulfilled order (open,
// claimed, or blocked) sharing the same merge key
// (sourceType:sourceCode:itemCode), or creates a fresh one
// (§4.4 "merge-on-submit").
func (b *Board) CreateOrMergeOrder(req NewOrderRequest, now time.Time) *Order {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := req.mergeKey()
	contribKey := req.Requester + "::" + req.RecipeCode

	for _, o := range b.orders {
		if o.mergeKey == key && o.Status != StatusFulfilled {
			o.RemainingQty += req.Quantity
			o.Contributions[contribKey] += req.Quantity
			return o
		}
	}

	o := &Order{
		ID:            uuid.NewString(),
		ItemCode:      req.ItemCode,
		SourceType:    req.SourceType,
		SourceCode:    req.SourceCode,
		SourceLevel:   req.SourceLevel,
		Bucket:        req.Bucket,
		RemainingQty:  req.Quantity,
		Contributions: map[string]int{contribKey: req.Quantity},
		CreatedAt:     now,
		mergeKey:      key,
		Status:        StatusOpen,
	}
	b.orders[o.ID] = o
	return o
}

// SortOrdersForClaim returns orders sorted by (bucket, createdAt, id) —
// all strictly non-decreasing, per the §8 claim-ordering property.
func SortOrdersForClaim(claimable []*Order) []*Order {
	out := make([]*Order, len(claimable))
	copy(out, claimable)
	sort.SliceStable(out, func(i, j int) bool {
		a, c := out[i], out[j]
		if bucketRank[a.Bucket] != bucketRank[c.Bucket] {
			return bucketRank[a.Bucket] < bucketRank[c.Bucket]
		}
		if !a.CreatedAt.Equal(c.CreatedAt) {
			return a.CreatedAt.Before(c.CreatedAt)
		}
		return a.ID < c.ID
	})
	return out
}

// ClaimableOrders returns every order a character could claim right now:
// open orders, plus claimed orders whose lease has expired, plus blocked
// orders past their retry deadline — excluding fulfilled orders.
func (b *Board) ClaimableOrders(now time.Time) []*Order {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []*Order
	for _, o := range b.orders {
		if o.Status == StatusFulfilled {
			continue
		}
		switch o.Status {
		case StatusOpen:
			out = append(out, o)
		case StatusClaimed:
			if now.After(o.ClaimExpiry) {
				out = append(out, o)
			}
		case StatusBlocked:
			if now.After(o.BlockedUntil) {
				out = append(out, o)
			}
		}
	}
	return SortOrdersForClaim(out)
}

// ClaimOrder assigns the order to character for leaseMs milliseconds.
// Idempotent for the same holder. Fails if the order is fulfilled, or
// actively claimed/blocked by someone else within its lease/retry window.
func (b *Board) ClaimOrder(orderID, character string, leaseMs int64, now time.Time) (*Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.orders[orderID]
	if !ok || o.Status == StatusFulfilled || o.RemainingQty <= 0 {
		return nil, false
	}
	if o.Status == StatusClaimed && o.ClaimedBy != character && !now.After(o.ClaimExpiry) {
		return nil, false
	}
	if o.Status == StatusBlocked && !now.After(o.BlockedUntil) {
		return nil, false
	}

	o.Status = StatusClaimed
	o.ClaimedBy = character
	o.ClaimExpiry = now.Add(time.Duration(leaseMs) * time.Millisecond)
	return o, true
}

// ReleaseClaim gives up a claim without marking progress, returning the
// order to open so another character can pick it up immediately.
func (b *Board) ReleaseClaim(orderID, character string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.orders[orderID]
	if !ok || o.ClaimedBy != character {
		return
	}
	o.Status = StatusOpen
	o.ClaimedBy = ""
}

// ApplyProgress subtracts delta from remainingQty. Reaching zero (or below,
// clamped) marks the order fulfilled; otherwise it returns to open so the
// remainder can be claimed again.
func (b *Board) ApplyProgress(orderID string, delta int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.orders[orderID]
	if !ok {
		return
	}
	o.RemainingQty -= delta
	if o.RemainingQty <= 0 {
		o.RemainingQty = 0
		o.Status = StatusFulfilled
		o.ClaimedBy = ""
		return
	}
	o.Status = StatusOpen
	o.ClaimedBy = ""
}

// BlockClaim releases the claim and marks the order blocked until
// blockedUntil, recording reason, without losing progress already made.
func (b *Board) BlockClaim(orderID, reason string, blockedUntil time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.orders[orderID]
	if !ok {
		return
	}
	o.Status = StatusBlocked
	o.ClaimedBy = ""
	o.BlockedUntil = blockedUntil
	o.BlockReasons = append(o.BlockReasons, reason)
}

// Get returns the order by ID, if present.
func (b *Board) Get(orderID string) (*Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[orderID]
	return o, ok
}

// All returns every order currently on the board, in no particular order.
func (b *Board) All() []*Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*Order, 0, len(b.orders))
	for _, o := range b.orders {
		out = append(out, o)
	}
	return out
}
