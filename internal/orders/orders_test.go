package orders_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/orders"
)

func submit(b *orders.Board, itemCode string, bucket orders.Bucket, qty int, now time.Time) *orders.Order {
	return b.CreateOrMergeOrder(orders.NewOrderRequest{
		Requester:  "Bob",
		RecipeCode: itemCode,
		ItemCode:   itemCode,
		SourceType: orders.SourceGather,
		SourceCode: itemCode,
		Quantity:   qty,
		Bucket:     bucket,
	}, now)
}

// TestClaimFIFOWithinBucket reproduces scenario 1 of §8: six orders across
// four buckets must sort strictly by (bucket, createdAt).
func TestClaimFIFOWithinBucket(t *testing.T) {
	b := orders.New()
	t0 := time.Now()

	a := submit(b, "a", orders.BucketTool, 1, t0.Add(10*time.Millisecond))
	e := submit(b, "e", orders.BucketWeapon, 1, t0.Add(2*time.Millisecond))
	bb := submit(b, "b", orders.BucketTool, 1, t0.Add(30*time.Millisecond))
	f := submit(b, "f", orders.BucketGear, 1, t0.Add(1*time.Millisecond))
	c := submit(b, "c", orders.BucketResource, 1, t0.Add(11*time.Millisecond))
	d := submit(b, "d", orders.BucketResource, 1, t0.Add(40*time.Millisecond))

	claimable := b.ClaimableOrders(t0.Add(time.Hour))
	ids := make([]string, len(claimable))
	for i, o := range claimable {
		ids[i] = o.ID
	}
	require.Equal(t, []string{a.ID, bb.ID, c.ID, d.ID, e.ID, f.ID}, ids)
}

func TestCreateOrMergeOrderMergesSameKey(t *testing.T) {
	b := orders.New()
	now := time.Now()

	o1 := submit(b, "iron_ore", orders.BucketResource, 5, now)
	o2 := b.CreateOrMergeOrder(orders.NewOrderRequest{
		Requester:  "Alice",
		RecipeCode: "iron_ore",
		ItemCode:   "iron_ore",
		SourceType: orders.SourceGather,
		SourceCode: "iron_ore",
		Quantity:   3,
		Bucket:     orders.BucketResource,
	}, now)

	require.Equal(t, o1.ID, o2.ID)
	require.Equal(t, 8, o2.RemainingQty)
	require.Equal(t, 5, o2.Contributions["Bob::iron_ore"])
	require.Equal(t, 3, o2.Contributions["Alice::iron_ore"])
}

func TestCreateOrMergeOrderDoesNotMergeIntoFulfilledOrder(t *testing.T) {
	b := orders.New()
	now := time.Now()

	o1 := submit(b, "iron_ore", orders.BucketResource, 5, now)
	b.ApplyProgress(o1.ID, 5)
	require.Equal(t, orders.StatusFulfilled, o1.Status)

	o2 := submit(b, "iron_ore", orders.BucketResource, 3, now)
	require.NotEqual(t, o1.ID, o2.ID)
}

func TestClaimOrderExpiryReturnsOrderToClaimable(t *testing.T) {
	b := orders.New()
	now := time.Now()
	o := submit(b, "iron_ore", orders.BucketResource, 5, now)

	claimed, ok := b.ClaimOrder(o.ID, "Alice", 1000, now)
	require.True(t, ok)
	require.Equal(t, "Alice", claimed.ClaimedBy)

	_, ok = b.ClaimOrder(o.ID, "Carol", 1000, now.Add(500*time.Millisecond))
	require.False(t, ok, "order still within another character's active lease must not be claimable")

	// Idempotent for the same holder.
	_, ok = b.ClaimOrder(o.ID, "Alice", 1000, now.Add(500*time.Millisecond))
	require.True(t, ok)

	reclaimed, ok := b.ClaimOrder(o.ID, "Carol", 1000, now.Add(2*time.Second))
	require.True(t, ok, "order must become claimable again once the lease expires")
	require.Equal(t, "Carol", reclaimed.ClaimedBy)
}

func TestApplyProgressFulfillsOrder(t *testing.T) {
	b := orders.New()
	now := time.Now()
	o := submit(b, "iron_ore", orders.BucketResource, 5, now)
	b.ClaimOrder(o.ID, "Bob", 1000, now)

	b.ApplyProgress(o.ID, 3)
	got, _ := b.Get(o.ID)
	require.Equal(t, orders.StatusOpen, got.Status, "partially fulfilled order returns to open")
	require.Equal(t, 2, got.RemainingQty)

	b.ApplyProgress(o.ID, 2)
	got, _ = b.Get(o.ID)
	require.Equal(t, orders.StatusFulfilled, got.Status)
	require.True(t, got.Done())
	require.Equal(t, 0, got.RemainingQty)
}

func TestBlockClaimHidesOrderUntilDeadline(t *testing.T) {
	b := orders.New()
	now := time.Now()
	o := submit(b, "iron_ore", orders.BucketResource, 5, now)

	b.BlockClaim(o.ID, "unreachable", now.Add(time.Minute))
	require.Empty(t, b.ClaimableOrders(now))

	claimable := b.ClaimableOrders(now.Add(2 * time.Minute))
	require.Len(t, claimable, 1)
	got, _ := b.Get(o.ID)
	require.Equal(t, []string{"unreachable"}, got.BlockReasons)
}

func TestReleaseClaimReturnsToOpen(t *testing.T) {
	b := orders.New()
	now := time.Now()
	o := submit(b, "iron_ore", orders.BucketResource, 5, now)
	b.ClaimOrder(o.ID, "Bob", 1000, now)

	b.ReleaseClaim(o.ID, "Bob")
	got, _ := b.Get(o.ID)
	require.Equal(t, orders.StatusOpen, got.Status)
	require.Empty(t, got.ClaimedBy)
}

func TestRemainingQtyNeverNegative(t *testing.T) {
	b := orders.New()
	now := time.Now()
	o := submit(b, "iron_ore", orders.BucketResource, 3, now)

	b.ApplyProgress(o.ID, 10)
	got, _ := b.Get(o.ID)
	require.Equal(t, 0, got.RemainingQty)
	require.Equal(t, orders.StatusFulfilled, got.Status)
}
