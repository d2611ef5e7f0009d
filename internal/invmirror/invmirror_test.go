package invmirror_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/invmirror"
)

func TestGlobalAndAvailableBankCount(t *testing.T) {
	m := invmirror.New()
	m.ReplaceBank(map[string]int{"iron_ore": 10})

	require.Equal(t, 10, m.AvailableBankCount("iron_ore"))

	lease := time.Now().Add(time.Minute)
	_, ok := m.Reserve("Bob", "iron_ore", 6, lease)
	require.True(t, ok)

	require.Equal(t, 4, m.AvailableBankCount("iron_ore"), "available must subtract live reservations")
}

func TestReserveFailsWhenShort(t *testing.T) {
	m := invmirror.New()
	m.ReplaceBank(map[string]int{"iron_ore": 5})

	lease := time.Now().Add(time.Minute)
	_, ok := m.Reserve("Bob", "iron_ore", 10, lease)
	require.False(t, ok)
	require.Equal(t, 5, m.AvailableBankCount("iron_ore"), "a failed reservation must not partially apply")
}

func TestReserveManyIsAllOrNothing(t *testing.T) {
	m := invmirror.New()
	m.ReplaceBank(map[string]int{"iron_ore": 10, "coal": 1})

	lease := time.Now().Add(time.Minute)
	reqs := []invmirror.ReserveRequest{
		{Code: "iron_ore", Qty: 5},
		{Code: "coal", Qty: 5}, // short — must abort the whole batch
	}
	reservations, ok := m.ReserveMany("Bob", reqs, lease)
	require.False(t, ok)
	require.Nil(t, reservations)

	require.Equal(t, 10, m.AvailableBankCount("iron_ore"), "no partial reservation must remain after an aborted batch")
	require.Equal(t, 1, m.AvailableBankCount("coal"))
}

func TestReserveManySucceedsAtomically(t *testing.T) {
	m := invmirror.New()
	m.ReplaceBank(map[string]int{"iron_ore": 10, "coal": 10})

	lease := time.Now().Add(time.Minute)
	reqs := []invmirror.ReserveRequest{
		{Code: "iron_ore", Qty: 5},
		{Code: "coal", Qty: 3},
	}
	reservations, ok := m.ReserveMany("Bob", reqs, lease)
	require.True(t, ok)
	require.Len(t, reservations, 2)

	require.Equal(t, 5, m.AvailableBankCount("iron_ore"))
	require.Equal(t, 7, m.AvailableBankCount("coal"))
}

func TestExpiredReservationsAreIgnored(t *testing.T) {
	m := invmirror.New()
	m.ReplaceBank(map[string]int{"iron_ore": 10})

	past := time.Now().Add(-time.Second)
	r, ok := m.Reserve("Bob", "iron_ore", 5, past)
	require.True(t, ok)

	require.Equal(t, 10, m.AvailableBankCount("iron_ore"), "an expired reservation must not hold available count down")

	removed := m.CleanupExpiredReservations()
	require.Equal(t, 1, removed)
	m.Release(r.ID) // already gone; must be a safe no-op
}

func TestReleaseAllForChar(t *testing.T) {
	m := invmirror.New()
	m.ReplaceBank(map[string]int{"iron_ore": 10})

	lease := time.Now().Add(time.Minute)
	_, ok := m.Reserve("Bob", "iron_ore", 4, lease)
	require.True(t, ok)
	_, ok = m.Reserve("Alice", "iron_ore", 3, lease)
	require.True(t, ok)

	m.ReleaseAllForChar("Bob")
	require.Equal(t, 7, m.AvailableBankCount("iron_ore"), "only Bob's reservation should be released")
}

func TestApplyBankDeltaNeverGoesNegative(t *testing.T) {
	m := invmirror.New()
	m.ReplaceBank(map[string]int{"iron_ore": 2})
	m.ApplyBankDelta("iron_ore", -10)

	require.Equal(t, 0, m.AvailableBankCount("iron_ore"))
}

func TestRefreshBankCoalescesConcurrentFetches(t *testing.T) {
	m := invmirror.New()

	calls := 0
	fetch := func() (map[string]int, error) {
		calls++
		return map[string]int{"iron_ore": 42}, nil
	}

	done := make(chan error, 2)
	go func() { done <- m.RefreshBank(fetch) }()
	go func() { done <- m.RefreshBank(fetch) }()

	require.NoError(t, <-done)
	require.NoError(t, <-done)
	require.Equal(t, 42, m.AvailableBankCount("iron_ore"))
	require.LessOrEqual(t, calls, 2, "coalescing is best-effort, but must never under-fetch")
}

func TestRefreshBankPropagatesError(t *testing.T) {
	m := invmirror.New()
	wantErr := errors.New("boom")

	err := m.RefreshBank(func() (map[string]int, error) { return nil, wantErr })
	require.ErrorIs(t, err, wantErr)
}
