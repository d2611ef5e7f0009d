// Package invmirror is the account-wide mirror of bank contents plus a
// reservation ledger over those bank counts (§8
// "Inventory Mirror"). It lets many characters plan against the same bank
// without racing: a reservation subtracts from "available" the instant it's
// made, long before any deposit/withdraw call actually happens.
package invmirror

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Reservation holds a claim against bank-available quantity of one item
// code, made on behalf of one character, until it is released or expires.
type Reservation struct {
	ID        string
	Character string
	Code      string
	Quantity  int
	Expires   time.Time
}

// Mirror is the account-wide bank mirror plus reservation ledger. All
// methods are safe for concurrent use by multiple character control loops.
type Mirror struct {
	mu sync.Mutex

	bank         map[string]int // item code -> quantity in bank, last known
	bankRevision uint64

	reservations map[string]Reservation // reservation ID -> reservation

	fetchErr  error
	fetchDone chan struct{}
}

// New creates an empty Mirror. Call ApplyBankDelta or ReplaceBank once the
// first bank snapshot is fetched.
func New() *Mirror {
	return &Mirror{
		bank:         make(map[string]int),
		reservations: make(map[string]Reservation),
	}
}

// ReplaceBank installs a freshly fetched bank snapshot wholesale and bumps
// the revision counter. Existing reservations survive — they're checked
// against the new totals on next Reserve call, not retroactively voided.
func (m *Mirror) ReplaceBank(items map[string]int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bank = make(map[string]int, len(items))
	for code, qty := range items {
		m.bank[code] = qty
	}
	m.bankRevision++
}

// ApplyBankDelta adjusts one item's known bank quantity by delta (positive
// for a deposit, negative for a withdraw) without requiring a full refetch.
func (m *Mirror) ApplyBankDelta(code string, delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bank[code] += delta
	if m.bank[code] < 0 {
		m.bank[code] = 0
	}
	m.bankRevision++
}

// BankRevision returns the current bank revision counter, bumped on every
// ReplaceBank/ApplyBankDelta — used by callers to detect whether a cached
// read is stale.
func (m *Mirror) BankRevision() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bankRevision
}

// globalCount returns the bank's raw known quantity for code (not
// accounting for reservations).
func (m *Mirror) globalCount(code string) int {
	return m.bank[code]
}

// BankCount is the exported, locked form of globalCount — the bank's raw
// known quantity for code, not adjusted for reservations. Gear State's
// account-wide scarcity accounting (§4.5 step 4) folds this in with every
// character's held and equipped counts to get a true account-wide total.
func (m *Mirror) BankCount(code string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.globalCount(code)
}

// availableBankCount returns the bank quantity for code minus everything
// currently reserved against it (§8 invariant: available never negative).
func (m *Mirror) availableBankCount(now time.Time, code string) int {
	avail := m.bank[code]
	for _, r := range m.reservations {
		if r.Code != code {
			continue
		}
		if now.After(r.Expires) {
			continue
		}
		avail -= r.Quantity
	}
	if avail < 0 {
		avail = 0
	}
	return avail
}

// AvailableBankCount is the exported, locked form of availableBankCount.
func (m *Mirror) AvailableBankCount(code string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.availableBankCount(time.Now(), code)
}

// AvailableBankSnapshot returns every known bank code mapped to its
// available (reservation-adjusted) quantity, for callers that need to
// enumerate candidates (the gear optimizer's "what can I equip from the
// bank" scan) rather than probe one code at a time.
func (m *Mirror) AvailableBankSnapshot() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	out := make(map[string]int, len(m.bank))
	for code := range m.bank {
		if avail := m.availableBankCount(now, code); avail > 0 {
			out[code] = avail
		}
	}
	return out
}

// Reserve attempts to claim qty of code from the bank on behalf of
// character, expiring at leaseExpiry. It fails (ok=false) if the available
// count (after existing, unexpired reservations) is short.
func (m *Mirror) Reserve(character, code string, qty int, leaseExpiry time.Time) (Reservation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reserveLocked(character, code, qty, leaseExpiry)
}

func (m *Mirror) reserveLocked(character, code string, qty int, leaseExpiry time.Time) (Reservation, bool) {
	now := time.Now()
	m.expireLocked(now)
	if m.availableBankCount(now, code) < qty {
		return Reservation{}, false
	}
	r := Reservation{
		ID:        uuid.NewString(),
		Character: character,
		Code:      code,
		Quantity:  qty,
		Expires:   leaseExpiry,
	}
	m.reservations[r.ID] = r
	return r, true
}

// ReserveRequest is one line item in a ReserveMany call.
type ReserveRequest struct {
	Code string
	Qty  int
}

// ReserveMany attempts to reserve every request atomically: either all
// succeed or none are applied (§8 "reserveMany atomicity" invariant).
func (m *Mirror) ReserveMany(character string, requests []ReserveRequest, leaseExpiry time.Time) ([]Reservation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.expireLocked(now)

	for _, req := range requests {
		if m.availableBankCount(now, req.Code) < req.Qty {
			return nil, false
		}
	}

	out := make([]Reservation, 0, len(requests))
	for _, req := range requests {
		r, ok := m.reserveLocked(character, req.Code, req.Qty, leaseExpiry)
		if !ok {
			// Unreachable given the pre-check above runs against the same
			// locked state, but fail safe rather than leave a partial claim.
			for _, made := range out {
				delete(m.reservations, made.ID)
			}
			return nil, false
		}
		out = append(out, r)
	}
	return out, true
}

// Release drops a single reservation by ID. A miss is a no-op: releasing an
// already-expired or already-released reservation is always safe.
func (m *Mirror) Release(reservationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reservations, reservationID)
}

// ReleaseAllForChar drops every live reservation held by character, used
// when a character's routine aborts or is preempted.
func (m *Mirror) ReleaseAllForChar(character string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.reservations {
		if r.Character == character {
			delete(m.reservations, id)
		}
	}
}

// CleanupExpiredReservations drops reservations whose lease has passed,
// returning how many were removed. Safe to call periodically from a
// scheduler tick.
func (m *Mirror) CleanupExpiredReservations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expireLocked(time.Now())
}

func (m *Mirror) expireLocked(now time.Time) int {
	removed := 0
	for id, r := range m.reservations {
		if now.After(r.Expires) {
			delete(m.reservations, id)
			removed++
		}
	}
	return removed
}

// fetchGuard ensures only one in-flight bank refetch happens at a time;
// concurrent callers block on the same result instead of issuing duplicate
// requests (§9 design note: once-in-flight cache cell).
func (m *Mirror) fetchGuard(fetch func() (map[string]int, error)) error {
	m.mu.Lock()
	done := m.fetchDone
	if done == nil {
		done = make(chan struct{})
		m.fetchDone = done
		m.mu.Unlock()

		items, err := fetch()
		m.mu.Lock()
		m.fetchErr = err
		if err == nil {
			m.bank = items
			m.bankRevision++
		}
		m.fetchDone = nil
		m.mu.Unlock()
		close(done)
		return err
	}
	m.mu.Unlock()

	<-done
	m.mu.Lock()
	err := m.fetchErr
	m.mu.Unlock()
	return err
}

// RefreshBank fetches a fresh bank snapshot via fetch, coalescing
// concurrent callers onto a single in-flight request.
func (m *Mirror) RefreshBank(fetch func() (map[string]int, error)) error {
	return m.fetchGuard(fetch)
}
