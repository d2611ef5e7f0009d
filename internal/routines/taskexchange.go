package routines

import (
	"context"
	"time"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/config"
)

// minExchangeCoins is the fixed cost of one task-coin exchange (§4.8).
const minExchangeCoins = 6

// taskExchangeNeedsFreeSlots is how many empty inventory slots an exchange
// attempt requires before it will spend coins (§4.8).
const taskExchangeNeedsFreeSlots = 2

// unmetTaskTargets returns the subset of cs.Config.TaskCollectionTargets
// the character hasn't yet accumulated, across inventory + bank, mapped to
// how many more are wanted.
func unmetTaskTargets(shared *Shared, cc character.Context, targets map[string]int) map[string]int {
	out := make(map[string]int)
	for code, want := range targets {
		have := cc.ItemCount(code) + shared.Bank.AvailableBankSnapshot()[code]
		if have < want {
			out[code] = want - have
		}
	}
	return out
}

// attemptTaskExchange performs at most one server-advancing step of the
// task-coin exchange flow: topping up coins, or exchanging and depositing
// the reward (§4.8). With fewer than taskExchangeNeedsFreeSlots free slots
// it takes no action. acted reports whether a server action was
// taken; ok reports whether the account-wide exchange lock was even
// available this call.
func attemptTaskExchange(ctx context.Context, shared *Shared, cc character.Context) (acted bool, ok bool, err error) {
	if !shared.exchangeMu.TryLock() {
		return false, false, nil
	}
	defer shared.exchangeMu.Unlock()

	snap := cc.Snapshot()

	if snap.Gold < minExchangeCoins {
		need := minExchangeCoins - snap.Gold
		out, err := shared.Client.WithdrawGold(ctx, cc.Name(), need)
		if err != nil {
			return false, true, err
		}
		cc.ApplyActionResult(out.Character)
		return true, true, nil
	}

	if cc.InventoryCapacity()-cc.InventoryUsed() < taskExchangeNeedsFreeSlots {
		return false, true, nil
	}

	out, err := shared.Client.TaskExchange(ctx, cc.Name())
	if err != nil {
		return false, true, err
	}
	cc.ApplyActionResult(out.Character)
	for _, reward := range out.Rewards {
		depositOut, err := shared.Client.DepositBank(ctx, cc.Name(), reward.Code, reward.Quantity)
		if err != nil {
			return true, true, err
		}
		cc.ApplyActionResult(depositOut.Character)
		shared.Bank.ApplyBankDelta(reward.Code, reward.Quantity)
	}
	return true, true, nil
}

// ItemTaskExchangeRoutine proactively exchanges task coins toward the
// configured collection targets (§4.7 item_task skill, §4.8). It backs off
// after a no-progress proactive attempt rather than hammering the exchange
// endpoint every tick.
type ItemTaskExchangeRoutine struct {
	shared *Shared
	cs     *CharacterState
}

// NewItemTaskExchangeRoutine builds the routine.
func NewItemTaskExchangeRoutine(shared *Shared, cs *CharacterState) *ItemTaskExchangeRoutine {
	return &ItemTaskExchangeRoutine{shared: shared, cs: cs}
}

func (r *ItemTaskExchangeRoutine) Name() string   { return "item_task_exchange" }
func (r *ItemTaskExchangeRoutine) Priority() int   { return priorityRotation }
func (r *ItemTaskExchangeRoutine) Loop() bool      { return true }
func (r *ItemTaskExchangeRoutine) CanBePreempted(character.Context) bool { return true }

func (r *ItemTaskExchangeRoutine) CanRun(cc character.Context) bool {
	if current, ok := r.cs.Rotation.Current(); !ok || string(current) != "item_task" {
		return false
	}
	if time.Now().Before(r.cs.proactiveExchangeBackoffUntil) {
		return false
	}
	unmet := unmetTaskTargets(r.shared, cc, r.cs.Config.TaskCollectionTargets)
	return len(unmet) > 0
}

func (r *ItemTaskExchangeRoutine) Execute(ctx context.Context, cc character.Context) (bool, error) {
	before := unmetTaskTargets(r.shared, cc, r.cs.Config.TaskCollectionTargets)
	acted, locked, err := attemptTaskExchange(ctx, r.shared, cc)
	if err != nil {
		return false, err
	}
	if !locked {
		return false, nil
	}
	if !acted {
		r.cs.proactiveExchangeBackoffUntil = time.Now().Add(config.ProactiveExchangeBackoff)
		return false, nil
	}
	after := unmetTaskTargets(r.shared, cc, r.cs.Config.TaskCollectionTargets)
	if len(after) >= len(before) {
		r.cs.proactiveExchangeBackoffUntil = time.Now().Add(config.ProactiveExchangeBackoff)
	}
	return len(after) > 0, nil
}
