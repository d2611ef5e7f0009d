package routines

import (
	"context"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
)

// restTriggerPercent is the HP percentage that makes emergency rest
// preempt everything else (§4.9 priority 100).
const restTriggerPercent = 30.0

// restUntilPercent is how full HP must be before the rest routine stops
// looping and yields back to lower-priority routines.
const restUntilPercent = 90.0

// RestRoutine is the top-priority emergency rest: whenever HP drops below
// restTriggerPercent it preempts everything and rests until comfortably
// topped up (§4.9).
type RestRoutine struct {
	shared *Shared
}

// NewRestRoutine builds the routine.
func NewRestRoutine(shared *Shared) *RestRoutine { return &RestRoutine{shared: shared} }

func (r *RestRoutine) Name() string                           { return "rest" }
func (r *RestRoutine) Priority() int                           { return priorityRest }
func (r *RestRoutine) Loop() bool                              { return true }
func (r *RestRoutine) CanBePreempted(character.Context) bool   { return false }
func (r *RestRoutine) CanRun(cc character.Context) bool        { return cc.HPPercent() < restTriggerPercent }

func (r *RestRoutine) Execute(ctx context.Context, cc character.Context) (bool, error) {
	out, err := r.shared.Client.Rest(ctx, cc.Name())
	if err != nil {
		return false, err
	}
	cc.ApplyActionResult(out.Character)
	return cc.HPPercent() < restUntilPercent, nil
}
