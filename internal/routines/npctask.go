package routines

import (
	"context"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/rotation"
)

// CompleteNpcTaskRoutine turns in a finished task the moment it's done,
// ahead of almost everything else so the coin/reward isn't left idle on a
// completed task (§4.9 priority 60).
type CompleteNpcTaskRoutine struct {
	shared *Shared
}

// NewCompleteNpcTaskRoutine builds the routine.
func NewCompleteNpcTaskRoutine(shared *Shared) *CompleteNpcTaskRoutine {
	return &CompleteNpcTaskRoutine{shared: shared}
}

func (r *CompleteNpcTaskRoutine) Name() string                         { return "complete_npc_task" }
func (r *CompleteNpcTaskRoutine) Priority() int                         { return priorityCompleteNpcTask }
func (r *CompleteNpcTaskRoutine) Loop() bool                            { return false }
func (r *CompleteNpcTaskRoutine) CanBePreempted(character.Context) bool { return true }

func (r *CompleteNpcTaskRoutine) CanRun(cc character.Context) bool {
	return cc.HasTask() && cc.TaskComplete()
}

func (r *CompleteNpcTaskRoutine) Execute(ctx context.Context, cc character.Context) (bool, error) {
	if acted, err := moveToContent(ctx, r.shared, cc, "task_master", ""); err != nil {
		return false, err
	} else if acted {
		return false, nil
	}
	out, err := r.shared.Client.CompleteTask(ctx, cc.Name())
	if err != nil {
		return false, err
	}
	cc.ApplyActionResult(out.Character)
	return false, nil
}

// AcceptNpcTaskRoutine accepts a fresh task whenever the character has none
// active (§4.9 priority 15): a monster task by default, or an item-trade
// task when the rotation's current skill is item_task, so the item-task
// executor has something to work.
type AcceptNpcTaskRoutine struct {
	shared *Shared
	cs     *CharacterState
}

// NewAcceptNpcTaskRoutine builds the routine.
func NewAcceptNpcTaskRoutine(shared *Shared, cs *CharacterState) *AcceptNpcTaskRoutine {
	return &AcceptNpcTaskRoutine{shared: shared, cs: cs}
}

func (r *AcceptNpcTaskRoutine) Name() string                         { return "accept_npc_task" }
func (r *AcceptNpcTaskRoutine) Priority() int                         { return priorityAcceptNpcTask }
func (r *AcceptNpcTaskRoutine) Loop() bool                            { return false }
func (r *AcceptNpcTaskRoutine) CanBePreempted(character.Context) bool { return true }

func (r *AcceptNpcTaskRoutine) CanRun(cc character.Context) bool {
	return !cc.HasTask()
}

func (r *AcceptNpcTaskRoutine) taskType() character.TaskType {
	if skill, ok := r.cs.Rotation.Current(); ok && skill == rotation.SkillItemTask {
		return character.TaskTypeItems
	}
	return character.TaskTypeMonsters
}

func (r *AcceptNpcTaskRoutine) Execute(ctx context.Context, cc character.Context) (bool, error) {
	if acted, err := moveToContent(ctx, r.shared, cc, "task_master", ""); err != nil {
		return false, err
	} else if acted {
		return false, nil
	}
	out, err := r.shared.Client.AcceptTask(ctx, cc.Name(), r.taskType())
	if err != nil {
		return false, err
	}
	cc.ApplyActionResult(out.Character)
	return false, nil
}
