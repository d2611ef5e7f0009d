// Package scheduler runs one character's priority-preemptive routine loop
// (§4.9): pick the highest-priority runnable routine each tick, step it,
// honor the server-reported cooldown between actions, and recover from
// errors into a visible per-character status rather than crashing the
// process.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/rotation"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/routines"
)

// Status is a character loop's coarse health (§7 "status ∈ {starting,
// running, error}").
type Status string

const (
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusError    Status = "error"
)

// Phase is the current routine step's health (§7 "routine.phase ∈ {idle,
// running, error}").
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhaseError   Phase = "error"
)

// staleAfter is how long without an update past cooldown before a
// character is declared stale (§7).
const staleAfter = 120 * time.Second

// errorBackoff is how long a tick pauses after an uncaught routine error
// before re-evaluating from scratch (§4.9 step 4).
const errorBackoff = 2 * time.Second

// RotationViability resolves whether a rotation skill currently has
// workable targets, independent of whether it's the current skill — the
// viable(skill) callback rotation.PickNext/ForceRotate require (§4.6).
type RotationViability interface {
	Viable(cc character.Context, skill rotation.Skill) bool
}

// Scheduler drives one character's ordered routine list (§4.9).
type Scheduler struct {
	name     string
	cc       character.Context
	cs       *routines.CharacterState
	shared   *routines.Shared
	list     []routines.Executor
	viable   RotationViability
	weights  map[rotation.Skill]float64
	logger   *slog.Logger

	mu         sync.RWMutex
	status     Status
	phase      Phase
	lastErr    string
	lastUpdate time.Time
	activeLoop routines.Executor
}

// New builds a Scheduler for one character. list must already be sorted
// by descending priority; New does not resort it so callers control tie
// order explicitly (matching §4.9's "example priorities in source order").
func New(name string, cc character.Context, cs *routines.CharacterState, shared *routines.Shared, list []routines.Executor, viable RotationViability, weights map[rotation.Skill]float64, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		name:       name,
		cc:         cc,
		cs:         cs,
		shared:     shared,
		list:       list,
		viable:     viable,
		weights:    weights,
		logger:     logger,
		status:     StatusStarting,
		phase:      PhaseIdle,
		lastUpdate: time.Now(),
	}
}

// Name returns the character name this scheduler drives.
func (s *Scheduler) Name() string { return s.name }

// Status reports the scheduler's current health snapshot.
func (s *Scheduler) Status() (Status, Phase, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status, s.phase, s.lastErr
}

// Stale reports whether the character has gone 120s without an update
// past its own cooldown (§7).
func (s *Scheduler) Stale(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.cc.OnCooldown(now) && now.Sub(s.lastUpdate) > staleAfter
}

func (s *Scheduler) touch() {
	s.mu.Lock()
	s.lastUpdate = time.Now()
	s.mu.Unlock()
}

func (s *Scheduler) setStatus(st Status, ph Phase, errMsg string) {
	s.mu.Lock()
	s.status, s.phase, s.lastErr = st, ph, errMsg
	s.mu.Unlock()
}

// ensureRotationSkill picks or rotates the character's current skill when
// it has none or its goal is already met (§4.6 pickNext/forceRotate).
func (s *Scheduler) ensureRotationSkill() {
	current, has := s.cs.Rotation.Current()
	if has && !s.cs.Rotation.GoalMet(current) {
		return
	}
	viableFn := func(skill rotation.Skill) bool {
		if s.viable == nil {
			return true
		}
		return s.viable.Viable(s.cc, skill)
	}
	if has {
		if next, ok := s.cs.Rotation.ForceRotate(rotation.AllSkills, s.weights, viableFn); ok {
			s.logger.Info("rotation advanced", "character", s.name, "from", current, "to", next)
		}
		return
	}
	if next, ok := s.cs.Rotation.PickNext(rotation.AllSkills, s.weights, viableFn); ok {
		s.logger.Info("rotation picked", "character", s.name, "skill", next)
	}
}

// selectRoutine returns the highest-priority runnable routine, respecting
// a non-preemptible loop already in progress (§4.9 step 2).
func (s *Scheduler) selectRoutine() routines.Executor {
	if s.activeLoop != nil && !s.activeLoop.CanBePreempted(s.cc) {
		return s.activeLoop
	}
	for _, r := range s.list {
		if r.CanRun(s.cc) {
			return r
		}
	}
	return nil
}

// waitForCooldown blocks until the character's server-reported cooldown
// expires or ctx is canceled (§4.9 step 1, §5 "suspension points").
func waitForCooldown(ctx context.Context, cc character.Context) error {
	now := time.Now()
	if !cc.OnCooldown(now) {
		return nil
	}
	wait := cc.CooldownExpiration().Sub(now)
	if wait <= 0 {
		return nil
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tick runs one scheduling decision cycle (§4.9). It returns an error only
// for context cancellation; routine errors are caught and turned into
// error status, matching §7's "executors are expected to swallow domain
// errors ... only invariant-violation errors surface as hard failures"
// (a network/API error still enters error status rather than panicking,
// but does not stop the loop — the caller re-ticks after the backoff).
func (s *Scheduler) Tick(ctx context.Context) error {
	if err := waitForCooldown(ctx, s.cc); err != nil {
		return err
	}

	s.ensureRotationSkill()

	r := s.selectRoutine()
	if r == nil {
		s.setStatus(StatusRunning, PhaseIdle, "")
		return nil
	}

	s.setStatus(StatusRunning, PhaseRunning, "")
	cont, err := r.Execute(ctx, s.cc)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		s.logger.Error("routine error", "character", s.name, "routine", r.Name(), "error", err)
		s.setStatus(StatusError, PhaseError, err.Error())
		s.activeLoop = nil
		time.Sleep(errorBackoff)
		return nil
	}

	s.touch()
	if r.Loop() && cont {
		s.activeLoop = r
	} else {
		s.activeLoop = nil
	}
	s.setStatus(StatusRunning, PhaseIdle, "")
	return nil
}

// Run loops Tick until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		if err := s.Tick(ctx); err != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}
