// Package routines implements the per-character routine executors (§4.7):
// the concrete units of work a scheduler chooses between every tick. Each
// executor performs exactly one server-advancing action (or a no-op
// yield/failure decision) per Execute call and reports whether it wants to
// run again immediately.
package routines

import (
	"context"
	"sync"
	"time"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/catalog"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/combat"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/config"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/gameapi"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/gear"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/invmirror"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/orders"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/rotation"
)

// Executor is one routine in a character's schedule (§4.9).
type Executor interface {
	Name() string
	Priority() int
	// Loop reports whether, after Execute returns continue=true, the
	// scheduler should re-enter this same executor next tick rather than
	// re-running selection from scratch.
	Loop() bool
	CanRun(cc character.Context) bool
	// CanBePreempted reports whether a higher-priority routine may
	// interrupt this one mid-loop. Most routines are always preemptible;
	// RestRoutine returns false, so an emergency rest keeps running until
	// HP reaches restUntilPercent.
	CanBePreempted(cc character.Context) bool
	// Execute performs exactly one server-advancing action and returns
	// whether it should be called again immediately (assuming nothing
	// higher-priority preempts it).
	Execute(ctx context.Context, cc character.Context) (cont bool, err error)
}

// Shared is the process-wide collaborator set every character's routines
// read and write (§5 "the three shared services are the only mutable
// cross-character state").
type Shared struct {
	Client    gameapi.Client
	Catalog   *catalog.Catalog
	Optimizer *gear.Optimizer
	Bank      *invmirror.Mirror
	Orders    *orders.Board
	Gear      *gear.State

	// Blacklist records (content_type, code) destinations a NoPathError
	// has marked unreachable (§7), shared across every character.
	Blacklist *UnreachableBlacklist

	// Maps is the static world-location catalog fetched once at startup
	// (§6 GetMaps) — content type/code to coordinate lookups for moveTo.
	Maps []gameapi.MapLocation

	// exchangeMu is the account-wide mutex task exchange locks so only one
	// character may exchange at a time (§4.8).
	exchangeMu sync.Mutex
}

// LocationFor returns the first known map coordinate hosting contentType +
// code, excluding anything the blacklist has marked unreachable.
func (s *Shared) LocationFor(contentType, code string) (character.Position, bool) {
	for _, loc := range s.Maps {
		if loc.ContentType != contentType {
			continue
		}
		if code != "" && loc.ContentCode != code {
			continue
		}
		if s.Blacklist.IsUnreachable(contentType, loc.ContentCode) {
			continue
		}
		return loc.Position, true
	}
	return character.Position{}, false
}

// lockExchange acquires the account-wide task-exchange mutex.
func (s *Shared) lockExchange()   { s.exchangeMu.Lock() }
func (s *Shared) unlockExchange() { s.exchangeMu.Unlock() }

// CharacterState is the per-character mutable bookkeeping routines need
// beyond the character.Context itself: its config, its rotation state
// machine, and the process-local caches keyed by (char, monster, level)
// and similar (§4.7).
type CharacterState struct {
	Config   config.CharacterConfig
	Rotation *rotation.Rotation

	equipCache                    equipCache
	proactiveExchangeBackoffUntil time.Time
	toolCheckCache                toolCheckCache

	// activeGatherOrder/activeCraftOrder/activeFightOrder track an
	// order-board claim an executor is mid-way through fulfilling, so
	// repeated Execute calls keep working the same claim instead of
	// re-claiming every call.
	activeGatherOrder *orders.Order
	activeCraftOrder  *orders.Order
	activeFightOrder  *orders.Order

	// activeCraftItem/activeCraftSkill track the recipe CraftingRoutine
	// picked for the character's own rotation goal, so repeated Execute
	// calls keep walking the same production plan instead of rescoring
	// candidates (and potentially picking a different recipe) every tick.
	activeCraftItem  string
	activeCraftSkill string
}

// NewCharacterState builds a CharacterState for one configured character.
func NewCharacterState(cfg config.CharacterConfig, seed uint64) *CharacterState {
	return &CharacterState{
		Config:   cfg,
		Rotation: rotation.New(seed, convertGoalOverrides(cfg.GoalOverrides)),
		equipCache: equipCache{
			entries: make(map[string]cachedLoadout),
		},
		toolCheckCache: toolCheckCache{
			entries: make(map[string]time.Time),
		},
	}
}

func convertGoalOverrides(raw map[string]int) map[rotation.Skill]int {
	out := make(map[rotation.Skill]int, len(raw))
	for k, v := range raw {
		out[rotation.Skill(k)] = v
	}
	return out
}

// SkillWeights converts a config-sourced skill-weight map into the
// rotation.Skill-keyed form the scheduler needs.
func SkillWeights(raw map[string]float64) map[rotation.Skill]float64 {
	out := make(map[rotation.Skill]float64, len(raw))
	for k, v := range raw {
		out[rotation.Skill(k)] = v
	}
	return out
}

// UnreachableBlacklist tracks (contentType, code) destinations a
// NoPathError marked unreachable, process-wide (§7 "Unreachable
// location").
type UnreachableBlacklist struct {
	mu      sync.Mutex
	entries map[string]bool
}

// NewUnreachableBlacklist builds an empty blacklist.
func NewUnreachableBlacklist() *UnreachableBlacklist {
	return &UnreachableBlacklist{entries: make(map[string]bool)}
}

func blacklistKey(contentType, code string) string { return contentType + ":" + code }

// Mark records contentType+code as unreachable.
func (b *UnreachableBlacklist) Mark(contentType, code string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[blacklistKey(contentType, code)] = true
}

// IsUnreachable reports whether contentType+code was previously marked.
func (b *UnreachableBlacklist) IsUnreachable(contentType, code string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.entries[blacklistKey(contentType, code)]
}

// recordNoPath marks the destination of a NoPathError, if err is one.
func recordNoPath(blacklist *UnreachableBlacklist, err error) {
	var noPath *gameapi.NoPathError
	if e, ok := err.(*gameapi.NoPathError); ok {
		noPath = e
	}
	if noPath != nil {
		blacklist.Mark(noPath.ContentType, noPath.ContentCode)
	}
}

// combatStatsFromSnapshot adapts a character.Snapshot into combat.Stats for
// simulation (§4.1/§4.2 share this shape already via gear's internal
// stats.go; routines only need the narrow read done here for HP-threshold
// checks, not a full recompute of equipment bonuses).
func combatStatsFromSnapshot(s *character.Snapshot) combat.Stats {
	return combat.Stats{
		HP: s.HP, MaxHP: s.MaxHP, Initiative: s.Initiative, Crit: s.Crit,
		Attack: s.Attack, Resistance: s.Resistance, DmgBonus: s.DmgBonus, Dmg: s.Dmg,
	}
}
