// Package gameapi defines the only contract the decision core needs from
// the HTTP/JSON game API collaborator (§6). Executors and the scheduler are
// written and tested against the Client interface rather than a concrete
// HTTP client; HTTPClient (httpclient.go) is the real implementation and
// owns retry, backoff, pagination, and auth.
package gameapi

import (
	"context"
	"fmt"
	"time"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/catalog"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
)

// Cooldown mirrors the cooldown block the game API attaches to every
// action response. Expiration is authoritative (§6); RemainingSeconds is
// carried only for logging.
type Cooldown struct {
	RemainingSeconds float64
	Expiration       time.Time
}

// ItemStack is a (code, quantity) pair as returned by bank/drop/task endpoints.
type ItemStack struct {
	Code     string
	Quantity int
}

// ActionOutcome is the part common to every action response: the
// authoritative post-action character snapshot and its cooldown.
type ActionOutcome struct {
	Cooldown  Cooldown
	Character *character.Snapshot
}

// MoveOutcome is the result of a move action.
type MoveOutcome struct {
	ActionOutcome
}

// FightOutcome is the result of a fight action (§9 design note: sum type
// over fight results with the fields executors actually read).
type FightOutcome struct {
	ActionOutcome
	Win      bool
	Turns    int
	XP       int
	Gold     int
	Drops    []ItemStack
	FinalHP  int
}

// GatherOutcome is the result of a gather action.
type GatherOutcome struct {
	ActionOutcome
	Items []ItemStack
}

// CraftOutcome is the result of a craft or recycle action.
type CraftOutcome struct {
	ActionOutcome
	Items []ItemStack
}

// EquipOutcome is the result of an equip or unequip action.
type EquipOutcome struct {
	ActionOutcome
	Slot        catalog.EquipSlot
	Code        string
	Quantity    int
}

// TaskOutcome is the result of a task accept/complete/cancel/trade action.
type TaskOutcome struct {
	ActionOutcome
	Task character.Task
}

// ExchangeOutcome is the result of a task-coin exchange action.
type ExchangeOutcome struct {
	ActionOutcome
	Rewards []ItemStack
}

// BankOutcome is the result of a bank deposit/withdraw (item or gold) action.
type BankOutcome struct {
	ActionOutcome
	BankRevision uint64
}

// MapLocation is one entry from the maps catalog endpoint — a world
// coordinate with its content type+code, used to resolve gather/fight
// destinations.
type MapLocation struct {
	Position     character.Position
	ContentType  string // "resource", "monster", "workshop", "bank", "task_master", ...
	ContentCode  string
}

// TaskReward is one entry from the task_rewards catalog endpoint.
type TaskReward struct {
	Code string `json:"code"`
	Rate int    `json:"rate"`
}

// AccountDetails is the subset of account-level fields the core consumes.
type AccountDetails struct {
	Name string `json:"name"`
	Gold int    `json:"gold"`
}

// AchievementObjectiveType enumerates the objective shapes the achievement
// executor can score (§4.7).
type AchievementObjectiveType string

const (
	ObjectiveCombatKills  AchievementObjectiveType = "combat_kills"
	ObjectiveGathering    AchievementObjectiveType = "gathering"
	ObjectiveCrafting     AchievementObjectiveType = "crafting"
	ObjectiveCombatDrops  AchievementObjectiveType = "combat_drops"
	ObjectiveTasks        AchievementObjectiveType = "tasks"
	ObjectiveUnknown      AchievementObjectiveType = "unknown"
)

// Achievement is one account achievement with its completion progress.
type Achievement struct {
	Code          string                   `json:"code"`
	ObjectiveType AchievementObjectiveType `json:"objective_type"`
	TargetCode    string                   `json:"target_code"` // monster/item/resource code the objective refers to, if any
	Target        int                      `json:"target"`
	Current       int                      `json:"current"`
	DropRate      int                      `json:"drop_rate"` // 1-in-N, for combat_drops objectives; 0 if not applicable
}

// Complete reports whether the achievement's progress has reached its target.
func (a Achievement) Complete() bool {
	return a.Current >= a.Target
}

// NoPathError indicates the destination content type+code is unreachable
// (§7 "Unreachable location"). Callers mark (ContentType, ContentCode) in a
// process-wide blacklist and rotate.
type NoPathError struct {
	ContentType string
	ContentCode string
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("no path to %s %q", e.ContentType, e.ContentCode)
}

// Client is the full set of action and catalog endpoints the core consumes
// (§6). Implementations own retry/backoff for transient failures (429/5xx)
// — a final failure after retries surfaces here as a plain error, which
// executors translate into a single-tick error per §7.
type Client interface {
	GetCharacter(ctx context.Context, name string) (*character.Snapshot, error)

	Move(ctx context.Context, name string, x, y int) (*MoveOutcome, error)
	Fight(ctx context.Context, name string) (*FightOutcome, error)
	Gather(ctx context.Context, name string) (*GatherOutcome, error)
	Rest(ctx context.Context, name string) (*ActionOutcome, error)
	Equip(ctx context.Context, name, code string, slot catalog.EquipSlot, quantity int) (*EquipOutcome, error)
	Unequip(ctx context.Context, name string, slot catalog.EquipSlot, quantity int) (*EquipOutcome, error)
	UseItem(ctx context.Context, name, code string, quantity int) (*ActionOutcome, error)
	Craft(ctx context.Context, name, code string, quantity int) (*CraftOutcome, error)
	Recycle(ctx context.Context, name, code string, quantity int) (*CraftOutcome, error)

	AcceptTask(ctx context.Context, name string, taskType character.TaskType) (*TaskOutcome, error)
	CompleteTask(ctx context.Context, name string) (*TaskOutcome, error)
	CancelTask(ctx context.Context, name string) (*TaskOutcome, error)
	TaskExchange(ctx context.Context, name string) (*ExchangeOutcome, error)
	TaskTrade(ctx context.Context, name, code string, quantity int) (*TaskOutcome, error)

	DepositBank(ctx context.Context, name, code string, quantity int) (*BankOutcome, error)
	WithdrawBank(ctx context.Context, name, code string, quantity int) (*BankOutcome, error)
	DepositGold(ctx context.Context, name string, amount int) (*BankOutcome, error)
	WithdrawGold(ctx context.Context, name string, amount int) (*BankOutcome, error)

	GetItems(ctx context.Context) ([]catalog.Item, error)
	GetMonsters(ctx context.Context) ([]catalog.Monster, error)
	GetResources(ctx context.Context) ([]catalog.Resource, error)
	GetMaps(ctx context.Context) ([]MapLocation, error)
	GetTaskRewards(ctx context.Context) ([]TaskReward, error)
	GetBankItems(ctx context.Context) ([]ItemStack, error)
	GetAccountDetails(ctx context.Context) (*AccountDetails, error)
	GetAccountAchievements(ctx context.Context) ([]Achievement, error)
}
