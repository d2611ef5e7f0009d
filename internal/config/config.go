// Package config holds the plain, typed configuration structures consumed
// from the CLI collaborator (§6): per-character skill weights, potion and
// order-board policy, achievement targeting, and the handful of env-sourced
// paths/tokens. There is no generic marshaling layer here — values are
// decoded from a loosely-typed map one enumerated field at a time rather
// than by a reflection-driven loader.
package config

import (
	"log/slog"
	"time"
)

// PotionConfig is the top-level potions toggle plus the combat-specific
// sub-policy (§6).
type PotionConfig struct {
	Enabled bool
	Combat  CombatPotionConfig
}

// CombatPotionConfig controls potion refill/equip behavior ahead of a fight
// (§4.7 step 2).
type CombatPotionConfig struct {
	Enabled                 bool
	RefillBelow             int
	TargetQuantity          int
	RespectNonPotionUtility bool
	MonsterTypes            []string // e.g. "normal", "elite", "boss"
	PoisonBias              bool
}

// OrderBoardConfig controls whether a character creates and/or fulfills
// cross-character orders (§4.4, §4.7 "order-claim-aware execution").
type OrderBoardConfig struct {
	Enabled         bool
	CreateOrders    bool
	FulfillOrders   bool
	LeaseMs         int64
	BlockedRetryMs  int64
}

// AchievementConfig narrows the achievement executor's candidate pool
// (§4.7).
type AchievementConfig struct {
	Types     []string
	Blacklist []string
}

// Defaults for values §9 calls out explicitly; CharacterConfig.ApplyDefaults
// fills these in when the raw config omitted them.
const (
	DefaultMaxLosses      = 3
	DefaultRecipeBlockMs  = 10 * 60 * 1000 // 10 minutes
	DefaultOrderLeaseMs   = 120_000
	DefaultBlockedRetryMs = 300_000

	// ProactiveExchangeBackoff is how long a proactive task-exchange
	// invocation backs off after making no progress (§4.8).
	ProactiveExchangeBackoff = 60 * time.Second

	// ReservePct/ReserveMin/ReserveMax bound the crafting executor's
	// free-inventory reserve (§4.7).
	ReservePct = 0.10
	ReserveMin = 8
	ReserveMax = 20
)

// CharacterConfig is everything the scheduler/routines need for one
// configured character (§6).
type CharacterConfig struct {
	Name string

	SkillWeights  map[string]float64
	GoalOverrides map[string]int

	MaxLosses         int
	RecipeBlacklist   []string
	TaskCollectionTargets map[string]int

	Potions      PotionConfig
	OrderBoard   OrderBoardConfig
	Achievements AchievementConfig
	RecipeBlockMs int64
}

// ApplyDefaults fills in zero-valued fields with the §9 defaults. Safe to
// call more than once.
func (c *CharacterConfig) ApplyDefaults() {
	if c.MaxLosses <= 0 {
		c.MaxLosses = DefaultMaxLosses
	}
	if c.RecipeBlockMs <= 0 {
		c.RecipeBlockMs = DefaultRecipeBlockMs
	}
	if c.OrderBoard.LeaseMs <= 0 {
		c.OrderBoard.LeaseMs = DefaultOrderLeaseMs
	}
	if c.OrderBoard.BlockedRetryMs <= 0 {
		c.OrderBoard.BlockedRetryMs = DefaultBlockedRetryMs
	}
	if c.SkillWeights == nil {
		c.SkillWeights = make(map[string]float64)
	}
	if c.GoalOverrides == nil {
		c.GoalOverrides = make(map[string]int)
	}
	if c.TaskCollectionTargets == nil {
		c.TaskCollectionTargets = make(map[string]int)
	}
}

// Validate reports the first structural problem found in c, or nil.
func (c CharacterConfig) Validate() error {
	if c.Name == "" {
		return errMissingName
	}
	if c.MaxLosses < 0 {
		return errNegativeMaxLosses
	}
	if c.OrderBoard.FulfillOrders && !c.OrderBoard.Enabled {
		return errFulfillWithoutEnabled
	}
	return nil
}

var (
	errMissingName           = configErr("character config missing name")
	errNegativeMaxLosses     = configErr("maxLosses must be >= 0")
	errFulfillWithoutEnabled = configErr("orderBoard.fulfillOrders requires orderBoard.enabled")
)

type configErr string

func (e configErr) Error() string { return string(e) }

// knownCharacterKeys enumerates every recognized top-level key so
// DecodeCharacterConfig can warn about (rather than silently accept or
// reject) anything else (§6 "all options are ENUMERATED").
var knownCharacterKeys = map[string]bool{
	"name": true, "skillWeights": true, "goalOverrides": true,
	"maxLosses": true, "recipeBlacklist": true, "taskCollectionTargets": true,
	"potions": true, "orderBoard": true, "achievementTypes": true,
	"achievementBlacklist": true, "recipeBlockMs": true,
}

var knownPotionKeys = map[string]bool{
	"enabled": true, "combat": true,
}

var knownCombatPotionKeys = map[string]bool{
	"enabled": true, "refillBelow": true, "targetQuantity": true,
	"respectNonPotionUtility": true, "monsterTypes": true, "poisonBias": true,
}

var knownOrderBoardKeys = map[string]bool{
	"enabled": true, "createOrders": true, "fulfillOrders": true,
	"leaseMs": true, "blockedRetryMs": true,
}

// DecodeCharacterConfig builds a CharacterConfig from a loosely-typed map
// (as produced by the out-of-scope CLI config loader), logging a warning
// for every key it doesn't recognize instead of rejecting the whole
// document (§6). Recognized fields are pulled with best-effort type
// coercion; a field of the wrong shape is skipped with a warning rather
// than causing a decode failure.
func DecodeCharacterConfig(raw map[string]any, logger *slog.Logger) CharacterConfig {
	if logger == nil {
		logger = slog.Default()
	}
	warnUnknown(logger, "character", raw, knownCharacterKeys)

	c := CharacterConfig{}
	c.Name, _ = raw["name"].(string)
	c.SkillWeights = decodeFloatMap(raw["skillWeights"])
	c.GoalOverrides = decodeIntMap(raw["goalOverrides"])
	c.MaxLosses = decodeInt(raw["maxLosses"])
	c.RecipeBlacklist = decodeStringSlice(raw["recipeBlacklist"])
	c.TaskCollectionTargets = decodeIntMap(raw["taskCollectionTargets"])
	c.RecipeBlockMs = int64(decodeInt(raw["recipeBlockMs"]))

	if potionsRaw, ok := raw["potions"].(map[string]any); ok {
		warnUnknown(logger, "potions", potionsRaw, knownPotionKeys)
		c.Potions.Enabled, _ = potionsRaw["enabled"].(bool)
		if combatRaw, ok := potionsRaw["combat"].(map[string]any); ok {
			warnUnknown(logger, "potions.combat", combatRaw, knownCombatPotionKeys)
			c.Potions.Combat.Enabled, _ = combatRaw["enabled"].(bool)
			c.Potions.Combat.RefillBelow = decodeInt(combatRaw["refillBelow"])
			c.Potions.Combat.TargetQuantity = decodeInt(combatRaw["targetQuantity"])
			c.Potions.Combat.RespectNonPotionUtility, _ = combatRaw["respectNonPotionUtility"].(bool)
			c.Potions.Combat.MonsterTypes = decodeStringSlice(combatRaw["monsterTypes"])
			c.Potions.Combat.PoisonBias, _ = combatRaw["poisonBias"].(bool)
		}
	}

	if obRaw, ok := raw["orderBoard"].(map[string]any); ok {
		warnUnknown(logger, "orderBoard", obRaw, knownOrderBoardKeys)
		c.OrderBoard.Enabled, _ = obRaw["enabled"].(bool)
		c.OrderBoard.CreateOrders, _ = obRaw["createOrders"].(bool)
		c.OrderBoard.FulfillOrders, _ = obRaw["fulfillOrders"].(bool)
		c.OrderBoard.LeaseMs = int64(decodeInt(obRaw["leaseMs"]))
		c.OrderBoard.BlockedRetryMs = int64(decodeInt(obRaw["blockedRetryMs"]))
	}

	c.Achievements.Types = decodeStringSlice(raw["achievementTypes"])
	c.Achievements.Blacklist = decodeStringSlice(raw["achievementBlacklist"])

	c.ApplyDefaults()
	return c
}

func warnUnknown(logger *slog.Logger, section string, raw map[string]any, known map[string]bool) {
	for key := range raw {
		if !known[key] {
			logger.Warn("ignoring unrecognized config key", "section", section, "key", key)
		}
	}
}

func decodeInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func decodeFloatMap(v any) map[string]float64 {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(raw))
	for k, val := range raw {
		switch n := val.(type) {
		case float64:
			out[k] = n
		case int:
			out[k] = float64(n)
		}
	}
	return out
}

func decodeIntMap(v any) map[string]int {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]int, len(raw))
	for k, val := range raw {
		out[k] = decodeInt(val)
	}
	return out
}

func decodeStringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// EnvConfig is the pair of environment-sourced settings the core reads
// directly rather than through the character config map (§6): the Gear
// State persistence path and the (opaque to the core) API token.
type EnvConfig struct {
	GearStatePath string
	Token         string
}

// LoadEnvConfig reads EnvConfig from the process environment via getenv
// (a real process exposes os.Getenv; tests pass a fake).
func LoadEnvConfig(getenv func(string) string) EnvConfig {
	return EnvConfig{
		GearStatePath: getenv("GEAR_STATE_PATH"),
		Token:         getenv("ARTIFACTS_TOKEN"),
	}
}
