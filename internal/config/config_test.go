package config_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/config"
)

func TestDecodeCharacterConfigReadsKnownFields(t *testing.T) {
	raw := map[string]any{
		"name":          "Ash",
		"skillWeights":  map[string]any{"mining": 2.0, "combat": 1.0},
		"goalOverrides": map[string]any{"mining": 30},
		"maxLosses":     float64(5),
		"potions": map[string]any{
			"enabled": true,
			"combat": map[string]any{
				"enabled":        true,
				"refillBelow":    5,
				"targetQuantity": 20,
				"monsterTypes":   []any{"normal", "elite"},
			},
		},
		"orderBoard": map[string]any{
			"enabled":       true,
			"fulfillOrders": true,
			"leaseMs":       float64(60000),
		},
		"achievementTypes": []any{"combat_kills", "gathering"},
	}

	cfg := config.DecodeCharacterConfig(raw, slog.Default())

	require.Equal(t, "Ash", cfg.Name)
	require.Equal(t, 2.0, cfg.SkillWeights["mining"])
	require.Equal(t, 30, cfg.GoalOverrides["mining"])
	require.Equal(t, 5, cfg.MaxLosses)
	require.True(t, cfg.Potions.Enabled)
	require.True(t, cfg.Potions.Combat.Enabled)
	require.Equal(t, 5, cfg.Potions.Combat.RefillBelow)
	require.Equal(t, []string{"normal", "elite"}, cfg.Potions.Combat.MonsterTypes)
	require.True(t, cfg.OrderBoard.FulfillOrders)
	require.EqualValues(t, 60000, cfg.OrderBoard.LeaseMs)
	require.Equal(t, []string{"combat_kills", "gathering"}, cfg.Achievements.Types)
	require.NoError(t, cfg.Validate())
}

func TestDecodeCharacterConfigIgnoresUnrecognizedKeys(t *testing.T) {
	raw := map[string]any{
		"name":            "Ash",
		"totallyMadeUpKey": 123,
	}
	cfg := config.DecodeCharacterConfig(raw, slog.Default())
	require.Equal(t, "Ash", cfg.Name)
	require.NoError(t, cfg.Validate())
}

func TestApplyDefaultsFillsZeroValues(t *testing.T) {
	cfg := config.CharacterConfig{Name: "Ash"}
	cfg.ApplyDefaults()

	require.Equal(t, config.DefaultMaxLosses, cfg.MaxLosses)
	require.EqualValues(t, config.DefaultRecipeBlockMs, cfg.RecipeBlockMs)
	require.EqualValues(t, config.DefaultOrderLeaseMs, cfg.OrderBoard.LeaseMs)
	require.EqualValues(t, config.DefaultBlockedRetryMs, cfg.OrderBoard.BlockedRetryMs)
}

func TestValidateRejectsMissingName(t *testing.T) {
	cfg := config.CharacterConfig{}
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsFulfillWithoutEnabled(t *testing.T) {
	cfg := config.CharacterConfig{Name: "Ash"}
	cfg.OrderBoard.FulfillOrders = true
	require.Error(t, cfg.Validate())
}

func TestLoadEnvConfigReadsBothVars(t *testing.T) {
	env := map[string]string{
		"GEAR_STATE_PATH": "/tmp/gear.json",
		"ARTIFACTS_TOKEN": "secret",
	}
	got := config.LoadEnvConfig(func(k string) string { return env[k] })
	require.Equal(t, "/tmp/gear.json", got.GearStatePath)
	require.Equal(t, "secret", got.Token)
}
