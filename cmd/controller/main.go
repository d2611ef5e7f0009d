// Command controller runs the multi-character automation core: one
// priority-preemptive scheduler loop per configured character, sharing an
// account-wide bank mirror, order board, and gear-requirement cache.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/catalog"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/config"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/gameapi"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/gear"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/invmirror"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/orders"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/routines"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/scheduler"
)

const (
	defaultBaseURL        = "https://api.artifactsmmo.com"
	defaultGearStatePath  = "data/gear_state.json"
	defaultCharactersPath = "characters.json"
	gearRefreshInterval   = 30 * time.Second
	startupTimeout        = 60 * time.Second
)

// gatheringSkillsTracked are the skills Gear State keeps a best-tool
// requirement for, regardless of which skills a character's config
// actually weights — a character may rotate into any of them.
var gatheringSkillsTracked = []string{"mining", "woodcutting", "fishing"}

// registered is one live character: its Context, bookkeeping, and the
// config fields the periodic Gear State refresh needs.
type registered struct {
	name        string
	cc          character.Context
	cs          *routines.CharacterState
	achievement *routines.AchievementRoutine
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("artifacts-mmo-sub002 controller starting")

	envCfg := config.LoadEnvConfig(os.Getenv)
	if envCfg.Token == "" {
		slog.Error("ARTIFACTS_TOKEN not set")
		os.Exit(1)
	}
	baseURL := os.Getenv("ARTIFACTS_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	gearStatePath := envCfg.GearStatePath
	if gearStatePath == "" {
		gearStatePath = defaultGearStatePath
	}
	charactersPath := os.Getenv("CHARACTERS_CONFIG_PATH")
	if charactersPath == "" {
		charactersPath = defaultCharactersPath
	}

	client := gameapi.NewHTTPClient(baseURL, envCfg.Token)

	runCtx, stop := context.WithCancel(context.Background())

	// ── Catalog + world data ────────────────────────────────────────────
	startupCtx, cancelStartup := context.WithTimeout(runCtx, startupTimeout)
	items, err := client.GetItems(startupCtx)
	if err != nil {
		slog.Error("failed to fetch item catalog", "error", err)
		os.Exit(1)
	}
	monsters, err := client.GetMonsters(startupCtx)
	if err != nil {
		slog.Error("failed to fetch monster catalog", "error", err)
		os.Exit(1)
	}
	resources, err := client.GetResources(startupCtx)
	if err != nil {
		slog.Error("failed to fetch resource catalog", "error", err)
		os.Exit(1)
	}
	cat := catalog.New(items, monsters, resources)
	slog.Info("catalog loaded", "items", len(items), "monsters", len(monsters), "resources", len(resources))

	maps, err := client.GetMaps(startupCtx)
	if err != nil {
		slog.Warn("failed to fetch map locations, moves will fail until retried", "error", err)
	}

	bank := invmirror.New()
	if stacks, err := client.GetBankItems(startupCtx); err != nil {
		slog.Warn("failed to fetch initial bank contents, starting with an empty mirror", "error", err)
	} else {
		bank.ReplaceBank(itemStacksToMap(stacks))
	}

	achievements, err := client.GetAccountAchievements(startupCtx)
	if err != nil {
		slog.Warn("failed to fetch account achievements, achievement routine will stay idle until the next refresh", "error", err)
	}
	cancelStartup()

	board := orders.New()
	optimizer := gear.NewOptimizer(cat)
	gearState := gear.NewState(cat)
	if rev, err := gearState.Load(gearStatePath); err != nil {
		slog.Info("no usable saved gear state, starting fresh", "path", gearStatePath, "error", err)
	} else {
		slog.Info("gear state loaded", "path", gearStatePath, "bankRevisionSnapshot", rev)
	}
	gearWriter := gear.NewWriter(gearStatePath, 250*time.Millisecond)

	shared := &routines.Shared{
		Client:    client,
		Catalog:   cat,
		Optimizer: optimizer,
		Bank:      bank,
		Orders:    board,
		Gear:      gearState,
		Blacklist: routines.NewUnreachableBlacklist(),
		Maps:      maps,
	}

	// ── Character configs ───────────────────────────────────────────────
	rawConfigs, err := loadCharacterConfigs(charactersPath)
	if err != nil {
		slog.Error("failed to load character configs", "path", charactersPath, "error", err)
		os.Exit(1)
	}
	if len(rawConfigs) == 0 {
		slog.Error("no characters configured", "path", charactersPath)
		os.Exit(1)
	}

	var wg sync.WaitGroup
	var registry []*registered

	for i, raw := range rawConfigs {
		cfg := config.DecodeCharacterConfig(raw, logger)
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err != nil {
			slog.Error("skipping invalid character config", "index", i, "error", err)
			continue
		}

		fetchCtx, cancelFetch := context.WithTimeout(runCtx, startupTimeout)
		snap, err := client.GetCharacter(fetchCtx, cfg.Name)
		cancelFetch()
		if err != nil {
			slog.Error("failed to fetch character, skipping", "character", cfg.Name, "error", err)
			continue
		}

		cc := character.New(snap)
		cs := routines.NewCharacterState(cfg, uint64(1000+i))

		gatherRoutine := routines.NewGatherRoutine(shared, cs)
		craftingRoutine := routines.NewCraftingRoutine(shared, cs)
		achievementRoutine := routines.NewAchievementRoutine(shared, cs)
		achievementRoutine.SetAchievements(achievements)

		list := []routines.Executor{
			routines.NewRestRoutine(shared),
			routines.NewCompleteNpcTaskRoutine(shared),
			routines.NewDepositBankRoutine(shared),
			routines.NewAutoEquipRoutine(shared),
			routines.NewAcceptNpcTaskRoutine(shared, cs),
			routines.NewGatherMaterialsRoutine(shared, cs),
			routines.NewCraftMaterialsRoutine(shared, cs),
			routines.NewFightMaterialsRoutine(shared, cs),
			routines.NewCombatRoutine(shared, cs),
			gatherRoutine,
			craftingRoutine,
			achievementRoutine,
			routines.NewItemTaskRoutine(shared, cs),
			routines.NewItemTaskExchangeRoutine(shared, cs),
		}
		viability := &routines.RotationViabilityChecker{
			Shared:      shared,
			Gather:      gatherRoutine,
			Crafting:    craftingRoutine,
			Achievement: achievementRoutine,
		}
		weights := routines.SkillWeights(cfg.SkillWeights)

		sched := scheduler.New(cfg.Name, cc, cs, shared, list, viability, weights, logger)

		registry = append(registry, &registered{name: cfg.Name, cc: cc, cs: cs, achievement: achievementRoutine})

		wg.Add(1)
		go func() {
			defer wg.Done()
			slog.Info("character loop starting", "character", sched.Name())
			sched.Run(runCtx)
			slog.Info("character loop stopped", "character", sched.Name())
		}()
	}

	if len(registry) == 0 {
		slog.Error("no characters started successfully")
		os.Exit(1)
	}

	// ── Gear State + bank refresh loop ───────────────────────────────────
	wg.Add(1)
	go func() {
		defer wg.Done()
		runGearRefreshLoop(runCtx, client, shared, bank, gearWriter, registry)
	}()

	// ── Shutdown ──────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		stop()
	}()

	fmt.Printf("controller running with %d character(s). Ctrl+C to stop.\n", len(registry))

	wg.Wait()

	if data, err := gear.Marshal(shared.Gear, bank.BankRevision(), time.Now().UnixMilli()); err != nil {
		slog.Error("final gear state marshal failed", "error", err)
	} else if err := gearWriter.Flush(data); err != nil {
		slog.Error("final gear state save failed", "error", err)
	} else {
		slog.Info("gear state saved", "path", gearStatePath)
	}

	fmt.Println("controller stopped.")
}

// loadCharacterConfigs reads a JSON array of loosely-typed character config
// documents, each handed to config.DecodeCharacterConfig in turn.
func loadCharacterConfigs(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse character configs: %w", err)
	}
	return raw, nil
}

// itemStacksToMap collapses a bank listing into a code->quantity map.
func itemStacksToMap(stacks []gameapi.ItemStack) map[string]int {
	out := make(map[string]int, len(stacks))
	for _, s := range stacks {
		out[s.Code] += s.Quantity
	}
	return out
}

// runGearRefreshLoop periodically re-fetches the bank mirror and
// recomputes every character's Gear State row, publishing desired-item
// orders and debouncing a persisted save (§4.5, §8).
func runGearRefreshLoop(ctx context.Context, client gameapi.Client, shared *routines.Shared, bank *invmirror.Mirror, writer *gear.Writer, registry []*registered) {
	ticker := time.NewTicker(gearRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		refreshCtx, cancel := context.WithTimeout(ctx, startupTimeout)
		if stacks, err := client.GetBankItems(refreshCtx); err != nil {
			slog.Warn("bank refresh failed, keeping last known mirror", "error", err)
		} else {
			bank.ReplaceBank(itemStacksToMap(stacks))
		}
		if achievements, err := client.GetAccountAchievements(refreshCtx); err != nil {
			slog.Warn("achievement refresh failed, keeping last known list", "error", err)
		} else {
			for _, reg := range registry {
				reg.achievement.SetAchievements(achievements)
			}
		}
		cancel()

		inputs := make([]gear.CharacterInput, 0, len(registry))
		for _, reg := range registry {
			snap := reg.cc.Snapshot()
			inputs = append(inputs, gear.CharacterInput{
				Name:           reg.name,
				Snapshot:       snap,
				Capacity:       reg.cc.InventoryCapacity(),
				GatheringTools: gatheringSkillsTracked,
			})
		}

		globalCount := func(code string) int {
			total := bank.BankCount(code)
			for _, reg := range registry {
				snap := reg.cc.Snapshot()
				total += snap.ItemCount(code) + snap.EquippedCount(code)
			}
			return total
		}

		shared.Gear.Refresh(inputs, bank.AvailableBankSnapshot(), globalCount)

		now := time.Now()
		for _, reg := range registry {
			if reg.cs.Config.OrderBoard.Enabled && reg.cs.Config.OrderBoard.CreateOrders {
				shared.Gear.PublishDesiredOrdersForCharacter(reg.name, shared.Orders, now)
			}
		}

		writer.RequestSave(func() ([]byte, error) {
			return gear.Marshal(shared.Gear, bank.BankRevision(), time.Now().UnixMilli())
		})
	}
}
