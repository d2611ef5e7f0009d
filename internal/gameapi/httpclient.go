package gameapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/catalog"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/character"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/ctlerr"
)

// HTTPClient is the real ArtifactsMMO-style REST collaborator (§6):
// net/http plus an exponential backoff on 429/5xx. It owns retry/backoff
// itself — a final failure after retries surfaces as a
// plain error per the Client interface's contract.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
	retries int
}

// NewHTTPClient builds an HTTPClient against baseURL, authenticating with
// token (a bearer token, opaque to the core per §6).
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 20 * time.Second},
		retries: 5,
	}
}

// apiError carries a non-2xx status code so callers can special-case 476
// ("not consumable") and 478 ("missing items for trade") per §6.
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("game API error %d: %s", e.Status, e.Body)
}

// StatusCode extracts the HTTP status from err if it came from the game
// API, unwrapping the ctlerr classification 476/478 get wrapped in.
func StatusCode(err error) (int, bool) {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae.Status, true
	}
	return 0, false
}

func isRetryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// classifyGameError turns the two domain-specific, non-retryable statuses
// (§6: 476 "item is not consumable", 478 "missing items for trade") into
// ctlerr codes so the routine layer can catch them inline and continue
// rather than treat them as generic action failures; every other status
// passes through as the plain *apiError.
func classifyGameError(ae *apiError) error {
	switch ae.Status {
	case 476:
		return ctlerr.New(ctlerr.CodeNotConsumable, "item is not consumable", ctlerr.WithCause(ae))
	case 478:
		return ctlerr.New(ctlerr.CodeMissingItems, "missing items for trade", ctlerr.WithCause(ae))
	default:
		return ae
	}
}

// do issues one request with retry/backoff on 429/5xx, doubling the delay
// each attempt up to a 10s ceiling.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = b
	}

	delay := 500 * time.Millisecond
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			t := time.NewTimer(delay)
			select {
			case <-t.C:
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			}
			if delay < 10*time.Second {
				delay *= 2
			}
		}

		var payload io.Reader
		if reqBody != nil {
			payload = bytes.NewReader(reqBody)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("game API call %s %s: %w", method, path, err)
			continue
		}
		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("read game API response: %w", readErr)
			continue
		}
		if resp.StatusCode >= 300 {
			ae := &apiError{Status: resp.StatusCode, Body: string(respBody)}
			lastErr = ae
			if isRetryable(resp.StatusCode) {
				continue
			}
			return classifyGameError(ae)
		}
		if out != nil {
			if err := json.Unmarshal(respBody, out); err != nil {
				return fmt.Errorf("parse game API response from %s: %w", path, err)
			}
		}
		return nil
	}
	return lastErr
}

// wireCooldown mirrors the `cooldown` block every action response
// attaches.
type wireCooldown struct {
	RemainingSeconds float64   `json:"remaining_seconds"`
	Expiration       time.Time `json:"expiration"`
}

type wireItemStack struct {
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
}

func toItemStacks(in []wireItemStack) []ItemStack {
	out := make([]ItemStack, len(in))
	for i, s := range in {
		out[i] = ItemStack{Code: s.Code, Quantity: s.Quantity}
	}
	return out
}

// wireCharacter is the character object as the API actually serializes it
// (snake_case, flat skill levels, flat equipment slot fields). character.Snapshot
// carries no json tags of its own since it is also the in-memory type the
// rest of the core mutates directly, so the wire shape is decoded here and
// converted explicitly rather than unmarshaled straight into it.
type wireCharacter struct {
	Name  string `json:"name"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Level int    `json:"level"`
	HP    int    `json:"hp"`
	MaxHP int    `json:"max_hp"`
	XP    int    `json:"xp"`

	MiningLevel          int `json:"mining_level"`
	WoodcuttingLevel     int `json:"woodcutting_level"`
	FishingLevel         int `json:"fishing_level"`
	CookingLevel         int `json:"cooking_level"`
	AlchemyLevel         int `json:"alchemy_level"`
	WeaponcraftingLevel  int `json:"weaponcrafting_level"`
	GearcraftingLevel    int `json:"gearcrafting_level"`
	JewelrycraftingLevel int `json:"jewelrycrafting_level"`

	Initiative int            `json:"initiative"`
	Crit       int            `json:"critical_strike"`
	Attack     map[string]int `json:"attack"`
	Resistance map[string]int `json:"resistance"`
	DmgBonus   map[string]int `json:"damage_bonus"`
	Dmg        int            `json:"damage"`

	WeaponSlot    string `json:"weapon_slot"`
	ShieldSlot    string `json:"shield_slot"`
	HelmetSlot    string `json:"helmet_slot"`
	BodyArmorSlot string `json:"body_armor_slot"`
	LegArmorSlot  string `json:"leg_armor_slot"`
	BootsSlot     string `json:"boots_slot"`
	AmuletSlot    string `json:"amulet_slot"`
	Ring1Slot     string `json:"ring1_slot"`
	Ring2Slot     string `json:"ring2_slot"`
	BagSlot       string `json:"bag_slot"`
	Utility1Slot  string `json:"utility1_slot"`
	Utility1Qty   int    `json:"utility1_slot_quantity"`
	Utility2Slot  string `json:"utility2_slot"`
	Utility2Qty   int    `json:"utility2_slot_quantity"`

	InventoryMaxItems int `json:"inventory_max_items"`
	Inventory         []struct {
		Code     string `json:"code"`
		Quantity int    `json:"quantity"`
	} `json:"inventory"`

	TaskCode     string `json:"task"`
	TaskType     string `json:"task_type"`
	TaskProgress int    `json:"task_progress"`
	TaskTotal    int    `json:"task_total"`

	Gold int `json:"gold"`

	CooldownExpiration time.Time `json:"cooldown_expiration"`
}

func toElementMap(in map[string]int) map[catalog.Element]int {
	out := make(map[catalog.Element]int, len(in))
	for k, v := range in {
		out[catalog.Element(k)] = v
	}
	return out
}

func (w wireCharacter) toSnapshot() *character.Snapshot {
	inv := make([]character.InventorySlot, 0, len(w.Inventory))
	for _, slot := range w.Inventory {
		if slot.Code == "" || slot.Quantity <= 0 {
			continue
		}
		inv = append(inv, character.InventorySlot{Code: slot.Code, Quantity: slot.Quantity})
	}
	equipped := map[catalog.EquipSlot]string{
		catalog.SlotWeapon:    w.WeaponSlot,
		catalog.SlotShield:    w.ShieldSlot,
		catalog.SlotHelmet:    w.HelmetSlot,
		catalog.SlotBodyArmor: w.BodyArmorSlot,
		catalog.SlotLegArmor:  w.LegArmorSlot,
		catalog.SlotBoots:     w.BootsSlot,
		catalog.SlotAmulet:    w.AmuletSlot,
		catalog.SlotRing1:     w.Ring1Slot,
		catalog.SlotRing2:     w.Ring2Slot,
		catalog.SlotBag:       w.BagSlot,
	}
	return &character.Snapshot{
		Name:     w.Name,
		Position: character.Position{X: w.X, Y: w.Y},
		Level:    w.Level,
		HP:       w.HP,
		MaxHP:    w.MaxHP,
		XP:       w.XP,
		Skills: character.SkillSet{
			Mining:          w.MiningLevel,
			Woodcutting:     w.WoodcuttingLevel,
			Fishing:         w.FishingLevel,
			Cooking:         w.CookingLevel,
			Alchemy:         w.AlchemyLevel,
			Weaponcrafting:  w.WeaponcraftingLevel,
			Gearcrafting:    w.GearcraftingLevel,
			Jewelrycrafting: w.JewelrycraftingLevel,
		},
		Initiative:        w.Initiative,
		Crit:              w.Crit,
		Attack:            toElementMap(w.Attack),
		Resistance:        toElementMap(w.Resistance),
		DmgBonus:          toElementMap(w.DmgBonus),
		Dmg:               w.Dmg,
		Equipped:          equipped,
		Utility1:          w.Utility1Qty,
		Utility2:          w.Utility2Qty,
		InventoryCapacity: w.InventoryMaxItems,
		Inventory:         inv,
		Task: character.Task{
			Code:     w.TaskCode,
			Type:     character.TaskType(w.TaskType),
			Progress: w.TaskProgress,
			Total:    w.TaskTotal,
		},
		Gold:               w.Gold,
		CooldownExpiration: w.CooldownExpiration,
	}
}

func (c *HTTPClient) GetCharacter(ctx context.Context, name string) (*character.Snapshot, error) {
	var resp struct {
		Data wireCharacter `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/characters/"+name, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.toSnapshot(), nil
}

func (c *HTTPClient) action(ctx context.Context, path string, body any) (ActionOutcome, *character.Snapshot, wireCooldown, []byte, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, path, body, &envelope); err != nil {
		return ActionOutcome{}, nil, wireCooldown{}, nil, err
	}
	raw := envelope.Data
	var parsed struct {
		Cooldown  wireCooldown  `json:"cooldown"`
		Character wireCharacter `json:"character"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ActionOutcome{}, nil, wireCooldown{}, raw, fmt.Errorf("parse action response: %w", err)
	}
	snap := parsed.Character.toSnapshot()
	out := ActionOutcome{
		Cooldown:  Cooldown{RemainingSeconds: parsed.Cooldown.RemainingSeconds, Expiration: parsed.Cooldown.Expiration},
		Character: snap,
	}
	return out, snap, parsed.Cooldown, raw, nil
}

func (c *HTTPClient) Move(ctx context.Context, name string, x, y int) (*MoveOutcome, error) {
	out, _, _, _, err := c.action(ctx, "/my/"+name+"/action/move", map[string]int{"x": x, "y": y})
	if err != nil {
		return nil, err
	}
	return &MoveOutcome{ActionOutcome: out}, nil
}

// UnreachableStatus reports whether err is the game API's "no such map
// coordinate" failure — the caller (moveToContent) knows the
// content type/code being targeted and wraps this into a *NoPathError
// itself, since Move's signature carries only raw coordinates.
func UnreachableStatus(err error) bool {
	status, ok := StatusCode(err)
	return ok && status == http.StatusNotFound
}

func (c *HTTPClient) Fight(ctx context.Context, name string) (*FightOutcome, error) {
	out, _, _, raw, err := c.action(ctx, "/my/"+name+"/action/fight", nil)
	if err != nil {
		return nil, err
	}
	var fight struct {
		Win     bool            `json:"win"`
		Turns   int             `json:"turns"`
		XP      int             `json:"xp"`
		Gold    int             `json:"gold"`
		Drops   []wireItemStack `json:"drops"`
		FinalHP int             `json:"final_hp"`
	}
	if err := json.Unmarshal(raw, &fight); err != nil {
		return nil, fmt.Errorf("parse fight response: %w", err)
	}
	return &FightOutcome{
		ActionOutcome: out,
		Win: fight.Win, Turns: fight.Turns, XP: fight.XP, Gold: fight.Gold,
		Drops: toItemStacks(fight.Drops), FinalHP: fight.FinalHP,
	}, nil
}

func (c *HTTPClient) Gather(ctx context.Context, name string) (*GatherOutcome, error) {
	out, _, _, raw, err := c.action(ctx, "/my/"+name+"/action/gathering", nil)
	if err != nil {
		return nil, err
	}
	var gather struct {
		Items []wireItemStack `json:"items"`
	}
	if err := json.Unmarshal(raw, &gather); err != nil {
		return nil, fmt.Errorf("parse gather response: %w", err)
	}
	return &GatherOutcome{ActionOutcome: out, Items: toItemStacks(gather.Items)}, nil
}

func (c *HTTPClient) Rest(ctx context.Context, name string) (*ActionOutcome, error) {
	out, _, _, _, err := c.action(ctx, "/my/"+name+"/action/rest", nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Equip(ctx context.Context, name, code string, slot catalog.EquipSlot, quantity int) (*EquipOutcome, error) {
	out, _, _, _, err := c.action(ctx, "/my/"+name+"/action/equip", map[string]any{"code": code, "slot": slot, "quantity": quantity})
	if err != nil {
		return nil, err
	}
	return &EquipOutcome{ActionOutcome: out, Slot: slot, Code: code, Quantity: quantity}, nil
}

func (c *HTTPClient) Unequip(ctx context.Context, name string, slot catalog.EquipSlot, quantity int) (*EquipOutcome, error) {
	out, _, _, _, err := c.action(ctx, "/my/"+name+"/action/unequip", map[string]any{"slot": slot, "quantity": quantity})
	if err != nil {
		return nil, err
	}
	return &EquipOutcome{ActionOutcome: out, Slot: slot, Quantity: quantity}, nil
}

func (c *HTTPClient) UseItem(ctx context.Context, name, code string, quantity int) (*ActionOutcome, error) {
	out, _, _, _, err := c.action(ctx, "/my/"+name+"/action/use", map[string]any{"code": code, "quantity": quantity})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Craft(ctx context.Context, name, code string, quantity int) (*CraftOutcome, error) {
	out, _, _, raw, err := c.action(ctx, "/my/"+name+"/action/crafting", map[string]any{"code": code, "quantity": quantity})
	if err != nil {
		return nil, err
	}
	return parseCraftOutcome(out, raw)
}

func (c *HTTPClient) Recycle(ctx context.Context, name, code string, quantity int) (*CraftOutcome, error) {
	out, _, _, raw, err := c.action(ctx, "/my/"+name+"/action/recycling", map[string]any{"code": code, "quantity": quantity})
	if err != nil {
		return nil, err
	}
	return parseCraftOutcome(out, raw)
}

func parseCraftOutcome(out ActionOutcome, raw []byte) (*CraftOutcome, error) {
	var craft struct {
		Items []wireItemStack `json:"items"`
	}
	if err := json.Unmarshal(raw, &craft); err != nil {
		return nil, fmt.Errorf("parse craft response: %w", err)
	}
	return &CraftOutcome{ActionOutcome: out, Items: toItemStacks(craft.Items)}, nil
}

func (c *HTTPClient) task(ctx context.Context, path string, body any) (*TaskOutcome, error) {
	out, _, _, raw, err := c.action(ctx, path, body)
	if err != nil {
		return nil, err
	}
	var task struct {
		Task character.Task `json:"task"`
	}
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, fmt.Errorf("parse task response: %w", err)
	}
	return &TaskOutcome{ActionOutcome: out, Task: task.Task}, nil
}

func (c *HTTPClient) AcceptTask(ctx context.Context, name string, taskType character.TaskType) (*TaskOutcome, error) {
	return c.task(ctx, "/my/"+name+"/action/task/new", map[string]any{"type": taskType})
}

func (c *HTTPClient) CompleteTask(ctx context.Context, name string) (*TaskOutcome, error) {
	return c.task(ctx, "/my/"+name+"/action/task/complete", nil)
}

func (c *HTTPClient) CancelTask(ctx context.Context, name string) (*TaskOutcome, error) {
	return c.task(ctx, "/my/"+name+"/action/task/cancel", nil)
}

func (c *HTTPClient) TaskTrade(ctx context.Context, name, code string, quantity int) (*TaskOutcome, error) {
	return c.task(ctx, "/my/"+name+"/action/task/trade", map[string]any{"code": code, "quantity": quantity})
}

func (c *HTTPClient) TaskExchange(ctx context.Context, name string) (*ExchangeOutcome, error) {
	out, _, _, raw, err := c.action(ctx, "/my/"+name+"/action/task/exchange", nil)
	if err != nil {
		return nil, err
	}
	var exch struct {
		Rewards []wireItemStack `json:"rewards"`
	}
	if err := json.Unmarshal(raw, &exch); err != nil {
		return nil, fmt.Errorf("parse exchange response: %w", err)
	}
	return &ExchangeOutcome{ActionOutcome: out, Rewards: toItemStacks(exch.Rewards)}, nil
}

func (c *HTTPClient) bank(ctx context.Context, path string, body any) (*BankOutcome, error) {
	out, _, _, raw, err := c.action(ctx, path, body)
	if err != nil {
		return nil, err
	}
	var bank struct {
		BankRevision uint64 `json:"bank_revision"`
	}
	if err := json.Unmarshal(raw, &bank); err != nil {
		return nil, fmt.Errorf("parse bank response: %w", err)
	}
	return &BankOutcome{ActionOutcome: out, BankRevision: bank.BankRevision}, nil
}

func (c *HTTPClient) DepositBank(ctx context.Context, name, code string, quantity int) (*BankOutcome, error) {
	return c.bank(ctx, "/my/"+name+"/action/bank/deposit", map[string]any{"code": code, "quantity": quantity})
}

func (c *HTTPClient) WithdrawBank(ctx context.Context, name, code string, quantity int) (*BankOutcome, error) {
	return c.bank(ctx, "/my/"+name+"/action/bank/withdraw", map[string]any{"code": code, "quantity": quantity})
}

func (c *HTTPClient) DepositGold(ctx context.Context, name string, amount int) (*BankOutcome, error) {
	return c.bank(ctx, "/my/"+name+"/action/bank/deposit/gold", map[string]any{"quantity": amount})
}

func (c *HTTPClient) WithdrawGold(ctx context.Context, name string, amount int) (*BankOutcome, error) {
	return c.bank(ctx, "/my/"+name+"/action/bank/withdraw/gold", map[string]any{"quantity": amount})
}

func (c *HTTPClient) GetItems(ctx context.Context) ([]catalog.Item, error) {
	return fetchAllPages[catalog.Item](ctx, c, "/items")
}

func (c *HTTPClient) GetMonsters(ctx context.Context) ([]catalog.Monster, error) {
	return fetchAllPages[catalog.Monster](ctx, c, "/monsters")
}

func (c *HTTPClient) GetResources(ctx context.Context) ([]catalog.Resource, error) {
	return fetchAllPages[catalog.Resource](ctx, c, "/resources")
}

type wireMapLocation struct {
	X       int `json:"x"`
	Y       int `json:"y"`
	Content struct {
		Type string `json:"type"`
		Code string `json:"code"`
	} `json:"content"`
}

func (c *HTTPClient) GetMaps(ctx context.Context) ([]MapLocation, error) {
	raw, err := fetchAllPages[wireMapLocation](ctx, c, "/maps")
	if err != nil {
		return nil, err
	}
	out := make([]MapLocation, 0, len(raw))
	for _, m := range raw {
		if m.Content.Type == "" {
			continue
		}
		out = append(out, MapLocation{
			Position:    character.Position{X: m.X, Y: m.Y},
			ContentType: m.Content.Type,
			ContentCode: m.Content.Code,
		})
	}
	return out, nil
}

func (c *HTTPClient) GetTaskRewards(ctx context.Context) ([]TaskReward, error) {
	return fetchAllPages[TaskReward](ctx, c, "/tasks/rewards")
}

func (c *HTTPClient) GetBankItems(ctx context.Context) ([]ItemStack, error) {
	raw, err := fetchAllPages[wireItemStack](ctx, c, "/my/bank/items")
	if err != nil {
		return nil, err
	}
	return toItemStacks(raw), nil
}

func (c *HTTPClient) GetAccountDetails(ctx context.Context) (*AccountDetails, error) {
	var resp struct {
		Data AccountDetails `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/my/details", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *HTTPClient) GetAccountAchievements(ctx context.Context) ([]Achievement, error) {
	return fetchAllPages[Achievement](ctx, c, "/my/achievements")
}

// fetchAllPages walks every page of a listing endpoint (§6's catalog/bank
// GET endpoints all share a {data: [...], page, pages} envelope) until the
// server reports it has no more pages, merging every page's Data slice.
func fetchAllPages[T any](ctx context.Context, c *HTTPClient, path string) ([]T, error) {
	var out []T
	page := 1
	for {
		var resp struct {
			Data  []T `json:"data"`
			Page  int `json:"page"`
			Pages int `json:"pages"`
		}
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		if err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s%spage=%d&size=100", path, sep, page), nil, &resp); err != nil {
			return nil, err
		}
		out = append(out, resp.Data...)
		if len(resp.Data) == 0 || (resp.Pages > 0 && page >= resp.Pages) {
			return out, nil
		}
		page++
	}
}
