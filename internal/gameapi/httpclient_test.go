package gameapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/ctlerr"
	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/gameapi"
)

func newTestClient(handler http.HandlerFunc) (*gameapi.HTTPClient, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return gameapi.NewHTTPClient(srv.URL, "test-token"), srv
}

func TestGetCharacterParsesWireShape(t *testing.T) {
	cli, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/characters/Bob", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{
			"name":"Bob","x":3,"y":4,"level":5,"hp":80,"max_hp":100,"xp":10,
			"mining_level":2,"weapon_slot":"wooden_stick",
			"inventory_max_items":20,
			"inventory":[{"code":"iron_ore","quantity":5},{"code":"","quantity":0}],
			"task":"chicken","task_type":"monsters","task_progress":1,"task_total":3,
			"gold":42,"cooldown_expiration":"2026-01-01T00:00:00Z"
		}}`))
	})
	defer srv.Close()

	snap, err := cli.GetCharacter(context.Background(), "Bob")
	require.NoError(t, err)
	require.Equal(t, "Bob", snap.Name)
	require.Equal(t, 3, snap.Position.X)
	require.Equal(t, 4, snap.Position.Y)
	require.Equal(t, 100, snap.MaxHP)
	require.Equal(t, 2, snap.Skills.Mining)
	require.Equal(t, "wooden_stick", snap.Equipped["weapon"])
	require.Len(t, snap.Inventory, 1)
	require.Equal(t, "iron_ore", snap.Inventory[0].Code)
	require.Equal(t, "chicken", snap.Task.Code)
	require.Equal(t, 42, snap.Gold)
}

func TestDoRetriesOnServerErrorThenSucceeds(t *testing.T) {
	var calls int32
	cli, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"name":"Bob"}}`))
	})
	defer srv.Close()

	snap, err := cli.GetCharacter(context.Background(), "Bob")
	require.NoError(t, err)
	require.Equal(t, "Bob", snap.Name)
	require.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestDoClassifiesNotConsumable(t *testing.T) {
	cli, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(476)
		_, _ = w.Write([]byte(`{"error":"not consumable"}`))
	})
	defer srv.Close()

	_, err := cli.UseItem(context.Background(), "Bob", "sword", 1)
	require.Error(t, err)
	require.True(t, ctlerr.Is(err, ctlerr.CodeNotConsumable))
}

func TestDoClassifiesMissingItems(t *testing.T) {
	cli, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(478)
		_, _ = w.Write([]byte(`{"error":"missing items"}`))
	})
	defer srv.Close()

	_, err := cli.TaskTrade(context.Background(), "Bob", "copper_ore", 5)
	require.Error(t, err)
	require.True(t, ctlerr.Is(err, ctlerr.CodeMissingItems))
}

func TestUnreachableStatusDetectsNotFound(t *testing.T) {
	cli, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no such coordinate"))
	})
	defer srv.Close()

	_, err := cli.Move(context.Background(), "Bob", 99, 99)
	require.Error(t, err)
	require.True(t, gameapi.UnreachableStatus(err))
}

func TestDoReturnsClientErrorWithoutRetry(t *testing.T) {
	var calls int32
	cli, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad request"))
	})
	defer srv.Close()

	_, err := cli.GetCharacter(context.Background(), "Bob")
	require.Error(t, err)
	status, ok := gameapi.StatusCode(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, status)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestFetchAllPagesWalksEveryPage(t *testing.T) {
	cli, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "1":
			_, _ = w.Write([]byte(`{"data":[{"code":"copper_ore"}],"page":1,"pages":2}`))
		case "2":
			_, _ = w.Write([]byte(`{"data":[{"code":"iron_ore"}],"page":2,"pages":2}`))
		default:
			t.Fatalf("unexpected page %q", r.URL.Query().Get("page"))
		}
	})
	defer srv.Close()

	resources, err := cli.GetResources(context.Background())
	require.NoError(t, err)
	require.Len(t, resources, 2)
	require.Equal(t, "copper_ore", resources[0].Code)
	require.Equal(t, "iron_ore", resources[1].Code)
}
