package service

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"reflect"
	"testing"
	"time"

	"github.com/louisbranch/sheetkeeper/internal/services/mcp/domain"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/app"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/character"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/rules"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/storage/memory"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func newSheetService(t *testing.T) *app.Service {
	t.Helper()
	store := memory.New()
	ctx := context.Background()
	if err := store.PutNationality(ctx, rules.Nationality{
		ID:                      "highlander",
		CharacteristicModifiers: []rules.CharacteristicModifier{{Characteristic: character.Size, Delta: 2}},
	}); err != nil {
		t.Fatalf("put nationality: %v", err)
	}
	if err := store.PutClass(ctx, rules.Class{ID: "ranger"}); err != nil {
		t.Fatalf("put class: %v", err)
	}
	svc, err := app.NewService(store, app.Config{})
	if err != nil {
		t.Fatalf("new sheet service: %v", err)
	}
	return svc
}

func connect(t *testing.T) (*mcp.ClientSession, context.CancelFunc, <-chan error) {
	t.Helper()
	server, err := New(newSheetService(t), Config{Locale: "en-US", Logger: log.New(io.Discard, "", 0)})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.serveWithTransport(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	clientCtx, clientCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer clientCancel()
	session, err := client.Connect(clientCtx, clientTransport, nil)
	if err != nil {
		cancel()
		t.Fatalf("connect client: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	return session, cancel, serveErr
}

func TestNewRequiresService(t *testing.T) {
	if _, err := New(nil, Config{}); err == nil {
		t.Fatal("expected error for missing sheet service")
	}
}

func TestToolNames(t *testing.T) {
	want := []string{"compute_derived_attributes", "list_nationalities", "list_classes"}
	if got := ToolNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("tool names = %v, want %v", got, want)
	}
}

func TestServerListsAndCallsTools(t *testing.T) {
	session, cancel, serveErr := connect(t)
	defer cancel()
	ctx := context.Background()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	if len(tools.Tools) != len(ToolNames()) {
		t.Fatalf("tools = %d, want %d", len(tools.Tools), len(ToolNames()))
	}

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "compute_derived_attributes",
		Arguments: map[string]any{
			"nationality_id": "highlander",
			"class_id":       "ranger",
			"characteristics": map[string]any{
				"constitution": map[string]any{"base": 10},
				"size":         map[string]any{"base": 12},
			},
			"armor": map[string]any{"rating": 2, "bonuses": []int{1}},
		},
	})
	if err != nil {
		t.Fatalf("call compute_derived_attributes: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool returned error content: %+v", result.Content)
	}
	output := decodeStructuredContent[domain.ComputeDerivedResult](t, result.StructuredContent)
	if output.HitPoints != 12 {
		t.Fatalf("hit points = %d, want 12", output.HitPoints)
	}
	if output.Protection != 3 {
		t.Fatalf("protection = %d, want 3", output.Protection)
	}

	missing, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "compute_derived_attributes",
		Arguments: map[string]any{
			"nationality_id":  "atlantean",
			"class_id":        "ranger",
			"characteristics": map[string]any{},
			"armor":           map[string]any{"rating": 0},
		},
	})
	if err != nil {
		t.Fatalf("call with unknown nationality: %v", err)
	}
	if !missing.IsError {
		t.Fatal("expected tool error for unknown nationality")
	}

	cancel()
	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}

func decodeStructuredContent[T any](t *testing.T, content any) T {
	t.Helper()
	var out T
	data, err := json.Marshal(content)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
	return out
}
