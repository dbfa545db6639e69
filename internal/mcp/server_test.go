package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/l1jgo/deckbattle/internal/app"
	"github.com/l1jgo/deckbattle/internal/component"
	"github.com/l1jgo/deckbattle/internal/config"
	"github.com/l1jgo/deckbattle/internal/persist"
	"github.com/l1jgo/deckbattle/internal/spawn"
)

type handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func newTestServer(t *testing.T, history History) *Server {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Combat.Seed = 11
	a, err := app.New(context.Background(), cfg, app.Options{
		Spawn: spawn.Fixed{component.EnemyMelee, component.EnemyRanged},
	}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = a.Encounter.Close() })
	return NewServer(a.Encounter, history, zap.NewNop())
}

func call(t *testing.T, h handler, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := h(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	if res == nil {
		t.Fatalf("%s: nil result", name)
	}
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty result")
	}
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("unexpected content %T", res.Content[0])
	return ""
}

func decodeState(t *testing.T, res *mcp.CallToolResult) StateResult {
	t.Helper()
	if res.IsError {
		t.Fatalf("tool error: %s", text(t, res))
	}
	var st StateResult
	if err := json.Unmarshal([]byte(text(t, res)), &st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return st
}

func TestActionsNeedARunningBattle(t *testing.T) {
	s := newTestServer(t, nil)
	for name, h := range map[string]handler{
		"end_turn":      s.handleEndTurn,
		"confirm_card":  s.handleConfirmCard,
		"select_target": s.handleSelectTarget,
	} {
		if res := call(t, h, name, map[string]any{"card": 1, "target": 0}); !res.IsError {
			t.Errorf("%s before start_battle succeeded", name)
		}
	}
	st := decodeState(t, call(t, s.handleGetState, "get_state", nil))
	if st.State != "Initializing" {
		t.Fatalf("state = %s", st.State)
	}
}

func TestStartBattle(t *testing.T) {
	s := newTestServer(t, nil)
	st := decodeState(t, call(t, s.handleStartBattle, "start_battle", nil))

	if st.State != "PlayerTurn" || st.Round != 1 {
		t.Fatalf("state = %s round %d", st.State, st.Round)
	}
	if len(st.Hand) != 5 || st.Energy != 3 || st.DrawPile != 6 {
		t.Fatalf("hand=%d energy=%d draw=%d", len(st.Hand), st.Energy, st.DrawPile)
	}
	if len(st.Enemies) != 2 || st.Hero == nil {
		t.Fatalf("enemies=%d hero=%v", len(st.Enemies), st.Hero)
	}
	for i, e := range st.Enemies {
		if e.Index == nil || *e.Index != i || e.Intent == nil {
			t.Fatalf("enemy %d = %+v", i, e)
		}
	}
	if res := call(t, s.handleStartBattle, "start_battle", nil); !res.IsError {
		t.Fatal("second start_battle succeeded while running")
	}
}

func TestPlayEnemyCard(t *testing.T) {
	s := newTestServer(t, nil)
	st := decodeState(t, call(t, s.handleStartBattle, "start_battle", nil))

	// Only four Defends exist, so a five-card hand holds an enemy card.
	var card CardResult
	for _, c := range st.Hand {
		if c.Target == "enemy" {
			card = c
			break
		}
	}
	if card.ID == 0 {
		t.Fatalf("no enemy card in hand %+v", st.Hand)
	}

	st = decodeState(t, call(t, s.handleSelectTarget, "select_target", map[string]any{"card": card.ID, "target": 1}))
	if st.Selected == nil || st.Selected.Card != card.ID || st.Selected.Target != 1 {
		t.Fatalf("selection = %+v", st.Selected)
	}
	if st.Energy != 3 || len(st.Hand) != 5 {
		t.Fatal("select_target played the card")
	}

	st = decodeState(t, call(t, s.handleConfirmCard, "confirm_card", map[string]any{"card": card.ID}))
	if st.Energy != 3-card.Cost || len(st.Hand) != 4 || st.DiscardPile != 1 {
		t.Fatalf("after play: energy=%d hand=%d discard=%d", st.Energy, len(st.Hand), st.DiscardPile)
	}
	for _, c := range st.Hand {
		if c.ID == card.ID {
			t.Fatal("played card still in hand")
		}
	}
}

func TestSelectTargetValidates(t *testing.T) {
	s := newTestServer(t, nil)
	st := decodeState(t, call(t, s.handleStartBattle, "start_battle", nil))
	id := st.Hand[0].ID

	for _, args := range []map[string]any{
		{"card": id, "target": 2},
		{"card": id, "target": -1},
		{"card": 999, "target": 0},
	} {
		if res := call(t, s.handleSelectTarget, "select_target", args); !res.IsError {
			t.Errorf("select_target %v succeeded", args)
		}
	}
	if res := call(t, s.handleConfirmCard, "confirm_card", map[string]any{"card": 999}); !res.IsError {
		t.Error("confirm_card accepted a card not in hand")
	}
}

func TestEndTurnStartsNextRound(t *testing.T) {
	s := newTestServer(t, nil)
	decodeState(t, call(t, s.handleStartBattle, "start_battle", nil))

	st := decodeState(t, call(t, s.handleEndTurn, "end_turn", nil))
	if st.State != "PlayerTurn" || st.Round != 2 {
		t.Fatalf("state = %s round %d", st.State, st.Round)
	}
	if len(st.Hand) != 5 || st.Energy != 3 {
		t.Fatalf("hand=%d energy=%d", len(st.Hand), st.Energy)
	}
	if len(st.Log) == 0 {
		t.Fatal("no battle log")
	}
}

type fakeHistory struct {
	recs  []persist.BattleRecord
	err   error
	limit int
}

func (f *fakeHistory) Recent(_ context.Context, limit int) ([]persist.BattleRecord, error) {
	f.limit = limit
	return f.recs, f.err
}

func TestBattleHistory(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h := &fakeHistory{recs: []persist.BattleRecord{{
		StartedAt:  start,
		EndedAt:    start.Add(90 * time.Second),
		Rounds:     4,
		Victory:    true,
		HeroName:   "Ironclad",
		HeroHealth: 31,
		Enemies:    []string{"Orc", "Archer"},
	}}}
	s := newTestServer(t, h)

	res := call(t, s.handleBattleHistory, "battle_history", nil)
	if res.IsError {
		t.Fatal(text(t, res))
	}
	var out []HistoryEntry
	if err := json.Unmarshal([]byte(text(t, res)), &out); err != nil {
		t.Fatal(err)
	}
	if h.limit != defaultHistory || len(out) != 1 || out[0].Seconds != 90 || len(out[0].Enemies) != 2 {
		t.Fatalf("limit=%d out=%+v", h.limit, out)
	}

	if res := call(t, s.handleBattleHistory, "battle_history", map[string]any{"limit": 0}); !res.IsError {
		t.Error("limit 0 accepted")
	}
	h.err = errors.New("connection reset")
	if res := call(t, s.handleBattleHistory, "battle_history", map[string]any{"limit": 3}); !res.IsError || h.limit != 3 {
		t.Errorf("journal failure: IsError=%v limit=%d", res.IsError, h.limit)
	}
}
