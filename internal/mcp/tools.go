package mcp

import (
	"context"
	"slices"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/l1jgo/deckbattle/internal/input"
	"github.com/l1jgo/deckbattle/internal/turn"
)

const defaultHistory = 10

// Register adds the battle tools to ms.
func (s *Server) Register(ms *server.MCPServer) {
	ms.AddTool(startBattleTool(), s.handleStartBattle)
	ms.AddTool(selectTargetTool(), s.handleSelectTarget)
	ms.AddTool(confirmCardTool(), s.handleConfirmCard)
	ms.AddTool(endTurnTool(), s.handleEndTurn)
	ms.AddTool(getStateTool(), s.handleGetState)
	if s.history != nil {
		ms.AddTool(battleHistoryTool(), s.handleBattleHistory)
	}
}

// --- Tool definitions ---

func startBattleTool() mcp.Tool {
	return mcp.NewTool("start_battle",
		mcp.WithDescription("Start the first battle, or the next one after a battle has ended. "+
			"Returns the state at the start of the player's first turn."),
	)
}

func selectTargetTool() mcp.Tool {
	return mcp.NewTool("select_target",
		mcp.WithDescription("Aim a card from hand at an enemy. Nothing is played until confirm_card."),
		mcp.WithNumber("card", mcp.Required(), mcp.Description("Card id from the hand list")),
		mcp.WithNumber("target", mcp.Required(), mcp.Description("Enemy index from the enemies list")),
	)
}

func confirmCardTool() mcp.Tool {
	return mcp.NewTool("confirm_card",
		mcp.WithDescription("Play a card. Enemy-targeted cards need a prior select_target for the same card; "+
			"self-targeted cards can be confirmed directly."),
		mcp.WithNumber("card", mcp.Required(), mcp.Description("Card id from the hand list")),
	)
}

func endTurnTool() mcp.Tool {
	return mcp.NewTool("end_turn",
		mcp.WithDescription("End the player's turn. Enemies act on their declared intents, then the next round starts."),
	)
}

func getStateTool() mcp.Tool {
	return mcp.NewTool("get_state",
		mcp.WithDescription("Get the current battle state and recent log. Read-only."),
	)
}

func battleHistoryTool() mcp.Tool {
	return mcp.NewTool("battle_history",
		mcp.WithDescription("List finished battles from the journal, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of battles to return (default 10)")),
	)
}

// --- Tool handlers ---

func (s *Server) handleStartBattle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch st := s.enc.State(); st.Kind {
	case turn.KindInitializing:
		err = s.enc.Advance()
	case turn.KindBattleOver:
		err = s.enc.Restart()
	default:
		return mcp.NewToolResultErrorf("A battle is already running (%s). Use get_state.", st), nil
	}
	if err != nil {
		s.log.Error("start battle failed", zap.Error(err))
		return mcp.NewToolResultErrorf("Failed to start battle: %v", err), nil
	}
	return s.state(), nil
}

func (s *Server) handleSelectTarget(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res := s.requirePlayerTurn(); res != nil {
		return res, nil
	}
	v := s.enc.View()
	card := request.GetInt("card", -1)
	if !slices.Contains(v.HandIDs(), card) {
		return mcp.NewToolResultErrorf("Card %d is not in hand.", card), nil
	}
	enemies := v.LivingEnemyIDs()
	target := request.GetInt("target", -1)
	if target < 0 || target >= len(enemies) {
		return mcp.NewToolResultErrorf("Invalid target %d. Must be 0-%d.", target, len(enemies)-1), nil
	}
	return s.push(input.CardTargetSelected{Card: card, Target: enemies[target]}), nil
}

func (s *Server) handleConfirmCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res := s.requirePlayerTurn(); res != nil {
		return res, nil
	}
	card := request.GetInt("card", -1)
	if !slices.Contains(s.enc.View().HandIDs(), card) {
		return mcp.NewToolResultErrorf("Card %d is not in hand.", card), nil
	}
	return s.push(input.CardKindConfirmed{Card: card}), nil
}

func (s *Server) handleEndTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res := s.requirePlayerTurn(); res != nil {
		return res, nil
	}
	return s.push(input.EndTurnRequested{}), nil
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(), nil
}

func (s *Server) handleBattleHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", defaultHistory)
	if limit <= 0 {
		return mcp.NewToolResultError("limit must be positive"), nil
	}
	recs, err := s.history.Recent(ctx, limit)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to read battle history: %v", err), nil
	}
	out := make([]HistoryEntry, 0, len(recs))
	for _, r := range recs {
		out = append(out, HistoryEntry{
			Rounds:     r.Rounds,
			Victory:    r.Victory,
			Hero:       r.HeroName,
			HeroHealth: r.HeroHealth,
			Enemies:    r.Enemies,
			Seconds:    r.EndedAt.Sub(r.StartedAt).Seconds(),
		})
	}
	return mcp.NewToolResultText(respondJSON(out)), nil
}

// HistoryEntry is one journaled battle as returned by battle_history.
type HistoryEntry struct {
	Rounds     int      `json:"rounds"`
	Victory    bool     `json:"victory"`
	Hero       string   `json:"hero"`
	HeroHealth int      `json:"hero_health"`
	Enemies    []string `json:"enemies"`
	Seconds    float64  `json:"seconds"`
}

func (s *Server) requirePlayerTurn() *mcp.CallToolResult {
	switch st := s.enc.State(); st.Kind {
	case turn.KindPlayerTurn:
		return nil
	case turn.KindInitializing:
		return mcp.NewToolResultError("No battle is running. Use start_battle first.")
	case turn.KindBattleOver:
		return mcp.NewToolResultError("The battle is over. Use start_battle for the next one.")
	default:
		return mcp.NewToolResultErrorf("Not the player's turn (%s).", st)
	}
}

// push queues one input event and advances to the next point the player
// has to act.
func (s *Server) push(ev any) *mcp.CallToolResult {
	if !s.enc.Queue().Push(ev) {
		return mcp.NewToolResultError("Input queue is full. Try again.")
	}
	if err := s.enc.Advance(); err != nil {
		s.log.Error("advance failed", zap.Error(err))
		return mcp.NewToolResultErrorf("Battle stalled: %v", err)
	}
	return s.state()
}

func (s *Server) state() *mcp.CallToolResult {
	return mcp.NewToolResultText(respondJSON(stateResult(s.enc.View(), s.enc.Feed())))
}
