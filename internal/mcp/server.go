// Package mcp exposes one encounter as MCP tools so an agent can play
// battles over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/l1jgo/deckbattle/internal/battle"
	"github.com/l1jgo/deckbattle/internal/encounter"
	"github.com/l1jgo/deckbattle/internal/persist"
	"github.com/l1jgo/deckbattle/internal/turn"
)

const (
	serverName    = "deckbattle"
	serverVersion = "0.1.0"
)

// History lists finished battles, newest first.
type History interface {
	Recent(ctx context.Context, limit int) ([]persist.BattleRecord, error)
}

// Server serializes tool calls onto a single encounter.
type Server struct {
	mu      sync.Mutex
	enc     *encounter.Encounter
	history History
	log     *zap.Logger
}

// NewServer wraps enc. history may be nil, in which case battle_history is
// not offered.
func NewServer(enc *encounter.Encounter, history History, log *zap.Logger) *Server {
	return &Server{enc: enc, history: history, log: log}
}

// MCPServer builds an mcp-go server with every tool registered.
func (s *Server) MCPServer() *server.MCPServer {
	ms := server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(false))
	s.Register(ms)
	return ms
}

// Serve runs the MCP protocol on stdio until the client disconnects.
func (s *Server) Serve() error {
	if err := server.ServeStdio(s.MCPServer()); err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// StateResult is the JSON body every battle tool returns.
type StateResult struct {
	State       string            `json:"state"`
	Round       int               `json:"round"`
	Victory     *bool             `json:"victory,omitempty"`
	Hero        *CombatantResult  `json:"hero,omitempty"`
	Enemies     []CombatantResult `json:"enemies"`
	Hand        []CardResult      `json:"hand"`
	Energy      int               `json:"energy"`
	MaxEnergy   int               `json:"max_energy"`
	DrawPile    int               `json:"draw_pile"`
	DiscardPile int               `json:"discard_pile"`
	Selected    *SelectionResult  `json:"selected,omitempty"`
	Log         []string          `json:"log"`
}

// CombatantResult describes the hero or one living enemy. Index is the
// enemy's target index for select_target and is omitted for the hero.
type CombatantResult struct {
	Index      *int          `json:"index,omitempty"`
	Name       string        `json:"name"`
	Health     int           `json:"health"`
	MaxHealth  int           `json:"max_health"`
	Block      int           `json:"block,omitempty"`
	Vulnerable int           `json:"vulnerable,omitempty"`
	Weak       int           `json:"weak,omitempty"`
	Intent     *IntentResult `json:"intent,omitempty"`
}

type IntentResult struct {
	Kind      string `json:"kind"`
	Magnitude int    `json:"magnitude"`
}

type CardResult struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Cost     int    `json:"cost"`
	Target   string `json:"target"`
	Playable bool   `json:"playable"`
}

// SelectionResult is the card currently aimed and its target index.
type SelectionResult struct {
	Card   int `json:"card"`
	Target int `json:"target"`
}

func stateResult(v battle.View, log []string) StateResult {
	r := StateResult{
		State:       v.State.Kind.String(),
		Round:       v.Round,
		Enemies:     []CombatantResult{},
		Hand:        []CardResult{},
		Energy:      v.Energy,
		MaxEnergy:   v.MaxEnergy,
		DrawPile:    v.DrawCount,
		DiscardPile: v.DiscardCount,
		Log:         log,
	}
	if v.State.Kind == turn.KindBattleOver {
		won := v.State.PlayerVictorious
		r.Victory = &won
	}
	if v.Hero != nil {
		h := combatantResult(*v.Hero)
		r.Hero = &h
	}
	for i, id := range v.LivingEnemyIDs() {
		e, _ := v.Enemy(id)
		c := combatantResult(e)
		c.Index = &i
		r.Enemies = append(r.Enemies, c)
	}
	for _, c := range v.Hand {
		r.Hand = append(r.Hand, CardResult{
			ID:       c.ID,
			Name:     c.Name,
			Cost:     c.Cost,
			Target:   string(c.Target),
			Playable: c.Playable,
		})
	}
	if v.Target != nil {
		sel := SelectionResult{Card: v.Target.Card, Target: -1}
		for i, id := range v.LivingEnemyIDs() {
			if id == v.Target.Target {
				sel.Target = i
			}
		}
		r.Selected = &sel
	}
	return r
}

func combatantResult(c battle.CombatantView) CombatantResult {
	out := CombatantResult{
		Name:       c.Name,
		Health:     c.Health,
		MaxHealth:  c.MaxHealth,
		Block:      c.Block,
		Vulnerable: c.Vulnerable,
		Weak:       c.Weak,
	}
	if c.Intent != nil {
		out.Intent = &IntentResult{Kind: c.Intent.Type.String(), Magnitude: c.Intent.Magnitude}
	}
	return out
}

func respondJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
