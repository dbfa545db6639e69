package encounter

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/deckbattle/internal/component"
	"github.com/l1jgo/deckbattle/internal/core/ecs"
	"github.com/l1jgo/deckbattle/internal/core/event"
	"github.com/l1jgo/deckbattle/internal/persist"
)

const feedSize = 32

// Feed keeps the last few battle log lines for display.
type Feed struct {
	lines []string
	next  int
	full  bool
}

func NewFeed(size int) *Feed {
	return &Feed{lines: make([]string, size)}
}

func (f *Feed) Add(format string, args ...any) {
	if len(f.lines) == 0 {
		return
	}
	f.lines[f.next] = fmt.Sprintf(format, args...)
	f.next = (f.next + 1) % len(f.lines)
	if f.next == 0 {
		f.full = true
	}
}

// Lines returns the retained lines, oldest first.
func (f *Feed) Lines() []string {
	if !f.full {
		return slices.Clone(f.lines[:f.next])
	}
	return append(slices.Clone(f.lines[f.next:]), f.lines[:f.next]...)
}

func (e *Encounter) subscribe() {
	b := e.bus
	names := map[ecs.EntityID]string{}
	name := func(id ecs.EntityID) string {
		if h, ok := e.w.Heroes.Get(id); ok {
			names[id] = h.Name
		} else if en, ok := e.w.Enemies.Get(id); ok {
			names[id] = en.Name
		}
		if n, ok := names[id]; ok {
			return n
		}
		return "#" + id.String()
	}
	event.Subscribe(b, func(ev event.IntentDeclared) {
		e.feed.Add("%s intends %s %d", name(ev.Enemy), ev.Intent, ev.Amount)
	})

	event.Subscribe(b, func(ev event.CombatantSpawned) {
		if !ev.Hero {
			e.roster = append(e.roster, ev.Name)
		}
		e.feed.Add("%s enters the battle", ev.Name)
		e.log.Debug("combatant spawned", zap.String("name", ev.Name), zap.Bool("hero", ev.Hero))
	})
	event.Subscribe(b, func(ev event.BattleRestarted) {
		e.roster = e.roster[:0]
		e.started = time.Now()
		clear(names)
		e.log.Info("battle restarted", zap.Bool("hero_respawned", ev.HeroRespawned))
	})
	event.Subscribe(b, func(ev event.CardPlayed) {
		e.feed.Add("%s played on %s", ev.Card, name(ev.Target))
		e.log.Debug("card played", zap.String("card", ev.Card), zap.Int("cost", ev.Cost))
	})
	event.Subscribe(b, func(ev event.DamageDealt) {
		e.feed.Add("%s hits %s for %d (%d left)", name(ev.Source), name(ev.Target), ev.Amount, ev.Health)
		e.log.Debug("damage dealt",
			zap.Stringer("source", ev.Source),
			zap.Stringer("target", ev.Target),
			zap.Int("amount", ev.Amount),
			zap.Int("health", ev.Health),
		)
	})
	event.Subscribe(b, func(ev event.BlockGained) {
		e.feed.Add("%s gains %d block", name(ev.Target), ev.Amount)
	})
	event.Subscribe(b, func(ev event.StatusApplied) {
		e.feed.Add("%s is %s for %d", name(ev.Target), ev.Status, ev.Remaining)
	})
	event.Subscribe(b, func(ev event.StatusExpired) {
		e.feed.Add("%s is no longer %s", name(ev.Target), ev.Status)
	})
	event.Subscribe(b, func(ev event.CombatantDied) {
		e.feed.Add("%s dies", ev.Name)
		e.log.Info("combatant died", zap.String("name", ev.Name), zap.Bool("hero", ev.Hero))
	})
	event.Subscribe(b, func(ev event.TurnChanged) {
		if ev.To == "PlayerTurn" {
			e.feed.Add("round %d: your turn", ev.Round)
		}
	})
	event.Subscribe(b, e.recordOutcome)

	// Entities that die during a phase are gone by dispatch, so names are
	// captured before every run.
	e.rememberNames = func() {
		e.w.Heroes.Each(func(id ecs.EntityID, h component.Hero) { names[id] = h.Name })
		e.w.Enemies.Each(func(id ecs.EntityID, en component.Enemy) { names[id] = en.Name })
	}
}

func (e *Encounter) recordOutcome(ev event.BattleEnded) {
	if ev.PlayerVictorious {
		e.feed.Add("victory in round %d", ev.Round)
	} else {
		e.feed.Add("defeat in round %d", ev.Round)
	}
	e.log.Info("battle ended",
		zap.Bool("victory", ev.PlayerVictorious),
		zap.Int("round", ev.Round),
		zap.Int("hero_health", ev.HeroHealth),
		zap.Strings("enemies", e.roster),
	)
	if e.rec == nil {
		return
	}
	rec := persist.BattleRecord{
		StartedAt:  e.started,
		EndedAt:    time.Now(),
		Rounds:     ev.Round,
		Victory:    ev.PlayerVictorious,
		HeroName:   e.w.Rules.HeroName,
		HeroHealth: ev.HeroHealth,
		Enemies:    slices.Clone(e.roster),
	}
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()
	if err := e.rec.Record(ctx, rec); err != nil {
		e.log.Error("battle journal write failed", zap.Error(err))
	}
}
