package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/multierr"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/l1jgo/deckbattle/internal/battle"
	"github.com/l1jgo/deckbattle/internal/component"
	"github.com/l1jgo/deckbattle/internal/turn"
)

// ErrMissingGlyph is the terminal's missing-sprite error: an enemy kind has
// no glyph registered. The combatant is skipped, the rest still draws.
var ErrMissingGlyph = errors.New("no glyph for enemy kind")

// DefaultGlyphs maps every archetype to its map character.
var DefaultGlyphs = map[component.EnemyKind]rune{
	component.EnemyMelee:    'O',
	component.EnemyRanged:   'v',
	component.EnemySummoner: 'S',
}

const (
	heroGlyph = '@'
	barWidth  = 10
)

var (
	styleText   = tcell.StyleDefault
	styleTitle  = tcell.StyleDefault.Bold(true)
	styleHero   = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleEnemy  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleHP     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleBlock  = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleIntent = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleCursor = tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true)
)

// Terminal draws the battle onto a tcell screen.
type Terminal struct {
	screen tcell.Screen
	glyphs map[component.EnemyKind]rune
	num    *message.Printer
	status string
}

func NewTerminal(screen tcell.Screen, glyphs map[component.EnemyKind]rune) *Terminal {
	return &Terminal{
		screen: screen,
		glyphs: glyphs,
		num:    message.NewPrinter(language.English),
	}
}

// SetStatus sets the one-line message shown on the title bar.
func (t *Terminal) SetStatus(s string) { t.status = s }

func (t *Terminal) DrawBackground(v battle.View) error {
	t.screen.Clear()
	w, _ := t.screen.Size()
	title := fmt.Sprintf(" deckbattle  %s", stateLabel(v))
	t.text(0, 0, title, styleTitle)
	if t.status != "" {
		t.text(max(len(title)+2, w-len(t.status)-1), 0, t.status, styleDim)
	}
	t.text(0, 1, strings.Repeat("─", w), styleDim)
	return nil
}

func (t *Terminal) DrawCharacters(v battle.View) error {
	if v.Hero != nil {
		t.screen.SetContent(v.Hero.Pos.X, v.Hero.Pos.Y, heroGlyph, nil, styleHero)
		t.text(v.Hero.Pos.X+2, v.Hero.Pos.Y, v.Hero.Name, styleText)
	}
	var err error
	for _, e := range v.Enemies {
		g, ok := t.glyphs[e.Kind]
		if !ok {
			err = multierr.Append(err, fmt.Errorf("%w: %s", ErrMissingGlyph, e.Kind))
			continue
		}
		t.screen.SetContent(e.Pos.X, e.Pos.Y, g, nil, styleEnemy)
		t.text(e.Pos.X+2, e.Pos.Y, e.Name, styleText)
	}
	return err
}

func (t *Terminal) DrawHealthBars(v battle.View) error {
	for _, c := range combatants(v) {
		x, y := c.Pos.X, c.Pos.Y+1
		label := t.num.Sprintf("%d/%d ", c.Health, c.MaxHealth)
		t.text(x, y, label, styleHP)
		t.text(x+len(label), y, bar(c.Health, c.MaxHealth), styleHP)
		if c.Block > 0 {
			t.text(x+len(label)+barWidth+3, y, t.num.Sprintf("[%d]", c.Block), styleBlock)
		}
	}
	return nil
}

func (t *Terminal) DrawHand(v battle.View) error {
	_, h := t.screen.Size()
	x := 1
	for i, c := range v.Hand {
		label := fmt.Sprintf("%d:%s(%d)", i+1, c.Name, c.Cost)
		style := styleText
		if !c.Playable {
			style = styleDim
		}
		t.text(x, h-3, label, style)
		x += len(label) + 2
	}
	return nil
}

func (t *Terminal) DrawIntents(v battle.View) error {
	for _, e := range v.Enemies {
		if e.Intent == nil {
			continue
		}
		t.text(e.Pos.X, e.Pos.Y-1, intentLabel(*e.Intent), styleIntent)
	}
	return nil
}

func (t *Terminal) DrawTargeting(v battle.View) error {
	if v.Target == nil {
		return nil
	}
	if e, ok := v.Enemy(v.Target.Target); ok {
		t.screen.SetContent(e.Pos.X-2, e.Pos.Y, '>', nil, styleCursor)
	}
	return nil
}

func (t *Terminal) DrawCardZones(v battle.View) error {
	_, h := t.screen.Size()
	t.text(1, h-1, t.num.Sprintf("draw %d  discard %d", v.DrawCount, v.DiscardCount), styleDim)
	return nil
}

func (t *Terminal) DrawEnergy(v battle.View) error {
	_, h := t.screen.Size()
	t.text(1, h-2, t.num.Sprintf("energy %d/%d", v.Energy, v.MaxEnergy), styleIntent)
	return nil
}

func (t *Terminal) DrawStatus(v battle.View) error {
	for _, c := range combatants(v) {
		var parts []string
		if c.Vulnerable > 0 {
			parts = append(parts, fmt.Sprintf("vuln %d", c.Vulnerable))
		}
		if c.Weak > 0 {
			parts = append(parts, fmt.Sprintf("weak %d", c.Weak))
		}
		if len(parts) > 0 {
			t.text(c.Pos.X, c.Pos.Y+2, strings.Join(parts, " "), styleIntent)
		}
	}
	return nil
}

func (t *Terminal) Present() { t.screen.Show() }

func (t *Terminal) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func combatants(v battle.View) []battle.CombatantView {
	out := make([]battle.CombatantView, 0, len(v.Enemies)+1)
	if v.Hero != nil {
		out = append(out, *v.Hero)
	}
	return append(out, v.Enemies...)
}

func bar(cur, maxHP int) string {
	if maxHP <= 0 {
		return "[" + strings.Repeat(".", barWidth) + "]"
	}
	filled := min(cur*barWidth/maxHP, barWidth)
	if cur > 0 && filled == 0 {
		filled = 1
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled) + "]"
}

func intentLabel(in component.Intent) string {
	switch in.Type {
	case component.IntentDealDamage:
		return fmt.Sprintf("ATK %d", in.Magnitude)
	case component.IntentInflictVulnerability:
		return fmt.Sprintf("VULN %d", in.Magnitude)
	case component.IntentInflictWeakness:
		return fmt.Sprintf("WEAK %d", in.Magnitude)
	case component.IntentBlock:
		return fmt.Sprintf("DEF %d", in.Magnitude)
	}
	return "?"
}

func stateLabel(v battle.View) string {
	switch v.State.Kind {
	case turn.KindInitializing:
		return "starting"
	case turn.KindBattleOver:
		if v.State.PlayerVictorious {
			return "victory! press r for a new battle"
		}
		return "defeat. press r to try again"
	}
	return fmt.Sprintf("round %d  %s", v.Round, v.State)
}
