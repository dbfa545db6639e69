package data

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/l1jgo/deckbattle/internal/component"
)

func TestDefaultCardTable(t *testing.T) {
	cards, err := LoadCardTable("")
	if err != nil {
		t.Fatal(err)
	}
	strike := cards.Get("Strike")
	if strike == nil || strike.Cost != 1 || strike.Target != TargetEnemy {
		t.Fatalf("strike %+v", strike)
	}
	bash := cards.Get("Bash")
	if bash == nil || len(bash.Effects) != 2 || bash.Effects[1].Type != component.EffectVulnerability {
		t.Fatalf("bash %+v", bash)
	}
	deck := cards.StartingDeck()
	if len(deck) != 11 {
		t.Fatalf("starting deck size %d", len(deck))
	}
	seen := map[int]bool{}
	for _, c := range deck {
		if seen[c.ID] {
			t.Fatalf("duplicate card id %d", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestDefaultEnemyTable(t *testing.T) {
	enemies, err := LoadEnemyTable("")
	if err != nil {
		t.Fatal(err)
	}
	if enemies.Count() != len(component.EnemyKinds) {
		t.Fatalf("count %d", enemies.Count())
	}
	if got := enemies.Get(component.EnemyMelee).Name; got != "Orc" {
		t.Fatalf("melee name %q", got)
	}
}

func TestLoadCardTableRejectsUnknownDeckCard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.yaml")
	body := "cards:\n  - {name: Strike, cost: 1, target: enemy, effects: [{type: damage, amount: 6}]}\nstarting_deck:\n  - {card: Zap, count: 1}\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCardTable(path); err == nil {
		t.Fatal("unknown deck card accepted")
	}
}

func TestLoadEnemyTableRequiresEveryArchetype(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enemies.yaml")
	body := "enemies:\n  - {kind: melee, name: Orc, health: 10, intents: [{kind: block, amount: 3, weight: 1}]}\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadEnemyTable(path); err == nil {
		t.Fatal("partial table accepted")
	}
}

func TestTablePolicyOnlyPicksListedIntents(t *testing.T) {
	enemies, err := LoadEnemyTable("")
	if err != nil {
		t.Fatal(err)
	}
	p := NewTablePolicy(enemies, rand.New(rand.NewPCG(7, 7)))
	allowed := map[component.Intent]bool{}
	for _, o := range enemies.Get(component.EnemyRanged).Intents {
		allowed[component.Intent{Type: o.Kind, Magnitude: o.Amount}] = true
	}
	hits := map[component.Intent]int{}
	for range 500 {
		in := p.ChooseIntent(IntentContext{Enemy: component.EnemyRanged})
		if !allowed[in] {
			t.Fatalf("unexpected intent %+v", in)
		}
		hits[in]++
	}
	if len(hits) != len(allowed) {
		t.Fatalf("weighted choice never picked some options: %v", hits)
	}
}
