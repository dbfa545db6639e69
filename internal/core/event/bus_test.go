package event

import "testing"

func TestBusDoubleBuffered(t *testing.T) {
	b := NewBus()
	var got []string
	Subscribe(b, func(e TurnChanged) { got = append(got, "turn:"+e.To) })
	Subscribe(b, func(e BattleEnded) {
		if e.PlayerVictorious {
			got = append(got, "won")
		}
	})

	Emit(b, TurnChanged{To: "PlayerTurn"})
	b.Publish(BattleEnded{PlayerVictorious: true})
	Emit(b, TurnChanged{To: "BattleOver"})

	if n := b.DispatchAll(); n != 0 {
		t.Fatalf("events delivered before swap: %d", n)
	}
	b.SwapBuffers()
	if b.Pending() != 0 {
		t.Fatal("back buffer not cleared by swap")
	}
	if n := b.DispatchAll(); n != 3 {
		t.Fatalf("delivered %d, want 3", n)
	}
	want := []string{"turn:PlayerTurn", "won", "turn:BattleOver"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("delivery order %v, want %v", got, want)
		}
	}

	b.SwapBuffers()
	if n := b.DispatchAll(); n != 0 {
		t.Fatalf("stale events redelivered: %d", n)
	}
}

func TestPublishNilIgnored(t *testing.T) {
	b := NewBus()
	b.Publish(nil)
	if b.Pending() != 0 {
		t.Fatal("nil event queued")
	}
}
