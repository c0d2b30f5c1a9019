package event

import (
	"sync"
	"testing"
)

func TestEventsVisibleNextSwap(t *testing.T) {
	b := NewBus()
	var got []PlayerLeft
	Subscribe(b, func(e PlayerLeft) { got = append(got, e) })

	Emit(b, PlayerLeft{ID: "a"})
	b.DispatchAll()
	if len(got) != 0 {
		t.Fatalf("event delivered before swap: %v", got)
	}

	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("got %v, want one PlayerLeft{a}", got)
	}

	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 1 {
		t.Fatalf("event redelivered: %v", got)
	}
}

func TestDispatchRoutesByType(t *testing.T) {
	b := NewBus()
	var kills, joins int
	Subscribe(b, func(PlayerKilled) { kills++ })
	Subscribe(b, func(PlayerJoined) { joins++ })

	Emit(b, PlayerKilled{Killer: "a", Victim: "b", Credited: true})
	Emit(b, PlayerKilled{Killer: "a", Victim: "c"})
	Emit(b, PlayerJoined{ID: "d", Name: "Player1"})
	b.SwapBuffers()
	b.DispatchAll()

	if kills != 2 || joins != 1 {
		t.Fatalf("kills=%d joins=%d, want 2 and 1", kills, joins)
	}
}

func TestConcurrentEmit(t *testing.T) {
	b := NewBus()
	var n int
	Subscribe(b, func(PlayerJoined) { n++ })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				Emit(b, PlayerJoined{ID: "x"})
			}
		}()
	}
	wg.Wait()

	b.SwapBuffers()
	b.DispatchAll()
	if n != 800 {
		t.Fatalf("dispatched %d, want 800", n)
	}
}
