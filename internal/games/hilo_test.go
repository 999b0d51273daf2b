package games

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestHiloGuess(t *testing.T) {
	cases := []struct {
		current int // rank-1 draws
		guess   string
		next    int
		win     bool
	}{
		{5, "higher", 11, true},
		{5, "higher", 2, false},
		{5, "higher", 5, false}, // tie loses
		{5, "lower", 5, false},  // tie loses
		{5, "lower", 0, true},
		{12, "lower", 0, true},
	}
	g, _ := Lookup("hilo")
	for _, c := range cases {
		src := &fakeSource{ints: []int{c.current}}
		st, err := g.Start(nil, src)
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
		if st.Terminal {
			t.Fatalf("hilo round terminal before the guess")
		}
		v := g.View(st)
		if _, ok := v["next"]; ok {
			t.Fatalf("active view leaks the next card: %v", v)
		}
		src.ints = []int{c.next}
		action := json.RawMessage(fmt.Sprintf(`{"action":"guess","guess":%q}`, c.guess))
		if err := g.Act(st, action, src); err != nil {
			t.Fatalf("guess: %v", err)
		}
		want := 0.0
		if c.win {
			want = hiloWinPays
		}
		if !st.Terminal || st.Multiplier != want {
			t.Fatalf("%d %s %d: terminal=%v mult=%v, want %v",
				c.current+1, c.guess, c.next+1, st.Terminal, st.Multiplier, want)
		}
	}
}

func TestHiloBadActions(t *testing.T) {
	g, _ := Lookup("hilo")
	st, _ := g.Start(nil, &fakeSource{ints: []int{5}})
	if err := g.Act(st, json.RawMessage(`{"action":"guess","guess":"same"}`), &fakeSource{}); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("guess same = %v, want ErrInvalidParams", err)
	}
	if err := g.Act(st, json.RawMessage(`{"action":"peek"}`), &fakeSource{}); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("peek = %v, want ErrUnknownAction", err)
	}
	if err := g.Cashout(st, &fakeSource{}, 0); !errors.Is(err, ErrNoActions) {
		t.Fatalf("cashout = %v, want ErrNoActions", err)
	}
}
