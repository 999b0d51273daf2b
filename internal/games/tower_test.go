package games

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestTowerMultiplier(t *testing.T) {
	if got := towerMultiplier(1); got != 1.5 {
		t.Fatalf("level 1 = %v, want 1.5", got)
	}
	if got := towerMultiplier(towerLevels); got != 15 {
		t.Fatalf("top level = %v, want 15", got)
	}
}

func TestTowerClimbAndCashout(t *testing.T) {
	g, _ := Lookup("tower")
	st, err := g.Start(nil, &fakeSource{})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if st.Terminal {
		t.Fatalf("tower round terminal at start")
	}
	if err := g.Cashout(st, &fakeSource{}, 0); !errors.Is(err, ErrCashoutNotReady) {
		t.Fatalf("cashout at ground level = %v, want ErrCashoutNotReady", err)
	}
	// level 0 succeeds on any draw below 70
	if err := g.Act(st, json.RawMessage(`{"action":"climb"}`), &fakeSource{ints: []int{69}}); err != nil {
		t.Fatalf("climb: %v", err)
	}
	if st.Terminal {
		t.Fatalf("round terminal after a single climb")
	}
	if err := g.Cashout(st, &fakeSource{}, 0); err != nil {
		t.Fatalf("cashout: %v", err)
	}
	if !st.Terminal || st.Multiplier != 1.5 {
		t.Fatalf("cashout at level 1: terminal=%v mult=%v, want 1.5", st.Terminal, st.Multiplier)
	}
}

func TestTowerFall(t *testing.T) {
	g, _ := Lookup("tower")
	st, _ := g.Start(nil, &fakeSource{})
	if err := g.Act(st, json.RawMessage(`{"action":"climb"}`), &fakeSource{ints: []int{70}}); err != nil {
		t.Fatalf("climb: %v", err)
	}
	if !st.Terminal || st.Multiplier != 0 {
		t.Fatalf("fall: terminal=%v mult=%v, want 0", st.Terminal, st.Multiplier)
	}
	v := g.View(st)
	if v["fell"] != true {
		t.Fatalf("view = %v, want fell", v)
	}
}

func TestTowerTopOut(t *testing.T) {
	g, _ := Lookup("tower")
	st, _ := g.Start(nil, &fakeSource{})
	src := &fakeSource{ints: make([]int, towerLevels)} // all zero draws always succeed
	for i := 0; i < towerLevels; i++ {
		if err := g.Act(st, json.RawMessage(`{"action":"climb"}`), src); err != nil {
			t.Fatalf("climb %d: %v", i, err)
		}
	}
	if !st.Terminal || st.Multiplier != 15 {
		t.Fatalf("top out: terminal=%v mult=%v, want 15", st.Terminal, st.Multiplier)
	}
	v := g.View(st)
	if v["topped"] != true {
		t.Fatalf("view = %v, want topped", v)
	}
}

func TestTowerUnknownAction(t *testing.T) {
	g, _ := Lookup("tower")
	st, _ := g.Start(nil, &fakeSource{})
	if err := g.Act(st, json.RawMessage(`{"action":"dig"}`), &fakeSource{}); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("dig = %v, want ErrUnknownAction", err)
	}
}
