package games

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestMinesMultiplierLadder(t *testing.T) {
	// M=5, 20 safe cells: every rung must beat the previous one
	prev := 0.0
	for k := 0; k < 20; k++ {
		m := minesMultiplier(5, k)
		if m <= prev {
			t.Fatalf("ladder not increasing at k=%d: %v <= %v", k, m, prev)
		}
		prev = m
	}
	if got := minesMultiplier(5, 3); !almostEqual(got, 20.0/17.0*0.95) {
		t.Fatalf("minesMultiplier(5,3) = %v, want %v", got, 20.0/17.0*0.95)
	}
	// top rung and full clear coincide
	if got := minesMultiplier(5, 20); !almostEqual(got, minesMultiplier(5, 19)) {
		t.Fatalf("full clear = %v, want top rung %v", got, minesMultiplier(5, 19))
	}
	if got := minesMultiplier(5, 19); !almostEqual(got, 20*0.95) {
		t.Fatalf("top rung = %v, want %v", got, 20*0.95)
	}
}

func TestMinesStartParams(t *testing.T) {
	g, _ := Lookup("mines")
	for _, p := range []string{`{"mines":0}`, `{"mines":25}`, `{"mines":-3}`, `not json`} {
		if _, err := g.Start(json.RawMessage(p), &fakeSource{}); !errors.Is(err, ErrInvalidParams) {
			t.Fatalf("Start(%s) = %v, want ErrInvalidParams", p, err)
		}
	}
}

func TestMinesRevealAndCashout(t *testing.T) {
	g, _ := Lookup("mines")
	src := &fakeSource{sets: [][]int{{0, 1, 2}}}
	st, err := g.Start(json.RawMessage(`{"mines":3}`), src)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if st.Terminal {
		t.Fatalf("mines round terminal at start")
	}
	if v := g.View(st); v["mines"] != nil {
		t.Fatalf("active view leaks mine positions: %v", v)
	}
	if err := g.Cashout(st, src, 0); !errors.Is(err, ErrCashoutNotReady) {
		t.Fatalf("cashout before any reveal = %v, want ErrCashoutNotReady", err)
	}
	if err := g.Act(st, json.RawMessage(`{"action":"reveal","cell":5}`), src); err != nil {
		t.Fatalf("reveal safe cell: %v", err)
	}
	if st.Terminal {
		t.Fatalf("round terminal after one safe reveal")
	}
	if err := g.Act(st, json.RawMessage(`{"action":"reveal","cell":5}`), src); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("re-reveal = %v, want ErrInvalidParams", err)
	}
	if err := g.Cashout(st, src, 0); err != nil {
		t.Fatalf("cashout: %v", err)
	}
	if !st.Terminal {
		t.Fatalf("round not terminal after cashout")
	}
	if want := round2(22.0 / 21.0 * 0.95); st.Multiplier != want {
		t.Fatalf("multiplier = %v, want %v", st.Multiplier, want)
	}
	v := g.View(st)
	if _, ok := v["mines"]; !ok {
		t.Fatalf("terminal view must reveal mine positions: %v", v)
	}
}

func TestMinesBust(t *testing.T) {
	g, _ := Lookup("mines")
	src := &fakeSource{sets: [][]int{{7, 8, 9}}}
	st, err := g.Start(json.RawMessage(`{"mines":3}`), src)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := g.Act(st, json.RawMessage(`{"action":"reveal","cell":8}`), src); err != nil {
		t.Fatalf("reveal mine: %v", err)
	}
	if !st.Terminal || st.Multiplier != 0 {
		t.Fatalf("mine hit should zero the round, got terminal=%v mult=%v", st.Terminal, st.Multiplier)
	}
	if err := g.Act(st, json.RawMessage(`{"action":"jump"}`), src); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("unknown action = %v, want ErrUnknownAction", err)
	}
}

func TestMinesFullClearAutoSettles(t *testing.T) {
	g, _ := Lookup("mines")
	mines := make([]int, 24)
	for i := range mines {
		mines[i] = i
	}
	src := &fakeSource{sets: [][]int{mines}}
	st, err := g.Start(json.RawMessage(`{"mines":24}`), src)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := g.Act(st, json.RawMessage(`{"action":"reveal","cell":24}`), src); err != nil {
		t.Fatalf("reveal last safe cell: %v", err)
	}
	if !st.Terminal {
		t.Fatalf("full clear should auto-settle")
	}
	if want := round2(1 * 0.95); st.Multiplier != want {
		t.Fatalf("full clear multiplier = %v, want %v", st.Multiplier, want)
	}
}
