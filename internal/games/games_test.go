package games

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	"casino-server/internal/rng"
)

// fakeSource replays scripted draws so game outcomes are deterministic.
type fakeSource struct {
	ints   []int
	sets   [][]int
	floats []float64
}

func (f *fakeSource) Intn(n int) (int, error) {
	if len(f.ints) == 0 {
		return 0, fmt.Errorf("fake source: no ints left")
	}
	v := f.ints[0]
	f.ints = f.ints[1:]
	if v < 0 || v >= n {
		return 0, fmt.Errorf("fake source: scripted %d out of [0,%d)", v, n)
	}
	return v, nil
}

func (f *fakeSource) IntnSet(n, k int) ([]int, error) {
	if len(f.sets) == 0 {
		return nil, fmt.Errorf("fake source: no sets left")
	}
	s := f.sets[0]
	f.sets = f.sets[1:]
	if len(s) != k {
		return nil, fmt.Errorf("fake source: scripted set has %d values, want %d", len(s), k)
	}
	return append([]int(nil), s...), nil
}

func (f *fakeSource) Float64() (float64, error) {
	if len(f.floats) == 0 {
		return 0, fmt.Errorf("fake source: no floats left")
	}
	v := f.floats[0]
	f.floats = f.floats[1:]
	return v, nil
}

// downSource stands in for a dead entropy source.
type downSource struct{}

func (downSource) Intn(int) (int, error)           { return 0, rng.ErrEntropyUnavailable }
func (downSource) IntnSet(int, int) ([]int, error) { return nil, rng.ErrEntropyUnavailable }
func (downSource) Float64() (float64, error)       { return 0, rng.ErrEntropyUnavailable }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLookup(t *testing.T) {
	want := []string{"mines", "dice", "roulette", "blackjack", "baccarat", "slots", "plinko", "tower", "crash", "hilo"}
	for _, id := range want {
		g, err := Lookup(id)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", id, err)
		}
		if g.ID() != id {
			t.Fatalf("Lookup(%q).ID() = %q", id, g.ID())
		}
	}
	if _, err := Lookup("keno"); !errors.Is(err, ErrUnknownGame) {
		t.Fatalf("Lookup(keno) = %v, want ErrUnknownGame", err)
	}
	if got := len(IDs()); got != len(want) {
		t.Fatalf("IDs() has %d entries, want %d", got, len(want))
	}
}

func TestRound2(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{-0.5, 0},
		{1.005, 1.01},
		{1.994, 1.99},
		{1.98, 1.98},
		{36, 36},
	}
	for _, c := range cases {
		if got := round2(c.in); got != c.want {
			t.Fatalf("round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

// Every game that draws at start must refuse to open a round when the
// entropy source is down. Tower draws at climb time instead.
func TestStartFailsClosedWhenEntropyDown(t *testing.T) {
	params := json.RawMessage(`{"mines":3,"target":50,"direction":"over","number":7,"side":"player","risk":"low"}`)
	for _, id := range IDs() {
		if id == "tower" {
			continue
		}
		g, err := Lookup(id)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", id, err)
		}
		if _, err := g.Start(params, downSource{}); !errors.Is(err, rng.ErrEntropyUnavailable) {
			t.Fatalf("%s.Start with dead entropy = %v, want ErrEntropyUnavailable", id, err)
		}
	}
}

func TestTowerClimbFailsClosedWhenEntropyDown(t *testing.T) {
	g, _ := Lookup("tower")
	st, err := g.Start(nil, downSource{})
	if err != nil {
		t.Fatalf("tower.Start: %v", err)
	}
	err = g.Act(st, json.RawMessage(`{"action":"climb"}`), downSource{})
	if !errors.Is(err, rng.ErrEntropyUnavailable) {
		t.Fatalf("tower climb with dead entropy = %v, want ErrEntropyUnavailable", err)
	}
	if st.Terminal {
		t.Fatalf("round must not settle on entropy failure")
	}
}
