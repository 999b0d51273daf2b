package games

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestDiceMultiplier(t *testing.T) {
	cases := []struct {
		target int
		dir    string
		want   float64
	}{
		{50, "over", 1.98},
		{50, "under", 1.98},
		{99, "under", 1.0},
		{1, "over", 1.0},
		{98, "over", 49.5},
		{2, "under", 49.5},
	}
	for _, c := range cases {
		if got := diceMultiplier(c.target, c.dir); !almostEqual(got, c.want) {
			t.Fatalf("diceMultiplier(%d,%s) = %v, want %v", c.target, c.dir, got, c.want)
		}
	}
}

func TestDiceRoll(t *testing.T) {
	cases := []struct {
		draw   int // roll is draw+1
		target int
		dir    string
		win    bool
	}{
		{74, 50, "over", true},
		{49, 50, "over", false},  // roll equals target: over loses
		{49, 50, "under", false}, // roll equals target: under loses
		{10, 50, "under", true},
		{99, 99, "over", true}, // roll 100
		{0, 2, "under", true},  // roll 1
	}
	for _, c := range cases {
		src := &fakeSource{ints: []int{c.draw}}
		params := json.RawMessage(fmt.Sprintf(`{"target":%d,"direction":%q}`, c.target, c.dir))
		st, err := diceGame{}.Start(params, src)
		if err != nil {
			t.Fatalf("Start(%s): %v", params, err)
		}
		if !st.Terminal {
			t.Fatalf("dice round not terminal at start")
		}
		want := 0.0
		if c.win {
			want = round2(diceMultiplier(c.target, c.dir))
		}
		if st.Multiplier != want {
			t.Fatalf("roll %d vs %d %s: multiplier = %v, want %v", c.draw+1, c.target, c.dir, st.Multiplier, want)
		}
	}
}

func TestDiceStartParams(t *testing.T) {
	for _, p := range []string{
		`{"target":0,"direction":"over"}`,
		`{"target":100,"direction":"under"}`,
		`{"target":50,"direction":"sideways"}`,
		`not json`,
	} {
		if _, err := (diceGame{}).Start(json.RawMessage(p), &fakeSource{}); !errors.Is(err, ErrInvalidParams) {
			t.Fatalf("Start(%s) = %v, want ErrInvalidParams", p, err)
		}
	}
}
