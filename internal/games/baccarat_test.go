package games

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestBaccaratNaturalStandsTheRound(t *testing.T) {
	// player 4,5 = 9 natural; banker 2,3 = 5 never draws
	src := &fakeSource{ints: []int{3, 4, 1, 2}}
	st, err := baccaratGame{}.Start(json.RawMessage(`{"side":"player"}`), src)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !st.Terminal || st.Multiplier != baccaratPlayerPays {
		t.Fatalf("player natural: terminal=%v mult=%v, want 2x", st.Terminal, st.Multiplier)
	}
	v := baccaratGame{}.View(st)
	if len(v["player"].([]Card)) != 2 || len(v["banker"].([]Card)) != 2 {
		t.Fatalf("natural must freeze both hands at two cards: %v", v)
	}
	if v["winner"] != "player" {
		t.Fatalf("winner = %v, want player", v["winner"])
	}
}

func TestBaccaratThirdCardPhase(t *testing.T) {
	// player 2,3 = 5 draws 9 -> 4; banker 1,2 = 3 draws 10 -> 3.
	// The banker's draw does not look at the player's third card.
	src := &fakeSource{ints: []int{1, 2, 0, 1, 8, 9}}
	st, err := baccaratGame{}.Start(json.RawMessage(`{"side":"banker"}`), src)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	v := baccaratGame{}.View(st)
	if len(v["player"].([]Card)) != 3 || len(v["banker"].([]Card)) != 3 {
		t.Fatalf("both sides at <=5 must draw a third card: %v", v)
	}
	if v["winner"] != "player" {
		t.Fatalf("winner = %v, want player (4 vs 3)", v["winner"])
	}
	if st.Multiplier != 0 {
		t.Fatalf("banker bet on a player win should pay 0, got %v", st.Multiplier)
	}
}

func TestBaccaratBankerCommission(t *testing.T) {
	// banker 4,5 = 9 natural beats player 2,2 = 4
	src := &fakeSource{ints: []int{1, 1, 3, 4}}
	st, err := baccaratGame{}.Start(json.RawMessage(`{"side":"banker"}`), src)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if st.Multiplier != baccaratBankerPays {
		t.Fatalf("banker win pays %v, want 1.95", st.Multiplier)
	}
}

func TestBaccaratTie(t *testing.T) {
	// player 4,4 = 8 natural; banker 3,5 = 8: tie
	src := &fakeSource{ints: []int{3, 3, 2, 4}}
	st, err := baccaratGame{}.Start(json.RawMessage(`{"side":"tie"}`), src)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if st.Multiplier != baccaratTiePays {
		t.Fatalf("tie pays %v, want 9", st.Multiplier)
	}

	src = &fakeSource{ints: []int{3, 3, 2, 4}}
	st, err = baccaratGame{}.Start(json.RawMessage(`{"side":"player"}`), src)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if st.Multiplier != 0 {
		t.Fatalf("player bet on a tie should pay 0, got %v", st.Multiplier)
	}
}

func TestBaccaratStartParams(t *testing.T) {
	for _, p := range []string{`{"side":"dealer"}`, `{}`, `bad`} {
		if _, err := (baccaratGame{}).Start(json.RawMessage(p), &fakeSource{}); !errors.Is(err, ErrInvalidParams) {
			t.Fatalf("Start(%s) = %v, want ErrInvalidParams", p, err)
		}
	}
}
