package games

import (
	"encoding/json"
	"errors"
	"testing"
)

// draws are rank-1: ace=0, 2=1 ... 10=9, J=10, Q=11, K=12

func TestBlackjackNatural(t *testing.T) {
	// player A,K; dealer 9,7
	src := &fakeSource{ints: []int{0, 12, 8, 6}}
	st, err := blackjackGame{}.Start(nil, src)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !st.Terminal || st.Multiplier != blackjackNaturalPays {
		t.Fatalf("natural: terminal=%v mult=%v, want %v", st.Terminal, st.Multiplier, blackjackNaturalPays)
	}
	v := blackjackGame{}.View(st)
	if v["result"] != "natural" {
		t.Fatalf("view result = %v, want natural", v["result"])
	}
}

func TestBlackjackDoubleNaturalPushes(t *testing.T) {
	src := &fakeSource{ints: []int{0, 12, 0, 12}}
	st, err := blackjackGame{}.Start(nil, src)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !st.Terminal || st.Multiplier != blackjackPushPays {
		t.Fatalf("double natural: terminal=%v mult=%v, want push 1x", st.Terminal, st.Multiplier)
	}
}

func TestBlackjackDealerNatural(t *testing.T) {
	src := &fakeSource{ints: []int{8, 6, 0, 12}}
	st, err := blackjackGame{}.Start(nil, src)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !st.Terminal || st.Multiplier != 0 {
		t.Fatalf("dealer natural: terminal=%v mult=%v, want 0", st.Terminal, st.Multiplier)
	}
}

func TestBlackjackHitBust(t *testing.T) {
	// player 10,9 = 19; dealer 6,6 = 12
	src := &fakeSource{ints: []int{9, 8, 5, 5}}
	st, err := blackjackGame{}.Start(nil, src)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if st.Terminal {
		t.Fatalf("hand terminal before any action")
	}
	// hole card stays hidden mid-hand
	v := blackjackGame{}.View(st)
	if _, ok := v["dealer"]; ok {
		t.Fatalf("active view leaks the dealer hand: %v", v)
	}
	if v["dealer_up"].(Card) != 6 {
		t.Fatalf("dealer_up = %v, want 6", v["dealer_up"])
	}
	// hit draws K: 19+10 busts
	src.ints = []int{12}
	if err := (blackjackGame{}).Act(st, json.RawMessage(`{"action":"hit"}`), src); err != nil {
		t.Fatalf("hit: %v", err)
	}
	if !st.Terminal || st.Multiplier != 0 {
		t.Fatalf("bust: terminal=%v mult=%v, want 0", st.Terminal, st.Multiplier)
	}
}

func TestBlackjackStandDealerBusts(t *testing.T) {
	// player 10,10 = 20; dealer 6,10 = 16, draws 10 and busts
	src := &fakeSource{ints: []int{9, 9, 5, 9}}
	st, err := blackjackGame{}.Start(nil, src)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	src.ints = []int{9}
	if err := (blackjackGame{}).Act(st, json.RawMessage(`{"action":"stand"}`), src); err != nil {
		t.Fatalf("stand: %v", err)
	}
	if !st.Terminal || st.Multiplier != blackjackWinPays {
		t.Fatalf("dealer bust: terminal=%v mult=%v, want 2x", st.Terminal, st.Multiplier)
	}
	v := blackjackGame{}.View(st)
	if v["result"] != "win" {
		t.Fatalf("view result = %v, want win", v["result"])
	}
}

func TestBlackjackPushOnStand(t *testing.T) {
	// player 10,10 = 20; dealer 10,10 = 20, stands
	src := &fakeSource{ints: []int{9, 9, 9, 9}}
	st, err := blackjackGame{}.Start(nil, src)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := (blackjackGame{}).Act(st, json.RawMessage(`{"action":"stand"}`), src); err != nil {
		t.Fatalf("stand: %v", err)
	}
	if !st.Terminal || st.Multiplier != blackjackPushPays {
		t.Fatalf("push: terminal=%v mult=%v, want 1x", st.Terminal, st.Multiplier)
	}
}

func TestBlackjackCashoutStands(t *testing.T) {
	// player 10,10 = 20; dealer 6,10 = 16, draws 3 -> 19, player wins
	src := &fakeSource{ints: []int{9, 9, 5, 9}}
	st, err := blackjackGame{}.Start(nil, src)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	src.ints = []int{2}
	if err := (blackjackGame{}).Cashout(st, src, 0); err != nil {
		t.Fatalf("cashout: %v", err)
	}
	if !st.Terminal || st.Multiplier != blackjackWinPays {
		t.Fatalf("cashout settles as a stand: terminal=%v mult=%v", st.Terminal, st.Multiplier)
	}
}

func TestBlackjackUnknownAction(t *testing.T) {
	src := &fakeSource{ints: []int{9, 8, 5, 5}}
	st, _ := blackjackGame{}.Start(nil, src)
	if err := (blackjackGame{}).Act(st, json.RawMessage(`{"action":"split"}`), src); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("split = %v, want ErrUnknownAction", err)
	}
}
