package games

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRouletteSpin(t *testing.T) {
	src := &fakeSource{ints: []int{17}}
	st, err := rouletteGame{}.Start(json.RawMessage(`{"number":17}`), src)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !st.Terminal || st.Multiplier != 36 {
		t.Fatalf("exact match: terminal=%v mult=%v, want 36", st.Terminal, st.Multiplier)
	}
	v := rouletteGame{}.View(st)
	if v["spin"].(int) != 17 || v["win"].(bool) != true {
		t.Fatalf("view = %v", v)
	}

	src = &fakeSource{ints: []int{17}}
	st, err = rouletteGame{}.Start(json.RawMessage(`{"number":18}`), src)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if st.Multiplier != 0 {
		t.Fatalf("miss should pay 0, got %v", st.Multiplier)
	}
}

func TestRouletteStartParams(t *testing.T) {
	for _, p := range []string{`{"number":-1}`, `{"number":37}`, `bad`} {
		if _, err := (rouletteGame{}).Start(json.RawMessage(p), &fakeSource{}); !errors.Is(err, ErrInvalidParams) {
			t.Fatalf("Start(%s) = %v, want ErrInvalidParams", p, err)
		}
	}
}
