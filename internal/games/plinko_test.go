package games

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestPlinkoTables(t *testing.T) {
	for risk, table := range plinkoTables {
		if len(table)%2 == 0 {
			t.Fatalf("%s table has no center bucket", risk)
		}
		for i := range table {
			if table[i] <= 0 {
				t.Fatalf("%s table bucket %d is %v", risk, i, table[i])
			}
			if table[i] != table[len(table)-1-i] {
				t.Fatalf("%s table not symmetric at %d", risk, i)
			}
		}
	}
}

func TestPlinkoDrop(t *testing.T) {
	// low table, all-right path clamps at the last bucket
	src := &fakeSource{ints: []int{1, 1, 1, 1, 1, 1, 1, 1}}
	st, err := plinkoGame{}.Start(json.RawMessage(`{"risk":"low"}`), src)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !st.Terminal {
		t.Fatalf("plinko round not terminal at start")
	}
	v := plinkoGame{}.View(st)
	if v["bucket"].(int) != len(plinkoTables["low"])-1 {
		t.Fatalf("bucket = %v, want edge bucket", v["bucket"])
	}
	if st.Multiplier != 1.2 {
		t.Fatalf("edge bucket multiplier = %v, want 1.2", st.Multiplier)
	}

	// alternating path lands back on the center peak
	src = &fakeSource{ints: []int{0, 1, 0, 1, 0, 1, 0, 1}}
	st, err = plinkoGame{}.Start(json.RawMessage(`{"risk":"low"}`), src)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if st.Multiplier != 5 {
		t.Fatalf("center bucket multiplier = %v, want 5", st.Multiplier)
	}

	// all-left path clamps at bucket 0
	src = &fakeSource{ints: []int{0, 0, 0, 0, 0, 0, 0, 0}}
	st, err = plinkoGame{}.Start(json.RawMessage(`{"risk":"low"}`), src)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if b := (plinkoGame{}).View(st)["bucket"].(int); b != 0 {
		t.Fatalf("bucket = %v, want 0", b)
	}
}

func TestPlinkoStartParams(t *testing.T) {
	for _, p := range []string{`{"risk":"extreme"}`, `{}`, `bad`} {
		if _, err := (plinkoGame{}).Start(json.RawMessage(p), &fakeSource{}); !errors.Is(err, ErrInvalidParams) {
			t.Fatalf("Start(%s) = %v, want ErrInvalidParams", p, err)
		}
	}
}
