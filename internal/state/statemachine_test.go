package state

import "testing"

func TestNextState(t *testing.T) {
	cases := []struct {
		cur, evt string
		want     string
		ok       bool
	}{
		{StateActive, EvtSettle, StateSettled, true},
		{StateActive, EvtVoid, StateVoided, true},
		{StateSettled, EvtSettle, StateSettled, false},
		{StateSettled, EvtVoid, StateSettled, false},
		{StateVoided, EvtSettle, StateVoided, false},
		{StateVoided, EvtVoid, StateVoided, false},
		{StateActive, "refund", StateActive, false},
	}
	for _, c := range cases {
		got, err := NextState(c.cur, c.evt)
		if c.ok && err != nil {
			t.Fatalf("NextState(%s,%s): %v", c.cur, c.evt, err)
		}
		if !c.ok && err == nil {
			t.Fatalf("NextState(%s,%s) should fail", c.cur, c.evt)
		}
		if got != c.want {
			t.Fatalf("NextState(%s,%s) = %s, want %s", c.cur, c.evt, got, c.want)
		}
	}
}
