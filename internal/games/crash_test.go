package games

import (
	"math"
	"testing"
)

func TestCrashMultiplierCurve(t *testing.T) {
	if got := crashMultiplierAt(0); got != 1 {
		t.Fatalf("curve at 0ms = %v, want 1", got)
	}
	if got := crashMultiplierAt(-500); got != 1 {
		t.Fatalf("negative elapsed = %v, want 1", got)
	}
	if got := crashMultiplierAt(6000); !almostEqual(got, math.E) {
		t.Fatalf("curve at one decay constant = %v, want e", got)
	}
	prev := 0.0
	for ms := int64(0); ms <= 10000; ms += 1000 {
		m := crashMultiplierAt(ms)
		if m <= prev {
			t.Fatalf("curve not increasing at %dms", ms)
		}
		prev = m
	}
}

func TestDrawCrashPoint(t *testing.T) {
	// U=1 is the floor of the distribution
	p, err := drawCrashPoint(&fakeSource{floats: []float64{1}})
	if err != nil || p != 1 {
		t.Fatalf("drawCrashPoint(1) = %v, %v, want 1", p, err)
	}
	// -ln(0.5)*200 = 138.63 -> 2.38
	p, err = drawCrashPoint(&fakeSource{floats: []float64{0.5}})
	if err != nil || !almostEqual(p, 2.38) {
		t.Fatalf("drawCrashPoint(0.5) = %v, %v, want 2.38", p, err)
	}
	for _, u := range []float64{0.001, 0.1, 0.9, 0.9999} {
		p, err := drawCrashPoint(&fakeSource{floats: []float64{u}})
		if err != nil {
			t.Fatalf("drawCrashPoint(%v): %v", u, err)
		}
		if p < 1 {
			t.Fatalf("drawCrashPoint(%v) = %v, below 1", u, p)
		}
	}
}

func TestCrashCashout(t *testing.T) {
	g, _ := Lookup("crash")
	st, err := g.Start(nil, &fakeSource{floats: []float64{0.5}}) // crash point 2.38
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	st.StartedAt = 1_000_000
	if v := g.View(st); v["crash_point"] != nil {
		t.Fatalf("active view leaks the crash point: %v", v)
	}
	// 2s in, the live curve reads ~1.40, still below the crash point
	if err := g.Cashout(st, &fakeSource{}, 1_002_000); err != nil {
		t.Fatalf("cashout: %v", err)
	}
	if !st.Terminal || st.Multiplier != 1.4 {
		t.Fatalf("cashout: terminal=%v mult=%v, want 1.4", st.Terminal, st.Multiplier)
	}
	v := g.View(st)
	if v["crashed"] != false || v["cashed_at"] != 1.4 {
		t.Fatalf("terminal view = %v", v)
	}
}

func TestCrashTooLate(t *testing.T) {
	g, _ := Lookup("crash")
	st, err := g.Start(nil, &fakeSource{floats: []float64{0.5}})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	st.StartedAt = 1_000_000
	// 6s in, the curve reads e > 2.38: the round already crashed
	if err := g.Cashout(st, &fakeSource{}, 1_006_000); err != nil {
		t.Fatalf("cashout: %v", err)
	}
	if !st.Terminal || st.Multiplier != 0 {
		t.Fatalf("late cashout: terminal=%v mult=%v, want 0", st.Terminal, st.Multiplier)
	}
	if v := g.View(st); v["crashed"] != true {
		t.Fatalf("terminal view = %v, want crashed", v)
	}
}
