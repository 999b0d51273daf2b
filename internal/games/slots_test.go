package games

import "testing"

func TestSlotsRowMultiplier(t *testing.T) {
	cases := []struct {
		row  [3]int
		want float64
	}{
		{[3]int{0, 0, 0}, 6},  // 2 * 3
		{[3]int{7, 7, 7}, 60}, // 20 * 3
		{[3]int{3, 3, 1}, 5},  // pair of symbol 3
		{[3]int{3, 1, 3}, 5},
		{[3]int{1, 3, 3}, 5},
		{[3]int{0, 1, 2}, 0},
	}
	for _, c := range cases {
		if got := slotsRowMultiplier(c.row); got != c.want {
			t.Fatalf("slotsRowMultiplier(%v) = %v, want %v", c.row, got, c.want)
		}
	}
}

func TestSlotsSpin(t *testing.T) {
	// rows: [0 0 0]=6, [1 2 3]=0, [5 5 2]=8 -> 14
	src := &fakeSource{ints: []int{0, 0, 0, 1, 2, 3, 5, 5, 2}}
	st, err := slotsGame{}.Start(nil, src)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !st.Terminal {
		t.Fatalf("slots round not terminal at start")
	}
	if st.Multiplier != 14 {
		t.Fatalf("multiplier = %v, want 14", st.Multiplier)
	}
	v := slotsGame{}.View(st)
	grid := v["grid"].([3][3]int)
	if grid[2] != [3]int{5, 5, 2} {
		t.Fatalf("grid row 2 = %v", grid[2])
	}
}
