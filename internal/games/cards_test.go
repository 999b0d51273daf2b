package games

import "testing"

func TestDrawCard(t *testing.T) {
	src := &fakeSource{ints: []int{0, 12}}
	c, err := drawCard(src)
	if err != nil || c != 1 {
		t.Fatalf("drawCard = %v, %v, want ace", c, err)
	}
	c, err = drawCard(src)
	if err != nil || c != 13 {
		t.Fatalf("drawCard = %v, %v, want king", c, err)
	}
}

func TestBlackjackValue(t *testing.T) {
	cases := []struct {
		hand []Card
		want int
	}{
		{[]Card{1, 13}, 21},      // ace + king: natural
		{[]Card{1, 5}, 16},       // soft 16
		{[]Card{1, 5, 10}, 16},   // ace demoted 11->1
		{[]Card{1, 1, 10}, 12},   // both aces can't stay 11
		{[]Card{1, 1, 1, 1}, 14}, // 11+1+1+1
		{[]Card{9, 7}, 16},
		{[]Card{10, 11, 12}, 30}, // faces count 10
		{[]Card{13, 13, 2}, 22},  // bust stays bust with no aces
	}
	for _, c := range cases {
		if got := blackjackValue(c.hand); got != c.want {
			t.Fatalf("blackjackValue(%v) = %d, want %d", c.hand, got, c.want)
		}
	}
}

func TestBaccaratValue(t *testing.T) {
	cases := []struct {
		hand []Card
		want int
	}{
		{[]Card{10, 13}, 0}, // tens and faces are worth nothing
		{[]Card{1, 12}, 1},
		{[]Card{4, 3}, 7},
		{[]Card{9, 9}, 8}, // mod 10
		{[]Card{5, 5, 6}, 6},
	}
	for _, c := range cases {
		got := baccaratValue(c.hand)
		if got != c.want {
			t.Fatalf("baccaratValue(%v) = %d, want %d", c.hand, got, c.want)
		}
		if got < 0 || got > 9 {
			t.Fatalf("baccaratValue(%v) = %d, out of [0,9]", c.hand, got)
		}
	}
}
