package games

import "casino-server/internal/rng"

// Card is a rank in [1,13] (ace=1 .. king=13). Suits carry no weight in any
// of the card games here, so they are presentation-only and never drawn.
type Card int

// drawCard draws a uniform rank. Card games draw with replacement, matching
// an effectively infinite shoe.
func drawCard(src rng.Source) (Card, error) {
	n, err := src.Intn(13)
	if err != nil {
		return 0, err
	}
	return Card(n + 1), nil
}

func drawCards(src rng.Source, k int) ([]Card, error) {
	out := make([]Card, k)
	for i := range out {
		c, err := drawCard(src)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// blackjackValue scores a hand with the ace 11->1 reduction loop: aces start
// at 11 and are demoted one at a time while the hand busts and a demotable
// ace remains.
func blackjackValue(hand []Card) int {
	total, aces := 0, 0
	for _, c := range hand {
		switch {
		case c == 1:
			total += 11
			aces++
		case c >= 10:
			total += 10
		default:
			total += int(c)
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// baccaratValue scores a hand mod 10 (ace=1, ten and faces=0).
func baccaratValue(hand []Card) int {
	total := 0
	for _, c := range hand {
		if c < 10 {
			total += int(c)
		}
	}
	return total % 10
}
