package games

import (
	"encoding/json"

	"casino-server/internal/rng"
)

// Blackjack: two cards each, player hits then stands, dealer draws to 17.
// Natural blackjack pays 2.5x, regular win 2x, push returns the stake (1x).
const (
	blackjackNaturalPays = 2.5
	blackjackWinPays     = 2.0
	blackjackPushPays    = 1.0
	blackjackDealerStand = 17
)

type blackjackGame struct{}

type blackjackState struct {
	Player []Card `json:"player"`
	Dealer []Card `json:"dealer"`
	Stood  bool   `json:"stood"`
	Result string `json:"result,omitempty"` // natural|win|push|lose
}

type blackjackAction struct {
	Action string `json:"action"` // hit | stand
}

func (blackjackGame) ID() string { return "blackjack" }

func (blackjackGame) Start(params json.RawMessage, src rng.Source) (*State, error) {
	player, err := drawCards(src, 2)
	if err != nil {
		return nil, err
	}
	dealer, err := drawCards(src, 2)
	if err != nil {
		return nil, err
	}
	st := &State{Game: "blackjack"}
	bs := blackjackState{Player: player, Dealer: dealer}

	pv, dv := blackjackValue(player), blackjackValue(dealer)
	switch {
	case pv == 21 && dv == 21:
		bs.Result = "push"
		st.finish(blackjackPushPays)
	case pv == 21:
		bs.Result = "natural"
		st.finish(blackjackNaturalPays)
	case dv == 21:
		bs.Result = "lose"
		st.finish(0)
	}
	if err := st.store(bs); err != nil {
		return nil, err
	}
	return st, nil
}

func (g blackjackGame) Act(st *State, action json.RawMessage, src rng.Source) error {
	var a blackjackAction
	if err := json.Unmarshal(action, &a); err != nil {
		return ErrUnknownAction
	}
	var bs blackjackState
	if err := st.load(&bs); err != nil {
		return err
	}
	switch a.Action {
	case "hit":
		c, err := drawCard(src)
		if err != nil {
			return err
		}
		bs.Player = append(bs.Player, c)
		if blackjackValue(bs.Player) > 21 {
			bs.Result = "lose"
			st.finish(0)
		}
	case "stand":
		bs.Stood = true
		if err := dealerPlay(&bs, src); err != nil {
			return err
		}
		settleBlackjack(st, &bs)
	default:
		return ErrUnknownAction
	}
	return st.store(bs)
}

// dealerPlay draws for the dealer while its total is below 17.
func dealerPlay(bs *blackjackState, src rng.Source) error {
	for blackjackValue(bs.Dealer) < blackjackDealerStand {
		c, err := drawCard(src)
		if err != nil {
			return err
		}
		bs.Dealer = append(bs.Dealer, c)
	}
	return nil
}

func settleBlackjack(st *State, bs *blackjackState) {
	pv, dv := blackjackValue(bs.Player), blackjackValue(bs.Dealer)
	switch {
	case dv > 21 || pv > dv:
		bs.Result = "win"
		st.finish(blackjackWinPays)
	case pv == dv:
		bs.Result = "push"
		st.finish(blackjackPushPays)
	default:
		bs.Result = "lose"
		st.finish(0)
	}
}

// Cashout is standing by another name: settle the hand as dealt so far.
func (g blackjackGame) Cashout(st *State, src rng.Source, nowMs int64) error {
	return g.Act(st, json.RawMessage(`{"action":"stand"}`), src)
}

func (blackjackGame) View(st *State) map[string]any {
	var bs blackjackState
	if st.load(&bs) != nil {
		return nil
	}
	v := map[string]any{
		"player":       bs.Player,
		"player_value": blackjackValue(bs.Player),
	}
	if st.Terminal {
		v["dealer"] = bs.Dealer
		v["dealer_value"] = blackjackValue(bs.Dealer)
		v["result"] = bs.Result
	} else {
		// only the dealer's up card is visible mid-hand
		v["dealer_up"] = bs.Dealer[0]
	}
	return v
}
