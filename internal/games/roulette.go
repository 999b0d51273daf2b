package games

import (
	"encoding/json"

	"casino-server/internal/rng"
)

// Roulette: European wheel, 37 pockets, single-number bets only.
// Exact match pays 36x (the 37th pocket is the edge), anything else loses.
const roulettePockets = 37

type rouletteGame struct{}

type rouletteParams struct {
	Number int `json:"number"` // 0..36
}

type rouletteState struct {
	Number int  `json:"number"`
	Spin   int  `json:"spin"`
	Win    bool `json:"win"`
}

func (rouletteGame) ID() string { return "roulette" }

func (rouletteGame) Start(params json.RawMessage, src rng.Source) (*State, error) {
	var p rouletteParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, ErrInvalidParams
	}
	if p.Number < 0 || p.Number > 36 {
		return nil, ErrInvalidParams
	}
	spin, err := src.Intn(roulettePockets)
	if err != nil {
		return nil, err
	}
	st := &State{Game: "roulette"}
	win := spin == p.Number
	if win {
		st.finish(36)
	} else {
		st.finish(0)
	}
	if err := st.store(rouletteState{Number: p.Number, Spin: spin, Win: win}); err != nil {
		return nil, err
	}
	return st, nil
}

func (rouletteGame) Act(st *State, action json.RawMessage, src rng.Source) error { return ErrNoActions }
func (rouletteGame) Cashout(st *State, src rng.Source, nowMs int64) error        { return ErrNoActions }

func (rouletteGame) View(st *State) map[string]any {
	var rs rouletteState
	if st.load(&rs) != nil {
		return nil
	}
	return map[string]any{"number": rs.Number, "spin": rs.Spin, "win": rs.Win}
}
