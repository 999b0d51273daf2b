package games

import (
	"encoding/json"

	"casino-server/internal/rng"
)

// Slots: 3x3 grid of independently drawn symbols. Each of the three rows is
// a payline: three of a kind pays bet * symbol * 3, a pair pays bet * symbol
// (of the paired symbol), rows are summed.
var slotSymbolMultipliers = [...]float64{2, 3, 4, 5, 6, 8, 10, 20}

const slotSymbolCount = len(slotSymbolMultipliers)

type slotsGame struct{}

type slotsState struct {
	Grid [3][3]int `json:"grid"` // symbol indices 0..7
}

func (slotsGame) ID() string { return "slots" }

func (slotsGame) Start(params json.RawMessage, src rng.Source) (*State, error) {
	var ss slotsState
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			n, err := src.Intn(slotSymbolCount)
			if err != nil {
				return nil, err
			}
			ss.Grid[r][c] = n
		}
	}
	total := 0.0
	for r := 0; r < 3; r++ {
		total += slotsRowMultiplier(ss.Grid[r])
	}
	st := &State{Game: "slots"}
	st.finish(total)
	if err := st.store(ss); err != nil {
		return nil, err
	}
	return st, nil
}

// slotsRowMultiplier scores one payline.
func slotsRowMultiplier(row [3]int) float64 {
	if row[0] == row[1] && row[1] == row[2] {
		return slotSymbolMultipliers[row[0]] * 3
	}
	switch {
	case row[0] == row[1] || row[0] == row[2]:
		return slotSymbolMultipliers[row[0]]
	case row[1] == row[2]:
		return slotSymbolMultipliers[row[1]]
	}
	return 0
}

func (slotsGame) Act(st *State, action json.RawMessage, src rng.Source) error { return ErrNoActions }
func (slotsGame) Cashout(st *State, src rng.Source, nowMs int64) error        { return ErrNoActions }

func (slotsGame) View(st *State) map[string]any {
	var ss slotsState
	if st.load(&ss) != nil {
		return nil
	}
	return map[string]any{"grid": ss.Grid}
}
