package games

import (
	"encoding/json"

	"casino-server/internal/rng"
)

// Mines: 5x5 grid, M mines placed up front via one distinct-set draw.
// Multiplier after k safe reveals = (N-M)/(N-M-k) * (1 - edge); a mine hit
// zeroes the round, revealing every safe cell auto-settles at the current
// multiplier.
const (
	minesGridSize  = 25
	minesHouseEdge = 0.05
)

type minesGame struct{}

type minesParams struct {
	Mines int `json:"mines"`
}

type minesState struct {
	Mines     []int `json:"mines"` // hidden until terminal
	Revealed  []int `json:"revealed"`
	HitMine   int   `json:"hit_mine"` // -1 until a mine is hit
	MineCount int   `json:"mine_count"`
}

type minesAction struct {
	Action string `json:"action"`
	Cell   int    `json:"cell"`
}

func (minesGame) ID() string { return "mines" }

func (minesGame) Start(params json.RawMessage, src rng.Source) (*State, error) {
	var p minesParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, ErrInvalidParams
	}
	if p.Mines < 1 || p.Mines > minesGridSize-1 {
		return nil, ErrInvalidParams
	}
	mines, err := src.IntnSet(minesGridSize, p.Mines)
	if err != nil {
		return nil, err
	}
	st := &State{Game: "mines"}
	if err := st.store(minesState{Mines: mines, Revealed: []int{}, HitMine: -1, MineCount: p.Mines}); err != nil {
		return nil, err
	}
	return st, nil
}

// minesMultiplier is the ladder value after k safe reveals. The ladder tops
// out one rung before the grid is exhausted; a full clear settles at that
// top rung, (N-M)*(1-edge).
func minesMultiplier(mineCount, revealed int) float64 {
	safe := float64(minesGridSize - mineCount)
	k := float64(revealed)
	if k > safe-1 {
		k = safe - 1
	}
	return safe / (safe - k) * (1 - minesHouseEdge)
}

func (minesGame) Act(st *State, action json.RawMessage, src rng.Source) error {
	var a minesAction
	if err := json.Unmarshal(action, &a); err != nil || a.Action != "reveal" {
		return ErrUnknownAction
	}
	if a.Cell < 0 || a.Cell >= minesGridSize {
		return ErrInvalidParams
	}
	var ms minesState
	if err := st.load(&ms); err != nil {
		return err
	}
	for _, c := range ms.Revealed {
		if c == a.Cell {
			return ErrInvalidParams // already revealed
		}
	}
	for _, m := range ms.Mines {
		if m == a.Cell {
			ms.HitMine = a.Cell
			st.finish(0)
			return st.store(ms)
		}
	}
	ms.Revealed = append(ms.Revealed, a.Cell)
	if len(ms.Revealed) == minesGridSize-ms.MineCount {
		// every safe cell open: auto-settle at the current ladder value
		st.finish(minesMultiplier(ms.MineCount, len(ms.Revealed)))
	}
	return st.store(ms)
}

func (minesGame) Cashout(st *State, src rng.Source, nowMs int64) error {
	var ms minesState
	if err := st.load(&ms); err != nil {
		return err
	}
	if len(ms.Revealed) == 0 {
		return ErrCashoutNotReady
	}
	st.finish(minesMultiplier(ms.MineCount, len(ms.Revealed)))
	return st.store(ms)
}

func (minesGame) View(st *State) map[string]any {
	var ms minesState
	if st.load(&ms) != nil {
		return nil
	}
	v := map[string]any{
		"mine_count": ms.MineCount,
		"revealed":   ms.Revealed,
	}
	if !st.Terminal {
		if len(ms.Revealed) > 0 {
			v["multiplier"] = round2(minesMultiplier(ms.MineCount, len(ms.Revealed)))
		}
		return v
	}
	v["mines"] = ms.Mines
	if ms.HitMine >= 0 {
		v["hit_mine"] = ms.HitMine
	}
	return v
}
