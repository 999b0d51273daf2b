package games

import (
	"encoding/json"

	"casino-server/internal/rng"
)

// Plinko: the ball starts at the center bucket index and takes 8 uniform
// left/right steps, clamped to the table bounds; the final index selects the
// multiplier from the risk table. Tables are symmetric around the center,
// higher risk means wider spread and a higher peak.
const plinkoRows = 8

var plinkoTables = map[string][]float64{
	"low":    {1.2, 1.5, 2, 3, 5, 3, 2, 1.5, 1.2},
	"medium": {1.1, 1.3, 1.5, 2, 5, 10, 5, 2, 1.5, 1.3, 1.1},
	"high":   {1, 1.1, 1.3, 1.6, 2, 8, 15, 8, 2, 1.6, 1.3, 1},
}

type plinkoGame struct{}

type plinkoParams struct {
	Risk string `json:"risk"` // low | medium | high
}

type plinkoState struct {
	Risk   string `json:"risk"`
	Path   []int  `json:"path"` // -1 left, +1 right per row
	Bucket int    `json:"bucket"`
}

func (plinkoGame) ID() string { return "plinko" }

func (plinkoGame) Start(params json.RawMessage, src rng.Source) (*State, error) {
	var p plinkoParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, ErrInvalidParams
	}
	table, ok := plinkoTables[p.Risk]
	if !ok {
		return nil, ErrInvalidParams
	}
	pos := len(table) / 2
	path := make([]int, plinkoRows)
	for i := 0; i < plinkoRows; i++ {
		n, err := src.Intn(2)
		if err != nil {
			return nil, err
		}
		step := -1
		if n == 1 {
			step = 1
		}
		path[i] = step
		pos += step
		if pos < 0 {
			pos = 0
		}
		if pos > len(table)-1 {
			pos = len(table) - 1
		}
	}
	st := &State{Game: "plinko"}
	st.finish(table[pos])
	if err := st.store(plinkoState{Risk: p.Risk, Path: path, Bucket: pos}); err != nil {
		return nil, err
	}
	return st, nil
}

func (plinkoGame) Act(st *State, action json.RawMessage, src rng.Source) error { return ErrNoActions }
func (plinkoGame) Cashout(st *State, src rng.Source, nowMs int64) error        { return ErrNoActions }

func (plinkoGame) View(st *State) map[string]any {
	var ps plinkoState
	if st.load(&ps) != nil {
		return nil
	}
	return map[string]any{"risk": ps.Risk, "path": ps.Path, "bucket": ps.Bucket}
}
