package games

import (
	"encoding/json"

	"casino-server/internal/rng"
)

// Dice: roll in [1,100] against a target threshold. The multiplier is
// 99/winChance, which bakes in a 1% edge across every target.
type diceGame struct{}

type diceParams struct {
	Target    int    `json:"target"`    // 1..99
	Direction string `json:"direction"` // over | under
}

type diceState struct {
	Target    int    `json:"target"`
	Direction string `json:"direction"`
	Roll      int    `json:"roll"`
	Win       bool   `json:"win"`
}

func (diceGame) ID() string { return "dice" }

// diceMultiplier returns 99/winChance for a valid target/direction.
func diceMultiplier(target int, direction string) float64 {
	chance := target
	if direction == "over" {
		chance = 100 - target
	}
	return 99 / float64(chance)
}

func (diceGame) Start(params json.RawMessage, src rng.Source) (*State, error) {
	var p diceParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, ErrInvalidParams
	}
	if p.Target < 1 || p.Target > 99 || (p.Direction != "over" && p.Direction != "under") {
		return nil, ErrInvalidParams
	}
	n, err := src.Intn(100)
	if err != nil {
		return nil, err
	}
	roll := n + 1
	win := (p.Direction == "over" && roll > p.Target) || (p.Direction == "under" && roll < p.Target)
	st := &State{Game: "dice"}
	if win {
		st.finish(diceMultiplier(p.Target, p.Direction))
	} else {
		st.finish(0)
	}
	if err := st.store(diceState{Target: p.Target, Direction: p.Direction, Roll: roll, Win: win}); err != nil {
		return nil, err
	}
	return st, nil
}

func (diceGame) Act(st *State, action json.RawMessage, src rng.Source) error { return ErrNoActions }
func (diceGame) Cashout(st *State, src rng.Source, nowMs int64) error        { return ErrNoActions }

func (diceGame) View(st *State) map[string]any {
	var ds diceState
	if st.load(&ds) != nil {
		return nil
	}
	return map[string]any{
		"target":    ds.Target,
		"direction": ds.Direction,
		"roll":      ds.Roll,
		"win":       ds.Win,
	}
}
