package games

import (
	"encoding/json"

	"casino-server/internal/rng"
)

// Tower: 10 levels with a fixed escalating multiplier of 1.5 per level. Each
// climb succeeds with probability 0.7 - 0.05*level (checked before the
// climb); one failure zeroes the bet. Cash out after any successful level at
// that level's multiplier; topping out auto-settles.
const (
	towerLevels        = 10
	towerBaseRate      = 0.7
	towerRateDecrement = 0.05
	towerRateScale     = 100 // success drawn as Intn(100) < rate*100
)

type towerGame struct{}

type towerState struct {
	Level  int  `json:"level"` // successful climbs so far
	Fell   bool `json:"fell"`
	Topped bool `json:"topped"`
}

type towerAction struct {
	Action string `json:"action"` // climb
}

func (towerGame) ID() string { return "tower" }

func towerMultiplier(level int) float64 {
	return 1.5 * float64(level)
}

func (towerGame) Start(params json.RawMessage, src rng.Source) (*State, error) {
	st := &State{Game: "tower"}
	if err := st.store(towerState{}); err != nil {
		return nil, err
	}
	return st, nil
}

func (towerGame) Act(st *State, action json.RawMessage, src rng.Source) error {
	var a towerAction
	if err := json.Unmarshal(action, &a); err != nil || a.Action != "climb" {
		return ErrUnknownAction
	}
	var ts towerState
	if err := st.load(&ts); err != nil {
		return err
	}
	rate := towerBaseRate - float64(ts.Level)*towerRateDecrement
	n, err := src.Intn(towerRateScale)
	if err != nil {
		return err
	}
	if float64(n) >= rate*towerRateScale {
		ts.Fell = true
		st.finish(0)
		return st.store(ts)
	}
	ts.Level++
	if ts.Level == towerLevels {
		ts.Topped = true
		st.finish(towerMultiplier(ts.Level))
	}
	return st.store(ts)
}

func (towerGame) Cashout(st *State, src rng.Source, nowMs int64) error {
	var ts towerState
	if err := st.load(&ts); err != nil {
		return err
	}
	if ts.Level == 0 {
		return ErrCashoutNotReady
	}
	st.finish(towerMultiplier(ts.Level))
	return st.store(ts)
}

func (towerGame) View(st *State) map[string]any {
	var ts towerState
	if st.load(&ts) != nil {
		return nil
	}
	v := map[string]any{"level": ts.Level}
	if ts.Level > 0 {
		v["multiplier"] = round2(towerMultiplier(ts.Level))
	}
	if st.Terminal {
		v["fell"] = ts.Fell
		v["topped"] = ts.Topped
	}
	return v
}
