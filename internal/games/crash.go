package games

import (
	"encoding/json"
	"math"

	"casino-server/internal/rng"
)

// Crash: the crash point is drawn once at round start from an exponential
// distribution, 1 + floor(-ln(U)*scale*100)/100, and stays hidden until the
// round ends. The live multiplier is a pure function of wall clock,
// exp(elapsedMs/decay); a cash-out only counts if it reaches the server
// while the live multiplier is still below the crash point. Client-reported
// multipliers are never trusted.
const (
	crashScale   = 2.0
	crashDecayMs = 6000.0
)

type crashGame struct{}

type crashState struct {
	CrashPoint float64 `json:"crash_point"` // hidden until terminal
	CashedAt   float64 `json:"cashed_at,omitempty"`
	Crashed    bool    `json:"crashed"`
}

func (crashGame) ID() string { return "crash" }

// crashMultiplierAt is the live curve value elapsed ms after round start.
func crashMultiplierAt(elapsedMs int64) float64 {
	if elapsedMs < 0 {
		elapsedMs = 0
	}
	return math.Exp(float64(elapsedMs) / crashDecayMs)
}

func drawCrashPoint(src rng.Source) (float64, error) {
	u, err := src.Float64()
	if err != nil {
		return 0, err
	}
	return 1 + math.Floor(-math.Log(u)*crashScale*100)/100, nil
}

func (crashGame) Start(params json.RawMessage, src rng.Source) (*State, error) {
	point, err := drawCrashPoint(src)
	if err != nil {
		return nil, err
	}
	st := &State{Game: "crash"}
	if err := st.store(crashState{CrashPoint: point}); err != nil {
		return nil, err
	}
	return st, nil
}

func (crashGame) Act(st *State, action json.RawMessage, src rng.Source) error { return ErrNoActions }

func (crashGame) Cashout(st *State, src rng.Source, nowMs int64) error {
	var cs crashState
	if err := st.load(&cs); err != nil {
		return err
	}
	live := crashMultiplierAt(nowMs - st.StartedAt)
	if live >= cs.CrashPoint {
		cs.Crashed = true
		st.finish(0)
		return st.store(cs)
	}
	cs.CashedAt = round2(live)
	st.finish(cs.CashedAt)
	return st.store(cs)
}

func (crashGame) View(st *State) map[string]any {
	var cs crashState
	if st.load(&cs) != nil {
		return nil
	}
	v := map[string]any{"started_at": st.StartedAt}
	if !st.Terminal {
		return v
	}
	v["crash_point"] = cs.CrashPoint
	v["crashed"] = cs.Crashed
	if cs.CashedAt > 0 {
		v["cashed_at"] = cs.CashedAt
	}
	return v
}
