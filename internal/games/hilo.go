package games

import (
	"encoding/json"

	"casino-server/internal/rng"
)

// Hi-Lo: one visible card in [1,13], guess whether the next independent draw
// is strictly higher or lower. A correct guess pays a flat 1.5x. The
// comparison is strict: a tie loses.
const hiloWinPays = 1.5

type hiloGame struct{}

type hiloState struct {
	Current Card   `json:"current"`
	Next    Card   `json:"next,omitempty"`
	Guess   string `json:"guess,omitempty"`
	Win     bool   `json:"win"`
}

type hiloAction struct {
	Action string `json:"action"` // guess
	Guess  string `json:"guess"`  // higher | lower
}

func (hiloGame) ID() string { return "hilo" }

func (hiloGame) Start(params json.RawMessage, src rng.Source) (*State, error) {
	c, err := drawCard(src)
	if err != nil {
		return nil, err
	}
	st := &State{Game: "hilo"}
	if err := st.store(hiloState{Current: c}); err != nil {
		return nil, err
	}
	return st, nil
}

func (hiloGame) Act(st *State, action json.RawMessage, src rng.Source) error {
	var a hiloAction
	if err := json.Unmarshal(action, &a); err != nil || a.Action != "guess" {
		return ErrUnknownAction
	}
	if a.Guess != "higher" && a.Guess != "lower" {
		return ErrInvalidParams
	}
	var hs hiloState
	if err := st.load(&hs); err != nil {
		return err
	}
	next, err := drawCard(src)
	if err != nil {
		return err
	}
	hs.Next = next
	hs.Guess = a.Guess
	hs.Win = (a.Guess == "higher" && next > hs.Current) || (a.Guess == "lower" && next < hs.Current)
	if hs.Win {
		st.finish(hiloWinPays)
	} else {
		st.finish(0)
	}
	return st.store(hs)
}

func (hiloGame) Cashout(st *State, src rng.Source, nowMs int64) error { return ErrNoActions }

func (hiloGame) View(st *State) map[string]any {
	var hs hiloState
	if st.load(&hs) != nil {
		return nil
	}
	v := map[string]any{"current": hs.Current}
	if st.Terminal {
		v["next"] = hs.Next
		v["guess"] = hs.Guess
		v["win"] = hs.Win
	}
	return v
}
