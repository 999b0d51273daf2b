package games

import (
	"encoding/json"
	"fmt"

	"casino-server/internal/rng"

	"github.com/pkg/errors"
)

// Game is the rule module contract shared by all ten games.
// A module is pure apart from consuming draws from the injected rng.Source:
// given the same bet parameters and the same draws it always produces the
// same outcome and payout multiplier. Payout tables and house edge live in
// package constants, never derived per call.
type Game interface {
	ID() string
	// Start draws any hidden outcome material and returns the initial state.
	// Single-shot games come back already terminal.
	Start(params json.RawMessage, src rng.Source) (*State, error)
	// Act advances a multi-step round (reveal/hit/stand/climb/guess).
	Act(st *State, action json.RawMessage, src rng.Source) error
	// Cashout resolves a voluntary cash-out at the current multiplier.
	// nowMs matters only for crash, which is a pure function of wall clock;
	// blackjack consumes draws here for the dealer's play-out.
	Cashout(st *State, src rng.Source, nowMs int64) error
	// View returns the client-safe projection of the state. Hidden material
	// (mine positions, crash point, dealer hole behavior) is only exposed
	// once the round is terminal.
	View(st *State) map[string]any
}

// State is the persisted round state snapshot. Data holds the game-specific
// payload and is owned exclusively by the round that created it; once
// Terminal flips true the state never changes again.
type State struct {
	Game       string          `json:"game"`
	Terminal   bool            `json:"terminal"`
	Multiplier float64         `json:"multiplier"` // payout multiplier, valid when terminal
	StartedAt  int64           `json:"started_at"` // ms since epoch
	Data       json.RawMessage `json:"data"`
}

var (
	ErrInvalidParams   = errors.New("invalid game parameters")
	ErrUnknownGame     = errors.New("unknown game")
	ErrUnknownAction   = errors.New("unknown action")
	ErrRoundTerminal   = errors.New("round already terminal")
	ErrNoActions       = errors.New("game has no mid-round actions")
	ErrCashoutNotReady = errors.New("cashout not allowed yet")
)

var registry = map[string]Game{}

func register(g Game) { registry[g.ID()] = g }

// Lookup resolves a rule module by game ID.
func Lookup(id string) (Game, error) {
	g, ok := registry[id]
	if !ok {
		return nil, errors.Wrap(ErrUnknownGame, id)
	}
	return g, nil
}

// IDs lists the registered game IDs (for routing validation).
func IDs() []string {
	out := make([]string, 0, len(registry))
	for id := range registry {
		out = append(out, id)
	}
	return out
}

func init() {
	register(minesGame{})
	register(diceGame{})
	register(rouletteGame{})
	register(blackjackGame{})
	register(baccaratGame{})
	register(slotsGame{})
	register(plinkoGame{})
	register(towerGame{})
	register(crashGame{})
	register(hiloGame{})
}

func (s *State) load(v any) error {
	if err := json.Unmarshal(s.Data, v); err != nil {
		return fmt.Errorf("corrupt round state: %w", err)
	}
	return nil
}

func (s *State) store(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.Data = b
	return nil
}

// finish marks the state terminal at the given multiplier, rounded to 2dp
// to match the ledger precision.
func (s *State) finish(multiplier float64) {
	s.Terminal = true
	s.Multiplier = round2(multiplier)
}

func round2(f float64) float64 {
	// multipliers are small positive rationals; half-up at 2dp is enough
	if f < 0 {
		f = 0
	}
	return float64(int64(f*100+0.5)) / 100
}
