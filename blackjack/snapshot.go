package blackjack

import (
	"encoding/json"
	"math/rand"
	"time"

	"blackjack-lite/card"
)

// Snapshot is the serializable image of one visitor's game. It round-trips
// through Encode/DecodeSnapshot without loss and is what the transport layer
// persists between requests.
type Snapshot struct {
	Phase   Phase   `json:"phase"`
	Turn    Turn    `json:"turn"`
	Outcome Outcome `json:"outcome"`
	Message string  `json:"message,omitempty"`

	Pot int `json:"pot"`
	Bet int `json:"bet"`

	Deck        []card.Card `json:"deck,omitempty"`
	PlayerCards []card.Card `json:"playerCards,omitempty"`
	DealerCards []card.Card `json:"dealerCards,omitempty"`
}

func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Phase:       g.phase,
		Turn:        g.turn,
		Outcome:     g.outcome,
		Message:     g.message,
		Pot:         g.ledger.Pot,
		Bet:         g.ledger.Bet,
		Deck:        append([]card.Card{}, g.stockCards...),
		PlayerCards: append([]card.Card{}, g.playerCards...),
		DealerCards: append([]card.Card{}, g.dealerCards...),
	}
}

// RestoreGame rebuilds a Game from a persisted snapshot. The snapshot comes
// from outside the process, so the round invariants are re-checked here:
// known phase, non-negative ledger and no card duplicated across the deck and
// both hands.
func RestoreGame(cfg Config, s Snapshot) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if _, ok := PhaseTypeDictionary[s.Phase]; !ok {
		return nil, ErrInvalidState("unknown phase")
	}
	if s.Pot < 0 || s.Bet < 0 {
		return nil, ErrInvalidState("negative ledger value")
	}
	if s.Phase != PhaseTypeBetting && s.Phase != PhaseTypeSettled {
		if len(s.PlayerCards) < 2 || len(s.DealerCards) < 2 {
			return nil, ErrInvalidState("mid-round snapshot missing hands")
		}
	}
	if err := checkCardUniverse(s); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Game{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(seed)),
		phase:   s.Phase,
		turn:    s.Turn,
		outcome: s.Outcome,
		message: s.Message,
		ledger:  Ledger{Pot: s.Pot, Bet: s.Bet},
	}
	g.stockCards.Init(s.Deck)
	g.playerCards.Init(s.PlayerCards)
	g.dealerCards.Init(s.DealerCards)
	return g, nil
}

// checkCardUniverse enforces the round invariant: deck plus both hands form a
// duplicate-free subset of the 52-card universe.
func checkCardUniverse(s Snapshot) error {
	universe := make(map[card.Card]bool, len(BlackjackCards))
	for _, c := range BlackjackCards {
		universe[c] = true
	}

	seen := make(map[card.Card]bool, 52)
	for _, group := range [][]card.Card{s.Deck, s.PlayerCards, s.DealerCards} {
		for _, c := range group {
			if !universe[c] {
				return ErrInvalidState("card outside the 52-card universe")
			}
			if seen[c] {
				return ErrInvalidState("duplicate card in snapshot")
			}
			seen[c] = true
		}
	}
	return nil
}

// Encode serializes the snapshot to an opaque blob.
func (s Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}
