package blackjack

import (
	"fmt"
	"math/rand"
	"time"

	"blackjack-lite/card"
)

// Game is one visitor's blackjack session: the pot carries across rounds,
// everything else is per-round state. All methods assume serialized access;
// the caller (one session actor per visitor) guarantees one action in flight
// at a time.
type Game struct {
	cfg Config
	rng *rand.Rand

	phase Phase
	turn  Turn

	stockCards  card.CardList
	playerCards card.CardList
	dealerCards card.CardList

	ledger  Ledger
	outcome Outcome
	message string
}

func NewGame(cfg Config) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Game{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(seed)),
		phase: PhaseTypeBetting,
	}
	g.ledger.Pot = cfg.InitialPot
	return g, nil
}

// PlaceBet fixes the bet for the upcoming round.
func (g *Game) PlaceBet(amount int) error {
	if g.phase != PhaseTypeBetting {
		return &IllegalTransitionError{Action: ActionTypeBet, Phase: g.phase}
	}
	return g.ledger.PlaceBet(amount)
}

// Deal starts a round: fresh shuffled deck, two cards each in alternating
// order (dealer, player, dealer, player). The opening hands are not evaluated
// for blackjack; outcomes only arise from explicit hit/stay/dealer actions.
func (g *Game) Deal() error {
	if g.phase != PhaseTypeBetting {
		return &IllegalTransitionError{Action: ActionTypeDeal, Phase: g.phase}
	}
	if g.ledger.Bet <= 0 {
		return ErrNoBet
	}

	g.shuffle()
	g.playerCards = nil
	g.dealerCards = nil
	for i := 0; i < 2; i++ {
		dc, err := g.draw()
		if err != nil {
			return err
		}
		g.dealerCards.Add(dc)

		pc, err := g.draw()
		if err != nil {
			return err
		}
		g.playerCards.Add(pc)
	}

	g.phase = PhaseTypePlayerTurn
	g.turn = TurnPlayer
	g.outcome = OutcomeNone
	g.message = ""
	return nil
}

// PlayerHit draws one card for the player. Exactly 21 wins the round, over 21
// busts it; anything else keeps the player's turn open.
func (g *Game) PlayerHit() (Outcome, error) {
	if g.phase != PhaseTypePlayerTurn {
		return OutcomeNone, &IllegalTransitionError{Action: ActionTypeHit, Phase: g.phase}
	}
	c, err := g.draw()
	if err != nil {
		return OutcomeNone, err
	}
	g.playerCards.Add(c)

	total := Score(g.playerCards)
	switch {
	case total == BlackjackAmount:
		g.settle(OutcomePlayerWins, "hit blackjack")
	case total > BlackjackAmount:
		g.settle(OutcomePlayerLoses, fmt.Sprintf("busted at %d", total))
	}
	return g.outcome, nil
}

// PlayerStay ends the player's turn without scoring.
func (g *Game) PlayerStay() error {
	if g.phase != PhaseTypePlayerTurn {
		return &IllegalTransitionError{Action: ActionTypeStay, Phase: g.phase}
	}
	g.phase = PhaseTypeDealerTurn
	g.turn = TurnDealer
	return nil
}

// DealerAdvance scores the dealer hand and moves the round forward: dealer 21
// loses the round for the player, a dealer bust wins it, 17+ goes to compare,
// and anything lower parks the round in DealerDraw until DealerHit.
func (g *Game) DealerAdvance() (mustHit bool, outcome Outcome, err error) {
	if g.phase != PhaseTypeDealerTurn {
		return false, OutcomeNone, &IllegalTransitionError{Action: ActionTypeDealerAdvance, Phase: g.phase}
	}
	return g.advanceDealer(), g.outcome, nil
}

// DealerHit draws one dealer card, then re-applies the DealerAdvance rules.
// Only legal while the round is parked in DealerDraw.
func (g *Game) DealerHit() (mustHit bool, outcome Outcome, err error) {
	if g.phase != PhaseTypeDealerDraw {
		return false, OutcomeNone, &IllegalTransitionError{Action: ActionTypeDealerHit, Phase: g.phase}
	}
	c, err := g.draw()
	if err != nil {
		return false, OutcomeNone, err
	}
	g.dealerCards.Add(c)
	return g.advanceDealer(), g.outcome, nil
}

func (g *Game) advanceDealer() (mustHit bool) {
	total := Score(g.dealerCards)
	switch {
	case total == BlackjackAmount:
		g.settle(OutcomePlayerLoses, "dealer hit blackjack")
	case total > BlackjackAmount:
		g.settle(OutcomePlayerWins, fmt.Sprintf("dealer busted at %d", total))
	case total >= DealerMinHit:
		g.phase = PhaseTypeCompare
	default:
		g.phase = PhaseTypeDealerDraw
		return true
	}
	return false
}

// Compare settles a round where both sides stood: higher total wins, equal
// totals tie.
func (g *Game) Compare() (Outcome, error) {
	if g.phase != PhaseTypeCompare {
		return OutcomeNone, &IllegalTransitionError{Action: ActionTypeCompare, Phase: g.phase}
	}

	playerTotal := Score(g.playerCards)
	dealerTotal := Score(g.dealerCards)
	switch {
	case playerTotal > dealerTotal:
		g.settle(OutcomePlayerWins, fmt.Sprintf("stayed at %d, dealer stayed at %d", playerTotal, dealerTotal))
	case playerTotal < dealerTotal:
		g.settle(OutcomePlayerLoses, fmt.Sprintf("stayed at %d, dealer stayed at %d", playerTotal, dealerTotal))
	default:
		g.settle(OutcomeTie, fmt.Sprintf("both stayed at %d", playerTotal))
	}
	return g.outcome, nil
}

// Restart discards the round and returns to betting. The pot carries over;
// the bet is cleared. Legal from any phase except Betting, so an abandoned
// round can always be restarted.
func (g *Game) Restart() error {
	if g.phase == PhaseTypeBetting {
		return &IllegalTransitionError{Action: ActionTypeRestart, Phase: g.phase}
	}
	g.stockCards = nil
	g.playerCards = nil
	g.dealerCards = nil
	g.ledger.resetBet()
	g.outcome = OutcomeNone
	g.message = ""
	g.phase = PhaseTypeBetting
	g.turn = TurnNone
	return nil
}

// settle is the single entry into the Settled phase: it records the outcome
// with its reason fragment and applies the ledger adjustment.
func (g *Game) settle(outcome Outcome, message string) {
	g.outcome = outcome
	g.message = message
	g.ledger.Settle(outcome)
	g.phase = PhaseTypeSettled
	g.turn = TurnNone
}

func (g *Game) shuffle() {
	cards := make([]card.Card, len(BlackjackCards))
	copy(cards, BlackjackCards)
	g.rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	g.stockCards.Init(cards)
}

func (g *Game) draw() (card.Card, error) {
	c := g.stockCards.PopCard()
	if c == card.CardInvalid {
		return card.CardInvalid, ErrEmptyDeck
	}
	return c, nil
}

// LegalActions is a pure projection of the current phase.
func (g *Game) LegalActions() []ActionType {
	return LegalActionsForPhase(g.phase)
}

func LegalActionsForPhase(phase Phase) []ActionType {
	switch phase {
	case PhaseTypeBetting:
		return []ActionType{ActionTypeBet, ActionTypeDeal}
	case PhaseTypePlayerTurn:
		return []ActionType{ActionTypeHit, ActionTypeStay, ActionTypeRestart}
	case PhaseTypeDealerTurn:
		return []ActionType{ActionTypeDealerAdvance, ActionTypeRestart}
	case PhaseTypeDealerDraw:
		return []ActionType{ActionTypeDealerHit, ActionTypeRestart}
	case PhaseTypeCompare:
		return []ActionType{ActionTypeCompare, ActionTypeRestart}
	case PhaseTypeSettled:
		return []ActionType{ActionTypeRestart}
	}
	return nil
}

func (g *Game) Phase() Phase     { return g.phase }
func (g *Game) Turn() Turn       { return g.turn }
func (g *Game) Outcome() Outcome { return g.outcome }
func (g *Game) Message() string  { return g.message }
func (g *Game) Pot() int         { return g.ledger.Pot }
func (g *Game) Bet() int         { return g.ledger.Bet }

func (g *Game) PlayerCards() []card.Card {
	return append([]card.Card{}, g.playerCards...)
}

func (g *Game) DealerCards() []card.Card {
	return append([]card.Card{}, g.dealerCards...)
}

func (g *Game) PlayerTotal() int { return Score(g.playerCards) }
func (g *Game) DealerTotal() int { return Score(g.dealerCards) }

// GameOver reports whether the visitor is out of chips with the round settled.
// It is a presentational end state; the engine itself stays in Settled.
func (g *Game) GameOver() bool {
	return g.phase == PhaseTypeSettled && g.ledger.Pot <= 0
}
