package blackjack

// Ledger tracks the visitor's pot and the bet of the round in progress.
// The pot persists across rounds; the bet is fixed from placement until
// settlement.
type Ledger struct {
	Pot int
	Bet int
}

// PlaceBet records the round bet. The pot is untouched until Settle.
func (l *Ledger) PlaceBet(amount int) error {
	if amount <= 0 || amount > l.Pot {
		return &InvalidBetError{Amount: amount, Pot: l.Pot}
	}
	l.Bet = amount
	return nil
}

// Settle applies the round outcome to the pot: the bet is added on a win,
// subtracted on a loss and left alone on a tie. No clamping is applied; bets
// are bounded by the pot at placement time.
func (l *Ledger) Settle(outcome Outcome) {
	switch outcome {
	case OutcomePlayerWins:
		l.Pot += l.Bet
	case OutcomePlayerLoses:
		l.Pot -= l.Bet
	}
}

func (l *Ledger) resetBet() {
	l.Bet = 0
}
