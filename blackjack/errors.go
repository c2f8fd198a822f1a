package blackjack

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyDeck = errors.New("deck is empty")
	ErrNoBet     = errors.New("no bet placed")
)

// InvalidBetError rejects a bet that is non-positive or exceeds the pot.
// Recoverable: the caller re-prompts for a new amount.
type InvalidBetError struct {
	Amount int
	Pot    int
}

func (e *InvalidBetError) Error() string {
	return fmt.Sprintf("invalid bet %d (pot %d)", e.Amount, e.Pot)
}

// IllegalTransitionError rejects an action that is not legal in the current
// phase. The round state is left untouched.
type IllegalTransitionError struct {
	Action ActionType
	Phase  Phase
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("action %s not allowed in phase %s",
		ActionTypeDictionary[e.Action], PhaseTypeDictionary[e.Phase])
}

type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid state: " + string(e) }

func ErrInvalidState(msg string) error { return InvalidStateError(msg) }
