package blackjack

import "blackjack-lite/card"

// Game rule constants, carried over from the classic table rules.
const (
	BlackjackAmount  = 21
	DealerMinHit     = 17
	InitialPotAmount = 500
)

// Phase 游戏阶段 — the single source of truth for which actions are legal.
type Phase byte

const (
	PhaseTypeBetting    Phase = 0
	PhaseTypePlayerTurn Phase = 1
	PhaseTypeDealerTurn Phase = 2
	PhaseTypeDealerDraw Phase = 3
	PhaseTypeCompare    Phase = 4
	PhaseTypeSettled    Phase = 5
)

var PhaseTypeDictionary = map[Phase]string{
	PhaseTypeBetting:    "betting",
	PhaseTypePlayerTurn: "player_turn",
	PhaseTypeDealerTurn: "dealer_turn",
	PhaseTypeDealerDraw: "dealer_draw",
	PhaseTypeCompare:    "compare",
	PhaseTypeSettled:    "settled",
}

type Turn byte

const (
	TurnNone   Turn = 0
	TurnPlayer Turn = 1
	TurnDealer Turn = 2
)

var TurnDictionary = map[Turn]string{
	TurnNone:   "none",
	TurnPlayer: "player",
	TurnDealer: "dealer",
}

// Outcome of a settled round, from the player's point of view.
type Outcome byte

const (
	OutcomeNone        Outcome = 0
	OutcomePlayerWins  Outcome = 1
	OutcomePlayerLoses Outcome = 2
	OutcomeTie         Outcome = 3
)

var OutcomeDictionary = map[Outcome]string{
	OutcomeNone:        "none",
	OutcomePlayerWins:  "player_wins",
	OutcomePlayerLoses: "player_loses",
	OutcomeTie:         "tie",
}

// ActionType 动作类型：0-NONE 1-BET 2-DEAL 3-HIT 4-STAY 5-DEALER_ADVANCE 6-DEALER_HIT 7-COMPARE 8-RESTART
type ActionType byte

const (
	ActionTypeNone          ActionType = 0
	ActionTypeBet           ActionType = 1
	ActionTypeDeal          ActionType = 2
	ActionTypeHit           ActionType = 3
	ActionTypeStay          ActionType = 4
	ActionTypeDealerAdvance ActionType = 5
	ActionTypeDealerHit     ActionType = 6
	ActionTypeCompare       ActionType = 7
	ActionTypeRestart       ActionType = 8
)

var ActionTypeDictionary = map[ActionType]string{
	ActionTypeNone:          "NONE",
	ActionTypeBet:           "BET",
	ActionTypeDeal:          "DEAL",
	ActionTypeHit:           "HIT",
	ActionTypeStay:          "STAY",
	ActionTypeDealerAdvance: "DEALER_ADVANCE",
	ActionTypeDealerHit:     "DEALER_HIT",
	ActionTypeCompare:       "COMPARE",
	ActionTypeRestart:       "RESTART",
}

// BlackjackCards is the 52-card universe dealt each round.
var BlackjackCards = []card.Card{
	card.CardHeartA, card.CardHeart2, card.CardHeart3, card.CardHeart4, card.CardHeart5, card.CardHeart6,
	card.CardHeart7, card.CardHeart8, card.CardHeart9, card.CardHeart10, card.CardHeartJ, card.CardHeartQ, card.CardHeartK,
	card.CardDiamondA, card.CardDiamond2, card.CardDiamond3, card.CardDiamond4, card.CardDiamond5, card.CardDiamond6,
	card.CardDiamond7, card.CardDiamond8, card.CardDiamond9, card.CardDiamond10, card.CardDiamondJ, card.CardDiamondQ, card.CardDiamondK,
	card.CardClubA, card.CardClub2, card.CardClub3, card.CardClub4, card.CardClub5, card.CardClub6,
	card.CardClub7, card.CardClub8, card.CardClub9, card.CardClub10, card.CardClubJ, card.CardClubQ, card.CardClubK,
	card.CardSpadeA, card.CardSpade2, card.CardSpade3, card.CardSpade4, card.CardSpade5, card.CardSpade6,
	card.CardSpade7, card.CardSpade8, card.CardSpade9, card.CardSpade10, card.CardSpadeJ, card.CardSpadeQ, card.CardSpadeK,
}
