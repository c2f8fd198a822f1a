// Package codec defines the JSON wire format between the gateway and clients,
// and projects engine state into the client-facing view.
package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"blackjack-lite/blackjack"
	"blackjack-lite/card"
)

// CardView carries both the compact card token and the image key the web
// client uses to pick an asset.
type CardView struct {
	Code     string `json:"code"`
	ImageKey string `json:"imageKey"`
}

// GameView is the full table state pushed to a client after every action.
type GameView struct {
	Name         string     `json:"name"`
	Phase        string     `json:"phase"`
	Turn         string     `json:"turn"`
	Pot          int        `json:"pot"`
	Bet          int        `json:"bet"`
	PlayerCards  []CardView `json:"playerCards"`
	DealerCards  []CardView `json:"dealerCards"`
	PlayerTotal  int        `json:"playerTotal"`
	DealerTotal  int        `json:"dealerTotal"`
	LegalActions []string   `json:"legalActions"`
	Outcome      string     `json:"outcome,omitempty"`
	Banner       string     `json:"banner,omitempty"`
	GameOver     bool       `json:"gameOver"`
}

type ClientEnvelope struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

type ServerEnvelope struct {
	Type       string     `json:"type"`
	ServerTsMs int64      `json:"serverTsMs"`
	State      *GameView  `json:"state,omitempty"`
	Error      *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error codes carried on the wire.
const (
	ErrCodeBadRequest    = 1
	ErrCodeInvalidBet    = 2
	ErrCodeIllegalAction = 3
	ErrCodeInternal      = 4
)

// GameViewFrom projects the engine state for one visitor. The engine keeps
// its messages name-free; the visitor's name is stitched in here.
func GameViewFrom(name string, g *blackjack.Game) GameView {
	actions := g.LegalActions()
	actionNames := make([]string, len(actions))
	for i, a := range actions {
		actionNames[i] = blackjack.ActionTypeDictionary[a]
	}

	return GameView{
		Name:         name,
		Phase:        blackjack.PhaseTypeDictionary[g.Phase()],
		Turn:         blackjack.TurnDictionary[g.Turn()],
		Pot:          g.Pot(),
		Bet:          g.Bet(),
		PlayerCards:  cardViews(g.PlayerCards()),
		DealerCards:  cardViews(g.DealerCards()),
		PlayerTotal:  g.PlayerTotal(),
		DealerTotal:  g.DealerTotal(),
		LegalActions: actionNames,
		Outcome:      blackjack.OutcomeDictionary[g.Outcome()],
		Banner:       Banner(name, g.Outcome(), g.Message()),
		GameOver:     g.GameOver(),
	}
}

// Banner formats the settlement line shown to the visitor.
func Banner(name string, outcome blackjack.Outcome, message string) string {
	switch outcome {
	case blackjack.OutcomePlayerWins:
		return fmt.Sprintf("%s wins! %s.", name, message)
	case blackjack.OutcomePlayerLoses:
		return fmt.Sprintf("%s loses. %s.", name, message)
	case blackjack.OutcomeTie:
		return fmt.Sprintf("It's a tie! %s.", message)
	default:
		return ""
	}
}

func cardViews(cards []card.Card) []CardView {
	views := make([]CardView, len(cards))
	for i, c := range cards {
		views[i] = CardView{
			Code:     c.String(),
			ImageKey: blackjack.CardDisplayKey(c),
		}
	}
	return views
}

func EncodeState(view GameView) ([]byte, error) {
	return json.Marshal(ServerEnvelope{
		Type:       "state",
		ServerTsMs: time.Now().UnixMilli(),
		State:      &view,
	})
}

// EncodeError never fails; a marshal error here would mean a broken build.
func EncodeError(code int, message string) []byte {
	data, err := json.Marshal(ServerEnvelope{
		Type:       "error",
		ServerTsMs: time.Now().UnixMilli(),
		Error:      &ErrorBody{Code: code, Message: message},
	})
	if err != nil {
		panic(err)
	}
	return data
}

func DecodeClientEnvelope(data []byte) (ClientEnvelope, error) {
	var env ClientEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return ClientEnvelope{}, err
	}
	return env, nil
}
