package blackjack

import (
	"strconv"

	"blackjack-lite/card"
)

// CardDisplayKey returns the image lookup token for a card, e.g. "hearts_ace"
// or "clubs_10". The UI resolves it to /images/cards/<key>.jpg.
func CardDisplayKey(c card.Card) string {
	var rank string
	switch r := c.Rank(); r {
	case 1:
		rank = "ace"
	case 11:
		rank = "jack"
	case 12:
		rank = "queen"
	case 13:
		rank = "king"
	default:
		rank = strconv.Itoa(int(r))
	}
	return c.Suit().String() + "_" + rank
}
