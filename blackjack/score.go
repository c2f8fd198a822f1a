package blackjack

import "blackjack-lite/card"

// Score computes the blackjack total of a hand: face cards count 10, aces
// count 11 and are downgraded to 1 one at a time while the total is over 21.
// The result is the best total <= 21 the hand can make, or the minimal bust
// total when even all-aces-low busts.
func Score(cards []card.Card) int {
	total := 0
	aces := 0
	for _, c := range cards {
		total += c.BlackjackValue()
		if c.IsAce() {
			aces++
		}
	}

	for total > BlackjackAmount && aces > 0 {
		total -= 10
		aces--
	}

	return total
}
