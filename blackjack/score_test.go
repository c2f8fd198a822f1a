package blackjack

import (
	"testing"

	"blackjack-lite/card"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		hand []card.Card
		want int
	}{
		{name: "two aces and a nine", hand: []card.Card{card.CardHeartA, card.CardDiamondA, card.CardClub9}, want: 21},
		{name: "two face cards", hand: []card.Card{card.CardHeartK, card.CardDiamondQ}, want: 20},
		{name: "natural ace king", hand: []card.Card{card.CardHeartA, card.CardSpadeK}, want: 21},
		{name: "five six face", hand: []card.Card{card.CardHeart5, card.CardDiamond6, card.CardClubK}, want: 21},
		{name: "three aces two downgraded", hand: []card.Card{card.CardHeartA, card.CardDiamondA, card.CardClubA, card.CardSpade8}, want: 21},
		{name: "lone ace stays high", hand: []card.Card{card.CardHeartA}, want: 11},
		{name: "four aces all low", hand: []card.Card{card.CardHeartA, card.CardDiamondA, card.CardClubA, card.CardSpadeA, card.CardHeartK, card.CardDiamond9}, want: 23},
		{name: "plain bust keeps total", hand: []card.Card{card.CardHeartK, card.CardDiamondQ, card.CardSpade5}, want: 25},
		{name: "empty hand", hand: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.hand); got != tt.want {
				t.Fatalf("Score(%v) = %d, want %d", tt.hand, got, tt.want)
			}
		})
	}
}
