package card

import (
	"fmt"
	"strconv"
	"strings"
)

// Card encodes one playing card in a single byte:
// - high nibble: suit (0:Hearts, 1:Diamonds, 2:Clubs, 3:Spades)
// - low nibble: rank (1:A, 2..9, 10, 11:J, 12:Q, 13:K)
type Card byte

func (c Card) String() string {
	if c == CardInvalid {
		return "Invalid"
	}
	return fmt.Sprintf("%s%s", c.Suit().Letter(), c.rankToken())
}

// Rank returns the face rank 1-13 (A=1, K=13).
func (c Card) Rank() byte {
	if c == CardInvalid {
		return 0
	}
	return byte(c & 0x0F)
}

func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

func (c Card) IsAce() bool {
	return c.Rank() == 1
}

// BlackjackValue returns the provisional scoring value of the card:
// aces count 11 (downgraded later by the scorer), face cards 10.
func (c Card) BlackjackValue() int {
	r := int(c & 0x0F)
	switch {
	case r == 1:
		return 11
	case r > 10:
		return 10
	default:
		return r
	}
}

func (c Card) rankToken() string {
	switch r := c.Rank(); r {
	case 1:
		return "A"
	case 11:
		return "J"
	case 12:
		return "Q"
	case 13:
		return "K"
	default:
		return strconv.Itoa(int(r))
	}
}

// Parse converts a string such as "HA", "d10" or "SK" into a Card constant.
// The suit letter comes first, matching String output.
func Parse(cardStr string) (Card, error) {
	if len(cardStr) < 2 {
		return 0, fmt.Errorf("invalid card string: %s", cardStr)
	}

	var suitBase Card
	switch cardStr[0] {
	case 'h', 'H':
		suitBase = 0x00
	case 'd', 'D':
		suitBase = 0x10
	case 'c', 'C':
		suitBase = 0x20
	case 's', 'S':
		suitBase = 0x30
	default:
		return 0, fmt.Errorf("invalid suit: %c", cardStr[0])
	}

	var rankVal Card
	switch strings.ToUpper(cardStr[1:]) {
	case "A":
		rankVal = 0x01
	case "2", "3", "4", "5", "6", "7", "8", "9":
		rankVal = Card(cardStr[1] - '0')
	case "10", "T":
		rankVal = 0x0A
	case "J":
		rankVal = 0x0B
	case "Q":
		rankVal = 0x0C
	case "K":
		rankVal = 0x0D
	default:
		return 0, fmt.Errorf("invalid rank: %s", cardStr[1:])
	}

	return suitBase + rankVal, nil
}

// MarshalJSON encodes the card as its string token so serialized decks stay
// readable and survive re-encoding.
func (c Card) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, c.String()), nil
}

func (c *Card) UnmarshalJSON(data []byte) error {
	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
