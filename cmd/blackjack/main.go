// Command blackjack plays a single-player game against the dealer in the
// terminal, driving the engine the same way the server gateway does: one
// action per prompt, state carried between them.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"blackjack-lite/blackjack"
	"blackjack-lite/card"
)

func main() {
	in := bufio.NewScanner(os.Stdin)

	fmt.Print("Your name: ")
	name := readLine(in)
	if name == "" {
		name = "Player"
	}

	g, err := blackjack.NewGame(blackjack.Config{InitialPot: blackjack.InitialPotAmount})
	if err != nil {
		fmt.Fprintf(os.Stderr, "start game: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Welcome %s. Pot: %d\n", name, g.Pot())

	for {
		switch g.Phase() {
		case blackjack.PhaseTypeBetting:
			if !runBetting(in, g) {
				return
			}
		case blackjack.PhaseTypePlayerTurn:
			printHands(g)
			if !runPlayerTurn(in, g) {
				return
			}
		case blackjack.PhaseTypeDealerTurn:
			runDealerTurn(g)
		case blackjack.PhaseTypeDealerDraw:
			fmt.Printf("Dealer shows %d and must hit.\n", g.DealerTotal())
			if _, _, err := g.DealerHit(); err != nil {
				fmt.Fprintf(os.Stderr, "dealer hit: %v\n", err)
				return
			}
		case blackjack.PhaseTypeCompare:
			if _, err := g.Compare(); err != nil {
				fmt.Fprintf(os.Stderr, "compare: %v\n", err)
				return
			}
		case blackjack.PhaseTypeSettled:
			printSettlement(name, g)
			if g.GameOver() {
				fmt.Println("You are out of chips. Game over.")
				return
			}
			if !askYes(in, "Play another round? [y/n] ") {
				fmt.Printf("Thanks for playing, %s. Final pot: %d\n", name, g.Pot())
				return
			}
			if err := g.Restart(); err != nil {
				fmt.Fprintf(os.Stderr, "restart: %v\n", err)
				return
			}
		}
	}
}

func runBetting(in *bufio.Scanner, g *blackjack.Game) bool {
	for {
		fmt.Printf("Pot: %d. Your bet: ", g.Pot())
		raw := readLine(in)
		if raw == "" {
			return false
		}
		amount, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Println("Enter a number.")
			continue
		}
		if err := g.PlaceBet(amount); err != nil {
			fmt.Printf("Bet rejected: %v\n", err)
			continue
		}
		if err := g.Deal(); err != nil {
			fmt.Fprintf(os.Stderr, "deal: %v\n", err)
			return false
		}
		return true
	}
}

func runPlayerTurn(in *bufio.Scanner, g *blackjack.Game) bool {
	for {
		fmt.Print("[h]it or [s]tay? ")
		switch strings.ToLower(readLine(in)) {
		case "h", "hit":
			if _, err := g.PlayerHit(); err != nil {
				fmt.Fprintf(os.Stderr, "hit: %v\n", err)
				return false
			}
			return true
		case "s", "stay":
			if err := g.PlayerStay(); err != nil {
				fmt.Fprintf(os.Stderr, "stay: %v\n", err)
				return false
			}
			return true
		case "":
			return false
		default:
			fmt.Println("Unknown action.")
		}
	}
}

func runDealerTurn(g *blackjack.Game) {
	if _, _, err := g.DealerAdvance(); err != nil {
		fmt.Fprintf(os.Stderr, "dealer advance: %v\n", err)
		os.Exit(1)
	}
}

func printHands(g *blackjack.Game) {
	fmt.Printf("Dealer: %s (%d)\n", handString(g.DealerCards()), g.DealerTotal())
	fmt.Printf("You:    %s (%d)\n", handString(g.PlayerCards()), g.PlayerTotal())
}

func printSettlement(name string, g *blackjack.Game) {
	printHands(g)
	switch g.Outcome() {
	case blackjack.OutcomePlayerWins:
		fmt.Printf("%s wins! %s. Pot: %d\n", name, g.Message(), g.Pot())
	case blackjack.OutcomePlayerLoses:
		fmt.Printf("%s loses. %s. Pot: %d\n", name, g.Message(), g.Pot())
	case blackjack.OutcomeTie:
		fmt.Printf("It's a tie! %s. Pot: %d\n", g.Message(), g.Pot())
	}
}

func handString(cards []card.Card) string {
	tokens := make([]string, len(cards))
	for i, c := range cards {
		tokens[i] = c.String()
	}
	return strings.Join(tokens, " ")
}

func askYes(in *bufio.Scanner, prompt string) bool {
	fmt.Print(prompt)
	answer := strings.ToLower(readLine(in))
	return answer == "y" || answer == "yes"
}

func readLine(in *bufio.Scanner) string {
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}
