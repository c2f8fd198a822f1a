package blackjack

import (
	"errors"
	"testing"
)

func TestLedger_PlaceBet(t *testing.T) {
	tests := []struct {
		name    string
		pot     int
		amount  int
		wantErr bool
	}{
		{name: "bet over pot", pot: 100, amount: 150, wantErr: true},
		{name: "zero bet", pot: 100, amount: 0, wantErr: true},
		{name: "negative bet", pot: 100, amount: -5, wantErr: true},
		{name: "valid bet", pot: 100, amount: 50},
		{name: "all in", pot: 100, amount: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Ledger{Pot: tt.pot}
			err := l.PlaceBet(tt.amount)
			if tt.wantErr {
				var betErr *InvalidBetError
				if !errors.As(err, &betErr) {
					t.Fatalf("expected InvalidBetError, got %v", err)
				}
				if l.Bet != 0 {
					t.Fatalf("rejected bet must not stick, got %d", l.Bet)
				}
				return
			}
			if err != nil {
				t.Fatalf("PlaceBet err: %v", err)
			}
			if l.Bet != tt.amount {
				t.Fatalf("Bet = %d, want %d", l.Bet, tt.amount)
			}
			if l.Pot != tt.pot {
				t.Fatalf("pot must not change at placement, got %d", l.Pot)
			}
		})
	}
}

func TestLedger_Settle(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		wantPot int
	}{
		{name: "win adds bet", outcome: OutcomePlayerWins, wantPot: 150},
		{name: "loss subtracts bet", outcome: OutcomePlayerLoses, wantPot: 50},
		{name: "tie leaves pot", outcome: OutcomeTie, wantPot: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Ledger{Pot: 100, Bet: 50}
			l.Settle(tt.outcome)
			if l.Pot != tt.wantPot {
				t.Fatalf("pot = %d, want %d", l.Pot, tt.wantPot)
			}
		})
	}
}
