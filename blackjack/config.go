package blackjack

import "fmt"

type Config struct {
	// Starting pot for a fresh visitor session.
	InitialPot int

	// RNG seed (0 => time-based)
	Seed int64
}

func (c Config) validate() error {
	if c.InitialPot <= 0 {
		return fmt.Errorf("InitialPot must be > 0")
	}
	return nil
}
