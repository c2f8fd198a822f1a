package session

import (
	"context"
	"errors"
	"log"
	"sync"

	"blackjack-lite/apps/server/internal/store"
	"blackjack-lite/blackjack"
)

type Config struct {
	InitialPot int
	Seed       int64 // 0 means time-seeded
}

// Manager hands out one live session per account. A new connection for the
// same account replaces the previous session; the replaced actor drains out
// and the state survives in the store.
type Manager struct {
	mu       sync.Mutex
	cfg      Config
	store    store.Service
	sessions map[uint64]*Session
}

func NewManager(storeService store.Service) *Manager {
	return NewManagerWithConfig(storeService, Config{InitialPot: blackjack.InitialPotAmount})
}

func NewManagerWithConfig(storeService store.Service, cfg Config) *Manager {
	if cfg.InitialPot <= 0 {
		cfg.InitialPot = blackjack.InitialPotAmount
	}
	return &Manager{
		cfg:      cfg,
		store:    storeService,
		sessions: make(map[uint64]*Session),
	}
}

func (m *Manager) Attach(accountID uint64, name string, push func([]byte)) (*Session, error) {
	cfg := blackjack.Config{InitialPot: m.cfg.InitialPot, Seed: m.cfg.Seed}
	game, err := m.loadGame(accountID, cfg)
	if err != nil {
		return nil, err
	}

	s := newSession(accountID, name, cfg, game, m.store, push)

	m.mu.Lock()
	if existing := m.sessions[accountID]; existing != nil {
		existing.Close()
	}
	m.sessions[accountID] = s
	m.mu.Unlock()

	go s.run()
	return s, nil
}

// Detach closes the session if it is still the account's current one.
func (m *Manager) Detach(accountID uint64, s *Session) {
	m.mu.Lock()
	if m.sessions[accountID] == s {
		delete(m.sessions, accountID)
	}
	m.mu.Unlock()
	s.Close()
}

func (m *Manager) loadGame(accountID uint64, cfg blackjack.Config) (*blackjack.Game, error) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	blob, err := m.store.LoadState(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return blackjack.NewGame(cfg)
		}
		return nil, err
	}

	snap, err := blackjack.DecodeSnapshot(blob)
	if err == nil {
		game, restoreErr := blackjack.RestoreGame(cfg, snap)
		if restoreErr == nil {
			return game, nil
		}
		err = restoreErr
	}

	// Unreadable saved state means a fresh table, not a dead account.
	log.Printf("[Session] discarding saved state: account=%d err=%v", accountID, err)
	clearCtx, clearCancel := context.WithTimeout(context.Background(), persistTimeout)
	defer clearCancel()
	if err := m.store.ClearState(clearCtx, accountID); err != nil {
		log.Printf("[Session] clear saved state failed: account=%d err=%v", accountID, err)
	}
	return blackjack.NewGame(cfg)
}

// CloseAll shuts every live session down, for server shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		s.Close()
	}
	m.sessions = make(map[uint64]*Session)
}
