// Package session runs one actor goroutine per connected visitor. All game
// access is funneled through the event channel, so bet validation and
// settlement always see the same pot.
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"blackjack-lite/apps/server/internal/codec"
	"blackjack-lite/apps/server/internal/store"
	"blackjack-lite/blackjack"
)

const (
	eventQueueSize = 16
	persistTimeout = 3 * time.Second
)

var (
	ErrClosed      = errors.New("session closed")
	ErrChipsRemain = errors.New("chips remain, restart the round instead")
)

type EventType byte

const (
	EventQuery EventType = iota
	EventPlaceBet
	EventDeal
	EventHit
	EventStay
	EventDealerAdvance
	EventDealerHit
	EventCompare
	EventRestart
	EventNewGame
)

type Event struct {
	Type     EventType
	Amount   int
	Response chan error
}

// Session owns one visitor's game. Only the run goroutine touches the game.
type Session struct {
	AccountID uint64
	Name      string

	cfg   blackjack.Config
	game  *blackjack.Game
	store store.Service
	push  func([]byte)

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

func newSession(accountID uint64, name string, cfg blackjack.Config, game *blackjack.Game, storeService store.Service, push func([]byte)) *Session {
	return &Session{
		AccountID: accountID,
		Name:      name,
		cfg:       cfg,
		game:      game,
		store:     storeService,
		push:      push,
		events:    make(chan Event, eventQueueSize),
		done:      make(chan struct{}),
	}
}

// Submit queues one event and waits for the engine's verdict.
func (s *Session) Submit(e Event) error {
	if e.Response == nil {
		e.Response = make(chan error, 1)
	}
	select {
	case s.events <- e:
	case <-s.done:
		return ErrClosed
	}
	select {
	case err := <-e.Response:
		return err
	case <-s.done:
		return ErrClosed
	}
}

func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *Session) run() {
	for {
		select {
		case <-s.done:
			return
		case e := <-s.events:
			err := s.handleEvent(e)
			if e.Response != nil {
				e.Response <- err
			}
		}
	}
}

func (s *Session) handleEvent(e Event) error {
	if e.Type == EventQuery {
		s.pushState()
		return nil
	}

	settledBefore := s.game.Phase() == blackjack.PhaseTypeSettled

	var err error
	switch e.Type {
	case EventPlaceBet:
		err = s.game.PlaceBet(e.Amount)
	case EventDeal:
		err = s.game.Deal()
	case EventHit:
		_, err = s.game.PlayerHit()
	case EventStay:
		err = s.game.PlayerStay()
	case EventDealerAdvance:
		_, _, err = s.game.DealerAdvance()
	case EventDealerHit:
		_, _, err = s.game.DealerHit()
	case EventCompare:
		_, err = s.game.Compare()
	case EventRestart:
		err = s.game.Restart()
	case EventNewGame:
		err = s.replaceGame()
	default:
		err = blackjack.ErrInvalidState("unknown session event")
	}
	if err != nil {
		return err
	}

	if !settledBefore && s.game.Phase() == blackjack.PhaseTypeSettled {
		s.recordRound()
	}
	s.persist()
	s.pushState()
	return nil
}

// replaceGame starts over from the initial pot. Only legal once the visitor
// has lost every chip.
func (s *Session) replaceGame() error {
	if !s.game.GameOver() {
		return ErrChipsRemain
	}
	fresh, err := blackjack.NewGame(s.cfg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.store.ClearState(ctx, s.AccountID); err != nil {
		log.Printf("[Session] clear state failed: account=%d err=%v", s.AccountID, err)
	}
	s.game = fresh
	return nil
}

func (s *Session) recordRound() {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	rec := store.RoundRecord{
		PlayedAt:    time.Now().UTC(),
		Outcome:     blackjack.OutcomeDictionary[s.game.Outcome()],
		Message:     s.game.Message(),
		Bet:         s.game.Bet(),
		PotAfter:    s.game.Pot(),
		PlayerTotal: s.game.PlayerTotal(),
		DealerTotal: s.game.DealerTotal(),
	}
	if err := s.store.AppendRound(ctx, s.AccountID, rec); err != nil {
		log.Printf("[Session] append round failed: account=%d err=%v", s.AccountID, err)
	}
}

func (s *Session) persist() {
	blob, err := s.game.Snapshot().Encode()
	if err != nil {
		log.Printf("[Session] encode state failed: account=%d err=%v", s.AccountID, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.store.SaveState(ctx, s.AccountID, blob); err != nil {
		log.Printf("[Session] save state failed: account=%d err=%v", s.AccountID, err)
	}
}

func (s *Session) pushState() {
	if s.push == nil {
		return
	}
	data, err := codec.EncodeState(codec.GameViewFrom(s.Name, s.game))
	if err != nil {
		log.Printf("[Session] encode view failed: account=%d err=%v", s.AccountID, err)
		return
	}
	s.push(data)
}
