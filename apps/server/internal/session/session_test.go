package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"blackjack-lite/apps/server/internal/codec"
	"blackjack-lite/apps/server/internal/store"
	"blackjack-lite/blackjack"
)

type pushRecorder struct {
	mu     sync.Mutex
	frames [][]byte
}

func (r *pushRecorder) push(data []byte) {
	stored := make([]byte, len(data))
	copy(stored, data)
	r.mu.Lock()
	r.frames = append(r.frames, stored)
	r.mu.Unlock()
}

func (r *pushRecorder) lastState(t *testing.T) codec.GameView {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		t.Fatalf("no frames pushed")
	}
	var env codec.ServerEnvelope
	if err := json.Unmarshal(r.frames[len(r.frames)-1], &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Type != "state" || env.State == nil {
		t.Fatalf("expected state envelope, got %+v", env)
	}
	return *env.State
}

func TestSessionPlaysRoundAndPersists(t *testing.T) {
	memStore := store.NewMemoryService()
	manager := NewManagerWithConfig(memStore, Config{Seed: 7})

	recorder := &pushRecorder{}
	s, err := manager.Attach(11, "Alice", recorder.push)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	defer manager.Detach(11, s)

	if err := s.Submit(Event{Type: EventQuery}); err != nil {
		t.Fatalf("query: %v", err)
	}
	view := recorder.lastState(t)
	if view.Name != "Alice" || view.Phase != "betting" || view.Pot != blackjack.InitialPotAmount {
		t.Fatalf("unexpected opening view: %+v", view)
	}

	if err := s.Submit(Event{Type: EventPlaceBet, Amount: 100}); err != nil {
		t.Fatalf("bet: %v", err)
	}
	if err := s.Submit(Event{Type: EventDeal}); err != nil {
		t.Fatalf("deal: %v", err)
	}
	view = recorder.lastState(t)
	if view.Phase != "player_turn" || len(view.PlayerCards) != 2 || len(view.DealerCards) != 2 {
		t.Fatalf("unexpected post-deal view: %+v", view)
	}

	if err := s.Submit(Event{Type: EventStay}); err != nil {
		t.Fatalf("stay: %v", err)
	}

	for i := 0; i < 10; i++ {
		view = recorder.lastState(t)
		if view.Phase == "settled" {
			break
		}
		var e Event
		switch view.Phase {
		case "dealer_turn":
			e = Event{Type: EventDealerAdvance}
		case "dealer_draw":
			e = Event{Type: EventDealerHit}
		case "compare":
			e = Event{Type: EventCompare}
		default:
			t.Fatalf("unexpected phase %q", view.Phase)
		}
		if err := s.Submit(e); err != nil {
			t.Fatalf("dealer flow (%s): %v", view.Phase, err)
		}
	}

	view = recorder.lastState(t)
	if view.Phase != "settled" {
		t.Fatalf("round did not settle: %+v", view)
	}
	if view.Outcome == "" || view.Outcome == "none" {
		t.Fatalf("expected settled outcome, got %q", view.Outcome)
	}
	if view.Banner == "" {
		t.Fatalf("expected settlement banner")
	}
	switch view.Pot {
	case 400, 500, 600:
	default:
		t.Fatalf("pot %d is not a 100-chip settlement of 500", view.Pot)
	}

	blob, err := memStore.LoadState(context.Background(), 11)
	if err != nil {
		t.Fatalf("expected persisted state: %v", err)
	}
	if len(blob) == 0 {
		t.Fatalf("expected non-empty state blob")
	}

	rounds, err := memStore.ListRecent(context.Background(), 11, 10)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(rounds) != 1 {
		t.Fatalf("expected 1 recorded round, got %d", len(rounds))
	}
	if rounds[0].Bet != 100 || rounds[0].PotAfter != view.Pot {
		t.Fatalf("unexpected round record: %+v", rounds[0])
	}
}

func TestSessionRestoresStateAcrossAttach(t *testing.T) {
	memStore := store.NewMemoryService()
	manager := NewManagerWithConfig(memStore, Config{Seed: 7})

	recorder := &pushRecorder{}
	s, err := manager.Attach(21, "Bob", recorder.push)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := s.Submit(Event{Type: EventPlaceBet, Amount: 50}); err != nil {
		t.Fatalf("bet: %v", err)
	}
	if err := s.Submit(Event{Type: EventDeal}); err != nil {
		t.Fatalf("deal: %v", err)
	}
	dealt := recorder.lastState(t)
	manager.Detach(21, s)

	recorder2 := &pushRecorder{}
	s2, err := manager.Attach(21, "Bob", recorder2.push)
	if err != nil {
		t.Fatalf("reattach: %v", err)
	}
	defer manager.Detach(21, s2)
	if err := s2.Submit(Event{Type: EventQuery}); err != nil {
		t.Fatalf("query: %v", err)
	}
	restored := recorder2.lastState(t)
	if restored.Phase != "player_turn" || restored.Bet != 50 {
		t.Fatalf("expected mid-round restore, got %+v", restored)
	}
	if len(restored.PlayerCards) != len(dealt.PlayerCards) {
		t.Fatalf("restored hand differs: %+v vs %+v", restored.PlayerCards, dealt.PlayerCards)
	}
	for i := range restored.PlayerCards {
		if restored.PlayerCards[i] != dealt.PlayerCards[i] {
			t.Fatalf("restored card %d differs: %+v vs %+v", i, restored.PlayerCards[i], dealt.PlayerCards[i])
		}
	}
}

func TestSessionRejectsIllegalAction(t *testing.T) {
	memStore := store.NewMemoryService()
	manager := NewManager(memStore)

	recorder := &pushRecorder{}
	s, err := manager.Attach(31, "Carol", recorder.push)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	defer manager.Detach(31, s)

	err = s.Submit(Event{Type: EventHit})
	var transitionErr *blackjack.IllegalTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected IllegalTransitionError, got %v", err)
	}

	err = s.Submit(Event{Type: EventPlaceBet, Amount: 9999})
	var betErr *blackjack.InvalidBetError
	if !errors.As(err, &betErr) {
		t.Fatalf("expected InvalidBetError, got %v", err)
	}
}

func TestSessionNewGameRequiresEmptyPot(t *testing.T) {
	memStore := store.NewMemoryService()
	manager := NewManager(memStore)

	recorder := &pushRecorder{}
	s, err := manager.Attach(41, "Dave", recorder.push)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	defer manager.Detach(41, s)

	if err := s.Submit(Event{Type: EventNewGame}); !errors.Is(err, ErrChipsRemain) {
		t.Fatalf("expected ErrChipsRemain, got %v", err)
	}
}

func TestAttachReplacesExistingSession(t *testing.T) {
	memStore := store.NewMemoryService()
	manager := NewManager(memStore)

	first, err := manager.Attach(51, "Eve", nil)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	second, err := manager.Attach(51, "Eve", nil)
	if err != nil {
		t.Fatalf("second attach: %v", err)
	}
	defer manager.Detach(51, second)

	if err := first.Submit(Event{Type: EventQuery}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed from replaced session, got %v", err)
	}
}
