package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestSQLiteManager(t *testing.T) *SQLiteManager {
	t.Helper()
	m, err := NewSQLiteManager(":memory:", time.Hour)
	if err != nil {
		t.Fatalf("open sqlite manager: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestSQLiteRegisterLoginResolve(t *testing.T) {
	m := newTestSQLiteManager(t)

	accountID, token, err := m.Register("bob_02", "secret12")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if accountID == 0 || token == "" {
		t.Fatalf("expected account id and token, got %d %q", accountID, token)
	}

	resolvedID, name, ok := m.ResolveSession(token)
	if !ok {
		t.Fatalf("expected valid session")
	}
	if resolvedID != accountID || name != "bob_02" {
		t.Fatalf("resolve = (%d, %q), want (%d, bob_02)", resolvedID, name, accountID)
	}

	if _, _, err := m.Register("BOB_02", "secret12"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if _, _, err := m.Login("bob_02", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	loginID, loginToken, err := m.Login("bob_02", "secret12")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if loginID != accountID || loginToken == "" {
		t.Fatalf("expected same account after login")
	}
}

func TestSQLiteGuestSession(t *testing.T) {
	m := newTestSQLiteManager(t)

	accountID, token, err := m.StartGuest("Visitor")
	if err != nil {
		t.Fatalf("guest session failed: %v", err)
	}

	resolvedID, name, ok := m.ResolveSession(token)
	if !ok {
		t.Fatalf("expected valid guest session")
	}
	if resolvedID != accountID || name != "Visitor" {
		t.Fatalf("resolve = (%d, %q), want (%d, Visitor)", resolvedID, name, accountID)
	}

	if _, _, err := m.StartGuest(""); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}

	m.Logout(token)
	if _, _, ok := m.ResolveSession(token); ok {
		t.Fatalf("expected revoked token to be invalid")
	}
}
