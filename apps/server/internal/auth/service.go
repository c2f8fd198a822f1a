package auth

// Service is the identity/session contract consumed by the gateway and HTTP
// handlers. A visitor either registers a named account or starts as a guest
// with just a table name; both end up with a session token.
type Service interface {
	Register(username, password string) (accountID uint64, sessionToken string, err error)
	Login(username, password string) (accountID uint64, sessionToken string, err error)
	StartGuest(displayName string) (accountID uint64, sessionToken string, err error)
	ResolveSession(token string) (accountID uint64, displayName string, ok bool)
	Logout(token string)
	Close() error
}
