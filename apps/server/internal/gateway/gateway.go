package gateway

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"blackjack-lite/apps/server/internal/auth"
	"blackjack-lite/apps/server/internal/codec"
	"blackjack-lite/apps/server/internal/session"
	"blackjack-lite/blackjack"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: Restrict in production
	},
}

// Connection represents a WebSocket client connection
type Connection struct {
	ID        string
	AccountID uint64
	Name      string
	Conn      *websocket.Conn
	Send      chan []byte
	Gateway   *Gateway
	Session   *session.Session
	LastPing  time.Time
}

// Gateway manages WebSocket connections
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	nextConnID  uint64
	sessions    *session.Manager
	auth        auth.Service
}

// New creates a new Gateway instance
func New(sessions *session.Manager, authService auth.Service) *Gateway {
	return &Gateway{
		connections: make(map[string]*Connection),
		sessions:    sessions,
		auth:        authService,
	}
}

// HandleWebSocket authenticates the token, upgrades the connection and binds
// it to the visitor's session actor.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	accountID, name, ok := g.auth.ResolveSession(token)
	if !ok {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] Upgrade error: %v", err)
		return
	}

	g.mu.Lock()
	g.nextConnID++
	connID := fmt.Sprintf("conn_%d", g.nextConnID)

	c := &Connection{
		ID:        connID,
		AccountID: accountID,
		Name:      name,
		Conn:      conn,
		Send:      make(chan []byte, 256),
		Gateway:   g,
		LastPing:  time.Now(),
	}
	g.connections[connID] = c
	g.mu.Unlock()

	sess, err := g.sessions.Attach(accountID, name, c.pushFrame)
	if err != nil {
		log.Printf("[Gateway] Attach session failed: account=%d err=%v", accountID, err)
		g.removeConnection(c)
		conn.Close()
		return
	}
	c.Session = sess

	log.Printf("[Gateway] Client connected: %s (account=%d name=%s), total: %d", connID, accountID, name, g.connectionCount())

	go c.readPump()
	go c.writePump()

	// Initial state so the client can render immediately.
	if err := sess.Submit(session.Event{Type: session.EventQuery}); err != nil {
		log.Printf("[Gateway] Initial state push failed: account=%d err=%v", accountID, err)
	}
}

func (g *Gateway) connectionCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.connections)
}

func (c *Connection) pushFrame(data []byte) {
	select {
	case c.Send <- data:
	default:
		// Drop if buffer full
	}
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(65536)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.LastPing = time.Now()
		return nil
	})

	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Gateway] Read error: %v", err)
			}
			break
		}

		if messageType == websocket.TextMessage {
			c.handleMessage(message)
		}
	}
}

func (c *Connection) handleMessage(data []byte) {
	env, err := codec.DecodeClientEnvelope(data)
	if err != nil {
		log.Printf("[Gateway] Failed to decode: %v", err)
		c.sendError(codec.ErrCodeBadRequest, "invalid message format")
		return
	}

	e, ok := eventFromAction(env)
	if !ok {
		c.sendError(codec.ErrCodeBadRequest, fmt.Sprintf("unknown action %q", env.Action))
		return
	}

	if err := c.Session.Submit(e); err != nil {
		c.sendError(errorCode(err), err.Error())
	}
}

func eventFromAction(env codec.ClientEnvelope) (session.Event, bool) {
	switch env.Action {
	case "STATE":
		return session.Event{Type: session.EventQuery}, true
	case "BET":
		return session.Event{Type: session.EventPlaceBet, Amount: env.Amount}, true
	case "DEAL":
		return session.Event{Type: session.EventDeal}, true
	case "HIT":
		return session.Event{Type: session.EventHit}, true
	case "STAY":
		return session.Event{Type: session.EventStay}, true
	case "DEALER_ADVANCE":
		return session.Event{Type: session.EventDealerAdvance}, true
	case "DEALER_HIT":
		return session.Event{Type: session.EventDealerHit}, true
	case "COMPARE":
		return session.Event{Type: session.EventCompare}, true
	case "RESTART":
		return session.Event{Type: session.EventRestart}, true
	case "NEW_GAME":
		return session.Event{Type: session.EventNewGame}, true
	default:
		return session.Event{}, false
	}
}

func errorCode(err error) int {
	var betErr *blackjack.InvalidBetError
	if errors.As(err, &betErr) {
		return codec.ErrCodeInvalidBet
	}
	var transitionErr *blackjack.IllegalTransitionError
	if errors.As(err, &transitionErr) {
		return codec.ErrCodeIllegalAction
	}
	return codec.ErrCodeInternal
}

func (c *Connection) sendError(code int, msg string) {
	c.pushFrame(codec.EncodeError(code, msg))
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	delete(g.connections, c.ID)
	total := len(g.connections)
	g.mu.Unlock()

	if c.Session != nil {
		g.sessions.Detach(c.AccountID, c.Session)
	}
	log.Printf("[Gateway] Client disconnected: %s, total: %d", c.ID, total)
}
