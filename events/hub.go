// Package events fans audit messages out to websocket subscribers. The feed
// carries prediction, manual-review, and model-update events consumed by the
// live audit page.
package events

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event names on the wire.
const (
	EventNewPrediction = "new_prediction"
	EventManualReview  = "manual_review"
	EventModelUpdate   = "model_update"
)

// Verdict labels attached to predictions.
const (
	VerdictApproved = "approved"
	VerdictFlagged  = "flagged"
)

// ApprovalThreshold is the confidence (0-1) at or above which a prediction is
// approved rather than flagged.
const ApprovalThreshold = 0.80

// Message is one audit feed entry. Unused fields are omitted per event kind.
type Message struct {
	Event      string  `json:"event"`
	Confidence float64 `json:"confidence,omitempty"`
	Verdict    string  `json:"verdict,omitempty"`
	Reviewer   string  `json:"reviewer,omitempty"`
	Msg        string  `json:"msg,omitempty"`
}

// NewPrediction builds a prediction event; confidence is on the 0-1 scale.
func NewPrediction(confidence float64) Message {
	return Message{Event: EventNewPrediction, Confidence: confidence, Verdict: VerdictFor(confidence)}
}

// ManualReview builds a reviewer note event.
func ManualReview(reviewer, note string) Message {
	return Message{Event: EventManualReview, Reviewer: reviewer, Msg: note}
}

// ModelUpdate builds a model lifecycle event.
func ModelUpdate(msg string) Message {
	return Message{Event: EventModelUpdate, Msg: msg}
}

// VerdictFor maps a 0-1 confidence onto the binary verdict.
func VerdictFor(confidence float64) string {
	if confidence >= ApprovalThreshold {
		return VerdictApproved
	}
	return VerdictFlagged
}

const (
	writeWait      = 10 * time.Second
	clientBufSize  = 16
	maxMessageSize = 4096
)

// Hub tracks subscribers and broadcasts messages to each. Slow clients are
// dropped rather than allowed to stall the feed.
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan Message
	log        *zap.SugaredLogger
}

type client struct {
	conn *websocket.Conn
	send chan Message
}

// NewHub builds a hub; call Run before serving connections.
func NewHub(log *zap.SugaredLogger) *Hub {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan Message, 64),
		log:        log,
	}
}

// Run owns the subscriber set until stop closes.
func (h *Hub) Run(stop <-chan struct{}) {
	clients := map[*client]struct{}{}
	for {
		select {
		case <-stop:
			for c := range clients {
				close(c.send)
			}
			return
		case c := <-h.register:
			clients[c] = struct{}{}
		case c := <-h.unregister:
			if _, ok := clients[c]; ok {
				delete(clients, c)
				close(c.send)
			}
		case msg := <-h.broadcast:
			for c := range clients {
				select {
				case c.send <- msg:
				default:
					// Client is not keeping up; cut it loose.
					delete(clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Broadcast queues a message for every subscriber. It never blocks the
// caller; the feed is best-effort.
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warnw("audit feed backlogged, dropping event", "event", msg.Event)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard page may be served from another origin in development.
	CheckOrigin: func(*http.Request) bool { return true },
}

// ServeWS upgrades the request and subscribes the connection to the feed.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "err", err)
		return
	}
	c := &client{conn: conn, send: make(chan Message, clientBufSize)}
	h.register <- c
	go c.writePump()
	go c.readPump(h)
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
}

// readPump discards inbound frames; the feed is one-way. Reading is still
// required to notice closed connections.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
