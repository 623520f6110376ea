// Package gateway fans candidate change events out to websocket clients and
// answers their read requests over the same connection.
package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"rollcall/internal/candidate/event"
	"rollcall/internal/candidate/models"
	"rollcall/internal/gateway/metrics"
)

const (
	defaultSendBuffer   = 64
	defaultWriteTimeout = 5 * time.Second
	defaultPingInterval = 25 * time.Second
)

// Service is the read surface the gateway queries on behalf of clients.
type Service interface {
	List(ctx context.Context) []models.Candidate
	GetByID(ctx context.Context, id int64) (*models.Candidate, error)
	Search(ctx context.Context, query string) []models.Candidate
	Stats(ctx context.Context) []models.CandidateStats
}

type Gateway struct {
	service      Service
	logger       *slog.Logger
	metrics      *metrics.Metrics
	sendBuffer   int
	writeTimeout time.Duration
	pingInterval time.Duration

	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[*conn]struct{}
}

type Option func(*Gateway)

func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// WithSendBuffer sets the per-connection outbound queue length. A client that
// falls this many messages behind is dropped.
func WithSendBuffer(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.sendBuffer = n
		}
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.writeTimeout = d
		}
	}
}

func WithPingInterval(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.pingInterval = d
		}
	}
}

func New(service Service, opts ...Option) *Gateway {
	g := &Gateway{
		service:      service,
		logger:       slog.Default(),
		sendBuffer:   defaultSendBuffer,
		writeTimeout: defaultWriteTimeout,
		pingInterval: defaultPingInterval,
		conns:        make(map[*conn]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     func(*http.Request) bool { return true },
	}
	return g
}

// HandleWS upgrades the request and serves the connection until the client
// goes away. Registration and the snapshot read happen under the same lock
// broadcasts take: a mutation committed before this point is in the snapshot,
// a later one blocks in HandleEvent until the connection is registered. The
// snapshot frames are therefore always first and never stale.
func (g *Gateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	sock, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newConn(sock, g.sendBuffer)

	g.mu.Lock()
	g.conns[c] = struct{}{}
	g.enqueueLocked(c, Frame{Event: EventCandidatesList, Data: g.service.List(r.Context())})
	g.enqueueLocked(c, Frame{Event: EventStatsData, Data: g.service.Stats(r.Context())})
	g.mu.Unlock()

	if g.metrics != nil {
		g.metrics.ConnectionsActive.Inc()
	}
	g.logger.Info("client connected", "conn_id", c.id)

	go c.writePump(g.writeTimeout, g.pingInterval)
	g.readPump(c)
}

// HandleEvent is the bus subscriber. It marshals each event once and fans the
// bytes out to every connection; enqueue order follows publish order.
func (g *Gateway) HandleEvent(ev event.Event) {
	var frame Frame
	switch ev.Kind {
	case event.KindCreated:
		frame = Frame{Event: EventCandidateCreated, Data: ev.Candidate}
	case event.KindUpdated:
		frame = Frame{Event: EventCandidateUpdated, Data: ev.Candidate}
	case event.KindDeleted:
		frame = Frame{Event: EventCandidateDeleted, Data: ev.Candidate}
	case event.KindListChanged:
		frame = Frame{Event: EventCandidatesUpdate, Data: ev.Candidates}
	case event.KindStatsChanged:
		frame = Frame{Event: EventStatsUpdate, Data: ev.Stats}
	default:
		g.logger.Warn("unhandled event kind", "kind", ev.Kind)
		return
	}

	msg, err := json.Marshal(frame)
	if err != nil {
		g.logger.Error("marshal broadcast frame", "event", frame.Event, "error", err)
		return
	}

	g.mu.RLock()
	for c := range g.conns {
		select {
		case c.send <- msg:
		default:
			go g.drop(c, "send buffer full")
		}
	}
	g.mu.RUnlock()

	if g.metrics != nil {
		g.metrics.EventsBroadcast.Inc()
	}
}

// ConnectionCount reports how many clients are currently registered.
func (g *Gateway) ConnectionCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.conns)
}

// enqueueLocked is used during registration, before the conn can receive
// broadcasts; the send buffer cannot be full yet unless it was sized absurdly
// small, in which case the frame is skipped rather than blocking under the
// gateway lock.
func (g *Gateway) enqueueLocked(c *conn, frame Frame) {
	msg, err := json.Marshal(frame)
	if err != nil {
		g.logger.Error("marshal snapshot frame", "event", frame.Event, "error", err)
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

func (g *Gateway) readPump(c *conn) {
	defer g.drop(c, "read loop exited")

	c.sock.SetReadLimit(1 << 16)
	_ = c.sock.SetReadDeadline(time.Now().Add(2 * g.pingInterval))
	c.sock.SetPongHandler(func(string) error {
		return c.sock.SetReadDeadline(time.Now().Add(2 * g.pingInterval))
	})

	for {
		_, msg, err := c.sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				g.logger.Warn("client read failed", "conn_id", c.id, "error", err)
			}
			return
		}
		_ = c.sock.SetReadDeadline(time.Now().Add(2 * g.pingInterval))
		g.handleRequest(c, msg)
	}
}

// handleRequest answers a client request on the requesting connection only.
// A malformed or unknown frame yields an error frame, never a disconnect.
func (g *Gateway) handleRequest(c *conn, msg []byte) {
	if g.metrics != nil {
		g.metrics.ClientRequests.Inc()
	}

	var req requestFrame
	if err := json.Unmarshal(msg, &req); err != nil {
		g.reply(c, Frame{Event: EventError, Data: "malformed request"})
		return
	}

	ctx := context.Background()

	switch req.Event {
	case RequestGetAll:
		g.reply(c, Frame{Event: EventCandidatesList, Data: g.service.List(ctx)})

	case RequestGetStats:
		g.reply(c, Frame{Event: EventStatsData, Data: g.service.Stats(ctx)})

	case RequestGetByID:
		var id int64
		if err := json.Unmarshal(req.Data, &id); err != nil {
			g.reply(c, Frame{Event: EventError, Data: "candidate id must be a number"})
			return
		}
		candidate, err := g.service.GetByID(ctx, id)
		if err != nil {
			g.reply(c, Frame{Event: EventError, Data: "failed to fetch candidate"})
			return
		}
		g.reply(c, Frame{Event: EventCandidateData, Data: candidate})

	case RequestSearch:
		var query string
		if err := json.Unmarshal(req.Data, &query); err != nil {
			g.reply(c, Frame{Event: EventError, Data: "search query must be a string"})
			return
		}
		g.reply(c, Frame{Event: EventSearchResults, Data: g.service.Search(ctx, query)})

	default:
		g.reply(c, Frame{Event: EventError, Data: "unknown event: " + sanitizeEvent(req.Event)})
	}
}

func (g *Gateway) reply(c *conn, frame Frame) {
	msg, err := json.Marshal(frame)
	if err != nil {
		g.logger.Error("marshal reply frame", "event", frame.Event, "error", err)
		return
	}
	select {
	case c.send <- msg:
	default:
		go g.drop(c, "send buffer full")
	}
}

// drop unregisters and closes a connection. Safe to call multiple times;
// only the call that removes the conn from the map records the drop.
func (g *Gateway) drop(c *conn, reason string) {
	g.mu.Lock()
	_, registered := g.conns[c]
	delete(g.conns, c)
	g.mu.Unlock()

	c.close()

	if !registered {
		return
	}
	if g.metrics != nil {
		g.metrics.ConnectionsActive.Dec()
		if reason == "send buffer full" {
			g.metrics.ConnectionsDropped.Inc()
		}
	}
	g.logger.Info("client disconnected", "conn_id", c.id, "reason", reason)
}

func sanitizeEvent(name string) string {
	name = strings.Map(func(r rune) rune {
		if r < 32 || r > 126 {
			return -1
		}
		return r
	}, name)
	if len(name) > 64 {
		name = name[:64]
	}
	return name
}
