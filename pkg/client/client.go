// Package client is the consumer-side adapter for a rollcall server. It keeps
// a local cache of candidates and stats, fed by the websocket push channel
// with a periodic HTTP pull as fallback, and reports connection health.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Candidate mirrors the server's candidate representation.
type Candidate struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Image          string    `json:"image"`
	PoliticalParty string    `json:"politicalParty"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// PartyStat is the per-party candidate count.
type PartyStat struct {
	Party string `json:"party"`
	Count int    `json:"count"`
}

// State describes the adapter's connection health.
type State string

const (
	// StateConnecting means no full snapshot has arrived yet.
	StateConnecting State = "connecting"
	// StateConnected means the cache reflects at least one full snapshot.
	StateConnected State = "connected"
	// StateDegraded means a data path failed after the cache was populated;
	// cached data stays visible.
	StateDegraded State = "degraded"
)

// Snapshot is a point-in-time copy of the adapter's view.
type Snapshot struct {
	State      State
	Candidates []Candidate
	Stats      []PartyStat
	LastError  string
	// LastUpdated is when a data path last delivered fresh state; zero until
	// the first snapshot arrives.
	LastUpdated time.Time
}

const (
	defaultPullInterval   = 30 * time.Second
	defaultReconnectDelay = 2 * time.Second
)

type Client struct {
	baseURL        string
	httpc          *http.Client
	logger         *slog.Logger
	pullInterval   time.Duration
	reconnectDelay time.Duration
	onChange       func(Snapshot)

	mu          sync.RWMutex
	state       State
	candidates  []Candidate
	stats       []PartyStat
	lastErr     string
	lastUpdated time.Time
	searching   bool

	runMu  sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type Option func(*Client)

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpc = hc }
}

func WithPullInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pullInterval = d
		}
	}
}

func WithReconnectDelay(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.reconnectDelay = d
		}
	}
}

// WithOnChange registers a callback invoked after every cache or state
// change, with a copy of the new view. Called from the adapter's internal
// goroutines; keep it fast.
func WithOnChange(fn func(Snapshot)) Option {
	return func(c *Client) { c.onChange = fn }
}

// New builds an adapter for the server at baseURL ("http://host:port").
// Call Start to begin syncing.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpc:          &http.Client{Timeout: 10 * time.Second},
		logger:         slog.Default(),
		pullInterval:   defaultPullInterval,
		reconnectDelay: defaultReconnectDelay,
		state:          StateConnecting,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start launches the push listener and the pull loop. Calling Start on a
// running client is a no-op.
func (c *Client) Start() {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	if c.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.wg.Add(2)
	go c.pushLoop(ctx)
	go c.pullLoop(ctx)
}

// Stop cancels the sync loops and waits for them to exit. Safe to call even
// if Start was never called.
func (c *Client) Stop() {
	c.runMu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.runMu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	c.wg.Wait()
}

// Snapshot returns a copy of the current view.
func (c *Client) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *Client) snapshotLocked() Snapshot {
	snap := Snapshot{State: c.state, LastError: c.lastErr, LastUpdated: c.lastUpdated}
	snap.Candidates = make([]Candidate, len(c.candidates))
	copy(snap.Candidates, c.candidates)
	snap.Stats = make([]PartyStat, len(c.stats))
	copy(snap.Stats, c.stats)
	return snap
}

// Search runs an on-demand query against the server, independent of the
// sync loops. Searching reports true while a call is in flight.
func (c *Client) Search(ctx context.Context, query string) ([]Candidate, error) {
	c.mu.Lock()
	c.searching = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.searching = false
		c.mu.Unlock()
	}()

	var results []Candidate
	endpoint := c.baseURL + "/candidates/search?q=" + url.QueryEscape(query)
	if err := c.getJSON(ctx, endpoint, &results); err != nil {
		return nil, fmt.Errorf("search candidates: %w", err)
	}
	return results, nil
}

// Searching reports whether a Search call is in flight.
func (c *Client) Searching() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.searching
}

// pushLoop dials the websocket endpoint and consumes broadcast frames,
// redialing after reconnectDelay on any failure.
func (c *Client) pushLoop(ctx context.Context) {
	defer c.wg.Done()

	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/ws"
	for {
		if ctx.Err() != nil {
			return
		}
		sock, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
		if err != nil {
			c.reportError(fmt.Errorf("dial push channel: %w", err))
			if !sleepCtx(ctx, c.reconnectDelay) {
				return
			}
			continue
		}

		c.readFrames(ctx, sock)
		_ = sock.Close()
		if !sleepCtx(ctx, c.reconnectDelay) {
			return
		}
	}
}

func (c *Client) readFrames(ctx context.Context, sock *websocket.Conn) {
	// Unblock ReadMessage when the adapter is stopped.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = sock.Close()
		case <-done:
		}
	}()

	for {
		_, msg, err := sock.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				c.reportError(fmt.Errorf("push channel closed: %w", err))
			}
			return
		}

		var frame struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(msg, &frame); err != nil {
			c.logger.Warn("undecodable push frame", "error", err)
			continue
		}
		c.applyFrame(frame.Event, frame.Data)
	}
}

// applyFrame folds a push frame into the cache. Only full-snapshot frames
// replace cached views; entity frames are informational since a full list
// always follows them.
func (c *Client) applyFrame(event string, data json.RawMessage) {
	switch event {
	case "candidates:list", "candidates:updated":
		var candidates []Candidate
		if err := json.Unmarshal(data, &candidates); err != nil {
			c.logger.Warn("undecodable candidate list", "error", err)
			return
		}
		c.setCandidates(candidates)
	case "stats:data", "stats:updated":
		var stats []PartyStat
		if err := json.Unmarshal(data, &stats); err != nil {
			c.logger.Warn("undecodable stats", "error", err)
			return
		}
		c.setStats(stats)
	case "candidate:created", "candidate:updated", "candidate:deleted":
		// Full list and stats frames follow each of these.
	case "error":
		c.logger.Warn("server error frame", "data", string(data))
	}
}

// pullLoop fetches the full state over HTTP on a fixed interval, as a
// fallback for when the push channel is down. Runs once immediately.
func (c *Client) pullLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.pullInterval)
	defer ticker.Stop()

	c.pull(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.pull(ctx)
		}
	}
}

func (c *Client) pull(ctx context.Context) {
	var candidates []Candidate
	if err := c.getJSON(ctx, c.baseURL+"/candidates", &candidates); err != nil {
		c.reportError(fmt.Errorf("pull candidates: %w", err))
		return
	}
	var stats []PartyStat
	if err := c.getJSON(ctx, c.baseURL+"/candidates/stats", &stats); err != nil {
		c.reportError(fmt.Errorf("pull stats: %w", err))
		return
	}
	c.mu.Lock()
	c.candidates = candidates
	c.stats = stats
	c.state = StateConnected
	c.lastErr = ""
	c.lastUpdated = time.Now()
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// setCandidates replaces the cached list; whichever path delivered last wins.
func (c *Client) setCandidates(candidates []Candidate) {
	c.mu.Lock()
	c.candidates = candidates
	c.state = StateConnected
	c.lastErr = ""
	c.lastUpdated = time.Now()
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

func (c *Client) setStats(stats []PartyStat) {
	c.mu.Lock()
	c.stats = stats
	c.state = StateConnected
	c.lastErr = ""
	c.lastUpdated = time.Now()
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// reportError records a data-path failure. Cached data is kept; the state
// drops to degraded only once a snapshot has been seen, otherwise the
// adapter is still connecting.
func (c *Client) reportError(err error) {
	c.mu.Lock()
	c.lastErr = err.Error()
	if c.state == StateConnected {
		c.state = StateDegraded
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Warn("sync error", "error", err)
	c.notify(snap)
}

func (c *Client) notify(snap Snapshot) {
	if c.onChange != nil {
		c.onChange(snap)
	}
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: unexpected status %d: %s", endpoint, resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// sleepCtx waits for d or context cancellation; reports false if canceled.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
