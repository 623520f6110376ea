package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Generator POSTs a random-candidate request to the server on a fixed
// interval. Start while running is a no-op; Stop is safe even if Start was
// never called.
type Generator struct {
	baseURL  string
	interval time.Duration
	httpc    *http.Client
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type GeneratorOption func(*Generator)

func GeneratorWithLogger(l *slog.Logger) GeneratorOption {
	return func(g *Generator) { g.logger = l }
}

func GeneratorWithHTTPClient(hc *http.Client) GeneratorOption {
	return func(g *Generator) { g.httpc = hc }
}

func NewGenerator(baseURL string, interval time.Duration, opts ...GeneratorOption) *Generator {
	g := &Generator{
		baseURL:  strings.TrimRight(baseURL, "/"),
		interval: interval,
		httpc:    &http.Client{Timeout: 10 * time.Second},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Running reports whether the interval loop is active.
func (g *Generator) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cancel != nil
}

func (g *Generator) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel

	g.wg.Add(1)
	go g.loop(ctx)
}

func (g *Generator) Stop() {
	g.mu.Lock()
	cancel := g.cancel
	g.cancel = nil
	g.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	g.wg.Wait()
}

func (g *Generator) loop(ctx context.Context) {
	defer g.wg.Done()

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := g.generate(ctx); err != nil && ctx.Err() == nil {
				g.logger.Warn("generate candidate", "error", err)
			}
		}
	}
}

func (g *Generator) generate(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/candidates/generate", nil)
	if err != nil {
		return err
	}
	resp, err := g.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}
	return nil
}
