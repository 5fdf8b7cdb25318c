package sse

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Subscription selects which events a client receives. Zero values match
// everything. Heartbeats are always delivered.
type Subscription struct {
	VideoID string
	Types   []EventType
}

func (s Subscription) matches(e Event) bool {
	if e.Type == EventHeartbeat {
		return true
	}
	if s.VideoID != "" && e.VideoID != "" && s.VideoID != e.VideoID {
		return false
	}
	return len(s.Types) == 0 || slices.Contains(s.Types, e.Type)
}

// Client is one connected event stream.
type Client struct {
	ID          string
	Sub         Subscription
	ConnectedAt time.Time
	EventChan   chan Event
	Done        chan struct{}
}

// ManagerOptions tunes a Manager. Zero values take defaults.
type ManagerOptions struct {
	BufferSize        int
	ClientBufferSize  int
	HeartbeatInterval time.Duration
}

const (
	defaultBufferSize       = 1000
	defaultClientBufferSize = 100
	defaultHeartbeat        = 30 * time.Second
)

func (o *ManagerOptions) setDefaults() {
	if o.BufferSize <= 0 {
		o.BufferSize = defaultBufferSize
	}
	if o.ClientBufferSize <= 0 {
		o.ClientBufferSize = defaultClientBufferSize
	}
	if o.HeartbeatInterval <= 0 {
		o.HeartbeatInterval = defaultHeartbeat
	}
}

// Manager fans queued events out to subscribed clients.
type Manager struct {
	opts   ManagerOptions
	logger *slog.Logger
	queue  chan Event
	seq    atomic.Uint64
	loop   sync.WaitGroup

	mu      sync.RWMutex
	clients map[string]*Client

	closeMu sync.RWMutex
	closed  bool
}

// NewManager creates a Manager. Run Start in its own goroutine.
func NewManager(logger *slog.Logger, opts ManagerOptions) *Manager {
	opts.setDefaults()
	return &Manager{
		opts:    opts,
		logger:  logger,
		queue:   make(chan Event, opts.BufferSize),
		clients: make(map[string]*Client),
	}
}

// Start delivers queued events and heartbeats until ctx is cancelled or
// Shutdown closes the queue.
func (m *Manager) Start(ctx context.Context) {
	m.loop.Add(1)
	defer m.loop.Done()

	ticker := time.NewTicker(m.opts.HeartbeatInterval)
	defer ticker.Stop()

	m.logger.Info("SSE manager starting", slog.Duration("heartbeat", m.opts.HeartbeatInterval))
	for {
		select {
		case event, ok := <-m.queue:
			if !ok {
				return
			}
			m.broadcast(event)
		case <-ticker.C:
			m.broadcast(NewHeartbeatEvent())
		case <-ctx.Done():
			m.logger.Info("SSE manager stopping")
			m.closeAllClients()
			return
		}
	}
}

// Shutdown stops accepting events, delivers what is already queued (bounded
// by ctx) and closes every client. Calling it again is a no-op.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.closeMu.Lock()
	if m.closed {
		m.closeMu.Unlock()
		return nil
	}
	m.closed = true
	close(m.queue)
	m.closeMu.Unlock()

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for event := range m.queue {
			m.broadcast(event)
		}
	}()

	select {
	case <-drained:
	case <-ctx.Done():
		m.logger.Warn("SSE drain timed out, pending events dropped")
	}

	m.loop.Wait()
	m.closeAllClients()
	m.logger.Info("SSE manager shut down")
	return nil
}

// Emit queues an event. It never blocks: when the queue is full or the
// manager is shut down the event is dropped.
func (m *Manager) Emit(event Event) {
	m.closeMu.RLock()
	defer m.closeMu.RUnlock()
	if m.closed {
		return
	}

	select {
	case m.queue <- event:
	default:
		m.logger.Error("SSE queue full, dropping event", slog.String("event_type", string(event.Type)))
	}
}

func (m *Manager) broadcast(event Event) {
	event.ID = m.seq.Add(1)

	var delivered, skipped, dropped int
	m.mu.RLock()
	for _, c := range m.clients {
		if !c.Sub.matches(event) {
			skipped++
			continue
		}
		select {
		case c.EventChan <- event:
			delivered++
		default:
			dropped++
		}
	}
	m.mu.RUnlock()

	if dropped > 0 {
		m.logger.Warn("SSE clients too slow, event dropped",
			slog.String("event_type", string(event.Type)),
			slog.Int("clients", dropped))
	}
	if event.Type != EventHeartbeat {
		m.logger.Debug("event broadcast",
			slog.String("event_type", string(event.Type)),
			slog.Uint64("id", event.ID),
			slog.Group("stats",
				slog.Int("delivered", delivered),
				slog.Int("skipped", skipped),
				slog.Int("dropped", dropped)))
	}
}

// Connect registers a client for sub.
func (m *Manager) Connect(sub Subscription) (*Client, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	c := &Client{
		ID:          id.String(),
		Sub:         sub,
		ConnectedAt: time.Now(),
		EventChan:   make(chan Event, m.opts.ClientBufferSize),
		Done:        make(chan struct{}),
	}

	m.mu.Lock()
	m.clients[c.ID] = c
	n := len(m.clients)
	m.mu.Unlock()

	m.logger.Info("SSE client connected",
		slog.String("client_id", c.ID),
		slog.String("video_id", sub.VideoID),
		slog.Int("total_clients", n))
	return c, nil
}

// Disconnect removes a client. Unknown ids are ignored.
func (m *Manager) Disconnect(clientID string) {
	m.mu.Lock()
	c, ok := m.clients[clientID]
	if ok {
		delete(m.clients, clientID)
	}
	n := len(m.clients)
	m.mu.Unlock()
	if !ok {
		return
	}

	close(c.Done)
	close(c.EventChan)
	m.logger.Info("SSE client disconnected",
		slog.String("client_id", clientID),
		slog.Duration("duration", time.Since(c.ConnectedAt)),
		slog.Int("total_clients", n))
}

// ClientCount returns the number of connected clients.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

func (m *Manager) closeAllClients() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.clients {
		close(c.Done)
		close(c.EventChan)
		delete(m.clients, id)
	}
}
