package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/automoto/arena-mp/netsync"
	"github.com/automoto/arena-mp/shared/messages"
	"github.com/coder/websocket"
	"golang.org/x/time/rate"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoinedGame
	StateError
)

func (s ClientState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateJoinedGame:
		return "in game"
	case StateError:
		return "error"
	default:
		return "disconnected"
	}
}

var ErrNotConnected = errors.New("not connected")

const (
	dialTimeout  = 10 * time.Second
	writeTimeout = 2 * time.Second
)

// Inbound is one decoded server message stamped with the client-local time
// it was read off the socket.
type Inbound struct {
	Message    any
	ReceivedAt time.Duration
}

// Options tunes the client's outbound throttles and inbound queue.
type Options struct {
	UpdateInterval time.Duration
	AimInterval    time.Duration
	ShootCooldown  time.Duration
	InboxSize      int
	ReadLimit      int64
}

func DefaultOptions() Options {
	return Options{
		UpdateInterval: 50 * time.Millisecond,
		AimInterval:    50 * time.Millisecond,
		ShootCooldown:  250 * time.Millisecond,
		InboxSize:      256,
		ReadLimit:      1 << 20,
	}
}

// Client manages the websocket connection to the arena server. The read
// loop runs on its own goroutine and only decodes and queues; the frame loop
// collects messages with Drain. Shared fields are protected by mu.
type Client struct {
	mu sync.RWMutex

	state     ClientState
	lastError error
	conn      *websocket.Conn
	cancel    context.CancelFunc

	clock netsync.Clock
	opts  Options
	inbox chan Inbound

	updates *rate.Limiter
	aims    *rate.Limiter
	shots   *rate.Limiter

	bytesIn  atomic.Uint64
	bytesOut atomic.Uint64
}

func NewClient(clock netsync.Clock, opts Options) *Client {
	if opts.InboxSize <= 0 {
		opts.InboxSize = DefaultOptions().InboxSize
	}
	if opts.ReadLimit <= 0 {
		opts.ReadLimit = DefaultOptions().ReadLimit
	}
	return &Client{
		state:   StateDisconnected,
		clock:   clock,
		opts:    opts,
		inbox:   make(chan Inbound, opts.InboxSize),
		updates: rate.NewLimiter(rate.Every(opts.UpdateInterval), 1),
		aims:    rate.NewLimiter(rate.Every(opts.AimInterval), 1),
		shots:   rate.NewLimiter(rate.Every(opts.ShootCooldown), 1),
	}
}

// ServerURL turns a host:port into the server's websocket endpoint. Full
// ws:// or wss:// URLs are returned unchanged.
func ServerURL(address string) string {
	if strings.HasPrefix(address, "ws://") || strings.HasPrefix(address, "wss://") {
		return address
	}
	u := url.URL{Scheme: "ws", Host: address, Path: "/ws"}
	if i := strings.Index(address, "/"); i >= 0 {
		u.Host, u.Path = address[:i], address[i:]
	}
	return u.String()
}

// Connect dials the server in a background goroutine.
func (c *Client) Connect(address string) {
	ctx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	if c.conn != nil {
		_ = c.conn.CloseNow()
		c.conn = nil
	}
	// Messages still queued belong to the previous connection.
	drainChan(c.inbox)
	c.state = StateConnecting
	c.lastError = nil
	c.cancel = cancel
	c.mu.Unlock()

	go c.run(ctx, ServerURL(address))
}

func (c *Client) run(ctx context.Context, endpoint string) {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	conn, _, err := websocket.Dial(dialCtx, endpoint, nil)
	cancel()

	c.mu.Lock()
	if ctx.Err() != nil {
		// Superseded by Connect or Disconnect while dialing.
		c.mu.Unlock()
		if conn != nil {
			_ = conn.CloseNow()
		}
		return
	}
	if err != nil {
		err = fmt.Errorf("connection failed: %w", err)
		c.state = StateError
		c.lastError = err
		c.mu.Unlock()
		log.Printf("[client] error: %v", err)
		return
	}
	conn.SetReadLimit(c.opts.ReadLimit)
	c.conn = conn
	c.state = StateConnected
	c.mu.Unlock()

	log.Printf("[client] connected to %s", endpoint)
	c.readLoop(ctx, conn)
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			c.disconnected(ctx, conn, err)
			return
		}
		at := c.clock.Now()
		c.bytesIn.Add(uint64(len(data)))

		msg, err := messages.Decode(data)
		if err != nil {
			log.Printf("[client] dropping frame: %v", err)
			continue
		}
		in := Inbound{Message: msg, ReceivedAt: at}

		// Checked under the lock so nothing lands in the inbox after
		// Connect has flushed it for a newer connection.
		c.mu.Lock()
		if c.conn != conn {
			c.mu.Unlock()
			return
		}
		if _, ok := msg.(messages.Init); ok {
			c.state = StateJoinedGame
		}
		queued := false
		select {
		case c.inbox <- in:
			queued = true
		default:
		}
		c.mu.Unlock()
		if queued {
			continue
		}

		select {
		case c.inbox <- in:
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) disconnected(ctx context.Context, conn *websocket.Conn, err error) {
	if ctx.Err() != nil {
		return
	}
	log.Printf("[client] disconnected: %v", err)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != conn {
		return
	}
	if c.state != StateError {
		c.state = StateDisconnected
	}
	if status := websocket.CloseStatus(err); status != -1 && status != websocket.StatusNormalClosure {
		c.state = StateError
		c.lastError = fmt.Errorf("closed by server: %w", err)
	}
	c.conn = nil
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	if c.cancel != nil {
		c.cancel()
	}
	c.state = StateDisconnected
	c.conn = nil
	c.cancel = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

func (c *Client) BytesReceived() uint64 { return c.bytesIn.Load() }
func (c *Client) BytesSent() uint64     { return c.bytesOut.Load() }

// Drain returns all queued inbound messages, non-blocking.
func (c *Client) Drain() []Inbound {
	return drainChan(c.inbox)
}

// SendPosition reports the local pose unless the update throttle is closed.
// It returns whether the update went out.
func (c *Client) SendPosition(x, y, angle float64) (bool, error) {
	if !c.connected() {
		return false, ErrNotConnected
	}
	if !c.updates.Allow() {
		return false, nil
	}
	return true, c.SendMessage(messages.NewPositionUpdate(x, y, angle))
}

// SendAim reports an aim change unless the aim throttle is closed.
func (c *Client) SendAim(angle float64) (bool, error) {
	if !c.connected() {
		return false, ErrNotConnected
	}
	if !c.aims.Allow() {
		return false, nil
	}
	return true, c.SendMessage(messages.NewAimUpdate(angle))
}

// Shoot fires unless the cooldown is running.
func (c *Client) Shoot() (bool, error) {
	if !c.connected() {
		return false, ErrNotConnected
	}
	if !c.shots.Allow() {
		return false, nil
	}
	return true, c.SendMessage(messages.NewShoot())
}

func (c *Client) ChangeName(name string) error {
	msg, err := messages.NewChangeName(name)
	if err != nil {
		return err
	}
	return c.SendMessage(msg)
}

func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	c.bytesOut.Add(uint64(len(payload)))
	return nil
}

func (c *Client) connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
