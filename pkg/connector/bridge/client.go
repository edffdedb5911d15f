// Package bridge connects appkit-mirror to an external AppKit host over a
// WebSocket. The host runs the real wallet connection SDK; this package
// forwards commands as JSON-RPC calls and turns the host's topic
// notifications into connector snapshots.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"gitlab.com/tinyland/lab/appkit-mirror/pkg/connector"
)

// ErrClosed is returned for calls made on, or interrupted by, a closed client.
var ErrClosed = errors.New("bridge: connection closed")

// Config holds connection settings.
type Config struct {
	// URL is the host's WebSocket endpoint, e.g. "ws://127.0.0.1:7777/appkit".
	URL string
	// Timeout bounds every call except message signing, which waits on the
	// user. Zero means no timeout.
	Timeout time.Duration
	// Header is sent with the handshake.
	Header http.Header
	Logger *slog.Logger
}

type response struct {
	result json.RawMessage
	err    error
}

// Client implements connector.Connector on top of one WebSocket connection.
// There is no reconnect: once the socket drops, every call fails with
// ErrClosed.
type Client struct {
	*connector.Feeds

	conn    *websocket.Conn
	logger  *slog.Logger
	timeout time.Duration

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan response
	closed  bool

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Dial connects to the host and initializes the SDK there with opts.
func Dial(ctx context.Context, cfg Config, opts connector.Options) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("bridge: URL is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dialer := websocket.Dialer{HandshakeTimeout: cfg.Timeout}
	conn, _, err := dialer.DialContext(ctx, cfg.URL, cfg.Header)
	if err != nil {
		return nil, fmt.Errorf("bridge: dial %s: %w", cfg.URL, err)
	}

	c := &Client{
		Feeds:   connector.NewFeeds(),
		conn:    conn,
		logger:  logger,
		timeout: cfg.Timeout,
		pending: make(map[string]chan response),
		done:    make(chan struct{}),
	}

	c.wg.Add(1)
	go c.readLoop()

	if err := c.call(ctx, MethodInit, opts, nil, true); err != nil {
		c.Close()
		return nil, fmt.Errorf("bridge: init: %w", err)
	}
	logger.Info("connected to appkit host", "url", cfg.URL)
	return c, nil
}

// Open asks the host to open the connect modal.
func (c *Client) Open(ctx context.Context) error {
	return c.call(ctx, MethodOpen, nil, nil, true)
}

// Disconnect asks the host to end the wallet session.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.call(ctx, MethodDisconnect, nil, nil, true)
}

// SwitchNetwork asks the host to switch to n.
func (c *Client) SwitchNetwork(ctx context.Context, n connector.Network) error {
	return c.call(ctx, MethodSwitchNetwork, SwitchNetworkParams{CAIPNetworkID: n.CAIPNetworkID}, nil, true)
}

// SetThemeMode forwards the mode without waiting. The host confirms through
// the theme topic; a failed call is only logged.
func (c *Client) SetThemeMode(mode connector.ThemeMode) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.logger.Warn("set theme mode on closed bridge", "mode", mode)
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		err := c.call(context.Background(), MethodSetThemeMode, ThemeModeParams{ThemeMode: string(mode)}, nil, true)
		if err != nil {
			c.logger.Warn("set theme mode failed", "mode", mode, "error", err)
		}
	}()
}

// Close closes the socket, fails in-flight calls with ErrClosed and waits for
// background goroutines.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.done)

		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()

		err = c.conn.Close()
		c.wg.Wait()
		c.failPending(ErrClosed)
	})
	return err
}

// call sends one request and waits for its response. When bounded is true
// the configured timeout applies.
func (c *Client) call(ctx context.Context, method string, params any, out any, bounded bool) error {
	if bounded && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	id := uuid.NewString()
	ch := make(chan response, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.pending[id] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	if err := c.write(Request{ID: id, Method: method, Params: params}); err != nil {
		return fmt.Errorf("bridge: send %s: %w", method, err)
	}

	select {
	case resp := <-ch:
		if resp.err != nil {
			return resp.err
		}
		if out != nil && len(resp.result) > 0 {
			if err := json.Unmarshal(resp.result, out); err != nil {
				return fmt.Errorf("bridge: decode %s result: %w", method, err)
			}
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrClosed
	}
}

func (c *Client) write(req Request) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(req)
}

// readLoop receives frames until the socket closes, then fails every pending
// call.
func (c *Client) readLoop() {
	defer c.wg.Done()
	defer func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		c.failPending(ErrClosed)
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					c.logger.Error("appkit host connection lost", "error", err)
				}
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Warn("dropping malformed frame", "error", err)
			continue
		}

		if env.Topic != "" {
			if err := c.dispatch(env.Topic, env.Payload); err != nil {
				c.logger.Warn("dropping notification", "topic", env.Topic, "error", err)
			}
			continue
		}
		c.resolve(env)
	}
}

func (c *Client) resolve(env Envelope) {
	c.mu.Lock()
	ch, ok := c.pending[env.ID]
	c.mu.Unlock()
	if !ok {
		c.logger.Debug("response for unknown call", "id", env.ID)
		return
	}

	resp := response{result: env.Result}
	if env.Error != nil {
		resp.err = env.Error
	}
	select {
	case ch <- resp:
	default:
		c.logger.Debug("duplicate response", "id", env.ID)
	}
}

func (c *Client) failPending(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, ch := range c.pending {
		select {
		case ch <- response{err: err}:
		default:
		}
		delete(c.pending, id)
	}
}

// dispatch decodes a topic payload and publishes it on the matching feed.
func (c *Client) dispatch(topic string, payload json.RawMessage) error {
	switch topic {
	case TopicAccount:
		return publishDecoded(payload, c.Account)
	case TopicNetwork:
		return publishDecoded(payload, c.Network)
	case TopicState:
		return publishDecoded(payload, c.State)
	case TopicTheme:
		return publishDecoded(payload, c.Theme)
	case TopicEvents:
		return publishDecoded(payload, c.Events)
	case TopicWalletInfo:
		return publishDecoded(payload, c.WalletInfo)
	case TopicProviders:
		var p ProvidersPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return err
		}
		providers := make(connector.Providers, len(p.Namespaces))
		for _, ns := range p.Namespaces {
			providers[ns] = &remoteProvider{c: c, namespace: ns}
		}
		c.Providers.Publish(providers)
		return nil
	default:
		return fmt.Errorf("unknown topic %q", topic)
	}
}

func publishDecoded[T any](payload json.RawMessage, feed *connector.Feed[T]) error {
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return err
	}
	feed.Publish(v)
	return nil
}

// remoteProvider forwards signing requests for one namespace to the host.
type remoteProvider struct {
	c         *Client
	namespace string
}

func (p *remoteProvider) SignMessage(ctx context.Context, req connector.SignMessageRequest) (string, error) {
	var sig string
	if err := p.c.call(ctx, p.namespace+signMethodSuffix, req, &sig, false); err != nil {
		return "", err
	}
	return sig, nil
}
