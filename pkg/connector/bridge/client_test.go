package bridge

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/tinyland/lab/appkit-mirror/pkg/connector"
)

type hostCall struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// fakeHost plays the AppKit side of the bridge.
type fakeHost struct {
	t      *testing.T
	server *httptest.Server

	mu      sync.Mutex
	conn    *websocket.Conn
	writeMu sync.Mutex
	calls   []hostCall

	// handle answers a call. Returning ok=false leaves the call unanswered.
	handle func(c hostCall) (result any, rpcErr *RPCError, ok bool)
}

func newFakeHost(t *testing.T) *fakeHost {
	t.Helper()
	h := &fakeHost{t: t}
	h.handle = func(hostCall) (any, *RPCError, bool) { return nil, nil, true }

	upgrader := websocket.Upgrader{}
	h.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.mu.Lock()
		h.conn = conn
		h.mu.Unlock()
		h.serve(conn)
	}))
	t.Cleanup(h.server.Close)
	return h
}

func (h *fakeHost) url() string {
	return "ws" + strings.TrimPrefix(h.server.URL, "http")
}

func (h *fakeHost) serve(conn *websocket.Conn) {
	for {
		var c hostCall
		if err := conn.ReadJSON(&c); err != nil {
			return
		}
		h.mu.Lock()
		h.calls = append(h.calls, c)
		handle := h.handle
		h.mu.Unlock()

		result, rpcErr, ok := handle(c)
		if !ok {
			continue
		}
		env := Envelope{ID: c.ID, Error: rpcErr}
		if result != nil {
			raw, err := json.Marshal(result)
			require.NoError(h.t, err)
			env.Result = raw
		}
		h.send(env)
	}
}

func (h *fakeHost) send(env Envelope) {
	h.mu.Lock()
	conn := h.conn
	h.mu.Unlock()
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	_ = conn.WriteJSON(env)
}

func (h *fakeHost) notify(topic string, payload any) {
	raw, err := json.Marshal(payload)
	require.NoError(h.t, err)
	h.send(Envelope{Topic: topic, Payload: raw})
}

func (h *fakeHost) setHandler(fn func(c hostCall) (any, *RPCError, bool)) {
	h.mu.Lock()
	h.handle = fn
	h.mu.Unlock()
}

func (h *fakeHost) methods() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.calls))
	for i, c := range h.calls {
		out[i] = c.Method
	}
	return out
}

func (h *fakeHost) lastCall(method string) (hostCall, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.calls) - 1; i >= 0; i-- {
		if h.calls[i].Method == method {
			return h.calls[i], true
		}
	}
	return hostCall{}, false
}

func testOptions() connector.Options {
	return connector.Options{
		Adapters:  []string{"bitcoin"},
		ProjectID: "bridge-test",
		ThemeMode: connector.ThemeLight,
		Networks: []connector.Network{{
			Name:           "Bitcoin",
			CAIPNetworkID:  "bip122:000000000019d6689c085ae165831e93",
			ChainNamespace: "bip122",
			ChainID:        "000000000019d6689c085ae165831e93",
		}},
	}
}

func dialHost(t *testing.T, h *fakeHost) *Client {
	t.Helper()
	c, err := Dial(context.Background(), Config{URL: h.url(), Timeout: 2 * time.Second}, testOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestDialSendsInit(t *testing.T) {
	h := newFakeHost(t)
	dialHost(t, h)

	call, ok := h.lastCall(MethodInit)
	require.True(t, ok, "appkit_init not sent")

	var opts connector.Options
	require.NoError(t, json.Unmarshal(call.Params, &opts))
	assert.Equal(t, "bridge-test", opts.ProjectID)
	assert.Equal(t, []string{"bitcoin"}, opts.Adapters)
	require.Len(t, opts.Networks, 1)
	assert.Equal(t, "bip122:000000000019d6689c085ae165831e93", opts.Networks[0].CAIPNetworkID)
}

func TestDialRequiresURL(t *testing.T) {
	_, err := Dial(context.Background(), Config{}, testOptions())
	require.Error(t, err)
}

func TestDialFailsWhenInitRejected(t *testing.T) {
	h := newFakeHost(t)
	h.setHandler(func(c hostCall) (any, *RPCError, bool) {
		return nil, &RPCError{Code: 4001, Message: "invalid project id"}, true
	})

	_, err := Dial(context.Background(), Config{URL: h.url(), Timeout: time.Second}, testOptions())
	require.Error(t, err)
	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, 4001, rpcErr.Code)
}

func TestCommandsForwarded(t *testing.T) {
	h := newFakeHost(t)
	c := dialHost(t, h)
	ctx := context.Background()

	require.NoError(t, c.Open(ctx))
	require.NoError(t, c.Disconnect(ctx))
	require.NoError(t, c.SwitchNetwork(ctx, connector.Network{CAIPNetworkID: "bip122:000000000933ea01ad0ee984209779ba"}))

	assert.Equal(t, []string{MethodInit, MethodOpen, MethodDisconnect, MethodSwitchNetwork}, h.methods())

	call, _ := h.lastCall(MethodSwitchNetwork)
	var params SwitchNetworkParams
	require.NoError(t, json.Unmarshal(call.Params, &params))
	assert.Equal(t, "bip122:000000000933ea01ad0ee984209779ba", params.CAIPNetworkID)
}

func TestRPCErrorSurfaces(t *testing.T) {
	h := newFakeHost(t)
	c := dialHost(t, h)
	h.setHandler(func(c hostCall) (any, *RPCError, bool) {
		if c.Method == MethodSwitchNetwork {
			return nil, &RPCError{Code: 5000, Message: "network not allowed"}, true
		}
		return nil, nil, true
	})

	err := c.SwitchNetwork(context.Background(), connector.Network{CAIPNetworkID: "bip122:00000008819873e925422c1ff0f99f7c"})
	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, "network not allowed", rpcErr.Message)
	assert.Contains(t, err.Error(), "5000")
}

func TestSetThemeModeFireAndForget(t *testing.T) {
	h := newFakeHost(t)
	c := dialHost(t, h)

	c.SetThemeMode(connector.ThemeDark)

	require.Eventually(t, func() bool {
		_, ok := h.lastCall(MethodSetThemeMode)
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	call, _ := h.lastCall(MethodSetThemeMode)
	var params ThemeModeParams
	require.NoError(t, json.Unmarshal(call.Params, &params))
	assert.Equal(t, "dark", params.ThemeMode)
}

func TestNotificationsPublishToFeeds(t *testing.T) {
	h := newFakeHost(t)
	c := dialHost(t, h)

	accounts := make(chan connector.AccountSnapshot, 4)
	unsub := c.SubscribeAccount(func(a connector.AccountSnapshot) { accounts <- a })
	defer unsub()

	h.notify(TopicAccount, connector.AccountSnapshot{
		Address: "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4",
		Status:  connector.StatusConnected,
	})

	select {
	case a := <-accounts:
		assert.True(t, a.Connected())
		assert.Equal(t, "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", a.Address)
	case <-time.After(2 * time.Second):
		t.Fatal("account notification not delivered")
	}

	h.notify(TopicTheme, connector.ThemeSnapshot{Mode: connector.ThemeDark})
	h.notify(TopicEvents, []connector.EventRecord{{ID: "1", Type: "track", Event: "MODAL_OPEN"}})
	h.notify(TopicState, connector.AppState{Open: true, Initialized: true})
	h.notify(TopicWalletInfo, connector.WalletInfo{Name: "Leather"})
	h.notify(TopicNetwork, connector.NetworkSnapshot{Name: "Bitcoin"})

	require.Eventually(t, func() bool {
		w, ok := c.WalletInfo.Current()
		return ok && w.Name == "Leather"
	}, 2*time.Second, 10*time.Millisecond)

	theme, _ := c.Theme.Current()
	assert.Equal(t, connector.ThemeDark, theme.Mode)
	events, _ := c.Events.Current()
	require.Len(t, events, 1)
	assert.Equal(t, "MODAL_OPEN", events[0].Event)
	state, _ := c.State.Current()
	assert.True(t, state.Open)
}

func TestRemoteProviderSigns(t *testing.T) {
	h := newFakeHost(t)
	c := dialHost(t, h)
	h.setHandler(func(c hostCall) (any, *RPCError, bool) {
		if c.Method == "bip122_signMessage" {
			return "H3Jw0sig", nil, true
		}
		return nil, nil, true
	})

	h.notify(TopicProviders, ProvidersPayload{Namespaces: []string{connector.ProviderNamespace}})
	require.Eventually(t, func() bool {
		p, ok := c.Providers.Current()
		return ok && p[connector.ProviderNamespace] != nil
	}, 2*time.Second, 10*time.Millisecond)

	providers, _ := c.Providers.Current()
	sig, err := providers[connector.ProviderNamespace].SignMessage(context.Background(),
		connector.SignMessageRequest{Address: "bc1qexample", Message: "Hello from AppKit"})
	require.NoError(t, err)
	assert.Equal(t, "H3Jw0sig", sig)

	call, ok := h.lastCall("bip122_signMessage")
	require.True(t, ok)
	var req connector.SignMessageRequest
	require.NoError(t, json.Unmarshal(call.Params, &req))
	assert.Equal(t, "Hello from AppKit", req.Message)
	assert.Equal(t, "bc1qexample", req.Address)
}

func TestUnknownTopicIgnored(t *testing.T) {
	h := newFakeHost(t)
	c := dialHost(t, h)

	h.notify("balance", map[string]string{"value": "0"})
	require.NoError(t, c.Open(context.Background()))
}

func TestCloseFailsInflightCalls(t *testing.T) {
	h := newFakeHost(t)
	c := dialHost(t, h)
	h.setHandler(func(c hostCall) (any, *RPCError, bool) {
		return nil, nil, c.Method != MethodOpen
	})

	errc := make(chan error, 1)
	go func() { errc <- c.Open(context.Background()) }()

	require.Eventually(t, func() bool {
		_, ok := h.lastCall(MethodOpen)
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, c.Close())

	select {
	case err := <-errc:
		require.ErrorIs(t, err, ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight call not released by Close")
	}

	require.ErrorIs(t, c.Disconnect(context.Background()), ErrClosed)
	assert.NoError(t, c.Close(), "second Close")
}

func TestHostDisconnectFailsCalls(t *testing.T) {
	h := newFakeHost(t)
	c := dialHost(t, h)

	h.mu.Lock()
	conn := h.conn
	h.mu.Unlock()
	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return c.Open(context.Background()) == ErrClosed
	}, 2*time.Second, 20*time.Millisecond)
}

func TestCallTimeout(t *testing.T) {
	h := newFakeHost(t)
	c, err := Dial(context.Background(), Config{URL: h.url(), Timeout: 100 * time.Millisecond}, testOptions())
	require.NoError(t, err)
	defer c.Close()

	h.setHandler(func(hostCall) (any, *RPCError, bool) { return nil, nil, false })
	err = c.Open(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDuplicateResponseDoesNotBlockReader(t *testing.T) {
	ch := make(chan response, 1)
	c := &Client{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		pending: map[string]chan response{"call-1": ch},
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.resolve(Envelope{ID: "call-1", Result: json.RawMessage(`"first"`)})
		c.resolve(Envelope{ID: "call-1", Result: json.RawMessage(`"second"`)})
		c.resolve(Envelope{ID: "call-1", Error: &RPCError{Code: 1, Message: "third"}})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("resolve blocked on a duplicate response")
	}
	resp := <-ch
	require.NoError(t, resp.err)
	assert.JSONEq(t, `"first"`, string(resp.result))
}

func TestCallsSucceedAfterDuplicateResponses(t *testing.T) {
	h := newFakeHost(t)
	c := dialHost(t, h)
	h.setHandler(func(call hostCall) (any, *RPCError, bool) {
		if call.Method == MethodOpen {
			for i := 0; i < 3; i++ {
				h.send(Envelope{ID: call.ID, Result: json.RawMessage(`null`)})
			}
			return nil, nil, false
		}
		return nil, nil, true
	})

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, c.Open(ctx))
	}
	require.NoError(t, c.Disconnect(ctx))
}
