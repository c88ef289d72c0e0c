package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shellhost/internal/ipc"
	"shellhost/internal/windows"
)

func newDispatcher(t *testing.T) *ipc.Dispatcher {
	t.Helper()
	reg := ipc.NewRegistry(nil)
	require.NoError(t, reg.Register("echo", func(_ context.Context, args ipc.Args) (interface{}, error) {
		var in struct {
			Text string `json:"text"`
		}
		if err := args.Decode(&in); err != nil {
			return nil, err
		}
		return map[string]string{"text": in.Text}, nil
	}, "Test"))
	require.NoError(t, reg.Register("fail", func(context.Context, ipc.Args) (interface{}, error) {
		return nil, errors.New("boom")
	}, "Test"))
	reg.Seal()
	return ipc.NewDispatcher(reg, nil)
}

func dial(t *testing.T, srv *httptest.Server, window string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + Path + "?window=" + window
	ws, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func roundTrip(t *testing.T, ws *websocket.Conn, req interface{}) Response {
	t.Helper()
	require.NoError(t, ws.WriteJSON(req))
	var resp Response
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, ws.ReadJSON(&resp))
	return resp
}

func TestCallRoundTrip(t *testing.T) {
	s := NewServer(newDispatcher(t), nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ws := dial(t, srv, "chat")
	resp := roundTrip(t, ws, map[string]interface{}{"id": "1", "channel": "echo", "args": map[string]string{"text": "hi"}})

	assert.Equal(t, "1", resp.ID)
	assert.Nil(t, resp.Error)
	assert.Equal(t, map[string]interface{}{"text": "hi"}, resp.Result)
}

func TestErrorCodes(t *testing.T) {
	s := NewServer(newDispatcher(t), nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()
	ws := dial(t, srv, "chat")

	resp := roundTrip(t, ws, Request{ID: "2", Channel: "ecko"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeUnknownChannel, resp.Error.Code)

	resp = roundTrip(t, ws, Request{ID: "3", Channel: "fail"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeHandlerFailed, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "boom")

	resp = roundTrip(t, ws, Request{ID: "4"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeBadRequest, resp.Error.Code)

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("{not json")))
	var bad Response
	require.NoError(t, ws.ReadJSON(&bad))
	assert.Equal(t, CodeBadRequest, bad.Error.Code)
}

func TestDispatcherNotReady(t *testing.T) {
	s := NewServer(ipc.NewDispatcher(ipc.NewRegistry(nil), nil), nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp := roundTrip(t, dial(t, srv, "chat"), Request{ID: "1", Channel: "echo"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeDispatcherNotReady, resp.Error.Code)
}

func TestNotifyReachesWindowRenderers(t *testing.T) {
	s := NewServer(newDispatcher(t), nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	chat := dial(t, srv, "chat")
	dial(t, srv, "settings")

	require.Eventually(t, func() bool {
		return len(s.connected()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Notify(windows.Chat, "language-changed", map[string]string{"language": "zh-CN"}))

	var frame EventFrame
	require.NoError(t, chat.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, chat.ReadJSON(&frame))
	assert.Equal(t, "language-changed", frame.Event)
	assert.Equal(t, map[string]interface{}{"language": "zh-CN"}, frame.Payload)

	err := s.Notify(windows.Devtools, "language-changed", nil)
	assert.True(t, errors.Is(err, ErrNotConnected))
}

func TestDisconnectIsForgotten(t *testing.T) {
	s := NewServer(newDispatcher(t), nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ws := dial(t, srv, "devtools")
	require.Eventually(t, func() bool { return len(s.connected()) == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	_ = ws.Close()
	assert.Eventually(t, func() bool { return len(s.connected()) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestUpgradeRequiresWindow(t *testing.T) {
	s := NewServer(newDispatcher(t), nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + Path)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLocalOrigin(t *testing.T) {
	cases := map[string]bool{
		"":                       true,
		"http://localhost:5173":  true,
		"http://127.0.0.1":       true,
		"https://evil.example":   false,
		"app://shellhost":        true,
	}
	for origin, want := range cases {
		r := httptest.NewRequest(http.MethodGet, Path, nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		assert.Equal(t, want, localOrigin(r), origin)
	}
}

func TestStartAndShutdown(t *testing.T) {
	s := NewServer(newDispatcher(t), nil)
	addr, err := s.Start("127.0.0.1:0")
	require.NoError(t, err)

	ws, _, err := websocket.DefaultDialer.Dial("ws://"+addr.String()+Path+"?window=chat", nil)
	require.NoError(t, err)
	defer ws.Close()
	require.Eventually(t, func() bool { return len(s.connected()) == 1 }, 2*time.Second, 10*time.Millisecond)

	s.Shutdown()
	assert.Empty(t, s.connected())
}

func TestShutdownRefusesLateRenderers(t *testing.T) {
	s := NewServer(newDispatcher(t), nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	dial(t, srv, "chat")
	require.Eventually(t, func() bool { return len(s.connected()) == 1 }, 2*time.Second, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		s.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not return")
	}

	late := dial(t, srv, "settings")
	require.NoError(t, late.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := late.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "%v", err)
	assert.Empty(t, s.connected())
}

func TestFalsyResultsKeepResultKey(t *testing.T) {
	reg := ipc.NewRegistry(nil)
	require.NoError(t, reg.Register("empty", func(context.Context, ipc.Args) (interface{}, error) {
		return "", nil
	}, "Test"))
	reg.Seal()
	s := NewServer(ipc.NewDispatcher(reg, nil), nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ws := dial(t, srv, "chat")
	require.NoError(t, ws.WriteJSON(Request{ID: "1", Channel: "empty"}))
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	var raw map[string]interface{}
	require.NoError(t, ws.ReadJSON(&raw))

	result, ok := raw["result"]
	require.True(t, ok)
	assert.Equal(t, "", result)
}
