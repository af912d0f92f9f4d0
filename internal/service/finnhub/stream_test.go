package finnhub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	xlogger "StockScope/pkg/logger"

	"github.com/gorilla/websocket"
)

func streamLogger(t *testing.T) *xlogger.Logger {
	t.Helper()
	logger, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return logger
}

// wsServer upgrades incoming connections and hands them to serve.
func wsServer(t *testing.T, serve func(conn *websocket.Conn)) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		serve(conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestStreamDeliversTicks(t *testing.T) {
	url := wsServer(t, func(conn *websocket.Conn) {
		// wait for the subscribe message, then emit one trade frame
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		frame := `{"type":"trade","data":[{"s":"AAPL","p":150.5,"v":10,"t":1700000000000}]}`
		if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			return
		}
		// hold the connection open until the client hangs up
		_, _, _ = conn.ReadMessage()
	})

	s := NewStream("test-key", url, []string{"AAPL"}, time.Millisecond, time.Minute, streamLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Connect(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if !s.IsConnected() {
		t.Fatal("expected connected after Connect")
	}
	if err := s.Subscribe(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	ticks, errs := s.Read(ctx)
	select {
	case tick := <-ticks:
		if tick.Symbol != "AAPL" || tick.Price != 150.5 || tick.Volume != 10 {
			t.Fatalf("unexpected tick: %+v", tick)
		}
		if tick.Timestamp != 1700000000 {
			t.Fatalf("timestamp = %d, want seconds", tick.Timestamp)
		}
	case err := <-errs:
		t.Fatalf("stream error: %v", err)
	case <-ctx.Done():
		t.Fatal("timed out waiting for tick")
	}
}

func TestStreamReportsReadError(t *testing.T) {
	url := wsServer(t, func(conn *websocket.Conn) {
		// close right away: the client read must surface an error
	})

	s := NewStream("test-key", url, nil, time.Millisecond, time.Minute, streamLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Connect(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	_, errs := s.Read(ctx)
	select {
	case err := <-errs:
		if err == nil {
			t.Fatal("expected a read error")
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for read error")
	}
}

func TestStreamCloseDisconnects(t *testing.T) {
	url := wsServer(t, func(conn *websocket.Conn) {
		_, _, _ = conn.ReadMessage()
	})

	s := NewStream("test-key", url, nil, time.Millisecond, time.Minute, streamLogger(t))
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if s.IsConnected() {
		t.Fatal("expected disconnected after Close")
	}
	// a second close is a no-op
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestDecodeTicksIgnoresOtherFrames(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"ping frame", `{"type":"ping"}`},
		{"ack frame", `{"type":"subscribe","symbol":"AAPL"}`},
		{"empty trade", `{"type":"trade","data":[]}`},
		{"malformed", `not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := decodeTicks([]byte(tc.body)); got != nil {
				t.Fatalf("expected no ticks, got %v", got)
			}
		})
	}
}
