package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"StockScope/internal/domain/models"
	drepo "StockScope/internal/domain/repository"
	xlogger "StockScope/pkg/logger"

	"github.com/gorilla/websocket"
)

// Stream implements a PriceStream backed by the Finnhub WebSocket feed. It
// keeps last-trade prices flowing for the tracked universe between snapshot
// refreshes.
//
// The connection pointer is guarded by mu; writes are serialized through
// writeMu because the underlying connection allows only one concurrent
// writer (ping loop and subscribe can overlap during a reconnect).
type Stream struct {
	apiKey         string
	websocketURL   string
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	logger         *xlogger.Logger

	mu      sync.Mutex
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// NewStream creates a new Finnhub PriceStream.
func NewStream(apiKey, websocketURL string, symbols []string, reconnectDelay, pingInterval time.Duration, logger *xlogger.Logger) drepo.PriceStream {
	return &Stream{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		logger:         logger,
	}
}

// Connect establishes the WebSocket connection.
func (s *Stream) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, fmt.Sprintf("%s?token=%s", s.websocketURL, s.apiKey), nil)
	if err != nil {
		return fmt.Errorf("price stream connect: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	s.logger.Info("price stream connected")
	return nil
}

func (s *Stream) current() *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

func (s *Stream) writeJSON(v interface{}) error {
	conn := s.current()
	if conn == nil {
		return fmt.Errorf("price stream not connected")
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return conn.WriteJSON(v)
}

// Subscribe subscribes to the tracked symbols.
func (s *Stream) Subscribe(ctx context.Context) error {
	for _, sym := range s.symbols {
		if err := s.writeJSON(map[string]string{"type": "subscribe", "symbol": sym}); err != nil {
			return fmt.Errorf("subscribe %s: %w", sym, err)
		}
	}
	s.logger.Info("price stream subscribed", xlogger.Int("symbols", len(s.symbols)))
	return nil
}

type streamFrame struct {
	Type string `json:"type"`
	Data []struct {
		Symbol string  `json:"s"`
		Price  float64 `json:"p"`
		Volume float64 `json:"v"`
		Time   int64   `json:"t"` // ms
	} `json:"data"`
}

// decodeTicks extracts trade ticks from one wire frame. Frames of any other
// type (pings, subscribe acks, malformed payloads) yield nothing.
func decodeTicks(b []byte) []*models.Tick {
	var f streamFrame
	if err := json.Unmarshal(b, &f); err != nil || f.Type != "trade" || len(f.Data) == 0 {
		return nil
	}
	ticks := make([]*models.Tick, 0, len(f.Data))
	for _, d := range f.Data {
		ticks = append(ticks, &models.Tick{
			Symbol:    d.Symbol,
			Price:     d.Price,
			Volume:    d.Volume,
			Timestamp: d.Time / 1000,
		})
	}
	return ticks
}

// Read streams Tick events and errors. Both channels close when the read
// loop exits; a slow consumer loses ticks rather than stalling the loop.
func (s *Stream) Read(ctx context.Context) (<-chan *models.Tick, <-chan error) {
	ticks := make(chan *models.Tick, 1024)
	errs := make(chan error, 1)

	go s.pingLoop(ctx)

	go func() {
		defer close(ticks)
		defer close(errs)
		for ctx.Err() == nil {
			conn := s.current()
			if conn == nil {
				errs <- fmt.Errorf("price stream not connected")
				return
			}
			_, b, err := conn.ReadMessage()
			if err != nil {
				errs <- fmt.Errorf("price stream read: %w", err)
				return
			}
			for _, t := range decodeTicks(b) {
				select {
				case ticks <- t:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return ticks, errs
}

func (s *Stream) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			conn := s.current()
			if conn == nil {
				continue
			}
			s.writeMu.Lock()
			_ = conn.WriteMessage(websocket.PingMessage, nil)
			s.writeMu.Unlock()
		}
	}
}

// Reconnect drops the current connection, waits the configured delay and
// re-subscribes on a fresh one.
func (s *Stream) Reconnect(ctx context.Context) error {
	_ = s.Close()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.reconnectDelay):
	}

	if err := s.Connect(ctx); err != nil {
		return err
	}
	return s.Subscribe(ctx)
}

// Close closes the WS connection.
func (s *Stream) Close() error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (s *Stream) IsConnected() bool { return s.current() != nil }
