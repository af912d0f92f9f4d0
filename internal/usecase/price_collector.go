package usecase

import (
	"context"

	"StockScope/internal/domain/models"
	drepo "StockScope/internal/domain/repository"
	xlogger "StockScope/pkg/logger"
)

// PriceCollector consumes the live price stream and records last prices.
type PriceCollector struct {
	stream  drepo.PriceStream
	metrics drepo.Metrics
	logger  *xlogger.Logger
}

// NewPriceCollector creates a new PriceCollector instance.
func NewPriceCollector(stream drepo.PriceStream, metrics drepo.Metrics, logger *xlogger.Logger) *PriceCollector {
	return &PriceCollector{stream: stream, metrics: metrics, logger: logger}
}

// IsConnected returns true if the price stream is connected.
func (c *PriceCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *PriceCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	tickCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, tickCh, errCh)
	return nil
}

func (c *PriceCollector) consume(ctx context.Context, tickCh <-chan *models.Tick, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.logger.Warn("price stream error, reconnecting", xlogger.Error(err))
				if rerr := c.stream.Reconnect(ctx); rerr != nil {
					c.logger.Error("price stream reconnect failed", xlogger.Error(rerr))
					return
				}
				tickCh, errCh = c.stream.Read(ctx)
			}
		case t := <-tickCh:
			if t == nil {
				continue
			}
			c.metrics.RecordLastPrice(t.Symbol, t.Price)
		}
	}
}

// Stop closes the stream.
func (c *PriceCollector) Stop() error { return c.stream.Close() }
