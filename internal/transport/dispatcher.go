package transport

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Dispatcher fans chunked payloads out to the gateway concurrently and
// joins on all of them before returning.
type Dispatcher struct {
	sender *Sender
	logger *slog.Logger
}

func NewDispatcher(sender *Sender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		logger: logger.With("component", "Dispatcher"),
	}
}

// Dispatch sends every payload concurrently and waits for all to settle.
// The returned slice matches the order of payloads. On failure the first
// error is returned after the join; sends still in flight observe the
// group context's cancellation but are not otherwise interrupted, and no
// partial result is produced.
func (d *Dispatcher) Dispatch(ctx context.Context, endpoint string, payloads [][]byte) ([]*Response, error) {
	responses := make([]*Response, len(payloads))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range payloads {
		g.Go(func() error {
			resp, err := d.sender.Post(gctx, endpoint, p)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			responses[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.logger.Debug("All chunks dispatched", "count", len(payloads))
	return responses, nil
}
