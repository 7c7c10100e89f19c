// cmd/bridge/shutdown.go
package main

import (
	"context"
	"errors"
	"log/slog"
)

type stopper interface {
	Stop(ctx context.Context) error
}

// stopServer stops the API. Reaching the shutdown deadline with requests
// still in flight counts as a clean stop; those requests are dropped.
func stopServer(s stopper, logger *slog.Logger) error {
	err := s.Stop(context.Background())
	if errors.Is(err, context.DeadlineExceeded) {
		logger.Warn("shutdown deadline reached, in-flight requests dropped")
		return nil
	}
	return err
}
