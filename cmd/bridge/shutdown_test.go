// cmd/bridge/shutdown_test.go
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

type stopFunc func(ctx context.Context) error

func (f stopFunc) Stop(ctx context.Context) error { return f(ctx) }

func TestStopServer_DeadlineIsCleanStop(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := stopServer(stopFunc(func(context.Context) error {
		return context.DeadlineExceeded
	}), log)
	if err != nil {
		t.Fatalf("deadline should be a clean stop, got %v", err)
	}
}

func TestStopServer_OtherErrorsPropagate(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	boom := errors.New("listener close failed")

	if err := stopServer(stopFunc(func(context.Context) error { return boom }), log); !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
	if err := stopServer(stopFunc(func(context.Context) error { return nil }), log); err != nil {
		t.Fatalf("got %v", err)
	}
}
