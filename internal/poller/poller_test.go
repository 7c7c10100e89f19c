// internal/poller/poller_test.go
package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeFetcher struct {
	calls int32
	fail  bool
}

func (f *fakeFetcher) fetch(ctx context.Context) (int, error) {
	n := atomic.AddInt32(&f.calls, 1)
	if f.fail {
		return 99, errors.New("fetch failed")
	}
	return int(n), nil
}

func TestNew_Validation(t *testing.T) {
	ff := &fakeFetcher{}

	if _, err := New(Config{Interval: time.Second}, ff.fetch); err == nil {
		t.Fatalf("expected error for empty target")
	}
	if _, err := New(Config{Target: "status"}, ff.fetch); err == nil {
		t.Fatalf("expected error for zero interval")
	}
	if _, err := New[int](Config{Target: "status", Interval: time.Second}, nil); err == nil {
		t.Fatalf("expected error for nil fetch")
	}
}

func TestPollOnce_Success(t *testing.T) {
	ff := &fakeFetcher{}
	p, err := New(Config{Target: "status", Interval: time.Second}, ff.fetch)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	res := p.PollOnce(context.Background())
	if res.Err != nil {
		t.Fatalf("PollOnce err=%v", res.Err)
	}
	if res.Target != "status" || res.Value != 1 || res.At.IsZero() {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestPollOnce_FailureDiscardsValue(t *testing.T) {
	ff := &fakeFetcher{fail: true}
	p, err := New(Config{Target: "messages", Interval: time.Second}, ff.fetch)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	res := p.PollOnce(context.Background())
	if res.Err == nil {
		t.Fatalf("expected error, got nil")
	}
	if res.Value != 0 {
		t.Fatalf("failed cycle must not carry a value, got %d", res.Value)
	}
}

func TestRun_FirstCycleIsImmediate(t *testing.T) {
	ff := &fakeFetcher{}
	p, _ := New(Config{Target: "status", Interval: time.Hour}, ff.fetch)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan PollResult[int], 1)
	go p.Run(ctx, out)

	select {
	case res := <-out:
		if res.Value != 1 {
			t.Fatalf("unexpected first value %d", res.Value)
		}
	case <-time.After(time.Second):
		t.Fatalf("first cycle did not run immediately")
	}
}

func TestRun_KickTriggersEarlyCycle(t *testing.T) {
	ff := &fakeFetcher{}
	p, _ := New(Config{Target: "messages", Interval: time.Hour}, ff.fetch)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan PollResult[int])
	go p.Run(ctx, out)
	<-out

	p.Kick()
	p.Kick() // coalesced

	select {
	case res := <-out:
		if res.Value != 2 {
			t.Fatalf("unexpected kicked value %d", res.Value)
		}
	case <-time.After(time.Second):
		t.Fatalf("kick did not trigger a cycle")
	}
}

func TestKick_NeverBlocks(t *testing.T) {
	p, _ := New(Config{Target: "x", Interval: time.Second}, (&fakeFetcher{}).fetch)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			p.Kick()
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Kick blocked without a running loop")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	ff := &fakeFetcher{}
	p, _ := New(Config{Target: "status", Interval: time.Millisecond}, ff.fetch)

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan PollResult[int]) // nobody reads after the first result

	done := make(chan struct{})
	go func() {
		p.Run(ctx, out)
		close(done)
	}()

	<-out
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
