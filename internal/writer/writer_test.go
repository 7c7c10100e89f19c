// internal/writer/writer_test.go
package writer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tamzrod/openpad-bridge/internal/chat"
	"github.com/tamzrod/openpad-bridge/internal/status"
)

// ---- fake sink ----

type fakeSink struct {
	docs   []Document
	err    error
	closed bool
}

func (f *fakeSink) Write(_ context.Context, doc Document) error {
	f.docs = append(f.docs, doc)
	return f.err
}

func (f *fakeSink) Close() error {
	f.closed = true
	return nil
}

// ---- tests ----

func TestPublisher_FanOutContinuesAfterFailure(t *testing.T) {
	bad := &fakeSink{err: errors.New("disk full")}
	good := &fakeSink{}

	p := New()
	p.Add("bad", bad)
	p.Add("good", good)
	p.Add("nil", nil)

	doc := Document{Kind: KindStatus, Name: "status.json", Body: []byte("{}")}
	err := p.Persist(context.Background(), doc)
	if err == nil {
		t.Fatalf("expected error from failing sink")
	}
	if !strings.Contains(err.Error(), "sink=bad") || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("error should name the sink: %v", err)
	}
	if len(good.docs) != 1 {
		t.Fatalf("healthy sink should still receive the document")
	}
	if got := p.Sinks(); len(got) != 2 {
		t.Fatalf("nil writer should not be registered, got %v", got)
	}
}

func TestPublisher_JoinsErrors(t *testing.T) {
	p := New()
	p.Add("a", &fakeSink{err: errors.New("one")})
	p.Add("b", &fakeSink{err: errors.New("two")})

	err := p.Persist(context.Background(), Document{Kind: KindMessages})
	if err == nil || strings.Count(err.Error(), " | ") != 1 {
		t.Fatalf("expected two joined errors, got %v", err)
	}
}

func TestPublisher_Close(t *testing.T) {
	s := &fakeSink{}
	p := New()
	p.Add("s", s)
	if err := p.Close(); err != nil {
		t.Fatalf("Close err=%v", err)
	}
	if !s.closed {
		t.Fatalf("sink not closed")
	}
}

func TestDocuments(t *testing.T) {
	sd, err := StatusDocument(status.Empty())
	if err != nil {
		t.Fatalf("StatusDocument err=%v", err)
	}
	if sd.Kind != KindStatus || sd.Name != DefaultStatusName || len(sd.Body) == 0 {
		t.Fatalf("unexpected status document: %+v", sd)
	}
	if _, ok := sd.Value.(status.Snapshot); !ok {
		t.Fatalf("status document should carry the snapshot")
	}

	md, err := MessagesDocument(chat.EmptyAggregate("g"))
	if err != nil {
		t.Fatalf("MessagesDocument err=%v", err)
	}
	if !strings.Contains(string(md.Body), `"guildId": "g"`) {
		t.Fatalf("unexpected body: %s", md.Body)
	}
}
