// internal/writer/writer.go
package writer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

type sink struct {
	name string
	w    Writer
}

// Publisher fans a document out to every configured sink.
// A failing sink never prevents delivery to the others.
type Publisher struct {
	sinks []sink
}

func New() *Publisher {
	return &Publisher{}
}

// Add registers a sink under name. Nil writers are ignored.
func (p *Publisher) Add(name string, w Writer) {
	if w == nil {
		return
	}
	p.sinks = append(p.sinks, sink{name: name, w: w})
}

// Sinks returns the registered sink names in order.
func (p *Publisher) Sinks() []string {
	out := make([]string, 0, len(p.sinks))
	for _, s := range p.sinks {
		out = append(out, s.name)
	}
	return out
}

// Persist delivers doc to every sink.
// Errors are joined; the caller decides whether to log.
func (p *Publisher) Persist(ctx context.Context, doc Document) error {
	var errs []string

	for _, s := range p.sinks {
		if err := s.w.Write(ctx, doc); err != nil {
			errs = append(errs, fmt.Sprintf(
				"writer: sink=%s kind=%s err=%v",
				s.name, doc.Kind, err,
			))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}
	return nil
}

// Close closes every sink that holds a connection.
func (p *Publisher) Close() error {
	var errs []string
	for _, s := range p.sinks {
		c, ok := s.w.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("writer: close sink=%s err=%v", s.name, err))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}
	return nil
}
