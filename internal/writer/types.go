// internal/writer/types.go
package writer

import "context"

// Kind names the document being delivered.
type Kind string

const (
	KindStatus   Kind = "status"
	KindMessages Kind = "messages"
)

// Document is one rendered snapshot ready for delivery.
//
// Body is the exact bytes consumers read. Value carries the typed source
// (status.Snapshot or chat.Aggregate) for sinks that need fields, not bytes.
type Document struct {
	Kind  Kind
	Name  string
	Body  []byte
	Value any
}

// Writer delivers a document to one destination.
// Delivery only: no interpretation, no retries.
type Writer interface {
	Write(ctx context.Context, doc Document) error
}
