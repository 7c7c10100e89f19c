// internal/writer/document.go
package writer

import (
	"github.com/tamzrod/openpad-bridge/internal/chat"
	"github.com/tamzrod/openpad-bridge/internal/status"
)

const (
	DefaultStatusName   = "status.json"
	DefaultMessagesName = "discord-messages.json"
)

// StatusDocument renders a status snapshot.
func StatusDocument(s status.Snapshot) (Document, error) {
	body, err := status.Encode(s)
	if err != nil {
		return Document{}, err
	}
	return Document{Kind: KindStatus, Name: DefaultStatusName, Body: body, Value: s}, nil
}

// MessagesDocument renders a channel aggregate.
func MessagesDocument(a chat.Aggregate) (Document, error) {
	body, err := chat.Encode(a)
	if err != nil {
		return Document{}, err
	}
	return Document{Kind: KindMessages, Name: DefaultMessagesName, Body: body, Value: a}, nil
}
