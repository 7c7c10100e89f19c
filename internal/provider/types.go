// internal/provider/types.go
package provider

import "encoding/json"

// RawRecord is the top level of a status payload.
// Values stay opaque until a section is copied verbatim.
type RawRecord map[string]json.RawMessage

// RawMessage is one channel message as the provider returns it.
// Every optional field is a pointer so "absent" and "empty" stay distinct.
// Fields not declared here are dropped on decode.
type RawMessage struct {
	ID          string          `json:"id"`
	Content     string          `json:"content"`
	Timestamp   string          `json:"timestamp"`
	Author      *RawAuthor      `json:"author,omitempty"`
	Reactions   []RawReaction   `json:"reactions,omitempty"`
	Attachments []RawAttachment `json:"attachments,omitempty"`
}

// RawAuthor identifies the sender of a RawMessage.
type RawAuthor struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	GlobalName *string `json:"global_name,omitempty"`
	Avatar     *string `json:"avatar,omitempty"`
}

// RawReaction is one reaction entry.
type RawReaction struct {
	Emoji *RawEmoji `json:"emoji,omitempty"`
	Count *int      `json:"count,omitempty"`
}

// RawEmoji carries the emoji name; custom emojis may omit it.
type RawEmoji struct {
	Name *string `json:"name,omitempty"`
}

// RawAttachment is one uploaded file.
type RawAttachment struct {
	URL string `json:"url"`
}
