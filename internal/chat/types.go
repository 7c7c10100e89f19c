// internal/chat/types.go
package chat

import "time"

// Reaction is one emoji reaction and how many times it was added.
type Reaction struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// Message is a normalized channel message.
// JSON names follow the frontend contract.
type Message struct {
	ID             string     `json:"id"`
	SenderID       string     `json:"agentId"`
	DisplayName    string     `json:"authorName"`
	AvatarURL      *string    `json:"authorAvatar"`
	Text           string     `json:"text"`
	SentAt         string     `json:"timestamp"`
	Reactions      []Reaction `json:"reactions"`
	AttachmentURLs []string   `json:"attachments"`
}

// ChannelState is the current truth for one channel.
// It is replaced wholesale every poll cycle; messages are oldest-first.
type ChannelState struct {
	ChannelID   string    `json:"id"`
	DisplayName string    `json:"name"`
	Icon        string    `json:"icon"`
	Description string    `json:"desc"`
	Messages    []Message `json:"messages"`
}

// Aggregate is every channel's state plus source metadata.
type Aggregate struct {
	SourceID  string                  `json:"guildId"`
	UpdatedAt time.Time               `json:"updatedAt"`
	Channels  map[string]ChannelState `json:"channels"`
}

// EmptyAggregate is what readers see before the first successful poll.
func EmptyAggregate(sourceID string) Aggregate {
	return Aggregate{
		SourceID: sourceID,
		Channels: map[string]ChannelState{},
	}
}

// MessageCount returns the number of messages held for slug.
func (a Aggregate) MessageCount(slug string) int {
	return len(a.Channels[slug].Messages)
}
