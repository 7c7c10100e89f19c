// internal/transform/messages.go
package transform

import (
	"github.com/tamzrod/openpad-bridge/internal/chat"
	"github.com/tamzrod/openpad-bridge/internal/provider"
)

const (
	// DefaultAvatarBase is the CDN prefix for user avatars.
	DefaultAvatarBase = "https://cdn.discordapp.com/avatars"

	unknownUsername = "unknown"
	defaultEmoji    = "👍"
)

// Messages converts a provider batch (newest first) into oldest-first messages.
// Pure: the same input always yields the same output.
func Messages(raw []provider.RawMessage, senders SenderMapping, avatarBase string) []chat.Message {
	if avatarBase == "" {
		avatarBase = DefaultAvatarBase
	}

	out := make([]chat.Message, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		out = append(out, message(raw[i], senders, avatarBase))
	}
	return out
}

func message(m provider.RawMessage, senders SenderMapping, avatarBase string) chat.Message {
	username := unknownUsername
	var author provider.RawAuthor
	if m.Author != nil {
		author = *m.Author
		if author.Username != "" {
			username = author.Username
		}
	}

	displayName := username
	if author.GlobalName != nil && *author.GlobalName != "" {
		displayName = *author.GlobalName
	}

	return chat.Message{
		ID:             m.ID,
		SenderID:       senders.Resolve(displayName, username),
		DisplayName:    displayName,
		AvatarURL:      avatarURL(author, avatarBase),
		Text:           m.Content,
		SentAt:         m.Timestamp,
		Reactions:      reactions(m.Reactions),
		AttachmentURLs: attachments(m.Attachments),
	}
}

// avatarURL is set only when both the author id and the avatar hash are known.
func avatarURL(a provider.RawAuthor, base string) *string {
	if a.ID == "" || a.Avatar == nil || *a.Avatar == "" {
		return nil
	}
	u := base + "/" + a.ID + "/" + *a.Avatar + ".png"
	return &u
}

func reactions(raw []provider.RawReaction) []chat.Reaction {
	out := make([]chat.Reaction, 0, len(raw))
	for _, r := range raw {
		emoji := defaultEmoji
		if r.Emoji != nil && r.Emoji.Name != nil && *r.Emoji.Name != "" {
			emoji = *r.Emoji.Name
		}
		count := 1
		if r.Count != nil {
			count = *r.Count
		}
		out = append(out, chat.Reaction{Emoji: emoji, Count: count})
	}
	return out
}

// attachments keeps only entries that carry a URL.
func attachments(raw []provider.RawAttachment) []string {
	out := make([]string, 0, len(raw))
	for _, a := range raw {
		if a.URL != "" {
			out = append(out, a.URL)
		}
	}
	return out
}
