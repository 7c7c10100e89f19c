// internal/chat/encode_test.go
package chat

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestEncode_EmptyAggregate(t *testing.T) {
	b, err := Encode(Aggregate{SourceID: "g1"})
	if err != nil {
		t.Fatalf("Encode err=%v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got["guildId"] != "g1" {
		t.Fatalf("guildId got=%v", got["guildId"])
	}
	ch, ok := got["channels"].(map[string]any)
	if !ok || len(ch) != 0 {
		t.Fatalf("channels should be an empty object, got=%v", got["channels"])
	}
}

func TestEncode_KeepsNonASCIIAndHTML(t *testing.T) {
	a := EmptyAggregate("g1")
	a.UpdatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a.Channels["adalras"] = ChannelState{
		ChannelID:   "1",
		DisplayName: "aðalrás",
		Messages: []Message{{
			ID:             "m1",
			SenderID:       "arnar",
			DisplayName:    "Arnar 👑",
			Text:           "<b>halló</b> & bless",
			Reactions:      []Reaction{},
			AttachmentURLs: []string{},
		}},
	}

	b, err := Encode(a)
	if err != nil {
		t.Fatalf("Encode err=%v", err)
	}
	s := string(b)

	for _, want := range []string{"aðalrás", "Arnar 👑", "<b>halló</b> & bless", `"authorAvatar": null`, `"updatedAt": "2026-01-02T03:04:05Z"`} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %q in:\n%s", want, s)
		}
	}
	if !strings.Contains(s, "\n  ") {
		t.Fatalf("expected indented output")
	}
}

func TestMessageCount(t *testing.T) {
	a := EmptyAggregate("g1")
	a.Channels["x"] = ChannelState{Messages: make([]Message, 3)}

	if got := a.MessageCount("x"); got != 3 {
		t.Fatalf("count got=%d", got)
	}
	if got := a.MessageCount("missing"); got != 0 {
		t.Fatalf("missing count got=%d", got)
	}
}
