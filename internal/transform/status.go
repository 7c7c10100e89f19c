// internal/transform/status.go
package transform

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/tamzrod/openpad-bridge/internal/provider"
	"github.com/tamzrod/openpad-bridge/internal/status"
)

// verbatim are the sections copied from the provider as-is.
var verbatim = []string{
	status.SectionOS,
	status.SectionGateway,
	status.SectionAgents,
	status.SectionSessions,
	status.SectionHeartbeat,
	status.SectionMemory,
}

// linkChannelKey is the provider key carrying the WhatsApp link state.
const linkChannelKey = "linkChannel"

// Status maps a raw status record into a normalized snapshot.
// It never fails: missing or null sections become {}.
// Provider keys outside the fixed section set are dropped.
func Status(raw provider.RawRecord, diskReport string, capturedAt time.Time, discordConfigured bool) status.Snapshot {
	s := status.Snapshot{
		CapturedAtMillis: capturedAt.UnixMilli(),
		Sections:         make(map[string]json.RawMessage, len(status.Sections)),
	}

	for _, name := range verbatim {
		s.Sections[name] = section(raw, name)
	}
	s.Sections[status.SectionDisk] = ParseDisk(diskReport)
	s.Sections[status.SectionChannels] = channels(raw, discordConfigured)

	return s
}

func section(raw provider.RawRecord, name string) json.RawMessage {
	v, ok := raw[name]
	if !ok || isNull(v) {
		return json.RawMessage(status.EmptySection)
	}
	return v
}

func isNull(v json.RawMessage) bool {
	t := bytes.TrimSpace(v)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

type channelsSection struct {
	WhatsApp struct {
		Linked bool `json:"linked"`
	} `json:"whatsapp"`
	Discord struct {
		Configured bool `json:"configured"`
	} `json:"discord"`
}

func channels(raw provider.RawRecord, discordConfigured bool) json.RawMessage {
	var c channelsSection
	c.WhatsApp.Linked = linked(raw[linkChannelKey])
	c.Discord.Configured = discordConfigured

	b, err := json.Marshal(c)
	if err != nil {
		return json.RawMessage(status.EmptySection)
	}
	return b
}

// linked reads linkChannel.linked; anything but a JSON true is false.
func linked(v json.RawMessage) bool {
	if isNull(v) {
		return false
	}
	var lc struct {
		Linked bool `json:"linked"`
	}
	if err := json.Unmarshal(v, &lc); err != nil {
		return false
	}
	return lc.Linked
}
