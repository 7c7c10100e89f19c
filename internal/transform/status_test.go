// internal/transform/status_test.go
package transform

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/tamzrod/openpad-bridge/internal/provider"
	"github.com/tamzrod/openpad-bridge/internal/status"
)

const dfReport = `Filesystem     1G-blocks  Used Available Use% Mounted on
/dev/root            97G   41G       57G  42% /
`

func rawRecord(t *testing.T, doc string) provider.RawRecord {
	t.Helper()
	var r provider.RawRecord
	if err := json.Unmarshal([]byte(doc), &r); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return r
}

func TestStatus_CopiesSectionsVerbatim(t *testing.T) {
	raw := rawRecord(t, `{"os":{"platform":"linux","cpuCount":4},"sessions":{"count":7}}`)

	s := Status(raw, dfReport, time.UnixMilli(1700000000000), true)

	if s.CapturedAtMillis != 1700000000000 {
		t.Fatalf("timestamp got=%d", s.CapturedAtMillis)
	}
	if string(s.Sections[status.SectionOS]) != `{"platform":"linux","cpuCount":4}` {
		t.Fatalf("os section altered: %s", s.Sections[status.SectionOS])
	}
	if n, ok := s.Count(status.SectionSessions); !ok || n != 7 {
		t.Fatalf("sessions count got=%d ok=%v", n, ok)
	}
}

func TestStatus_MissingSectionsBecomeEmpty(t *testing.T) {
	raw := rawRecord(t, `{"gateway":null,"unexpected":{"x":1}}`)

	s := Status(raw, "", time.Now(), false)

	for _, name := range status.Sections {
		if _, ok := s.Sections[name]; !ok {
			t.Fatalf("section %q missing", name)
		}
	}
	for _, name := range []string{status.SectionOS, status.SectionGateway, status.SectionDisk} {
		if string(s.Sections[name]) != "{}" {
			t.Fatalf("section %q: got=%s want={}", name, s.Sections[name])
		}
	}
	if _, ok := s.Sections["unexpected"]; ok {
		t.Fatalf("unknown provider key should be dropped")
	}
}

func TestStatus_ChannelsSection(t *testing.T) {
	raw := rawRecord(t, `{"linkChannel":{"linked":true}}`)
	s := Status(raw, "", time.Now(), true)

	var ch struct {
		WhatsApp struct{ Linked bool } `json:"whatsapp"`
		Discord  struct{ Configured bool } `json:"discord"`
	}
	if err := json.Unmarshal(s.Sections[status.SectionChannels], &ch); err != nil {
		t.Fatalf("channels not JSON: %v", err)
	}
	if !ch.WhatsApp.Linked || !ch.Discord.Configured {
		t.Fatalf("unexpected channels: %s", s.Sections[status.SectionChannels])
	}

	s = Status(rawRecord(t, `{"linkChannel":{"linked":"yes"}}`), "", time.Now(), false)
	if string(s.Sections[status.SectionChannels]) != `{"whatsapp":{"linked":false},"discord":{"configured":false}}` {
		t.Fatalf("unexpected channels: %s", s.Sections[status.SectionChannels])
	}
}

func TestStatus_Idempotent(t *testing.T) {
	raw := rawRecord(t, `{"os":{"a":1},"memory":{"files":3}}`)
	at := time.UnixMilli(42)

	a := Status(raw, dfReport, at, true)
	b := Status(raw, dfReport, at, true)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("status transform not idempotent")
	}
}

func TestParseDisk(t *testing.T) {
	got := ParseDisk(dfReport)
	want := `{"totalGb":97,"usedGb":41,"freeGb":57,"percentUsed":42}`
	if string(got) != want {
		t.Fatalf("got=%s want=%s", got, want)
	}
}

func TestParseDisk_Degrades(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"headerOnly": "Filesystem 1G-blocks Used Available Use% Mounted on\n",
		"shortRow":   "Filesystem 1G-blocks Used\n/dev/root 97G 41G\n",
		"notNumbers": "Filesystem 1G-blocks Used Available Use% Mounted on\n/dev/root lots some few many% /\n",
	}
	for name, report := range cases {
		if got := string(ParseDisk(report)); got != "{}" {
			t.Fatalf("%s: got=%s want={}", name, got)
		}
	}
}
