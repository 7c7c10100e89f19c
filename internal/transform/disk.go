// internal/transform/disk.go
package transform

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tamzrod/openpad-bridge/internal/status"
)

// DiskUsage is the disk section of a status snapshot, in whole gigabytes.
type DiskUsage struct {
	TotalGb     int `json:"totalGb"`
	UsedGb      int `json:"usedGb"`
	FreeGb      int `json:"freeGb"`
	PercentUsed int `json:"percentUsed"`
}

// ParseDisk reads a `df -BG` style report: one header row, then one data row
//
//	Filesystem     1G-blocks  Used Available Use% Mounted on
//	/dev/root            97G   41G       57G  42% /
//
// A short or malformed report yields {} instead of an error.
func ParseDisk(report string) json.RawMessage {
	d, ok := parseDisk(report)
	if !ok {
		return json.RawMessage(status.EmptySection)
	}
	b, err := json.Marshal(d)
	if err != nil {
		return json.RawMessage(status.EmptySection)
	}
	return b
}

func parseDisk(report string) (DiskUsage, bool) {
	lines := strings.Split(strings.TrimSpace(report), "\n")
	if len(lines) < 2 {
		return DiskUsage{}, false
	}

	parts := strings.Fields(lines[1])
	if len(parts) < 5 {
		return DiskUsage{}, false
	}

	var d DiskUsage
	var err error
	if d.TotalGb, err = atoiSuffix(parts[1], "G"); err != nil {
		return DiskUsage{}, false
	}
	if d.UsedGb, err = atoiSuffix(parts[2], "G"); err != nil {
		return DiskUsage{}, false
	}
	if d.FreeGb, err = atoiSuffix(parts[3], "G"); err != nil {
		return DiskUsage{}, false
	}
	if d.PercentUsed, err = atoiSuffix(parts[4], "%"); err != nil {
		return DiskUsage{}, false
	}
	return d, true
}

func atoiSuffix(s, suffix string) (int, error) {
	return strconv.Atoi(strings.TrimSuffix(s, suffix))
}
