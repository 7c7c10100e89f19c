// internal/status/encode.go
package status

import (
	"bytes"
	"encoding/json"
)

// Encode renders a Snapshot as the pretty-printed document consumers read.
// No IO. No side effects.
func Encode(s Snapshot) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
