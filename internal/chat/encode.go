// internal/chat/encode.go
package chat

import (
	"bytes"
	"encoding/json"
)

// Encode renders an Aggregate as pretty-printed UTF-8 JSON.
// Non-ASCII text is written as-is and HTML characters are not escaped.
func Encode(a Aggregate) ([]byte, error) {
	if a.Channels == nil {
		a.Channels = map[string]ChannelState{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
