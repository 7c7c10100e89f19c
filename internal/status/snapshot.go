// internal/status/snapshot.go
package status

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
)

// Snapshot is the normalized status of the external system.
// It contains no logic and no memory of the past beyond current state.
// A Snapshot is treated as immutable once built.
type Snapshot struct {
	CapturedAtMillis int64
	Sections         map[string]json.RawMessage
}

// Empty returns the zero snapshot with every section present and empty.
func Empty() Snapshot {
	s := Snapshot{Sections: make(map[string]json.RawMessage, len(Sections))}
	for _, name := range Sections {
		s.Sections[name] = json.RawMessage(EmptySection)
	}
	return s
}

// Keys returns the section names in sorted order.
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s.Sections))
	for k := range s.Sections {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Section returns the raw section value, or {} if absent.
func (s Snapshot) Section(name string) json.RawMessage {
	if v, ok := s.Sections[name]; ok && len(v) > 0 {
		return v
	}
	return json.RawMessage(EmptySection)
}

// Count reads the integer "count" field of a section.
// Returns ok=false when the section has no numeric count.
func (s Snapshot) Count(section string) (int, bool) {
	var v struct {
		Count *float64 `json:"count"`
	}
	if err := json.Unmarshal(s.Section(section), &v); err != nil || v.Count == nil {
		return 0, false
	}
	return int(*v.Count), true
}

// CarryForward returns a copy of s that also holds every key of prev.
// Keys missing from s are filled with {}; the shape never shrinks.
func (s Snapshot) CarryForward(prev Snapshot) Snapshot {
	missing := false
	for k := range prev.Sections {
		if _, ok := s.Sections[k]; !ok {
			missing = true
			break
		}
	}
	if !missing {
		return s
	}

	out := Snapshot{
		CapturedAtMillis: s.CapturedAtMillis,
		Sections:         make(map[string]json.RawMessage, len(prev.Sections)),
	}
	for k, v := range s.Sections {
		out.Sections[k] = v
	}
	for k := range prev.Sections {
		if _, ok := out.Sections[k]; !ok {
			out.Sections[k] = json.RawMessage(EmptySection)
		}
	}
	return out
}

// MarshalJSON flattens sections next to the timestamp:
// {"timestamp": <ms>, "<section>": {...}, ...}
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"` + KeyTimestamp + `":`)
	ts, err := json.Marshal(s.CapturedAtMillis)
	if err != nil {
		return nil, err
	}
	buf.Write(ts)

	for _, k := range s.Keys() {
		if k == KeyTimestamp {
			return nil, errors.New("status: section name collides with timestamp")
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(s.Section(k))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (s *Snapshot) UnmarshalJSON(b []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	out := Snapshot{Sections: make(map[string]json.RawMessage, len(m))}
	for k, v := range m {
		if k == KeyTimestamp {
			if err := json.Unmarshal(v, &out.CapturedAtMillis); err != nil {
				return err
			}
			continue
		}
		out.Sections[k] = v
	}
	*s = out
	return nil
}
