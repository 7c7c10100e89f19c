// internal/status/constants.go
package status

// Section names of a normalized status snapshot.
// The set is fixed: every published snapshot carries all of them.

// ---- COPIED VERBATIM FROM THE PROVIDER ----

const SectionOS = "os"
const SectionGateway = "gateway"
const SectionAgents = "agents"
const SectionSessions = "sessions"
const SectionHeartbeat = "heartbeat"
const SectionMemory = "memory"

// ---- DERIVED BY THE BRIDGE ----

// SectionDisk holds the parsed disk usage report.
const SectionDisk = "disk"

// SectionChannels holds link state of the messaging channels.
const SectionChannels = "channels"

// ---- RESERVED ----

// KeyTimestamp is the capture time key in the encoded document.
// No section may use it.
const KeyTimestamp = "timestamp"

// Sections lists every section in encoding order.
var Sections = []string{
	SectionOS,
	SectionGateway,
	SectionAgents,
	SectionSessions,
	SectionHeartbeat,
	SectionMemory,
	SectionDisk,
	SectionChannels,
}

// EmptySection is the value substituted for a missing section.
var EmptySection = []byte("{}")
