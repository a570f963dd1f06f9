// Package profile implements spec.md component C8: a curated, read-only
// sweep of an NVMe-MI device that records request/response bytes, latency,
// and replay fingerprints into a portable capture, and the tooling
// (internal/cliutil's callers) to load one back for inspection, comparison,
// or a mock-device regression test.
package profile

import "time"

// SchemaVersion is the profile_version stamped on every capture this repo
// writes. Loaders reject anything else.
const SchemaVersion = "1.0"

// CapturedCommand is one request/response pair the profiler recorded,
// per spec.md §6's JSON schema.
type CapturedCommand struct {
	Opcode      uint8             `json:"opcode"`
	Params      map[string]string `json:"params,omitempty"`
	RequestHex  string            `json:"request_hex"`
	ResponseHex string            `json:"response_hex"`
	LatencyMs   float64           `json:"latency_ms"`
	Timestamp   string            `json:"timestamp"`
}

// Metadata is the device identity and capture summary spec.md §6 names.
type Metadata struct {
	Serial           string  `json:"serial"`
	Model            string  `json:"model"`
	Firmware         string  `json:"firmware"`
	NVMeMIMajor      uint8   `json:"nvme_mi_major_version"`
	NVMeMIMinor      uint8   `json:"nvme_mi_minor_version"`
	CaptureDate      string  `json:"capture_date"`
	TotalCommands    int     `json:"total_commands"`
	AvgLatencyMs     float64 `json:"avg_latency_ms"`
}

// DeviceProfile is the full capture: an identified, timestamped sweep plus
// a response_table keyed by fingerprint for mock replay (spec.md §4.6).
type DeviceProfile struct {
	ProfileName    string            `json:"profile_name"`
	ProfileVersion string            `json:"profile_version"`
	CaptureID      string            `json:"capture_id"`
	Metadata       Metadata          `json:"metadata"`

	HealthCommands        []CapturedCommand `json:"health_commands"`
	DataStructureCommands []CapturedCommand `json:"data_structure_commands"`
	ConfigurationCommands []CapturedCommand `json:"configuration_commands"`
	VPDCommands           []CapturedCommand `json:"vpd_commands"`

	ResponseTable map[string]string `json:"response_table"`
}

// allCommands returns every recorded command across the four categories, in
// capture order within each category.
func (p *DeviceProfile) allCommands() []CapturedCommand {
	out := make([]CapturedCommand, 0, len(p.HealthCommands)+len(p.DataStructureCommands)+len(p.ConfigurationCommands)+len(p.VPDCommands))
	out = append(out, p.HealthCommands...)
	out = append(out, p.DataStructureCommands...)
	out = append(out, p.ConfigurationCommands...)
	out = append(out, p.VPDCommands...)
	return out
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
