// Package mockdevice implements spec.md component C6: a single-threaded
// NVMe-MI device state machine used in place of real hardware for
// deterministic testing, grounded on the same request/response framing
// internal/mctp and internal/nvmemi already build for the real transport.
package mockdevice

import (
	"github.com/sphinxmi/nvmemi/internal/fragment"
	"github.com/sphinxmi/nvmemi/internal/nvmemi"
)

// MI command opcodes this device answers (NMIMT=1), aliased from nvmemi's
// canonical definitions so callers can use either package's names.
const (
	OpReadDataStructure = nvmemi.MIOpcodeReadDataStructure
	OpHealthStatusPoll  = nvmemi.MIOpcodeHealthStatusPoll
	OpControllerHealth  = nvmemi.MIOpcodeControllerHealth
	OpConfigurationSet  = nvmemi.MIOpcodeConfigurationSet
	OpConfigurationGet  = nvmemi.MIOpcodeConfigurationGet
	OpVPDRead           = nvmemi.MIOpcodeVPDRead
	OpVPDWrite          = nvmemi.MIOpcodeVPDWrite
)

// Data structure types for OpReadDataStructure.
const (
	DSTypeSubsystemInfo uint8 = 0x00
	DSTypeControllerList uint8 = 0x02
)

// Configuration identifiers for OpConfigurationGet/Set the profiler sweeps.
const (
	ConfigSMBusFreq  uint8 = 0x01
	ConfigHealthPoll uint8 = 0x02
)

// ControllerState is the per-controller slice of Device state a Controller
// Health Status Poll response reports on.
type ControllerState struct {
	ID                  uint16
	CompositeTempK      uint16
	PercentageUsed      uint8
	AvailableSpare      uint8
	CriticalWarning     uint8
	StatusFlags         uint16
}

// Device is the mock's entire state. Every scenario field is exported (only
// the configuration values and the reassembler are not) so tests can
// reach in and set up a scenario (spec.md §8 scenario 6's set_temperature)
// without a constructor method for every field.
type Device struct {
	CompositeTempK  uint16
	AvailableSpare  uint8
	SpareThreshold  uint8
	PercentageUsed  uint8
	SMARTWarnings   uint8

	SubsystemMajor uint8
	SubsystemMinor uint8

	Controllers []ControllerState

	VPD []byte

	SMARTLog      []byte // pre-built 512-byte log, or nil to synthesize from the fields above
	FirmwareSlots [8]string

	IdentifySerial   string
	IdentifyModel    string
	IdentifyFirmware string

	// ResponseTable replays a captured profile: fingerprint(request) →
	// exact response data segment (status byte first, then data), taking
	// priority over synthesis on a hit (spec.md §4.6).
	ResponseTable map[string][]byte

	configValues map[uint8]uint32
	reasm        *fragment.Reassembler
}

// New creates a Device with plausible defaults: 24°C, full spare capacity,
// NVMe-MI 1.2, and a single healthy controller (id 0).
func New() *Device {
	return &Device{
		CompositeTempK: 297, // 24°C
		AvailableSpare: 100,
		SpareThreshold: 10,
		PercentageUsed: 0,
		SubsystemMajor: 1,
		SubsystemMinor: 2,
		Controllers: []ControllerState{
			{ID: 0, CompositeTempK: 297, PercentageUsed: 0, AvailableSpare: 100},
		},
		IdentifySerial:   "SPHINXMI0000000001",
		IdentifyModel:    "Sphinx NVMe-MI Mock Device",
		IdentifyFirmware: "1.0.0",
		configValues: map[uint8]uint32{
			ConfigSMBusFreq:  400000,
			ConfigHealthPoll: 0,
		},
	}
}

// SetTemperature sets the composite temperature (and controller 0's, if
// present) from a Celsius value, per spec.md §8 scenario 6.
func (d *Device) SetTemperature(celsius int) {
	k := uint16(celsius + 273)
	d.CompositeTempK = k
	if len(d.Controllers) > 0 {
		d.Controllers[0].CompositeTempK = k
	}
}
