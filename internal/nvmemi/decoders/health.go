package decoders

import (
	"fmt"

	"github.com/sphinxmi/nvmemi/internal/nvmemi"
)

// minHealthLen is the shortest data segment (after the status byte) that
// still carries subsystem status through available spare.
const minHealthLen = 6

// Health decodes an NVM Subsystem Health Status Poll response (opcode 0x01,
// MI command). The layout branches on payload length rather than on a
// version flag, per spec.md §9: 1.2 responses carry 19 bytes after status,
// 2.x responses carry 31 with an extra endurance/vendor tail.
var Health = nvmemi.DecoderFunc(decodeHealth)

func decodeHealth(data []byte, resp *nvmemi.DecodedResponse) error {
	if len(data) < minHealthLen {
		return nvmemi.ErrTruncatedResponse
	}

	resp.Fields.Set("subsystem_status", byteHex(data[0]), data[0:1])
	resp.Fields.Set("smart_warnings", byteHex(data[1]), data[1:2])
	resp.Fields.Set("composite_temperature", kelvin(data[2:4]), data[2:4])
	resp.Fields.Set("percentage_drive_life_used", percent(data[4]), data[4:5])
	resp.Fields.Set("available_spare", percent(data[5]), data[5:6])

	const extendedLen = 31 // 2.x: 19 reserved-to bytes + 12-byte tail
	if len(data) >= extendedLen {
		tail := data[extendedLen-12 : extendedLen]
		resp.Fields.Set("endurance_group_warning", fmt.Sprintf("0x%08x", u32LE(tail[0:4])), tail[0:4])
		resp.Fields.Set("vendor_specific", fmt.Sprintf("0x%08x", u32LE(tail[8:12])), tail[8:12])
	}
	return nil
}

func byteHex(b uint8) string {
	const hexDigits = "0123456789abcdef"
	return "0x" + string(hexDigits[b>>4]) + string(hexDigits[b&0xF])
}
