package decoders

import (
	"fmt"

	"github.com/sphinxmi/nvmemi/internal/nvmemi"
)

// FirmwareSlotLen is the fixed size of the Firmware Slot Information log
// page (Admin opcode 0x02, LID 0x03).
const FirmwareSlotLen = 512

// FirmwareSlot decodes a Firmware Slot Information log page: the active
// firmware info byte, then seven 8-byte revision strings at offsets
// 8,16,...,56.
var FirmwareSlot = nvmemi.DecoderFunc(decodeFirmwareSlot)

func decodeFirmwareSlot(data []byte, resp *nvmemi.DecodedResponse) error {
	if len(data) < FirmwareSlotLen {
		return nvmemi.ErrTruncatedResponse
	}
	afi := data[0]
	resp.Fields.Set("active_firmware_info", fmt.Sprintf("0x%02x", afi), data[0:1])
	resp.Fields.Set("active_slot", fmt.Sprintf("%d", afi&0x7), data[0:1])

	for slot := 1; slot <= 7; slot++ {
		off := 8 * slot
		rev := ascii(data[off : off+8])
		if rev == "" {
			continue
		}
		resp.Fields.Set(fmt.Sprintf("slot[%d].firmware_revision", slot), rev, data[off:off+8])
	}
	return nil
}
