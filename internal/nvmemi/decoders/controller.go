package decoders

import (
	"fmt"

	"github.com/sphinxmi/nvmemi/internal/nvmemi"
)

const (
	controllerEntryLen12 = 16
	controllerEntryLen2x = 32
)

// Controller decodes a Controller Health Status Poll response (opcode 0x02,
// MI command): a packed list of fixed-width per-controller entries. Entry
// width is inferred from the data length, the same length-not-flag branch
// health.go uses, since entries never mix widths within one response.
var Controller = nvmemi.DecoderFunc(decodeController)

func decodeController(data []byte, resp *nvmemi.DecodedResponse) error {
	entryLen := controllerEntryLen12
	if len(data)%controllerEntryLen2x == 0 && len(data) > 0 {
		entryLen = controllerEntryLen2x
	}
	if entryLen == 0 || len(data)%entryLen != 0 {
		return nvmemi.ErrTruncatedResponse
	}

	count := len(data) / entryLen
	resp.Fields.Set("controller_count", fmt.Sprintf("%d", count), nil)

	for i := 0; i < count; i++ {
		entry := data[i*entryLen : (i+1)*entryLen]
		if len(entry) < 7 {
			return nvmemi.ErrTruncatedResponse
		}
		ctrlID := u16LE(entry[0:2])
		prefix := fmt.Sprintf("controller[%d].", ctrlID)

		resp.Fields.Set(prefix+"controller_id", fmt.Sprintf("%d", ctrlID), entry[0:2])
		resp.Fields.Set(prefix+"status_flags", fmt.Sprintf("0x%04x", u16LE(entry[2:4])), entry[2:4])
		resp.Fields.Set(prefix+"composite_temperature", kelvin(entry[4:6]), entry[4:6])
		resp.Fields.Set(prefix+"percentage_drive_life_used", percent(entry[6]), entry[6:7])

		if entryLen == controllerEntryLen2x && len(entry) >= 9 {
			resp.Fields.Set(prefix+"available_spare", percent(entry[7]), entry[7:8])
			resp.Fields.Set(prefix+"critical_warning", fmt.Sprintf("0x%02x", entry[8]), entry[8:9])
		}
	}
	return nil
}
