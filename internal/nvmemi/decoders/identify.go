package decoders

import "github.com/sphinxmi/nvmemi/internal/nvmemi"

// IdentifyLen is the fixed size of the Identify Controller data structure
// (Admin opcode 0x06, CNS=0x01).
const IdentifyLen = 4096

// Identify decodes an Identify Controller response: serial number, model
// number, and firmware revision at the fixed offsets spec.md §6 names.
var Identify = nvmemi.DecoderFunc(decodeIdentify)

func decodeIdentify(data []byte, resp *nvmemi.DecodedResponse) error {
	if len(data) < IdentifyLen {
		return nvmemi.ErrTruncatedResponse
	}
	resp.Fields.Set("serial_number", ascii(data[4:24]), data[4:24])
	resp.Fields.Set("model_number", ascii(data[24:64]), data[24:64])
	resp.Fields.Set("firmware_revision", ascii(data[64:72]), data[64:72])
	return nil
}
