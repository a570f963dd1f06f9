package mockdevice

import (
	"encoding/binary"
	"fmt"

	"github.com/sphinxmi/nvmemi/internal/fingerprint"
	"github.com/sphinxmi/nvmemi/internal/nvmemi"
)

// discriminators extracts the request parameters that distinguish otherwise
// identical opcodes — data structure type, controller id, log page LID,
// Identify CNS, VPD offset, configuration identifier — using the same
// parameter names internal/profile records, for the fingerprint lookup spec.md §4.6
// describes. Opcodes with no distinguishing parameter (a plain Health
// Status Poll) return an empty map, giving a fingerprint of just the
// opcode.
func discriminators(nmimt, opcode uint8, requestData []byte) map[string]string {
	params := map[string]string{}

	switch nmimt {
	case nvmemi.NMIMTMICommand:
		switch opcode {
		case OpReadDataStructure:
			if len(requestData) > 0 {
				params["ds_type"] = fmt.Sprintf("%d", requestData[0])
			}
		case OpConfigurationGet, OpConfigurationSet:
			if len(requestData) > 0 {
				params["config_id"] = fmt.Sprintf("%d", requestData[0])
			}
		case OpVPDRead:
			if len(requestData) >= 2 {
				params["offset"] = fmt.Sprintf("%d", binary.LittleEndian.Uint16(requestData[0:2]))
			}
		case OpControllerHealth:
			if len(requestData) >= 2 {
				params["controller_id"] = fmt.Sprintf("%d", binary.LittleEndian.Uint16(requestData[0:2]))
			}
		}
	case nvmemi.NMIMTAdminCommand:
		// requestData is NSID (4 bytes) followed by CDW2..CDW15; CDW10 is
		// the 9th dword after NSID.
		const cdw10Offset = 4 + 4*8
		if len(requestData) >= cdw10Offset+4 {
			cdw10 := binary.LittleEndian.Uint32(requestData[cdw10Offset : cdw10Offset+4])
			switch opcode {
			case nvmemi.AdminOpcodeGetLogPage:
				params["lid"] = fmt.Sprintf("%d", cdw10&0xFF)
			case nvmemi.AdminOpcodeIdentify:
				params["cns"] = fmt.Sprintf("%d", cdw10&0xFF)
			}
		}
	}
	return params
}

func fingerprintKey(opcode uint8, params map[string]string) string {
	return fingerprint.Of(opcode, params)
}
