package decoders

import "github.com/sphinxmi/nvmemi/internal/nvmemi"

// Admin Get Log Page (opcode 0x02) covers several log pages distinguished
// only by the LID the request carried, which the wire opcode alone does not
// expose to the registry. Callers that decode a Get Log Page response pass
// one of these synthesized dispatch keys instead of the raw admin opcode —
// chosen from a byte range (0xE0+) no real MI or admin opcode occupies — so
// resolution still works through the plain (opcode, vendor) registry C7
// defines rather than adding a second dispatch axis to it.
const (
	LogPageKeyErrorInfo uint8 = 0xE1
	LogPageKeySMART     uint8 = 0xE2
	LogPageKeyFWSlot    uint8 = 0xE3
)

// DispatchKeyForLogPage maps an admin Get Log Page LID to the dispatch key
// RegisterAll wires a decoder against, or false if that LID has no decoder.
func DispatchKeyForLogPage(lid uint8) (uint8, bool) {
	switch lid {
	case 0x01:
		return LogPageKeyErrorInfo, true
	case 0x02:
		return LogPageKeySMART, true
	case 0x03:
		return LogPageKeyFWSlot, true
	default:
		return 0, false
	}
}

// Registrar is the subset of registry.Registry RegisterAll needs; defined
// here (rather than importing internal/registry) so this package does not
// depend on it.
type Registrar interface {
	Register(opcode uint8, vendorID *uint16, dec nvmemi.Decoder)
}

// RegisterAll wires every decoder this package implements into reg under
// its opcode (or synthesized dispatch key, for log pages).
func RegisterAll(reg Registrar) {
	reg.Register(0x00, nil, DataStructure)
	reg.Register(0x01, nil, Health)
	reg.Register(0x02, nil, Controller)
	reg.Register(nvmemi.DispatchKey(nvmemi.NMIMTAdminCommand, nvmemi.AdminOpcodeIdentify), nil, Identify)
	reg.Register(LogPageKeyErrorInfo, nil, ErrorLog)
	reg.Register(LogPageKeySMART, nil, SMART)
	reg.Register(LogPageKeyFWSlot, nil, FirmwareSlot)
}
