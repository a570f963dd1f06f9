package session

import (
	"github.com/sphinxmi/nvmemi/internal/mctp"
	"github.com/sphinxmi/nvmemi/internal/nvmemi"
	"github.com/sphinxmi/nvmemi/internal/nvmemi/decoders"
)

// HealthStatusPoll issues an NVM Subsystem Health Status Poll (opcode
// 0x01, MI command).
func (s *Session) HealthStatusPoll() (*nvmemi.DecodedResponse, error) {
	payload := nvmemi.MIRequest(nvmemi.MIOpcodeHealthStatusPoll, nil)
	return s.Execute(mctp.MsgTypeNVMeMI, payload, false, nvmemi.MIOpcodeHealthStatusPoll)
}

// ControllerHealthPoll issues a Controller Health Status Poll (opcode
// 0x02, MI command).
func (s *Session) ControllerHealthPoll() (*nvmemi.DecodedResponse, error) {
	payload := nvmemi.MIRequest(nvmemi.MIOpcodeControllerHealth, nil)
	return s.Execute(mctp.MsgTypeNVMeMI, payload, false, nvmemi.MIOpcodeControllerHealth)
}

// ReadDataStructure issues a Read NVMe-MI Data Structure request (opcode
// 0x00, MI command) for dsType.
func (s *Session) ReadDataStructure(dsType uint8) (*nvmemi.DecodedResponse, error) {
	payload := nvmemi.MIRequest(nvmemi.MIOpcodeReadDataStructure, []byte{dsType})
	return s.Execute(mctp.MsgTypeNVMeMI, payload, false, nvmemi.MIOpcodeReadDataStructure)
}

// ConfigurationGet issues a Configuration Get request for the given
// identifier.
func (s *Session) ConfigurationGet(id uint8) (*nvmemi.DecodedResponse, error) {
	payload := nvmemi.MIRequest(nvmemi.MIOpcodeConfigurationGet, []byte{id})
	return s.Execute(mctp.MsgTypeNVMeMI, payload, false, nvmemi.MIOpcodeConfigurationGet)
}

// VPDReadChunk issues one 32-byte VPD Read starting at offset; the caller
// drives the chunked sweep spec.md §4.8 describes by incrementing offset
// until the response's raw_data field comes back empty.
func (s *Session) VPDReadChunk(offset uint16) (*nvmemi.DecodedResponse, error) {
	req := make([]byte, 2)
	req[0], req[1] = byte(offset), byte(offset>>8)
	payload := nvmemi.MIRequest(nvmemi.MIOpcodeVPDRead, req)
	return s.Execute(mctp.MsgTypeNVMeMI, payload, false, nvmemi.MIOpcodeVPDRead)
}

// IdentifyController issues an admin-tunneled Identify Controller request.
func (s *Session) IdentifyController(cid uint16) (*nvmemi.DecodedResponse, error) {
	payload := nvmemi.IdentifyController(cid)
	key := nvmemi.DispatchKey(nvmemi.NMIMTAdminCommand, nvmemi.AdminOpcodeIdentify)
	return s.Execute(mctp.MsgTypeNVMeMI, payload, false, key)
}

// GetSMARTLog issues an admin-tunneled Get Log Page request for the
// SMART/Health Information log (LID 0x02).
func (s *Session) GetSMARTLog(nsid uint32) (*nvmemi.DecodedResponse, error) {
	return s.getLogPage(0x02, nsid, decoders.LogPageKeySMART)
}

// GetErrorLog issues a Get Log Page request for the Error Information log
// (LID 0x01).
func (s *Session) GetErrorLog(nsid uint32) (*nvmemi.DecodedResponse, error) {
	return s.getLogPage(0x01, nsid, decoders.LogPageKeyErrorInfo)
}

// GetFirmwareSlotInfo issues a Get Log Page request for the Firmware Slot
// Information log (LID 0x03).
func (s *Session) GetFirmwareSlotInfo(nsid uint32) (*nvmemi.DecodedResponse, error) {
	return s.getLogPage(0x03, nsid, decoders.LogPageKeyFWSlot)
}

func (s *Session) getLogPage(lid uint8, nsid uint32, dispatchKey uint8) (*nvmemi.DecodedResponse, error) {
	numDwords := uint32(logPageLenFor(lid)/4 - 1)
	payload := nvmemi.GetLogPage(lid, numDwords, 0, nsid, false)
	return s.Execute(mctp.MsgTypeNVMeMI, payload, false, dispatchKey)
}

func logPageLenFor(lid uint8) int {
	switch lid {
	case 0x02:
		return decoders.SMARTLogLen
	case 0x03:
		return decoders.FirmwareSlotLen
	default:
		return decoders.ErrorLogEntryLen
	}
}
