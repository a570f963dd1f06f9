package mockdevice

import (
	"encoding/binary"

	"github.com/sphinxmi/nvmemi/internal/nvmemi"
)

// Admin Get Log Page LIDs this device answers.
const (
	lidErrorInformation uint8 = 0x01
	lidSMART            uint8 = 0x02
	lidFirmwareSlot     uint8 = 0x03
)

// synthesize builds the data segment (status byte + type-specific bytes)
// of a response for one MI or admin request, from live device state. It
// never returns an error: an opcode this device does not model simply
// yields a one-byte "unsupported" status (0x02) with no further data. A Get
// Log Page with an unmodelled LID or a short request yields a one-byte
// status 0x01, and Read Data Structure answers any type other than the
// controller list with subsystem info.
func (d *Device) synthesize(nmimt uint8, opcode uint8, requestData []byte) []byte {
	const statusUnsupported = 0x02

	switch nmimt {
	case nvmemi.NMIMTMICommand:
		switch opcode {
		case OpHealthStatusPoll:
			return d.healthStatusPoll()
		case OpControllerHealth:
			return d.controllerHealthPoll()
		case OpReadDataStructure:
			return d.readDataStructure(requestData)
		case OpConfigurationGet:
			return d.configurationGet(requestData)
		case OpConfigurationSet:
			return d.configurationSet(requestData)
		case OpVPDRead:
			return d.vpdRead(requestData)
		}
	case nvmemi.NMIMTAdminCommand:
		switch opcode {
		case nvmemi.AdminOpcodeIdentify:
			return d.identify(requestData)
		case nvmemi.AdminOpcodeGetLogPage:
			return d.getLogPage(requestData)
		}
	}
	return []byte{statusUnsupported}
}

func (d *Device) healthStatusPoll() []byte {
	// 1.2 layout: status(1) + subsystem_status(1) + warnings(1) +
	// temp(2) + pct_used(1) + avail_spare(1) + reserved to 20 total.
	resp := make([]byte, 20)
	resp[1] = 0 // subsystem status nominal
	resp[2] = d.SMARTWarnings
	binary.LittleEndian.PutUint16(resp[3:5], d.CompositeTempK)
	resp[5] = d.PercentageUsed
	resp[6] = d.AvailableSpare
	return resp
}

func (d *Device) controllerHealthPoll() []byte {
	resp := make([]byte, 1+16*len(d.Controllers))
	for i, c := range d.Controllers {
		off := 1 + 16*i
		binary.LittleEndian.PutUint16(resp[off:off+2], c.ID)
		binary.LittleEndian.PutUint16(resp[off+2:off+4], c.StatusFlags)
		binary.LittleEndian.PutUint16(resp[off+4:off+6], c.CompositeTempK)
		resp[off+6] = c.PercentageUsed
	}
	return resp
}

func (d *Device) readDataStructure(requestData []byte) []byte {
	dsType := uint8(0)
	if len(requestData) > 0 {
		dsType = requestData[0]
	}
	switch dsType {
	case DSTypeControllerList:
		resp := make([]byte, 1+2+2*len(d.Controllers))
		binary.LittleEndian.PutUint16(resp[1:3], uint16(len(d.Controllers)))
		for i, c := range d.Controllers {
			off := 3 + 2*i
			binary.LittleEndian.PutUint16(resp[off:off+2], c.ID)
		}
		return resp
	default: // subsystem info
		resp := make([]byte, 8)
		resp[1] = 0 // NUMP
		resp[2] = d.SubsystemMajor
		resp[3] = d.SubsystemMinor
		return resp
	}
}

func (d *Device) configurationGet(requestData []byte) []byte {
	id := uint8(0)
	if len(requestData) > 0 {
		id = requestData[0]
	}
	resp := make([]byte, 5)
	v := d.configValues[id]
	binary.LittleEndian.PutUint32(resp[1:5], v)
	return resp
}

func (d *Device) configurationSet(requestData []byte) []byte {
	if len(requestData) >= 5 {
		id := requestData[0]
		v := binary.LittleEndian.Uint32(requestData[1:5])
		if d.configValues == nil {
			d.configValues = make(map[uint8]uint32)
		}
		d.configValues[id] = v
	}
	return []byte{0}
}

func (d *Device) vpdRead(requestData []byte) []byte {
	const chunk = 32
	offset := 0
	if len(requestData) >= 2 {
		offset = int(binary.LittleEndian.Uint16(requestData[0:2]))
	}
	if offset >= len(d.VPD) {
		return []byte{0} // end-of-data: zero-length data segment
	}
	end := offset + chunk
	if end > len(d.VPD) {
		end = len(d.VPD)
	}
	return append([]byte{0}, d.VPD[offset:end]...)
}

func (d *Device) identify(requestData []byte) []byte {
	resp := make([]byte, 1+4096)
	if len(d.IdentifySerial) > 0 {
		copy(resp[1+4:1+24], []byte(d.IdentifySerial))
	}
	if len(d.IdentifyModel) > 0 {
		copy(resp[1+24:1+64], []byte(d.IdentifyModel))
	}
	if len(d.IdentifyFirmware) > 0 {
		copy(resp[1+64:1+72], []byte(d.IdentifyFirmware))
	}
	return resp
}

func (d *Device) getLogPage(requestData []byte) []byte {
	// requestData is NSID (4 bytes) followed by CDW2..CDW15; CDW10 is the
	// 9th dword after NSID.
	const cdw10Offset = 4 + 4*8
	if len(requestData) < cdw10Offset+4 {
		return []byte{1}
	}
	cdw10 := binary.LittleEndian.Uint32(requestData[cdw10Offset : cdw10Offset+4])
	lid := uint8(cdw10 & 0xFF)
	switch lid {
	case lidErrorInformation:
		return append([]byte{0}, make([]byte, 64)...) // one empty entry
	case lidSMART:
		if len(d.SMARTLog) == 512 {
			return append([]byte{0}, d.SMARTLog...)
		}
		return d.synthesizeSMART()
	case lidFirmwareSlot:
		return d.synthesizeFirmwareSlot()
	}
	return []byte{1}
}

func (d *Device) synthesizeSMART() []byte {
	resp := make([]byte, 1+512)
	binary.LittleEndian.PutUint16(resp[2:4], d.CompositeTempK)
	resp[4] = d.AvailableSpare
	resp[5] = d.SpareThreshold
	resp[6] = d.PercentageUsed
	return resp
}

func (d *Device) synthesizeFirmwareSlot() []byte {
	resp := make([]byte, 1+512)
	resp[1] = 1 // active slot 1
	for i, rev := range d.FirmwareSlots {
		if rev == "" {
			continue
		}
		off := 1 + 8*(i+1)
		if off+8 > len(resp) {
			break
		}
		copy(resp[off:off+8], []byte(rev))
	}
	return resp
}
