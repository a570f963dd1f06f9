package nvmemi

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestMIRequest_HealthStatusPoll(t *testing.T) {
	got := MIRequest(0x01, nil)
	want := []byte{0x01, 0x01, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("MIRequest(0x01, nil) = % x; want % x", got, want)
	}
}

// cdwOffset returns the byte offset of CDWn (n >= 2) within a payload
// built by AdminRequest: header, then NSID, then CDW2..CDW15 with CDW10 at
// cdw[8].
func cdwOffset(n int) int {
	return headerLen + 4 + 4*(n-2)
}

func TestIdentifyController_Scenario5(t *testing.T) {
	got := IdentifyController(0)
	nmimt, ror, opcode, ok := HeaderOf(got)
	if !ok || nmimt != NMIMTAdminCommand || ror || opcode != AdminOpcodeIdentify {
		t.Fatalf("header = (%d, %v, %d, %v); want admin/req/0x06", nmimt, ror, opcode, ok)
	}
	nsid := binary.LittleEndian.Uint32(got[headerLen:])
	if nsid != 0 {
		t.Errorf("NSID = %#x; want 0", nsid)
	}
	cdw10 := binary.LittleEndian.Uint32(got[cdwOffset(10):])
	if cdw10 != 0x00000001 {
		t.Errorf("CDW10 = %#x; want 0x00000001", cdw10)
	}
	for n := 2; n < 16; n++ {
		if n == 10 {
			continue
		}
		if v := binary.LittleEndian.Uint32(got[cdwOffset(n):]); v != 0 {
			t.Errorf("CDW%d = %#x; want 0", n, v)
		}
	}
}

func TestIdentifyNamespace(t *testing.T) {
	got := IdentifyNamespace(7)
	nsid := binary.LittleEndian.Uint32(got[headerLen:])
	if nsid != 7 {
		t.Errorf("NSID = %d; want 7", nsid)
	}
	cdw10 := binary.LittleEndian.Uint32(got[cdwOffset(10):])
	if cdw10 != CNSNamespace {
		t.Errorf("CDW10 = %#x; want %#x", cdw10, CNSNamespace)
	}
}

func TestGetLogPage_SMART(t *testing.T) {
	got := GetLogPage(0x02, 127, 0, 0xFFFFFFFF, false)
	_, _, opcode, _ := HeaderOf(got)
	if opcode != AdminOpcodeGetLogPage {
		t.Fatalf("opcode = %#x; want %#x", opcode, AdminOpcodeGetLogPage)
	}
	nsid := binary.LittleEndian.Uint32(got[headerLen:])
	if nsid != 0xFFFFFFFF {
		t.Errorf("NSID = %#x; want 0xFFFFFFFF", nsid)
	}
	cdw10 := binary.LittleEndian.Uint32(got[cdwOffset(10):])
	if lid := cdw10 & 0xFF; lid != 0x02 {
		t.Errorf("LID = %#x; want 0x02", lid)
	}
	if numdl := (cdw10 >> 16) & 0xFFFF; numdl != 127 {
		t.Errorf("NUMDL = %d; want 127", numdl)
	}
}

func TestGetFeaturesSetFeatures(t *testing.T) {
	gf := GetFeatures(0x02, 0, 0)
	_, _, opcode, _ := HeaderOf(gf)
	if opcode != AdminOpcodeGetFeatures {
		t.Errorf("GetFeatures opcode = %#x; want %#x", opcode, AdminOpcodeGetFeatures)
	}
	cdw10 := binary.LittleEndian.Uint32(gf[cdwOffset(10):])
	if cdw10 != 0x02 {
		t.Errorf("CDW10 = %#x; want 0x02", cdw10)
	}

	sf := SetFeatures(0x02, 0x1234, 0)
	_, _, opcode2, _ := HeaderOf(sf)
	if opcode2 != AdminOpcodeSetFeatures {
		t.Errorf("SetFeatures opcode = %#x; want %#x", opcode2, AdminOpcodeSetFeatures)
	}
	cdw11 := binary.LittleEndian.Uint32(sf[cdwOffset(11):])
	if cdw11 != 0x1234 {
		t.Errorf("CDW11 = %#x; want 0x1234", cdw11)
	}
}

func TestHeaderOf_TooShort(t *testing.T) {
	if _, _, _, ok := HeaderOf([]byte{0x01, 0x02}); ok {
		t.Error("HeaderOf on a 2-byte payload should report ok=false")
	}
}
