package decoders

import (
	"testing"

	"github.com/sphinxmi/nvmemi/internal/nvmemi"
)

func TestSMART_Scenario4_TemperatureAndSpare(t *testing.T) {
	data := make([]byte, SMARTLogLen)
	data[1], data[2] = 0x29, 0x01 // 297 K
	data[3] = 0x5A                // 90%

	resp := &nvmemi.DecodedResponse{Fields: nvmemi.NewFields()}
	if err := decodeSMART(data, resp); err != nil {
		t.Fatalf("decodeSMART error = %v", err)
	}

	temp, ok := resp.Fields.Get("composite_temperature")
	if !ok || temp.Value != "24°C" {
		t.Errorf("composite_temperature = %+v, %v; want 24°C", temp, ok)
	}
	spare, ok := resp.Fields.Get("available_spare")
	if !ok || spare.Value != "90%" {
		t.Errorf("available_spare = %+v, %v; want 90%%", spare, ok)
	}
}

func TestSMART_Truncated(t *testing.T) {
	resp := &nvmemi.DecodedResponse{Fields: nvmemi.NewFields()}
	if err := decodeSMART(make([]byte, 10), resp); err != nvmemi.ErrTruncatedResponse {
		t.Fatalf("err = %v; want ErrTruncatedResponse", err)
	}
}

func TestHealth_PercentagePassesThrough(t *testing.T) {
	data := make([]byte, minHealthLen)
	data[4] = 200 // > 100%, drive-life-used may exceed it
	resp := &nvmemi.DecodedResponse{Fields: nvmemi.NewFields()}
	if err := decodeHealth(data, resp); err != nil {
		t.Fatalf("decodeHealth error = %v", err)
	}
	v, ok := resp.Fields.Get("percentage_drive_life_used")
	if !ok || v.Value != "200%" {
		t.Errorf("percentage_drive_life_used = %+v, %v; want 200%%", v, ok)
	}
}

func TestHealth_ExtendedTailOnlyWhen2x(t *testing.T) {
	short := make([]byte, minHealthLen)
	resp := &nvmemi.DecodedResponse{Fields: nvmemi.NewFields()}
	if err := decodeHealth(short, resp); err != nil {
		t.Fatal(err)
	}
	if _, ok := resp.Fields.Get("endurance_group_warning"); ok {
		t.Error("1.2-length response should not carry the 2.x tail fields")
	}

	long := make([]byte, 31)
	resp2 := &nvmemi.DecodedResponse{Fields: nvmemi.NewFields()}
	if err := decodeHealth(long, resp2); err != nil {
		t.Fatal(err)
	}
	if _, ok := resp2.Fields.Get("endurance_group_warning"); !ok {
		t.Error("2.x-length response should carry the endurance_group_warning field")
	}
}

func TestIdentify_FieldsAtFixedOffsets(t *testing.T) {
	data := make([]byte, IdentifyLen)
	copy(data[4:24], []byte("SERIAL123           "))
	copy(data[24:64], []byte("MODEL-X                                 "))
	copy(data[64:72], []byte("FW0001  "))

	resp := &nvmemi.DecodedResponse{Fields: nvmemi.NewFields()}
	if err := decodeIdentify(data, resp); err != nil {
		t.Fatal(err)
	}
	if v, _ := resp.Fields.Get("serial_number"); v.Value != "SERIAL123" {
		t.Errorf("serial_number = %q; want SERIAL123", v.Value)
	}
}

func TestController_EntryWidthInferredFromLength(t *testing.T) {
	data := make([]byte, 16) // one 1.2-width entry
	data[0], data[1] = 0x05, 0x00
	resp := &nvmemi.DecodedResponse{Fields: nvmemi.NewFields()}
	if err := decodeController(data, resp); err != nil {
		t.Fatal(err)
	}
	v, ok := resp.Fields.Get("controller[5].controller_id")
	if !ok || v.Value != "5" {
		t.Errorf("controller[5].controller_id = %+v, %v; want 5, true", v, ok)
	}
}

func TestDataStructure_ControllerListHeuristic(t *testing.T) {
	data := []byte{0x02, 0x00, 0x01, 0x00, 0x02, 0x00} // count=2, ids 1,2
	resp := &nvmemi.DecodedResponse{Fields: nvmemi.NewFields()}
	if err := decodeDataStructure(data, resp); err != nil {
		t.Fatal(err)
	}
	v, ok := resp.Fields.Get("controller_id[1]")
	if !ok || v.Value != "2" {
		t.Errorf("controller_id[1] = %+v, %v; want 2, true", v, ok)
	}
}

func TestRegisterAll_WiresEveryDecoder(t *testing.T) {
	fake := &fakeRegistrar{}
	RegisterAll(fake)
	want := []uint8{0x00, 0x01, 0x02, nvmemi.DispatchKey(nvmemi.NMIMTAdminCommand, nvmemi.AdminOpcodeIdentify), LogPageKeyErrorInfo, LogPageKeySMART, LogPageKeyFWSlot}
	if len(fake.keys) != len(want) {
		t.Fatalf("registered %d decoders; want %d", len(fake.keys), len(want))
	}
}

type fakeRegistrar struct{ keys []uint8 }

func (f *fakeRegistrar) Register(opcode uint8, vendorID *uint16, dec nvmemi.Decoder) {
	f.keys = append(f.keys, opcode)
}
