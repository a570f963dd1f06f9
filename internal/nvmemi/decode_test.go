package nvmemi

import "testing"

type fakeResolver struct {
	decoder Decoder
	ok      bool
}

func (f fakeResolver) Resolve(opcode uint8, vendorID *uint16) (Decoder, bool) {
	return f.decoder, f.ok
}

func TestDecode_DispatchesToRegisteredDecoder(t *testing.T) {
	called := false
	dec := DecoderFunc(func(data []byte, resp *DecodedResponse) error {
		called = true
		resp.Fields.Set("probe", "ok", data)
		return nil
	})

	payload := append([]byte{0x81, 0x01, 0x00, 0x00, 0x00}, []byte{0xAA, 0xBB}...)
	resp, err := Decode(payload, 0x01, nil, fakeResolver{dec, true}, false)
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	if !called {
		t.Error("registered decoder was not invoked")
	}
	if !resp.Success || resp.StatusCode != 0 {
		t.Errorf("Success/StatusCode = %v/%d; want true/0", resp.Success, resp.StatusCode)
	}
	v, ok := resp.Fields.Get("probe")
	if !ok || v.Value != "ok" {
		t.Errorf("fields[probe] = %+v, %v; want ok, true", v, ok)
	}
}

func TestDecode_FallsBackToGeneric(t *testing.T) {
	payload := []byte{0x81, 0x01, 0x00, 0x00, 0x00, 0xDE, 0xAD}
	resp, err := Decode(payload, 0x99, nil, fakeResolver{nil, false}, false)
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	v, ok := resp.Fields.Get("raw_data")
	if !ok {
		t.Fatal("generic decoder did not populate raw_data")
	}
	if v.Value == "" {
		t.Error("raw_data field is empty")
	}
}

func TestDecode_StrictModeUnknownOpcode(t *testing.T) {
	payload := []byte{0x81, 0x01, 0x00, 0x00, 0x00}
	resp, err := Decode(payload, 0x99, nil, fakeResolver{nil, false}, true)
	if err != ErrUnknownOpcode {
		t.Fatalf("err = %v; want ErrUnknownOpcode", err)
	}
	if !resp.Partial {
		t.Error("Partial = false; want true")
	}
}

func TestDecode_NonZeroStatusSkipsDecoder(t *testing.T) {
	called := false
	dec := DecoderFunc(func(data []byte, resp *DecodedResponse) error {
		called = true
		return nil
	})
	payload := []byte{0x81, 0x01, 0x00, 0x00, 0x02} // status=2
	resp, err := Decode(payload, 0x01, nil, fakeResolver{dec, true}, false)
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	if called {
		t.Error("decoder was invoked despite non-zero status")
	}
	if resp.Success {
		t.Error("Success = true; want false")
	}
	if resp.StatusCode != 2 {
		t.Errorf("StatusCode = %d; want 2", resp.StatusCode)
	}
}

func TestDecode_TruncatedResponse(t *testing.T) {
	_, err := Decode([]byte{0x81, 0x01}, 0x01, nil, fakeResolver{nil, false}, false)
	if err != ErrTruncatedResponse {
		t.Fatalf("err = %v; want ErrTruncatedResponse", err)
	}
}
