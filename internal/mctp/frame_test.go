package mctp

import (
	"bytes"
	"testing"
)

func TestBuildSingle_HealthStatusPollRequest(t *testing.T) {
	// spec.md §8 scenario 1.
	payload := []byte{0x01, 0x01, 0x00, 0x00} // NMIMT/ROR, opcode, reserved x2
	got := BuildSingle(DefaultDestAddr, DefaultSrcAddr, 0, 0, 0, MsgTypeNVMeMI, payload, false)
	want := []byte{
		0x3A, 0x0F, 0x09, 0x21, 0x01, 0x00, 0x00, 0xC8,
		0x04, 0x01, 0x01, 0x00, 0x00, 0x92,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("BuildSingle = % x; want % x", got, want)
	}
}

func TestBuildSingle_WithIntegrityCheck(t *testing.T) {
	payload := []byte{0x01, 0x01, 0x00, 0x00}
	got := BuildSingle(DefaultDestAddr, DefaultSrcAddr, 0, 0, 0, MsgTypeNVMeMI, payload, true)

	// frame grows by exactly 4 bytes (the MIC) relative to no-IC, per
	// spec.md §8 scenario 2.
	noIC := BuildSingle(DefaultDestAddr, DefaultSrcAddr, 0, 0, 0, MsgTypeNVMeMI, payload, false)
	if len(got) != len(noIC)+4 {
		t.Fatalf("len(IC frame) = %d; want %d", len(got), len(noIC)+4)
	}

	mic := got[len(got)-5 : len(got)-1]
	want := []byte{0x43, 0xf0, 0x33, 0xdd}
	if !bytes.Equal(mic, want) {
		t.Fatalf("MIC bytes = % x; want % x", mic, want)
	}
	if got[8]&0x80 == 0 {
		t.Fatal("IC flag not set in message-type byte")
	}
}

func TestParse_RoundTripsBuildSingle(t *testing.T) {
	for _, ic := range []bool{false, true} {
		payload := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE}
		frame := BuildSingle(0x3A, 0x21, 7, 9, 3, MsgTypeNVMeMI, payload, ic)

		pf, err := Parse(frame)
		if err != nil {
			t.Fatalf("Parse(frame) error = %v (ic=%v)", err, ic)
		}
		if !pf.PECOk {
			t.Errorf("PECOk = false (ic=%v)", ic)
		}
		if ic && !pf.MICOk {
			t.Errorf("MICOk = false for IC frame")
		}
		if !bytes.Equal(pf.Payload, payload) {
			t.Errorf("Payload = % x; want % x", pf.Payload, payload)
		}
		if !pf.Header.Flags.SOM || !pf.Header.Flags.EOM || pf.Header.Flags.Seq != 0 {
			t.Errorf("single-packet flags wrong: %+v", pf.Header.Flags)
		}
		if pf.Header.DestEID != 7 || pf.Header.SrcEID != 9 {
			t.Errorf("EIDs = %d/%d; want 7/9", pf.Header.DestEID, pf.Header.SrcEID)
		}
	}
}

func TestParse_BadPEC(t *testing.T) {
	frame := BuildSingle(0x3A, 0x21, 0, 0, 0, MsgTypeNVMeMI, []byte{1, 2, 3}, false)
	frame[len(frame)-1] ^= 0xFF
	pf, err := Parse(frame)
	if err != nil {
		t.Fatalf("Parse returned error %v; want a parsed frame with PECOk=false", err)
	}
	if pf.PECOk {
		t.Error("PECOk = true after corrupting PEC byte")
	}
}

func TestParse_BitFlipDetected(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	frame := BuildSingle(0x3A, 0x21, 1, 2, 4, MsgTypeNVMeMI, payload, true)

	for i := range frame {
		// skip the version byte (its high nibble is reserved); every
		// other bit position must cause a detectable failure.
		if i == 4 {
			continue
		}
		for bit := uint(0); bit < 8; bit++ {
			corrupt := append([]byte(nil), frame...)
			corrupt[i] ^= 1 << bit

			pf, err := Parse(corrupt)
			if err != nil {
				continue // Framing error: also an acceptable detection
			}
			if pf.PECOk && (!pf.IC || pf.MICOk) {
				t.Fatalf("single bit flip at byte %d bit %d undetected", i, bit)
			}
		}
	}
}

func TestParse_ShortPacket(t *testing.T) {
	if _, err := Parse([]byte{0x3A, 0x0F}); err != ErrShortPacket {
		t.Errorf("Parse(short) error = %v; want ErrShortPacket", err)
	}
}

func TestParse_WrongCommandCode(t *testing.T) {
	frame := BuildSingle(0x3A, 0x21, 0, 0, 0, MsgTypeNVMeMI, []byte{1}, false)
	frame[1] = 0x10
	if _, err := Parse(frame); err != ErrWrongCommandCode {
		t.Errorf("Parse error = %v; want ErrWrongCommandCode", err)
	}
}

func TestParse_BadVersion(t *testing.T) {
	frame := BuildSingle(0x3A, 0x21, 0, 0, 0, MsgTypeNVMeMI, []byte{1}, false)
	frame[4] = (frame[4] &^ 0x0F) | 0x02
	if _, err := Parse(frame); err != ErrBadVersion {
		t.Errorf("Parse error = %v; want ErrBadVersion", err)
	}
}

func TestFlags_ByteRoundTrip(t *testing.T) {
	cases := []Flags{
		{SOM: true, EOM: true, Seq: 0, TO: true, Tag: 0},
		{SOM: true, EOM: false, Seq: 0, TO: true, Tag: 5},
		{SOM: false, EOM: false, Seq: 1, TO: true, Tag: 7},
		{SOM: false, EOM: true, Seq: 2, TO: false, Tag: 3},
	}
	for _, f := range cases {
		got := ParseFlags(f.Byte())
		if got != f {
			t.Errorf("ParseFlags(Byte()) = %+v; want %+v", got, f)
		}
	}
}
