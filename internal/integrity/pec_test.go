package integrity

import "testing"

func TestPEC_HealthStatusPollRequest(t *testing.T) {
	// spec.md §8 scenario 1: the canonical Health Status Poll request,
	// dest EID=0, tag=0, no integrity check.
	body := []byte{
		0x3A, 0x0F, 0x09, 0x21, 0x01, 0x00, 0x00, 0xC8,
		0x04, 0x01, 0x01, 0x00, 0x00,
	}
	if got, want := PEC(body), uint8(0x92); got != want {
		t.Errorf("PEC(body) = %#02x; want %#02x", got, want)
	}
}

func TestCheckPEC(t *testing.T) {
	body := []byte{
		0x3A, 0x0F, 0x09, 0x21, 0x01, 0x00, 0x00, 0xC8,
		0x04, 0x01, 0x01, 0x00, 0x00,
	}
	frame := append(append([]byte{}, body...), 0x92)
	if !CheckPEC(frame) {
		t.Errorf("CheckPEC(frame) = false; want true")
	}

	// flip a bit: checksum must no longer validate.
	bad := append([]byte{}, frame...)
	bad[4] ^= 0x01
	if CheckPEC(bad) {
		t.Errorf("CheckPEC(bad) = true; want false after single bit flip")
	}
}

func TestPEC_Empty(t *testing.T) {
	if got, want := PEC(nil), uint8(0); got != want {
		t.Errorf("PEC(nil) = %#02x; want %#02x", got, want)
	}
}
