package transport

import (
	"testing"
	"time"

	"github.com/creack/pty"
)

func TestHardware_SendPacket_WritesToDevice(t *testing.T) {
	master, slave, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable in this environment: %v", err)
	}
	defer master.Close()
	defer slave.Close()

	h, err := OpenHardware(slave.Name(), 1, 115200)
	if err != nil {
		t.Fatalf("OpenHardware error = %v", err)
	}
	defer h.Close()

	want := []byte{0x3A, 0x0F, 0x05, 0x21, 0x01, 0x00, 0x00, 0x88}
	if err := h.SendPacket(want); err != nil {
		t.Fatalf("SendPacket error = %v", err)
	}

	buf := make([]byte, len(want))
	master.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := master.Read(buf); err != nil {
		t.Fatalf("reading from pty master: %v", err)
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d = %#x; want %#x", i, buf[i], want[i])
		}
	}
}

func TestOpenHardware_RejectsOutOfRangeSlot(t *testing.T) {
	_, _, err := pty.Open()
	if err != nil {
		t.Skip("pty unavailable")
	}
	if _, err := OpenHardware("/dev/null", 9, 115200); err == nil {
		t.Error("OpenHardware with slot=9 should fail")
	}
	if _, err := OpenHardware("/dev/null", 0, 115200); err == nil {
		t.Error("OpenHardware with slot=0 should fail")
	}
}
