package transport

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/sphinxmi/nvmemi/internal/fragment"
	"github.com/sphinxmi/nvmemi/internal/mctp"
)

// MinSlot and MaxSlot bound the I2C multiplexer slot selector spec.md §4.5
// names ("a slot selector (1..8) is captured at construction").
const (
	MinSlot = 1
	MaxSlot = 8
)

// Hardware is the serial-link backend: it owns a character device that
// reaches an I2C/SMBus multiplexer. The slot is range-checked and recorded
// at construction and reported by Slot; SendPacket writes each packet to
// the device unchanged and adds no slot selection of its own.
type Hardware struct {
	f    *os.File
	slot uint8
	cfg  Config
}

// OpenHardware opens devicePath, puts it into raw mode at baud, and binds
// this transport to slot (1..8). Closing the returned Hardware is the
// caller's responsibility.
func OpenHardware(devicePath string, slot uint8, baud uint32, opts ...Option) (*Hardware, error) {
	if slot < MinSlot || slot > MaxSlot {
		return nil, &mctp.Error{Kind: mctp.KindUsage, Message: fmt.Sprintf("slot %d out of range [%d,%d]", slot, MinSlot, MaxSlot), Offset: -1}
	}

	f, err := os.OpenFile(devicePath, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, &mctp.Error{Kind: mctp.KindTransport, Message: err.Error(), Offset: -1}
	}

	if err := configureRaw(f, baud); err != nil {
		f.Close()
		return nil, &mctp.Error{Kind: mctp.KindTransport, Message: err.Error(), Offset: -1}
	}

	return &Hardware{f: f, slot: slot, cfg: NewConfig(opts...)}, nil
}

func configureRaw(f *os.File, baud uint32) error {
	fd := int(f.Fd())
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return err
	}

	rate, ok := termiosBaud(baud)
	if !ok {
		return fmt.Errorf("unsupported baud rate %d", baud)
	}

	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB
	t.Cflag |= unix.CS8
	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = 0
	t.Ispeed = rate
	t.Ospeed = rate

	return unix.IoctlSetTermios(fd, unix.TCSETS, t)
}

func termiosBaud(baud uint32) (uint32, bool) {
	switch baud {
	case 9600:
		return unix.B9600, true
	case 19200:
		return unix.B19200, true
	case 38400:
		return unix.B38400, true
	case 57600:
		return unix.B57600, true
	case 115200:
		return unix.B115200, true
	default:
		return 0, false
	}
}

// SendPacket writes pkt to the device. It does not pace inter-fragment
// delay itself — internal/fragment's caller (internal/session) is the one
// that knows it is sending consecutive fragments of the same message and
// sleeps cfg.InterFragmentDelay between calls.
func (h *Hardware) SendPacket(pkt []byte) error {
	if _, err := h.f.Write(pkt); err != nil {
		return &mctp.Error{Kind: mctp.KindTransport, Message: err.Error(), Offset: -1}
	}
	return nil
}

// ReceivePacket polls the device's fd for up to timeout and reads one
// packet (at most MaxRXPacket bytes) once data is available.
func (h *Hardware) ReceivePacket(timeout time.Duration) ([]byte, error) {
	fd := int(h.f.Fd())
	pfd := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}

	n, err := unix.Poll(pfd, int(timeout.Milliseconds()))
	if err != nil {
		return nil, &mctp.Error{Kind: mctp.KindTransport, Message: err.Error(), Offset: -1}
	}
	if n == 0 {
		return nil, &mctp.Error{Kind: mctp.KindTimeout, Message: "receive_packet timed out", Offset: -1}
	}

	buf := make([]byte, fragment.MaxRXPacket)
	m, err := h.f.Read(buf)
	if err != nil {
		return nil, &mctp.Error{Kind: mctp.KindTransport, Message: err.Error(), Offset: -1}
	}
	return buf[:m], nil
}

// Slot reports the multiplexer slot this transport targets.
func (h *Hardware) Slot() uint8 { return h.slot }

// Close releases the underlying device.
func (h *Hardware) Close() error { return h.f.Close() }
