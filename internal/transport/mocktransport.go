package transport

import (
	"time"

	"github.com/sphinxmi/nvmemi/internal/mctp"
	"github.com/sphinxmi/nvmemi/internal/mockdevice"
)

var errTimeout = &mctp.Error{Kind: mctp.KindTimeout, Message: "no response queued", Offset: -1}

// Mock is the C6-backed reference transport: SendPacket feeds the packet
// straight to the mock device and queues whatever it answers with;
// ReceivePacket drains that queue. There is no actual I/O latency to wait
// on, so ReceivePacket's timeout only matters when the queue is empty (a
// request the mock didn't answer, e.g. a still-incomplete fragment).
type Mock struct {
	dev   *mockdevice.Device
	queue [][]byte
}

// NewMock wraps dev for synchronous, in-process use as a Transport.
func NewMock(dev *mockdevice.Device) *Mock {
	return &Mock{dev: dev}
}

func (m *Mock) SendPacket(pkt []byte) error {
	responses, err := m.dev.Handle(pkt)
	if err != nil {
		return err
	}
	m.queue = append(m.queue, responses...)
	return nil
}

// ReceivePacket ignores timeout except to report Timeout when the queue is
// empty: C6 always answers synchronously within SendPacket, so there is
// never anything to actually wait for.
func (m *Mock) ReceivePacket(timeout time.Duration) ([]byte, error) {
	if len(m.queue) == 0 {
		return nil, errTimeout
	}
	pkt := m.queue[0]
	m.queue = m.queue[1:]
	return pkt, nil
}
