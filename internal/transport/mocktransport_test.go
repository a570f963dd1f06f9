package transport

import (
	"testing"

	"github.com/sphinxmi/nvmemi/internal/mctp"
	"github.com/sphinxmi/nvmemi/internal/mockdevice"
	"github.com/sphinxmi/nvmemi/internal/nvmemi"
)

func TestMock_SendThenReceive(t *testing.T) {
	dev := mockdevice.New()
	m := NewMock(dev)

	reqPayload := nvmemi.MIRequest(mockdevice.OpHealthStatusPoll, nil)
	reqPacket := mctp.BuildSingle(mctp.DefaultDestAddr, mctp.DefaultSrcAddr, 0, 0, 0, mctp.MsgTypeNVMeMI, reqPayload, false)

	if err := m.SendPacket(reqPacket); err != nil {
		t.Fatalf("SendPacket error = %v", err)
	}

	pkt, err := m.ReceivePacket(0)
	if err != nil {
		t.Fatalf("ReceivePacket error = %v", err)
	}
	pf, perr := mctp.Parse(pkt)
	if perr != nil {
		t.Fatalf("Parse error = %v", perr)
	}
	if !pf.PECOk {
		t.Error("response PEC invalid")
	}
}

func TestMock_ReceiveWithEmptyQueueTimesOut(t *testing.T) {
	m := NewMock(mockdevice.New())
	if _, err := m.ReceivePacket(0); err != errTimeout {
		t.Errorf("err = %v; want errTimeout", err)
	}
}
