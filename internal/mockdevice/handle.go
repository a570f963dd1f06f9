package mockdevice

import (
	"github.com/sphinxmi/nvmemi/internal/fragment"
	"github.com/sphinxmi/nvmemi/internal/mctp"
	"github.com/sphinxmi/nvmemi/internal/nvmemi"
)

// reassembler handles requests the mock receives in more than one fragment
// (large Set Features / Configuration Set payloads); most requests are
// small enough to arrive whole.
func (d *Device) reassembler() *fragment.Reassembler {
	if d.reasm == nil {
		d.reasm = fragment.NewReassembler(0)
	}
	return d.reasm
}

// Handle processes one inbound wire packet (Dest through PEC) and returns
// the wire packet(s) of the response, per spec.md §4.6: ROR=1, the
// request's tag echoed, SOM=EOM=1 unless the response payload exceeds 120
// bytes, in which case it comes back as the fragment sequence
// internal/fragment's Reassembler must join. A nil, nil return means the
// packet was one fragment of a still-incomplete inbound message.
func (d *Device) Handle(requestPacket []byte) ([][]byte, *mctp.Error) {
	pf, err := mctp.Parse(requestPacket)
	if err != nil {
		return nil, err
	}

	payload := pf.Payload
	if !(pf.Header.Flags.SOM && pf.Header.Flags.EOM) {
		res, ferr := d.reassembler().Feed(pf)
		if ferr != nil {
			return nil, ferr
		}
		if !res.Complete {
			return nil, nil
		}
		payload = res.Payload
	}

	nmimt, _, opcode, ok := nvmemi.HeaderOf(payload)
	if !ok {
		return nil, mctp.ErrShortPacket
	}
	requestData := payload[4:]

	params := discriminators(nmimt, opcode, requestData)
	key := fingerprintKey(opcode, params)

	var respData []byte
	if table := d.ResponseTable; table != nil {
		if hit, ok := table[key]; ok {
			respData = hit
		}
	}
	if respData == nil {
		respData = d.synthesize(nmimt, opcode, requestData)
	}

	responsePayload := append(nvmemi.ResponseHeader(nmimt, opcode), respData...)
	return d.frameResponse(pf, pf.MsgType, responsePayload), nil
}

// frameResponse wraps responsePayload (the full NVMe-MI message: header,
// status byte, and data) in one or more MCTP response frames addressed back
// at the requester, echoing its tag and EID pairing, using the same IC
// choice the request carried.
func (d *Device) frameResponse(req mctp.ParsedFrame, msgType uint8, responsePayload []byte) [][]byte {
	destAddr, srcAddr := req.SrcAddr, req.DestAddr
	destEID, srcEID := req.Header.SrcEID, req.Header.DestEID
	tag := req.Header.Flags.Tag

	if len(responsePayload) <= fragment.MaxTXPayload {
		return [][]byte{mctp.BuildSingle(destAddr, srcAddr, destEID, srcEID, tag, msgType, responsePayload, req.IC)}
	}

	fm := fragment.BuildFragmented(destAddr, srcAddr, destEID, srcEID, tag, msgType, responsePayload, req.IC)
	packets := make([][]byte, len(fm.Fragments))
	for i, f := range fm.Fragments {
		packets[i] = f.Packet
	}
	return packets
}
