// Package mctp builds and parses the SMBus envelope + MCTP transport header
// that carries NVMe-MI payloads (spec.md component C2), including the PEC
// trailer and the optional MIC. It never interprets the payload itself —
// that is internal/nvmemi's job.
package mctp

import "github.com/sphinxmi/nvmemi/internal/integrity"

// icFlag is the high bit of the message-type byte, set when a MIC trails
// the payload.
const icFlag uint8 = 1 << 7

// ParsedFrame is the result of Parse: the transport header fields plus the
// message type, the IC flag, the payload, and the outcome of both integrity
// checks.
type ParsedFrame struct {
	DestAddr uint8
	SrcAddr  uint8
	Header   TransportHeader
	MsgType  uint8 // low 7 bits only
	IC       bool
	Payload  []byte

	PECOk bool
	// MICOk is the MIC check computed over this frame's own payload; for
	// a single-packet message that is the whole message and MICOk is
	// authoritative. For one fragment of a multi-packet message the MIC
	// (when IC is set) covers the *reassembled* payload, not this
	// fragment's chunk, so MICOk here is not meaningful — callers doing
	// reassembly should keep MICBytes and call VerifyMIC once the full
	// payload is known.
	MICOk    bool
	MICBytes []byte // raw 4-byte MIC, nil unless IC
}

// BuildSingle builds a single-packet (SOM=EOM=1, seq=0, TO=1) MCTP/SMBus
// frame carrying payload. If integrityCheck is set, a 4-byte CRC-32C MIC
// over the message-type byte and payload is appended immediately before the
// PEC, and bit 7 of the message-type byte is set. The returned buffer is
// always freshly allocated; inputs are never mutated.
func BuildSingle(destAddr, srcAddr, destEID, srcEID, tag uint8, msgType uint8, payload []byte, integrityCheck bool) []byte {
	flags := Flags{SOM: true, EOM: true, Seq: 0, TO: true, Tag: tag & 0x7}
	var mic []byte
	if integrityCheck {
		mic = micOver(msgType, payload)
	}
	return build(destAddr, srcAddr, destEID, srcEID, flags, msgType, payload, mic)
}

// BuildFragment builds one fragment of a multi-packet message; the caller
// (internal/fragment) supplies SOM/EOM/seq explicitly. mic is nil on every
// fragment except the one carrying EOM, where internal/fragment places a MIC
// computed over the full reassembled payload, not just this fragment's chunk.
func BuildFragment(destAddr, srcAddr, destEID, srcEID uint8, som, eom bool, seq, tag uint8, msgType uint8, chunk []byte, mic []byte) []byte {
	flags := Flags{SOM: som, EOM: eom, Seq: seq & 0x3, TO: true, Tag: tag & 0x7}
	return build(destAddr, srcAddr, destEID, srcEID, flags, msgType, chunk, mic)
}

// MICOverMessage computes the MIC span (message-type byte + full
// reassembled payload) internal/fragment appends to the EOM fragment.
func MICOverMessage(msgType uint8, fullPayload []byte) []byte {
	return micOver(msgType, fullPayload)
}

func micOver(msgType uint8, payload []byte) []byte {
	return integrity.AppendMIC(nil, micSpan(msgType, payload))
}

// micSpan is the byte range the MIC covers: the message-type byte with the
// IC bit cleared, followed by the payload.
func micSpan(msgType uint8, payload []byte) []byte {
	span := make([]byte, 0, 1+len(payload))
	span = append(span, msgType&^icFlag)
	return append(span, payload...)
}

func build(destAddr, srcAddr, destEID, srcEID uint8, flags Flags, msgType uint8, payload []byte, mic []byte) []byte {
	hdr := TransportHeader{Version: HeaderVersion, DestEID: destEID, SrcEID: srcEID, Flags: flags}

	mtByte := msgType & 0x7F
	integrityCheck := len(mic) == 4
	if integrityCheck {
		mtByte |= icFlag
	}

	byteCount := transportHeaderLen + 1 + len(payload)
	if integrityCheck {
		byteCount += 4
	}

	frame := make([]byte, 0, envelopeOverhead+1+transportHeaderLen+1+len(payload)+4+1)
	frame = append(frame, destAddr, CommandCode, uint8(byteCount), srcAddr)
	hdrBytes := hdr.encode()
	frame = append(frame, hdrBytes[:]...)
	frame = append(frame, mtByte)
	frame = append(frame, payload...)
	if integrityCheck {
		frame = append(frame, mic...)
	}

	pec := integrity.PEC(frame)
	frame = append(frame, pec)
	return frame
}

// Parse parses a complete MCTP/SMBus frame (Dest through PEC inclusive).
func Parse(buf []byte) (ParsedFrame, *Error) {
	const minLen = envelopeOverhead + 1 + transportHeaderLen + 1 + 1 // + PEC
	if len(buf) < minLen {
		return ParsedFrame{}, ErrShortPacket
	}

	destAddr := buf[0]
	if buf[1] != CommandCode {
		return ParsedFrame{}, ErrWrongCommandCode
	}
	byteCount := int(buf[2])
	srcAddr := buf[3]

	hdr, herr := parseTransportHeader(buf[4:])
	if herr != nil {
		return ParsedFrame{}, herr
	}

	mtByteOffset := 4 + transportHeaderLen
	if len(buf) <= mtByteOffset {
		return ParsedFrame{}, ErrShortPacket
	}
	mtByte := buf[mtByteOffset]
	ic := mtByte&icFlag != 0
	msgType := mtByte &^ icFlag

	// byteCount covers transport header + msg type + payload (+4 if IC),
	// per SPEC_FULL.md §0's resolution of the source-addr discrepancy.
	payloadLen := byteCount - transportHeaderLen - 1
	if ic {
		payloadLen -= 4
	}
	if payloadLen < 0 {
		return ParsedFrame{}, ErrShortPacket
	}

	payloadStart := mtByteOffset + 1
	payloadEnd := payloadStart + payloadLen
	frameEnd := payloadEnd
	var micBytes []byte
	if ic {
		frameEnd = payloadEnd + 4
	}
	pecOffset := frameEnd
	if len(buf) < pecOffset+1 {
		return ParsedFrame{}, ErrShortPacket
	}
	if ic {
		micBytes = buf[payloadEnd:frameEnd]
	}

	pf := ParsedFrame{
		DestAddr: destAddr,
		SrcAddr:  srcAddr,
		Header:   hdr,
		MsgType:  msgType,
		IC:       ic,
		Payload:  append([]byte(nil), buf[payloadStart:payloadEnd]...),
		PECOk:    integrity.CheckPEC(buf[:pecOffset+1]),
	}
	if ic {
		pf.MICBytes = append([]byte(nil), micBytes...)
		pf.MICOk = integrity.CheckMIC(micSpan(msgType, pf.Payload), micBytes)
	}

	return pf, nil
}

// VerifyMIC checks rawMIC (as captured in ParsedFrame.MICBytes) against the
// MIC of msgType and fullPayload — used by internal/fragment once a
// multi-packet message has been fully reassembled.
func VerifyMIC(msgType uint8, fullPayload []byte, rawMIC []byte) bool {
	return integrity.CheckMIC(micSpan(msgType, fullPayload), rawMIC)
}
