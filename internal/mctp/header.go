package mctp

// Wire-level constants for the SMBus envelope and MCTP transport header,
// grounded on the byte layout spec.md §3/§4.2/§6 spell out exactly (the
// teacher's internal/messages/header.go is the model for keeping header
// fields as a small, separately-parseable struct rather than inlining them
// into the frame parser).
const (
	// DefaultDestAddr is the NVMe-MI SMBus slave address default.
	DefaultDestAddr uint8 = 0x3A
	// DefaultSrcAddr is the host-side source SMBus address default.
	DefaultSrcAddr uint8 = 0x21
	// CommandCode is the fixed SMBus command code for MCTP-over-SMBus.
	CommandCode uint8 = 0x0F
	// HeaderVersion is the only MCTP transport header version this core
	// understands.
	HeaderVersion uint8 = 0x01

	// MsgTypeNVMeMI is the MCTP message type byte for NVMe-MI messages
	// (the low 7 bits; bit 7 is the IC flag).
	MsgTypeNVMeMI uint8 = 0x04

	// envelopeOverhead is Dest + Cmd + ByteCount (not covered by
	// ByteCount itself, see SPEC_FULL.md §0 for why ByteCount excludes
	// the source address).
	envelopeOverhead = 3
	// transportHeaderLen is the 4-byte Ver/DestEID/SrcEID/Flags header.
	transportHeaderLen = 4
)

// Flags is the one-byte MCTP transport header flags field: SOM<<7 |
// EOM<<6 | (seq&3)<<4 | TO<<3 | (tag&7).
type Flags struct {
	SOM bool
	EOM bool
	Seq uint8 // 2 bits
	TO  bool
	Tag uint8 // 3 bits
}

// Byte packs Flags into its wire representation.
func (f Flags) Byte() uint8 {
	var b uint8
	if f.SOM {
		b |= 1 << 7
	}
	if f.EOM {
		b |= 1 << 6
	}
	b |= (f.Seq & 0x3) << 4
	if f.TO {
		b |= 1 << 3
	}
	b |= f.Tag & 0x7
	return b
}

// ParseFlags unpacks a wire flags byte.
func ParseFlags(b uint8) Flags {
	return Flags{
		SOM: b&(1<<7) != 0,
		EOM: b&(1<<6) != 0,
		Seq: (b >> 4) & 0x3,
		TO:  b&(1<<3) != 0,
		Tag: b & 0x7,
	}
}

// TransportHeader is the 4-byte Ver/DestEID/SrcEID/Flags MCTP transport
// header.
type TransportHeader struct {
	Version uint8
	DestEID uint8
	SrcEID  uint8
	Flags   Flags
}

func (h TransportHeader) encode() [transportHeaderLen]byte {
	return [transportHeaderLen]byte{h.Version, h.DestEID, h.SrcEID, h.Flags.Byte()}
}

func parseTransportHeader(b []byte) (TransportHeader, *Error) {
	if len(b) < transportHeaderLen {
		return TransportHeader{}, ErrShortPacket
	}
	version := b[0] & 0x0F
	if version != HeaderVersion {
		return TransportHeader{}, ErrBadVersion
	}
	return TransportHeader{
		Version: version,
		DestEID: b[1],
		SrcEID:  b[2],
		Flags:   ParseFlags(b[3]),
	}, nil
}
