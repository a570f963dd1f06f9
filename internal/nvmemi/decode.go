package nvmemi

import "fmt"

// DecodedResponse is the result of decoding one NVMe-MI response payload
// (spec.md §3). Fields is populated by whichever Decoder handled Opcode;
// RawBytes is the data segment (everything after the 4-byte header and the
// status byte) the decoder was given.
type DecodedResponse struct {
	Success    bool
	StatusCode uint8
	Opcode     uint8
	Fields     *Fields
	RawBytes   []byte
	// Partial is set when decoding stopped early — a truncated layout or
	// an unregistered opcode in strict mode — so the caller knows
	// Fields may be incomplete rather than authoritative.
	Partial bool
}

// Decoder knows how to turn the data segment of one opcode's response into
// named fields on resp. It must not mutate resp.RawBytes, Opcode, Success,
// or StatusCode — Decode has already set those.
type Decoder interface {
	Decode(data []byte, resp *DecodedResponse) error
}

// DecoderFunc adapts a plain function to the Decoder interface.
type DecoderFunc func(data []byte, resp *DecodedResponse) error

func (f DecoderFunc) Decode(data []byte, resp *DecodedResponse) error { return f(data, resp) }

// Resolver looks up the Decoder registered for (opcode, vendorID), per the
// resolution order spec.md §4.7 defines: (opcode, vendor) beats (opcode,
// none) beats no match at all. internal/registry.Registry implements this;
// nvmemi only depends on the interface so the two packages don't import each
// other.
type Resolver interface {
	Resolve(opcode uint8, vendorID *uint16) (Decoder, bool)
}

// Decode parses the common NVMe-MI response header out of payload (the full
// NVMe-MI message, header included) and dispatches the data segment to the
// decoder resolver selects for opcode, falling back to a generic hex-dump
// decoder when none is registered. If strict is true and no decoder is
// registered, Decode returns ErrUnknownOpcode instead of falling back.
func Decode(payload []byte, opcode uint8, vendorID *uint16, resolver Resolver, strict bool) (*DecodedResponse, error) {
	if len(payload) < headerLen+1 {
		return &DecodedResponse{Opcode: opcode, Fields: NewFields(), Partial: true}, ErrTruncatedResponse
	}

	status := payload[headerLen]
	data := payload[headerLen+1:]

	resp := &DecodedResponse{
		Success:    status == 0,
		StatusCode: status,
		Opcode:     opcode,
		Fields:     NewFields(),
		RawBytes:   data,
	}
	resp.Fields.Set("status_code", fmt.Sprintf("0x%02x", status), payload[headerLen:headerLen+1])

	if !resp.Success {
		// Protocol errors are non-fatal to the session: a non-zero
		// status still produces a complete DecodedResponse.
		return resp, nil
	}

	decoder, ok := resolver.Resolve(opcode, vendorID)
	if !ok {
		if strict {
			resp.Partial = true
			return resp, ErrUnknownOpcode
		}
		decoder = GenericDecoder{}
	}

	if err := decoder.Decode(data, resp); err != nil {
		resp.Partial = true
		return resp, err
	}
	return resp, nil
}

// GenericDecoder is the hex-dump fallback spec.md §4.3 calls for when no
// opcode-specific decoder is registered: it exposes the whole data segment
// as a single field rather than failing outright.
type GenericDecoder struct{}

func (GenericDecoder) Decode(data []byte, resp *DecodedResponse) error {
	resp.Fields.Set("raw_data", fmt.Sprintf("% x", data), data)
	return nil
}
