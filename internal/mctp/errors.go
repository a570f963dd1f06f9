package mctp

import "fmt"

// Kind identifies the taxonomy of error spec.md §7 defines. mctp only ever
// produces Framing and Integrity errors; Sequencing belongs to the
// fragment package and Protocol/Decode to nvmemi, but all share this Kind so
// callers can switch on one type regardless of which layer raised it.
type Kind int

const (
	KindFraming Kind = iota
	KindIntegrity
	KindSequencing
	KindTimeout
	KindProtocol
	KindDecode
	KindTransport
	KindUsage
)

func (k Kind) String() string {
	switch k {
	case KindFraming:
		return "framing"
	case KindIntegrity:
		return "integrity"
	case KindSequencing:
		return "sequencing"
	case KindTimeout:
		return "timeout"
	case KindProtocol:
		return "protocol"
	case KindDecode:
		return "decode"
	case KindTransport:
		return "transport"
	case KindUsage:
		return "usage"
	}
	return "unknown"
}

// Error is the tagged-variant error type spec.md §9 calls for in place of
// the source's dynamic-dispatch decoder errors: every error the core raises
// carries a Kind, a short message, and optionally the byte offset or field
// name that triggered it.
type Error struct {
	Kind    Kind
	Message string
	Offset  int    // -1 if not applicable
	Field   string // "" if not applicable
}

func (e *Error) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("%s: %s (field %q)", e.Kind, e.Message, e.Field)
	case e.Offset >= 0:
		return fmt.Sprintf("%s: %s (offset %d)", e.Kind, e.Message, e.Offset)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

// Is lets errors.Is(err, &mctp.Error{Kind: mctp.KindIntegrity}) style checks
// work by comparing Kind when the target is itself an *Error with no message
// set.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

func newErr(kind Kind, msg string, offset int, field string) *Error {
	return &Error{Kind: kind, Message: msg, Offset: offset, Field: field}
}

// Sentinel errors for the framing failure modes spec.md §4.2 names.
var (
	ErrShortPacket      = newErr(KindFraming, "short packet", -1, "")
	ErrBadPEC           = newErr(KindIntegrity, "PEC mismatch", -1, "")
	ErrBadMIC           = newErr(KindIntegrity, "MIC mismatch", -1, "")
	ErrBadVersion       = newErr(KindFraming, "unsupported MCTP header version", -1, "version")
	ErrWrongCommandCode = newErr(KindFraming, "wrong SMBus command code", -1, "command")
	ErrReservedBitsSet  = newErr(KindFraming, "reserved bits set", -1, "")
)
