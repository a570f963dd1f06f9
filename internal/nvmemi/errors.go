package nvmemi

import "github.com/sphinxmi/nvmemi/internal/mctp"

// Sentinel errors for the decode failure modes spec.md §4.3/§7 names.
var (
	ErrTruncatedResponse = &mctp.Error{Kind: mctp.KindDecode, Message: "truncated response", Offset: -1}
	ErrUnknownOpcode     = &mctp.Error{Kind: mctp.KindDecode, Message: "no decoder registered for opcode (strict mode)", Offset: -1}
)
