package fragment

import "github.com/sphinxmi/nvmemi/internal/mctp"

// Sentinel errors for the sequencing failure modes spec.md §4.4 names.
// They carry no state of their own, and the Result the Reassembler returns
// alongside one is zero, so the offending key is known only from the
// fragment the caller just fed.
var (
	ErrUnexpectedSom = &mctp.Error{Kind: mctp.KindSequencing, Message: "SOM arrived mid-message", Offset: -1}
	ErrSequenceGap   = &mctp.Error{Kind: mctp.KindSequencing, Message: "sequence number gap", Offset: -1}
	ErrMissingEom    = &mctp.Error{Kind: mctp.KindTimeout, Message: "reassembly timed out waiting for EOM", Offset: -1}
	ErrBadMIC        = &mctp.Error{Kind: mctp.KindIntegrity, Message: "MIC mismatch on reassembled message", Offset: -1}
)
