package decoders

import (
	"fmt"

	"github.com/sphinxmi/nvmemi/internal/nvmemi"
)

// DataStructure decodes a Read NVMe-MI Data Structure response (opcode
// 0x00, MI command). The data structure type itself is a request parameter,
// not carried in the response body, so the layout is inferred the way
// health.go infers 1.2-vs-2.x: a controller list response is a u16 count
// followed by exactly that many u16 controller IDs; anything else is
// decoded as subsystem info, whose only two fields spec.md names are the
// NVMe-MI major/minor version at data offsets 1 and 2.
var DataStructure = nvmemi.DecoderFunc(decodeDataStructure)

func decodeDataStructure(data []byte, resp *nvmemi.DecodedResponse) error {
	if len(data) >= 2 {
		count := int(u16LE(data[0:2]))
		if len(data) == 2+2*count {
			resp.Fields.Set("controller_count", fmt.Sprintf("%d", count), data[0:2])
			for i := 0; i < count; i++ {
				off := 2 + 2*i
				id := u16LE(data[off : off+2])
				resp.Fields.Set(fmt.Sprintf("controller_id[%d]", i), fmt.Sprintf("%d", id), data[off:off+2])
			}
			return nil
		}
	}

	if len(data) < 3 {
		return nvmemi.ErrTruncatedResponse
	}
	resp.Fields.Set("nvme_mi_major_version", fmt.Sprintf("%d", data[1]), data[1:2])
	resp.Fields.Set("nvme_mi_minor_version", fmt.Sprintf("%d", data[2]), data[2:3])
	return nil
}
