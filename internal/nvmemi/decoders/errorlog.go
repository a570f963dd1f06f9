package decoders

import (
	"encoding/binary"
	"fmt"

	"github.com/sphinxmi/nvmemi/internal/nvmemi"
)

// ErrorLogEntryLen is the fixed width of one Error Information Log entry
// (Admin Get Log Page, LID 0x01).
const ErrorLogEntryLen = 64

// ErrorLog decodes an Error Information Log page: a packed array of
// 64-byte entries, one per recorded error. Entries whose error count is
// zero (unused slots at the tail of the log) are skipped.
var ErrorLog = nvmemi.DecoderFunc(decodeErrorLog)

func decodeErrorLog(data []byte, resp *nvmemi.DecodedResponse) error {
	if len(data) == 0 || len(data)%ErrorLogEntryLen != 0 {
		return nvmemi.ErrTruncatedResponse
	}

	count := len(data) / ErrorLogEntryLen
	reported := 0
	for i := 0; i < count; i++ {
		entry := data[i*ErrorLogEntryLen : (i+1)*ErrorLogEntryLen]
		errCount := binary.LittleEndian.Uint64(entry[0:8])
		if errCount == 0 {
			continue
		}
		prefix := fmt.Sprintf("error[%d].", i)
		resp.Fields.Set(prefix+"error_count", fmt.Sprintf("%d", errCount), entry[0:8])
		resp.Fields.Set(prefix+"submission_queue_id", fmt.Sprintf("%d", u16LE(entry[8:10])), entry[8:10])
		resp.Fields.Set(prefix+"command_id", fmt.Sprintf("0x%04x", u16LE(entry[10:12])), entry[10:12])
		resp.Fields.Set(prefix+"status_field", fmt.Sprintf("0x%04x", u16LE(entry[12:14])), entry[12:14])
		resp.Fields.Set(prefix+"lba", fmt.Sprintf("%d", binary.LittleEndian.Uint64(entry[16:24])), entry[16:24])
		resp.Fields.Set(prefix+"namespace", fmt.Sprintf("%d", u32LE(entry[24:28])), entry[24:28])
		reported++
	}
	resp.Fields.Set("error_log_entry_count", fmt.Sprintf("%d", reported), nil)
	return nil
}
