package decoders

import (
	"fmt"

	"github.com/sphinxmi/nvmemi/internal/nvmemi"
)

// SMARTLogLen is the fixed size of the admin-tunneled SMART / Health
// Information log page (Admin opcode 0x02, LID 0x02).
const SMARTLogLen = 512

// SMART decodes a Get Log Page 0x02 (SMART / Health Information) response,
// per the NVMe base spec layout spec.md §6 references; temperatures are LE
// u16 Kelvin and the big counters are 128-bit little-endian.
var SMART = nvmemi.DecoderFunc(decodeSMART)

func decodeSMART(data []byte, resp *nvmemi.DecodedResponse) error {
	if len(data) < SMARTLogLen {
		return nvmemi.ErrTruncatedResponse
	}

	resp.Fields.Set("critical_warning", fmt.Sprintf("0x%02x", data[0]), data[0:1])
	resp.Fields.Set("composite_temperature", kelvin(data[1:3]), data[1:3])
	resp.Fields.Set("available_spare", percent(data[3]), data[3:4])
	resp.Fields.Set("available_spare_threshold", percent(data[4]), data[4:5])
	resp.Fields.Set("percentage_used", percent(data[5]), data[5:6])
	resp.Fields.Set("endurance_group_critical_warning", fmt.Sprintf("0x%02x", data[6]), data[6:7])

	resp.Fields.Set("data_units_read", u128LE(data[32:48]), data[32:48])
	resp.Fields.Set("data_units_written", u128LE(data[48:64]), data[48:64])
	resp.Fields.Set("host_read_commands", u128LE(data[64:80]), data[64:80])
	resp.Fields.Set("host_write_commands", u128LE(data[80:96]), data[80:96])
	resp.Fields.Set("controller_busy_time", u128LE(data[96:112]), data[96:112])
	resp.Fields.Set("power_cycles", u128LE(data[112:128]), data[112:128])
	resp.Fields.Set("power_on_hours", u128LE(data[128:144]), data[128:144])
	resp.Fields.Set("unsafe_shutdowns", u128LE(data[144:160]), data[144:160])
	resp.Fields.Set("media_errors", u128LE(data[160:176]), data[160:176])
	resp.Fields.Set("num_error_log_entries", u128LE(data[176:192]), data[176:192])

	resp.Fields.Set("warning_temp_time_minutes", fmt.Sprintf("%d", u32LE(data[192:196])), data[192:196])
	resp.Fields.Set("critical_temp_time_minutes", fmt.Sprintf("%d", u32LE(data[196:200])), data[196:200])

	for i := 0; i < 8; i++ {
		off := 200 + 2*i
		t := u16LE(data[off : off+2])
		if t == 0 {
			continue // unreported sensor
		}
		resp.Fields.Set(fmt.Sprintf("temperature_sensor[%d]", i+1), kelvin(data[off:off+2]), data[off:off+2])
	}
	return nil
}
