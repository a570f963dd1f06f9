package profile

import "github.com/sphinxmi/nvmemi/internal/fingerprint"

// fingerprintOf builds the replay key for one captured command, the same
// format internal/mockdevice uses to look up its response_table.
func fingerprintOf(opcode uint8, params map[string]string) string {
	return fingerprint.Of(opcode, params)
}
