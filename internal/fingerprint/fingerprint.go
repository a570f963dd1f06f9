// Package fingerprint computes the canonical request fingerprint spec.md
// §6 defines for DeviceProfile.response_table lookups, shared by
// internal/mockdevice (profile replay) and internal/profile (capture).
package fingerprint

import (
	"fmt"
	"sort"
	"strings"
)

// Of renders opcode and params as "{opcode:02x}:{sorted k=v,...}", the
// format both the mock device's replay lookup and the profiler's capture
// use as a map key.
func Of(opcode uint8, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, params[k]))
	}
	return fmt.Sprintf("%02x:%s", opcode, strings.Join(parts, ","))
}
