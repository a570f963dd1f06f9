package profile

import "sort"

// CompareResult is the outcome of diffing two profiles' response_tables by
// fingerprint, per SPEC_FULL.md §3's supplemented `profile load --compare`.
type CompareResult struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Changed []string `json:"changed"`

	// LatencyDeltaMs is b's avg_latency_ms minus a's, per category.
	LatencyDeltaMs map[string]float64 `json:"latency_delta_ms"`
}

// Compare diffs a's and b's response_tables: fingerprints present only in b
// are Added, present only in a are Removed, present in both with a
// different response_hex are Changed. LatencyDeltaMs compares each
// category's average latency (computed from that category's own recorded
// commands, not the whole profile).
func Compare(a, b *DeviceProfile) CompareResult {
	result := CompareResult{LatencyDeltaMs: make(map[string]float64)}

	for fp, respB := range b.ResponseTable {
		respA, ok := a.ResponseTable[fp]
		switch {
		case !ok:
			result.Added = append(result.Added, fp)
		case respA != respB:
			result.Changed = append(result.Changed, fp)
		}
	}
	for fp := range a.ResponseTable {
		if _, ok := b.ResponseTable[fp]; !ok {
			result.Removed = append(result.Removed, fp)
		}
	}
	sort.Strings(result.Added)
	sort.Strings(result.Removed)
	sort.Strings(result.Changed)

	result.LatencyDeltaMs["health_commands"] = avgLatency(b.HealthCommands) - avgLatency(a.HealthCommands)
	result.LatencyDeltaMs["data_structure_commands"] = avgLatency(b.DataStructureCommands) - avgLatency(a.DataStructureCommands)
	result.LatencyDeltaMs["configuration_commands"] = avgLatency(b.ConfigurationCommands) - avgLatency(a.ConfigurationCommands)
	result.LatencyDeltaMs["vpd_commands"] = avgLatency(b.VPDCommands) - avgLatency(a.VPDCommands)

	return result
}

func avgLatency(cmds []CapturedCommand) float64 {
	if len(cmds) == 0 {
		return 0
	}
	var total float64
	for _, c := range cmds {
		total += c.LatencyMs
	}
	return total / float64(len(cmds))
}
