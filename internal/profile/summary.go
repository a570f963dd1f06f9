package profile

import "fmt"

// Summary renders a one-screen human-readable digest of a profile, the
// text `profile load --summary` prints.
func Summary(p *DeviceProfile) string {
	return fmt.Sprintf(
		"%s (capture %s)\n"+
			"  device:   %s %s (fw %s), NVMe-MI %d.%d\n"+
			"  captured: %s\n"+
			"  commands: %d total, %.2f ms avg latency\n"+
			"  categories: health=%d data_structure=%d configuration=%d vpd=%d\n"+
			"  response_table entries: %d",
		p.ProfileName, p.CaptureID,
		p.Metadata.Model, p.Metadata.Serial, p.Metadata.Firmware,
		p.Metadata.NVMeMIMajor, p.Metadata.NVMeMIMinor,
		p.Metadata.CaptureDate,
		p.Metadata.TotalCommands, p.Metadata.AvgLatencyMs,
		len(p.HealthCommands), len(p.DataStructureCommands), len(p.ConfigurationCommands), len(p.VPDCommands),
		len(p.ResponseTable),
	)
}
