package profile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sphinxmi/nvmemi/internal/mockdevice"
	"github.com/sphinxmi/nvmemi/internal/nvmemi/decoders"
	"github.com/sphinxmi/nvmemi/internal/registry"
	"github.com/sphinxmi/nvmemi/internal/session"
	"github.com/sphinxmi/nvmemi/internal/transport"
)

func newMockProfiler(t *testing.T, dev *mockdevice.Device, cfg Config) *Profiler {
	t.Helper()
	reg := registry.New(0)
	decoders.RegisterAll(reg)
	tr := transport.NewMock(dev)
	sess := session.New(tr, reg)
	return New(sess, cfg)
}

func TestProfiler_RunProducesAllCategories(t *testing.T) {
	dev := mockdevice.New()
	dev.VPD = []byte("vpd-bytes-for-the-sweep-to-chunk-through")

	p := newMockProfiler(t, dev, Config{})
	prof, err := p.Run("test-capture", Metadata{Serial: "S1", Model: "M1", Firmware: "F1"})
	require.NoError(t, err)

	require.NotEmpty(t, prof.HealthCommands)
	require.NotEmpty(t, prof.DataStructureCommands)
	require.NotEmpty(t, prof.ConfigurationCommands)
	require.NotEmpty(t, prof.VPDCommands)
	require.Equal(t, SchemaVersion, prof.ProfileVersion)
	require.Equal(t, prof.Metadata.TotalCommands, len(prof.allCommands()))
	require.NotEmpty(t, prof.ResponseTable)

	last := prof.VPDCommands[len(prof.VPDCommands)-1]
	require.Equal(t, "00", last.ResponseHex) // status-only: end-of-data
}

func TestProfiler_SkipVPDAndAdmin(t *testing.T) {
	dev := mockdevice.New()
	p := newMockProfiler(t, dev, Config{SkipVPD: true, SkipAdmin: true})
	prof, err := p.Run("test-capture", Metadata{})
	require.NoError(t, err)

	require.Empty(t, prof.VPDCommands)
	require.Len(t, prof.DataStructureCommands, 3) // controller list + subsystem info + port info, no admin reads
}

func TestVerify_RejectsWrongVersion(t *testing.T) {
	p := &DeviceProfile{ProfileVersion: "0.9"}
	err := Verify(p)
	require.Error(t, err)
	var verr *VersionError
	require.ErrorAs(t, err, &verr)
}

func TestCompare_DetectsAddedRemovedChanged(t *testing.T) {
	a := &DeviceProfile{
		ResponseTable: map[string]string{"01:": "0000", "02:": "aaaa"},
	}
	b := &DeviceProfile{
		ResponseTable: map[string]string{"01:": "0000", "02:": "bbbb", "03:": "cccc"},
	}
	result := Compare(a, b)
	require.Equal(t, []string{"03:"}, result.Added)
	require.Empty(t, result.Removed)
	require.Equal(t, []string{"02:"}, result.Changed)
}

func TestMockTest_ReplaysCaptureCleanly(t *testing.T) {
	dev := mockdevice.New()
	p := newMockProfiler(t, dev, Config{})
	prof, err := p.Run("test-capture", Metadata{})
	require.NoError(t, err)

	result, err := MockTest(prof, Config{})
	require.NoError(t, err)
	require.True(t, result.Passed, "FailedAt=%s", result.FailedAt)
	require.Equal(t, len(prof.allCommands()), result.CommandsReplayed)
}

func TestSummary_IncludesKeyFields(t *testing.T) {
	p := &DeviceProfile{
		ProfileName: "demo",
		Metadata:    Metadata{Model: "Sphinx", Serial: "SN1", TotalCommands: 5, AvgLatencyMs: 1.5},
	}
	s := Summary(p)
	require.Contains(t, s, "demo")
	require.Contains(t, s, "Sphinx")
	require.Contains(t, s, "SN1")
}
