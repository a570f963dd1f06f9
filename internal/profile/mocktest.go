package profile

import (
	"encoding/hex"

	"github.com/sphinxmi/nvmemi/internal/mockdevice"
	"github.com/sphinxmi/nvmemi/internal/nvmemi/decoders"
	"github.com/sphinxmi/nvmemi/internal/registry"
	"github.com/sphinxmi/nvmemi/internal/session"
	"github.com/sphinxmi/nvmemi/internal/transport"
)

// MockTestResult reports the outcome of replaying a captured profile
// against a mock device, per SPEC_FULL.md §3's `profile load --mock-test`.
type MockTestResult struct {
	CommandsReplayed int
	Passed           bool
	// FailedAt holds the error text of the first command that failed,
	// empty on a clean pass.
	FailedAt string
}

// MockTest boots a mock device pre-seeded with p's response_table and runs
// the same curated sweep Profiler.Run would run live. Opcodes with a
// registered decoder must decode without error — a truncated or malformed
// captured response surfaces as a failure; opcodes with no registered
// decoder (Configuration Get, VPD Read) fall back to the generic hex-dump
// decoder, per spec.md §4.3, and that is not itself a failure. It stops at
// the first failure, the way a regression check should: a partial pass is
// a failure.
func MockTest(p *DeviceProfile, cfg Config) (*MockTestResult, error) {
	dev := mockdevice.New()
	dev.ResponseTable = make(map[string][]byte, len(p.ResponseTable))
	for fp, respHex := range p.ResponseTable {
		raw, err := hex.DecodeString(respHex)
		if err != nil {
			return nil, err
		}
		dev.ResponseTable[fp] = raw
	}

	reg := registry.New(0)
	decoders.RegisterAll(reg)
	tr := transport.NewMock(dev)
	sess := session.New(tr, reg)

	prof := New(sess, cfg)
	_, err := prof.Run(p.ProfileName, p.Metadata)
	if err != nil {
		return &MockTestResult{CommandsReplayed: len(p.allCommands()), Passed: false, FailedAt: err.Error()}, nil
	}
	return &MockTestResult{CommandsReplayed: len(p.allCommands()), Passed: true}, nil
}
