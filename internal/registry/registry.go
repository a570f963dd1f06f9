// Package registry implements spec.md component C7: the process-wide
// (opcode, vendor id) → decoder mapping, grounded on the teacher's
// pattern of a small lookup type with an explicit registration API rather
// than the source's dynamic-dispatch decorator (SPEC_FULL.md §1).
package registry

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sphinxmi/nvmemi/internal/nvmemi"
)

type key struct {
	opcode    uint8
	vendorID  uint16
	hasVendor bool
}

// Registry resolves a nvmemi.Decoder for (opcode, vendor id) in the order
// spec.md §4.7 defines: vendor-specific first, then opcode-generic, then no
// match at all (the caller's generic hex-dump fallback).
type Registry struct {
	mu       sync.RWMutex
	decoders map[key]nvmemi.Decoder
	warnings chan error
}

// New creates an empty Registry. warningsBuf sizes the internal warnings
// channel (0 uses a sensible default); a full channel never blocks
// registration, it just logs the dropped warning via logrus instead.
func New(warningsBuf int) *Registry {
	if warningsBuf <= 0 {
		warningsBuf = 32
	}
	return &Registry{
		decoders: make(map[key]nvmemi.Decoder),
		warnings: make(chan error, warningsBuf),
	}
}

// Warnings exposes non-fatal registry events — currently only
// double-registration of the same key — for a caller to drain. Nothing
// reads this by default; DrainWarningsToLog starts a goroutine that does.
func (r *Registry) Warnings() <-chan error {
	return r.warnings
}

// Register binds dec to (opcode, vendorID). vendorID nil registers the
// opcode-generic decoder. A second registration for the same key replaces
// the first — the later call always wins — and emits a warning rather than
// aborting, per spec.md §4.7.
func (r *Registry) Register(opcode uint8, vendorID *uint16, dec nvmemi.Decoder) {
	k := keyOf(opcode, vendorID)

	r.mu.Lock()
	_, exists := r.decoders[k]
	r.decoders[k] = dec
	r.mu.Unlock()

	if exists {
		r.warn(fmt.Errorf("registry: decoder for opcode 0x%02x (vendor=%v) overwritten by later registration", opcode, vendorID))
	}
}

func (r *Registry) warn(err error) {
	select {
	case r.warnings <- err:
	default:
		logrus.WithError(err).Warn("registry warning dropped: channel full")
	}
}

// Resolve looks up the decoder for (opcode, vendorID), falling back from
// vendor-specific to opcode-generic. ok is false when neither is
// registered.
func (r *Registry) Resolve(opcode uint8, vendorID *uint16) (nvmemi.Decoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if vendorID != nil {
		if dec, ok := r.decoders[keyOf(opcode, vendorID)]; ok {
			return dec, true
		}
	}
	dec, ok := r.decoders[keyOf(opcode, nil)]
	return dec, ok
}

func keyOf(opcode uint8, vendorID *uint16) key {
	if vendorID == nil {
		return key{opcode: opcode}
	}
	return key{opcode: opcode, vendorID: *vendorID, hasVendor: true}
}

// DrainWarningsToLog starts a goroutine that logs every warning emitted on
// r.Warnings() via logrus until the registry is garbage collected (the
// channel is never closed). Callers that want to observe warnings
// differently should read r.Warnings() themselves instead of calling this.
func (r *Registry) DrainWarningsToLog() {
	go func() {
		for err := range r.warnings {
			logrus.WithError(err).Warn("nvmemi registry")
		}
	}()
}
