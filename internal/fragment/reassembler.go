package fragment

import (
	"sync"
	"time"

	"github.com/sphinxmi/nvmemi/internal/mctp"
)

// DefaultTimeout is the reassembly deadline spec.md §4.4/§5 specifies,
// measured from the arrival of the SOM fragment.
const DefaultTimeout = 100 * time.Millisecond

// key identifies one in-flight reassembly: spec.md §4.4 keys the
// reassembler by (source EID, tag, TO).
type key struct {
	srcEID uint8
	tag    uint8
	to     bool
}

type pending struct {
	payload  []byte
	msgType  uint8
	ic       bool
	lastSeq  uint8
	deadline time.Time
}

// Result is what Feed returns once enough fragments have arrived to know
// something (an error, a completed message, or simply "keep waiting").
type Result struct {
	Complete bool
	Payload  []byte
	MsgType  uint8
}

// Reassembler implements spec.md component C4's inbound half: joining a
// sequence of MCTP fragments sharing a key back into one message.
type Reassembler struct {
	mu      sync.Mutex
	entries map[key]*pending
	timeout time.Duration
	now     func() time.Time
}

// NewReassembler creates a Reassembler with the given per-message
// reassembly timeout (pass 0 to use DefaultTimeout).
func NewReassembler(timeout time.Duration) *Reassembler {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Reassembler{entries: make(map[key]*pending), timeout: timeout, now: time.Now}
}

func keyOf(pf mctp.ParsedFrame) key {
	return key{srcEID: pf.Header.SrcEID, tag: pf.Header.Flags.Tag, to: pf.Header.Flags.TO}
}

// Feed processes one received, already-frame-parsed packet. It returns
// Result.Complete=true with the concatenated payload once the EOM fragment
// for a message has arrived and its MIC (if any) checks out; otherwise it
// returns a zero Result while more fragments are awaited, or a non-nil
// error for any of spec.md §4.4's sequencing failures.
func (r *Reassembler) Feed(pf mctp.ParsedFrame) (Result, *mctp.Error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := keyOf(pf)
	now := r.now()

	if p, ok := r.entries[k]; ok && now.After(p.deadline) {
		delete(r.entries, k)
		if !pf.Header.Flags.SOM {
			// the in-flight message's deadline already passed; this
			// fragment can't complete it.
			return Result{}, ErrMissingEom
		}
		// fall through: a fresh SOM is entitled to start a new message
		// even though the old one timed out.
	}

	flags := pf.Header.Flags

	if flags.SOM {
		if p, ok := r.entries[k]; ok && len(p.payload) > 0 {
			// a message was already in flight for this key; start a
			// fresh buffer but still surface the anomaly.
			r.entries[k] = &pending{
				payload:  append([]byte(nil), pf.Payload...),
				msgType:  pf.MsgType,
				ic:       pf.IC,
				lastSeq:  0,
				deadline: now.Add(r.timeout),
			}
			if flags.EOM {
				return r.finish(k, pf)
			}
			return Result{}, ErrUnexpectedSom
		}

		r.entries[k] = &pending{
			payload:  append([]byte(nil), pf.Payload...),
			msgType:  pf.MsgType,
			ic:       pf.IC,
			lastSeq:  0,
			deadline: now.Add(r.timeout),
		}
		if flags.EOM {
			return r.finish(k, pf)
		}
		return Result{}, nil
	}

	p, ok := r.entries[k]
	if !ok {
		return Result{}, ErrSequenceGap
	}

	wantSeq := (p.lastSeq + 1) % 4
	if flags.Seq != wantSeq {
		delete(r.entries, k)
		return Result{}, ErrSequenceGap
	}

	p.payload = append(p.payload, pf.Payload...)
	p.lastSeq = flags.Seq
	if pf.IC {
		p.ic = true
	}

	if flags.EOM {
		return r.finish(k, pf)
	}
	return Result{}, nil
}

// finish completes the message for key k using the just-arrived EOM
// fragment pf (which carries the raw MIC bytes, if any).
func (r *Reassembler) finish(k key, pf mctp.ParsedFrame) (Result, *mctp.Error) {
	p := r.entries[k]
	delete(r.entries, k)

	if pf.IC {
		if !mctp.VerifyMIC(p.msgType, p.payload, pf.MICBytes) {
			return Result{}, ErrBadMIC
		}
	}

	return Result{Complete: true, Payload: p.payload, MsgType: p.msgType}, nil
}

// Expired is a reassembly buffer that timed out without ever receiving
// another fragment — unlike the check inside Feed, this is surfaced by the
// caller polling on a timer even when the peer never sends anything more.
type Expired struct {
	SrcEID uint8
	Tag    uint8
}

// ExpireStale drops and returns every in-flight reassembly whose deadline
// has passed as of now. Callers (internal/session exposes it as
// Session.ExpireStale) should call this periodically so a peer that stops
// mid-message is eventually reported rather than leaking state forever.
func (r *Reassembler) ExpireStale(now time.Time) []Expired {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Expired
	for k, p := range r.entries {
		if now.After(p.deadline) {
			out = append(out, Expired{SrcEID: k.srcEID, Tag: k.tag})
			delete(r.entries, k)
		}
	}
	return out
}
