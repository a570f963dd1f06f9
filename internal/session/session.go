// Package session implements spec.md's concurrency and resource model
// (§5): one caller, one in-flight request at a time, a monotonic
// modulo-8 tag counter, a per-command timeout, and fragment reassembly
// wired through internal/fragment's 100 ms deadline.
package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sphinxmi/nvmemi/internal/fragment"
	"github.com/sphinxmi/nvmemi/internal/mctp"
	"github.com/sphinxmi/nvmemi/internal/nvmemi"
	"github.com/sphinxmi/nvmemi/internal/transport"
)

// Session serializes NVMe-MI requests over one transport: the nth request
// completes (success or error) before the (n+1)th is encoded, per spec.md
// §5's ordering guarantee.
type Session struct {
	id       uuid.UUID
	tr       transport.Transport
	resolver nvmemi.Resolver
	destAddr uint8
	srcAddr  uint8
	destEID  uint8
	srcEID   uint8
	tag      uint8
	cfg      transport.Config
	reasm    *fragment.Reassembler
	strict   bool
	log      *logrus.Entry
}

// Option configures a Session.
type Option func(*Session)

// WithAddressing overrides the SMBus/EID addressing a Session uses; it
// defaults to mctp.DefaultDestAddr/DefaultSrcAddr and EID 0/0.
func WithAddressing(destAddr, srcAddr, destEID, srcEID uint8) Option {
	return func(s *Session) {
		s.destAddr, s.srcAddr, s.destEID, s.srcEID = destAddr, srcAddr, destEID, srcEID
	}
}

// WithStrictDecoding makes Execute return nvmemi.ErrUnknownOpcode instead
// of falling back to the generic decoder.
func WithStrictDecoding() Option {
	return func(s *Session) { s.strict = true }
}

// WithTransportConfig overrides the inter-fragment delay and default
// command timeout.
func WithTransportConfig(cfg transport.Config) Option {
	return func(s *Session) { s.cfg = cfg }
}

// New creates a Session over tr, resolving decoders through resolver
// (typically a *registry.Registry).
func New(tr transport.Transport, resolver nvmemi.Resolver, opts ...Option) *Session {
	id := uuid.New()
	s := &Session{
		id:       id,
		tr:       tr,
		resolver: resolver,
		destAddr: mctp.DefaultDestAddr,
		srcAddr:  mctp.DefaultSrcAddr,
		cfg:      transport.NewConfig(),
		reasm:    fragment.NewReassembler(fragment.DefaultTimeout),
		log:      logrus.WithField("component", "session").WithField("session_id", id),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the correlation id this Session stamps on its own log lines.
func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) nextTag() uint8 {
	t := s.tag & 0x7
	s.tag = (s.tag + 1) & 0x7
	return t
}

// Execute sends one NVMe-MI request and returns its decoded response.
// decodeKey selects the registry lookup for the response: nvmemi.HeaderOf
// gives MI opcodes directly, nvmemi.DispatchKey folds in the admin/MI
// namespace bit, and decoders.DispatchKeyForLogPage supplies the
// LID-synthesized key for admin Get Log Page requests.
func (s *Session) Execute(msgType uint8, requestPayload []byte, integrityCheck bool, decodeKey uint8) (*nvmemi.DecodedResponse, error) {
	tag := s.nextTag()

	if err := s.send(msgType, requestPayload, integrityCheck, tag); err != nil {
		return nil, err
	}

	payload, err := s.receive(tag)
	if err != nil {
		return nil, err
	}

	return nvmemi.Decode(payload, decodeKey, nil, s.resolver, s.strict)
}

// ExecuteTimed is Execute plus wall-clock latency, for callers (the
// profiler) that need to record how long a command took alongside its
// decoded result.
func (s *Session) ExecuteTimed(msgType uint8, requestPayload []byte, integrityCheck bool, decodeKey uint8) (*nvmemi.DecodedResponse, time.Duration, error) {
	start := time.Now()
	resp, err := s.Execute(msgType, requestPayload, integrityCheck, decodeKey)
	return resp, time.Since(start), err
}

func (s *Session) send(msgType uint8, payload []byte, integrityCheck bool, tag uint8) error {
	if len(payload) <= fragment.MaxTXPayload {
		pkt := mctp.BuildSingle(s.destAddr, s.srcAddr, s.destEID, s.srcEID, tag, msgType, payload, integrityCheck)
		return s.tr.SendPacket(pkt)
	}

	fm := fragment.BuildFragmented(s.destAddr, s.srcAddr, s.destEID, s.srcEID, tag, msgType, payload, integrityCheck)
	for i, f := range fm.Fragments {
		if err := s.tr.SendPacket(f.Packet); err != nil {
			return err
		}
		if i < len(fm.Fragments)-1 && s.cfg.InterFragmentDelay > 0 {
			time.Sleep(s.cfg.InterFragmentDelay)
		}
	}
	return nil
}

// receive reads packets until the response addressed to tag is fully
// reassembled, the per-command timeout elapses, or a framing/integrity
// error is seen. Packets that don't match tag are logged and dropped per
// spec.md §5's best-effort cancellation policy.
func (s *Session) receive(tag uint8) ([]byte, error) {
	deadline := time.Now().Add(s.commandTimeout())

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, &mctp.Error{Kind: mctp.KindTimeout, Message: "command timed out", Offset: -1}
		}

		pkt, err := s.tr.ReceivePacket(remaining)
		if err != nil {
			return nil, err
		}

		pf, perr := mctp.Parse(pkt)
		if perr != nil {
			return nil, perr
		}

		if pf.Header.Flags.Tag != tag {
			s.log.WithFields(logrus.Fields{"want_tag": tag, "got_tag": pf.Header.Flags.Tag}).
				Warn("dropping response with mismatched tag")
			continue
		}

		if !pf.PECOk {
			return nil, mctp.ErrBadPEC
		}

		if pf.Header.Flags.SOM && pf.Header.Flags.EOM {
			if pf.IC && !pf.MICOk {
				return nil, mctp.ErrBadMIC
			}
			return pf.Payload, nil
		}

		res, ferr := s.reasm.Feed(pf)
		if ferr != nil {
			return nil, ferr
		}
		if res.Complete {
			return res.Payload, nil
		}
	}
}

func (s *Session) commandTimeout() time.Duration {
	if s.cfg.DefaultTimeout > 0 {
		return s.cfg.DefaultTimeout
	}
	return transport.DefaultCommandTimeout
}

// ExpireStale polls the session's reassembler for any reassembly that has
// missed its 100 ms deadline without ever seeing its EOM fragment —
// internal/fragment's Feed only notices this on the next fragment, so a
// peer that stops mid-message needs this called from a timer to be
// reported at all.
func (s *Session) ExpireStale() []fragment.Expired {
	return s.reasm.ExpireStale(time.Now())
}
