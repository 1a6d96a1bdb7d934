package history

import "github.com/m-mizutani/gollem"

// Policy bounds the conversation window evaluated before every model
// call. Short histories pass through untouched; longer ones are replaced
// with the anchor message plus a recent tail. The first message is never
// dropped: it carries the original framing of the conversation.
type Policy struct {
	maxUntrimmed int
	evenTail     int
	oddTail      int
}

type Option func(*Policy)

// WithMaxUntrimmed sets the length up to which a history is kept as-is.
func WithMaxUntrimmed(n int) Option {
	return func(p *Policy) {
		p.maxUntrimmed = n
	}
}

// WithEvenTail sets the tail size used when the pre-trim length is even.
func WithEvenTail(n int) Option {
	return func(p *Policy) {
		p.evenTail = n
	}
}

// WithOddTail sets the tail size used when the pre-trim length is odd.
func WithOddTail(n int) Option {
	return func(p *Policy) {
		p.oddTail = n
	}
}

func NewPolicy(opts ...Option) *Policy {
	p := &Policy{
		maxUntrimmed: 5,
		evenTail:     3,
		oddTail:      4,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Trim applies the window policy to a message sequence. The tail size is
// keyed off the pre-trim length: even lengths keep the 3 most recent
// messages, odd lengths 4 (with default options). The returned slice is
// a fresh allocation and replaces the full history at the caller.
func (p *Policy) Trim(msgs []gollem.Message) []gollem.Message {
	n := len(msgs)
	if n <= p.maxUntrimmed {
		return msgs
	}

	tail := p.evenTail
	if n%2 != 0 {
		tail = p.oddTail
	}
	if tail >= n {
		return msgs
	}

	trimmed := make([]gollem.Message, 0, 1+tail)
	trimmed = append(trimmed, msgs[0])
	trimmed = append(trimmed, msgs[n-tail:]...)
	return trimmed
}

// TrimHistory is a nil-safe wrapper over Trim for gollem histories. The
// stored sequence is replaced wholesale, never appended to.
func (p *Policy) TrimHistory(h *gollem.History) *gollem.History {
	if h == nil || len(h.Messages) <= p.maxUntrimmed {
		return h
	}
	return &gollem.History{
		Version:  h.Version,
		Messages: p.Trim(h.Messages),
	}
}
