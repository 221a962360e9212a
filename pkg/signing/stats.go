package signing

import "sync/atomic"

// Stats counts signing outcomes for telemetry.
type Stats struct {
	signed int64
	failed int64
}

func (s *Stats) Signed() int64 {
	return atomic.LoadInt64(&s.signed)
}

func (s *Stats) Failed() int64 {
	return atomic.LoadInt64(&s.failed)
}

type countingSigner struct {
	next  Signer
	stats *Stats
}

// WithStats wraps next so every Sign call is counted in stats.
func WithStats(next Signer, stats *Stats) Signer {
	return &countingSigner{next: next, stats: stats}
}

func (c *countingSigner) Sign(payload []byte) (string, error) {
	signature, err := c.next.Sign(payload)
	if err != nil {
		atomic.AddInt64(&c.stats.failed, 1)
		return "", err
	}
	atomic.AddInt64(&c.stats.signed, 1)
	return signature, nil
}
