package testutil

import (
	"context"
	"sync"
	"time"
)

// NoDelay is a sleeper that returns immediately unless ctx is already done.
type NoDelay struct{}

// Sleep implements orchestrator.Sleeper.
func (NoDelay) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// RecordingSleeper records requested delays without waiting.
//
// Thread-safety: safe for concurrent use.
type RecordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

// Sleep records d and returns immediately.
func (s *RecordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

// Delays returns a copy of the recorded delays.
func (s *RecordingSleeper) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

// BlockingSleeper waits until ctx is cancelled, regardless of d.
type BlockingSleeper struct{}

// Sleep blocks until ctx is done and returns its error.
func (BlockingSleeper) Sleep(ctx context.Context, _ time.Duration) error {
	<-ctx.Done()
	return ctx.Err()
}
