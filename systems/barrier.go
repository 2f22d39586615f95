package systems

import (
	"context"
	"sync"
)

// Barrier is a reusable rendezvous for a fixed number of goroutines.
// The last goroutine to arrive runs the optional action before anyone is
// released, so the action sees every write made before the barrier.
type Barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	parties    int
	waiting    int
	generation uint64
	action     func()
}

// NewBarrier creates a barrier for parties goroutines.
func NewBarrier(parties int, action func()) *Barrier {
	b := &Barrier{parties: parties, action: action}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks until all parties have called Wait for the current generation.
func (b *Barrier) Wait() {
	b.mu.Lock()
	defer b.mu.Unlock()

	gen := b.generation
	b.waiting++
	if b.waiting == b.parties {
		if b.action != nil {
			b.action()
		}
		b.waiting = 0
		b.generation++
		b.cond.Broadcast()
		return
	}
	for gen == b.generation {
		b.cond.Wait()
	}
}

// Generation returns how many times the barrier has tripped.
func (b *Barrier) Generation() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.generation
}

// FrameSignal publishes frame completions. Waiters block until a frame newer
// than the one they last saw has completed.
type FrameSignal struct {
	mu    sync.Mutex
	frame uint64
	ch    chan struct{} // closed and replaced on every publish
}

// NewFrameSignal creates a signal at frame 0.
func NewFrameSignal() *FrameSignal {
	return &FrameSignal{ch: make(chan struct{})}
}

// Frame returns the last completed frame.
func (s *FrameSignal) Frame() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Wait blocks until a frame greater than after has completed and returns it.
func (s *FrameSignal) Wait(ctx context.Context, after uint64) (uint64, error) {
	for {
		s.mu.Lock()
		frame, ch := s.frame, s.ch
		s.mu.Unlock()

		if frame > after {
			return frame, nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return frame, ctx.Err()
		}
	}
}

func (s *FrameSignal) publish(frame uint64) {
	s.mu.Lock()
	s.frame = frame
	close(s.ch)
	s.ch = make(chan struct{})
	s.mu.Unlock()
}
