package flappy

import (
	"context"
	"time"
)

// FrameSource delivers monotonically increasing frame timestamps in milliseconds.
// The channel is closed when ctx is done.
type FrameSource interface {
	Frames(ctx context.Context) <-chan float64
}

// TickerSource emits frames at a fixed rate, standing in for a display refresh.
type TickerSource struct {
	Rate  int              // Frames per second, 60 when zero
	Clock func() time.Time // time.Now when nil
}

// Frames starts the ticker. Timestamps are milliseconds since the first frame request.
func (t TickerSource) Frames(ctx context.Context) <-chan float64 {
	rate := t.Rate
	if rate <= 0 {
		rate = 60
	}
	clock := t.Clock
	if clock == nil {
		clock = time.Now
	}

	out := make(chan float64)
	go func() {
		defer close(out)

		ticker := time.NewTicker(time.Second / time.Duration(rate))
		defer ticker.Stop()

		origin := clock()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				ts := float64(clock().Sub(origin)) / float64(time.Millisecond)
				select {
				case out <- ts:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Stepper is what Drive ticks. Session implements it, and so do wrappers
// that record or broadcast each step.
type Stepper interface {
	Lifecycle() Lifecycle
	Tick(now float64) TickResult
}

// Drive ticks s once per frame while it is Running.
// It returns nil when the session ends, or ctx.Err() when cancelled.
// No tick runs after Drive returns.
func Drive(ctx context.Context, s Stepper, src FrameSource) error {
	if s.Lifecycle() != Running {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames := src.Frames(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now, ok := <-frames:
			if !ok {
				return ctx.Err()
			}
			if res := s.Tick(now); res.Lifecycle != Running {
				return nil
			}
		}
	}
}
