package toggl

import (
	"context"
	"time"
)

// pacer enforces a minimum spacing between outbound requests as a courtesy
// to the upstream rate limits. A request acquires the single execution slot,
// performs its exchange, and the slot is released only after the cooldown
// has elapsed from the response. Goroutines blocked on the slot are served
// in arrival order, so requests execute strictly FIFO.
type pacer struct {
	slot     chan struct{}
	cooldown time.Duration
}

func newPacer(cooldown time.Duration) *pacer {
	return &pacer{
		slot:     make(chan struct{}, 1),
		cooldown: cooldown,
	}
}

func (p *pacer) acquire(ctx context.Context) error {
	select {
	case p.slot <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// release schedules the slot to free once the cooldown has passed. Call it
// after the response has been received.
func (p *pacer) release() {
	if p.cooldown <= 0 {
		<-p.slot
		return
	}
	time.AfterFunc(p.cooldown, func() { <-p.slot })
}
