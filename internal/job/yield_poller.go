package job

import (
	"context"
	"log"
	"time"

	"yield-harbor/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// YieldPoller keeps the yield cache warm so API reads almost never pay for a
// full aggregation pass.
type YieldPoller struct {
	tracer       trace.Tracer
	yieldService YieldRefresher
	pollInterval time.Duration
}

type YieldRefresher interface {
	Refresh(ctx context.Context) *domain.AggregateResponse
}

func NewYieldPoller(tracer trace.Tracer, yieldService YieldRefresher, pollIntervalSecs int) *YieldPoller {
	return &YieldPoller{
		tracer:       tracer,
		yieldService: yieldService,
		pollInterval: time.Duration(pollIntervalSecs) * time.Second,
	}
}

// Start launches the refresh loop. Blocks until ctx is cancelled.
func (p *YieldPoller) Start(ctx context.Context) {
	log.Println("Yield poller starting...")

	go p.pollLoop(ctx)

	<-ctx.Done()
	log.Println("Yield poller stopped")
}

func (p *YieldPoller) pollLoop(ctx context.Context) {
	// Run immediately on start
	p.refreshOnce(ctx)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refreshOnce(ctx)
		}
	}
}

func (p *YieldPoller) refreshOnce(ctx context.Context) {
	ctx, span := p.tracer.Start(ctx, "yield-poller.refresh")
	defer span.End()

	resp := p.yieldService.Refresh(ctx)
	if len(resp.Venues) == 0 {
		log.Println("yield poller: refresh returned no venues")
	}
}
