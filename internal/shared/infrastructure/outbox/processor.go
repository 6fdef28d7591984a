package outbox

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/eventbus"
)

// ProcessorConfig tunes the relay loop.
type ProcessorConfig struct {
	PollInterval     time.Duration
	BatchSize        int
	MaxRetries       int
	RetryBackoffBase time.Duration
	RetryBackoffMax  time.Duration
}

// DefaultProcessorConfig polls every 100ms and dead-letters after five
// failed deliveries.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		PollInterval:     100 * time.Millisecond,
		BatchSize:        100,
		MaxRetries:       5,
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  time.Minute,
	}
}

// Stats is a point-in-time view of relay health.
type Stats struct {
	IsRunning       bool
	PublishedCount  uint64
	FailedCount     uint64
	DeadCount       uint64
	LagSeconds      float64
	LastError       string
	LastErrorAt     *time.Time
	LastProcessedAt *time.Time
	OldestMessageAt *time.Time
}

// Processor relays outbox rows to a publisher. Delivery is at least once:
// a row is marked published only after Publish returns nil.
type Processor struct {
	repo      Repository
	publisher eventbus.Publisher
	cfg       ProcessorConfig
	logger    *slog.Logger

	published atomic.Uint64
	failed    atomic.Uint64
	dead      atomic.Uint64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	health Stats
}

func NewProcessor(repo Repository, publisher eventbus.Publisher, cfg ProcessorConfig, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{repo: repo, publisher: publisher, cfg: cfg, logger: logger}
}

// Start launches the poll loop and returns immediately. Calling Start on
// a running processor is a no-op.
func (p *Processor) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return nil
	}

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.loop(loopCtx, p.done)

	p.logger.Info("outbox processor started",
		"poll_interval", p.cfg.PollInterval,
		"batch_size", p.cfg.BatchSize,
	)
	return nil
}

// Stop cancels the loop and waits for the in-flight batch to finish.
func (p *Processor) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.logger.Info("outbox processor stopped")
}

func (p *Processor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// ProcessOnce relays one batch synchronously. CLI commands call it after
// a write so subscribers see the change before the process exits.
func (p *Processor) ProcessOnce(ctx context.Context) error {
	return p.drain(ctx)
}

// Stats reports counters and the lag of the oldest pending row.
func (p *Processor) Stats() Stats {
	running := p.IsRunning()

	p.mu.Lock()
	s := p.health
	p.mu.Unlock()

	s.IsRunning = running
	s.PublishedCount = p.published.Load()
	s.FailedCount = p.failed.Load()
	s.DeadCount = p.dead.Load()
	return s
}

func (p *Processor) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.drain(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error("outbox batch failed", "error", err)
			}
		}
	}
}

func (p *Processor) drain(ctx context.Context) error {
	batch, err := p.repo.GetUnpublished(ctx, p.cfg.BatchSize)
	if err != nil {
		p.noteError(err)
		return err
	}
	p.noteBatch(batch)

	for _, msg := range batch {
		p.relay(ctx, msg)
	}
	return nil
}

func (p *Processor) relay(ctx context.Context, msg *Message) {
	pubErr := p.publisher.Publish(ctx, msg.RoutingKey, msg.Payload)
	if pubErr == nil {
		if err := p.repo.MarkPublished(ctx, msg.ID); err != nil {
			p.logger.Error("outbox mark published failed", "id", msg.ID, "error", err)
			return
		}
		p.published.Add(1)
		return
	}

	meta := msg.decodeMetadata()
	p.logger.Warn("outbox publish failed",
		"id", msg.ID,
		"routing_key", msg.RoutingKey,
		"event_id", msg.EventID,
		"correlation_id", meta.CorrelationID,
		"causation_id", meta.CausationID,
		"attempt", msg.RetryCount+1,
		"error", pubErr,
	)
	p.noteError(pubErr)

	if !msg.CanRetry(p.cfg.MaxRetries - 1) {
		p.dead.Add(1)
		if err := p.repo.MarkDead(ctx, msg.ID, pubErr.Error()); err != nil {
			p.logger.Error("outbox dead-letter failed", "id", msg.ID, "error", err)
		}
		return
	}

	p.failed.Add(1)
	next := time.Now().Add(p.backoff(msg.RetryCount + 1))
	if err := p.repo.MarkFailed(ctx, msg.ID, pubErr.Error(), next); err != nil {
		p.logger.Error("outbox mark failed failed", "id", msg.ID, "error", err)
	}
}

// backoff doubles from RetryBackoffBase per attempt, capped at
// RetryBackoffMax.
func (p *Processor) backoff(attempt int) time.Duration {
	base, ceiling := p.cfg.RetryBackoffBase, p.cfg.RetryBackoffMax
	if base <= 0 {
		base = time.Second
	}
	if ceiling <= 0 {
		ceiling = time.Minute
	}
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= ceiling {
			return ceiling
		}
	}
	return min(d, ceiling)
}

func (p *Processor) noteError(err error) {
	now := time.Now()
	p.mu.Lock()
	p.health.LastError = err.Error()
	p.health.LastErrorAt = &now
	p.mu.Unlock()
}

func (p *Processor) noteBatch(batch []*Message) {
	now := time.Now()
	var oldest *time.Time
	for _, m := range batch {
		if oldest == nil || m.CreatedAt.Before(*oldest) {
			at := m.CreatedAt
			oldest = &at
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.health.LastProcessedAt = &now
	p.health.OldestMessageAt = oldest
	p.health.LagSeconds = 0
	if oldest != nil {
		p.health.LagSeconds = now.Sub(*oldest).Seconds()
	}
}
