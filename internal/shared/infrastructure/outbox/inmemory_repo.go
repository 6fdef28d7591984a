package outbox

import (
	"context"
	"slices"
	"sync"
	"time"
)

// InMemoryRepository keeps outbox rows in a slice. It backs tests and the
// in-process wiring where no database is configured.
type InMemoryRepository struct {
	mu   sync.Mutex
	rows []*Message
	seq  int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Save(_ context.Context, msg *Message) error {
	return r.SaveBatch(context.Background(), []*Message{msg})
}

func (r *InMemoryRepository) SaveBatch(_ context.Context, msgs []*Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.seq++
		m.ID = r.seq
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}
		r.rows = append(r.rows, m)
	}
	return nil
}

func (r *InMemoryRepository) GetUnpublished(_ context.Context, limit int) ([]*Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	due := make([]*Message, 0, limit)
	for _, m := range r.rows {
		if len(due) == limit {
			break
		}
		if deliverable(m, now) {
			due = append(due, m)
		}
	}
	return due, nil
}

func (r *InMemoryRepository) MarkPublished(_ context.Context, id int64) error {
	r.update(id, func(m *Message) {
		now := time.Now()
		m.PublishedAt = &now
		m.DeadLetteredAt = nil
	})
	return nil
}

func (r *InMemoryRepository) MarkFailed(_ context.Context, id int64, reason string, nextRetryAt time.Time) error {
	r.update(id, func(m *Message) {
		m.RetryCount++
		m.LastError = &reason
		m.NextRetryAt = &nextRetryAt
	})
	return nil
}

func (r *InMemoryRepository) MarkDead(_ context.Context, id int64, reason string) error {
	r.update(id, func(m *Message) {
		now := time.Now()
		m.DeadLetteredAt = &now
		m.DeadLetterReason = &reason
	})
	return nil
}

func (r *InMemoryRepository) DeleteOld(_ context.Context, olderThanDays int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, -olderThanDays)
	before := len(r.rows)
	r.rows = slices.DeleteFunc(r.rows, func(m *Message) bool {
		return m.PublishedAt != nil && m.PublishedAt.Before(cutoff)
	})
	return int64(before - len(r.rows)), nil
}

func (r *InMemoryRepository) update(id int64, fn func(*Message)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := slices.IndexFunc(r.rows, func(m *Message) bool { return m.ID == id }); i >= 0 {
		fn(r.rows[i])
	}
}

func deliverable(m *Message, now time.Time) bool {
	if m.PublishedAt != nil || m.DeadLetteredAt != nil {
		return false
	}
	return m.NextRetryAt == nil || !m.NextRetryAt.After(now)
}
