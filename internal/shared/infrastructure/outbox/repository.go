package outbox

import (
	"context"
	"time"
)

// Repository stores outbox rows. SaveBatch joins the transaction carried
// by ctx so events commit together with the aggregate that raised them.
type Repository interface {
	Save(ctx context.Context, msg *Message) error
	SaveBatch(ctx context.Context, msgs []*Message) error

	// GetUnpublished returns deliverable rows oldest first, skipping
	// dead-lettered rows and rows whose retry time is in the future.
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)

	MarkPublished(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string, nextRetryAt time.Time) error
	MarkDead(ctx context.Context, id int64, reason string) error

	// DeleteOld purges rows published more than olderThanDays ago.
	DeleteOld(ctx context.Context, olderThanDays int) (int64, error)
}
