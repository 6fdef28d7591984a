package commands

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/mindful/internal/practice/domain"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type txKey struct{}

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) Save(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *mockSessionRepo) List(ctx context.Context, filter domain.SessionFilter) ([]*domain.Session, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Session), args.Error(1)
}

func (m *mockSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockTagRepo struct {
	mock.Mock
}

func (m *mockTagRepo) Save(ctx context.Context, tag *domain.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *mockTagRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tag), args.Error(1)
}

func (m *mockTagRepo) List(ctx context.Context) ([]*domain.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Tag), args.Error(1)
}

func (m *mockTagRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTagRepo) ReplaceSessionTags(ctx context.Context, sessionID uuid.UUID, tagIDs []uuid.UUID) error {
	args := m.Called(ctx, sessionID, tagIDs)
	return args.Error(0)
}

func (m *mockTagRepo) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Tag, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Tag), args.Error(1)
}

// mockOutboxRepo records SaveBatch calls; handlers never touch the
// relay side of the repository.
type mockOutboxRepo struct {
	outbox.Repository
	mock.Mock
}

func (m *mockOutboxRepo) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	return m.Called(ctx, msgs).Error(0)
}

type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// txHarness bundles the mocks a session command needs. tx is the context
// the unit of work hands back from Begin.
type txHarness struct {
	sessions *mockSessionRepo
	outbox   *mockOutboxRepo
	uow      *mockUnitOfWork
	ctx      context.Context
	tx       context.Context
}

func newTxHarness() *txHarness {
	ctx := context.Background()
	h := &txHarness{
		sessions: new(mockSessionRepo),
		outbox:   new(mockOutboxRepo),
		uow:      new(mockUnitOfWork),
		ctx:      ctx,
		tx:       context.WithValue(ctx, txKey{}, "tx"),
	}
	h.uow.On("Begin", h.ctx).Return(h.tx, nil)
	return h
}

func (h *txHarness) commits() *txHarness {
	h.uow.On("Commit", h.tx).Return(nil)
	return h
}

func (h *txHarness) rollsBack() *txHarness {
	h.uow.On("Rollback", h.tx).Return(nil)
	return h
}

func (h *txHarness) verify(t *testing.T) {
	t.Helper()
	h.sessions.AssertExpectations(t)
	h.outbox.AssertExpectations(t)
	h.uow.AssertExpectations(t)
}

func ptr[T any](v T) *T { return &v }

// routingKeysOf matches a SaveBatch argument against the expected routing keys.
func routingKeysOf(keys ...string) any {
	return mock.MatchedBy(func(msgs []*outbox.Message) bool {
		if len(msgs) != len(keys) {
			return false
		}
		for i, msg := range msgs {
			if msg.RoutingKey != keys[i] {
				return false
			}
		}
		return true
	})
}
