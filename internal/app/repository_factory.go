package app

import (
	"fmt"

	goalsDomain "github.com/felixgeelhaar/mindful/internal/goals/domain"
	goalsPersistence "github.com/felixgeelhaar/mindful/internal/goals/infrastructure/persistence"
	notificationsDomain "github.com/felixgeelhaar/mindful/internal/notifications/domain"
	notificationsPersistence "github.com/felixgeelhaar/mindful/internal/notifications/infrastructure/persistence"
	practiceDomain "github.com/felixgeelhaar/mindful/internal/practice/domain"
	practicePersistence "github.com/felixgeelhaar/mindful/internal/practice/infrastructure/persistence"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/outbox"
)

// Repositories groups the stores every context persists through.
type Repositories struct {
	Sessions *practicePersistence.SessionRepository
	Tags     *practicePersistence.TagRepository
	Goals    *goalsPersistence.GoalRepository
	Settings *notificationsPersistence.SettingsRepository
	Outbox   outbox.Repository
}

// RepositoryFactory creates repositories for a connection.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{
		conn:   conn,
		driver: conn.Driver(),
	}
}

func (f *RepositoryFactory) check() error {
	switch f.driver {
	case database.DriverPostgres, database.DriverSQLite:
		return nil
	default:
		return fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// SessionRepository creates the practice session repository.
func (f *RepositoryFactory) SessionRepository() (*practicePersistence.SessionRepository, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	return practicePersistence.NewSessionRepository(f.conn), nil
}

// TagRepository creates the tag repository.
func (f *RepositoryFactory) TagRepository() (*practicePersistence.TagRepository, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	return practicePersistence.NewTagRepository(f.conn), nil
}

// GoalRepository creates the goal repository.
func (f *RepositoryFactory) GoalRepository() (*goalsPersistence.GoalRepository, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	return goalsPersistence.NewGoalRepository(f.conn), nil
}

// SettingsRepository creates the notification settings repository.
func (f *RepositoryFactory) SettingsRepository() (*notificationsPersistence.SettingsRepository, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	return notificationsPersistence.NewSettingsRepository(f.conn), nil
}

// OutboxRepository creates the outbox repository.
func (f *RepositoryFactory) OutboxRepository() (outbox.Repository, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	return outbox.NewSQLRepository(f.conn), nil
}

// All creates every repository.
func (f *RepositoryFactory) All() (*Repositories, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	return &Repositories{
		Sessions: practicePersistence.NewSessionRepository(f.conn),
		Tags:     practicePersistence.NewTagRepository(f.conn),
		Goals:    goalsPersistence.NewGoalRepository(f.conn),
		Settings: notificationsPersistence.NewSettingsRepository(f.conn),
		Outbox:   outbox.NewSQLRepository(f.conn),
	}, nil
}

var (
	_ practiceDomain.SessionRepository       = (*practicePersistence.SessionRepository)(nil)
	_ practiceDomain.TagRepository           = (*practicePersistence.TagRepository)(nil)
	_ goalsDomain.Repository                 = (*goalsPersistence.GoalRepository)(nil)
	_ notificationsDomain.SettingsRepository = (*notificationsPersistence.SettingsRepository)(nil)
)
