// Package app wires the mindfulness contexts into a runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	analyticsApp "github.com/felixgeelhaar/mindful/internal/analytics/application"
	analyticsQueries "github.com/felixgeelhaar/mindful/internal/analytics/application/queries"
	analytics "github.com/felixgeelhaar/mindful/internal/analytics/domain"
	"github.com/felixgeelhaar/mindful/internal/analytics/infrastructure/cache"
	exportApp "github.com/felixgeelhaar/mindful/internal/export/application"
	exportSubscribers "github.com/felixgeelhaar/mindful/internal/export/application/subscribers"
	exportDomain "github.com/felixgeelhaar/mindful/internal/export/domain"
	"github.com/felixgeelhaar/mindful/internal/export/infrastructure/caldav"
	"github.com/felixgeelhaar/mindful/internal/export/infrastructure/encoders"
	goalCommands "github.com/felixgeelhaar/mindful/internal/goals/application/commands"
	goalQueries "github.com/felixgeelhaar/mindful/internal/goals/application/queries"
	goalsPersistence "github.com/felixgeelhaar/mindful/internal/goals/infrastructure/persistence"
	notificationsApp "github.com/felixgeelhaar/mindful/internal/notifications/application"
	notificationCommands "github.com/felixgeelhaar/mindful/internal/notifications/application/commands"
	notificationQueries "github.com/felixgeelhaar/mindful/internal/notifications/application/queries"
	"github.com/felixgeelhaar/mindful/internal/notifications/application/scheduler"
	notificationSubscribers "github.com/felixgeelhaar/mindful/internal/notifications/application/subscribers"
	notificationsDomain "github.com/felixgeelhaar/mindful/internal/notifications/domain"
	"github.com/felixgeelhaar/mindful/internal/notifications/infrastructure/discord"
	notificationsPersistence "github.com/felixgeelhaar/mindful/internal/notifications/infrastructure/persistence"
	practiceCommands "github.com/felixgeelhaar/mindful/internal/practice/application/commands"
	practiceQueries "github.com/felixgeelhaar/mindful/internal/practice/application/queries"
	practicePersistence "github.com/felixgeelhaar/mindful/internal/practice/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/mindful/internal/shared/application"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/mindful/internal/shared/infrastructure/database/postgres"
	_ "github.com/felixgeelhaar/mindful/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/mindful/internal/sounds"
	"github.com/felixgeelhaar/mindful/pkg/config"
	"github.com/felixgeelhaar/mindful/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics

	// Database
	DBConn     database.Connection
	UnitOfWork sharedApplication.UnitOfWork

	// Redis, nil when not configured or unreachable in development
	RedisClient *redis.Client

	// Analytics
	Calendar   analytics.Calendar
	Engine     analytics.Engine
	StatsCache analyticsQueries.Cache
	Stats      *analyticsApp.Service

	// Repositories
	SessionRepo  *practicePersistence.SessionRepository
	TagRepo      *practicePersistence.TagRepository
	GoalRepo     *goalsPersistence.GoalRepository
	SettingsRepo *notificationsPersistence.SettingsRepository
	OutboxRepo   outbox.Repository

	// Events
	EventBus        *eventbus.InProcessEventBus
	EventPublisher  eventbus.Publisher
	OutboxProcessor *outbox.Processor
	// RemoteEvents is true when events leave the process through RabbitMQ.
	RemoteEvents bool

	// Practice command handlers
	CreateSessionHandler  *practiceCommands.CreateSessionHandler
	UpdateSessionHandler  *practiceCommands.UpdateSessionHandler
	DeleteSessionHandler  *practiceCommands.DeleteSessionHandler
	LogSessionHandler     *practiceCommands.LogSessionHandler
	CreateTagHandler      *practiceCommands.CreateTagHandler
	DeleteTagHandler      *practiceCommands.DeleteTagHandler
	SetSessionTagsHandler *practiceCommands.SetSessionTagsHandler

	// Practice query handlers
	GetSessionHandler     *practiceQueries.GetSessionHandler
	ListSessionsHandler   *practiceQueries.ListSessionsHandler
	ListTagsHandler       *practiceQueries.ListTagsHandler
	GetSessionTagsHandler *practiceQueries.GetSessionTagsHandler

	// Goal handlers
	CreateGoalHandler *goalCommands.CreateGoalHandler
	UpdateGoalHandler *goalCommands.UpdateGoalHandler
	DeleteGoalHandler *goalCommands.DeleteGoalHandler
	GetGoalHandler    *goalQueries.GetGoalHandler
	ListGoalsHandler  *goalQueries.ListGoalsHandler

	// Export
	CalendarMirror exportDomain.CalendarMirror
	Export         *exportApp.Service

	// Sounds
	Sounds *sounds.Catalog

	// Notifications
	Settings                    *notificationsApp.SettingsReader
	Notifier                    notificationsDomain.Notifier
	Scheduler                   *scheduler.Scheduler
	SetWebhookHandler           *notificationCommands.SetWebhookHandler
	UpdateReminderConfigHandler *notificationCommands.UpdateReminderConfigHandler
	SendTestHandler             *notificationCommands.SendTestHandler
	GetStatusHandler            *notificationQueries.GetStatusHandler
	GetReminderConfigHandler    *notificationQueries.GetReminderConfigHandler

	// Health
	Health *observability.HealthRegistry
}

// Option customises a container before its handlers are built.
type Option func(*Container)

// WithNotifier replaces the Discord client.
func WithNotifier(n notificationsDomain.Notifier) Option {
	return func(c *Container) { c.Notifier = n }
}

// WithCalendarMirror replaces the CalDAV mirror.
func WithCalendarMirror(m exportDomain.CalendarMirror) Option {
	return func(c *Container) { c.CalendarMirror = m }
}

// WithMetrics replaces the in-memory metrics sink.
func WithMetrics(m observability.Metrics) Option {
	return func(c *Container) { c.Metrics = m }
}

// NewContainer connects to the configured database and builds the container.
// SQLite databases are migrated on open.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.Driver(cfg.DatabaseDriver),
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("connected to database", "driver", conn.Driver())

	if conn.Driver() == database.DriverSQLite {
		if err := migrations.Run(ctx, conn); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to migrate SQLite database: %w", err)
		}
	}

	c, err := NewContainerWithConnection(ctx, cfg, conn, logger, opts...)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

// NewContainerWithConnection builds the container over an open, migrated
// connection. The container takes ownership of conn.
func NewContainerWithConnection(ctx context.Context, cfg *config.Config, conn database.Connection, logger *slog.Logger, opts ...Option) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:     cfg,
		Logger:     logger,
		DBConn:     conn,
		UnitOfWork: database.NewUnitOfWork(conn),
		Health:     observability.NewHealthRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Metrics == nil {
		c.Metrics = observability.NewInMemoryMetrics()
	}

	c.Health.Register("database", observability.PingChecker("database", conn.Ping))

	if err := c.connectRedis(ctx); err != nil {
		return nil, err
	}

	repos, err := NewRepositoryFactory(conn).All()
	if err != nil {
		return nil, fmt.Errorf("failed to create repositories: %w", err)
	}
	c.SessionRepo = repos.Sessions
	c.TagRepo = repos.Tags
	c.GoalRepo = repos.Goals
	c.SettingsRepo = repos.Settings
	c.OutboxRepo = repos.Outbox

	c.Calendar = analytics.NewCalendar(cfg.Location())
	c.Engine = analytics.NewEngine(c.Calendar)

	// A memory cache is private to this process, so it is only safe when no
	// other process (worker, mcp) consumes the events that clear it.
	switch {
	case cfg.StatsCacheTTL <= 0:
	case c.RedisClient != nil:
		c.StatsCache = cache.NewRedisCache(c.RedisClient, cfg.StatsCacheTTL)
	case cfg.RabbitMQURL == "":
		c.StatsCache = cache.NewMemoryCache(cfg.StatsCacheTTL)
	default:
		c.Logger.Info("stats cache disabled: RabbitMQ without Redis would leave per-process caches stale")
	}
	c.Stats = analyticsApp.NewService(analyticsQueries.Deps{
		Engine:   c.Engine,
		Sessions: c.SessionRepo,
		Goals:    c.GoalRepo,
		Cache:    c.StatsCache,
		Logger:   logger,
	}, c.Metrics)

	c.buildPracticeHandlers()
	c.buildGoalHandlers()
	c.buildNotifications()
	c.buildExport()
	c.Sounds = sounds.NewCatalog(cfg.SoundsDir)

	if err := c.buildEvents(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Container) connectRedis(ctx context.Context) error {
	cfg := c.Config
	if cfg.RedisURL == "" {
		return nil
	}
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		if !cfg.IsDevelopment() {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		c.Logger.Warn("invalid Redis URL, stats cache will use in-memory fallback", "error", err)
		return nil
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if !cfg.IsDevelopment() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, stats cache will use in-memory fallback", "error", err)
		return nil
	}
	c.RedisClient = client
	c.Health.Register("redis", observability.OptionalPingChecker("redis", func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}))
	c.Logger.Info("connected to Redis")
	return nil
}

// statsUnitOfWork clears cached statistics as soon as a session or goal
// write commits, so reads in this process never wait for the outbox.
func (c *Container) statsUnitOfWork() sharedApplication.UnitOfWork {
	if c.StatsCache == nil {
		return c.UnitOfWork
	}
	return sharedApplication.AfterCommit(c.UnitOfWork, func(ctx context.Context) {
		if err := c.StatsCache.Invalidate(ctx); err != nil {
			c.Logger.WarnContext(ctx, "stats cache invalidation failed", "error", err)
		}
	})
}

func (c *Container) buildPracticeHandlers() {
	uow := c.statsUnitOfWork()
	c.CreateSessionHandler = practiceCommands.NewCreateSessionHandler(c.SessionRepo, c.OutboxRepo, uow)
	c.UpdateSessionHandler = practiceCommands.NewUpdateSessionHandler(c.SessionRepo, c.OutboxRepo, uow)
	c.DeleteSessionHandler = practiceCommands.NewDeleteSessionHandler(c.SessionRepo, c.OutboxRepo, uow)
	c.LogSessionHandler = practiceCommands.NewLogSessionHandler(c.SessionRepo, c.OutboxRepo, uow)
	c.CreateTagHandler = practiceCommands.NewCreateTagHandler(c.TagRepo)
	c.DeleteTagHandler = practiceCommands.NewDeleteTagHandler(c.TagRepo, c.UnitOfWork)
	c.SetSessionTagsHandler = practiceCommands.NewSetSessionTagsHandler(c.SessionRepo, c.TagRepo, c.UnitOfWork)

	c.GetSessionHandler = practiceQueries.NewGetSessionHandler(c.SessionRepo)
	c.ListSessionsHandler = practiceQueries.NewListSessionsHandler(c.SessionRepo)
	c.ListTagsHandler = practiceQueries.NewListTagsHandler(c.TagRepo)
	c.GetSessionTagsHandler = practiceQueries.NewGetSessionTagsHandler(c.TagRepo)
}

func (c *Container) buildGoalHandlers() {
	uow := c.statsUnitOfWork()
	c.CreateGoalHandler = goalCommands.NewCreateGoalHandler(c.GoalRepo, c.OutboxRepo, uow, c.Calendar)
	c.UpdateGoalHandler = goalCommands.NewUpdateGoalHandler(c.GoalRepo, c.OutboxRepo, uow)
	c.DeleteGoalHandler = goalCommands.NewDeleteGoalHandler(c.GoalRepo, c.OutboxRepo, uow)
	c.GetGoalHandler = goalQueries.NewGetGoalHandler(c.GoalRepo)
	c.ListGoalsHandler = goalQueries.NewListGoalsHandler(c.GoalRepo)
}

func (c *Container) buildNotifications() {
	cfg := c.Config
	defaults := notificationsDomain.DefaultSettings()
	defaults.WebhookURL = cfg.DiscordWebhookURL
	defaults.ReminderEnabled = cfg.ReminderEnabled
	defaults.ReminderHour = cfg.ReminderHour
	defaults.ReminderMinute = cfg.ReminderMinute
	c.Settings = notificationsApp.NewSettingsReader(c.SettingsRepo, defaults)

	if c.Notifier == nil {
		discordCfg := discord.DefaultConfig()
		discordCfg.Timeout = cfg.WebhookTimeout
		c.Notifier = discord.NewClient(discordCfg, c.Metrics, c.Logger)
	}

	c.Scheduler = scheduler.New(c.Settings, c.Notifier, c.Engine, c.SessionRepo, scheduler.Config{
		Tick:                 cfg.SchedulerTick,
		WeeklySummaryEnabled: cfg.WeeklySummaryEnabled,
	}, c.Logger)

	c.SetWebhookHandler = notificationCommands.NewSetWebhookHandler(c.Settings, c.SettingsRepo)
	c.UpdateReminderConfigHandler = notificationCommands.NewUpdateReminderConfigHandler(c.Settings, c.SettingsRepo)
	c.SendTestHandler = notificationCommands.NewSendTestHandler(c.Settings, c.Notifier, c.Logger)
	c.GetStatusHandler = notificationQueries.NewGetStatusHandler(c.Settings)
	c.GetReminderConfigHandler = notificationQueries.NewGetReminderConfigHandler(c.Settings)
}

func (c *Container) buildExport() {
	cfg := c.Config
	if c.CalendarMirror == nil && cfg.CalDAVEnabled() {
		c.CalendarMirror = caldav.NewMirror(cfg.CalDAVURL, cfg.CalDAVUsername, cfg.CalDAVPassword, c.Logger).
			WithCalendarPath(cfg.CalDAVCalendarPath)
		c.Logger.Info("CalDAV mirror enabled", "url", cfg.CalDAVURL)
	}
	c.Export = exportApp.NewService(c.SessionRepo, encoders.All(), c.CalendarMirror, cfg.Location(), c.Logger)
}

// buildEvents picks the publisher the outbox drains into. With RabbitMQ the
// worker consumes; without it consumers run synchronously in this process.
func (c *Container) buildEvents() error {
	cfg := c.Config
	c.EventBus = eventbus.NewInProcessEventBus(c.Logger)

	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, c.Logger)
		if err != nil {
			if !cfg.IsDevelopment() {
				return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			c.Logger.Warn("RabbitMQ not available, dispatching events in-process", "error", err)
		} else {
			c.EventPublisher = publisher
			c.RemoteEvents = true
		}
	}

	if c.EventPublisher == nil {
		for _, consumer := range c.Consumers() {
			c.EventBus.RegisterConsumer(consumer)
		}
		c.EventPublisher = c.EventBus
	}

	processorCfg := outbox.DefaultProcessorConfig()
	if cfg.OutboxPollInterval > 0 {
		processorCfg.PollInterval = cfg.OutboxPollInterval
	}
	if cfg.OutboxBatchSize > 0 {
		processorCfg.BatchSize = cfg.OutboxBatchSize
	}
	if cfg.OutboxMaxRetries > 0 {
		processorCfg.MaxRetries = cfg.OutboxMaxRetries
	}
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorCfg, c.Logger)
	return nil
}

// Consumers returns the event consumers that react to practice and goal
// changes: stats cache invalidation, Discord announcements and the CalDAV
// mirror.
func (c *Container) Consumers() []eventbus.EventConsumer {
	var consumers []eventbus.EventConsumer
	if c.StatsCache != nil {
		consumers = append(consumers, cache.NewInvalidator(c.StatsCache, c.Logger))
	}
	consumers = append(consumers, notificationSubscribers.NewSessionCompletedSubscriber(
		c.Settings, c.Notifier, c.Engine, c.SessionRepo, c.Logger,
	))
	if c.CalendarMirror != nil {
		consumers = append(consumers, exportSubscribers.NewCalendarMirrorSubscriber(c.SessionRepo, c.CalendarMirror, c.Logger))
	}
	return consumers
}

// StartBackgroundJobs starts the outbox processor with its cleanup loop and
// the reminder scheduler. They stop with ctx or Close. Only the process named
// by Config.BackgroundJobs should call it, or Discord messages go out twice.
func (c *Container) StartBackgroundJobs(ctx context.Context) error {
	if c.Config.OutboxProcessorEnabled {
		if err := c.OutboxProcessor.Start(ctx); err != nil {
			return fmt.Errorf("start outbox processor: %w", err)
		}
		go outbox.RunCleanup(ctx, c.OutboxRepo, c.Config.OutboxCleanupInterval, c.Config.OutboxRetentionDays, c.Logger)
	}
	if err := c.Scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	return nil
}

// Close releases all resources.
func (c *Container) Close() {
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}

	if c.OutboxProcessor != nil && c.OutboxProcessor.IsRunning() {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		} else {
			c.Logger.Info("database connection closed", "driver", c.DBConn.Driver())
		}
	}
}
