package api

import (
	"time"

	analyticsApp "github.com/felixgeelhaar/mindful/internal/analytics/application"
	"github.com/felixgeelhaar/mindful/internal/app"
	exportApp "github.com/felixgeelhaar/mindful/internal/export/application"
	goalCommands "github.com/felixgeelhaar/mindful/internal/goals/application/commands"
	goalQueries "github.com/felixgeelhaar/mindful/internal/goals/application/queries"
	notificationCommands "github.com/felixgeelhaar/mindful/internal/notifications/application/commands"
	notificationQueries "github.com/felixgeelhaar/mindful/internal/notifications/application/queries"
	practiceCommands "github.com/felixgeelhaar/mindful/internal/practice/application/commands"
	practiceQueries "github.com/felixgeelhaar/mindful/internal/practice/application/queries"
	"github.com/felixgeelhaar/mindful/internal/sounds"
	"github.com/felixgeelhaar/mindful/pkg/observability"
)

// Deps are the application handlers the API routes to.
type Deps struct {
	// Sessions
	CreateSession  *practiceCommands.CreateSessionHandler
	UpdateSession  *practiceCommands.UpdateSessionHandler
	DeleteSession  *practiceCommands.DeleteSessionHandler
	GetSession     *practiceQueries.GetSessionHandler
	ListSessions   *practiceQueries.ListSessionsHandler
	CreateTag      *practiceCommands.CreateTagHandler
	DeleteTag      *practiceCommands.DeleteTagHandler
	SetSessionTags *practiceCommands.SetSessionTagsHandler
	ListTags       *practiceQueries.ListTagsHandler
	GetSessionTags *practiceQueries.GetSessionTagsHandler

	// Goals
	CreateGoal *goalCommands.CreateGoalHandler
	UpdateGoal *goalCommands.UpdateGoalHandler
	DeleteGoal *goalCommands.DeleteGoalHandler
	GetGoal    *goalQueries.GetGoalHandler
	ListGoals  *goalQueries.ListGoalsHandler

	Stats  *analyticsApp.Service
	Export *exportApp.Service
	Sounds *sounds.Catalog

	// Notifications
	SetWebhook           *notificationCommands.SetWebhookHandler
	UpdateReminderConfig *notificationCommands.UpdateReminderConfigHandler
	SendTest             *notificationCommands.SendTestHandler
	DiscordStatus        *notificationQueries.GetStatusHandler
	ReminderConfig       *notificationQueries.GetReminderConfigHandler

	// Health is optional; when set it backs /api/health/ready.
	Health *observability.HealthRegistry

	// Location resolves date-only filters. Defaults to UTC.
	Location *time.Location
}

// DepsFromContainer routes the API to a container's handlers.
func DepsFromContainer(c *app.Container) Deps {
	return Deps{
		CreateSession:  c.CreateSessionHandler,
		UpdateSession:  c.UpdateSessionHandler,
		DeleteSession:  c.DeleteSessionHandler,
		GetSession:     c.GetSessionHandler,
		ListSessions:   c.ListSessionsHandler,
		CreateTag:      c.CreateTagHandler,
		DeleteTag:      c.DeleteTagHandler,
		SetSessionTags: c.SetSessionTagsHandler,
		ListTags:       c.ListTagsHandler,
		GetSessionTags: c.GetSessionTagsHandler,

		CreateGoal: c.CreateGoalHandler,
		UpdateGoal: c.UpdateGoalHandler,
		DeleteGoal: c.DeleteGoalHandler,
		GetGoal:    c.GetGoalHandler,
		ListGoals:  c.ListGoalsHandler,

		Stats:  c.Stats,
		Export: c.Export,
		Sounds: c.Sounds,

		SetWebhook:           c.SetWebhookHandler,
		UpdateReminderConfig: c.UpdateReminderConfigHandler,
		SendTest:             c.SendTestHandler,
		DiscordStatus:        c.GetStatusHandler,
		ReminderConfig:       c.GetReminderConfigHandler,

		Health:   c.Health,
		Location: c.Config.Location(),
	}
}
