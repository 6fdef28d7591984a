package domain

import (
	"fmt"
	"strconv"
	"time"

	analytics "github.com/felixgeelhaar/mindful/internal/analytics/domain"
)

// Embed colors.
const (
	ColorIndigo = 0x6366F1
	ColorAmber  = 0xF59E0B
	ColorGreen  = 0x10B981
)

// Embed is a Discord message embed.
type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// EmbedField is one name/value row of an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// WebhookPayload is the body posted to a Discord webhook.
type WebhookPayload struct {
	Content string  `json:"content"`
	Embeds  []Embed `json:"embeds"`
}

// NewWebhookPayload wraps a single embed.
func NewWebhookPayload(embed Embed) WebhookPayload {
	return WebhookPayload{Content: "", Embeds: []Embed{embed}}
}

var moodEmojis = map[string]string{
	"calm":     "😌",
	"happy":    "😊",
	"peaceful": "🙂",
	"neutral":  "😐",
	"tired":    "😔",
}

// SessionCompleteEmbed announces a finished session. Duration is whole
// minutes of the actual duration, zero when it was never recorded.
func SessionCompleteEmbed(actualDurationSeconds *int, moodAfter *string, now time.Time) Embed {
	minutes := 0
	if actualDurationSeconds != nil {
		minutes = *actualDurationSeconds / 60
	}

	embed := Embed{
		Title: "🧘 Meditation Complete",
		Color: ColorIndigo,
		Fields: []EmbedField{
			{Name: "Duration", Value: fmt.Sprintf("%d minutes", minutes), Inline: true},
		},
		Timestamp: now.UTC().Format(time.RFC3339),
	}

	if moodAfter != nil && *moodAfter != "" {
		value := *moodAfter
		if emoji, ok := moodEmojis[value]; ok {
			value = emoji + " " + value
		}
		embed.Fields = append(embed.Fields, EmbedField{Name: "Mood", Value: value, Inline: true})
	}

	return embed
}

var milestones = map[int]string{
	7:   "1 Week",
	14:  "2 Weeks",
	30:  "1 Month",
	60:  "2 Months",
	100: "100 Days",
}

// Milestone names the streak milestone reached at exactly streak days.
func Milestone(streak int) (string, bool) {
	name, ok := milestones[streak]
	return name, ok
}

// StreakMilestoneEmbed celebrates a milestone. ok is false when streak is not
// a milestone.
func StreakMilestoneEmbed(streak int) (Embed, bool) {
	name, ok := Milestone(streak)
	if !ok {
		return Embed{}, false
	}
	return Embed{
		Title:       fmt.Sprintf("🔥 Streak Milestone: %s!", name),
		Description: fmt.Sprintf("You've meditated for %d days in a row!", streak),
		Color:       ColorAmber,
	}, true
}

// WeeklySummaryEmbed reports the trailing week.
func WeeklySummaryEmbed(summary analytics.WeeklySummary) Embed {
	return Embed{
		Title: "📊 Weekly Meditation Summary",
		Color: ColorGreen,
		Fields: []EmbedField{
			{Name: "Sessions", Value: strconv.Itoa(summary.Sessions), Inline: true},
			{Name: "Total Time", Value: fmt.Sprintf("%d min", summary.Minutes), Inline: true},
			{Name: "Streak", Value: fmt.Sprintf("%d days", summary.Streak), Inline: true},
		},
	}
}

// ReminderEmbed nudges when nothing was practiced today.
func ReminderEmbed() Embed {
	return Embed{
		Title:       "Time for Mindfulness",
		Description: "You haven't meditated today. Take a moment for yourself.",
		Color:       ColorIndigo,
	}
}

// TestEmbed confirms a freshly configured webhook.
func TestEmbed() Embed {
	return Embed{
		Title:       "🧘 Mindfulness App Connected",
		Description: "Test notification from your meditation app!",
		Color:       ColorIndigo,
	}
}
