package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers prompts for reflecting on practice.
func RegisterPrompts(srv *mcp.Server) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("practice_review").
		Description("Review recent meditation practice and suggest a realistic goal for the coming week.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Practice Review",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Help me review my meditation practice. Please:

1. Read mindful://stats/summary and mindful://stats/weekly
2. Look at mindful://stats/heatmap for the days I tend to skip
3. Check mindful://goals/progress

Then:
- Summarise how consistent I have been this week compared to my longest streak
- Point out any weekday pattern in missed days
- Suggest one goal I can keep (use goals.create if I agree)

Keep the tone encouraging and brief.`,
						},
					},
				},
			}, nil
		})

	srv.Prompt("log_session").
		Description("Record a session I just finished, asking for anything missing.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Log Session",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `I just finished meditating. Ask me how many minutes I sat and how I feel now,
then record it with session.log. Afterwards show my current streak with stats.streak.`,
						},
					},
				},
			}, nil
		})

	return nil
}
