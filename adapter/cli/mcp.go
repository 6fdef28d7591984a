package cli

import (
	"github.com/spf13/cobra"

	mcpinternal "github.com/felixgeelhaar/mindful/internal/mcp"
)

var mcpAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve practice tools to MCP clients",
	Long: `Start a Model Context Protocol server exposing stats, goals and
session tools. Set MCP_AUTH_TOKEN to require a bearer token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := GetApp(cmd)
		if err != nil {
			return err
		}
		cfg := *app.Config
		if mcpAddr != "" {
			cfg.MCPAddr = mcpAddr
		}
		return mcpinternal.Serve(cmd.Context(), &cfg, app.Container, app.Container.Logger)
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpAddr, "addr", "", "listen address (overrides MCP_ADDR)")
	rootCmd.AddCommand(mcpCmd)
}
