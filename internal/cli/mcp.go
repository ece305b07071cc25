package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	tarsmcp "github.com/valter-silva-au/tars/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the tars MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tars MCP server on stdio",
	Long: `Start the tars MCP server on stdio transport.

The server exposes the task book as MCP tools that AI assistants can call:
list_tasks, get_task, tag_task and get_due.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		var opts []tarsmcp.ServerOption
		if AlertEngine != nil {
			opts = append(opts, tarsmcp.WithAlertEngine(AlertEngine))
		}
		srv := tarsmcp.NewServer(TaskMgr, appVersion, opts...)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}
		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
