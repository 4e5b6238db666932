// Package user_tools registers the MCP tools for account-level reads.
//
// All of these are read-only; they register regardless of the server's
// read-only flag.
package user_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/avandorp/ticktick-mcp/internal/server"
	"github.com/avandorp/ticktick-mcp/internal/tools/common"
)

// RegisterUserTools registers all account tools with the MCP server.
func RegisterUserTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	profileTool := mcp.NewTool("ticktick_get_user",
		mcp.WithDescription("Get the signed-in user's profile."),
	)

	s.AddTool(profileTool, common.InstrumentedToolHandler("ticktick_get_user", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		user, err := sc.Client().GetUser(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get user profile: %v", err)), nil
		}

		result, _ := json.MarshalIndent(user, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	statusTool := mcp.NewTool("ticktick_get_user_status",
		mcp.WithDescription("Get account status: subscription level and the inbox project ID."),
	)

	s.AddTool(statusTool, common.InstrumentedToolHandler("ticktick_get_user_status", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		status, err := sc.Client().GetUserStatus(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get user status: %v", err)), nil
		}

		result, _ := json.MarshalIndent(status, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	statisticsTool := mcp.NewTool("ticktick_get_statistics",
		mcp.WithDescription("Get task completion statistics: score, level and completion counts."),
	)

	s.AddTool(statisticsTool, common.InstrumentedToolHandler("ticktick_get_statistics", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, err := sc.Client().GetUserStatistics(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get statistics: %v", err)), nil
		}

		result, _ := json.MarshalIndent(stats, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	focusTool := mcp.NewTool("ticktick_get_focus_summary",
		mcp.WithDescription("Get focus/pomodoro time summary."),
	)

	s.AddTool(focusTool, common.InstrumentedToolHandler("ticktick_get_focus_summary", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summary, err := sc.Client().GetFocusSummary(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get focus summary: %v", err)), nil
		}

		result, _ := json.MarshalIndent(summary, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	fullSyncTool := mcp.NewTool("ticktick_full_sync",
		mcp.WithDescription("Fetch the raw account snapshot exactly as the backend returns it, without normalization. Large; prefer the typed tools."),
	)

	s.AddTool(fullSyncTool, common.InstrumentedToolHandler("ticktick_full_sync", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := sc.Client().FullSync(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch account snapshot: %v", err)), nil
		}

		// Passed through untouched; the snapshot is the backend's own shape.
		return mcp.NewToolResultText(string(raw)), nil
	}))

	return nil
}
