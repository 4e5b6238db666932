// Package tag_tools registers the MCP tools for tag operations.
package tag_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/avandorp/ticktick-mcp/internal/server"
	"github.com/avandorp/ticktick-mcp/internal/ticktick"
	"github.com/avandorp/ticktick-mcp/internal/tools/common"
)

// RegisterTagTools registers all tag tools with the MCP server. Write tools
// are skipped in read-only mode.
func RegisterTagTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTagsTool := mcp.NewTool("ticktick_list_tags",
		mcp.WithDescription("List all tags with their colors and parent linkage."),
	)

	s.AddTool(listTagsTool, common.InstrumentedToolHandler("ticktick_list_tags", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tags, err := sc.Client().ListTags(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list tags: %v", err)), nil
		}

		result, _ := json.MarshalIndent(tags, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	getTagTool := mcp.NewTool("ticktick_get_tag",
		mcp.WithDescription("Get a single tag by name."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The tag name (case-sensitive)"),
		),
	)

	s.AddTool(getTagTool, common.InstrumentedToolHandler("ticktick_get_tag", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		name, _ := args["name"].(string)
		if name == "" {
			return mcp.NewToolResultError("name is required"), nil
		}

		tag, err := sc.Client().GetTag(ctx, name)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get tag: %v", err)), nil
		}

		result, _ := json.MarshalIndent(tag, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	if readOnly {
		return nil
	}

	createTagTool := mcp.NewTool("ticktick_create_tag",
		mcp.WithDescription("Create a tag. Tag names are case-sensitive identifiers."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The tag name"),
		),
		mcp.WithString("color",
			mcp.Description("Display color (hex)"),
		),
		mcp.WithString("parent",
			mcp.Description("Name of the parent tag (must not introduce a cycle)"),
		),
	)

	s.AddTool(createTagTool, common.InstrumentedToolHandler("ticktick_create_tag", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		tag, errResult := tagFromArgs(args)
		if errResult != nil {
			return errResult, nil
		}

		if err := sc.Client().CreateTag(ctx, tag); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create tag: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Tag %q created successfully", tag.Name)), nil
	}))

	updateTagTool := mcp.NewTool("ticktick_update_tag",
		mcp.WithDescription("Update a tag's color or parent. Renaming is a separate operation; use ticktick_rename_tag."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The tag name"),
		),
		mcp.WithString("color",
			mcp.Description("Display color (hex)"),
		),
		mcp.WithString("parent",
			mcp.Description("Name of the parent tag (must not introduce a cycle)"),
		),
	)

	s.AddTool(updateTagTool, common.InstrumentedToolHandler("ticktick_update_tag", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		tag, errResult := tagFromArgs(args)
		if errResult != nil {
			return errResult, nil
		}

		if err := sc.Client().UpdateTag(ctx, tag); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to update tag: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Tag %q updated successfully", tag.Name)), nil
	}))

	deleteTagTool := mcp.NewTool("ticktick_delete_tag",
		mcp.WithDescription("Delete a tag. Tasks keep their other tags."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The name of the tag to delete"),
		),
	)

	s.AddTool(deleteTagTool, common.InstrumentedToolHandler("ticktick_delete_tag", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		name, _ := args["name"].(string)
		if name == "" {
			return mcp.NewToolResultError("name is required"), nil
		}

		if err := sc.Client().DeleteTag(ctx, name); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to delete tag: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Tag %q deleted successfully", name)), nil
	}))

	renameTagTool := mcp.NewTool("ticktick_rename_tag",
		mcp.WithDescription("Rename a tag across all tasks. Fails when the new name is already taken."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The current tag name"),
		),
		mcp.WithString("newName",
			mcp.Required(),
			mcp.Description("The new tag name"),
		),
	)

	s.AddTool(renameTagTool, common.InstrumentedToolHandler("ticktick_rename_tag", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		name, _ := args["name"].(string)
		newName, _ := args["newName"].(string)
		if name == "" || newName == "" {
			return mcp.NewToolResultError("name and newName are required"), nil
		}

		if err := sc.Client().RenameTag(ctx, name, newName); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to rename tag: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Tag %q renamed to %q", name, newName)), nil
	}))

	mergeTagsTool := mcp.NewTool("ticktick_merge_tags",
		mcp.WithDescription("Merge the source tag into the target: tasks carrying the source get the target instead, and the source is removed. A no-op when the source does not exist."),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("The name of the tag to merge away"),
		),
		mcp.WithString("target",
			mcp.Required(),
			mcp.Description("The name of the surviving tag"),
		),
	)

	s.AddTool(mergeTagsTool, common.InstrumentedToolHandler("ticktick_merge_tags", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		source, _ := args["source"].(string)
		target, _ := args["target"].(string)
		if source == "" || target == "" {
			return mcp.NewToolResultError("source and target are required"), nil
		}

		if err := sc.Client().MergeTags(ctx, source, target); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to merge tags: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Tag %q merged into %q", source, target)), nil
	}))

	return nil
}

func tagFromArgs(args map[string]interface{}) (*ticktick.Tag, *mcp.CallToolResult) {
	name, _ := args["name"].(string)
	if name == "" {
		return nil, mcp.NewToolResultError("name is required")
	}

	tag := &ticktick.Tag{Name: name}
	tag.Color, _ = args["color"].(string)
	tag.Parent, _ = args["parent"].(string)
	return tag, nil
}
