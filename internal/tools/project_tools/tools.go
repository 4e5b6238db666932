// Package project_tools registers the MCP tools for project and folder
// operations.
package project_tools

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

// RegisterProjectTools registers all project and folder tools with the MCP
// server. Write tools are skipped in read-only mode.
func RegisterProjectTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerReadTools(s, sc)
	if !readOnly {
		registerWriteTools(s, sc)
	}
	return nil
}

func registerReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	listProjectsTool := mcp.NewTool("ticktick_list_projects",
		mcp.WithDescription("List all projects, the inbox first."),
	)

	s.AddTool(listProjectsTool, common.InstrumentedToolHandler("ticktick_list_projects", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projects, err := sc.Client().ListProjects(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list projects: %v", err)), nil
		}

		result, _ := json.MarshalIndent(projects, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	getProjectTool := mcp.NewTool("ticktick_get_project",
		mcp.WithDescription("Get a project by ID."),
		mcp.WithString("projectId",
			mcp.Required(),
			mcp.Description("The ID of the project"),
		),
	)

	s.AddTool(getProjectTool, common.InstrumentedToolHandler("ticktick_get_project", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		projectID, _ := args["projectId"].(string)
		if projectID == "" {
			return mcp.NewToolResultError("projectId is required"), nil
		}

		project, err := sc.Client().GetProject(ctx, projectID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get project: %v", err)), nil
		}

		result, _ := json.MarshalIndent(project, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	getWithTasksTool := mcp.NewTool("ticktick_get_project_with_tasks",
		mcp.WithDescription("Get a project together with its live tasks."),
		mcp.WithString("projectId",
			mcp.Required(),
			mcp.Description("The ID of the project"),
		),
	)

	s.AddTool(getWithTasksTool, common.InstrumentedToolHandler("ticktick_get_project_with_tasks", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		projectID, _ := args["projectId"].(string)
		if projectID == "" {
			return mcp.NewToolResultError("projectId is required"), nil
		}

		data, err := sc.Client().GetProjectWithTasks(ctx, projectID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get project data: %v", err)), nil
		}

		result, _ := json.MarshalIndent(data, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	listFoldersTool := mcp.NewTool("ticktick_list_folders",
		mcp.WithDescription("List all project folders with their member project IDs."),
	)

	s.AddTool(listFoldersTool, common.InstrumentedToolHandler("ticktick_list_folders", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		folders, err := sc.Client().ListFolders(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list folders: %v", err)), nil
		}

		result, _ := json.MarshalIndent(folders, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	getFolderTool := mcp.NewTool("ticktick_get_folder",
		mcp.WithDescription("Get a project folder by ID with its member project IDs."),
		mcp.WithString("folderId",
			mcp.Required(),
			mcp.Description("The ID of the folder"),
		),
	)

	s.AddTool(getFolderTool, common.InstrumentedToolHandler("ticktick_get_folder", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		folderID, _ := args["folderId"].(string)
		if folderID == "" {
			return mcp.NewToolResultError("folderId is required"), nil
		}

		folder, err := sc.Client().GetFolder(ctx, folderID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get folder: %v", err)), nil
		}

		result, _ := json.MarshalIndent(folder, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))
}

func registerWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	createProjectTool := mcp.NewTool("ticktick_create_project",
		mcp.WithDescription("Create a project."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The project name"),
		),
		mcp.WithString("color",
			mcp.Description("Display color (hex, e.g. #F18181)"),
		),
		mcp.WithString("viewMode",
			mcp.Description("Display mode: list, kanban or timeline (default: list)"),
		),
		mcp.WithString("kind",
			mcp.Description("Project kind: TASK or NOTE (default: TASK)"),
		),
	)

	s.AddTool(createProjectTool, common.InstrumentedToolHandler("ticktick_create_project", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		project, errResult := projectFromArgs(args)
		if errResult != nil {
			return errResult, nil
		}

		created, err := sc.Client().CreateProject(ctx, project)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create project: %v", err)), nil
		}

		result, _ := json.MarshalIndent(created, "", "  ")
		return mcp.NewToolResultText(fmt.Sprintf("Project created successfully:\n%s", string(result))), nil
	}))

	updateProjectTool := mcp.NewTool("ticktick_update_project",
		mcp.WithDescription("Update a project's name, color or view mode. The inbox cannot be updated."),
		mcp.WithString("projectId",
			mcp.Required(),
			mcp.Description("The ID of the project to update"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The project name"),
		),
		mcp.WithString("color",
			mcp.Description("Display color (hex)"),
		),
		mcp.WithString("viewMode",
			mcp.Description("Display mode: list, kanban or timeline"),
		),
		mcp.WithString("kind",
			mcp.Description("Project kind: TASK or NOTE"),
		),
	)

	s.AddTool(updateProjectTool, common.InstrumentedToolHandler("ticktick_update_project", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		project, errResult := projectFromArgs(args)
		if errResult != nil {
			return errResult, nil
		}
		project.ID, _ = args["projectId"].(string)
		if project.ID == "" {
			return mcp.NewToolResultError("projectId is required"), nil
		}

		updated, err := sc.Client().UpdateProject(ctx, project)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to update project: %v", err)), nil
		}

		result, _ := json.MarshalIndent(updated, "", "  ")
		return mcp.NewToolResultText(fmt.Sprintf("Project updated successfully:\n%s", string(result))), nil
	}))

	deleteProjectTool := mcp.NewTool("ticktick_delete_project",
		mcp.WithDescription("Delete a project and its tasks. The inbox cannot be deleted."),
		mcp.WithString("projectId",
			mcp.Required(),
			mcp.Description("The ID of the project to delete"),
		),
	)

	s.AddTool(deleteProjectTool, common.InstrumentedToolHandler("ticktick_delete_project", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		projectID, _ := args["projectId"].(string)
		if projectID == "" {
			return mcp.NewToolResultError("projectId is required"), nil
		}

		if err := sc.Client().DeleteProject(ctx, projectID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to delete project: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Project %s deleted successfully", projectID)), nil
	}))

	createFolderTool := mcp.NewTool("ticktick_create_folder",
		mcp.WithDescription("Create a project folder."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The folder name"),
		),
	)

	s.AddTool(createFolderTool, common.InstrumentedToolHandler("ticktick_create_folder", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		name, _ := args["name"].(string)
		if name == "" {
			return mcp.NewToolResultError("name is required"), nil
		}

		folder, err := sc.Client().CreateFolder(ctx, name)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create folder: %v", err)), nil
		}

		result, _ := json.MarshalIndent(folder, "", "  ")
		return mcp.NewToolResultText(fmt.Sprintf("Folder created successfully:\n%s", string(result))), nil
	}))

	renameFolderTool := mcp.NewTool("ticktick_rename_folder",
		mcp.WithDescription("Rename a project folder."),
		mcp.WithString("folderId",
			mcp.Required(),
			mcp.Description("The ID of the folder to rename"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The new folder name"),
		),
	)

	s.AddTool(renameFolderTool, common.InstrumentedToolHandler("ticktick_rename_folder", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		folderID, _ := args["folderId"].(string)
		name, _ := args["name"].(string)
		if folderID == "" || name == "" {
			return mcp.NewToolResultError("folderId and name are required"), nil
		}

		if err := sc.Client().RenameFolder(ctx, folderID, name); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to rename folder: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Folder %s renamed to %q", folderID, name)), nil
	}))

	deleteFolderTool := mcp.NewTool("ticktick_delete_folder",
		mcp.WithDescription("Delete a project folder. Member projects survive and become ungrouped."),
		mcp.WithString("folderId",
			mcp.Required(),
			mcp.Description("The ID of the folder to delete"),
		),
	)

	s.AddTool(deleteFolderTool, common.InstrumentedToolHandler("ticktick_delete_folder", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		folderID, _ := args["folderId"].(string)
		if folderID == "" {
			return mcp.NewToolResultError("folderId is required"), nil
		}

		if err := sc.Client().DeleteFolder(ctx, folderID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to delete folder: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Folder %s deleted successfully", folderID)), nil
	}))
}

// projectFromArgs builds a canonical project from the arguments shared by
// create and update.
func projectFromArgs(args map[string]interface{}) (*ticktick.Project, *mcp.CallToolResult) {
	name, _ := args["name"].(string)
	if name == "" {
		return nil, mcp.NewToolResultError("name is required")
	}

	project := &ticktick.Project{Name: name}
	project.Color, _ = args["color"].(string)

	if v, ok := args["viewMode"].(string); ok && v != "" {
		switch mode := ticktick.ViewMode(v); mode {
		case ticktick.ViewModeList, ticktick.ViewModeKanban, ticktick.ViewModeTimeline:
			project.ViewMode = mode
		default:
			return nil, mcp.NewToolResultError(fmt.Sprintf("viewMode %q is not one of list, kanban, timeline", v))
		}
	}

	if v, ok := args["kind"].(string); ok && v != "" {
		switch kind := ticktick.ProjectKind(v); kind {
		case ticktick.ProjectKindTask, ticktick.ProjectKindNote:
			project.Kind = kind
		default:
			return nil, mcp.NewToolResultError(fmt.Sprintf("kind %q is not one of TASK, NOTE", v))
		}
	}

	return project, nil
}
