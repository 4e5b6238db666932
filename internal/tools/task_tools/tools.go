// Package task_tools registers the MCP tools for task operations.
package task_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/avandorp/ticktick-mcp/internal/server"
	"github.com/avandorp/ticktick-mcp/internal/ticktick"
	"github.com/avandorp/ticktick-mcp/internal/tools/common"
)

// RegisterTaskTools registers all task-related tools with the MCP server.
// Write tools are skipped in read-only mode.
func RegisterTaskTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerReadTools(s, sc)
	if !readOnly {
		registerWriteTools(s, sc)
	}
	return nil
}

func registerReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	getTaskTool := mcp.NewTool("ticktick_get_task",
		mcp.WithDescription("Get a task by project and task ID. Soft-deleted tasks are returned with the deleted flag set."),
		mcp.WithString("projectId",
			mcp.Required(),
			mcp.Description("The ID of the project containing the task"),
		),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to retrieve"),
		),
	)

	s.AddTool(getTaskTool, common.InstrumentedToolHandler("ticktick_get_task", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		projectID, _ := args["projectId"].(string)
		taskID, _ := args["taskId"].(string)
		if projectID == "" || taskID == "" {
			return mcp.NewToolResultError("projectId and taskId are required"), nil
		}

		task, err := sc.Client().GetTask(ctx, projectID, taskID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get task: %v", err)), nil
		}

		result, _ := json.MarshalIndent(task, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	listAllTool := mcp.NewTool("ticktick_list_all_tasks",
		mcp.WithDescription("List every live task across all projects, including tags and subtask linkage."),
	)

	s.AddTool(listAllTool, common.InstrumentedToolHandler("ticktick_list_all_tasks", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tasks, err := sc.Client().ListAllTasks(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list tasks: %v", err)), nil
		}

		result, _ := json.MarshalIndent(tasks, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	searchTool := mcp.NewTool("ticktick_search_tasks",
		mcp.WithDescription("Search tasks by case-insensitive substring over title and content."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The substring to search for"),
		),
	)

	s.AddTool(searchTool, common.InstrumentedToolHandler("ticktick_search_tasks", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		query, _ := args["query"].(string)
		if query == "" {
			return mcp.NewToolResultError("query is required"), nil
		}

		tasks, err := sc.Client().SearchTasks(ctx, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to search tasks: %v", err)), nil
		}

		result, _ := json.MarshalIndent(tasks, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	byTagTool := mcp.NewTool("ticktick_get_tasks_by_tag",
		mcp.WithDescription("List every live task carrying the named tag."),
		mcp.WithString("tag",
			mcp.Required(),
			mcp.Description("The tag name (case-sensitive)"),
		),
	)

	s.AddTool(byTagTool, common.InstrumentedToolHandler("ticktick_get_tasks_by_tag", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		tag, _ := args["tag"].(string)
		if tag == "" {
			return mcp.NewToolResultError("tag is required"), nil
		}

		tasks, err := sc.Client().GetTasksByTag(ctx, tag)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get tasks by tag: %v", err)), nil
		}

		result, _ := json.MarshalIndent(tasks, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	listCompletedTool := mcp.NewTool("ticktick_list_completed",
		mcp.WithDescription("List tasks completed in a time window, newest first."),
		mcp.WithString("from",
			mcp.Required(),
			mcp.Description("Window start (RFC3339 format)"),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Window end (RFC3339 format)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of tasks to return (default: 50)"),
		),
	)

	s.AddTool(listCompletedTool, common.InstrumentedToolHandler("ticktick_list_completed", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		from, err := parseRFC3339(args["from"], "from")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		to, err := parseRFC3339(args["to"], "to")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := 0
		if l, ok := args["limit"].(float64); ok {
			limit = int(l)
		}

		tasks, err := sc.Client().ListCompleted(ctx, from, to, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list completed tasks: %v", err)), nil
		}

		result, _ := json.MarshalIndent(tasks, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	listTrashTool := mcp.NewTool("ticktick_list_trash",
		mcp.WithDescription("List every soft-deleted task."),
	)

	s.AddTool(listTrashTool, common.InstrumentedToolHandler("ticktick_list_trash", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tasks, err := sc.Client().ListTrash(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list trash: %v", err)), nil
		}

		result, _ := json.MarshalIndent(tasks, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))
}

func registerWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	createTaskTool := mcp.NewTool("ticktick_create_task",
		mcp.WithDescription("Create a task. Subtask linkage is a separate step; use ticktick_make_subtask."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("The task title"),
		),
		mcp.WithString("projectId",
			mcp.Description("Target project ID (default: the inbox)"),
		),
		mcp.WithString("content",
			mcp.Description("Task description or notes"),
		),
		mcp.WithNumber("priority",
			mcp.Description("Priority code: 0 none, 1 low, 3 medium, 5 high"),
		),
		mcp.WithString("startDate",
			mcp.Description("Start date (RFC3339 format)"),
		),
		mcp.WithString("dueDate",
			mcp.Description("Due date (RFC3339 format)"),
		),
		mcp.WithString("repeatFlag",
			mcp.Description("Recurrence rule (RRULE format); requires startDate"),
		),
	)

	s.AddTool(createTaskTool, common.InstrumentedToolHandler("ticktick_create_task", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		task, errResult := taskFromArgs(args)
		if errResult != nil {
			return errResult, nil
		}

		created, err := sc.Client().CreateTask(ctx, task)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create task: %v", err)), nil
		}

		result, _ := json.MarshalIndent(created, "", "  ")
		return mcp.NewToolResultText(fmt.Sprintf("Task created successfully:\n%s", string(result))), nil
	}))

	updateTaskTool := mcp.NewTool("ticktick_update_task",
		mcp.WithDescription("Update a task's mutable fields. Omitting dueDate clears it; clearing the due date also clears the start date."),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to update"),
		),
		mcp.WithString("projectId",
			mcp.Required(),
			mcp.Description("The ID of the project containing the task"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("The task title"),
		),
		mcp.WithString("content",
			mcp.Description("Task description or notes"),
		),
		mcp.WithNumber("priority",
			mcp.Description("Priority code: 0 none, 1 low, 3 medium, 5 high"),
		),
		mcp.WithString("startDate",
			mcp.Description("Start date (RFC3339 format)"),
		),
		mcp.WithString("dueDate",
			mcp.Description("Due date (RFC3339 format)"),
		),
		mcp.WithString("repeatFlag",
			mcp.Description("Recurrence rule (RRULE format); requires startDate"),
		),
	)

	s.AddTool(updateTaskTool, common.InstrumentedToolHandler("ticktick_update_task", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		task, errResult := taskFromArgs(args)
		if errResult != nil {
			return errResult, nil
		}
		task.ID, _ = args["taskId"].(string)
		if task.ID == "" {
			return mcp.NewToolResultError("taskId is required"), nil
		}

		updated, err := sc.Client().UpdateTask(ctx, task)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to update task: %v", err)), nil
		}

		result, _ := json.MarshalIndent(updated, "", "  ")
		return mcp.NewToolResultText(fmt.Sprintf("Task updated successfully:\n%s", string(result))), nil
	}))

	completeTaskTool := mcp.NewTool("ticktick_complete_task",
		mcp.WithDescription("Mark a task completed."),
		mcp.WithString("projectId",
			mcp.Required(),
			mcp.Description("The ID of the project containing the task"),
		),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to complete"),
		),
	)

	s.AddTool(completeTaskTool, common.InstrumentedToolHandler("ticktick_complete_task", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		projectID, _ := args["projectId"].(string)
		taskID, _ := args["taskId"].(string)
		if projectID == "" || taskID == "" {
			return mcp.NewToolResultError("projectId and taskId are required"), nil
		}

		if err := sc.Client().CompleteTask(ctx, projectID, taskID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to complete task: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Task %s completed successfully", taskID)), nil
	}))

	deleteTaskTool := mcp.NewTool("ticktick_delete_task",
		mcp.WithDescription("Soft-delete a task. It stays retrievable from the trash until the backend purges it."),
		mcp.WithString("projectId",
			mcp.Required(),
			mcp.Description("The ID of the project containing the task"),
		),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to delete"),
		),
	)

	s.AddTool(deleteTaskTool, common.InstrumentedToolHandler("ticktick_delete_task", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		projectID, _ := args["projectId"].(string)
		taskID, _ := args["taskId"].(string)
		if projectID == "" || taskID == "" {
			return mcp.NewToolResultError("projectId and taskId are required"), nil
		}

		if err := sc.Client().DeleteTask(ctx, projectID, taskID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to delete task: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Task %s deleted successfully", taskID)), nil
	}))

	moveTaskTool := mcp.NewTool("ticktick_move_task",
		mcp.WithDescription("Move a task to a different project."),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to move"),
		),
		mcp.WithString("fromProjectId",
			mcp.Required(),
			mcp.Description("The ID of the project the task currently lives in"),
		),
		mcp.WithString("toProjectId",
			mcp.Required(),
			mcp.Description("The ID of the destination project"),
		),
	)

	s.AddTool(moveTaskTool, common.InstrumentedToolHandler("ticktick_move_task", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		taskID, _ := args["taskId"].(string)
		fromID, _ := args["fromProjectId"].(string)
		toID, _ := args["toProjectId"].(string)
		if taskID == "" || fromID == "" || toID == "" {
			return mcp.NewToolResultError("taskId, fromProjectId and toProjectId are required"), nil
		}

		if err := sc.Client().MoveTask(ctx, taskID, fromID, toID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to move task: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Task %s moved to project %s", taskID, toID)), nil
	}))

	makeSubtaskTool := mcp.NewTool("ticktick_make_subtask",
		mcp.WithDescription("Make a task a subtask of another. Creates the child first when taskId is omitted; a link failure after creation leaves the child as an ordinary task."),
		mcp.WithString("parentId",
			mcp.Required(),
			mcp.Description("The ID of the parent task"),
		),
		mcp.WithString("projectId",
			mcp.Required(),
			mcp.Description("The ID of the project both tasks live in"),
		),
		mcp.WithString("taskId",
			mcp.Description("The ID of an existing task to link (omit to create a new child)"),
		),
		mcp.WithString("title",
			mcp.Description("Title for a newly created child (required when taskId is omitted)"),
		),
	)

	s.AddTool(makeSubtaskTool, common.InstrumentedToolHandler("ticktick_make_subtask", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		parentID, _ := args["parentId"].(string)
		projectID, _ := args["projectId"].(string)
		if parentID == "" || projectID == "" {
			return mcp.NewToolResultError("parentId and projectId are required"), nil
		}

		child := &ticktick.Task{ProjectID: projectID}
		if taskID, ok := args["taskId"].(string); ok && taskID != "" {
			child.ID = taskID
		} else if title, ok := args["title"].(string); ok && title != "" {
			child.Title = title
		} else {
			return mcp.NewToolResultError("either taskId or title is required"), nil
		}

		linked, err := sc.Client().MakeSubtask(ctx, child, parentID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to make subtask: %v", err)), nil
		}

		result, _ := json.MarshalIndent(linked, "", "  ")
		return mcp.NewToolResultText(fmt.Sprintf("Subtask linked successfully:\n%s", string(result))), nil
	}))
}

// taskFromArgs builds a canonical task from tool arguments shared by create
// and update. Returns a tool error result on malformed input.
func taskFromArgs(args map[string]interface{}) (*ticktick.Task, *mcp.CallToolResult) {
	title, _ := args["title"].(string)
	if title == "" {
		return nil, mcp.NewToolResultError("title is required")
	}

	task := &ticktick.Task{Title: title}
	task.ProjectID, _ = args["projectId"].(string)
	task.Content, _ = args["content"].(string)
	task.RepeatFlag, _ = args["repeatFlag"].(string)

	if p, ok := args["priority"].(float64); ok {
		task.Priority = ticktick.Priority(int(p))
		if !task.Priority.Valid() {
			return nil, mcp.NewToolResultError(fmt.Sprintf("priority %d is not one of 0, 1, 3, 5", int(p)))
		}
	}

	if s, ok := args["startDate"].(string); ok && s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, mcp.NewToolResultError(fmt.Sprintf("invalid startDate: %v", err))
		}
		task.StartDate = &t
	}
	if s, ok := args["dueDate"].(string); ok && s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, mcp.NewToolResultError(fmt.Sprintf("invalid dueDate: %v", err))
		}
		task.DueDate = &t
	}

	return task, nil
}

func parseRFC3339(v interface{}, field string) (time.Time, error) {
	s, _ := v.(string)
	if s == "" {
		return time.Time{}, fmt.Errorf("%s is required (RFC3339 format)", field)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %v", field, err)
	}
	return t, nil
}
