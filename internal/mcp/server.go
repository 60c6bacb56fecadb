// Package mcp exposes the task service as MCP tools over stdio, so
// agent clients can manage the same task list the interactive session
// does.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ldi/tend/internal/service"
)

// NewServer creates a new MCP server over the task service.
func NewServer(svc *service.Service) *server.MCPServer {
	s := server.NewMCPServer("tend", "0.1.0")

	s.AddTool(mcp.NewTool("add_task",
		mcp.WithDescription("Add a new pending task. Descriptions must be unique (case-insensitive)."),
		mcp.WithString("description", mcp.Description("Task description"), mcp.Required()),
	), addTaskHandler(svc))

	s.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks sorted for display: pending first, newest first within each group."),
		mcp.WithString("filter", mcp.Description("Filter: all, pending, or completed (defaults to all)")),
	), listTasksHandler(svc))

	s.AddTool(mcp.NewTool("edit_task",
		mcp.WithDescription("Replace a task's description."),
		mcp.WithString("id", mcp.Description("Task ID"), mcp.Required()),
		mcp.WithString("description", mcp.Description("New description"), mcp.Required()),
	), editTaskHandler(svc))

	s.AddTool(mcp.NewTool("complete_task",
		mcp.WithDescription("Mark a pending task as completed."),
		mcp.WithString("id", mcp.Description("Task ID"), mcp.Required()),
	), completeTaskHandler(svc))

	s.AddTool(mcp.NewTool("reopen_task",
		mcp.WithDescription("Move a completed task back to pending."),
		mcp.WithString("id", mcp.Description("Task ID"), mcp.Required()),
	), reopenTaskHandler(svc))

	s.AddTool(mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task."),
		mcp.WithString("id", mcp.Description("Task ID"), mcp.Required()),
	), deleteTaskHandler(svc))

	s.AddTool(mcp.NewTool("search_tasks",
		mcp.WithDescription("Find tasks whose description contains a case-insensitive substring."),
		mcp.WithString("term", mcp.Description("Search term"), mcp.Required()),
	), searchTasksHandler(svc))

	s.AddTool(mcp.NewTool("get_statistics",
		mcp.WithDescription("Get task counts, completion percentage, and the most productive day."),
	), getStatisticsHandler(svc))

	return s
}

// Serve starts the MCP server on stdio.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func addTaskHandler(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		description := mcp.ParseString(request, "description", "")

		task, err := svc.AddTask(ctx, description)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, err := json.Marshal(task)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func listTasksHandler(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filter := service.Filter(mcp.ParseString(request, "filter", string(service.FilterAll)))
		switch filter {
		case service.FilterAll, service.FilterPending, service.FilterCompleted:
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unknown filter '%s'", filter)), nil
		}

		data, err := json.Marshal(map[string]interface{}{"tasks": svc.ListTasks(filter)})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func editTaskHandler(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")
		description := mcp.ParseString(request, "description", "")

		task, err := svc.EditTask(ctx, id, description)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Task updated to '%s'", task.Description)), nil
	}
}

func completeTaskHandler(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")

		task, err := svc.CompleteTask(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Task '%s' completed", task.Description)), nil
	}
}

func reopenTaskHandler(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")

		task, err := svc.ReopenTask(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Task '%s' reopened", task.Description)), nil
	}
}

func deleteTaskHandler(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")

		if err := svc.DeleteTask(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText("Task deleted"), nil
	}
}

func searchTasksHandler(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		term := mcp.ParseString(request, "term", "")

		results, err := svc.SearchTasks(term)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, err := json.Marshal(map[string]interface{}{"tasks": results})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func getStatisticsHandler(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats := svc.Statistics()

		data, err := json.Marshal(map[string]interface{}{
			"total":               stats.Total,
			"completed":           stats.Completed,
			"pending":             stats.Pending,
			"completion_percent":  stats.CompletionPercent,
			"most_productive_day": stats.MostProductiveDay,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}
