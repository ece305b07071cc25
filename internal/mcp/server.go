// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the tars task book as tools for AI assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/tars/internal/core"
	"github.com/valter-silva-au/tars/internal/observability"
	"github.com/valter-silva-au/tars/pkg/models"
)

// Server wraps the task manager and exposes it as MCP tools.
type Server struct {
	server  *gomcp.Server
	taskMgr core.TaskManager
	alerts  observability.AlertEngine
}

// ServerOption configures optional Server tools.
type ServerOption func(*Server)

// WithAlertEngine enables the get_due tool.
func WithAlertEngine(ae observability.AlertEngine) ServerOption {
	return func(s *Server) { s.alerts = ae }
}

// NewServer creates a new MCP server over taskMgr.
func NewServer(taskMgr core.TaskManager, version string, opts ...ServerOption) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{taskMgr: taskMgr}
	for _, opt := range opts {
		opt(s)
	}
	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "tars", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type taskOutput struct {
	ID       string   `json:"id"`
	Kind     string   `json:"kind"`
	Name     string   `json:"name"`
	Phone    string   `json:"phone,omitempty"`
	Email    string   `json:"email,omitempty"`
	Address  string   `json:"address,omitempty"`
	DateTime string   `json:"date_time,omitempty"`
	Priority string   `json:"priority,omitempty"`
	Status   string   `json:"status,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Text     string   `json:"text"`
}

type getTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"the task ID or a unique prefix of it"`
}

type listTasksInput struct {
	Kind     string   `json:"kind,omitempty" jsonschema:"only tasks of this kind: contact or scheduled"`
	Status   string   `json:"status,omitempty" jsonschema:"only scheduled tasks with this status: done or undone"`
	Priority string   `json:"priority,omitempty" jsonschema:"only scheduled tasks with this priority: h, m or l"`
	Tags     []string `json:"tags,omitempty" jsonschema:"only tasks carrying every one of these tags"`
	Keyword  string   `json:"keyword,omitempty" jsonschema:"only tasks whose name contains this text"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type tagTaskInput struct {
	TaskID string   `json:"task_id" jsonschema:"the task ID or a unique prefix of it"`
	Tags   []string `json:"tags" jsonschema:"the full replacement tag set; alphanumeric names, empty to clear"`
}

type dueOutput struct {
	TaskID    string `json:"task_id"`
	Condition string `json:"condition"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Due       string `json:"due"`
}

type getDueOutput struct {
	Items []dueOutput `json:"items"`
	Count int         `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks in the task book, optionally filtered by kind, status, priority, tags and a name keyword.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_task",
		Description: "Get every field of one task by ID or unique ID prefix.",
	}, s.handleGetTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "tag_task",
		Description: "Replace the tag set of a task. Returns the updated task.",
	}, s.handleTagTask)

	if s.alerts != nil {
		gomcp.AddTool(s.server, &gomcp.Tool{
			Name:        "get_due",
			Description: "List undone scheduled tasks that are overdue or due soon, earliest first.",
		}, s.handleGetDue)
	}
}

// --- Tool handlers ---

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	query := core.TaskQuery{Tags: input.Tags}

	switch models.TaskKind(input.Kind) {
	case "":
	case models.KindContact, models.KindScheduled:
		query.Kind = models.TaskKind(input.Kind)
	default:
		return errorResult(fmt.Sprintf("invalid kind %q: must be contact or scheduled", input.Kind)), listTasksOutput{}, nil
	}
	if input.Status != "" {
		status, err := models.ParseStatus(input.Status)
		if err != nil {
			return errorResult(err.Error()), listTasksOutput{}, nil
		}
		query.Status = status
	}
	if input.Priority != "" {
		p, err := models.ParsePriority(input.Priority)
		if err != nil {
			return errorResult(err.Error()), listTasksOutput{}, nil
		}
		query.Priorities = []models.Priority{p}
	}
	if input.Keyword != "" {
		query.Keywords = []string{input.Keyword}
	}

	records, err := s.taskMgr.ListTasks(query)
	if err != nil {
		return errorResult(fmt.Sprintf("listing tasks: %s", err)), listTasksOutput{}, nil
	}

	out := listTasksOutput{
		Tasks: make([]taskOutput, len(records)),
		Count: len(records),
	}
	for i, rec := range records {
		out.Tasks[i] = recordToOutput(rec)
	}
	return nil, out, nil
}

func (s *Server) handleGetTask(_ context.Context, _ *gomcp.CallToolRequest, input getTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), taskOutput{}, nil
	}

	rec, err := s.taskMgr.GetTask(input.TaskID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting task %s: %s", input.TaskID, err)), taskOutput{}, nil
	}
	return nil, recordToOutput(*rec), nil
}

func (s *Server) handleTagTask(_ context.Context, _ *gomcp.CallToolRequest, input tagTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), taskOutput{}, nil
	}

	rec, err := s.taskMgr.TagTask(input.TaskID, input.Tags)
	if err != nil {
		return errorResult(fmt.Sprintf("tagging task %s: %s", input.TaskID, err)), taskOutput{}, nil
	}
	return nil, recordToOutput(*rec), nil
}

func (s *Server) handleGetDue(_ context.Context, _ *gomcp.CallToolRequest, _ struct{}) (*gomcp.CallToolResult, getDueOutput, error) {
	alerts, err := s.alerts.Evaluate()
	if err != nil {
		return errorResult(fmt.Sprintf("checking due tasks: %s", err)), getDueOutput{}, nil
	}
	out := getDueOutput{Items: make([]dueOutput, len(alerts)), Count: len(alerts)}
	for i, a := range alerts {
		out.Items[i] = dueOutput{
			TaskID:    a.TaskID,
			Condition: a.Condition,
			Severity:  string(a.Severity),
			Message:   a.Message,
			Due:       a.Due.Format(time.RFC3339),
		}
	}
	return nil, out, nil
}

// --- Helpers ---

func recordToOutput(rec core.TaskRecord) taskOutput {
	t := rec.Task
	out := taskOutput{
		ID:   rec.ID,
		Kind: string(t.Kind()),
		Name: t.Name().String(),
		Tags: t.Tags().Strings(),
		Text: t.AsText(),
	}
	if p, ok := t.Phone(); ok {
		out.Phone = p.String()
	}
	if e, ok := t.Email(); ok {
		out.Email = e.String()
	}
	if a, ok := t.Address(); ok {
		out.Address = a.String()
	}
	if dt, ok := t.DateTime(); ok {
		out.DateTime = dt.Time().Format(time.RFC3339)
	}
	if p, ok := t.Priority(); ok {
		out.Priority = string(p)
	}
	if st, ok := t.Status(); ok {
		out.Status = string(st)
	}
	return out
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
