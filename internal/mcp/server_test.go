package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/tars/internal/core"
	"github.com/valter-silva-au/tars/internal/observability"
	"github.com/valter-silva-au/tars/pkg/models"
)

// --- Fake implementation ---

type fakeTaskManager struct {
	records map[string]*models.Task
}

func newFakeTaskManager(records ...core.TaskRecord) *fakeTaskManager {
	m := &fakeTaskManager{records: make(map[string]*models.Task)}
	for _, r := range records {
		m.records[r.ID] = r.Task
	}
	return m
}

func (f *fakeTaskManager) AddContact(_ core.ContactInput) (*core.TaskRecord, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeTaskManager) AddScheduled(_ core.ScheduledInput) (*core.TaskRecord, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeTaskManager) GetTask(id string) (*core.TaskRecord, error) {
	t, ok := f.records[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, core.ErrNoSuchTask)
	}
	return &core.TaskRecord{ID: id, Task: t}, nil
}

func (f *fakeTaskManager) ListTasks(q core.TaskQuery) ([]core.TaskRecord, error) {
	var out []core.TaskRecord
	for id, t := range f.records {
		if q.Kind != "" && t.Kind() != q.Kind {
			continue
		}
		if q.Status != "" {
			if s, ok := t.Status(); !ok || s != q.Status {
				continue
			}
		}
		if len(q.Keywords) > 0 && !strings.Contains(strings.ToLower(t.Name().String()), strings.ToLower(q.Keywords[0])) {
			continue
		}
		out = append(out, core.TaskRecord{ID: id, Task: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTaskManager) DeleteTask(_ string) error { return nil }

func (f *fakeTaskManager) TagTask(id string, tags []string) (*core.TaskRecord, error) {
	t, ok := f.records[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, core.ErrNoSuchTask)
	}
	list, err := core.ParseTags(tags)
	if err != nil {
		return nil, err
	}
	t.SetTags(list)
	return &core.TaskRecord{ID: id, Task: t}, nil
}

func (f *fakeTaskManager) SetStatus(_ string, _ models.Status) (*core.TaskRecord, error) {
	return nil, fmt.Errorf("not implemented")
}

// --- Test helpers ---

func mustParse[T any](t *testing.T, parse func(string) (T, error), s string) T {
	t.Helper()
	v, err := parse(s)
	if err != nil {
		t.Fatalf("parsing %q: %v", s, err)
	}
	return v
}

func sampleContact(t *testing.T) core.TaskRecord {
	t.Helper()
	tags, _ := core.ParseTags([]string{"friends"})
	task, err := models.NewContactTask(
		mustParse(t, models.ParseName, "Alice Pauline"),
		mustParse(t, models.ParsePhone, "94351253"),
		mustParse(t, models.ParseEmail, "alice@example.com"),
		mustParse(t, models.ParseAddress, "123, Jurong West Ave 6"),
		tags,
	)
	if err != nil {
		t.Fatalf("building contact: %v", err)
	}
	return core.TaskRecord{ID: "11111111-aaaa", Task: task}
}

func sampleScheduled(t *testing.T) core.TaskRecord {
	t.Helper()
	tags, _ := core.ParseTags([]string{"work"})
	task, err := models.NewScheduledTask(
		mustParse(t, models.ParseName, "Submit report"),
		models.NewDateTime(time.Date(2026, 12, 25, 9, 30, 0, 0, time.UTC)),
		models.PriorityHigh,
		models.StatusUndone,
		tags,
	)
	if err != nil {
		t.Fatalf("building scheduled task: %v", err)
	}
	return core.TaskRecord{ID: "22222222-bbbb", Task: task}
}

// callTool connects a client to the server and calls a tool. When allowErr
// is set a protocol-level error returns nil instead of failing the test.
func callTool(t *testing.T, srv *Server, toolName string, args map[string]any, allowErr bool) *gomcp.CallToolResult {
	t.Helper()

	ctx := context.Background()
	client := gomcp.NewClient(&gomcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)

	t1, t2 := gomcp.NewInMemoryTransports()
	go func() {
		_ = srv.MCPServer().Run(ctx, t1)
	}()

	session, err := client.Connect(ctx, t2, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	result, err := session.CallTool(ctx, &gomcp.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		if allowErr {
			return nil
		}
		t.Fatalf("call tool %s: %v", toolName, err)
	}
	return result
}

// decode reads the structured output of result into out, falling back to
// the text content.
func decode(t *testing.T, result *gomcp.CallToolResult, out any) {
	t.Helper()
	if result.StructuredContent != nil {
		data, _ := json.Marshal(result.StructuredContent)
		if err := json.Unmarshal(data, out); err == nil {
			return
		}
	}
	text := extractText(result)
	if err := json.Unmarshal([]byte(text), out); err != nil {
		t.Fatalf("unmarshalling output: %v (text was: %s)", err, text)
	}
}

// extractText extracts the text from the first TextContent in a CallToolResult.
func extractText(result *gomcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(*gomcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// --- Tests ---

func TestGetTask(t *testing.T) {
	srv := NewServer(newFakeTaskManager(sampleContact(t)), "test")

	result := callTool(t, srv, "get_task", map[string]any{"task_id": "11111111-aaaa"}, false)
	if result.IsError {
		t.Fatalf("expected success, got error: %s", extractText(result))
	}

	var out taskOutput
	decode(t, result, &out)
	if out.ID != "11111111-aaaa" {
		t.Errorf("expected ID 11111111-aaaa, got %s", out.ID)
	}
	if out.Kind != "contact" {
		t.Errorf("expected kind contact, got %s", out.Kind)
	}
	if out.Phone != "94351253" || out.Email != "alice@example.com" {
		t.Errorf("unexpected contact fields: %+v", out)
	}
	if out.DateTime != "" || out.Priority != "" || out.Status != "" {
		t.Errorf("contact should carry no schedule fields: %+v", out)
	}
	if len(out.Tags) != 1 || out.Tags[0] != "friends" {
		t.Errorf("expected tags [friends], got %v", out.Tags)
	}
}

func TestGetTask_Scheduled(t *testing.T) {
	srv := NewServer(newFakeTaskManager(sampleScheduled(t)), "test")

	result := callTool(t, srv, "get_task", map[string]any{"task_id": "22222222-bbbb"}, false)
	if result.IsError {
		t.Fatalf("expected success, got error: %s", extractText(result))
	}

	var out taskOutput
	decode(t, result, &out)
	if out.Priority != "h" || out.Status != "undone" {
		t.Errorf("unexpected schedule fields: %+v", out)
	}
	if out.DateTime != "2026-12-25T09:30:00Z" {
		t.Errorf("expected RFC 3339 date-time, got %q", out.DateTime)
	}
	if !strings.HasPrefix(out.Text, "Submit report DateTime:") {
		t.Errorf("unexpected text rendering %q", out.Text)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	srv := NewServer(newFakeTaskManager(), "test")

	result := callTool(t, srv, "get_task", map[string]any{"task_id": "nope"}, false)
	if !result.IsError {
		t.Fatal("expected error result for non-existent task")
	}
	if !strings.Contains(extractText(result), "no such task") {
		t.Errorf("unexpected error text %q", extractText(result))
	}
}

func TestGetTaskMissingID(t *testing.T) {
	srv := NewServer(newFakeTaskManager(), "test")

	// Schema validation may reject the call before the handler runs.
	result := callTool(t, srv, "get_task", map[string]any{}, true)
	if result == nil {
		return
	}
	if !result.IsError {
		t.Fatal("expected error result for missing task_id")
	}
}

func TestListTasksAll(t *testing.T) {
	srv := NewServer(newFakeTaskManager(sampleContact(t), sampleScheduled(t)), "test")

	result := callTool(t, srv, "list_tasks", map[string]any{}, false)
	if result.IsError {
		t.Fatalf("expected success, got error: %s", extractText(result))
	}

	var out listTasksOutput
	decode(t, result, &out)
	if out.Count != 2 || len(out.Tasks) != 2 {
		t.Errorf("expected 2 tasks, got %d", out.Count)
	}
}

func TestListTasksFilters(t *testing.T) {
	tests := []struct {
		name   string
		args   map[string]any
		wantID string
	}{
		{"kind", map[string]any{"kind": "scheduled"}, "22222222-bbbb"},
		{"status", map[string]any{"status": "undone"}, "22222222-bbbb"},
		{"keyword", map[string]any{"keyword": "alice"}, "11111111-aaaa"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewServer(newFakeTaskManager(sampleContact(t), sampleScheduled(t)), "test")

			result := callTool(t, srv, "list_tasks", tt.args, false)
			if result.IsError {
				t.Fatalf("expected success, got error: %s", extractText(result))
			}
			var out listTasksOutput
			decode(t, result, &out)
			if out.Count != 1 || out.Tasks[0].ID != tt.wantID {
				t.Errorf("expected only %s, got %+v", tt.wantID, out.Tasks)
			}
		})
	}
}

func TestListTasksInvalidFilter(t *testing.T) {
	srv := NewServer(newFakeTaskManager(), "test")

	for _, args := range []map[string]any{
		{"kind": "meeting"},
		{"status": "maybe"},
		{"priority": "urgent"},
	} {
		result := callTool(t, srv, "list_tasks", args, false)
		if !result.IsError {
			t.Errorf("expected error result for %v", args)
		}
	}
}

func TestTagTask(t *testing.T) {
	rec := sampleContact(t)
	srv := NewServer(newFakeTaskManager(rec), "test")

	result := callTool(t, srv, "tag_task", map[string]any{
		"task_id": rec.ID,
		"tags":    []string{"colleagues", "lunch", "lunch"},
	}, false)
	if result.IsError {
		t.Fatalf("expected success, got error: %s", extractText(result))
	}

	var out taskOutput
	decode(t, result, &out)
	if strings.Join(out.Tags, ",") != "colleagues,lunch" {
		t.Errorf("expected tags colleagues,lunch, got %v", out.Tags)
	}
	if got := rec.Task.Tags().String(); got != "[colleagues][lunch]" {
		t.Errorf("task tags not replaced, got %s", got)
	}
}

func TestTagTaskInvalidTag(t *testing.T) {
	rec := sampleContact(t)
	srv := NewServer(newFakeTaskManager(rec), "test")

	result := callTool(t, srv, "tag_task", map[string]any{
		"task_id": rec.ID,
		"tags":    []string{"not a tag"},
	}, false)
	if !result.IsError {
		t.Fatal("expected error result for invalid tag")
	}
	if got := rec.Task.Tags().String(); got != "[friends]" {
		t.Errorf("tags should be unchanged, got %s", got)
	}
}

type fakeAlertEngine struct {
	alerts []observability.Alert
	err    error
}

func (f *fakeAlertEngine) Evaluate() ([]observability.Alert, error) { return f.alerts, f.err }

func TestGetDue(t *testing.T) {
	due := time.Date(2026, 12, 25, 9, 30, 0, 0, time.UTC)
	ae := &fakeAlertEngine{alerts: []observability.Alert{{
		TaskID:    "22222222-bbbb",
		Condition: observability.ConditionOverdue,
		Severity:  observability.SeverityHigh,
		Message:   "Submit report was due 1h0m0s ago",
		Due:       due,
	}}}
	srv := NewServer(newFakeTaskManager(), "test", WithAlertEngine(ae))

	result := callTool(t, srv, "get_due", map[string]any{}, false)
	if result.IsError {
		t.Fatalf("expected success, got error: %s", extractText(result))
	}
	var out getDueOutput
	decode(t, result, &out)
	if out.Count != 1 || len(out.Items) != 1 {
		t.Fatalf("expected one item, got %+v", out)
	}
	item := out.Items[0]
	if item.TaskID != "22222222-bbbb" || item.Condition != "task_overdue" || item.Severity != "high" {
		t.Errorf("unexpected item %+v", item)
	}
	if item.Due != "2026-12-25T09:30:00Z" {
		t.Errorf("expected RFC 3339 due time, got %q", item.Due)
	}
}

func TestGetDue_Error(t *testing.T) {
	srv := NewServer(newFakeTaskManager(), "test", WithAlertEngine(&fakeAlertEngine{err: fmt.Errorf("disk gone")}))

	result := callTool(t, srv, "get_due", map[string]any{}, false)
	if !result.IsError || !strings.Contains(extractText(result), "disk gone") {
		t.Fatalf("expected error result, got %+v", result)
	}
}

func TestGetDue_NotRegisteredWithoutEngine(t *testing.T) {
	srv := NewServer(newFakeTaskManager(), "test")

	result := callTool(t, srv, "get_due", map[string]any{}, true)
	if result != nil && !result.IsError {
		t.Fatal("get_due should not be available without an alert engine")
	}
}
