package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/tars/internal/core"
	"github.com/valter-silva-au/tars/pkg/models"
)

var errMock = errors.New("mock failure")

// mockTaskMgr implements core.TaskManager with overridable functions.
// Unset functions return zero values.
type mockTaskMgr struct {
	addContactFn   func(core.ContactInput) (*core.TaskRecord, error)
	addScheduledFn func(core.ScheduledInput) (*core.TaskRecord, error)
	getTaskFn      func(string) (*core.TaskRecord, error)
	listTasksFn    func(core.TaskQuery) ([]core.TaskRecord, error)
	deleteTaskFn   func(string) error
	tagTaskFn      func(string, []string) (*core.TaskRecord, error)
	setStatusFn    func(string, models.Status) (*core.TaskRecord, error)
}

func (m *mockTaskMgr) AddContact(in core.ContactInput) (*core.TaskRecord, error) {
	if m.addContactFn != nil {
		return m.addContactFn(in)
	}
	return nil, nil
}

func (m *mockTaskMgr) AddScheduled(in core.ScheduledInput) (*core.TaskRecord, error) {
	if m.addScheduledFn != nil {
		return m.addScheduledFn(in)
	}
	return nil, nil
}

func (m *mockTaskMgr) GetTask(id string) (*core.TaskRecord, error) {
	if m.getTaskFn != nil {
		return m.getTaskFn(id)
	}
	return nil, nil
}

func (m *mockTaskMgr) ListTasks(q core.TaskQuery) ([]core.TaskRecord, error) {
	if m.listTasksFn != nil {
		return m.listTasksFn(q)
	}
	return nil, nil
}

func (m *mockTaskMgr) DeleteTask(id string) error {
	if m.deleteTaskFn != nil {
		return m.deleteTaskFn(id)
	}
	return nil
}

func (m *mockTaskMgr) TagTask(id string, tags []string) (*core.TaskRecord, error) {
	if m.tagTaskFn != nil {
		return m.tagTaskFn(id, tags)
	}
	return nil, nil
}

func (m *mockTaskMgr) SetStatus(id string, s models.Status) (*core.TaskRecord, error) {
	if m.setStatusFn != nil {
		return m.setStatusFn(id, s)
	}
	return nil, nil
}

// withTaskMgr swaps the package TaskMgr for the duration of the test and
// disables colour so output can be matched literally.
func withTaskMgr(t *testing.T, tm core.TaskManager) {
	t.Helper()
	origTaskMgr, origColor := TaskMgr, UseColor
	t.Cleanup(func() {
		TaskMgr = origTaskMgr
		UseColor = origColor
	})
	TaskMgr = tm
	UseColor = false
}

// captureOutput points cmd's output at a buffer until the test ends.
func captureOutput(t *testing.T, cmd *cobra.Command) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	t.Cleanup(func() { cmd.SetOut(nil) })
	return &buf
}

func testContact(t *testing.T, tags ...string) *models.Task {
	t.Helper()
	name, _ := models.ParseName("John Doe")
	phone, _ := models.ParsePhone("98765432")
	email, _ := models.ParseEmail("johnd@example.com")
	addr, _ := models.ParseAddress("311, Clementi Ave 2, #02-25")
	list, err := core.ParseTags(tags)
	if err != nil {
		t.Fatalf("parsing tags: %v", err)
	}
	task, err := models.NewContactTask(name, phone, email, addr, list)
	if err != nil {
		t.Fatalf("building contact: %v", err)
	}
	return task
}

func testScheduled(t *testing.T, status models.Status, tags ...string) *models.Task {
	t.Helper()
	name, _ := models.ParseName("Submit report")
	list, err := core.ParseTags(tags)
	if err != nil {
		t.Fatalf("parsing tags: %v", err)
	}
	task, err := models.NewScheduledTask(name,
		models.NewDateTime(time.Date(2026, 12, 25, 9, 30, 0, 0, time.Local)),
		models.PriorityHigh, status, list)
	if err != nil {
		t.Fatalf("building scheduled task: %v", err)
	}
	return task
}
