package cli

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/valter-silva-au/tars/internal/core"
	"github.com/valter-silva-au/tars/pkg/models"
)

func TestShowCommand_Contact(t *testing.T) {
	withTaskMgr(t, &mockTaskMgr{
		getTaskFn: func(id string) (*core.TaskRecord, error) {
			return &core.TaskRecord{ID: "full-id-" + id, Task: testContact(t, "friends")}, nil
		},
	})
	out := captureOutput(t, showCmd)

	if err := showCmd.RunE(showCmd, []string{"abc"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := out.String()
	for _, want := range []string{"full-id-abc", "contact", "John Doe", "98765432", "johnd@example.com", "[friends]"} {
		if !strings.Contains(s, want) {
			t.Errorf("show output missing %q:\n%s", want, s)
		}
	}
	for _, absent := range []string{"When:", "Priority:", "Status:"} {
		if strings.Contains(s, absent) {
			t.Errorf("contact should not show %q:\n%s", absent, s)
		}
	}
}

func TestShowCommand_Scheduled(t *testing.T) {
	withTaskMgr(t, &mockTaskMgr{
		getTaskFn: func(id string) (*core.TaskRecord, error) {
			return &core.TaskRecord{ID: id, Task: testScheduled(t, models.StatusUndone)}, nil
		},
	})
	out := captureOutput(t, showCmd)

	if err := showCmd.RunE(showCmd, []string{"abc"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := out.String()
	for _, want := range []string{"When:", "25/12/2026 0930", "high", "undone"} {
		if !strings.Contains(s, want) {
			t.Errorf("show output missing %q:\n%s", want, s)
		}
	}
	if strings.Contains(s, "Phone:") {
		t.Errorf("scheduled task should not show a phone:\n%s", s)
	}
}

func TestShowCommand_NotFound(t *testing.T) {
	withTaskMgr(t, &mockTaskMgr{
		getTaskFn: func(id string) (*core.TaskRecord, error) {
			return nil, core.ErrNoSuchTask
		},
	})
	if err := showCmd.RunE(showCmd, []string{"zzz"}); !errors.Is(err, core.ErrNoSuchTask) {
		t.Fatalf("expected ErrNoSuchTask, got %v", err)
	}
}

func TestDeleteCommand(t *testing.T) {
	var deleted string
	withTaskMgr(t, &mockTaskMgr{
		deleteTaskFn: func(id string) error {
			deleted = id
			return nil
		},
	})
	out := captureOutput(t, deleteCmd)

	if err := deleteCmd.RunE(deleteCmd, []string{"abc123"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "abc123" {
		t.Errorf("deleted %q, want abc123", deleted)
	}
	if !strings.Contains(out.String(), "Deleted abc123") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestDeleteCommand_Error(t *testing.T) {
	withTaskMgr(t, &mockTaskMgr{deleteTaskFn: func(string) error { return errMock }})
	if err := deleteCmd.RunE(deleteCmd, []string{"abc"}); !errors.Is(err, errMock) {
		t.Fatalf("expected mock error, got %v", err)
	}
}

func TestTagCommand(t *testing.T) {
	var gotID string
	var gotTags []string
	withTaskMgr(t, &mockTaskMgr{
		tagTaskFn: func(id string, tags []string) (*core.TaskRecord, error) {
			gotID, gotTags = id, tags
			return &core.TaskRecord{ID: id, Task: testContact(t, tags...)}, nil
		},
	})
	out := captureOutput(t, tagCmd)

	if err := tagCmd.RunE(tagCmd, []string{"abc", "work", "urgent"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != "abc" || !reflect.DeepEqual(gotTags, []string{"work", "urgent"}) {
		t.Errorf("TagTask(%q, %v)", gotID, gotTags)
	}
	if !strings.Contains(out.String(), "Tagged abc: [urgent][work]") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestTagCommand_ClearsWithNoTags(t *testing.T) {
	var gotTags []string
	withTaskMgr(t, &mockTaskMgr{
		tagTaskFn: func(id string, tags []string) (*core.TaskRecord, error) {
			gotTags = tags
			return &core.TaskRecord{ID: id, Task: testContact(t)}, nil
		},
	})
	captureOutput(t, tagCmd)

	if err := tagCmd.RunE(tagCmd, []string{"abc"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gotTags) != 0 {
		t.Errorf("expected empty tag list, got %v", gotTags)
	}
}

func TestStatusCommands(t *testing.T) {
	tests := []struct {
		name string
		run  func() error
		want models.Status
	}{
		{"done", func() error { return doneCmd.RunE(doneCmd, []string{"abc"}) }, models.StatusDone},
		{"undone", func() error { return undoneCmd.RunE(undoneCmd, []string{"abc"}) }, models.StatusUndone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got models.Status
			withTaskMgr(t, &mockTaskMgr{
				setStatusFn: func(id string, s models.Status) (*core.TaskRecord, error) {
					got = s
					return &core.TaskRecord{ID: id, Task: testScheduled(t, s)}, nil
				},
			})
			out := captureOutput(t, doneCmd)
			captureOutput(t, undoneCmd)

			if err := tt.run(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SetStatus got %q, want %q", got, tt.want)
			}
			if tt.want == models.StatusDone && !strings.Contains(out.String(), "abc is now done") {
				t.Errorf("unexpected output %q", out.String())
			}
		})
	}
}

func TestStatusCommand_ContactRejected(t *testing.T) {
	withTaskMgr(t, &mockTaskMgr{
		setStatusFn: func(string, models.Status) (*core.TaskRecord, error) {
			return nil, core.ErrNotScheduled
		},
	})
	if err := doneCmd.RunE(doneCmd, []string{"abc"}); !errors.Is(err, core.ErrNotScheduled) {
		t.Fatalf("expected ErrNotScheduled, got %v", err)
	}
}
