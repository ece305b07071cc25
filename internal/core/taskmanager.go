package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/valter-silva-au/tars/pkg/models"
)

// Event types emitted by the task manager.
const (
	eventTaskAdded         = "task.added"
	eventTaskDeleted       = "task.deleted"
	eventTaskTagged        = "task.tagged"
	eventTaskStatusChanged = "task.status_changed"
)

var (
	// ErrNoSuchTask is returned when an ID or ID prefix matches no task.
	ErrNoSuchTask = errors.New("no such task")
	// ErrAmbiguousID is returned when an ID prefix matches several tasks.
	ErrAmbiguousID = errors.New("ambiguous task id")
	// ErrNotScheduled is returned for schedule-only operations on contacts.
	ErrNotScheduled = errors.New("task is not a scheduled task")
)

// ContactInput holds the raw fields for a new contact.
type ContactInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
	Tags    []string
}

// ScheduledInput holds the raw fields for a new scheduled task. Empty
// Priority and Status fall back to the configured defaults.
type ScheduledInput struct {
	Name     string
	DateTime string
	Priority string
	Status   string
	Tags     []string
}

// TaskManager defines the operations available on the task book.
type TaskManager interface {
	AddContact(in ContactInput) (*TaskRecord, error)
	AddScheduled(in ScheduledInput) (*TaskRecord, error)
	GetTask(id string) (*TaskRecord, error)
	ListTasks(query TaskQuery) ([]TaskRecord, error)
	DeleteTask(id string) error
	TagTask(id string, tags []string) (*TaskRecord, error)
	SetStatus(id string, status models.Status) (*TaskRecord, error)
}

type taskManager struct {
	store    TaskStore
	defaults *models.Config
	events   EventLogger
	lock     *bookLock
}

// TaskManagerOption configures optional TaskManager behaviour.
type TaskManagerOption func(*taskManager)

// WithLockFile guards every mutation with an exclusive lock on path.
func WithLockFile(path string) TaskManagerOption {
	return func(tm *taskManager) { tm.lock = &bookLock{path: path} }
}

// NewTaskManager creates a TaskManager over store. cfg supplies defaults for
// omitted fields; events may be nil.
func NewTaskManager(store TaskStore, cfg *models.Config, events EventLogger, opts ...TaskManagerOption) TaskManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	tm := &taskManager{store: store, defaults: cfg, events: events}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

func (tm *taskManager) AddContact(in ContactInput) (*TaskRecord, error) {
	name, err := models.ParseName(in.Name)
	if err != nil {
		return nil, fmt.Errorf("adding contact: %w", err)
	}
	phone, err := models.ParsePhone(in.Phone)
	if err != nil {
		return nil, fmt.Errorf("adding contact: %w", err)
	}
	email, err := models.ParseEmail(in.Email)
	if err != nil {
		return nil, fmt.Errorf("adding contact: %w", err)
	}
	addr, err := models.ParseAddress(in.Address)
	if err != nil {
		return nil, fmt.Errorf("adding contact: %w", err)
	}
	tags, err := ParseTags(in.Tags)
	if err != nil {
		return nil, fmt.Errorf("adding contact: %w", err)
	}
	task, err := models.NewContactTask(name, phone, email, addr, tags)
	if err != nil {
		return nil, fmt.Errorf("adding contact: %w", err)
	}
	return tm.add(task)
}

func (tm *taskManager) AddScheduled(in ScheduledInput) (*TaskRecord, error) {
	name, err := models.ParseName(in.Name)
	if err != nil {
		return nil, fmt.Errorf("adding task: %w", err)
	}
	dt, err := models.ParseDateTime(in.DateTime)
	if err != nil {
		return nil, fmt.Errorf("adding task: %w", err)
	}
	priority := tm.defaults.DefaultPriority
	if in.Priority != "" {
		if priority, err = models.ParsePriority(in.Priority); err != nil {
			return nil, fmt.Errorf("adding task: %w", err)
		}
	}
	status := tm.defaults.DefaultStatus
	if in.Status != "" {
		if status, err = models.ParseStatus(in.Status); err != nil {
			return nil, fmt.Errorf("adding task: %w", err)
		}
	}
	tags, err := ParseTags(in.Tags)
	if err != nil {
		return nil, fmt.Errorf("adding task: %w", err)
	}
	task, err := models.NewScheduledTask(name, dt, priority, status, tags)
	if err != nil {
		return nil, fmt.Errorf("adding task: %w", err)
	}
	return tm.add(task)
}

func (tm *taskManager) add(task *models.Task) (*TaskRecord, error) {
	var id string
	err := tm.lock.run(func() error {
		if err := tm.store.Load(); err != nil {
			return fmt.Errorf("adding %s: loading task book: %w", task.Kind(), err)
		}
		var err error
		if id, err = tm.store.AddTask(task); err != nil {
			return fmt.Errorf("adding %s: %w", task.Kind(), err)
		}
		if err := tm.store.Save(); err != nil {
			return fmt.Errorf("adding %s: saving task book: %w", task.Kind(), err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	tm.logEvent(eventTaskAdded, map[string]any{
		"id":   id,
		"kind": string(task.Kind()),
		"name": task.Name().String(),
	})
	return &TaskRecord{ID: id, Task: task}, nil
}

func (tm *taskManager) GetTask(id string) (*TaskRecord, error) {
	if err := tm.store.Load(); err != nil {
		return nil, fmt.Errorf("getting task: loading task book: %w", err)
	}
	return tm.resolve(id)
}

func (tm *taskManager) ListTasks(query TaskQuery) ([]TaskRecord, error) {
	if err := tm.store.Load(); err != nil {
		return nil, fmt.Errorf("listing tasks: loading task book: %w", err)
	}
	records, err := tm.store.FilterTasks(query)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return records, nil
}

func (tm *taskManager) DeleteTask(id string) error {
	var rec *TaskRecord
	err := tm.lock.run(func() error {
		if err := tm.store.Load(); err != nil {
			return fmt.Errorf("deleting task: loading task book: %w", err)
		}
		var err error
		if rec, err = tm.resolve(id); err != nil {
			return fmt.Errorf("deleting task: %w", err)
		}
		if err := tm.store.RemoveTask(rec.ID); err != nil {
			return fmt.Errorf("deleting task: %w", err)
		}
		if err := tm.store.Save(); err != nil {
			return fmt.Errorf("deleting task: saving task book: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	tm.logEvent(eventTaskDeleted, map[string]any{"id": rec.ID, "name": rec.Task.Name().String()})
	return nil
}

// TagTask replaces the tags of the task identified by id.
func (tm *taskManager) TagTask(id string, tags []string) (*TaskRecord, error) {
	replacement, err := ParseTags(tags)
	if err != nil {
		return nil, fmt.Errorf("tagging task: %w", err)
	}
	var rec *TaskRecord
	err = tm.lock.run(func() error {
		if err := tm.store.Load(); err != nil {
			return fmt.Errorf("tagging task: loading task book: %w", err)
		}
		var err error
		if rec, err = tm.resolve(id); err != nil {
			return fmt.Errorf("tagging task: %w", err)
		}

		previous := rec.Task.Tags()
		rec.Task.SetTags(replacement)
		if err := tm.store.ReplaceTask(rec.ID, rec.Task); err != nil {
			rec.Task.SetTags(previous)
			return fmt.Errorf("tagging task: %w", err)
		}
		if err := tm.store.Save(); err != nil {
			return fmt.Errorf("tagging task: saving task book: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	tm.logEvent(eventTaskTagged, map[string]any{"id": rec.ID, "tags": rec.Task.Tags().Strings()})
	return rec, nil
}

// SetStatus swaps the task for a copy carrying status. Only scheduled tasks
// have a status.
func (tm *taskManager) SetStatus(id string, status models.Status) (*TaskRecord, error) {
	var (
		rec  *TaskRecord
		next *models.Task
		old  models.Status
	)
	err := tm.lock.run(func() error {
		if err := tm.store.Load(); err != nil {
			return fmt.Errorf("setting status: loading task book: %w", err)
		}
		var err error
		if rec, err = tm.resolve(id); err != nil {
			return fmt.Errorf("setting status: %w", err)
		}
		src := rec.Task
		if src.Kind() != models.KindScheduled {
			return fmt.Errorf("setting status of %s: %w", rec.ID, ErrNotScheduled)
		}

		old, _ = src.Status()
		dt, _ := src.DateTime()
		p, _ := src.Priority()
		if next, err = models.NewScheduledTask(src.Name(), dt, p, status, src.Tags()); err != nil {
			return fmt.Errorf("setting status: %w", err)
		}
		if err := tm.store.ReplaceTask(rec.ID, next); err != nil {
			return fmt.Errorf("setting status: %w", err)
		}
		if err := tm.store.Save(); err != nil {
			return fmt.Errorf("setting status: saving task book: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	tm.logEvent(eventTaskStatusChanged, map[string]any{
		"id":         rec.ID,
		"old_status": string(old),
		"new_status": string(status),
	})
	return &TaskRecord{ID: rec.ID, Task: next}, nil
}

// resolve finds the task whose ID equals id or, failing that, the single
// task whose ID starts with it.
func (tm *taskManager) resolve(id string) (*TaskRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("task id must not be empty")
	}
	if task, err := tm.store.GetTask(id); err == nil {
		return &TaskRecord{ID: id, Task: task}, nil
	}

	all, err := tm.store.FilterTasks(TaskQuery{})
	if err != nil {
		return nil, err
	}
	var matches []TaskRecord
	for _, rec := range all {
		if strings.HasPrefix(rec.ID, id) {
			matches = append(matches, rec)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%s: %w", id, ErrNoSuchTask)
	case 1:
		return &matches[0], nil
	}
	return nil, fmt.Errorf("%s matches %d tasks: %w", id, len(matches), ErrAmbiguousID)
}

func (tm *taskManager) logEvent(eventType string, data map[string]any) {
	if tm.events == nil {
		return
	}
	_ = tm.events.LogEvent(eventType, data)
}

// ParseTags builds a tag list from raw names. Blank names are skipped and
// repeats collapse into one tag.
func ParseTags(raw []string) (*models.UniqueTagList, error) {
	tags, err := models.NewUniqueTagList()
	if err != nil {
		return nil, err
	}
	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		tag, err := models.ParseTag(r)
		if err != nil {
			return nil, err
		}
		if !tags.Contains(tag) {
			_ = tags.Add(tag)
		}
	}
	return tags, nil
}
