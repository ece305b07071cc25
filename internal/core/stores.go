package core

import (
	"time"

	"github.com/valter-silva-au/tars/pkg/models"
)

// TaskRecord pairs a task with its ID in the task book.
type TaskRecord struct {
	ID   string
	Task *models.Task
}

// TaskQuery mirrors storage.TaskFilter.
type TaskQuery struct {
	Kind       models.TaskKind
	Priorities []models.Priority
	Status     models.Status
	Tags       []string
	Keywords   []string
	After      *time.Time
	Before     *time.Time
}

// TaskStore is the subset of storage.TaskBookManager that TaskManager needs.
// Defining it here keeps core independent of the storage package.
type TaskStore interface {
	AddTask(task *models.Task) (string, error)
	ReplaceTask(id string, task *models.Task) error
	RemoveTask(id string) error
	GetTask(id string) (*models.Task, error)
	FilterTasks(query TaskQuery) ([]TaskRecord, error)
	Load() error
	Save() error
}

// EventLogger is the subset of the observability event log that core
// services need. Defining it here avoids importing the observability package.
type EventLogger interface {
	LogEvent(eventType string, data map[string]any) error
}
