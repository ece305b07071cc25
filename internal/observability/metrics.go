package observability

import (
	"fmt"
	"time"
)

// Metrics summarises task book activity recorded in the event log.
type Metrics struct {
	TasksAdded     int            `json:"tasks_added"`
	TasksDeleted   int            `json:"tasks_deleted"`
	TasksTagged    int            `json:"tasks_tagged"`
	TasksCompleted int            `json:"tasks_completed"`
	TasksReopened  int            `json:"tasks_reopened"`
	AddedByKind    map[string]int `json:"added_by_kind"`
	EventCount     int            `json:"event_count"`
	OldestEvent    *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent    *time.Time     `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a MetricsCalculator that reads from eventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate aggregates every event at or after since.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{AddedByKind: make(map[string]int)}
	m.EventCount = len(events)

	for _, event := range events {
		t := event.Time
		if m.OldestEvent == nil || t.Before(*m.OldestEvent) {
			m.OldestEvent = &t
		}
		if m.NewestEvent == nil || t.After(*m.NewestEvent) {
			m.NewestEvent = &t
		}

		switch event.Type {
		case EventTaskAdded:
			m.TasksAdded++
			if kind, ok := event.Data["kind"].(string); ok {
				m.AddedByKind[kind]++
			}
		case EventTaskDeleted:
			m.TasksDeleted++
		case EventTaskTagged:
			m.TasksTagged++
		case EventTaskStatusChanged:
			switch event.Data["new_status"] {
			case "done":
				m.TasksCompleted++
			case "undone":
				m.TasksReopened++
			}
		}
	}

	return m, nil
}
