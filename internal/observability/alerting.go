package observability

import (
	"fmt"
	"sort"
	"time"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert conditions.
const (
	ConditionOverdue = "task_overdue"
	ConditionDueSoon = "task_due_soon"
)

// Alert is a reminder about a scheduled task.
type Alert struct {
	ID          string        `json:"id"`
	TaskID      string        `json:"task_id"`
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	Due         time.Time     `json:"due"`
	TriggeredAt time.Time     `json:"triggered_at"`
}

// DueItem is an undone scheduled task as seen by the alert engine.
type DueItem struct {
	ID       string
	Name     string
	Due      time.Time
	Priority string
}

// DueSource supplies the undone scheduled tasks to evaluate.
type DueSource interface {
	PendingItems() ([]DueItem, error)
}

// AlertThresholds configures when alerts fire.
type AlertThresholds struct {
	UpcomingHours int `yaml:"upcoming_hours" json:"upcoming_hours"`
}

// DefaultAlertThresholds returns the default look-ahead of one day.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{UpcomingHours: 24}
}

// AlertEngine evaluates alert conditions against pending tasks.
type AlertEngine interface {
	Evaluate() ([]Alert, error)
}

type alertEngine struct {
	source     DueSource
	thresholds AlertThresholds
	now        func() time.Time
}

// NewAlertEngine creates an AlertEngine over source.
func NewAlertEngine(source DueSource, thresholds AlertThresholds) AlertEngine {
	return &alertEngine{
		source:     source,
		thresholds: thresholds,
		now:        time.Now,
	}
}

// Evaluate returns one alert per pending task that is overdue or due within
// the look-ahead window, earliest due first.
func (ae *alertEngine) Evaluate() ([]Alert, error) {
	items, err := ae.source.PendingItems()
	if err != nil {
		return nil, fmt.Errorf("reading pending tasks: %w", err)
	}

	now := ae.now().UTC()
	horizon := now.Add(time.Duration(ae.thresholds.UpcomingHours) * time.Hour)

	var alerts []Alert
	for _, item := range items {
		switch {
		case item.Due.Before(now):
			alerts = append(alerts, Alert{
				ID:          "overdue-" + item.ID,
				TaskID:      item.ID,
				Condition:   ConditionOverdue,
				Severity:    overdueSeverity(item.Priority),
				Message:     fmt.Sprintf("%s was due %s ago", item.Name, roundDuration(now.Sub(item.Due))),
				Due:         item.Due,
				TriggeredAt: now,
			})
		case !item.Due.After(horizon):
			alerts = append(alerts, Alert{
				ID:          "due-soon-" + item.ID,
				TaskID:      item.ID,
				Condition:   ConditionDueSoon,
				Severity:    dueSoonSeverity(item.Priority),
				Message:     fmt.Sprintf("%s is due in %s", item.Name, roundDuration(item.Due.Sub(now))),
				Due:         item.Due,
				TriggeredAt: now,
			})
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool { return alerts[i].Due.Before(alerts[j].Due) })
	return alerts, nil
}

func overdueSeverity(priority string) AlertSeverity {
	if priority == "h" {
		return SeverityHigh
	}
	return SeverityMedium
}

func dueSoonSeverity(priority string) AlertSeverity {
	if priority == "h" {
		return SeverityMedium
	}
	return SeverityLow
}

// roundDuration trims d to minutes for display.
func roundDuration(d time.Duration) time.Duration {
	return d.Round(time.Minute)
}
