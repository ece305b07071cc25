package observability

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pgregory.net/rapid"
)

var eventTypes = []string{
	EventTaskAdded, EventTaskDeleted, EventTaskTagged, EventTaskStatusChanged, "other.event",
}

func genEvent(t *rapid.T, i int, base time.Time) Event {
	typ := rapid.SampledFrom(eventTypes).Draw(t, fmt.Sprintf("type_%d", i))
	offset := rapid.IntRange(0, 1000).Draw(t, fmt.Sprintf("offset_%d", i))
	e := Event{Time: base.Add(time.Duration(offset) * time.Minute), Type: typ, Data: map[string]any{}}
	switch typ {
	case EventTaskAdded:
		e.Data["kind"] = rapid.SampledFrom([]string{"contact", "scheduled"}).Draw(t, fmt.Sprintf("kind_%d", i))
	case EventTaskStatusChanged:
		e.Data["new_status"] = rapid.SampledFrom([]string{"done", "undone"}).Draw(t, fmt.Sprintf("status_%d", i))
	}
	return e
}

// Every counted event is accounted for exactly once and added events are
// split by kind without loss.
func TestMetrics_CountsPartitionEvents(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dir, err := os.MkdirTemp("", "metrics-prop-test-*")
		if err != nil {
			rt.Fatalf("creating temp dir: %v", err)
		}
		defer os.RemoveAll(dir)
		log, err := NewJSONLEventLog(filepath.Join(dir, "events.jsonl"))
		if err != nil {
			rt.Fatalf("creating event log: %v", err)
		}
		defer log.Close()

		base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		n := rapid.IntRange(0, 30).Draw(rt, "n")
		others := 0
		for i := 0; i < n; i++ {
			e := genEvent(rt, i, base)
			if e.Type == "other.event" {
				others++
			}
			if err := log.Write(e); err != nil {
				rt.Fatalf("writing event: %v", err)
			}
		}

		m, err := NewMetricsCalculator(log).Calculate(base)
		if err != nil {
			rt.Fatalf("Calculate: %v", err)
		}

		if m.EventCount != n {
			rt.Fatalf("EventCount = %d, want %d", m.EventCount, n)
		}
		counted := m.TasksAdded + m.TasksDeleted + m.TasksTagged + m.TasksCompleted + m.TasksReopened
		if counted+others != n {
			rt.Fatalf("counted %d + other %d != %d events", counted, others, n)
		}
		byKind := 0
		for _, c := range m.AddedByKind {
			byKind += c
		}
		if byKind != m.TasksAdded {
			rt.Fatalf("AddedByKind sums to %d, TasksAdded = %d", byKind, m.TasksAdded)
		}
		if n > 0 && m.OldestEvent.After(*m.NewestEvent) {
			rt.Fatalf("oldest %v after newest %v", m.OldestEvent, m.NewestEvent)
		}
	})
}
