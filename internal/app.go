// Package internal provides the App struct that wires all components of tars
// together and initializes the CLI layer.
package internal

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/valter-silva-au/tars/internal/cli"
	"github.com/valter-silva-au/tars/internal/core"
	"github.com/valter-silva-au/tars/internal/observability"
	"github.com/valter-silva-au/tars/internal/storage"
	"github.com/valter-silva-au/tars/pkg/models"
)

// EventLogFile is the JSONL event log name under the base path.
const EventLogFile = ".tars_events.jsonl"

// App holds all service dependencies for tars.
type App struct {
	BasePath string
	Config   *models.Config
	Logger   *log.Logger

	ConfigMgr core.ConfigurationManager
	TaskBook  storage.TaskBookManager
	TaskMgr   core.TaskManager
	EventLog  observability.EventLog

	MetricsCalc observability.MetricsCalculator
	AlertEngine observability.AlertEngine
}

// NewApp creates and wires all components. basePath is the directory holding
// the task book, the event log and .tarsconfig.
func NewApp(basePath string) (*App, error) {
	app := &App{
		BasePath: basePath,
		Logger:   log.NewWithOptions(os.Stderr, log.Options{Prefix: "tars"}),
	}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadConfig()
	if err != nil {
		app.Logger.Warn("using default configuration", "err", err)
		cfg = core.DefaultConfig()
	}
	app.Config = cfg
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		app.Logger.SetLevel(level)
	}
	app.Logger.Debug("configuration loaded", "base", basePath, "data_file", cfg.DataFile)

	// --- Storage layer ---
	app.TaskBook = storage.NewTaskBookManager(basePath, cfg.DataFile)

	// --- Observability ---
	var events core.EventLogger
	if cfg.EventsEnabled {
		if err := os.MkdirAll(basePath, 0o750); err != nil {
			app.Logger.Warn("event log disabled", "err", err)
		} else if app.EventLog, err = observability.NewJSONLEventLog(filepath.Join(basePath, EventLogFile)); err != nil {
			// Non-fatal: run without the audit trail.
			app.Logger.Warn("event log disabled", "err", err)
			app.EventLog = nil
		}
	}
	if app.EventLog != nil {
		events = &eventLogAdapter{log: app.EventLog}
	}

	// --- Core services ---
	var opts []core.TaskManagerOption
	if err := os.MkdirAll(basePath, 0o750); err == nil {
		opts = append(opts, core.WithLockFile(filepath.Join(basePath, cfg.DataFile+".lock")))
	}
	app.TaskMgr = core.NewTaskManager(&taskStoreAdapter{book: app.TaskBook}, cfg, events, opts...)

	// --- Reporting ---
	if app.EventLog != nil {
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}
	app.AlertEngine = observability.NewAlertEngine(
		&dueSourceAdapter{tasks: app.TaskMgr},
		observability.AlertThresholds{UpcomingHours: cfg.UpcomingHours},
	)

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.TaskMgr = app.TaskMgr
	cli.EventLog = app.EventLog
	cli.MetricsCalc = app.MetricsCalc
	cli.AlertEngine = app.AlertEngine
	cli.UseColor = cfg.Color

	return app, nil
}

// Close releases resources held by the App.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the tars data directory. TARS_HOME wins;
// otherwise the nearest ancestor of the working directory holding a
// .tarsconfig; otherwise ~/.tars.
func ResolveBasePath() string {
	if home := os.Getenv("TARS_HOME"); home != "" {
		return home
	}
	if dir, err := os.Getwd(); err == nil {
		for {
			if _, err := os.Stat(filepath.Join(dir, core.ConfigFileName)); err == nil {
				return dir
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".tars")
	}
	return ".tars"
}

// taskStoreAdapter exposes a storage.TaskBookManager as a core.TaskStore.
type taskStoreAdapter struct {
	book storage.TaskBookManager
}

func (a *taskStoreAdapter) AddTask(task *models.Task) (string, error) {
	return a.book.AddTask(task)
}

func (a *taskStoreAdapter) ReplaceTask(id string, task *models.Task) error {
	return a.book.ReplaceTask(id, task)
}

func (a *taskStoreAdapter) RemoveTask(id string) error {
	return a.book.RemoveTask(id)
}

func (a *taskStoreAdapter) GetTask(id string) (*models.Task, error) {
	return a.book.GetTask(id)
}

func (a *taskStoreAdapter) FilterTasks(q core.TaskQuery) ([]core.TaskRecord, error) {
	stored, err := a.book.FilterTasks(storage.TaskFilter{
		Kind:       q.Kind,
		Priorities: q.Priorities,
		Status:     q.Status,
		Tags:       q.Tags,
		Keywords:   q.Keywords,
		After:      q.After,
		Before:     q.Before,
	})
	if err != nil {
		return nil, err
	}
	out := make([]core.TaskRecord, len(stored))
	for i, st := range stored {
		out[i] = core.TaskRecord{ID: st.ID, Task: st.Task}
	}
	return out, nil
}

func (a *taskStoreAdapter) Load() error { return a.book.Load() }

func (a *taskStoreAdapter) Save() error { return a.book.Save() }

// eventLogAdapter exposes an observability.EventLog as a core.EventLogger.
type eventLogAdapter struct {
	log observability.EventLog
}

func (a *eventLogAdapter) LogEvent(eventType string, data map[string]any) error {
	level := observability.LevelInfo
	if eventType == observability.EventTaskDeleted {
		level = observability.LevelWarn
	}
	return a.log.Write(observability.Event{
		Level:   level,
		Type:    eventType,
		Message: strings.ReplaceAll(eventType, "_", " "),
		Data:    data,
	})
}

// dueSourceAdapter feeds undone scheduled tasks to the alert engine.
type dueSourceAdapter struct {
	tasks core.TaskManager
}

func (a *dueSourceAdapter) PendingItems() ([]observability.DueItem, error) {
	records, err := a.tasks.ListTasks(core.TaskQuery{
		Kind:   models.KindScheduled,
		Status: models.StatusUndone,
	})
	if err != nil {
		return nil, err
	}
	items := make([]observability.DueItem, 0, len(records))
	for _, rec := range records {
		dt, ok := rec.Task.DateTime()
		if !ok {
			continue
		}
		p, _ := rec.Task.Priority()
		items = append(items, observability.DueItem{
			ID:       rec.ID,
			Name:     rec.Task.Name().String(),
			Due:      dt.Time(),
			Priority: string(p),
		})
	}
	return items, nil
}
