package cli

import (
	"github.com/valter-silva-au/tars/internal/core"
	"github.com/valter-silva-au/tars/internal/observability"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath string
	TaskMgr  core.TaskManager
	EventLog observability.EventLog

	MetricsCalc observability.MetricsCalculator
	AlertEngine observability.AlertEngine

	// UseColor enables lipgloss styling in list and show output.
	UseColor = true
)
