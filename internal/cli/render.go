package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/valter-silva-au/tars/internal/core"
	"github.com/valter-silva-au/tars/pkg/models"
)

// shortIDLen is how many characters of a task ID list output shows. Any
// unique prefix is accepted back by the commands that take an ID.
const shortIDLen = 8

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	kindContactStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	kindScheduledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))

	priorityHighStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	priorityMediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	priorityLowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	statusDoneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	statusUndoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))

	tagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// paint renders s with style when colour output is enabled.
func paint(style lipgloss.Style, s string) string {
	if !UseColor {
		return s
	}
	return style.Render(s)
}

func styleForKind(k models.TaskKind) lipgloss.Style {
	if k == models.KindContact {
		return kindContactStyle
	}
	return kindScheduledStyle
}

func styleForPriority(p models.Priority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return priorityHighStyle
	case models.PriorityMedium:
		return priorityMediumStyle
	case models.PriorityLow:
		return priorityLowStyle
	default:
		return lipgloss.NewStyle()
	}
}

func styleForStatus(s models.Status) lipgloss.Style {
	if s == models.StatusDone {
		return statusDoneStyle
	}
	return statusUndoneStyle
}

// detailColumn summarises the kind-specific fields of t for the list table.
func detailColumn(t models.ReadOnlyTask) string {
	if t.Kind() == models.KindContact {
		var parts []string
		if p, ok := t.Phone(); ok {
			parts = append(parts, p.String())
		}
		if e, ok := t.Email(); ok {
			parts = append(parts, e.String())
		}
		return strings.Join(parts, " ")
	}
	if dt, ok := t.DateTime(); ok {
		return dt.String()
	}
	return ""
}

// printTaskTable writes records as an aligned table. Padding is applied
// before styling so ANSI sequences do not skew the columns.
func printTaskTable(w io.Writer, records []core.TaskRecord) {
	const row = "  %-8s  %-9s  %-24s  %-28s  %-3s  %-6s  %s\n"
	fmt.Fprint(w, paint(headerStyle, fmt.Sprintf(row, "ID", "KIND", "NAME", "DETAIL", "PRI", "STATUS", "TAGS")))
	for _, rec := range records {
		t := rec.Task
		kind := paint(styleForKind(t.Kind()), fmt.Sprintf("%-9s", t.Kind()))

		pri := fmt.Sprintf("%-3s", "-")
		if p, ok := t.Priority(); ok {
			pri = paint(styleForPriority(p), fmt.Sprintf("%-3s", p))
		}
		status := fmt.Sprintf("%-6s", "-")
		if s, ok := t.Status(); ok {
			status = paint(styleForStatus(s), fmt.Sprintf("%-6s", s))
		}

		fmt.Fprintf(w, "  %-8s  %s  %-24s  %-28s  %s  %s  %s\n",
			shortID(rec.ID), kind, truncate(t.Name().String(), 24),
			truncate(detailColumn(t), 28), pri, status,
			paint(tagStyle, t.Tags().String()))
	}
}

// printTaskPlain writes one FormatTask line per record, prefixed by the
// short ID. It is the format scripts should parse.
func printTaskPlain(w io.Writer, records []core.TaskRecord) {
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\n", shortID(rec.ID), rec.Task.AsText())
	}
}

// printTaskDetail writes every present field of rec, one per line.
func printTaskDetail(w io.Writer, rec *core.TaskRecord) {
	t := rec.Task
	line := func(label, value string) {
		fmt.Fprintf(w, "%s %s\n", paint(headerStyle, fmt.Sprintf("%-10s", label)), value)
	}
	line("ID:", rec.ID)
	line("Kind:", paint(styleForKind(t.Kind()), string(t.Kind())))
	line("Name:", t.Name().String())
	if p, ok := t.Phone(); ok {
		line("Phone:", p.String())
	}
	if e, ok := t.Email(); ok {
		line("Email:", e.String())
	}
	if a, ok := t.Address(); ok {
		line("Address:", a.String())
	}
	if dt, ok := t.DateTime(); ok {
		line("When:", dt.String())
	}
	if p, ok := t.Priority(); ok {
		line("Priority:", paint(styleForPriority(p), p.Label()))
	}
	if s, ok := t.Status(); ok {
		line("Status:", paint(styleForStatus(s), s.String()))
	}
	line("Tags:", paint(tagStyle, t.Tags().String()))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
