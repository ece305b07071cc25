package cli

import (
	"bytes"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/tars/internal/core"
)

var (
	browseTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	browseCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)

	browseDetailStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1)
)

type browseModel struct {
	records []core.TaskRecord
	cursor  int
	detail  bool
	height  int

	loading bool
	err     error
}

// tasksLoadedMsg carries loaded records back to the model.
type tasksLoadedMsg struct {
	records []core.TaskRecord
	err     error
}

func newBrowseModel() browseModel {
	return browseModel{loading: true}
}

func (m browseModel) Init() tea.Cmd {
	return loadTasks
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if m.detail && msg.String() == "esc" {
				m.detail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.records)-1 {
				m.cursor++
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			if len(m.records) > 0 {
				m.cursor = len(m.records) - 1
			}
		case "enter", " ":
			m.detail = !m.detail
		case "r":
			m.loading = true
			return m, loadTasks
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case tasksLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.records = msg.records
		}
		if m.cursor >= len(m.records) {
			m.cursor = max(len(m.records)-1, 0)
		}
		return m, nil
	}

	return m, nil
}

func (m browseModel) View() string {
	title := browseTitleStyle.Render("tars")
	help := helpStyle.Render("j/k: move | enter: details | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading tasks...\n\n%s", title, help)
	}
	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}
	if len(m.records) == 0 {
		return fmt.Sprintf("%s\n\n  No tasks found.\n\n%s", title, help)
	}

	var b strings.Builder
	start, end := m.window()
	for i := start; i < end; i++ {
		rec := m.records[i]
		prefix := "  "
		line := fmt.Sprintf("%-8s %s", shortID(rec.ID), rec.Task.AsText())
		if i == m.cursor {
			prefix = browseCursorStyle.Render("> ")
			line = browseCursorStyle.Render(line)
		}
		b.WriteString(prefix + line + "\n")
	}

	body := b.String()
	if m.detail {
		var d bytes.Buffer
		printTaskDetail(&d, &m.records[m.cursor])
		body += "\n" + browseDetailStyle.Render(strings.TrimRight(d.String(), "\n"))
	}

	return fmt.Sprintf("%s  %d task(s)\n\n%s\n%s", title, len(m.records), body, help)
}

// window returns the slice of records that fits the terminal, keeping the
// cursor visible.
func (m browseModel) window() (int, int) {
	visible := len(m.records)
	if m.height > 0 {
		// Title, help and detail pane.
		visible = max(m.height-14, 3)
	}
	if visible >= len(m.records) {
		return 0, len(m.records)
	}
	start := max(m.cursor-visible/2, 0)
	end := start + visible
	if end > len(m.records) {
		end = len(m.records)
		start = end - visible
	}
	return start, end
}

func loadTasks() tea.Msg {
	if TaskMgr == nil {
		return tasksLoadedMsg{err: fmt.Errorf("task manager not initialized")}
	}
	records, err := TaskMgr.ListTasks(core.TaskQuery{})
	if err != nil {
		return tasksLoadedMsg{err: fmt.Errorf("loading tasks: %w", err)}
	}
	return tasksLoadedMsg{records: records}
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse tasks in an interactive viewer",
	Long: `Launch a read-only terminal viewer over the task book.

Move with j/k or the arrow keys, toggle details with enter, refresh with r,
quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}
		p := tea.NewProgram(newBrowseModel(), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
