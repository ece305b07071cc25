package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/tars/internal/observability"
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List overdue and upcoming tasks",
	Long: `List undone scheduled tasks that are overdue or due within the
configured look-ahead window (alerts.upcoming_hours).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if AlertEngine == nil {
			return fmt.Errorf("alert engine not initialized")
		}
		alerts, err := AlertEngine.Evaluate()
		if err != nil {
			return fmt.Errorf("checking due tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(alerts) == 0 {
			fmt.Fprintln(out, "Nothing due.")
			return nil
		}
		for _, a := range alerts {
			fmt.Fprintf(out, "%s  %s  %s\n",
				paint(styleForSeverity(a.Severity), fmt.Sprintf("%-6s", a.Severity)),
				shortID(a.TaskID),
				a.Message)
		}
		return nil
	},
}

func styleForSeverity(s observability.AlertSeverity) lipgloss.Style {
	switch s {
	case observability.SeverityHigh:
		return priorityHighStyle
	case observability.SeverityMedium:
		return priorityMediumStyle
	}
	return priorityLowStyle
}

func init() {
	rootCmd.AddCommand(dueCmd)
}
