package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var (
	statsSince string
	statsJSON  bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise recent task book activity",
	Long: `Count the adds, deletes, tag changes and status changes recorded in
the event log over a window (default: the last 7 days).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if MetricsCalc == nil {
			return fmt.Errorf("metrics not available (events may be disabled)")
		}
		since, err := parseSinceDuration(statsSince)
		if err != nil {
			return err
		}
		m, err := MetricsCalc.Calculate(since)
		if err != nil {
			return fmt.Errorf("calculating stats: %w", err)
		}

		out := cmd.OutOrStdout()
		if statsJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(m)
		}

		fmt.Fprintln(out, paint(headerStyle, "Activity since "+since.Local().Format("2006-01-02 15:04")))
		fmt.Fprintf(out, "  Added:     %d\n", m.TasksAdded)
		kinds := make([]string, 0, len(m.AddedByKind))
		for k := range m.AddedByKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(out, "    %-9s %d\n", k+":", m.AddedByKind[k])
		}
		fmt.Fprintf(out, "  Deleted:   %d\n", m.TasksDeleted)
		fmt.Fprintf(out, "  Tagged:    %d\n", m.TasksTagged)
		fmt.Fprintf(out, "  Completed: %d\n", m.TasksCompleted)
		fmt.Fprintf(out, "  Reopened:  %d\n", m.TasksReopened)
		fmt.Fprintf(out, "  Events:    %d\n", m.EventCount)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsSince, "since", "7d", "Window to summarise (e.g. 24h, 7d)")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print the raw counters as JSON")
	rootCmd.AddCommand(statsCmd)
}
