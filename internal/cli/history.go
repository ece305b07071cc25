package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/tars/internal/observability"
)

var (
	historyType  string
	historySince string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent changes to the task book",
	Long: `Show events recorded in the event log, newest last.

Filter by event type (task.added, task.deleted, task.tagged,
task.status_changed) and by age (e.g. --since 24h or --since 7d).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if EventLog == nil {
			return fmt.Errorf("event log not initialized (events may be disabled)")
		}

		filter := observability.EventFilter{Type: historyType}
		if historySince != "" {
			since, err := parseSinceDuration(historySince)
			if err != nil {
				return err
			}
			filter.Since = &since
		}

		events, err := EventLog.Read(filter)
		if err != nil {
			return fmt.Errorf("reading event log: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No events found.")
			return nil
		}

		sort.SliceStable(events, func(i, j int) bool { return events[i].Time.Before(events[j].Time) })
		if historyLimit > 0 && len(events) > historyLimit {
			events = events[len(events)-historyLimit:]
		}
		for _, e := range events {
			fmt.Fprintf(out, "%s  %-5s  %-20s  %s\n",
				e.Time.Local().Format("2006-01-02 15:04"), e.Level, e.Type, formatEventData(e.Data))
		}
		return nil
	},
}

// formatEventData renders event data as sorted key=value pairs.
func formatEventData(data map[string]any) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, data[k])
	}
	return strings.Join(parts, " ")
}

// parseSinceDuration parses a relative window like "7d" or "24h" into the
// absolute start time.
func parseSinceDuration(s string) (time.Time, error) {
	now := time.Now().UTC()
	s = strings.TrimSpace(s)

	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil || days < 0 {
			return time.Time{}, fmt.Errorf("invalid day duration %q", s)
		}
		return now.AddDate(0, 0, -days), nil
	}

	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return time.Time{}, fmt.Errorf("unsupported duration format %q (use e.g. 7d, 24h, 30m)", s)
	}
	return now.Add(-d), nil
}

func init() {
	historyCmd.Flags().StringVar(&historyType, "type", "", "Only events of this type")
	historyCmd.Flags().StringVar(&historySince, "since", "", "Only events newer than this (e.g. 24h, 7d)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Show at most this many events")

	_ = historyCmd.RegisterFlagCompletionFunc("type", cobra.FixedCompletions([]string{
		observability.EventTaskAdded,
		observability.EventTaskDeleted,
		observability.EventTaskTagged,
		observability.EventTaskStatusChanged,
	}, cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddCommand(historyCmd)
}
