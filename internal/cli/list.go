package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/tars/internal/core"
	"github.com/valter-silva-au/tars/pkg/models"
)

var (
	listKind       string
	listPriorities []string
	listStatus     string
	listTags       []string
	listKeywords   []string
	listAfter      string
	listBefore     string
	listPlain      bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks, optionally filtered",
	Long: `List tasks in the task book. Filters combine with AND:

  --kind contact|scheduled
  --priority h,m          any of the given priorities
  --status done|undone
  --tag work              every given tag must be present (repeatable)
  --keyword report        name contains any keyword (repeatable)
  --after / --before      scheduled between two date-times

Use --plain for one line per task with no styling.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		query, err := buildQuery()
		if err != nil {
			return err
		}
		records, err := TaskMgr.ListTasks(query)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}
		if listPlain {
			printTaskPlain(out, records)
			return nil
		}
		printTaskTable(out, records)
		fmt.Fprintf(out, "\n  %d task(s)\n", len(records))
		return nil
	},
}

// buildQuery turns the list flags into a core.TaskQuery.
func buildQuery() (core.TaskQuery, error) {
	var q core.TaskQuery

	switch listKind {
	case "":
	case string(models.KindContact), string(models.KindScheduled):
		q.Kind = models.TaskKind(listKind)
	default:
		return q, fmt.Errorf("invalid --kind %q: must be contact or scheduled", listKind)
	}

	for _, raw := range listPriorities {
		p, err := models.ParsePriority(raw)
		if err != nil {
			return q, err
		}
		q.Priorities = append(q.Priorities, p)
	}

	if listStatus != "" {
		s, err := models.ParseStatus(listStatus)
		if err != nil {
			return q, err
		}
		q.Status = s
	}

	q.Tags = listTags
	q.Keywords = listKeywords

	var err error
	if q.After, err = parseBound("after", listAfter); err != nil {
		return q, err
	}
	if q.Before, err = parseBound("before", listBefore); err != nil {
		return q, err
	}
	return q, nil
}

func parseBound(flag, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	dt, err := models.ParseDateTime(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", flag, err)
	}
	t := dt.Time()
	return &t, nil
}

func init() {
	listCmd.Flags().StringVar(&listKind, "kind", "", "Only this kind: contact or scheduled")
	listCmd.Flags().StringSliceVar(&listPriorities, "priority", nil, "Only these priorities (h, m, l)")
	listCmd.Flags().StringVar(&listStatus, "status", "", "Only this status: done or undone")
	listCmd.Flags().StringArrayVar(&listTags, "tag", nil, "Require this tag (repeatable)")
	listCmd.Flags().StringArrayVar(&listKeywords, "keyword", nil, "Name contains this keyword (repeatable)")
	listCmd.Flags().StringVar(&listAfter, "after", "", `Scheduled at or after "dd/mm/yyyy hhmm"`)
	listCmd.Flags().StringVar(&listBefore, "before", "", `Scheduled at or before "dd/mm/yyyy hhmm"`)
	listCmd.Flags().BoolVar(&listPlain, "plain", false, "One unstyled line per task")

	_ = listCmd.RegisterFlagCompletionFunc("kind", cobra.FixedCompletions(
		[]string{string(models.KindContact), string(models.KindScheduled)}, cobra.ShellCompDirectiveNoFileComp))
	_ = listCmd.RegisterFlagCompletionFunc("tag", completeTags)

	rootCmd.AddCommand(listCmd)
}
