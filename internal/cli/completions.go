package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/tars/internal/core"
	"github.com/valter-silva-au/tars/pkg/models"
)

// completeTaskIDs returns a completion function that lists task IDs,
// optionally skipping scheduled tasks in the given statuses.
func completeTaskIDs(excludeStatuses ...models.Status) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if TaskMgr == nil || len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		records, err := TaskMgr.ListTasks(core.TaskQuery{})
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		exclude := make(map[models.Status]bool)
		for _, s := range excludeStatuses {
			exclude[s] = true
		}

		var ids []string
		for _, rec := range records {
			if s, ok := rec.Task.Status(); ok && exclude[s] {
				continue
			}
			if toComplete == "" || strings.HasPrefix(rec.ID, toComplete) {
				// Name as description.
				ids = append(ids, rec.ID+"\t"+string(rec.Task.Kind())+": "+rec.Task.Name().String())
			}
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeTags lists every tag in use across the task book.
func completeTags(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if TaskMgr == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	records, err := TaskMgr.ListTasks(core.TaskQuery{})
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	seen := make(map[string]bool)
	var tags []string
	for _, rec := range records {
		for _, name := range rec.Task.Tags().Strings() {
			if seen[name] || !strings.HasPrefix(name, toComplete) {
				continue
			}
			seen[name] = true
			tags = append(tags, name)
		}
	}
	return tags, cobra.ShellCompDirectiveNoFileComp
}
