package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag <id> [tag...]",
	Short: "Replace the tags of a task",
	Long: `Replace the full tag set of a task. Tags are alphanumeric; repeats
collapse into one. Giving no tags clears them.

Example:
  tars tag 3f2a9c1e work urgent`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return completeTaskIDs()(cmd, args, toComplete)
		}
		return completeTags(cmd, args, toComplete)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}
		rec, err := TaskMgr.TagTask(args[0], args[1:])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Tagged %s: %s\n", shortID(rec.ID), rec.Task.Tags())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tagCmd)
}
