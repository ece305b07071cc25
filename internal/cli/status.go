package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/tars/pkg/models"
)

var doneCmd = &cobra.Command{
	Use:               "done <id>",
	Short:             "Mark a scheduled task as done",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTaskIDs(models.StatusDone),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(cmd, args[0], models.StatusDone)
	},
}

var undoneCmd = &cobra.Command{
	Use:               "undone <id>",
	Short:             "Mark a scheduled task as not done",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTaskIDs(models.StatusUndone),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(cmd, args[0], models.StatusUndone)
	},
}

func setStatus(cmd *cobra.Command, id string, status models.Status) error {
	if TaskMgr == nil {
		return fmt.Errorf("task manager not initialized")
	}
	rec, err := TaskMgr.SetStatus(id, status)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", shortID(rec.ID), status)
	return nil
}

func init() {
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(undoneCmd)
}
