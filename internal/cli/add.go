package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/tars/internal/core"
)

var (
	addPhone    string
	addEmail    string
	addAddress  string
	addAt       string
	addPriority string
	addStatus   string
	addTags     []string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a contact or a scheduled task",
}

var addContactCmd = &cobra.Command{
	Use:   "contact <name>",
	Short: "Add a contact",
	Long: `Add a contact to the task book. Phone, email and address are required.

Example:
  tars add contact "John Doe" --phone 98765432 --email johnd@example.com \
      --address "311, Clementi Ave 2, #02-25" --tags friends,owesMoney`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}
		rec, err := TaskMgr.AddContact(core.ContactInput{
			Name:    args[0],
			Phone:   addPhone,
			Email:   addEmail,
			Address: addAddress,
			Tags:    addTags,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", shortID(rec.ID), rec.Task)
		return nil
	},
}

var addTaskCmd = &cobra.Command{
	Use:   "task <name>",
	Short: "Add a scheduled task",
	Long: `Add a scheduled task to the task book. --at is required and takes
"dd/mm/yyyy hhmm" in local time or an RFC 3339 timestamp. Priority and status
fall back to defaults.priority and defaults.status from .tarsconfig.

Example:
  tars add task "Submit report" --at "25/12/2026 0930" --priority h --tags work`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}
		rec, err := TaskMgr.AddScheduled(core.ScheduledInput{
			Name:     args[0],
			DateTime: addAt,
			Priority: addPriority,
			Status:   addStatus,
			Tags:     addTags,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", shortID(rec.ID), rec.Task)
		return nil
	},
}

func init() {
	addContactCmd.Flags().StringVar(&addPhone, "phone", "", "Phone number (digits only)")
	addContactCmd.Flags().StringVar(&addEmail, "email", "", "Email address")
	addContactCmd.Flags().StringVar(&addAddress, "address", "", "Postal address")
	addContactCmd.Flags().StringSliceVar(&addTags, "tags", nil, "Comma-separated tags")
	_ = addContactCmd.MarkFlagRequired("phone")
	_ = addContactCmd.MarkFlagRequired("email")
	_ = addContactCmd.MarkFlagRequired("address")

	addTaskCmd.Flags().StringVar(&addAt, "at", "", `Due date-time, "dd/mm/yyyy hhmm"`)
	addTaskCmd.Flags().StringVar(&addPriority, "priority", "", "Priority: h, m or l")
	addTaskCmd.Flags().StringVar(&addStatus, "status", "", "Status: done or undone")
	addTaskCmd.Flags().StringSliceVar(&addTags, "tags", nil, "Comma-separated tags")
	_ = addTaskCmd.MarkFlagRequired("at")
	_ = addTaskCmd.RegisterFlagCompletionFunc("priority", cobra.FixedCompletions(
		[]string{"h\thigh", "m\tmedium", "l\tlow"}, cobra.ShellCompDirectiveNoFileComp))
	_ = addTaskCmd.RegisterFlagCompletionFunc("status", cobra.FixedCompletions(
		[]string{"done", "undone"}, cobra.ShellCompDirectiveNoFileComp))

	addCmd.AddCommand(addContactCmd)
	addCmd.AddCommand(addTaskCmd)
	rootCmd.AddCommand(addCmd)
}
