package schedules

import (
	"fmt"
	"webweg/cmd/webreg-cli/globals"
	"webweg/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "schedules",
	Short: "The 'schedules' subcommand manages saved schedules.",
}

func init() {
	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(renameCmd)
	RootCmd.AddCommand(removeCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the names of every saved schedule.",
	Run: func(cmd *cobra.Command, args []string) {
		client := globals.Get(cmd.Context()).Client
		names, err := client.GetScheduleList(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to list schedules", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <old name> <new name>",
	Short: "Renames a schedule.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client := globals.Get(cmd.Context()).Client
		err := client.RenameSchedule(cmd.Context(), args[0], args[1])
		if err != nil {
			serviceutil.Fatal("failed to rename schedule", err)
		}
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Removes a schedule.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := globals.Get(cmd.Context()).Client
		err := client.RemoveSchedule(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to remove schedule", err)
		}
	},
}
