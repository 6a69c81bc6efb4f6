package events

import (
	"fmt"
	"webweg/cmd/webreg-cli/globals"
	"webweg/cmd/webreg-cli/utils"
	"webweg/lib/platforms/webreg"
	"webweg/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "events",
	Short: "The 'events' subcommand manages personal calendar events.",
}

var add struct {
	location  string
	days      string
	start     string
	end       string
	timestamp string
}

func init() {
	addCmd.Flags().StringVar(&add.location, "location", "", "where the event takes place")
	addCmd.Flags().StringVar(&add.days, "days", "", "days the event repeats on, ex. MWF")
	addCmd.Flags().StringVar(&add.start, "start", "", "start time, ex. 09:00")
	addCmd.Flags().StringVar(&add.end, "end", "", "end time, ex. 10:30")
	addCmd.Flags().StringVar(&add.timestamp, "replace", "", "timestamp of an event to replace instead of adding")
	for _, name := range []string{"days", "start", "end"} {
		_ = addCmd.MarkFlagRequired(name)
	}

	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(addCmd)
	RootCmd.AddCommand(removeCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists every event.",
	Run: func(cmd *cobra.Command, args []string) {
		client := globals.Get(cmd.Context()).Client
		events, err := client.GetEvents(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to list events", err)
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Name", "Location", "Days", "Time", "Timestamp"})
		for _, e := range events {
			t.AppendRow(table.Row{
				e.Description,
				e.Location,
				webreg.FormatDays(e.Days),
				fmt.Sprintf("%d:%02d-%d:%02d", e.StartHour, e.StartMinute, e.EndHour, e.EndMinute),
				e.Timestamp,
			})
		}
		t.Render()
	},
}

var addCmd = &cobra.Command{
	Use:     "add <name>",
	Short:   "Adds an event, or replaces one with --replace.",
	Args:    cobra.ExactArgs(1),
	Example: "webreg-cli events add Gym --location RIMAC --days TuTh --start 07:30 --end 08:45",
	Run: func(cmd *cobra.Command, args []string) {
		client := globals.Get(cmd.Context()).Client

		days, err := utils.ParseDays(add.days)
		if err != nil {
			serviceutil.Fatal("invalid days", err)
		}
		startHour, startMinute, err := utils.ParseClock(add.start)
		if err != nil {
			serviceutil.Fatal("invalid start", err)
		}
		endHour, endMinute, err := utils.ParseClock(add.end)
		if err != nil {
			serviceutil.Fatal("invalid end", err)
		}

		err = client.AddOrEditEvent(cmd.Context(), webreg.EventAdd{
			Name:        args[0],
			Location:    add.location,
			Days:        days,
			StartHour:   startHour,
			StartMinute: startMinute,
			EndHour:     endHour,
			EndMinute:   endMinute,
		}, add.timestamp)
		if err != nil {
			serviceutil.Fatal("failed to add event", err)
		}
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <timestamp>",
	Short: "Removes the event with the given timestamp (see 'events list').",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := globals.Get(cmd.Context()).Client
		err := client.RemoveEvent(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to remove event", err)
		}
	},
}
