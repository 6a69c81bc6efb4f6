package cmd

import (
	"fmt"
	"webweg/cmd/webreg-cli/globals"
	"webweg/cmd/webreg-cli/utils"
	"webweg/lib/platforms/webreg"
	"webweg/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var enroll struct {
	units      float64
	grade      string
	noValidate bool
	schedule   string
}

func parseGrade(raw string) webreg.GradeOption {
	if raw == "" {
		return ""
	}
	grade, err := webreg.ParseGradeOption(raw)
	if err != nil {
		serviceutil.Fatal("invalid grading option", err)
	}
	return grade
}

func init() {
	for _, c := range []*cobra.Command{enrollCmd, waitlistCmd, planCmd} {
		c.Flags().Float64Var(&enroll.units, "units", 0, "units to take the section for, defaults to the section's units")
		c.Flags().StringVarP(&enroll.grade, "grade", "g", "", "grading option, one of L, P or S")
		c.Flags().BoolVar(&enroll.noValidate, "no-validate", false, "skip asking WebReg whether the request would succeed first")
	}
	planCmd.Flags().StringVar(&enroll.schedule, "schedule", "", "schedule to plan the section in")
	unplanCmd.Flags().StringVar(&enroll.schedule, "schedule", "", "schedule to remove the section from")

	rootCmd.AddCommand(enrollCmd)
	rootCmd.AddCommand(waitlistCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(unplanCmd)
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(scheduleCmd)
}

func addSection(kind webreg.AddKind) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		client := globals.Get(cmd.Context()).Client

		err := client.AddSection(cmd.Context(), kind, webreg.EnrollWaitAdd{
			SectionId:   args[0],
			Units:       enroll.units,
			GradeOption: parseGrade(enroll.grade),
		}, !enroll.noValidate)
		if err != nil {
			serviceutil.Fatal(fmt.Sprintf("failed to %s", kind), err)
		}
		fmt.Printf("%s %s: done\n", kind, args[0])
	}
}

var enrollCmd = &cobra.Command{
	Use:   "enroll <section id>",
	Short: "Enrolls in a section.",
	Args:  cobra.ExactArgs(1),
	Run:   addSection(webreg.AddEnroll),
}

var waitlistCmd = &cobra.Command{
	Use:   "waitlist <section id>",
	Short: "Joins the waitlist of a section.",
	Args:  cobra.ExactArgs(1),
	Run:   addSection(webreg.AddWaitlist),
}

var dropWaitlist bool

func init() {
	dropCmd.Flags().BoolVarP(&dropWaitlist, "waitlist", "w", false, "leave the waitlist instead of dropping an enrolled section")
}

var dropCmd = &cobra.Command{
	Use:   "drop <section id>",
	Short: "Drops an enrolled section or leaves a waitlist.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := globals.Get(cmd.Context()).Client

		kind := webreg.AddEnroll
		if dropWaitlist {
			kind = webreg.AddWaitlist
		}
		err := client.DropSection(cmd.Context(), kind, args[0])
		if err != nil {
			serviceutil.Fatal("failed to drop", err)
		}
	},
}

var planCmd = &cobra.Command{
	Use:     "plan <subject> <number> <section id> <section code>",
	Short:   "Adds a section to a schedule without enrolling.",
	Args:    cobra.ExactArgs(4),
	Example: "webreg-cli plan CSE 100 079912 A01 --units 4",
	Run: func(cmd *cobra.Command, args []string) {
		client := globals.Get(cmd.Context()).Client

		err := client.AddToPlan(cmd.Context(), webreg.PlanAdd{
			SubjectCode:  args[0],
			CourseCode:   args[1],
			SectionId:    args[2],
			SectionCode:  args[3],
			Units:        enroll.units,
			GradeOption:  parseGrade(enroll.grade),
			ScheduleName: enroll.schedule,
		}, !enroll.noValidate)
		if err != nil {
			serviceutil.Fatal("failed to plan", err)
		}
	},
}

var unplanCmd = &cobra.Command{
	Use:   "unplan <section id>",
	Short: "Removes a planned section from a schedule.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := globals.Get(cmd.Context()).Client
		err := client.RemoveFromPlan(cmd.Context(), args[0], enroll.schedule)
		if err != nil {
			serviceutil.Fatal("failed to unplan", err)
		}
	},
}

var gradeCmd = &cobra.Command{
	Use:   "grade <section id> <L|P|S>",
	Short: "Changes the grading option of an enrolled section.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client := globals.Get(cmd.Context()).Client
		err := client.ChangeGradingOption(cmd.Context(), args[0], parseGrade(args[1]))
		if err != nil {
			serviceutil.Fatal("failed to change grading option", err)
		}
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule [name]",
	Short: "Prints a schedule, the default one when no name is given.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := globals.Get(cmd.Context()).Client

		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		schedule, err := client.GetSchedule(cmd.Context(), name)
		if err != nil {
			serviceutil.Fatal("failed to get schedule", err)
		}
		utils.RenderSchedule(schedule)

		for _, s := range schedule {
			if s.Status.State == webreg.StatusWaitlisted {
				fmt.Printf("%s %s: #%d on the waitlist\n", s.SubjectCode, s.CourseCode, s.Status.WaitlistPosition)
			}
		}
	},
}
