package cmd

import (
	"slices"
	"webweg/cmd/webreg-cli/globals"
	"webweg/cmd/webreg-cli/utils"
	"webweg/lib/platforms/webreg"
	"webweg/lib/textutil"
	"webweg/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	courseInstructor string
	courseOpenOnly   bool
)

func init() {
	courseCmd.Flags().StringVarP(&courseInstructor, "instructor", "i", "", "only show sections taught by a similarly named instructor")
	courseCmd.Flags().BoolVar(&courseOpenOnly, "open", false, "only show sections with open seats")
	rootCmd.AddCommand(courseCmd)
}

// filterSections keeps sections matching the instructor (fuzzily) and, with
// openOnly, the ones with open seats.
func filterSections(sections []webreg.Section, instructor string, openOnly bool) []webreg.Section {
	return slices.DeleteFunc(sections, func(s webreg.Section) bool {
		if openOnly && !s.HasOpenSeats() {
			return true
		}
		if instructor == "" {
			return false
		}
		return len(textutil.FuzzyMatches(instructor, s.Instructors, 0.85)) == 0
	})
}

var courseCmd = &cobra.Command{
	Use:     "course <subject> <number>",
	Short:   "Lists every section of a course, ex. course CSE 100.",
	Args:    cobra.ExactArgs(2),
	Example: "webreg-cli course CSE 100 --instructor smith",
	Run: func(cmd *cobra.Command, args []string) {
		client := globals.Get(cmd.Context()).Client

		sections, err := client.GetCourseInfo(cmd.Context(), args[0], args[1])
		if err != nil {
			serviceutil.Fatal("failed to get course info", err)
		}
		utils.RenderSections(filterSections(sections, courseInstructor, courseOpenOnly))
	},
}

var countCmd = &cobra.Command{
	Use:   "count <subject> <number>",
	Short: "Prints the enrollment counts of every section of a course.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client := globals.Get(cmd.Context()).Client

		sections, err := client.GetEnrollmentCount(cmd.Context(), args[0], args[1])
		if err != nil {
			serviceutil.Fatal("failed to get enrollment counts", err)
		}
		utils.RenderSections(sections)
	},
}

var prereqsCmd = &cobra.Command{
	Use:   "prereqs <subject> <number>",
	Short: "Prints the prerequisites of a course.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client := globals.Get(cmd.Context()).Client

		info, err := client.GetPrerequisites(cmd.Context(), args[0], args[1])
		if err != nil {
			serviceutil.Fatal("failed to get prerequisites", err)
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"#", "One of"})
		for i, group := range info.CourseReqs {
			for _, req := range group {
				t.AppendRow(table.Row{i + 1, webreg.FormatSubjectCourseId(req.SubjectCode, req.CourseCode) + " " + req.CourseTitle})
			}
			t.AppendSeparator()
		}
		for _, exam := range info.ExamReqs {
			t.AppendRow(table.Row{"exam", exam})
		}
		t.Render()
	},
}

func init() {
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(prereqsCmd)
}
