package cmd

import (
	"fmt"
	"webweg/cmd/webreg-cli/globals"
	"webweg/cmd/webreg-cli/utils"
	"webweg/lib/platforms/webreg"
	"webweg/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var search struct {
	subjects    []string
	courses     []string
	departments []string
	instructor  string
	title       string
	days        string
	start       string
	end         string
	lower       bool
	upper       bool
	graduate    bool
	open        bool
	sectionIds  []string
	detailed    bool
}

var levelFlags = []struct {
	enabled *bool
	level   webreg.LevelFilter
}{
	{&search.lower, webreg.LevelLowerDivision},
	{&search.upper, webreg.LevelUpperDivision},
	{&search.graduate, webreg.LevelGraduate},
}

func init() {
	flags := searchCmd.Flags()
	flags.StringSliceVarP(&search.subjects, "subject", "s", nil, "subject codes, ex. CSE,MATH")
	flags.StringSliceVarP(&search.courses, "course", "c", nil, "course numbers, ex. 100,8B")
	flags.StringSliceVar(&search.departments, "department", nil, "department codes")
	flags.StringVar(&search.instructor, "instructor", "", "instructor name")
	flags.StringVar(&search.title, "title", "", "course title")
	flags.StringVar(&search.days, "days", "", "only sections meeting on these days, ex. TuTh")
	flags.StringVar(&search.start, "start", "", "earliest start time, ex. 09:00")
	flags.StringVar(&search.end, "end", "", "latest end time, ex. 17:00")
	flags.BoolVar(&search.lower, "lower", false, "lower division courses")
	flags.BoolVar(&search.upper, "upper", false, "upper division courses")
	flags.BoolVar(&search.graduate, "graduate", false, "graduate courses")
	flags.BoolVar(&search.open, "open", false, "only courses with open sections")
	flags.StringSliceVar(&search.sectionIds, "section-id", nil, "search by section ids instead")
	flags.BoolVarP(&search.detailed, "detailed", "d", false, "fetch the sections of every course found")
	rootCmd.AddCommand(searchCmd)
}

func buildSearch() (webreg.SearchFilter, error) {
	if len(search.sectionIds) > 0 {
		return webreg.SectionSearch(search.sectionIds), nil
	}

	req := webreg.NewSearchRequest().
		SetInstructor(search.instructor).
		SetTitle(search.title)
	for _, s := range search.subjects {
		req.AddSubject(s)
	}
	for _, c := range search.courses {
		req.AddCourse(c)
	}
	for _, d := range search.departments {
		req.AddDepartment(d)
	}
	for _, l := range levelFlags {
		if *l.enabled {
			req.FilterLevel(l.level)
		}
	}
	if search.open {
		req.OnlyOpen()
	}

	if search.days != "" {
		days, err := utils.ParseDays(search.days)
		if err != nil {
			return nil, err
		}
		for _, d := range days {
			req.ApplyDay(d)
		}
	}
	if search.start != "" {
		hour, minute, err := utils.ParseClock(search.start)
		if err != nil {
			return nil, err
		}
		req.SetStartTime(hour, minute)
	}
	if search.end != "" {
		hour, minute, err := utils.ParseClock(search.end)
		if err != nil {
			return nil, err
		}
		req.SetEndTime(hour, minute)
	}
	return req, nil
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Searches for courses.",
	Example: `webreg-cli search --subject CSE --upper --days TuTh
webreg-cli search --section-id 079912,079913 --detailed`,
	Run: func(cmd *cobra.Command, args []string) {
		client := globals.Get(cmd.Context()).Client

		filter, err := buildSearch()
		if err != nil {
			serviceutil.Fatal("invalid search", err)
		}

		if search.detailed {
			sections, err := client.SearchCoursesDetailed(cmd.Context(), filter)
			// partial results are still worth showing
			utils.RenderSections(sections)
			if err != nil {
				serviceutil.Fatal("search stopped early", err)
			}
			return
		}

		items, err := client.SearchCourses(cmd.Context(), filter)
		if err != nil {
			serviceutil.Fatal("failed to search", err)
		}
		t := utils.NewTable()
		t.AppendHeader(table.Row{"Course", "Title", "Units"})
		for _, item := range items {
			units := fmt.Sprintf("%g", item.MinUnits)
			if item.MaxUnits != item.MinUnits {
				units = fmt.Sprintf("%g-%g", item.MinUnits, item.MaxUnits)
			}
			t.AppendRow(table.Row{
				webreg.FormatSubjectCourseId(item.SubjectCode, item.CourseCode),
				item.CourseTitle,
				units,
			})
		}
		t.Render()
	},
}
