package utils

import (
	"fmt"
	"os"
	"strings"
	"webweg/lib/platforms/webreg"

	"github.com/jedib0t/go-pretty/v6/table"
)

func NewTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func meetingLines(meetings []webreg.Meeting) string {
	lines := make([]string, len(meetings))
	for i, m := range meetings {
		lines[i] = m.FlatString()
	}
	return strings.Join(lines, "\n")
}

func RenderSections(sections []webreg.Section) {
	t := NewTable()
	t.AppendHeader(table.Row{"Course", "Code", "Id", "Instructors", "Avail.", "Enrolled", "Total", "WL", "Meetings"})
	for _, s := range sections {
		t.AppendRow(table.Row{
			s.SubjectCourseId,
			s.SectionCode,
			s.SectionId,
			strings.Join(s.Instructors, "\n"),
			s.AvailableSeats,
			s.EnrolledCount,
			s.Capacity,
			s.WaitlistCount,
			meetingLines(s.Meetings),
		})
	}
	t.Render()
}

func optional(n *int64) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprint(*n)
}

func RenderSchedule(sections []webreg.ScheduledSection) {
	t := NewTable()
	t.AppendHeader(table.Row{"Course", "Title", "Code", "Id", "Status", "Units", "Grade", "Instructors", "Enrolled", "Total", "Meetings"})
	var units float64
	for _, s := range sections {
		units += s.Units
		t.AppendRow(table.Row{
			fmt.Sprintf("%s %s", s.SubjectCode, s.CourseCode),
			s.CourseTitle,
			s.SectionCode,
			s.SectionId,
			s.Status.String(),
			s.Units,
			s.GradeOption,
			strings.Join(s.Instructors, "\n"),
			optional(s.EnrolledCount),
			optional(s.Capacity),
			meetingLines(s.Meetings),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "Total", units})
	t.Render()
}

// ParseDays parses day lists like "MWF" or "TuTh".
func ParseDays(s string) ([]webreg.DayOfWeek, error) {
	tokens := []struct {
		text string
		day  webreg.DayOfWeek
	}{
		{"Tu", webreg.Tuesday},
		{"Th", webreg.Thursday},
		{"Sa", webreg.Saturday},
		{"Su", webreg.Sunday},
		{"M", webreg.Monday},
		{"W", webreg.Wednesday},
		{"F", webreg.Friday},
	}

	var days []webreg.DayOfWeek
	rest := s
outer:
	for rest != "" {
		for _, tok := range tokens {
			if strings.HasPrefix(rest, tok.text) {
				days = append(days, tok.day)
				rest = rest[len(tok.text):]
				continue outer
			}
		}
		return nil, fmt.Errorf("unknown day at %q in %q", rest, s)
	}
	return days, nil
}

// ParseClock parses "HH:MM" (24 hour).
func ParseClock(s string) (hour, minute int, err error) {
	_, err = fmt.Sscanf(s, "%d:%d", &hour, &minute)
	if err != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return hour, minute, nil
}
