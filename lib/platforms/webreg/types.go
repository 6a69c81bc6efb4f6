package webreg

import (
	"fmt"
	"strconv"
	"strings"
)

// Meeting is a single lecture, discussion, final, etc. of a section.
type Meeting struct {
	Type MeetingType
	Days MeetingDay
	// ex. a meeting from 14:15 to 15:05 has StartHour 14, StartMinute 15
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
	// ex. "CENTR" for CENTR 115
	Building string
	Room     string
	// only the instructors specific to this meeting, the ones shared by the
	// whole section are on Section.Instructors
	Instructors []string
}

func (m Meeting) timeRange(sep string) string {
	return fmt.Sprintf(
		"%d:%02d%s%d:%02d",
		m.StartHour, m.StartMinute, sep, m.EndHour, m.EndMinute,
	)
}

// FlatString renders the meeting on one line, ex.
// "MWF LE 13:00-13:50 CENTR 115..Smith, J & Doe, R".
func (m Meeting) FlatString() string {
	return fmt.Sprintf(
		"%s %s %s %s %s..%s",
		m.Days, m.Type, m.timeRange("-"),
		m.Building, m.Room,
		strings.Join(m.Instructors, " & "),
	)
}

func (m Meeting) String() string {
	return fmt.Sprintf(
		"\t[%s] %s at %s in %s %s [%s]",
		m.Type, m.Days, m.timeRange(" - "),
		m.Building, m.Room,
		strings.Join(m.Instructors, " & "),
	)
}

// Section is an enrollable unit of a course, for a letter-coded course it
// is the lecture together with one discussion (plus any exams).
type Section struct {
	// ex. "CSE 100"
	SubjectCourseId string
	// ex. "079912"
	SectionId string
	// ex. "B01"
	SectionCode    string
	Meetings       []Meeting
	Instructors    []string
	Capacity       int64
	EnrolledCount  int64
	WaitlistCount  int64
	AvailableSeats int64
	NeedsWaitlist  bool
}

// HasOpenSeats reports whether a new student can enroll directly. The portal
// sometimes reports available seats while there is still a waitlist, in which
// case the seats are not really open.
func (s Section) HasOpenSeats() bool {
	return s.AvailableSeats > 0 && s.WaitlistCount == 0
}

func (s Section) String() string {
	status := "W"
	if s.HasOpenSeats() {
		status = "E"
	}

	var out strings.Builder
	fmt.Fprintf(
		&out,
		"[%s] [%s / %s] %s - Avail.: %d, Enroll.: %d, Total: %d (WL: %d) [%s]\n",
		s.SubjectCourseId, s.SectionCode, s.SectionId,
		strings.Join(s.Instructors, " & "),
		s.AvailableSeats, s.EnrolledCount, s.Capacity, s.WaitlistCount,
		status,
	)
	for _, m := range s.Meetings {
		out.WriteString(m.String())
		out.WriteString("\n")
	}
	return out.String()
}

type EnrollmentState int

const (
	StatusUnknown EnrollmentState = iota
	StatusEnrolled
	StatusWaitlisted
	StatusPlanned
)

type EnrollmentStatus struct {
	State EnrollmentState
	// only meaningful when State == StatusWaitlisted
	WaitlistPosition int64
}

func (s EnrollmentStatus) String() string {
	switch s.State {
	case StatusEnrolled:
		return "Enrolled"
	case StatusWaitlisted:
		return fmt.Sprintf("Waitlisted (#%d)", s.WaitlistPosition)
	case StatusPlanned:
		return "Planned"
	}
	return "Unknown"
}

// ScheduledSection is a section in one of the user's schedules, whether it
// is enrolled, waitlisted or only planned.
type ScheduledSection struct {
	SectionId   string
	SubjectCode string
	CourseCode  string
	CourseTitle string
	SectionCode string
	// nil when the portal did not say
	Capacity       *int64
	EnrolledCount  *int64
	WaitlistCount  *int64
	AvailableSeats int64
	GradeOption    string
	Instructors    []string
	Units          float64
	Status         EnrollmentStatus
	Meetings       []Meeting
}

func optionalCount(n *int64) string {
	if n == nil {
		return "?"
	}
	return strconv.FormatInt(*n, 10)
}

func (s ScheduledSection) String() string {
	status := s.Status.String()
	if s.Status.State == StatusWaitlisted {
		status = fmt.Sprintf("Waitlisted %d/%s", s.Status.WaitlistPosition, optionalCount(s.WaitlistCount))
	}

	var out strings.Builder
	fmt.Fprintf(
		&out,
		"[%s / %s] %s (%s %s) with %s - %s (%g Units, %s Grading, Avail.: %d, Enroll.: %s, Total: %s)\n",
		s.SectionCode, s.SectionId,
		s.CourseTitle, s.SubjectCode, s.CourseCode,
		strings.Join(s.Instructors, " & "),
		status, s.Units, s.GradeOption,
		s.AvailableSeats, optionalCount(s.EnrolledCount), optionalCount(s.Capacity),
	)
	for _, m := range s.Meetings {
		out.WriteString(m.String())
		out.WriteString("\n")
	}
	return out.String()
}

type Term struct {
	SeqId int64
	// ex. "FA24"
	TermCode    string
	Description string
}

// Event is a personal calendar entry shown alongside the schedule.
type Event struct {
	Location    string
	Description string
	Days        []DayOfWeek
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
	// identifies the event to RemoveEvent and AddOrEditEvent
	Timestamp string
}

type CoursePrerequisite struct {
	SubjectCode string
	CourseCode  string
	CourseTitle string
}

type PrerequisiteInfo struct {
	// each inner list is a set of alternatives, one course from every inner
	// list must be taken
	CourseReqs [][]CoursePrerequisite
	ExamReqs   []string
}

type GradeOption string

const (
	GradeLetter   GradeOption = "L"
	GradePassFail GradeOption = "P"
	GradeSatUnsat GradeOption = "S"
)

func ParseGradeOption(s string) (GradeOption, error) {
	switch g := GradeOption(strings.ToUpper(strings.TrimSpace(s))); g {
	case GradeLetter, GradePassFail, GradeSatUnsat:
		return g, nil
	}
	return "", &InputError{Field: "grade", Message: fmt.Sprintf("unknown grading option %q", s)}
}
