package webreg

import (
	"testing"
	"webweg/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func ptr(n int64) *int64 {
	return &n
}

type scheduledOpt func(*RawScheduledMeeting)

func status(enroll, position string) scheduledOpt {
	return func(r *RawScheduledMeeting) {
		r.EnrollStatus = enroll
		r.WaitlistPosition = position
	}
}

func scheduledCounts(capacity, enrolled, waitlist *int64) scheduledOpt {
	return func(r *RawScheduledMeeting) {
		r.SectionCapacity = capacity
		r.EnrolledCount = enrolled
		r.CountOnWaitlist = waitlist
	}
}

func exam(tag, date string) scheduledOpt {
	return func(r *RawScheduledMeeting) {
		r.SpecialMeeting = tag
		r.StartDate = date
	}
}

func scheduledRow(subject, course string, id int64, code, instrType, days string, opts ...scheduledOpt) RawScheduledMeeting {
	row := RawScheduledMeeting{
		SectionId:      id,
		Units:          4,
		StartHour:      10,
		StartMinute:    0,
		EndHour:        10,
		EndMinute:      50,
		SubjectCode:    subject,
		CourseCode:     course,
		CourseTitle:    "Some Course",
		GradeOption:    "L ",
		DayCode:        days,
		PersonFullName: "Smith, J  ;A1",
		SpecialMeeting: "  ",
		MeetingType:    instrType,
		BuildingCode:   "CENTR",
		RoomCode:       "115",
		EnrollStatus:   "EN",
		SectionCode:    code,
	}
	for _, opt := range opts {
		opt(&row)
	}
	return row
}

func TestGroupSchedule(t *testing.T) {
	rows := []RawScheduledMeeting{
		scheduledRow("MATH", " 20C", 80100, "B00", "LE", "24",
			status("WT", "3"),
			func(r *RawScheduledMeeting) { r.PersonFullName = "Lee, K  ;C3" },
		),
		scheduledRow("MATH", " 20C", 80100, "B02", "DI", "5",
			status("WT", "3"),
			func(r *RawScheduledMeeting) {
				r.GradeOption = "P"
				r.PersonFullName = "Nguyen, T  ;D4"
			},
		),
		scheduledRow("CSE", "100", 79912, "A00", "LE", "135"),
		scheduledRow("CSE", "100", 79912, "A01", "DI", "2",
			scheduledCounts(ptr(30), ptr(20), ptr(0)),
			func(r *RawScheduledMeeting) { r.PersonFullName = "Doe, R  ;B2" },
		),
		scheduledRow("CSE", "100", 79912, "A00", "LE", "", exam("FI", "2024-12-12")),
		scheduledRow("COGS", "  9", 81000, "001", "LE", "13",
			status("PL", "    "),
			scheduledCounts(ptr(200), ptr(210), ptr(12)),
		),
		scheduledRow("COGS", "  1", 81001, "001", "LE", "13",
			status("EN", ""),
			scheduledCounts(ptr(0), ptr(0), nil),
		),
	}

	schedule, err := GroupSchedule(rows, telemetry.NewRecorderAPI())
	require.NoError(t, err)
	require.Len(t, schedule, 3)

	cogs, cse, math := schedule[0], schedule[1], schedule[2]

	require.Equal(t, "81000", cogs.SectionId)
	require.Equal(t, "9", cogs.CourseCode)
	require.Equal(t, EnrollmentStatus{State: StatusPlanned}, cogs.Status)
	require.Equal(t, int64(0), cogs.AvailableSeats)
	require.Equal(t, ptr(12), cogs.WaitlistCount)
	require.Len(t, cogs.Meetings, 1)

	require.Equal(t, "79912", cse.SectionId)
	require.Equal(t, "A01", cse.SectionCode)
	require.Equal(t, EnrollmentStatus{State: StatusEnrolled}, cse.Status)
	require.Equal(t, ptr(30), cse.Capacity)
	require.Equal(t, ptr(20), cse.EnrolledCount)
	require.Equal(t, int64(10), cse.AvailableSeats)
	require.Equal(t, "L", cse.GradeOption)
	require.Equal(t, 4.0, cse.Units)
	require.Equal(t, []string{"Doe, R", "Smith, J"}, cse.Instructors)

	var kinds []MeetingKind
	for _, m := range cse.Meetings {
		kinds = append(kinds, m.Type.Kind)
	}
	diff := cmp.Diff([]MeetingKind{MeetingLecture, MeetingDiscussion, MeetingFinal}, kinds)
	if diff != "" {
		t.Fatal(diff)
	}
	require.Equal(t, []string{"Doe, R"}, cse.Meetings[1].Instructors)

	require.Equal(t, "B02", math.SectionCode)
	require.Equal(t, "20C", math.CourseCode)
	require.Equal(t, EnrollmentStatus{State: StatusWaitlisted, WaitlistPosition: 3}, math.Status)
	require.Equal(t, "P", math.GradeOption)
	require.Nil(t, math.Capacity)
	require.Nil(t, math.EnrolledCount)
	require.Nil(t, math.WaitlistCount)
	require.Equal(t, int64(0), math.AvailableSeats)
	require.Equal(t, []string{"Lee, K", "Nguyen, T"}, math.Instructors)
}

func TestGroupScheduleWaitlistPosition(t *testing.T) {
	testCases := []struct {
		status   string
		position string
		expected EnrollmentStatus
	}{
		{status: "WT", position: "3", expected: EnrollmentStatus{State: StatusWaitlisted, WaitlistPosition: 3}},
		{status: "WT", position: " 12 ", expected: EnrollmentStatus{State: StatusWaitlisted, WaitlistPosition: 12}},
		{status: "WT", position: "", expected: EnrollmentStatus{State: StatusWaitlisted}},
		{status: "EN", position: "3", expected: EnrollmentStatus{State: StatusEnrolled}},
		{status: "PL", position: "N/A", expected: EnrollmentStatus{State: StatusPlanned}},
		{status: "??", position: "", expected: EnrollmentStatus{State: StatusUnknown}},
	}

	for _, test := range testCases {
		rows := []RawScheduledMeeting{
			scheduledRow("CSE", "8B", 1, "001", "LE", "1", status(test.status, test.position)),
		}
		schedule, err := GroupSchedule(rows, nil)
		require.NoError(t, err)
		require.Len(t, schedule, 1)
		require.Equal(t, test.expected, schedule[0].Status, test.status+" "+test.position)
	}
}

func TestGroupScheduleIgnoresRowOrder(t *testing.T) {
	rows := []RawScheduledMeeting{
		scheduledRow("CSE", "100", 79912, "A00", "LE", "135"),
		scheduledRow("CSE", "100", 79912, "A01", "DI", "2", scheduledCounts(ptr(30), ptr(20), ptr(0))),
		scheduledRow("CSE", "100", 79912, "A00", "LE", "", exam("FI", "2024-12-12")),
		scheduledRow("CSE", "110", 79950, "A00", "LE", "24", exam("  ", "")),
	}

	expected, err := GroupSchedule(rows, nil)
	require.NoError(t, err)
	require.Len(t, expected, 2)

	reversed := []RawScheduledMeeting{rows[3], rows[2], rows[1], rows[0]}
	actual, err := GroupSchedule(reversed, nil)
	require.NoError(t, err)

	diff := cmp.Diff(expected, actual)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestGroupScheduleNegativeCounts(t *testing.T) {
	rows := []RawScheduledMeeting{
		scheduledRow("CSE", "8A", 80001, "001", "LE", "1", scheduledCounts(ptr(-5), ptr(3), ptr(-1))),
		scheduledRow("CSE", "8B", 80002, "001", "LE", "1", scheduledCounts(ptr(10), ptr(3), nil)),
	}

	schedule, err := GroupSchedule(rows, nil)
	require.NoError(t, err)
	require.Len(t, schedule, 2)

	require.Equal(t, ptr(0), schedule[0].Capacity)
	require.Equal(t, ptr(3), schedule[0].EnrolledCount)
	require.Equal(t, ptr(0), schedule[0].WaitlistCount)
	require.Equal(t, int64(0), schedule[0].AvailableSeats)

	require.Equal(t, ptr(10), schedule[1].Capacity)
	require.Nil(t, schedule[1].WaitlistCount)
	require.Equal(t, int64(7), schedule[1].AvailableSeats)
}

func TestGroupScheduleNumericRowsStayAtomic(t *testing.T) {
	rows := []RawScheduledMeeting{
		scheduledRow("CSE", "8B", 80001, "001", "LE", "1"),
		scheduledRow("CSE", "8B", 80001, "001", "LE", "3"),
	}

	schedule, err := GroupSchedule(rows, nil)
	require.NoError(t, err)
	require.Len(t, schedule, 2)
	for _, s := range schedule {
		require.Equal(t, "001", s.SectionCode)
		require.Equal(t, "80001", s.SectionId)
		require.Len(t, s.Meetings, 1)
	}
}

func TestScheduledSectionString(t *testing.T) {
	section := ScheduledSection{
		SectionId:      "79912",
		SubjectCode:    "CSE",
		CourseCode:     "100",
		CourseTitle:    "Advanced Data Structures",
		SectionCode:    "A01",
		EnrolledCount:  ptr(20),
		AvailableSeats: 0,
		GradeOption:    "L",
		Instructors:    []string{"Smith, J"},
		Units:          4,
		Status:         EnrollmentStatus{State: StatusWaitlisted, WaitlistPosition: 2},
		WaitlistCount:  ptr(5),
	}

	require.Equal(t,
		"[A01 / 79912] Advanced Data Structures (CSE 100) with Smith, J - Waitlisted 2/5 (4 Units, L Grading, Avail.: 0, Enroll.: 20, Total: ?)\n",
		section.String(),
	)
}
