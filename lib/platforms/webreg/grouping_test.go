package webreg

import (
	"errors"
	"slices"
	"testing"
	"webweg/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type rowOpt func(*RawWebRegMeeting)

func counts(capacity, enrolled, waitlist int64) rowOpt {
	return func(r *RawWebRegMeeting) {
		r.SectionCapacity = capacity
		r.EnrolledCount = enrolled
		r.CountOnWaitlist = waitlist
	}
}

func special(tag, date string) rowOpt {
	return func(r *RawWebRegMeeting) {
		r.SpecialMeeting = tag
		r.StartDate = date
	}
}

func taughtBy(raw string) rowOpt {
	return func(r *RawWebRegMeeting) {
		r.PersonFullName = raw
	}
}

func display(status string) rowOpt {
	return func(r *RawWebRegMeeting) {
		r.DisplayType = status
	}
}

func place(building, room string) rowOpt {
	return func(r *RawWebRegMeeting) {
		r.BuildingCode = building
		r.RoomCode = room
	}
}

func meetingRow(id, code, instrType, days string, start, end [2]int, opts ...rowOpt) RawWebRegMeeting {
	row := RawWebRegMeeting{
		SectionId:       id,
		SectionCode:     code,
		MeetingType:     instrType,
		DayCode:         days,
		StartHour:       start[0],
		StartMinute:     start[1],
		EndHour:         end[0],
		EndMinute:       end[1],
		SpecialMeeting:  "  ",
		DisplayType:     "AC",
		PrintFlag:       "Y",
		SectionCapacity: 100,
		EnrolledCount:   50,
		PersonFullName:  "Smith, J  ;A1",
		BuildingCode:    "CENTR",
		RoomCode:        "115",
	}
	for _, opt := range opts {
		opt(&row)
	}
	return row
}

// a lecture with two discussions and a final
func familyRows() []RawWebRegMeeting {
	return []RawWebRegMeeting{
		meetingRow("079911", "A00", "LE", "135", [2]int{10, 0}, [2]int{10, 50}, display("NC")),
		meetingRow(
			"079912", "A01", "DI", "2", [2]int{13, 0}, [2]int{13, 50},
			counts(30, 20, 0),
			taughtBy("Smith, J  ;A1:Doe, R  ;B2"),
			place("WLH", "2001"),
		),
		meetingRow(
			"079913", "A02", "DI", "4", [2]int{13, 0}, [2]int{13, 50},
			counts(30, 35, 3),
			place("WLH", "2001"),
		),
		meetingRow(
			"079911", "A00", "LE", "", [2]int{8, 0}, [2]int{10, 59},
			display("NC"),
			special("FI", "2024-12-12"),
		),
	}
}

func TestGroupCourseSectionsFamily(t *testing.T) {
	sections, err := GroupCourseSections("cse 100", familyRows(), telemetry.NewRecorderAPI())
	require.NoError(t, err)

	lecture := Meeting{
		Type:        MeetingType{Kind: MeetingLecture, Tag: "LE"},
		Days:        MeetingDay{Kind: MeetingDayRepeated, Days: []DayOfWeek{Monday, Wednesday, Friday}},
		StartHour:   10,
		StartMinute: 0,
		EndHour:     10,
		EndMinute:   50,
		Building:    "CENTR",
		Room:        "115",
	}
	final := Meeting{
		Type:        MeetingType{Kind: MeetingFinal, Tag: "FI"},
		Days:        MeetingDay{Kind: MeetingDayOneTime, Date: "2024-12-12"},
		StartHour:   8,
		StartMinute: 0,
		EndHour:     10,
		EndMinute:   59,
		Building:    "CENTR",
		Room:        "115",
	}
	discussion := func(day DayOfWeek, instructors []string) Meeting {
		return Meeting{
			Type:        MeetingType{Kind: MeetingDiscussion, Tag: "DI"},
			Days:        MeetingDay{Kind: MeetingDayRepeated, Days: []DayOfWeek{day}},
			StartHour:   13,
			StartMinute: 0,
			EndHour:     13,
			EndMinute:   50,
			Building:    "WLH",
			Room:        "2001",
			Instructors: instructors,
		}
	}

	expected := []Section{
		{
			SubjectCourseId: "CSE 100",
			SectionId:       "079912",
			SectionCode:     "A01",
			Meetings:        []Meeting{lecture, discussion(Tuesday, []string{"Doe, R"}), final},
			Instructors:     []string{"Smith, J"},
			Capacity:        30,
			EnrolledCount:   20,
			WaitlistCount:   0,
			AvailableSeats:  10,
		},
		{
			SubjectCourseId: "CSE 100",
			SectionId:       "079913",
			SectionCode:     "A02",
			Meetings:        []Meeting{lecture, discussion(Thursday, nil), final},
			Instructors:     []string{"Smith, J"},
			Capacity:        30,
			EnrolledCount:   35,
			WaitlistCount:   3,
			AvailableSeats:  0,
		},
	}

	diff := cmp.Diff(expected, sections)
	if diff != "" {
		t.Fatal(diff)
	}

	require.True(t, sections[0].HasOpenSeats())
	require.False(t, sections[1].HasOpenSeats())
}

func TestGroupCourseSectionsOrderIndependent(t *testing.T) {
	rows := append(familyRows(),
		meetingRow("080001", "001", "SE", "3", [2]int{16, 0}, [2]int{16, 50}, counts(20, 5, 0)),
		meetingRow("080002", "002", "SE", "5", [2]int{16, 0}, [2]int{16, 50}, counts(20, 25, 1)),
		meetingRow("080010", "B00", "LE", "24", [2]int{9, 30}, [2]int{10, 50}, taughtBy("Lee, K  ;C3")),
		meetingRow("080011", "B01", "LA", "1", [2]int{14, 0}, [2]int{16, 50}, counts(24, 24, 0), taughtBy("Lee, K  ;C3")),
	)

	expected, err := GroupCourseSections("CSE 100", rows, telemetry.NewRecorderAPI())
	require.NoError(t, err)
	require.Len(t, expected, 5)

	permutations := [][]RawWebRegMeeting{slices.Clone(rows)}
	slices.Reverse(permutations[0])
	for i := 1; i < len(rows); i++ {
		rotated := append(slices.Clone(rows[i:]), rows[:i]...)
		permutations = append(permutations, rotated)
	}

	for _, permutation := range permutations {
		sections, err := GroupCourseSections("CSE 100", permutation, telemetry.NewRecorderAPI())
		require.NoError(t, err)
		diff := cmp.Diff(expected, sections)
		if diff != "" {
			t.Fatal(diff)
		}
	}

	var codes []string
	for _, s := range expected {
		codes = append(codes, s.SectionCode)
	}
	require.Equal(t, []string{"001", "002", "A01", "A02", "B01"}, codes)
}

func TestGroupCourseSectionsNumeric(t *testing.T) {
	rows := []RawWebRegMeeting{
		meetingRow(
			"080001", "001", "LE", "531", [2]int{11, 0}, [2]int{11, 50},
			counts(40, 10, 0),
			taughtBy("Smith, J  ;A1:Doe, R  ;B2:Smith, J  ;A1"),
		),
	}

	sections, err := GroupCourseSections("CSE 8B", rows, nil)
	require.NoError(t, err)
	require.Len(t, sections, 1)

	s := sections[0]
	require.Equal(t, "CSE 8B", s.SubjectCourseId)
	require.Equal(t, "001", s.SectionCode)
	require.Len(t, s.Meetings, 1)
	require.Equal(t, []DayOfWeek{Monday, Wednesday, Friday}, s.Meetings[0].Days.Days)
	require.Nil(t, s.Meetings[0].Instructors)
	require.Equal(t, []string{"Doe, R", "Smith, J"}, s.Instructors)
	require.Equal(t, int64(30), s.AvailableSeats)
}

func TestGroupCourseSectionsFiltering(t *testing.T) {
	testCases := []struct {
		name     string
		rows     []RawWebRegMeeting
		expected []string
	}{
		{
			name: "all rows empty",
			rows: []RawWebRegMeeting{
				meetingRow("1", "A00", "LE", "1", [2]int{9, 0}, [2]int{9, 50}, counts(0, 0, 0)),
				meetingRow("2", "A01", "DI", "2", [2]int{9, 0}, [2]int{9, 50}, counts(0, 0, 0)),
				meetingRow("3", "001", "SE", "3", [2]int{9, 0}, [2]int{9, 50}, counts(0, 0, 0)),
			},
			expected: nil,
		},
		{
			name: "not enrollable children are dropped",
			rows: []RawWebRegMeeting{
				meetingRow("1", "A00", "LE", "1", [2]int{9, 0}, [2]int{9, 50}, display("NC")),
				meetingRow("2", "A01", "DI", "2", [2]int{9, 0}, [2]int{9, 50}),
				meetingRow("3", "A02", "DI", "2", [2]int{10, 0}, [2]int{10, 50}, display("CA")),
			},
			expected: []string{"A01"},
		},
		{
			name: "numeric codes are kept whatever their status",
			rows: []RawWebRegMeeting{
				meetingRow("3", "001", "SE", "3", [2]int{9, 0}, [2]int{9, 50}, display("NC")),
			},
			expected: []string{"001"},
		},
		{
			name: "lecture only",
			rows: []RawWebRegMeeting{
				meetingRow("1", "A00", "LE", "1", [2]int{9, 0}, [2]int{9, 50}),
				meetingRow("1", "A00", "LE", "", [2]int{9, 0}, [2]int{9, 50}, special("MI", "2024-10-30")),
			},
			expected: []string{"A00"},
		},
		{
			name: "exam only",
			rows: []RawWebRegMeeting{
				meetingRow("1", "C00", "LE", "", [2]int{19, 0}, [2]int{21, 50}, special("MI", "2024-10-30")),
			},
			expected: []string{"C00"},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			sections, err := GroupCourseSections("CSE 100", test.rows, telemetry.NewRecorderAPI())
			require.NoError(t, err)

			var codes []string
			for _, s := range sections {
				codes = append(codes, s.SectionCode)
			}
			require.Equal(t, test.expected, codes)
		})
	}
}

func TestGroupCourseSectionsLectureOnly(t *testing.T) {
	rows := []RawWebRegMeeting{
		meetingRow("1", "A00", "LE", "1", [2]int{9, 0}, [2]int{9, 50}, taughtBy("Smith, J  ;A1:Doe, R  ;B2")),
		meetingRow("1", "A00", "LE", "", [2]int{9, 0}, [2]int{9, 50}, special("FI", "2024-12-10"), taughtBy("Doe, R  ;B2")),
	}

	sections, err := GroupCourseSections("CSE 100", rows, nil)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	require.Equal(t, []string{"Doe, R", "Smith, J"}, sections[0].Instructors)
	require.Len(t, sections[0].Meetings, 2)
	require.Equal(t, MeetingLecture, sections[0].Meetings[0].Type.Kind)
	require.Equal(t, MeetingFinal, sections[0].Meetings[1].Type.Kind)
}

func TestGroupCourseSectionsInconsistent(t *testing.T) {
	rec := telemetry.NewRecorderAPI()
	rows := []RawWebRegMeeting{
		meetingRow("2", "B01", "DI", "2", [2]int{9, 0}, [2]int{9, 50}),
		meetingRow("3", "B02", "DI", "4", [2]int{9, 0}, [2]int{9, 50}),
		meetingRow("4", "A00", "LE", "1", [2]int{9, 0}, [2]int{9, 50}),
		meetingRow("4", "A00", "SE", "3", [2]int{9, 0}, [2]int{9, 50}),
		meetingRow("5", "A01", "DI", "2", [2]int{11, 0}, [2]int{11, 50}),
		meetingRow("6", "", "DI", "2", [2]int{11, 0}, [2]int{11, 50}),
	}

	sections, err := GroupCourseSections("CSE 100", rows, rec)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	require.Equal(t, "A01", sections[0].SectionCode)

	require.True(t, rec.Has(telemetry.KindWarning, report_grouping_missing_main))
	require.True(t, rec.Has(telemetry.KindWarning, report_grouping_mixed_main_types))
	require.True(t, rec.Has(telemetry.KindWarning, report_grouping_empty_code))
	require.Empty(t, rec.Reports(telemetry.KindBroken))

	for _, m := range sections[0].Meetings[:2] {
		require.Equal(t, MeetingLecture, m.Type.Kind)
	}
}

func TestGroupCourseSectionsNegativeCounts(t *testing.T) {
	rows := []RawWebRegMeeting{
		meetingRow("080001", "001", "LE", "1", [2]int{9, 0}, [2]int{9, 50}, counts(-5, 3, -1)),
		meetingRow("080002", "002", "LE", "3", [2]int{9, 0}, [2]int{9, 50}, counts(10, 3, -1)),
	}

	type seats struct {
		Code      string
		Capacity  int64
		Enrolled  int64
		Waitlist  int64
		Available int64
		Open      bool
	}
	expected := []seats{
		{Code: "001", Capacity: 0, Enrolled: 3, Waitlist: 0, Available: 0, Open: false},
		{Code: "002", Capacity: 10, Enrolled: 3, Waitlist: 0, Available: 7, Open: true},
	}
	toSeats := func(sections []Section) []seats {
		var out []seats
		for _, s := range sections {
			out = append(out, seats{
				Code:      s.SectionCode,
				Capacity:  s.Capacity,
				Enrolled:  s.EnrolledCount,
				Waitlist:  s.WaitlistCount,
				Available: s.AvailableSeats,
				Open:      s.HasOpenSeats(),
			})
		}
		return out
	}

	sections, err := GroupCourseSections("CSE 8A", rows, nil)
	require.NoError(t, err)
	diff := cmp.Diff(expected, toSeats(sections))
	if diff != "" {
		t.Fatal(diff)
	}

	diff = cmp.Diff(expected, toSeats(ProjectEnrollmentCounts("CSE 8A", rows)))
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestGroupCourseSectionsMalformedDays(t *testing.T) {
	rows := append(familyRows(), meetingRow("9", "A03", "DI", "17", [2]int{9, 0}, [2]int{9, 50}))

	sections, err := GroupCourseSections("CSE 100", rows, nil)
	require.Nil(t, sections)
	require.True(t, errors.Is(err, ErrMalformedDayCode))
}

func TestProjectEnrollmentCounts(t *testing.T) {
	rows := append(familyRows(),
		meetingRow("079912", "A01", "DI", "2", [2]int{15, 0}, [2]int{15, 50}, counts(30, 20, 0)),
		meetingRow("079914", "A03", "DI", "2", [2]int{15, 0}, [2]int{15, 50}, counts(0, 0, 0)),
	)

	sections := ProjectEnrollmentCounts("cse 100", rows)
	expected := []Section{
		{
			SubjectCourseId: "CSE 100",
			SectionId:       "079912",
			SectionCode:     "A01",
			Instructors:     []string{"Doe, R", "Smith, J"},
			Capacity:        30,
			EnrolledCount:   20,
			AvailableSeats:  10,
		},
		{
			SubjectCourseId: "CSE 100",
			SectionId:       "079913",
			SectionCode:     "A02",
			Instructors:     []string{"Smith, J"},
			Capacity:        30,
			EnrolledCount:   35,
			WaitlistCount:   3,
			AvailableSeats:  0,
		},
	}

	diff := cmp.Diff(expected, sections)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestSectionString(t *testing.T) {
	sections, err := GroupCourseSections("CSE 100", familyRows(), nil)
	require.NoError(t, err)

	require.Equal(t,
		"[CSE 100] [A01 / 079912] Smith, J - Avail.: 10, Enroll.: 20, Total: 30 (WL: 0) [E]\n"+
			"\t[LE] MWF at 10:00 - 10:50 in CENTR 115 []\n"+
			"\t[DI] Tu at 13:00 - 13:50 in WLH 2001 [Doe, R]\n"+
			"\t[FI] 2024-12-12 at 8:00 - 10:59 in CENTR 115 []\n",
		sections[0].String(),
	)
	require.Equal(t, "Tu DI 13:00-13:50 WLH 2001..Doe, R", sections[0].Meetings[1].FlatString())
}
