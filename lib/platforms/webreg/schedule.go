package webreg

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"webweg/internal/components/assert"
	"webweg/lib/telemetry"
)

func derefOr(n *int64, fallback int64) int64 {
	if n == nil {
		return fallback
	}
	return *n
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

func scheduleRow(i int, raw RawScheduledMeeting) (groupRow, error) {
	day, err := parseMeetingDay(raw.DayCode, raw.SpecialMeeting, raw.StartDate)
	if err != nil {
		return groupRow{}, fmt.Errorf(
			"%s %s section %s: %w",
			strings.TrimSpace(raw.SubjectCode), strings.TrimSpace(raw.CourseCode),
			strings.TrimSpace(raw.SectionCode), err,
		)
	}
	return groupRow{
		code:    strings.TrimSpace(raw.SectionCode),
		special: raw.SpecialMeeting,
		meeting: Meeting{
			Type:        meetingTypeOf(raw.MeetingType, raw.SpecialMeeting),
			Days:        day,
			StartHour:   raw.StartHour,
			StartMinute: raw.StartMinute,
			EndHour:     raw.EndHour,
			EndMinute:   raw.EndMinute,
			Building:    strings.TrimSpace(raw.BuildingCode),
			Room:        strings.TrimSpace(raw.RoomCode),
		},
		instructors:    ParseInstructors(raw.PersonFullName),
		rawInstructors: raw.PersonFullName,
		tiebreak: fmt.Sprintf(
			"%d|%g|%s|%s|%d|%d|%d|%s|%s",
			raw.SectionId, raw.Units, raw.EnrollStatus, raw.GradeOption,
			derefOr(raw.SectionCapacity, -1), derefOr(raw.EnrolledCount, -1),
			derefOr(raw.CountOnWaitlist, -1), raw.WaitlistPosition, raw.CourseTitle,
		),
		src: i,
	}, nil
}

func parseEnrollStatus(status string) EnrollmentState {
	switch strings.TrimSpace(status) {
	case "EN":
		return StatusEnrolled
	case "WT":
		return StatusWaitlisted
	case "PL":
		return StatusPlanned
	}
	return StatusUnknown
}

func firstPresent(rows []RawScheduledMeeting, group []groupRow, field func(RawScheduledMeeting) *int64) *int64 {
	for _, row := range group {
		if v := field(rows[row.src]); v != nil {
			n := clampCount(*v)
			return &n
		}
	}
	return nil
}

func scheduledSection(rows []RawScheduledMeeting, fs familySection, allInstructors []string) ScheduledSection {
	assert.True(len(fs.meetings) > 0, "scheduled section %s emitted with no meetings", fs.counts.code)

	head := rows[fs.counts.src]

	capacity := firstPresent(rows, fs.rows, func(r RawScheduledMeeting) *int64 { return r.SectionCapacity })
	enrolled := firstPresent(rows, fs.rows, func(r RawScheduledMeeting) *int64 { return r.EnrolledCount })
	waitlist := firstPresent(rows, fs.rows, func(r RawScheduledMeeting) *int64 { return r.CountOnWaitlist })

	var available int64
	if capacity != nil && enrolled != nil {
		available = clampSeats(*capacity, *enrolled)
	}

	status := EnrollmentStatus{State: parseEnrollStatus(head.EnrollStatus)}
	if status.State == StatusWaitlisted {
		for _, row := range fs.rows {
			pos := strings.TrimSpace(rows[row.src].WaitlistPosition)
			if !isAllDigits(pos) {
				continue
			}
			n, err := strconv.ParseInt(pos, 10, 64)
			if err != nil {
				continue
			}
			status.WaitlistPosition = n
			break
		}
	}

	return ScheduledSection{
		SectionId:      strconv.FormatInt(head.SectionId, 10),
		SubjectCode:    strings.TrimSpace(head.SubjectCode),
		CourseCode:     strings.TrimSpace(head.CourseCode),
		CourseTitle:    strings.TrimSpace(head.CourseTitle),
		SectionCode:    fs.counts.code,
		Capacity:       capacity,
		EnrolledCount:  enrolled,
		WaitlistCount:  waitlist,
		AvailableSeats: available,
		GradeOption:    strings.TrimSpace(head.GradeOption),
		Instructors:    allInstructors,
		Units:          head.Units,
		Status:         status,
		Meetings:       fs.meetings,
	}
}

// GroupSchedule reconstructs the sections of a personal schedule. Rows are
// grouped per course first and then into families the same way as
// GroupCourseSections. The code, status, units and grading option of a
// section come from its first non-X00 row, or from the X00 row when the
// section has no other code.
//
// Numeric sections are not merged, a numeric section delivered as several
// rows (ex. 001 on Monday and 001 on Wednesday) yields one ScheduledSection
// per row, all with the same code and id.
func GroupSchedule(rows []RawScheduledMeeting, tel telemetry.API) ([]ScheduledSection, error) {
	if tel == nil {
		tel = telemetry.SlogAPI{}
	}

	byCourse := map[string][]groupRow{}
	var courses []string
	for i, raw := range rows {
		if raw.SectionCapacity != nil && raw.EnrolledCount != nil &&
			*raw.SectionCapacity == 0 && *raw.EnrolledCount == 0 {
			continue
		}
		row, err := scheduleRow(i, raw)
		if err != nil {
			return nil, err
		}
		if row.code == "" {
			tel.ReportWarning(report_grouping_empty_code, fmt.Errorf("schedule row %d", i))
			continue
		}

		course := FormatSubjectCourseId(raw.SubjectCode, raw.CourseCode)
		if _, ok := byCourse[course]; !ok {
			courses = append(courses, course)
		}
		byCourse[course] = append(byCourse[course], row)
	}
	slices.Sort(courses)

	var schedule []ScheduledSection
	for _, course := range courses {
		group := byCourse[course]
		slices.SortFunc(group, compareRows)

		numeric, families := partition(group)
		for _, row := range numeric {
			meeting := row.meeting
			meeting.Instructors = nil
			schedule = append(schedule, scheduledSection(rows, familySection{
				counts:   row,
				meetings: []Meeting{meeting},
				rows:     []groupRow{row},
			}, mergeInstructors(row.instructors)))
		}

		for _, f := range families {
			for _, fs := range emitFamily(f, tel) {
				var lists [][]string
				for _, row := range fs.rows {
					lists = append(lists, row.instructors)
				}
				schedule = append(schedule, scheduledSection(rows, fs, mergeInstructors(lists...)))
			}
		}
	}

	slices.SortFunc(schedule, func(a, b ScheduledSection) int {
		return cmp.Or(
			cmp.Compare(a.SubjectCode, b.SubjectCode),
			cmp.Compare(a.CourseCode, b.CourseCode),
			cmp.Compare(a.SectionCode, b.SectionCode),
			cmp.Compare(a.SectionId, b.SectionId),
		)
	})
	return schedule, nil
}
