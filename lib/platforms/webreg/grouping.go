package webreg

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"webweg/internal/components/assert"
	"webweg/lib/telemetry"
)

const (
	report_grouping_missing_main     = "grouping.missing-main"
	report_grouping_mixed_main_types = "grouping.mixed-main-types"
	report_grouping_empty_code       = "grouping.empty-code"
)

// groupRow is a raw meeting of either feed, reduced to what the family
// partitioning needs. src points back into the raw slice for everything
// else (counts, status, ...).
type groupRow struct {
	code           string
	special        string
	meeting        Meeting
	instructors    []string
	rawInstructors string
	// breaks ties between rows whose meetings look identical so that sorting
	// is total
	tiebreak string
	src      int
}

func compareRows(a, b groupRow) int {
	return cmp.Or(
		cmp.Compare(a.code, b.code),
		cmp.Compare(a.meeting.Days.Kind, b.meeting.Days.Kind),
		cmp.Compare(a.meeting.Days.String(), b.meeting.Days.String()),
		cmp.Compare(a.meeting.StartHour, b.meeting.StartHour),
		cmp.Compare(a.meeting.StartMinute, b.meeting.StartMinute),
		cmp.Compare(a.meeting.EndHour, b.meeting.EndHour),
		cmp.Compare(a.meeting.EndMinute, b.meeting.EndMinute),
		cmp.Compare(a.meeting.Type.Tag, b.meeting.Type.Tag),
		cmp.Compare(a.meeting.Building, b.meeting.Building),
		cmp.Compare(a.meeting.Room, b.meeting.Room),
		cmp.Compare(a.rawInstructors, b.rawInstructors),
		cmp.Compare(a.tiebreak, b.tiebreak),
	)
}

func isNumericCode(code string) bool {
	return code != "" && code[0] >= '0' && code[0] <= '9'
}

func isMainCode(code string) bool {
	return len(code) >= 2 && strings.HasSuffix(code, "00")
}

// family is every row of a letter-coded section group, ex. A00, A01, A02
// and the A00 final.
type family struct {
	letter string
	// X00 rows with no special tag, the lecture(s)
	mains []groupRow
	// X00 rows with a special tag, ex. finals and midterms
	aux []groupRow
	// everything else, keyed by code
	children   map[string][]groupRow
	childCodes []string
}

// partition splits sorted rows into single-row numeric sections and letter
// families, both in a deterministic order.
func partition(rows []groupRow) (numeric []groupRow, families []*family) {
	byLetter := map[string]*family{}
	for _, row := range rows {
		if isNumericCode(row.code) {
			numeric = append(numeric, row)
			continue
		}

		letter := row.code[:1]
		f, ok := byLetter[letter]
		if !ok {
			f = &family{letter: letter, children: map[string][]groupRow{}}
			byLetter[letter] = f
			families = append(families, f)
		}

		switch {
		case isMainCode(row.code) && isBlankSpecialTag(row.special):
			f.mains = append(f.mains, row)
		case isMainCode(row.code):
			f.aux = append(f.aux, row)
		default:
			if _, seen := f.children[row.code]; !seen {
				f.childCodes = append(f.childCodes, row.code)
			}
			f.children[row.code] = append(f.children[row.code], row)
		}
	}
	return numeric, families
}

// reconcileMainTypes makes every main meeting share the first main's type.
func reconcileMainTypes(f *family, tel telemetry.API) {
	if len(f.mains) == 0 {
		return
	}
	first := f.mains[0].meeting.Type
	for i := range f.mains[1:] {
		row := &f.mains[i+1]
		if row.meeting.Type == first {
			continue
		}
		tel.ReportWarning(
			report_grouping_mixed_main_types,
			fmt.Errorf("%s: %s disagrees with %s", row.code, row.meeting.Type, first),
		)
		row.meeting.Type = first
	}
}

func baseInstructors(f *family) []string {
	var lists [][]string
	for _, row := range f.mains {
		lists = append(lists, row.instructors)
	}
	for _, row := range f.aux {
		lists = append(lists, row.instructors)
	}
	return mergeInstructors(lists...)
}

func sharedMeetings(rows []groupRow) []Meeting {
	out := make([]Meeting, 0, len(rows))
	for _, row := range rows {
		m := row.meeting
		m.Instructors = nil
		out = append(out, m)
	}
	return out
}

func childMeetings(rows []groupRow, base []string) []Meeting {
	out := make([]Meeting, 0, len(rows))
	for _, row := range rows {
		m := row.meeting
		m.Instructors = subtractInstructors(row.instructors, base)
		out = append(out, m)
	}
	return out
}

// familySection is one section emitted from a family before it is filled
// in with feed-specific counts.
type familySection struct {
	// the row the section's counts and identity come from
	counts      groupRow
	meetings    []Meeting
	instructors []string
	rows        []groupRow
}

// emitFamily turns a family into sections, an inconsistent family is
// reported and yields nothing.
func emitFamily(f *family, tel telemetry.API) []familySection {
	reconcileMainTypes(f, tel)
	base := baseInstructors(f)

	if len(f.childCodes) > 0 && len(f.mains) == 0 {
		tel.ReportWarning(
			report_grouping_missing_main,
			fmt.Errorf("family %s has children %v but no %s00 row", f.letter, f.childCodes, f.letter),
		)
		return nil
	}

	if len(f.childCodes) == 0 {
		counts := f.aux
		if len(f.mains) > 0 {
			counts = f.mains
		}
		if len(counts) == 0 {
			return nil
		}
		meetings := append(sharedMeetings(f.mains), sharedMeetings(f.aux)...)
		return []familySection{{
			counts:      counts[0],
			meetings:    meetings,
			instructors: base,
			rows:        append(slices.Clone(f.mains), f.aux...),
		}}
	}

	mains := sharedMeetings(f.mains)
	aux := sharedMeetings(f.aux)

	out := make([]familySection, 0, len(f.childCodes))
	for _, code := range f.childCodes {
		children := f.children[code]

		meetings := slices.Clone(mains)
		meetings = append(meetings, childMeetings(children, base)...)
		meetings = append(meetings, aux...)

		rows := slices.Clone(f.mains)
		rows = append(rows, children...)
		rows = append(rows, f.aux...)

		out = append(out, familySection{
			counts:      children[0],
			meetings:    meetings,
			instructors: base,
			rows:        rows,
		})
	}
	return out
}

func clampSeats(capacity, enrolled int64) int64 {
	return max(clampCount(capacity)-clampCount(enrolled), 0)
}

// the feed occasionally carries negative counts
func clampCount(n int64) int64 {
	return max(n, 0)
}

func isDegenerate(capacity, enrolled int64) bool {
	return capacity == 0 && enrolled == 0
}

func catalogRow(i int, raw RawWebRegMeeting) (groupRow, error) {
	day, err := parseMeetingDay(raw.DayCode, raw.SpecialMeeting, raw.StartDate)
	if err != nil {
		return groupRow{}, fmt.Errorf("section %s: %w", strings.TrimSpace(raw.SectionCode), err)
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
			"%s|%d|%d|%d|%d|%s|%s",
			raw.SectionId, raw.SectionCapacity, raw.EnrolledCount,
			raw.CountOnWaitlist, raw.AvailableSeats, raw.NeedsWaitlist, raw.DisplayType,
		),
		src: i,
	}, nil
}

func catalogSection(subjectCourseId string, raw RawWebRegMeeting, meetings []Meeting, instructors []string) Section {
	assert.True(len(meetings) > 0, "section %s emitted with no meetings", raw.SectionCode)
	return Section{
		SubjectCourseId: subjectCourseId,
		SectionId:       strings.TrimSpace(raw.SectionId),
		SectionCode:     strings.TrimSpace(raw.SectionCode),
		Meetings:        meetings,
		Instructors:     instructors,
		Capacity:        clampCount(raw.SectionCapacity),
		EnrolledCount:   clampCount(raw.EnrolledCount),
		WaitlistCount:   clampCount(raw.CountOnWaitlist),
		AvailableSeats:  clampSeats(raw.SectionCapacity, raw.EnrolledCount),
		NeedsWaitlist:   strings.TrimSpace(raw.NeedsWaitlist) == "Y",
	}
}

func sortSections(sections []Section) {
	slices.SortFunc(sections, func(a, b Section) int {
		return cmp.Or(
			cmp.Compare(a.SectionCode, b.SectionCode),
			cmp.Compare(a.SectionId, b.SectionId),
		)
	})
}

// FormatSubjectCourseId returns the canonical "SUBJ NUM" form of a course.
func FormatSubjectCourseId(subject, course string) string {
	return strings.ToUpper(fmt.Sprintf("%s %s", strings.TrimSpace(subject), strings.TrimSpace(course)))
}

// GroupCourseSections reconstructs the sections of one course out of the
// meeting rows returned by the course lookup endpoint.
//
// Rows with a numeric section code (ex. 001) are sections on their own.
// Letter-coded rows are grouped into families by their first letter, where
// X00 rows are shared by every section of the family and every other code
// is one enrollable section.
//
// The result does not depend on the order of rows. A malformed day code
// anywhere fails the whole call, inconsistent families are skipped and
// reported to tel.
func GroupCourseSections(subjectCourseId string, rows []RawWebRegMeeting, tel telemetry.API) ([]Section, error) {
	if tel == nil {
		tel = telemetry.SlogAPI{}
	}
	subjectCourseId = strings.ToUpper(strings.TrimSpace(subjectCourseId))

	var grouped []groupRow
	for i, raw := range rows {
		if isDegenerate(raw.SectionCapacity, raw.EnrolledCount) {
			continue
		}
		row, err := catalogRow(i, raw)
		if err != nil {
			return nil, err
		}
		if row.code == "" {
			tel.ReportWarning(report_grouping_empty_code, fmt.Errorf("row %d of %s", i, subjectCourseId))
			continue
		}
		if !isNumericCode(row.code) &&
			strings.TrimSpace(raw.DisplayType) != "AC" &&
			!strings.HasSuffix(row.code, "00") {
			continue
		}
		grouped = append(grouped, row)
	}
	slices.SortFunc(grouped, compareRows)

	numeric, families := partition(grouped)

	var sections []Section
	for _, row := range numeric {
		meeting := row.meeting
		meeting.Instructors = nil
		sections = append(sections, catalogSection(
			subjectCourseId,
			rows[row.src],
			[]Meeting{meeting},
			mergeInstructors(row.instructors),
		))
	}
	for _, f := range families {
		for _, fs := range emitFamily(f, tel) {
			sections = append(sections, catalogSection(
				subjectCourseId,
				rows[fs.counts.src],
				fs.meetings,
				fs.instructors,
			))
		}
	}

	sortSections(sections)
	return sections, nil
}

// ProjectEnrollmentCounts returns a Section per enrollable section code with
// counts and instructors only, Meetings is always empty.
func ProjectEnrollmentCounts(subjectCourseId string, rows []RawWebRegMeeting) []Section {
	subjectCourseId = strings.ToUpper(strings.TrimSpace(subjectCourseId))

	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b RawWebRegMeeting) int {
		return cmp.Or(
			cmp.Compare(strings.TrimSpace(a.SectionCode), strings.TrimSpace(b.SectionCode)),
			cmp.Compare(strings.TrimSpace(a.SectionId), strings.TrimSpace(b.SectionId)),
		)
	})

	seen := map[string]bool{}
	var sections []Section
	for _, raw := range sorted {
		code := strings.TrimSpace(raw.SectionCode)
		if seen[code] || strings.TrimSpace(raw.DisplayType) != "AC" {
			continue
		}
		seen[code] = true
		if isDegenerate(raw.SectionCapacity, raw.EnrolledCount) {
			continue
		}
		sections = append(sections, Section{
			SubjectCourseId: subjectCourseId,
			SectionId:       strings.TrimSpace(raw.SectionId),
			SectionCode:     code,
			Instructors:     mergeInstructors(ParseInstructors(raw.PersonFullName)),
			Capacity:        clampCount(raw.SectionCapacity),
			EnrolledCount:   clampCount(raw.EnrolledCount),
			WaitlistCount:   clampCount(raw.CountOnWaitlist),
			AvailableSeats:  clampSeats(raw.SectionCapacity, raw.EnrolledCount),
			NeedsWaitlist:   strings.TrimSpace(raw.NeedsWaitlist) == "Y",
		})
	}
	return sections
}
