package webreg

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"
)

// FormatCourseCode pads a course number the way the portal expects, one
// digit gets two leading spaces and two digits get one, ex. "8B" -> "  8B".
func FormatCourseCode(code string) string {
	digits := 0
	for _, ch := range code {
		if ch >= '0' && ch <= '9' {
			digits++
		}
	}
	switch digits {
	case 1:
		return "  " + code
	case 2:
		return " " + code
	}
	return code
}

// trimZeros removes leading and trailing zeros, ex. "079910" -> "7991".
func trimZeros(id string) string {
	return strings.Trim(id, "0")
}

// SearchFilter is something SearchCourses accepts, either a SectionSearch
// or a *SearchRequest.
type SearchFilter interface {
	endpoint() Endpoint
	params(term string) url.Values
	// section ids the detailed search should keep, nil keeps everything
	sectionIds() []string
}

// SectionSearch looks up courses by one or more section ids.
type SectionSearch []string

func (s SectionSearch) endpoint() Endpoint {
	return EndpointSearchSection
}

func (s SectionSearch) params(term string) url.Values {
	return url.Values{
		"sectionid": {strings.Join(s, ":")},
		"termcode":  {term},
	}
}

func (s SectionSearch) sectionIds() []string {
	out := make([]string, len(s))
	for i, id := range s {
		out[i] = trimZeros(strings.TrimSpace(id))
	}
	return out
}

type LevelFilter int

const (
	LevelLowerDivision           LevelFilter = 1 << 11
	LevelFreshmenSeminar         LevelFilter = 1 << 10
	LevelLowerDivisionIndepStudy LevelFilter = 1 << 9
	LevelUpperDivision           LevelFilter = 1 << 8
	LevelApprenticeship          LevelFilter = 1 << 7
	LevelUpperDivisionIndepStudy LevelFilter = 1 << 6
	LevelGraduate                LevelFilter = 1 << 5
	LevelGraduateIndepStudy      LevelFilter = 1 << 4
	LevelGraduateResearch        LevelFilter = 1 << 3
	Level300                     LevelFilter = 1 << 2
	Level400                     LevelFilter = 1 << 1
	Level500                     LevelFilter = 1 << 0
)

type clockTime struct {
	hour, minute int
}

func (t *clockTime) String() string {
	if t == nil {
		return ""
	}
	return fmt.Sprintf("%02d%02d", t.hour, t.minute)
}

// SearchRequest is an advanced search, build it with NewSearchRequest and the
// chained setters. Invalid arguments are ignored the same way the portal's
// own search form ignores them.
type SearchRequest struct {
	subjects    []string
	courses     []string
	departments []string
	instructor  string
	title       string
	levels      LevelFilter
	days        []DayOfWeek
	start       *clockTime
	end         *clockTime
	onlyOpen    bool
}

func NewSearchRequest() *SearchRequest {
	return &SearchRequest{}
}

func isShortUpperCode(s string) bool {
	if s == "" || len(s) > 4 {
		return false
	}
	return strings.IndexFunc(s, unicode.IsLower) < 0
}

// AddSubject adds a subject code, ex. "CSE". Codes that are not uppercase or
// longer than 4 characters are ignored.
func (r *SearchRequest) AddSubject(subject string) *SearchRequest {
	if isShortUpperCode(subject) {
		r.subjects = append(r.subjects, subject)
	}
	return r
}

// AddCourse adds a course number, ex. "100" or "8B", several can be given at
// once separated by whitespace.
func (r *SearchRequest) AddCourse(course string) *SearchRequest {
	r.courses = append(r.courses, course)
	return r
}

// AddDepartment follows the same rules as AddSubject.
func (r *SearchRequest) AddDepartment(department string) *SearchRequest {
	if isShortUpperCode(department) {
		r.departments = append(r.departments, department)
	}
	return r
}

func (r *SearchRequest) SetInstructor(instructor string) *SearchRequest {
	r.instructor = instructor
	return r
}

func (r *SearchRequest) SetTitle(title string) *SearchRequest {
	r.title = title
	return r
}

func (r *SearchRequest) FilterLevel(level LevelFilter) *SearchRequest {
	r.levels |= level
	return r
}

func (r *SearchRequest) ApplyDay(day DayOfWeek) *SearchRequest {
	r.days = append(r.days, day)
	return r
}

func validClockTime(hour, minute int) bool {
	return hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59
}

func (r *SearchRequest) SetStartTime(hour, minute int) *SearchRequest {
	if validClockTime(hour, minute) {
		r.start = &clockTime{hour: hour, minute: minute}
	}
	return r
}

func (r *SearchRequest) SetEndTime(hour, minute int) *SearchRequest {
	if validClockTime(hour, minute) {
		r.end = &clockTime{hour: hour, minute: minute}
	}
	return r
}

func (r *SearchRequest) OnlyOpen() *SearchRequest {
	r.onlyOpen = true
	return r
}

func (r *SearchRequest) endpoint() Endpoint {
	return EndpointSearch
}

func (r *SearchRequest) sectionIds() []string {
	return nil
}

func (r *SearchRequest) courseParam() string {
	groups := make([]string, 0, len(r.courses))
	for _, course := range r.courses {
		fields := strings.Fields(course)
		for i, f := range fields {
			fields[i] = FormatCourseCode(f)
		}
		groups = append(groups, strings.Join(fields, ":"))
	}
	return strings.ToUpper(strings.Join(groups, ";"))
}

func (r *SearchRequest) levelParam() string {
	if r.levels == 0 {
		return ""
	}
	return fmt.Sprintf("%012b", int(r.levels))
}

func (r *SearchRequest) daysParam() string {
	mask := daysBitmask(r.days)
	if !strings.Contains(mask, "1") {
		return ""
	}
	return mask
}

func (r *SearchRequest) timeParam() string {
	if r.start == nil && r.end == nil {
		return ""
	}
	return r.start.String() + ":" + r.end.String()
}

func (r *SearchRequest) params(term string) url.Values {
	return url.Values{
		"subjcode":         {strings.Join(r.subjects, ":")},
		"crsecode":         {r.courseParam()},
		"department":       {strings.Join(r.departments, ":")},
		"professor":        {strings.ToUpper(r.instructor)},
		"title":            {strings.ToUpper(r.title)},
		"levels":           {r.levelParam()},
		"days":             {r.daysParam()},
		"timestr":          {r.timeParam()},
		"opensection":      {strconv.FormatBool(r.onlyOpen)},
		"isbasic":          {"true"},
		"basicsearchvalue": {""},
		"termcode":         {term},
	}
}
