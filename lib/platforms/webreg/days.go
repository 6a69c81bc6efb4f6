package webreg

import (
	"fmt"
	"strings"
)

type DayOfWeek int

const (
	Monday DayOfWeek = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

func (d DayOfWeek) String() string {
	switch d {
	case Monday:
		return "M"
	case Tuesday:
		return "Tu"
	case Wednesday:
		return "W"
	case Thursday:
		return "Th"
	case Friday:
		return "F"
	case Saturday:
		return "Sa"
	case Sunday:
		return "Su"
	}
	return fmt.Sprintf("DayOfWeek(%d)", int(d))
}

// ParseDayCode decodes the portal's day code, a run of digits where '1' is
// Monday and '5' is Friday. The result is de-duplicated and in week order, a
// blank code returns no days.
func ParseDayCode(code string) ([]DayOfWeek, error) {
	var seen [8]bool
	for _, ch := range strings.TrimSpace(code) {
		if ch < '1' || ch > '5' {
			return nil, &DayCodeError{Code: code, Char: ch}
		}
		seen[ch-'0'] = true
	}

	var days []DayOfWeek
	for d := Monday; d <= Sunday; d++ {
		if seen[d] {
			days = append(days, d)
		}
	}
	return days, nil
}

// FormatDays joins days in their short form, ex. "MWF".
func FormatDays(days []DayOfWeek) string {
	var out strings.Builder
	for _, d := range days {
		out.WriteString(d.String())
	}
	return out.String()
}

// daysBitmask encodes days as a string of 7 '0'/'1' characters, Monday first.
func daysBitmask(days []DayOfWeek) string {
	mask := []byte("0000000")
	for _, d := range days {
		if d < Monday || d > Sunday {
			continue
		}
		mask[d-Monday] = '1'
	}
	return string(mask)
}

func parseDaysBitmask(mask string) []DayOfWeek {
	var days []DayOfWeek
	for i, ch := range mask {
		if i >= 7 {
			break
		}
		if ch == '1' {
			days = append(days, Monday+DayOfWeek(i))
		}
	}
	return days
}

type MeetingDayKind int

const (
	// the meeting has no scheduled day, ex. an online or TBA section
	MeetingDayNone MeetingDayKind = iota
	MeetingDayRepeated
	MeetingDayOneTime
)

// MeetingDay is when a meeting happens, either on a set of weekdays every
// week or once on a specific date (finals, midterms).
type MeetingDay struct {
	Kind MeetingDayKind
	// set when Kind == MeetingDayRepeated
	Days []DayOfWeek
	// set when Kind == MeetingDayOneTime, as given by the portal (YYYY-MM-DD)
	Date string
}

func (m MeetingDay) String() string {
	switch m.Kind {
	case MeetingDayRepeated:
		return FormatDays(m.Days)
	case MeetingDayOneTime:
		return m.Date
	}
	return "N/A"
}

func isBlankSpecialTag(tag string) bool {
	return strings.TrimSpace(strings.ReplaceAll(tag, "TBA", "")) == ""
}

func parseMeetingDay(dayCode, specialTag, startDate string) (MeetingDay, error) {
	if !isBlankSpecialTag(specialTag) {
		return MeetingDay{Kind: MeetingDayOneTime, Date: strings.TrimSpace(startDate)}, nil
	}
	days, err := ParseDayCode(dayCode)
	if err != nil {
		return MeetingDay{}, err
	}
	if len(days) == 0 {
		return MeetingDay{Kind: MeetingDayNone}, nil
	}
	return MeetingDay{Kind: MeetingDayRepeated, Days: days}, nil
}
