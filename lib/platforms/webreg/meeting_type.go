package webreg

import "strings"

type MeetingKind int

const (
	MeetingOther MeetingKind = iota
	MeetingLecture
	MeetingDiscussion
	MeetingLab
	MeetingSeminar
	MeetingTutorial
	MeetingStudio
	MeetingIndependentStudy
	MeetingFinal
	MeetingMidterm
	MeetingReview
	MeetingProblemSession
)

var meetingTags = map[string]MeetingKind{
	"LE": MeetingLecture,
	"DI": MeetingDiscussion,
	"LA": MeetingLab,
	"SE": MeetingSeminar,
	"TU": MeetingTutorial,
	"ST": MeetingStudio,
	"IN": MeetingIndependentStudy,
	"FI": MeetingFinal,
	"MI": MeetingMidterm,
	"RE": MeetingReview,
	"PB": MeetingProblemSession,
}

// MeetingType is the kind of a meeting along with the tag the portal used
// for it, Tag is kept so that unknown kinds can still be displayed.
type MeetingType struct {
	Kind MeetingKind
	Tag  string
}

func (m MeetingType) String() string {
	return m.Tag
}

func ParseMeetingType(tag string) MeetingType {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	kind, ok := meetingTags[tag]
	if !ok {
		kind = MeetingOther
	}
	return MeetingType{Kind: kind, Tag: tag}
}

// meetingTypeOf resolves the type of a raw row, finals and midterms are
// recorded as lectures in the instruction type column so a non-blank special
// tag wins.
func meetingTypeOf(instrType, specialTag string) MeetingType {
	if !isBlankSpecialTag(specialTag) {
		return ParseMeetingType(specialTag)
	}
	return ParseMeetingType(instrType)
}
