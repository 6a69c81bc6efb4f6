package webreg

// The types in this file mirror the JSON the portal sends back, key for key.
// They carry no logic besides field presence and typing, everything else
// happens once they are handed to the grouping pass.

// RawWebRegMeeting is one meeting of a course as returned by the course lookup
// endpoint. A lecture, a discussion and a final of the same section are each
// separate RawWebRegMeeting records.
type RawWebRegMeeting struct {
	// ex. 11 for a meeting that ends at 11:50
	EndHour int `json:"END_HH_TIME"`
	// ex. 50 for a meeting that ends at 11:50
	EndMinute       int    `json:"END_MM_TIME"`
	SectionCapacity int64  `json:"SCTN_CPCTY_QTY"`
	EnrolledCount   int64  `json:"SCTN_ENRLT_QTY"`
	SectionId       string `json:"SECTION_NUMBER"`
	CountOnWaitlist int64  `json:"COUNT_ON_WAITLIST"`
	RoomCode        string `json:"ROOM_CODE"`
	StartMinute     int    `json:"BEGIN_MM_TIME"`
	StartHour       int    `json:"BEGIN_HH_TIME"`
	// digits 1-5 for Monday-Friday, ex. "135" for MWF
	DayCode string `json:"DAY_CODE"`
	// `name  ;pid` tuples separated by ':'
	PersonFullName string `json:"PERSON_FULL_NAME"`
	// blank ("  ") for regular meetings, otherwise ex. "FI" or "MI"
	SpecialMeeting string `json:"FK_SPM_SPCL_MTG_CD"`
	BuildingCode   string `json:"BLDG_CODE"`
	// records finals and midterms as lectures, see SpecialMeeting
	MeetingType    string `json:"FK_CDI_INSTR_TYPE"`
	SectionCode    string `json:"SECT_CODE"`
	AvailableSeats int64  `json:"AVAIL_SEAT"`
	// differs from SectionStartDate for one-time meetings
	StartDate        string `json:"START_DATE"`
	SectionStartDate string `json:"SECTION_START_DATE"`
	// AC: enrollable, NC: not enrollable, CA: canceled
	DisplayType string `json:"FK_SST_SCTN_STATCD"`
	// " " or "Y" when visible
	PrintFlag     string `json:"PRINT_FLAG"`
	NeedsWaitlist string `json:"STP_ENRLT_FLAG"`
}

// RawScheduledMeeting is one meeting from the personal schedule endpoint.
// The count columns are nullable there, unlike in RawWebRegMeeting.
type RawScheduledMeeting struct {
	// the section id, as a number (leading zeros are lost)
	SectionId      int64   `json:"SECTION_HEAD"`
	Units          float64 `json:"SECT_CREDIT_HRS"`
	StartMinute    int     `json:"BEGIN_MM_TIME"`
	StartHour      int     `json:"BEGIN_HH_TIME"`
	EndHour        int     `json:"END_HH_TIME"`
	EndMinute      int     `json:"END_MM_TIME"`
	SubjectCode    string  `json:"SUBJ_CODE"`
	RoomCode       string  `json:"ROOM_CODE"`
	CourseTitle    string  `json:"CRSE_TITLE"`
	GradeOption    string  `json:"GRADE_OPTION"`
	StartDate      string  `json:"START_DATE"`
	CourseCode     string  `json:"CRSE_CODE"`
	DayCode        string  `json:"DAY_CODE"`
	PersonFullName string  `json:"PERSON_FULL_NAME"`
	SpecialMeeting string  `json:"FK_SPM_SPCL_MTG_CD"`
	MeetingType    string  `json:"FK_CDI_INSTR_TYPE"`
	BuildingCode   string  `json:"BLDG_CODE"`
	// EN: enrolled, WT: waitlisted, PL: planned
	EnrollStatus    string `json:"ENROLL_STATUS"`
	SectionCode     string `json:"SECT_CODE"`
	SectionCapacity *int64 `json:"SCTN_CPCTY_QTY"`
	EnrolledCount   *int64 `json:"SCTN_ENRLT_QTY"`
	CountOnWaitlist *int64 `json:"COUNT_ON_WAITLIST"`
	// numeric when waitlisted, otherwise arbitrary filler
	WaitlistPosition string `json:"WT_POS"`
}

// RawWebRegSearchResultItem is one course returned by a search.
type RawWebRegSearchResultItem struct {
	MaxUnits    float64 `json:"UNIT_TO"`
	SubjectCode string  `json:"SUBJ_CODE"`
	CourseTitle string  `json:"CRSE_TITLE"`
	MinUnits    float64 `json:"UNIT_FROM"`
	CourseCode  string  `json:"CRSE_CODE"`
}

// RawPrerequisite is either a test (TYPE = TEST) or a course (TYPE = COURSE)
// prerequisite, only the fields of its kind are set.
//
// Course prerequisites sharing a PrereqSeqId are alternatives of each other.
type RawPrerequisite struct {
	Type        string `json:"TYPE"`
	TestTitle   string `json:"TEST_TITLE"`
	SubjectCode string `json:"SUBJECT_CODE"`
	PrereqSeqId string `json:"PREREQ_SEQ_ID"`
	CourseTitle string `json:"CRSE_TITLE"`
	CourseCode  string `json:"COURSE_CODE"`
	GradeSeqId  string `json:"GRADE_SEQ_ID"`
}

type RawEvent struct {
	Location string `json:"LOCATION"`
	// HHMM
	StartTime string `json:"START_TIME"`
	// HHMM
	EndTime     string `json:"END_TIME"`
	Description string `json:"DESCRIPTION"`
	// 7 characters of 0/1, Monday first
	Days string `json:"DAYS"`
	// identifies the event when editing or removing it
	TimeStamp string `json:"TIME_STAMP"`
}

type RawSubjectElement struct {
	LongDescription string `json:"LONG_DESC"`
	SubjectCode     string `json:"SUBJECT_CODE"`
}

type RawDepartmentElement struct {
	DepartmentCode        string `json:"DEP_CODE"`
	DepartmentDescription string `json:"DEP_DESC"`
}

type RawTermListItem struct {
	TermDescription string `json:"termDesc"`
	SeqId           int64  `json:"seqId"`
	TermCode        string `json:"termCode"`
}

type rawPingResponse struct {
	SessionOk bool `json:"SESSION_OK"`
}

type rawPostResponse struct {
	Ops    string `json:"OPS"`
	Reason string `json:"REASON"`
}
