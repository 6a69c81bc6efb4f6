package webreg

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestFormatCourseCode(t *testing.T) {
	testCases := []struct {
		code     string
		expected string
	}{
		{code: "8B", expected: "  8B"},
		{code: "1", expected: "  1"},
		{code: "15L", expected: " 15L"},
		{code: "20", expected: " 20"},
		{code: "100", expected: "100"},
		{code: "190A", expected: "190A"},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, FormatCourseCode(test.code), test.code)
	}

	require.Equal(t, "CSE 100", FormatSubjectCourseId(" cse", "100 "))
}

func TestSearchRequestParams(t *testing.T) {
	req := NewSearchRequest().
		AddSubject("CSE").
		AddSubject("cse").
		AddSubject("TOOLONG").
		AddSubject("MATH").
		AddCourse("8b 100").
		AddCourse("20C").
		AddDepartment("COGS").
		SetInstructor("smith").
		SetTitle("data structures").
		FilterLevel(LevelLowerDivision).
		FilterLevel(LevelUpperDivision).
		ApplyDay(Tuesday).
		ApplyDay(Thursday).
		SetStartTime(9, 5).
		SetEndTime(24, 0).
		OnlyOpen()

	expected := url.Values{
		"subjcode":         {"CSE:MATH"},
		"crsecode":         {"  8B:100; 20C"},
		"department":       {"COGS"},
		"professor":        {"SMITH"},
		"title":            {"DATA STRUCTURES"},
		"levels":           {"100100000000"},
		"days":             {"0101000"},
		"timestr":          {"0905:"},
		"opensection":      {"true"},
		"isbasic":          {"true"},
		"basicsearchvalue": {""},
		"termcode":         {"FA24"},
	}

	diff := cmp.Diff(expected, req.params("FA24"))
	if diff != "" {
		t.Fatal(diff)
	}
	require.Equal(t, EndpointSearch, req.endpoint())
	require.Nil(t, req.sectionIds())
}

func TestSearchRequestEmpty(t *testing.T) {
	params := NewSearchRequest().params("WI25")

	require.Equal(t, "", params.Get("levels"))
	require.Equal(t, "", params.Get("days"))
	require.Equal(t, "", params.Get("timestr"))
	require.Equal(t, "", params.Get("subjcode"))
	require.Equal(t, "false", params.Get("opensection"))
	require.Equal(t, "WI25", params.Get("termcode"))
}

func TestSearchRequestTimeRange(t *testing.T) {
	require.Equal(t, "0800:1330", NewSearchRequest().SetStartTime(8, 0).SetEndTime(13, 30).timeParam())
	require.Equal(t, ":1700", NewSearchRequest().SetEndTime(17, 0).timeParam())
	require.Equal(t, "", NewSearchRequest().SetStartTime(-1, 0).SetEndTime(12, 60).timeParam())
}

func TestSectionSearch(t *testing.T) {
	search := SectionSearch{"079912", " 79913 "}

	require.Equal(t, EndpointSearchSection, search.endpoint())
	require.Equal(t, "079912: 79913 ", search.params("FA24").Get("sectionid"))
	require.Equal(t, "FA24", search.params("FA24").Get("termcode"))
	require.Equal(t, []string{"79912", "79913"}, search.sectionIds())
}
