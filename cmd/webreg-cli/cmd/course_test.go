package cmd

import (
	"testing"
	"webweg/lib/platforms/webreg"

	"github.com/stretchr/testify/require"
)

func TestFilterSections(t *testing.T) {
	sections := func() []webreg.Section {
		return []webreg.Section{
			{SectionCode: "A01", Instructors: []string{"Smith, John"}, AvailableSeats: 3},
			{SectionCode: "B01", Instructors: []string{"Doe, Rachel"}, AvailableSeats: 0},
			{SectionCode: "C01", Instructors: []string{"Smithers, Wayne"}, AvailableSeats: 2, WaitlistCount: 1},
		}
	}
	codes := func(sections []webreg.Section) []string {
		var out []string
		for _, s := range sections {
			out = append(out, s.SectionCode)
		}
		return out
	}

	require.Equal(t, []string{"A01", "B01", "C01"}, codes(filterSections(sections(), "", false)))
	require.Equal(t, []string{"A01"}, codes(filterSections(sections(), "", true)))
	require.Equal(t, []string{"A01", "C01"}, codes(filterSections(sections(), "smith", false)))
	require.Equal(t, []string{"B01"}, codes(filterSections(sections(), "doe", false)))
}
