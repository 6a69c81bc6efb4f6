package utils

import (
	"testing"
	"webweg/lib/platforms/webreg"

	"github.com/stretchr/testify/require"
)

func TestParseDays(t *testing.T) {
	testCases := []struct {
		input    string
		expected []webreg.DayOfWeek
	}{
		{input: "MWF", expected: []webreg.DayOfWeek{webreg.Monday, webreg.Wednesday, webreg.Friday}},
		{input: "TuTh", expected: []webreg.DayOfWeek{webreg.Tuesday, webreg.Thursday}},
		{input: "MTuWThF", expected: []webreg.DayOfWeek{
			webreg.Monday, webreg.Tuesday, webreg.Wednesday, webreg.Thursday, webreg.Friday,
		}},
		{input: "SaSu", expected: []webreg.DayOfWeek{webreg.Saturday, webreg.Sunday}},
	}

	for _, test := range testCases {
		days, err := ParseDays(test.input)
		require.NoError(t, err, test.input)
		require.Equal(t, test.expected, days, test.input)
	}

	_, err := ParseDays("MX")
	require.Error(t, err)
}

func TestParseClock(t *testing.T) {
	hour, minute, err := ParseClock("09:30")
	require.NoError(t, err)
	require.Equal(t, 9, hour)
	require.Equal(t, 30, minute)

	for _, input := range []string{"25:00", "12:60", "noon"} {
		_, _, err := ParseClock(input)
		require.Error(t, err, input)
	}
}
