package watch

import (
	"context"
	"net/http"
	"testing"
	"time"
	"webweg/internal/components/chrono"
	"webweg/lib/platforms/webreg"
	"webweg/lib/platforms/webreg/webregtest"
	"webweg/lib/telemetry"

	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	batches [][]Opening
}

func (n *recordingNotifier) Notify(ctx context.Context, openings []Opening) error {
	n.batches = append(n.batches, openings)
	return nil
}

func courseRows(a01, a02 [3]int64) []webreg.RawWebRegMeeting {
	row := func(id, code, instrType, days string, counts [3]int64) webreg.RawWebRegMeeting {
		return webreg.RawWebRegMeeting{
			SectionId:       id,
			SectionCode:     code,
			MeetingType:     instrType,
			DayCode:         days,
			SpecialMeeting:  "  ",
			SectionCapacity: counts[0],
			EnrolledCount:   counts[1],
			CountOnWaitlist: counts[2],
			PersonFullName:  "Smith, J  ;A1",
			DisplayType:     "AC",
		}
	}
	return []webreg.RawWebRegMeeting{
		row("079911", "A00", "LE", "135", [3]int64{60, 60, 0}),
		row("079912", "A01", "DI", "2", a01),
		row("079913", "A02", "DI", "4", a02),
	}
}

func TestWatcher(t *testing.T) {
	ctx := context.Background()
	server := webregtest.NewServer(t)
	server.SetCourse("CSE", "100", courseRows([3]int64{30, 25, 0}, [3]int64{30, 30, 2}))

	client, err := webreg.NewClient(webreg.Options{
		Cookies:           server.NewSession("FA24"),
		Term:              "FA24",
		BaseUrl:           server.URL,
		RequestsPerSecond: 1000,
	})
	require.NoError(t, err)

	at := time.Date(2024, time.September, 20, 14, 5, 0, 0, time.UTC)
	notifier := &recordingNotifier{}
	rec := telemetry.NewRecorderAPI()
	watcher := NewWatcher(
		client,
		[]Course{{Subject: "cse", Number: "100", Sections: []string{"a01", "A02"}}},
		notifier,
		chrono.FixedImpl{At: at},
		rec,
	)

	openings := watcher.Poll(ctx)
	require.Len(t, openings, 1)
	require.Equal(t, "A01", openings[0].Section.SectionCode)
	require.Equal(t, at, openings[0].At)
	require.Equal(t, "CSE 100 A01 (079912) has 5 open seat(s) as of 2:05PM", openings[0].String())

	require.Empty(t, watcher.Poll(ctx))

	// A01 fills up and A02 opens
	server.SetCourse("CSE", "100", courseRows([3]int64{30, 30, 0}, [3]int64{30, 28, 0}))
	openings = watcher.Poll(ctx)
	require.Len(t, openings, 1)
	require.Equal(t, "A02", openings[0].Section.SectionCode)

	// A01 reopens
	server.SetCourse("CSE", "100", courseRows([3]int64{30, 29, 0}, [3]int64{30, 28, 0}))
	openings = watcher.Poll(ctx)
	require.Len(t, openings, 1)
	require.Equal(t, "A01", openings[0].Section.SectionCode)

	require.Len(t, notifier.batches, 3)
	require.False(t, rec.Has(telemetry.KindBroken, report_watcher_poll))

	server.SetStatus(webreg.EndpointCourseData, http.StatusServiceUnavailable)
	require.Empty(t, watcher.Poll(ctx))
	require.True(t, rec.Has(telemetry.KindBroken, report_watcher_poll))
	require.Len(t, notifier.batches, 3)
}

func TestCourseIncludes(t *testing.T) {
	require.True(t, Course{Subject: "CSE", Number: "100"}.includes("B01"))
	require.True(t, Course{Sections: []string{" b01 "}}.includes("B01"))
	require.False(t, Course{Sections: []string{"A01"}}.includes("B01"))
	require.Equal(t, "MATH 20C", Course{Subject: "math", Number: "20c"}.String())
}

func TestFormatMessage(t *testing.T) {
	at := time.Date(2024, time.September, 20, 9, 30, 0, 0, time.UTC)
	openings := []Opening{
		{Section: webreg.Section{SubjectCourseId: "CSE 100", SectionCode: "A01", SectionId: "079912", AvailableSeats: 2}, At: at},
	}

	subject, body := formatMessage(openings)
	require.Equal(t, "[webweg] CSE 100 A01 opened", subject)
	require.Equal(t, "CSE 100 A01 (079912) has 2 open seat(s) as of 9:30AM\n", body)

	openings = append(openings, Opening{Section: webreg.Section{SubjectCourseId: "CSE 100", SectionCode: "A02"}, At: at})
	subject, _ = formatMessage(openings)
	require.Equal(t, "[webweg] 2 section(s) opened", subject)

	require.False(t, SmtpConfig{Host: "smtp.example.com"}.Enabled())
	require.Equal(t, 587, NewEmailNotifier(SmtpConfig{Username: "me@example.com"}).config.Port)
	require.Equal(t, "me@example.com", NewEmailNotifier(SmtpConfig{Username: "me@example.com"}).config.From)
}
