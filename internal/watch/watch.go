// Package watch polls WebReg for seats opening up in a set of courses.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"webweg/internal/components/chrono"
	"webweg/lib/platforms/webreg"
	"webweg/lib/telemetry"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("internal/watch")

const (
	report_watcher_poll  = "watcher.poll"
	report_watcher_open  = "watcher.open-sections"
	report_watcher_alert = "watcher.notify"
)

// Course is a course to watch, optionally restricted to some section codes.
type Course struct {
	Subject string `json:"subject"`
	Number  string `json:"number"`
	// empty watches every section
	Sections []string `json:"sections"`
}

func (c Course) String() string {
	return webreg.FormatSubjectCourseId(c.Subject, c.Number)
}

func (c Course) includes(sectionCode string) bool {
	if len(c.Sections) == 0 {
		return true
	}
	for _, s := range c.Sections {
		if strings.EqualFold(strings.TrimSpace(s), sectionCode) {
			return true
		}
	}
	return false
}

// Opening is a section that went from full to having open seats.
type Opening struct {
	Section webreg.Section
	At      time.Time
}

func (o Opening) String() string {
	return fmt.Sprintf(
		"%s %s (%s) has %d open seat(s) as of %s",
		o.Section.SubjectCourseId, o.Section.SectionCode, o.Section.SectionId,
		o.Section.AvailableSeats, o.At.Format(time.Kitchen),
	)
}

type Notifier interface {
	Notify(ctx context.Context, openings []Opening) error
}

// EnrollmentSource is the part of *webreg.Client the watcher needs.
type EnrollmentSource interface {
	GetEnrollmentCount(ctx context.Context, subject, course string) ([]webreg.Section, error)
}

// Watcher remembers which sections were open on the previous poll, so each
// section is only reported once every time it opens.
type Watcher struct {
	source   EnrollmentSource
	courses  []Course
	notifier Notifier
	clock    chrono.API
	tel      telemetry.API

	// section id -> open on the last poll
	open map[string]bool
}

func NewWatcher(source EnrollmentSource, courses []Course, notifier Notifier, clock chrono.API, tel telemetry.API) *Watcher {
	return &Watcher{
		source:   source,
		courses:  courses,
		notifier: notifier,
		clock:    clock,
		tel:      telemetry.NewScopedAPI("watch", tel),
		open:     map[string]bool{},
	}
}

// Poll fetches the counts of every course once and returns the sections
// that opened since the last poll. A course that fails to load is reported
// and skipped, it keeps its previous state.
func (w *Watcher) Poll(ctx context.Context) []Opening {
	ctx, span := tracer.Start(ctx, "Poll")
	defer span.End()

	var openings []Opening
	openCount := 0
	for _, course := range w.courses {
		sections, err := w.source.GetEnrollmentCount(ctx, course.Subject, course.Number)
		if err != nil {
			w.tel.ReportBroken(report_watcher_poll, fmt.Errorf("%s: %w", course, err))
			continue
		}

		for _, s := range sections {
			if !course.includes(s.SectionCode) {
				continue
			}
			isOpen := s.HasOpenSeats()
			if isOpen {
				openCount++
			}
			if isOpen && !w.open[s.SectionId] {
				openings = append(openings, Opening{Section: s, At: w.clock.Now()})
			}
			w.open[s.SectionId] = isOpen
		}
	}
	w.tel.ReportCount(report_watcher_open, int64(openCount))

	if len(openings) > 0 && w.notifier != nil {
		err := w.notifier.Notify(ctx, openings)
		if err != nil {
			w.tel.ReportBroken(report_watcher_alert, err)
		}
	}
	return openings
}

// Run polls every interval until ctx is done.
func (w *Watcher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		for _, o := range w.Poll(ctx) {
			slog.InfoContext(ctx, "section opened", "section", o.String())
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
