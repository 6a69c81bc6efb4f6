package webreg

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	report_client_add_or_edit_event = "client.add-or-edit-event"
	report_client_remove_event      = "client.remove-event"
	report_client_get_events        = "client.get-events"
)

type EventAdd struct {
	Name string
	// optional
	Location    string
	Days        []DayOfWeek
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

func (e EventAdd) validate() error {
	start := e.StartHour*100 + e.StartMinute
	end := e.EndHour*100 + e.EndMinute
	switch {
	case start >= end:
		return &InputError{Field: "time", Message: "start time must be before end time"}
	case e.StartHour < 7 || e.StartHour > 22:
		return &InputError{Field: "start hour", Message: "must be between 7 and 22 (7am and 10pm)"}
	case e.StartHour == 22 && e.StartMinute != 0:
		return &InputError{Field: "start time", Message: "cannot start after 10pm"}
	case len(e.Days) == 0:
		return &InputError{Field: "days", Message: "at least one day is required"}
	}
	return nil
}

// AddOrEditEvent adds a calendar event, or replaces the event identified by
// timestamp when it is non-empty. Invalid events are rejected before any
// request is made.
func (c *Client) AddOrEditEvent(ctx context.Context, event EventAdd, timestamp string) error {
	ctx, span := tracer.Start(ctx, "client:AddOrEditEvent")
	defer span.End()

	err := event.validate()
	if err != nil {
		c.report(report_client_add_or_edit_event, err)
		return err
	}

	form := url.Values{
		"termcode":    {c.Term()},
		"aename":      {event.Name},
		"aestarttime": {fmt.Sprintf("%04d", event.StartHour*100+event.StartMinute)},
		"aeendtime":   {fmt.Sprintf("%04d", event.EndHour*100+event.EndMinute)},
		"aelocation":  {event.Location},
		"aedays":      {daysBitmask(event.Days)},
	}
	endpoint := EndpointEventAdd
	if timestamp != "" {
		form.Set("aetimestamp", timestamp)
		endpoint = EndpointEventEdit
	}

	err = c.postForm(ctx, endpoint, form)
	if err != nil {
		c.report(report_client_add_or_edit_event, err)
	}
	return err
}

func (c *Client) RemoveEvent(ctx context.Context, timestamp string) error {
	ctx, span := tracer.Start(ctx, "client:RemoveEvent")
	defer span.End()

	err := c.postForm(ctx, EndpointEventRemove, url.Values{
		"aetimestamp": {timestamp},
		"termcode":    {c.Term()},
	})
	if err != nil {
		c.report(report_client_remove_event, err)
	}
	return err
}

// parseHHMM parses the portal's "HHMM" time strings, ex. "0930".
func parseHHMM(s string) (hour, minute int, err error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, 0, fmt.Errorf("invalid time %q", s)
	}
	return n / 100, n % 100, nil
}

func parseEvents(rows []RawEvent) ([]Event, error) {
	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		startHour, startMinute, err := parseHHMM(row.StartTime)
		if err != nil {
			return nil, &DecodeError{Err: err}
		}
		endHour, endMinute, err := parseHHMM(row.EndTime)
		if err != nil {
			return nil, &DecodeError{Err: err}
		}
		events = append(events, Event{
			Location:    strings.TrimSpace(row.Location),
			Description: strings.TrimSpace(row.Description),
			Days:        parseDaysBitmask(strings.TrimSpace(row.Days)),
			StartHour:   startHour,
			StartMinute: startMinute,
			EndHour:     endHour,
			EndMinute:   endMinute,
			Timestamp:   row.TimeStamp,
		})
	}
	return events, nil
}

func (c *Client) GetEvents(ctx context.Context) ([]Event, error) {
	ctx, span := tracer.Start(ctx, "client:GetEvents")
	defer span.End()

	rows, err := getJson[[]RawEvent](ctx, c, EndpointEventList, url.Values{
		"termcode": {c.Term()},
	})
	if err == nil {
		var events []Event
		events, err = parseEvents(rows)
		if err == nil {
			return events, nil
		}
	}
	c.report(report_client_get_events, err)
	return nil, err
}
