package webreg

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	report_client_get_schedule          = "client.get-schedule"
	report_client_get_schedule_list     = "client.get-schedule-list"
	report_client_rename_schedule       = "client.rename-schedule"
	report_client_remove_schedule       = "client.remove-schedule"
	report_client_change_grading_option = "client.change-grading-option"
)

func scheduleName(name string) string {
	if name == "" {
		return DefaultScheduleName
	}
	return name
}

// GetSchedule returns the sections in a schedule, an empty name is the
// default schedule.
func (c *Client) GetSchedule(ctx context.Context, name string) ([]ScheduledSection, error) {
	ctx, span := tracer.Start(ctx, "client:GetSchedule")
	defer span.End()

	rows, err := getJson[[]RawScheduledMeeting](ctx, c, EndpointSchedule, url.Values{
		"schedname": {scheduleName(name)},
		"final":     {""},
		"sectnum":   {""},
		"termcode":  {c.Term()},
		"_":         {c.epochMillis()},
	})
	if err != nil {
		c.report(report_client_get_schedule, err)
		return nil, err
	}
	schedule, err := GroupSchedule(rows, c.tel)
	if err != nil {
		c.report(report_client_get_schedule, err)
		return nil, err
	}
	return schedule, nil
}

// GetScheduleList returns the names of every schedule the user has saved.
func (c *Client) GetScheduleList(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "client:GetScheduleList")
	defer span.End()

	names, err := getJson[[]string](ctx, c, EndpointScheduleNames, url.Values{
		"termcode": {c.Term()},
	})
	if err != nil {
		c.report(report_client_get_schedule_list, err)
		return nil, err
	}
	return names, nil
}

func validateScheduleName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return &InputError{Field: field, Message: "schedule name is empty"}
	}
	if name == DefaultScheduleName {
		return &InputError{Field: field, Message: fmt.Sprintf("%q cannot be renamed or removed", DefaultScheduleName)}
	}
	return nil
}

// RenameSchedule renames a schedule, the default schedule cannot be renamed
// and no schedule can be renamed to it.
func (c *Client) RenameSchedule(ctx context.Context, oldName, newName string) error {
	ctx, span := tracer.Start(ctx, "client:RenameSchedule")
	defer span.End()

	err := validateScheduleName("old schedule name", oldName)
	if err == nil {
		err = validateScheduleName("new schedule name", newName)
	}
	if err != nil {
		c.report(report_client_rename_schedule, err)
		return err
	}

	err = c.postForm(ctx, EndpointRenameSchedule, url.Values{
		"termcode":     {c.Term()},
		"oldschedname": {oldName},
		"newschedname": {newName},
	})
	if err != nil {
		c.report(report_client_rename_schedule, err)
	}
	return err
}

// RemoveSchedule deletes a schedule, the default schedule cannot be removed.
func (c *Client) RemoveSchedule(ctx context.Context, name string) error {
	ctx, span := tracer.Start(ctx, "client:RemoveSchedule")
	defer span.End()

	err := validateScheduleName("schedule name", name)
	if err != nil {
		c.report(report_client_remove_schedule, err)
		return err
	}

	err = c.postForm(ctx, EndpointRemoveSchedule, url.Values{
		"termcode":  {c.Term()},
		"schedname": {name},
	})
	if err != nil {
		c.report(report_client_remove_schedule, err)
	}
	return err
}

// ChangeGradingOption changes the grading option of a section in the
// default schedule. The section id may be given with or without leading
// zeros, ex. "079911" and "79911" are the same section.
func (c *Client) ChangeGradingOption(ctx context.Context, sectionId string, grade GradeOption) error {
	ctx, span := tracer.Start(ctx, "client:ChangeGradingOption")
	defer span.End()

	// the schedule feed gives section ids as numbers
	wanted := strings.TrimLeft(strings.TrimSpace(sectionId), "0")

	schedule, err := c.GetSchedule(ctx, "")
	if err != nil {
		c.report(report_client_change_grading_option, err)
		return err
	}

	var found *ScheduledSection
	for i := range schedule {
		if schedule[i].SectionId == wanted {
			found = &schedule[i]
			break
		}
	}
	if found == nil {
		err = fmt.Errorf("%s: %w", sectionId, ErrSectionNotFound)
		c.report(report_client_change_grading_option, err)
		return err
	}

	err = c.postForm(ctx, EndpointChangeEnroll, url.Values{
		"section":  {found.SectionId},
		"subjCode": {""},
		"crseCode": {""},
		"unit":     {strconv.FormatFloat(found.Units, 'f', -1, 64)},
		"grade":    {string(grade)},
		"oldGrade": {""},
		"oldUnit":  {""},
		"termcode": {c.Term()},
	})
	if err != nil {
		c.report(report_client_change_grading_option, err)
	}
	return err
}
