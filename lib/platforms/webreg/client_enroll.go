package webreg

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	report_client_validate_add_to_plan = "client.validate-add-to-plan"
	report_client_add_to_plan          = "client.add-to-plan"
	report_client_remove_from_plan     = "client.remove-from-plan"
	report_client_validate_add_section = "client.validate-add-section"
	report_client_add_section          = "client.add-section"
	report_client_drop_section         = "client.drop-section"
)

// AddKind picks between enrolling in a section and joining its waitlist.
type AddKind int

const (
	AddEnroll AddKind = iota
	AddWaitlist
)

func (k AddKind) String() string {
	if k == AddWaitlist {
		return "waitlist"
	}
	return "enroll"
}

func (k AddKind) endpoints() (edit, add, drop Endpoint) {
	if k == AddWaitlist {
		return EndpointWaitlistEdit, EndpointWaitlistAdd, EndpointWaitlistDrop
	}
	return EndpointEnrollEdit, EndpointEnrollAdd, EndpointEnrollDrop
}

type PlanAdd struct {
	SubjectCode string
	CourseCode  string
	SectionId   string
	SectionCode string
	Units       float64
	// defaults to GradeLetter
	GradeOption GradeOption
	// defaults to the default schedule
	ScheduleName string
}

func (p PlanAdd) validate() error {
	switch {
	case strings.TrimSpace(p.SubjectCode) == "":
		return &InputError{Field: "subject code", Message: "is empty"}
	case strings.TrimSpace(p.CourseCode) == "":
		return &InputError{Field: "course code", Message: "is empty"}
	case strings.TrimSpace(p.SectionId) == "":
		return &InputError{Field: "section id", Message: "is empty"}
	}
	return nil
}

// EnrollWaitAdd describes a section to enroll in or waitlist. Units and
// GradeOption may be left empty to use the section's defaults.
type EnrollWaitAdd struct {
	SectionId   string
	Units       float64
	GradeOption GradeOption
}

func formatUnits(units float64) string {
	if units == 0 {
		return ""
	}
	return strconv.FormatFloat(units, 'f', -1, 64)
}

// ValidateAddToPlan asks the portal whether the section can be planned,
// ex. it fails for major-restricted sections.
func (c *Client) ValidateAddToPlan(ctx context.Context, plan PlanAdd) error {
	ctx, span := tracer.Start(ctx, "client:ValidateAddToPlan")
	defer span.End()

	err := plan.validate()
	if err == nil {
		err = c.postForm(ctx, EndpointPlanEdit, url.Values{
			"section":  {plan.SectionId},
			"subjcode": {strings.ToUpper(plan.SubjectCode)},
			"crsecode": {FormatCourseCode(strings.ToUpper(plan.CourseCode))},
			"termcode": {c.Term()},
		})
	}
	if err != nil {
		c.report(report_client_validate_add_to_plan, err)
	}
	return err
}

// AddToPlan plans a section. When validate is set, ValidateAddToPlan is
// called first but its failure is only reported, the portal will still
// plan sections it considers invalid.
func (c *Client) AddToPlan(ctx context.Context, plan PlanAdd, validate bool) error {
	ctx, span := tracer.Start(ctx, "client:AddToPlan")
	defer span.End()

	err := plan.validate()
	if err != nil {
		c.report(report_client_add_to_plan, err)
		return err
	}
	if validate {
		// reported by ValidateAddToPlan
		_ = c.ValidateAddToPlan(ctx, plan)
	}

	grade := plan.GradeOption
	if grade == "" {
		grade = GradeLetter
	}
	err = c.postForm(ctx, EndpointPlanAdd, url.Values{
		"subjcode":  {strings.ToUpper(plan.SubjectCode)},
		"crsecode":  {FormatCourseCode(strings.ToUpper(plan.CourseCode))},
		"sectnum":   {plan.SectionId},
		"sectcode":  {plan.SectionCode},
		"unit":      {strconv.FormatFloat(plan.Units, 'f', -1, 64)},
		"grade":     {string(grade)},
		"termcode":  {c.Term()},
		"schedname": {scheduleName(plan.ScheduleName)},
	})
	if err != nil {
		c.report(report_client_add_to_plan, err)
	}
	return err
}

// RemoveFromPlan unplans a section, an empty schedule is the default one.
func (c *Client) RemoveFromPlan(ctx context.Context, sectionId, schedule string) error {
	ctx, span := tracer.Start(ctx, "client:RemoveFromPlan")
	defer span.End()

	err := c.postForm(ctx, EndpointPlanRemove, url.Values{
		"sectnum":   {sectionId},
		"termcode":  {c.Term()},
		"schedname": {scheduleName(schedule)},
	})
	if err != nil {
		c.report(report_client_remove_from_plan, err)
	}
	return err
}

func (c *Client) enrollForm(add EnrollWaitAdd) url.Values {
	return url.Values{
		"section":  {add.SectionId},
		"termcode": {c.Term()},
		"unit":     {formatUnits(add.Units)},
		"grade":    {string(add.GradeOption)},
		"crsecode": {""},
		"subjcode": {""},
	}
}

// ValidateAddSection asks the portal whether the section can be enrolled
// in (or waitlisted).
func (c *Client) ValidateAddSection(ctx context.Context, kind AddKind, add EnrollWaitAdd) error {
	ctx, span := tracer.Start(ctx, "client:ValidateAddSection")
	defer span.End()

	if strings.TrimSpace(add.SectionId) == "" {
		err := &InputError{Field: "section id", Message: "is empty"}
		c.report(report_client_validate_add_section, err)
		return err
	}

	edit, _, _ := kind.endpoints()
	err := c.postForm(ctx, edit, c.enrollForm(add))
	if err != nil {
		c.report(report_client_validate_add_section, fmt.Errorf("%s %s: %w", kind, add.SectionId, err))
	}
	return err
}

// AddSection enrolls in (or waitlists) a section and then clears it from
// every plan, the same sequence the portal's UI goes through. With validate
// set, a failed validation stops before anything is submitted.
func (c *Client) AddSection(ctx context.Context, kind AddKind, add EnrollWaitAdd, validate bool) error {
	ctx, span := tracer.Start(ctx, "client:AddSection")
	defer span.End()

	if validate {
		err := c.ValidateAddSection(ctx, kind, add)
		if err != nil {
			return err
		}
	} else if strings.TrimSpace(add.SectionId) == "" {
		err := &InputError{Field: "section id", Message: "is empty"}
		c.report(report_client_add_section, err)
		return err
	}

	_, addEndpoint, _ := kind.endpoints()
	err := c.postForm(ctx, addEndpoint, c.enrollForm(add))
	if err != nil {
		c.report(report_client_add_section, fmt.Errorf("%s %s: %w", kind, add.SectionId, err))
		return err
	}

	err = c.postForm(ctx, EndpointPlanRemoveAll, url.Values{
		"sectnum":  {add.SectionId},
		"termcode": {c.Term()},
	})
	if err != nil {
		c.report(report_client_add_section, fmt.Errorf("remove %s from plans: %w", add.SectionId, err))
	}
	return err
}

// DropSection drops an enrolled section (AddEnroll) or leaves a waitlist
// (AddWaitlist).
func (c *Client) DropSection(ctx context.Context, kind AddKind, sectionId string) error {
	ctx, span := tracer.Start(ctx, "client:DropSection")
	defer span.End()

	_, _, drop := kind.endpoints()
	err := c.postForm(ctx, drop, url.Values{
		"subjcode": {""},
		"crsecode": {""},
		"section":  {sectionId},
		"termcode": {c.Term()},
	})
	if err != nil {
		c.report(report_client_drop_section, fmt.Errorf("%s %s: %w", kind, sectionId, err))
	}
	return err
}
