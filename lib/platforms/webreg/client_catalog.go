package webreg

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

const (
	report_client_get_course_info      = "client.get-course-info"
	report_client_get_enrollment_count = "client.get-enrollment-count"
	report_client_get_prerequisites    = "client.get-prerequisites"
	report_client_get_department_codes = "client.get-department-codes"
	report_client_get_subject_codes    = "client.get-subject-codes"
	report_client_search_courses       = "client.search-courses"
	report_client_search_detailed      = "client.search-courses-detailed"
)

func (c *Client) courseParams(subject, course string) url.Values {
	return url.Values{
		"subjcode": {strings.ToUpper(strings.TrimSpace(subject))},
		"crsecode": {FormatCourseCode(strings.ToUpper(strings.TrimSpace(course)))},
		"termcode": {c.Term()},
		"_":        {c.epochMillis()},
	}
}

func (c *Client) getCourseRows(ctx context.Context, subject, course string) ([]RawWebRegMeeting, error) {
	return getJson[[]RawWebRegMeeting](ctx, c, EndpointCourseData, c.courseParams(subject, course))
}

// GetCourseInfo returns every section of a course, ex. GetCourseInfo(ctx,
// "CSE", "100").
func (c *Client) GetCourseInfo(ctx context.Context, subject, course string) ([]Section, error) {
	ctx, span := tracer.Start(ctx, "client:GetCourseInfo")
	defer span.End()

	subjectCourseId := FormatSubjectCourseId(subject, course)
	span.SetAttributes(attribute.String("webreg.course", subjectCourseId))

	rows, err := c.getCourseRows(ctx, subject, course)
	if err != nil {
		c.report(report_client_get_course_info, fmt.Errorf("%s: %w", subjectCourseId, err))
		return nil, err
	}
	sections, err := GroupCourseSections(subjectCourseId, rows, c.tel)
	if err != nil {
		c.report(report_client_get_course_info, fmt.Errorf("%s: %w", subjectCourseId, err))
		return nil, err
	}
	return sections, nil
}

// GetEnrollmentCount is a lighter GetCourseInfo that only fills in counts
// and instructors, Meetings is always empty.
func (c *Client) GetEnrollmentCount(ctx context.Context, subject, course string) ([]Section, error) {
	ctx, span := tracer.Start(ctx, "client:GetEnrollmentCount")
	defer span.End()

	subjectCourseId := FormatSubjectCourseId(subject, course)
	rows, err := c.getCourseRows(ctx, subject, course)
	if err != nil {
		c.report(report_client_get_enrollment_count, fmt.Errorf("%s: %w", subjectCourseId, err))
		return nil, err
	}
	return ProjectEnrollmentCounts(subjectCourseId, rows), nil
}

func parsePrerequisites(rows []RawPrerequisite) PrerequisiteInfo {
	var info PrerequisiteInfo
	bySeq := map[string]int{}
	for _, row := range rows {
		switch strings.TrimSpace(row.Type) {
		case "TEST":
			info.ExamReqs = append(info.ExamReqs, strings.TrimSpace(row.TestTitle))
		case "COURSE":
			req := CoursePrerequisite{
				SubjectCode: strings.TrimSpace(row.SubjectCode),
				CourseCode:  strings.TrimSpace(row.CourseCode),
				CourseTitle: strings.TrimSpace(row.CourseTitle),
			}
			seq := strings.TrimSpace(row.PrereqSeqId)
			idx, ok := bySeq[seq]
			if !ok {
				idx = len(info.CourseReqs)
				bySeq[seq] = idx
				info.CourseReqs = append(info.CourseReqs, nil)
			}
			info.CourseReqs[idx] = append(info.CourseReqs[idx], req)
		}
	}
	return info
}

// GetPrerequisites returns the course and exam prerequisites of a course.
func (c *Client) GetPrerequisites(ctx context.Context, subject, course string) (PrerequisiteInfo, error) {
	ctx, span := tracer.Start(ctx, "client:GetPrerequisites")
	defer span.End()

	rows, err := getJson[[]RawPrerequisite](ctx, c, EndpointPrerequisites, c.courseParams(subject, course))
	if err != nil {
		c.report(report_client_get_prerequisites, err)
		return PrerequisiteInfo{}, err
	}
	return parsePrerequisites(rows), nil
}

func (c *Client) termParams() url.Values {
	return url.Values{
		"termcode": {c.Term()},
		"_":        {c.epochMillis()},
	}
}

// GetDepartmentCodes lists the departments offering courses this term.
func (c *Client) GetDepartmentCodes(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "client:GetDepartmentCodes")
	defer span.End()

	rows, err := getJson[[]RawDepartmentElement](ctx, c, EndpointDepartmentList, c.termParams())
	if err != nil {
		c.report(report_client_get_department_codes, err)
		return nil, err
	}
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = strings.TrimSpace(row.DepartmentCode)
	}
	return out, nil
}

// GetSubjectCodes lists the subjects with at least one course this term.
func (c *Client) GetSubjectCodes(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "client:GetSubjectCodes")
	defer span.End()

	rows, err := getJson[[]RawSubjectElement](ctx, c, EndpointSubjectList, c.termParams())
	if err != nil {
		c.report(report_client_get_subject_codes, err)
		return nil, err
	}
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = strings.TrimSpace(row.SubjectCode)
	}
	return out, nil
}

// SearchCourses runs a search and returns the matching courses as the portal
// gives them.
func (c *Client) SearchCourses(ctx context.Context, filter SearchFilter) ([]RawWebRegSearchResultItem, error) {
	ctx, span := tracer.Start(ctx, "client:SearchCourses")
	defer span.End()

	params := filter.params(c.Term())
	if filter.endpoint() == EndpointSearch {
		params.Set("_", c.epochMillis())
	}
	items, err := getJson[[]RawWebRegSearchResultItem](ctx, c, filter.endpoint(), params)
	if err != nil {
		c.report(report_client_search_courses, err)
		return nil, err
	}
	return items, nil
}

// SearchCoursesDetailed runs a search and then fetches the sections of
// every course found, one course at a time. When searching by section id
// only the sections with those ids are kept.
//
// This makes one request per course found, it stops at the first course
// that fails and returns what it has so far along with the error.
func (c *Client) SearchCoursesDetailed(ctx context.Context, filter SearchFilter) ([]Section, error) {
	ctx, span := tracer.Start(ctx, "client:SearchCoursesDetailed")
	defer span.End()

	items, err := c.SearchCourses(ctx, filter)
	if err != nil {
		return nil, err
	}

	keep := filter.sectionIds()
	var out []Section
	for _, item := range items {
		sections, err := c.GetCourseInfo(ctx, strings.TrimSpace(item.SubjectCode), strings.TrimSpace(item.CourseCode))
		if err != nil {
			c.report(report_client_search_detailed, err)
			return out, err
		}
		for _, s := range sections {
			if keep != nil && !slices.Contains(keep, trimZeros(s.SectionId)) {
				continue
			}
			out = append(out, s)
		}
	}
	return out, nil
}
