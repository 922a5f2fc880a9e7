package api

import (
	"context"
	"net/http"

	"campus/client/roster"
)

// AttendanceService covers the attendance endpoint family: session-scoped
// bulk upsert plus the per-student, per-course and school-wide summaries.
type AttendanceService struct {
	client *Client
}

// RecordUpsert is one row of a bulk save. Rows whose student has no stored
// record yet are created; the rest are updated in place.
type RecordUpsert struct {
	StudentID string        `json:"studentId"`
	Status    roster.Status `json:"status"`
	Note      string        `json:"note,omitempty"`
}

func (s *AttendanceService) BulkUpsert(ctx context.Context, sessionID string, records []RecordUpsert) ([]roster.Record, error) {
	var saved []roster.Record
	err := s.client.sendJSON(ctx, http.MethodPost, "attendance/sessions/"+sessionID+"/records", map[string]interface{}{
		"records": records,
	}, &saved)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *AttendanceService) SessionRecords(ctx context.Context, sessionID string) ([]roster.Record, error) {
	var records []roster.Record
	if err := s.client.getJSON(ctx, "attendance/sessions/"+sessionID+"/records", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Sheet fetches the course enrollments and the session's stored records,
// then reconciles them so every enrolled student appears exactly once even
// before anything has been recorded.
func (s *AttendanceService) Sheet(ctx context.Context, courseID, sessionID string) ([]roster.Entry, error) {
	enrollments, err := s.client.Courses.ListEnrollments(ctx, courseID)
	if err != nil {
		return nil, err
	}
	records, err := s.SessionRecords(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	members := make([]roster.Member, 0, len(enrollments))
	for _, e := range enrollments {
		members = append(members, e.Student)
	}
	return roster.Reconcile(members, records), nil
}

type Summary struct {
	StudentID string `json:"studentId"`
	CourseID  string `json:"courseId,omitempty"`
	Sessions  int    `json:"sessions"`
	Present   int    `json:"present"`
	Absent    int    `json:"absent"`
	Late      int    `json:"late"`
	Excused   int    `json:"excused"`
}

func (s *AttendanceService) StudentCourseSummary(ctx context.Context, courseID, studentID string) (*Summary, error) {
	var summary Summary
	if err := s.client.getJSON(ctx, "attendance/courses/"+courseID+"/students/"+studentID+"/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *AttendanceService) CourseSummary(ctx context.Context, courseID string) ([]Summary, error) {
	var summaries []Summary
	if err := s.client.getJSON(ctx, "attendance/courses/"+courseID+"/summary", nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (s *AttendanceService) AllStudentsSummary(ctx context.Context) ([]Summary, error) {
	var summaries []Summary
	if err := s.client.getJSON(ctx, "attendance/students/summary", nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}
