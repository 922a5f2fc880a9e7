package api

import (
	"context"
	"net/url"
	"strconv"
)

type AdminStudent struct {
	User            User    `json:"user"`
	EnrolledCourses int     `json:"enrolledCourses"`
	AverageScore    float64 `json:"averageScore"`
	AttendanceRate  float64 `json:"attendanceRate"`
}

type StudentReport struct {
	Student    User      `json:"student"`
	Courses    []Course  `json:"courses"`
	Attendance []Summary `json:"attendance"`
	Results    []Result  `json:"results"`
}

type Subscriber struct {
	Email        string `json:"email"`
	SubscribedOn int64  `json:"subscribedOn"`
}

// AdminService covers the admin reporting surface. All endpoints require the
// ADMIN role; anything else comes back as a RequestFailed with the server's
// message.
type AdminService struct {
	client *Client
}

type AdminStudentsParams struct {
	Search string
	Page   int
	Limit  int
}

func (s *AdminService) Students(ctx context.Context, params AdminStudentsParams) ([]AdminStudent, error) {
	q := url.Values{}
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	var students []AdminStudent
	if err := s.client.getJSON(ctx, "admin/students", q, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (s *AdminService) StudentReport(ctx context.Context, studentID string) (*StudentReport, error) {
	var report StudentReport
	if err := s.client.getJSON(ctx, "admin/students/"+studentID+"/report", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// StudentReportPDF downloads the rendered report. PDF generation is the
// backend's concern; the client only carries the bytes.
func (s *AdminService) StudentReportPDF(ctx context.Context, studentID string) ([]byte, error) {
	return s.client.getBinary(ctx, "admin/students/"+studentID+"/report/pdf", nil)
}

func (s *AdminService) Subscribers(ctx context.Context) ([]Subscriber, error) {
	var subscribers []Subscriber
	if err := s.client.getJSON(ctx, "admin/subscribers", nil, &subscribers); err != nil {
		return nil, err
	}
	return subscribers, nil
}

func (s *AdminService) SubscribersPDF(ctx context.Context) ([]byte, error) {
	return s.client.getBinary(ctx, "admin/subscribers/pdf", nil)
}
