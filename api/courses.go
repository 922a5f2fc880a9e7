package api

import (
	"context"
	"net/http"

	"campus/client/roster"
)

type Course struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	InstructorID string `json:"instructorId,omitempty"`
	Published    bool   `json:"published"`
	CreatedOn    int64  `json:"createdOn,omitempty"`
}

// CourseSession is one scheduled meeting of a course; attendance is recorded
// per session.
type CourseSession struct {
	ID       string `json:"id"`
	CourseID string `json:"courseId"`
	Topic    string `json:"topic,omitempty"`
	StartAt  int64  `json:"startAt"`
	EndAt    int64  `json:"endAt"`
}

type Enrollment struct {
	ID         string        `json:"id"`
	CourseID   string        `json:"courseId"`
	Student    roster.Member `json:"student"`
	EnrolledOn int64         `json:"enrolledOn,omitempty"`
}

type CoursesService struct {
	client *Client
}

func (s *CoursesService) List(ctx context.Context) ([]Course, error) {
	var courses []Course
	if err := s.client.getJSON(ctx, "courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *CoursesService) Get(ctx context.Context, id string) (*Course, error) {
	var course Course
	if err := s.client.getJSON(ctx, "courses/"+id, nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

type CreateCourseParams struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func (s *CoursesService) Create(ctx context.Context, params CreateCourseParams) (*Course, error) {
	var course Course
	if err := s.client.sendJSON(ctx, http.MethodPost, "courses", params, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

type UpdateCourseParams struct {
	Code        *string `json:"code,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Published   *bool   `json:"published,omitempty"`
}

func (s *CoursesService) Update(ctx context.Context, id string, params UpdateCourseParams) (*Course, error) {
	var course Course
	if err := s.client.sendJSON(ctx, http.MethodPatch, "courses/"+id, params, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *CoursesService) Delete(ctx context.Context, id string) error {
	return s.client.sendJSON(ctx, http.MethodDelete, "courses/"+id, nil, nil)
}

// Sessions

func (s *CoursesService) ListSessions(ctx context.Context, courseID string) ([]CourseSession, error) {
	var sessions []CourseSession
	if err := s.client.getJSON(ctx, "courses/"+courseID+"/sessions", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

type CreateSessionParams struct {
	Topic   string `json:"topic,omitempty"`
	StartAt int64  `json:"startAt"`
	EndAt   int64  `json:"endAt"`
}

func (s *CoursesService) CreateSession(ctx context.Context, courseID string, params CreateSessionParams) (*CourseSession, error) {
	var session CourseSession
	if err := s.client.sendJSON(ctx, http.MethodPost, "courses/"+courseID+"/sessions", params, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Enrollments

func (s *CoursesService) ListEnrollments(ctx context.Context, courseID string) ([]Enrollment, error) {
	var enrollments []Enrollment
	if err := s.client.getJSON(ctx, "courses/"+courseID+"/enrollments", nil, &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (s *CoursesService) Enroll(ctx context.Context, courseID, studentID string) (*Enrollment, error) {
	var enrollment Enrollment
	err := s.client.sendJSON(ctx, http.MethodPost, "courses/"+courseID+"/enrollments", map[string]string{
		"studentId": studentID,
	}, &enrollment)
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (s *CoursesService) Unenroll(ctx context.Context, courseID, studentID string) error {
	return s.client.sendJSON(ctx, http.MethodDelete, "courses/"+courseID+"/enrollments/"+studentID, nil, nil)
}

func (s *CoursesService) ListStudents(ctx context.Context, courseID string) ([]roster.Member, error) {
	var students []roster.Member
	if err := s.client.getJSON(ctx, "courses/"+courseID+"/students", nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// Instructors

func (s *CoursesService) ListInstructors(ctx context.Context, courseID string) ([]User, error) {
	var instructors []User
	if err := s.client.getJSON(ctx, "courses/"+courseID+"/instructors", nil, &instructors); err != nil {
		return nil, err
	}
	return instructors, nil
}

func (s *CoursesService) AssignInstructor(ctx context.Context, courseID, instructorID string) error {
	return s.client.sendJSON(ctx, http.MethodPost, "courses/"+courseID+"/instructors", map[string]string{
		"instructorId": instructorID,
	}, nil)
}

func (s *CoursesService) RemoveInstructor(ctx context.Context, courseID, instructorID string) error {
	return s.client.sendJSON(ctx, http.MethodDelete, "courses/"+courseID+"/instructors/"+instructorID, nil, nil)
}
