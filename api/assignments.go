package api

import (
	"context"
	"io"
	"net/http"
)

type Assignment struct {
	ID          string `json:"id"`
	CourseID    string `json:"courseId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueAt       int64  `json:"dueAt,omitempty"`
	MaxScore    int    `json:"maxScore"`
	Published   bool   `json:"published"`
}

type AssignmentResource struct {
	ID           string `json:"id"`
	AssignmentID string `json:"assignmentId"`
	Filename     string `json:"filename"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
}

type Submission struct {
	ID           string `json:"id"`
	AssignmentID string `json:"assignmentId"`
	StudentID    string `json:"studentId"`
	Filename     string `json:"filename"`
	Comment      string `json:"comment,omitempty"`
	SubmittedOn  int64  `json:"submittedOn"`
}

type Review struct {
	ID           string `json:"id"`
	SubmissionID string `json:"submissionId"`
	ReviewerID   string `json:"reviewerId"`
	Score        int    `json:"score"`
	Feedback     string `json:"feedback,omitempty"`
	ReviewedOn   int64  `json:"reviewedOn"`
}

type AssignmentsService struct {
	client *Client
}

func (s *AssignmentsService) List(ctx context.Context, courseID string) ([]Assignment, error) {
	var assignments []Assignment
	if err := s.client.getJSON(ctx, "courses/"+courseID+"/assignments", nil, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (s *AssignmentsService) Get(ctx context.Context, id string) (*Assignment, error) {
	var assignment Assignment
	if err := s.client.getJSON(ctx, "assignments/"+id, nil, &assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

type CreateAssignmentParams struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueAt       int64  `json:"dueAt,omitempty"`
	MaxScore    int    `json:"maxScore"`
}

func (s *AssignmentsService) Create(ctx context.Context, courseID string, params CreateAssignmentParams) (*Assignment, error) {
	var assignment Assignment
	if err := s.client.sendJSON(ctx, http.MethodPost, "courses/"+courseID+"/assignments", params, &assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

type UpdateAssignmentParams struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueAt       *int64  `json:"dueAt,omitempty"`
	MaxScore    *int    `json:"maxScore,omitempty"`
}

func (s *AssignmentsService) Update(ctx context.Context, id string, params UpdateAssignmentParams) (*Assignment, error) {
	var assignment Assignment
	if err := s.client.sendJSON(ctx, http.MethodPatch, "assignments/"+id, params, &assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (s *AssignmentsService) Delete(ctx context.Context, id string) error {
	return s.client.sendJSON(ctx, http.MethodDelete, "assignments/"+id, nil, nil)
}

func (s *AssignmentsService) SetPublished(ctx context.Context, id string, published bool) (*Assignment, error) {
	var assignment Assignment
	err := s.client.sendJSON(ctx, http.MethodPatch, "assignments/"+id+"/publish", map[string]bool{
		"published": published,
	}, &assignment)
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Resources

func (s *AssignmentsService) UploadResource(ctx context.Context, id, filename string, content io.Reader) (*AssignmentResource, error) {
	form := NewMultipart().File("file", filename, content)
	var resource AssignmentResource
	if err := s.client.sendMultipart(ctx, "assignments/"+id+"/resources", form, &resource); err != nil {
		return nil, err
	}
	return &resource, nil
}

func (s *AssignmentsService) ListResources(ctx context.Context, id string) ([]AssignmentResource, error) {
	var resources []AssignmentResource
	if err := s.client.getJSON(ctx, "assignments/"+id+"/resources", nil, &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

// Submissions

type SubmitParams struct {
	Filename string
	Content  io.Reader
	Comment  string
}

func (s *AssignmentsService) Submit(ctx context.Context, id string, params SubmitParams) (*Submission, error) {
	form := NewMultipart().File("file", params.Filename, params.Content)
	if params.Comment != "" {
		form.Field("comment", params.Comment)
	}
	var submission Submission
	if err := s.client.sendMultipart(ctx, "assignments/"+id+"/submissions", form, &submission); err != nil {
		return nil, err
	}
	return &submission, nil
}

func (s *AssignmentsService) ListSubmissions(ctx context.Context, id string) ([]Submission, error) {
	var submissions []Submission
	if err := s.client.getJSON(ctx, "assignments/"+id+"/submissions", nil, &submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}

// Reviews

type ReviewParams struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback,omitempty"`
}

func (s *AssignmentsService) Review(ctx context.Context, submissionID string, params ReviewParams) (*Review, error) {
	var review Review
	if err := s.client.sendJSON(ctx, http.MethodPost, "submissions/"+submissionID+"/reviews", params, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *AssignmentsService) ListReviews(ctx context.Context, submissionID string) ([]Review, error) {
	var reviews []Review
	if err := s.client.getJSON(ctx, "submissions/"+submissionID+"/reviews", nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}
