package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type QuestionType string

const (
	QuestionMCQ       QuestionType = "MCQ"
	QuestionTrueFalse QuestionType = "TRUE_FALSE"
	QuestionShortText QuestionType = "SHORT_TEXT"
)

// Answer is a question answer tagged by question type: a choice index for
// MCQ, a bool for TRUE_FALSE, free text for SHORT_TEXT. The wire value is
// just the bare scalar; the owning question's type decides how to read it.
type Answer struct {
	qtype   QuestionType
	index   int
	boolean bool
	text    string
}

func AnswerIndex(i int) Answer   { return Answer{qtype: QuestionMCQ, index: i} }
func AnswerBool(b bool) Answer   { return Answer{qtype: QuestionTrueFalse, boolean: b} }
func AnswerText(s string) Answer { return Answer{qtype: QuestionShortText, text: s} }

func (a Answer) Type() QuestionType { return a.qtype }

func (a Answer) Index() (int, bool) {
	return a.index, a.qtype == QuestionMCQ
}

func (a Answer) Bool() (bool, bool) {
	return a.boolean, a.qtype == QuestionTrueFalse
}

func (a Answer) Text() (string, bool) {
	return a.text, a.qtype == QuestionShortText
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.qtype {
	case QuestionMCQ:
		return json.Marshal(a.index)
	case QuestionTrueFalse:
		return json.Marshal(a.boolean)
	case QuestionShortText:
		return json.Marshal(a.text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON always fails: a bare answer value is ambiguous without its
// question type. Decode through ResolveAnswer or Question instead.
func (a *Answer) UnmarshalJSON([]byte) error {
	return fmt.Errorf("api: answer cannot be decoded without its question type")
}

// ResolveAnswer reads a raw wire value under a known question type and
// rejects mismatched shapes (e.g. a string where an MCQ index belongs).
func ResolveAnswer(qt QuestionType, raw json.RawMessage) (Answer, error) {
	switch qt {
	case QuestionMCQ:
		var num json.Number
		if err := json.Unmarshal(raw, &num); err != nil {
			return Answer{}, fmt.Errorf("api: MCQ answer must be an index: %w", err)
		}
		idx, err := num.Int64()
		if err != nil {
			return Answer{}, fmt.Errorf("api: MCQ answer must be an integer index: %w", err)
		}
		return AnswerIndex(int(idx)), nil
	case QuestionTrueFalse:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return Answer{}, fmt.Errorf("api: TRUE_FALSE answer must be a bool: %w", err)
		}
		return AnswerBool(b), nil
	case QuestionShortText:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Answer{}, fmt.Errorf("api: SHORT_TEXT answer must be a string: %w", err)
		}
		return AnswerText(s), nil
	default:
		return Answer{}, fmt.Errorf("api: unknown question type %q", qt)
	}
}

type Question struct {
	ID      string       `json:"id"`
	QuizID  string       `json:"quizId"`
	Type    QuestionType `json:"type"`
	Prompt  string       `json:"prompt"`
	Choices []string     `json:"choices,omitempty"`
	Points  int          `json:"points"`
	// CorrectAnswer is absent when the backend hides it (students taking
	// the quiz).
	CorrectAnswer *Answer `json:"-"`
}

type questionWire struct {
	ID            string          `json:"id"`
	QuizID        string          `json:"quizId"`
	Type          QuestionType    `json:"type"`
	Prompt        string          `json:"prompt"`
	Choices       []string        `json:"choices,omitempty"`
	Points        int             `json:"points"`
	CorrectAnswer json.RawMessage `json:"correctAnswer,omitempty"`
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var wire questionWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	q.ID = wire.ID
	q.QuizID = wire.QuizID
	q.Type = wire.Type
	q.Prompt = wire.Prompt
	q.Choices = wire.Choices
	q.Points = wire.Points
	q.CorrectAnswer = nil
	if len(wire.CorrectAnswer) > 0 && string(wire.CorrectAnswer) != "null" {
		answer, err := ResolveAnswer(wire.Type, wire.CorrectAnswer)
		if err != nil {
			return err
		}
		q.CorrectAnswer = &answer
	}
	return nil
}

func (q Question) MarshalJSON() ([]byte, error) {
	wire := questionWire{
		ID:      q.ID,
		QuizID:  q.QuizID,
		Type:    q.Type,
		Prompt:  q.Prompt,
		Choices: q.Choices,
		Points:  q.Points,
	}
	if q.CorrectAnswer != nil {
		if q.CorrectAnswer.Type() != q.Type {
			return nil, fmt.Errorf("api: answer type %q does not match question type %q", q.CorrectAnswer.Type(), q.Type)
		}
		raw, err := json.Marshal(q.CorrectAnswer)
		if err != nil {
			return nil, err
		}
		wire.CorrectAnswer = raw
	}
	return json.Marshal(wire)
}

type Quiz struct {
	ID              string `json:"id"`
	CourseID        string `json:"courseId"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"durationMinutes"`
	StartAt         int64  `json:"startAt,omitempty"`
	Published       bool   `json:"published"`
}

type Attempt struct {
	ID          string `json:"id"`
	QuizID      string `json:"quizId"`
	StudentID   string `json:"studentId"`
	StartedAt   int64  `json:"startedAt"`
	ExpiresAt   int64  `json:"expiresAt"`
	SubmittedAt int64  `json:"submittedAt,omitempty"`
}

type AttemptAnswer struct {
	QuestionID string `json:"questionId"`
	Answer     Answer `json:"answer"`
}

type Result struct {
	AttemptID   string  `json:"attemptId"`
	QuizID      string  `json:"quizId"`
	StudentID   string  `json:"studentId"`
	Score       float64 `json:"score"`
	MaxScore    float64 `json:"maxScore"`
	Autograded  bool    `json:"autograded"`
	CompletedOn int64   `json:"completedOn,omitempty"`
}

type QuestionStat struct {
	QuestionID string `json:"questionId"`
	Correct    int    `json:"correct"`
	Incorrect  int    `json:"incorrect"`
	Skipped    int    `json:"skipped"`
}

type Analytics struct {
	Attempts     int            `json:"attempts"`
	AverageScore float64        `json:"averageScore"`
	BestScore    float64        `json:"bestScore"`
	WorstScore   float64        `json:"worstScore"`
	PerQuestion  []QuestionStat `json:"perQuestion,omitempty"`
}

// QuizzesService serves both quizzes and exams; the two families share their
// shape and differ only in base path.
type QuizzesService struct {
	client   *Client
	basePath string
}

func (s *QuizzesService) List(ctx context.Context, courseID string) ([]Quiz, error) {
	var quizzes []Quiz
	if err := s.client.getJSON(ctx, "courses/"+courseID+"/"+s.basePath, nil, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (s *QuizzesService) Get(ctx context.Context, id string) (*Quiz, error) {
	var quiz Quiz
	if err := s.client.getJSON(ctx, s.basePath+"/"+id, nil, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

type CreateQuizParams struct {
	Title           string `json:"title"`
	DurationMinutes int    `json:"durationMinutes"`
	StartAt         int64  `json:"startAt,omitempty"`
}

func (s *QuizzesService) Create(ctx context.Context, courseID string, params CreateQuizParams) (*Quiz, error) {
	var quiz Quiz
	if err := s.client.sendJSON(ctx, http.MethodPost, "courses/"+courseID+"/"+s.basePath, params, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (s *QuizzesService) Delete(ctx context.Context, id string) error {
	return s.client.sendJSON(ctx, http.MethodDelete, s.basePath+"/"+id, nil, nil)
}

func (s *QuizzesService) SetPublished(ctx context.Context, id string, published bool) (*Quiz, error) {
	var quiz Quiz
	err := s.client.sendJSON(ctx, http.MethodPatch, s.basePath+"/"+id+"/publish", map[string]bool{
		"published": published,
	}, &quiz)
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// Questions

func (s *QuizzesService) ListQuestions(ctx context.Context, quizID string) ([]Question, error) {
	var questions []Question
	if err := s.client.getJSON(ctx, s.basePath+"/"+quizID+"/questions", nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (s *QuizzesService) AddQuestion(ctx context.Context, quizID string, question Question) (*Question, error) {
	var created Question
	if err := s.client.sendJSON(ctx, http.MethodPost, s.basePath+"/"+quizID+"/questions", question, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *QuizzesService) DeleteQuestion(ctx context.Context, quizID, questionID string) error {
	return s.client.sendJSON(ctx, http.MethodDelete, s.basePath+"/"+quizID+"/questions/"+questionID, nil, nil)
}

// Attempts

func (s *QuizzesService) StartAttempt(ctx context.Context, quizID string) (*Attempt, error) {
	var attempt Attempt
	if err := s.client.sendJSON(ctx, http.MethodPost, s.basePath+"/"+quizID+"/attempts", nil, &attempt); err != nil {
		return nil, err
	}
	return &attempt, nil
}

// SaveAnswers replaces the attempt's stored answers. The quiz UI calls this
// periodically as an autosave while the countdown runs.
func (s *QuizzesService) SaveAnswers(ctx context.Context, attemptID string, answers []AttemptAnswer) error {
	return s.client.sendJSON(ctx, http.MethodPut, s.basePath+"/attempts/"+attemptID+"/answers", map[string]interface{}{
		"answers": answers,
	}, nil)
}

func (s *QuizzesService) SubmitAttempt(ctx context.Context, attemptID string) (*Result, error) {
	var result Result
	if err := s.client.sendJSON(ctx, http.MethodPost, s.basePath+"/attempts/"+attemptID+"/submit", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *QuizzesService) Results(ctx context.Context, quizID string) ([]Result, error) {
	var results []Result
	if err := s.client.getJSON(ctx, s.basePath+"/"+quizID+"/results", nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *QuizzesService) Analytics(ctx context.Context, quizID string) (*Analytics, error) {
	var analytics Analytics
	if err := s.client.getJSON(ctx, s.basePath+"/"+quizID+"/analytics", nil, &analytics); err != nil {
		return nil, err
	}
	return &analytics, nil
}

// ExportCSV downloads the results export. The backend serves it as text/csv.
func (s *QuizzesService) ExportCSV(ctx context.Context, quizID string) ([]byte, error) {
	resp, err := s.client.Do(ctx, Request{Method: http.MethodGet, Path: s.basePath + "/" + quizID + "/export"})
	if err != nil {
		return nil, err
	}
	if text, ok := resp.Body.Text(); ok {
		return []byte(text), nil
	}
	if data, ok := resp.Body.Binary(); ok {
		return data, nil
	}
	return nil, fmt.Errorf("api: unexpected export body")
}
