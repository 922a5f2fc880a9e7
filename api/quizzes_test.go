package api

import (
	"encoding/json"
	"testing"
)

func TestQuestionUnmarshalResolvesAnswerByType(t *testing.T) {
	var q Question
	data := `{"id":"q1","quizId":"z1","type":"MCQ","prompt":"2+2?","choices":["3","4","5"],"points":2,"correctAnswer":1}`
	if err := json.Unmarshal([]byte(data), &q); err != nil {
		t.Fatalf("unmarshal mcq: %v", err)
	}
	if q.CorrectAnswer == nil {
		t.Fatalf("expected correct answer")
	}
	if idx, ok := q.CorrectAnswer.Index(); !ok || idx != 1 {
		t.Fatalf("expected index 1, got %v %v", idx, ok)
	}
	if _, ok := q.CorrectAnswer.Bool(); ok {
		t.Fatalf("mcq answer must not read as bool")
	}

	var tf Question
	data = `{"id":"q2","quizId":"z1","type":"TRUE_FALSE","prompt":"sky is blue","points":1,"correctAnswer":true}`
	if err := json.Unmarshal([]byte(data), &tf); err != nil {
		t.Fatalf("unmarshal true/false: %v", err)
	}
	if b, ok := tf.CorrectAnswer.Bool(); !ok || !b {
		t.Fatalf("expected true, got %v %v", b, ok)
	}

	var st Question
	data = `{"id":"q3","quizId":"z1","type":"SHORT_TEXT","prompt":"capital of France","points":1,"correctAnswer":"Paris"}`
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		t.Fatalf("unmarshal short text: %v", err)
	}
	if text, ok := st.CorrectAnswer.Text(); !ok || text != "Paris" {
		t.Fatalf("expected Paris, got %q %v", text, ok)
	}
}

func TestQuestionUnmarshalRejectsMismatchedShapes(t *testing.T) {
	cases := []string{
		`{"id":"q","type":"MCQ","prompt":"p","correctAnswer":"one"}`,
		`{"id":"q","type":"MCQ","prompt":"p","correctAnswer":1.5}`,
		`{"id":"q","type":"TRUE_FALSE","prompt":"p","correctAnswer":"yes"}`,
		`{"id":"q","type":"SHORT_TEXT","prompt":"p","correctAnswer":3}`,
		`{"id":"q","type":"ESSAY","prompt":"p","correctAnswer":"x"}`,
	}
	for _, data := range cases {
		var q Question
		if err := json.Unmarshal([]byte(data), &q); err == nil {
			t.Fatalf("expected error for %s", data)
		}
	}
}

func TestQuestionUnmarshalWithoutAnswer(t *testing.T) {
	var q Question
	data := `{"id":"q1","quizId":"z1","type":"MCQ","prompt":"p","choices":["a","b"],"points":1}`
	if err := json.Unmarshal([]byte(data), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if q.CorrectAnswer != nil {
		t.Fatalf("hidden answer must stay nil")
	}
}

func TestQuestionMarshalRoundTrip(t *testing.T) {
	answer := AnswerIndex(2)
	q := Question{
		ID:            "q1",
		QuizID:        "z1",
		Type:          QuestionMCQ,
		Prompt:        "pick",
		Choices:       []string{"a", "b", "c"},
		Points:        3,
		CorrectAnswer: &answer,
	}
	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Question
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if idx, ok := back.CorrectAnswer.Index(); !ok || idx != 2 {
		t.Fatalf("round trip lost the answer: %v %v", idx, ok)
	}
}

func TestQuestionMarshalRejectsTypeMismatch(t *testing.T) {
	answer := AnswerText("four")
	q := Question{ID: "q1", Type: QuestionMCQ, Prompt: "2+2?", CorrectAnswer: &answer}
	if _, err := json.Marshal(q); err == nil {
		t.Fatalf("expected marshal error for mismatched answer type")
	}
}

func TestAttemptAnswerMarshal(t *testing.T) {
	answers := []AttemptAnswer{
		{QuestionID: "q1", Answer: AnswerIndex(0)},
		{QuestionID: "q2", Answer: AnswerBool(false)},
		{QuestionID: "q3", Answer: AnswerText("Paris")},
	}
	data, err := json.Marshal(answers)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"questionId":"q1","answer":0},{"questionId":"q2","answer":false},{"questionId":"q3","answer":"Paris"}]`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}
