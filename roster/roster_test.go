package roster

import (
	"reflect"
	"testing"
)

func members(ids ...string) []Member {
	out := make([]Member, 0, len(ids))
	for _, id := range ids {
		out = append(out, Member{StudentID: id, Email: id + "@demo.local"})
	}
	return out
}

func TestReconcileCompleteness(t *testing.T) {
	ms := members("a", "b", "c", "d")
	recs := []Record{
		{ID: "r1", StudentID: "b", Status: StatusPresent},
		{ID: "r2", StudentID: "d", Status: StatusExcused, Note: "doctor"},
	}

	entries := Reconcile(ms, recs)
	if len(entries) != len(ms) {
		t.Fatalf("expected %d entries, got %d", len(ms), len(entries))
	}
	for i, e := range entries {
		if e.Member.StudentID != ms[i].StudentID {
			t.Fatalf("entry %d out of membership order: %s", i, e.Member.StudentID)
		}
	}
	if !reflect.DeepEqual(entries[1].Record, recs[0]) {
		t.Fatalf("recorded row altered: %+v", entries[1].Record)
	}
	if !reflect.DeepEqual(entries[3].Record, recs[1]) {
		t.Fatalf("recorded row altered: %+v", entries[3].Record)
	}
	for _, i := range []int{0, 2} {
		rec := entries[i].Record
		if rec.ID != "" || rec.Status != StatusNotRecorded || rec.Note != "" {
			t.Fatalf("expected default row at %d, got %+v", i, rec)
		}
		if rec.StudentID != entries[i].Member.StudentID {
			t.Fatalf("default row references wrong student: %+v", rec)
		}
		if entries[i].Recorded() {
			t.Fatalf("default row must not report as recorded")
		}
	}
	if !entries[1].Recorded() {
		t.Fatalf("stored row must report as recorded")
	}
}

func TestReconcileExample(t *testing.T) {
	ms := members("A", "B", "C")
	recs := []Record{{ID: "given", StudentID: "B", Status: StatusLate}}

	entries := Reconcile(ms, recs)
	want := []struct {
		student string
		status  Status
		id      string
	}{
		{"A", StatusNotRecorded, ""},
		{"B", StatusLate, "given"},
		{"C", StatusNotRecorded, ""},
	}
	for i, w := range want {
		got := entries[i].Record
		if got.StudentID != w.student || got.Status != w.status || got.ID != w.id {
			t.Fatalf("entry %d: got %+v, want %+v", i, got, w)
		}
	}
}

func TestReconcileIdempotence(t *testing.T) {
	ms := members("x", "y", "z")

	fromEmpty := Reconcile(ms, nil)
	defaults := make([]Record, 0, len(fromEmpty))
	for _, e := range fromEmpty {
		defaults = append(defaults, e.Record)
	}
	fromDefaults := Reconcile(ms, defaults)

	if !reflect.DeepEqual(fromEmpty, fromDefaults) {
		t.Fatalf("reconciling defaults diverged:\n%+v\n%+v", fromEmpty, fromDefaults)
	}
}

func TestReconcileOrphansAndDuplicates(t *testing.T) {
	ms := members("a", "b")
	recs := []Record{
		{ID: "orphan", StudentID: "ghost", Status: StatusPresent},
		{ID: "first", StudentID: "a", Status: StatusAbsent},
		{ID: "second", StudentID: "a", Status: StatusLate},
	}

	entries := Reconcile(ms, recs)
	if len(entries) != 2 {
		t.Fatalf("orphan record leaked into output: %+v", entries)
	}
	if entries[0].Record.ID != "second" || entries[0].Record.Status != StatusLate {
		t.Fatalf("expected last write to win, got %+v", entries[0].Record)
	}
	if entries[1].Record.ID != "" {
		t.Fatalf("expected default for b, got %+v", entries[1].Record)
	}
}

func TestReconcileDoesNotMutateInputs(t *testing.T) {
	ms := members("a")
	recs := []Record{{ID: "r", StudentID: "a", Status: StatusPresent, Note: "n"}}
	msCopy := append([]Member(nil), ms...)
	recsCopy := append([]Record(nil), recs...)

	_ = Reconcile(ms, recs)

	if !reflect.DeepEqual(ms, msCopy) || !reflect.DeepEqual(recs, recsCopy) {
		t.Fatalf("inputs mutated")
	}
}
