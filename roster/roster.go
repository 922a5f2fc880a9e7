// Package roster merges an authoritative enrollment list with a partial set
// of attendance records into one display-ready row per enrolled student.
package roster

// Member is one entry of the authoritative membership list for a course
// session. Membership decides who appears on the sheet; records only decide
// what their row says.
type Member struct {
	StudentID string  `json:"studentId"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	GroupID   *string `json:"groupId,omitempty"`
}

// FullName returns the member's display name.
func (m Member) FullName() string { return m.FirstName + " " + m.LastName }

type Status string

const (
	StatusNotRecorded Status = "not_recorded"
	StatusPresent     Status = "present"
	StatusAbsent      Status = "absent"
	StatusLate        Status = "late"
	StatusExcused     Status = "excused"
)

// Record is a stored attendance row. ID is empty for rows that have never
// been written, which is how callers tell "create" from "update" on the
// next save.
type Record struct {
	ID        string `json:"id,omitempty"`
	StudentID string `json:"studentId"`
	Status    Status `json:"status"`
	Note      string `json:"note"`
}

// Entry is one reconciled sheet row.
type Entry struct {
	Member Member `json:"member"`
	Record Record `json:"record"`
}

// Recorded reports whether the row came from a stored record rather than a
// synthesized default.
func (e Entry) Recorded() bool { return e.Record.ID != "" }

// Reconcile emits exactly one entry per member, in membership order. A member
// with a stored record gets that record unchanged; everyone else gets a
// default row (no ID, StatusNotRecorded, empty note) referencing them.
// Records for identities absent from members are dropped: membership is the
// single source of truth for who belongs on the sheet. Duplicate records for
// one member resolve last-write-wins. Inputs are never mutated.
func Reconcile(members []Member, records []Record) []Entry {
	byStudent := make(map[string]Record, len(records))
	for _, rec := range records {
		byStudent[rec.StudentID] = rec
	}

	entries := make([]Entry, 0, len(members))
	for _, m := range members {
		rec, ok := byStudent[m.StudentID]
		if !ok {
			rec = Record{StudentID: m.StudentID, Status: StatusNotRecorded}
		}
		entries = append(entries, Entry{Member: m, Record: rec})
	}
	return entries
}
