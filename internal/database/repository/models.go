package repository

// Status is an examiner's roster visibility flag.
type Status string

const (
	StatusEnabled  Status = "enabled"
	StatusDisabled Status = "disabled"
)

// Toggle returns the opposite status.
func (s Status) Toggle() Status {
	if s == StatusEnabled {
		return StatusDisabled
	}
	return StatusEnabled
}

// Examiner represents an examiner row.
type Examiner struct {
	Key         string
	ID          int
	Name        string
	BadgeNumber string
	UnitName    string
	Contact     string
	Address     string
	Status      Status
}

// Injury represents an injury-assessment case row. Expert is the examiner
// name copied at creation time, not a live reference.
type Injury struct {
	Key             string
	ID              int
	Name            string
	Expert          string
	Gender          string
	Age             int
	Height          int
	Weight          int
	IDCard          string
	Address         string
	InjuryTime      string
	AssessmentTime  string
	CaseDescription string
	ClientUnit      string
}

// Evidence represents a physical evidence row.
type Evidence struct {
	Key         string
	ID          int
	CaseNumber  string
	Name        string
	Category    string
	Location    string
	Custodian   string
	CollectedAt string
	Notes       string
}

// ExaminerKey, InjuryKey and EvidenceKey extract the stable row key.
func ExaminerKey(e Examiner) string { return e.Key }

func InjuryKey(i Injury) string { return i.Key }

func EvidenceKey(e Evidence) string { return e.Key }

// NextID returns max(id)+1 over items, or 1 when items is empty.
func NextID[T any](items []T, id func(T) int) int {
	next := 1
	for _, it := range items {
		if v := id(it) + 1; v > next {
			next = v
		}
	}
	return next
}
