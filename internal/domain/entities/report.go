package entities

import "time"

// Enrollment is one learner's enrollment record for a course batch, as owned
// by the enrolment store. Certificate status is derived upstream; this job
// only carries it through to the report.
type Enrollment struct {
	CourseID          string
	BatchID           string
	LearnerID         string
	UserName          string
	State             string
	District          string
	EnrolledDate      string
	CompletedDate     string
	CertificateStatus string
	CourseName        string
	BatchName         string
}

// Fixed report columns, in the exact order they appear in the output file.
// Dynamic "<id> - Score" and "<id> - Progress" columns follow these.
const (
	ColBatchID           = "Batch Id"
	ColBatchName         = "Batch Name"
	ColCollectionID      = "Collection Id"
	ColCollectionName    = "Collection Name"
	ColUserUUID          = "User UUID"
	ColUserName          = "User Name"
	ColState             = "State"
	ColDistrict          = "District"
	ColEnrolmentDate     = "Enrolment Date"
	ColCompletionDate    = "Completion Date"
	ColCertificateStatus = "Certificate Status"
	ColProgress          = "Progress"
	ColTotalScore        = "Total Score"
)

// Dynamic column name suffixes: each distinct content id observed in the
// score data yields a "<id> - Score" column, each distinct module id a
// "<id> - Progress" column.
const (
	ScoreColumnSuffix    = " - Score"
	ProgressColumnSuffix = " - Progress"
)

// FixedColumns returns the base column order shared by every report.
func FixedColumns() []string {
	return []string{
		ColBatchID,
		ColBatchName,
		ColCollectionID,
		ColCollectionName,
		ColUserUUID,
		ColUserName,
		ColState,
		ColDistrict,
		ColEnrolmentDate,
		ColCompletionDate,
		ColCertificateStatus,
		ColProgress,
		ColTotalScore,
	}
}

// WideRow is one pivoted report row: an ordered column → value mapping. The
// column set is not known until the batch data has been inspected, so the row
// is a mapping rather than a static struct. Set preserves first-insertion
// order and keeps the first value on duplicate columns.
type WideRow struct {
	CourseID  string
	BatchID   string
	LearnerID string

	columns []string
	values  map[string]string
}

// NewWideRow creates an empty wide row keyed by (course, batch, learner).
func NewWideRow(courseID, batchID, learnerID string) *WideRow {
	return &WideRow{
		CourseID:  courseID,
		BatchID:   batchID,
		LearnerID: learnerID,
		values:    make(map[string]string),
	}
}

// Set records a column value. The first write to a column wins; later writes
// to the same column are ignored.
func (r *WideRow) Set(column, value string) {
	if _, ok := r.values[column]; ok {
		return
	}
	r.columns = append(r.columns, column)
	r.values[column] = value
}

// Get returns the value of a column and whether the column is present.
func (r *WideRow) Get(column string) (string, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Columns returns the row's column names in insertion order.
func (r *WideRow) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Value returns the value of a column, empty when absent.
func (r *WideRow) Value(column string) string {
	return r.values[column]
}

// CourseBatch identifies one course-batch instance to report on.
type CourseBatch struct {
	CourseID string
	BatchID  string
}

// RunSummary describes one completed report run for audit purposes.
type RunSummary struct {
	RunID           string
	StartedAt       time.Time
	FinishedAt      time.Time
	CoursesTotal    int
	CoursesFailed   int
	RowsEmitted     int
	LearnersDropped int
}
