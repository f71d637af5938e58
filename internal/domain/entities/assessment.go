package entities

// AssessmentAttempt is one raw attempt row from the assessment store.
// GrandTotal is the attempt's own score as a string fraction "x/y"; it is
// independent bookkeeping from TotalScore/TotalMaxScore and feeds only the
// per-content report column.
type AssessmentAttempt struct {
	CourseID      string
	BatchID       string
	ContentID     string
	AttemptID     string
	LearnerID     string
	TotalScore    float64
	TotalMaxScore float64
	GrandTotal    string
}

// ScoreRow is one aggregated score per distinct content a learner attempted.
//
// CourseScorePct is the learner's course-wide aggregate ("80%"): the summed
// score over the summed max score across every attempt of that learner in the
// course and batch, whatever the content. Every ScoreRow of the same
// (learner, batch, course) carries the identical value. ContentPct is the
// content's own percentage from the attempt's GrandTotal fraction.
type ScoreRow struct {
	CourseID       string
	BatchID        string
	LearnerID      string
	ContentID      string
	CourseScorePct string
	ContentPct     int
}
