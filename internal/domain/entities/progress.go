package entities

// ActivityCounter is one raw completion counter from the counter store.
// ActivityID may reference either a course id or a module id.
type ActivityCounter struct {
	LearnerID      string
	ActivityID     string
	BatchID        string
	CompletedCount int
}

// ProgressRow is the tall intermediate form of one learner's completion state:
// one row per (course, batch, learner, module). ModuleID is empty when the
// course has no modules.
type ProgressRow struct {
	CourseID      string
	BatchID       string
	LearnerID     string
	CompletionPct int
	ModuleID      string
	ModulePct     int
}
