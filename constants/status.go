package constants

// JobStatus is the canonical lifecycle status for a document job.
type JobStatus string

// Stable values (store these exact strings).
const (
	JobStatusPending    JobStatus = "pending"    // created, not started
	JobStatusProcessing JobStatus = "processing" // extraction pipeline running
	JobStatusCompleted  JobStatus = "completed"  // merged record persisted
	JobStatusError      JobStatus = "error"      // terminal failure
)

// Terminal reports whether s is a state the job cannot leave on its own.
// Re-processing a terminal job resets it explicitly; it never self-transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusError
}
