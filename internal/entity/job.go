package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/creditscope/credit-analyzer/constants"
)

// DocumentJob tracks one uploaded document through the extraction pipeline.
// Only the lifecycle tracker mutates it; readers receive copies.
type DocumentJob struct {
	ID           uuid.UUID           `json:"id"`
	Filename     string              `json:"filename"`
	SourcePath   string              `json:"source_path"`
	MimeType     string              `json:"mime_type"`
	Status       constants.JobStatus `json:"status"`
	Progress     int                 `json:"progress"` // 0..100
	ErrorMessage string              `json:"error_message,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// JobStatusView is the read-only snapshot returned by status lookups.
// Data is populated only when the job is completed.
type JobStatusView struct {
	ID       uuid.UUID           `json:"id"`
	Filename string              `json:"filename"`
	Status   constants.JobStatus `json:"status"`
	Progress int                 `json:"progress"`
	Error    string              `json:"error,omitempty"`
	Data     *DocumentRecord     `json:"data,omitempty"`
}
