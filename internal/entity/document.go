package entity

import (
	"github.com/google/uuid"
)

// DocumentRecord is the canonical merged record for one uploaded document.
// It is immutable once written; reprocessing supersedes it with a new write
// under the same ID rather than mutating it in place.
type DocumentRecord struct {
	ExtractionRecord

	ID         uuid.UUID `json:"id"`
	SourceFile string    `json:"sourceFile"`
	PageCount  int       `json:"pageCount"`
}
