package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run identifies one collection run.
type Run struct {
	ID        uuid.UUID
	OwnerID   int64
	Start     time.Time
	Threshold int64
	StartedAt time.Time
}

// Summary is what the run summary document is built from.
type Summary struct {
	Run      Run
	Posts    int
	Buckets  map[Dimension][]LabeledBucket
	Mentions map[string]int
}

// ArtifactBase is the common name stem of every file a run produces.
func (r Run) ArtifactBase() string {
	return fmt.Sprintf("id_%d_start_%d", r.OwnerID, r.Start.Unix())
}
