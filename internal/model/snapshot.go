package model

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot represents the outcome of one catalogue refresh cycle.
type Snapshot struct {
	ID           uuid.UUID
	Source       string
	Hash         string
	Received     int
	Accepted     int
	Rejected     int
	RejectedRows []int64
	Products     []Product
	CreatedAt    time.Time
}

// InitMeta initializes the snapshot metadata including ID and timestamp.
func (s *Snapshot) InitMeta() {
	s.ID = uuid.New()
	s.CreatedAt = time.Now().UTC()
}

// Changed reports whether the snapshot content differs from a previous one.
func (s *Snapshot) Changed(previous *Snapshot) bool {
	if previous == nil {
		return true
	}
	return s.Hash != previous.Hash
}
