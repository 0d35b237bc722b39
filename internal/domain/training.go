// internal/domain/training.go
package domain

import "time"

// Training is a completed session. It references, but does not own, its track and type.
type Training struct {
	UUID           Identity
	Name           string
	Remarks        string
	Date           time.Time
	TrainingTypeID Identity // -> TrainingType
	TrackID        Identity // -> Track
}

func NewTraining(name, remarks string, date time.Time, trainingTypeID, trackID Identity) *Training {
	return &Training{
		UUID:           NewIdentity(),
		Name:           name,
		Remarks:        remarks,
		Date:           date,
		TrainingTypeID: trainingTypeID,
		TrackID:        trackID,
	}
}

func (t *Training) ID() Identity { return t.UUID }
func (t *Training) Kind() Kind   { return KindTraining }
