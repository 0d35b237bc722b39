package domain

import "time"

// Gender of the app user, used for pulse estimates.
type Gender int

const (
	GenderUnknown Gender = iota
	GenderFemale
	GenderMale
	GenderDiverse
)

// TrainingLevel is the self-assessed fitness of the app user.
type TrainingLevel int

const (
	LevelBeginner TrainingLevel = iota
	LevelIntermediate
	LevelAdvanced
)

// DefaultMaxPulse is stored for a freshly created app user.
const DefaultMaxPulse = 0

// User is the single owner of a library. It references its active plan.
type User struct {
	UUID                Identity
	FirstName           string
	LastName            string
	EmailAddress        string
	Gender              Gender
	TrainingLevel       TrainingLevel
	Birthday            *time.Time
	MaxPulse            int
	ActiveRunningPlanID Identity // -> RunningPlan
}

// NewUser returns a user with default attributes.
func NewUser() *User {
	return &User{
		UUID:          NewIdentity(),
		Gender:        GenderUnknown,
		TrainingLevel: LevelBeginner,
		MaxPulse:      DefaultMaxPulse,
	}
}

func (u *User) ID() Identity { return u.UUID }
func (u *User) Kind() Kind   { return KindUser }

// HasActivePlan reports whether an active running plan is set. The plan itself may no longer exist.
func (u *User) HasActivePlan() bool {
	return !u.ActiveRunningPlanID.IsZero()
}
