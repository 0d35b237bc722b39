// internal/domain/entity.go
package domain

// Kind names an entity type. The value doubles as the collection name.
type Kind string

const (
	KindTrack            Kind = "tracks"
	KindLocationData     Kind = "location_data"
	KindTraining         Kind = "trainings"
	KindTrainingType     Kind = "training_types"
	KindMovementType     Kind = "movement_types"
	KindRunningUnit      Kind = "running_units"
	KindRunningPlanEntry Kind = "running_plan_entries"
	KindRunningPlan      Kind = "running_plans"
	KindUser             Kind = "users"
)

// Kinds lists every entity type, leaves first.
var Kinds = []Kind{
	KindLocationData,
	KindTrack,
	KindTrainingType,
	KindTraining,
	KindMovementType,
	KindRunningUnit,
	KindRunningPlanEntry,
	KindRunningPlan,
	KindUser,
}

// IsCatalog reports whether entities of this kind use natural keys and are upserted.
func (k Kind) IsCatalog() bool {
	return k == KindTrainingType || k == KindMovementType
}

func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

func (k Kind) String() string { return string(k) }

// Entity is implemented by every persistent type.
type Entity interface {
	ID() Identity
	Kind() Kind
}

// SameEntity compares two entities by identity, the only equality the store uses.
func SameEntity(a, b Entity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Kind() == b.Kind() && a.ID().Equal(b.ID())
}
