// Package ownership declares which fields of an entity are owned (cascaded
// with the owner) and which are references (left alone). The store consults
// this table instead of asking the entities. Reference fields are listed so
// every identity an entity holds is accounted for; the library logs them but
// never follows them.
package ownership

import "alcyxob/sports-library/internal/domain"

// OwnedField is an owned collection of child entities.
type OwnedField struct {
	Name     string // document field name
	Kind     domain.Kind
	Children func(domain.Entity) []domain.Entity
	Set      func(domain.Entity, []domain.Entity)
}

// ReferenceField holds the identity of an entity with an independent lifetime.
type ReferenceField struct {
	Name   string
	Kind   domain.Kind
	Target func(domain.Entity) domain.Identity
}

// Rule describes one entity type.
type Rule struct {
	Owned      []OwnedField
	References []ReferenceField
}

var table = map[domain.Kind]Rule{
	domain.KindTrack: {
		Owned: []OwnedField{{
			Name: "locations",
			Kind: domain.KindLocationData,
			Children: func(e domain.Entity) []domain.Entity {
				return entities(e.(*domain.Track).Locations)
			},
			Set: func(e domain.Entity, children []domain.Entity) {
				e.(*domain.Track).Locations = typed[*domain.LocationData](children)
			},
		}},
	},
	domain.KindRunningPlan: {
		Owned: []OwnedField{{
			Name: "entries",
			Kind: domain.KindRunningPlanEntry,
			Children: func(e domain.Entity) []domain.Entity {
				return entities(e.(*domain.RunningPlan).Entries)
			},
			Set: func(e domain.Entity, children []domain.Entity) {
				e.(*domain.RunningPlan).Entries = typed[*domain.RunningPlanEntry](children)
			},
		}},
	},
	domain.KindRunningPlanEntry: {
		Owned: []OwnedField{{
			Name: "runningUnits",
			Kind: domain.KindRunningUnit,
			Children: func(e domain.Entity) []domain.Entity {
				return entities(e.(*domain.RunningPlanEntry).Units)
			},
			Set: func(e domain.Entity, children []domain.Entity) {
				e.(*domain.RunningPlanEntry).Units = typed[*domain.RunningUnit](children)
			},
		}},
	},
	domain.KindTraining: {
		References: []ReferenceField{
			{
				Name:   "trackId",
				Kind:   domain.KindTrack,
				Target: func(e domain.Entity) domain.Identity { return e.(*domain.Training).TrackID },
			},
			{
				Name:   "trainingTypeId",
				Kind:   domain.KindTrainingType,
				Target: func(e domain.Entity) domain.Identity { return e.(*domain.Training).TrainingTypeID },
			},
		},
	},
	domain.KindRunningUnit: {
		References: []ReferenceField{{
			Name:   "movementTypeId",
			Kind:   domain.KindMovementType,
			Target: func(e domain.Entity) domain.Identity { return e.(*domain.RunningUnit).MovementTypeID },
		}},
	},
	domain.KindUser: {
		References: []ReferenceField{{
			Name:   "activeRunningPlanId",
			Kind:   domain.KindRunningPlan,
			Target: func(e domain.Entity) domain.Identity { return e.(*domain.User).ActiveRunningPlanID },
		}},
	},
}

// RuleFor returns the rule of a kind. Leaves and catalog types have an empty rule.
func RuleFor(kind domain.Kind) Rule {
	return table[kind]
}

// Owns reports whether parent kind directly owns child kind.
func Owns(parent, child domain.Kind) bool {
	for _, f := range table[parent].Owned {
		if f.Kind == child {
			return true
		}
	}
	return false
}

// OwnerKinds returns the kinds that own kind directly.
func OwnerKinds(kind domain.Kind) []domain.Kind {
	var out []domain.Kind
	for _, k := range domain.Kinds {
		if Owns(k, kind) {
			out = append(out, k)
		}
	}
	return out
}

// SetChild replaces the direct child of owner with the given kind and id by
// replacement, or removes it when replacement is nil. It reports whether
// owner held such a child.
func SetChild(owner domain.Entity, kind domain.Kind, id string, replacement domain.Entity) bool {
	for _, f := range RuleFor(owner.Kind()).Owned {
		if f.Kind != kind {
			continue
		}
		children := f.Children(owner)
		for i, c := range children {
			if c.ID().String() != id {
				continue
			}
			if replacement == nil {
				children = append(children[:i], children[i+1:]...)
			} else {
				children[i] = replacement
			}
			f.Set(owner, children)
			return true
		}
	}
	return false
}

// Children returns the direct owned children of e, in field then list order.
func Children(e domain.Entity) []domain.Entity {
	var out []domain.Entity
	for _, f := range table[e.Kind()].Owned {
		out = append(out, f.Children(e)...)
	}
	return out
}

// ChildrenFirst returns every owned descendant of e, depth-first, each child
// after its own descendants. Persisting in this order never stores a parent
// before its children.
func ChildrenFirst(e domain.Entity) []domain.Entity {
	var out []domain.Entity
	var walk func(domain.Entity)
	walk = func(n domain.Entity) {
		for _, c := range Children(n) {
			walk(c)
			out = append(out, c)
		}
	}
	walk(e)
	return out
}

// ParentsFirst returns every owned descendant of e, depth-first, each child
// before its own descendants. Deleting in this order removes owners first.
func ParentsFirst(e domain.Entity) []domain.Entity {
	var out []domain.Entity
	var walk func(domain.Entity)
	walk = func(n domain.Entity) {
		for _, c := range Children(n) {
			out = append(out, c)
			walk(c)
		}
	}
	walk(e)
	return out
}

// References returns the non-owned identities held by e, skipping empty ones.
func References(e domain.Entity) map[string]domain.Identity {
	refs := map[string]domain.Identity{}
	for _, f := range table[e.Kind()].References {
		if id := f.Target(e); !id.IsZero() {
			refs[f.Name] = id
		}
	}
	return refs
}

func entities[T domain.Entity](items []T) []domain.Entity {
	out := make([]domain.Entity, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}

func typed[T domain.Entity](items []domain.Entity) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, item.(T))
	}
	return out
}
