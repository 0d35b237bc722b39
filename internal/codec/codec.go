// Package codec maps entities to BSON documents and back. Owned collections
// are embedded inline as arrays of documents.
package codec

import (
	"errors"
	"fmt"

	"alcyxob/sports-library/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// IDField holds the identity key in every document.
const IDField = "_id"

var (
	ErrUnknownKind     = errors.New("codec: unknown entity kind")
	ErrMissingIdentity = errors.New("codec: entity has no identity")
)

// Codec converts between entities and documents.
type Codec struct {
	logger *zap.Logger
}

// New returns a codec. Degraded nested collections are reported to logger.
func New(logger *zap.Logger) *Codec {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Codec{logger: logger}
}

// Marshal encodes an entity into raw BSON.
func (c *Codec) Marshal(e domain.Entity) (bson.Raw, error) {
	doc, err := c.Encode(e)
	if err != nil {
		return nil, err
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal %s %s: %w", e.Kind(), e.ID(), err)
	}
	return raw, nil
}

// Unmarshal decodes raw BSON into an entity of the given kind.
func (c *Codec) Unmarshal(kind domain.Kind, raw bson.Raw) (domain.Entity, error) {
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("codec: unmarshal %s: %w", kind, err)
	}
	return c.Decode(kind, m)
}

// Encode maps an entity to an ordered document.
func (c *Codec) Encode(e domain.Entity) (bson.D, error) {
	if e == nil || e.ID().IsZero() {
		return nil, ErrMissingIdentity
	}
	switch v := e.(type) {
	case *domain.LocationData:
		return encodeLocation(v), nil
	case *domain.Track:
		return encodeTrack(v), nil
	case *domain.Training:
		return encodeTraining(v), nil
	case *domain.TrainingType:
		return encodeTrainingType(v), nil
	case *domain.MovementType:
		return encodeMovementType(v), nil
	case *domain.RunningUnit:
		return encodeUnit(v), nil
	case *domain.RunningPlanEntry:
		return encodeEntry(v), nil
	case *domain.RunningPlan:
		return encodePlan(v), nil
	case *domain.User:
		return encodeUser(v), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownKind, e)
	}
}

// Decode maps a document to an entity. Missing fields take zero values; a
// malformed nested collection becomes empty instead of failing the parent.
func (c *Codec) Decode(kind domain.Kind, m bson.M) (domain.Entity, error) {
	d := document(m)
	key := d.str(IDField)
	if key == "" {
		return nil, fmt.Errorf("%w: %s document without %s", ErrMissingIdentity, kind, IDField)
	}
	id := domain.IdentityFor(kind, key)
	switch kind {
	case domain.KindLocationData:
		return decodeLocation(id, d), nil
	case domain.KindTrack:
		return c.decodeTrack(id, d), nil
	case domain.KindTraining:
		return decodeTraining(id, d), nil
	case domain.KindTrainingType:
		return decodeTrainingType(id, d), nil
	case domain.KindMovementType:
		return decodeMovementType(id, d), nil
	case domain.KindRunningUnit:
		return decodeUnit(id, d), nil
	case domain.KindRunningPlanEntry:
		return c.decodeEntry(id, d), nil
	case domain.KindRunningPlan:
		return c.decodePlan(id, d), nil
	case domain.KindUser:
		return decodeUser(id, d), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

// nested decodes an owned collection, degrading to empty on malformed data.
func nested[T any](c *Codec, parent domain.Identity, d document, field string, decode func(document) (T, bool)) []T {
	docs, ok := d.list(field)
	if !ok {
		c.logger.Warn("malformed nested collection, reading as empty",
			zap.String("parent", parent.String()),
			zap.String("field", field))
		return []T{}
	}
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		item, ok := decode(doc)
		if !ok {
			c.logger.Warn("malformed nested document, reading collection as empty",
				zap.String("parent", parent.String()),
				zap.String("field", field))
			return []T{}
		}
		out = append(out, item)
	}
	return out
}

func childID(kind domain.Kind, d document) (domain.Identity, bool) {
	key := d.str(IDField)
	if key == "" {
		return domain.Identity{}, false
	}
	return domain.IdentityFor(kind, key), true
}

func encodeLocation(l *domain.LocationData) bson.D {
	return bson.D{
		{Key: IDField, Value: l.UUID.String()},
		{Key: "timestamp", Value: dateTime(l.Timestamp)},
		{Key: "provider", Value: l.Provider},
		{Key: "latitude", Value: l.Latitude},
		{Key: "longitude", Value: l.Longitude},
		{Key: "altitude", Value: l.Altitude},
		{Key: "speed", Value: l.Speed},
	}
}

func decodeLocation(id domain.Identity, d document) *domain.LocationData {
	return &domain.LocationData{
		UUID:      id,
		Timestamp: d.time("timestamp"),
		Provider:  d.str("provider"),
		Latitude:  d.float("latitude"),
		Longitude: d.float("longitude"),
		Altitude:  d.float("altitude"),
		Speed:     d.float("speed"),
	}
}

func encodeTrack(t *domain.Track) bson.D {
	locations := bson.A{}
	for _, l := range t.Locations {
		locations = append(locations, encodeLocation(l))
	}
	return bson.D{
		{Key: IDField, Value: t.UUID.String()},
		{Key: "name", Value: t.Name},
		{Key: "description", Value: t.Description},
		{Key: "startTime", Value: dateTime(t.StartTime)},
		{Key: "stopTime", Value: dateTime(t.StopTime)},
		{Key: "distance", Value: t.Distance},
		{Key: "locations", Value: locations},
	}
}

func (c *Codec) decodeTrack(id domain.Identity, d document) *domain.Track {
	return &domain.Track{
		UUID:        id,
		Name:        d.str("name"),
		Description: d.str("description"),
		StartTime:   d.time("startTime"),
		StopTime:    d.time("stopTime"),
		Distance:    d.float("distance"),
		Locations: nested(c, id, d, "locations", func(doc document) (*domain.LocationData, bool) {
			lid, ok := childID(domain.KindLocationData, doc)
			if !ok {
				return nil, false
			}
			return decodeLocation(lid, doc), true
		}),
	}
}

func encodeTraining(t *domain.Training) bson.D {
	return bson.D{
		{Key: IDField, Value: t.UUID.String()},
		{Key: "name", Value: t.Name},
		{Key: "remarks", Value: t.Remarks},
		{Key: "date", Value: dateTime(t.Date)},
		{Key: "trainingTypeId", Value: t.TrainingTypeID.String()},
		{Key: "trackId", Value: t.TrackID.String()},
	}
}

func decodeTraining(id domain.Identity, d document) *domain.Training {
	return &domain.Training{
		UUID:           id,
		Name:           d.str("name"),
		Remarks:        d.str("remarks"),
		Date:           d.time("date"),
		TrainingTypeID: domain.IdentityFor(domain.KindTrainingType, d.str("trainingTypeId")),
		TrackID:        domain.IdentityFor(domain.KindTrack, d.str("trackId")),
	}
}

func encodeTrainingType(t *domain.TrainingType) bson.D {
	return bson.D{
		{Key: IDField, Value: t.Key.String()},
		{Key: "name", Value: t.Name},
		{Key: "remarks", Value: t.Remarks},
		{Key: "imageName", Value: t.ImageName},
		{Key: "speed", Value: t.Speed},
	}
}

func decodeTrainingType(id domain.Identity, d document) *domain.TrainingType {
	return &domain.TrainingType{
		Key:       id,
		Name:      d.str("name"),
		Remarks:   d.str("remarks"),
		ImageName: d.str("imageName"),
		Speed:     d.float("speed"),
	}
}

func encodeMovementType(m *domain.MovementType) bson.D {
	return bson.D{
		{Key: IDField, Value: m.Key.String()},
		{Key: "name", Value: m.Name},
		{Key: "colorKeyString", Value: m.ColorKeyString},
		{Key: "speed", Value: m.Speed},
		{Key: "pace", Value: m.Pace},
	}
}

func decodeMovementType(id domain.Identity, d document) *domain.MovementType {
	color := d.str("colorKeyString")
	if color == "" {
		color = domain.DefaultMovementTypeColor
	}
	return &domain.MovementType{
		Key:            id,
		Name:           d.str("name"),
		ColorKeyString: color,
		Speed:          d.float("speed"),
		Pace:           d.float("pace"),
	}
}

func encodeUnit(u *domain.RunningUnit) bson.D {
	return bson.D{
		{Key: IDField, Value: u.UUID.String()},
		{Key: "duration", Value: u.Duration},
		{Key: "completed", Value: u.Completed},
		{Key: "movementTypeId", Value: u.MovementTypeID.String()},
	}
}

func decodeUnit(id domain.Identity, d document) *domain.RunningUnit {
	return &domain.RunningUnit{
		UUID:           id,
		Duration:       d.int64("duration"),
		Completed:      d.boolean("completed"),
		MovementTypeID: domain.IdentityFor(domain.KindMovementType, d.str("movementTypeId")),
	}
}

func encodeEntry(e *domain.RunningPlanEntry) bson.D {
	units := bson.A{}
	for _, u := range e.Units {
		units = append(units, encodeUnit(u))
	}
	return bson.D{
		{Key: IDField, Value: e.UUID.String()},
		{Key: "week", Value: e.Week()},
		{Key: "day", Value: e.Day()},
		{Key: "runningDate", Value: calendarDate(e.RunningDate)},
		{Key: "duration", Value: e.DurationOverride},
		{Key: "distance", Value: e.Distance},
		{Key: "runningUnits", Value: units},
	}
}

func (c *Codec) decodeEntry(id domain.Identity, d document) *domain.RunningPlanEntry {
	runningDate := d.date("runningDate")
	week, day := d.int("week"), d.int("day")
	e := domain.RestoreRunningPlanEntry(id, week, day)
	if runningDate == nil || week != 0 || day != 0 {
		// template entry: apply the same clamping as the setters
		e.SetWeek(week)
		e.SetDay(day)
	}
	e.RunningDate = runningDate
	e.DurationOverride = d.int64("duration")
	e.Distance = d.float("distance")
	e.Units = nested(c, id, d, "runningUnits", func(doc document) (*domain.RunningUnit, bool) {
		uid, ok := childID(domain.KindRunningUnit, doc)
		if !ok {
			return nil, false
		}
		return decodeUnit(uid, doc), true
	})
	return e
}

func encodePlan(p *domain.RunningPlan) bson.D {
	entries := bson.A{}
	for _, e := range p.Entries {
		entries = append(entries, encodeEntry(e))
	}
	start := p.StartDate()
	return bson.D{
		{Key: IDField, Value: p.UUID.String()},
		{Key: "name", Value: p.Name},
		{Key: "remarks", Value: p.Remarks},
		{Key: "orderNumber", Value: p.OrderNumber},
		{Key: "isTemplate", Value: p.IsTemplate},
		{Key: "startDate", Value: calendarDate(&start)},
		{Key: "entries", Value: entries},
	}
}

func (c *Codec) decodePlan(id domain.Identity, d document) *domain.RunningPlan {
	p := &domain.RunningPlan{
		UUID:        id,
		Name:        d.str("name"),
		Remarks:     d.str("remarks"),
		OrderNumber: d.int("orderNumber"),
		IsTemplate:  d.boolean("isTemplate"),
	}
	if start := d.date("startDate"); start != nil {
		p.RestoreStartDate(*start)
	}
	p.Entries = nested(c, id, d, "entries", func(doc document) (*domain.RunningPlanEntry, bool) {
		eid, ok := childID(domain.KindRunningPlanEntry, doc)
		if !ok {
			return nil, false
		}
		return c.decodeEntry(eid, doc), true
	})
	return p
}

func encodeUser(u *domain.User) bson.D {
	return bson.D{
		{Key: IDField, Value: u.UUID.String()},
		{Key: "firstName", Value: u.FirstName},
		{Key: "lastName", Value: u.LastName},
		{Key: "emailAddress", Value: u.EmailAddress},
		{Key: "gender", Value: int(u.Gender)},
		{Key: "trainingLevel", Value: int(u.TrainingLevel)},
		{Key: "birthday", Value: calendarDate(u.Birthday)},
		{Key: "maxPulse", Value: u.MaxPulse},
		{Key: "activeRunningPlanId", Value: u.ActiveRunningPlanID.String()},
	}
}

func decodeUser(id domain.Identity, d document) *domain.User {
	return &domain.User{
		UUID:                id,
		FirstName:           d.str("firstName"),
		LastName:            d.str("lastName"),
		EmailAddress:        d.str("emailAddress"),
		Gender:              domain.Gender(d.int("gender")),
		TrainingLevel:       domain.TrainingLevel(d.int("trainingLevel")),
		Birthday:            d.date("birthday"),
		MaxPulse:            d.int("maxPulse"),
		ActiveRunningPlanID: domain.IdentityFor(domain.KindRunningPlan, d.str("activeRunningPlanId")),
	}
}
