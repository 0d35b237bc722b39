// internal/domain/catalog.go
package domain

// DefaultMovementTypeColor is used when a movement type is created without a color.
const DefaultMovementTypeColor = "green"

// CatalogRef is an enum value that resolves to a catalog entry by natural key.
type CatalogRef interface {
	CatalogKind() Kind
	CatalogKey() string
}

// TrainingCategory enumerates the built-in training types.
type TrainingCategory string

const (
	TrainingRunning TrainingCategory = "RUNNING"
	TrainingCycling TrainingCategory = "CYCLING"
	TrainingHiking  TrainingCategory = "HIKING"
)

func (c TrainingCategory) CatalogKind() Kind  { return KindTrainingType }
func (c TrainingCategory) CatalogKey() string { return string(c) }

// Movement enumerates the built-in movement types used in running plans.
type Movement string

const (
	MovementRunning     Movement = "L"
	MovementWalking     Movement = "G"
	MovementSlowWalking Movement = "LG"
)

func (m Movement) CatalogKind() Kind  { return KindMovementType }
func (m Movement) CatalogKey() string { return string(m) }

// TrainingType is a catalog entity identified by a short natural key.
type TrainingType struct {
	Key       Identity
	Name      string
	Remarks   string
	ImageName string
	Speed     float64 // average km/h, used for estimates
}

func NewTrainingType(key, name, remarks, imageName string, speed float64) (*TrainingType, error) {
	id, err := NaturalKey(key)
	if err != nil {
		return nil, err
	}
	return &TrainingType{Key: id, Name: name, Remarks: remarks, ImageName: imageName, Speed: speed}, nil
}

func (t *TrainingType) ID() Identity { return t.Key }
func (t *TrainingType) Kind() Kind   { return KindTrainingType }

// MovementType is a catalog entity describing a kind of movement inside a running unit.
type MovementType struct {
	Key            Identity
	Name           string
	ColorKeyString string
	Speed          float64
	Pace           float64
}

func NewMovementType(key, name, color string, speed, pace float64) (*MovementType, error) {
	id, err := NaturalKey(key)
	if err != nil {
		return nil, err
	}
	if color == "" {
		color = DefaultMovementTypeColor
	}
	return &MovementType{Key: id, Name: name, ColorKeyString: color, Speed: speed, Pace: pace}, nil
}

func (m *MovementType) ID() Identity { return m.Key }
func (m *MovementType) Kind() Kind   { return KindMovementType }

// DefaultTrainingTypes returns the training types every new library starts with.
func DefaultTrainingTypes() []*TrainingType {
	return []*TrainingType{
		{Key: MustNaturalKey(string(TrainingRunning)), Name: "Running", ImageName: "figure.run", Speed: 8.5},
		{Key: MustNaturalKey(string(TrainingCycling)), Name: "Cycling", ImageName: "bicycle", Speed: 20.0},
		{Key: MustNaturalKey(string(TrainingHiking)), Name: "Hiking", ImageName: "figure.walk", Speed: 4.5},
	}
}

// DefaultMovementTypes returns the movement types referenced by the running plan templates.
func DefaultMovementTypes() []*MovementType {
	return []*MovementType{
		{Key: MustNaturalKey(string(MovementRunning)), Name: "Running", ColorKeyString: DefaultMovementTypeColor, Speed: 8.5, Pace: 7.0},
		{Key: MustNaturalKey(string(MovementWalking)), Name: "Walking", ColorKeyString: "blue", Speed: 5.5, Pace: 11.0},
		{Key: MustNaturalKey(string(MovementSlowWalking)), Name: "Slow walking", ColorKeyString: "yellow", Speed: 4.0, Pace: 15.0},
	}
}
