package domain

import (
	"errors"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// IdentityKind tells a generated key apart from a caller-chosen natural key.
type IdentityKind uint8

const (
	IdentityGenerated IdentityKind = iota + 1
	IdentityNatural
)

var (
	ErrEmptyKey   = errors.New("identity key must not be empty")
	ErrInvalidKey = errors.New("identity key must not contain whitespace")
)

// Identity is the storage key of every entity. Two identities are equal when
// their keys are equal; the kind only decides whether the store may upsert.
type Identity struct {
	kind IdentityKind
	key  string
}

// NewIdentity returns a freshly generated (random) identity.
func NewIdentity() Identity {
	return Identity{kind: IdentityGenerated, key: uuid.NewString()}
}

// GeneratedIdentity wraps a previously generated key, e.g. one read back from a document.
func GeneratedIdentity(key string) Identity {
	return Identity{kind: IdentityGenerated, key: key}
}

// NaturalKey validates a caller-chosen key such as a catalog short code.
func NaturalKey(key string) (Identity, error) {
	if key == "" {
		return Identity{}, ErrEmptyKey
	}
	if strings.IndexFunc(key, unicode.IsSpace) >= 0 {
		return Identity{}, ErrInvalidKey
	}
	return Identity{kind: IdentityNatural, key: key}, nil
}

// MustNaturalKey is NaturalKey for compile-time constants.
func MustNaturalKey(key string) Identity {
	id, err := NaturalKey(key)
	if err != nil {
		panic(err)
	}
	return id
}

// IdentityFor rebuilds the identity of a stored entity of the given kind.
// Catalog kinds always carry natural keys.
func IdentityFor(kind Kind, key string) Identity {
	if key == "" {
		return Identity{}
	}
	if kind.IsCatalog() {
		return Identity{kind: IdentityNatural, key: key}
	}
	return Identity{kind: IdentityGenerated, key: key}
}

func (i Identity) Kind() IdentityKind { return i.kind }
func (i Identity) IsNatural() bool    { return i.kind == IdentityNatural }
func (i Identity) IsZero() bool       { return i.key == "" }
func (i Identity) String() string     { return i.key }

// Equal compares keys only.
func (i Identity) Equal(other Identity) bool {
	return i.key == other.key
}
