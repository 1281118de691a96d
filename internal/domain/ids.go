package domain

import "github.com/google/uuid"

// ObjectID is the opaque, stable identifier of a design object (§3). It
// supports equality and hashing out of the box because it is a plain
// comparable value wrapping a uuid.UUID.
type ObjectID struct {
	id uuid.UUID
}

// NewObjectID generates a fresh random ObjectID.
func NewObjectID() ObjectID {
	return ObjectID{id: uuid.New()}
}

// ObjectIDFromUUID wraps an existing uuid.UUID as an ObjectID.
func ObjectIDFromUUID(id uuid.UUID) ObjectID {
	return ObjectID{id: id}
}

// ParseObjectID parses s as a UUID and wraps it as an ObjectID.
func ParseObjectID(s string) (ObjectID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ObjectID{}, err
	}
	return ObjectID{id: id}, nil
}

// String returns the canonical UUID string form.
func (o ObjectID) String() string {
	return o.id.String()
}

// IsZero reports whether o is the zero-value ObjectID (nil UUID).
func (o ObjectID) IsZero() bool {
	return o.id == uuid.Nil
}

// Less provides a deterministic total order over ObjectIDs, used by
// MemoryFrame to return Filter/FilterTrait results in a stable order.
func (o ObjectID) Less(other ObjectID) bool {
	return o.id.String() < other.id.String()
}
