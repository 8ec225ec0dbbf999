package common

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseID resolves an external identifier into an ObjectID. field names the
// parameter in the error message ("video id", "user id", ...).
func ParseID(field, raw string) (primitive.ObjectID, error) {
	if len(raw) != 24 {
		return primitive.NilObjectID, ErrInvalidIdentifier(field)
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil || id.IsZero() {
		return primitive.NilObjectID, ErrInvalidIdentifier(field)
	}
	return id, nil
}

// ParseOptionalID treats the empty string as "not provided".
func ParseOptionalID(field, raw string) (primitive.ObjectID, bool, error) {
	if raw == "" {
		return primitive.NilObjectID, false, nil
	}
	id, err := ParseID(field, raw)
	if err != nil {
		return primitive.NilObjectID, false, err
	}
	return id, true, nil
}
