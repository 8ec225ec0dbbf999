package common

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthorizeOwner allows a mutation only when actor is the entity owner.
// It performs no I/O; callers must have confirmed the entity exists.
func AuthorizeOwner(actor, owner primitive.ObjectID, action string) error {
	if actor.IsZero() || actor != owner {
		return ErrForbidden(fmt.Sprintf("You are not authorized to %s", action))
	}
	return nil
}
