package jobs

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func parseObjectID(hex string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("jobs: bad object id %q: %w", hex, err)
	}
	return oid, nil
}
