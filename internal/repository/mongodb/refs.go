package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reference fields (job, applicant, postedBy and legacy job _ids) exist in
// the collections both as ObjectIDs and as their hex strings. Writes use
// ObjectIDs; reads and filters accept either.

func refString(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	}
	return ""
}

// refValue is the canonical stored form of a reference.
func refValue(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

// idVariants lists every stored representation id might have.
func idVariants(id string) []interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return []interface{}{oid, id}
	}
	return []interface{}{id}
}

func anyRef(field string, ids ...string) bson.M {
	values := make([]interface{}, 0, len(ids)*2)
	for _, id := range ids {
		values = append(values, idVariants(id)...)
	}
	return bson.M{field: bson.M{"$in": values}}
}

func jobRefFilter(jobIDs ...string) bson.M {
	return anyRef("job", jobIDs...)
}
