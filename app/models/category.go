package models

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups products. Slug is derived from the name and carries a
// unique index, which is what makes category creation idempotent.
type Category struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name string             `bson:"name" json:"name"`
	Slug string             `bson:"slug" json:"slug"`
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a display name to its URL slug: lowercase, runs of
// non-alphanumerics collapsed to single hyphens, trimmed.
//
//	Slugify("Home & Garden") == "home-garden"
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
