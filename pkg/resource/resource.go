// Package resource provides API resource transformers: small functions that
// shape a model into exactly the JSON a response should carry.
//
//	func UserResource(u models.User) resource.Map {
//	    return resource.Map{"_id": u.ID, "name": u.Name, "email": u.Email}
//	}
//
//	response.Success(w, response.M{"user": resource.Item(UserResource, user)})
//	response.Success(w, response.M{"users": resource.Items(UserResource, users)})
package resource

// Map is the output shape of a transformer.
type Map = map[string]interface{}

// Transformer shapes one model value into a Map.
type Transformer[T any] func(T) Map

// Item applies the transformer to a single value.
func Item[T any](t Transformer[T], v T) Map {
	return t(v)
}

// Items applies the transformer to every element of a slice. A nil or empty
// slice yields an empty (not null) JSON array.
func Items[T any](t Transformer[T], s []T) []Map {
	out := make([]Map, 0, len(s))
	for _, v := range s {
		out = append(out, t(v))
	}
	return out
}

// Pagination is the metadata block attached to paginated listings.
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"perPage"`
	Total   int64 `json:"total"`
}

// LastPage computes the number of pages for the widget.
func (p Pagination) LastPage() int64 {
	if p.PerPage <= 0 {
		return 0
	}
	return (p.Total + int64(p.PerPage) - 1) / int64(p.PerPage)
}
