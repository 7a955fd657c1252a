// Package collection holds the generic slice helpers used across services
// and resources: transform (Map), select (Filter, First), index (GroupBy,
// KeyBy), and fold (Reduce, Sum).
//
//	slugs := collection.Map(products, func(p models.Product) string { return p.Slug })
//	byCat := collection.GroupBy(products, func(p models.Product) string { return p.Category.Hex() })
package collection

import "sort"

// Map applies fn to every element and collects the results.
func Map[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, len(in))
	for i := range in {
		out[i] = fn(in[i])
	}
	return out
}

// Filter keeps the elements fn accepts, in order.
func Filter[T any](in []T, fn func(T) bool) []T {
	var kept []T
	for _, v := range in {
		if fn(v) {
			kept = append(kept, v)
		}
	}
	return kept
}

// Each runs fn on every element for its side effects and returns in so
// calls can chain.
func Each[T any](in []T, fn func(T)) []T {
	for _, v := range in {
		fn(v)
	}
	return in
}

// First returns the first element fn accepts; ok is false when none does.
func First[T any](in []T, fn func(T) bool) (match T, ok bool) {
	for _, v := range in {
		if fn(v) {
			return v, true
		}
	}
	return match, false
}

// Contains reports whether fn accepts any element.
func Contains[T any](in []T, fn func(T) bool) bool {
	for _, v := range in {
		if fn(v) {
			return true
		}
	}
	return false
}

// GroupBy buckets elements under the string key fn derives for each.
func GroupBy[T any](in []T, fn func(T) string) map[string][]T {
	groups := make(map[string][]T)
	for _, v := range in {
		key := fn(v)
		groups[key] = append(groups[key], v)
	}
	return groups
}

// KeyBy indexes elements by the key fn derives; on a duplicate key the
// later element replaces the earlier.
func KeyBy[T any, K comparable](in []T, fn func(T) K) map[K]T {
	index := make(map[K]T, len(in))
	for _, v := range in {
		index[fn(v)] = v
	}
	return index
}

// Unique drops later duplicates, keeping first-seen order.
func Unique[T comparable](in []T) []T {
	seen := make(map[T]struct{}, len(in))
	var out []T
	for _, v := range in {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Chunk cuts in into consecutive pieces of at most n elements. n <= 0
// yields nil.
func Chunk[T any](in []T, n int) [][]T {
	if n <= 0 {
		return nil
	}
	var chunks [][]T
	for len(in) > n {
		chunks = append(chunks, in[:n])
		in = in[n:]
	}
	if len(in) > 0 {
		chunks = append(chunks, in)
	}
	return chunks
}

// SortBy sorts in place by less and returns the slice.
func SortBy[T any](in []T, less func(a, b T) bool) []T {
	sort.Slice(in, func(i, j int) bool { return less(in[i], in[j]) })
	return in
}

// Reduce folds the slice left to right starting from initial.
func Reduce[T, R any](in []T, initial R, fn func(acc R, v T) R) R {
	acc := initial
	for _, v := range in {
		acc = fn(acc, v)
	}
	return acc
}

// Sum adds up the int64 fn extracts per element. Monetary callers pass
// cents.
func Sum[T any](in []T, fn func(T) int64) int64 {
	var total int64
	for _, v := range in {
		total += fn(v)
	}
	return total
}

// Paginate returns the 1-indexed page of the given size; pages past the
// end are empty.
func Paginate[T any](in []T, page, size int) []T {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(in) {
		return nil
	}
	if rest := len(in) - start; rest < size {
		size = rest
	}
	return in[start : start+size]
}
