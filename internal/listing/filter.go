// Package listing holds the filter, sort and pagination logic shared by every
// list endpoint. Everything here works on in-memory slices.
package listing

import "strings"

// Predicate reports whether an item should be kept.
type Predicate[T any] func(T) bool

// All is the conjunction of preds. Nil predicates are skipped and an empty
// list matches everything.
func All[T any](preds ...Predicate[T]) Predicate[T] {
	active := make([]Predicate[T], 0, len(preds))
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}
	return func(item T) bool {
		for _, p := range active {
			if !p(item) {
				return false
			}
		}
		return true
	}
}

// Filter returns the items matching pred, in input order. The result is never nil.
func Filter[T any](items []T, pred Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if pred == nil || pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// ContainsFold reports whether any haystack contains needle, ignoring case.
// A blank needle matches.
func ContainsFold(needle string, haystacks ...string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return true
	}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

// EqualFold matches when want is blank or equals got ignoring case and
// surrounding space.
func EqualFold(want, got string) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return true
	}
	return strings.EqualFold(want, strings.TrimSpace(got))
}
