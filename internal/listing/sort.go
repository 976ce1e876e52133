package listing

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrInvalidSort = errors.New("invalid sort")

// SortKey names a field and direction, parsed from "field" or "-field".
type SortKey struct {
	Field string
	Desc  bool
}

func (k SortKey) String() string {
	if k.Desc {
		return "-" + k.Field
	}
	return k.Field
}

// Less compares two items on a single field.
type Less[T any] func(a, b T) bool

// Sorter knows the sortable fields of T and which one applies by default.
type Sorter[T any] struct {
	fields   map[string]Less[T]
	fallback SortKey
}

// NewSorter builds a sorter. fallback must name one of fields.
func NewSorter[T any](fallback SortKey, fields map[string]Less[T]) Sorter[T] {
	if _, ok := fields[fallback.Field]; !ok {
		panic(fmt.Sprintf("listing: default sort field %q not registered", fallback.Field))
	}
	return Sorter[T]{fields: fields, fallback: fallback}
}

// Parse turns a raw "sort" parameter into a key. Blank input yields the default.
func (s Sorter[T]) Parse(raw string) (SortKey, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.fallback, nil
	}
	key := SortKey{Field: raw}
	if strings.HasPrefix(raw, "-") {
		key = SortKey{Field: raw[1:], Desc: true}
	}
	if _, ok := s.fields[key.Field]; !ok {
		return SortKey{}, fmt.Errorf("%w: %q", ErrInvalidSort, raw)
	}
	return key, nil
}

// Sort orders items in place by key. Ties keep their input order. An unknown
// field falls back to the default key.
func (s Sorter[T]) Sort(items []T, key SortKey) {
	less, ok := s.fields[key.Field]
	if !ok {
		key = s.fallback
		less = s.fields[key.Field]
	}
	sort.SliceStable(items, func(i, j int) bool {
		if key.Desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

// FoldLess orders strings case-insensitively.
func FoldLess(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}
