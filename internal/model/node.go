// Package model defines the statement object graph handed from the parser to the extractor.
package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Key names a field of a parsed statement node.
type Key string

// Node is a parsed object whose fields may be absent.
// Implementations must report absent fields with ok == false rather than a zero value.
type Node interface {
	Lookup(key Key) (value any, ok bool)
}

// Fields is the map-backed Node used by the parser adapter and by tests.
// Keys holding nil are treated as absent.
type Fields map[Key]any

// Lookup implements Node.
func (f Fields) Lookup(key Key) (any, bool) {
	if f == nil {
		return nil, false
	}
	v, ok := f[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Has reports whether n is present and carries key.
func Has(n Node, key Key) bool {
	_, ok := lookup(n, key)
	return ok
}

// Get returns the value of key as T, or def when n is nil, the key is absent
// or the value has another type.
func Get[T any](n Node, key Key, def T) T {
	v, ok := lookup(n, key)
	if !ok {
		return def
	}
	typed, ok := v.(T)
	if !ok {
		return def
	}
	return typed
}

// Text returns the value of key rendered as a string. Strings are returned as is,
// anything else degrades to its default formatting. Empty strings count as absent.
func Text(n Node, key Key) (string, bool) {
	v, ok := lookup(n, key)
	if !ok {
		return "", false
	}
	var s string
	switch typed := v.(type) {
	case string:
		s = typed
	case fmt.Stringer:
		s = typed.String()
	default:
		s = fmt.Sprint(typed)
	}
	if s == "" {
		return "", false
	}
	return s, true
}

// FirstText returns the first present text value among keys.
func FirstText(n Node, keys ...Key) (string, bool) {
	for _, key := range keys {
		if s, ok := Text(n, key); ok {
			return s, true
		}
	}
	return "", false
}

// Child returns the nested node stored under key, or nil.
func Child(n Node, key Key) Node {
	return Get[Node](n, key, nil)
}

// Children returns the nested node list stored under key, or nil.
func Children(n Node, key Key) []Node {
	return Get[[]Node](n, key, nil)
}

// Amount returns key as an exact decimal. Strings and floats are converted;
// ok is false when the field is absent or cannot be read as a number.
func Amount(n Node, key Key) (decimal.Decimal, bool) {
	v, ok := lookup(n, key)
	if !ok {
		return decimal.Zero, false
	}
	switch typed := v.(type) {
	case decimal.Decimal:
		return typed, true
	case string:
		d, err := decimal.NewFromString(typed)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case float64:
		return decimal.NewFromFloat(typed), true
	case int:
		return decimal.NewFromInt(int64(typed)), true
	case int64:
		return decimal.NewFromInt(typed), true
	default:
		return decimal.Zero, false
	}
}

// Time returns key as a time. Zero times count as absent.
func Time(n Node, key Key) (time.Time, bool) {
	t := Get(n, key, time.Time{})
	return t, !t.IsZero()
}

func lookup(n Node, key Key) (any, bool) {
	if n == nil {
		return nil, false
	}
	return n.Lookup(key)
}
