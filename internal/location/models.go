// Package location provides location management and anchor resolution.
package location

import (
	"errors"
	"strings"
	"time"
)

// Repository errors.
var (
	ErrLocationNotFound = errors.New("location not found")
	ErrCodeTaken        = errors.New("location code already exists")
)

// Location represents a named place that transportation edges connect.
// An anchor location (IsAnchor=true) can be a flight endpoint, e.g. an
// airport. A non-anchor location is a city hub that stands for every
// anchor sharing its city.
type Location struct {
	ID        string
	Name      string
	Country   string
	City      string
	Code      string
	IsAnchor  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SameCity reports whether the location is in the given city.
// City matching is case-insensitive exact match, never fuzzy.
func (l *Location) SameCity(city string) bool {
	return strings.EqualFold(l.City, city)
}
