package storage

import (
	"fmt"
	"sort"
	"time"

	"github.com/xtxerr/oscana/internal/errors"
)

// VersionLayout is the release-date format of versions.
const VersionLayout = "2006-01-02"

// Release is one dated implementation of a logical name.
type Release[T any] struct {
	Version string
	// Label is a short human-readable identifier such as "naive-v1".
	Label string
	Impl  T

	date time.Time
}

// Versioned holds the releases of one logical implementation, ordered by
// release date. The latest release is the default.
type Versioned[T any] struct {
	name     string
	releases []Release[T]
}

// NewVersioned returns an empty release list for name.
func NewVersioned[T any](name string) *Versioned[T] {
	return &Versioned[T]{name: name}
}

// Name returns the logical name.
func (v *Versioned[T]) Name() string { return v.name }

// Add registers impl under a release date. Dates must parse and be unique.
func (v *Versioned[T]) Add(version, label string, impl T) error {
	date, err := time.Parse(VersionLayout, version)
	if err != nil {
		return errors.NewInvalidValue(v.name+" version", version, "expected YYYY-MM-DD")
	}
	for _, r := range v.releases {
		if r.date.Equal(date) {
			return errors.NewInvalidValue(v.name+" version", version, "already released")
		}
	}

	v.releases = append(v.releases, Release[T]{Version: version, Label: label, Impl: impl, date: date})
	sort.Slice(v.releases, func(i, j int) bool {
		return v.releases[i].date.Before(v.releases[j].date)
	})
	return nil
}

// MustAdd is Add for static registration tables.
func (v *Versioned[T]) MustAdd(version, label string, impl T) *Versioned[T] {
	if err := v.Add(version, label, impl); err != nil {
		panic(err)
	}
	return v
}

// Latest returns the release with the most recent date.
func (v *Versioned[T]) Latest() (Release[T], bool) {
	if len(v.releases) == 0 {
		return Release[T]{}, false
	}
	return v.releases[len(v.releases)-1], true
}

// At returns the release of a version date or label.
func (v *Versioned[T]) At(version string) (Release[T], error) {
	for _, r := range v.releases {
		if r.Version == version || r.Label == version {
			return r, nil
		}
	}
	return Release[T]{}, fmt.Errorf("%s release '%s': %w", v.name, version, errors.ErrNotImplemented)
}

// Versions returns the release dates, oldest first.
func (v *Versioned[T]) Versions() []string {
	out := make([]string, len(v.releases))
	for i, r := range v.releases {
		out[i] = r.Version
	}
	return out
}

// Select returns the release pinned by version, or the latest release when
// version is empty.
func (v *Versioned[T]) Select(version string) (Release[T], error) {
	if version != "" {
		return v.At(version)
	}
	r, ok := v.Latest()
	if !ok {
		return Release[T]{}, fmt.Errorf("%s has no releases: %w", v.name, errors.ErrNotImplemented)
	}
	return r, nil
}
