package layout

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/philipparndt/rigfit/pkg/geometry"
)

// Layout is a named set of fixture positions
type Layout struct {
	Name     string
	Fixtures []geometry.Point3D
}

// NewLayout creates an empty layout
func NewLayout(name string) *Layout {
	return &Layout{
		Name:     name,
		Fixtures: make([]geometry.Point3D, 0),
	}
}

// AddFixture appends a fixture, generating an id when it has none
func (l *Layout) AddFixture(p geometry.Point3D) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	l.Fixtures = append(l.Fixtures, p)
}

// FixtureCount returns the number of fixtures in the layout
func (l *Layout) FixtureCount() int {
	return len(l.Fixtures)
}

// Points returns a copy of the fixture positions
func (l *Layout) Points() []geometry.Point3D {
	return append([]geometry.Point3D(nil), l.Fixtures...)
}

// BoundingBox calculates the bounding box of all fixtures
func (l *Layout) BoundingBox() geometry.BoundingBox {
	return geometry.BoundsOf(l.Fixtures)
}

// Filter returns the fixtures with the given ids, in the order the ids are
// listed. An unknown id is an error.
func (l *Layout) Filter(ids []string) ([]geometry.Point3D, error) {
	byID := make(map[string]geometry.Point3D, len(l.Fixtures))
	for _, f := range l.Fixtures {
		byID[f.ID] = f
	}

	selected := make([]geometry.Point3D, 0, len(ids))
	for _, id := range ids {
		f, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown fixture %q", id)
		}
		selected = append(selected, f)
	}
	return selected, nil
}

// validate rejects duplicate fixture ids
func (l *Layout) validate() error {
	seen := make(map[string]bool, len(l.Fixtures))
	for _, f := range l.Fixtures {
		if seen[f.ID] {
			return fmt.Errorf("duplicate fixture id %q", f.ID)
		}
		seen[f.ID] = true
	}
	return nil
}
