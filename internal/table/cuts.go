package table

import (
	"fmt"

	"github.com/xtxerr/oscana/internal/errors"
)

// Cuts is the optional cuts boolean table: one named mask per applied cut,
// row-aligned with the data frame. A true entry means the row passes.
type Cuts struct {
	rows  int
	names []string
	masks map[string][]bool
}

// NewCuts returns a cuts table with n rows and no masks.
func NewCuts(n int) *Cuts {
	return &Cuts{rows: n, masks: make(map[string][]bool)}
}

// Len returns the row count.
func (c *Cuts) Len() int {
	if c == nil {
		return 0
	}
	return c.rows
}

// Names returns the mask names in the order they were added.
func (c *Cuts) Names() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.names...)
}

// Mask returns a copy of the named mask.
func (c *Cuts) Mask(name string) ([]bool, bool) {
	if c == nil {
		return nil, false
	}
	m, ok := c.masks[name]
	if !ok {
		return nil, false
	}
	return append([]bool(nil), m...), true
}

// With returns a cuts table holding mask under name. An existing mask of
// the same name is replaced in place.
func (c *Cuts) With(name string, mask []bool) (*Cuts, error) {
	if len(mask) != c.Len() {
		return nil, fmt.Errorf("cut '%s' has %d rows, table has %d: %w", name, len(mask), c.Len(), errors.ErrLengthMismatch)
	}
	out := c.clone()
	if _, ok := out.masks[name]; !ok {
		out.names = append(out.names, name)
	}
	out.masks[name] = append([]bool(nil), mask...)
	return out, nil
}

// Grow returns a cuts table with n rows appended. New rows fail every
// existing cut until the cut is re-applied.
func (c *Cuts) Grow(n int) *Cuts {
	out := c.clone()
	out.rows += n
	for name, m := range out.masks {
		grown := make([]bool, len(m)+n)
		copy(grown, m)
		out.masks[name] = grown
	}
	return out
}

// Filter returns the rows where keep is true.
func (c *Cuts) Filter(keep []bool) (*Cuts, error) {
	if len(keep) != c.Len() {
		return nil, fmt.Errorf("filter mask has %d rows, cuts table has %d: %w", len(keep), c.Len(), errors.ErrLengthMismatch)
	}
	out := NewCuts(0)
	for _, k := range keep {
		if k {
			out.rows++
		}
	}
	for _, name := range c.names {
		m := c.masks[name]
		nm := make([]bool, 0, out.rows)
		for i, k := range keep {
			if k {
				nm = append(nm, m[i])
			}
		}
		out.names = append(out.names, name)
		out.masks[name] = nm
	}
	return out, nil
}

// All returns the AND of every mask. With no masks every row passes.
func (c *Cuts) All() []bool {
	all := make([]bool, c.Len())
	for i := range all {
		all[i] = true
	}
	if c == nil {
		return all
	}
	for _, m := range c.masks {
		for i, v := range m {
			all[i] = all[i] && v
		}
	}
	return all
}

// Passing returns how many rows pass every cut.
func (c *Cuts) Passing() int {
	n := 0
	for _, v := range c.All() {
		if v {
			n++
		}
	}
	return n
}

func (c *Cuts) clone() *Cuts {
	out := NewCuts(c.Len())
	if c == nil {
		return out
	}
	out.names = append(out.names, c.names...)
	for k, v := range c.masks {
		out.masks[k] = v
	}
	return out
}
