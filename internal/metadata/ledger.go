package metadata

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xtxerr/oscana/internal/errors"
)

// Kind separates cuts (row selections) from feature transforms.
type Kind string

const (
	KindCut       Kind = "cut"
	KindTransform Kind = "tfm"
)

func (k Kind) tag() string {
	if k == KindCut {
		return "CUT"
	}
	return "TFM"
}

// Entry is one recorded transform application.
type Entry struct {
	Name   string         `yaml:"name"`
	Kind   Kind           `yaml:"kind"`
	Params map[string]any `yaml:"params"`

	RowsBefore int `yaml:"rows_before,omitempty"`
	RowsAfter  int `yaml:"rows_after,omitempty"`
}

// Ledger is the append-only log of transforms applied to a dataset.
// The zero value is an empty ledger.
type Ledger struct {
	entries []Entry
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Add appends an entry. Params are copied.
func (l *Ledger) Add(e Entry) {
	e.Params = copyParams(e.Params)
	l.entries = append(l.entries, e)
}

// Entries returns a copy of the recorded entries in order.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		e.Params = copyParams(e.Params)
		out[i] = e
	}
	return out
}

// Clone returns an independent copy of l.
func (l *Ledger) Clone() *Ledger {
	if l == nil {
		return NewLedger()
	}
	return &Ledger{entries: l.Entries()}
}

// Len returns the number of recorded entries.
func (l *Ledger) Len() int { return len(l.entries) }

// Names returns the distinct transform names, sorted.
func (l *Ledger) Names() []string {
	set := l.nameSet()
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (l *Ledger) nameSet() map[string]struct{} {
	set := make(map[string]struct{}, len(l.entries))
	for _, e := range l.entries {
		set[e.Name] = struct{}{}
	}
	return set
}

// Equal reports provenance equality: the two ledgers applied the same set
// of transform names. Order, repeats and parameter values are ignored, so
// this only catches a transform missing from one side.
func (l *Ledger) Equal(o *Ledger) bool {
	a, b := l.nameSet(), o.nameSet()
	if len(a) != len(b) {
		return false
	}
	for n := range a {
		if _, ok := b[n]; !ok {
			return false
		}
	}
	return true
}

// StrictEqual reports whether both ledgers hold the same sequence of
// transforms with the same parameters.
func (l *Ledger) StrictEqual(o *Ledger) bool {
	if len(l.entries) != len(o.entries) {
		return false
	}
	for i := range l.entries {
		a, b := l.entries[i], o.entries[i]
		if a.Name != b.Name || a.Kind != b.Kind {
			return false
		}
		if !bytes.Equal(canonicalParams(a.Params), canonicalParams(b.Params)) {
			return false
		}
	}
	return true
}

// canonicalParams renders params with sorted keys so that equal values
// decoded through different paths compare equal.
func canonicalParams(p map[string]any) []byte {
	if len(p) == 0 {
		return nil
	}
	out, err := yaml.Marshal(p)
	if err != nil {
		return []byte(fmt.Sprint(p))
	}
	return out
}

// String renders the ledger as a "[CUT] name(k=v)" listing.
func (l *Ledger) String() string {
	var b strings.Builder
	b.WriteString("Cuts & Transforms\n-----------------\n")
	if len(l.entries) == 0 {
		b.WriteString("\t[ No Cuts & Transforms Applied ]\n")
		return b.String()
	}
	for _, e := range l.entries {
		fmt.Fprintf(&b, "[%s] %s(%s)\n", e.Kind.tag(), e.Name, FormatParams(e.Params))
	}
	return b.String()
}

// FormatParams renders params as sorted k=v pairs.
func FormatParams(p map[string]any) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, p[k])
	}
	return strings.Join(parts, ", ")
}

type ledgerDoc struct {
	Transforms *[]Entry `yaml:"transforms"`
}

// MarshalYAML encodes the ledger as a "transforms" list.
func (l *Ledger) MarshalYAML() (interface{}, error) {
	entries := l.Entries()
	return ledgerDoc{Transforms: &entries}, nil
}

// Encode serialises the ledger to YAML.
func (l *Ledger) Encode() ([]byte, error) {
	return yaml.Marshal(l)
}

// DecodeLedger parses a ledger written by Encode. It fails if the
// "transforms" key is missing or an entry has no name.
func DecodeLedger(data []byte) (*Ledger, error) {
	var doc ledgerDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}
	if doc.Transforms == nil {
		return nil, fmt.Errorf("decode ledger: %w", errors.NewMissingField("transforms"))
	}

	l := NewLedger()
	for i, e := range *doc.Transforms {
		if e.Name == "" {
			return nil, fmt.Errorf("decode ledger: transforms[%d]: %w", i, errors.NewMissingField("name"))
		}
		if e.Kind == "" {
			e.Kind = KindTransform
		}
		l.Add(e)
	}
	return l, nil
}

func copyParams(p map[string]any) map[string]any {
	if p == nil {
		return nil
	}
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
