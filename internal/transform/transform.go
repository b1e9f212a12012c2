// Package transform implements the named, parameterised operations applied
// to a handler's table and cuts mask.
//
// A Transform is a pure function of the State it receives and the
// parameters captured when it was built. Recording an application in the
// ledger is the caller's job.
package transform

import (
	"fmt"

	"github.com/xtxerr/oscana/internal/metadata"
	"github.com/xtxerr/oscana/internal/table"
)

// State is the part of a handler a transform may read and replace.
type State struct {
	Data *table.Frame
	// Cuts is nil when the handler has no cuts table.
	Cuts *table.Cuts
}

// Transform is one named operation.
type Transform interface {
	Name() string
	Kind() metadata.Kind
	// Params returns the captured parameters. Callers must not modify it.
	Params() map[string]any
	Apply(st State) (State, error)
}

// String renders t as name(k=v, ...).
func String(t Transform) string {
	return fmt.Sprintf("%s(%s)", t.Name(), metadata.FormatParams(t.Params()))
}

// Func adapts a function to Transform.
type Func struct {
	ID   string
	Type metadata.Kind
	Args map[string]any
	Fn   func(st State) (State, error)
}

func (f Func) Name() string { return f.ID }

func (f Func) Kind() metadata.Kind {
	if f.Type == "" {
		return metadata.KindTransform
	}
	return f.Type
}

func (f Func) Params() map[string]any { return f.Args }

func (f Func) Apply(st State) (State, error) {
	if f.Fn == nil {
		return st, fmt.Errorf("transform '%s' has no function", f.ID)
	}
	return f.Fn(st)
}
