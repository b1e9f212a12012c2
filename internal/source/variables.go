// Package source reads detector records and their file metadata.
package source

import (
	"fmt"

	"github.com/xtxerr/oscana/internal/errors"
	"github.com/xtxerr/oscana/internal/validation"
)

// Record branches.
const (
	BranchNtpSt     = "NtpSt"
	BranchNtpBDLite = "NtpBDLite"
	BranchNtpFitSA  = "NtpFitSA"
	BranchRecord    = "NtpStRecord"
)

// Summary variables read for file metadata rather than as table columns.
const (
	RunVariable = "NtpStRecord/RecRecordImp<RecCandHeader>/fHeader.RecPhysicsHeader/fHeader.RecDataHeader/fHeader.fRun"
	UTCVariable = "NtpStRecord/evthdr/evthdr.date.utc"
)

// Variable is a requested record variable.
type Variable struct {
	// Path is the fully-qualified "<branch>/<field.path>" form.
	Path   string
	Branch string
	// Key is the trailing field segment and the table column name.
	Key string
}

func (v Variable) String() string { return v.Path }

// ParseVariable parses one variable path.
func ParseVariable(path string) (Variable, error) {
	ref, err := validation.ParseVariablePath(path)
	if err != nil {
		return Variable{}, fmt.Errorf("%v: %w", err, errors.ErrInvalidVariable)
	}
	return Variable{Path: path, Branch: ref.Branch, Key: ref.Key}, nil
}

// ParseVariables parses a variable list. Repeated paths, and distinct paths
// that would share a column key, fail with ErrDuplicateVariable.
func ParseVariables(paths []string) ([]Variable, error) {
	seen := make(map[string]string, len(paths))
	vars := make([]Variable, 0, len(paths))
	for _, p := range paths {
		v, err := ParseVariable(p)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[v.Key]; dup {
			if prev == p {
				return nil, fmt.Errorf("'%s': %w", p, errors.ErrDuplicateVariable)
			}
			return nil, fmt.Errorf("'%s' and '%s' share column '%s': %w", prev, p, v.Key, errors.ErrDuplicateVariable)
		}
		seen[v.Key] = p
		vars = append(vars, v)
	}
	return vars, nil
}

// Keys returns the column keys of vars in order.
func Keys(vars []Variable) []string {
	keys := make([]string, len(vars))
	for i, v := range vars {
		keys[i] = v.Key
	}
	return keys
}
