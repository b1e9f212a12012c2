// Package validation provides centralized input validation for oscana.
package validation

import (
	"fmt"
	"strings"
	"unicode"
)

// =============================================================================
// Name Validation
// =============================================================================

// NameRules defines the validation rules for names.
type NameRules struct {
	MinLength    int
	MaxLength    int
	AllowDots    bool
	AllowHyphens bool
	AllowUnders  bool
	// AllowAngles permits '<' and '>' as in templated record classes.
	AllowAngles bool
}

// DefaultNameRules returns the rules for strategy and transform names.
func DefaultNameRules() NameRules {
	return NameRules{
		MinLength:    1,
		MaxLength:    255,
		AllowDots:    false,
		AllowHyphens: true,
		AllowUnders:  true,
	}
}

// BranchRules returns rules for the leading branch of a variable path.
func BranchRules() NameRules {
	return NameRules{
		MinLength:   1,
		MaxLength:   255,
		AllowUnders: true,
	}
}

// FieldRules returns rules for each segment of a variable field path.
func FieldRules() NameRules {
	return NameRules{
		MinLength:    1,
		MaxLength:    255,
		AllowDots:    true,
		AllowHyphens: true,
		AllowUnders:  true,
		AllowAngles:  true,
	}
}

// ValidateName validates a name according to the given rules.
func ValidateName(name string, rules NameRules) error {
	if len(name) < rules.MinLength {
		return fmt.Errorf("name too short: minimum %d characters required", rules.MinLength)
	}
	if len(name) > rules.MaxLength {
		return fmt.Errorf("name too long: maximum %d characters allowed", rules.MaxLength)
	}

	if name == "." || name == ".." {
		return fmt.Errorf("name cannot be '.' or '..'")
	}

	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("name cannot start with '.'")
	}

	for i, r := range name {
		if r < 32 || r == 127 {
			return fmt.Errorf("name cannot contain control characters at position %d", i)
		}
		if r == '/' || r == '\\' {
			return fmt.Errorf("name cannot contain path separators at position %d", i)
		}
		if !isAllowedNameChar(r, rules) {
			return fmt.Errorf("invalid character '%c' at position %d", r, i)
		}
	}

	return nil
}

func isAllowedNameChar(r rune, rules NameRules) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '.':
		return rules.AllowDots
	case '-':
		return rules.AllowHyphens
	case '_':
		return rules.AllowUnders
	case '<', '>':
		return rules.AllowAngles
	}
	return false
}

// ValidateEntityName validates a strategy or transform name with default rules.
func ValidateEntityName(name string) error {
	return ValidateName(name, DefaultNameRules())
}

// =============================================================================
// Variable Path Validation
// =============================================================================

// VariableRef is a parsed "<branch>/<field.path>" reference.
type VariableRef struct {
	Branch string
	// Field is everything after the branch, possibly with further '/'.
	Field string
	// Key is the trailing segment, used as the column name.
	Key string
}

// ParseVariablePath parses a fully-qualified record variable path.
func ParseVariablePath(path string) (*VariableRef, error) {
	if path == "" {
		return nil, fmt.Errorf("empty variable path")
	}

	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid variable path format: expected '<branch>/<field>', got '%s'", path)
	}

	branch, field := parts[0], parts[1]
	if err := ValidateName(branch, BranchRules()); err != nil {
		return nil, fmt.Errorf("invalid branch in '%s': %w", path, err)
	}

	segments := strings.Split(field, "/")
	for _, s := range segments {
		if err := ValidateName(s, FieldRules()); err != nil {
			return nil, fmt.Errorf("invalid field segment in '%s': %w", path, err)
		}
	}

	return &VariableRef{
		Branch: branch,
		Field:  field,
		Key:    segments[len(segments)-1],
	}, nil
}

// String returns the full variable path.
func (r *VariableRef) String() string {
	return r.Branch + "/" + r.Field
}
