package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestCategories(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"strategy", NewStrategyNotFound("NoSuchIO", nil), IsConfiguration},
		{"duplicate variable", fmt.Errorf("x: %w", ErrDuplicateVariable), IsConfiguration},
		{"duplicate file", ErrDuplicateFile, IsConfiguration},
		{"incompatible", ErrIncompatibleMetadata, IsProvenance},
		{"file name", ErrUnknownFileName, IsProvenance},
		{"env key", ErrEnvKeyNotFound, IsResolution},
		{"branch", fmt.Errorf("read: %w", ErrBranchNotFound), IsResolution},
		{"not implemented", NewNotImplemented("FrameIO", "udst"), IsNotImplemented},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Errorf("category check failed for %v", tt.err)
			}
		})
	}

	if IsResolution(ErrDuplicateFile) {
		t.Error("duplicate file must not be a resolution error")
	}
}

func TestStrategyNotFoundNamesStrategy(t *testing.T) {
	err := NewStrategyNotFound("NoSuchIO", []string{"FrameIO", "ArrowIO"})
	if !strings.Contains(err.Error(), "NoSuchIO") {
		t.Errorf("message should name the strategy: %q", err)
	}
	if !Is(err, ErrStrategyNotFound) {
		t.Error("expected ErrStrategyNotFound")
	}
}

func TestBatchError(t *testing.T) {
	if NewBatchError("load", 3, nil) != nil {
		t.Fatal("empty failure list must produce nil")
	}

	err := NewBatchError("load", 3, []ItemError{
		{Item: "a.root", Index: 0, Err: ErrFileNotFound},
		{Item: "b.root", Index: 2, Err: fmt.Errorf("run 1002: %w", ErrIncompatibleMetadata)},
	})

	if !IsBatch(err) {
		t.Fatal("expected batch error")
	}
	if !Is(err, ErrBatchFailed) {
		t.Error("expected ErrBatchFailed")
	}
	if !Is(err, ErrIncompatibleMetadata) || !Is(err, ErrFileNotFound) {
		t.Error("item errors should be reachable through Unwrap")
	}

	var be *BatchError
	if !As(err, &be) {
		t.Fatal("As failed")
	}
	if be.Count() != 2 {
		t.Errorf("Count() = %d, want 2", be.Count())
	}
	if !strings.Contains(err.Error(), "2 of 3") {
		t.Errorf("unexpected message: %q", err)
	}
}

func TestValidationErrors(t *testing.T) {
	v := NewValidationErrors()
	if v.Err() != nil {
		t.Error("empty collector should return nil")
	}

	v.AddMissing("strategy")
	v.AddField("variables", "empty")
	v.Add(nil)

	if len(v.Errors) != 2 {
		t.Fatalf("got %d errors, want 2", len(v.Errors))
	}
	if !Is(v.Err(), ErrMissingField) || !Is(v.Err(), ErrInvalidConfig) {
		t.Error("collected errors should be reachable")
	}
}
