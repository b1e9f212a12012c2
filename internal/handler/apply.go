package handler

import (
	"fmt"

	"github.com/xtxerr/oscana/internal/errors"
	"github.com/xtxerr/oscana/internal/metadata"
	"github.com/xtxerr/oscana/internal/transform"
)

// OutcomeKind classifies the result of a transform batch.
type OutcomeKind int

const (
	// Success means every transform was applied.
	Success OutcomeKind = iota
	// PartialFailure means at least one transform failed. The successful
	// ones are still applied.
	PartialFailure
)

func (k OutcomeKind) String() string {
	if k == Success {
		return "success"
	}
	return "partial_failure"
}

// Outcome accumulates the results of a transform batch.
type Outcome struct {
	Kind    OutcomeKind
	Total   int
	Applied int
	// Diagnostics holds one entry per failed transform, in batch order.
	Diagnostics []errors.ItemError
}

// Err returns the aggregate batch error, or nil on success.
func (o Outcome) Err() error {
	return errors.NewBatchError("apply transforms", o.Total, o.Diagnostics)
}

func (o *Outcome) fail(i int, name string, err error) {
	o.Kind = PartialFailure
	o.Diagnostics = append(o.Diagnostics, errors.ItemError{Item: name, Index: i, Err: err})
}

// ApplyTransforms applies ts in order. A failing transform is logged as a
// warning and skipped; the loop continues and the remaining transforms see
// the state left by the successful ones. After the last transform, k
// failures are returned as a single BatchError with k items.
func (h *Handler) ApplyTransforms(ts ...transform.Transform) error {
	return h.Apply(ts...).Err()
}

// Apply is ApplyTransforms returning the full outcome.
func (h *Handler) Apply(ts ...transform.Transform) Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := Outcome{Kind: Success, Total: len(ts)}
	for i, t := range ts {
		name := t.Name()
		before := h.strategy.DataLength(h.state)

		after, err := h.applyOne(t)
		if err != nil {
			h.log.Warn("transform failed",
				"transform", transform.String(t),
				"index", i,
				"error", err)
			if h.metrics != nil {
				h.metrics.TransformFailed(name)
			}
			out.fail(i, name, err)
			continue
		}

		h.state.Ledger.Add(metadata.Entry{
			Name:       name,
			Kind:       t.Kind(),
			Params:     t.Params(),
			RowsBefore: before,
			RowsAfter:  after,
		})
		if h.metrics != nil {
			h.metrics.TransformApplied(name)
		}
		out.Applied++

		h.log.Debug("transform applied",
			"transform", transform.String(t),
			"rows_before", before,
			"rows_after", after)
	}
	return out
}

// applyOne runs t against the current state and installs the result. The
// state is only replaced when the transform succeeds.
func (h *Handler) applyOne(t transform.Transform) (rows int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	frame, err := h.state.Frame()
	if err != nil {
		return 0, err
	}

	res, err := t.Apply(transform.State{Data: frame, Cuts: h.state.Cuts})
	if err != nil {
		return 0, err
	}
	if res.Data == nil {
		return 0, fmt.Errorf("transform returned no table")
	}

	cuts := res.Cuts
	if h.makeCuts {
		if cuts == nil {
			cuts = h.state.Cuts
		}
		if cuts.Len() != res.Data.Len() {
			return 0, fmt.Errorf("cuts table has %d rows, data has %d: %w",
				cuts.Len(), res.Data.Len(), errors.ErrLengthMismatch)
		}
	} else {
		cuts = nil
	}

	data, err := h.strategy.Adopt(res.Data)
	if err != nil {
		return 0, err
	}

	h.state.Data = data
	h.state.Cuts = cuts
	return res.Data.Len(), nil
}
