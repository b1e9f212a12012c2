package metadata

import (
	"strings"
	"testing"

	"github.com/xtxerr/oscana/internal/errors"
)

func ledgerOf(names ...string) *Ledger {
	l := NewLedger()
	for _, n := range names {
		l.Add(Entry{Name: n, Kind: KindCut})
	}
	return l
}

func TestLedgerEqual(t *testing.T) {
	ab, ba := ledgerOf("a", "b"), ledgerOf("b", "a")
	aa, a := ledgerOf("a", "a"), ledgerOf("a")

	if !ab.Equal(ab) {
		t.Error("Equal must be reflexive")
	}
	if !ab.Equal(ba) || !ba.Equal(ab) {
		t.Error("Equal must ignore order and be symmetric")
	}
	if !aa.Equal(a) || !a.Equal(aa) {
		t.Error("Equal must ignore repeats")
	}
	if a.Equal(ab) || ab.Equal(a) {
		t.Error("missing transform must break equality")
	}
	if !NewLedger().Equal(&Ledger{}) {
		t.Error("empty ledgers are equal")
	}
}

func TestLedgerEqualIgnoresParams(t *testing.T) {
	x, y := NewLedger(), NewLedger()
	x.Add(Entry{Name: "range_cut", Kind: KindCut, Params: map[string]any{"min": 0}})
	y.Add(Entry{Name: "range_cut", Kind: KindCut, Params: map[string]any{"min": 10}})

	if !x.Equal(y) {
		t.Error("Equal ignores parameters")
	}
	if x.StrictEqual(y) {
		t.Error("StrictEqual compares parameters")
	}
}

func TestLedgerStrictEqual(t *testing.T) {
	if ledgerOf("a", "b").StrictEqual(ledgerOf("b", "a")) {
		t.Error("StrictEqual is order sensitive")
	}
	if ledgerOf("a", "a").StrictEqual(ledgerOf("a")) {
		t.Error("StrictEqual is repeat sensitive")
	}

	x, y := NewLedger(), NewLedger()
	x.Add(Entry{Name: "n", Params: map[string]any{"col": "e", "max": 5}})
	y.Add(Entry{Name: "n", Params: map[string]any{"max": 5, "col": "e"}})
	if !x.StrictEqual(y) {
		t.Error("identical params must be strictly equal")
	}
}

func TestLedgerAppendOnly(t *testing.T) {
	l := NewLedger()
	params := map[string]any{"min": 1}
	l.Add(Entry{Name: "range_cut", Params: params})
	params["min"] = 99

	entries := l.Entries()
	entries[0].Params["min"] = 42
	entries[0].Name = "changed"

	got := l.Entries()[0]
	if got.Name != "range_cut" || got.Params["min"] != 1 {
		t.Errorf("ledger was mutated from outside: %+v", got)
	}
}

func TestLedgerEncodeDecode(t *testing.T) {
	l := NewLedger()
	l.Add(Entry{Name: "valid_plane", Kind: KindCut, RowsBefore: 10, RowsAfter: 8})
	l.Add(Entry{Name: "normalise", Kind: KindTransform, Params: map[string]any{"column": "evt.ph"}})

	data, err := l.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "transforms:") {
		t.Fatalf("missing transforms key:\n%s", data)
	}

	got, err := DecodeLedger(data)
	if err != nil {
		t.Fatal(err)
	}
	if !got.StrictEqual(l) {
		t.Errorf("decoded ledger differs:\n%s", got)
	}
	if got.Entries()[0].RowsAfter != 8 {
		t.Error("row counts not preserved")
	}
}

func TestDecodeLedgerErrors(t *testing.T) {
	if _, err := DecodeLedger([]byte("other: 1\n")); !errors.Is(err, errors.ErrMissingField) {
		t.Errorf("missing key: got %v", err)
	}
	if _, err := DecodeLedger([]byte("transforms:\n  - params: {a: 1}\n")); !errors.Is(err, errors.ErrMissingField) {
		t.Errorf("missing name: got %v", err)
	}
	l, err := DecodeLedger([]byte("transforms: []\n"))
	if err != nil || l.Len() != 0 {
		t.Errorf("empty list: %v %v", l, err)
	}
}

func TestLedgerString(t *testing.T) {
	if !strings.Contains(NewLedger().String(), "No Cuts & Transforms Applied") {
		t.Error("empty ledger message missing")
	}

	l := NewLedger()
	l.Add(Entry{Name: "range_cut", Kind: KindCut, Params: map[string]any{"max": 5, "column": "x"}})
	l.Add(Entry{Name: "normalise", Kind: KindTransform})
	s := l.String()
	if !strings.Contains(s, "[CUT] range_cut(column=x, max=5)") || !strings.Contains(s, "[TFM] normalise()") {
		t.Errorf("unexpected listing:\n%s", s)
	}
}
