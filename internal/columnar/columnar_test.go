package columnar

import (
	"reflect"
	"strings"
	"testing"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"

	"github.com/xtxerr/oscana/internal/table"
)

func TestRecordFrameConversion(t *testing.T) {
	f, err := table.NewFrame(
		table.Scalar("evt.ph", 1.5, 2.5, 3.5),
		table.Jagged("stp.plane", []float64{1, 2}, []float64{}, []float64{7}),
	)
	if err != nil {
		t.Fatal(err)
	}

	rec := Record(memory.NewGoAllocator(), f, func(n string) string { return "NtpSt/" + n })
	defer rec.Release()

	if rec.NumRows() != 3 || rec.NumCols() != 2 {
		t.Fatalf("record shape %dx%d", rec.NumRows(), rec.NumCols())
	}
	if rec.Schema().Field(0).Name != "NtpSt/evt.ph" {
		t.Errorf("field name = %q", rec.Schema().Field(0).Name)
	}
	if !arrow.TypeEqual(rec.Schema().Field(1).Type, ListType) {
		t.Errorf("jagged type = %s", rec.Schema().Field(1).Type)
	}

	back, err := Frame(rec, func(n string) string { return strings.TrimPrefix(n, "NtpSt/") })
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back.Names(), f.Names()) {
		t.Errorf("names = %v", back.Names())
	}
	ph, _ := back.Column("evt.ph")
	if !reflect.DeepEqual(ph.Values, []float64{1.5, 2.5, 3.5}) {
		t.Errorf("evt.ph = %v", ph.Values)
	}
	plane, _ := back.Column("stp.plane")
	if !reflect.DeepEqual(plane.Lists, [][]float64{{1, 2}, {}, {7}}) {
		t.Errorf("stp.plane = %v", plane.Lists)
	}
}

func TestInt64s(t *testing.T) {
	mem := memory.NewGoAllocator()

	ib := array.NewInt64Builder(mem)
	defer ib.Release()
	ib.AppendValues([]int64{1001, 1002}, nil)
	ints := ib.NewArray()
	defer ints.Release()

	fb := array.NewFloat64Builder(mem)
	defer fb.Release()
	fb.AppendValues([]float64{1003}, nil)
	floats := fb.NewArray()
	defer floats.Release()

	got, err := Int64s([]arrow.Array{ints, floats})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []int64{1001, 1002, 1003}) {
		t.Errorf("Int64s = %v", got)
	}
}

func TestUnsupportedType(t *testing.T) {
	mem := memory.NewGoAllocator()
	sb := array.NewStringBuilder(mem)
	defer sb.Release()
	sb.Append("x")
	arr := sb.NewArray()
	defer arr.Release()

	if _, err := ColumnFromChunks("s", []arrow.Array{arr}); err == nil {
		t.Error("expected error for string column")
	}
}
